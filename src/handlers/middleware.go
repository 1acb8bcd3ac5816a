package handlers

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/canerthemaster123/receipto-tr-rewards-sub001/src/database"
	"github.com/canerthemaster123/receipto-tr-rewards-sub001/src/logger"
	"github.com/canerthemaster123/receipto-tr-rewards-sub001/src/model"
	"github.com/canerthemaster123/receipto-tr-rewards-sub001/src/utils"
)

// contextKey is unexported so no other package can collide with our keys.
type contextKey string

const userIDContextKey contextKey = "userID"

// GetUserIDFromContext retrieves the authenticated user's id placed there by
// AuthMiddleware.
func GetUserIDFromContext(ctx context.Context) (int64, bool) {
	userID, ok := ctx.Value(userIDContextKey).(int64)
	return userID, ok
}

// AuthMiddleware validates the bearer token and the backing session, then
// stores the user id in the request context.
func (h *UserHandler) AuthMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			logger.L.Debug("AuthMiddleware: Authorization header missing", "path", r.URL.Path)
			utils.SendJSONError(w, "Authorization header required", http.StatusUnauthorized)
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == "" {
			utils.SendJSONError(w, "Malformed token", http.StatusUnauthorized)
			return
		}

		userIDStr, err := h.authService.ValidateToken(tokenString)
		if err != nil {
			logger.L.Warn("AuthMiddleware: Token validation failed", "path", r.URL.Path, "error", err)
			utils.SendJSONError(w, "Invalid or expired token", http.StatusUnauthorized)
			return
		}

		if _, err := model.GetSessionByToken(database.DB, tokenString); err != nil {
			logger.L.Warn("AuthMiddleware: Session validation failed", "path", r.URL.Path, "error", err)
			utils.SendJSONError(w, "Invalid or expired session", http.StatusUnauthorized)
			return
		}

		userIDInt, err := strconv.ParseInt(userIDStr, 10, 64)
		if err != nil {
			logger.L.Error("AuthMiddleware: Invalid user ID format in token", "userIDStr", userIDStr, "error", err)
			utils.SendJSONError(w, "Invalid user ID in token", http.StatusInternalServerError)
			return
		}

		ctx := context.WithValue(r.Context(), userIDContextKey, userIDInt)
		next(w, r.WithContext(ctx))
	}
}

// RequireAdmin wraps a handler that manages reference data. Must run inside
// AuthMiddleware so the user id is already in the context.
func RequireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := GetUserIDFromContext(r.Context())
		if !ok {
			utils.SendJSONError(w, "authentication required", http.StatusUnauthorized)
			return
		}

		user, err := model.GetUserByID(database.DB, userID)
		if err != nil {
			logger.L.Warn("RequireAdmin: user lookup failed", "userID", userID, "error", err)
			utils.SendJSONError(w, "authentication required", http.StatusUnauthorized)
			return
		}
		if !user.IsAdmin {
			logger.L.Warn("RequireAdmin: non-admin user denied", "userID", userID, "path", r.URL.Path)
			utils.SendJSONError(w, "admin privileges required", http.StatusForbidden)
			return
		}

		next(w, r)
	}
}
