package main

import (
	"encoding/json"
	stdlog "log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"github.com/canerthemaster123/receipto-tr-rewards-sub001/src/config"
	"github.com/canerthemaster123/receipto-tr-rewards-sub001/src/database"
	"github.com/canerthemaster123/receipto-tr-rewards-sub001/src/handlers"
	"github.com/canerthemaster123/receipto-tr-rewards-sub001/src/logger"
	"github.com/canerthemaster123/receipto-tr-rewards-sub001/src/parsers"
	"github.com/canerthemaster123/receipto-tr-rewards-sub001/src/processors"
	"github.com/canerthemaster123/receipto-tr-rewards-sub001/src/security"
	"github.com/canerthemaster123/receipto-tr-rewards-sub001/src/services"
)

var limiter = rate.NewLimiter(rate.Every(100*time.Millisecond), 30)

func rateLimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !limiter.Allow() {
			http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
			logger.L.Warn("Rate limit exceeded",
				"method", r.Method,
				"path", r.URL.Path,
				"remoteAddr", r.RemoteAddr)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		allowedOrigins := map[string]bool{
			"http://localhost:3000": true,
		}

		if allowedOrigins[origin] {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS, PUT, DELETE, PATCH")
			w.Header().Set("Access-Control-Allow-Headers", "Accept, Content-Type, Content-Length, Accept-Encoding, Authorization, X-Requested-With, If-None-Match")
			w.Header().Set("Access-Control-Expose-Headers", "ETag")
		} else if origin == "" {
			w.Header().Set("Access-Control-Allow-Origin", "*")
		}

		if r.Method == "OPTIONS" {
			logger.L.Debug("Handling OPTIONS preflight request", "path", r.URL.Path, "origin", origin)
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func main() {
	config.LoadConfig()
	logger.InitLogger(config.Cfg.LogLevel)
	logger.L.Info("Receipt ingestion backend starting...")

	if len(config.Cfg.JWTSecret) < 32 {
		logger.L.Error("JWT_SECRET configuration invalid. Must be at least 32 bytes.")
		os.Exit(1)
	}

	logger.L.Info("Initializing database...", "path", config.Cfg.DatabasePath)
	database.InitDB(config.Cfg.DatabasePath)
	logger.L.Info("Database initialized successfully.")

	mappingMemo := cache.New(config.Cfg.ChainMappingMemoTTL, 2*config.Cfg.ChainMappingMemoTTL)
	receiptCache := cache.New(config.Cfg.ReceiptCacheTTL, config.Cfg.ReceiptCacheCleanup)

	logger.L.Info("Initializing services and handlers...")
	authService := security.NewAuthService(config.Cfg.JWTSecret)
	userHandler := handlers.NewUserHandler(authService)

	mappingRepo := database.NewChainMappingRepo(database.DB)
	storeRepo := database.NewStoreLocationRepo(database.DB)

	receiptParser := parsers.NewReceiptParser()
	receiptParser.SetBarcodeTailLines(config.Cfg.BarcodeTailLines)
	merchantNormalizer := processors.NewMerchantNormalizer(mappingRepo, mappingMemo)
	storeResolver := processors.NewStoreResolver(storeRepo)

	ingestionService := services.NewIngestionService(
		receiptParser, merchantNormalizer, storeResolver,
		receiptCache, config.Cfg.ReceiptCacheTTL,
	)

	receiptHandler := handlers.NewReceiptHandler(ingestionService)
	chainMappingHandler := handlers.NewChainMappingHandler(mappingRepo, merchantNormalizer)
	storeHandler := handlers.NewStoreHandler(storeRepo)

	logger.L.Info("Configuring routes...")
	rootMux := http.NewServeMux()
	apiRouter := http.NewServeMux()

	apiRouter.HandleFunc("POST /api/auth/register", userHandler.RegisterUserHandler)
	apiRouter.HandleFunc("POST /api/auth/login", userHandler.LoginUserHandler)
	apiRouter.HandleFunc("POST /api/auth/logout", userHandler.AuthMiddleware(userHandler.LogoutUserHandler))

	apiRouter.HandleFunc("POST /api/receipts", userHandler.AuthMiddleware(receiptHandler.HandleIngestReceipt))
	apiRouter.HandleFunc("GET /api/receipts", userHandler.AuthMiddleware(receiptHandler.HandleGetReceipts))
	apiRouter.HandleFunc("GET /api/receipts/{id}", userHandler.AuthMiddleware(receiptHandler.HandleGetReceipt))

	apiRouter.HandleFunc("GET /api/admin/chain-mappings", userHandler.AuthMiddleware(handlers.RequireAdmin(chainMappingHandler.HandleList)))
	apiRouter.HandleFunc("POST /api/admin/chain-mappings", userHandler.AuthMiddleware(handlers.RequireAdmin(chainMappingHandler.HandleCreate)))
	apiRouter.HandleFunc("PUT /api/admin/chain-mappings/{id}", userHandler.AuthMiddleware(handlers.RequireAdmin(chainMappingHandler.HandleUpdate)))
	apiRouter.HandleFunc("DELETE /api/admin/chain-mappings/{id}", userHandler.AuthMiddleware(handlers.RequireAdmin(chainMappingHandler.HandleDelete)))
	apiRouter.HandleFunc("GET /api/admin/stores", userHandler.AuthMiddleware(handlers.RequireAdmin(storeHandler.HandleListStores)))

	rootMux.Handle("/api/", apiRouter)

	rootMux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})

	rootMux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/" && r.Method == http.MethodGet {
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(map[string]string{"message": "Receipt ingestion backend is running"})
		} else if !strings.HasPrefix(r.URL.Path, "/api/") {
			logger.L.Warn("Root level path not found", "method", r.Method, "path", r.URL.Path)
			http.NotFound(w, r)
		}
	})

	logger.L.Info("Applying global middleware...")
	finalHandler := enableCORS(rateLimitMiddleware(rootMux))

	serverAddr := ":" + config.Cfg.Port
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      finalHandler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.L.Info("Server starting", "address", serverAddr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.L.Error("Failed to start server", "error", err)
		stdlog.Fatalf("Failed to start server: %v", err)
	} else if err == http.ErrServerClosed {
		logger.L.Info("Server stopped gracefully.")
	}
}
