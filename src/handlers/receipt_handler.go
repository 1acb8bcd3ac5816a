// backend/src/handlers/receipt_handler.go
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/canerthemaster123/receipto-tr-rewards-sub001/src/config"
	"github.com/canerthemaster123/receipto-tr-rewards-sub001/src/logger"
	"github.com/canerthemaster123/receipto-tr-rewards-sub001/src/services"
	"github.com/canerthemaster123/receipto-tr-rewards-sub001/src/utils"
)

type ReceiptHandler struct {
	ingestionService services.IngestionService
}

func NewReceiptHandler(service services.IngestionService) *ReceiptHandler {
	return &ReceiptHandler{ingestionService: service}
}

// HandleIngestReceipt accepts the OCR text of one receipt and runs it
// through the full pipeline.
func (h *ReceiptHandler) HandleIngestReceipt(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "authentication required or user ID not found in context", http.StatusUnauthorized)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, config.Cfg.MaxReceiptTextBytes)

	var payload struct {
		RawText  string  `json:"raw_text"`
		ImageURL *string `json:"image_url"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		logger.L.Warn("Failed to decode receipt payload or request too large", "userID", userID, "error", err, "limit", config.Cfg.MaxReceiptTextBytes)
		utils.SendJSONError(w, fmt.Sprintf("Invalid request body or request too large (max %d KB)", config.Cfg.MaxReceiptTextBytes/1024), http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(payload.RawText) == "" {
		utils.SendJSONError(w, "raw_text is required", http.StatusBadRequest)
		return
	}

	result, err := h.ingestionService.ProcessReceipt(r.Context(), userID, payload.RawText, payload.ImageURL)
	if err != nil {
		if errors.Is(err, services.ErrDuplicateReceipt) {
			utils.SendJSONError(w, "This receipt was already submitted", http.StatusConflict)
			return
		}
		logger.L.Error("Internal error processing receipt", "userID", userID, "error", err)
		utils.SendJSONError(w, "An internal error occurred while processing the receipt. Please try again later.", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(result); err != nil {
		logger.L.Error("Error encoding JSON response for receipt result", "userID", userID, "error", err)
	}
}

// HandleGetReceipts lists the caller's receipts with ETag support so mobile
// clients can poll cheaply.
func (h *ReceiptHandler) HandleGetReceipts(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "authentication required or user ID not found in context", http.StatusUnauthorized)
		return
	}

	receipts, err := h.ingestionService.GetUserReceipts(r.Context(), userID)
	if err != nil {
		logger.L.Error("Error retrieving receipts", "userID", userID, "error", err)
		utils.SendJSONError(w, fmt.Sprintf("Error retrieving receipts for userID %d", userID), http.StatusInternalServerError)
		return
	}

	currentETag, etagErr := utils.GenerateETag(receipts)
	if etagErr != nil {
		logger.L.Error("Failed to generate ETag for receipts", "userID", userID, "error", etagErr)
	}

	w.Header().Set("Cache-Control", "no-cache, private")
	if currentETag != "" {
		w.Header().Set("ETag", currentETag)
		if match := r.Header.Get("If-None-Match"); match != "" && match == currentETag {
			w.WriteHeader(http.StatusNotModified)
			return
		}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(receipts); err != nil {
		logger.L.Error("Error encoding JSON response for receipts", "userID", userID, "error", err)
	}
}

// HandleGetReceipt returns one receipt with its line items.
func (h *ReceiptHandler) HandleGetReceipt(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "authentication required or user ID not found in context", http.StatusUnauthorized)
		return
	}

	receiptID := r.PathValue("id")
	if receiptID == "" {
		utils.SendJSONError(w, "receipt id is required", http.StatusBadRequest)
		return
	}

	receipt, err := h.ingestionService.GetReceipt(r.Context(), userID, receiptID)
	if err != nil {
		if errors.Is(err, services.ErrReceiptNotFound) {
			utils.SendJSONError(w, "Receipt not found", http.StatusNotFound)
			return
		}
		logger.L.Error("Error retrieving receipt", "userID", userID, "receiptID", receiptID, "error", err)
		utils.SendJSONError(w, "Error retrieving receipt", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(receipt); err != nil {
		logger.L.Error("Error encoding JSON response for receipt", "userID", userID, "error", err)
	}
}
