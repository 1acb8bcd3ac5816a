// backend/src/handlers/chain_mapping_handler.go
package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/canerthemaster123/receipto-tr-rewards-sub001/src/database"
	"github.com/canerthemaster123/receipto-tr-rewards-sub001/src/logger"
	"github.com/canerthemaster123/receipto-tr-rewards-sub001/src/models"
	"github.com/canerthemaster123/receipto-tr-rewards-sub001/src/processors"
	"github.com/canerthemaster123/receipto-tr-rewards-sub001/src/utils"
)

// ChainMappingHandler exposes the admin CRUD surface for the merchant
// mapping table. Every mutation flushes the normalizer memo so the pipeline
// picks up rule changes without a restart.
type ChainMappingHandler struct {
	repo       *database.ChainMappingRepo
	normalizer *processors.MerchantNormalizer
}

func NewChainMappingHandler(repo *database.ChainMappingRepo, normalizer *processors.MerchantNormalizer) *ChainMappingHandler {
	return &ChainMappingHandler{repo: repo, normalizer: normalizer}
}

func (h *ChainMappingHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	mappings, err := h.repo.ListAll(r.Context())
	if err != nil {
		logger.L.Error("Error listing chain mappings", "error", err)
		utils.SendJSONError(w, "Error listing chain mappings", http.StatusInternalServerError)
		return
	}
	if mappings == nil {
		mappings = []models.ChainMapping{}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(mappings); err != nil {
		logger.L.Error("Error encoding chain mappings response", "error", err)
	}
}

func (h *ChainMappingHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var m models.ChainMapping
	if err := json.NewDecoder(r.Body).Decode(&m); err != nil {
		utils.SendJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := validateMapping(&m); err != nil {
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.repo.Insert(r.Context(), &m); err != nil {
		logger.L.Error("Error creating chain mapping", "pattern", m.RawMerchantPattern, "error", err)
		utils.SendJSONError(w, "Error creating chain mapping", http.StatusInternalServerError)
		return
	}
	h.normalizer.FlushMemo()
	logger.L.Info("Chain mapping created", "id", m.ID, "pattern", m.RawMerchantPattern, "chainGroup", m.ChainGroup)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(m)
}

func (h *ChainMappingHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		utils.SendJSONError(w, "Invalid chain mapping id", http.StatusBadRequest)
		return
	}

	var m models.ChainMapping
	if err := json.NewDecoder(r.Body).Decode(&m); err != nil {
		utils.SendJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	m.ID = id
	if err := validateMapping(&m); err != nil {
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.repo.Update(r.Context(), &m); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			utils.SendJSONError(w, "Chain mapping not found", http.StatusNotFound)
			return
		}
		logger.L.Error("Error updating chain mapping", "id", id, "error", err)
		utils.SendJSONError(w, "Error updating chain mapping", http.StatusInternalServerError)
		return
	}
	h.normalizer.FlushMemo()
	logger.L.Info("Chain mapping updated", "id", id)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(m)
}

func (h *ChainMappingHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		utils.SendJSONError(w, "Invalid chain mapping id", http.StatusBadRequest)
		return
	}

	if err := h.repo.Delete(r.Context(), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			utils.SendJSONError(w, "Chain mapping not found", http.StatusNotFound)
			return
		}
		logger.L.Error("Error deleting chain mapping", "id", id, "error", err)
		utils.SendJSONError(w, "Error deleting chain mapping", http.StatusInternalServerError)
		return
	}
	h.normalizer.FlushMemo()
	logger.L.Info("Chain mapping deleted", "id", id)

	w.WriteHeader(http.StatusNoContent)
}

func validateMapping(m *models.ChainMapping) error {
	m.RawMerchantPattern = strings.TrimSpace(m.RawMerchantPattern)
	m.ChainGroup = strings.TrimSpace(m.ChainGroup)
	if m.RawMerchantPattern == "" {
		return errors.New("raw_merchant_pattern is required")
	}
	if m.ChainGroup == "" {
		return errors.New("chain_group is required")
	}
	return nil
}
