// backend/src/handlers/store_handler.go
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/canerthemaster123/receipto-tr-rewards-sub001/src/database"
	"github.com/canerthemaster123/receipto-tr-rewards-sub001/src/logger"
	"github.com/canerthemaster123/receipto-tr-rewards-sub001/src/models"
	"github.com/canerthemaster123/receipto-tr-rewards-sub001/src/utils"
)

type StoreHandler struct {
	repo *database.StoreLocationRepo
}

func NewStoreHandler(repo *database.StoreLocationRepo) *StoreHandler {
	return &StoreHandler{repo: repo}
}

// HandleListStores lists resolved store locations, optionally filtered by
// the chain_group query parameter.
func (h *StoreHandler) HandleListStores(w http.ResponseWriter, r *http.Request) {
	chainGroup := r.URL.Query().Get("chain_group")

	stores, err := h.repo.ListByChain(r.Context(), chainGroup)
	if err != nil {
		logger.L.Error("Error listing store locations", "chainGroup", chainGroup, "error", err)
		utils.SendJSONError(w, "Error listing store locations", http.StatusInternalServerError)
		return
	}
	if stores == nil {
		stores = []models.StoreLocation{}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(stores); err != nil {
		logger.L.Error("Error encoding store locations response", "error", err)
	}
}
