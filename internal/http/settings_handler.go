package http

import (
	"encoding/json"
	"net/http"

	"github.com/Mega4Real/ednascollectionnew/internal/service"
)

type SettingsHandler struct {
	settings *service.SettingsService
}

func NewSettingsHandler(settings *service.SettingsService) *SettingsHandler {
	return &SettingsHandler{settings: settings}
}

func (h *SettingsHandler) GetBanner(w http.ResponseWriter, r *http.Request) {
	message, err := h.settings.GetBanner(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": message})
}

type bannerRequest struct {
	Message string `json:"message"`
}

func (h *SettingsHandler) UpdateBanner(w http.ResponseWriter, r *http.Request) {
	var req bannerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	message, err := h.settings.SetBanner(r.Context(), req.Message)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": message,
	})
}
