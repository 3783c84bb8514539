package api

import (
	"encoding/json"
	"net/http"

	"muse-ai/backend/internal/interfaces"
	"muse-ai/backend/internal/service"
)

// SettingsHandler exposes the dynamic application settings.
type SettingsHandler struct {
	service interfaces.SettingsService
}

func NewSettingsHandler(svc interfaces.SettingsService) *SettingsHandler {
	return &SettingsHandler{service: svc}
}

// HandleGetSettings godoc
// @Summary      Get application settings
// @Tags         Settings
// @Produce      json
// @Success      200  {object}  service.Settings
// @Security     BearerAuth
// @Router       /v1/settings [get]
func (h *SettingsHandler) HandleGetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.service.Get(r.Context())
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, settings)
}

// HandleUpdateSettings godoc
// @Summary      Update application settings
// @Tags         Settings
// @Accept       json
// @Produce      json
// @Param        settings  body  service.Settings  true  "New settings"
// @Success      200  {object}  StatusResponse
// @Failure      400  {object}  ErrorResponse
// @Security     BearerAuth
// @Router       /v1/settings [post]
func (h *SettingsHandler) HandleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	var settings service.Settings
	if err := json.NewDecoder(r.Body).Decode(&settings); err != nil {
		respondWithJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Invalid request body."})
		return
	}

	if err := h.service.Save(r.Context(), &settings); err != nil {
		respondWithJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	respondWithJSON(w, http.StatusOK, StatusResponse{Status: "ok"})
}
