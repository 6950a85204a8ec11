package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/nursultan-qb/docvault/internal/models"
	"github.com/nursultan-qb/docvault/internal/services"
	"github.com/sirupsen/logrus"
)

// SettingsHandler exposes the singleton retention configurations.
type SettingsHandler struct {
	Service *services.SettingsService
}

// NewSettingsHandler creates a new instance of SettingsHandler.
func NewSettingsHandler(service *services.SettingsService) *SettingsHandler {
	return &SettingsHandler{Service: service}
}

// GetRetentionSettingHandler returns the archive-by-age configuration.
func (h *SettingsHandler) GetRetentionSettingHandler(w http.ResponseWriter, r *http.Request) {
	setting, err := h.Service.GetRetentionSetting(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, setting)
}

// UpdateRetentionSettingHandler saves the archive-by-age configuration.
func (h *SettingsHandler) UpdateRetentionSettingHandler(w http.ResponseWriter, r *http.Request) {
	var setting models.RetentionSetting
	if err := json.NewDecoder(r.Body).Decode(&setting); err != nil {
		respondJSON(w, http.StatusBadRequest, Envelope{Status: "fail", Message: "invalid request payload"})
		return
	}
	defer r.Body.Close()

	if err := h.Service.UpdateRetentionSetting(r.Context(), &setting); err != nil {
		respondServiceError(w, err)
		return
	}

	logrus.WithFields(logrus.Fields{
		"enabled":        setting.Enabled,
		"retention_days": setting.RetentionDays,
	}).Info("Retention setting updated")
	respondSuccess(w, http.StatusOK, setting)
}

// GetStorageSettingHandler returns the purge configuration.
func (h *SettingsHandler) GetStorageSettingHandler(w http.ResponseWriter, r *http.Request) {
	setting, err := h.Service.GetStorageSetting(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, setting)
}

// UpdateStorageSettingHandler saves the purge configuration.
func (h *SettingsHandler) UpdateStorageSettingHandler(w http.ResponseWriter, r *http.Request) {
	var setting models.StorageSetting
	if err := json.NewDecoder(r.Body).Decode(&setting); err != nil {
		respondJSON(w, http.StatusBadRequest, Envelope{Status: "fail", Message: "invalid request payload"})
		return
	}
	defer r.Body.Close()

	if err := h.Service.UpdateStorageSetting(r.Context(), &setting); err != nil {
		respondServiceError(w, err)
		return
	}

	logrus.WithFields(logrus.Fields{
		"enabled":           setting.Enabled,
		"delete_after_days": setting.DeleteAfterDays,
	}).Info("Storage setting updated")
	respondSuccess(w, http.StatusOK, setting)
}
