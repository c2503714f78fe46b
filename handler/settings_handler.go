package handler

import (
	"encoding/json"
	"net/http"

	"bizledger/models"
	"bizledger/service"
)

// SettingsHandler handles HTTP requests for recovery configuration
type SettingsHandler struct {
	service *service.RulesService
}

// NewSettingsHandler creates a new settings handler
func NewSettingsHandler(svc *service.RulesService) *SettingsHandler {
	return &SettingsHandler{service: svc}
}

// ProvisionTenant handles POST /api/v1/settings/provision. It seeds
// default rules and the admin role for the caller's tenant; running it
// again is a no-op.
func (h *SettingsHandler) ProvisionTenant(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := tenantFromRequest(w, r)
	if !ok {
		return
	}

	if err := h.service.ProvisionTenant(r.Context(), tenantID); err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"message": "Tenant provisioned"})
}

// GetCategoryRules handles GET /api/v1/settings/category-rules
func (h *SettingsHandler) GetCategoryRules(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := tenantFromRequest(w, r)
	if !ok {
		return
	}

	rules, err := h.service.GetCategoryRules(r.Context(), tenantID)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, rules)
}

// UpdateCategoryRules handles PUT /api/v1/settings/category-rules
func (h *SettingsHandler) UpdateCategoryRules(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := tenantFromRequest(w, r)
	if !ok {
		return
	}

	var req models.UpdateCategoryRulesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request", "Failed to parse request body")
		return
	}

	rules, err := h.service.UpdateCategoryRules(r.Context(), tenantID, &req)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, rules)
}

// GetFollowupRules handles GET /api/v1/settings/followup-rules
func (h *SettingsHandler) GetFollowupRules(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := tenantFromRequest(w, r)
	if !ok {
		return
	}

	rules, err := h.service.GetFollowupRules(r.Context(), tenantID)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, rules)
}

// UpdateFollowupRules handles PUT /api/v1/settings/followup-rules
func (h *SettingsHandler) UpdateFollowupRules(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := tenantFromRequest(w, r)
	if !ok {
		return
	}

	var req models.UpdateFollowupRulesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request", "Failed to parse request body")
		return
	}

	rules, err := h.service.UpdateFollowupRules(r.Context(), tenantID, &req)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, rules)
}

// GetRecoverySettings handles GET /api/v1/settings/recovery
func (h *SettingsHandler) GetRecoverySettings(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := tenantFromRequest(w, r)
	if !ok {
		return
	}

	settings, err := h.service.GetRecoverySettings(r.Context(), tenantID)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, settings)
}

// UpdateRecoverySettings handles PUT /api/v1/settings/recovery
func (h *SettingsHandler) UpdateRecoverySettings(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := tenantFromRequest(w, r)
	if !ok {
		return
	}

	var req models.UpdateRecoverySettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request", "Failed to parse request body")
		return
	}

	settings, err := h.service.UpdateRecoverySettings(r.Context(), tenantID, &req)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, settings)
}
