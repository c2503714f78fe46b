package handler

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/gorilla/mux"

	"bizledger/middleware"
	"bizledger/models"
	"bizledger/service"
)

// RoleHandler handles HTTP requests for roles and table preferences
type RoleHandler struct {
	service *service.RoleService
}

// NewRoleHandler creates a new role handler
func NewRoleHandler(svc *service.RoleService) *RoleHandler {
	return &RoleHandler{service: svc}
}

// CreateRole handles POST /api/v1/roles
func (h *RoleHandler) CreateRole(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := tenantFromRequest(w, r)
	if !ok {
		return
	}

	var req models.CreateRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request", "Failed to parse request body")
		return
	}

	role, err := h.service.CreateRole(r.Context(), tenantID, &req)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, role)
}

// ListRoles handles GET /api/v1/roles
func (h *RoleHandler) ListRoles(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := tenantFromRequest(w, r)
	if !ok {
		return
	}

	roles, err := h.service.ListRoles(r.Context(), tenantID)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, roles)
}

// GetRole handles GET /api/v1/roles/{id}
func (h *RoleHandler) GetRole(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := tenantFromRequest(w, r)
	if !ok {
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request", "Invalid role id")
		return
	}

	role, err := h.service.GetRole(r.Context(), tenantID, id)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, role)
}

// DeleteRole handles DELETE /api/v1/roles/{id}
func (h *RoleHandler) DeleteRole(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := tenantFromRequest(w, r)
	if !ok {
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request", "Invalid role id")
		return
	}

	if err := h.service.DeleteRole(r.Context(), tenantID, id); err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"message": "Role deleted"})
}

// GetPreference handles GET /api/v1/preferences/{table}. Preferences
// are per user; missing ones come back as an empty object so clients
// can fall back to defaults.
func (h *RoleHandler) GetPreference(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := tenantFromRequest(w, r)
	if !ok {
		return
	}
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		respondWithError(w, http.StatusUnauthorized, "Unauthorized", "Missing user identity")
		return
	}
	tableKey := mux.Vars(r)["table"]

	pref, err := h.service.GetPreference(r.Context(), tenantID, userID, tableKey)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, pref)
}

// SavePreference handles PUT /api/v1/preferences/{table}. The body is
// stored verbatim as the user's view settings for that table.
func (h *RoleHandler) SavePreference(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := tenantFromRequest(w, r)
	if !ok {
		return
	}
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		respondWithError(w, http.StatusUnauthorized, "Unauthorized", "Missing user identity")
		return
	}
	tableKey := mux.Vars(r)["table"]

	payload, err := io.ReadAll(r.Body)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request", "Failed to read request body")
		return
	}

	pref, err := h.service.SavePreference(r.Context(), tenantID, userID, tableKey, json.RawMessage(payload))
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, pref)
}
