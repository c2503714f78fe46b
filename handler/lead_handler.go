package handler

import (
	"encoding/json"
	"net/http"

	"bizledger/models"
	"bizledger/service"
)

// LeadHandler handles HTTP requests for leads
type LeadHandler struct {
	service *service.LeadService
}

// NewLeadHandler creates a new lead handler
func NewLeadHandler(svc *service.LeadService) *LeadHandler {
	return &LeadHandler{service: svc}
}

// CreateLead handles POST /api/v1/leads
func (h *LeadHandler) CreateLead(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := tenantFromRequest(w, r)
	if !ok {
		return
	}

	var req models.CreateLeadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request", "Failed to parse request body")
		return
	}

	lead, err := h.service.CreateLead(r.Context(), tenantID, &req)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, lead)
}

// ListLeads handles GET /api/v1/leads?status=
func (h *LeadHandler) ListLeads(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := tenantFromRequest(w, r)
	if !ok {
		return
	}

	status := models.LeadStatus(r.URL.Query().Get("status"))
	leads, err := h.service.ListLeads(r.Context(), tenantID, status)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, leads)
}

// GetLead handles GET /api/v1/leads/{id}
func (h *LeadHandler) GetLead(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := tenantFromRequest(w, r)
	if !ok {
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request", "Invalid lead id")
		return
	}

	lead, err := h.service.GetLead(r.Context(), tenantID, id)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, lead)
}

// UpdateLeadStatus handles POST /api/v1/leads/{id}/status
func (h *LeadHandler) UpdateLeadStatus(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := tenantFromRequest(w, r)
	if !ok {
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request", "Invalid lead id")
		return
	}

	var req models.UpdateLeadStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request", "Failed to parse request body")
		return
	}

	lead, err := h.service.TransitionLead(r.Context(), tenantID, id, req.Status)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, lead)
}
