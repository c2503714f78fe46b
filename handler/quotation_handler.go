package handler

import (
	"encoding/json"
	"net/http"

	"bizledger/models"
	"bizledger/service"
)

// QuotationHandler handles HTTP requests for quotations
type QuotationHandler struct {
	service *service.QuotationService
}

// NewQuotationHandler creates a new quotation handler
func NewQuotationHandler(svc *service.QuotationService) *QuotationHandler {
	return &QuotationHandler{service: svc}
}

// CreateQuotation handles POST /api/v1/quotations
func (h *QuotationHandler) CreateQuotation(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := tenantFromRequest(w, r)
	if !ok {
		return
	}

	var req models.CreateQuotationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request", "Failed to parse request body")
		return
	}

	quotation, err := h.service.CreateQuotation(r.Context(), tenantID, &req)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, quotation)
}

// ListQuotations handles GET /api/v1/quotations
func (h *QuotationHandler) ListQuotations(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := tenantFromRequest(w, r)
	if !ok {
		return
	}

	quotations, err := h.service.ListQuotations(r.Context(), tenantID)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, quotations)
}

// GetQuotation handles GET /api/v1/quotations/{id}
func (h *QuotationHandler) GetQuotation(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := tenantFromRequest(w, r)
	if !ok {
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request", "Invalid quotation id")
		return
	}

	quotation, err := h.service.GetQuotation(r.Context(), tenantID, id)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, quotation)
}

// UpdateQuotationStatus handles POST /api/v1/quotations/{id}/status.
// Accepting a quotation creates its invoice.
func (h *QuotationHandler) UpdateQuotationStatus(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := tenantFromRequest(w, r)
	if !ok {
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request", "Invalid quotation id")
		return
	}

	var req models.UpdateQuotationStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request", "Failed to parse request body")
		return
	}

	quotation, err := h.service.TransitionQuotation(r.Context(), tenantID, id, &req)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, quotation)
}
