package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"bizledger/middleware"
	"bizledger/models"
	"bizledger/service"
)

// DebtorHandler handles HTTP requests for the debtor book, follow-ups
// and category recomputation
type DebtorHandler struct {
	debtors *service.DebtorService
	exports *service.ExportService
}

// NewDebtorHandler creates a new debtor handler
func NewDebtorHandler(debtors *service.DebtorService, exports *service.ExportService) *DebtorHandler {
	return &DebtorHandler{debtors: debtors, exports: exports}
}

// ListDebtors handles GET /api/v1/debtors
func (h *DebtorHandler) ListDebtors(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := tenantFromRequest(w, r)
	if !ok {
		return
	}

	rows, err := h.debtors.ListDebtors(r.Context(), tenantID, time.Now().UTC())
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, rows)
}

// ExportDebtors handles GET /api/v1/debtors/export and streams the
// debtor book as an xlsx workbook.
func (h *DebtorHandler) ExportDebtors(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := tenantFromRequest(w, r)
	if !ok {
		return
	}

	book, err := h.exports.ExportDebtors(r.Context(), tenantID, time.Now().UTC())
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	filename := fmt.Sprintf("debtors-%s.xlsx", time.Now().UTC().Format("20060102"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	w.Write(book)
}

// Recompute handles POST /api/v1/debtors/recompute. It runs one
// evaluation pass for the caller's tenant and reports what changed.
func (h *DebtorHandler) Recompute(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := tenantFromRequest(w, r)
	if !ok {
		return
	}

	result, err := h.debtors.Recompute(r.Context(), tenantID, time.Now().UTC())
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, result)
}

// LogFollowUp handles POST /api/v1/customers/{id}/followups
func (h *DebtorHandler) LogFollowUp(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := tenantFromRequest(w, r)
	if !ok {
		return
	}
	customerID, err := pathID(r, "id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request", "Invalid customer id")
		return
	}
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		respondWithError(w, http.StatusUnauthorized, "Unauthorized", "Missing user identity")
		return
	}

	var req models.CreateFollowUpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request", "Failed to parse request body")
		return
	}

	entry, err := h.debtors.LogFollowUp(r.Context(), tenantID, customerID, userID, &req)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, entry)
}

// ListFollowUps handles GET /api/v1/customers/{id}/followups
func (h *DebtorHandler) ListFollowUps(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := tenantFromRequest(w, r)
	if !ok {
		return
	}
	customerID, err := pathID(r, "id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request", "Invalid customer id")
		return
	}

	entries, err := h.debtors.ListFollowUps(r.Context(), tenantID, customerID)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, entries)
}
