package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"bizledger/middleware"
	"bizledger/repository"
	"bizledger/service"

	"github.com/gorilla/mux"
)

func respondWithJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(payload)
}

func respondWithError(w http.ResponseWriter, statusCode int, errorType, message string) {
	respondWithJSON(w, statusCode, map[string]string{
		"error":   errorType,
		"message": message,
	})
}

// respondWithServiceError maps the layered error kinds to HTTP statuses:
// validation failures are 400s, missing rows 404s, everything else a 500.
func respondWithServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrValidation):
		respondWithError(w, http.StatusBadRequest, "Validation error", err.Error())
	case errors.Is(err, repository.ErrNotFound):
		respondWithError(w, http.StatusNotFound, "Not found", "Requested resource does not exist")
	default:
		respondWithError(w, http.StatusInternalServerError, "Internal error", err.Error())
	}
}

func tenantFromRequest(w http.ResponseWriter, r *http.Request) (string, bool) {
	tenantID, err := middleware.TenantIDFromContext(r.Context())
	if err != nil {
		respondWithError(w, http.StatusUnauthorized, "Unauthorized", "Tenant not found in context")
		return "", false
	}
	return tenantID, true
}

func pathID(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(mux.Vars(r)[name], 10, 64)
}
