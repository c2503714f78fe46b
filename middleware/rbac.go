package middleware

import (
	"context"
	"encoding/json"
	"net/http"

	"bizledger/models"
)

// RoleLookup resolves a role for permission checks. Satisfied by
// service.RoleService.
type RoleLookup interface {
	GetRole(ctx context.Context, tenantID string, roleID int64) (*models.Role, error)
}

// RBACMiddleware enforces the per-role permission matrix.
type RBACMiddleware struct {
	roles RoleLookup
}

// NewRBACMiddleware creates a new RBAC middleware
func NewRBACMiddleware(roles RoleLookup) *RBACMiddleware {
	return &RBACMiddleware{roles: roles}
}

// RequirePermission allows the request only when the caller's role grants
// the action on the module. Must run after RequireAuth.
func (m *RBACMiddleware) RequirePermission(module models.Module, action models.Action) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tenantID, err := TenantIDFromContext(r.Context())
			if err != nil {
				respondWithError(w, http.StatusUnauthorized, "Unauthorized", "Missing tenant context")
				return
			}
			roleID, err := RoleIDFromContext(r.Context())
			if err != nil {
				respondWithError(w, http.StatusUnauthorized, "Unauthorized", "Missing role context")
				return
			}

			role, err := m.roles.GetRole(r.Context(), tenantID, roleID)
			if err != nil {
				respondWithError(w, http.StatusForbidden, "Forbidden", "Role not found")
				return
			}

			if !role.IsAdmin && !role.Matrix.Allows(module, action) {
				respondWithError(w, http.StatusForbidden, "Forbidden",
					"Your role does not permit "+string(action)+" on "+string(module))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func respondWithError(w http.ResponseWriter, statusCode int, errorType, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(map[string]string{
		"error":   errorType,
		"message": message,
	})
}
