package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"bizledger/models"
)

type stubRoleLookup struct {
	role *models.Role
	err  error
}

func (s *stubRoleLookup) GetRole(ctx context.Context, tenantID string, roleID int64) (*models.Role, error) {
	return s.role, s.err
}

func authedRequest(t *testing.T) *http.Request {
	t.Helper()
	req := httptest.NewRequest("GET", "/api/v1/debtors", nil)
	ctx := context.WithValue(req.Context(), contextKeyUserID, int64(42))
	ctx = context.WithValue(ctx, contextKeyTenantID, "tenant-a")
	ctx = context.WithValue(ctx, contextKeyRoleID, int64(7))
	return req.WithContext(ctx)
}

func TestRequirePermissionAllowed(t *testing.T) {
	rbac := NewRBACMiddleware(&stubRoleLookup{role: &models.Role{
		Matrix: models.PermissionMatrix{models.ModuleDebtors: {models.ActionView}},
	}})

	called := false
	handler := rbac.RequirePermission(models.ModuleDebtors, models.ActionView)(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			called = true
		}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, authedRequest(t))
	assert.True(t, called)
}

func TestRequirePermissionDenied(t *testing.T) {
	rbac := NewRBACMiddleware(&stubRoleLookup{role: &models.Role{
		Matrix: models.PermissionMatrix{models.ModuleDebtors: {models.ActionView}},
	}})

	handler := rbac.RequirePermission(models.ModuleDebtors, models.ActionUpdate)(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("handler must not run")
		}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, authedRequest(t))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequirePermissionAdminBypass(t *testing.T) {
	rbac := NewRBACMiddleware(&stubRoleLookup{role: &models.Role{IsAdmin: true}})

	called := false
	handler := rbac.RequirePermission(models.ModuleSettings, models.ActionDelete)(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			called = true
		}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, authedRequest(t))
	assert.True(t, called)
}

func TestRequirePermissionWithoutAuthContext(t *testing.T) {
	rbac := NewRBACMiddleware(&stubRoleLookup{role: &models.Role{IsAdmin: true}})

	handler := rbac.RequirePermission(models.ModuleDebtors, models.ActionView)(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("handler must not run")
		}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/api/v1/debtors", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
