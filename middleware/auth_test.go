package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bizledger/utils"
)

const testSecret = "test-secret"

func TestRequireAuthRoundTrip(t *testing.T) {
	token, err := utils.GenerateToken(42, "tenant-a", 7, []byte(testSecret), time.Hour)
	require.NoError(t, err)

	m := NewAuthMiddleware(testSecret)
	var gotUser, gotRole int64
	var gotTenant string
	handler := m.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser, _ = UserIDFromContext(r.Context())
		gotTenant, _ = TenantIDFromContext(r.Context())
		gotRole, _ = RoleIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", "/api/v1/debtors", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(42), gotUser)
	assert.Equal(t, "tenant-a", gotTenant)
	assert.Equal(t, int64(7), gotRole)
}

func TestRequireAuthRejections(t *testing.T) {
	m := NewAuthMiddleware(testSecret)
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	})

	cases := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"not bearer", "Basic abc"},
		{"garbage token", "Bearer not-a-token"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/api/v1/debtors", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			m.RequireAuth(next).ServeHTTP(rec, req)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}

func TestRequireAuthWrongSecret(t *testing.T) {
	token, err := utils.GenerateToken(42, "tenant-a", 7, []byte("other-secret"), time.Hour)
	require.NoError(t, err)

	m := NewAuthMiddleware(testSecret)
	req := httptest.NewRequest("GET", "/api/v1/debtors", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	m.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	})).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAuthExpiredToken(t *testing.T) {
	token, err := utils.GenerateToken(42, "tenant-a", 7, []byte(testSecret), -time.Minute)
	require.NoError(t, err)

	m := NewAuthMiddleware(testSecret)
	req := httptest.NewRequest("GET", "/api/v1/debtors", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	m.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	})).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
