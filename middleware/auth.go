package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

type contextKey string

const (
	contextKeyUserID   contextKey = "user_id"
	contextKeyTenantID contextKey = "tenant_id"
	contextKeyRoleID   contextKey = "role_id"
)

// AuthMiddleware verifies bearer tokens and puts the identity claims into
// the request context. Tokens are issued by the external auth service; this
// middleware only checks the signature and expiry.
type AuthMiddleware struct {
	jwtSecret []byte
}

// NewAuthMiddleware creates a new auth middleware
func NewAuthMiddleware(jwtSecret string) *AuthMiddleware {
	return &AuthMiddleware{jwtSecret: []byte(jwtSecret)}
}

// RequireAuth validates the bearer token and sets user, tenant, and role in
// the request context.
func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			respondWithError(w, http.StatusUnauthorized, "Unauthorized", "Authorization header required")
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			respondWithError(w, http.StatusUnauthorized, "Unauthorized", "Invalid authorization format. Expected: Bearer <token>")
			return
		}

		token, err := jwt.Parse(parts[1], func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return m.jwtSecret, nil
		})
		if err != nil || !token.Valid {
			respondWithError(w, http.StatusUnauthorized, "Unauthorized", "Invalid or expired token")
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			respondWithError(w, http.StatusUnauthorized, "Unauthorized", "Invalid token claims")
			return
		}

		userID, ok := claims["user_id"].(float64)
		if !ok {
			respondWithError(w, http.StatusUnauthorized, "Unauthorized", "Invalid token: user_id not found")
			return
		}
		tenantID, ok := claims["tenant_id"].(string)
		if !ok || tenantID == "" {
			respondWithError(w, http.StatusUnauthorized, "Unauthorized", "Invalid token: tenant_id not found")
			return
		}
		roleID, ok := claims["role_id"].(float64)
		if !ok {
			respondWithError(w, http.StatusUnauthorized, "Unauthorized", "Invalid token: role_id not found")
			return
		}

		ctx := context.WithValue(r.Context(), contextKeyUserID, int64(userID))
		ctx = context.WithValue(ctx, contextKeyTenantID, tenantID)
		ctx = context.WithValue(ctx, contextKeyRoleID, int64(roleID))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// UserIDFromContext returns the authenticated user id.
func UserIDFromContext(ctx context.Context) (int64, error) {
	id, ok := ctx.Value(contextKeyUserID).(int64)
	if !ok {
		return 0, fmt.Errorf("user_id not found in context")
	}
	return id, nil
}

// TenantIDFromContext returns the authenticated tenant id.
func TenantIDFromContext(ctx context.Context) (string, error) {
	id, ok := ctx.Value(contextKeyTenantID).(string)
	if !ok || id == "" {
		return "", fmt.Errorf("tenant_id not found in context")
	}
	return id, nil
}

// RoleIDFromContext returns the authenticated user's role id.
func RoleIDFromContext(ctx context.Context) (int64, error) {
	id, ok := ctx.Value(contextKeyRoleID).(int64)
	if !ok {
		return 0, fmt.Errorf("role_id not found in context")
	}
	return id, nil
}
