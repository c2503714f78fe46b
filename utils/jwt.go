package utils

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// GenerateToken signs an HS256 token carrying the identity claims this
// service expects. Production tokens come from the external auth
// collaborator; this helper exists for tooling and tests.
func GenerateToken(userID int64, tenantID string, roleID int64, secret []byte, expiresIn time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"user_id":   userID,
		"tenant_id": tenantID,
		"role_id":   roleID,
		"exp":       now.Add(expiresIn).Unix(),
		"iat":       now.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}
