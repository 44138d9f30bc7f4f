package auth

import (
	"github.com/golang-jwt/jwt/v5"
)

// IdentityTokenClaims represents the typed JWT issued to clients.
type IdentityTokenClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}
