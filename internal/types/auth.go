package types

import "github.com/golang-jwt/jwt/v5"

// Claims represents the custom claims carried by the JWT access token.
// The user ID doubles as the registered "sub" claim.
type Claims struct {
	UserID               string `json:"user_id"`
	Email                string `json:"email"`
	jwt.RegisteredClaims        // ExpiresAt, IssuedAt, Subject, Issuer.
}
