package auth

import (
	"fmt"
	"net/mail"

	"github.com/FACorreiaa/go-article-cms/internal/types"
)

// LoginRequest represents the expected JSON body for user login.
type LoginRequest struct {
	Email    string `json:"email" example:"user@example.com"`
	Password string `json:"password" example:"password123"`
}

func (req *LoginRequest) Validate() error {
	if req.Email == "" || req.Password == "" {
		return fmt.Errorf("email and password are required: %w", types.ErrValidation)
	}
	return nil
}

// RegisterRequest represents the expected JSON body for user registration.
type RegisterRequest struct {
	Email    string `json:"email" example:"newuser@example.com"` // Must be unique.
	Username string `json:"username" example:"testuser"`         // Must be unique.
	Password string `json:"password" example:"Str0ngP@ss!"`      // Min length 6.
}

func (req *RegisterRequest) Validate() error {
	if _, err := mail.ParseAddress(req.Email); err != nil {
		return fmt.Errorf("a valid email is required: %w", types.ErrValidation)
	}
	if req.Username == "" {
		return fmt.Errorf("username is required: %w", types.ErrValidation)
	}
	if len(req.Password) < 6 {
		return fmt.Errorf("password must be at least 6 characters: %w", types.ErrValidation)
	}
	return nil
}

// LoginResponse represents the successful JSON response after login.
type LoginResponse struct {
	AccessToken string            `json:"access_token" example:"eyJhbGciOiJI..."`
	ExpiresIn   int               `json:"expiresIn" example:"3600"` // Seconds until the token expires.
	User        types.UserSummary `json:"user"`
}

// ProfileResponse is the identity carried by a verified session token.
type ProfileResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}
