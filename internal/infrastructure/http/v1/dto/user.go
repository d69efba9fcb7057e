package dto

import (
	"time"

	"catalisa/internal/domain/user"
)

// LoginRequest is the credentials payload.
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse returns the token and the authenticated account.
type AuthResponse struct {
	Token     string     `json:"token"`
	ExpiresAt time.Time  `json:"expiresAt"`
	User      *user.User `json:"user"`
}

// SetActiveRequest toggles an account.
type SetActiveRequest struct {
	Active *bool `json:"active" binding:"required"`
}
