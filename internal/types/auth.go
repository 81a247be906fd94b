package types

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// LoginRequest is the admin login request.
type LoginRequest struct {
	Password string `json:"password" validate:"required"`
}

// Validate validates the LoginRequest using the validator.
func (r *LoginRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// LoginResponse is returned after a successful admin login.
type LoginResponse struct {
	Success      bool      `json:"success"`
	SessionToken string    `json:"sessionToken"`
	ExpiresAt    time.Time `json:"expiresAt"`
}

// VerifyRequest asks whether a session token is still valid.
type VerifyRequest struct {
	SessionToken string `json:"sessionToken" validate:"required"`
}

// Validate validates the VerifyRequest using the validator.
func (r *VerifyRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// AdminUser is the single admin account.
type AdminUser struct {
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// AdminSession is a server-side record of an issued session token.
type AdminSession struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}
