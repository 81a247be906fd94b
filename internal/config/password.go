package config

import (
	"fmt"
	"os"
	"strconv"

	"golang.org/x/crypto/bcrypt"
)

// DefaultAdminUsername names the single admin account.
const DefaultAdminUsername = "admin"

// PasswordConfig holds configuration for password hashing and verification.
type PasswordConfig struct {
	BcryptCost int
	Pepper     string // optional global secret appended before hashing
}

// NewPasswordConfig reads BCRYPT_COST (default: 12) and optionally PASSWORD_PEPPER.
func NewPasswordConfig() (*PasswordConfig, error) {
	costStr := os.Getenv("BCRYPT_COST")
	if costStr == "" {
		costStr = "12"
	}

	cost, err := strconv.Atoi(costStr)
	if err != nil {
		return nil, fmt.Errorf("invalid BCRYPT_COST: %v", err)
	}

	config := &PasswordConfig{
		BcryptCost: cost,
		Pepper:     os.Getenv("PASSWORD_PEPPER"),
	}
	if err := config.normalize(); err != nil {
		return nil, err
	}
	return config, nil
}

func (c *PasswordConfig) normalize() error {
	if c.BcryptCost < 10 || c.BcryptCost > 14 {
		return fmt.Errorf("bcrypt cost out of range: %d (must be 10-14)", c.BcryptCost)
	}
	return nil
}

func (c *PasswordConfig) peppered(pw string) []byte {
	return []byte(pw + c.Pepper)
}

// HashPassword hashes a password using bcrypt.
func (c *PasswordConfig) HashPassword(pw string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword(c.peppered(pw), c.BcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// VerifyPassword reports whether pw matches storedHash.
func (c *PasswordConfig) VerifyPassword(pw, storedHash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(storedHash), c.peppered(pw)) == nil
}

// AdminConfig holds the admin credentials. The plaintext password is hashed
// on load and never kept.
type AdminConfig struct {
	Username     string
	PasswordHash string
}

// NewAdminConfig reads ADMIN_PASSWORD (required) and ADMIN_USERNAME
// (default: admin) and hashes the password with pw.
func NewAdminConfig(pw *PasswordConfig) (*AdminConfig, error) {
	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		return nil, fmt.Errorf("ADMIN_PASSWORD is required but not set")
	}
	username := os.Getenv("ADMIN_USERNAME")
	if username == "" {
		username = DefaultAdminUsername
	}

	hash, err := pw.HashPassword(password)
	if err != nil {
		return nil, err
	}
	return &AdminConfig{Username: username, PasswordHash: hash}, nil
}
