package server

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jonathan/portfolio/internal/config"
	"github.com/jonathan/portfolio/internal/types"
)

// Claims are the session token claims. The registered ID (jti) is the
// server-side session id, so revoking the session revokes the token.
type Claims struct {
	UserID uuid.UUID `json:"user_id"`
	jwt.RegisteredClaims
}

// GetUserID returns the user ID from the claims.
// This implements the middleware.UserIDGetter interface.
func (c *Claims) GetUserID() uuid.UUID {
	return c.UserID
}

// SessionID parses the jti claim.
func (c *Claims) SessionID() (uuid.UUID, error) {
	id, err := uuid.Parse(c.ID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid session id in token: %w", err)
	}
	return id, nil
}

// JWTService signs and parses session tokens.
type JWTService struct {
	secret []byte
}

// NewJWTService creates a new JWT service with the given configuration.
func NewJWTService(cfg *config.SessionConfig) *JWTService {
	return &JWTService{secret: []byte(cfg.Secret)}
}

// GenerateToken signs a token for session.
func (s *JWTService) GenerateToken(session *types.AdminSession, now time.Time) (string, error) {
	claims := &Claims{
		UserID: session.UserID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        session.ID.String(),
			Subject:   session.UserID.String(),
			ExpiresAt: jwt.NewNumericDate(session.ExpiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return tokenString, nil
}

// ValidateToken verifies the signature and time claims of a token.
func (s *JWTService) ValidateToken(tokenString string) (*Claims, error) {
	return s.parse(tokenString)
}

// ParseIgnoringExpiry verifies only the signature. Logout uses it so an
// expired token can still revoke its session.
func (s *JWTService) ParseIgnoringExpiry(tokenString string) (*Claims, error) {
	return s.parse(tokenString, jwt.WithoutClaimsValidation())
}

func (s *JWTService) parse(tokenString string, opts ...jwt.ParserOption) (*Claims, error) {
	if tokenString == "" {
		return nil, fmt.Errorf("token string is empty")
	}

	opts = append(opts, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, opts...)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, fmt.Errorf("invalid token signature: %w", err)
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, fmt.Errorf("token expired: %w", err)
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, fmt.Errorf("malformed token: %w", err)
		}
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	if !token.Valid {
		return nil, fmt.Errorf("token is not valid")
	}
	return claims, nil
}
