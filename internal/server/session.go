package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/portfolio/internal/config"
	"github.com/jonathan/portfolio/internal/server/middleware"
	"github.com/jonathan/portfolio/internal/store"
	"github.com/jonathan/portfolio/internal/types"
)

var (
	// ErrAdminNotConfigured is returned by Login when no admin password is set.
	ErrAdminNotConfigured = errors.New("admin password not configured")
	// ErrSessionNotFound is returned for tokens whose session was revoked,
	// replaced by a newer login, or has expired.
	ErrSessionNotFound = errors.New("session not found")
)

// SessionService issues and checks admin session tokens. Exactly one session
// is live at a time: a successful login deletes the previous ones.
type SessionService struct {
	store     store.SessionStore
	tokens    *JWTService
	passwords *config.PasswordConfig
	admin     *config.AdminConfig
	ttl       time.Duration
	now       func() time.Time
}

// NewSessionService creates a SessionService. admin may be nil, in which case
// every login fails with ErrAdminNotConfigured.
func NewSessionService(st store.SessionStore, sessionCfg *config.SessionConfig, passwords *config.PasswordConfig, admin *config.AdminConfig) *SessionService {
	return &SessionService{
		store:     st,
		tokens:    NewJWTService(sessionCfg),
		passwords: passwords,
		admin:     admin,
		ttl:       sessionCfg.TTL(),
		now:       time.Now,
	}
}

// Login checks password and starts a new session.
func (s *SessionService) Login(ctx context.Context, password string) (*types.LoginResponse, error) {
	if s.admin == nil {
		return nil, ErrAdminNotConfigured
	}
	if !s.passwords.VerifyPassword(password, s.admin.PasswordHash) {
		log.Printf("[admin] rejected login attempt")
		return nil, &ErrInvalidCredentials{}
	}

	user, err := s.store.GetOrCreateAdminUser(ctx, s.admin.Username, s.admin.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("failed to load admin user: %w", err)
	}

	now := s.now()
	session := &types.AdminSession{
		ID:        uuid.New(),
		UserID:    user.ID,
		ExpiresAt: now.Add(s.ttl),
		CreatedAt: now,
	}
	if err := s.store.ReplaceSessions(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	token, err := s.tokens.GenerateToken(session, now)
	if err != nil {
		return nil, err
	}

	log.Printf("[admin] session %s created, expires %s", session.ID, session.ExpiresAt.Format(time.RFC3339))
	return &types.LoginResponse{
		Success:      true,
		SessionToken: token,
		ExpiresAt:    session.ExpiresAt,
	}, nil
}

// Validate returns the claims of a token whose session is still live.
func (s *SessionService) Validate(ctx context.Context, tokenString string) (*Claims, error) {
	claims, err := s.tokens.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}
	id, err := claims.SessionID()
	if err != nil {
		return nil, err
	}

	session, err := s.store.GetSession(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	if session == nil || session.UserID != claims.UserID || !s.now().Before(session.ExpiresAt) {
		return nil, ErrSessionNotFound
	}
	return claims, nil
}

// Verify reports whether tokenString belongs to a live session.
func (s *SessionService) Verify(ctx context.Context, tokenString string) bool {
	_, err := s.Validate(ctx, tokenString)
	return err == nil
}

// Logout revokes the session behind tokenString. Tokens that are not ours
// have nothing to revoke and are not an error.
func (s *SessionService) Logout(ctx context.Context, tokenString string) error {
	claims, err := s.tokens.ParseIgnoringExpiry(tokenString)
	if err != nil {
		return nil
	}
	id, err := claims.SessionID()
	if err != nil {
		return nil
	}
	if err := s.store.DeleteSession(ctx, id); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	log.Printf("[admin] session %s revoked", id)
	return nil
}

// Sweep deletes expired sessions.
func (s *SessionService) Sweep(ctx context.Context) (int64, error) {
	return s.store.DeleteExpiredSessions(ctx, s.now())
}

// RunSweeper calls Sweep every interval until ctx is done.
func (s *SessionService) RunSweeper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := s.Sweep(ctx)
			if err != nil {
				log.Printf("[admin] session sweep failed: %v", err)
			} else if n > 0 {
				log.Printf("[admin] removed %d expired sessions", n)
			}
		}
	}
}

// AsTokenValidator returns a TokenValidator adapter for the auth middleware.
func (s *SessionService) AsTokenValidator() middleware.TokenValidator {
	return &sessionValidator{service: s}
}

type sessionValidator struct {
	service *SessionService
}

func (v *sessionValidator) ValidateToken(ctx context.Context, tokenString string) (middleware.UserIDGetter, error) {
	claims, err := v.service.Validate(ctx, tokenString)
	if err != nil {
		return nil, err
	}
	return claims, nil
}
