// Package store defines the persistence contracts for résumé content and admin
// sessions, with an in-memory implementation and a read-through cache.
package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/portfolio/internal/types"
)

// ResumeStore holds the single résumé document.
type ResumeStore interface {
	// GetResume returns nil, nil when nothing has been saved.
	GetResume(ctx context.Context) (*types.ResumeContent, error)
	SaveResume(ctx context.Context, content json.RawMessage, updatedBy *uuid.UUID) (*types.ResumeContent, error)
}

// SessionStore holds the admin account and its sessions.
type SessionStore interface {
	GetOrCreateAdminUser(ctx context.Context, username, passwordHash string) (*types.AdminUser, error)
	// ReplaceSessions deletes the user's sessions and stores session.
	ReplaceSessions(ctx context.Context, session *types.AdminSession) error
	// GetSession returns nil, nil for an unknown id.
	GetSession(ctx context.Context, id uuid.UUID) (*types.AdminSession, error)
	DeleteSession(ctx context.Context, id uuid.UUID) error
	DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error)
}

// Store is implemented by every backend.
type Store interface {
	ResumeStore
	SessionStore
}
