package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jonathan/portfolio/internal/types"
)

// GetOrCreateAdminUser returns the admin user with username, creating it with
// passwordHash on first login.
func (db *DB) GetOrCreateAdminUser(ctx context.Context, username, passwordHash string) (*types.AdminUser, error) {
	_, err := db.pool.Exec(ctx,
		`INSERT INTO admin_users (id, username, password_hash)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (username) DO NOTHING`,
		uuid.New(), username, passwordHash,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create admin user: %w", err)
	}

	var u types.AdminUser
	err = db.pool.QueryRow(ctx,
		`SELECT id, username, password_hash, created_at FROM admin_users WHERE username = $1`,
		username,
	).Scan(&u.ID, &u.Username, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to get admin user: %w", err)
	}
	return &u, nil
}

// ReplaceSessions deletes every session of the user and stores the new one.
func (db *DB) ReplaceSessions(ctx context.Context, session *types.AdminSession) error {
	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM admin_sessions WHERE admin_user_id = $1`, session.UserID); err != nil {
		return fmt.Errorf("failed to delete sessions: %w", err)
	}
	err = tx.QueryRow(ctx,
		`INSERT INTO admin_sessions (id, admin_user_id, expires_at)
		 VALUES ($1, $2, $3)
		 RETURNING created_at`,
		session.ID, session.UserID, session.ExpiresAt,
	).Scan(&session.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit session: %w", err)
	}
	return nil
}

// GetSession returns the session with id, or nil if it does not exist.
func (db *DB) GetSession(ctx context.Context, id uuid.UUID) (*types.AdminSession, error) {
	var s types.AdminSession
	err := db.pool.QueryRow(ctx,
		`SELECT id, admin_user_id, expires_at, created_at FROM admin_sessions WHERE id = $1`,
		id,
	).Scan(&s.ID, &s.UserID, &s.ExpiresAt, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return &s, nil
}

// DeleteSession removes a session. Deleting a missing session is not an error.
func (db *DB) DeleteSession(ctx context.Context, id uuid.UUID) error {
	if _, err := db.pool.Exec(ctx, `DELETE FROM admin_sessions WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// DeleteExpiredSessions removes sessions that expired before now.
func (db *DB) DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error) {
	result, err := db.pool.Exec(ctx, `DELETE FROM admin_sessions WHERE expires_at <= $1`, now)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired sessions: %w", err)
	}
	return result.RowsAffected(), nil
}
