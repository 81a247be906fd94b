// Package bolt implements store.Store on a bbolt file for deployments without
// PostgreSQL.
package bolt

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/portfolio/internal/types"
	bolt "go.etcd.io/bbolt"
)

var (
	resumeBucket   = []byte("resume")
	usersBucket    = []byte("admin_users")
	sessionsBucket = []byte("admin_sessions")

	resumeKey = []byte("current")
)

// Store is a bbolt-backed store.Store.
type Store struct {
	db  *bolt.DB
	now func() time.Time
}

// Open opens or creates the database file at path and its buckets.
func Open(path string) (*Store, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, name := range [][]byte{resumeBucket, usersBucket, sessionsBucket} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return fmt.Errorf("failed to create bucket %s: %w", name, err)
			}
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db, now: time.Now}, nil
}

// Close closes the database file.
func (s *Store) Close() error {
	return s.db.Close()
}

type storedResume struct {
	Content   json.RawMessage `json:"content"`
	UpdatedAt time.Time       `json:"updated_at"`
	UpdatedBy *uuid.UUID      `json:"updated_by,omitempty"`
}

func (s *Store) GetResume(_ context.Context) (*types.ResumeContent, error) {
	var rc *types.ResumeContent
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(resumeBucket).Get(resumeKey)
		if v == nil {
			return nil
		}
		var stored storedResume
		if err := json.Unmarshal(v, &stored); err != nil {
			return fmt.Errorf("failed to unmarshal resume: %w", err)
		}
		rc = &types.ResumeContent{
			Content:   stored.Content,
			UpdatedAt: stored.UpdatedAt,
			UpdatedBy: stored.UpdatedBy,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rc, nil
}

func (s *Store) SaveResume(_ context.Context, content json.RawMessage, updatedBy *uuid.UUID) (*types.ResumeContent, error) {
	stored := storedResume{Content: content, UpdatedAt: s.now().UTC(), UpdatedBy: updatedBy}
	v, err := json.Marshal(stored)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal resume: %w", err)
	}
	err = s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(resumeBucket).Put(resumeKey, v)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to save resume: %w", err)
	}
	return &types.ResumeContent{Content: content, UpdatedAt: stored.UpdatedAt, UpdatedBy: updatedBy}, nil
}

func (s *Store) GetOrCreateAdminUser(_ context.Context, username, passwordHash string) (*types.AdminUser, error) {
	var user types.AdminUser
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(usersBucket)
		if v := b.Get([]byte(username)); v != nil {
			return unmarshalUser(v, &user)
		}
		user = types.AdminUser{
			ID:           uuid.New(),
			Username:     username,
			PasswordHash: passwordHash,
			CreatedAt:    s.now().UTC(),
		}
		v, err := marshalUser(&user)
		if err != nil {
			return err
		}
		return b.Put([]byte(username), v)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get or create admin user: %w", err)
	}
	return &user, nil
}

// storedUser exists because AdminUser hides its hash from JSON.
type storedUser struct {
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"password_hash"`
	CreatedAt    time.Time `json:"created_at"`
}

func marshalUser(u *types.AdminUser) ([]byte, error) {
	return json.Marshal(storedUser{ID: u.ID, Username: u.Username, PasswordHash: u.PasswordHash, CreatedAt: u.CreatedAt})
}

func unmarshalUser(v []byte, u *types.AdminUser) error {
	var s storedUser
	if err := json.Unmarshal(v, &s); err != nil {
		return fmt.Errorf("failed to unmarshal user: %w", err)
	}
	*u = types.AdminUser{ID: s.ID, Username: s.Username, PasswordHash: s.PasswordHash, CreatedAt: s.CreatedAt}
	return nil
}

func (s *Store) ReplaceSessions(_ context.Context, session *types.AdminSession) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(sessionsBucket)

		var stale [][]byte
		err := b.ForEach(func(k, v []byte) error {
			var existing types.AdminSession
			if err := json.Unmarshal(v, &existing); err != nil {
				return fmt.Errorf("failed to unmarshal session: %w", err)
			}
			if existing.UserID == session.UserID {
				stale = append(stale, k)
			}
			return nil
		})
		if err != nil {
			return err
		}
		// Deleting inside ForEach invalidates the cursor.
		for _, k := range stale {
			if err := b.Delete(k); err != nil {
				return err
			}
		}

		session.CreatedAt = s.now().UTC()
		v, err := json.Marshal(session)
		if err != nil {
			return fmt.Errorf("failed to marshal session: %w", err)
		}
		return b.Put(session.ID[:], v)
	})
}

func (s *Store) GetSession(_ context.Context, id uuid.UUID) (*types.AdminSession, error) {
	var session *types.AdminSession
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(sessionsBucket).Get(id[:])
		if v == nil {
			return nil
		}
		session = &types.AdminSession{}
		if err := json.Unmarshal(v, session); err != nil {
			return fmt.Errorf("failed to unmarshal session: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return session, nil
}

func (s *Store) DeleteSession(_ context.Context, id uuid.UUID) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(sessionsBucket).Delete(id[:])
	})
}

func (s *Store) DeleteExpiredSessions(_ context.Context, now time.Time) (int64, error) {
	var n int64
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(sessionsBucket)
		var expired [][]byte
		err := b.ForEach(func(k, v []byte) error {
			var session types.AdminSession
			if err := json.Unmarshal(v, &session); err != nil {
				return fmt.Errorf("failed to unmarshal session: %w", err)
			}
			if !session.ExpiresAt.After(now) {
				expired = append(expired, k)
			}
			return nil
		})
		if err != nil {
			return err
		}
		for _, k := range expired {
			if err := b.Delete(k); err != nil {
				return err
			}
		}
		n = int64(len(expired))
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired sessions: %w", err)
	}
	return n, nil
}
