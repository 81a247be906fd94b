package store

import (
	"context"
	"encoding/json"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/portfolio/internal/types"
)

// Memory is a process-local Store. Data is lost on restart.
type Memory struct {
	mu       sync.RWMutex
	resume   *types.ResumeContent
	users    map[string]*types.AdminUser
	sessions map[uuid.UUID]*types.AdminSession
	now      func() time.Time
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		users:    make(map[string]*types.AdminUser),
		sessions: make(map[uuid.UUID]*types.AdminSession),
		now:      time.Now,
	}
}

func (m *Memory) GetResume(_ context.Context) (*types.ResumeContent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.resume == nil {
		return nil, nil
	}
	rc := *m.resume
	rc.Content = slices.Clone(m.resume.Content)
	return &rc, nil
}

func (m *Memory) SaveResume(_ context.Context, content json.RawMessage, updatedBy *uuid.UUID) (*types.ResumeContent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resume = &types.ResumeContent{
		Content:   slices.Clone(content),
		UpdatedAt: m.now().UTC(),
		UpdatedBy: updatedBy,
	}
	rc := *m.resume
	return &rc, nil
}

func (m *Memory) GetOrCreateAdminUser(_ context.Context, username, passwordHash string) (*types.AdminUser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[username]
	if !ok {
		u = &types.AdminUser{
			ID:           uuid.New(),
			Username:     username,
			PasswordHash: passwordHash,
			CreatedAt:    m.now().UTC(),
		}
		m.users[username] = u
	}
	out := *u
	return &out, nil
}

func (m *Memory) ReplaceSessions(_ context.Context, session *types.AdminSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, s := range m.sessions {
		if s.UserID == session.UserID {
			delete(m.sessions, id)
		}
	}
	session.CreatedAt = m.now().UTC()
	stored := *session
	m.sessions[session.ID] = &stored
	return nil
}

func (m *Memory) GetSession(_ context.Context, id uuid.UUID) (*types.AdminSession, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, nil
	}
	out := *s
	return &out, nil
}

func (m *Memory) DeleteSession(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
	return nil
}

func (m *Memory) DeleteExpiredSessions(_ context.Context, now time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for id, s := range m.sessions {
		if !s.ExpiresAt.After(now) {
			delete(m.sessions, id)
			n++
		}
	}
	return n, nil
}
