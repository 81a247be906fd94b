package bolt

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/portfolio/internal/store"
	"github.com/jonathan/portfolio/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ store.Store = (*Store)(nil)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "portfolio.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestResumeRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	got, err := s.GetResume(ctx)
	require.NoError(t, err)
	assert.Nil(t, got)

	editor := uuid.New()
	doc := json.RawMessage(`{"personal":{"name":"Jane Doe"},"extra":[1,2]}`)
	saved, err := s.SaveResume(ctx, doc, &editor)
	require.NoError(t, err)
	assert.False(t, saved.UpdatedAt.IsZero())

	got, err = s.GetResume(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.JSONEq(t, string(doc), string(got.Content))
	require.NotNil(t, got.UpdatedBy)
	assert.Equal(t, editor, *got.UpdatedBy)
}

func TestResumeSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "portfolio.db")
	s, err := Open(path)
	require.NoError(t, err)
	_, err = s.SaveResume(context.Background(), json.RawMessage(`{"personal":{"name":"A"}}`), nil)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer func() { _ = s.Close() }()
	got, err := s.GetResume(context.Background())
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.JSONEq(t, `{"personal":{"name":"A"}}`, string(got.Content))
}

func TestAdminUserKeepsHash(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	u1, err := s.GetOrCreateAdminUser(ctx, "admin", "hash-1")
	require.NoError(t, err)
	u2, err := s.GetOrCreateAdminUser(ctx, "admin", "hash-2")
	require.NoError(t, err)

	assert.Equal(t, u1.ID, u2.ID)
	assert.Equal(t, "hash-1", u2.PasswordHash)
}

func TestSessions(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	user, err := s.GetOrCreateAdminUser(ctx, "admin", "hash")
	require.NoError(t, err)

	now := time.Now()
	first := &types.AdminSession{ID: uuid.New(), UserID: user.ID, ExpiresAt: now.Add(time.Hour)}
	require.NoError(t, s.ReplaceSessions(ctx, first))
	assert.False(t, first.CreatedAt.IsZero())

	second := &types.AdminSession{ID: uuid.New(), UserID: user.ID, ExpiresAt: now.Add(time.Hour)}
	require.NoError(t, s.ReplaceSessions(ctx, second))

	got, err := s.GetSession(ctx, first.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = s.GetSession(ctx, second.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, user.ID, got.UserID)

	n, err := s.DeleteExpiredSessions(ctx, now.Add(2*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	require.NoError(t, s.DeleteSession(ctx, second.ID), "deleting a missing session is not an error")
}
