package db

import (
	"testing"

	"github.com/jonathan/portfolio/internal/store"
	"github.com/stretchr/testify/assert"
)

var _ store.Store = (*DB)(nil)

func TestSchemaSQL(t *testing.T) {
	for _, table := range []string{"admin_users", "admin_sessions", "resume_content"} {
		assert.Contains(t, schemaSQL, "CREATE TABLE IF NOT EXISTS "+table)
	}
}

func TestResumeRowID(t *testing.T) {
	assert.Equal(t, "00000000-0000-0000-0000-000000000001", ResumeRowID.String())
}
