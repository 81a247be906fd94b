package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jonathan/portfolio/internal/types"
)

// ResumeRowID is the id of the single résumé row.
var ResumeRowID = uuid.MustParse("00000000-0000-0000-0000-000000000001")

// GetResume returns the stored résumé, or nil if none has been saved.
func (db *DB) GetResume(ctx context.Context) (*types.ResumeContent, error) {
	var rc types.ResumeContent
	var content []byte
	err := db.pool.QueryRow(ctx,
		`SELECT content, updated_at, updated_by FROM resume_content WHERE id = $1`,
		ResumeRowID,
	).Scan(&content, &rc.UpdatedAt, &rc.UpdatedBy)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get resume: %w", err)
	}
	rc.Content = json.RawMessage(content)
	return &rc, nil
}

// SaveResume replaces the stored résumé and records who changed it.
func (db *DB) SaveResume(ctx context.Context, content json.RawMessage, updatedBy *uuid.UUID) (*types.ResumeContent, error) {
	rc := types.ResumeContent{Content: content, UpdatedBy: updatedBy}
	err := db.pool.QueryRow(ctx,
		`INSERT INTO resume_content (id, content, updated_by, updated_at)
		 VALUES ($1, $2, $3, NOW())
		 ON CONFLICT (id) DO UPDATE SET content = $2, updated_by = $3, updated_at = NOW()
		 RETURNING updated_at`,
		ResumeRowID, []byte(content), updatedBy,
	).Scan(&rc.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to save resume: %w", err)
	}
	return &rc, nil
}
