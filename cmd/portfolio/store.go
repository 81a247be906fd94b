package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/jonathan/portfolio/internal/db"
	"github.com/jonathan/portfolio/internal/store"
	"github.com/jonathan/portfolio/internal/store/bolt"
	"github.com/jonathan/portfolio/internal/types"
)

// openStore picks the backend: Postgres when a database URL is set, then a
// bbolt file, then memory. The returned func releases it.
func openStore(ctx context.Context, databaseURL, storePath string) (store.Store, func(), error) {
	switch {
	case databaseURL != "":
		database, err := db.Connect(ctx, databaseURL)
		if err != nil {
			return nil, nil, err
		}
		if err := database.Migrate(ctx); err != nil {
			database.Close()
			return nil, nil, fmt.Errorf("failed to migrate database: %w", err)
		}
		log.Printf("[store] using postgres")
		return database, database.Close, nil
	case storePath != "":
		st, err := bolt.Open(storePath)
		if err != nil {
			return nil, nil, err
		}
		log.Printf("[store] using bolt file %s", storePath)
		return st, func() { _ = st.Close() }, nil
	default:
		log.Printf("[store] using memory; content is lost on restart")
		return store.NewMemory(), func() {}, nil
	}
}

// notifyingStore calls onSave after every successful write so caches in front
// of the backend can be dropped.
type notifyingStore struct {
	store.ResumeStore
	onSave func()
}

func (s *notifyingStore) SaveResume(ctx context.Context, content json.RawMessage, updatedBy *uuid.UUID) (*types.ResumeContent, error) {
	saved, err := s.ResumeStore.SaveResume(ctx, content, updatedBy)
	if err == nil {
		s.onSave()
	}
	return saved, err
}
