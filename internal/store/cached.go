package store

import (
	"context"
	"encoding/json"
	"strconv"
	"sync"

	"github.com/google/uuid"
	"github.com/jonathan/portfolio/internal/types"
	"golang.org/x/sync/singleflight"
)

// Cached is a read-through cache over a ResumeStore. Every public page view
// reads the résumé, so concurrent misses share one backend load. Saves made
// through the cache replace the cached value.
type Cached struct {
	ResumeStore

	group singleflight.Group
	mu    sync.RWMutex
	value *types.ResumeContent
	valid bool
	// gen changes on every save or invalidation. A load only fills the cache
	// if gen is unchanged since it started.
	gen uint64
}

// NewCached wraps backend.
func NewCached(backend ResumeStore) *Cached {
	return &Cached{ResumeStore: backend}
}

// GetResume returns the cached résumé, loading it once on a miss.
func (c *Cached) GetResume(ctx context.Context) (*types.ResumeContent, error) {
	c.mu.RLock()
	if c.valid {
		v := c.value
		c.mu.RUnlock()
		return v, nil
	}
	gen := c.gen
	c.mu.RUnlock()

	v, err, _ := c.group.Do(loadKey(gen), func() (any, error) {
		// Detach so one caller's cancellation does not fail the others.
		rc, err := c.ResumeStore.GetResume(context.WithoutCancel(ctx))
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		if c.gen == gen {
			c.value, c.valid = rc, true
		}
		c.mu.Unlock()
		return rc, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*types.ResumeContent), nil
}

// SaveResume writes through to the backend and refreshes the cache.
func (c *Cached) SaveResume(ctx context.Context, content json.RawMessage, updatedBy *uuid.UUID) (*types.ResumeContent, error) {
	rc, err := c.ResumeStore.SaveResume(ctx, content, updatedBy)
	if err != nil {
		c.Invalidate()
		return nil, err
	}
	c.mu.Lock()
	c.gen++
	c.value, c.valid = rc, true
	c.mu.Unlock()
	return rc, nil
}

// Invalidate forces the next read to hit the backend.
func (c *Cached) Invalidate() {
	c.mu.Lock()
	c.gen++
	c.value, c.valid = nil, false
	c.mu.Unlock()
}

// loadKey keys singleflight by generation so a read that misses after a save
// never joins a load started before it.
func loadKey(gen uint64) string {
	return "resume:" + strconv.FormatUint(gen, 10)
}
