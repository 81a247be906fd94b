package types

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// ResumeContent is the stored résumé document plus its audit fields. Content is
// kept as raw JSON so fields the backend does not model survive a round trip.
type ResumeContent struct {
	Content   json.RawMessage `json:"content"`
	UpdatedAt time.Time       `json:"updatedAt"`
	UpdatedBy *uuid.UUID      `json:"-"`
}

// Resume decodes the stored document.
func (c *ResumeContent) Resume() (*Resume, error) {
	return ParseResume(c.Content)
}
