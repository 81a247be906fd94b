package layout

import (
	"errors"
	"fmt"
)

// ErrGenerationInProgress is returned when the same requester already has a
// document being generated.
var ErrGenerationInProgress = errors.New("generation already in progress")

// RenderError reports a failed document generation.
type RenderError struct {
	Message string
	Cause   error
}

func (e *RenderError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("render error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("render error: %s", e.Message)
}

func (e *RenderError) Unwrap() error {
	return e.Cause
}
