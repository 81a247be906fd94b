package stream

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// ErrNoBody is returned when the chat endpoint answers without a response body.
var ErrNoBody = errors.New("no response body")

// StatusError is returned when the chat endpoint answers with a non-2xx status.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("request failed with status %d: %s", e.StatusCode, http.StatusText(e.StatusCode))
}

// UpstreamError is reported by the server inside the stream after headers were sent.
type UpstreamError struct {
	Message string
}

func (e *UpstreamError) Error() string {
	return e.Message
}

func newUpstreamError(raw json.RawMessage) *UpstreamError {
	var obj struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil && obj.Message != "" {
		return &UpstreamError{Message: obj.Message}
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil && s != "" {
		return &UpstreamError{Message: s}
	}
	return &UpstreamError{Message: "upstream error"}
}

// ErrorMessage renders err as the assistant entry shown in place of a reply.
func ErrorMessage(err error) string {
	return "I'm sorry, I encountered an error: " + err.Error()
}
