package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	sse "github.com/tmaxmax/go-sse"
)

// doneSentinel ends a chat stream.
const doneSentinel = "[DONE]"

type deltaFrame struct {
	Choices []deltaChoice `json:"choices"`
}

type deltaChoice struct {
	Delta struct {
		Content string `json:"content"`
	} `json:"delta"`
}

type errorFrame struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// SSEWriter writes chat deltas as data-only events in the
// {"choices":[{"delta":{"content":...}}]} framing, terminated by [DONE].
type SSEWriter struct {
	session *sse.Session
}

// NewSSEWriter prepares w for streaming. Nothing is written until the first
// event, so the caller can still send a plain error response.
func NewSSEWriter(w http.ResponseWriter, r *http.Request) (*SSEWriter, error) {
	session, err := sse.Upgrade(w, r)
	if err != nil {
		return nil, fmt.Errorf("streaming not supported: %w", err)
	}
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	return &SSEWriter{session: session}, nil
}

func (s *SSEWriter) send(data string) error {
	msg := &sse.Message{}
	msg.AppendData(data)
	if err := s.session.Send(msg); err != nil {
		return err
	}
	return s.session.Flush()
}

func (s *SSEWriter) sendJSON(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.send(string(data))
}

// WriteDelta sends one content delta.
func (s *SSEWriter) WriteDelta(content string) error {
	frame := deltaFrame{Choices: make([]deltaChoice, 1)}
	frame.Choices[0].Delta.Content = content
	return s.sendJSON(frame)
}

// WriteError reports a failure after the stream has started.
func (s *SSEWriter) WriteError(message string) error {
	var frame errorFrame
	frame.Error.Message = message
	return s.sendJSON(frame)
}

// WriteDone sends the [DONE] sentinel.
func (s *SSEWriter) WriteDone() error {
	return s.send(doneSentinel)
}
