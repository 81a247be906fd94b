// Package stream decodes chat completion streams into transcript updates.
//
// The wire format is line oriented: blank lines and lines starting with ':' are
// heartbeats, lines starting with "data: " carry either the [DONE] sentinel or a
// JSON chunk of the form {"choices":[{"delta":{"content":"..."}}]}. Every other
// line is ignored.
package stream

import (
	"encoding/json"
	"strings"
)

// Wire format constants.
const (
	DataPrefix   = "data: "
	DoneSentinel = "[DONE]"
)

// FrameKind classifies a single line of the stream.
type FrameKind int

const (
	FrameBlank FrameKind = iota
	FrameComment
	FrameData
	FrameDone
	FrameOther
)

func (k FrameKind) String() string {
	switch k {
	case FrameBlank:
		return "blank"
	case FrameComment:
		return "comment"
	case FrameData:
		return "data"
	case FrameDone:
		return "done"
	default:
		return "other"
	}
}

// Frame is one classified line. Payload is set for data frames only.
type Frame struct {
	Kind    FrameKind
	Payload string
}

// ClassifyLine classifies a line with its trailing newline already removed.
// A trailing carriage return is tolerated.
func ClassifyLine(line string) Frame {
	line = strings.TrimSuffix(line, "\r")
	if strings.TrimSpace(line) == "" {
		return Frame{Kind: FrameBlank}
	}
	if strings.HasPrefix(line, ":") {
		return Frame{Kind: FrameComment}
	}
	if !strings.HasPrefix(line, DataPrefix) {
		return Frame{Kind: FrameOther}
	}
	payload := strings.TrimSpace(line[len(DataPrefix):])
	if payload == DoneSentinel {
		return Frame{Kind: FrameDone}
	}
	return Frame{Kind: FrameData, Payload: payload}
}

// chunk is the subset of a completion chunk the engine reads.
type chunk struct {
	Choices []struct {
		Delta struct {
			Content string `json:"content"`
		} `json:"delta"`
	} `json:"choices"`
	Error json.RawMessage `json:"error,omitempty"`
}

// decodeChunk extracts the text delta from a data payload. An error object in
// the payload is reported as *UpstreamError; invalid JSON returns the decode error.
func decodeChunk(payload string) (string, error) {
	var c chunk
	if err := json.Unmarshal([]byte(payload), &c); err != nil {
		return "", err
	}
	if len(c.Error) > 0 && string(c.Error) != "null" {
		return "", newUpstreamError(c.Error)
	}
	if len(c.Choices) == 0 {
		return "", nil
	}
	return c.Choices[0].Delta.Content, nil
}
