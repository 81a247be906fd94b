package stream

import (
	"bytes"
	"errors"
	"strings"
)

// UpdateKind discriminates transcript updates.
type UpdateKind int

const (
	// AppendMessage starts the assistant message for the current turn.
	AppendMessage UpdateKind = iota + 1
	// ReplaceLastContent replaces the content of the turn's assistant message.
	ReplaceLastContent
)

func (k UpdateKind) String() string {
	switch k {
	case AppendMessage:
		return "append"
	case ReplaceLastContent:
		return "replace"
	default:
		return "unknown"
	}
}

// Update is one transcript mutation. Content is always the cumulative text of
// the turn so far, never a fragment.
type Update struct {
	Kind    UpdateKind
	Content string
}

// Parser is an incremental decoder for one response stream. Feed it chunks of any
// size in arrival order, then call Flush once the source is exhausted.
//
// A data line whose JSON does not decode is held at the head of the buffer and
// blocks extraction of everything behind it. It is never re-parsed: a line that
// already ended in a newline cannot become valid. Flush drops the held line and
// processes what queued up behind it.
type Parser struct {
	buf       []byte
	content   strings.Builder
	streaming bool // the turn's assistant message exists
	held      bool // buf starts with an undecodable line
	done      bool
}

// NewParser returns a parser for a single turn.
func NewParser() *Parser {
	return &Parser{}
}

// Feed consumes a chunk and returns the updates produced by every complete line
// it finished. After [DONE] or an upstream error, Feed ignores its input.
func (p *Parser) Feed(chunk []byte) ([]Update, error) {
	if p.done {
		return nil, nil
	}
	p.buf = append(p.buf, chunk...)
	if p.held {
		return nil, nil
	}

	var updates []Update
	for !p.done && !p.held {
		i := bytes.IndexByte(p.buf, '\n')
		if i < 0 {
			break
		}
		line := string(p.buf[:i])
		u, ok, err := p.processLine(line, false)
		if err != nil {
			p.done = true
			p.buf = nil
			return updates, err
		}
		if p.held {
			break
		}
		p.buf = p.buf[i+1:]
		if ok {
			updates = append(updates, u)
		}
	}
	return updates, nil
}

// Flush processes whatever is left in the buffer, treating a final line without
// a newline as complete. Undecodable lines are dropped.
func (p *Parser) Flush() ([]Update, error) {
	if p.done {
		return nil, nil
	}
	rest := p.buf
	p.buf = nil
	if p.held {
		p.held = false
		if i := bytes.IndexByte(rest, '\n'); i >= 0 {
			rest = rest[i+1:]
		} else {
			rest = nil
		}
	}

	var updates []Update
	for _, line := range strings.Split(string(rest), "\n") {
		if p.done {
			break
		}
		u, ok, err := p.processLine(line, true)
		if err != nil {
			p.done = true
			return updates, err
		}
		if ok {
			updates = append(updates, u)
		}
	}
	p.done = true
	return updates, nil
}

// Content returns the text accumulated so far.
func (p *Parser) Content() string {
	return p.content.String()
}

// Done reports whether the stream has ended: [DONE] was seen, an upstream
// error arrived, or Flush ran.
func (p *Parser) Done() bool {
	return p.done
}

func (p *Parser) processLine(line string, flushing bool) (Update, bool, error) {
	line = strings.ToValidUTF8(line, "\uFFFD")
	f := ClassifyLine(line)
	switch f.Kind {
	case FrameDone:
		// Terminal for the whole stream. Lines after [DONE] are never applied,
		// even ones that arrive in a later chunk.
		p.done = true
		return Update{}, false, nil
	case FrameData:
	default:
		return Update{}, false, nil
	}

	delta, err := decodeChunk(f.Payload)
	if err != nil {
		var upstream *UpstreamError
		if errors.As(err, &upstream) {
			return Update{}, false, err
		}
		if !flushing {
			p.held = true
		}
		return Update{}, false, nil
	}
	if delta == "" {
		return Update{}, false, nil
	}

	p.content.WriteString(delta)
	kind := ReplaceLastContent
	if !p.streaming {
		p.streaming = true
		kind = AppendMessage
	}
	return Update{Kind: kind, Content: p.content.String()}, true, nil
}
