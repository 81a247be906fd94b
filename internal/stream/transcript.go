package stream

import (
	"iter"
	"sync"

	"github.com/jonathan/portfolio/internal/types"
)

// Transcript is an ordered chat history owned by the caller. Updates are applied
// through a Turn, which remembers the index of its own assistant message, so two
// turns streaming at once never overwrite each other.
type Transcript struct {
	mu       sync.Mutex
	messages []types.ChatMessage
}

// NewTranscript returns a transcript seeded with a copy of messages.
func NewTranscript(messages ...types.ChatMessage) *Transcript {
	return &Transcript{messages: append([]types.ChatMessage(nil), messages...)}
}

// AddUser appends a user entry.
func (t *Transcript) AddUser(content string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.messages = append(t.messages, types.ChatMessage{Role: types.RoleUser, Content: content})
}

// Messages returns a copy of the transcript.
func (t *Transcript) Messages() []types.ChatMessage {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]types.ChatMessage(nil), t.messages...)
}

// Len returns the number of entries.
func (t *Transcript) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.messages)
}

// Begin opens a turn whose assistant message does not exist yet.
func (t *Transcript) Begin() *Turn {
	return &Turn{t: t, index: -1}
}

func (t *Transcript) appendAssistant(content string) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.messages = append(t.messages, types.ChatMessage{Role: types.RoleAssistant, Content: content})
	return len(t.messages) - 1
}

func (t *Transcript) setContent(i int, content string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.messages[i].Content = content
}

// Turn folds the updates of one response into its transcript.
type Turn struct {
	t      *Transcript
	index  int // -1 until the assistant message is created
	failed bool
}

// Apply folds u into the transcript. The first update of the turn creates the
// assistant message whatever its kind, later ones replace its content.
func (tu *Turn) Apply(u Update) {
	if tu.failed {
		return
	}
	if tu.index < 0 {
		tu.index = tu.t.appendAssistant(u.Content)
		return
	}
	tu.t.setContent(tu.index, u.Content)
}

// Fail records err as a single assistant entry. Content already streamed for
// the turn is kept. Later calls are no-ops.
func (tu *Turn) Fail(err error) {
	if tu.failed || err == nil {
		return
	}
	tu.failed = true
	tu.t.appendAssistant(ErrorMessage(err))
}

// Consume applies every update of seq and returns the error that ended it, if any.
func (tu *Turn) Consume(seq iter.Seq2[Update, error]) error {
	for u, err := range seq {
		if err != nil {
			return err
		}
		tu.Apply(u)
	}
	return nil
}

// Started reports whether the turn has produced an assistant message.
func (tu *Turn) Started() bool {
	return tu.index >= 0
}
