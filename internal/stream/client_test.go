package stream

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jonathan/portfolio/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func streamingServer(t *testing.T, lines ...string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, ChatPath, r.URL.Path)

		var req types.ChatRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.NotEmpty(t, req.Messages)

		w.Header().Set("Content-Type", "text/event-stream")
		flusher := w.(http.Flusher)
		for _, l := range lines {
			_, _ = io.WriteString(w, l)
			flusher.Flush()
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_Ask(t *testing.T) {
	srv := streamingServer(t, ": ok\n\n", dataLine("Hi"), dataLine(" there"), "data: [DONE]\n")

	tr := NewTranscript()
	err := NewClient(srv.URL).Ask(context.Background(), tr, "hello?")
	require.NoError(t, err)

	assert.Equal(t, []types.ChatMessage{
		{Role: types.RoleUser, Content: "hello?"},
		{Role: types.RoleAssistant, Content: "Hi there"},
	}, tr.Messages())
}

func TestClient_StatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = io.WriteString(w, `{"error":"Rate limits exceeded. Please try again in a moment."}`)
	}))
	defer srv.Close()

	tr := NewTranscript()
	err := NewClient(srv.URL).Ask(context.Background(), tr, "q")

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusTooManyRequests, statusErr.StatusCode)

	msgs := tr.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, "I'm sorry, I encountered an error: Rate limits exceeded. Please try again in a moment.", msgs[1].Content)
}

func TestClient_StatusErrorWithoutBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).Stream(context.Background(), []types.ChatMessage{{Role: types.RoleUser, Content: "q"}})
	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Contains(t, statusErr.Error(), "502")
}

func TestClient_NoBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	tr := NewTranscript()
	err := NewClient(srv.URL).Ask(context.Background(), tr, "q")
	assert.True(t, errors.Is(err, ErrNoBody))
	assert.Equal(t, 2, tr.Len())
}

func TestClient_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	tr := NewTranscript()
	err := NewClient(url).Ask(context.Background(), tr, "q")
	require.Error(t, err)
	msgs := tr.Messages()
	require.Len(t, msgs, 2)
	assert.Contains(t, msgs[1].Content, "I'm sorry, I encountered an error:")
}

func TestClient_MidStreamErrorKeepsPartialReply(t *testing.T) {
	srv := streamingServer(t, dataLine("Partial"), `data: {"error":{"message":"provider went away"}}`+"\n")

	tr := NewTranscript()
	err := NewClient(srv.URL).Ask(context.Background(), tr, "q")

	var upstream *UpstreamError
	require.ErrorAs(t, err, &upstream)
	msgs := tr.Messages()
	require.Len(t, msgs, 3)
	assert.Equal(t, "Partial", msgs[1].Content)
	assert.Equal(t, "I'm sorry, I encountered an error: provider went away", msgs[2].Content)
}

func TestClient_SendsAPIKey(t *testing.T) {
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		_, _ = io.WriteString(w, "data: [DONE]\n")
	}))
	defer srv.Close()

	err := NewClient(srv.URL, WithAPIKey("k"), WithHTTPClient(srv.Client())).Ask(context.Background(), NewTranscript(), "q")
	require.NoError(t, err)
	assert.Equal(t, "Bearer k", auth)
}
