package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestOpenAI(t *testing.T, handler http.HandlerFunc) *OpenAIClient {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewOpenAIClient(&Config{Provider: ProviderOpenAI, Model: "test-model", BaseURL: server.URL + "/v1/", APIKey: "k", Timeout: DefaultTimeout})
}

func TestOpenAI_Stream(t *testing.T) {
	var got map[string]any
	client := newTestOpenAI(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer k", r.Header.Get("Authorization"))
		_ = json.NewDecoder(r.Body).Decode(&got)

		w.Header().Set("Content-Type", "text/event-stream")
		for _, piece := range []string{"Hel", "lo"} {
			_, _ = fmt.Fprintf(w, "data: {\"choices\":[{\"index\":0,\"delta\":{\"content\":%q}}]}\n\n", piece)
		}
		_, _ = fmt.Fprint(w, "data: [DONE]\n\n")
	})

	req := Request{
		System:      "be brief",
		Messages:    []Message{{Role: RoleUser, Content: "hi"}},
		Temperature: Temperature(0.3),
	}
	var deltas []string
	for delta, err := range client.Stream(context.Background(), req) {
		require.NoError(t, err)
		deltas = append(deltas, delta)
	}

	assert.Equal(t, []string{"Hel", "lo"}, deltas)
	assert.Equal(t, "test-model", got["model"])
	assert.Equal(t, true, got["stream"])
	msgs := got["messages"].([]any)
	require.Len(t, msgs, 2)
	assert.Equal(t, "system", msgs[0].(map[string]any)["role"])
}

func TestOpenAI_StreamRateLimited(t *testing.T) {
	client := newTestOpenAI(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"slow down","type":"rate_limit"}}`))
	})

	var errs []error
	for _, err := range client.Stream(context.Background(), Request{Messages: []Message{{Role: RoleUser, Content: "hi"}}}) {
		errs = append(errs, err)
	}
	require.Len(t, errs, 1)
	assert.Equal(t, KindRateLimited, KindOf(errs[0]))
}

func TestOpenAI_CompleteJSON(t *testing.T) {
	var got map[string]any
	client := newTestOpenAI(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"index":0,"message":{"role":"assistant","content":"{\"ok\":true}"}}]}`))
	})

	text, err := client.Complete(context.Background(), Request{
		Messages: []Message{{Role: RoleUser, Content: "analyze"}},
		JSON:     true,
	})
	require.NoError(t, err)
	assert.Equal(t, `{"ok":true}`, text)
	assert.Equal(t, map[string]any{"type": "json_object"}, got["response_format"])
}

func TestOpenAI_CompletePaymentRequired(t *testing.T) {
	client := newTestOpenAI(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusPaymentRequired)
		_, _ = w.Write([]byte(`{"error":{"message":"credits exhausted"}}`))
	})

	_, err := client.Complete(context.Background(), Request{Messages: []Message{{Role: RoleUser, Content: "x"}}})
	require.Error(t, err)
	assert.Equal(t, KindPaymentRequired, KindOf(err))
}
