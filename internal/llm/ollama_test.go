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

func newTestOllama(t *testing.T, handler http.HandlerFunc) *OllamaClient {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client, err := NewOllamaClient(&Config{Provider: ProviderOllama, Model: "llama3.2", BaseURL: server.URL, Timeout: DefaultTimeout})
	require.NoError(t, err)
	return client
}

func TestOllama_Stream(t *testing.T) {
	var got map[string]any
	client := newTestOllama(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/chat", r.URL.Path)
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.Header().Set("Content-Type", "application/x-ndjson")
		for _, piece := range []string{"Sure", ", here."} {
			_, _ = fmt.Fprintf(w, "{\"model\":\"llama3.2\",\"message\":{\"role\":\"assistant\",\"content\":%q},\"done\":false}\n", piece)
		}
		_, _ = fmt.Fprint(w, "{\"model\":\"llama3.2\",\"message\":{\"role\":\"assistant\",\"content\":\"\"},\"done\":true}\n")
	})

	text, err := client.Complete(context.Background(), Request{
		System:      "ctx",
		Messages:    []Message{{Role: RoleUser, Content: "q"}},
		Temperature: Temperature(0.3),
		JSON:        true,
	})
	require.NoError(t, err)
	assert.Equal(t, "Sure, here.", text)
	assert.Equal(t, "json", got["format"])
	assert.Equal(t, map[string]any{"temperature": 0.3}, roundOptions(got["options"]))
}

func roundOptions(v any) map[string]any {
	m, _ := v.(map[string]any)
	if t, ok := m["temperature"].(float64); ok {
		m["temperature"] = float64(int(t*10+0.5)) / 10
	}
	return m
}

func TestOllama_StopEarly(t *testing.T) {
	client := newTestOllama(t, func(w http.ResponseWriter, _ *http.Request) {
		for i := 0; i < 5; i++ {
			_, _ = fmt.Fprintf(w, "{\"message\":{\"role\":\"assistant\",\"content\":\"%d\"},\"done\":false}\n", i)
		}
	})

	var first []string
	for delta, err := range client.Stream(context.Background(), Request{Messages: []Message{{Role: RoleUser, Content: "q"}}}) {
		require.NoError(t, err)
		first = append(first, delta)
		if len(first) == 2 {
			break
		}
	}
	assert.Equal(t, []string{"0", "1"}, first)
}

func TestOllama_ModelMissing(t *testing.T) {
	client := newTestOllama(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"model \"llama3.2\" not found"}`))
	})

	_, err := client.Complete(context.Background(), Request{Messages: []Message{{Role: RoleUser, Content: "q"}}})
	require.Error(t, err)
	var pe *ProviderError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, ProviderOllama, pe.Provider)
	assert.Contains(t, pe.Message, "not found")
}
