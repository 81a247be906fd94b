package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"iter"
	"net/http"
	"net/url"

	"github.com/ollama/ollama/api"
)

// DefaultOllamaHost is used when Config.BaseURL is empty.
const DefaultOllamaHost = "http://localhost:11434"

// errStopped ends an Ollama stream when the consumer stops reading.
var errStopped = errors.New("stream stopped by consumer")

// OllamaClient implements Client for a local Ollama server.
type OllamaClient struct {
	client *api.Client
	config *Config
}

// NewOllamaClient creates a client for the server at config.BaseURL.
func NewOllamaClient(config *Config) (*OllamaClient, error) {
	host := config.BaseURL
	if host == "" {
		host = DefaultOllamaHost
	}
	u, err := url.Parse(host)
	if err != nil {
		return nil, fmt.Errorf("invalid Ollama host %q: %w", host, err)
	}
	return &OllamaClient{client: api.NewClient(u, &http.Client{}), config: config}, nil
}

func (c *OllamaClient) request(req Request) *api.ChatRequest {
	msgs := make([]api.Message, 0, len(req.Messages)+1)
	if req.System != "" {
		msgs = append(msgs, api.Message{Role: "system", Content: req.System})
	}
	for _, m := range req.Messages {
		msgs = append(msgs, api.Message{Role: m.Role, Content: m.Content})
	}

	stream := true
	r := &api.ChatRequest{
		Model:    c.config.Model,
		Messages: msgs,
		Stream:   &stream,
	}
	if req.Temperature != nil {
		r.Options = map[string]any{"temperature": *req.Temperature}
	}
	if req.JSON {
		r.Format = json.RawMessage(`"json"`)
	}
	return r
}

// Stream yields message deltas from Ollama's chat endpoint.
func (c *OllamaClient) Stream(ctx context.Context, req Request) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		ctx, cancel := context.WithTimeout(ctx, c.config.Timeout)
		defer cancel()

		err := c.client.Chat(ctx, c.request(req), func(res api.ChatResponse) error {
			if res.Message.Content == "" {
				return nil
			}
			if !yield(res.Message.Content, nil) {
				return errStopped
			}
			return nil
		})
		if err != nil && !errors.Is(err, errStopped) {
			yield("", mapOllamaError(err))
		}
	}
}

// Complete gathers the streamed response.
func (c *OllamaClient) Complete(ctx context.Context, req Request) (string, error) {
	text, err := collect(c.Stream(ctx, req))
	if err != nil {
		return "", err
	}
	if text == "" {
		return "", &ProviderError{Provider: ProviderOllama, Kind: KindEmptyResponse, Message: "no content in response"}
	}
	return text, nil
}

// Model returns the configured model name.
func (c *OllamaClient) Model() string {
	return c.config.Model
}

// Close is a no-op.
func (c *OllamaClient) Close() error {
	return nil
}

func mapOllamaError(err error) error {
	var se api.StatusError
	if errors.As(err, &se) {
		return newProviderError(ProviderOllama, se.StatusCode, se.ErrorMessage, err)
	}
	return newProviderError(ProviderOllama, 0, err.Error(), err)
}
