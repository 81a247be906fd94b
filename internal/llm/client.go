package llm

import (
	"context"
	"fmt"
	"iter"
	"strings"
)

// Role names used in Message.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one turn of the conversation sent to a provider.
type Message struct {
	Role    string
	Content string
}

// Request is a provider-neutral completion request.
type Request struct {
	System      string
	Messages    []Message
	Temperature *float32
	JSON        bool // ask for a JSON object response
}

// Temperature returns a pointer for Request.Temperature.
func Temperature(t float32) *float32 {
	return &t
}

// Client is an abstraction over LLM providers
type Client interface {
	// Stream yields content deltas. A failure before the first delta is
	// yielded as the first element.
	Stream(ctx context.Context, req Request) iter.Seq2[string, error]
	// Complete returns the full response text.
	Complete(ctx context.Context, req Request) (string, error)
	// Model returns the configured model name.
	Model() string
	// Close releases any resources held by the client
	Close() error
}

// NewClient creates a new LLM client based on configuration
func NewClient(ctx context.Context, config *Config) (Client, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.normalize(); err != nil {
		return nil, err
	}

	switch config.Provider {
	case ProviderGemini:
		return NewGeminiClient(ctx, config)
	case ProviderOpenAI:
		return NewOpenAIClient(config), nil
	case ProviderOllama:
		return NewOllamaClient(config)
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %q", config.Provider)
	}
}

// collect drains a stream into one string.
func collect(seq iter.Seq2[string, error]) (string, error) {
	var sb strings.Builder
	for delta, err := range seq {
		if err != nil {
			return "", err
		}
		sb.WriteString(delta)
	}
	return sb.String(), nil
}
