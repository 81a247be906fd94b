package llm

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

// GeminiClient implements Client for Google Gemini
type GeminiClient struct {
	client *genai.Client
	config *Config
}

// NewGeminiClient creates a new Gemini client
func NewGeminiClient(ctx context.Context, config *Config) (*GeminiClient, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	opts := []option.ClientOption{option.WithAPIKey(config.APIKey)}
	if config.BaseURL != "" {
		opts = append(opts, option.WithEndpoint(config.BaseURL))
	}
	client, err := genai.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiClient{client: client, config: config}, nil
}

func (c *GeminiClient) model(req Request) *genai.GenerativeModel {
	model := c.client.GenerativeModel(c.config.Model)
	if req.System != "" {
		model.SystemInstruction = genai.NewUserContent(genai.Text(req.System))
	}
	if req.Temperature != nil {
		model.SetTemperature(*req.Temperature)
	}
	if req.JSON {
		model.ResponseMIMEType = "application/json"
	}
	return model
}

// Stream sends the conversation and yields text deltas as they arrive.
func (c *GeminiClient) Stream(ctx context.Context, req Request) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		history, last, err := geminiHistory(req.Messages)
		if err != nil {
			yield("", err)
			return
		}

		ctx, cancel := context.WithTimeout(ctx, c.config.Timeout)
		defer cancel()

		cs := c.model(req).StartChat()
		cs.History = history
		it := cs.SendMessageStream(ctx, genai.Text(last))
		for {
			resp, err := it.Next()
			if errors.Is(err, iterator.Done) {
				return
			}
			if err != nil {
				yield("", mapGeminiError(err))
				return
			}
			text := geminiText(resp)
			if text == "" {
				continue
			}
			if !yield(text, nil) {
				return
			}
		}
	}
}

// Complete returns the whole response in one call.
func (c *GeminiClient) Complete(ctx context.Context, req Request) (string, error) {
	history, last, err := geminiHistory(req.Messages)
	if err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	cs := c.model(req).StartChat()
	cs.History = history
	resp, err := cs.SendMessage(ctx, genai.Text(last))
	if err != nil {
		return "", mapGeminiError(err)
	}

	text := geminiText(resp)
	if text == "" {
		return "", &ProviderError{Provider: ProviderGemini, Kind: KindEmptyResponse, Message: "no content in response"}
	}
	return text, nil
}

// Model returns the configured model name.
func (c *GeminiClient) Model() string {
	return c.config.Model
}

// Close releases resources held by the client
func (c *GeminiClient) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// geminiHistory splits messages into prior turns and the final user prompt.
// Gemini names the assistant role "model".
func geminiHistory(msgs []Message) ([]*genai.Content, string, error) {
	if len(msgs) == 0 {
		return nil, "", &ProviderError{Provider: ProviderGemini, Kind: KindInvalidRequest, Message: "no messages"}
	}
	last := msgs[len(msgs)-1]
	if last.Role != RoleUser {
		return nil, "", &ProviderError{Provider: ProviderGemini, Kind: KindInvalidRequest, Message: "last message must be from the user"}
	}

	history := make([]*genai.Content, 0, len(msgs)-1)
	for _, m := range msgs[:len(msgs)-1] {
		role := "user"
		if m.Role == RoleAssistant {
			role = "model"
		}
		history = append(history, &genai.Content{Role: role, Parts: []genai.Part{genai.Text(m.Content)}})
	}
	return history, last.Content, nil
}

func geminiText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}
	candidate := resp.Candidates[0]
	if candidate.Content == nil {
		return ""
	}
	var sb strings.Builder
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	return sb.String()
}

func mapGeminiError(err error) error {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		return newProviderError(ProviderGemini, gerr.Code, gerr.Message, err)
	}
	return newProviderError(ProviderGemini, 0, err.Error(), err)
}
