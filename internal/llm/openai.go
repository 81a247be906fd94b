package llm

import (
	"context"
	"errors"
	"io"
	"iter"
	"strings"

	goopenai "github.com/sashabaranov/go-openai"
)

// OpenAIClient implements Client for OpenAI-compatible chat completion
// gateways.
type OpenAIClient struct {
	client *goopenai.Client
	config *Config
}

// NewOpenAIClient creates a client. BaseURL, when set, points it at a gateway.
func NewOpenAIClient(config *Config) *OpenAIClient {
	cc := goopenai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		cc.BaseURL = strings.TrimRight(config.BaseURL, "/")
	}
	return &OpenAIClient{client: goopenai.NewClientWithConfig(cc), config: config}
}

func (c *OpenAIClient) request(req Request, stream bool) goopenai.ChatCompletionRequest {
	msgs := make([]goopenai.ChatCompletionMessage, 0, len(req.Messages)+1)
	if req.System != "" {
		msgs = append(msgs, goopenai.ChatCompletionMessage{Role: goopenai.ChatMessageRoleSystem, Content: req.System})
	}
	for _, m := range req.Messages {
		msgs = append(msgs, goopenai.ChatCompletionMessage{Role: m.Role, Content: m.Content})
	}

	r := goopenai.ChatCompletionRequest{
		Model:    c.config.Model,
		Messages: msgs,
		Stream:   stream,
	}
	if req.Temperature != nil {
		r.Temperature = *req.Temperature
	}
	if req.JSON {
		r.ResponseFormat = &goopenai.ChatCompletionResponseFormat{Type: goopenai.ChatCompletionResponseFormatTypeJSONObject}
	}
	return r
}

// Stream yields content deltas from a streamed chat completion.
func (c *OpenAIClient) Stream(ctx context.Context, req Request) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		ctx, cancel := context.WithTimeout(ctx, c.config.Timeout)
		defer cancel()

		stream, err := c.client.CreateChatCompletionStream(ctx, c.request(req, true))
		if err != nil {
			yield("", mapOpenAIError(err))
			return
		}
		defer func() { _ = stream.Close() }()

		for {
			resp, err := stream.Recv()
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil {
				yield("", mapOpenAIError(err))
				return
			}
			if len(resp.Choices) == 0 || resp.Choices[0].Delta.Content == "" {
				continue
			}
			if !yield(resp.Choices[0].Delta.Content, nil) {
				return
			}
		}
	}
}

// Complete runs a non-streamed chat completion.
func (c *OpenAIClient) Complete(ctx context.Context, req Request) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	resp, err := c.client.CreateChatCompletion(ctx, c.request(req, false))
	if err != nil {
		return "", mapOpenAIError(err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", &ProviderError{Provider: ProviderOpenAI, Kind: KindEmptyResponse, Message: "no content in response"}
	}
	return resp.Choices[0].Message.Content, nil
}

// Model returns the configured model name.
func (c *OpenAIClient) Model() string {
	return c.config.Model
}

// Close is a no-op; the HTTP client holds no resources.
func (c *OpenAIClient) Close() error {
	return nil
}

func mapOpenAIError(err error) error {
	var apiErr *goopenai.APIError
	if errors.As(err, &apiErr) {
		return newProviderError(ProviderOpenAI, apiErr.HTTPStatusCode, apiErr.Message, err)
	}
	var reqErr *goopenai.RequestError
	if errors.As(err, &reqErr) {
		msg := reqErr.Error()
		if reqErr.Err != nil {
			msg = reqErr.Err.Error()
		}
		return newProviderError(ProviderOpenAI, reqErr.HTTPStatusCode, msg, err)
	}
	return newProviderError(ProviderOpenAI, 0, err.Error(), err)
}
