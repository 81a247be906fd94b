package stream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"iter"
	"net/http"
	"strings"
	"time"

	"github.com/jonathan/portfolio/internal/types"
)

// ChatPath is the chat endpoint relative to the server base URL.
const ChatPath = "/api/chat"

const maxErrorBodySize = 64 << 10

// Client posts a conversation to the chat endpoint and streams the reply.
type Client struct {
	baseURL    string
	httpClient *http.Client
	apiKey     string
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient overrides the HTTP client. It must not set a short overall
// timeout since replies stream for as long as the model writes.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.httpClient = hc }
}

// WithAPIKey sends key as a bearer token.
func WithAPIKey(key string) ClientOption {
	return func(c *Client) { c.apiKey = key }
}

// NewClient returns a client for the server at baseURL.
func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Transport: &http.Transport{
				Proxy:                 http.ProxyFromEnvironment,
				ResponseHeaderTimeout: 60 * time.Second,
			},
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Response is an open reply stream. Close releases the connection.
type Response struct {
	ctx  context.Context
	body io.ReadCloser
}

// Updates decodes the reply lazily.
func (r *Response) Updates() iter.Seq2[Update, error] {
	return Ingest(r.ctx, r.body)
}

// Close closes the response body.
func (r *Response) Close() error {
	return r.body.Close()
}

// Stream sends messages and returns the open reply. Transport failures,
// non-2xx statuses (*StatusError) and empty bodies (ErrNoBody) are reported here,
// before anything has been read from the reply.
func (c *Client) Stream(ctx context.Context, messages []types.ChatMessage) (*Response, error) {
	body, err := json.Marshal(types.ChatRequest{Messages: messages})
	if err != nil {
		return nil, fmt.Errorf("failed to encode chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+ChatPath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "text/event-stream")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send chat request: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		defer func() { _ = resp.Body.Close() }()
		return nil, &StatusError{StatusCode: resp.StatusCode, Message: readErrorMessage(resp.Body)}
	}
	if resp.Body == nil || resp.Body == http.NoBody {
		if resp.Body != nil {
			_ = resp.Body.Close()
		}
		return nil, ErrNoBody
	}
	return &Response{ctx: ctx, body: resp.Body}, nil
}

// Ask runs one full turn: it records text as a user entry, streams the reply
// into tr and, on any failure, records exactly one error entry.
func (c *Client) Ask(ctx context.Context, tr *Transcript, text string) error {
	tr.AddUser(text)
	turn := tr.Begin()

	resp, err := c.Stream(ctx, tr.Messages())
	if err != nil {
		turn.Fail(err)
		return err
	}
	defer func() { _ = resp.Close() }()

	if err := turn.Consume(resp.Updates()); err != nil {
		turn.Fail(err)
		return err
	}
	return nil
}

func readErrorMessage(r io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(r, maxErrorBodySize))
	if err != nil || len(data) == 0 {
		return ""
	}
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(data, &payload); err == nil {
		return payload.Error
	}
	return ""
}
