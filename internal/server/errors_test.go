package server

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jonathan/portfolio/internal/fetch"
	"github.com/jonathan/portfolio/internal/layout"
	"github.com/jonathan/portfolio/internal/llm"
	"github.com/jonathan/portfolio/internal/schemas"
	"github.com/jonathan/portfolio/internal/types"
	"github.com/stretchr/testify/assert"
)

func TestErrInvalidCredentials(t *testing.T) {
	err := &ErrInvalidCredentials{}
	assert.Equal(t, "invalid password", err.Error())
	assert.Equal(t, http.StatusUnauthorized, HTTPStatus(err))
}

func TestErrValidation(t *testing.T) {
	err := &ErrValidation{Field: "content", Message: "Content is required"}
	assert.Equal(t, "validation error: content - Content is required", err.Error())
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(err))
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "nil", err: nil, want: http.StatusOK},
		{name: "schema", err: &schemas.ValidationError{Errors: []schemas.FieldError{{Field: "personal", Message: "required"}}}, want: http.StatusBadRequest},
		{name: "wrapped validation", err: fmt.Errorf("decode: %w", &ErrValidation{Field: "body"}), want: http.StatusBadRequest},
		{name: "session not found", err: ErrSessionNotFound, want: http.StatusUnauthorized},
		{name: "generation in progress", err: layout.ErrGenerationInProgress, want: http.StatusConflict},
		{name: "fetch", err: &fetch.Error{URL: "https://example.com", Message: "HTTP 500"}, want: http.StatusBadGateway},
		{name: "rate limited", err: &llm.ProviderError{Kind: llm.KindRateLimited}, want: http.StatusTooManyRequests},
		{name: "payment required", err: fmt.Errorf("chat: %w", &llm.ProviderError{Kind: llm.KindPaymentRequired}), want: http.StatusPaymentRequired},
		{name: "other provider failure", err: &llm.ProviderError{Kind: llm.KindTimeout}, want: http.StatusInternalServerError},
		{name: "generic", err: errors.New("boom"), want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.err))
		})
	}
}

func TestClientMessage(t *testing.T) {
	assert.Equal(t, "Invalid request body", clientMessage(&ErrValidation{Field: "body", Message: "Invalid request body"}, "fallback"))
	assert.Equal(t, msgRateLimited, clientMessage(&llm.ProviderError{Kind: llm.KindRateLimited}, "fallback"))
	assert.Equal(t, msgPaymentRequired, clientMessage(&llm.ProviderError{Kind: llm.KindPaymentRequired}, "fallback"))
	assert.Equal(t, "fallback", clientMessage(errors.New("internal detail"), "fallback"))
}

func TestDescribeValidation(t *testing.T) {
	req := types.ChatRequest{Messages: []types.ChatMessage{{Role: "system", Content: ""}}}
	msg := describeValidation(req.Validate())
	assert.Contains(t, msg, "Messages[0].Role must be one of [user assistant]")
	assert.Contains(t, msg, "Messages[0].Content is required")

	empty := types.ChatRequest{}
	assert.Equal(t, "Messages is required", describeValidation(empty.Validate()))

	assert.Equal(t, "plain", describeValidation(errors.New("plain")))
}
