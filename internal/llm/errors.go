package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind classifies provider failures for HTTP mapping.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindRateLimited
	KindPaymentRequired
	KindAuthentication
	KindInvalidRequest
	KindUnavailable
	KindTimeout
	KindEmptyResponse
)

func (k ErrorKind) String() string {
	switch k {
	case KindRateLimited:
		return "rate_limited"
	case KindPaymentRequired:
		return "payment_required"
	case KindAuthentication:
		return "authentication"
	case KindInvalidRequest:
		return "invalid_request"
	case KindUnavailable:
		return "unavailable"
	case KindTimeout:
		return "timeout"
	case KindEmptyResponse:
		return "empty_response"
	default:
		return "unknown"
	}
}

// ProviderError is a failure reported by an LLM provider.
type ProviderError struct {
	Provider   Provider
	Kind       ErrorKind
	StatusCode int
	Message    string
	Cause      error
}

func (e *ProviderError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s error (status %d): %s", e.Provider, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s error: %s", e.Provider, e.Message)
}

func (e *ProviderError) Unwrap() error {
	return e.Cause
}

// KindOf returns the classification of err, or KindUnknown.
func KindOf(err error) ErrorKind {
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe.Kind
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return KindTimeout
	}
	return KindUnknown
}

// kindForStatus maps an upstream HTTP status to an ErrorKind.
func kindForStatus(status int) ErrorKind {
	switch {
	case status == http.StatusTooManyRequests:
		return KindRateLimited
	case status == http.StatusPaymentRequired:
		return KindPaymentRequired
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return KindAuthentication
	case status >= 500:
		return KindUnavailable
	case status >= 400:
		return KindInvalidRequest
	default:
		return KindUnknown
	}
}

func newProviderError(p Provider, status int, msg string, cause error) *ProviderError {
	kind := kindForStatus(status)
	if status == 0 && errors.Is(cause, context.DeadlineExceeded) {
		kind = KindTimeout
	}
	return &ProviderError{Provider: p, Kind: kind, StatusCode: status, Message: msg, Cause: cause}
}
