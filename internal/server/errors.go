// Package server provides the HTTP API for the portfolio site: résumé content,
// admin sessions, the streaming assistant, job-fit analysis and PDF export.
package server

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/jonathan/portfolio/internal/fetch"
	"github.com/jonathan/portfolio/internal/layout"
	"github.com/jonathan/portfolio/internal/llm"
	"github.com/jonathan/portfolio/internal/schemas"
)

// Messages shown to clients when the model provider refuses a request.
const (
	msgRateLimited     = "Rate limits exceeded. Please try again in a moment."
	msgPaymentRequired = "AI service temporarily unavailable. Please try again later."
)

// ErrInvalidCredentials indicates a wrong admin password.
type ErrInvalidCredentials struct{}

func (e *ErrInvalidCredentials) Error() string {
	return "invalid password"
}

// ErrValidation indicates request validation failure. Message is safe to show
// to the client.
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// HTTPStatus returns the appropriate HTTP status code for an error.
func HTTPStatus(err error) int {
	var (
		validationErr  *ErrValidation
		credentialsErr *ErrInvalidCredentials
		schemaErr      *schemas.ValidationError
		fetchErr       *fetch.Error
	)
	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &validationErr), errors.As(err, &schemaErr):
		return http.StatusBadRequest
	case errors.As(err, &credentialsErr), errors.Is(err, ErrSessionNotFound):
		return http.StatusUnauthorized
	case errors.Is(err, layout.ErrGenerationInProgress):
		return http.StatusConflict
	case errors.As(err, &fetchErr):
		return http.StatusBadGateway
	}

	switch llm.KindOf(err) {
	case llm.KindRateLimited:
		return http.StatusTooManyRequests
	case llm.KindPaymentRequired:
		return http.StatusPaymentRequired
	}
	return http.StatusInternalServerError
}

// clientMessage returns the message to show for err, or fallback when the
// error carries nothing the client should see.
func clientMessage(err error, fallback string) string {
	var validationErr *ErrValidation
	if errors.As(err, &validationErr) {
		return validationErr.Message
	}
	switch llm.KindOf(err) {
	case llm.KindRateLimited:
		return msgRateLimited
	case llm.KindPaymentRequired:
		return msgPaymentRequired
	}
	return fallback
}

// describeValidation flattens validator errors into one line.
func describeValidation(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := fe.Namespace()
		if i := strings.Index(field, "."); i >= 0 {
			field = field[i+1:]
		}
		switch fe.Tag() {
		case "required":
			parts = append(parts, field+" is required")
		case "oneof":
			parts = append(parts, fmt.Sprintf("%s must be one of [%s]", field, fe.Param()))
		case "min":
			parts = append(parts, fmt.Sprintf("%s must have at least %s entries", field, fe.Param()))
		case "max":
			parts = append(parts, fmt.Sprintf("%s must have at most %s entries", field, fe.Param()))
		default:
			parts = append(parts, fmt.Sprintf("%s is invalid (%s)", field, fe.Tag()))
		}
	}
	return strings.Join(parts, "; ")
}
