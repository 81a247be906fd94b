package types

import "github.com/go-playground/validator/v10"

// Chat roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatMessage is one transcript entry.
type ChatMessage struct {
	Role    string `json:"role" validate:"required,oneof=user assistant"`
	Content string `json:"content" validate:"required"`
}

// ChatRequest is the body of a chat call: the whole conversation so far.
type ChatRequest struct {
	Messages []ChatMessage `json:"messages" validate:"required,min=1,max=50,dive"`
}

// Validate validates the ChatRequest using the validator.
func (r *ChatRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}
