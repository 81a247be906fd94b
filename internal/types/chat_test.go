//nolint:revive // types is a standard Go package name pattern
package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChatRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		request ChatRequest
		wantErr bool
	}{
		{
			name:    "single user message",
			request: ChatRequest{Messages: []ChatMessage{{Role: RoleUser, Content: "Hi"}}},
		},
		{
			name: "conversation",
			request: ChatRequest{Messages: []ChatMessage{
				{Role: RoleUser, Content: "Hi"},
				{Role: RoleAssistant, Content: "Hello"},
				{Role: RoleUser, Content: "Tell me more"},
			}},
		},
		{name: "no messages", request: ChatRequest{}, wantErr: true},
		{
			name:    "unknown role",
			request: ChatRequest{Messages: []ChatMessage{{Role: "system", Content: "x"}}},
			wantErr: true,
		},
		{
			name:    "empty content",
			request: ChatRequest{Messages: []ChatMessage{{Role: RoleUser}}},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.request.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
