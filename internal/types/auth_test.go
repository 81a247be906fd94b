//nolint:revive // types is a standard Go package name pattern
package types

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoginRequest_Validate(t *testing.T) {
	assert.NoError(t, (&LoginRequest{Password: "hunter2"}).Validate())

	err := (&LoginRequest{}).Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "required")
}

func TestVerifyRequest_Validate(t *testing.T) {
	assert.NoError(t, (&VerifyRequest{SessionToken: "abc"}).Validate())
	assert.Error(t, (&VerifyRequest{}).Validate())
}

func TestLoginResponse_JSON(t *testing.T) {
	expires := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	data, err := json.Marshal(LoginResponse{Success: true, SessionToken: "tok", ExpiresAt: expires})
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, true, raw["success"])
	assert.Equal(t, "tok", raw["sessionToken"])
	assert.Equal(t, "2025-01-02T03:04:05Z", raw["expiresAt"])
}

func TestAdminUser_HidesPasswordHash(t *testing.T) {
	data, err := json.Marshal(AdminUser{Username: "admin", PasswordHash: "secret-hash"})
	require.NoError(t, err)
	assert.NotContains(t, string(data), "secret-hash")
}
