package server

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jonathan/portfolio/internal/config"
	"github.com/jonathan/portfolio/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogin(t *testing.T) {
	tests := []struct {
		name    string
		noAdmin bool
		body    string
		status  int
		message string
	}{
		{name: "missing password", body: `{}`, status: http.StatusBadRequest, message: "Password is required"},
		{name: "empty body", body: "", status: http.StatusBadRequest, message: "Password is required"},
		{name: "wrong password", body: `{"password":"nope"}`, status: http.StatusUnauthorized, message: "Invalid password"},
		{name: "admin not configured", noAdmin: true, body: `{"password":"x"}`, status: http.StatusInternalServerError, message: "Server configuration error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, _ := newTestServer(t, testOptions{noAdmin: tt.noAdmin})
			w := doRequest(t, srv, http.MethodPost, "/api/admin/login", tt.body)
			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.message, decodeBody(t, w)["error"])
		})
	}
}

func TestLogin_Success(t *testing.T) {
	srv, _ := newTestServer(t, testOptions{})

	w := doRequest(t, srv, http.MethodPost, "/api/admin/login", `{"password":"`+testPassword+`"}`)
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, true, body["success"])
	assert.NotEmpty(t, body["sessionToken"])

	expiresAt, err := time.Parse(time.RFC3339, body["expiresAt"].(string))
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), expiresAt, time.Minute)
}

func verify(t *testing.T, srv *Server, token string) bool {
	t.Helper()
	w := doRequest(t, srv, http.MethodPost, "/api/admin/verify", `{"sessionToken":"`+token+`"}`)
	require.Equal(t, http.StatusOK, w.Code)
	return decodeBody(t, w)["valid"].(bool)
}

func TestSessionLifecycle(t *testing.T) {
	srv, _ := newTestServer(t, testOptions{})

	first := login(t, srv)
	assert.True(t, verify(t, srv, first))

	// A new login replaces the previous session.
	second := login(t, srv)
	assert.False(t, verify(t, srv, first))
	assert.True(t, verify(t, srv, second))

	w := doRequest(t, srv, http.MethodPost, "/api/admin/logout", `{"sessionToken":"`+second+`"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decodeBody(t, w)["success"])
	assert.False(t, verify(t, srv, second))
}

func TestVerify_Missing(t *testing.T) {
	srv, _ := newTestServer(t, testOptions{})

	w := doRequest(t, srv, http.MethodPost, "/api/admin/verify", `{}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, decodeBody(t, w)["valid"])

	assert.False(t, verify(t, srv, "garbage"))
}

func TestVerify_BearerHeader(t *testing.T) {
	srv, _ := newTestServer(t, testOptions{})
	token := login(t, srv)

	w := doRequest(t, srv, http.MethodPost, "/api/admin/verify", "", "Authorization", "Bearer "+token)
	assert.Equal(t, true, decodeBody(t, w)["valid"])
}

func TestLogout_UnknownToken(t *testing.T) {
	srv, _ := newTestServer(t, testOptions{})

	w := doRequest(t, srv, http.MethodPost, "/api/admin/logout", `{"sessionToken":"not-a-token"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decodeBody(t, w)["success"])
}

func TestSessionService_Expiry(t *testing.T) {
	srv, _ := newTestServer(t, testOptions{})
	token := login(t, srv)
	ctx := context.Background()

	_, err := srv.sessions.Validate(ctx, token)
	require.NoError(t, err)

	srv.sessions.now = func() time.Time { return time.Now().Add(25 * time.Hour) }
	_, err = srv.sessions.Validate(ctx, token)
	assert.ErrorIs(t, err, ErrSessionNotFound)

	n, err := srv.sessions.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	// Logout still works for a token past its expiry.
	assert.NoError(t, srv.sessions.Logout(ctx, token))
}

func newTestJWTService() *JWTService {
	return NewJWTService(&config.SessionConfig{Secret: "test-secret-key-for-sessions", TTLHours: 24})
}

func testSession(expiresIn time.Duration) *types.AdminSession {
	now := time.Now()
	return &types.AdminSession{ID: uuid.New(), UserID: uuid.New(), ExpiresAt: now.Add(expiresIn), CreatedAt: now}
}

func TestJWTService_RoundTrip(t *testing.T) {
	service := newTestJWTService()
	session := testSession(time.Hour)

	token, err := service.GenerateToken(session, time.Now())
	require.NoError(t, err)
	assert.Len(t, strings.Split(token, "."), 3)

	claims, err := service.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, session.UserID, claims.GetUserID())
	id, err := claims.SessionID()
	require.NoError(t, err)
	assert.Equal(t, session.ID, id)
}

func TestJWTService_Rejects(t *testing.T) {
	service := newTestJWTService()

	expired, err := service.GenerateToken(testSession(-time.Hour), time.Now().Add(-2*time.Hour))
	require.NoError(t, err)
	_, err = service.ValidateToken(expired)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "token expired")

	claims, err := service.ParseIgnoringExpiry(expired)
	require.NoError(t, err, "signature is still checked without expiry")
	assert.NotEmpty(t, claims.ID)

	other := NewJWTService(&config.SessionConfig{Secret: "another-secret-key-value"})
	foreign, err := other.GenerateToken(testSession(time.Hour), time.Now())
	require.NoError(t, err)
	_, err = service.ValidateToken(foreign)
	assert.Error(t, err)
	_, err = service.ParseIgnoringExpiry(foreign)
	assert.Error(t, err)

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"user_id": uuid.NewString()}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = service.ValidateToken(unsigned)
	assert.Error(t, err)

	_, err = service.ValidateToken("")
	assert.Error(t, err)
	_, err = service.ValidateToken("not.a.valid.jwt.token")
	assert.Error(t, err)
}
