package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSessionConfig(t *testing.T) {
	tests := []struct {
		name      string
		secret    string
		jwtSecret string
		ttl       string
		wantTTL   int
		wantErr   bool
	}{
		{name: "defaults", secret: "0123456789abcdef", wantTTL: 24},
		{name: "custom ttl", secret: "0123456789abcdef", ttl: "8", wantTTL: 8},
		{name: "jwt secret fallback", jwtSecret: "fedcba9876543210", wantTTL: 24},
		{name: "missing secret", wantErr: true},
		{name: "short secret", secret: "short", wantErr: true},
		{name: "invalid ttl", secret: "0123456789abcdef", ttl: "soon", wantErr: true},
		{name: "zero ttl", secret: "0123456789abcdef", ttl: "0", wantErr: true},
		{name: "ttl too long", secret: "0123456789abcdef", ttl: "1000", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("SESSION_SECRET", tt.secret)
			t.Setenv("JWT_SECRET", tt.jwtSecret)
			t.Setenv("SESSION_TTL_HOURS", tt.ttl)

			cfg, err := NewSessionConfig()
			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, cfg)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantTTL, cfg.TTLHours)
			assert.Equal(t, time.Duration(tt.wantTTL)*time.Hour, cfg.TTL())
		})
	}
}
