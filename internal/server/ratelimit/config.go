package ratelimit

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// EndpointConfig is the limit for one endpoint tier.
type EndpointConfig struct {
	Name   string        // tier name, also the RATE_LIMIT_<NAME>_* env prefix
	Path   string        // exact path, or a prefix when it ends with "/"
	Method string        // HTTP method
	Limit  int           // maximum requests per window
	Window time.Duration // time window
	Burst  int           // burst capacity (defaults to Limit if 0)
}

// LoadConfig loads rate limiting configuration from environment variables.
// Each tier's limit, window and burst can be overridden with
// RATE_LIMIT_<NAME>_LIMIT, RATE_LIMIT_<NAME>_WINDOW and RATE_LIMIT_<NAME>_BURST.
func LoadConfig() *Config {
	enabled := getEnvBool("RATE_LIMIT_ENABLED", true)
	if !enabled {
		return &Config{
			Enabled: false,
		}
	}

	endpoints := DefaultEndpointConfigs()
	for i := range endpoints {
		prefix := "RATE_LIMIT_" + strings.ToUpper(endpoints[i].Name) + "_"
		endpoints[i].Limit = getEnvInt(prefix+"LIMIT", endpoints[i].Limit)
		endpoints[i].Window = getEnvDuration(prefix+"WINDOW", endpoints[i].Window)
		endpoints[i].Burst = getEnvInt(prefix+"BURST", endpoints[i].Burst)
	}

	return &Config{
		Enabled:         enabled,
		DefaultLimit:    getEnvInt("RATE_LIMIT_DEFAULT_LIMIT", 300),
		DefaultWindow:   getEnvDuration("RATE_LIMIT_DEFAULT_WINDOW", time.Minute),
		CleanupInterval: getEnvDuration("RATE_LIMIT_CLEANUP_INTERVAL", 5*time.Minute),
		Whitelist:       parseIPList(getEnvString("RATE_LIMIT_WHITELIST", "")),
		Blacklist:       parseIPList(getEnvString("RATE_LIMIT_BLACKLIST", "")),
		EndpointConfigs: endpoints,
	}
}

// DefaultEndpointConfigs returns the default endpoint-specific configurations.
func DefaultEndpointConfigs() []EndpointConfig {
	return []EndpointConfig{
		// Model calls (strictest limits)
		{Name: "chat", Path: "/api/chat", Method: "POST", Limit: 30, Window: time.Hour, Burst: 5},
		{Name: "jobfit", Path: "/api/job-fit", Method: "POST", Limit: 10, Window: time.Hour, Burst: 3},

		// Password guessing
		{Name: "login", Path: "/api/admin/login", Method: "POST", Limit: 10, Window: 15 * time.Minute, Burst: 5},

		// Rendering
		{Name: "pdf", Path: "/api/resume/pdf", Method: "GET", Limit: 20, Window: time.Hour, Burst: 3},

		// Content writes
		{Name: "write", Path: "/api/resume", Method: "PUT", Limit: 60, Window: time.Hour, Burst: 10},

		// Reads fall back to the default limit; /health and /metrics are unlimited.
	}
}

func getEnvString(key string, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// parseIPList parses a comma-separated list of IP addresses into a set.
func parseIPList(list string) map[string]bool {
	result := make(map[string]bool)
	for _, ip := range strings.Split(list, ",") {
		if ip = strings.TrimSpace(ip); ip != "" {
			result[ip] = true
		}
	}
	return result
}
