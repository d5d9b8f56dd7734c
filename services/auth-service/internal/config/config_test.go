package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := LoadFrom(map[string]string{})
	require.NoError(t, err)

	assert.Equal(t, 8081, cfg.Port)
	assert.Equal(t, ":8081", cfg.Addr())
	assert.Equal(t, "mongodb://localhost/authAPI", cfg.Mongo.URL)
	assert.Empty(t, cfg.Mongo.Database)
	assert.Equal(t, 5*time.Second, cfg.Mongo.Timeout)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, 5, cfg.RateLimit.Register)
	assert.Equal(t, 12, cfg.RateLimit.Login)
	assert.Equal(t, time.Minute, cfg.RateLimit.Window)
	assert.Empty(t, cfg.RateLimit.RedisAddr)
	assert.Equal(t, []string{"*"}, cfg.CORS.AllowedOrigins)
	assert.Empty(t, cfg.TrustedProxies)
}

func TestLoadOverrides(t *testing.T) {
	cfg, err := LoadFrom(map[string]string{
		"PORT":                 "9090",
		"MONGO_URL":            "mongodb://db:27017/prod",
		"MONGO_DATABASE":       "other",
		"REDIS_ADDR":           "redis:6379",
		"CORS_ALLOWED_ORIGINS": "http://localhost:3000, https://app.example.com",
		"SHUTDOWN_TIMEOUT":     "3s",
	})
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Addr())
	assert.Equal(t, "mongodb://db:27017/prod", cfg.Mongo.URL)
	assert.Equal(t, "other", cfg.Mongo.Database)
	assert.Equal(t, "redis:6379", cfg.RateLimit.RedisAddr)
	assert.Equal(t, []string{"http://localhost:3000", "https://app.example.com"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, 3*time.Second, cfg.ShutdownTimeout)
}

func TestLoadRejectsInvalid(t *testing.T) {
	cases := map[string]map[string]string{
		"port out of range": {"PORT": "70000"},
		"port not a number": {"PORT": "http"},
		"negative limit":    {"RATE_LIMIT_LOGIN": "-1"},
		"zero timeout":      {"MONGO_TIMEOUT": "0s"},
		"bad proxy":         {"TRUSTED_PROXIES": "10.0.0.0/33"},
		"proxy hostname":    {"TRUSTED_PROXIES": "proxy.internal"},
	}

	for name, environment := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := LoadFrom(environment)
			assert.Error(t, err)
		})
	}
}

func TestTrustedProxyPrefixes(t *testing.T) {
	cfg, err := LoadFrom(map[string]string{"TRUSTED_PROXIES": "10.0.0.0/8, 192.168.1.7,,::1"})
	require.NoError(t, err)
	assert.Equal(t, []string{"10.0.0.0/8", "192.168.1.7", "::1"}, cfg.TrustedProxies)

	prefixes, err := cfg.TrustedProxyPrefixes()
	require.NoError(t, err)
	require.Len(t, prefixes, 3)
	assert.Equal(t, "10.0.0.0/8", prefixes[0].String())
	assert.Equal(t, "192.168.1.7/32", prefixes[1].String())
	assert.Equal(t, "::1/128", prefixes[2].String())
}
