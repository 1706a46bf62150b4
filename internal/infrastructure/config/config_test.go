package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	// Save original env vars and restore after tests
	originalEnv := map[string]string{
		"PDV_APP_NAME":                  os.Getenv("PDV_APP_NAME"),
		"PDV_APP_ENV":                   os.Getenv("PDV_APP_ENV"),
		"PDV_APP_PORT":                  os.Getenv("PDV_APP_PORT"),
		"PDV_BACKOFFICE_BASE_URL":       os.Getenv("PDV_BACKOFFICE_BASE_URL"),
		"PDV_BACKOFFICE_API_KEY":        os.Getenv("PDV_BACKOFFICE_API_KEY"),
		"PDV_BACKOFFICE_RETRY_COUNT":    os.Getenv("PDV_BACKOFFICE_RETRY_COUNT"),
		"PDV_REDIS_HOST":                os.Getenv("PDV_REDIS_HOST"),
		"PDV_REDIS_PORT":                os.Getenv("PDV_REDIS_PORT"),
		"PDV_IDEMPOTENCY_ENABLED":       os.Getenv("PDV_IDEMPOTENCY_ENABLED"),
		"PDV_TELEMETRY_SAMPLING_RATIO":  os.Getenv("PDV_TELEMETRY_SAMPLING_RATIO"),
		"PDV_HTTP_CORS_ALLOW_ORIGINS":   os.Getenv("PDV_HTTP_CORS_ALLOW_ORIGINS"),
	}

	defer func() {
		for k, v := range originalEnv {
			if v == "" {
				os.Unsetenv(k)
			} else {
				os.Setenv(k, v)
			}
		}
	}()

	clearEnv := func() {
		for k := range originalEnv {
			os.Unsetenv(k)
		}
	}

	t.Run("loads default values when env vars not set", func(t *testing.T) {
		clearEnv()

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "brecho-pdv", cfg.App.Name)
		assert.Equal(t, "development", cfg.App.Env)
		assert.Equal(t, "8080", cfg.App.Port)
		assert.Equal(t, "http://localhost:9000/api", cfg.Backoffice.BaseURL)
		assert.Equal(t, 10*time.Second, cfg.Backoffice.Timeout)
		assert.Equal(t, "localhost", cfg.Redis.Host)
		assert.Equal(t, 6379, cfg.Redis.Port)
		assert.True(t, cfg.Idempotency.Enabled)
		assert.Equal(t, 24*time.Hour, cfg.Idempotency.TTL)
		assert.True(t, cfg.Idempotency.AllowInMemoryFallback)
		assert.Equal(t, "info", cfg.Log.Level)
		assert.Empty(t, cfg.HTTP.CORSAllowOrigins, "CORS origins must not default to wildcard")
	})

	t.Run("loads values from environment variables with PDV prefix", func(t *testing.T) {
		clearEnv()
		os.Setenv("PDV_APP_NAME", "pdv-test")
		os.Setenv("PDV_APP_PORT", "9001")
		os.Setenv("PDV_BACKOFFICE_BASE_URL", "https://erp.example.com/api")
		os.Setenv("PDV_BACKOFFICE_API_KEY", "secret-key")
		os.Setenv("PDV_REDIS_HOST", "redis.local")
		os.Setenv("PDV_REDIS_PORT", "6380")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "pdv-test", cfg.App.Name)
		assert.Equal(t, "9001", cfg.App.Port)
		assert.Equal(t, "https://erp.example.com/api", cfg.Backoffice.BaseURL)
		assert.Equal(t, "secret-key", cfg.Backoffice.APIKey)
		assert.Equal(t, "redis.local:6380", cfg.Redis.Addr())
	})

	t.Run("idempotency can be disabled explicitly", func(t *testing.T) {
		clearEnv()
		os.Setenv("PDV_IDEMPOTENCY_ENABLED", "false")

		cfg, err := Load()
		require.NoError(t, err)
		assert.False(t, cfg.Idempotency.Enabled)
	})

	t.Run("rejects malformed backoffice URL", func(t *testing.T) {
		clearEnv()
		os.Setenv("PDV_BACKOFFICE_BASE_URL", "not a url")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "base_url")
	})

	t.Run("rejects negative retry count", func(t *testing.T) {
		clearEnv()
		os.Setenv("PDV_BACKOFFICE_RETRY_COUNT", "-1")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "retry_count")
	})

	t.Run("rejects sampling ratio out of range", func(t *testing.T) {
		clearEnv()
		os.Setenv("PDV_TELEMETRY_SAMPLING_RATIO", "1.5")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "sampling_ratio")
	})

	t.Run("production requires an API key", func(t *testing.T) {
		clearEnv()
		os.Setenv("PDV_APP_ENV", "production")
		os.Setenv("PDV_BACKOFFICE_BASE_URL", "https://erp.example.com/api")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "api_key")
	})

	t.Run("production rejects plain http backoffice", func(t *testing.T) {
		clearEnv()
		os.Setenv("PDV_APP_ENV", "production")
		os.Setenv("PDV_BACKOFFICE_API_KEY", "secret-key")
		os.Setenv("PDV_BACKOFFICE_BASE_URL", "http://erp.example.com/api")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "https")
	})
}
