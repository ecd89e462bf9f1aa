package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDuration(t *testing.T) {
	assert.Equal(t, 30*time.Minute, parseDuration("30m", time.Second))
	assert.Equal(t, 7*24*time.Hour, parseDuration("7d", time.Second))
	assert.Equal(t, 60*time.Second, parseDuration("60", time.Second))
	assert.Equal(t, time.Second, parseDuration("soon", time.Second))
}

func TestParseStringSlice(t *testing.T) {
	assert.Equal(t, []string{"http://a", "http://b"}, parseStringSlice(" http://a, ,http://b "))
	assert.Empty(t, parseStringSlice(""))
}

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "DATA_BACKEND", "SESSION_TTL", "RATE_LIMIT_WINDOW"} {
		t.Setenv(key, "")
	}
	t.Setenv("TIMEZONE", "UTC")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 24*time.Hour, cfg.Session.TTL)
	assert.Equal(t, time.UTC, cfg.Dashboard.Location)
	assert.Equal(t, 60*time.Second, cfg.RateLimit.Window)
}

func TestLoadRejectsUnknownTimezone(t *testing.T) {
	t.Setenv("TIMEZONE", "Mars/Olympus_Mons")
	_, err := Load()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			Server:    ServerConfig{Environment: "development"},
			JWT:       JWTConfig{Secret: devSecret},
			Data:      DataConfig{Backend: BackendMemory},
			RateLimit: RateLimitConfig{Requests: 10, Window: time.Minute},
		}
	}

	assert.NoError(t, base().Validate())

	prod := base()
	prod.Server.Environment = "production"
	prod.JWT.Secret = "s3cret"
	assert.Error(t, prod.Validate(), "memory backend in production")

	pg := base()
	pg.Data.Backend = BackendPostgres
	assert.Error(t, pg.Validate())
	pg.Data.DatabaseURL = "postgres://localhost/tolldesk"
	assert.NoError(t, pg.Validate())

	fs := base()
	fs.Data.Backend = BackendFirestore
	assert.Error(t, fs.Validate())

	unknown := base()
	unknown.Data.Backend = "mysql"
	assert.Error(t, unknown.Validate())
}
