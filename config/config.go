package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Data backends.
const (
	BackendMemory    = "memory"
	BackendFirestore = "firestore"
	BackendPostgres  = "postgres"
)

const devSecret = "dev-secret-key"

// Config holds all application configuration
type Config struct {
	Server    ServerConfig
	JWT       JWTConfig
	Data      DataConfig
	Session   SessionConfig
	CORS      CORSConfig
	RateLimit RateLimitConfig
	Logging   LoggingConfig
	Dashboard DashboardConfig
}

type ServerConfig struct {
	Port        string
	Host        string
	Environment string
}

type JWTConfig struct {
	Secret                 string
	Expiration             time.Duration
	RefreshTokenExpiration time.Duration
}

type DataConfig struct {
	Backend                 string
	FirebaseProjectID       string
	FirebaseCredentialsPath string
	DatabaseURL             string
}

type SessionConfig struct {
	RedisURL string
	TTL      time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
}

type RateLimitConfig struct {
	Requests int
	Window   time.Duration
}

type LoggingConfig struct {
	Level  string
	Format string
}

type DashboardConfig struct {
	Timezone string
	Location *time.Location
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("PORT", "8080")
	v.SetDefault("HOST", "0.0.0.0")
	v.SetDefault("ENVIRONMENT", "development")
	v.SetDefault("JWT_SECRET", devSecret)
	v.SetDefault("JWT_EXPIRATION", "30m")
	v.SetDefault("REFRESH_TOKEN_EXPIRATION", "168h")
	v.SetDefault("DATA_BACKEND", BackendMemory)
	v.SetDefault("FIREBASE_CREDENTIALS_PATH", "./serviceAccountKey.json")
	v.SetDefault("SESSION_TTL", "24h")
	v.SetDefault("ALLOWED_ORIGINS", "http://localhost:5173")
	v.SetDefault("RATE_LIMIT_REQUESTS", 100)
	v.SetDefault("RATE_LIMIT_WINDOW", "60")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("TIMEZONE", "Local")

	cfg := &Config{
		Server: ServerConfig{
			Port:        v.GetString("PORT"),
			Host:        v.GetString("HOST"),
			Environment: v.GetString("ENVIRONMENT"),
		},
		JWT: JWTConfig{
			Secret:                 v.GetString("JWT_SECRET"),
			Expiration:             parseDuration(v.GetString("JWT_EXPIRATION"), 30*time.Minute),
			RefreshTokenExpiration: parseDuration(v.GetString("REFRESH_TOKEN_EXPIRATION"), 7*24*time.Hour),
		},
		Data: DataConfig{
			Backend:                 strings.ToLower(v.GetString("DATA_BACKEND")),
			FirebaseProjectID:       v.GetString("FIREBASE_PROJECT_ID"),
			FirebaseCredentialsPath: v.GetString("FIREBASE_CREDENTIALS_PATH"),
			DatabaseURL:             v.GetString("DATABASE_URL"),
		},
		Session: SessionConfig{
			RedisURL: v.GetString("REDIS_URL"),
			TTL:      parseDuration(v.GetString("SESSION_TTL"), 24*time.Hour),
		},
		CORS: CORSConfig{
			AllowedOrigins: parseStringSlice(v.GetString("ALLOWED_ORIGINS")),
		},
		RateLimit: RateLimitConfig{
			Requests: v.GetInt("RATE_LIMIT_REQUESTS"),
			Window:   parseDuration(v.GetString("RATE_LIMIT_WINDOW"), 60*time.Second),
		},
		Logging: LoggingConfig{
			Level:  v.GetString("LOG_LEVEL"),
			Format: v.GetString("LOG_FORMAT"),
		},
		Dashboard: DashboardConfig{
			Timezone: v.GetString("TIMEZONE"),
		},
	}

	loc, err := time.LoadLocation(cfg.Dashboard.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE %q: %w", cfg.Dashboard.Timezone, err)
	}
	cfg.Dashboard.Location = loc

	return cfg, nil
}

func parseDuration(s string, defaultValue time.Duration) time.Duration {
	// Handle simple formats like "30m", "7d", "60"
	if d, err := time.ParseDuration(s); err == nil {
		return d
	}
	if days, ok := strings.CutSuffix(s, "d"); ok {
		if n, err := strconv.Atoi(days); err == nil {
			return time.Duration(n) * 24 * time.Hour
		}
	}
	// If it's just a number, assume seconds
	if i, err := strconv.Atoi(s); err == nil {
		return time.Duration(i) * time.Second
	}
	return defaultValue
}

func parseStringSlice(s string) []string {
	result := []string{}
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			result = append(result, part)
		}
	}
	return result
}

func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

// Validate checks that the selected backend is fully configured.
func (c *Config) Validate() error {
	if c.JWT.Secret == devSecret && c.IsProduction() {
		return errors.New("JWT_SECRET must be set in production")
	}
	if c.RateLimit.Requests <= 0 {
		return errors.New("RATE_LIMIT_REQUESTS must be positive")
	}

	switch c.Data.Backend {
	case BackendMemory:
		if c.IsProduction() {
			return errors.New("DATA_BACKEND=memory is not allowed in production")
		}
	case BackendFirestore:
		if c.Data.FirebaseProjectID == "" {
			return errors.New("FIREBASE_PROJECT_ID must be set")
		}
		if _, err := os.Stat(c.Data.FirebaseCredentialsPath); os.IsNotExist(err) {
			return fmt.Errorf("firebase credentials file not found: %s", c.Data.FirebaseCredentialsPath)
		}
	case BackendPostgres:
		if c.Data.DatabaseURL == "" {
			return errors.New("DATABASE_URL must be set")
		}
	default:
		return fmt.Errorf("unknown DATA_BACKEND %q", c.Data.Backend)
	}
	return nil
}
