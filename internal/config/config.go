package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App      AppConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	Logger   LoggerConfig
	Session  SessionConfig
	Provider ProviderConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// SessionConfig defines parameters for locally issued session credentials.
type SessionConfig struct {
	SigningSecret    string
	AccessTTLMinutes int
	RenewalTTLHours  int
}

// ProviderConfig defines parameters for the identity provider adapter.
type ProviderConfig struct {
	ClaimSecret     string
	ClaimTTLMinutes int
	Audience        string
	BcryptCost      int
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	maxConns := int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10))
	minConns := int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2))
	runMigrations := getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true)
	connMaxIdle := int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30))
	connMaxLife := int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300))

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "session-service"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       maxConns,
			MinConns:       minConns,
			RunMigrations:  runMigrations,
			ConnMaxIdleSec: connMaxIdle,
			ConnMaxLifeSec: connMaxLife,
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Session: SessionConfig{
			SigningSecret:    getEnv("SESSION_SIGNING_SECRET", "dev-secret"),
			AccessTTLMinutes: getEnvAsInt("SESSION_ACCESS_TTL_MINUTES", 1440),
			RenewalTTLHours:  getEnvAsInt("SESSION_RENEWAL_TTL_HOURS", 168),
		},
		Provider: ProviderConfig{
			ClaimSecret:     getEnv("PROVIDER_CLAIM_SECRET", "dev-provider-secret"),
			ClaimTTLMinutes: getEnvAsInt("PROVIDER_CLAIM_TTL_MINUTES", 10),
			Audience:        getEnv("PROVIDER_AUDIENCE", "session-service"),
			BcryptCost:      getEnvAsInt("PROVIDER_BCRYPT_COST", 12),
		},
	}

	return cfg, nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// AccessTTL returns the access credential validity window.
func (s SessionConfig) AccessTTL() time.Duration {
	if s.AccessTTLMinutes <= 0 {
		return 24 * time.Hour
	}
	return time.Duration(s.AccessTTLMinutes) * time.Minute
}

// RenewalTTL returns the renewal credential validity window.
func (s SessionConfig) RenewalTTL() time.Duration {
	if s.RenewalTTLHours <= 0 {
		return 7 * 24 * time.Hour
	}
	return time.Duration(s.RenewalTTLHours) * time.Hour
}

// ClaimTTL returns the identity claim validity window.
func (p ProviderConfig) ClaimTTL() time.Duration {
	if p.ClaimTTLMinutes <= 0 {
		return 10 * time.Minute
	}
	return time.Duration(p.ClaimTTLMinutes) * time.Minute
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}
