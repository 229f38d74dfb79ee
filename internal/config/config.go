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
	App          AppConfig
	Postgres     PostgresConfig
	Redis        RedisConfig
	Logger       LoggerConfig
	Auth         AuthConfig
	Notification NotificationConfig
	Archive      ArchiveConfig
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

// AuthConfig defines authentication parameters.
type AuthConfig struct {
	JWTSecret               string
	AccessTokenTTLMinutes   int
	PasswordResetTTLMinutes int
	BcryptCost              int
}

// NotificationConfig holds outbound notification settings. Email stays a
// logged stub; the webhook is reserved for future delivery integrations.
type NotificationConfig struct {
	EmailFrom  string
	WebhookURL string
}

// ArchiveConfig controls where closed support chats are archived.
type ArchiveConfig struct {
	Dir string
}

// Load reads configuration from the environment, with an optional .env file
// for local development. Defaults keep a dev instance bootable with nothing
// but POSTGRES_DSN set.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(envOr("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	return &Config{
		App:    loadApp(),
		Logger: LoggerConfig{Level: envOr("LOG_LEVEL", "info")},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       int32(intOr("POSTGRES_MAX_CONNS", 10)),
			MinConns:       int32(intOr("POSTGRES_MIN_CONNS", 2)),
			RunMigrations:  boolOr("POSTGRES_RUN_MIGRATIONS", true),
			ConnMaxIdleSec: int32(intOr("POSTGRES_CONN_MAX_IDLE_SECONDS", 30)),
			ConnMaxLifeSec: int32(intOr("POSTGRES_CONN_MAX_LIFE_SECONDS", 300)),
		},
		Redis: RedisConfig{
			Addr:     envOr("REDIS_ADDR", "127.0.0.1:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Auth: AuthConfig{
			JWTSecret:               envOr("AUTH_JWT_SECRET", "dev-secret"),
			AccessTokenTTLMinutes:   intOr("AUTH_ACCESS_TOKEN_TTL_MINUTES", 60),
			PasswordResetTTLMinutes: intOr("AUTH_PASSWORD_RESET_TTL_MINUTES", 30),
			BcryptCost:              intOr("AUTH_BCRYPT_COST", 12),
		},
		Notification: NotificationConfig{
			EmailFrom:  envOr("NOTIFY_EMAIL_FROM", "noreply@hazzlo.net"),
			WebhookURL: os.Getenv("NOTIFY_WEBHOOK_URL"),
		},
		Archive: ArchiveConfig{
			Dir: envOr("SUPPORT_ARCHIVE_DIR", "modchatlogs"),
		},
	}, nil
}

func loadApp() AppConfig {
	return AppConfig{
		Name:                  envOr("APP_NAME", "hazzlo-server"),
		Env:                   envOr("APP_ENV", "development"),
		Host:                  envOr("APP_HOST", "0.0.0.0"),
		Port:                  envOr("APP_PORT", "8080"),
		Version:               envOr("APP_VERSION", "dev"),
		RequestTimeoutSeconds: intOr("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
	}
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return a.Host + ":" + a.Port
}

// RequestTimeout returns the configured request timeout, zero disables it.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

func envOr(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func intOr(key string, fallback int) int {
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

func boolOr(key string, fallback bool) bool {
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
