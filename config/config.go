package config

import (
	"errors"
	"os"
	"time"

	"taskboss/middleware"
	"taskboss/utils"

	"github.com/joho/godotenv"
)

// ErrMissingJWTSecret is returned by Load when JWT_SECRET is unset.
var ErrMissingJWTSecret = errors.New("JWT_SECRET is required")

type Config struct {
	Port         string
	DatabasePath string

	JWTSecret     string
	JWTExpiration time.Duration

	OpenAIAPIKey        string
	OpenAIBaseURL       string
	OpenAIModel         string
	OpenAIFallbackModel string
	OpenAITimeout       time.Duration

	RedisURL       string
	CORSOrigins    []string
	GinMode        string
	LogMode        string
	MaxRequestSize int64

	OTELEnabled  bool
	OTLPEndpoint string
	OTLPInsecure bool

	ShutdownTimeout time.Duration
}

// Load reads .env when present and then the process environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, err
	}
	return FromEnv()
}

// FromEnv builds a Config from the environment only.
func FromEnv() (Config, error) {
	cfg := Config{
		Port:         utils.GetEnvAsString("PORT", "8080"),
		DatabasePath: utils.GetEnvAsString("DATABASE_PATH", "taskboss.db"),

		JWTSecret:     utils.GetEnvAsString("JWT_SECRET", ""),
		JWTExpiration: utils.GetEnvAsDuration("JWT_EXPIRATION", 24*time.Hour),

		OpenAIAPIKey:        utils.GetEnvAsString("OPENAI_API_KEY", ""),
		OpenAIBaseURL:       utils.GetEnvAsString("OPENAI_BASE_URL", "https://api.openai.com"),
		OpenAIModel:         utils.GetEnvAsString("OPENAI_MODEL", "gpt-4o-mini"),
		OpenAIFallbackModel: utils.GetEnvAsString("OPENAI_FALLBACK_MODEL", "gpt-3.5-turbo"),
		OpenAITimeout:       utils.GetEnvAsDuration("OPENAI_TIMEOUT", 60*time.Second),

		RedisURL:       utils.GetEnvAsString("REDIS_URL", ""),
		CORSOrigins:    utils.GetEnvAsStringSlice("CORS_ORIGINS", middleware.DefaultCORSOrigins),
		GinMode:        utils.GetEnvAsString("GIN_MODE", "debug"),
		LogMode:        utils.GetEnvAsString("LOG_MODE", "development"),
		MaxRequestSize: int64(utils.GetEnvAsInt("MAX_REQUEST_SIZE", 1<<20)),

		OTELEnabled:  utils.GetEnvAsBool("OTEL_ENABLED", false),
		OTLPEndpoint: utils.GetEnvAsString("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		OTLPInsecure: utils.GetEnvAsBool("OTEL_EXPORTER_OTLP_INSECURE", false),

		ShutdownTimeout: utils.GetEnvAsDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
	}
	if cfg.JWTSecret == "" {
		return cfg, ErrMissingJWTSecret
	}
	return cfg, nil
}

// Addr is the listen address for the HTTP server.
func (c Config) Addr() string {
	return ":" + c.Port
}

func (c Config) AIEnabled() bool {
	return c.OpenAIAPIKey != ""
}
