// Package config provides environment configuration for the concierge binaries.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Store backends selectable with STORE_BACKEND.
const (
	StoreMemory   = "memory"
	StoreRedis    = "redis"
	StorePostgres = "postgres"
	StoreNATS     = "nats"
	StoreHTTP     = "http"
)

// Config holds all configuration for the application.
type Config struct {
	// Server settings
	ServerPort         string
	ServerReadTimeout  time.Duration
	ServerWriteTimeout time.Duration
	CORSOrigins        []string

	// Persistence
	StoreBackend         string
	RedisURL             string
	DatabaseURL          string
	ConversationAPIURL   string
	ConversationAPIToken string

	// NATS settings
	NATSURL       string
	NATSCAFile    string
	NATSCertFile  string
	NATSKeyFile   string
	NATSToken     string
	EventsEnabled bool

	// JWT settings
	JWTSecret string

	// LLM settings. With no key set replies come from templates.
	AnthropicAPIKey string
	OpenAIAPIKey    string
	DefaultLLM      string
	LLMModel        string

	// Conversation lifecycle
	SessionTTL      time.Duration
	AbandonAfter    time.Duration
	SweepInterval   time.Duration
	DefaultPlatform string
	TypingDelay     time.Duration

	// Rate limiting
	RateLimitRequests int
	RateLimitWindow   time.Duration

	// Logging
	LogLevel string

	// Tracing
	TracingEndpoint string
	TracingEnabled  bool
}

// Load reads configuration from environment variables.
func Load() *Config {
	return &Config{
		// Server
		ServerPort:         getEnv("PORT", "8080"),
		ServerReadTimeout:  getDurationEnv("SERVER_READ_TIMEOUT", 30*time.Second),
		ServerWriteTimeout: getDurationEnv("SERVER_WRITE_TIMEOUT", 60*time.Second),
		CORSOrigins:        getListEnv("CORS_ORIGINS", []string{"https://*", "http://*"}),

		// Persistence
		StoreBackend:         strings.ToLower(getEnv("STORE_BACKEND", StoreMemory)),
		RedisURL:             getEnv("REDIS_URL", "redis://localhost:6379/0"),
		DatabaseURL:          getEnv("DATABASE_URL", ""),
		ConversationAPIURL:   getEnv("CONVERSATION_API_URL", ""),
		ConversationAPIToken: getEnv("CONVERSATION_API_TOKEN", ""),

		// NATS
		NATSURL:       getEnv("NATS_URL", "nats://localhost:4222"),
		NATSCAFile:    getEnv("NATS_CA_FILE", ""),
		NATSCertFile:  getEnv("NATS_CERT_FILE", ""),
		NATSKeyFile:   getEnv("NATS_KEY_FILE", ""),
		NATSToken:     getEnv("NATS_TOKEN", ""),
		EventsEnabled: getBoolEnv("EVENTS_ENABLED", false),

		// JWT
		JWTSecret: getEnv("JWT_SECRET", "development-secret-change-in-production"),

		// LLM
		AnthropicAPIKey: getEnv("ANTHROPIC_API_KEY", ""),
		OpenAIAPIKey:    getEnv("OPENAI_API_KEY", ""),
		DefaultLLM:      getEnv("DEFAULT_LLM", "anthropic"),
		LLMModel:        getEnv("LLM_MODEL", ""),

		// Lifecycle
		SessionTTL:      getDurationEnv("SESSION_TTL", 2*time.Hour),
		AbandonAfter:    getDurationEnv("ABANDON_AFTER", 24*time.Hour),
		SweepInterval:   getDurationEnv("SWEEP_INTERVAL", 10*time.Minute),
		DefaultPlatform: getEnv("DEFAULT_PLATFORM", "web"),
		TypingDelay:     getDurationEnv("TYPING_DELAY", 1500*time.Millisecond),

		// Rate limiting
		RateLimitRequests: getIntEnv("RATE_LIMIT_REQUESTS", 60),
		RateLimitWindow:   getDurationEnv("RATE_LIMIT_WINDOW", time.Minute),

		// Logging
		LogLevel: getEnv("LOG_LEVEL", "info"),

		// Tracing
		TracingEndpoint: getEnv("TRACING_ENDPOINT", "localhost:4318"),
		TracingEnabled:  getBoolEnv("TRACING_ENABLED", false),
	}
}

// Validate reports every setting that would prevent the server from starting.
func (c *Config) Validate() error {
	var errs []error

	switch c.StoreBackend {
	case StoreMemory, StoreNATS:
	case StoreRedis:
		if c.RedisURL == "" {
			errs = append(errs, errors.New("REDIS_URL is required for the redis store"))
		}
	case StorePostgres:
		if c.DatabaseURL == "" {
			errs = append(errs, errors.New("DATABASE_URL is required for the postgres store"))
		}
	case StoreHTTP:
		if c.ConversationAPIURL == "" {
			errs = append(errs, errors.New("CONVERSATION_API_URL is required for the http store"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown STORE_BACKEND %q", c.StoreBackend))
	}

	if c.RateLimitRequests <= 0 {
		errs = append(errs, errors.New("RATE_LIMIT_REQUESTS must be positive"))
	}
	if c.SweepInterval <= 0 {
		errs = append(errs, errors.New("SWEEP_INTERVAL must be positive"))
	}
	if c.AbandonAfter < 0 || c.SessionTTL < 0 {
		errs = append(errs, errors.New("SESSION_TTL and ABANDON_AFTER must not be negative"))
	}
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	return errors.Join(errs...)
}

// NeedsNATS reports whether any component requires a NATS connection.
func (c *Config) NeedsNATS() bool {
	return c.EventsEnabled || c.StoreBackend == StoreNATS
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getListEnv(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, v := range strings.Split(value, ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
