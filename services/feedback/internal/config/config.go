package config

import (
	"fmt"
	"slices"
	"time"

	pkgconfig "github.com/akajrolkar2644/Assessment/pkg/config"
	"github.com/akajrolkar2644/Assessment/pkg/database"
	"github.com/akajrolkar2644/Assessment/pkg/tracing"
)

// Store backends.
const (
	BackendJSON     = "json"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
)

// Language model providers.
const (
	ProviderOpenRouter = "openrouter"
	ProviderMock       = "mock"
)

const (
	defaultJWTSecret     = "change-this-to-a-secure-secret"
	defaultAdminPassword = "admin123"
)

// Config holds all configuration for the feedback service.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// HTTP server
	HTTPPort int `env:"FEEDBACK_HTTP_PORT" envDefault:"8015"`

	// Review store
	StoreBackend string `env:"STORE_BACKEND" envDefault:"json"`
	ReviewsFile  string `env:"REVIEWS_FILE" envDefault:"reviews.json"`
	SQLitePath   string `env:"SQLITE_PATH" envDefault:"data/reviews.db"`

	// PostgreSQL
	PostgresHost string `env:"POSTGRES_HOST" envDefault:"localhost"`
	PostgresPort int    `env:"POSTGRES_PORT" envDefault:"5432"`
	PostgresUser string `env:"POSTGRES_USER" envDefault:"feedback"`
	PostgresPass string `env:"POSTGRES_PASSWORD" envDefault:"feedback_secret"`
	PostgresDB   string `env:"FEEDBACK_DB_NAME" envDefault:"feedback"`
	PostgresSSL  string `env:"POSTGRES_SSL_MODE" envDefault:"disable"`

	// Redis
	RedisHost     string `env:"REDIS_HOST" envDefault:"localhost"`
	RedisPort     int    `env:"REDIS_PORT" envDefault:"6379"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	// Language model
	LLMProvider      string        `env:"LLM_PROVIDER"`
	OpenRouterAPIKey string        `env:"OPENROUTER_API_KEY"`
	OpenRouterModel  string        `env:"OPENROUTER_MODEL" envDefault:"meta-llama/llama-3.1-8b-instruct:free"`
	OpenRouterURL    string        `env:"OPENROUTER_BASE_URL" envDefault:"https://openrouter.ai/api/v1"`
	LLMTimeout       time.Duration `env:"LLM_TIMEOUT" envDefault:"30s"`

	// Kafka, disabled when empty
	KafkaBrokers []string `env:"KAFKA_BROKERS" envSeparator:","`

	// Admin auth
	AdminPassword string        `env:"ADMIN_PASSWORD" envDefault:"admin123"`
	JWTSecret     string        `env:"JWT_SECRET" envDefault:"change-this-to-a-secure-secret"`
	JWTExpiry     time.Duration `env:"JWT_EXPIRY" envDefault:"8h"`

	// Submission rate limit per client IP
	SubmitRateLimitRPS   float64 `env:"SUBMIT_RATE_LIMIT_RPS" envDefault:"1"`
	SubmitRateLimitBurst int     `env:"SUBMIT_RATE_LIMIT_BURST" envDefault:"5"`

	// CORS
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`

	// Networks allowed to scrape /metrics and use /debug/pprof. Empty leaves
	// /metrics open and pprof unmounted.
	DebugAllowedCIDRs []string `env:"DEBUG_ALLOWED_CIDRS" envSeparator:","`

	// Tracing
	OTelEnabled    bool    `env:"OTEL_ENABLED" envDefault:"false"`
	OTelEndpoint   string  `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:"localhost:4318"`
	OTelSampleRate float64 `env:"OTEL_SAMPLE_RATE" envDefault:"1.0"`
}

// Load reads configuration from a .env file, when present, and environment
// variables. Variables already set in the environment win.
func Load() (*Config, error) {
	if err := pkgconfig.LoadDotEnv(); err != nil {
		return nil, fmt.Errorf("load feedback config: %w", err)
	}

	cfg := &Config{}
	if err := pkgconfig.Load(cfg); err != nil {
		return nil, fmt.Errorf("load feedback config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.HTTPPort)
	}
	if !slices.Contains([]string{BackendJSON, BackendSQLite, BackendPostgres, BackendRedis}, c.StoreBackend) {
		return fmt.Errorf("unknown STORE_BACKEND %q", c.StoreBackend)
	}
	if c.LLMProvider != "" && c.LLMProvider != ProviderOpenRouter && c.LLMProvider != ProviderMock {
		return fmt.Errorf("unknown LLM_PROVIDER %q", c.LLMProvider)
	}
	if c.LLMTimeout <= 0 {
		return fmt.Errorf("LLM_TIMEOUT must be positive, got %s", c.LLMTimeout)
	}
	if c.JWTExpiry <= 0 {
		return fmt.Errorf("JWT_EXPIRY must be positive, got %s", c.JWTExpiry)
	}
	if c.AdminPassword == "" {
		return fmt.Errorf("ADMIN_PASSWORD must not be empty")
	}

	// Outside development the shipped credentials are refused.
	if c.Environment != "development" {
		if c.AdminPassword == defaultAdminPassword {
			return fmt.Errorf("ADMIN_PASSWORD must be explicitly set via environment variable in %q mode", c.Environment)
		}
		if c.JWTSecret == defaultJWTSecret {
			return fmt.Errorf("JWT_SECRET must be explicitly set via environment variable in %q mode", c.Environment)
		}
		if len(c.JWTSecret) < 32 {
			return fmt.Errorf("JWT_SECRET must be at least 32 characters long, got %d", len(c.JWTSecret))
		}
	}
	return nil
}

// Provider returns the language model provider to use. Without an explicit
// choice, OpenRouter is used when an API key is set and the mock otherwise.
func (c *Config) Provider() string {
	if c.LLMProvider != "" {
		return c.LLMProvider
	}
	if c.OpenRouterAPIKey != "" {
		return ProviderOpenRouter
	}
	return ProviderMock
}

// Postgres returns the PostgreSQL pool configuration.
func (c *Config) Postgres() database.PostgresConfig {
	pg := database.DefaultPostgresConfig()
	pg.Host = c.PostgresHost
	pg.Port = c.PostgresPort
	pg.User = c.PostgresUser
	pg.Password = c.PostgresPass
	pg.DBName = c.PostgresDB
	pg.SSLMode = c.PostgresSSL
	return pg
}

// Redis returns the Redis client configuration.
func (c *Config) Redis() database.RedisConfig {
	return database.RedisConfig{
		Host:     c.RedisHost,
		Port:     c.RedisPort,
		Password: c.RedisPassword,
		DB:       c.RedisDB,
	}
}

// Tracing returns the OpenTelemetry configuration for serviceName.
func (c *Config) Tracing(serviceName string) tracing.Config {
	tc := tracing.DefaultConfig(serviceName)
	tc.Environment = c.Environment
	tc.Enabled = c.OTelEnabled
	tc.OTLPEndpoint = c.OTelEndpoint
	tc.SampleRate = c.OTelSampleRate
	return tc
}
