package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Server    ServerConfig
	Redis     RedisConfig
	JWT       JWTConfig
	Upstream  UpstreamConfig
	RateLimit RateLimitConfig
	Cache     CacheConfig
	Tracing   TracingConfig
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port         string
	Environment  string
	ServiceName  string
	Version      string
	ReadTimeout  int
	WriteTimeout int
	CORSOrigins  string // Comma-separated list of allowed origins
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Enabled  bool
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret     string
	Expiration int // in hours
}

// UpstreamConfig holds exchange-rate provider configuration
type UpstreamConfig struct {
	BaseURL                string
	TimeoutSeconds         int
	RetryMaxAttempts       int
	RetryInitialBackoffMs  int
	BreakerIntervalSeconds int
	BreakerTimeoutSeconds  int
	BreakerMinRequests     int
}

// RateLimitConfig holds rate limiter configuration
type RateLimitConfig struct {
	Enabled        bool
	WindowSeconds  int
	DefaultLimit   int
	AnonymousLimit int
	RedisPrefix    string
}

// CacheConfig holds cache TTL configuration
type CacheConfig struct {
	LatestTTLSeconds  int
	HistoryTTLSeconds int
}

// TracingConfig holds OpenTelemetry configuration
type TracingConfig struct {
	Enabled  bool
	Endpoint string
}

// Load loads configuration from environment variables
func Load(serviceName string) (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", "8080"),
			Environment:  getEnv("ENVIRONMENT", "development"),
			ServiceName:  serviceName,
			Version:      getEnv("SERVICE_VERSION", "1.0.0"),
			ReadTimeout:  getEnvAsInt("READ_TIMEOUT", 10),
			WriteTimeout: getEnvAsInt("WRITE_TIMEOUT", 10),
			CORSOrigins:  getEnv("CORS_ORIGINS", "http://localhost:3000"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			Enabled:  getEnvAsBool("REDIS_ENABLED", true),
		},
		JWT: JWTConfig{
			Secret:     getEnv("JWT_SECRET", "your-secret-key-change-in-production"),
			Expiration: getEnvAsInt("JWT_EXPIRATION", 1),
		},
		Upstream: UpstreamConfig{
			BaseURL:                getEnv("UPSTREAM_BASE_URL", "https://api.frankfurter.app"),
			TimeoutSeconds:         getEnvAsInt("UPSTREAM_TIMEOUT", 10),
			RetryMaxAttempts:       getEnvAsInt("UPSTREAM_RETRY_MAX_ATTEMPTS", 4),
			RetryInitialBackoffMs:  getEnvAsInt("UPSTREAM_RETRY_INITIAL_BACKOFF_MS", 200),
			BreakerIntervalSeconds: getEnvAsInt("UPSTREAM_BREAKER_INTERVAL", 60),
			BreakerTimeoutSeconds:  getEnvAsInt("UPSTREAM_BREAKER_TIMEOUT", 30),
			BreakerMinRequests:     getEnvAsInt("UPSTREAM_BREAKER_MIN_REQUESTS", 6),
		},
		RateLimit: RateLimitConfig{
			Enabled:        getEnvAsBool("RATE_LIMIT_ENABLED", true),
			WindowSeconds:  getEnvAsInt("RATE_LIMIT_WINDOW", 60),
			DefaultLimit:   getEnvAsInt("RATE_LIMIT_MAX_REQUESTS", 30),
			AnonymousLimit: getEnvAsInt("RATE_LIMIT_ANONYMOUS_MAX_REQUESTS", 30),
			RedisPrefix:    getEnv("RATE_LIMIT_REDIS_PREFIX", "rl"),
		},
		Cache: CacheConfig{
			LatestTTLSeconds:  getEnvAsInt("CACHE_LATEST_TTL", 3600),
			HistoryTTLSeconds: getEnvAsInt("CACHE_HISTORY_TTL", 86400),
		},
		Tracing: TracingConfig{
			Enabled:  getEnvAsBool("OTEL_ENABLED", false),
			Endpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
		},
	}

	return cfg, nil
}

// RedisAddr returns the Redis address
func (c *RedisConfig) RedisAddr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// Timeout returns the upstream call timeout as a duration
func (c *UpstreamConfig) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Window returns the rate limit window as a duration
func (c *RateLimitConfig) Window() time.Duration {
	if c.WindowSeconds <= 0 {
		return time.Minute
	}
	return time.Duration(c.WindowSeconds) * time.Second
}

// LatestTTL returns the TTL for latest-rate and conversion cache entries
func (c *CacheConfig) LatestTTL() time.Duration {
	if c.LatestTTLSeconds <= 0 {
		return time.Hour
	}
	return time.Duration(c.LatestTTLSeconds) * time.Second
}

// HistoryTTL returns the TTL for historical series cache entries
func (c *CacheConfig) HistoryTTL() time.Duration {
	if c.HistoryTTLSeconds <= 0 {
		return 24 * time.Hour
	}
	return time.Duration(c.HistoryTTLSeconds) * time.Second
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}
