// Package config reads process configuration from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/tair/qr-order/internal/order/usecase/command"
	"github.com/tair/qr-order/pkg/database"
)

// Config is the full runtime configuration of the qrmenu service
type Config struct {
	Environment string
	LogLevel    string

	ServiceName    string
	JaegerEndpoint string
	TracingEnabled bool

	HTTPPort string
	GRPCPort string

	Database  database.Config
	TxTimeout time.Duration

	RedisAddr     string
	RedisPassword string
	MenuCacheTTL  time.Duration

	KafkaBrokers    []string
	KafkaOrderTopic string

	JWTSecret   string
	CORSOrigins []string

	QuantityPolicy command.QuantityPolicy
	NotifierBuffer int

	// Warnings lists values that were invalid and replaced by defaults.
	// They are logged once the logger is up.
	Warnings []string
}

// IsDevelopment reports whether the service runs in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// Load reads an optional .env file and then the environment
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv builds the configuration from environment variables only
func FromEnv() (*Config, error) {
	l := &loader{}

	cfg := &Config{
		Environment:    getEnv("ENVIRONMENT", "development"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		ServiceName:    getEnv("OTEL_SERVICE_NAME", "qrmenu"),
		JaegerEndpoint: getEnv("JAEGER_ENDPOINT", "http://localhost:14268/api/traces"),
		TracingEnabled: l.bool("TRACING_ENABLED", true),
		HTTPPort:       getEnv("HTTP_PORT", "8080"),
		GRPCPort:       getEnv("GRPC_PORT", "9090"),
		Database: database.Config{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "qrmenu"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		TxTimeout:       l.duration("DB_TX_TIMEOUT", 5*time.Second),
		RedisAddr:       getEnv("REDIS_ADDR", ""),
		RedisPassword:   getEnv("REDIS_PASSWORD", ""),
		MenuCacheTTL:    l.duration("MENU_CACHE_TTL", time.Minute),
		KafkaBrokers:    splitList(getEnv("KAFKA_BROKERS", "")),
		KafkaOrderTopic: getEnv("KAFKA_ORDER_TOPIC", "qrmenu.order-events"),
		JWTSecret:       getEnv("JWT_SECRET", "change-me-in-production"),
		CORSOrigins:     splitList(getEnv("CORS_ORIGINS", "*")),
		NotifierBuffer:  l.int("NOTIFIER_BUFFER", 16),
	}

	policy, err := command.ParseQuantityPolicy(getEnv("ORDER_QUANTITY_POLICY", string(command.QuantityClamp)))
	if err != nil {
		return nil, fmt.Errorf("ORDER_QUANTITY_POLICY: %w", err)
	}
	cfg.QuantityPolicy = policy
	cfg.Warnings = l.warnings

	return cfg, nil
}

type loader struct {
	warnings []string
}

func (l *loader) warn(key, value string, fallback interface{}) {
	l.warnings = append(l.warnings, fmt.Sprintf("invalid %s=%q, using %v", key, value, fallback))
}

func (l *loader) int(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		l.warn(key, raw, fallback)
		return fallback
	}
	return n
}

func (l *loader) bool(key string, fallback bool) bool {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		l.warn(key, raw, fallback)
		return fallback
	}
	return b
}

func (l *loader) duration(key string, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d < 0 {
		l.warn(key, raw, fallback)
		return fallback
	}
	return d
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
