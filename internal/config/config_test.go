package config

import (
	"testing"
	"time"

	"github.com/tair/qr-order/internal/order/usecase/command"
)

func TestDefaults(t *testing.T) {
	for _, key := range []string{"DB_TX_TIMEOUT", "ORDER_QUANTITY_POLICY", "KAFKA_BROKERS", "REDIS_ADDR", "CORS_ORIGINS", "NOTIFIER_BUFFER", "TRACING_ENABLED"} {
		t.Setenv(key, "")
	}

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	if cfg.TxTimeout != 5*time.Second {
		t.Errorf("TxTimeout = %v, want 5s", cfg.TxTimeout)
	}
	if cfg.QuantityPolicy != command.QuantityClamp {
		t.Errorf("QuantityPolicy = %q, want clamp", cfg.QuantityPolicy)
	}
	if cfg.KafkaBrokers != nil || cfg.RedisAddr != "" {
		t.Errorf("optional backends enabled by default: %v %q", cfg.KafkaBrokers, cfg.RedisAddr)
	}
	if len(cfg.CORSOrigins) != 1 || cfg.CORSOrigins[0] != "*" {
		t.Errorf("CORSOrigins = %v", cfg.CORSOrigins)
	}
	if !cfg.TracingEnabled || cfg.NotifierBuffer != 16 || len(cfg.Warnings) != 0 {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestOverrides(t *testing.T) {
	t.Setenv("DB_TX_TIMEOUT", "250ms")
	t.Setenv("ORDER_QUANTITY_POLICY", "STRICT")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,")
	t.Setenv("TRACING_ENABLED", "false")
	t.Setenv("NOTIFIER_BUFFER", "64")

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	if cfg.TxTimeout != 250*time.Millisecond {
		t.Errorf("TxTimeout = %v", cfg.TxTimeout)
	}
	if cfg.QuantityPolicy != command.QuantityStrict {
		t.Errorf("QuantityPolicy = %q, want strict", cfg.QuantityPolicy)
	}
	if len(cfg.KafkaBrokers) != 2 || cfg.KafkaBrokers[1] != "k2:9092" {
		t.Errorf("KafkaBrokers = %v", cfg.KafkaBrokers)
	}
	if cfg.TracingEnabled || cfg.NotifierBuffer != 64 {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestInvalidValuesFallBack(t *testing.T) {
	t.Setenv("DB_TX_TIMEOUT", "soon")
	t.Setenv("NOTIFIER_BUFFER", "-3")
	t.Setenv("TRACING_ENABLED", "maybe")
	t.Setenv("ORDER_QUANTITY_POLICY", "")

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	if cfg.TxTimeout != 5*time.Second || cfg.NotifierBuffer != 16 || !cfg.TracingEnabled {
		t.Errorf("cfg = %+v", cfg)
	}
	if len(cfg.Warnings) != 3 {
		t.Errorf("warnings = %v, want 3", cfg.Warnings)
	}
}

func TestUnknownQuantityPolicy(t *testing.T) {
	t.Setenv("ORDER_QUANTITY_POLICY", "round")
	if _, err := FromEnv(); err == nil {
		t.Fatal("expected error for unknown policy")
	}
}
