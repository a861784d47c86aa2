package config

import (
	"testing"
	"time"
)

func TestLoadRateLimitConfigDefaults(t *testing.T) {
	cfg := LoadRateLimitConfig()
	if !cfg.Enabled {
		t.Fatal("rate limiting should default to enabled")
	}
	if cfg.Capacity != 60 || cfg.RefillTokens != 1 {
		t.Fatalf("capacity/refill = %d/%d, want 60/1", cfg.Capacity, cfg.RefillTokens)
	}
	if cfg.RefillInterval != time.Second {
		t.Fatalf("refill interval = %v, want 1s", cfg.RefillInterval)
	}
}

func TestLoadRateLimitConfigFloors(t *testing.T) {
	t.Setenv("RATE_LIMIT_CAPACITY", "0")
	t.Setenv("RATE_LIMIT_REFILL_TOKENS", "-3")
	t.Setenv("RATE_LIMIT_REFILL_INTERVAL", "0s")
	t.Setenv("RATE_LIMIT_TTL", "1s")

	cfg := LoadRateLimitConfig()
	if cfg.Capacity != 1 {
		t.Fatalf("capacity = %d, want floor 1", cfg.Capacity)
	}
	if cfg.RefillTokens != 1 {
		t.Fatalf("refill tokens = %d, want floor 1", cfg.RefillTokens)
	}
	if cfg.RefillInterval != time.Second {
		t.Fatalf("refill interval = %v, want floor 1s", cfg.RefillInterval)
	}
	if cfg.TTL < 5*cfg.RefillInterval {
		t.Fatalf("ttl = %v, want at least %v", cfg.TTL, 5*cfg.RefillInterval)
	}
}

func TestEnvHelpers(t *testing.T) {
	t.Setenv("X_STR", "value")
	t.Setenv("X_BOOL", "off")
	t.Setenv("X_INT", "42")
	t.Setenv("X_DUR", "250ms")

	if got := envStr("X_STR", "d"); got != "value" {
		t.Fatalf("envStr = %q", got)
	}
	if got := envStr("X_MISSING", "d"); got != "d" {
		t.Fatalf("envStr default = %q", got)
	}
	if envBool("X_BOOL", true) {
		t.Fatal("envBool should parse off as false")
	}
	if got := envInt("X_INT", 0); got != 42 {
		t.Fatalf("envInt = %d", got)
	}
	if got := envDur("X_DUR", time.Second); got != 250*time.Millisecond {
		t.Fatalf("envDur = %v", got)
	}
}
