package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.Port != "8080" {
		t.Fatalf("expected default port 8080, got %q", cfg.Port)
	}
	if cfg.AppEnv != "development" {
		t.Fatalf("expected development env, got %q", cfg.AppEnv)
	}
	if cfg.PaymentSuccessRate != 0.9 {
		t.Fatalf("expected success rate 0.9, got %v", cfg.PaymentSuccessRate)
	}
	if cfg.PaymentTimeout != 30*time.Second {
		t.Fatalf("expected payment timeout 30s, got %v", cfg.PaymentTimeout)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("PAYMENT_SUCCESS_RATE", "0.5")
	t.Setenv("PAYMENT_DELAY", "250ms")
	t.Setenv("JWT_TTL", "2h")

	cfg := Load()

	if cfg.Port != "9090" {
		t.Fatalf("expected port 9090, got %q", cfg.Port)
	}
	if cfg.PaymentSuccessRate != 0.5 {
		t.Fatalf("expected success rate 0.5, got %v", cfg.PaymentSuccessRate)
	}
	if cfg.PaymentDelay != 250*time.Millisecond {
		t.Fatalf("expected payment delay 250ms, got %v", cfg.PaymentDelay)
	}
	if cfg.JWTTTL != 2*time.Hour {
		t.Fatalf("expected jwt ttl 2h, got %v", cfg.JWTTTL)
	}
}

func TestLoadIgnoresMalformedValues(t *testing.T) {
	t.Setenv("PAYMENT_SUCCESS_RATE", "lots")
	t.Setenv("PAYMENT_DELAY", "soon")

	cfg := Load()

	if cfg.PaymentSuccessRate != 0.9 {
		t.Fatalf("expected fallback success rate 0.9, got %v", cfg.PaymentSuccessRate)
	}
	if cfg.PaymentDelay != time.Second {
		t.Fatalf("expected fallback delay 1s, got %v", cfg.PaymentDelay)
	}
}
