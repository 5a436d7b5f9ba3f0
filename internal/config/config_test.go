package config

import (
	"testing"
	"time"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/imagegw?sslmode=disable")
	t.Setenv("PREDICTION_API_TOKEN", "r8_test_token")
}

func TestLoad_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.HTTPPort != "8080" {
		t.Errorf("HTTPPort = %q, want %q", cfg.HTTPPort, "8080")
	}
	if cfg.Prediction.PollInterval != time.Second {
		t.Errorf("PollInterval = %v, want %v", cfg.Prediction.PollInterval, time.Second)
	}
	if cfg.Prediction.PollAttempts != 60 {
		t.Errorf("PollAttempts = %d, want 60", cfg.Prediction.PollAttempts)
	}
	if cfg.Credits.SignupGrant != 50 {
		t.Errorf("SignupGrant = %d, want 50", cfg.Credits.SignupGrant)
	}
	if cfg.Credits.CacheTTL != 30*time.Second {
		t.Errorf("CacheTTL = %v, want %v", cfg.Credits.CacheTTL, 30*time.Second)
	}
	if !cfg.RateLimit.Enabled {
		t.Error("RateLimit.Enabled should default to true")
	}
	if cfg.Storage.GeneratedBucket != "generated-images" {
		t.Errorf("GeneratedBucket = %q", cfg.Storage.GeneratedBucket)
	}
}

func TestLoad_Overrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("PREDICTION_POLL_INTERVAL", "250ms")
	t.Setenv("PREDICTION_POLL_ATTEMPTS", "10")
	t.Setenv("CREDITS_SIGNUP_GRANT", "5")
	t.Setenv("RATE_LIMIT_ENABLED", "false")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.HTTPPort != "9090" {
		t.Errorf("HTTPPort = %q, want %q", cfg.HTTPPort, "9090")
	}
	if cfg.Prediction.PollInterval != 250*time.Millisecond {
		t.Errorf("PollInterval = %v, want 250ms", cfg.Prediction.PollInterval)
	}
	if cfg.Prediction.PollAttempts != 10 {
		t.Errorf("PollAttempts = %d, want 10", cfg.Prediction.PollAttempts)
	}
	if cfg.Credits.SignupGrant != 5 {
		t.Errorf("SignupGrant = %d, want 5", cfg.Credits.SignupGrant)
	}
	if cfg.RateLimit.Enabled {
		t.Error("RateLimit.Enabled should be false")
	}
}

func TestLoad_RequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("PREDICTION_API_TOKEN", "r8_test_token")

	if _, err := Load(); err == nil {
		t.Error("expected Load to fail without DATABASE_URL")
	}
}

func TestLoad_RequiresPredictionToken(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/imagegw")
	t.Setenv("PREDICTION_API_TOKEN", "")

	if _, err := Load(); err == nil {
		t.Error("expected Load to fail without PREDICTION_API_TOKEN")
	}
}

func TestLoad_MalformedValuesFallBack(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("PREDICTION_POLL_ATTEMPTS", "lots")
	t.Setenv("PREDICTION_POLL_INTERVAL", "soon")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Prediction.PollAttempts != 60 {
		t.Errorf("PollAttempts = %d, want default 60", cfg.Prediction.PollAttempts)
	}
	if cfg.Prediction.PollInterval != time.Second {
		t.Errorf("PollInterval = %v, want default 1s", cfg.Prediction.PollInterval)
	}
}
