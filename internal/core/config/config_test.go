package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestHMACSecrets(t *testing.T) {
	os.Unsetenv("PROMO_HMAC_SECRET")
	os.Unsetenv("PROMO_HMAC_SECRET_1")
	os.Unsetenv("PROMO_HMAC_SECRET_2")

	t.Run("single secret", func(t *testing.T) {
		os.Setenv("PROMO_HMAC_SECRET", "0123456789abcdef0123456789abcdef:dGVzdHNlY3JldDEyMzQ1Njc4OTBhYmNkZWZnaGlqa2xtbm9w")
		defer os.Unsetenv("PROMO_HMAC_SECRET")

		secrets, err := HMACSecrets()
		if err != nil {
			t.Fatalf("HMACSecrets failed: %v", err)
		}
		if len(secrets) != 1 {
			t.Errorf("expected 1 secret, got %d", len(secrets))
		}
		if _, ok := secrets["0123456789abcdef0123456789abcdef"]; !ok {
			t.Errorf("secret_id not found in map")
		}
	})

	t.Run("multiple numbered secrets", func(t *testing.T) {
		os.Setenv("PROMO_HMAC_SECRET_1", "0123456789abcdef0123456789abcdef:dGVzdHNlY3JldDEyMzQ1Njc4OTBhYmNkZWZnaGlqa2xtbm9w")
		os.Setenv("PROMO_HMAC_SECRET_2", "fedcba9876543210fedcba9876543210:YW5vdGhlcnNlY3JldDEyMzQ1Njc4OTBhYmNkZWZnaGlqa2xtbm9w")
		defer os.Unsetenv("PROMO_HMAC_SECRET_1")
		defer os.Unsetenv("PROMO_HMAC_SECRET_2")

		secrets, err := HMACSecrets()
		if err != nil {
			t.Fatalf("HMACSecrets failed: %v", err)
		}
		if len(secrets) != 2 {
			t.Errorf("expected 2 secrets, got %d", len(secrets))
		}
	})

	t.Run("invalid format", func(t *testing.T) {
		os.Setenv("PROMO_HMAC_SECRET", "invalid_format")
		defer os.Unsetenv("PROMO_HMAC_SECRET")

		_, err := HMACSecrets()
		if err == nil {
			t.Error("expected error for invalid format")
		}
	})

	t.Run("invalid secret_id length", func(t *testing.T) {
		os.Setenv("PROMO_HMAC_SECRET", "short:dGVzdHNlY3JldDEyMzQ1Njc4OTBhYmNkZWZnaGlqa2xtbm9w")
		defer os.Unsetenv("PROMO_HMAC_SECRET")

		_, err := HMACSecrets()
		if err == nil {
			t.Error("expected error for short secret_id")
		}
	})

	t.Run("non-hex secret_id", func(t *testing.T) {
		os.Setenv("PROMO_HMAC_SECRET", "0123456789abcdefGHIJKLMNOPQRSTUV:dGVzdHNlY3JldDEyMzQ1Njc4OTBhYmNkZWZnaGlqa2xtbm9w")
		defer os.Unsetenv("PROMO_HMAC_SECRET")

		_, err := HMACSecrets()
		if err == nil {
			t.Error("expected error for non-hex secret_id")
		}
	})

	t.Run("duplicate secret_id between single and numbered", func(t *testing.T) {
		os.Setenv("PROMO_HMAC_SECRET", "0123456789abcdef0123456789abcdef:dGVzdHNlY3JldDEyMzQ1Njc4OTBhYmNkZWZnaGlqa2xtbm9w")
		os.Setenv("PROMO_HMAC_SECRET_1", "0123456789abcdef0123456789abcdef:YW5vdGhlcnNlY3JldDEyMzQ1Njc4OTBhYmNkZWZnaGlqa2xtbm9w")
		defer os.Unsetenv("PROMO_HMAC_SECRET")
		defer os.Unsetenv("PROMO_HMAC_SECRET_1")

		_, err := HMACSecrets()
		if err == nil {
			t.Error("expected error for duplicate secret_id between PROMO_HMAC_SECRET and PROMO_HMAC_SECRET_1")
		}
	})
}

func TestLoadConfig(t *testing.T) {
	os.Unsetenv("PROMO_SERVER_HOST")
	os.Unsetenv("PROMO_SERVER_PORT")

	t.Run("defaults", func(t *testing.T) {
		cfg, err := LoadConfig("")
		if err != nil {
			t.Fatalf("LoadConfig failed: %v", err)
		}
		if cfg.Host != "0.0.0.0" {
			t.Errorf("expected host 0.0.0.0, got %s", cfg.Host)
		}
		if cfg.Port != 8080 {
			t.Errorf("expected port 8080, got %d", cfg.Port)
		}
		if cfg.DatabaseURL != "sqlite://promolang.db" {
			t.Errorf("expected sqlite database URL, got %s", cfg.DatabaseURL)
		}
		if cfg.CacheTTL != 5*time.Minute {
			t.Errorf("expected cache_ttl 5m, got %v", cfg.CacheTTL)
		}
		if cfg.RequestTimeout != 30*time.Second {
			t.Errorf("expected request_timeout 30s, got %v", cfg.RequestTimeout)
		}
		if cfg.LogFormat != "json" {
			t.Errorf("expected log_format json, got %s", cfg.LogFormat)
		}
	})

	t.Run("environment override", func(t *testing.T) {
		os.Setenv("PROMO_SERVER_PORT", "9090")
		defer os.Unsetenv("PROMO_SERVER_PORT")

		cfg, err := LoadConfig("")
		if err != nil {
			t.Fatalf("LoadConfig failed: %v", err)
		}
		if cfg.Port != 9090 {
			t.Errorf("expected port 9090 from environment, got %d", cfg.Port)
		}
	})

	t.Run("config file", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "config.yaml")
		content := "server:\n  port: 3000\n  log_format: text\n"
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			t.Fatalf("write config: %v", err)
		}

		cfg, err := LoadConfig(path)
		if err != nil {
			t.Fatalf("LoadConfig failed: %v", err)
		}
		if cfg.Port != 3000 {
			t.Errorf("expected port 3000 from file, got %d", cfg.Port)
		}
		if cfg.LogFormat != "text" {
			t.Errorf("expected log_format text from file, got %s", cfg.LogFormat)
		}
	})

	t.Run("missing config file", func(t *testing.T) {
		_, err := LoadConfig("/nonexistent/config.yaml")
		if err == nil {
			t.Error("expected error for missing config file")
		}
	})

	t.Run("secrets rejected in config file", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "config.yaml")
		content := "server:\n  hmac_secret: supersecret\n"
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			t.Fatalf("write config: %v", err)
		}

		_, err := LoadConfig(path)
		if err == nil {
			t.Error("expected error for secret in config file")
		}
	})

	t.Run("invalid port", func(t *testing.T) {
		os.Setenv("PROMO_SERVER_PORT", "70000")
		defer os.Unsetenv("PROMO_SERVER_PORT")

		_, err := LoadConfig("")
		if err == nil {
			t.Error("expected error for out-of-range port")
		}
	})
}
