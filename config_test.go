package houdiniswap

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "houdiniswap.toml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig("", "prod")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.BaseURL != BaseURLProduction {
		t.Errorf("BaseURL = %q", cfg.BaseURL)
	}
	if cfg.TimeoutSeconds != 30 || cfg.MaxRetries != 3 {
		t.Errorf("defaults wrong: %+v", cfg)
	}
	if cfg.CacheEnabled {
		t.Error("cache should default to disabled")
	}
}

func TestLoadConfigProfileOverridesGlobal(t *testing.T) {
	path := writeConfigFile(t, `
[global]
api_key = "global-key"
api_secret = "global-secret"
max_retries = 2

[staging]
base_url = "https://staging.example.com"
max_retries = 5
cache_enabled = true
cache_ttl = 60
`)

	cfg, err := LoadConfig(path, "staging")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.APIKey != "global-key" {
		t.Errorf("APIKey = %q, want value from [global]", cfg.APIKey)
	}
	if cfg.BaseURL != "https://staging.example.com" {
		t.Errorf("BaseURL = %q, want profile value", cfg.BaseURL)
	}
	if cfg.MaxRetries != 5 {
		t.Errorf("MaxRetries = %d, want profile to win over global", cfg.MaxRetries)
	}
	if !cfg.CacheEnabled || cfg.CacheTTLSeconds != 60 {
		t.Errorf("cache settings = %v/%d", cfg.CacheEnabled, cfg.CacheTTLSeconds)
	}
}

func TestLoadConfigUnknownProfileKeepsGlobals(t *testing.T) {
	path := writeConfigFile(t, `
[global]
max_retries = 7
`)

	cfg, err := LoadConfig(path, "nonexistent")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.MaxRetries != 7 {
		t.Errorf("MaxRetries = %d, want 7 from [global]", cfg.MaxRetries)
	}
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	path := writeConfigFile(t, `
[prod]
api_key = "file-key"
api_secret = "file-secret"
max_retries = 2
`)

	t.Setenv("HOUDINI_SWAP_API_KEY", "env-key")
	t.Setenv("HOUDINI_SWAP_MAX_RETRIES", "9")
	t.Setenv("HOUDINI_SWAP_CACHE_ENABLED", "true")

	cfg, err := LoadConfig(path, "prod")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.APIKey != "env-key" {
		t.Errorf("APIKey = %q, want env to win", cfg.APIKey)
	}
	if cfg.APISecret != "file-secret" {
		t.Errorf("APISecret = %q, want file value kept", cfg.APISecret)
	}
	if cfg.MaxRetries != 9 {
		t.Errorf("MaxRetries = %d, want 9 from env", cfg.MaxRetries)
	}
	if !cfg.CacheEnabled {
		t.Error("CacheEnabled should come from env")
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.toml"), "prod")
	if kindOf(err) != KindValidation {
		t.Errorf("kind = %s, want Validation", kindOf(err))
	}
}

func TestNewFromConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.APIKey = "cfg-key"
	cfg.APISecret = "cfg-secret"
	cfg.BaseURL = "https://example.com"
	cfg.TimeoutSeconds = 10
	cfg.MaxRetries = 1
	cfg.RetryBackoffFactor = 0.5
	cfg.CacheEnabled = true
	cfg.CacheTTLSeconds = 120

	client, err := NewFromConfig(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if client.BaseURL() != "https://example.com" {
		t.Errorf("BaseURL = %q", client.BaseURL())
	}
	if !client.CacheEnabled() {
		t.Error("cache should be enabled")
	}
	if client.retry.MaxRetries != 1 {
		t.Errorf("MaxRetries = %d", client.retry.MaxRetries)
	}
	if client.retry.BackoffFactor != 500*time.Millisecond {
		t.Errorf("BackoffFactor = %v, want 500ms", client.retry.BackoffFactor)
	}
	if client.cacheTTL != 2*time.Minute {
		t.Errorf("cacheTTL = %v, want 2m", client.cacheTTL)
	}
}

func TestNewFromConfigInvalidCredentials(t *testing.T) {
	cfg := DefaultConfig()
	if _, err := NewFromConfig(cfg); kindOf(err) != KindValidation {
		t.Errorf("kind = %s, want Validation for missing credentials", kindOf(err))
	}
}
