package houdiniswap

import (
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Config holds client settings loadable from TOML profiles and environment
// variables. Durations are expressed in seconds in files and environment
// for interoperability with other SDK configs sharing the same files.
type Config struct {
	APIKey             string  `toml:"api_key"`
	APISecret          string  `toml:"api_secret"`
	BaseURL            string  `toml:"base_url"`
	TimeoutSeconds     int     `toml:"timeout"`
	APIVersion         string  `toml:"api_version"`
	MaxRetries         int     `toml:"max_retries"`
	RetryBackoffFactor float64 `toml:"retry_backoff_factor"`
	CacheEnabled       bool    `toml:"cache_enabled"`
	CacheTTLSeconds    int     `toml:"cache_ttl"`
}

// DefaultConfig returns the settings used when nothing else is specified.
func DefaultConfig() Config {
	return Config{
		BaseURL:            BaseURLProduction,
		TimeoutSeconds:     int(DefaultTimeout / time.Second),
		APIVersion:         DefaultAPIVersion,
		MaxRetries:         DefaultMaxRetries,
		RetryBackoffFactor: float64(DefaultBackoffFactor) / float64(time.Second),
		CacheEnabled:       false,
		CacheTTLSeconds:    int(DefaultCacheTTL / time.Second),
	}
}

// Environment variable names recognized by LoadConfig. Environment values
// override both defaults and file settings.
const (
	envAPIKey             = "HOUDINI_SWAP_API_KEY"
	envAPISecret          = "HOUDINI_SWAP_API_SECRET"
	envTimeout            = "HOUDINI_SWAP_TIMEOUT"
	envAPIVersion         = "HOUDINI_SWAP_API_VERSION"
	envMaxRetries         = "HOUDINI_SWAP_MAX_RETRIES"
	envRetryBackoffFactor = "HOUDINI_SWAP_RETRY_BACKOFF_FACTOR"
	envCacheEnabled       = "HOUDINI_SWAP_CACHE_ENABLED"
	envCacheTTL           = "HOUDINI_SWAP_CACHE_TTL"
	envProfile            = "HOUDINI_SWAP_PROFILE"
)

// LoadConfig assembles a Config in precedence order: defaults, then the
// [global] section of the TOML file, then the named profile section, then
// environment variables. A .env file in the working directory is loaded
// first when present. path may be empty to skip file loading; profile
// defaults to HOUDINI_SWAP_PROFILE or "prod".
func LoadConfig(path, profile string) (Config, error) {
	// Missing .env is the common case, not an error.
	_ = godotenv.Load()

	if profile == "" {
		profile = os.Getenv(envProfile)
	}
	if profile == "" {
		profile = "prod"
	}

	cfg := DefaultConfig()

	if path != "" {
		var sections map[string]toml.Primitive
		md, err := toml.DecodeFile(path, &sections)
		if err != nil {
			return Config{}, newValidationError("failed to load config file %s: %v", path, err)
		}
		if prim, ok := sections["global"]; ok {
			if err := md.PrimitiveDecode(prim, &cfg); err != nil {
				return Config{}, newValidationError("invalid [global] section in %s: %v", path, err)
			}
		}
		if prim, ok := sections[profile]; ok {
			if err := md.PrimitiveDecode(prim, &cfg); err != nil {
				return Config{}, newValidationError("invalid [%s] section in %s: %v", profile, path, err)
			}
		}
	}

	applyEnvOverrides(&cfg)
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv(envAPIKey); v != "" {
		cfg.APIKey = v
	}
	if v := os.Getenv(envAPISecret); v != "" {
		cfg.APISecret = v
	}
	if v := os.Getenv(envBaseURL); v != "" {
		cfg.BaseURL = v
	}
	if v := os.Getenv(envAPIVersion); v != "" {
		cfg.APIVersion = v
	}
	if v := os.Getenv(envTimeout); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.TimeoutSeconds = n
		}
	}
	if v := os.Getenv(envMaxRetries); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.MaxRetries = n
		}
	}
	if v := os.Getenv(envRetryBackoffFactor); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.RetryBackoffFactor = f
		}
	}
	if v := os.Getenv(envCacheEnabled); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.CacheEnabled = b
		}
	}
	if v := os.Getenv(envCacheTTL); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.CacheTTLSeconds = n
		}
	}
}

// NewFromConfig builds a client from a loaded Config.
func NewFromConfig(cfg Config, opts ...Option) (*Client, error) {
	base := []Option{
		WithBaseURL(cfg.BaseURL),
		WithTimeout(time.Duration(cfg.TimeoutSeconds) * time.Second),
		WithAPIVersion(cfg.APIVersion),
		WithMaxRetries(cfg.MaxRetries),
		WithBackoffFactor(time.Duration(cfg.RetryBackoffFactor * float64(time.Second))),
	}
	if cfg.CacheEnabled {
		base = append(base, WithCache(time.Duration(cfg.CacheTTLSeconds)*time.Second))
	}
	return New(cfg.APIKey, cfg.APISecret, append(base, opts...)...)
}
