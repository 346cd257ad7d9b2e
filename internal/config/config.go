// Package config resolves the client configuration from defaults, an
// optional YAML file, and environment overrides (including a local
// .env file). Precedence: environment > file > defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment variable names.
const (
	EnvAPIBaseURL   = "BLITZBUY_API_BASE_URL"
	EnvFlashBaseURL = "BLITZBUY_FLASH_BASE_URL"
	EnvTimeout      = "BLITZBUY_TIMEOUT"
	EnvTheme        = "BLITZBUY_THEME"
)

// Config holds the client settings.
type Config struct {
	// APIBaseURL roots the general REST surface.
	APIBaseURL string `yaml:"api_base_url"`
	// FlashSaleBaseURL roots the flash-sale endpoint group. The backend
	// serves these on a separate root from the REST surface.
	FlashSaleBaseURL string `yaml:"flash_sale_base_url"`
	TimeoutSeconds   int    `yaml:"timeout_seconds"`
	Theme            string `yaml:"theme"` // "light" or "dark"
}

// Timeout returns the request timeout as a duration.
func (c Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Default returns the built-in configuration, pointing at a local
// backend the way the original integration did.
func Default() Config {
	return Config{
		APIBaseURL:       "http://localhost:9090/api/v1",
		FlashSaleBaseURL: "http://localhost:9090/flashSale",
		TimeoutSeconds:   10,
		Theme:            "dark",
	}
}

// Dir returns the directory where the config and session files live.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("config: resolve home dir: %w", err)
	}
	return filepath.Join(home, ".blitzbuy"), nil
}

// File returns the config file path.
func File() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// Load resolves the effective configuration. A missing config file or
// .env is not an error; a malformed config file is.
func Load() (Config, error) {
	path, err := File()
	if err != nil {
		return Default(), err
	}
	return loadFrom(path)
}

func loadFrom(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Default(), fmt.Errorf("config: parse %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return Default(), fmt.Errorf("config: read %s: %w", path, err)
	}

	// .env is best-effort; environment always wins.
	_ = godotenv.Load()
	applyEnv(&cfg)

	if cfg.TimeoutSeconds <= 0 {
		cfg.TimeoutSeconds = Default().TimeoutSeconds
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv(EnvAPIBaseURL); v != "" {
		cfg.APIBaseURL = v
	}
	if v := os.Getenv(EnvFlashBaseURL); v != "" {
		cfg.FlashSaleBaseURL = v
	}
	if v := os.Getenv(EnvTheme); v != "" {
		cfg.Theme = v
	}
	if v := os.Getenv(EnvTimeout); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d >= time.Second {
			cfg.TimeoutSeconds = int(d / time.Second)
		}
	}
}

// Save writes the configuration file.
func Save(cfg Config) error {
	dir, err := Dir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("config: create dir: %w", err)
	}
	path, err := File()
	if err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("config: encode: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("config: write: %w", err)
	}
	return nil
}
