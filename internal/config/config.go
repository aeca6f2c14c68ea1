package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config is the process configuration. A .env file in the working directory is
// honored, then environment variables, then defaults.
type Config struct {
	// APIBase is the REST origin, e.g. https://api.luckycat.example/api/.
	APIBase string `validate:"required,url"`
	// StateDir holds the local SQLite state file.
	StateDir string `validate:"required"`
	// HTTPTimeout applies to every API call. There is no retry policy on top.
	HTTPTimeout time.Duration
}

const (
	defaultAPIBase = "http://localhost:8000/api/"
	defaultTimeout = 15 * time.Second
)

var validate = validator.New()

// Load reads configuration. Missing values get defaults; the result is
// validated before use.
func Load() (Config, error) {
	// Best effort: running without a .env is the normal case.
	_ = godotenv.Load()

	cfg := Config{
		APIBase:     strings.TrimSpace(os.Getenv("LUCKYCAT_API_BASE")),
		StateDir:    strings.TrimSpace(os.Getenv("LUCKYCAT_STATE_DIR")),
		HTTPTimeout: defaultTimeout,
	}
	if cfg.APIBase == "" {
		cfg.APIBase = defaultAPIBase
	}
	if cfg.StateDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return Config{}, fmt.Errorf("config: resolve home dir: %w", err)
		}
		cfg.StateDir = filepath.Join(home, ".luckycat")
	}
	if v := strings.TrimSpace(os.Getenv("LUCKYCAT_HTTP_TIMEOUT")); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("config: LUCKYCAT_HTTP_TIMEOUT: %w", err)
		}
		cfg.HTTPTimeout = d
	}

	if err := validate.Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}
