package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/Divyendra-S/sasha/internal/platform/errors"
)

const defaultConfigFile = ".config.yaml"

// Loader reads configuration from an optional yaml file, layered over the
// built-in defaults and finished off with environment overrides.
type Loader struct {
	path      string
	useDotEnv bool
}

// NewLoader creates a loader reading .config.yaml from the working directory.
func NewLoader() *Loader {
	return &Loader{
		path:      defaultConfigFile,
		useDotEnv: true,
	}
}

// WithPath overrides the configuration file location.
func (l *Loader) WithPath(path string) *Loader {
	if path != "" {
		l.path = path
	}
	return l
}

// WithDotEnv toggles loading variables from a .env file before reading config.
func (l *Loader) WithDotEnv(enabled bool) *Loader {
	l.useDotEnv = enabled
	return l
}

// Load builds the effective configuration.
func (l *Loader) Load() (*Config, error) {
	if l.useDotEnv {
		if err := godotenv.Load(); err != nil {
			fmt.Println("no .env file found, using system environment")
		}
	}

	cfg := DefaultConfig()

	data, err := os.ReadFile(l.path)
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, errors.Wrap(errors.KindConfig, "loader.parse", "invalid config file", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, errors.Wrap(errors.KindConfig, "loader.read", "cannot read config file", err)
	}

	applyEnvOverrides(cfg)

	if err := l.validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("EXTRACTION_API_KEY"); v != "" {
		cfg.Extraction.APIKey = v
	}
	// Kept for parity with the original deployment scripts.
	if v := os.Getenv("GOOGLE_API_KEY"); v != "" && cfg.Extraction.APIKey == "" {
		cfg.Extraction.APIKey = v
	}
	if v := os.Getenv("EXTRACTION_BASE_URL"); v != "" {
		cfg.Extraction.BaseURL = v
	}
	if v := os.Getenv("EXTRACTION_MODEL"); v != "" {
		cfg.Extraction.ModelName = v
	}
	if v := os.Getenv("SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("API_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Web.Port = port
		}
	}
	if v := os.Getenv("SESSION_SCHEMA"); v != "" {
		cfg.Session.Schema = v
	}
}

func (l *Loader) validate(cfg *Config) error {
	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return errors.New(errors.KindConfig, "loader.validate",
			fmt.Sprintf("invalid server port: %d", cfg.Server.Port))
	}
	if cfg.Web.Enabled && (cfg.Web.Port <= 0 || cfg.Web.Port > 65535) {
		return errors.New(errors.KindConfig, "loader.validate",
			fmt.Sprintf("invalid web port: %d", cfg.Web.Port))
	}
	if cfg.Session.Schema != "interview" && cfg.Session.Schema != "job_description" {
		return errors.New(errors.KindConfig, "loader.validate",
			fmt.Sprintf("unknown session schema: %s", cfg.Session.Schema))
	}
	if cfg.Extraction.MaxConcurrent <= 0 {
		cfg.Extraction.MaxConcurrent = 3
	}
	return nil
}
