package config

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// envOverrides are the settings that can come from the environment.
type envOverrides struct {
	OutputDir string `env:"BRICKLAYER_OUTPUT_DIR"`
	FontPath  string `env:"BRICKLAYER_FONT_PATH"`
	LogLevel  string `env:"BRICKLAYER_LOG_LEVEL"`
	Endpoint  string `env:"BRICKLAYER_OTEL_ENDPOINT"`
}

// Load loads configuration with priority: defaults < file < env < flags.
// An empty path skips the file; flags may be nil.
func Load(path string, flags *Flags) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := loadFromFile(cfg, path); err != nil {
			return nil, fmt.Errorf("loading config from %s: %w", path, err)
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}

	if flags != nil {
		flags.apply(cfg)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadFromFile loads config from a YAML file, merging with existing values.
func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

func applyEnv(cfg *Config) error {
	var e envOverrides
	if err := env.Parse(&e); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	if e.OutputDir != "" {
		cfg.Output.Dir = e.OutputDir
	}
	if e.FontPath != "" {
		cfg.Assets.FontPath = e.FontPath
	}
	if e.LogLevel != "" {
		cfg.Logging.Level = e.LogLevel
	}
	if e.Endpoint != "" {
		cfg.Telemetry.Endpoint = e.Endpoint
	}
	return nil
}

// SaveTo writes the config as YAML.
func (c *Config) SaveTo(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
