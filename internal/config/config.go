package config

import (
	"fmt"
	"os"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// Config holds the settings shared by the CLI commands and the HTTP service.
type Config struct {
	LogLevel         string `mapstructure:"log_level"`
	Target           string `mapstructure:"target"`
	MaxDepth         int    `mapstructure:"max_depth"`
	MaxPatternLength int    `mapstructure:"max_pattern_length"`
	CaseFolding      bool   `mapstructure:"case_folding"`
	Listen           string `mapstructure:"listen"`
	Pretty           bool   `mapstructure:"pretty"`
}

func Default() Config {
	return Config{
		LogLevel:         "info",
		Target:           "moore",
		MaxDepth:         64,
		MaxPatternLength: 256,
		Listen:           ":8080",
	}
}

// Load reads a YAML file on top of Default. A missing file is not an error
// when the path is empty.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}
	return Parse(data, cfg)
}

// Parse decodes YAML data over base. Values are weakly typed, so "true" and
// "64" are accepted for booleans and integers.
func Parse(data []byte, base Config) (Config, error) {
	raw := make(map[string]any)
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return base, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg := base
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           &cfg,
	})
	if err != nil {
		return base, err
	}
	if err := decoder.Decode(raw); err != nil {
		return base, fmt.Errorf("invalid config: %w", err)
	}
	if cfg.MaxDepth <= 0 {
		return base, fmt.Errorf("invalid config: max_depth must be positive, got %d", cfg.MaxDepth)
	}
	if cfg.MaxPatternLength < 0 {
		return base, fmt.Errorf("invalid config: max_pattern_length must not be negative, got %d", cfg.MaxPatternLength)
	}
	return cfg, nil
}
