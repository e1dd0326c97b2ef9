// Package core contains the business logic for wires: the dependency graph
// engine, status lifecycle, id generation, and configuration.
package core

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Output format names accepted by --format and the config file.
const (
	FormatAuto  = "auto"
	FormatJSON  = "json"
	FormatTable = "table"
)

// validFormats is the set of allowed format values.
var validFormats = map[string]bool{
	FormatAuto:  true,
	FormatJSON:  true,
	FormatTable: true,
}

// Config holds the user-tunable settings read from .wires/config.yaml.
type Config struct {
	// Format selects the default output rendering: auto, json, or table.
	Format string
	// DefaultPriority is assigned to wires created without an explicit one.
	DefaultPriority int
}

// ConfigManager defines the interface for loading and scaffolding the
// repository configuration.
type ConfigManager interface {
	Load() (*Config, error)
	WriteDefault() error
}

// viperConfigManager implements ConfigManager using Viper for reading the
// YAML configuration file.
type viperConfigManager struct {
	// dir is the .wires directory next to the database.
	dir string
}

// NewConfigManager creates a ConfigManager that reads config.yaml from dir.
func NewConfigManager(dir string) ConfigManager {
	return &viperConfigManager{dir: dir}
}

// defaultConfig returns a Config populated with the defaults.
func defaultConfig() *Config {
	return &Config{
		Format:          FormatAuto,
		DefaultPriority: 0,
	}
}

// Load reads config.yaml from the .wires directory. A missing file falls
// back to defaults; environment variables prefixed WIRES_ override both.
func (cm *viperConfigManager) Load() (*Config, error) {
	cfg := defaultConfig()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(cm.dir)

	v.SetDefault("format", cfg.Format)
	v.SetDefault("default_priority", cfg.DefaultPriority)

	v.SetEnvPrefix("WIRES")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config.yaml: %w", err)
		}
	}

	cfg.Format = v.GetString("format")
	cfg.DefaultPriority = v.GetInt("default_priority")

	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// configScaffold is marshalled into the config.yaml written by init.
type configScaffold struct {
	Format          string `yaml:"format"`
	DefaultPriority int    `yaml:"default_priority"`
}

// WriteDefault writes a config.yaml scaffold with the default settings.
// An existing file is left alone.
func (cm *viperConfigManager) WriteDefault() error {
	path := filepath.Join(cm.dir, "config.yaml")
	if _, err := os.Stat(path); err == nil {
		return nil
	}

	cfg := defaultConfig()
	data, err := yaml.Marshal(configScaffold{
		Format:          cfg.Format,
		DefaultPriority: cfg.DefaultPriority,
	})
	if err != nil {
		return fmt.Errorf("marshalling default config: %w", err)
	}

	header := []byte("# wires configuration\n# format: auto, json, or table\n")
	if err := os.WriteFile(path, append(header, data...), 0o600); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// validateConfig checks the configuration for invalid values.
func validateConfig(cfg *Config) error {
	if !validFormats[cfg.Format] {
		return fmt.Errorf("format %q is invalid, must be one of: auto, json, table", cfg.Format)
	}
	return nil
}
