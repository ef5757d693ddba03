// Package config provides configuration loading and management for skilldep.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultConfigPath is the default path to the config file relative to
	// the workspace root.
	DefaultConfigPath = ".skilldep/config.yaml"

	// EnvPrefix is the prefix for environment variable overrides.
	EnvPrefix = "SKILLDEP"
)

// Loader handles loading configuration from files and environment.
type Loader struct {
	v *viper.Viper
}

// NewLoader creates a new configuration loader.
func NewLoader() *Loader {
	v := viper.New()

	v.SetConfigType("yaml")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return &Loader{v: v}
}

// LoadConfig loads configuration from the specified path, applies defaults,
// merges environment variables, and validates the result.
// A missing config file is not an error: the defaults are returned so the
// tool works out of the box in a fresh workspace.
func (l *Loader) LoadConfig(path string) (*Config, error) {
	cfg := NewConfig()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			l.v.SetConfigFile(path)

			if err := l.v.ReadInConfig(); err != nil {
				return nil, &LoadError{
					Path:    path,
					Message: "failed to read config file",
					Err:     err,
				}
			}

			if err := l.v.Unmarshal(cfg, viperDecodeHook); err != nil {
				return nil, &LoadError{
					Path:    path,
					Message: "failed to parse config file",
					Err:     err,
				}
			}
		}
	}

	l.applyEnvOverrides(cfg)
	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, &LoadError{
			Path:    path,
			Message: "configuration validation failed",
			Err:     err,
		}
	}

	return cfg, nil
}

// LoadConfigFromWorkspace loads configuration from .skilldep/config.yaml in
// the given workspace root.
func (l *Loader) LoadConfigFromWorkspace(root string) (*Config, error) {
	return l.LoadConfig(filepath.Join(root, DefaultConfigPath))
}

// applyEnvOverrides applies environment variable overrides to the config.
func (l *Loader) applyEnvOverrides(cfg *Config) {
	if v := os.Getenv(EnvPrefix + "_WORKSPACE"); v != "" {
		cfg.Workspace.Root = v
	}

	if v := os.Getenv(EnvPrefix + "_REGISTRY_COMMAND"); v != "" {
		cfg.Registry.Command = v
	}
	if v := os.Getenv(EnvPrefix + "_REGISTRY_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Registry.Timeout = d
		}
	}

	if v := os.Getenv(EnvPrefix + "_GIT_COMMAND"); v != "" {
		cfg.Git.Command = v
	}
	if v := os.Getenv(EnvPrefix + "_GIT_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Git.Timeout = d
		}
	}

	if v := os.Getenv(EnvPrefix + "_INSTALL_OUTPUT"); v != "" {
		cfg.Install.Output = OutputMode(v)
	}
	if v := os.Getenv(EnvPrefix + "_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = LogLevel(v)
	}
}

// viperDecodeHook provides custom decoding for viper unmarshaling.
// It composes the standard mapstructure hooks with our custom ones.
func viperDecodeHook(dc *mapstructure.DecoderConfig) {
	dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		stringToCustomTypeHookFunc(),
	)
}

// stringToCustomTypeHookFunc creates a decode hook for our custom types.
func stringToCustomTypeHookFunc() mapstructure.DecodeHookFunc {
	return func(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
		if from.Kind() != reflect.String {
			return data, nil
		}

		switch to {
		case reflect.TypeOf(OutputMode("")):
			return OutputMode(data.(string)), nil
		case reflect.TypeOf(LogLevel("")):
			return LogLevel(data.(string)), nil
		}

		return data, nil
	}
}

// LoadError represents an error that occurred while loading configuration.
type LoadError struct {
	Path    string
	Message string
	Err     error
}

func (e *LoadError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Path, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Load is a convenience function that creates a new Loader and loads
// configuration from the given path.
func Load(path string) (*Config, error) {
	return NewLoader().LoadConfig(path)
}

// LoadFromWorkspace is a convenience function that loads configuration from
// a workspace root.
func LoadFromWorkspace(root string) (*Config, error) {
	return NewLoader().LoadConfigFromWorkspace(root)
}

// Save writes the configuration as YAML to the given path, creating parent
// directories as needed. Used by "skilldep init" to scaffold a workspace.
func Save(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
