// Package config provides configuration data structures for skilldep.
package config

import (
	"os"
	"path/filepath"
	"time"
)

// Config represents the complete skilldep configuration loaded from
// .skilldep/config.yaml under the workspace root.
type Config struct {
	Workspace WorkspaceConfig `yaml:"workspace" json:"workspace"`
	Registry  RegistryConfig  `yaml:"registry"  json:"registry"`
	Git       GitConfig       `yaml:"git"       json:"git"`
	Install   InstallConfig   `yaml:"install"   json:"install"`
	Logging   LoggingConfig   `yaml:"logging"   json:"logging"`
}

// WorkspaceConfig configures the workspace location.
type WorkspaceConfig struct {
	// Root is the workspace root directory holding the skills directory and
	// lock file. Empty means use the environment-derived default.
	Root string `yaml:"root" json:"root"`
}

// RegistryConfig configures the clawhub registry backend.
type RegistryConfig struct {
	// Command is the registry CLI executable (default: "clawhub").
	Command string `yaml:"command" json:"command"`
	// Timeout bounds a single install invocation (default: 60s).
	Timeout time.Duration `yaml:"timeout" json:"timeout"`
}

// GitConfig configures the repository backend.
type GitConfig struct {
	// Command is the git executable (default: "git").
	Command string `yaml:"command" json:"command"`
	// Timeout bounds the clone plus checkout of one dependency (default: 2m).
	Timeout time.Duration `yaml:"timeout" json:"timeout"`
}

// OutputMode controls how install progress is rendered.
type OutputMode string

const (
	// OutputAuto picks interactive when stdout is a terminal.
	OutputAuto OutputMode = "auto"
	// OutputPlain prints one line per dependency.
	OutputPlain OutputMode = "plain"
	// OutputInteractive renders a live progress view.
	OutputInteractive OutputMode = "interactive"
)

// InstallConfig configures install behavior.
type InstallConfig struct {
	// Force reinstalls dependencies even when already present (default: false).
	Force bool `yaml:"force" json:"force"`
	// Output controls progress rendering (default: auto).
	Output OutputMode `yaml:"output" json:"output"`
}

// LogLevel is the configured minimum log level.
type LogLevel string

const (
	// LogLevelDebug logs everything.
	LogLevelDebug LogLevel = "debug"
	// LogLevelInfo is the default level.
	LogLevelInfo LogLevel = "info"
	// LogLevelWarn logs warnings and errors only.
	LogLevelWarn LogLevel = "warn"
	// LogLevelError logs errors only.
	LogLevelError LogLevel = "error"
)

// LoggingConfig configures run logging.
type LoggingConfig struct {
	// Level is the minimum log level (default: info).
	Level LogLevel `yaml:"level" json:"level"`
	// Dir is the log directory relative to the workspace root (default: .skilldep/logs).
	Dir string `yaml:"dir" json:"dir"`
	// Console echoes log output to stderr (default: false).
	Console bool `yaml:"console" json:"console"`
}

// Default values.
const (
	DefaultRegistryCommand = "clawhub"
	DefaultRegistryTimeout = 60 * time.Second
	DefaultGitCommand      = "git"
	DefaultGitTimeout      = 2 * time.Minute
	DefaultLogDir          = ".skilldep/logs"
)

// NewConfig returns a new Config with default values applied.
func NewConfig() *Config {
	return &Config{
		Workspace: WorkspaceConfig{
			Root: "",
		},
		Registry: RegistryConfig{
			Command: DefaultRegistryCommand,
			Timeout: DefaultRegistryTimeout,
		},
		Git: GitConfig{
			Command: DefaultGitCommand,
			Timeout: DefaultGitTimeout,
		},
		Install: InstallConfig{
			Force:  false,
			Output: OutputAuto,
		},
		Logging: LoggingConfig{
			Level:   LogLevelInfo,
			Dir:     DefaultLogDir,
			Console: false,
		},
	}
}

// ApplyDefaults applies default values to any unset fields.
// This is used after loading config from file to fill in missing values.
func (c *Config) ApplyDefaults() {
	defaults := NewConfig()

	if c.Registry.Command == "" {
		c.Registry.Command = defaults.Registry.Command
	}
	if c.Registry.Timeout == 0 {
		c.Registry.Timeout = defaults.Registry.Timeout
	}
	if c.Git.Command == "" {
		c.Git.Command = defaults.Git.Command
	}
	if c.Git.Timeout == 0 {
		c.Git.Timeout = defaults.Git.Timeout
	}
	if c.Install.Output == "" {
		c.Install.Output = defaults.Install.Output
	}
	if c.Logging.Level == "" {
		c.Logging.Level = defaults.Logging.Level
	}
	if c.Logging.Dir == "" {
		c.Logging.Dir = defaults.Logging.Dir
	}
}

// DefaultWorkspaceRoot returns the default workspace root.
// SKILLDEP_WORKSPACE wins over the home directory default.
func DefaultWorkspaceRoot() string {
	if ws := os.Getenv(EnvPrefix + "_WORKSPACE"); ws != "" {
		return ws
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".skilldep/workspace"
	}
	return filepath.Join(home, ".skilldep", "workspace")
}

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []*ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}
	msg := "multiple validation errors:"
	for _, err := range e {
		msg += "\n  - " + err.Error()
	}
	return msg
}

// Validate validates the configuration and returns any errors.
func (c *Config) Validate() error {
	var errs ValidationErrors

	if c.Registry.Command == "" {
		errs = append(errs, &ValidationError{Field: "registry.command", Message: "must not be empty"})
	}
	if c.Registry.Timeout < 0 {
		errs = append(errs, &ValidationError{Field: "registry.timeout", Message: "must be non-negative"})
	}
	if c.Git.Command == "" {
		errs = append(errs, &ValidationError{Field: "git.command", Message: "must not be empty"})
	}
	if c.Git.Timeout < 0 {
		errs = append(errs, &ValidationError{Field: "git.timeout", Message: "must be non-negative"})
	}

	if c.Install.Output != "" {
		switch c.Install.Output {
		case OutputAuto, OutputPlain, OutputInteractive:
			// valid
		default:
			errs = append(errs, &ValidationError{
				Field:   "install.output",
				Message: "must be 'auto', 'plain', or 'interactive'",
			})
		}
	}

	if c.Logging.Level != "" {
		switch c.Logging.Level {
		case LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError:
			// valid
		default:
			errs = append(errs, &ValidationError{
				Field:   "logging.level",
				Message: "must be 'debug', 'info', 'warn', or 'error'",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// String returns the string representation of the output mode.
func (m OutputMode) String() string { return string(m) }

// String returns the string representation of the log level.
func (l LogLevel) String() string { return string(l) }
