package installer

import (
	"context"
	"time"

	"github.com/dbmrq/skilldep/internal/config"
	"github.com/dbmrq/skilldep/internal/errors"
	"github.com/dbmrq/skilldep/internal/logging"
	"github.com/dbmrq/skilldep/internal/manifest"
)

// ClawHub installs registry-backed dependencies by invoking the clawhub CLI.
type ClawHub struct {
	command string
	timeout time.Duration
	log     *logging.Logger
}

// NewClawHub creates a registry installer from configuration.
func NewClawHub(cfg config.RegistryConfig, log *logging.Logger) *ClawHub {
	if log == nil {
		log = logging.NewNoop()
	}
	return &ClawHub{
		command: cfg.Command,
		timeout: cfg.Timeout,
		log:     log,
	}
}

// Args returns the registry CLI arguments for installing a dependency.
// Exposed so dry-run mode can render the exact command.
func (c *ClawHub) Args(dep manifest.ClawHubDependency, opts Options) []string {
	args := []string{"install", dep.Slug}
	if dep.Version != "" {
		args = append(args, "--version", dep.Version)
	}
	if opts.Force {
		args = append(args, "--force")
	}
	return args
}

// Command returns the configured registry CLI executable name.
func (c *ClawHub) Command() string {
	return c.command
}

// Install invokes the registry CLI for one dependency. Any non-zero exit or
// timeout is a failure carrying the process output.
func (c *ClawHub) Install(ctx context.Context, dep manifest.ClawHubDependency, opts Options) (*Result, error) {
	args := c.Args(dep, opts)
	c.log.Debug("invoking registry installer", "command", c.command, "args", args)

	output, timedOut, err := runCommand(ctx, c.timeout, "", c.command, args...)
	if err != nil {
		if timedOut {
			return nil, errors.InstallTimeout(dep.Slug, c.timeout)
		}
		return nil, errors.RegistryInstallFailed(dep.Slug, output, err)
	}

	c.log.Info("installed from registry", "slug", dep.Slug)
	return &Result{Output: output}, nil
}
