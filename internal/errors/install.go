// Package errors provides error types for skilldep.
// This file contains installation and manifest-related error constructors.
package errors

import (
	"fmt"
	"strings"
	"time"
)

// Manifest-related error constructors.

// ManifestNotFound creates an error for a missing skill document.
// This is the only fatal parsing-layer error; malformed content degrades
// to an empty dependency set instead.
func ManifestNotFound(searched []string) *SkillError {
	return &SkillError{
		Kind:    ErrManifest,
		Message: "no skill document found",
		Details: map[string]string{"searched": strings.Join(searched, ", ")},
		Suggestion: `Pass the path to a skill document explicitly:

  skilldep install path/to/SKILL.md

or run skilldep from a directory containing SKILL.md.`,
	}
}

// LockUnreadable creates an error for an unreadable or corrupt lock file.
// Callers treat this as "nothing installed" rather than failing the run.
func LockUnreadable(path string, cause error) *SkillError {
	return &SkillError{
		Kind:    ErrLock,
		Message: "lock file unreadable",
		Cause:   cause,
		Details: map[string]string{"path": path},
	}
}

// Install-related error constructors.

// RegistryInstallFailed creates an error for a failed registry invocation.
func RegistryInstallFailed(slug, output string, cause error) *SkillError {
	err := &SkillError{
		Kind:    ErrInstall,
		Message: fmt.Sprintf("failed to install %q from registry", slug),
		Cause:   cause,
		Details: map[string]string{"slug": slug},
		Suggestion: `Check that the clawhub CLI is installed and on your PATH:

  clawhub --version

and that the skill slug exists in the registry.`,
	}
	if output != "" {
		err.Details["output"] = output
	}
	return err
}

// RepositoryCloneFailed creates an error for a failed sparse clone.
func RepositoryCloneFailed(repo, output string, cause error) *SkillError {
	err := &SkillError{
		Kind:    ErrGit,
		Message: fmt.Sprintf("failed to clone %q", repo),
		Cause:   cause,
		Details: map[string]string{"repo": repo},
		Suggestion: `Check that git is installed and the repository is reachable:

  git ls-remote https://github.com/` + repo + `.git`,
	}
	if output != "" {
		err.Details["output"] = output
	}
	return err
}

// RepositoryPathNotFound creates an error for a declared subdirectory that
// did not materialize after a sparse checkout.
func RepositoryPathNotFound(repo, path string) *SkillError {
	return &SkillError{
		Kind:    ErrInstall,
		Message: fmt.Sprintf("path %q not found in %q after checkout", path, repo),
		Details: map[string]string{"repo": repo, "path": path},
		Suggestion: "Verify the declared path exists in the repository's default branch.",
	}
}

// InstallTimeout creates an error for an external process timeout.
// A timed-out process is treated identically to a non-zero exit.
func InstallTimeout(identifier string, limit time.Duration) *SkillError {
	return &SkillError{
		Kind:    ErrTimeout,
		Message: fmt.Sprintf("installing %q timed out after %v", identifier, limit.Round(time.Second)),
		Details: map[string]string{
			"identifier": identifier,
			"limit":      limit.Round(time.Second).String(),
		},
		Suggestion: `Increase the backend timeout in .skilldep/config.yaml:

  registry:
    timeout: 2m
  git:
    timeout: 5m`,
	}
}

// RequiredDependencyFailed creates the fail-fast error for install mode.
func RequiredDependencyFailed(identifier string, cause error) *SkillError {
	return &SkillError{
		Kind:    ErrInstall,
		Message: fmt.Sprintf("required dependency %q failed to install", identifier),
		Cause:   cause,
		Details: map[string]string{"identifier": identifier},
	}
}
