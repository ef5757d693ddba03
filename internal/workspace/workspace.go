// Package workspace provides read-only access to the installed-skill state
// of a workspace: the lock file written by the registry tool and the skills
// directory tree.
package workspace

import (
	"os"
	"path/filepath"

	"github.com/dbmrq/skilldep/internal/errors"
	"github.com/dbmrq/skilldep/internal/manifest"
)

const (
	// SkillsDirName is the directory under the workspace root holding
	// installed skills.
	SkillsDirName = "skills"
)

// Workspace wraps a workspace root directory. The root is always explicit;
// environment-derived defaults are resolved by the caller.
type Workspace struct {
	root string
}

// New creates a Workspace for the given root directory.
func New(root string) *Workspace {
	return &Workspace{root: root}
}

// Root returns the workspace root directory.
func (w *Workspace) Root() string {
	return w.root
}

// SkillsDir returns the skills directory under the workspace root.
func (w *Workspace) SkillsDir() string {
	return filepath.Join(w.root, SkillsDirName)
}

// SkillDir returns the directory an installed skill with the given
// identifier would occupy.
func (w *Workspace) SkillDir(id string) string {
	return filepath.Join(w.SkillsDir(), id)
}

// IsInstalled reports whether a skill directory for the identifier exists
// and contains a skill document. Identifiers are compared case-sensitively
// by the filesystem path; an empty identifier is never installed.
func (w *Workspace) IsInstalled(id string) bool {
	if id == "" {
		return false
	}
	info, err := os.Stat(filepath.Join(w.SkillDir(id), manifest.SkillFilename))
	return err == nil && !info.IsDir()
}

// HasClawHub reports whether a registry dependency is present: any
// identifier in its identity set appears as a lock key or is installed on
// disk.
func (w *Workspace) HasClawHub(dep manifest.ClawHubDependency, lock Lock) bool {
	for _, id := range dep.Identifiers() {
		if id == "" {
			continue
		}
		if _, ok := lock[id]; ok {
			return true
		}
		if w.IsInstalled(id) {
			return true
		}
	}
	return false
}

// HasGitHub reports whether a repository dependency is present on disk
// under its derived local slug.
func (w *Workspace) HasGitHub(dep manifest.GitHubDependency) bool {
	return w.IsInstalled(dep.LocalSlug())
}

// FindSkillFile resolves the skill document to operate on. An explicit path
// wins; otherwise SKILL.md in the current directory is used. A missing
// document is the one fatal manifest error.
func FindSkillFile(explicit string) (string, error) {
	candidates := []string{manifest.SkillFilename}
	if explicit != "" {
		candidates = []string{explicit}
	}

	for _, candidate := range candidates {
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}
	}
	return "", errors.ManifestNotFound(candidates)
}
