package installer

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/dbmrq/skilldep/internal/config"
	"github.com/dbmrq/skilldep/internal/errors"
	"github.com/dbmrq/skilldep/internal/logging"
	"github.com/dbmrq/skilldep/internal/manifest"
	"github.com/dbmrq/skilldep/internal/workspace"
)

// GitHub installs repository-backed dependencies via a shallow,
// blob-filtered sparse clone of the declared subdirectory.
type GitHub struct {
	command string
	timeout time.Duration
	ws      *workspace.Workspace
	log     *logging.Logger
}

// NewGitHub creates a repository installer from configuration.
func NewGitHub(cfg config.GitConfig, ws *workspace.Workspace, log *logging.Logger) *GitHub {
	if log == nil {
		log = logging.NewNoop()
	}
	return &GitHub{
		command: cfg.Command,
		timeout: cfg.Timeout,
		ws:      ws,
		log:     log,
	}
}

// CloneURL returns the clone URL for a dependency's repository.
func CloneURL(repo string) string {
	return "https://github.com/" + repo + ".git"
}

// Install performs the sparse checkout install for one dependency.
// If the target directory already exists and force is not set, the install
// is skipped and reported as success. The scratch clone directory is
// removed on every exit path.
func (g *GitHub) Install(ctx context.Context, dep manifest.GitHubDependency, opts Options) (*Result, error) {
	slug := dep.LocalSlug()
	if slug == "" {
		return nil, errors.New(errors.ErrInstall, fmt.Sprintf("dependency %q declares no usable path", dep.Repo))
	}

	target := g.ws.SkillDir(slug)
	if !opts.Force {
		if _, err := os.Stat(target); err == nil {
			g.log.Debug("target already exists, skipping clone", "slug", slug, "target", target)
			return &Result{Skipped: true}, nil
		}
	}

	scratch, err := os.MkdirTemp("", "skilldep-"+slug+"-*")
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInstall, "failed to create scratch directory")
	}
	defer os.RemoveAll(scratch)

	url := CloneURL(dep.Repo)
	g.log.Debug("cloning repository", "repo", dep.Repo, "url", url, "scratch", scratch)

	output, timedOut, err := runCommand(ctx, g.timeout, "",
		g.command, "clone", "--depth=1", "--filter=blob:none", "--sparse", url, scratch)
	if err != nil {
		if timedOut {
			return nil, errors.InstallTimeout(slug, g.timeout)
		}
		return nil, errors.RepositoryCloneFailed(dep.Repo, output, err)
	}

	output, timedOut, err = runCommand(ctx, g.timeout, scratch,
		g.command, "sparse-checkout", "set", dep.Path)
	if err != nil {
		if timedOut {
			return nil, errors.InstallTimeout(slug, g.timeout)
		}
		return nil, errors.RepositoryCloneFailed(dep.Repo, output, err)
	}

	src := filepath.Join(scratch, filepath.FromSlash(dep.Path))
	if info, err := os.Stat(src); err != nil || !info.IsDir() {
		return nil, errors.RepositoryPathNotFound(dep.Repo, dep.Path)
	}

	if opts.Force {
		if err := os.RemoveAll(target); err != nil {
			return nil, errors.Wrap(err, errors.ErrInstall, fmt.Sprintf("failed to replace %q", target))
		}
	}
	if err := copyDir(src, target); err != nil {
		return nil, errors.Wrap(err, errors.ErrInstall, fmt.Sprintf("failed to copy %q into workspace", dep.Path))
	}

	g.log.Info("installed from repository", "repo", dep.Repo, "slug", slug)
	return &Result{}, nil
}

// copyDir recursively copies the contents of src into dst, creating dst.
func copyDir(src, dst string) error {
	return filepath.WalkDir(src, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		targetPath := filepath.Join(dst, rel)

		if d.IsDir() {
			return os.MkdirAll(targetPath, 0755)
		}

		in, err := os.Open(path)
		if err != nil {
			return err
		}
		defer in.Close()

		out, err := os.OpenFile(targetPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
		if err != nil {
			return err
		}
		defer out.Close()

		_, err = io.Copy(out, in)
		return err
	})
}
