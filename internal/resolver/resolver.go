// Package resolver classifies a skill's declared dependencies against the
// workspace's installed state and drives the install backends.
//
// Classification is deterministic: for the same manifest, lock file, and
// skills directory it always produces the same partition, in declaration
// order with registry dependencies first.
package resolver

import (
	"context"
	"fmt"
	"strings"

	"github.com/dbmrq/skilldep/internal/errors"
	"github.com/dbmrq/skilldep/internal/installer"
	"github.com/dbmrq/skilldep/internal/logging"
	"github.com/dbmrq/skilldep/internal/manifest"
	"github.com/dbmrq/skilldep/internal/workspace"
)

// Source identifies which backend a dependency installs through.
type Source string

const (
	SourceClawHub Source = "clawhub"
	SourceGitHub  Source = "github"
)

// Dependency is a single declared dependency of either source. Exactly one
// of ClawHub or GitHub is set, matching Src.
type Dependency struct {
	Src     Source
	ClawHub *manifest.ClawHubDependency
	GitHub  *manifest.GitHubDependency
}

// Slug returns the dependency's primary identifier: the registry slug, or
// the local slug derived from the repository path.
func (d Dependency) Slug() string {
	if d.Src == SourceClawHub {
		return d.ClawHub.Slug
	}
	return d.GitHub.LocalSlug()
}

// Required reports whether the dependency is mandatory.
func (d Dependency) Required() bool {
	if d.Src == SourceClawHub {
		return d.ClawHub.Required
	}
	return d.GitHub.Required
}

// Description returns the dependency's free-form description.
func (d Dependency) Description() string {
	if d.Src == SourceClawHub {
		return d.ClawHub.Description
	}
	return d.GitHub.Description
}

// Origin returns a display reference for where the dependency comes from.
func (d Dependency) Origin() string {
	if d.Src == SourceClawHub {
		return d.ClawHub.Slug
	}
	return d.GitHub.Repo + "/" + strings.Trim(d.GitHub.Path, "/")
}

// clawhubInstaller is the registry backend surface the resolver needs.
type clawhubInstaller interface {
	Install(ctx context.Context, dep manifest.ClawHubDependency, opts installer.Options) (*installer.Result, error)
	Args(dep manifest.ClawHubDependency, opts installer.Options) []string
	Command() string
}

// githubInstaller is the repository backend surface the resolver needs.
type githubInstaller interface {
	Install(ctx context.Context, dep manifest.GitHubDependency, opts installer.Options) (*installer.Result, error)
}

// Status is the terminal state of one dependency during an install run.
type Status string

const (
	StatusPresent   Status = "present"
	StatusInstalled Status = "installed"
	StatusFailed    Status = "failed"
	StatusAborted   Status = "aborted"
)

// ProgressFunc receives per-dependency status transitions during Install.
// It is called once when work on a dependency starts (with an empty Status)
// and once with its terminal state.
type ProgressFunc func(dep Dependency, status Status)

// Resolver ties a parsed manifest to a workspace and the install backends.
type Resolver struct {
	manifest *manifest.Manifest
	ws       *workspace.Workspace
	lock     workspace.Lock
	registry clawhubInstaller
	repo     githubInstaller
	log      *logging.Logger
	progress ProgressFunc
}

// Option customizes a Resolver.
type Option func(*Resolver)

// WithProgress registers a progress callback for install runs.
func WithProgress(fn ProgressFunc) Option {
	return func(r *Resolver) { r.progress = fn }
}

// WithLogger sets the resolver's logger.
func WithLogger(log *logging.Logger) Option {
	return func(r *Resolver) { r.log = log }
}

// New creates a Resolver. The lock file is loaded once at construction so a
// run observes a single consistent snapshot of installed state.
func New(m *manifest.Manifest, ws *workspace.Workspace, registry clawhubInstaller, repo githubInstaller, opts ...Option) *Resolver {
	r := &Resolver{
		manifest: m,
		ws:       ws,
		lock:     ws.LoadLock(),
		registry: registry,
		repo:     repo,
		log:      logging.NewNoop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Deps returns all declared dependencies in stable order: registry
// dependencies first, then repository dependencies, each in declaration
// order.
func (r *Resolver) Deps() []Dependency {
	deps := make([]Dependency, 0, r.manifest.Total())
	for i := range r.manifest.ClawHub {
		deps = append(deps, Dependency{Src: SourceClawHub, ClawHub: &r.manifest.ClawHub[i]})
	}
	for i := range r.manifest.GitHub {
		deps = append(deps, Dependency{Src: SourceGitHub, GitHub: &r.manifest.GitHub[i]})
	}
	return deps
}

// present reports whether a dependency is already satisfied.
func (r *Resolver) present(dep Dependency) bool {
	if dep.Src == SourceClawHub {
		return r.ws.HasClawHub(*dep.ClawHub, r.lock)
	}
	return r.ws.HasGitHub(*dep.GitHub)
}

// Classify partitions all dependencies into present and missing.
func (r *Resolver) Classify() (present, missing []Dependency) {
	for _, dep := range r.Deps() {
		if r.present(dep) {
			present = append(present, dep)
		} else {
			missing = append(missing, dep)
		}
	}
	return present, missing
}

// CheckResult is the outcome of check mode.
type CheckResult struct {
	Present         []Dependency
	MissingRequired []Dependency
	MissingOptional []Dependency
}

// Satisfied reports whether every required dependency is present. Missing
// optional dependencies never fail a check.
func (c CheckResult) Satisfied() bool {
	return len(c.MissingRequired) == 0
}

// Check classifies dependencies and splits the missing set by requirement.
func (r *Resolver) Check() CheckResult {
	present, missing := r.Classify()
	result := CheckResult{Present: present}
	for _, dep := range missing {
		if dep.Required() {
			result.MissingRequired = append(result.MissingRequired, dep)
		} else {
			result.MissingOptional = append(result.MissingOptional, dep)
		}
	}
	return result
}

// PlanAction is one step of a dry run.
type PlanAction struct {
	Dep Dependency
	// Command is the rendered external invocation this step would run.
	Command string
}

// Plan returns the actions install mode would take, without running any of
// them. Present dependencies produce no action.
func (r *Resolver) Plan(opts installer.Options) []PlanAction {
	_, missing := r.Classify()
	actions := make([]PlanAction, 0, len(missing))
	for _, dep := range missing {
		actions = append(actions, PlanAction{Dep: dep, Command: r.renderCommand(dep, opts)})
	}
	return actions
}

func (r *Resolver) renderCommand(dep Dependency, opts installer.Options) string {
	if dep.Src == SourceClawHub {
		args := r.registry.Args(*dep.ClawHub, opts)
		return r.registry.Command() + " " + strings.Join(args, " ")
	}
	return fmt.Sprintf("git clone --depth=1 --filter=blob:none --sparse %s (sparse-checkout %s)",
		installer.CloneURL(dep.GitHub.Repo), dep.GitHub.Path)
}

// InstallResult records the terminal state of one dependency.
type InstallResult struct {
	Dep    Dependency
	Status Status
	// Err is set for failed dependencies.
	Err error
}

// Summary aggregates an install run.
type Summary struct {
	Results   []InstallResult
	Installed int
	Present   int
	Failed    int
}

// Failures returns the results for dependencies that failed.
func (s *Summary) Failures() []InstallResult {
	var failed []InstallResult
	for _, res := range s.Results {
		if res.Status == StatusFailed {
			failed = append(failed, res)
		}
	}
	return failed
}

// Install installs every missing dependency in order. A failed required
// dependency aborts the run immediately; the remaining dependencies are
// recorded as aborted and the run's error wraps the failure. A failed
// optional dependency is recorded and the run continues.
//
// The run can be interrupted between dependency iterations: a canceled
// context aborts before the next dependency is attempted, never mid-backend.
func (r *Resolver) Install(ctx context.Context, opts installer.Options) (*Summary, error) {
	summary := &Summary{}
	deps := r.Deps()

	for i, dep := range deps {
		if ctxErr := ctx.Err(); ctxErr != nil {
			for _, rest := range deps[i:] {
				summary.Results = append(summary.Results, InstallResult{Dep: rest, Status: StatusAborted})
				r.report(rest, StatusAborted)
			}
			return summary, ctxErr
		}

		if r.present(dep) && !opts.Force {
			summary.Present++
			summary.Results = append(summary.Results, InstallResult{Dep: dep, Status: StatusPresent})
			r.report(dep, StatusPresent)
			continue
		}

		r.report(dep, "")
		err := r.installOne(ctx, dep, opts)
		if err == nil {
			summary.Installed++
			summary.Results = append(summary.Results, InstallResult{Dep: dep, Status: StatusInstalled})
			r.report(dep, StatusInstalled)
			continue
		}

		summary.Failed++
		summary.Results = append(summary.Results, InstallResult{Dep: dep, Status: StatusFailed, Err: err})
		r.report(dep, StatusFailed)

		if dep.Required() {
			for _, rest := range deps[i+1:] {
				summary.Results = append(summary.Results, InstallResult{Dep: rest, Status: StatusAborted})
				r.report(rest, StatusAborted)
			}
			return summary, errors.RequiredDependencyFailed(dep.Slug(), err)
		}

		r.log.Warn("optional dependency failed, continuing", "slug", dep.Slug(), "error", err)
	}

	return summary, nil
}

func (r *Resolver) installOne(ctx context.Context, dep Dependency, opts installer.Options) error {
	if dep.Src == SourceClawHub {
		_, err := r.registry.Install(ctx, *dep.ClawHub, opts)
		return err
	}
	_, err := r.repo.Install(ctx, *dep.GitHub, opts)
	return err
}

func (r *Resolver) report(dep Dependency, status Status) {
	if r.progress != nil {
		r.progress(dep, status)
	}
}
