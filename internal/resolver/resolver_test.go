package resolver

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	skillerrors "github.com/dbmrq/skilldep/internal/errors"
	"github.com/dbmrq/skilldep/internal/installer"
	"github.com/dbmrq/skilldep/internal/manifest"
	"github.com/dbmrq/skilldep/internal/workspace"
)

type fakeRegistry struct {
	calls []string
	fail  map[string]error
}

func (f *fakeRegistry) Install(_ context.Context, dep manifest.ClawHubDependency, _ installer.Options) (*installer.Result, error) {
	f.calls = append(f.calls, dep.Slug)
	if err, ok := f.fail[dep.Slug]; ok {
		return nil, err
	}
	return &installer.Result{}, nil
}

func (f *fakeRegistry) Args(dep manifest.ClawHubDependency, opts installer.Options) []string {
	args := []string{"install", dep.Slug}
	if opts.Force {
		args = append(args, "--force")
	}
	return args
}

func (f *fakeRegistry) Command() string { return "clawhub" }

type fakeRepo struct {
	calls []string
	fail  map[string]error
}

func (f *fakeRepo) Install(_ context.Context, dep manifest.GitHubDependency, _ installer.Options) (*installer.Result, error) {
	f.calls = append(f.calls, dep.Repo)
	if err, ok := f.fail[dep.Repo]; ok {
		return nil, err
	}
	return &installer.Result{}, nil
}

// installSkill materializes an installed skill on disk.
func installSkill(t *testing.T, root, id string) {
	t.Helper()
	dir := filepath.Join(root, workspace.SkillsDirName, id)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, manifest.SkillFilename), []byte("---\nname: "+id+"\n---\n"), 0644); err != nil {
		t.Fatal(err)
	}
}

// writeLock writes a lock file with the given installed identifiers.
func writeLock(t *testing.T, root string, ids ...string) {
	t.Helper()
	path := filepath.Join(root, workspace.LockRelPath)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	entries := make([]string, len(ids))
	for i, id := range ids {
		entries[i] = `"` + id + `": {"version": "1.0.0"}`
	}
	data := "{" + strings.Join(entries, ", ") + "}"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}
}

func testManifest() *manifest.Manifest {
	return &manifest.Manifest{
		Name: "data-pipeline",
		ClawHub: []manifest.ClawHubDependency{
			{Slug: "pdf-tools", Required: true},
			{Slug: "csv-kit", Required: true, Version: "2.0.0"},
			{Slug: "nice-to-have", Required: false},
		},
		GitHub: []manifest.GitHubDependency{
			{Repo: "acme/skills", Path: "skills/charting", Required: true},
		},
	}
}

func newResolver(t *testing.T, m *manifest.Manifest, root string, reg *fakeRegistry, repo *fakeRepo) *Resolver {
	t.Helper()
	return New(m, workspace.New(root), reg, repo)
}

func TestResolver_DepsOrder(t *testing.T) {
	r := newResolver(t, testManifest(), t.TempDir(), &fakeRegistry{}, &fakeRepo{})

	var slugs []string
	for _, dep := range r.Deps() {
		slugs = append(slugs, dep.Slug())
	}
	expected := []string{"pdf-tools", "csv-kit", "nice-to-have", "charting"}
	if !reflect.DeepEqual(slugs, expected) {
		t.Errorf("Deps() order = %v, want %v", slugs, expected)
	}
}

func TestResolver_Classify(t *testing.T) {
	root := t.TempDir()
	installSkill(t, root, "charting")
	writeLock(t, root, "pdf-tools")

	r := newResolver(t, testManifest(), root, &fakeRegistry{}, &fakeRepo{})
	present, missing := r.Classify()

	presentSlugs := depSlugs(present)
	missingSlugs := depSlugs(missing)
	if !reflect.DeepEqual(presentSlugs, []string{"pdf-tools", "charting"}) {
		t.Errorf("present = %v", presentSlugs)
	}
	if !reflect.DeepEqual(missingSlugs, []string{"csv-kit", "nice-to-have"}) {
		t.Errorf("missing = %v", missingSlugs)
	}
}

func TestResolver_Classify_LockOnlyEntry(t *testing.T) {
	// A lock entry with no skill directory still counts as present.
	root := t.TempDir()
	writeLock(t, root, "pdf-tools", "csv-kit", "nice-to-have")
	installSkill(t, root, "charting")

	r := newResolver(t, testManifest(), root, &fakeRegistry{}, &fakeRepo{})
	_, missing := r.Classify()
	if len(missing) != 0 {
		t.Errorf("missing = %v, want none", depSlugs(missing))
	}
}

func TestResolver_Classify_AliasSatisfies(t *testing.T) {
	root := t.TempDir()
	m := &manifest.Manifest{
		ClawHub: []manifest.ClawHubDependency{
			{Slug: "pdf-tools", Aliases: []string{"pdftools"}, Required: true},
		},
	}
	installSkill(t, root, "pdftools")

	r := newResolver(t, m, root, &fakeRegistry{}, &fakeRepo{})
	present, missing := r.Classify()
	if len(present) != 1 || len(missing) != 0 {
		t.Errorf("present = %v, missing = %v", depSlugs(present), depSlugs(missing))
	}
}

func TestResolver_Check(t *testing.T) {
	root := t.TempDir()
	writeLock(t, root, "pdf-tools", "csv-kit")
	installSkill(t, root, "charting")

	r := newResolver(t, testManifest(), root, &fakeRegistry{}, &fakeRepo{})
	result := r.Check()

	if !result.Satisfied() {
		t.Error("check should be satisfied when only optional dependencies are missing")
	}
	if got := depSlugs(result.MissingOptional); !reflect.DeepEqual(got, []string{"nice-to-have"}) {
		t.Errorf("MissingOptional = %v", got)
	}
	if len(result.MissingRequired) != 0 {
		t.Errorf("MissingRequired = %v", depSlugs(result.MissingRequired))
	}
}

func TestResolver_Check_MissingRequired(t *testing.T) {
	r := newResolver(t, testManifest(), t.TempDir(), &fakeRegistry{}, &fakeRepo{})
	result := r.Check()

	if result.Satisfied() {
		t.Error("check should not be satisfied with required dependencies missing")
	}
	expected := []string{"pdf-tools", "csv-kit", "charting"}
	if got := depSlugs(result.MissingRequired); !reflect.DeepEqual(got, expected) {
		t.Errorf("MissingRequired = %v, want %v", got, expected)
	}
}

func TestResolver_Plan(t *testing.T) {
	root := t.TempDir()
	writeLock(t, root, "pdf-tools", "nice-to-have")

	r := newResolver(t, testManifest(), root, &fakeRegistry{}, &fakeRepo{})
	actions := r.Plan(installer.Options{})

	if len(actions) != 2 {
		t.Fatalf("Plan() returned %d actions, want 2", len(actions))
	}
	if actions[0].Command != "clawhub install csv-kit" {
		t.Errorf("action[0] = %q", actions[0].Command)
	}
	if !strings.Contains(actions[1].Command, "https://github.com/acme/skills.git") {
		t.Errorf("action[1] = %q", actions[1].Command)
	}
	if !strings.Contains(actions[1].Command, "skills/charting") {
		t.Errorf("action[1] should name the sparse path: %q", actions[1].Command)
	}
}

func TestResolver_Install_AllMissing(t *testing.T) {
	reg := &fakeRegistry{}
	repo := &fakeRepo{}
	r := newResolver(t, testManifest(), t.TempDir(), reg, repo)

	summary, err := r.Install(context.Background(), installer.Options{})
	if err != nil {
		t.Fatalf("Install() error = %v", err)
	}
	if summary.Installed != 4 || summary.Failed != 0 || summary.Present != 0 {
		t.Errorf("summary = %+v", summary)
	}
	if !reflect.DeepEqual(reg.calls, []string{"pdf-tools", "csv-kit", "nice-to-have"}) {
		t.Errorf("registry calls = %v", reg.calls)
	}
	if !reflect.DeepEqual(repo.calls, []string{"acme/skills"}) {
		t.Errorf("repo calls = %v", repo.calls)
	}
}

func TestResolver_Install_SkipsPresent(t *testing.T) {
	root := t.TempDir()
	writeLock(t, root, "pdf-tools")

	reg := &fakeRegistry{}
	r := newResolver(t, testManifest(), root, reg, &fakeRepo{})

	summary, err := r.Install(context.Background(), installer.Options{})
	if err != nil {
		t.Fatalf("Install() error = %v", err)
	}
	if summary.Present != 1 || summary.Installed != 3 {
		t.Errorf("summary = %+v", summary)
	}
	for _, slug := range reg.calls {
		if slug == "pdf-tools" {
			t.Error("present dependency should not be reinstalled")
		}
	}
}

func TestResolver_Install_ForceReinstallsPresent(t *testing.T) {
	root := t.TempDir()
	writeLock(t, root, "pdf-tools")

	reg := &fakeRegistry{}
	r := newResolver(t, testManifest(), root, reg, &fakeRepo{})

	summary, err := r.Install(context.Background(), installer.Options{Force: true})
	if err != nil {
		t.Fatalf("Install() error = %v", err)
	}
	if summary.Present != 0 || summary.Installed != 4 {
		t.Errorf("summary = %+v", summary)
	}
	if !reflect.DeepEqual(reg.calls, []string{"pdf-tools", "csv-kit", "nice-to-have"}) {
		t.Errorf("registry calls = %v", reg.calls)
	}
}

func TestResolver_Install_FailFastOnRequired(t *testing.T) {
	cause := skillerrors.New(skillerrors.ErrInstall, "boom")
	reg := &fakeRegistry{fail: map[string]error{"csv-kit": cause}}
	repo := &fakeRepo{}
	r := newResolver(t, testManifest(), t.TempDir(), reg, repo)

	summary, err := r.Install(context.Background(), installer.Options{})
	if err == nil {
		t.Fatal("Install() should fail when a required dependency fails")
	}
	if !errors.Is(err, skillerrors.ErrInstall) {
		t.Errorf("error kind = %v", err)
	}
	if !strings.Contains(err.Error(), "csv-kit") {
		t.Errorf("error should name the dependency: %v", err)
	}

	// pdf-tools installed, csv-kit failed, nothing after was attempted.
	if !reflect.DeepEqual(reg.calls, []string{"pdf-tools", "csv-kit"}) {
		t.Errorf("registry calls = %v", reg.calls)
	}
	if len(repo.calls) != 0 {
		t.Errorf("repo calls = %v, want none", repo.calls)
	}

	statuses := map[string]Status{}
	for _, res := range summary.Results {
		statuses[res.Dep.Slug()] = res.Status
	}
	expected := map[string]Status{
		"pdf-tools":    StatusInstalled,
		"csv-kit":      StatusFailed,
		"nice-to-have": StatusAborted,
		"charting":     StatusAborted,
	}
	if !reflect.DeepEqual(statuses, expected) {
		t.Errorf("statuses = %v, want %v", statuses, expected)
	}
}

func TestResolver_Install_OptionalFailureContinues(t *testing.T) {
	cause := skillerrors.New(skillerrors.ErrInstall, "boom")
	reg := &fakeRegistry{fail: map[string]error{"nice-to-have": cause}}
	repo := &fakeRepo{}
	r := newResolver(t, testManifest(), t.TempDir(), reg, repo)

	summary, err := r.Install(context.Background(), installer.Options{})
	if err != nil {
		t.Fatalf("optional failure should not fail the run: %v", err)
	}
	if summary.Failed != 1 || summary.Installed != 3 {
		t.Errorf("summary = %+v", summary)
	}
	if !reflect.DeepEqual(repo.calls, []string{"acme/skills"}) {
		t.Errorf("repo calls = %v, install should continue past optional failure", repo.calls)
	}

	failures := summary.Failures()
	if len(failures) != 1 || failures[0].Dep.Slug() != "nice-to-have" {
		t.Errorf("Failures() = %v", failures)
	}
}

func TestResolver_Install_CanceledContext(t *testing.T) {
	reg := &fakeRegistry{}
	repo := &fakeRepo{}
	r := newResolver(t, testManifest(), t.TempDir(), reg, repo)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	summary, err := r.Install(ctx, installer.Options{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Install() error = %v, want canceled", err)
	}
	if len(reg.calls) != 0 || len(repo.calls) != 0 {
		t.Errorf("no backend should run after cancellation: registry=%v repo=%v", reg.calls, repo.calls)
	}
	if len(summary.Results) != 4 {
		t.Fatalf("Results = %d, want all 4 dependencies recorded", len(summary.Results))
	}
	for _, res := range summary.Results {
		if res.Status != StatusAborted {
			t.Errorf("%s status = %q, want aborted", res.Dep.Slug(), res.Status)
		}
	}
}

// cancelingRegistry cancels the run context from inside its first install.
type cancelingRegistry struct {
	fakeRegistry
	cancel context.CancelFunc
}

func (c *cancelingRegistry) Install(ctx context.Context, dep manifest.ClawHubDependency, opts installer.Options) (*installer.Result, error) {
	c.cancel()
	return c.fakeRegistry.Install(ctx, dep, opts)
}

func TestResolver_Install_CancellationBetweenIterations(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reg := &cancelingRegistry{cancel: cancel}
	repo := &fakeRepo{}
	r := New(testManifest(), workspace.New(t.TempDir()), reg, repo)

	summary, err := r.Install(ctx, installer.Options{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Install() error = %v, want canceled", err)
	}

	// The first dependency completed; cancellation stopped the run before
	// the second was attempted.
	if !reflect.DeepEqual(reg.calls, []string{"pdf-tools"}) {
		t.Errorf("registry calls = %v", reg.calls)
	}
	if len(repo.calls) != 0 {
		t.Errorf("repo calls = %v, want none", repo.calls)
	}

	statuses := map[string]Status{}
	for _, res := range summary.Results {
		statuses[res.Dep.Slug()] = res.Status
	}
	expected := map[string]Status{
		"pdf-tools":    StatusInstalled,
		"csv-kit":      StatusAborted,
		"nice-to-have": StatusAborted,
		"charting":     StatusAborted,
	}
	if !reflect.DeepEqual(statuses, expected) {
		t.Errorf("statuses = %v, want %v", statuses, expected)
	}
}

func TestResolver_Install_Progress(t *testing.T) {
	var events []string
	progress := func(dep Dependency, status Status) {
		events = append(events, dep.Slug()+":"+string(status))
	}

	m := &manifest.Manifest{
		ClawHub: []manifest.ClawHubDependency{{Slug: "pdf-tools", Required: true}},
	}
	r := New(m, workspace.New(t.TempDir()), &fakeRegistry{}, &fakeRepo{}, WithProgress(progress))

	if _, err := r.Install(context.Background(), installer.Options{}); err != nil {
		t.Fatal(err)
	}
	expected := []string{"pdf-tools:", "pdf-tools:installed"}
	if !reflect.DeepEqual(events, expected) {
		t.Errorf("events = %v, want %v", events, expected)
	}
}

func TestDependency_Origin(t *testing.T) {
	clawhub := Dependency{Src: SourceClawHub, ClawHub: &manifest.ClawHubDependency{Slug: "pdf-tools"}}
	if got := clawhub.Origin(); got != "pdf-tools" {
		t.Errorf("Origin() = %q", got)
	}

	github := Dependency{Src: SourceGitHub, GitHub: &manifest.GitHubDependency{Repo: "acme/skills", Path: "/skills/charting/"}}
	if got := github.Origin(); got != "acme/skills/skills/charting" {
		t.Errorf("Origin() = %q", got)
	}
}

func depSlugs(deps []Dependency) []string {
	var slugs []string
	for _, dep := range deps {
		slugs = append(slugs, dep.Slug())
	}
	return slugs
}
