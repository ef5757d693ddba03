package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/dbmrq/skilldep/internal/config"
	"github.com/dbmrq/skilldep/internal/installer"
	"github.com/dbmrq/skilldep/internal/manifest"
	"github.com/dbmrq/skilldep/internal/resolver"
	"github.com/dbmrq/skilldep/internal/tui"
	"github.com/dbmrq/skilldep/internal/tui/styles"
)

// installCmd represents the install command.
var installCmd = &cobra.Command{
	Use:   "install [SKILL.md]",
	Short: "Install a skill's missing dependencies",
	Long: `Install every missing dependency a skill declares.

Registry dependencies are installed through the clawhub CLI, repository
dependencies through a git sparse checkout. Already-present dependencies
are skipped unless --force is given.

A failed required dependency aborts the run immediately. A failed
optional dependency is reported and the run continues.

Examples:
  skilldep install                  # Install dependencies of ./SKILL.md
  skilldep install --dry-run        # Show what would be installed
  skilldep install --force          # Reinstall everything
  skilldep install --plain          # One line per dependency, no live view`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInstall,
}

func init() {
	rootCmd.AddCommand(installCmd)

	installCmd.Flags().BoolP("dry-run", "n", false, "Show planned actions without running them")
	installCmd.Flags().BoolP("force", "f", false, "Reinstall dependencies even when already present")
	installCmd.Flags().Bool("plain", false, "Print one line per dependency instead of the live view")
	installCmd.Flags().Bool("interactive", false, "Force the live progress view")
}

// runInstall handles the install command.
func runInstall(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	m, path, err := loadManifest(args)
	if err != nil {
		return err
	}

	dryRun, _ := cmd.Flags().GetBool("dry-run")
	force, _ := cmd.Flags().GetBool("force")
	opts := installer.Options{Force: force || s.cfg.Install.Force}
	name := skillDisplayName(m, path)

	if m.Total() == 0 {
		cmd.Printf("%s declares no dependencies\n", name)
		return nil
	}

	if dryRun {
		return runDryRun(cmd, s, m, name, opts)
	}

	if !opts.Force {
		if _, missing := s.newResolver(m).Classify(); len(missing) == 0 {
			cmd.Printf("%s: all dependencies already satisfied\n", name)
			return nil
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if interactiveOutput(cmd, s.cfg) {
		return runInteractive(ctx, s, m, name, opts)
	}
	return runPlain(ctx, cmd, s, m, name, opts)
}

// interactiveOutput decides whether to render the live progress view.
// Flags win over config; auto mode requires stdout to be a terminal.
func interactiveOutput(cmd *cobra.Command, cfg *config.Config) bool {
	if plain, _ := cmd.Flags().GetBool("plain"); plain {
		return false
	}
	if interactive, _ := cmd.Flags().GetBool("interactive"); interactive {
		return true
	}

	switch cfg.Install.Output {
	case config.OutputPlain:
		return false
	case config.OutputInteractive:
		return true
	default:
		return isatty.IsTerminal(os.Stdout.Fd())
	}
}

// runDryRun prints the planned actions without executing anything.
func runDryRun(cmd *cobra.Command, s *session, m *manifest.Manifest, name string, opts installer.Options) error {
	actions := s.newResolver(m).Plan(opts)
	if len(actions) == 0 {
		cmd.Printf("%s: nothing to install\n", name)
		return nil
	}

	cmd.Printf("Would install %d dependencies for %s:\n\n", len(actions), styles.SkillNameStyle.Render(name))
	for _, action := range actions {
		cmd.Printf("  %s %s\n", styles.IconMissing, styles.SlugStyle.Render(action.Dep.Slug()))
		cmd.Printf("      %s\n", styles.OriginStyle.Render(action.Command))
	}
	return nil
}

// runPlain installs with one printed line per dependency.
func runPlain(ctx context.Context, cmd *cobra.Command, s *session, m *manifest.Manifest, name string, opts installer.Options) error {
	progress := func(dep resolver.Dependency, status resolver.Status) {
		switch status {
		case "":
			cmd.Printf("  installing %s...\n", dep.Slug())
		case resolver.StatusPresent:
			cmd.Printf("%s %s already present\n", styles.IconPresent, dep.Slug())
		case resolver.StatusInstalled:
			cmd.Printf("%s %s installed\n", styles.IconInstalled, dep.Slug())
		case resolver.StatusFailed:
			cmd.Printf("%s %s failed\n", styles.IconFailed, dep.Slug())
		case resolver.StatusAborted:
			cmd.Printf("%s %s skipped (aborted)\n", styles.IconAborted, dep.Slug())
		}
	}

	cmd.Printf("Installing dependencies for %s\n", styles.SkillNameStyle.Render(name))
	summary, err := s.newResolver(m, resolver.WithProgress(progress)).Install(ctx, opts)
	printSummary(cmd, summary, err)
	return err
}

// runInteractive installs behind the live Bubble Tea progress view.
func runInteractive(ctx context.Context, s *session, m *manifest.Manifest, name string, opts installer.Options) error {
	deps := s.newResolver(m).Deps()
	build := func(progress resolver.ProgressFunc) *resolver.Resolver {
		return s.newResolver(m, resolver.WithProgress(progress))
	}
	return runWithProgram(ctx, build, tui.NewInstall(name, deps), opts, os.Stderr)
}

// runWithProgram drives an install run behind a Bubble Tea program. When the
// view exits before the run finishes (user quit or program error), the run
// context is canceled and the install goroutine is waited for, so the
// in-flight backend can kill its child process and remove its scratch
// directory before the command returns.
func runWithProgram(ctx context.Context, build func(resolver.ProgressFunc) *resolver.Resolver, model tui.InstallModel, opts installer.Options, errOut io.Writer, teaOpts ...tea.ProgramOption) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(model, teaOpts...)
	res := build(func(dep resolver.Dependency, status resolver.Status) {
		p.Send(tui.ProgressMsg{Slug: dep.Slug(), Status: status})
	})

	done := make(chan struct{})
	var summary *resolver.Summary
	var installErr error
	go func() {
		defer close(done)
		summary, installErr = res.Install(ctx, opts)
		p.Send(tui.DoneMsg{Err: installErr})
	}()

	final, err := p.Run()
	if err != nil {
		cancel()
		<-done
		return fmt.Errorf("failed to run progress view: %w", err)
	}
	if m, ok := final.(tui.InstallModel); ok && m.Interrupted() {
		cancel()
		<-done
		return context.Canceled
	}

	<-done
	if installErr != nil {
		printFailureDetails(errOut, summary)
	}
	return installErr
}

// printSummary prints the closing summary line and any failure details.
func printSummary(cmd *cobra.Command, summary *resolver.Summary, err error) {
	if summary == nil {
		return
	}

	text := fmt.Sprintf("%d installed, %d already present, %d failed",
		summary.Installed, summary.Present, summary.Failed)
	switch {
	case err != nil:
		cmd.Println(styles.SummaryFailStyle.Render(text))
	case summary.Failed > 0:
		cmd.Println(styles.SummaryWarnStyle.Render(text))
	default:
		cmd.Println(styles.SummaryOKStyle.Render(text))
	}

	for _, failure := range summary.Failures() {
		cmd.Printf("\n%s\n", styles.ErrorStyle.Render(fmt.Sprintf("%s: %v", failure.Dep.Slug(), failure.Err)))
	}
}

// printFailureDetails writes failure details after the live view closes.
func printFailureDetails(w io.Writer, summary *resolver.Summary) {
	if summary == nil {
		return
	}
	for _, failure := range summary.Failures() {
		fmt.Fprintf(w, "%s\n", styles.ErrorStyle.Render(fmt.Sprintf("%s: %v", failure.Dep.Slug(), failure.Err)))
	}
}
