// Package cmd provides the CLI commands for skilldep.
package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/dbmrq/skilldep/internal/config"
	"github.com/dbmrq/skilldep/internal/installer"
	"github.com/dbmrq/skilldep/internal/logging"
	"github.com/dbmrq/skilldep/internal/manifest"
	"github.com/dbmrq/skilldep/internal/resolver"
	"github.com/dbmrq/skilldep/internal/workspace"
)

// Version information - set via ldflags at build time in main.go.
// These are exported so main.go can set them before Execute().
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "skilldep",
	Short: "Skilldep - skill dependency resolver and installer",
	Long: `Skilldep resolves and installs the dependencies a skill declares in
its SKILL.md header.

Dependencies come from two sources: the clawhub registry (installed via
the clawhub CLI) and GitHub repositories (installed via git sparse
checkout). Skilldep reads the declaration, compares it against the
workspace's installed state, and installs whatever is missing.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringP("workspace", "w", "", "Workspace root directory")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output")
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, Date)
	rootCmd.SetVersionTemplate("skilldep {{.Version}}\n")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// Root returns the root command for testing purposes.
func Root() *cobra.Command {
	return rootCmd
}

// session bundles the configuration, workspace, and logger every command
// needs. Close releases the log file.
type session struct {
	cfg *config.Config
	ws  *workspace.Workspace
	log *logging.Logger
}

// newSession resolves configuration and builds the shared command state.
// Workspace root precedence: --workspace flag, then the config file, then
// the environment-derived default.
func newSession(cmd *cobra.Command) (*session, error) {
	workspaceFlag, _ := cmd.Flags().GetString("workspace")
	configFlag, _ := cmd.Flags().GetString("config")
	verbose, _ := cmd.Flags().GetBool("verbose")

	root := workspaceFlag
	if root == "" {
		root = config.DefaultWorkspaceRoot()
	}

	var cfg *config.Config
	var err error
	if configFlag != "" {
		cfg, err = config.Load(configFlag)
	} else {
		cfg, err = config.LoadFromWorkspace(root)
	}
	if err != nil {
		return nil, err
	}

	if workspaceFlag == "" && cfg.Workspace.Root != "" {
		root = cfg.Workspace.Root
	}

	level := logging.ParseLevel(cfg.Logging.Level.String())
	if verbose {
		level = logging.LevelDebug
	}
	logDir := cfg.Logging.Dir
	if logDir != "" && !filepath.IsAbs(logDir) {
		logDir = filepath.Join(root, logDir)
	}

	log, err := logging.New(&logging.Config{
		Level:   level,
		LogDir:  logDir,
		Console: cfg.Logging.Console || verbose,
	})
	if err != nil {
		// Non-fatal: warn but continue without file logging.
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: failed to initialize logging: %v\n", err)
		log = logging.NewNoop()
	}

	log.Debug("session ready", "workspace", root, "version", Version)
	return &session{cfg: cfg, ws: workspace.New(root), log: log}, nil
}

// Close releases session resources.
func (s *session) Close() {
	_ = s.log.Close()
}

// newResolver wires the install backends to a parsed manifest.
func (s *session) newResolver(m *manifest.Manifest, opts ...resolver.Option) *resolver.Resolver {
	registry := installer.NewClawHub(s.cfg.Registry, s.log)
	repo := installer.NewGitHub(s.cfg.Git, s.ws, s.log)
	opts = append(opts, resolver.WithLogger(s.log))
	return resolver.New(m, s.ws, registry, repo, opts...)
}

// loadManifest resolves and parses the skill document named by args, or
// SKILL.md in the current directory when no argument is given.
func loadManifest(args []string) (*manifest.Manifest, string, error) {
	explicit := ""
	if len(args) > 0 {
		explicit = args[0]
	}

	path, err := workspace.FindSkillFile(explicit)
	if err != nil {
		return nil, "", err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read %s: %w", path, err)
	}

	return manifest.Parse(string(data)), path, nil
}

// skillDisplayName returns the name to show for a manifest, falling back to
// the document path when no name is declared.
func skillDisplayName(m *manifest.Manifest, path string) string {
	if m.Name != "" {
		return m.Name
	}
	return path
}
