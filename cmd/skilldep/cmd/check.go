package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dbmrq/skilldep/internal/tui/styles"
)

// checkCmd represents the check command.
var checkCmd = &cobra.Command{
	Use:   "check [SKILL.md]",
	Short: "Check whether a skill's dependencies are satisfied",
	Long: `Check whether a skill's required dependencies are all installed.

Exits with a non-zero status when any required dependency is missing.
Missing optional dependencies are reported but never fail the check, so
this is safe to use as a readiness gate in scripts.

Examples:
  skilldep check                  # Check ./SKILL.md
  skilldep check path/to/SKILL.md # Check a specific skill`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

// runCheck handles the check command.
func runCheck(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	m, path, err := loadManifest(args)
	if err != nil {
		return err
	}

	result := s.newResolver(m).Check()
	name := skillDisplayName(m, path)

	for _, dep := range result.MissingRequired {
		cmd.Printf("%s %s is missing\n", styles.IconFailed, dep.Slug())
	}
	for _, dep := range result.MissingOptional {
		cmd.Printf("%s %s is missing %s\n", styles.IconMissing, dep.Slug(), styles.OptionalStyle.Render("(optional)"))
	}

	if !result.Satisfied() {
		cmd.Println(styles.SummaryFailStyle.Render(
			fmt.Sprintf("%s: %d required dependencies missing", name, len(result.MissingRequired))))
		return fmt.Errorf("%d required dependencies missing", len(result.MissingRequired))
	}

	cmd.Println(styles.SummaryOKStyle.Render(
		fmt.Sprintf("%s: all required dependencies satisfied (%d present)", name, len(result.Present))))
	return nil
}
