package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dbmrq/skilldep/internal/resolver"
	"github.com/dbmrq/skilldep/internal/tui/styles"
)

// listCmd represents the list command.
var listCmd = &cobra.Command{
	Use:   "list [SKILL.md]",
	Short: "List a skill's declared dependencies",
	Long: `List a skill's declared dependencies and whether each is installed.

Reads the skill document given as an argument, or SKILL.md in the
current directory. Registry dependencies are listed first, then
repository dependencies, in declaration order.

Examples:
  skilldep list                  # List dependencies of ./SKILL.md
  skilldep list path/to/SKILL.md # List dependencies of a specific skill`,
	Args: cobra.MaximumNArgs(1),
	RunE: runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
}

// runList handles the list command.
func runList(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	m, path, err := loadManifest(args)
	if err != nil {
		return err
	}

	cmd.Printf("Dependencies of %s:\n\n", styles.SkillNameStyle.Render(skillDisplayName(m, path)))
	if m.Total() == 0 {
		cmd.Println("  (none declared)")
		return nil
	}

	res := s.newResolver(m)
	present, missing := res.Classify()

	// Keyed by the full dependency value: two sources can share a derived
	// slug without borrowing each other's presence.
	installed := make(map[resolver.Dependency]bool, len(present))
	for _, dep := range present {
		installed[dep] = true
	}

	for _, dep := range res.Deps() {
		cmd.Println(renderListLine(dep, installed[dep]))
	}

	cmd.Printf("\n%d declared, %d installed, %d missing\n", m.Total(), len(present), len(missing))
	return nil
}

// renderListLine renders one dependency line for list output.
func renderListLine(dep resolver.Dependency, installed bool) string {
	icon := styles.IconMissing
	if installed {
		icon = styles.IconPresent
	}

	line := fmt.Sprintf("  %s %s", icon, styles.SlugStyle.Render(dep.Slug()))
	if dep.Src == resolver.SourceGitHub {
		line += " " + styles.OriginStyle.Render("("+dep.GitHub.Repo+")")
	} else if dep.ClawHub.Version != "" {
		line += " " + styles.OriginStyle.Render(dep.ClawHub.Version)
	}
	if !dep.Required() {
		line += " " + styles.OptionalStyle.Render("optional")
	}
	if desc := dep.Description(); desc != "" {
		line += "\n      " + styles.DescriptionStyle.Render(desc)
	}
	return line
}
