package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/dbmrq/skilldep/internal/config"
	"github.com/dbmrq/skilldep/internal/workspace"
)

// initCmd represents the init command.
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a skilldep workspace",
	Long: `Initialize a skilldep workspace.

This command creates the workspace layout and a default configuration:
  - skills/                   Installed skills
  - .skilldep/config.yaml     Default configuration

Use --force to overwrite an existing configuration.

Examples:
  skilldep init                        # Initialize the default workspace
  skilldep init -w ~/projects/skills   # Initialize a specific workspace
  skilldep init --force                # Overwrite existing configuration`,
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().BoolP("force", "f", false, "Overwrite existing configuration")
}

// runInit handles the init command.
func runInit(cmd *cobra.Command, args []string) error {
	force, _ := cmd.Flags().GetBool("force")

	root, _ := cmd.Flags().GetString("workspace")
	if root == "" {
		root = config.DefaultWorkspaceRoot()
	}

	configPath := filepath.Join(root, config.DefaultConfigPath)
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", configPath)
	}

	if err := os.MkdirAll(workspace.New(root).SkillsDir(), 0755); err != nil {
		return fmt.Errorf("failed to create skills directory: %w", err)
	}
	if err := config.Save(config.NewConfig(), configPath); err != nil {
		return err
	}

	cmd.Printf("Initialized workspace at %s\n", root)
	cmd.Printf("Created %s\n", configPath)
	cmd.Println("")
	cmd.Println("Edit the config to change registry or git settings.")
	cmd.Println("Run 'skilldep install' from a skill directory to install its dependencies.")
	return nil
}
