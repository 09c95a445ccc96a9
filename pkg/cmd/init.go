package cmd

import (
	"fmt"
	"os"

	"github.com/agentpkg/pkgsync/pkg/config"
	"github.com/agentpkg/pkgsync/pkg/framework"
	"github.com/agentpkg/pkgsync/pkg/project"
	"github.com/spf13/cobra"
)

func newInitCmd() *cobra.Command {
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a new pkgsync project",
		Long:  "Creates a pkgsync.toml manifest and configures .gitignore entries.",
		Args:  cobra.NoArgs,
		RunE:  runInit,
	}

	initCmd.Flags().String("name", "", "project name (default: directory name)")
	initCmd.Flags().String("framework", "", "target framework, e.g. net45 or net8.0 (prompted when omitted)")
	return initCmd
}

func runInit(cmd *cobra.Command, args []string) error {
	wd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting working directory: %w", err)
	}

	name, err := cmd.Flags().GetString("name")
	if err != nil {
		return err
	}
	if name == "" {
		name = project.InferName(wd)
	}

	fw, err := initFramework(cmd)
	if err != nil {
		return err
	}

	if flagConflict != "" {
		if _, err := project.PolicyResolver(flagConflict, project.ConflictResolverFunc(promptConflict)); err != nil {
			return err
		}
	}

	if err := project.Init(wd, name, fw); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", project.ManifestFile)

	// A conflict policy given at init is remembered for this checkout.
	if flagConflict != "" {
		if err := config.WriteLocalDevConfig(wd, &config.DevConfig{Conflict: flagConflict}); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", config.LocalConfigFile)
	}

	added, err := project.EnsureGitignore(wd, project.IgnoredFiles)
	if err != nil {
		return err
	}
	for _, entry := range added {
		fmt.Fprintf(cmd.OutOrStdout(), "Added %s to .gitignore\n", entry)
	}

	return nil
}

func initFramework(cmd *cobra.Command) (framework.Name, error) {
	if !cmd.Flags().Changed("framework") {
		return promptFramework()
	}
	value, err := cmd.Flags().GetString("framework")
	if err != nil {
		return framework.Any, err
	}
	fw, err := framework.Parse(value)
	if err != nil {
		return framework.Any, fmt.Errorf("invalid --framework: %w", err)
	}
	return fw, nil
}
