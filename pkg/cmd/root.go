package cmd

import (
	"os"

	"github.com/agentpkg/pkgsync/pkg/config"
	"github.com/agentpkg/pkgsync/pkg/logging"
	"github.com/spf13/cobra"
)

var (
	flagConflict  string
	flagStore     string
	flagVerbosity int

	// DevCfg holds the resolved developer configuration, available to all
	// subcommands after PersistentPreRunE completes.
	DevCfg *config.DevConfig

	setupLogger = logging.SetupLogger
)

func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "pkgsync",
		Short: "Package content synchronizer",
		Long:  "pkgsync copies the content of packages into a project, transforming configuration files on the way, and removes it again without touching files you changed.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			setupLogger(flagVerbosity)

			wd, err := os.Getwd()
			if err != nil {
				return err
			}
			cfg, err := config.LoadDevConfig(wd, config.Overrides{
				Conflict: flagConflict,
				Store:    flagStore,
			})
			if err != nil {
				return err
			}
			DevCfg = cfg
			return nil
		},
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&flagConflict, "conflict", "", "what to do with existing files: prompt, overwrite, ignore, overwrite-all or ignore-all")
	root.PersistentFlags().StringVar(&flagStore, "store", "", "package store directory (default ~/.pkgsync)")
	root.PersistentFlags().CountVarP(&flagVerbosity, "verbose", "v", "increase log verbosity (-v, -vv, -vvv)")

	root.AddCommand(newInitCmd())
	root.AddCommand(newInstallCmd())
	root.AddCommand(newRemoveCmd())
	root.AddCommand(newListCmd())

	return root
}

func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
