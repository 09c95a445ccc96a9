package cmd

import (
	"fmt"
	"strings"

	"github.com/agentpkg/pkgsync/pkg/source"
	"github.com/agentpkg/pkgsync/pkg/transform"
	"github.com/spf13/cobra"
)

func newInstallCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "install [path]",
		Short: "Install a package into the project",
		Long: fmt.Sprintf(`Copies the content of the package at path into the project and records it
in pkgsync.toml. Files ending in %s are transformed instead of copied.

Without a path, the content of every package in pkgsync.toml is restored
from the package store.`, strings.Join(transform.RegisteredExtensions(), ", ")),
		Args: cobra.MaximumNArgs(1),
		RunE: runInstall,
	}
}

func runInstall(cmd *cobra.Command, args []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}

	if len(args) == 0 {
		if err := s.installer.Restore(cmd.Context()); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Restored %d package(s)\n", len(s.manifest.Packages))
		return nil
	}

	src, err := source.ParseRef(args[0])
	if err != nil {
		return err
	}

	pkg, err := s.installer.Install(cmd.Context(), src)
	if err != nil {
		return err
	}

	if err := s.save(); err != nil {
		return err
	}

	stats := s.project.Stats()
	fmt.Fprintf(cmd.OutOrStdout(), "Installed %s %s (%d file(s) added)\n", pkg.ID(), pkg.Version, stats.Added)
	return nil
}
