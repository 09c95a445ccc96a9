package cmd

import (
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

func newRemoveCmd() *cobra.Command {
	removeCmd := &cobra.Command{
		Use:   "remove [id...]",
		Short: "Remove installed packages",
		Long: `Removes the content of packages from the project and drops them from
pkgsync.toml. Files you modified since they were installed are kept.

Without ids, installed packages are offered for selection.`,
		RunE: runRemove,
	}

	removeCmd.Flags().Bool("all", false, "Remove all packages without prompting")
	return removeCmd
}

func runRemove(cmd *cobra.Command, args []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}

	installed := s.manifest.PackageIDs()
	if len(installed) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "Nothing to remove")
		return nil
	}

	all, err := cmd.Flags().GetBool("all")
	if err != nil {
		return err
	}

	ids := args
	switch {
	case all:
		ids = installed
	case len(ids) == 0:
		ids, err = promptPackages(installed)
		if err != nil {
			return err
		}
		if len(ids) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "Nothing selected")
			return nil
		}
	}

	for _, id := range ids {
		if err := s.installer.Remove(cmd.Context(), id); err != nil {
			return err
		}
		// Save after each package so a later failure leaves an accurate manifest.
		if err := s.save(); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", id)
	}

	return nil
}

func promptPackages(ids []string) ([]string, error) {
	options := make([]huh.Option[string], len(ids))
	for i, id := range ids {
		options[i] = huh.NewOption(id, id)
	}

	var selected []string
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewMultiSelect[string]().
				Title("Select packages to remove").
				Options(options...).
				Value(&selected),
		),
	).Run()
	if err != nil {
		return nil, fmt.Errorf("selection prompt failed: %w", err)
	}
	return selected, nil
}
