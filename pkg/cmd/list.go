package cmd

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
	idStyle      = lipgloss.NewStyle().Bold(true)
	versionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List installed packages",
		Args:  cobra.NoArgs,
		RunE:  runList,
	}
}

func runList(cmd *cobra.Command, args []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}

	fw := s.project.TargetFramework().String()
	fmt.Fprintln(cmd.OutOrStdout(), headerStyle.Render(s.project.Name())+" "+dimStyle.Render("("+fw+")"))

	ids := s.manifest.PackageIDs()
	if len(ids) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), dimStyle.Render("No packages installed"))
		return nil
	}

	width := 0
	for _, id := range ids {
		width = max(width, lipgloss.Width(id))
	}

	for _, id := range ids {
		ref := s.manifest.Packages[id]
		line := []string{
			idStyle.Width(width).Render(id),
			versionStyle.Render(ref.Version),
		}
		if ref.Source != "" {
			line = append(line, dimStyle.Render(ref.Source))
		}
		fmt.Fprintln(cmd.OutOrStdout(), "  "+strings.Join(line, "  "))
	}
	return nil
}
