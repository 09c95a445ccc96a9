package cmd

import (
	"fmt"

	"github.com/agentpkg/pkgsync/pkg/filesync"
	"github.com/agentpkg/pkgsync/pkg/framework"
	"github.com/charmbracelet/huh"
	"github.com/rs/zerolog/log"
)

// promptConflict asks whether an existing project file may be replaced. A
// failed prompt keeps the file.
func promptConflict(message string) filesync.Resolution {
	choice := filesync.Ignore
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[filesync.Resolution]().
				Title(message).
				Options(
					huh.NewOption("Overwrite", filesync.Overwrite),
					huh.NewOption("Keep existing", filesync.Ignore),
					huh.NewOption("Overwrite all", filesync.OverwriteAll),
					huh.NewOption("Keep all existing", filesync.IgnoreAll),
				).
				Value(&choice),
		),
	).Run()
	if err != nil {
		log.Warn().Err(err).Msg("Conflict prompt failed, keeping existing file")
		return filesync.Ignore
	}
	return choice
}

// promptFramework asks for the project's target framework.
func promptFramework() (framework.Name, error) {
	var answer string
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Target framework (e.g. net45, net8.0, netstandard2.0)").
				Description("Leave empty for a project without a framework.").
				Value(&answer).
				Validate(func(s string) error {
					_, err := framework.Parse(s)
					return err
				}),
		),
	).Run()
	if err != nil {
		return framework.Any, fmt.Errorf("prompt failed: %w", err)
	}
	return framework.Parse(answer)
}
