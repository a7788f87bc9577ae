package cmd

import (
	"github.com/spf13/cobra"

	"github.com/conan-io/conan-panel/internal/panel"
)

func runPanel(cmd *cobra.Command, args []string) error {
	a := current
	arg := ""
	if len(args) > 0 {
		arg = args[0]
	}

	// Fail on a bad project path before taking over the screen.
	p, err := a.locator(arg).Active()
	if err != nil {
		return err
	}
	a.log.Info().Str("project", p.FullPath).Bool("enabled", a.enabled).Msg("panel started")

	return panel.Run(cmd.Context(), panel.Options{
		Store:      a.store,
		Controller: a.controller(arg),
		Log:        a.log,
	})
}
