package main

import (
	"github.com/spf13/cobra"

	"github.com/Jamolkhon5/hackwoo/internal/tui"
)

var wizardCmd = &cobra.Command{
	Use:   "wizard",
	Short: "Step through the form in the terminal UI",
	Args:  cobra.NoArgs,
	RunE:  runWizard,
}

func runWizard(cmd *cobra.Command, _ []string) error {
	gen, err := newGenerator()
	if err != nil {
		return err
	}
	saved, closeDB, err := openSaved(cmd.Context())
	if err != nil {
		return err
	}
	defer closeDB()

	return tui.Run(cmd.Context(), gen, saved, logger)
}
