package cmd

import (
	"github.com/spf13/cobra"

	"github.com/abhisek/glucoguard/internal/app"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Open the interactive risk form (default)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

// runApp loads the bundle and launches the TUI.
func runApp(cmd *cobra.Command) error {
	scorer, err := loadScorer()
	if err != nil {
		return err
	}
	return app.Run(app.Options{Scorer: scorer})
}
