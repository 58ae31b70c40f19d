package cli

import (
	"github.com/spf13/cobra"

	"github.com/tOgg1/parrot/internal/logging"
	"github.com/tOgg1/parrot/internal/tui"
)

func init() {
	rootCmd.AddCommand(uiCmd)
}

var uiCmd = &cobra.Command{
	Use:   "ui",
	Short: "Browse the theme calendar interactively",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !hasTTY() {
			return &PreflightError{
				Message:  "the theme browser requires an interactive terminal",
				Hint:     "Run it from a TTY, or use the calendar command instead",
				NextStep: "parrot calendar --days 14",
			}
		}

		rotator, err := newRotator(logging.Component("tui"))
		if err != nil {
			return err
		}
		return tui.Run(rotator)
	},
}
