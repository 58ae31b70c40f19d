package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/tOgg1/parrot/internal/logging"
	"github.com/tOgg1/parrot/internal/server"
)

var (
	calendarFrom string
	calendarDays int
)

func init() {
	rootCmd.AddCommand(calendarCmd)

	calendarCmd.Flags().StringVar(&calendarFrom, "from", "", "first date (YYYY-MM-DD, default today)")
	calendarCmd.Flags().IntVar(&calendarDays, "days", 7, "number of days to show (1-366)")
}

var calendarCmd = &cobra.Command{
	Use:   "calendar",
	Short: "List the theme for a run of consecutive days",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if calendarDays < 1 || calendarDays > 366 {
			return &PreflightError{
				Message: fmt.Sprintf("--days must be between 1 and 366, got %d", calendarDays),
			}
		}

		rotator, err := newRotator(logging.Component("cli"))
		if err != nil {
			return err
		}
		from := rotator.Today()
		if calendarFrom != "" {
			if from, err = parseDate(calendarFrom); err != nil {
				return err
			}
		}

		days, err := server.Calendar(rotator, from, calendarDays)
		if err != nil {
			return err
		}

		if IsJSONOutput() {
			return WriteOutput(cmd.OutOrStdout(), days)
		}

		rows := make([][]string, 0, len(days))
		for _, day := range days {
			rows = append(rows, []string{
				day.Date,
				strconv.Itoa(day.DayOfYear),
				swatch(day.Entry),
				day.Entry.Hex,
			})
		}
		return writeTable(cmd.OutOrStdout(), []string{"DATE", "DAY", "THEME", "HEX"}, rows)
	},
}
