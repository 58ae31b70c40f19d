package cli

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/tOgg1/parrot/internal/logging"
	"github.com/tOgg1/parrot/internal/palette"
	"github.com/tOgg1/parrot/internal/present"
	"github.com/tOgg1/parrot/internal/rotation"
	"github.com/tOgg1/parrot/internal/server"
)

var cssDate string

func init() {
	rootCmd.AddCommand(todayCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(cssCmd)

	cssCmd.Flags().StringVar(&cssDate, "date", "", "date to render (YYYY-MM-DD, default today)")
}

var todayCmd = &cobra.Command{
	Use:   "today",
	Short: "Show today's theme",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		rotator, err := newRotator(logging.Component("cli"))
		if err != nil {
			return err
		}
		cur, err := rotator.Current()
		if err != nil {
			return err
		}
		return printSelection(cmd, cur)
	},
}

var showCmd = &cobra.Command{
	Use:   "show [date|name]",
	Short: "Show the theme for a date, or the next date a theme is active",
	Long: `Show the theme selected for a date given as YYYY-MM-DD.

Given a theme name instead (fuzzy matched, e.g. "blue"), show the next date
on or after today when that theme is active.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rotator, err := newRotator(logging.Component("cli"))
		if err != nil {
			return err
		}
		if len(args) == 0 {
			cur, err := rotator.Current()
			if err != nil {
				return err
			}
			return printSelection(cmd, cur)
		}

		if date, err := time.ParseInLocation(rotation.DateLayout, args[0], rotator.Location()); err == nil {
			cur, err := rotator.Select(date)
			if err != nil {
				return err
			}
			return printSelection(cmd, cur)
		}

		entry, err := appTable.Lookup(args[0])
		if err != nil {
			if errors.Is(err, palette.ErrUnknownTheme) {
				return &PreflightError{
					Message:  fmt.Sprintf("no theme or date matches %q", args[0]),
					Hint:     "Dates use YYYY-MM-DD; known themes: " + joinNames(appTable),
					NextStep: "parrot calendar",
					Err:      err,
				}
			}
			return err
		}
		cur, err := nextOccurrence(rotator, entry)
		if err != nil {
			return err
		}
		return printSelection(cmd, cur)
	},
}

var cssCmd = &cobra.Command{
	Use:   "css",
	Short: "Print the theme stylesheet",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		rotator, err := newRotator(logging.Component("cli"))
		if err != nil {
			return err
		}
		var cur rotation.Current
		if cssDate != "" {
			date, err := parseDate(cssDate)
			if err != nil {
				return err
			}
			cur, err = rotator.Select(date)
			if err != nil {
				return err
			}
		} else if cur, err = rotator.Current(); err != nil {
			return err
		}

		page := present.Render(cur.Entry)
		if IsJSONOutput() {
			return WriteOutput(cmd.OutOrStdout(), page)
		}
		_, err = fmt.Fprint(cmd.OutOrStdout(), page.CSS())
		return err
	},
}

func printSelection(cmd *cobra.Command, cur rotation.Current) error {
	if IsJSONOutput() {
		return WriteOutput(cmd.OutOrStdout(), server.NewThemeView(cur))
	}
	_, err := fmt.Fprintln(cmd.OutOrStdout(), describe(cur))
	return err
}

// nextOccurrence finds the first date from today on which entry is selected.
func nextOccurrence(rotator *rotation.Rotator, entry palette.Entry) (rotation.Current, error) {
	today := rotator.Today()
	y, m, d := today.Date()
	// Any index recurs within a year plus one cycle.
	limit := 366 + len(appTable)
	for i := 0; i < limit; i++ {
		cur, err := rotator.Select(time.Date(y, m, d+i, 12, 0, 0, 0, today.Location()))
		if err != nil {
			return rotation.Current{}, err
		}
		if cur.Entry.Name == entry.Name {
			return cur, nil
		}
	}
	return rotation.Current{}, fmt.Errorf("%w: %s is never selected", palette.ErrUnknownTheme, entry.Name)
}

func joinNames(table palette.Table) string {
	return strings.Join(table.Names(), ", ")
}
