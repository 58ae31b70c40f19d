package cli

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/tOgg1/parrot/internal/palette"
	"github.com/tOgg1/parrot/internal/rotation"
)

func hasTTY() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}

// swatch renders a short colored block labelled with the theme name.
func swatch(entry palette.Entry) string {
	return lipgloss.NewStyle().
		Background(lipgloss.Color(entry.Hex)).
		Foreground(lipgloss.Color(entry.TextColor())).
		Padding(0, 1).
		Render(entry.Name)
}

var dimStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6b7280"))

// describe is the one-line human summary of a selection.
func describe(cur rotation.Current) string {
	return fmt.Sprintf("%s  %s  rgb(%s)  %s",
		swatch(cur.Entry),
		cur.Entry.Hex,
		cur.Entry.RGB,
		dimStyle.Render(fmt.Sprintf("%s (day %d, index %d)", cur.Date, cur.DayOfYear, cur.Index)),
	)
}
