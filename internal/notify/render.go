package notify

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Render draws n as a padded colored box for terminal output.
func Render(n Notification) string {
	style := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#ffffff")).
		Background(lipgloss.Color(n.Kind.Background())).
		Bold(true).
		Padding(0, 2)
	return style.Render(n.Message)
}

// RenderStack draws notifications one per line.
func RenderStack(items []Notification) string {
	lines := make([]string, 0, len(items))
	for _, n := range items {
		lines = append(lines, Render(n))
	}
	return strings.Join(lines, "\n")
}
