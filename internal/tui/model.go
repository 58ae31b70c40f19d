// Package tui implements the interactive theme calendar browser.
package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tOgg1/parrot/internal/notify"
	"github.com/tOgg1/parrot/internal/present"
	"github.com/tOgg1/parrot/internal/rotation"
)

const tickInterval = 250 * time.Millisecond

type tickMsg time.Time

func tickCmd() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

var (
	titleStyle = lipgloss.NewStyle().Bold(true).MarginBottom(1)
	helpStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#6b7280")).MarginTop(1)
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#9ca3af")).Width(24)
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#ef4444"))
)

// Model is the calendar browser state.
type Model struct {
	rotator *rotation.Rotator
	now     func() time.Time

	cursor  time.Time
	toasts  *notify.Center
	visible []notify.Notification
}

// New creates a browser positioned on today.
func New(rotator *rotation.Rotator) Model {
	return newModel(rotator, time.Now)
}

func newModel(rotator *rotation.Rotator, now func() time.Time) Model {
	return Model{
		rotator: rotator,
		now:     now,
		cursor:  rotator.Today(),
		toasts:  notify.NewCenter(),
	}
}

// Run starts the browser on the alternate screen.
func Run(rotator *rotation.Rotator) error {
	_, err := tea.NewProgram(New(rotator), tea.WithAltScreen()).Run()
	return err
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tickCmd()
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		m.visible = m.toasts.Active(m.now())
		return m, tickCmd()
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "left", "h":
			m.cursor = m.cursor.AddDate(0, 0, -1)
		case "right", "l":
			m.cursor = m.cursor.AddDate(0, 0, 1)
		case "up", "k":
			m.cursor = m.cursor.AddDate(0, 0, -7)
		case "down", "j":
			m.cursor = m.cursor.AddDate(0, 0, 7)
		case "t":
			m.cursor = m.rotator.Today()
			if cur, err := m.rotator.Select(m.cursor); err == nil {
				m.toasts.Push(notify.New(notify.KindInfo, "Today's theme is "+cur.Entry.Name, m.now()))
			}
		case "x":
			for _, n := range m.visible {
				m.toasts.Dismiss(n.ID)
			}
		}
		m.visible = m.toasts.Active(m.now())
		return m, nil
	}
	return m, nil
}

// Cursor returns the selected date.
func (m Model) Cursor() time.Time {
	return m.cursor
}

// View implements tea.Model.
func (m Model) View() string {
	cur, err := m.rotator.Select(m.cursor)
	if err != nil {
		return errorStyle.Render(err.Error()) + "\n"
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Parrot daily themes"))
	b.WriteString("\n")

	hero := lipgloss.NewStyle().
		Background(lipgloss.Color(cur.Entry.Hex)).
		Foreground(lipgloss.Color(cur.Entry.TextColor())).
		Bold(true).
		Padding(1, 4).
		Render(fmt.Sprintf("%s\n%s", cur.Entry.Name, cur.Date))
	b.WriteString(hero)
	b.WriteString("\n\n")

	b.WriteString(m.week())
	b.WriteString("\n\n")

	for _, prop := range present.Properties(cur.Entry) {
		b.WriteString(labelStyle.Render(prop.Name))
		b.WriteString(prop.Value)
		b.WriteString("\n")
	}
	b.WriteString(labelStyle.Render("logo"))
	b.WriteString(present.LogoPath(cur.Entry.Name))
	b.WriteString("\n")

	if len(m.visible) > 0 {
		b.WriteString("\n")
		b.WriteString(notify.RenderStack(m.visible))
		b.WriteString("\n")
	}

	b.WriteString(helpStyle.Render("←/→ day  ↑/↓ week  t today  x dismiss  q quit"))
	return b.String()
}

// week renders the seven days starting on the Monday of the cursor's week.
func (m Model) week() string {
	offset := (int(m.cursor.Weekday()) + 6) % 7
	start := m.cursor.AddDate(0, 0, -offset)

	cells := make([]string, 0, 7)
	for i := 0; i < 7; i++ {
		day := start.AddDate(0, 0, i)
		cur, err := m.rotator.Select(day)
		if err != nil {
			continue
		}
		style := lipgloss.NewStyle().
			Background(lipgloss.Color(cur.Entry.Hex)).
			Foreground(lipgloss.Color(cur.Entry.TextColor())).
			Padding(0, 1)
		label := day.Format("Mon 02")
		if day.Equal(m.cursor) {
			style = style.Bold(true).Underline(true)
			label = "[" + label + "]"
		}
		cells = append(cells, style.Render(label))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cells...)
}
