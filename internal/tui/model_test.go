package tui

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tOgg1/parrot/internal/palette"
	"github.com/tOgg1/parrot/internal/rotation"
)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time                         { return c.now }
func (c fixedClock) After(d time.Duration) <-chan time.Time { return make(chan time.Time) }

func newTestModel(t *testing.T, now time.Time) Model {
	t.Helper()
	r, err := rotation.NewRotator(palette.Default(), nil,
		rotation.WithClock(fixedClock{now: now}),
		rotation.WithLocation(time.UTC),
		rotation.WithLogger(zerolog.Nop()),
	)
	require.NoError(t, err)
	return newModel(r, func() time.Time { return now })
}

func press(m Model, key string) Model {
	var msg tea.KeyMsg
	switch key {
	case "left":
		msg = tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		msg = tea.KeyMsg{Type: tea.KeyRight}
	case "up":
		msg = tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		msg = tea.KeyMsg{Type: tea.KeyDown}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
	next, _ := m.Update(msg)
	return next.(Model)
}

func TestNavigation(t *testing.T) {
	m := newTestModel(t, time.Date(2025, time.January, 1, 10, 0, 0, 0, time.UTC))
	assert.Equal(t, "2025-01-01", m.Cursor().Format(rotation.DateLayout))

	m = press(m, "right")
	assert.Equal(t, "2025-01-02", m.Cursor().Format(rotation.DateLayout))

	m = press(m, "down")
	assert.Equal(t, "2025-01-09", m.Cursor().Format(rotation.DateLayout))

	m = press(m, "k")
	m = press(m, "h")
	m = press(m, "left")
	assert.Equal(t, "2024-12-31", m.Cursor().Format(rotation.DateLayout))

	m = press(m, "t")
	assert.Equal(t, "2025-01-01", m.Cursor().Format(rotation.DateLayout))
}

func TestViewShowsSelectedTheme(t *testing.T) {
	m := newTestModel(t, time.Date(2025, time.January, 3, 10, 0, 0, 0, time.UTC))

	view := m.View()
	assert.Contains(t, view, "teal")
	assert.Contains(t, view, "2025-01-03")
	assert.Contains(t, view, "--daily-color")
	assert.Contains(t, view, "#009485")
	assert.Contains(t, view, "./logo-teal.svg")
	assert.Contains(t, view, "[Fri 03]")
}

func TestTodayShowsNotificationAfterSlideIn(t *testing.T) {
	now := time.Date(2025, time.January, 1, 10, 0, 0, 0, time.UTC)
	m := newTestModel(t, now)
	m = press(m, "t")
	assert.NotContains(t, m.View(), "Today's theme is west-side")

	m.now = func() time.Time { return now.Add(time.Second) }
	next, cmd := m.Update(tickMsg(now.Add(time.Second)))
	m = next.(Model)
	assert.NotNil(t, cmd)
	assert.Contains(t, m.View(), "Today's theme is west-side")

	m.now = func() time.Time { return now.Add(10 * time.Second) }
	next, _ = m.Update(tickMsg(now.Add(10 * time.Second)))
	m = next.(Model)
	assert.NotContains(t, m.View(), "Today's theme is west-side")
}

func TestDismissHidesVisibleNotifications(t *testing.T) {
	now := time.Date(2025, time.January, 1, 10, 0, 0, 0, time.UTC)
	m := newTestModel(t, now)
	m = press(m, "t")

	m.now = func() time.Time { return now.Add(time.Second) }
	next, _ := m.Update(tickMsg(now.Add(time.Second)))
	m = next.(Model)
	require.Contains(t, m.View(), "Today's theme is west-side")

	m = press(m, "x")
	assert.NotContains(t, m.View(), "Today's theme is west-side")
	assert.Empty(t, m.toasts.Active(now.Add(2*time.Second)))
}

func TestQuit(t *testing.T) {
	m := newTestModel(t, time.Date(2025, time.January, 1, 10, 0, 0, 0, time.UTC))
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}
