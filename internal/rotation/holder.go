// Package rotation keeps the current daily theme and advances it at local
// midnight.
package rotation

import (
	"sync/atomic"

	"github.com/tOgg1/parrot/internal/palette"
)

// DateLayout formats the calendar date a theme was selected for.
const DateLayout = "2006-01-02"

// Current is the theme selected for one calendar date.
type Current struct {
	Date      string        `json:"date"`
	DayOfYear int           `json:"day_of_year"`
	Index     int           `json:"index"`
	Entry     palette.Entry `json:"theme"`
}

// Holder publishes the current theme to concurrent readers.
// The zero value holds nothing.
type Holder struct {
	current atomic.Pointer[Current]
}

// Load returns the current theme, or false before the first Store.
func (h *Holder) Load() (Current, bool) {
	c := h.current.Load()
	if c == nil {
		return Current{}, false
	}
	return *c, true
}

// Store replaces the current theme and returns the previous one.
func (h *Holder) Store(c Current) (Current, bool) {
	prev := h.current.Swap(&c)
	if prev == nil {
		return Current{}, false
	}
	return *prev, true
}
