// Package palette defines the daily colour table and the date-driven selector
// that picks one entry per calendar day.
package palette

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/sahilm/fuzzy"
)

// Palette errors.
var (
	// ErrInvalidConfiguration is returned when a theme table cannot be used,
	// most notably when it is empty. Callers should treat it as fatal at startup.
	ErrInvalidConfiguration = errors.New("invalid theme configuration")

	// ErrUnknownTheme is returned when a lookup matches no entry.
	ErrUnknownTheme = errors.New("unknown theme")
)

// Entry is one named colour eligible for daily selection.
//
// Hex and RGB describe the same colour; they are stored side by side rather
// than derived from each other. Validate checks that they agree.
type Entry struct {
	// Name is a kebab-case identifier, unique within a table.
	Name string `json:"name" yaml:"name"`

	// Hex is the colour as "#rrggbb".
	Hex string `json:"hex" yaml:"hex"`

	// RGB is the colour as comma-space separated decimal channels, e.g. "29, 167, 224".
	RGB string `json:"rgb" yaml:"rgb"`
}

// Table is an ordered list of entries. Order defines the daily cycle.
type Table []Entry

var defaultTable = Table{
	{Name: "outrageous-orange", Hex: "#ff5833", RGB: "255, 88, 51"},
	{Name: "west-side", Hex: "#ff8c1a", RGB: "255, 140, 26"},
	{Name: "parrot-blue", Hex: "#1da7e0", RGB: "29, 167, 224"},
	{Name: "teal", Hex: "#009485", RGB: "0, 148, 133"},
}

// Default returns a copy of the built-in theme table.
func Default() Table {
	return slices.Clone(defaultTable)
}

// DayOfYear returns the 1-based day of the year for date (January 1st is 1).
//
// Only the calendar day in date's own location is used. The difference is
// taken between UTC midnights so daylight-saving shifts cannot move the result.
func DayOfYear(date time.Time) int {
	year, month, day := date.Date()
	midnight := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	dayZero := time.Date(year, time.January, 0, 0, 0, 0, 0, time.UTC)
	return int(midnight.Sub(dayZero) / (24 * time.Hour))
}

// IndexForDate returns the table index selected for date in a table of n entries.
func IndexForDate(date time.Time, n int) (int, error) {
	if n <= 0 {
		return 0, fmt.Errorf("%w: theme table is empty", ErrInvalidConfiguration)
	}
	return DayOfYear(date) % n, nil
}

// SelectForDate returns the entry for the calendar day of date.
//
// The same calendar day always yields the same entry, and consecutive days
// walk the table in order. An empty table yields ErrInvalidConfiguration.
func SelectForDate(date time.Time, table Table) (Entry, error) {
	idx, err := IndexForDate(date, len(table))
	if err != nil {
		return Entry{}, err
	}
	return table[idx], nil
}

// Names returns the entry names in table order.
func (t Table) Names() []string {
	names := make([]string, len(t))
	for i, entry := range t {
		names[i] = entry.Name
	}
	return names
}

// Index returns the position of the named entry, or -1.
func (t Table) Index(name string) int {
	for i, entry := range t {
		if entry.Name == name {
			return i
		}
	}
	return -1
}

// Lookup finds an entry by exact name, falling back to the best fuzzy match.
func (t Table) Lookup(query string) (Entry, error) {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return Entry{}, fmt.Errorf("%w: empty name", ErrUnknownTheme)
	}
	if idx := t.Index(query); idx >= 0 {
		return t[idx], nil
	}

	matches := fuzzy.Find(query, t.Names())
	if len(matches) == 0 {
		return Entry{}, fmt.Errorf("%w: %s", ErrUnknownTheme, query)
	}
	return t[matches[0].Index], nil
}
