package palette

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

var (
	namePattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)
	hexPattern  = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)
)

// Color parses the entry's hex value.
func (e Entry) Color() (colorful.Color, error) {
	if !hexPattern.MatchString(e.Hex) {
		return colorful.Color{}, fmt.Errorf("hex %q must look like #rrggbb", e.Hex)
	}
	return colorful.Hex(e.Hex)
}

// Channels parses the entry's RGB triple.
func (e Entry) Channels() (r, g, b uint8, err error) {
	parts := strings.Split(e.RGB, ",")
	if len(parts) != 3 {
		return 0, 0, 0, fmt.Errorf("rgb %q must have three channels", e.RGB)
	}

	var out [3]uint8
	for i, part := range parts {
		v, err := strconv.ParseUint(strings.TrimSpace(part), 10, 8)
		if err != nil {
			return 0, 0, 0, fmt.Errorf("rgb %q channel %d: %w", e.RGB, i, err)
		}
		out[i] = uint8(v)
	}
	return out[0], out[1], out[2], nil
}

// TextColor returns a readable foreground ("#ffffff" or "#1a1a1a") for text
// drawn on top of the entry colour. Invalid entries get white.
func (e Entry) TextColor() string {
	c, err := e.Color()
	if err != nil {
		return "#ffffff"
	}
	l, _, _ := c.Lab()
	if l > 0.65 {
		return "#1a1a1a"
	}
	return "#ffffff"
}

// Validate checks a table for use by the selector.
//
// The table must be non-empty, names must be unique kebab-case, and each
// entry's hex and rgb forms must describe the same colour. Every failure wraps
// ErrInvalidConfiguration.
func Validate(t Table) error {
	if len(t) == 0 {
		return fmt.Errorf("%w: theme table is empty", ErrInvalidConfiguration)
	}

	seen := make(map[string]int, len(t))
	for i, entry := range t {
		if !namePattern.MatchString(entry.Name) {
			return fmt.Errorf("%w: themes[%d].name %q must be kebab-case", ErrInvalidConfiguration, i, entry.Name)
		}
		if prev, ok := seen[entry.Name]; ok {
			return fmt.Errorf("%w: themes[%d].name %q duplicates themes[%d]", ErrInvalidConfiguration, i, entry.Name, prev)
		}
		seen[entry.Name] = i

		c, err := entry.Color()
		if err != nil {
			return fmt.Errorf("%w: themes[%d]: %v", ErrInvalidConfiguration, i, err)
		}
		r, g, b, err := entry.Channels()
		if err != nil {
			return fmt.Errorf("%w: themes[%d]: %v", ErrInvalidConfiguration, i, err)
		}
		hr, hg, hb := c.RGB255()
		if hr != r || hg != g || hb != b {
			return fmt.Errorf("%w: themes[%d] %s: hex %s is %d, %d, %d but rgb is %q",
				ErrInvalidConfiguration, i, entry.Name, entry.Hex, hr, hg, hb, entry.RGB)
		}
	}
	return nil
}
