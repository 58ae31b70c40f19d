// Package present projects a selected palette entry onto presentation state:
// CSS custom properties, gradients, logo images and the favicon link.
package present

import (
	"fmt"
	"strconv"

	"github.com/tOgg1/parrot/internal/palette"
)

// CSS custom property names written by Apply.
const (
	VarColor             = "--daily-color"
	VarColorLight        = "--daily-color-light"
	VarColorLighter      = "--daily-color-lighter"
	VarColorDark         = "--daily-color-dark"
	VarGradientPrimary   = "--gradient-primary"
	VarGradientSecondary = "--gradient-secondary"
	VarGradientLight     = "--gradient-light"
)

// Opacity variants derived from the entry's RGB triple.
const (
	AlphaLighter = 0.05
	AlphaLight   = 0.1
	AlphaDark    = 0.8
)

// Property is a single style variable assignment.
type Property struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Sink accepts style variables.
type Sink interface {
	SetProperty(name, value string)
}

// LogoTarget is an image element showing the brand logo.
type LogoTarget interface {
	SetLogo(src, alt string)
}

// FaviconUpdater keeps exactly one icon link and points it at href.
type FaviconUpdater interface {
	EnsureFavicon(href string)
}

// Targets groups everything Apply writes to. Nil members are skipped.
type Targets struct {
	Styles  Sink
	Logos   []LogoTarget
	Favicon FaviconUpdater
}

// LogoPath returns the logo asset path for a theme name.
func LogoPath(name string) string {
	return "./logo-" + name + ".svg"
}

// LogoAlt returns the alt text for a theme's logo.
func LogoAlt(name string) string {
	return "Parrot Logo - " + name
}

// RGBA formats the entry colour at the given opacity, e.g. "rgba(0, 148, 133, 0.1)".
func RGBA(entry palette.Entry, alpha float64) string {
	return fmt.Sprintf("rgba(%s, %s)", entry.RGB, strconv.FormatFloat(alpha, 'f', -1, 64))
}

// Properties returns the style variables for entry in application order.
func Properties(entry palette.Entry) []Property {
	light := RGBA(entry, AlphaLight)
	lighter := RGBA(entry, AlphaLighter)
	dark := RGBA(entry, AlphaDark)

	return []Property{
		{Name: VarColor, Value: entry.Hex},
		{Name: VarColorLight, Value: light},
		{Name: VarColorLighter, Value: lighter},
		{Name: VarColorDark, Value: dark},
		{Name: VarGradientPrimary, Value: fmt.Sprintf("linear-gradient(135deg, %s, %s)", entry.Hex, dark)},
		{Name: VarGradientSecondary, Value: fmt.Sprintf("linear-gradient(135deg, %s, %s)", light, entry.Hex)},
		{Name: VarGradientLight, Value: fmt.Sprintf("linear-gradient(135deg, %s, %s)", lighter, light)},
	}
}

// Apply writes entry to the given targets: style variables first, then every
// logo, then the favicon.
func Apply(entry palette.Entry, targets Targets) {
	if targets.Styles != nil {
		for _, prop := range Properties(entry) {
			targets.Styles.SetProperty(prop.Name, prop.Value)
		}
	}

	src := LogoPath(entry.Name)
	alt := LogoAlt(entry.Name)
	for _, logo := range targets.Logos {
		if logo != nil {
			logo.SetLogo(src, alt)
		}
	}

	if targets.Favicon != nil {
		targets.Favicon.EnsureFavicon(src)
	}
}
