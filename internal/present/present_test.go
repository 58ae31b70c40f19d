package present

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tOgg1/parrot/internal/palette"
)

var teal = palette.Entry{Name: "teal", Hex: "#009485", RGB: "0, 148, 133"}

type recordingSink struct {
	calls []Property
}

func (s *recordingSink) SetProperty(name, value string) {
	s.calls = append(s.calls, Property{Name: name, Value: value})
}

type countingFavicon struct {
	hrefs []string
}

func (f *countingFavicon) EnsureFavicon(href string) {
	f.hrefs = append(f.hrefs, href)
}

func TestProperties(t *testing.T) {
	want := []Property{
		{Name: "--daily-color", Value: "#009485"},
		{Name: "--daily-color-light", Value: "rgba(0, 148, 133, 0.1)"},
		{Name: "--daily-color-lighter", Value: "rgba(0, 148, 133, 0.05)"},
		{Name: "--daily-color-dark", Value: "rgba(0, 148, 133, 0.8)"},
		{Name: "--gradient-primary", Value: "linear-gradient(135deg, #009485, rgba(0, 148, 133, 0.8))"},
		{Name: "--gradient-secondary", Value: "linear-gradient(135deg, rgba(0, 148, 133, 0.1), #009485)"},
		{Name: "--gradient-light", Value: "linear-gradient(135deg, rgba(0, 148, 133, 0.05), rgba(0, 148, 133, 0.1))"},
	}
	assert.Equal(t, want, Properties(teal))
}

func TestAssetNames(t *testing.T) {
	assert.Equal(t, "./logo-parrot-blue.svg", LogoPath("parrot-blue"))
	assert.Equal(t, "Parrot Logo - parrot-blue", LogoAlt("parrot-blue"))
}

func TestApplyWritesEveryTarget(t *testing.T) {
	sink := &recordingSink{}
	favicon := &countingFavicon{}
	nav, footer := &Image{}, &Image{}

	Apply(teal, Targets{Styles: sink, Logos: []LogoTarget{nav, nil, footer}, Favicon: favicon})

	assert.Equal(t, Properties(teal), sink.calls)
	assert.Equal(t, Image{Src: "./logo-teal.svg", Alt: "Parrot Logo - teal"}, *nav)
	assert.Equal(t, *nav, *footer)
	assert.Equal(t, []string{"./logo-teal.svg"}, favicon.hrefs)
}

func TestApplySkipsMissingTargets(t *testing.T) {
	assert.NotPanics(t, func() {
		Apply(teal, Targets{})
	})
}

func TestPageReapplyKeepsSingleFavicon(t *testing.T) {
	page := Render(palette.Default()[0])
	first := page.Favicon
	require.NotNil(t, first)

	Apply(teal, page.Targets())

	assert.Same(t, first, page.Favicon)
	assert.Equal(t, "./logo-teal.svg", page.Favicon.Href)
	assert.Equal(t, "icon", page.Favicon.Rel)
	assert.Equal(t, "image/svg+xml", page.Favicon.Type)
	assert.Len(t, page.Properties, 7)

	color, ok := page.Property(VarColor)
	require.True(t, ok)
	assert.Equal(t, "#009485", color)
	assert.Equal(t, "Parrot Logo - teal", page.NavLogo.Alt)
	assert.Equal(t, "Parrot Logo - teal", page.FooterLogo.Alt)
}

func TestPageCSS(t *testing.T) {
	css := Render(teal).CSS()

	assert.True(t, strings.HasPrefix(css, ":root {\n  --daily-color: #009485;\n"))
	assert.Contains(t, css, "  --gradient-light: linear-gradient(135deg, rgba(0, 148, 133, 0.05), rgba(0, 148, 133, 0.1));\n")
	assert.Contains(t, css, ".nav-link.active {\n  color: var(--daily-color) !important;\n}")
	assert.Contains(t, css, "width: 100% !important;")
}
