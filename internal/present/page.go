package present

import (
	"fmt"
	"strings"

	"github.com/tOgg1/parrot/internal/palette"
)

// Image is a logo element.
type Image struct {
	Src string `json:"src"`
	Alt string `json:"alt"`
}

// SetLogo implements LogoTarget.
func (i *Image) SetLogo(src, alt string) {
	i.Src = src
	i.Alt = alt
}

// Link is a <link> element in the document head.
type Link struct {
	Rel  string `json:"rel"`
	Type string `json:"type"`
	Href string `json:"href"`
}

// Page is an in-memory model of the themed parts of the site: root style
// variables, the navigation and footer logos, and the favicon.
type Page struct {
	Properties []Property `json:"properties"`
	NavLogo    Image      `json:"nav_logo"`
	FooterLogo Image      `json:"footer_logo"`
	Favicon    *Link      `json:"favicon,omitempty"`
}

// NewPage returns an empty page.
func NewPage() *Page {
	return &Page{}
}

// Render builds a page with entry applied.
func Render(entry palette.Entry) *Page {
	page := NewPage()
	Apply(entry, page.Targets())
	return page
}

// Targets returns the page's elements as Apply targets.
func (p *Page) Targets() Targets {
	return Targets{
		Styles:  p,
		Logos:   []LogoTarget{&p.NavLogo, &p.FooterLogo},
		Favicon: p,
	}
}

// SetProperty implements Sink. Setting an existing name replaces its value
// in place.
func (p *Page) SetProperty(name, value string) {
	for i := range p.Properties {
		if p.Properties[i].Name == name {
			p.Properties[i].Value = value
			return
		}
	}
	p.Properties = append(p.Properties, Property{Name: name, Value: value})
}

// Property returns the value of a style variable.
func (p *Page) Property(name string) (string, bool) {
	for _, prop := range p.Properties {
		if prop.Name == name {
			return prop.Value, true
		}
	}
	return "", false
}

// EnsureFavicon implements FaviconUpdater.
func (p *Page) EnsureFavicon(href string) {
	if p.Favicon == nil {
		p.Favicon = &Link{Rel: "icon", Type: "image/svg+xml"}
	}
	p.Favicon.Href = href
}

// CSS renders the root variables plus the active navigation link rules.
func (p *Page) CSS() string {
	var b strings.Builder
	b.WriteString(":root {\n")
	for _, prop := range p.Properties {
		fmt.Fprintf(&b, "  %s: %s;\n", prop.Name, prop.Value)
	}
	b.WriteString("}\n")
	b.WriteString(".nav-link.active {\n  color: var(" + VarColor + ") !important;\n}\n")
	b.WriteString(".nav-link.active::after {\n  width: 100% !important;\n}\n")
	return b.String()
}
