package server

import (
	"github.com/tOgg1/parrot/internal/palette"
	"github.com/tOgg1/parrot/internal/present"
	"github.com/tOgg1/parrot/internal/rotation"
)

// ThemeView is the JSON representation of a selected theme.
type ThemeView struct {
	Date       string             `json:"date"`
	DayOfYear  int                `json:"day_of_year"`
	Index      int                `json:"index"`
	Theme      palette.Entry      `json:"theme"`
	TextColor  string             `json:"text_color"`
	Properties []present.Property `json:"properties"`
	Logo       present.Image      `json:"logo"`
	Favicon    present.Link       `json:"favicon"`
}

// NewThemeView renders cur through the presentation layer.
func NewThemeView(cur rotation.Current) ThemeView {
	page := present.Render(cur.Entry)
	view := ThemeView{
		Date:       cur.Date,
		DayOfYear:  cur.DayOfYear,
		Index:      cur.Index,
		Theme:      cur.Entry,
		TextColor:  cur.Entry.TextColor(),
		Properties: page.Properties,
		Logo:       page.NavLogo,
	}
	if page.Favicon != nil {
		view.Favicon = *page.Favicon
	}
	return view
}
