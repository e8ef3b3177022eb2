package styles

import (
	"image/color"
	"sync"

	"github.com/charmbracelet/lipgloss/v2"
)

type Theme struct {
	Name string

	Primary   color.Color
	Secondary color.Color

	FgBase   color.Color
	FgMuted  color.Color
	FgSubtle color.Color

	BgSubtle color.Color

	styles     *Styles
	stylesOnce sync.Once
}

type Styles struct {
	Base   lipgloss.Style
	Muted  lipgloss.Style
	Subtle lipgloss.Style
	Title  lipgloss.Style
	Status lipgloss.Style

	ScrollbarTrack lipgloss.Style
	ScrollbarThumb lipgloss.Style
}

func (t *Theme) S() *Styles {
	t.stylesOnce.Do(func() {
		t.styles = t.buildStyles()
	})
	return t.styles
}

func (t *Theme) buildStyles() *Styles {
	base := lipgloss.NewStyle().Foreground(t.FgBase)
	return &Styles{
		Base:   base,
		Muted:  base.Foreground(t.FgMuted),
		Subtle: base.Foreground(t.FgSubtle),
		Title:  base.Foreground(t.Primary).Bold(true),
		Status: base.Foreground(t.FgMuted).Background(t.BgSubtle).Padding(0, 1),

		ScrollbarTrack: base.Foreground(t.FgSubtle),
		ScrollbarThumb: base.Foreground(t.Secondary),
	}
}

var defaultTheme = &Theme{
	Name:      "charm",
	Primary:   lipgloss.Color("#6B50FF"),
	Secondary: lipgloss.Color("#FF60FF"),
	FgBase:    lipgloss.Color("#DFDBDD"),
	FgMuted:   lipgloss.Color("#858392"),
	FgSubtle:  lipgloss.Color("#605F6B"),
	BgSubtle:  lipgloss.Color("#2D2C35"),
}

// CurrentTheme returns the theme used to render the interface.
func CurrentTheme() *Theme {
	return defaultTheme
}
