// Package placeholder draws what a list shows when it has no rows.
package placeholder

import (
	"strings"
	"unicode"

	"github.com/MakeNowJust/heredoc"
	uv "github.com/charmbracelet/ultraviolet"
)

var EmptyList = heredoc.Doc(`
	╭────────────╮
	│ ·········· │
	│ ·········· │
	│ ·········· │
	╰────────────╯
`)

type Placeholder struct {
	art     string
	message string
}

// New returns a placeholder showing the empty list art above message.
func New(message string) *Placeholder {
	return &Placeholder{
		art:     strings.TrimRight(EmptyList, "\n"),
		message: message,
	}
}

func (p *Placeholder) lines() []string {
	lines := strings.Split(p.art, "\n")
	if p.message != "" {
		lines = append(lines, "", p.message)
	}
	return lines
}

// Draw centers the placeholder in area. Whatever does not fit is clipped.
func (p *Placeholder) Draw(scr uv.Screen, area uv.Rectangle) {
	lines := p.lines()
	width := 0
	for _, line := range lines {
		width = max(width, len([]rune(line)))
	}
	x0 := area.Min.X + max(0, (area.Dx()-width)/2)
	y0 := area.Min.Y + max(0, (area.Dy()-len(lines))/2)

	for y, line := range lines {
		if y0+y >= area.Max.Y {
			break
		}
		for x, r := range []rune(line) {
			if x0+x >= area.Max.X {
				break
			}
			if unicode.IsSpace(r) {
				continue
			}
			scr.SetCell(x0+x, y0+y, &uv.Cell{
				Content: string(r),
				Width:   1,
			})
		}
	}
}

// Render draws the placeholder into a width by height block.
func (p *Placeholder) Render(width, height int) string {
	if width <= 0 || height <= 0 {
		return ""
	}
	area := uv.Rect(0, 0, width, height)
	scr := uv.NewScreenBuffer(area.Dx(), area.Dy())
	p.Draw(scr, area)
	return strings.ReplaceAll(scr.Render(), "\r\n", "\n")
}
