package render

import (
	"github.com/dshills/indentguide/internal/config"
	"github.com/dshills/indentguide/internal/guide"
	"github.com/dshills/indentguide/internal/render/backend"
)

// Painter paints lines and guides into a Backend.
type Painter struct {
	backend    backend.Backend
	tabWidth   int
	lineStyle  config.LineStyle
	width      int
	textStyle  backend.Style
	guideStyle backend.Style
}

// NewPainter configures a painter from settings.
func NewPainter(b backend.Backend, s *config.Settings, dark bool) *Painter {
	p := &Painter{backend: b, textStyle: backend.DefaultStyle()}
	p.Apply(s, dark)
	return p
}

// Apply re-reads settings, for use after a reload.
func (p *Painter) Apply(s *config.Settings, dark bool) {
	c := GuideColor(s, dark)
	p.tabWidth = max(s.Guide.TabWidth, 1)
	p.lineStyle = s.Guide.Line.Style
	p.width = s.Guide.Line.Width
	p.guideStyle = backend.DefaultStyle().WithForeground(backend.ColorFromRGB(c.R, c.G, c.B))
}

// Paint draws lines starting at row y, clearing each row it touches.
// Rows past the bottom of the backend and cells past its right edge are
// clipped. It returns the number of rows painted.
func (p *Painter) Paint(lines []guide.LineGuides, y int) int {
	width, height := p.backend.Size()
	glyph := func(vs guide.VisibleStop) rune {
		return Glyph(p.lineStyle, p.width, vs.Ascender)
	}

	rows := 0
	for i, g := range lines {
		row := y + i
		if row >= height {
			break
		}
		cells := layout(g, p.tabWidth, glyph, p.textStyle, p.guideStyle)
		for x := 0; x < width; x++ {
			c := backend.EmptyCell()
			if x < len(cells) {
				c = cells[x].Cell
			}
			p.backend.SetCell(x, row, c)
		}
		rows++
	}
	return rows
}

// PaintStatus fills row y with text in reverse video.
func (p *Painter) PaintStatus(y int, text string) {
	width, _ := p.backend.Size()
	style := backend.DefaultStyle().WithAttributes(backend.AttrReverse)
	x := 0
	for _, r := range text {
		if x >= width {
			break
		}
		c := backend.NewStyledCell(r, style)
		p.backend.SetCell(x, y, c)
		x += c.Width
	}
	for ; x < width; x++ {
		p.backend.SetCell(x, y, backend.NewStyledCell(' ', style))
	}
}
