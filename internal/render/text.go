package render

import (
	"bufio"
	"io"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/dshills/indentguide/internal/config"
	"github.com/dshills/indentguide/internal/guide"
	"github.com/dshills/indentguide/internal/render/backend"
)

// TextRenderer writes lines with their guides as text.
type TextRenderer struct {
	TabWidth int
	Style    config.LineStyle
	Width    int

	// Colored wraps glyphs in ANSI color sequences.
	Colored bool
	Color   config.RGB
}

// NewTextRenderer configures a renderer from settings.
func NewTextRenderer(s *config.Settings, colored, dark bool) *TextRenderer {
	return &TextRenderer{
		TabWidth: s.Guide.TabWidth,
		Style:    s.Guide.Line.Style,
		Width:    s.Guide.Line.Width,
		Colored:  colored,
		Color:    GuideColor(s, dark),
	}
}

// RenderLine returns one line with tabs expanded and guides drawn.
// Trailing blanks are trimmed.
func (r *TextRenderer) RenderLine(g guide.LineGuides) string {
	glyph := func(vs guide.VisibleStop) rune {
		return Glyph(r.Style, r.Width, vs.Ascender)
	}
	cells := layout(g, max(r.TabWidth, 1), glyph, backend.DefaultStyle(), backend.DefaultStyle())

	end := len(cells)
	for end > 0 && cells[end-1].Rune == ' ' && !cells[end-1].guide {
		end--
	}

	var style lipgloss.Style
	if r.Colored {
		style = lipgloss.NewStyle().Foreground(lipgloss.Color(r.Color.Hex()))
	}

	var b strings.Builder
	for _, c := range cells[:end] {
		switch {
		case c.IsContinuation():
		case c.guide && r.Colored:
			b.WriteString(style.Render(string(c.Rune)))
		default:
			b.WriteRune(c.Rune)
		}
	}
	return b.String()
}

// Render writes every line followed by a newline.
func (r *TextRenderer) Render(w io.Writer, lines []guide.LineGuides) error {
	bw := bufio.NewWriter(w)
	for _, g := range lines {
		if _, err := bw.WriteString(r.RenderLine(g)); err != nil {
			return err
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	return bw.Flush()
}
