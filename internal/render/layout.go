package render

import (
	"github.com/dshills/indentguide/internal/config"
	"github.com/dshills/indentguide/internal/guide"
	"github.com/dshills/indentguide/internal/render/backend"
)

// cell is a laid-out cell plus whether it carries a guide.
type cell struct {
	backend.Cell
	guide bool
}

// layout expands tabs in g's text and overlays guide glyphs on blank cells.
func layout(g guide.LineGuides, tabWidth int, glyph func(guide.VisibleStop) rune, text, guideStyle backend.Style) []cell {
	var cells []cell
	blank := cell{Cell: backend.NewStyledCell(' ', text)}

	for _, r := range g.Line.Text {
		switch r {
		case '\t':
			n := tabWidth - len(cells)%tabWidth
			for range n {
				cells = append(cells, blank)
			}
		case '\r', '\n':
			// terminators never reach the grid
		default:
			c := backend.NewStyledCell(r, text)
			cells = append(cells, cell{Cell: c})
			for i := 1; i < c.Width; i++ {
				cells = append(cells, cell{Cell: backend.ContinuationCell()})
			}
		}
	}

	for _, vs := range g.Stops {
		x := vs.Column
		for len(cells) <= x {
			cells = append(cells, blank)
		}
		if cells[x].Rune != ' ' || cells[x].IsContinuation() {
			continue
		}
		cells[x] = cell{Cell: backend.NewStyledCell(glyph(vs), guideStyle), guide: true}
	}
	return cells
}

// GuideColor returns the guide color blended over the background the way
// the configured alpha asks for.
func GuideColor(s *config.Settings, dark bool) config.RGB {
	bg := config.RGB{R: 255, G: 255, B: 255}
	if dark {
		bg = config.RGB{}
	}
	return s.LineColor(dark).Blend(bg, s.Guide.Line.Alpha)
}
