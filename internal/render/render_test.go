package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/dshills/indentguide/internal/config"
	"github.com/dshills/indentguide/internal/document"
	"github.com/dshills/indentguide/internal/guide"
	"github.com/dshills/indentguide/internal/render/backend"
)

const sample = "func f() {\n\tif x {\n\t\ty()\n\n\t\tz()\n\t}\n\n}"

var sampleRendered = []string{
	"func f() {",
	"    if x {",
	"    │   y()",
	"    ╷",
	"    ╷   z()",
	"    }",
	"",
	"}",
}

func sampleGuides(t *testing.T) []guide.LineGuides {
	t.Helper()
	doc := document.New("sample.go", sample)
	s := config.Default()
	got, err := guide.Compute(doc, s.Guide.TabWidth, s.GuideConfig(), 0, doc.LineCount()-1)
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}
	return got
}

func TestTextRenderer_Render(t *testing.T) {
	r := NewTextRenderer(config.Default(), false, false)

	var buf bytes.Buffer
	if err := r.Render(&buf, sampleGuides(t)); err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	expected := strings.Join(sampleRendered, "\n") + "\n"
	if buf.String() != expected {
		t.Errorf("Render output mismatch\nexpected:\n%s\ngot:\n%s", expected, buf.String())
	}
}

func TestTextRenderer_Colored(t *testing.T) {
	r := NewTextRenderer(config.Default(), true, false)

	line := r.RenderLine(sampleGuides(t)[2])
	if !strings.Contains(line, "\x1b[") {
		t.Errorf("expected ANSI sequences, got %q", line)
	}
	if !strings.Contains(line, "│") || !strings.HasSuffix(line, "y()") {
		t.Errorf("unexpected colored line %q", line)
	}
}

func TestTextRenderer_Style(t *testing.T) {
	s := config.Default()
	s.Guide.Line.Style = config.StyleDash
	s.Guide.Line.Width = 2
	r := NewTextRenderer(s, false, false)

	if got := r.RenderLine(sampleGuides(t)[2]); got != "    ╏   y()" {
		t.Errorf("RenderLine: got %q", got)
	}
}

func TestLayout_NeverOverdrawsText(t *testing.T) {
	glyph := func(guide.VisibleStop) rune { return '|' }
	tests := []struct {
		name     string
		text     string
		cols     []int
		expected string
	}{
		{"on text", "ab", []int{1}, "ab"},
		{"past end", "ab", []int{4}, "ab  |"},
		{"blank line", "", []int{0, 2}, "| |"},
		{"tab expanded", "\tx", []int{2}, "  | x"},
		{"wide rune tail", "\t世x", []int{5}, "    世x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := guide.LineGuides{Line: &guide.Line{Text: tt.text}}
			for _, c := range tt.cols {
				g.Stops = append(g.Stops, guide.VisibleStop{TabStop: guide.TabStop{Column: c}})
			}

			var b strings.Builder
			for _, c := range layout(g, 4, glyph, backend.DefaultStyle(), backend.DefaultStyle()) {
				if !c.IsContinuation() {
					b.WriteRune(c.Rune)
				}
			}
			if got := strings.TrimRight(b.String(), " "); got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestGlyph(t *testing.T) {
	tests := []struct {
		style    config.LineStyle
		width    int
		ascender bool
		expected rune
	}{
		{config.StyleSolid, 1, true, '│'},
		{config.StyleSolid, 1, false, '╷'},
		{config.StyleSolid, 3, true, '┃'},
		{config.StyleSolid, 2, false, '╻'},
		{config.StyleDash, 1, true, '╎'},
		{config.StyleDot, 1, true, '⋮'},
		{config.StyleDashDot, 1, true, '┆'},
		{config.StyleDashDotDot, 2, true, '┋'},
		{config.LineStyle("bogus"), 1, true, '│'},
	}

	for _, tt := range tests {
		if got := Glyph(tt.style, tt.width, tt.ascender); got != tt.expected {
			t.Errorf("Glyph(%s, %d, %v): expected %q, got %q", tt.style, tt.width, tt.ascender, tt.expected, got)
		}
	}
}

func TestGuideColor(t *testing.T) {
	s := config.Default()

	if got := GuideColor(s, false); got != (config.RGB{R: 205, G: 205, B: 205}) {
		t.Errorf("light: got %v", got)
	}
	if got := GuideColor(s, true); got != (config.RGB{R: 38, G: 38, B: 38}) {
		t.Errorf("dark: got %v", got)
	}

	s.Guide.Line.Alpha = 255
	s.Guide.Line.Color = "#ff0000"
	if got := GuideColor(s, false); got != (config.RGB{R: 255}) {
		t.Errorf("opaque: got %v", got)
	}
}

func TestPainter_Paint(t *testing.T) {
	sb := backend.NewScreenBuffer(12, 10)
	p := NewPainter(sb, config.Default(), false)

	if n := p.Paint(sampleGuides(t), 1); n != len(sampleRendered) {
		t.Errorf("Paint: expected %d rows, got %d", len(sampleRendered), n)
	}
	for i, expected := range sampleRendered {
		if got := sb.Row(i + 1); got != expected {
			t.Errorf("row %d: expected %q, got %q", i+1, expected, got)
		}
	}

	c := sb.GetCell(4, 3)
	if c.Rune != '│' {
		t.Fatalf("cell (4,3): expected guide, got %q", c.Rune)
	}
	if c.Style.Foreground != backend.ColorFromRGB(205, 205, 205) {
		t.Errorf("guide color: got %s", c.Style.Foreground)
	}
	if !sb.GetCell(0, 1).Style.Foreground.IsDefault() {
		t.Error("text should use the default style")
	}
}

func TestPainter_Clips(t *testing.T) {
	sb := backend.NewScreenBuffer(6, 3)
	p := NewPainter(sb, config.Default(), false)

	if n := p.Paint(sampleGuides(t), 0); n != 3 {
		t.Errorf("Paint: expected 3 rows, got %d", n)
	}
	if got := sb.Row(2); got != "    │" {
		t.Errorf("row 2: got %q", got)
	}
}

func TestPainter_ClearsStaleCells(t *testing.T) {
	sb := backend.NewScreenBuffer(8, 1)
	for x := 0; x < 8; x++ {
		sb.SetCell(x, 0, backend.NewStyledCell('#', backend.DefaultStyle()))
	}
	p := NewPainter(sb, config.Default(), false)
	p.Paint([]guide.LineGuides{{Line: &guide.Line{Text: "ab"}}}, 0)

	if got := sb.Row(0); got != "ab" {
		t.Errorf("expected stale cells cleared, got %q", got)
	}
}

func TestPainter_Apply(t *testing.T) {
	sb := backend.NewScreenBuffer(12, 3)
	p := NewPainter(sb, config.Default(), false)

	s := config.Default()
	s.Guide.Line.Style = config.StyleDot
	p.Apply(s, true)
	p.Paint(sampleGuides(t)[2:3], 0)

	c := sb.GetCell(4, 0)
	if c.Rune != '⋮' {
		t.Errorf("expected dotted glyph, got %q", c.Rune)
	}
	if c.Style.Foreground != backend.ColorFromRGB(38, 38, 38) {
		t.Errorf("expected dark color, got %s", c.Style.Foreground)
	}
}

func TestPainter_PaintStatus(t *testing.T) {
	sb := backend.NewScreenBuffer(10, 2)
	p := NewPainter(sb, config.Default(), false)
	p.PaintStatus(1, "a.go 1/8 and more")

	if got := sb.Row(1); got != "a.go 1/8 a" {
		t.Errorf("status row: got %q", got)
	}
	if !sb.GetCell(9, 1).Style.Attributes.Has(backend.AttrReverse) {
		t.Error("status row should be reversed")
	}
}
