package render

import "github.com/dshills/indentguide/internal/config"

var (
	lightGlyphs = map[config.LineStyle]rune{
		config.StyleSolid:      '│',
		config.StyleDash:       '╎',
		config.StyleDot:        '⋮',
		config.StyleDashDot:    '┆',
		config.StyleDashDotDot: '┊',
	}
	heavyGlyphs = map[config.LineStyle]rune{
		config.StyleSolid:      '┃',
		config.StyleDash:       '╏',
		config.StyleDot:        '⋮',
		config.StyleDashDot:    '┇',
		config.StyleDashDotDot: '┋',
	}
)

// Glyph returns the rune drawn for a guide. Ascenders bridge up to the
// line above and use the full-height glyph for the style; other stops use
// a half-height stub. Widths above one select the heavy variants.
func Glyph(style config.LineStyle, width int, ascender bool) rune {
	heavy := width > 1
	if !ascender {
		if heavy {
			return '╻'
		}
		return '╷'
	}

	table := lightGlyphs
	if heavy {
		table = heavyGlyphs
	}
	if r, ok := table[style]; ok {
		return r
	}
	return table[config.StyleSolid]
}
