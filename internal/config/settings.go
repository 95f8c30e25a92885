// Package config holds the indent guide settings: their defaults,
// validation, and loading from TOML or YAML files with an environment
// overlay. The watcher subpackage reloads them when the file changes.
package config

import (
	"slices"

	"github.com/dshills/indentguide/internal/guide"
)

// LineStyle selects the dash pattern of a guide line.
type LineStyle string

// Supported line styles.
const (
	StyleSolid      LineStyle = "solid"
	StyleDash       LineStyle = "dash"
	StyleDot        LineStyle = "dot"
	StyleDashDot    LineStyle = "dashdot"
	StyleDashDotDot LineStyle = "dashdotdot"
)

// LineStyles lists every valid LineStyle.
var LineStyles = []LineStyle{StyleSolid, StyleDash, StyleDot, StyleDashDot, StyleDashDotDot}

// Valid reports whether s is a known style.
func (s LineStyle) Valid() bool {
	return slices.Contains(LineStyles, s)
}

// Settings is the complete configuration.
type Settings struct {
	Guide   GuideSettings   `toml:"guide" yaml:"guide" json:"guide"`
	Logging LoggingSettings `toml:"logging" yaml:"logging" json:"logging"`
}

// GuideSettings controls which guides are computed.
type GuideSettings struct {
	Enabled           bool         `toml:"enabled" yaml:"enabled" json:"enabled"`
	TabWidth          int          `toml:"tabWidth" yaml:"tabWidth" json:"tabWidth"`
	DrawLeadingEdge   bool         `toml:"drawLeadingEdge" yaml:"drawLeadingEdge" json:"drawLeadingEdge"`
	DrawBlankLines    bool         `toml:"drawBlankLines" yaml:"drawBlankLines" json:"drawBlankLines"`
	DrawCommentBlocks bool         `toml:"drawCommentBlocks" yaml:"drawCommentBlocks" json:"drawCommentBlocks"`
	ExcludedTypes     []string     `toml:"excludedTypes" yaml:"excludedTypes" json:"excludedTypes"`
	Line              LineSettings `toml:"line" yaml:"line" json:"line"`
}

// LineSettings controls how guides are painted.
type LineSettings struct {
	Alpha     int       `toml:"alpha" yaml:"alpha" json:"alpha"`
	Style     LineStyle `toml:"style" yaml:"style" json:"style"`
	Width     int       `toml:"width" yaml:"width" json:"width"`
	Shift     int       `toml:"shift" yaml:"shift" json:"shift"`
	Color     string    `toml:"color" yaml:"color" json:"color"`
	DarkColor string    `toml:"darkColor" yaml:"darkColor" json:"darkColor"`
}

// LoggingSettings controls diagnostic output.
type LoggingSettings struct {
	Level string `toml:"level" yaml:"level" json:"level"`
}

// Default returns the built-in settings.
func Default() *Settings {
	return &Settings{
		Guide: GuideSettings{
			Enabled:        true,
			TabWidth:       4,
			DrawBlankLines: true,
			ExcludedTypes:  []string{},
			Line: LineSettings{
				Alpha:     50,
				Style:     StyleSolid,
				Width:     1,
				Shift:     2,
				Color:     "0,0,0",
				DarkColor: "192,192,192",
			},
		},
		Logging: LoggingSettings{Level: "warn"},
	}
}

// GuideConfig returns the visibility flags for a redraw pass.
func (s *Settings) GuideConfig() guide.Config {
	return guide.Config{
		DrawLeadingEdge:   s.Guide.DrawLeadingEdge,
		DrawBlankLines:    s.Guide.DrawBlankLines,
		DrawCommentBlocks: s.Guide.DrawCommentBlocks,
	}
}

// LineColor returns the guide color for light or dark backgrounds.
// Settings that passed Validate always parse; anything else falls back
// to the default color.
func (s *Settings) LineColor(dark bool) RGB {
	raw, fallback := s.Guide.Line.Color, RGB{}
	if dark {
		raw, fallback = s.Guide.Line.DarkColor, RGB{R: 192, G: 192, B: 192}
	}
	c, err := ParseRGB(raw)
	if err != nil {
		return fallback
	}
	return c
}

// Clone returns a deep copy.
func (s *Settings) Clone() *Settings {
	c := *s
	c.Guide.ExcludedTypes = slices.Clone(s.Guide.ExcludedTypes)
	return &c
}
