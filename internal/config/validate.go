package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dshills/indentguide/internal/logging"
)

// Validate checks every setting and returns all failures joined, each a
// *ValidationError.
func (s *Settings) Validate() error {
	var errs []error
	add := func(path string, code Code, value any, format string, args ...any) {
		errs = append(errs, &ValidationError{
			Key:     path,
			Message: fmt.Sprintf(format, args...),
			Value:   value,
			Code:    code,
		})
	}
	inRange := func(path string, v, lo, hi int) {
		if v < lo || v > hi {
			add(path, CodeOutOfRange, v, "must be between %d and %d", lo, hi)
		}
	}

	g := s.Guide
	if g.TabWidth <= 0 {
		add("guide.tabWidth", CodeOutOfRange, g.TabWidth, "must be greater than zero")
	}
	for i, t := range g.ExcludedTypes {
		if strings.TrimSpace(t) == "" {
			add(fmt.Sprintf("guide.excludedTypes[%d]", i), CodeMalformed, t, "must not be empty")
		}
	}

	l := g.Line
	inRange("guide.line.alpha", l.Alpha, 0, 255)
	inRange("guide.line.width", l.Width, 1, 8)
	inRange("guide.line.shift", l.Shift, 0, 8)
	if !l.Style.Valid() {
		add("guide.line.style", CodeNotAllowed, l.Style, "must be one of %v", LineStyles)
	}
	if _, err := ParseRGB(l.Color); err != nil {
		add("guide.line.color", CodeMalformed, l.Color, `must be "r,g,b" or "#rrggbb"`)
	}
	if _, err := ParseRGB(l.DarkColor); err != nil {
		add("guide.line.darkColor", CodeMalformed, l.DarkColor, `must be "r,g,b" or "#rrggbb"`)
	}

	if _, ok := logging.ParseLevel(s.Logging.Level); !ok {
		add("logging.level", CodeNotAllowed, s.Logging.Level, "must be debug, info, warn or error")
	}

	return errors.Join(errs...)
}
