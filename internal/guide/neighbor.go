package guide

import (
	"fmt"
	"strings"
)

// LineSource supplies line text by index. It must not change for the
// duration of one redraw pass.
type LineSource interface {
	// LineCount returns the number of lines.
	LineCount() int
	// LineText returns the raw text of a line, with or without its terminator.
	LineText(line int) string
}

// PreviousNonBlank scans backward from (but excluding) from and returns the
// first non-blank line, analyzed. Running past line 0 yields StartSentinel.
func PreviousNonBlank(src LineSource, from, tabWidth int) (*Line, error) {
	if err := checkTabWidth(tabWidth); err != nil {
		return nil, fmt.Errorf("scan back from line %d: %w", from, err)
	}
	if count := src.LineCount(); from > count {
		from = count
	}
	for n := from - 1; n >= 0; n-- {
		if text := src.LineText(n); !isBlankText(text) {
			return Analyze(text, n, tabWidth)
		}
	}
	return StartSentinel(tabWidth), nil
}

// NextNonBlank scans forward from (but excluding) from and returns the first
// non-blank line, analyzed. Running past the last line yields EndSentinel.
func NextNonBlank(src LineSource, from, tabWidth int) (*Line, error) {
	if err := checkTabWidth(tabWidth); err != nil {
		return nil, fmt.Errorf("scan forward from line %d: %w", from, err)
	}
	count := src.LineCount()
	if from < -1 {
		from = -1
	}
	for n := from + 1; n < count; n++ {
		if text := src.LineText(n); !isBlankText(text) {
			return Analyze(text, n, tabWidth)
		}
	}
	return EndSentinel(count, tabWidth), nil
}

func isBlankText(s string) bool {
	return strings.TrimSpace(s) == ""
}

// Resolver finds neighbor lines during a single top-to-bottom redraw pass.
//
// A neighbor found for one blank line is reused for the rest of its blank
// run, so a pass over a long run of blank lines scans the run once. A
// Resolver is owned by one pass; build a new one for the next pass.
type Resolver struct {
	src      LineSource
	tabWidth int
	cache    *LineCache

	// prev is the nearest non-blank line for every line in (prev.Number, prevThrough+1].
	prev        *Line
	prevThrough int

	// next is the nearest non-blank line for every line in [nextFrom, next.Number).
	next     *Line
	nextFrom int
}

// NewResolver creates a resolver over src. cache may be nil.
func NewResolver(src LineSource, tabWidth int, cache *LineCache) (*Resolver, error) {
	if err := checkTabWidth(tabWidth); err != nil {
		return nil, fmt.Errorf("new resolver: %w", err)
	}
	return &Resolver{
		src:      src,
		tabWidth: tabWidth,
		cache:    cache,
	}, nil
}

// Line analyzes a single line, going through the cache when one is set.
// Cached lines are shared: clone before modifying.
func (r *Resolver) Line(n int) (*Line, error) {
	text := r.src.LineText(n)
	if r.cache != nil {
		return r.cache.Get(n, text, r.tabWidth)
	}
	return Analyze(text, n, r.tabWidth)
}

// Previous returns the nearest non-blank line before line n.
func (r *Resolver) Previous(n int) (*Line, error) {
	if r.prev != nil && r.prev.Number < n && n <= r.prevThrough+1 {
		return r.prev, nil
	}
	for p := n - 1; p >= 0; p-- {
		text := r.src.LineText(p)
		if isBlankText(text) {
			continue
		}
		l, err := r.Line(p)
		if err != nil {
			return nil, err
		}
		r.prev, r.prevThrough = l, n-1
		return l, nil
	}
	r.prev, r.prevThrough = StartSentinel(r.tabWidth), n-1
	return r.prev, nil
}

// Next returns the nearest non-blank line after line n.
func (r *Resolver) Next(n int) (*Line, error) {
	if r.next != nil && r.nextFrom <= n && n < r.next.Number {
		return r.next, nil
	}
	count := r.src.LineCount()
	for p := n + 1; p < count; p++ {
		text := r.src.LineText(p)
		if isBlankText(text) {
			continue
		}
		l, err := r.Line(p)
		if err != nil {
			return nil, err
		}
		r.next, r.nextFrom = l, n
		return l, nil
	}
	r.next, r.nextFrom = EndSentinel(count, r.tabWidth), n
	return r.next, nil
}

// Observe records the line just processed so the following line can reuse
// it as its previous neighbor without scanning.
func (r *Resolver) Observe(l *Line) {
	switch {
	case !l.Blank:
		r.prev, r.prevThrough = l, l.Number
	case r.prev != nil && l.Number == r.prevThrough+1:
		r.prevThrough = l.Number
	}
}
