package guide

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// ErrInvalidTabWidth is returned when a tab width below 1 is supplied.
var ErrInvalidTabWidth = errors.New("tab width must be greater than zero")

// Line is the analysis of one line of text.
//
// All fields except IndentDelta and Stops are fixed by Analyze. For blank
// lines PrepareBlank replaces Stops with the stops inherited from a
// neighbor and records IndentDelta.
type Line struct {
	// Number is the 0-based line index. Sentinels use -1 and the line count.
	Number int
	// Text is the raw content without its line terminator.
	Text string
	// TabWidth is the tab width in effect when the line was analyzed.
	TabWidth int

	// Blank is true when Text contains only whitespace.
	Blank bool
	// Length is the character length of Text.
	Length int
	// FirstVisibleColumn is the visual column of the first non-whitespace
	// character, or the column reached at end of line for blank lines.
	FirstVisibleColumn int
	// Stops holds the leading tab stops; it always contains stop 0.
	Stops []TabStop
	// Comment is true when the line continues a block comment.
	Comment bool

	// IndentDelta is the difference in stop count between the next and
	// previous non-blank lines. Only meaningful for blank lines.
	IndentDelta int
}

// Analyze parses raw line text into a Line.
//
// A trailing "\r\n", "\n" or "\r" is stripped. Leading spaces emit a stop
// each time the visual column reaches a multiple of tabWidth; leading tabs
// always emit a stop at the next multiple. Scanning ends at the first
// character that is neither a space nor a tab.
func Analyze(text string, number, tabWidth int) (*Line, error) {
	if err := checkTabWidth(tabWidth); err != nil {
		return nil, fmt.Errorf("analyze line %d: %w", number, err)
	}

	text = trimTerminator(text)
	l := &Line{
		Number:   number,
		Text:     text,
		TabWidth: tabWidth,
		Blank:    strings.TrimSpace(text) == "",
		Length:   utf8.RuneCountInString(text),
		Stops:    []TabStop{origin},
	}
	l.FirstVisibleColumn = l.scan(newTabExpander(tabWidth))
	l.Comment = !l.Blank && isCommentBody(text[l.LastStop().CharPos:])
	return l, nil
}

// scan walks the leading whitespace, appending stops, and returns the
// column of the first visible character.
func (l *Line) scan(te tabExpander) int {
	col := 0
	// Leading whitespace is ASCII, so byte and character offsets agree.
	for pos := 0; pos < len(l.Text); pos++ {
		switch l.Text[pos] {
		case ' ':
			col++
			if te.IsTabStop(col) {
				l.addStop(pos+1, col)
			}
		case '\t':
			col = te.NextTabStop(col)
			l.addStop(pos+1, col)
		default:
			return col
		}
	}
	return col
}

func (l *Line) addStop(pos, col int) {
	l.Stops = append(l.Stops, TabStop{Index: len(l.Stops), CharPos: pos, Column: col})
}

func checkTabWidth(tabWidth int) error {
	if tabWidth <= 0 {
		return fmt.Errorf("%w (got %d)", ErrInvalidTabWidth, tabWidth)
	}
	return nil
}

// trimTerminator removes one trailing line terminator sequence.
func trimTerminator(s string) string {
	switch {
	case strings.HasSuffix(s, "\r\n"):
		return s[:len(s)-2]
	case strings.HasSuffix(s, "\n"), strings.HasSuffix(s, "\r"):
		return s[:len(s)-1]
	}
	return s
}

// newSentinel returns the boundary line used when a scan runs off either
// end of the source: empty text and a single stop at column 0.
func newSentinel(number, tabWidth int) *Line {
	return &Line{
		Number:   number,
		TabWidth: tabWidth,
		Blank:    true,
		Stops:    []TabStop{origin},
	}
}

// StartSentinel returns the line that stands before the first line.
func StartSentinel(tabWidth int) *Line {
	return newSentinel(-1, tabWidth)
}

// EndSentinel returns the line that stands after the last line.
func EndSentinel(lineCount, tabWidth int) *Line {
	return newSentinel(lineCount, tabWidth)
}

// StopCount returns the number of tab stops.
func (l *Line) StopCount() int {
	return len(l.Stops)
}

// LastStop returns the final stop, or stop 0 when the line has none.
func (l *Line) LastStop() TabStop {
	if len(l.Stops) == 0 {
		return origin
	}
	return l.Stops[len(l.Stops)-1]
}

// LastStopColumn returns the column of the final stop, 0 if there is none.
func (l *Line) LastStopColumn() int {
	if len(l.Stops) == 0 {
		return 0
	}
	return l.Stops[len(l.Stops)-1].Column
}

// Clone returns a copy that does not share its stop slice with l.
func (l *Line) Clone() *Line {
	c := *l
	c.Stops = append([]TabStop(nil), l.Stops...)
	return &c
}

// String formats the line for diagnostics.
func (l *Line) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Line %d: %v", l.Number, l.Stops)
	if l.Blank {
		sb.WriteString(" Blank")
	} else {
		fmt.Fprintf(&sb, " %d[%d]", l.FirstVisibleColumn, l.Length)
	}
	if l.Comment {
		sb.WriteString(" Comment")
	}
	fmt.Fprintf(&sb, "\t %q", l.Text)
	return sb.String()
}
