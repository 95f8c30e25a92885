package guide

import "fmt"

// TabStop is one indentation boundary within a line.
type TabStop struct {
	// Index is the ordinal of this stop among the line's stops (0-based).
	Index int
	// CharPos is the character offset within the raw text, unexpanded.
	CharPos int
	// Column is the visual column after tab expansion (0-based).
	Column int
}

// origin is stop 0, present on every line.
var origin = TabStop{}

// String formats the stop as (charPos,column).
func (s TabStop) String() string {
	return fmt.Sprintf("(%d,%d)", s.CharPos, s.Column)
}
