package guide

import "testing"

// lines is a LineSource over a slice of strings.
type lines []string

func (l lines) LineCount() int          { return len(l) }
func (l lines) LineText(line int) string { return l[line] }

// countingSource records how many times line text is fetched.
type countingSource struct {
	lines
	reads int
}

func (c *countingSource) LineText(line int) string {
	c.reads++
	return c.lines[line]
}

func mustAnalyze(t *testing.T, text string, number, tabWidth int) *Line {
	t.Helper()
	l, err := Analyze(text, number, tabWidth)
	if err != nil {
		t.Fatalf("Analyze(%q): %v", text, err)
	}
	return l
}

// columns returns the column of each visible stop.
func columns(stops []VisibleStop) []int {
	cols := make([]int, len(stops))
	for i, s := range stops {
		cols[i] = s.Column
	}
	return cols
}

// ascenders returns the ascender flag of each visible stop.
func ascenders(stops []VisibleStop) []bool {
	asc := make([]bool, len(stops))
	for i, s := range stops {
		asc[i] = s.Ascender
	}
	return asc
}
