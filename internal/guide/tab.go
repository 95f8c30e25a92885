package guide

// tabExpander provides the tab arithmetic used while scanning indentation.
type tabExpander struct {
	tabWidth int
}

// newTabExpander creates a tab expander. The width must already be validated.
func newTabExpander(tabWidth int) tabExpander {
	return tabExpander{tabWidth: tabWidth}
}

// NextTabStop returns the next tab stop column after the given column.
func (t tabExpander) NextTabStop(col int) int {
	return col + t.tabWidth - (col % t.tabWidth)
}

// IsTabStop returns true if the given column is a tab stop.
func (t tabExpander) IsTabStop(col int) bool {
	return col%t.tabWidth == 0
}
