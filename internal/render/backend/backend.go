// Package backend abstracts the cell grid that guides are painted into.
//
// Terminal draws through tcell. ScreenBuffer keeps the grid in memory and
// is what tests and the text exporter paint into.
package backend

// Backend is a grid of cells plus an input queue. Coordinates are 0-based
// columns and rows; writes outside the grid are dropped.
type Backend interface {
	Init() error
	Shutdown()

	Size() (width, height int)
	SetCell(x, y int, cell Cell)
	// GetCell returns EmptyCell outside the grid.
	GetCell(x, y int) Cell
	Clear()
	// Show makes everything set since the last Show visible.
	Show()

	// PollEvent blocks until input arrives.
	PollEvent() Event
	// PostEvent injects input, typically to wake a blocked PollEvent.
	PostEvent(ev Event)
}

type EventType uint8

const (
	EventNone EventType = iota
	EventKey
	EventResize
)

// Key is one of the keys the viewer binds. Unbound keys arrive as KeyNone,
// printable ones as KeyRune with Event.Rune set.
type Key uint8

const (
	KeyNone Key = iota
	KeyRune
	KeyEscape
	KeyEnter
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown
	KeyUp
	KeyDown
	KeyCtrlC
)

// Event is a key press or a resize to Width x Height.
type Event struct {
	Type EventType
	Key  Key
	Rune rune

	Width, Height int
}
