package backend

import (
	"strings"
	"sync"
)

// ScreenBuffer is an in-memory Backend.
type ScreenBuffer struct {
	mu     sync.RWMutex
	width  int
	height int
	cells  [][]Cell
	events chan Event
	shown  int
}

// NewScreenBuffer creates a buffer of the given size.
func NewScreenBuffer(width, height int) *ScreenBuffer {
	sb := &ScreenBuffer{
		width:  width,
		height: height,
		events: make(chan Event, 100),
	}
	sb.allocate()
	return sb
}

func (sb *ScreenBuffer) allocate() {
	sb.cells = make([][]Cell, sb.height)
	for y := range sb.cells {
		sb.cells[y] = make([]Cell, sb.width)
		for x := range sb.cells[y] {
			sb.cells[y][x] = EmptyCell()
		}
	}
}

func (sb *ScreenBuffer) Init() error { return nil }
func (sb *ScreenBuffer) Shutdown()   {}

func (sb *ScreenBuffer) Size() (int, int) {
	sb.mu.RLock()
	defer sb.mu.RUnlock()
	return sb.width, sb.height
}

// Resize changes the dimensions, clearing the contents, and queues a
// resize event.
func (sb *ScreenBuffer) Resize(width, height int) {
	sb.mu.Lock()
	sb.width, sb.height = width, height
	sb.allocate()
	sb.mu.Unlock()
	sb.PostEvent(Event{Type: EventResize, Width: width, Height: height})
}

func (sb *ScreenBuffer) SetCell(x, y int, cell Cell) {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	if x >= 0 && x < sb.width && y >= 0 && y < sb.height {
		sb.cells[y][x] = cell
	}
}

func (sb *ScreenBuffer) GetCell(x, y int) Cell {
	sb.mu.RLock()
	defer sb.mu.RUnlock()
	if x >= 0 && x < sb.width && y >= 0 && y < sb.height {
		return sb.cells[y][x]
	}
	return EmptyCell()
}

func (sb *ScreenBuffer) Clear() {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	empty := EmptyCell()
	for y := range sb.cells {
		for x := range sb.cells[y] {
			sb.cells[y][x] = empty
		}
	}
}

func (sb *ScreenBuffer) Show() {
	sb.mu.Lock()
	sb.shown++
	sb.mu.Unlock()
}

// ShowCount returns how many times Show was called.
func (sb *ScreenBuffer) ShowCount() int {
	sb.mu.RLock()
	defer sb.mu.RUnlock()
	return sb.shown
}

func (sb *ScreenBuffer) PollEvent() Event {
	return <-sb.events
}

func (sb *ScreenBuffer) PostEvent(event Event) {
	select {
	case sb.events <- event:
	default:
		// Dropped if the queue is full
	}
}

// Row returns the text of row y with trailing spaces removed.
// Continuation cells are skipped.
func (sb *ScreenBuffer) Row(y int) string {
	sb.mu.RLock()
	defer sb.mu.RUnlock()
	if y < 0 || y >= sb.height {
		return ""
	}
	var b strings.Builder
	for _, c := range sb.cells[y] {
		if c.IsContinuation() {
			continue
		}
		b.WriteRune(c.Rune)
	}
	return strings.TrimRight(b.String(), " ")
}

// String returns all rows joined by newlines.
func (sb *ScreenBuffer) String() string {
	_, h := sb.Size()
	rows := make([]string, h)
	for y := range rows {
		rows[y] = sb.Row(y)
	}
	return strings.Join(rows, "\n")
}
