package backend

import (
	"sync"

	"github.com/gdamore/tcell/v2"
)

// Terminal is a Backend drawing to a tcell screen.
type Terminal struct {
	mu     sync.Mutex
	screen tcell.Screen
}

// NewTerminal opens the controlling terminal. Call Init before drawing.
func NewTerminal() (*Terminal, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	return NewTerminalWithScreen(screen), nil
}

// NewTerminalWithScreen wraps an existing screen, such as a
// tcell.SimulationScreen.
func NewTerminalWithScreen(screen tcell.Screen) *Terminal {
	return &Terminal{screen: screen}
}

func (t *Terminal) locked(fn func(s tcell.Screen)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fn(t.screen)
}

func (t *Terminal) Init() error {
	var err error
	t.locked(func(s tcell.Screen) {
		if err = s.Init(); err == nil {
			s.HideCursor()
		}
	})
	return err
}

func (t *Terminal) Shutdown() { t.locked(tcell.Screen.Fini) }

func (t *Terminal) Clear() { t.locked(tcell.Screen.Clear) }

func (t *Terminal) Show() { t.locked(tcell.Screen.Show) }

func (t *Terminal) Size() (w, h int) {
	t.locked(func(s tcell.Screen) { w, h = s.Size() })
	return w, h
}

// SetCell draws cell at (x, y). Continuation cells are skipped since tcell
// advances past wide runes itself.
func (t *Terminal) SetCell(x, y int, cell Cell) {
	if cell.IsContinuation() {
		return
	}
	t.locked(func(s tcell.Screen) {
		s.SetContent(x, y, cell.Rune, nil, toTcellStyle(cell.Style))
	})
}

func (t *Terminal) GetCell(x, y int) (c Cell) {
	t.locked(func(s tcell.Screen) {
		r, _, style, _ := s.GetContent(x, y) //nolint:staticcheck // no replacement in v2
		c = Cell{Rune: r, Width: RuneWidth(r), Style: fromTcellStyle(style)}
	})
	return c
}

// PollEvent blocks for the next key or resize. Resizes resync the screen
// so the next Show repaints everything.
func (t *Terminal) PollEvent() Event {
	switch ev := t.screen.PollEvent().(type) {
	case *tcell.EventKey:
		return Event{Type: EventKey, Key: fromTcellKey(ev.Key()), Rune: ev.Rune()}
	case *tcell.EventResize:
		t.locked(tcell.Screen.Sync)
		w, h := ev.Size()
		return Event{Type: EventResize, Width: w, Height: h}
	default:
		return Event{Type: EventNone}
	}
}

// PostEvent queues a key event. Other event types are dropped.
func (t *Terminal) PostEvent(ev Event) {
	if ev.Type != EventKey {
		return
	}
	_ = t.screen.PostEvent(tcell.NewEventKey(toTcellKey(ev.Key), ev.Rune, tcell.ModNone)) // queue full: drop
}

var keyTable = []struct {
	key Key
	tc  tcell.Key
}{
	{KeyNone, tcell.KeyNUL},
	{KeyRune, tcell.KeyRune},
	{KeyEscape, tcell.KeyEscape},
	{KeyEnter, tcell.KeyEnter},
	{KeyHome, tcell.KeyHome},
	{KeyEnd, tcell.KeyEnd},
	{KeyPageUp, tcell.KeyPgUp},
	{KeyPageDown, tcell.KeyPgDn},
	{KeyUp, tcell.KeyUp},
	{KeyDown, tcell.KeyDown},
	{KeyCtrlC, tcell.KeyCtrlC},
}

func fromTcellKey(k tcell.Key) Key {
	for _, e := range keyTable {
		if e.tc == k {
			return e.key
		}
	}
	return KeyNone
}

func toTcellKey(k Key) tcell.Key {
	for _, e := range keyTable {
		if e.key == k {
			return e.tc
		}
	}
	return tcell.KeyNUL
}

var attrTable = []struct {
	attr Attribute
	tc   tcell.AttrMask
}{
	{AttrBold, tcell.AttrBold},
	{AttrDim, tcell.AttrDim},
	{AttrReverse, tcell.AttrReverse},
}

func toTcellColor(c Color) tcell.Color {
	if c.IsDefault() {
		return tcell.ColorDefault
	}
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}

func fromTcellColor(c tcell.Color) Color {
	if c == tcell.ColorDefault {
		return ColorDefault
	}
	r, g, b := c.RGB()
	return ColorFromRGB(uint8(r), uint8(g), uint8(b))
}

func toTcellStyle(s Style) tcell.Style {
	var mask tcell.AttrMask
	for _, e := range attrTable {
		if s.Attributes.Has(e.attr) {
			mask |= e.tc
		}
	}
	return tcell.StyleDefault.
		Foreground(toTcellColor(s.Foreground)).
		Background(toTcellColor(s.Background)).
		Attributes(mask)
}

func fromTcellStyle(ts tcell.Style) Style {
	fg, bg, mask := ts.Decompose()
	s := Style{Foreground: fromTcellColor(fg), Background: fromTcellColor(bg)}
	for _, e := range attrTable {
		if mask&e.tc != 0 {
			s.Attributes |= e.attr
		}
	}
	return s
}
