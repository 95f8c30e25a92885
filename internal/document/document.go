// Package document holds the text that guides are computed over.
//
// A Document is an editable, line-addressed text with a revision counter.
// Redraw passes read from a Snapshot, which never changes once taken, so a
// pass always sees a stable LineSource even while the document is edited.
package document

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
)

// LineEnding specifies the line ending style.
type LineEnding uint8

const (
	LineEndingLF   LineEnding = iota // Unix: \n
	LineEndingCRLF                   // Windows: \r\n
	LineEndingCR                     // Old Mac: \r
)

// String returns the escaped form of the line ending.
func (le LineEnding) String() string {
	switch le {
	case LineEndingCRLF:
		return "\\r\\n"
	case LineEndingCR:
		return "\\r"
	default:
		return "\\n"
	}
}

// Sequence returns the actual line ending characters.
func (le LineEnding) Sequence() string {
	switch le {
	case LineEndingCRLF:
		return "\r\n"
	case LineEndingCR:
		return "\r"
	default:
		return "\n"
	}
}

// DetectLineEnding returns the most common line ending in text.
// Returns LineEndingLF if no line endings are found.
func DetectLineEnding(text string) LineEnding {
	var lf, crlf, cr int
	for i := 0; i < len(text); i++ {
		switch {
		case text[i] == '\r' && i+1 < len(text) && text[i+1] == '\n':
			crlf++
			i++
		case text[i] == '\r':
			cr++
		case text[i] == '\n':
			lf++
		}
	}

	switch {
	case crlf > 0 && crlf >= lf && crlf >= cr:
		return LineEndingCRLF
	case cr > 0 && cr >= lf:
		return LineEndingCR
	default:
		return LineEndingLF
	}
}

// SplitLines splits text on any of \r\n, \n or \r. The terminators are
// dropped. Text ending in a terminator yields a final empty line, as an
// editor would show it.
func SplitLines(text string) []string {
	lines := make([]string, 0, strings.Count(text, "\n")+1)
	start := 0
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '\n':
			lines = append(lines, text[start:i])
			start = i + 1
		case '\r':
			lines = append(lines, text[start:i])
			if i+1 < len(text) && text[i+1] == '\n' {
				i++
			}
			start = i + 1
		}
	}
	return append(lines, text[start:])
}

// Document is a thread-safe, line-addressed text.
type Document struct {
	mu         sync.RWMutex
	name       string
	lines      []string
	lineEnding LineEnding
	revision   uint64
}

// New creates a document with the given name and content.
func New(name, text string) *Document {
	return &Document{
		name:       name,
		lines:      SplitLines(text),
		lineEnding: DetectLineEnding(text),
	}
}

// NewFromReader reads a whole document from r.
func NewFromReader(name string, r io.Reader) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", name, err)
	}
	return New(name, string(data)), nil
}

// Open reads a document from a file.
func Open(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return NewFromReader(path, f)
}

// Name returns the document name, usually its path.
func (d *Document) Name() string {
	return d.name
}

// LineCount returns the number of lines.
func (d *Document) LineCount() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.lines)
}

// LineText returns the text of a line without its terminator. Out of range
// lines are empty.
func (d *Document) LineText(line int) string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if line < 0 || line >= len(d.lines) {
		return ""
	}
	return d.lines[line]
}

// Text returns the full content joined with the detected line ending.
func (d *Document) Text() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return strings.Join(d.lines, d.lineEnding.Sequence())
}

// LineEnding returns the detected line ending style.
func (d *Document) LineEnding() LineEnding {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.lineEnding
}

// Revision returns a counter that increases with every edit.
func (d *Document) Revision() uint64 {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.revision
}

// SetText replaces the whole content.
func (d *Document) SetText(text string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.lines = SplitLines(text)
	d.lineEnding = DetectLineEnding(text)
	d.revision++
}

// ReplaceLines replaces lines [start, end) with the given lines.
func (d *Document) ReplaceLines(start, end int, lines []string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if start < 0 || end < start || end > len(d.lines) {
		return fmt.Errorf("%w: [%d, %d) of %d lines", ErrRangeInvalid, start, end, len(d.lines))
	}

	replaced := make([]string, 0, len(d.lines)-(end-start)+len(lines))
	replaced = append(replaced, d.lines[:start]...)
	replaced = append(replaced, lines...)
	replaced = append(replaced, d.lines[end:]...)
	d.lines = replaced
	d.revision++
	return nil
}

// Snapshot returns a read-only copy of the current content.
func (d *Document) Snapshot() *Snapshot {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return &Snapshot{
		lines:    append([]string(nil), d.lines...),
		revision: d.revision,
	}
}

// Snapshot is an immutable view of a document at one revision.
// It is safe for concurrent use.
type Snapshot struct {
	lines    []string
	revision uint64
}

// LineCount returns the number of lines.
func (s *Snapshot) LineCount() int {
	return len(s.lines)
}

// LineText returns the text of a line without its terminator.
func (s *Snapshot) LineText(line int) string {
	if line < 0 || line >= len(s.lines) {
		return ""
	}
	return s.lines[line]
}

// Revision returns the document revision the snapshot was taken at.
func (s *Snapshot) Revision() uint64 {
	return s.revision
}
