// Package contenttype names the content type of a document and decides
// whether guides are suppressed for it.
//
// Type names are chroma lexer names folded to lower case, so "go",
// "markdown" and "plaintext" are typical values. Aliases accepted by
// chroma ("golang", "md", "text") resolve to the same name.
package contenttype

import (
	"path/filepath"
	"strings"

	"github.com/alecthomas/chroma/v2/lexers"
)

// PlainText is the type of content nothing else recognizes.
const PlainText = "plaintext"

// Detect returns the content type for a document, trying the file name
// first and then the content itself.
func Detect(name, content string) string {
	if name != "" {
		if l := lexers.Match(filepath.Base(name)); l != nil {
			return fold(l.Config().Name)
		}
	}
	if content != "" {
		if l := lexers.Analyse(content); l != nil {
			return fold(l.Config().Name)
		}
	}
	return PlainText
}

// Canonical resolves an alias to its type name. Unknown names are folded
// to lower case and returned as is.
func Canonical(name string) string {
	name = strings.TrimSpace(name)
	if l := lexers.Get(name); l != nil {
		return fold(l.Config().Name)
	}
	return fold(name)
}

func fold(s string) string {
	return strings.ToLower(s)
}

// Filter excludes a fixed set of content types.
type Filter struct {
	excluded map[string]bool
}

// NewFilter returns a filter that excludes the given types.
func NewFilter(types []string) *Filter {
	f := &Filter{excluded: make(map[string]bool, len(types))}
	for _, t := range types {
		if t = strings.TrimSpace(t); t != "" {
			f.excluded[Canonical(t)] = true
		}
	}
	return f
}

// Excluded reports whether typ is excluded.
func (f *Filter) Excluded(typ string) bool {
	if f == nil {
		return false
	}
	return f.excluded[Canonical(typ)]
}

// Allows detects the type of a document and reports whether guides
// should be drawn for it, along with the detected type.
func (f *Filter) Allows(name, content string) (typ string, ok bool) {
	typ = Detect(name, content)
	return typ, !f.Excluded(typ)
}
