// Package loader reads settings sources into generic maps.
//
// TOML and YAML files and INDENTGUIDE_* environment variables all load into
// map[string]any trees that DeepMerge layers together before the config
// package decodes the result into typed settings.
package loader

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Loader produces one settings layer. A source that does not exist yields
// a nil map and no error.
type Loader interface {
	Load() (map[string]any, error)
}

// FileSystem is where settings files are read from. fstest.MapFS satisfies
// it directly.
type FileSystem interface {
	ReadFile(name string) ([]byte, error)
}

type osFS struct{}

func (osFS) ReadFile(name string) ([]byte, error) { return os.ReadFile(name) }

func orOS(fsys FileSystem) FileSystem {
	if fsys == nil {
		return osFS{}
	}
	return fsys
}

// fileLoader reads one file and hands its bytes to a format decoder.
type fileLoader struct {
	fs     FileSystem
	path   string
	decode func([]byte) (map[string]any, error)
}

func (l *fileLoader) Load() (map[string]any, error) {
	data, err := l.fs.ReadFile(l.path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return nil, nil
	case err != nil:
		return nil, fmt.Errorf("reading settings file: %w", err)
	}

	m, err := l.decode(data)
	if err != nil {
		pe := &ParseError{Path: l.path, Message: err.Error(), Err: err}
		if pos := (*positionError)(nil); errors.As(err, &pos) {
			pe.Line, pe.Column = pos.line, pos.column
		}
		return nil, pe
	}
	return m, nil
}

// ForPath picks the loader for path by extension: YAML for .yaml and .yml,
// TOML otherwise. A nil fsys reads from the operating system.
func ForPath(fsys FileSystem, path string) Loader {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return NewYAMLLoader(fsys, path)
	default:
		return NewTOMLLoader(fsys, path)
	}
}

// ParseError is a settings file that is not valid TOML or YAML. Line and
// Column are 1-based and zero when the decoder gave no position.
type ParseError struct {
	Path         string
	Line, Column int
	Message      string
	Err          error
}

func (e *ParseError) Error() string {
	loc := e.Path
	if e.Line > 0 {
		loc += fmt.Sprintf(":%d", e.Line)
		if e.Column > 0 {
			loc += fmt.Sprintf(":%d", e.Column)
		}
	}
	return loc + ": " + e.Message
}

func (e *ParseError) Unwrap() error { return e.Err }

// DeepMerge layers src over dst and returns dst. Tables present on both
// sides merge key by key; any other src value replaces dst's.
func DeepMerge(dst, src map[string]any) map[string]any {
	if dst == nil {
		dst = make(map[string]any, len(src))
	}
	for k, v := range src {
		sub, isTable := v.(map[string]any)
		if have, ok := dst[k].(map[string]any); ok && isTable {
			dst[k] = DeepMerge(have, sub)
			continue
		}
		dst[k] = v
	}
	return dst
}
