package loader

import (
	"errors"

	"github.com/pelletier/go-toml/v2"
)

// TOMLLoader reads a TOML settings file.
type TOMLLoader struct {
	fileLoader
}

// NewTOMLLoader returns a loader for path on fsys, or on the operating
// system when fsys is nil.
func NewTOMLLoader(fsys FileSystem, path string) *TOMLLoader {
	return &TOMLLoader{fileLoader{fs: orOS(fsys), path: path, decode: decodeTOML}}
}

func decodeTOML(data []byte) (map[string]any, error) {
	var m map[string]any
	if err := toml.Unmarshal(data, &m); err != nil {
		var de *toml.DecodeError
		if errors.As(err, &de) {
			row, col := de.Position()
			return nil, &positionError{line: row, column: col, err: err}
		}
		return nil, err
	}
	return m, nil
}

// positionError carries the location of a syntax error up to parse, which
// copies it into the ParseError.
type positionError struct {
	line, column int
	err          error
}

func (e *positionError) Error() string { return e.err.Error() }
func (e *positionError) Unwrap() error { return e.err }
