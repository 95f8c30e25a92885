package config

import (
	"errors"
	"fmt"

	"github.com/dshills/indentguide/internal/config/loader"
)

var (
	// ErrValidationFailed matches every *ValidationError via errors.Is.
	ErrValidationFailed = errors.New("validation failed")

	// ErrInvalidColor is wrapped by ParseRGB.
	ErrInvalidColor = errors.New("invalid color")
)

// ParseError is returned when a settings file cannot be parsed.
type ParseError = loader.ParseError

// Code classifies a ValidationError.
type Code uint8

const (
	CodeUnknownKey Code = iota // key not in the schema
	CodeWrongType              // value has the wrong TOML/YAML type
	CodeOutOfRange
	CodeNotAllowed // not one of the permitted values
	CodeMalformed  // string in the wrong shape, such as a color
)

var codeNames = [...]string{
	CodeUnknownKey: "unknown key",
	CodeWrongType:  "wrong type",
	CodeOutOfRange: "out of range",
	CodeNotAllowed: "not allowed",
	CodeMalformed:  "malformed",
}

func (c Code) String() string {
	if int(c) < len(codeNames) {
		return codeNames[c]
	}
	return fmt.Sprintf("Code(%d)", c)
}

// ValidationError reports one bad setting. Key is the dotted path as it
// appears in a settings file, e.g. "guide.line.alpha".
type ValidationError struct {
	Key     string
	Value   any
	Code    Code
	Message string
}

func (e *ValidationError) Error() string {
	if e.Value == nil {
		return fmt.Sprintf("%s: %s", e.Key, e.Message)
	}
	return fmt.Sprintf("%s = %v: %s", e.Key, e.Value, e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidationFailed
}
