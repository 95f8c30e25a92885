package config

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/dshills/indentguide/internal/config/loader"
	"github.com/dshills/indentguide/internal/logging"
)

// LoadOption configures Load.
type LoadOption func(*loadOptions)

type loadOptions struct {
	fs     loader.FileSystem
	env    loader.Loader
	logger *logging.Logger
}

// skipReporter is implemented by environment loaders that ignore some
// prefixed variables.
type skipReporter interface {
	Skipped() []string
}

// WithFileSystem reads the settings file through fs.
func WithFileSystem(fs loader.FileSystem) LoadOption {
	return func(o *loadOptions) {
		o.fs = fs
	}
}

// WithEnv replaces the environment overlay. A nil loader disables it.
func WithEnv(env loader.Loader) LoadOption {
	return func(o *loadOptions) {
		o.env = env
	}
}

// WithLogger reports environment variables that were ignored.
func WithLogger(logger *logging.Logger) LoadOption {
	return func(o *loadOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// Load builds settings from the defaults, the file at path (TOML, or YAML
// for .yaml and .yml), and the INDENTGUIDE_ environment, in increasing
// precedence. An empty path or a missing file leaves the defaults in place.
// Prefixed variables outside the settings sections are logged and ignored.
// The result is validated.
func Load(path string, opts ...LoadOption) (*Settings, error) {
	o := loadOptions{
		env:    loader.NewEnvLoader(loader.DefaultEnvPrefix),
		logger: logging.Discard(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	merged := map[string]any{}
	if path != "" {
		fileMap, err := loader.ForPath(o.fs, path).Load()
		if err != nil {
			return nil, err
		}
		merged = loader.DeepMerge(merged, fileMap)
	}
	if o.env != nil {
		envMap, err := o.env.Load()
		if err != nil {
			return nil, fmt.Errorf("loading environment: %w", err)
		}
		if sr, ok := o.env.(skipReporter); ok {
			for _, name := range sr.Skipped() {
				o.logger.Warn("ignoring environment variable %s: not a setting", name)
			}
		}
		merged = loader.DeepMerge(merged, envMap)
	}

	s, err := Decode(merged)
	if err != nil {
		return nil, err
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Decode applies a settings map over the defaults. Unknown keys and values
// of the wrong type are reported as *ValidationError. Decode does not
// validate ranges.
func Decode(m map[string]any) (*Settings, error) {
	s := Default()
	if len(m) == 0 {
		return s, nil
	}

	data, err := toml.Marshal(dropNil(m))
	if err != nil {
		return nil, &ValidationError{Key: "settings", Message: err.Error(), Code: CodeWrongType}
	}

	dec := toml.NewDecoder(bytes.NewReader(data)).DisallowUnknownFields()
	if err := dec.Decode(s); err != nil {
		return nil, decodeError(err)
	}
	return s, nil
}

func decodeError(err error) error {
	var strict *toml.StrictMissingError
	if errors.As(err, &strict) {
		errs := make([]error, 0, len(strict.Errors))
		for i := range strict.Errors {
			errs = append(errs, &ValidationError{
				Key:     strings.Join(strict.Errors[i].Key(), "."),
				Message: "unknown setting",
				Code:    CodeUnknownKey,
			})
		}
		return errors.Join(errs...)
	}

	var de *toml.DecodeError
	if errors.As(err, &de) {
		return &ValidationError{
			Key:     strings.Join(de.Key(), "."),
			Message: de.Error(),
			Code:    CodeWrongType,
		}
	}
	return &ValidationError{Key: "settings", Message: err.Error(), Code: CodeWrongType}
}

// dropNil removes null values, which YAML allows and TOML cannot encode.
func dropNil(m map[string]any) map[string]any {
	for k, v := range m {
		switch t := v.(type) {
		case nil:
			delete(m, k)
		case map[string]any:
			m[k] = dropNil(t)
		}
	}
	return m
}
