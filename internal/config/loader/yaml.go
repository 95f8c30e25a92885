package loader

import (
	"gopkg.in/yaml.v3"
)

// YAMLLoader reads a YAML settings file.
type YAMLLoader struct {
	fileLoader
}

// NewYAMLLoader returns a loader for path on fsys, or on the operating
// system when fsys is nil.
func NewYAMLLoader(fsys FileSystem, path string) *YAMLLoader {
	return &YAMLLoader{fileLoader{fs: orOS(fsys), path: path, decode: decodeYAML}}
}

func decodeYAML(data []byte) (map[string]any, error) {
	var m map[string]any
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return normalizeYAML(m), nil
}

// normalizeYAML converts the map[any]any tables that YAML can produce for
// non-string keys into map[string]any so DeepMerge treats them as tables.
func normalizeYAML(m map[string]any) map[string]any {
	for k, v := range m {
		m[k] = normalizeValue(v)
	}
	return m
}

func normalizeValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return normalizeYAML(t)
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[toString(k)] = normalizeValue(val)
		}
		return out
	case []any:
		for i := range t {
			t[i] = normalizeValue(t[i])
		}
		return t
	default:
		return v
	}
}

func toString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	b, _ := yaml.Marshal(v)
	return string(trimNewline(b))
}

func trimNewline(b []byte) []byte {
	for len(b) > 0 && (b[len(b)-1] == '\n' || b[len(b)-1] == '\r') {
		b = b[:len(b)-1]
	}
	return b
}
