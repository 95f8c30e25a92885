package loader

import (
	"encoding/json"
	"os"
	"slices"
	"strconv"
	"strings"
)

// DefaultEnvPrefix is the prefix of every environment variable the
// EnvLoader considers.
const DefaultEnvPrefix = "INDENTGUIDE_"

// EnvLoader reads settings from prefixed environment variables.
//
// A variable is first looked up (without its prefix) in the alias table;
// anything else is read as SECTION_SETTING_NAME and becomes
// section.settingName, so INDENTGUIDE_GUIDE_DRAW_BLANK_LINES sets
// guide.drawBlankLines. Other variables whose path falls outside the known
// sections are not settings; Skipped lists them after a Load.
type EnvLoader struct {
	prefix   string
	aliases  map[string]string // name without prefix -> settings path
	lists    map[string]bool   // paths that take "a,b,c"
	ignore   map[string]bool   // names without prefix that are not settings
	sections map[string]bool
	environ  func() []string

	skipped []string
}

// NewEnvLoader returns a loader with the standard aliases.
func NewEnvLoader(prefix string) *EnvLoader {
	return NewEnvLoaderWithMapping(prefix, defaultAliases())
}

// NewEnvLoaderWithMapping returns a loader using aliases, keyed by variable
// name without the prefix.
func NewEnvLoaderWithMapping(prefix string, aliases map[string]string) *EnvLoader {
	return &EnvLoader{
		prefix:   prefix,
		aliases:  aliases,
		lists:    map[string]bool{"guide.excludedTypes": true},
		ignore:   map[string]bool{"CONFIG": true},
		sections: map[string]bool{"guide": true, "logging": true},
		environ:  os.Environ,
	}
}

// defaultAliases covers names that do not follow SECTION_SETTING, mostly the
// nested [guide.line] table.
func defaultAliases() map[string]string {
	return map[string]string{
		"ENABLED":         "guide.enabled",
		"TAB_WIDTH":       "guide.tabWidth",
		"EXCLUDED_TYPES":  "guide.excludedTypes",
		"LOG_LEVEL":       "logging.level",
		"LINE_ALPHA":      "guide.line.alpha",
		"LINE_STYLE":      "guide.line.style",
		"LINE_WIDTH":      "guide.line.width",
		"LINE_SHIFT":      "guide.line.shift",
		"LINE_COLOR":      "guide.line.color",
		"LINE_DARK_COLOR": "guide.line.darkColor",
	}
}

// Load returns the settings found in the environment as a nested map. An
// empty value is a value, not an unset variable.
func (l *EnvLoader) Load() (map[string]any, error) {
	config := make(map[string]any)
	l.skipped = nil
	for _, kv := range l.environ() {
		key, value, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}
		name, ok := strings.CutPrefix(key, l.prefix)
		if !ok || name == "" || l.ignore[name] {
			continue
		}
		path, ok := l.aliases[name]
		if !ok {
			path = l.envToPath(key)
			if section, _, _ := strings.Cut(path, "."); !l.sections[section] {
				l.skipped = append(l.skipped, key)
				continue
			}
		}
		setByPath(config, path, l.valueFor(path, value))
	}
	return config, nil
}

// Skipped returns the prefixed variables the last Load ignored because they
// name no known settings section.
func (l *EnvLoader) Skipped() []string {
	return slices.Clone(l.skipped)
}

func (l *EnvLoader) valueFor(path, raw string) any {
	if l.lists[path] && !strings.HasPrefix(raw, "[") {
		return splitList(raw)
	}
	return l.parseValue(raw)
}

// splitList turns "go, markdown,," into [go markdown].
func splitList(s string) []any {
	out := []any{}
	for item := range strings.SplitSeq(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// envToPath converts INDENTGUIDE_GUIDE_TAB_WIDTH to guide.tabWidth.
func (l *EnvLoader) envToPath(env string) string {
	section, rest, ok := strings.Cut(strings.TrimPrefix(env, l.prefix), "_")
	section = strings.ToLower(section)
	if !ok {
		return section
	}

	var b strings.Builder
	for i, word := range strings.Split(strings.ToLower(rest), "_") {
		if word == "" {
			continue
		}
		if i > 0 {
			word = strings.ToUpper(word[:1]) + word[1:]
		}
		b.WriteString(word)
	}
	return section + "." + b.String()
}

// parseValue guesses the type of a raw value. Booleans must be spelled as
// words: "0" and "1" stay integers because tabWidth and shift are numeric.
func (l *EnvLoader) parseValue(s string) any {
	switch strings.ToLower(s) {
	case "":
		return s
	case "true", "yes", "on":
		return true
	case "false", "no", "off":
		return false
	}

	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	if strings.Contains(s, ".") {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f
		}
	}
	if strings.HasPrefix(s, "[") || strings.HasPrefix(s, "{") {
		var v any
		if json.Unmarshal([]byte(s), &v) == nil {
			return v
		}
	}
	return s
}

// setByPath stores value in data at a dotted path, creating tables as needed.
func setByPath(data map[string]any, path string, value any) {
	keys := strings.Split(path, ".")
	table := data
	for _, k := range keys[:len(keys)-1] {
		next, ok := table[k].(map[string]any)
		if !ok {
			next = make(map[string]any)
			table[k] = next
		}
		table = next
	}
	table[keys[len(keys)-1]] = value
}
