package config

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/dshills/indentguide/internal/logging"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

func TestLoad_NoFile(t *testing.T) {
	s, err := Load("", WithEnv(nil))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if s.Guide.TabWidth != Default().Guide.TabWidth {
		t.Errorf("expected defaults, got %+v", s.Guide)
	}

	s, err = Load(filepath.Join(t.TempDir(), "missing.toml"), WithEnv(nil))
	if err != nil {
		t.Fatalf("missing file should not be an error: %v", err)
	}
	if !s.Guide.Enabled {
		t.Error("expected defaults for missing file")
	}
}

func TestLoad_TOML(t *testing.T) {
	path := writeFile(t, "indentguide.toml", `
[guide]
tabWidth = 2
drawLeadingEdge = true
excludedTypes = ["markdown", "plaintext"]

[guide.line]
style = "dot"
color = "#aabbcc"

[logging]
level = "debug"
`)

	s, err := Load(path, WithEnv(nil))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if s.Guide.TabWidth != 2 {
		t.Errorf("TabWidth: expected 2, got %d", s.Guide.TabWidth)
	}
	if !s.Guide.DrawLeadingEdge {
		t.Error("expected DrawLeadingEdge")
	}
	if !s.Guide.DrawBlankLines {
		t.Error("unset keys should keep their defaults")
	}
	if len(s.Guide.ExcludedTypes) != 2 || s.Guide.ExcludedTypes[1] != "plaintext" {
		t.Errorf("ExcludedTypes = %v", s.Guide.ExcludedTypes)
	}
	if s.Guide.Line.Style != StyleDot || s.Guide.Line.Color != "#aabbcc" {
		t.Errorf("Line = %+v", s.Guide.Line)
	}
	if s.Guide.Line.Shift != 2 {
		t.Errorf("Shift: expected default 2, got %d", s.Guide.Line.Shift)
	}
	if s.Logging.Level != "debug" {
		t.Errorf("Level: expected debug, got %s", s.Logging.Level)
	}
}

func TestLoad_YAML(t *testing.T) {
	path := writeFile(t, "indentguide.yml", `
guide:
  tabWidth: 8
  drawCommentBlocks: true
  excludedTypes:
  line:
    alpha: 128
`)

	s, err := Load(path, WithEnv(nil))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if s.Guide.TabWidth != 8 || !s.Guide.DrawCommentBlocks {
		t.Errorf("Guide = %+v", s.Guide)
	}
	if s.Guide.Line.Alpha != 128 {
		t.Errorf("Alpha: expected 128, got %d", s.Guide.Line.Alpha)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeFile(t, "indentguide.toml", "[guide]\ntabWidth = 2\ndrawBlankLines = true\n")
	t.Setenv("INDENTGUIDE_TAB_WIDTH", "3")
	t.Setenv("INDENTGUIDE_GUIDE_DRAW_BLANK_LINES", "false")
	t.Setenv("INDENTGUIDE_EXCLUDED_TYPES", "go,rust")

	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if s.Guide.TabWidth != 3 {
		t.Errorf("TabWidth: expected 3 from env, got %d", s.Guide.TabWidth)
	}
	if s.Guide.DrawBlankLines {
		t.Error("expected env to disable DrawBlankLines")
	}
	if len(s.Guide.ExcludedTypes) != 2 || s.Guide.ExcludedTypes[0] != "go" {
		t.Errorf("ExcludedTypes = %v", s.Guide.ExcludedTypes)
	}
}

func TestLoad_ZeroTabWidthRejected(t *testing.T) {
	path := writeFile(t, "indentguide.toml", "[guide]\ntabWidth = 0\n")

	_, err := Load(path, WithEnv(nil))
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected *ValidationError, got %v", err)
	}
	if ve.Key != "guide.tabWidth" || ve.Code != CodeOutOfRange {
		t.Errorf("unexpected error: %+v", ve)
	}
}

func TestLoad_UnknownSetting(t *testing.T) {
	path := writeFile(t, "indentguide.toml", "[guide]\nbogus = 1\n")

	_, err := Load(path, WithEnv(nil))
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected *ValidationError, got %v", err)
	}
	if ve.Code != CodeUnknownKey {
		t.Errorf("Code: expected unknown key, got %s", ve.Code)
	}
	if !strings.Contains(ve.Key, "bogus") {
		t.Errorf("Key: expected to name bogus, got %q", ve.Key)
	}
}

func TestLoad_TypeMismatch(t *testing.T) {
	path := writeFile(t, "indentguide.toml", "[guide]\ntabWidth = \"four\"\n")

	_, err := Load(path, WithEnv(nil))
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected *ValidationError, got %v", err)
	}
	if ve.Code != CodeWrongType {
		t.Errorf("Code: expected wrong type, got %s", ve.Code)
	}
}

func TestLoad_ParseError(t *testing.T) {
	path := writeFile(t, "indentguide.toml", "[guide\n")

	_, err := Load(path, WithEnv(nil))
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected *ParseError, got %T (%v)", err, err)
	}
	if pe.Path != path {
		t.Errorf("Path: expected %s, got %s", path, pe.Path)
	}
}

func TestLoad_FileSystemOption(t *testing.T) {
	fsys := fstest.MapFS{"conf.toml": {Data: []byte("[guide.line]\nwidth = 3\n")}}

	s, err := Load("conf.toml", WithFileSystem(fsys), WithEnv(nil))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if s.Guide.Line.Width != 3 {
		t.Errorf("Width: expected 3, got %d", s.Guide.Line.Width)
	}
}

func TestLoad_EnvIgnoresOtherVariables(t *testing.T) {
	t.Setenv("INDENTGUIDE_HOME", "/opt/ig")
	t.Setenv("INDENTGUIDE_TAB_WIDTH", "8")

	var buf bytes.Buffer
	logger := logging.New(logging.Config{Level: logging.LevelWarn, Output: &buf})

	s, err := Load("", WithLogger(logger))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if s.Guide.TabWidth != 8 {
		t.Errorf("TabWidth: expected 8, got %d", s.Guide.TabWidth)
	}
	if !strings.Contains(buf.String(), "[WARN]") || !strings.Contains(buf.String(), "INDENTGUIDE_HOME") {
		t.Errorf("expected a warning naming INDENTGUIDE_HOME, got %q", buf.String())
	}
}

func TestLoad_EnvUnknownGuideSetting(t *testing.T) {
	t.Setenv("INDENTGUIDE_GUIDE_BOGUS", "1")

	_, err := Load("")
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected *ValidationError, got %v", err)
	}
	if ve.Code != CodeUnknownKey {
		t.Errorf("Code: expected unknown key, got %s", ve.Code)
	}
}

func TestDecode_Empty(t *testing.T) {
	s, err := Decode(nil)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if s.Guide.TabWidth != 4 {
		t.Errorf("expected defaults, got %+v", s.Guide)
	}
}
