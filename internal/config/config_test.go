package config

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, dir, name, data string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return path
}

func TestDefaultConfig_Valid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected defaults to validate, got %v", err)
	}
	if !cfg.FollowFocus || !cfg.IncludeDecorations || !cfg.HideOnFullscreen {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.HighlightTimeoutDuration() != 0 {
		t.Fatalf("expected highlight_timeout 0, got %v", cfg.HighlightTimeoutDuration())
	}
}

func TestLoadFromPath_MissingFileUsesDefaults(t *testing.T) {
	res, err := LoadFromPath(filepath.Join(t.TempDir(), "config.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Config.LogLevel != "info" || len(res.Files) != 0 {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestLoadFromPath_EmptyFileUsesDefaults(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "config.yaml", "# empty\n")

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	cfg, def := res.Config, DefaultConfig()
	if cfg.LogLevel != def.LogLevel || cfg.FollowFocus != def.FollowFocus ||
		cfg.IncludeDecorations != def.IncludeDecorations || cfg.HideOnFullscreen != def.HideOnFullscreen ||
		cfg.HighlightTimeout != def.HighlightTimeout || len(cfg.IgnoreClasses) != 0 {
		t.Fatalf("expected defaults, got %+v", cfg)
	}
}

func TestLoadFromPath_AllKeys(t *testing.T) {
	data := strings.Join([]string{
		"display: \":1\"",
		"log_level: DEBUG",
		"follow_focus: false",
		"include_decorations: false",
		"ignore_classes:",
		"  - rofi",
		"  - \" Polybar \"",
		"hide_on_fullscreen: false",
		"highlight_timeout: 15",
		"toggle_hotkey: \" Mod4-Shift-f \"",
		"",
	}, "\n")
	path := writeConfig(t, t.TempDir(), "config.yaml", data)

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	cfg := res.Config
	if cfg.Display != ":1" || cfg.LogLevel != "debug" || cfg.FollowFocus || cfg.IncludeDecorations || cfg.HideOnFullscreen {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if len(cfg.IgnoreClasses) != 2 || cfg.IgnoreClasses[1] != "Polybar" {
		t.Fatalf("unexpected ignore_classes: %q", cfg.IgnoreClasses)
	}
	if cfg.HighlightTimeoutDuration() != 15*time.Second {
		t.Fatalf("unexpected highlight timeout: %v", cfg.HighlightTimeoutDuration())
	}
	if cfg.ToggleHotkey != "Mod4-Shift-f" {
		t.Fatalf("unexpected toggle_hotkey: %q", cfg.ToggleHotkey)
	}
	if cfg.SlogLevel() != slog.LevelDebug {
		t.Fatalf("unexpected slog level: %v", cfg.SlogLevel())
	}
}

func TestLoadFromPath_StrictUnknownKeyErrors(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "config.yaml", "unknown_key: 1\n")

	_, err := LoadFromPath(path)
	if err == nil {
		t.Fatalf("expected error for unknown key")
	}
	if !strings.Contains(err.Error(), "unknown_key") && !strings.Contains(err.Error(), "field") {
		t.Fatalf("expected unknown field error, got %v", err)
	}
	if !strings.Contains(err.Error(), path) {
		t.Fatalf("expected error to include file path, got %v", err)
	}
}

func TestLoadFromPath_ValidationErrorHasSource(t *testing.T) {
	tests := []struct {
		name string
		data string
		path string
		line int
	}{
		{name: "log level", data: "follow_focus: true\nlog_level: loud\n", path: "log_level", line: 2},
		{name: "timeout too large", data: "highlight_timeout: 7200\n", path: "highlight_timeout", line: 1},
		{name: "negative timeout", data: "highlight_timeout: -1\n", path: "highlight_timeout", line: 1},
		{name: "hotkey with spaces", data: "toggle_hotkey: Mod4 f\n", path: "toggle_hotkey", line: 1},
		{name: "empty ignored class", data: "ignore_classes:\n  - \"\"\n", path: "ignore_classes", line: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, t.TempDir(), "config.yaml", tt.data)
			_, err := LoadFromPath(path)

			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if verr.Path != tt.path {
				t.Fatalf("error path = %q, want %q", verr.Path, tt.path)
			}
			if verr.Source.File == "" || verr.Source.Line != tt.line {
				t.Fatalf("unexpected source %+v", verr.Source)
			}
			if !strings.HasPrefix(err.Error(), verr.Source.File+":") {
				t.Fatalf("expected file:line:col prefix, got %v", err)
			}
		})
	}
}

func TestLoadFromPath_IncludeDirectoryOrderAndMainOverrides(t *testing.T) {
	dir := t.TempDir()

	// config.d loaded first, in sorted order.
	writeConfig(t, dir, "config.d/10-base.yaml", "highlight_timeout: 5\nlog_level: error\n")
	writeConfig(t, dir, "config.d/20-override.yaml", "highlight_timeout: 6\n")
	writeConfig(t, dir, "config.d/notes.txt", "ignored: true\n")

	// Main file overrides includes.
	path := writeConfig(t, dir, "config.yaml", strings.Join([]string{
		"include:",
		"  - config.d",
		"highlight_timeout: 7",
		"",
	}, "\n"))

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Config.HighlightTimeout != 7 {
		t.Fatalf("expected highlight_timeout to be 7, got %d", res.Config.HighlightTimeout)
	}
	if res.Config.LogLevel != "error" {
		t.Fatalf("expected log_level from include, got %q", res.Config.LogLevel)
	}
	if len(res.Files) != 3 || filepath.Base(res.Files[2]) != "config.yaml" {
		t.Fatalf("unexpected load order: %v", res.Files)
	}

	value, src, err := Explain(res, "log_level")
	if err != nil {
		t.Fatalf("explain: %v", err)
	}
	if value != "error" || filepath.Base(src.File) != "10-base.yaml" {
		t.Fatalf("explain log_level = %v from %+v", value, src)
	}
}

func TestLoadFromPath_IncludeMissingPathHasContext(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "config.yaml", "include:\n  - missing.yaml\n")

	_, err := LoadFromPath(path)
	if err == nil {
		t.Fatalf("expected error")
	}
	if !strings.Contains(err.Error(), "include") || !strings.Contains(err.Error(), "missing.yaml") {
		t.Fatalf("expected include error, got %v", err)
	}
	if !strings.Contains(err.Error(), path+":") {
		t.Fatalf("expected error to include file:line:col prefix, got %v", err)
	}
}

func TestLoadFromPath_IncludeCycleDetection(t *testing.T) {
	dir := t.TempDir()
	a := writeConfig(t, dir, "a.yaml", "include: b.yaml\n")
	writeConfig(t, dir, "b.yaml", "include: a.yaml\n")

	_, err := LoadFromPath(a)
	if err == nil {
		t.Fatalf("expected cycle error")
	}
	if !strings.Contains(err.Error(), "include cycle") {
		t.Fatalf("expected cycle error, got %v", err)
	}
}

func TestLoadFromPath_IgnoreClassesReplaceAcrossIncludes(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "base.yaml", "ignore_classes: [rofi, dunst]\n")
	path := writeConfig(t, dir, "config.yaml", "include: base.yaml\nignore_classes: [mpv]\n")

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(res.Config.IgnoreClasses) != 1 || res.Config.IgnoreClasses[0] != "mpv" {
		t.Fatalf("expected main file list to replace include, got %q", res.Config.IgnoreClasses)
	}
}

func TestExplain_DefaultsAndUnknownPath(t *testing.T) {
	res, err := LoadFromPath(filepath.Join(t.TempDir(), "none.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	value, src, err := Explain(res, "follow_focus")
	if err != nil {
		t.Fatalf("explain: %v", err)
	}
	if value != true || src.Kind != SourceDefault {
		t.Fatalf("explain follow_focus = %v from %+v", value, src)
	}

	if _, _, err := Explain(res, "thickness"); err == nil {
		t.Fatal("expected unknown path error")
	}
}

func TestSlogLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"info":    slog.LevelInfo,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
	}
	for level, want := range tests {
		cfg := &Config{LogLevel: level}
		if got := cfg.SlogLevel(); got != want {
			t.Fatalf("SlogLevel(%q) = %v, want %v", level, got, want)
		}
	}
}

func TestLoadFromPath_SharedIncludeMergedOnce(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "common.yaml", "log_level: warning\nhighlight_timeout: 3\n")
	writeConfig(t, dir, "left.yaml", "include: common.yaml\nhighlight_timeout: 4\n")
	writeConfig(t, dir, "right.yaml", "include: common.yaml\n")
	path := writeConfig(t, dir, "config.yaml", "include: [left.yaml, right.yaml]\n")

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Config.HighlightTimeout != 4 {
		t.Fatalf("expected right.yaml not to reapply common.yaml, got %d", res.Config.HighlightTimeout)
	}

	var names []string
	for _, f := range res.Files {
		names = append(names, filepath.Base(f))
	}
	want := []string{"common.yaml", "left.yaml", "right.yaml", "config.yaml"}
	if strings.Join(names, ",") != strings.Join(want, ",") {
		t.Fatalf("files = %v, want %v", names, want)
	}

	tests := []struct {
		key  string
		file string
		line int
	}{
		{key: "log_level", file: "common.yaml", line: 1},
		{key: "highlight_timeout", file: "left.yaml", line: 2},
	}
	for _, tt := range tests {
		src, ok := res.Sources[tt.key]
		if !ok {
			t.Fatalf("no source for %s", tt.key)
		}
		if src.Kind != SourceFile || filepath.Base(src.File) != tt.file || src.Line != tt.line {
			t.Fatalf("%s source = %+v, want %s:%d", tt.key, src, tt.file, tt.line)
		}
	}
	if _, ok := res.Sources["include"]; ok {
		t.Fatalf("include should not be reported as a key source")
	}
}
