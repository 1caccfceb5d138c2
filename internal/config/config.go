package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// MaxHighlightTimeout bounds highlight_timeout, in seconds.
const MaxHighlightTimeout = 3600

// Config is the effective focusframe configuration.
type Config struct {
	// Display is the X display to connect to; empty uses $DISPLAY.
	Display  string `yaml:"display,omitempty"`
	LogLevel string `yaml:"log_level"`
	// FollowFocus draws the frame around the active window.
	FollowFocus bool `yaml:"follow_focus"`
	// IncludeDecorations adds the window manager's frame extents to the
	// highlighted rectangle.
	IncludeDecorations bool     `yaml:"include_decorations"`
	IgnoreClasses      []string `yaml:"ignore_classes"`
	HideOnFullscreen   bool     `yaml:"hide_on_fullscreen"`
	// HighlightTimeout is how long, in seconds, an explicit highlight
	// overrides focus tracking. 0 keeps it until hide or resume.
	HighlightTimeout int `yaml:"highlight_timeout"`
	// ToggleHotkey hides the frame, or resumes focus tracking when it is
	// already hidden. Empty disables the binding.
	ToggleHotkey string `yaml:"toggle_hotkey"`
}

// DefaultConfig returns the configuration used when no file sets a key.
func DefaultConfig() *Config {
	return &Config{
		LogLevel:           "info",
		FollowFocus:        true,
		IncludeDecorations: true,
		IgnoreClasses:      []string{},
		HideOnFullscreen:   true,
		HighlightTimeout:   0,
		ToggleHotkey:       "",
	}
}

// Validate checks the effective values.
func (c *Config) Validate() error {
	switch c.LogLevel {
	case "debug", "info", "warning", "error":
	default:
		return &ValidationError{Path: "log_level", Err: fmt.Errorf("log_level must be one of: debug, info, warning, error")}
	}
	if c.HighlightTimeout < 0 || c.HighlightTimeout > MaxHighlightTimeout {
		return &ValidationError{Path: "highlight_timeout", Err: fmt.Errorf("highlight_timeout must be between 0 and %d", MaxHighlightTimeout)}
	}
	if strings.ContainsAny(c.ToggleHotkey, " \t") {
		return &ValidationError{Path: "toggle_hotkey", Err: fmt.Errorf("toggle_hotkey must look like Mod4-Shift-f")}
	}
	for i, class := range c.IgnoreClasses {
		if strings.TrimSpace(class) == "" {
			return &ValidationError{Path: "ignore_classes", Err: fmt.Errorf("ignore_classes[%d] is empty", i)}
		}
	}
	return nil
}

// SlogLevel maps log_level to a slog.Level.
func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// HighlightTimeoutDuration returns highlight_timeout as a duration.
func (c *Config) HighlightTimeoutDuration() time.Duration {
	return time.Duration(c.HighlightTimeout) * time.Second
}
