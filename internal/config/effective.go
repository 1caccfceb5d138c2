package config

import (
	"fmt"
	"strings"
)

type ValidationError struct {
	Path   string
	Source Source
	Err    error
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Source.Kind == SourceFile && e.Source.File != "" && e.Source.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s: %v", e.Source.File, e.Source.Line, e.Source.Column, e.Path, e.Err)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// BuildEffectiveConfig applies raw on top of the defaults.
func BuildEffectiveConfig(raw RawConfig) (*Config, error) {
	cfg := DefaultConfig()

	if raw.Display != nil {
		cfg.Display = strings.TrimSpace(*raw.Display)
	}
	if raw.LogLevel != nil {
		cfg.LogLevel = strings.ToLower(strings.TrimSpace(*raw.LogLevel))
	}
	if raw.FollowFocus != nil {
		cfg.FollowFocus = *raw.FollowFocus
	}
	if raw.IncludeDecorations != nil {
		cfg.IncludeDecorations = *raw.IncludeDecorations
	}
	if raw.IgnoreClasses != nil {
		cfg.IgnoreClasses = make([]string, 0, len(raw.IgnoreClasses))
		for _, class := range raw.IgnoreClasses {
			cfg.IgnoreClasses = append(cfg.IgnoreClasses, strings.TrimSpace(class))
		}
	}
	if raw.HideOnFullscreen != nil {
		cfg.HideOnFullscreen = *raw.HideOnFullscreen
	}
	if raw.HighlightTimeout != nil {
		cfg.HighlightTimeout = *raw.HighlightTimeout
	}
	if raw.ToggleHotkey != nil {
		cfg.ToggleHotkey = strings.TrimSpace(*raw.ToggleHotkey)
	}

	return cfg, nil
}
