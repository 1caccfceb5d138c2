package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// IncludeList supports either:
//
//	include: "/path/to/file.yaml"
//
// or:
//
//	include:
//	  - "/path/to/file.yaml"
//	  - "/path/to/dir"
type IncludeList []string

func (l *IncludeList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case 0:
		// Not present.
		*l = nil
		return nil
	case yaml.ScalarNode:
		if value.Tag != "!!str" {
			return fmt.Errorf("include must be a string or list of strings")
		}
		*l = []string{value.Value}
		return nil
	case yaml.SequenceNode:
		out := make([]string, 0, len(value.Content))
		for _, item := range value.Content {
			if item.Kind != yaml.ScalarNode || item.Tag != "!!str" {
				return fmt.Errorf("include entries must be strings")
			}
			out = append(out, item.Value)
		}
		*l = out
		return nil
	default:
		return fmt.Errorf("include must be a string or list of strings")
	}
}

// RawConfig is one file's worth of settings; nil means "not set here".
type RawConfig struct {
	Include            IncludeList `yaml:"include"`
	Display            *string     `yaml:"display"`
	LogLevel           *string     `yaml:"log_level"`
	FollowFocus        *bool       `yaml:"follow_focus"`
	IncludeDecorations *bool       `yaml:"include_decorations"`
	IgnoreClasses      []string    `yaml:"ignore_classes"`
	HideOnFullscreen   *bool       `yaml:"hide_on_fullscreen"`
	HighlightTimeout   *int        `yaml:"highlight_timeout"`
	ToggleHotkey       *string     `yaml:"toggle_hotkey"`
}

func (c RawConfig) merge(overlay RawConfig) RawConfig {
	out := c

	if overlay.Display != nil {
		out.Display = overlay.Display
	}
	if overlay.LogLevel != nil {
		out.LogLevel = overlay.LogLevel
	}
	if overlay.FollowFocus != nil {
		out.FollowFocus = overlay.FollowFocus
	}
	if overlay.IncludeDecorations != nil {
		out.IncludeDecorations = overlay.IncludeDecorations
	}
	// Lists replace rather than append.
	if overlay.IgnoreClasses != nil {
		out.IgnoreClasses = overlay.IgnoreClasses
	}
	if overlay.HideOnFullscreen != nil {
		out.HideOnFullscreen = overlay.HideOnFullscreen
	}
	if overlay.HighlightTimeout != nil {
		out.HighlightTimeout = overlay.HighlightTimeout
	}
	if overlay.ToggleHotkey != nil {
		out.ToggleHotkey = overlay.ToggleHotkey
	}

	return out
}
