package config

import (
	"fmt"
	"strings"
)

// Explain returns the effective value at the given YAML key and its source.
//
// Supported paths:
//
//	display
//	log_level
//	follow_focus
//	include_decorations
//	ignore_classes
//	hide_on_fullscreen
//	highlight_timeout
//	toggle_hotkey
func Explain(res *LoadResult, path string) (any, Source, error) {
	if res == nil || res.Config == nil {
		return nil, Source{}, fmt.Errorf("no config loaded")
	}
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, Source{}, fmt.Errorf("path is empty")
	}

	value, err := lookupValue(res.Config, path)
	if err != nil {
		return nil, Source{}, err
	}

	if src, ok := res.Sources[path]; ok {
		return value, src, nil
	}
	return value, Source{Kind: SourceDefault, Name: "defaults"}, nil
}

func lookupValue(cfg *Config, path string) (any, error) {
	switch path {
	case "display":
		return cfg.Display, nil
	case "log_level":
		return cfg.LogLevel, nil
	case "follow_focus":
		return cfg.FollowFocus, nil
	case "include_decorations":
		return cfg.IncludeDecorations, nil
	case "ignore_classes":
		return cfg.IgnoreClasses, nil
	case "hide_on_fullscreen":
		return cfg.HideOnFullscreen, nil
	case "highlight_timeout":
		return cfg.HighlightTimeout, nil
	case "toggle_hotkey":
		return cfg.ToggleHotkey, nil
	default:
		return nil, fmt.Errorf("unknown config path %q", path)
	}
}
