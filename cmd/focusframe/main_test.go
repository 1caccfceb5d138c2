package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/1broseidon/focusframe/internal/config"
	"github.com/1broseidon/focusframe/internal/ipc"
)

func TestParseHighlightArgs(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		code     int
		want     ipc.HighlightPayload
		duration *int
		monitor  *int
	}{
		{
			name: "plain",
			args: []string{"10", "20", "300", "200"},
			code: -1,
			want: ipc.HighlightPayload{X: 10, Y: 20, Width: 300, Height: 200},
		},
		{
			name:     "duration and monitor",
			args:     []string{"--duration", "0", "--monitor", "1", "0", "0", "50", "60"},
			code:     -1,
			want:     ipc.HighlightPayload{Width: 50, Height: 60},
			duration: intPtr(0),
			monitor:  intPtr(1),
		},
		{name: "negative origin parsed as flag", args: []string{"-10", "-5", "20", "20"}, code: 2},
		{
			name: "negative origin after separator",
			args: []string{"--", "-10", "-5", "20", "20"},
			code: -1,
			want: ipc.HighlightPayload{X: -10, Y: -5, Width: 20, Height: 20},
		},
		{name: "missing args", args: []string{"1", "2", "3"}, code: 2},
		{name: "not a number", args: []string{"1", "2", "three", "4"}, code: 2},
		{name: "zero size", args: []string{"0", "0", "0", "10"}, code: 2},
		{name: "help", args: []string{"--help"}, code: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stderr bytes.Buffer
			got, code := parseHighlightArgs(tt.args, &stderr)
			if code != tt.code {
				t.Fatalf("code = %d, want %d (stderr: %s)", code, tt.code, stderr.String())
			}
			if code >= 0 {
				return
			}
			if got.X != tt.want.X || got.Y != tt.want.Y || got.Width != tt.want.Width || got.Height != tt.want.Height {
				t.Fatalf("payload = %+v, want %+v", got, tt.want)
			}
			if !equalIntPtr(got.DurationSeconds, tt.duration) || !equalIntPtr(got.Monitor, tt.monitor) {
				t.Fatalf("duration=%v monitor=%v", got.DurationSeconds, got.Monitor)
			}
		})
	}
}

func TestRenderStatusPlain(t *testing.T) {
	var buf bytes.Buffer
	renderStatus(&buf, &ipc.StatusData{
		Mode:      "pinned",
		Visible:   true,
		Allocated: true,
		Bounds:    ipc.Region{X: 10, Y: 20, Width: 300, Height: 200},
		Redraws:   2,
	}, false)

	out := buf.String()
	for _, want := range []string{
		"mode: pinned\n",
		"visible: true\n",
		"bounds: 300x200+10+20\n",
		"focus: -\n",
		"pinned_until: until hide/resume\n",
		"redraws: 2\n",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in:\n%s", want, out)
		}
	}
}

func TestRenderStatusStyledKeepsValues(t *testing.T) {
	var buf bytes.Buffer
	renderStatus(&buf, &ipc.StatusData{Mode: "focus", Focus: ipc.Region{Width: 5, Height: 6}}, true)
	if out := buf.String(); !strings.Contains(out, "focus") || !strings.Contains(out, "5x6+0+0") {
		t.Fatalf("styled output lost values:\n%s", out)
	}
}

func TestRenderMonitorsPlain(t *testing.T) {
	var buf bytes.Buffer
	renderMonitors(&buf, []ipc.MonitorInfo{{ID: 1, Name: "DP-1", X: 1920, Width: 2560, Height: 1440}}, false)
	if got, want := buf.String(), "1\tDP-1\t2560x1440+1920+0\n"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}

	buf.Reset()
	renderMonitors(&buf, nil, false)
	if buf.String() != "no monitors\n" {
		t.Fatalf("unexpected empty output %q", buf.String())
	}
}

func TestFormatSource(t *testing.T) {
	tests := []struct {
		src  config.Source
		want string
	}{
		{config.Source{Kind: config.SourceFile, File: "/x.yaml", Line: 3, Column: 5}, "file:/x.yaml:3:5"},
		{config.Source{Kind: config.SourceFile, File: "/x.yaml"}, "file:/x.yaml"},
		{config.Source{Kind: config.SourceDefault, Name: "defaults"}, "default:defaults"},
		{config.Source{Kind: config.SourceDefault}, "default"},
	}
	for _, tt := range tests {
		if got := formatSource(tt.src); got != tt.want {
			t.Errorf("formatSource(%+v) = %q, want %q", tt.src, got, tt.want)
		}
	}
}

func TestTrackerConfigFromConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.IgnoreClasses = []string{"rofi"}
	cfg.HideOnFullscreen = false

	tc := trackerConfig(cfg)
	if !tc.FollowFocus || !tc.IncludeDecorations || tc.HideOnFullscreen || len(tc.IgnoreClasses) != 1 {
		t.Fatalf("unexpected tracker config: %+v", tc)
	}
}

func intPtr(v int) *int { return &v }

func equalIntPtr(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
