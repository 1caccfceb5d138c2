package mcp

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/1broseidon/focusframe/internal/ipc"
)

type fakeDaemon struct {
	status     ipc.StatusData
	monitors   []ipc.MonitorInfo
	highlights []ipc.HighlightPayload
	hides      int
	resumes    int
	err        error
}

func (f *fakeDaemon) GetStatus() (*ipc.StatusData, error) {
	if f.err != nil {
		return nil, f.err
	}
	st := f.status
	return &st, nil
}

func (f *fakeDaemon) GetMonitors() (*ipc.MonitorsData, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &ipc.MonitorsData{Monitors: f.monitors}, nil
}

func (f *fakeDaemon) Highlight(p ipc.HighlightPayload) error {
	if f.err != nil {
		return f.err
	}
	f.highlights = append(f.highlights, p)
	return nil
}

func (f *fakeDaemon) Hide() error {
	f.hides++
	return f.err
}

func (f *fakeDaemon) Resume() error {
	f.resumes++
	f.status.Mode = "focus"
	return f.err
}

func intPtr(v int) *int { return &v }

func TestHandleHighlightRegion(t *testing.T) {
	d := &fakeDaemon{}
	s := NewServer(d, nil)

	_, out, err := s.handleHighlightRegion(context.Background(), nil, HighlightRegionInput{
		X: 10, Y: 20, Width: 300, Height: 200, DurationSeconds: intPtr(3), Monitor: intPtr(1),
	})
	if err != nil {
		t.Fatalf("highlight_region: %v", err)
	}
	if len(d.highlights) != 1 {
		t.Fatalf("expected one highlight request, got %d", len(d.highlights))
	}
	got := d.highlights[0]
	if got.X != 10 || got.Y != 20 || got.Width != 300 || got.Height != 200 || *got.DurationSeconds != 3 || *got.Monitor != 1 {
		t.Fatalf("unexpected payload: %+v", got)
	}
	if out.Highlighted != (Region{X: 10, Y: 20, Width: 300, Height: 200}) || out.Monitor == nil || *out.Monitor != 1 {
		t.Fatalf("unexpected output: %+v", out)
	}
}

func TestHandleHighlightRegionValidates(t *testing.T) {
	d := &fakeDaemon{}
	s := NewServer(d, nil)

	tests := []struct {
		name string
		in   HighlightRegionInput
	}{
		{"zero size", HighlightRegionInput{Width: 0, Height: 0}},
		{"negative width", HighlightRegionInput{Width: -5, Height: 10}},
		{"duration too long", HighlightRegionInput{Width: 5, Height: 5, DurationSeconds: intPtr(ipc.MaxHighlightSeconds + 1)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := s.handleHighlightRegion(context.Background(), nil, tt.in)
			if err == nil || !strings.HasPrefix(err.Error(), "highlight_region:") {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
	if len(d.highlights) != 0 {
		t.Fatalf("invalid input reached the daemon: %+v", d.highlights)
	}
}

func TestHandleFrameStatus(t *testing.T) {
	d := &fakeDaemon{status: ipc.StatusData{
		Mode:    "pinned",
		Visible: true,
		Bounds:  ipc.Region{X: 1, Y: 2, Width: 3, Height: 4},
		Monitor: "DP-1",
		Redraws: 9,
		Dropped: 2,
		Skipped: 1,
	}}
	s := NewServer(d, nil)

	_, out, err := s.handleFrameStatus(context.Background(), nil, FrameStatusInput{})
	if err != nil {
		t.Fatalf("frame_status: %v", err)
	}
	if out.Mode != "pinned" || !out.Visible || out.Bounds != (Region{X: 1, Y: 2, Width: 3, Height: 4}) || out.Redraws != 9 {
		t.Fatalf("unexpected output: %+v", out)
	}
	if out.Monitor != "DP-1" || out.Dropped != 2 || out.Skipped != 1 {
		t.Fatalf("frame counters not forwarded: %+v", out)
	}
}

func TestHandleHideAndResume(t *testing.T) {
	d := &fakeDaemon{}
	s := NewServer(d, nil)

	if _, out, err := s.handleHideFrame(context.Background(), nil, HideFrameInput{}); err != nil || !out.OK {
		t.Fatalf("hide_frame: out=%+v err=%v", out, err)
	}
	_, out, err := s.handleResumeFocus(context.Background(), nil, ResumeFocusInput{})
	if err != nil || !out.OK || out.Mode != "focus" {
		t.Fatalf("resume_focus: out=%+v err=%v", out, err)
	}
	if d.hides != 1 || d.resumes != 1 {
		t.Fatalf("hides=%d resumes=%d", d.hides, d.resumes)
	}
}

func TestHandleListMonitors(t *testing.T) {
	d := &fakeDaemon{monitors: []ipc.MonitorInfo{
		{ID: 0, Name: "eDP-1", X: 0, Y: 0, Width: 1920, Height: 1200},
		{ID: 2, Name: "DP-2", X: 1920, Y: 0, Width: 3840, Height: 2160},
	}}
	s := NewServer(d, nil)

	_, out, err := s.handleListMonitors(context.Background(), nil, ListMonitorsInput{})
	if err != nil {
		t.Fatalf("list_monitors: %v", err)
	}
	if len(out.Monitors) != 2 || out.Monitors[1].ID != 2 || out.Monitors[1].Bounds.X != 1920 {
		t.Fatalf("unexpected monitors: %+v", out.Monitors)
	}
}

func TestHandlersSurfaceDaemonErrors(t *testing.T) {
	d := &fakeDaemon{err: errors.New("failed to connect to daemon")}
	s := NewServer(d, nil)
	ctx := context.Background()

	if _, _, err := s.handleFrameStatus(ctx, nil, FrameStatusInput{}); err == nil {
		t.Fatal("frame_status: expected error")
	}
	if _, _, err := s.handleHighlightRegion(ctx, nil, HighlightRegionInput{Width: 1, Height: 1}); err == nil {
		t.Fatal("highlight_region: expected error")
	}
	if _, _, err := s.handleHideFrame(ctx, nil, HideFrameInput{}); err == nil {
		t.Fatal("hide_frame: expected error")
	}
	if _, _, err := s.handleListMonitors(ctx, nil, ListMonitorsInput{}); err == nil {
		t.Fatal("list_monitors: expected error")
	}
}
