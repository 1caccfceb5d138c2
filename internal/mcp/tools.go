package mcp

import (
	"context"
	"fmt"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/focusframe/internal/ipc"
)

func (s *Server) handleFrameStatus(_ context.Context, _ *mcpsdk.CallToolRequest, _ FrameStatusInput) (*mcpsdk.CallToolResult, FrameStatusOutput, error) {
	st, err := s.daemon.GetStatus()
	if err != nil {
		return nil, FrameStatusOutput{}, err
	}
	return nil, FrameStatusOutput{
		Mode:          st.Mode,
		Visible:       st.Visible,
		Allocated:     st.Allocated,
		Bounds:        Region(st.Bounds),
		Focus:         Region(st.Focus),
		Monitor:       st.Monitor,
		PinnedUntil:   st.PinnedUntil,
		Redraws:       st.Redraws,
		Dropped:       st.Dropped,
		Skipped:       st.Skipped,
		UptimeSeconds: st.UptimeSeconds,
	}, nil
}

func (s *Server) handleHighlightRegion(_ context.Context, _ *mcpsdk.CallToolRequest, args HighlightRegionInput) (*mcpsdk.CallToolResult, HighlightRegionOutput, error) {
	payload := ipc.HighlightPayload{
		X:               args.X,
		Y:               args.Y,
		Width:           args.Width,
		Height:          args.Height,
		DurationSeconds: args.DurationSeconds,
		Monitor:         args.Monitor,
	}
	if err := payload.Validate(); err != nil {
		return nil, HighlightRegionOutput{}, fmt.Errorf("highlight_region: %w", err)
	}
	if err := s.daemon.Highlight(payload); err != nil {
		return nil, HighlightRegionOutput{}, err
	}

	s.logger.Info("highlight requested", "x", args.X, "y", args.Y, "width", args.Width, "height", args.Height)
	return nil, HighlightRegionOutput{
		Highlighted: Region{X: args.X, Y: args.Y, Width: args.Width, Height: args.Height},
		Monitor:     args.Monitor,
	}, nil
}

func (s *Server) handleHideFrame(_ context.Context, _ *mcpsdk.CallToolRequest, _ HideFrameInput) (*mcpsdk.CallToolResult, AckOutput, error) {
	if err := s.daemon.Hide(); err != nil {
		return nil, AckOutput{}, err
	}
	return nil, AckOutput{OK: true, Mode: "suspended"}, nil
}

func (s *Server) handleResumeFocus(_ context.Context, _ *mcpsdk.CallToolRequest, _ ResumeFocusInput) (*mcpsdk.CallToolResult, AckOutput, error) {
	if err := s.daemon.Resume(); err != nil {
		return nil, AckOutput{}, err
	}
	out := AckOutput{OK: true}
	if st, err := s.daemon.GetStatus(); err == nil {
		out.Mode = st.Mode
	}
	return nil, out, nil
}

func (s *Server) handleListMonitors(_ context.Context, _ *mcpsdk.CallToolRequest, _ ListMonitorsInput) (*mcpsdk.CallToolResult, ListMonitorsOutput, error) {
	data, err := s.daemon.GetMonitors()
	if err != nil {
		return nil, ListMonitorsOutput{}, err
	}
	out := ListMonitorsOutput{Monitors: make([]MonitorOutput, 0, len(data.Monitors))}
	for _, m := range data.Monitors {
		out.Monitors = append(out.Monitors, MonitorOutput{
			ID:     m.ID,
			Name:   m.Name,
			Bounds: Region{X: m.X, Y: m.Y, Width: m.Width, Height: m.Height},
		})
	}
	return nil, out, nil
}
