package mcp

// FrameStatusInput is the input for the frame_status tool.
type FrameStatusInput struct{}

// Region is a rectangle in root-window coordinates.
type Region struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// FrameStatusOutput is the output for the frame_status tool.
type FrameStatusOutput struct {
	Mode          string `json:"mode"`
	Visible       bool   `json:"visible"`
	Allocated     bool   `json:"allocated"`
	Bounds        Region `json:"bounds"`
	Focus         Region `json:"focus"`
	Monitor       string `json:"monitor,omitempty"`
	PinnedUntil   string `json:"pinned_until,omitempty"`
	Redraws       int    `json:"redraws"`
	Dropped       int    `json:"dropped"`
	Skipped       int    `json:"skipped"`
	UptimeSeconds int64  `json:"uptime_seconds"`
}

// HighlightRegionInput is the input for the highlight_region tool.
type HighlightRegionInput struct {
	X      int `json:"x" jsonschema:"Left edge in pixels (relative to the monitor when monitor is set)"`
	Y      int `json:"y" jsonschema:"Top edge in pixels (relative to the monitor when monitor is set)"`
	Width  int `json:"width" jsonschema:"Width in pixels, must be positive"`
	Height int `json:"height" jsonschema:"Height in pixels, must be positive"`
	// DurationSeconds is optional; nil uses the daemon's highlight_timeout.
	DurationSeconds *int `json:"duration_seconds,omitempty" jsonschema:"How long to keep the highlight before returning to focus tracking (0 = until hide_frame or resume_focus; default: daemon highlight_timeout)"`
	Monitor         *int `json:"monitor,omitempty" jsonschema:"Optional monitor id from list_monitors; x and y become relative to its origin"`
}

// HighlightRegionOutput is the output for the highlight_region tool.
type HighlightRegionOutput struct {
	Highlighted Region `json:"highlighted"`
	Monitor     *int   `json:"monitor,omitempty"`
}

// HideFrameInput is the input for the hide_frame tool.
type HideFrameInput struct{}

// ResumeFocusInput is the input for the resume_focus tool.
type ResumeFocusInput struct{}

// AckOutput is returned by tools that only change state.
type AckOutput struct {
	OK   bool   `json:"ok"`
	Mode string `json:"mode,omitempty"`
}

// ListMonitorsInput is the input for the list_monitors tool.
type ListMonitorsInput struct{}

// MonitorOutput describes one monitor.
type MonitorOutput struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Bounds Region `json:"bounds"`
}

// ListMonitorsOutput is the output for the list_monitors tool.
type ListMonitorsOutput struct {
	Monitors []MonitorOutput `json:"monitors"`
}
