package ipc

import (
	"encoding/json"
	"fmt"

	"github.com/1broseidon/focusframe/internal/geom"
)

// CommandType represents different IPC command types
type CommandType string

const (
	CommandReload      CommandType = "RELOAD"
	CommandGetStatus   CommandType = "GET_STATUS"
	CommandGetMonitors CommandType = "GET_MONITORS"
	CommandHighlight   CommandType = "HIGHLIGHT"
	CommandHide        CommandType = "HIDE"
	CommandResume      CommandType = "RESUME"
	CommandToggle      CommandType = "TOGGLE"
)

// MaxHighlightSeconds bounds an explicit highlight duration.
const MaxHighlightSeconds = 3600

// Highlight regions must fit the X11 protocol: sizes are CARD16 and
// coordinates INT16.
const (
	MaxRegionSide  = 65535
	MinRegionCoord = -32768
	MaxRegionCoord = 32767
)

// Request represents an IPC request from client to server
type Request struct {
	Command CommandType     `json:"command"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Response represents an IPC response from server to client
type Response struct {
	Status string          `json:"status"` // "OK" or "ERROR"
	Data   json.RawMessage `json:"data,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// Region is a rectangle on the wire: origin plus size.
type Region struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// RegionOf converts a geom.Rect.
func RegionOf(r geom.Rect) Region {
	return Region{X: r.Left, Y: r.Top, Width: r.Width(), Height: r.Height()}
}

// Rect converts back to a geom.Rect.
func (r Region) Rect() geom.Rect {
	return geom.XYWH(r.X, r.Y, r.Width, r.Height)
}

// StatusData represents the data returned by GET_STATUS
type StatusData struct {
	Mode          string `json:"mode"`
	Allocated     bool   `json:"allocated"`
	Visible       bool   `json:"visible"`
	Bounds        Region `json:"bounds"`
	Focus         Region `json:"focus"`
	Monitor       string `json:"monitor,omitempty"`
	PinnedUntil   string `json:"pinned_until,omitempty"` // RFC 3339
	Redraws       int    `json:"redraws"`
	Dropped       int    `json:"dropped"`
	Skipped       int    `json:"skipped"`
	UptimeSeconds int64  `json:"uptime_seconds"`
	DaemonRunning bool   `json:"daemon_running"`
}

// MonitorInfo represents information about a single monitor
type MonitorInfo struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	X      int    `json:"x"`
	Y      int    `json:"y"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// MonitorsData represents the data returned by GET_MONITORS
type MonitorsData struct {
	Monitors []MonitorInfo `json:"monitors"`
}

// HighlightPayload represents the payload for the HIGHLIGHT command.
// With Monitor set, X and Y are relative to that monitor's origin.
// A nil DurationSeconds uses the daemon's highlight_timeout; 0 pins until
// HIDE or RESUME.
type HighlightPayload struct {
	X               int  `json:"x"`
	Y               int  `json:"y"`
	Width           int  `json:"width"`
	Height          int  `json:"height"`
	DurationSeconds *int `json:"duration_seconds,omitempty"`
	Monitor         *int `json:"monitor,omitempty"`
}

// Validate checks the payload independent of daemon state.
func (p HighlightPayload) Validate() error {
	if p.Width <= 0 || p.Height <= 0 {
		return fmt.Errorf("width and height must be positive, got %dx%d", p.Width, p.Height)
	}
	if p.Width > MaxRegionSide || p.Height > MaxRegionSide {
		return fmt.Errorf("width and height must be at most %d, got %dx%d", MaxRegionSide, p.Width, p.Height)
	}
	if p.X < MinRegionCoord || p.X > MaxRegionCoord || p.Y < MinRegionCoord || p.Y > MaxRegionCoord {
		return fmt.Errorf("x and y must be between %d and %d, got %d,%d", MinRegionCoord, MaxRegionCoord, p.X, p.Y)
	}
	if p.DurationSeconds != nil {
		if d := *p.DurationSeconds; d < 0 || d > MaxHighlightSeconds {
			return fmt.Errorf("duration_seconds must be between 0 and %d, got %d", MaxHighlightSeconds, d)
		}
	}
	return nil
}

// NewOKResponse creates a successful response with optional data
func NewOKResponse(data interface{}) (*Response, error) {
	var dataBytes json.RawMessage
	if data != nil {
		bytes, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal response data: %w", err)
		}
		dataBytes = bytes
	}

	return &Response{
		Status: "OK",
		Data:   dataBytes,
	}, nil
}

// NewErrorResponse creates an error response with a message
func NewErrorResponse(errMsg string) *Response {
	return &Response{
		Status: "ERROR",
		Error:  errMsg,
	}
}

// ParseRequest parses a request from JSON bytes
func ParseRequest(data []byte) (*Request, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to parse request: %w", err)
	}
	return &req, nil
}

// Marshal converts a response to JSON bytes
func (r *Response) Marshal() ([]byte, error) {
	return json.Marshal(r)
}
