// Package mcp exposes the focus frame daemon as MCP tools so assistants can
// point at a region of the screen.
package mcp

import (
	"context"
	"log/slog"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/focusframe/internal/ipc"
)

const (
	ServerName    = "focusframe"
	ServerVersion = "0.1.0"
)

// Daemon is the subset of the IPC client the tools use.
type Daemon interface {
	GetStatus() (*ipc.StatusData, error)
	GetMonitors() (*ipc.MonitorsData, error)
	Highlight(p ipc.HighlightPayload) error
	Hide() error
	Resume() error
}

var _ Daemon = (*ipc.Client)(nil)

// Server is the MCP server forwarding tool calls to the daemon.
type Server struct {
	mcpServer *mcpsdk.Server
	daemon    Daemon
	logger    *slog.Logger
}

// NewServer creates an MCP server talking to daemon. A nil daemon uses the
// default IPC socket.
func NewServer(daemon Daemon, logger *slog.Logger) *Server {
	if daemon == nil {
		daemon = ipc.NewClient()
	}
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		daemon: daemon,
		logger: logger.With("component", "mcp"),
	}
	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    ServerName,
			Version: ServerVersion,
		},
		nil,
	)

	s.registerTools()
	return s
}

// Run starts the MCP server on stdio transport, blocking until done.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "frame_status",
		Description: "Report what the focus frame is doing: mode (focus, pinned, suspended, idle), whether it is visible, the highlighted rectangle and the focused window rectangle.",
	}, s.handleFrameStatus)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "highlight_region",
		Description: "Draw the focus frame around a screen region to point the user at it. The highlight overrides focus tracking until duration_seconds elapse, or until hide_frame or resume_focus is called when the duration is 0.",
	}, s.handleHighlightRegion)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "hide_frame",
		Description: "Hide the focus frame until resume_focus or the next highlight_region.",
	}, s.handleHideFrame)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "resume_focus",
		Description: "Drop any highlight or hide request and go back to framing the focused window.",
	}, s.handleResumeFocus)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_monitors",
		Description: "List monitors with their ids and bounds, for use with highlight_region's monitor argument.",
	}, s.handleListMonitors)
}
