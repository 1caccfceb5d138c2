package ipc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"sync"
	"time"

	"github.com/1broseidon/focusframe/internal/daemon"
	"github.com/1broseidon/focusframe/internal/geom"
	"github.com/1broseidon/focusframe/internal/runtimepath"
)

// Controller is the part of the daemon the IPC server drives.
type Controller interface {
	Highlight(r geom.Rect, d time.Duration)
	Hide()
	Resume()
	Toggle() daemon.Mode
	Status() daemon.Status
}

// MonitorLister returns the current monitor layout.
type MonitorLister func() ([]MonitorInfo, error)

// ServerOptions wires the server to the daemon.
type ServerOptions struct {
	Controller Controller
	Monitors   MonitorLister
	// Reload re-reads the configuration and applies it.
	Reload func() error
	Logger *slog.Logger
}

// Server handles IPC requests from clients
type Server struct {
	socketPath   string
	listener     net.Listener
	controller   Controller
	monitors     MonitorLister
	reload       func() error
	logger       *slog.Logger
	startTime    time.Time
	shuttingDown bool
	shutdownMu   sync.Mutex
}

// NewServer creates a new IPC server
func NewServer(opts ServerOptions) (*Server, error) {
	if opts.Controller == nil {
		return nil, fmt.Errorf("ipc server requires a controller")
	}
	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve IPC socket path: %w", err)
	}

	// Remove existing socket if present
	os.Remove(socketPath)

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Server{
		socketPath: socketPath,
		controller: opts.Controller,
		monitors:   opts.Monitors,
		reload:     opts.Reload,
		logger:     logger.With("component", "ipc"),
		startTime:  time.Now(),
	}, nil
}

// SocketPath returns the path the server listens on.
func (s *Server) SocketPath() string {
	return s.socketPath
}

// Start begins listening for IPC connections
func (s *Server) Start() error {
	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("failed to create IPC socket: %w", err)
	}
	s.listener = listener

	// Set socket permissions
	if err := os.Chmod(s.socketPath, 0600); err != nil {
		return fmt.Errorf("failed to set socket permissions: %w", err)
	}

	s.logger.Info("IPC server listening", "socket", s.socketPath)

	// Accept connections
	go s.acceptLoop()

	return nil
}

// acceptLoop accepts incoming connections
func (s *Server) acceptLoop() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			s.shutdownMu.Lock()
			if s.shuttingDown {
				s.shutdownMu.Unlock()
				return
			}
			s.shutdownMu.Unlock()
			s.logger.Warn("IPC accept error", "error", err)
			continue
		}

		go s.handleConnection(conn)
	}
}

// handleConnection handles a single IPC connection
func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()

	reader := bufio.NewReader(conn)

	// Read the request (expect JSON on a single line)
	data, err := reader.ReadBytes('\n')
	if err != nil && err != io.EOF {
		s.logger.Warn("IPC read error", "error", err)
		return
	}

	req, err := ParseRequest(data)
	if err != nil {
		s.sendError(conn, fmt.Sprintf("Invalid request: %v", err))
		return
	}

	resp := s.dispatch(req)

	respData, err := resp.Marshal()
	if err != nil {
		s.logger.Error("failed to marshal response", "error", err)
		return
	}

	respData = append(respData, '\n')
	if _, err := conn.Write(respData); err != nil {
		s.logger.Warn("failed to send response", "error", err)
	}
}

// dispatch runs handleCommand, turning a panic into an error response.
func (s *Server) dispatch(req *Request) (resp *Response) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("IPC handler panicked", "command", req.Command, "panic", r)
			resp = NewErrorResponse(fmt.Sprintf("internal error handling %s", req.Command))
		}
	}()
	return s.handleCommand(req)
}

// handleCommand processes an IPC command and returns a response
func (s *Server) handleCommand(req *Request) *Response {
	s.logger.Debug("IPC request", "command", req.Command)

	switch req.Command {
	case CommandReload:
		return s.handleReload()
	case CommandGetStatus:
		return s.handleGetStatus()
	case CommandGetMonitors:
		return s.handleGetMonitors()
	case CommandHighlight:
		return s.handleHighlight(req.Payload)
	case CommandHide:
		s.controller.Hide()
		return okResponse(nil)
	case CommandResume:
		s.controller.Resume()
		return okResponse(nil)
	case CommandToggle:
		s.controller.Toggle()
		return okResponse(nil)
	default:
		return NewErrorResponse(fmt.Sprintf("Unknown command: %s", req.Command))
	}
}

// handleReload reloads the configuration
func (s *Server) handleReload() *Response {
	if s.reload == nil {
		return NewErrorResponse("reload is not supported by this daemon")
	}
	if err := s.reload(); err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to reload config: %v", err))
	}
	s.logger.Info("config reloaded")
	return okResponse(nil)
}

// handleGetStatus returns current daemon status
func (s *Server) handleGetStatus() *Response {
	st := s.controller.Status()

	status := StatusData{
		Mode:          string(st.Mode),
		Allocated:     st.Allocated,
		Visible:       st.Visible,
		Bounds:        RegionOf(st.Bounds),
		Focus:         RegionOf(st.Focus),
		Redraws:       st.Redraws,
		Dropped:       st.Dropped,
		Skipped:       st.Skipped,
		UptimeSeconds: int64(time.Since(s.startTime).Seconds()),
		DaemonRunning: true,
	}
	if !st.PinnedUntil.IsZero() {
		status.PinnedUntil = st.PinnedUntil.Format(time.RFC3339)
	}
	if st.Visible && s.monitors != nil {
		if monitors, err := s.monitors(); err == nil {
			x, y := st.Bounds.Center()
			if mon, ok := monitorContaining(monitors, x, y); ok {
				status.Monitor = mon.Name
			}
		}
	}

	return okResponse(status)
}

// monitorContaining returns the monitor containing the point (x, y).
func monitorContaining(monitors []MonitorInfo, x, y int) (MonitorInfo, bool) {
	for _, mon := range monitors {
		if geom.XYWH(mon.X, mon.Y, mon.Width, mon.Height).Contains(x, y) {
			return mon, true
		}
	}
	return MonitorInfo{}, false
}

// handleGetMonitors returns information about all monitors
func (s *Server) handleGetMonitors() *Response {
	if s.monitors == nil {
		return NewErrorResponse("monitor listing is not supported by this daemon")
	}
	monitors, err := s.monitors()
	if err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to get monitors: %v", err))
	}
	if monitors == nil {
		monitors = []MonitorInfo{}
	}
	return okResponse(MonitorsData{Monitors: monitors})
}

func (s *Server) handleHighlight(payload json.RawMessage) *Response {
	var req HighlightPayload
	if err := json.Unmarshal(payload, &req); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid highlight payload: %v", err))
	}
	if err := req.Validate(); err != nil {
		return NewErrorResponse(err.Error())
	}

	r := geom.XYWH(req.X, req.Y, req.Width, req.Height)
	if req.Monitor != nil {
		mon, err := s.findMonitor(*req.Monitor)
		if err != nil {
			return NewErrorResponse(err.Error())
		}
		r = r.Offset(mon.X, mon.Y)
	}

	d := time.Duration(-1)
	if req.DurationSeconds != nil {
		d = time.Duration(*req.DurationSeconds) * time.Second
	}

	s.controller.Highlight(r, d)
	return okResponse(nil)
}

func (s *Server) findMonitor(id int) (MonitorInfo, error) {
	if s.monitors == nil {
		return MonitorInfo{}, fmt.Errorf("monitor listing is not supported by this daemon")
	}
	monitors, err := s.monitors()
	if err != nil {
		return MonitorInfo{}, fmt.Errorf("failed to get monitors: %w", err)
	}
	for _, m := range monitors {
		if m.ID == id {
			return m, nil
		}
	}
	return MonitorInfo{}, fmt.Errorf("monitor with id %d not found", id)
}

func okResponse(data interface{}) *Response {
	resp, err := NewOKResponse(data)
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	return resp
}

// sendError sends an error response
func (s *Server) sendError(conn net.Conn, errMsg string) {
	resp := NewErrorResponse(errMsg)
	data, _ := resp.Marshal()
	data = append(data, '\n')
	conn.Write(data)
}

// Stop gracefully shuts down the IPC server
func (s *Server) Stop() {
	s.shutdownMu.Lock()
	s.shuttingDown = true
	s.shutdownMu.Unlock()

	if s.listener != nil {
		s.listener.Close()
	}
	os.Remove(s.socketPath)
}
