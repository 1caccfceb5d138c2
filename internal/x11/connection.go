package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/BurntSushi/xgbutil/xevent"

	"github.com/1broseidon/focusframe/internal/geom"
	"github.com/1broseidon/focusframe/internal/surface"
)

// Connection manages the X11 connection and core X resources
type Connection struct {
	XUtil *xgbutil.XUtil
	Root  xproto.Window
	name  string
}

// NewConnection connects to the named X display. An empty name uses $DISPLAY.
func NewConnection(display string) (*Connection, error) {
	var (
		xu  *xgbutil.XUtil
		err error
	)
	if display == "" {
		xu, err = xgbutil.NewConn()
	} else {
		xu, err = xgbutil.NewConnDisplay(display)
	}
	if err != nil {
		return nil, err
	}
	keybind.Initialize(xu)

	return &Connection{
		XUtil: xu,
		Root:  xu.RootWin(),
		name:  display,
	}, nil
}

// Display describes the X screen as a surface display: the root window is
// the layer stack every surface of this connection lives on.
func (c *Connection) Display() (surface.Display, error) {
	geomReply, err := xproto.GetGeometry(c.XUtil.Conn(), xproto.Drawable(c.Root)).Reply()
	if err != nil {
		return surface.Display{}, fmt.Errorf("failed to query root geometry: %w", err)
	}
	name := c.name
	if name == "" {
		name = "default"
	}
	return surface.Display{
		ID:         0,
		Name:       name,
		LayerStack: uint32(c.Root),
		Bounds:     geom.XYWH(0, 0, int(geomReply.Width), int(geomReply.Height)),
	}, nil
}

// EventLoop starts the main X11 event loop (blocking)
func (c *Connection) EventLoop() {
	xevent.Main(c.XUtil)
}

// Close cleanly disconnects from the X11 server
func (c *Connection) Close() {
	c.XUtil.Conn().Close()
}
