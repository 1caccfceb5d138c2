package x11

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"

	"github.com/1broseidon/focusframe/internal/geom"
)

// WindowState summarizes the _NET_WM_STATE flags the focus tracker cares about.
type WindowState struct {
	Hidden     bool
	Fullscreen bool
}

// GetActiveWindow returns the window named by _NET_ACTIVE_WINDOW (0 if none).
func (c *Connection) GetActiveWindow() (xproto.Window, error) {
	return ewmh.ActiveWindowGet(c.XUtil)
}

// WindowBounds returns the on-screen rectangle of a client window. With
// decorations, the _NET_FRAME_EXTENTS reported by the window manager are
// added around the client area.
func (c *Connection) WindowBounds(windowID xproto.Window, decorations bool) (geom.Rect, error) {
	conn := c.XUtil.Conn()
	g, err := xproto.GetGeometry(conn, xproto.Drawable(windowID)).Reply()
	if err != nil {
		return geom.Rect{}, fmt.Errorf("failed to get geometry of window %d: %w", windowID, err)
	}

	translate, err := xproto.TranslateCoordinates(conn, windowID, c.Root, 0, 0).Reply()
	if err != nil {
		return geom.Rect{}, fmt.Errorf("failed to translate coordinates of window %d: %w", windowID, err)
	}

	r := geom.XYWH(int(translate.DstX), int(translate.DstY), int(g.Width), int(g.Height))
	if !decorations {
		return r, nil
	}

	left, right, top, bottom := c.GetFrameExtents(windowID)
	return geom.Rect{
		Left:   r.Left - left,
		Top:    r.Top - top,
		Right:  r.Right + right,
		Bottom: r.Bottom + bottom,
	}, nil
}

// GetFrameExtents returns the window decoration sizes (zeros if unavailable)
func (c *Connection) GetFrameExtents(windowID xproto.Window) (left, right, top, bottom int) {
	extents, err := ewmh.FrameExtentsGet(c.XUtil, windowID)
	if err != nil {
		return 0, 0, 0, 0
	}
	return int(extents.Left), int(extents.Right), int(extents.Top), int(extents.Bottom)
}

// IsNormalWindow checks if a window is a normal application window
func (c *Connection) IsNormalWindow(windowID xproto.Window) bool {
	types, err := ewmh.WmWindowTypeGet(c.XUtil, windowID)
	if err != nil {
		// If we can't determine type, assume it's normal
		return true
	}

	for _, t := range types {
		if t == "_NET_WM_WINDOW_TYPE_NORMAL" || t == "_NET_WM_WINDOW_TYPE_DIALOG" {
			return true
		}
		// Reject desktop, dock, splash, etc.
		if t == "_NET_WM_WINDOW_TYPE_DESKTOP" ||
			t == "_NET_WM_WINDOW_TYPE_DOCK" ||
			t == "_NET_WM_WINDOW_TYPE_SPLASH" ||
			t == "_NET_WM_WINDOW_TYPE_NOTIFICATION" {
			return false
		}
	}

	// If no specific type is set, assume it's normal
	return len(types) == 0
}

// WindowClass returns the WM_CLASS class of a window, or "" when unset.
func (c *Connection) WindowClass(windowID xproto.Window) string {
	wmClass, err := icccm.WmClassGet(c.XUtil, windowID)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(wmClass.Class)
}

// WindowState reads _NET_WM_STATE. Missing state means a plain visible window.
func (c *Connection) WindowState(windowID xproto.Window) WindowState {
	var st WindowState
	states, err := ewmh.WmStateGet(c.XUtil, windowID)
	if err != nil {
		return st
	}
	for _, state := range states {
		switch state {
		case "_NET_WM_STATE_HIDDEN":
			st.Hidden = true
		case "_NET_WM_STATE_FULLSCREEN":
			st.Fullscreen = true
		}
	}
	return st
}

// findDockWindow returns the first managed dock/panel window, if any.
func (c *Connection) findDockWindow() (xproto.Window, bool) {
	clients, err := ewmh.ClientListGet(c.XUtil)
	if err != nil {
		return 0, false
	}
	for _, windowID := range clients {
		types, err := ewmh.WmWindowTypeGet(c.XUtil, windowID)
		if err != nil {
			continue
		}
		for _, t := range types {
			if t == "_NET_WM_WINDOW_TYPE_DOCK" {
				return windowID, true
			}
		}
	}
	return 0, false
}
