package daemon

import (
	"log/slog"
	"strings"
	"sync"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/xevent"
	"github.com/BurntSushi/xgbutil/xprop"
	"github.com/BurntSushi/xgbutil/xwindow"

	"github.com/1broseidon/focusframe/internal/geom"
	"github.com/1broseidon/focusframe/internal/x11"
)

// FocusTarget receives the tracker's decisions.
type FocusTarget interface {
	Focus(r geom.Rect)
	Unfocus()
}

// TrackerConfig selects which windows get a frame and how it is sized.
type TrackerConfig struct {
	FollowFocus        bool
	IncludeDecorations bool
	IgnoreClasses      []string
	HideOnFullscreen   bool
}

// windowInfo is what the tracker knows about the active window.
type windowInfo struct {
	ID     xproto.Window
	Class  string
	Normal bool
	State  x11.WindowState
	Bounds geom.Rect
}

// windowSource answers the tracker's questions about X windows.
type windowSource interface {
	GetActiveWindow() (xproto.Window, error)
	WindowBounds(win xproto.Window, decorations bool) (geom.Rect, error)
	WindowClass(win xproto.Window) string
	IsNormalWindow(win xproto.Window) bool
	WindowState(win xproto.Window) x11.WindowState
}

var _ windowSource = (*x11.Connection)(nil)

// Tracker follows _NET_ACTIVE_WINDOW and the active window's geometry and
// forwards the result to a FocusTarget.
type Tracker struct {
	conn    *x11.Connection
	windows windowSource
	target  FocusTarget
	logger  *slog.Logger
	// watch moves event subscriptions to the given window.
	watch func(win xproto.Window)

	// refreshMu orders whole refreshes: X events and reconcile passes both
	// refresh, and a stale query must not be dispatched after a newer one.
	refreshMu sync.Mutex

	mu     sync.Mutex
	cfg    TrackerConfig
	active xproto.Window
}

// NewTracker creates a tracker. Call Start from the goroutine that will run
// the X event loop.
func NewTracker(conn *x11.Connection, target FocusTarget, cfg TrackerConfig, logger *slog.Logger) *Tracker {
	if logger == nil {
		logger = slog.Default()
	}
	t := &Tracker{
		conn:    conn,
		windows: conn,
		target:  target,
		cfg:     cfg,
		logger:  logger.With("component", "tracker"),
	}
	t.watch = t.watchWindow
	return t
}

// Start subscribes to root property changes and performs an initial refresh.
func (t *Tracker) Start() error {
	xu := t.conn.XUtil
	root := t.conn.Root

	if err := xwindow.New(xu, root).Listen(xproto.EventMaskPropertyChange); err != nil {
		return err
	}
	xevent.PropertyNotifyFun(func(xu *xgbutil.XUtil, ev xevent.PropertyNotifyEvent) {
		name, err := xprop.AtomName(xu, ev.Atom)
		if err != nil {
			return
		}
		switch name {
		case "_NET_ACTIVE_WINDOW", "_NET_CURRENT_DESKTOP":
			t.Refresh()
		}
	}).Connect(xu, root)

	t.logger.Info("focus tracker started", "follow_focus", t.config().FollowFocus)
	t.Refresh()
	return nil
}

// UpdateConfig applies a reloaded configuration and re-evaluates focus.
func (t *Tracker) UpdateConfig(cfg TrackerConfig) {
	t.mu.Lock()
	t.cfg = cfg
	t.mu.Unlock()
	t.Refresh()
}

// Refresh re-reads the active window and updates the target. Concurrent
// calls run one at a time.
func (t *Tracker) Refresh() {
	t.refreshMu.Lock()
	defer t.refreshMu.Unlock()

	cfg := t.config()
	if !cfg.FollowFocus {
		t.target.Unfocus()
		return
	}

	win, err := t.windows.GetActiveWindow()
	if err != nil || win == 0 {
		t.watch(0)
		t.target.Unfocus()
		return
	}
	t.watch(win)

	info, err := t.inspect(win, cfg.IncludeDecorations)
	if err != nil {
		// The window may have been destroyed between the event and the query.
		t.logger.Debug("failed to inspect active window", "window", win, "error", err)
		t.target.Unfocus()
		return
	}

	r, ok, reason := decide(info, cfg)
	if !ok {
		t.logger.Debug("active window not highlighted", "window", win, "class", info.Class, "reason", reason)
		t.target.Unfocus()
		return
	}
	t.target.Focus(r)
}

func (t *Tracker) config() TrackerConfig {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.cfg
}

func (t *Tracker) inspect(win xproto.Window, decorations bool) (windowInfo, error) {
	bounds, err := t.windows.WindowBounds(win, decorations)
	if err != nil {
		return windowInfo{}, err
	}
	return windowInfo{
		ID:     win,
		Class:  t.windows.WindowClass(win),
		Normal: t.windows.IsNormalWindow(win),
		State:  t.windows.WindowState(win),
		Bounds: bounds,
	}, nil
}

// watchWindow moves the geometry and state subscription to win.
func (t *Tracker) watchWindow(win xproto.Window) {
	t.mu.Lock()
	prev := t.active
	if prev == win {
		t.mu.Unlock()
		return
	}
	t.active = win
	t.mu.Unlock()

	xu := t.conn.XUtil
	if prev != 0 {
		xevent.Detach(xu, prev)
	}
	if win == 0 {
		return
	}

	mask := xproto.EventMaskStructureNotify | xproto.EventMaskPropertyChange
	if err := xwindow.New(xu, win).Listen(mask); err != nil {
		t.logger.Debug("failed to watch active window", "window", win, "error", err)
		return
	}
	xevent.ConfigureNotifyFun(func(xu *xgbutil.XUtil, ev xevent.ConfigureNotifyEvent) {
		t.Refresh()
	}).Connect(xu, win)
	xevent.PropertyNotifyFun(func(xu *xgbutil.XUtil, ev xevent.PropertyNotifyEvent) {
		name, err := xprop.AtomName(xu, ev.Atom)
		if err == nil && (name == "_NET_WM_STATE" || name == "_NET_FRAME_EXTENTS") {
			t.Refresh()
		}
	}).Connect(xu, win)
}

// decide returns the rectangle to frame for info, or false with a reason
// when the window must not be highlighted.
func decide(info windowInfo, cfg TrackerConfig) (geom.Rect, bool, string) {
	switch {
	case !info.Normal:
		return geom.Rect{}, false, "not a normal window"
	case info.State.Hidden:
		return geom.Rect{}, false, "minimized"
	case cfg.HideOnFullscreen && info.State.Fullscreen:
		return geom.Rect{}, false, "fullscreen"
	case info.Bounds.Empty():
		return geom.Rect{}, false, "empty geometry"
	}
	for _, class := range cfg.IgnoreClasses {
		if info.Class != "" && strings.EqualFold(class, info.Class) {
			return geom.Rect{}, false, "ignored class"
		}
	}
	return info.Bounds, true, ""
}
