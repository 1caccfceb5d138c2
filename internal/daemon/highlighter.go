package daemon

import (
	"log/slog"
	"sync"
	"time"

	"github.com/1broseidon/focusframe/internal/frame"
	"github.com/1broseidon/focusframe/internal/geom"
	"github.com/1broseidon/focusframe/internal/surface"
)

// Mode describes who currently drives the frame.
type Mode string

const (
	// ModeIdle: nothing to highlight (no eligible focused window).
	ModeIdle Mode = "idle"
	// ModeFocus: the frame follows the focused window.
	ModeFocus Mode = "focus"
	// ModePinned: an explicit highlight overrides focus tracking.
	ModePinned Mode = "pinned"
	// ModeSuspended: hidden on request until Resume or the next highlight.
	ModeSuspended Mode = "suspended"
)

// Status is a snapshot of the highlighter and its frame.
type Status struct {
	Mode        Mode
	Allocated   bool
	Visible     bool
	Bounds      geom.Rect
	Focus       geom.Rect
	PinnedUntil time.Time
	Redraws     int
	Dropped     int
	Skipped     int
}

// Highlighter serializes every frame update and applies each one inside a
// surface batch. Focus updates come from the tracker; Highlight, Hide and
// Resume come from IPC clients.
type Highlighter struct {
	mu      sync.Mutex
	session surface.Session
	frame   *frame.Frame
	logger  *slog.Logger

	defaultTimeout time.Duration

	focus     geom.Rect
	hasFocus  bool
	suspended bool

	pinned   bool
	pin      geom.Rect
	pinUntil time.Time
	pinTimer *time.Timer
	pinGen   int
}

// NewHighlighter creates the frame on display and returns a highlighter
// driving it.
func NewHighlighter(display surface.Display, session surface.Session, logger *slog.Logger) *Highlighter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Highlighter{
		session: session,
		frame:   frame.New(display, session, logger),
		logger:  logger.With("component", "highlighter"),
	}
}

// SetDefaultTimeout sets how long a Highlight without an explicit duration
// stays pinned. Zero pins until Hide or Resume.
func (h *Highlighter) SetDefaultTimeout(d time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if d < 0 {
		d = 0
	}
	h.defaultTimeout = d
}

// Focus records the focused window's rectangle and shows the frame around
// it unless an explicit highlight or a hide request is in effect.
func (h *Highlighter) Focus(r geom.Rect) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.focus = r
	h.hasFocus = true
	if h.pinned || h.suspended {
		h.logger.Debug("focus remembered", "bounds", r, "pinned", h.pinned, "suspended", h.suspended)
		return
	}
	h.apply(r, true)
}

// Unfocus reports that no eligible window has focus.
func (h *Highlighter) Unfocus() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.hasFocus = false
	if h.pinned || h.suspended {
		return
	}
	h.apply(geom.Rect{}, false)
}

// Highlight pins the frame on r. A negative duration uses the default
// timeout; zero pins until Hide or Resume.
func (h *Highlighter) Highlight(r geom.Rect, d time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if d < 0 {
		d = h.defaultTimeout
	}
	h.stopPinLocked()
	h.pinned = true
	h.suspended = false
	h.pin = r
	h.pinGen++

	if d > 0 {
		gen := h.pinGen
		h.pinUntil = time.Now().Add(d)
		h.pinTimer = time.AfterFunc(d, func() { h.expire(gen) })
	}
	h.logger.Info("highlight pinned", "bounds", r, "duration", d)
	h.apply(r, true)
}

// Hide hides the frame until Resume or the next Highlight.
func (h *Highlighter) Hide() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.stopPinLocked()
	h.suspended = true
	h.apply(geom.Rect{}, false)
}

// Resume drops any pin or hide request and goes back to following focus.
func (h *Highlighter) Resume() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.stopPinLocked()
	h.suspended = false
	h.applyFocusLocked()
}

// Toggle hides the frame, or resumes following focus when it is already
// hidden. It returns the resulting mode.
func (h *Highlighter) Toggle() Mode {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.stopPinLocked()
	if h.suspended {
		h.suspended = false
		h.applyFocusLocked()
	} else {
		h.suspended = true
		h.apply(geom.Rect{}, false)
	}
	return h.modeLocked()
}

// Status returns the current mode and frame counters.
func (h *Highlighter) Status() Status {
	h.mu.Lock()
	defer h.mu.Unlock()

	st := h.frame.Stats()
	out := Status{
		Mode:      h.modeLocked(),
		Allocated: st.Allocated,
		Visible:   st.Visible,
		Bounds:    st.LastBounds,
		Focus:     h.focus,
		Redraws:   st.Redraws,
		Dropped:   st.Dropped,
		Skipped:   st.Skipped,
	}
	if h.pinned {
		out.PinnedUntil = h.pinUntil
	}
	return out
}

// Close hides the frame and releases its surface.
func (h *Highlighter) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.stopPinLocked()
	h.apply(geom.Rect{}, false)
	h.frame.Release()
}

func (h *Highlighter) expire(gen int) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.pinned || gen != h.pinGen {
		return
	}
	h.logger.Info("highlight expired", "bounds", h.pin)
	h.pinned = false
	h.pinTimer = nil
	h.pinUntil = time.Time{}
	h.applyFocusLocked()
}

func (h *Highlighter) stopPinLocked() {
	if h.pinTimer != nil {
		h.pinTimer.Stop()
		h.pinTimer = nil
	}
	h.pinned = false
	h.pinUntil = time.Time{}
}

func (h *Highlighter) applyFocusLocked() {
	if h.hasFocus {
		h.apply(h.focus, true)
		return
	}
	h.apply(geom.Rect{}, false)
}

func (h *Highlighter) modeLocked() Mode {
	switch {
	case h.pinned:
		return ModePinned
	case h.suspended:
		return ModeSuspended
	case h.hasFocus:
		return ModeFocus
	default:
		return ModeIdle
	}
}

// apply pushes one update to the frame inside a batch. Hiding leaves the
// stored bounds alone so the next show can skip the redraw.
func (h *Highlighter) apply(r geom.Rect, on bool) {
	err := surface.Batch(h.session, func(tx *surface.Txn) {
		if on {
			h.frame.SetBounds(r)
		}
		h.frame.SetVisibility(tx, on)
	})
	if err != nil {
		h.logger.Warn("frame update failed", "on", on, "bounds", r, "error", err)
	}
}
