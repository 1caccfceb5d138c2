// Package frame draws the focus frame: a translucent border outline around
// the focused region, redrawn only when the region moves.
package frame

import (
	"image/color"
	"log/slog"

	"github.com/1broseidon/focusframe/internal/geom"
	"github.com/1broseidon/focusframe/internal/surface"
)

// Fixed look of the frame.
const (
	Thickness = 10
	Alpha     = 0.3
	Layer     = 102 * surface.LayerMultiplier
)

var (
	ColorErase     = color.NRGBA{}
	ColorHighlight = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
)

const surfaceName = "FocusFrame"

// Stats is a snapshot of the frame state plus its draw counters.
type Stats struct {
	Allocated  bool
	Visible    bool
	Bounds     geom.Rect
	LastBounds geom.Rect
	// Redraws counts erase+draw cycles.
	Redraws int
	// Dropped counts paints abandoned because the draw target could not be locked.
	Dropped int
	// Skipped counts paints of empty rectangles.
	Skipped int
}

// Frame is the focus frame of one display. It is not safe for concurrent
// use; callers serialize access.
type Frame struct {
	handle     surface.Handle
	bounds     geom.Rect
	lastBounds geom.Rect
	visible    bool
	logger     *slog.Logger
	stats      Stats
}

// New allocates the frame's surface on display. Allocation failure is logged
// and leaves the frame inert for its whole life.
func New(display surface.Display, session surface.Session, logger *slog.Logger) *Frame {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "frame", "display", display.Name)

	handle, err := surface.Allocate(session, surface.Options{
		Name:       surfaceName,
		Width:      1,
		Height:     1,
		Hidden:     true,
		LayerStack: display.LayerStack,
		Layer:      Layer,
		Alpha:      Alpha,
	})
	if err != nil {
		logger.Warn("focus frame surface allocation failed; frame disabled", "error", err)
	}

	return &Frame{
		handle: handle,
		logger: logger,
	}
}

// SetBounds stores r as the rectangle to highlight on the next
// SetVisibility(tx, true). It never touches the surface.
func (f *Frame) SetBounds(r geom.Rect) {
	f.logger.Debug("set bounds", "bounds", r)
	f.bounds = r
}

// SetVisibility shows or hides the frame. When showing and the bounds moved
// since the last draw, the old border is erased and the new one painted.
// Hiding keeps the painted content for the next show.
//
// tx must come from surface.Batch so the erase, move and redraw reach the
// screen together.
func (f *Frame) SetVisibility(tx *surface.Txn, on bool) {
	f.logger.Debug("set visibility", "on", on, "last_bounds", f.lastBounds, "bounds", f.bounds)
	if !tx.Active() {
		f.logger.Warn("set visibility called outside a transaction; expect flicker")
	}
	if !f.handle.Allocated() {
		return
	}

	if on {
		if f.lastBounds != f.bounds {
			f.position(f.lastBounds)
			f.draw(f.lastBounds, ColorErase)

			f.position(f.bounds)
			f.draw(f.bounds, ColorHighlight)

			f.lastBounds = f.bounds
			f.stats.Redraws++
		}
		f.handle.Show()
	} else {
		f.handle.Hide()
	}
	f.visible = on
}

// Visible reports the last visibility applied.
func (f *Frame) Visible() bool {
	return f.visible
}

// Stats returns a snapshot of the frame state.
func (f *Frame) Stats() Stats {
	s := f.stats
	s.Allocated = f.handle.Allocated()
	s.Visible = f.visible
	s.Bounds = f.bounds
	s.LastBounds = f.lastBounds
	return s
}

// Release frees the surface. The frame is inert afterwards.
func (f *Frame) Release() {
	f.handle.Release()
	f.visible = false
}

func (f *Frame) position(r geom.Rect) {
	f.logger.Debug("position surface", "bounds", r)
	f.handle.ResizeAndMove(r)
}
