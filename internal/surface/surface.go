// Package surface abstracts the compositor: a session that allocates drawable
// surfaces, the surfaces themselves, and the draw targets locked from them.
package surface

import (
	"errors"
	"image/color"

	"github.com/1broseidon/focusframe/internal/geom"
)

var (
	// ErrOutOfResources reports that the compositor could not allocate a
	// surface or a draw target.
	ErrOutOfResources = errors.New("surface: out of resources")
	// ErrInvalidRegion reports a lock request for an empty or out-of-bounds region.
	ErrInvalidRegion = errors.New("surface: invalid region")
	// ErrInert is returned by every drawing operation on an inert Handle.
	ErrInert = errors.New("surface: handle is inert")
)

// LayerMultiplier spaces z-order values so that related surfaces can be
// stacked between two window types.
const LayerMultiplier = 10000

// LayerSystemChrome is the lowest layer reserved for panels and docks.
const LayerSystemChrome = 200 * LayerMultiplier

// Display identifies where surfaces are placed.
type Display struct {
	ID         int
	Name       string
	LayerStack uint32
	Bounds     geom.Rect
}

// Options describes a surface at allocation time.
type Options struct {
	Name       string
	Width      int
	Height     int
	Hidden     bool
	LayerStack uint32
	Layer      int
	Alpha      float64
}

// Canvas is a locked draw target. Fill replaces the pixels of r (clipped to
// the locked region) with c; it never blends.
type Canvas interface {
	Bounds() geom.Rect
	Fill(r geom.Rect, c color.NRGBA)
}

// Surface is one compositor-backed drawable.
type Surface interface {
	SetSize(width, height int)
	SetPosition(x, y int)
	Show()
	Hide()
	LockCanvas(dirty geom.Rect) (Canvas, error)
	UnlockCanvasAndPost(c Canvas) error
	Release()
}

// Session allocates surfaces and brackets batched updates. Callers never
// open or close transactions directly; use Batch.
type Session interface {
	CreateSurface(opts Options) (Surface, error)
	OpenTransaction() error
	CloseTransaction() error
}
