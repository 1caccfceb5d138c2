package surface

import "github.com/1broseidon/focusframe/internal/geom"

// Handle owns exactly one surface. It is either allocated or inert; an inert
// handle comes from a failed allocation and turns every operation into a
// silent no-op for the rest of its life.
type Handle interface {
	Allocated() bool
	// ResizeAndMove sets the surface size to r's size and its origin to r's
	// top-left corner.
	ResizeAndMove(r geom.Rect)
	Show()
	Hide()
	// Draw locks dirty (in surface-local coordinates), hands the canvas to
	// paint and posts the result. When the lock fails nothing is posted and
	// the lock error is returned.
	Draw(dirty geom.Rect, paint func(Canvas)) error
	Release()

	isHandle()
}

// Allocate creates a surface on s. On failure it returns an inert Handle
// together with the allocation error, so callers can log and carry on.
func Allocate(s Session, opts Options) (Handle, error) {
	surf, err := s.CreateSurface(opts)
	if err != nil {
		return Inert(), err
	}
	if surf == nil {
		return Inert(), ErrOutOfResources
	}
	return &allocated{surf: surf}, nil
}

// Inert returns a handle that never touches a compositor.
func Inert() Handle {
	return inert{}
}

type allocated struct {
	surf     Surface
	released bool
}

func (h *allocated) Allocated() bool { return !h.released }

func (h *allocated) ResizeAndMove(r geom.Rect) {
	if h.released {
		return
	}
	h.surf.SetSize(r.Width(), r.Height())
	h.surf.SetPosition(r.Left, r.Top)
}

func (h *allocated) Show() {
	if !h.released {
		h.surf.Show()
	}
}

func (h *allocated) Hide() {
	if !h.released {
		h.surf.Hide()
	}
}

func (h *allocated) Draw(dirty geom.Rect, paint func(Canvas)) error {
	if h.released {
		return ErrInert
	}
	c, err := h.surf.LockCanvas(dirty)
	if err != nil {
		return err
	}
	if c == nil {
		return ErrOutOfResources
	}
	paint(c)
	return h.surf.UnlockCanvasAndPost(c)
}

func (h *allocated) Release() {
	if h.released {
		return
	}
	h.released = true
	h.surf.Release()
}

func (*allocated) isHandle() {}

type inert struct{}

func (inert) Allocated() bool { return false }

func (inert) ResizeAndMove(geom.Rect) {}

func (inert) Show() {}

func (inert) Hide() {}

func (inert) Draw(geom.Rect, func(Canvas)) error { return ErrInert }

func (inert) Release() {}

func (inert) isHandle() {}
