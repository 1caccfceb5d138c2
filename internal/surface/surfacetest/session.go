// Package surfacetest provides an in-memory surface.Session that records
// every call and paints into an image.NRGBA, for tests that need a
// compositor without an X server.
package surfacetest

import (
	"image"
	"image/color"
	"sync"

	"golang.org/x/image/draw"

	"github.com/1broseidon/focusframe/internal/geom"
	"github.com/1broseidon/focusframe/internal/surface"
)

// OpKind names a recorded call.
type OpKind string

const (
	OpCreate   OpKind = "create"
	OpSize     OpKind = "size"
	OpPosition OpKind = "position"
	OpShow     OpKind = "show"
	OpHide     OpKind = "hide"
	OpLock     OpKind = "lock"
	OpFill     OpKind = "fill"
	OpPost     OpKind = "post"
	OpRelease  OpKind = "release"
	OpOpen     OpKind = "open"
	OpClose    OpKind = "close"
)

// Op is one recorded call.
type Op struct {
	Kind OpKind
	// Rect is the argument: size as a local rect, position as the new
	// on-screen rect, lock and fill regions in surface-local coordinates.
	Rect geom.Rect
	// Screen is the surface's on-screen rectangle when the call was made.
	Screen geom.Rect
	Color  color.NRGBA
	// InTxn reports whether the call happened inside a transaction.
	InTxn bool
}

// Session is a recording surface.Session.
type Session struct {
	mu       sync.Mutex
	ops      []Op
	depth    int
	surfaces []*Surface

	// CreateErr, when set, fails every CreateSurface call.
	CreateErr error
	// LockErr, when set, fails every LockCanvas call.
	LockErr error
	// OpenErr, when set, fails every OpenTransaction call.
	OpenErr error
}

var _ surface.Session = (*Session)(nil)

// NewSession returns an empty recording session.
func NewSession() *Session {
	return &Session{}
}

// CreateSurface records the allocation and returns a hidden or shown surface
// according to opts.
func (s *Session) CreateSurface(opts surface.Options) (surface.Surface, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.CreateErr != nil {
		return nil, s.CreateErr
	}
	surf := &Surface{
		session: s,
		opts:    opts,
		visible: !opts.Hidden,
	}
	surf.resize(opts.Width, opts.Height)
	s.surfaces = append(s.surfaces, surf)
	s.recordLocked(Op{Kind: OpCreate, Rect: geom.XYWH(0, 0, opts.Width, opts.Height)})
	return surf, nil
}

func (s *Session) OpenTransaction() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.OpenErr != nil {
		return s.OpenErr
	}
	s.depth++
	s.recordLocked(Op{Kind: OpOpen})
	return nil
}

func (s *Session) CloseTransaction() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.depth > 0 {
		s.depth--
	}
	s.recordLocked(Op{Kind: OpClose})
	return nil
}

// InTransaction reports whether a transaction is currently open.
func (s *Session) InTransaction() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.depth > 0
}

// Ops returns a copy of every recorded call.
func (s *Session) Ops() []Op {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Op, len(s.ops))
	copy(out, s.ops)
	return out
}

// Reset forgets recorded calls; surfaces keep their state.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ops = nil
}

// Surface returns the most recently created surface, or nil.
func (s *Session) Surface() *Surface {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.surfaces) == 0 {
		return nil
	}
	return s.surfaces[len(s.surfaces)-1]
}

func (s *Session) recordLocked(op Op) {
	op.InTxn = s.depth > 0
	s.ops = append(s.ops, op)
}

// Filter returns the ops whose kind is one of kinds, in order.
func Filter(ops []Op, kinds ...OpKind) []Op {
	var out []Op
	for _, op := range ops {
		for _, k := range kinds {
			if op.Kind == k {
				out = append(out, op)
				break
			}
		}
	}
	return out
}

// Surface is a recording surface.Surface backed by an NRGBA buffer.
type Surface struct {
	session  *Session
	opts     surface.Options
	x, y     int
	width    int
	height   int
	visible  bool
	released bool
	pixels   *image.NRGBA
}

var _ surface.Surface = (*Surface)(nil)

func (f *Surface) SetSize(width, height int) {
	f.session.mu.Lock()
	defer f.session.mu.Unlock()
	f.resize(width, height)
	f.session.recordLocked(Op{Kind: OpSize, Rect: geom.XYWH(0, 0, width, height), Screen: f.screenLocked()})
}

func (f *Surface) SetPosition(x, y int) {
	f.session.mu.Lock()
	defer f.session.mu.Unlock()
	f.x, f.y = x, y
	f.session.recordLocked(Op{Kind: OpPosition, Rect: f.screenLocked(), Screen: f.screenLocked()})
}

func (f *Surface) Show() {
	f.session.mu.Lock()
	defer f.session.mu.Unlock()
	f.visible = true
	f.session.recordLocked(Op{Kind: OpShow, Screen: f.screenLocked()})
}

func (f *Surface) Hide() {
	f.session.mu.Lock()
	defer f.session.mu.Unlock()
	f.visible = false
	f.session.recordLocked(Op{Kind: OpHide, Screen: f.screenLocked()})
}

func (f *Surface) LockCanvas(dirty geom.Rect) (surface.Canvas, error) {
	f.session.mu.Lock()
	defer f.session.mu.Unlock()

	if f.session.LockErr != nil {
		return nil, f.session.LockErr
	}
	clip := dirty.Intersect(geom.Rect{Right: f.width, Bottom: f.height})
	if clip.Empty() {
		return nil, surface.ErrInvalidRegion
	}
	f.session.recordLocked(Op{Kind: OpLock, Rect: clip, Screen: f.screenLocked()})
	return &canvas{surf: f, clip: clip}, nil
}

func (f *Surface) UnlockCanvasAndPost(c surface.Canvas) error {
	f.session.mu.Lock()
	defer f.session.mu.Unlock()

	cv, ok := c.(*canvas)
	if !ok || cv.surf != f {
		return surface.ErrInvalidRegion
	}
	f.session.recordLocked(Op{Kind: OpPost, Rect: cv.clip, Screen: f.screenLocked()})
	return nil
}

func (f *Surface) Release() {
	f.session.mu.Lock()
	defer f.session.mu.Unlock()
	f.released = true
	f.session.recordLocked(Op{Kind: OpRelease})
}

// Visible reports whether the surface is currently shown.
func (f *Surface) Visible() bool {
	f.session.mu.Lock()
	defer f.session.mu.Unlock()
	return f.visible
}

// Released reports whether Release was called.
func (f *Surface) Released() bool {
	f.session.mu.Lock()
	defer f.session.mu.Unlock()
	return f.released
}

// Options returns the allocation options.
func (f *Surface) Options() surface.Options {
	return f.opts
}

// Screen returns the surface's on-screen rectangle.
func (f *Surface) Screen() geom.Rect {
	f.session.mu.Lock()
	defer f.session.mu.Unlock()
	return f.screenLocked()
}

// CountPixels returns how many pixels of the buffer currently hold c.
func (f *Surface) CountPixels(c color.NRGBA) int {
	f.session.mu.Lock()
	defer f.session.mu.Unlock()

	n := 0
	b := f.pixels.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if f.pixels.NRGBAAt(x, y) == c {
				n++
			}
		}
	}
	return n
}

// PixelAt returns the buffer pixel at surface-local (x, y).
func (f *Surface) PixelAt(x, y int) color.NRGBA {
	f.session.mu.Lock()
	defer f.session.mu.Unlock()
	return f.pixels.NRGBAAt(x, y)
}

// resize drops the buffer content only when the size actually changes.
func (f *Surface) resize(width, height int) {
	width, height = max(width, 0), max(height, 0)
	if f.pixels != nil && width == f.width && height == f.height {
		return
	}
	f.width, f.height = width, height
	f.pixels = image.NewNRGBA(image.Rect(0, 0, f.width, f.height))
}

func (f *Surface) screenLocked() geom.Rect {
	return geom.XYWH(f.x, f.y, f.width, f.height)
}

type canvas struct {
	surf *Surface
	clip geom.Rect
}

func (c *canvas) Bounds() geom.Rect { return c.clip }

func (c *canvas) Fill(r geom.Rect, col color.NRGBA) {
	c.surf.session.mu.Lock()
	defer c.surf.session.mu.Unlock()

	r = r.Intersect(c.clip)
	c.surf.session.recordLocked(Op{Kind: OpFill, Rect: r, Screen: c.surf.screenLocked(), Color: col})
	if r.Empty() {
		return
	}
	draw.Draw(c.surf.pixels, image.Rect(r.Left, r.Top, r.Right, r.Bottom), image.NewUniform(col), image.Point{}, draw.Src)
}
