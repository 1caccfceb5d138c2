package x11

import (
	"fmt"
	"image"
	"image/color"
	"log/slog"
	"sync"

	"github.com/BurntSushi/xgb/shape"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/xgraphics"
	"golang.org/x/image/draw"

	"github.com/1broseidon/focusframe/internal/geom"
	"github.com/1broseidon/focusframe/internal/surface"
)

// Session allocates surfaces as override-redirect windows and batches
// updates with a server grab.
type Session struct {
	conn    *Connection
	logger  *slog.Logger
	shapeOK bool

	mu    sync.Mutex
	depth int
}

var _ surface.Session = (*Session)(nil)

// NewSession creates a surface session on conn. Without the SHAPE extension
// surfaces still work but are drawn as solid translucent rectangles.
func NewSession(conn *Connection, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "x11-session")

	s := &Session{conn: conn, logger: logger}
	if err := shape.Init(conn.XUtil.Conn()); err != nil {
		logger.Warn("SHAPE extension unavailable; frame interior will not be transparent", "error", err)
	} else {
		s.shapeOK = true
	}
	return s
}

// CreateSurface creates a 1x1 (or opts-sized) override-redirect window on the
// layer stack's root. Any X error is reported as surface.ErrOutOfResources.
func (s *Session) CreateSurface(opts surface.Options) (surface.Surface, error) {
	conn := s.conn.XUtil.Conn()
	screen := s.conn.XUtil.Screen()

	parent := xproto.Window(opts.LayerStack)
	if parent == 0 {
		parent = s.conn.Root
	}
	width, height := clampSize(opts.Width, opts.Height)

	wid, err := xproto.NewWindowId(conn)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", surface.ErrOutOfResources, err)
	}

	// Create window with override_redirect=true
	// This makes it bypass the window manager
	err = xproto.CreateWindowChecked(
		conn,
		screen.RootDepth,
		wid,
		parent,
		0, 0,
		uint16(width), uint16(height),
		0, // border_width
		xproto.WindowClassInputOutput,
		screen.RootVisual,
		xproto.CwBackPixel|xproto.CwOverrideRedirect,
		// Value list order follows the bit positions of the mask (low → high).
		[]uint32{0, 1}, // back_pixel=black, override_redirect=true
	).Check()
	if err != nil {
		return nil, fmt.Errorf("%w: create window: %v", surface.ErrOutOfResources, err)
	}

	xs := &xsurface{
		session: s,
		win:     wid,
		layer:   opts.Layer,
		width:   width,
		height:  height,
	}

	if err := ewmh.WmWindowOpacitySet(s.conn.XUtil, wid, opts.Alpha); err != nil {
		s.logger.Warn("failed to set surface opacity", "window", wid, "error", err)
	}
	if s.shapeOK {
		// Nothing painted yet, and the frame never takes input.
		xs.setShape(shape.SkBounding, nil)
		xs.setShape(shape.SkInput, nil)
	}

	if !opts.Hidden {
		xs.Show()
	}
	s.logger.Debug("surface created", "name", opts.Name, "window", wid, "layer", opts.Layer)
	return xs, nil
}

// OpenTransaction grabs the server so that no other client observes the
// intermediate state of the batch. Nested opens only count.
func (s *Session) OpenTransaction() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.depth == 0 {
		if err := xproto.GrabServerChecked(s.conn.XUtil.Conn()).Check(); err != nil {
			return err
		}
	}
	s.depth++
	return nil
}

// CloseTransaction releases the grab and waits for the server to process
// everything sent inside the batch.
func (s *Session) CloseTransaction() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.depth == 0 {
		return fmt.Errorf("close without open transaction")
	}
	s.depth--
	if s.depth > 0 {
		return nil
	}

	conn := s.conn.XUtil.Conn()
	xproto.UngrabServer(conn)
	_, err := xproto.GetInputFocus(conn).Reply()
	return err
}

type shapeOp struct {
	op   shape.Op
	rect geom.Rect
}

// Limits of the X11 protocol: window sizes are CARD16, positions INT16.
const (
	maxSurfaceSide = 65535
	minPosition    = -32768
	maxPosition    = 32767
)

// tileSize is the side of the background tile that carries the fill colour.
// The bounding shape decides which pixels of the window are visible, so the
// background never needs to be larger than this.
const tileSize = 8

type xsurface struct {
	session *Session
	win     xproto.Window
	layer   int
	width   int
	height  int
	mapped  bool

	bg    color.NRGBA
	hasBG bool
}

func (x *xsurface) SetSize(width, height int) {
	x.width, x.height = clampSize(width, height)
	xproto.ConfigureWindow(
		x.session.conn.XUtil.Conn(),
		x.win,
		xproto.ConfigWindowWidth|xproto.ConfigWindowHeight,
		[]uint32{uint32(x.width), uint32(x.height)},
	)
}

func (x *xsurface) SetPosition(px, py int) {
	xproto.ConfigureWindow(
		x.session.conn.XUtil.Conn(),
		x.win,
		xproto.ConfigWindowX|xproto.ConfigWindowY,
		[]uint32{uint32(int32(clampPosition(px))), uint32(int32(clampPosition(py)))},
	)
}

func (x *xsurface) Show() {
	x.restack()
	xproto.MapWindow(x.session.conn.XUtil.Conn(), x.win)
	x.mapped = true
}

func (x *xsurface) Hide() {
	if !x.mapped {
		return
	}
	xproto.UnmapWindow(x.session.conn.XUtil.Conn(), x.win)
	x.mapped = false
}

// LockCanvas returns a draw target covering dirty, clipped to the surface.
// The canvas only records fills; nothing is allocated per pixel.
func (x *xsurface) LockCanvas(dirty geom.Rect) (surface.Canvas, error) {
	clip := dirty.Intersect(geom.Rect{Right: x.width, Bottom: x.height})
	if clip.Empty() {
		return nil, surface.ErrInvalidRegion
	}
	return &xcanvas{surf: x, clip: clip}, nil
}

// UnlockCanvasAndPost applies the recorded fills. Opaque fills join the
// bounding shape and are repainted from the background tile; transparent
// fills leave it.
func (x *xsurface) UnlockCanvasAndPost(c surface.Canvas) error {
	cv, ok := c.(*xcanvas)
	if !ok || cv.surf != x {
		return surface.ErrInvalidRegion
	}

	if cv.hasOpaque {
		if err := x.setBackground(cv.opaque); err != nil {
			return fmt.Errorf("%w: %v", surface.ErrOutOfResources, err)
		}
	}

	conn := x.session.conn.XUtil.Conn()
	for _, op := range cv.shapeOps {
		if x.session.shapeOK {
			x.applyShape(op)
		}
		if op.op == shape.SoUnion {
			r := op.rect
			xproto.ClearArea(conn, false, x.win, int16(clampPosition(r.Left)), int16(clampPosition(r.Top)), uint16(r.Width()), uint16(r.Height()))
		}
	}
	return nil
}

// setBackground makes col the window background by uploading a small solid
// tile. The pixmap can be freed as soon as the server has it.
func (x *xsurface) setBackground(col color.NRGBA) error {
	if x.hasBG && x.bg == col {
		return nil
	}

	img := xgraphics.New(x.session.conn.XUtil, image.Rect(0, 0, tileSize, tileSize))
	defer img.Destroy()
	draw.Draw(img, img.Bounds(), image.NewUniform(col), image.Point{}, draw.Src)
	if err := img.XSurfaceSet(x.win); err != nil {
		return err
	}
	img.XDraw()
	xproto.ChangeWindowAttributes(
		x.session.conn.XUtil.Conn(),
		x.win,
		xproto.CwBackPixmap,
		[]uint32{uint32(img.Pixmap)},
	)

	x.bg, x.hasBG = col, true
	return nil
}

func (x *xsurface) Release() {
	xproto.DestroyWindow(x.session.conn.XUtil.Conn(), x.win)
	x.win = 0
	x.mapped = false
}

// restack keeps the surface above ordinary windows and, unless it belongs to
// the chrome layers itself, just below the first dock.
func (x *xsurface) restack() {
	conn := x.session.conn.XUtil.Conn()
	if x.layer < surface.LayerSystemChrome {
		if dock, ok := x.session.conn.findDockWindow(); ok {
			err := xproto.ConfigureWindowChecked(
				conn,
				x.win,
				xproto.ConfigWindowSibling|xproto.ConfigWindowStackMode,
				[]uint32{uint32(dock), xproto.StackModeBelow},
			).Check()
			if err == nil {
				return
			}
			// Reparented docks are not siblings of the surface.
			x.session.logger.Debug("restack below dock failed; raising instead", "dock", dock, "error", err)
		}
	}
	xproto.ConfigureWindow(conn, x.win, xproto.ConfigWindowStackMode, []uint32{xproto.StackModeAbove})
}

func (x *xsurface) setShape(kind shape.Kind, rects []xproto.Rectangle) {
	shape.Rectangles(x.session.conn.XUtil.Conn(), shape.SoSet, kind, xproto.ClipOrderingUnsorted, x.win, 0, 0, rects)
}

func (x *xsurface) applyShape(op shapeOp) {
	r := op.rect
	rect := xproto.Rectangle{
		X:      int16(clampPosition(r.Left)),
		Y:      int16(clampPosition(r.Top)),
		Width:  uint16(r.Width()),
		Height: uint16(r.Height()),
	}
	shape.Rectangles(x.session.conn.XUtil.Conn(), op.op, shape.SkBounding, xproto.ClipOrderingUnsorted, x.win, 0, 0, []xproto.Rectangle{rect})
}

// xcanvas remembers which regions became opaque or transparent so the
// window shape can follow. Visible pixels take the colour of the last opaque
// fill.
type xcanvas struct {
	surf      *xsurface
	clip      geom.Rect
	shapeOps  []shapeOp
	opaque    color.NRGBA
	hasOpaque bool
}

func (c *xcanvas) Bounds() geom.Rect { return c.clip }

func (c *xcanvas) Fill(r geom.Rect, col color.NRGBA) {
	r = r.Intersect(c.clip)
	if r.Empty() {
		return
	}
	op := shape.Op(shape.SoUnion)
	if col.A == 0 {
		op = shape.SoSubtract
	} else {
		c.opaque, c.hasOpaque = col, true
	}
	c.shapeOps = append(c.shapeOps, shapeOp{op: op, rect: r})
}

// clampSize keeps a window size inside 1..65535 on both axes.
func clampSize(width, height int) (int, int) {
	return clampInt(width, 1, maxSurfaceSide), clampInt(height, 1, maxSurfaceSide)
}

func clampPosition(v int) int {
	return clampInt(v, minPosition, maxPosition)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
