package geom

import "fmt"

// Rect is an axis-aligned rectangle in integer display coordinates.
// Right and Bottom are exclusive.
type Rect struct {
	Left   int
	Top    int
	Right  int
	Bottom int
}

// XYWH builds a Rect from an origin and a size.
func XYWH(x, y, width, height int) Rect {
	return Rect{Left: x, Top: y, Right: x + width, Bottom: y + height}
}

func (r Rect) Width() int  { return r.Right - r.Left }
func (r Rect) Height() int { return r.Bottom - r.Top }

// Empty reports whether r covers no pixels.
func (r Rect) Empty() bool {
	return r.Left >= r.Right || r.Top >= r.Bottom
}

// Area returns the pixel count covered by r, zero for empty rectangles.
func (r Rect) Area() int {
	if r.Empty() {
		return 0
	}
	return r.Width() * r.Height()
}

// Local returns r translated so its origin is (0,0).
func (r Rect) Local() Rect {
	return Rect{Right: r.Width(), Bottom: r.Height()}
}

// Offset returns r translated by (dx, dy).
func (r Rect) Offset(dx, dy int) Rect {
	return Rect{Left: r.Left + dx, Top: r.Top + dy, Right: r.Right + dx, Bottom: r.Bottom + dy}
}

// Intersect returns the overlap of r and o, or the zero Rect if they do not overlap.
func (r Rect) Intersect(o Rect) Rect {
	out := Rect{
		Left:   max(r.Left, o.Left),
		Top:    max(r.Top, o.Top),
		Right:  min(r.Right, o.Right),
		Bottom: min(r.Bottom, o.Bottom),
	}
	if out.Empty() {
		return Rect{}
	}
	return out
}

// Intersects reports whether r and o share at least one pixel.
func (r Rect) Intersects(o Rect) bool {
	return r.Left < o.Right && r.Right > o.Left && r.Top < o.Bottom && r.Bottom > o.Top
}

// Contains reports whether the point (x, y) lies inside r.
func (r Rect) Contains(x, y int) bool {
	return x >= r.Left && x < r.Right && y >= r.Top && y < r.Bottom
}

// Center returns the integer midpoint of r.
func (r Rect) Center() (int, int) {
	return r.Left + r.Width()/2, r.Top + r.Height()/2
}

// Union returns the smallest rectangle covering every non-empty input.
func Union(rects ...Rect) (Rect, bool) {
	var out Rect
	found := false
	for _, r := range rects {
		if r.Empty() {
			continue
		}
		if !found {
			out = r
			found = true
			continue
		}
		out.Left = min(out.Left, r.Left)
		out.Top = min(out.Top, r.Top)
		out.Right = max(out.Right, r.Right)
		out.Bottom = max(out.Bottom, r.Bottom)
	}
	return out, found
}

// String renders r as "[left,top][right,bottom]".
func (r Rect) String() string {
	return fmt.Sprintf("[%d,%d][%d,%d]", r.Left, r.Top, r.Right, r.Bottom)
}
