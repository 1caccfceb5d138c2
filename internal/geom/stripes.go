package geom

// Stripe indices into the array returned by Stripes.
const (
	StripeTop = iota
	StripeBottom
	StripeLeft
	StripeRight
)

// Stripes returns the four stripes of a hollow border of the given thickness
// inside a width x height box, in local coordinates.
//
// Top and bottom span the full width; left and right exclude the rows already
// covered by top and bottom. Every stripe is clipped to the box, so boxes
// smaller than twice the thickness produce empty or overlapping stripes
// rather than inverted ones.
func Stripes(width, height, thickness int) [4]Rect {
	box := Rect{Right: width, Bottom: height}
	t := thickness

	stripes := [4]Rect{
		StripeTop:    {Left: 0, Top: 0, Right: width, Bottom: t},
		StripeBottom: {Left: 0, Top: height - t, Right: width, Bottom: height},
		StripeLeft:   {Left: 0, Top: t, Right: t, Bottom: height - t},
		StripeRight:  {Left: width - t, Top: t, Right: width, Bottom: height - t},
	}
	for i := range stripes {
		stripes[i] = stripes[i].Intersect(box)
	}
	return stripes
}

// StripeArea returns the number of pixels covered by the union of the stripes.
func StripeArea(width, height, thickness int) int {
	box := Rect{Right: width, Bottom: height}
	if box.Empty() || thickness <= 0 {
		return 0
	}
	inner := Rect{Left: thickness, Top: thickness, Right: width - thickness, Bottom: height - thickness}
	return box.Area() - inner.Area()
}
