package geom

import "testing"

func TestStripesMatchBorderLayout(t *testing.T) {
	got := Stripes(100, 50, 10)
	want := [4]Rect{
		StripeTop:    {0, 0, 100, 10},
		StripeBottom: {0, 40, 100, 50},
		StripeLeft:   {0, 10, 10, 40},
		StripeRight:  {90, 10, 100, 40},
	}
	if got != want {
		t.Fatalf("Stripes(100, 50, 10) = %v, want %v", got, want)
	}
}

func TestStripesDegenerateBoxes(t *testing.T) {
	tests := []struct {
		name          string
		width, height int
	}{
		{"zero", 0, 0},
		{"narrower than thickness", 5, 50},
		{"shorter than twice thickness", 100, 15},
		{"tiny square", 3, 3},
		{"exactly twice thickness", 20, 20},
		{"negative", -10, -4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			box := Rect{Right: tt.width, Bottom: tt.height}
			for i, s := range Stripes(tt.width, tt.height, 10) {
				if s.Empty() {
					if s != (Rect{}) {
						t.Fatalf("stripe %d is empty but not zero: %v", i, s)
					}
					continue
				}
				if s.Intersect(box) != s {
					t.Fatalf("stripe %d %v escapes box %v", i, s, box)
				}
			}
		})
	}
}

func TestStripesCoverOnlyTheBorder(t *testing.T) {
	const w, h, thick = 37, 23, 10
	covered := 0
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			for _, s := range Stripes(w, h, thick) {
				if s.Contains(x, y) {
					covered++
					break
				}
			}
		}
	}
	if want := StripeArea(w, h, thick); covered != want {
		t.Fatalf("stripes cover %d pixels, want %d", covered, want)
	}
}

func TestStripeAreaIsPerimeterBound(t *testing.T) {
	if got, want := StripeArea(100, 50, 10), 100*50-80*30; got != want {
		t.Fatalf("StripeArea = %d, want %d", got, want)
	}
	if got := StripeArea(15, 15, 10); got != 15*15 {
		t.Fatalf("StripeArea for degenerate box = %d, want full box", got)
	}
	if got := StripeArea(0, 40, 10); got != 0 {
		t.Fatalf("StripeArea for empty box = %d, want 0", got)
	}
}

func TestRectIntersectAndUnion(t *testing.T) {
	a := XYWH(0, 0, 100, 50)
	b := XYWH(20, 20, 100, 50)

	if got, want := a.Intersect(b), (Rect{20, 20, 100, 50}); got != want {
		t.Fatalf("Intersect = %v, want %v", got, want)
	}
	if got := a.Intersect(XYWH(200, 200, 5, 5)); got != (Rect{}) {
		t.Fatalf("disjoint Intersect = %v, want zero", got)
	}
	if !a.Intersects(b) {
		t.Fatalf("expected %v to intersect %v", a, b)
	}

	u, ok := Union(a, Rect{}, b)
	if !ok {
		t.Fatal("Union reported no rectangles")
	}
	if want := (Rect{0, 0, 120, 70}); u != want {
		t.Fatalf("Union = %v, want %v", u, want)
	}
	if _, ok := Union(Rect{}, Rect{5, 5, 5, 9}); ok {
		t.Fatal("Union of empty rects should report false")
	}
}

func TestRectString(t *testing.T) {
	if got := XYWH(20, 20, 100, 50).String(); got != "[20,20][120,70]" {
		t.Fatalf("String() = %q", got)
	}
}
