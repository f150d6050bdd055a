package geom

import (
	"math"
	"testing"
)

func pt(x, y float64) Point { return Point{X: x, Y: y} }

var testRect = Rect{MinX: 0, MinY: 0, MaxX: 100, MaxY: 100}

func TestPointDistanceTo(t *testing.T) {
	tests := []struct {
		name string
		a, b Point
		want float64
	}{
		{"zero", pt(5, 5), pt(5, 5), 0},
		{"horizontal", pt(0, 0), pt(3, 0), 3},
		{"pythagorean", pt(0, 0), pt(3, 4), 5},
		{"negative coordinates", pt(-1, -1), pt(2, 3), 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.DistanceTo(tt.b); math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("DistanceTo = %g, want %g", got, tt.want)
			}
		})
	}
}

func TestPointNearlyEqual(t *testing.T) {
	if !pt(1, 1).NearlyEqual(pt(1+Epsilon/2, 1-Epsilon/2)) {
		t.Error("points within epsilon should compare equal")
	}
	if pt(1, 1).NearlyEqual(pt(1.001, 1)) {
		t.Error("points beyond epsilon should not compare equal")
	}
}

func TestRectValid(t *testing.T) {
	tests := []struct {
		name string
		rect Rect
		want bool
	}{
		{"normal", testRect, true},
		{"inverted x", Rect{MinX: 10, MinY: 0, MaxX: 0, MaxY: 10}, false},
		{"inverted y", Rect{MinX: 0, MinY: 10, MaxX: 10, MaxY: 0}, false},
		{"zero area", Rect{MinX: 5, MinY: 5, MaxX: 5, MaxY: 5}, false},
		{"zero width", Rect{MinX: 5, MinY: 0, MaxX: 5, MaxY: 10}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.rect.Valid(); got != tt.want {
				t.Errorf("Valid() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRectContains(t *testing.T) {
	tests := []struct {
		name string
		p    Point
		want bool
	}{
		{"interior", pt(50, 50), true},
		{"on left edge", pt(0, 50), true},
		{"on corner", pt(100, 100), true},
		{"just inside tolerance", pt(-Epsilon/2, 50), true},
		{"outside left", pt(-1, 50), false},
		{"outside top", pt(50, 101), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := testRect.Contains(tt.p); got != tt.want {
				t.Errorf("Contains(%v) = %v, want %v", tt.p, got, tt.want)
			}
		})
	}
}

func TestRectContainsAll(t *testing.T) {
	if !testRect.ContainsAll([]Point{pt(10, 10), pt(0, 0), pt(100, 50)}) {
		t.Error("all points inside, want true")
	}
	if testRect.ContainsAll([]Point{pt(10, 10), pt(150, 50)}) {
		t.Error("one point outside, want false")
	}
	if !testRect.ContainsAll(nil) {
		t.Error("empty slice is vacuously contained")
	}
}

func TestRectCorners(t *testing.T) {
	r := Rect{MinX: 1, MinY: 2, MaxX: 3, MaxY: 4}
	checks := []struct {
		name string
		got  Point
		want Point
	}{
		{"bottom-left", r.BottomLeft(), pt(1, 2)},
		{"bottom-right", r.BottomRight(), pt(3, 2)},
		{"top-right", r.TopRight(), pt(3, 4)},
		{"top-left", r.TopLeft(), pt(1, 4)},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s = %v, want %v", c.name, c.got, c.want)
		}
	}
	if r.Width() != 2 || r.Height() != 2 {
		t.Errorf("dimensions = %gx%g, want 2x2", r.Width(), r.Height())
	}
}

func TestRectUnion(t *testing.T) {
	a := Rect{MinX: 0, MinY: 0, MaxX: 10, MaxY: 10}
	b := Rect{MinX: 5, MinY: -5, MaxX: 20, MaxY: 8}
	got := a.Union(b)
	want := Rect{MinX: 0, MinY: -5, MaxX: 20, MaxY: 10}
	if got != want {
		t.Errorf("Union = %+v, want %+v", got, want)
	}
}

func TestRectIntersectsPolyline(t *testing.T) {
	tests := []struct {
		name string
		pts  []Point
		want bool
	}{
		{"vertex inside", []Point{pt(-10, 50), pt(50, 50)}, true},
		{"crossing without inside vertex", []Point{pt(-10, 50), pt(110, 50)}, true},
		{"entirely outside", []Point{pt(200, 200), pt(300, 300)}, false},
		{"skims past a corner", []Point{pt(-10, 120), pt(120, 120)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := testRect.IntersectsPolyline(tt.pts); got != tt.want {
				t.Errorf("IntersectsPolyline = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSegmentIntersections(t *testing.T) {
	tests := []struct {
		name string
		a, b Point
		want []Point
	}{
		{
			name: "horizontal through both vertical edges",
			a:    pt(-10, 50), b: pt(110, 50),
			want: []Point{pt(0, 50), pt(100, 50)},
		},
		{
			name: "vertical through both horizontal edges",
			a:    pt(50, -10), b: pt(50, 110),
			want: []Point{pt(50, 0), pt(50, 100)},
		},
		{
			name: "single crossing from inside",
			a:    pt(50, 50), b: pt(150, 50),
			want: []Point{pt(100, 50)},
		},
		{
			name: "diagonal corner to corner",
			a:    pt(-10, -10), b: pt(110, 110),
			want: []Point{pt(0, 0), pt(100, 100)},
		},
		{
			name: "no contact",
			a:    pt(-10, 200), b: pt(110, 200),
			want: nil,
		},
		{
			name: "misses edge span",
			a:    pt(-10, 150), b: pt(10, 150),
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SegmentIntersections(tt.a, tt.b, testRect)
			if len(got) != len(tt.want) {
				t.Fatalf("intersections = %v, want %v", got, tt.want)
			}
			for i := range tt.want {
				if !got[i].NearlyEqual(tt.want[i]) {
					t.Errorf("intersection %d = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

// Intersections come back ordered by distance along the segment, regardless
// of travel direction.
func TestSegmentIntersectionsOrdered(t *testing.T) {
	got := SegmentIntersections(pt(110, 50), pt(-10, 50), testRect)
	if len(got) != 2 {
		t.Fatalf("intersections = %v, want 2", got)
	}
	if !got[0].NearlyEqual(pt(100, 50)) || !got[1].NearlyEqual(pt(0, 50)) {
		t.Errorf("order = %v, want right edge first", got)
	}
}

func TestSegmentIntersection(t *testing.T) {
	tests := []struct {
		name   string
		a, b   Point
		c, d   Point
		want   Point
		wantOK bool
	}{
		{
			name: "perpendicular crossing",
			a:    pt(0, 0), b: pt(10, 0),
			c: pt(5, -5), d: pt(5, 5),
			want: pt(5, 0), wantOK: true,
		},
		{
			name: "diagonal crossing",
			a:    pt(0, 0), b: pt(10, 10),
			c: pt(0, 10), d: pt(10, 0),
			want: pt(5, 5), wantOK: true,
		},
		{
			name: "touching at endpoint",
			a:    pt(0, 0), b: pt(5, 5),
			c: pt(5, 5), d: pt(10, 0),
			want: pt(5, 5), wantOK: true,
		},
		{
			name: "parallel",
			a:    pt(0, 0), b: pt(10, 0),
			c: pt(0, 1), d: pt(10, 1),
			wantOK: false,
		},
		{
			name: "lines cross beyond the spans",
			a:    pt(0, 0), b: pt(1, 0),
			c: pt(5, -5), d: pt(5, 5),
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := SegmentIntersection(tt.a, tt.b, tt.c, tt.d)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && !got.NearlyEqual(tt.want) {
				t.Errorf("intersection = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRectExpand(t *testing.T) {
	got := testRect.Expand(2)
	want := Rect{MinX: -2, MinY: -2, MaxX: 102, MaxY: 102}
	if got != want {
		t.Errorf("Expand = %+v, want %+v", got, want)
	}
}
