// Package geom provides the planar geometry primitives used by the contour
// clipper: points, axis-aligned rectangles, and segment intersection.
//
// All coordinates are double-precision values in one consistent planar frame;
// this package performs no coordinate reference system handling.
//
// # Tolerance
//
// Boundary decisions (is a point on an edge, does an intersection land inside
// an edge span) use the absolute tolerance [Epsilon]. Intersection results are
// snapped onto the rectangle edge they belong to, so downstream consumers can
// rely on output points lying within the rectangle expanded by Epsilon.
package geom

import (
	"math"
	"sort"
)

// Epsilon is the absolute tolerance for boundary comparisons, in source units.
const Epsilon = 1e-6

// =============================================================================
// Point
// =============================================================================

// Point is an (x, y) pair in planar coordinates.
type Point struct {
	X float64 `json:"x" bson:"x"`
	Y float64 `json:"y" bson:"y"`
}

// DistanceTo returns the Euclidean distance to q.
func (p Point) DistanceTo(q Point) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

// NearlyEqual reports whether p and q coincide within Epsilon on both axes.
func (p Point) NearlyEqual(q Point) bool {
	return math.Abs(p.X-q.X) < Epsilon && math.Abs(p.Y-q.Y) < Epsilon
}

// =============================================================================
// Rect
// =============================================================================

// Rect is an axis-aligned rectangle defined by its min/max corners.
// A Rect is immutable for the duration of one clipping pass; none of its
// methods mutate it.
type Rect struct {
	MinX float64 `json:"min_x" bson:"min_x"`
	MinY float64 `json:"min_y" bson:"min_y"`
	MaxX float64 `json:"max_x" bson:"max_x"`
	MaxY float64 `json:"max_y" bson:"max_y"`
}

// Valid reports whether the rectangle has positive area.
func (r Rect) Valid() bool {
	return r.MinX < r.MaxX && r.MinY < r.MaxY
}

// Width returns the horizontal extent.
func (r Rect) Width() float64 { return r.MaxX - r.MinX }

// Height returns the vertical extent.
func (r Rect) Height() float64 { return r.MaxY - r.MinY }

// Corner accessors, named by compass position.
func (r Rect) BottomLeft() Point  { return Point{r.MinX, r.MinY} }
func (r Rect) BottomRight() Point { return Point{r.MaxX, r.MinY} }
func (r Rect) TopRight() Point    { return Point{r.MaxX, r.MaxY} }
func (r Rect) TopLeft() Point     { return Point{r.MinX, r.MaxY} }

// Contains reports whether p lies within the rectangle or on its boundary.
// Points within Epsilon outside an edge still count as contained, so that
// intersection results that land fractionally off the true edge are not
// rejected by subsequent containment checks.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.MinX-Epsilon && p.X <= r.MaxX+Epsilon &&
		p.Y >= r.MinY-Epsilon && p.Y <= r.MaxY+Epsilon
}

// ContainsAll reports whether every point of pts is contained in r.
// An empty slice is trivially contained.
func (r Rect) ContainsAll(pts []Point) bool {
	for _, p := range pts {
		if !r.Contains(p) {
			return false
		}
	}
	return true
}

// Expand returns a copy of r grown by d on every side.
func (r Rect) Expand(d float64) Rect {
	return Rect{MinX: r.MinX - d, MinY: r.MinY - d, MaxX: r.MaxX + d, MaxY: r.MaxY + d}
}

// Union returns the smallest rectangle covering both r and o.
func (r Rect) Union(o Rect) Rect {
	return Rect{
		MinX: math.Min(r.MinX, o.MinX),
		MinY: math.Min(r.MinY, o.MinY),
		MaxX: math.Max(r.MaxX, o.MaxX),
		MaxY: math.Max(r.MaxY, o.MaxY),
	}
}

// IntersectsPolyline reports whether the polyline touches the rectangle:
// either a vertex lies inside, or some segment crosses the boundary.
func (r Rect) IntersectsPolyline(pts []Point) bool {
	for _, p := range pts {
		if r.Contains(p) {
			return true
		}
	}
	for i := 0; i+1 < len(pts); i++ {
		if len(SegmentIntersections(pts[i], pts[i+1], r)) > 0 {
			return true
		}
	}
	return false
}

// =============================================================================
// Segment/Rectangle Intersection
// =============================================================================

// SegmentIntersections returns the points where the segment a→b crosses the
// boundary of r, sorted by distance from a. For a straight segment and a
// convex rectangle at most two distinct points are possible; coincident hits
// (a corner crossing touches two edges) are deduplicated within Epsilon.
//
// Returned points are snapped exactly onto the edge they cross, with the
// along-edge ordinate clamped into the edge span.
func SegmentIntersections(a, b Point, r Rect) []Point {
	type hit struct {
		t float64
		p Point
	}
	var hits []hit

	add := func(t float64, p Point) {
		for _, h := range hits {
			if h.p.NearlyEqual(p) {
				return
			}
		}
		hits = append(hits, hit{t, p})
	}

	// Vertical edges: x fixed, y interpolated.
	for _, x := range []float64{r.MinX, r.MaxX} {
		dx := b.X - a.X
		if math.Abs(dx) < Epsilon {
			continue // parallel to the edge, no single crossing
		}
		t := (x - a.X) / dx
		if t < -Epsilon || t > 1+Epsilon {
			continue
		}
		y := a.Y + t*(b.Y-a.Y)
		if y < r.MinY-Epsilon || y > r.MaxY+Epsilon {
			continue
		}
		add(t, Point{X: x, Y: clamp(y, r.MinY, r.MaxY)})
	}

	// Horizontal edges: y fixed, x interpolated.
	for _, y := range []float64{r.MinY, r.MaxY} {
		dy := b.Y - a.Y
		if math.Abs(dy) < Epsilon {
			continue
		}
		t := (y - a.Y) / dy
		if t < -Epsilon || t > 1+Epsilon {
			continue
		}
		x := a.X + t*(b.X-a.X)
		if x < r.MinX-Epsilon || x > r.MaxX+Epsilon {
			continue
		}
		add(t, Point{X: clamp(x, r.MinX, r.MaxX), Y: y})
	}

	sort.Slice(hits, func(i, j int) bool { return hits[i].t < hits[j].t })

	out := make([]Point, len(hits))
	for i, h := range hits {
		out[i] = h.p
	}
	return out
}

// SegmentIntersection returns the parametric intersection of the segments
// a→b and c→d. The second return is false for parallel segments and for
// intersections falling outside either span (endpoints count as inside,
// within Epsilon of the parameter range).
func SegmentIntersection(a, b, c, d Point) (Point, bool) {
	d1x, d1y := b.X-a.X, b.Y-a.Y
	d2x, d2y := d.X-c.X, d.Y-c.Y

	denom := d1x*d2y - d1y*d2x
	if math.Abs(denom) < Epsilon {
		return Point{}, false
	}

	t := ((c.X-a.X)*d2y - (c.Y-a.Y)*d2x) / denom
	u := ((c.X-a.X)*d1y - (c.Y-a.Y)*d1x) / denom
	if t < -Epsilon || t > 1+Epsilon || u < -Epsilon || u > 1+Epsilon {
		return Point{}, false
	}
	return Point{X: a.X + t*d1x, Y: a.Y + t*d1y}, true
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
