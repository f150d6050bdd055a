// Package clip crops elevation contour polylines to an axis-aligned
// rectangle while preserving visual continuity across the clip boundary.
//
// The clipper walks each polyline segment-by-segment against the rectangle,
// emits the sub-polylines that lie inside, and synthesizes connector paths
// along the rectangle's perimeter to join pieces where a contour exits and
// later re-enters. Connectors always follow the perimeter counter-clockwise,
// so a cropped contour reads as one continuous path instead of two dangling
// stubs.
//
// # Contract
//
// Clip is a pure function of (rectangle, features): it never mutates its
// inputs and keeps no state between invocations, so independent inputs can
// be clipped concurrently. Elevation values pass through unchanged.
//
// Structural misuse (malformed rectangle, polyline with fewer than two
// points) is reported as an error. Numerical trouble inside the walk, such
// as an intersection that cannot be resolved to a usable point, silently
// drops the affected fragment and the pass continues with whatever valid
// fragments remain.
package clip

import (
	"github.com/terraclip/terraclip/pkg/contour"
	"github.com/terraclip/terraclip/pkg/errors"
	"github.com/terraclip/terraclip/pkg/geom"
)

// =============================================================================
// Public API
// =============================================================================

// Clip crops features to rect and returns the visible contour fragments,
// stitched along the boundary where a contour leaves and re-enters.
//
// Whole-polyline fast paths: a part entirely inside the rectangle is emitted
// unchanged (same vertices, same elevation); a part that never touches the
// rectangle contributes nothing. Multi-part features are processed one part
// at a time with the feature's elevation shared across parts.
//
// Every returned segment has at least two points, all within the rectangle
// expanded by [geom.Epsilon]. Fragment order within one feature follows the
// direction of travel along the source polyline.
func Clip(rect geom.Rect, features []contour.Feature) ([]contour.Segment, error) {
	if !rect.Valid() {
		return nil, errors.New(errors.ErrCodeInvalidRect,
			"malformed clip rectangle: (%g,%g)-(%g,%g)", rect.MinX, rect.MinY, rect.MaxX, rect.MaxY)
	}

	var out []contour.Segment
	for _, f := range features {
		segs, err := clipFeature(rect, f)
		if err != nil {
			return nil, err
		}
		out = append(out, segs...)
	}
	return out, nil
}

// ClipFeature crops a single feature. See [Clip] for semantics.
func ClipFeature(rect geom.Rect, f contour.Feature) ([]contour.Segment, error) {
	if !rect.Valid() {
		return nil, errors.New(errors.ErrCodeInvalidRect,
			"malformed clip rectangle: (%g,%g)-(%g,%g)", rect.MinX, rect.MinY, rect.MaxX, rect.MaxY)
	}
	return clipFeature(rect, f)
}

func clipFeature(rect geom.Rect, f contour.Feature) ([]contour.Segment, error) {
	var out []contour.Segment
	for _, part := range f.Parts {
		if len(part) < 2 {
			return nil, errors.New(errors.ErrCodeInvalidGeometry,
				"degenerate polyline with %d point(s) at elevation %g", len(part), f.Elevation)
		}

		// Fast path: entirely inside, pass through untouched.
		if rect.ContainsAll(part) {
			out = append(out, contour.Segment{Elevation: f.Elevation, Points: part})
			continue
		}
		// Fast path: no contact with the rectangle at all.
		if !rect.IntersectsPolyline(part) {
			continue
		}

		out = append(out, walkPart(rect, f.Elevation, part)...)
	}
	return out, nil
}

// =============================================================================
// Segment Walk State Machine
// =============================================================================

// state tracks where the walk currently is relative to the rectangle.
type state int

const (
	// stateOutside: walking outside, nothing pending.
	stateOutside state = iota
	// stateInside: accumulating an in-rectangle fragment.
	stateInside
	// stateAwaitingReentry: outside with a remembered exit point; the next
	// re-entry will be stitched to it along the perimeter.
	stateAwaitingReentry
)

// walker accumulates fragments for one polyline part.
type walker struct {
	rect geom.Rect
	elev float64

	state state
	frag  []geom.Point // current open fragment
	exit  *geom.Point  // remembered boundary exit point
	out   []contour.Segment
}

// walkPart runs the four-case segment walk over one polyline part that is
// known to touch the rectangle but not be fully contained by it.
func walkPart(rect geom.Rect, elev float64, pts []geom.Point) []contour.Segment {
	w := walker{rect: rect, elev: elev, state: stateOutside}
	if rect.Contains(pts[0]) {
		w.state = stateInside
	}

	for i := 0; i+1 < len(pts); i++ {
		a, b := pts[i], pts[i+1]
		switch aIn, bIn := rect.Contains(a), rect.Contains(b); {
		case aIn && bIn:
			w.insideInside(a, b)
		case aIn && !bIn:
			w.insideOutside(a, b)
		case !aIn && bIn:
			w.outsideInside(a, b)
		default:
			w.outsideOutside(a, b)
		}
	}
	w.flush()
	return w.out
}

// insideInside handles a segment fully inside the rectangle. Opening a fresh
// fragment after an exit stitches the remembered exit point to the current
// re-entry point along the perimeter.
func (w *walker) insideInside(a, b geom.Point) {
	if len(w.frag) == 0 {
		if w.state == stateAwaitingReentry && w.exit != nil {
			w.frag = append(w.frag, Connect(*w.exit, a, w.rect)...)
			w.exit = nil
		} else {
			w.frag = append(w.frag, a)
		}
	}
	w.frag = append(w.frag, b)
	w.state = stateInside
}

// insideOutside closes the current fragment at the exact boundary crossing,
// emits it, and remembers the exit point for a future re-entry connector.
func (w *walker) insideOutside(a, b geom.Point) {
	if len(w.frag) == 0 {
		w.frag = append(w.frag, a)
	}
	if x, ok := crossingOut(a, b, w.rect); ok {
		w.frag = append(w.frag, x)
		w.exit = &x
		w.state = stateAwaitingReentry
	} else {
		// Intersection did not resolve; keep the last inside vertex as the
		// fragment end and forget the exit (no stitch target).
		w.exit = nil
		w.state = stateOutside
	}
	w.flush()
}

// outsideInside opens a new fragment at the entry crossing, prefixed with a
// boundary connector when an exit point is pending.
func (w *walker) outsideInside(a, b geom.Point) {
	x, ok := crossingIn(a, b, w.rect)
	if !ok {
		// No usable entry point: start fresh at the inside endpoint.
		w.frag = []geom.Point{b}
		w.exit = nil
		w.state = stateInside
		return
	}

	if w.state == stateAwaitingReentry && w.exit != nil {
		w.frag = Connect(*w.exit, x, w.rect)
	} else {
		w.frag = []geom.Point{x}
	}
	w.frag = append(w.frag, b)
	w.exit = nil
	w.state = stateInside
}

// outsideOutside handles a segment with both endpoints outside that may still
// clip through the rectangle. The crossing fragment is emitted directly and
// the far intersection becomes the remembered exit point, so a later re-entry
// is stitched from where the contour last touched the boundary.
func (w *walker) outsideOutside(a, b geom.Point) {
	xs := geom.SegmentIntersections(a, b, w.rect)
	switch {
	case len(xs) >= 2:
		w.out = append(w.out, contour.Segment{
			Elevation: w.elev,
			Points:    []geom.Point{xs[0], xs[1]},
		})
		last := xs[len(xs)-1]
		w.exit = &last
		w.state = stateAwaitingReentry
	case len(xs) == 1:
		// Grazing contact: remember the touch point, emit nothing.
		w.exit = &xs[0]
		w.state = stateAwaitingReentry
	}
}

// flush emits the open fragment when it has at least two points.
// Shorter fragments are dropped, never emitted.
func (w *walker) flush() {
	if len(w.frag) >= 2 {
		w.out = append(w.out, contour.Segment{Elevation: w.elev, Points: w.frag})
	}
	w.frag = nil
}

// =============================================================================
// Crossing Resolution
// =============================================================================

// crossingOut returns the boundary point where the segment a→b leaves the
// rectangle (a inside, b outside). When the start point itself sits on the
// boundary the intersection set can include it; the crossing farthest along
// the segment is the true exit.
func crossingOut(a, b geom.Point, r geom.Rect) (geom.Point, bool) {
	xs := geom.SegmentIntersections(a, b, r)
	if len(xs) == 0 {
		return geom.Point{}, false
	}
	return xs[len(xs)-1], true
}

// crossingIn returns the boundary point where the segment a→b enters the
// rectangle (a outside, b inside): the crossing nearest the start.
func crossingIn(a, b geom.Point, r geom.Rect) (geom.Point, bool) {
	xs := geom.SegmentIntersections(a, b, r)
	if len(xs) == 0 {
		return geom.Point{}, false
	}
	return xs[0], true
}
