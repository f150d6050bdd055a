// Package contour defines the data model shared by the clipper and the
// exporters: elevation-tagged polyline features on the input side and
// clipped segments on the output side.
//
// Features are read-only inputs for one clipping invocation; segments are
// produced fresh per invocation and owned by the caller. There is no shared
// mutable state between invocations.
package contour

import (
	"github.com/terraclip/terraclip/pkg/geom"
)

// =============================================================================
// Feature - Input Contour
// =============================================================================

// Feature is one contour feature: an elevation shared across one or more
// polyline parts. Single-part features have exactly one entry in Parts.
// Polylines are open by convention; nothing in this package ever closes one.
type Feature struct {
	Elevation float64        `json:"elevation" bson:"elevation"`
	Parts     [][]geom.Point `json:"parts" bson:"parts"`
}

// NewFeature creates a single-part feature.
func NewFeature(elevation float64, line []geom.Point) Feature {
	return Feature{Elevation: elevation, Parts: [][]geom.Point{line}}
}

// =============================================================================
// Segment - Clipped Output
// =============================================================================

// Segment is the clipper's output unit: an elevation plus a polyline that
// lies within or on the clip rectangle boundary. Every segment emitted by
// the clipper has at least two points.
//
// Part carries the source part index when unclipped multi-part features are
// flattened for export; clipped output always uses part 0, matching the
// single-part geometries the clipper produces.
type Segment struct {
	Elevation float64      `json:"elevation" bson:"elevation"`
	Part      int          `json:"part" bson:"part"`
	Points    []geom.Point `json:"points" bson:"points"`
}

// Flatten converts features into export segments without clipping, assigning
// part indices per feature. Parts with fewer than two points are dropped.
func Flatten(features []Feature) []Segment {
	var out []Segment
	for _, f := range features {
		for i, part := range f.Parts {
			if len(part) < 2 {
				continue
			}
			out = append(out, Segment{Elevation: f.Elevation, Part: i, Points: part})
		}
	}
	return out
}

// Bounds returns the natural extent of the segments, the smallest rectangle
// covering every vertex. The second return is false when there are no
// vertices to cover.
func Bounds(segments []Segment) (geom.Rect, bool) {
	var r geom.Rect
	found := false
	for _, s := range segments {
		for _, p := range s.Points {
			pr := geom.Rect{MinX: p.X, MinY: p.Y, MaxX: p.X, MaxY: p.Y}
			if !found {
				r = pr
				found = true
				continue
			}
			r = r.Union(pr)
		}
	}
	return r, found
}
