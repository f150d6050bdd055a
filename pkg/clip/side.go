package clip

import (
	"math"

	"github.com/terraclip/terraclip/pkg/geom"
)

// Side identifies one of the four edges of the clip rectangle.
type Side int

// Boundary sides, in classification priority order.
const (
	SideLeft Side = iota
	SideRight
	SideBottom
	SideTop
)

// String returns the lowercase side name.
func (s Side) String() string {
	switch s {
	case SideLeft:
		return "left"
	case SideRight:
		return "right"
	case SideBottom:
		return "bottom"
	case SideTop:
		return "top"
	default:
		return "unknown"
	}
}

// SideOf classifies a point assumed to lie on the rectangle's perimeter.
//
// Exact (within [geom.Epsilon]) matches are checked in the order left, right,
// bottom, top. Points not within tolerance of any edge fall back to the
// nearest edge by absolute distance, ties broken by the same priority order.
// The fallback keeps side classification usable when a floating-point
// intersection result lands fractionally off the true edge.
func SideOf(p geom.Point, r geom.Rect) Side {
	distLeft := math.Abs(p.X - r.MinX)
	distRight := math.Abs(p.X - r.MaxX)
	distBottom := math.Abs(p.Y - r.MinY)
	distTop := math.Abs(p.Y - r.MaxY)

	switch {
	case distLeft < geom.Epsilon:
		return SideLeft
	case distRight < geom.Epsilon:
		return SideRight
	case distBottom < geom.Epsilon:
		return SideBottom
	case distTop < geom.Epsilon:
		return SideTop
	}

	minDist := math.Min(math.Min(distLeft, distRight), math.Min(distBottom, distTop))
	switch minDist {
	case distLeft:
		return SideLeft
	case distRight:
		return SideRight
	case distBottom:
		return SideBottom
	default:
		return SideTop
	}
}
