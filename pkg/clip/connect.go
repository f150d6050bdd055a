package clip

import (
	"github.com/terraclip/terraclip/pkg/geom"
)

// Connect builds a path along the rectangle's perimeter from exit to entry.
// Both points are assumed to lie on (or within tolerance of) the boundary.
//
// When both points classify to the same side the result is just the two
// endpoints. Otherwise the path walks the perimeter counter-clockwise from
// the exit side to the entry side, inserting the intervening corners (one
// corner for adjacent sides, two for opposite sides). The direction is fixed:
// a contour that leaves through the left edge and re-enters through the right
// edge is always routed via the top-left and top-right corners.
func Connect(exit, entry geom.Point, r geom.Rect) []geom.Point {
	exitSide := SideOf(exit, r)
	entrySide := SideOf(entry, r)

	if exitSide == entrySide {
		return []geom.Point{exit, entry}
	}

	corners := cornerPath(exitSide, entrySide, r)

	path := make([]geom.Point, 0, len(corners)+2)
	path = append(path, exit)
	path = append(path, corners...)
	path = append(path, entry)
	return path
}

// cornerPath returns the corners visited between two distinct sides.
func cornerPath(from, to Side, r geom.Rect) []geom.Point {
	switch from {
	case SideLeft:
		switch to {
		case SideBottom:
			return []geom.Point{r.BottomLeft()}
		case SideRight:
			return []geom.Point{r.TopLeft(), r.TopRight()}
		case SideTop:
			return []geom.Point{r.TopLeft()}
		}
	case SideBottom:
		switch to {
		case SideRight:
			return []geom.Point{r.BottomRight()}
		case SideTop:
			return []geom.Point{r.BottomLeft(), r.TopLeft()}
		case SideLeft:
			return []geom.Point{r.BottomLeft()}
		}
	case SideRight:
		switch to {
		case SideTop:
			return []geom.Point{r.TopRight()}
		case SideLeft:
			return []geom.Point{r.TopRight(), r.TopLeft()}
		case SideBottom:
			return []geom.Point{r.BottomRight()}
		}
	case SideTop:
		switch to {
		case SideLeft:
			return []geom.Point{r.TopLeft()}
		case SideBottom:
			return []geom.Point{r.TopLeft(), r.BottomLeft()}
		case SideRight:
			return []geom.Point{r.TopRight()}
		}
	}
	return nil
}
