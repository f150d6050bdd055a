package export

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/terraclip/terraclip/pkg/contour"
	"github.com/terraclip/terraclip/pkg/errors"
	"github.com/terraclip/terraclip/pkg/geom"
)

// Fixed SVG canvas. The fit leaves a 10% margin around the extent.
const (
	svgWidth  = 800.0
	svgHeight = 600.0
	svgMargin = 0.9
)

// encodeSVG writes a self-contained SVG document with one path per segment.
//
// A single group transform maps source units onto the canvas: uniform scale
// chosen so the extent fits with margin, translation centering it, and a
// negated y scale flipping map-space up into screen-space down. Stroke color
// encodes the elevation; the raw value also rides along in a data-elevation
// attribute for downstream tooling.
//
// The extent is the clip rectangle when one was supplied; an invalid extent
// falls back to the segments' natural bounds.
func encodeSVG(w io.Writer, segments []contour.Segment, extent geom.Rect) error {
	if !extent.Valid() {
		if b, ok := contour.Bounds(segments); ok {
			extent = b
		}
	}

	scale, tx, ty := svgTransform(extent)

	bw := bufio.NewWriter(w)
	bw.WriteString("<?xml version=\"1.0\" encoding=\"UTF-8\" standalone=\"no\"?>\n")
	fmt.Fprintf(bw, "<svg xmlns=\"http://www.w3.org/2000/svg\" width=\"%d\" height=\"%d\">\n",
		int(svgWidth), int(svgHeight))
	fmt.Fprintf(bw, "<g transform=\"translate(%s,%s) scale(%s,%s)\">\n",
		formatCoord(tx), formatCoord(ty), formatCoord(scale), formatCoord(-scale))

	for _, s := range segments {
		if len(s.Points) < 2 {
			continue
		}
		fmt.Fprintf(bw, "<path d=\"%s\" fill=\"none\" stroke=\"%s\" stroke-width=\"0.5\" data-elevation=\"%s\" />\n",
			pathData(s.Points), strokeColor(s.Elevation), formatCoord(s.Elevation))
	}

	bw.WriteString("</g>\n")
	bw.WriteString("</svg>\n")

	if err := bw.Flush(); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "flush svg output")
	}
	return nil
}

// svgTransform computes the uniform scale and the translation that centers
// the extent on the canvas. Degenerate extents (zero width or height) fall
// back to a unit scale on that axis so a single horizontal contour still
// renders.
func svgTransform(extent geom.Rect) (scale, tx, ty float64) {
	width := extent.Width()
	height := extent.Height()

	scaleX := 1.0
	if width > 0 {
		scaleX = svgWidth / width
	}
	scaleY := 1.0
	if height > 0 {
		scaleY = svgHeight / height
	}
	scale = math.Min(scaleX, scaleY) * svgMargin

	tx = svgWidth/2 - scale*(extent.MinX+width/2)
	ty = svgHeight/2 + scale*(extent.MinY+height/2)
	return scale, tx, ty
}

// pathData renders a polyline as an SVG path: a move-to followed by
// line-to commands, one per remaining vertex.
func pathData(pts []geom.Point) string {
	var b strings.Builder
	b.WriteString("M " + formatCoord(pts[0].X) + "," + formatCoord(pts[0].Y) + " ")
	for _, p := range pts[1:] {
		b.WriteString("L " + formatCoord(p.X) + "," + formatCoord(p.Y) + " ")
	}
	return b.String()
}

// strokeColor derives a fixed-hue color from the elevation: the truncated
// elevation modulo 256 (kept non-negative) becomes the red channel over a
// constant teal base.
func strokeColor(elevation float64) string {
	r := ((int64(elevation) % 256) + 256) % 256
	return fmt.Sprintf("#%02x8080", r)
}
