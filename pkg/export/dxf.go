package export

import (
	"bufio"
	"fmt"
	"io"

	"github.com/terraclip/terraclip/pkg/contour"
	"github.com/terraclip/terraclip/pkg/errors"
)

// dxfLayer is the fixed layer name every contour entity is placed on.
const dxfLayer = "CONTOUR"

// encodeDXF writes a minimal AutoCAD R12 (AC1009) document: a header section
// declaring the format version, then one POLYLINE + VERTEX sequence + SEQEND
// group per segment on the CONTOUR layer.
//
// Each polyline carries its elevation twice: as the entity's elevation
// attribute (group 38, three decimals) and replicated as every vertex's
// z-ordinate (group 30, six decimals, matching the x/y precision).
func encodeDXF(w io.Writer, segments []contour.Segment) error {
	bw := bufio.NewWriter(w)

	bw.WriteString("0\nSECTION\n")
	bw.WriteString("2\nHEADER\n")
	bw.WriteString("9\n$ACADVER\n1\nAC1009\n")
	bw.WriteString("0\nENDSEC\n")

	bw.WriteString("0\nSECTION\n")
	bw.WriteString("2\nENTITIES\n")

	for _, s := range segments {
		if len(s.Points) < 2 {
			continue
		}

		bw.WriteString("0\nPOLYLINE\n")
		bw.WriteString("8\n" + dxfLayer + "\n")
		bw.WriteString("66\n1\n") // vertices follow
		bw.WriteString("70\n0\n") // open polyline
		fmt.Fprintf(bw, "38\n%.3f\n", s.Elevation)

		for _, p := range s.Points {
			bw.WriteString("0\nVERTEX\n")
			bw.WriteString("8\n" + dxfLayer + "\n")
			fmt.Fprintf(bw, "10\n%.6f\n", p.X)
			fmt.Fprintf(bw, "20\n%.6f\n", p.Y)
			fmt.Fprintf(bw, "30\n%.6f\n", s.Elevation)
		}

		bw.WriteString("0\nSEQEND\n")
	}

	bw.WriteString("0\nENDSEC\n")
	bw.WriteString("0\nEOF\n")

	if err := bw.Flush(); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "flush dxf output")
	}
	return nil
}
