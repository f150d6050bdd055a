package export

import (
	"bufio"
	"io"
	"strconv"

	"github.com/terraclip/terraclip/pkg/contour"
	"github.com/terraclip/terraclip/pkg/errors"
)

// csvHeader is the fixed column header; consumers key on these exact names.
const csvHeader = "elevation,part,x,y\n"

// encodeCSV writes one line per vertex: elevation, part index, x, y.
// Coordinates keep full double precision in source units.
func encodeCSV(w io.Writer, segments []contour.Segment) error {
	bw := bufio.NewWriter(w)

	if _, err := bw.WriteString(csvHeader); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "write csv header")
	}

	for _, s := range segments {
		elev := formatCoord(s.Elevation)
		for _, p := range s.Points {
			line := elev + "," + strconv.Itoa(s.Part) + "," + formatCoord(p.X) + "," + formatCoord(p.Y) + "\n"
			if _, err := bw.WriteString(line); err != nil {
				return errors.Wrap(errors.ErrCodeIO, err, "write csv row")
			}
		}
	}

	if err := bw.Flush(); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "flush csv output")
	}
	return nil
}
