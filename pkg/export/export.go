// Package export serializes clipped contour segments to the three supported
// interchange formats: delimited text (CSV), AutoCAD R12 drawing exchange
// (DXF), and scalable vector graphics (SVG).
//
// All encoders take the same segment slice plus an optional extent and are
// independent of how the segments were produced; unclipped features flattened
// with [contour.Flatten] encode exactly the same way as clipper output.
package export

import (
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/terraclip/terraclip/pkg/contour"
	"github.com/terraclip/terraclip/pkg/errors"
	"github.com/terraclip/terraclip/pkg/geom"
)

// Format identifies an output encoding.
type Format string

// Supported output formats.
const (
	FormatCSV Format = "csv"
	FormatDXF Format = "dxf"
	FormatSVG Format = "svg"
)

// ValidFormats lists the supported formats in display order.
func ValidFormats() []Format {
	return []Format{FormatCSV, FormatDXF, FormatSVG}
}

// ParseFormat normalizes and validates a user-supplied format name.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatCSV:
		return FormatCSV, nil
	case FormatDXF:
		return FormatDXF, nil
	case FormatSVG:
		return FormatSVG, nil
	}
	return "", errors.New(errors.ErrCodeInvalidFormat,
		"unsupported format %q (valid: csv, dxf, svg)", s)
}

// Ext returns the conventional file extension, including the dot.
func (f Format) Ext() string {
	return "." + string(f)
}

// Encode writes segments to w in the given format.
//
// The extent is only consulted by the SVG encoder for viewport fitting; pass
// the clip rectangle when the segments came from a clipping pass, or an
// invalid (zero) rectangle to fall back to the segments' natural bounds.
func Encode(w io.Writer, format Format, segments []contour.Segment, extent geom.Rect) error {
	switch format {
	case FormatCSV:
		return encodeCSV(w, segments)
	case FormatDXF:
		return encodeDXF(w, segments)
	case FormatSVG:
		return encodeSVG(w, segments, extent)
	}
	return errors.New(errors.ErrCodeInvalidFormat, "unsupported format %q", format)
}

// WriteFile encodes segments to a file at path, creating parent directories
// as needed. On encoding failure the partial file is removed so a truncated
// document is never left behind looking complete.
func WriteFile(path string, format Format, segments []contour.Segment, extent geom.Rect) error {
	if err := errors.ValidateOutputPath(path); err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrap(errors.ErrCodeIO, err, "create output directory %s", dir)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "create %s", path)
	}

	if err := Encode(f, format, segments, extent); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return errors.Wrap(errors.ErrCodeIO, err, "write %s", path)
	}
	return nil
}

// formatCoord renders a coordinate with full double precision and no fixed
// decimal places, so 15.0 prints as "15" and 0.1 round-trips exactly. Always
// plain decimal: projected coordinates run into the millions and exponent
// notation would break downstream CSV consumers.
func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
