// Package geojson loads contour features from GeoJSON documents.
//
// Only line geometries carry contours: LineString and MultiLineString are
// consumed, every other geometry type is skipped without error. The loader
// is deliberately tolerant of loosely-structured documents; malformed
// coordinate entries are dropped rather than failing the whole file.
package geojson

import (
	"encoding/json"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/terraclip/terraclip/pkg/contour"
	"github.com/terraclip/terraclip/pkg/errors"
	"github.com/terraclip/terraclip/pkg/geom"
)

// Options controls how features are interpreted.
type Options struct {
	// ElevationProperty names the feature property holding the elevation.
	// Empty enables automatic detection (see detectElevation).
	ElevationProperty string
}

// LoadFile reads a GeoJSON file into contour features.
func LoadFile(path string, opts Options) ([]contour.Feature, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeIO, err, "open %s", path)
	}
	defer f.Close()
	return Load(f, opts)
}

// Load reads a GeoJSON document from r into contour features.
//
// Supported top-level types: Feature, FeatureCollection, or a bare geometry
// object. Each line geometry becomes one feature; MultiLineString parts stay
// together as the parts of a single multi-part feature.
func Load(r io.Reader, opts Options) ([]contour.Feature, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeIO, err, "read geojson")
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse geojson")
	}

	l := loader{opts: opts}

	switch t, _ := raw["type"].(string); t {
	case "Feature":
		l.feature(raw)
	case "FeatureCollection":
		if fs, ok := raw["features"].([]any); ok {
			for _, f := range fs {
				if fm, ok := f.(map[string]any); ok {
					l.feature(fm)
				}
			}
		}
	case "":
		return nil, errors.New(errors.ErrCodeInvalidInput, "geojson document missing type")
	default:
		// Bare geometry object, no properties to read an elevation from.
		l.geometry(raw, 0)
	}

	if opts.ElevationProperty != "" && l.sawProperties && !l.sawExplicitKey {
		return nil, errors.New(errors.ErrCodeNoElevationField,
			"property %q not present on any feature", opts.ElevationProperty)
	}
	return l.features, nil
}

type loader struct {
	opts           Options
	features       []contour.Feature
	sawProperties  bool
	sawExplicitKey bool
}

func (l *loader) feature(fm map[string]any) {
	elev := 0.0
	if props, ok := fm["properties"].(map[string]any); ok {
		l.sawProperties = true
		if l.opts.ElevationProperty != "" {
			if v, ok := numericProp(props, l.opts.ElevationProperty); ok {
				elev = v
				l.sawExplicitKey = true
			}
		} else if v, ok := detectElevation(props); ok {
			elev = v
		}
	}
	if g, ok := fm["geometry"].(map[string]any); ok {
		l.geometry(g, elev)
	}
}

func (l *loader) geometry(g map[string]any, elev float64) {
	switch t, _ := g["type"].(string); t {
	case "LineString":
		if line, ok := parseLine(g["coordinates"]); ok && len(line) >= 2 {
			l.features = append(l.features, contour.NewFeature(elev, line))
		}
	case "MultiLineString":
		arr, ok := g["coordinates"].([]any)
		if !ok {
			return
		}
		var parts [][]geom.Point
		for _, el := range arr {
			if line, ok := parseLine(el); ok && len(line) >= 2 {
				parts = append(parts, line)
			}
		}
		if len(parts) > 0 {
			l.features = append(l.features, contour.Feature{Elevation: elev, Parts: parts})
		}
	}
}

func parseLine(v any) ([]geom.Point, bool) {
	arr, ok := v.([]any)
	if !ok {
		return nil, false
	}
	var pts []geom.Point
	for _, el := range arr {
		if p, ok := parsePoint(el); ok {
			pts = append(pts, p)
		}
	}
	return pts, true
}

func parsePoint(v any) (geom.Point, bool) {
	a, ok := v.([]any)
	if !ok || len(a) < 2 {
		return geom.Point{}, false
	}
	x, xok := a[0].(float64)
	y, yok := a[1].(float64)
	if !xok || !yok {
		return geom.Point{}, false
	}
	return geom.Point{X: x, Y: y}, true
}

// elevationSubstrings are tried against lowercased property names when no
// exact match exists. Order matters: the first property containing any of
// these wins.
var elevationSubstrings = []string{"elev", "alt", "height", "z", "level"}

// detectElevation finds the elevation among a feature's properties: exact
// "elevation" or "elev" first, then any property whose name contains an
// elevation-like substring, then any numeric property at all. Candidate
// properties are scanned in sorted name order so detection is deterministic.
func detectElevation(props map[string]any) (float64, bool) {
	for _, key := range []string{"elevation", "elev"} {
		if v, ok := numericProp(props, key); ok {
			return v, true
		}
	}

	names := make([]string, 0, len(props))
	for name := range props {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		lower := strings.ToLower(name)
		for _, sub := range elevationSubstrings {
			if strings.Contains(lower, sub) {
				if v, ok := numericProp(props, name); ok {
					return v, true
				}
			}
		}
	}
	for _, name := range names {
		if v, ok := numericProp(props, name); ok {
			return v, true
		}
	}
	return 0, false
}

func numericProp(props map[string]any, key string) (float64, bool) {
	switch v := props[key].(type) {
	case float64:
		return v, true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	}
	return 0, false
}
