package geojson

import (
	"strings"
	"testing"

	"github.com/terraclip/terraclip/pkg/errors"
)

func TestLoadFeatureCollection(t *testing.T) {
	doc := `{
		"type": "FeatureCollection",
		"features": [
			{
				"type": "Feature",
				"properties": {"elevation": 120},
				"geometry": {"type": "LineString", "coordinates": [[0,0],[10,10],[20,5]]}
			},
			{
				"type": "Feature",
				"properties": {"elevation": 125},
				"geometry": {"type": "MultiLineString", "coordinates": [[[0,0],[1,1]],[[5,5],[6,6]]]}
			},
			{
				"type": "Feature",
				"properties": {"elevation": 130},
				"geometry": {"type": "Point", "coordinates": [3,3]}
			}
		]
	}`

	features, err := Load(strings.NewReader(doc), Options{})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(features) != 2 {
		t.Fatalf("features = %d, want 2 (point skipped)", len(features))
	}

	if features[0].Elevation != 120 || len(features[0].Parts) != 1 || len(features[0].Parts[0]) != 3 {
		t.Errorf("first feature = %+v, want elevation 120 with one 3-point part", features[0])
	}
	if features[1].Elevation != 125 || len(features[1].Parts) != 2 {
		t.Errorf("second feature = %+v, want elevation 125 with two parts", features[1])
	}
}

func TestLoadSingleFeature(t *testing.T) {
	doc := `{
		"type": "Feature",
		"properties": {"elev": 42.5},
		"geometry": {"type": "LineString", "coordinates": [[1,2],[3,4]]}
	}`

	features, err := Load(strings.NewReader(doc), Options{})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(features) != 1 || features[0].Elevation != 42.5 {
		t.Errorf("features = %+v, want one feature at 42.5", features)
	}
}

func TestLoadBareGeometry(t *testing.T) {
	doc := `{"type": "LineString", "coordinates": [[0,0],[5,5]]}`

	features, err := Load(strings.NewReader(doc), Options{})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(features) != 1 || features[0].Elevation != 0 {
		t.Errorf("features = %+v, want one feature with default elevation", features)
	}
}

func TestLoadElevationDetection(t *testing.T) {
	tests := []struct {
		name  string
		props string
		want  float64
	}{
		{"exact elevation", `{"elevation": 100}`, 100},
		{"exact elev", `{"elev": 90}`, 90},
		{"substring altitude", `{"altitude_m": 80}`, 80},
		{"substring height", `{"line_height": 70}`, 70},
		{"substring level", `{"contour_level": 60}`, 60},
		{"any numeric fallback", `{"name_str": "ridge", "value": 50}`, 50},
		{"no numeric property", `{"name": "ridge"}`, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := `{
				"type": "Feature",
				"properties": ` + tt.props + `,
				"geometry": {"type": "LineString", "coordinates": [[0,0],[1,1]]}
			}`
			features, err := Load(strings.NewReader(doc), Options{})
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			if len(features) != 1 {
				t.Fatalf("features = %d, want 1", len(features))
			}
			if features[0].Elevation != tt.want {
				t.Errorf("elevation = %g, want %g", features[0].Elevation, tt.want)
			}
		})
	}
}

func TestLoadExplicitProperty(t *testing.T) {
	doc := `{
		"type": "FeatureCollection",
		"features": [{
			"type": "Feature",
			"properties": {"depth": 15, "elevation": 999},
			"geometry": {"type": "LineString", "coordinates": [[0,0],[1,1]]}
		}]
	}`

	features, err := Load(strings.NewReader(doc), Options{ElevationProperty: "depth"})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if features[0].Elevation != 15 {
		t.Errorf("elevation = %g, want 15 from explicit property", features[0].Elevation)
	}
}

func TestLoadExplicitPropertyMissing(t *testing.T) {
	doc := `{
		"type": "FeatureCollection",
		"features": [{
			"type": "Feature",
			"properties": {"elevation": 100},
			"geometry": {"type": "LineString", "coordinates": [[0,0],[1,1]]}
		}]
	}`

	_, err := Load(strings.NewReader(doc), Options{ElevationProperty: "depth"})
	if err == nil {
		t.Fatal("expected error for missing explicit property")
	}
	if !errors.Is(err, errors.ErrCodeNoElevationField) {
		t.Errorf("error code = %v, want %v", errors.GetCode(err), errors.ErrCodeNoElevationField)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		code errors.Code
	}{
		{"invalid json", `{nope`, errors.ErrCodeInvalidInput},
		{"missing type", `{"features": []}`, errors.ErrCodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(strings.NewReader(tt.doc), Options{})
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, tt.code) {
				t.Errorf("error code = %v, want %v", errors.GetCode(err), tt.code)
			}
		})
	}
}

func TestLoadFileNotFound(t *testing.T) {
	_, err := LoadFile("does/not/exist.geojson", Options{})
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("error = %v, want %v", err, errors.ErrCodeFileNotFound)
	}
}

func TestLoadSkipsMalformedCoordinates(t *testing.T) {
	doc := `{
		"type": "Feature",
		"properties": {"elevation": 10},
		"geometry": {"type": "LineString", "coordinates": [[0,0],"bad",[1,1],[2]]}
	}`

	features, err := Load(strings.NewReader(doc), Options{})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(features) != 1 || len(features[0].Parts[0]) != 2 {
		t.Errorf("features = %+v, want one 2-point part with malformed entries dropped", features)
	}
}
