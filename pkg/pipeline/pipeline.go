// Package pipeline provides the core contour processing pipeline.
//
// This package implements the complete load → filter → clip → encode pipeline
// that can be used by CLI and server components. By centralizing this logic,
// we ensure consistent behavior across all entry points and avoid code
// duplication.
//
// # Architecture
//
// The pipeline consists of four stages:
//
//  1. Load: Parse contour features from a GeoJSON source file
//  2. Filter: Thin the feature set to an elevation interval
//  3. Clip: Crop features to the clip rectangle with boundary stitching
//  4. Encode: Serialize segments to the requested formats (CSV, DXF, SVG)
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Input:   "contours.geojson",
//	    Rect:    &geom.Rect{MinX: 0, MinY: 0, MaxX: 100, MaxY: 100},
//	    Formats: []string{"svg"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"io"
	"runtime"
	"time"

	"github.com/charmbracelet/log"

	"github.com/terraclip/terraclip/pkg/cache"
	"github.com/terraclip/terraclip/pkg/contour"
	"github.com/terraclip/terraclip/pkg/errors"
	"github.com/terraclip/terraclip/pkg/export"
	"github.com/terraclip/terraclip/pkg/geom"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and Server
// =============================================================================

// DefaultFormat is the output format used when none is requested.
const DefaultFormat = string(export.FormatCSV)

// DefaultWorkers returns the default clip worker count.
func DefaultWorkers() int {
	return runtime.GOMAXPROCS(0)
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the contour pipeline.
// This struct supports JSON serialization for server requests.
type Options struct {
	// Load options
	Input             string `json:"input" bson:"input"`
	ElevationProperty string `json:"elevation_property,omitempty" bson:"elevation_property,omitempty"`

	// Filter options
	Interval float64 `json:"interval,omitempty" bson:"interval,omitempty"` // 0 disables interval filtering

	// Clip options
	Rect    *geom.Rect `json:"rect,omitempty" bson:"rect,omitempty"` // nil disables clipping
	Workers int        `json:"workers,omitempty" bson:"workers,omitempty"`

	// Encode options
	Formats []string `json:"formats,omitempty" bson:"formats,omitempty"`

	// Refresh bypasses cached load and clip results.
	Refresh bool `json:"refresh,omitempty" bson:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-" bson:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Features is the loaded (and filtered) feature set.
	Features []contour.Feature

	// Segments is the clipped output, or the flattened features when no
	// rectangle was supplied.
	Segments []contour.Segment

	// SourceHash is the content hash of the input file.
	SourceHash string

	// Artifacts contains encoded outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics. Durations serialize as
// nanoseconds in both JSON and BSON.
type Stats struct {
	FeatureCount int           `json:"feature_count" bson:"feature_count"`
	SegmentCount int           `json:"segment_count" bson:"segment_count"`
	LoadTime     time.Duration `json:"load_time" bson:"load_time"`
	ClipTime     time.Duration `json:"clip_time" bson:"clip_time"`
	ExportTime   time.Duration `json:"export_time" bson:"export_time"`
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LoadHit bool // Whether loaded features came from cache
	ClipHit bool // Whether clipped segments came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if _, err := export.ParseFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults for the
// full pipeline. This method is idempotent - calling it multiple times has
// the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Input == "" {
		return errors.New(errors.ErrCodeInvalidInput, "input is required")
	}
	if o.Rect != nil && !o.Rect.Valid() {
		return errors.New(errors.ErrCodeInvalidRect,
			"malformed clip rectangle: (%g,%g)-(%g,%g)", o.Rect.MinX, o.Rect.MinY, o.Rect.MaxX, o.Rect.MaxY)
	}
	if o.Interval < 0 {
		return errors.New(errors.ErrCodeInvalidInterval, "interval must not be negative: %g", o.Interval)
	}

	if len(o.Formats) == 0 {
		o.Formats = []string{DefaultFormat}
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}

	if o.Workers <= 0 {
		o.Workers = DefaultWorkers()
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	o.validated = true
	return nil
}

// resultKeyOpts returns cache key options covering every parameter that
// changes the clipped result.
func (o *Options) resultKeyOpts() cache.ResultKeyOpts {
	opts := cache.ResultKeyOpts{Interval: o.Interval}
	if o.Rect != nil {
		opts.MinX = o.Rect.MinX
		opts.MinY = o.Rect.MinY
		opts.MaxX = o.Rect.MaxX
		opts.MaxY = o.Rect.MaxY
	}
	return opts
}
