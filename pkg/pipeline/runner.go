package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/terraclip/terraclip/pkg/cache"
	"github.com/terraclip/terraclip/pkg/clip"
	"github.com/terraclip/terraclip/pkg/contour"
	"github.com/terraclip/terraclip/pkg/errors"
	"github.com/terraclip/terraclip/pkg/export"
	"github.com/terraclip/terraclip/pkg/geom"
	"github.com/terraclip/terraclip/pkg/observability"
	"github.com/terraclip/terraclip/pkg/source/geojson"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and server can use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete load → filter → clip → encode pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	r.applyLogger(&opts)

	result := &Result{
		Artifacts: make(map[string][]byte),
	}

	// Stage 1: Load
	loadStart := time.Now()
	features, sourceHash, loadHit, err := r.LoadWithCacheInfo(ctx, opts)
	if err != nil {
		return nil, err
	}
	result.SourceHash = sourceHash
	result.Stats.LoadTime = time.Since(loadStart)
	result.CacheInfo.LoadHit = loadHit

	// Stage 2: Filter
	features = contour.FilterByInterval(features, opts.Interval)
	result.Features = features
	result.Stats.FeatureCount = len(features)

	r.Logger.Info("loaded features",
		"input", opts.Input,
		"features", len(features),
		"duration", result.Stats.LoadTime)

	// Stage 3: Clip
	clipStart := time.Now()
	segments, clipHit, err := r.ClipWithCacheInfo(ctx, features, sourceHash, opts)
	if err != nil {
		return nil, err
	}
	result.Segments = segments
	result.Stats.ClipTime = time.Since(clipStart)
	result.Stats.SegmentCount = len(segments)
	result.CacheInfo.ClipHit = clipHit

	r.Logger.Info("clipped contours",
		"segments", len(segments),
		"duration", result.Stats.ClipTime)

	// Stage 4: Encode
	exportStart := time.Now()
	artifacts, err := r.EncodeArtifacts(ctx, segments, opts)
	if err != nil {
		return nil, err
	}
	result.Artifacts = artifacts
	result.Stats.ExportTime = time.Since(exportStart)

	r.Logger.Info("encoded outputs",
		"formats", opts.Formats,
		"duration", result.Stats.ExportTime)

	return result, nil
}

// LoadWithCacheInfo loads source features with caching and returns the
// source content hash and cache hit info. The hash keys every downstream
// cache entry, so an edited input file invalidates the whole chain.
func (r *Runner) LoadWithCacheInfo(ctx context.Context, opts Options) ([]contour.Feature, string, bool, error) {
	observability.Pipeline().OnLoadStart(ctx, opts.Input)
	start := time.Now()

	data, err := os.ReadFile(opts.Input)
	if err != nil {
		code := errors.ErrCodeIO
		if os.IsNotExist(err) {
			code = errors.ErrCodeFileNotFound
		}
		err = errors.Wrap(code, err, "read %s", opts.Input)
		observability.Pipeline().OnLoadComplete(ctx, opts.Input, 0, time.Since(start), err)
		return nil, "", false, err
	}
	sourceHash := cache.Hash(data)
	cacheKey := r.Keyer.FeatureKey(sourceHash)

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if cached, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			var features []contour.Feature
			if err := json.Unmarshal(cached, &features); err == nil {
				observability.Cache().OnCacheHit(ctx, "features")
				observability.Pipeline().OnLoadComplete(ctx, opts.Input, len(features), time.Since(start), nil)
				return features, sourceHash, true, nil
			}
		}
		observability.Cache().OnCacheMiss(ctx, "features")
	}

	features, err := geojson.Load(bytes.NewReader(data), geojson.Options{
		ElevationProperty: opts.ElevationProperty,
	})
	if err != nil {
		observability.Pipeline().OnLoadComplete(ctx, opts.Input, 0, time.Since(start), err)
		return nil, "", false, err
	}

	// Cache the parsed result
	if encoded, err := json.Marshal(features); err == nil {
		if err := r.Cache.Set(ctx, cacheKey, encoded, cache.TTLFeatures); err == nil {
			observability.Cache().OnCacheSet(ctx, "features", len(encoded))
		}
	}

	observability.Pipeline().OnLoadComplete(ctx, opts.Input, len(features), time.Since(start), nil)
	return features, sourceHash, false, nil
}

// Load is a convenience wrapper that calls LoadWithCacheInfo and discards
// the cache hit info.
func (r *Runner) Load(ctx context.Context, opts Options) ([]contour.Feature, error) {
	features, _, _, err := r.LoadWithCacheInfo(ctx, opts)
	return features, err
}

// ClipWithCacheInfo clips features with caching and returns cache hit info.
// With no rectangle configured the features are flattened for export
// unclipped, bypassing the cache (flattening is cheaper than a cache read).
func (r *Runner) ClipWithCacheInfo(ctx context.Context, features []contour.Feature, sourceHash string, opts Options) ([]contour.Segment, bool, error) {
	if opts.Rect == nil {
		return contour.Flatten(features), false, nil
	}

	cacheKey := r.Keyer.ResultKey(sourceHash, opts.resultKeyOpts())

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if cached, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			var segments []contour.Segment
			if err := json.Unmarshal(cached, &segments); err == nil {
				observability.Cache().OnCacheHit(ctx, "result")
				return segments, true, nil
			}
		}
		observability.Cache().OnCacheMiss(ctx, "result")
	}

	observability.Pipeline().OnClipStart(ctx, len(features))
	start := time.Now()

	segments, err := clipParallel(ctx, *opts.Rect, features, opts.Workers)

	observability.Pipeline().OnClipComplete(ctx, len(features), len(segments), time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	// Cache the result
	if encoded, err := json.Marshal(segments); err == nil {
		if err := r.Cache.Set(ctx, cacheKey, encoded, cache.TTLResults); err == nil {
			observability.Cache().OnCacheSet(ctx, "result", len(encoded))
		}
	}

	return segments, false, nil
}

// EncodeArtifacts encodes segments into every requested format.
func (r *Runner) EncodeArtifacts(ctx context.Context, segments []contour.Segment, opts Options) (map[string][]byte, error) {
	observability.Pipeline().OnExportStart(ctx, opts.Formats)
	start := time.Now()

	extent := geom.Rect{}
	if opts.Rect != nil {
		extent = *opts.Rect
	}

	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, name := range opts.Formats {
		format, err := export.ParseFormat(name)
		if err != nil {
			observability.Pipeline().OnExportComplete(ctx, opts.Formats, time.Since(start), err)
			return nil, err
		}
		var buf bytes.Buffer
		if err := export.Encode(&buf, format, segments, extent); err != nil {
			observability.Pipeline().OnExportComplete(ctx, opts.Formats, time.Since(start), err)
			return nil, err
		}
		artifacts[string(format)] = buf.Bytes()
	}

	observability.Pipeline().OnExportComplete(ctx, opts.Formats, time.Since(start), nil)
	return artifacts, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

// =============================================================================
// Parallel Clipping
// =============================================================================

// clipParallel clips features across a bounded worker pool. Each feature is
// clipped independently into its own result slot, so fragment order within a
// feature is preserved and the concatenated output follows input order.
func clipParallel(ctx context.Context, rect geom.Rect, features []contour.Feature, workers int) ([]contour.Segment, error) {
	if len(features) == 0 {
		return nil, nil
	}
	if workers > len(features) {
		workers = len(features)
	}
	if workers <= 1 {
		return clip.Clip(rect, features)
	}

	perFeature := make([][]contour.Segment, len(features))
	indexes := make(chan int)

	var (
		wg       sync.WaitGroup
		errOnce  sync.Once
		firstErr error
	)

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range indexes {
				segs, err := clip.ClipFeature(rect, features[i])
				if err != nil {
					errOnce.Do(func() { firstErr = err })
					continue
				}
				perFeature[i] = segs
			}
		}()
	}

	for i := range features {
		select {
		case <-ctx.Done():
			close(indexes)
			wg.Wait()
			return nil, ctx.Err()
		case indexes <- i:
		}
	}
	close(indexes)
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}

	var out []contour.Segment
	for _, segs := range perFeature {
		out = append(out, segs...)
	}
	return out, nil
}
