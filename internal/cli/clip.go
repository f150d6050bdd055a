package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/terraclip/terraclip/pkg/errors"
	"github.com/terraclip/terraclip/pkg/export"
	"github.com/terraclip/terraclip/pkg/geom"
	"github.com/terraclip/terraclip/pkg/pipeline"
)

// clipCommand creates the clip command.
func (c *CLI) clipCommand() *cobra.Command {
	var (
		rectSpec string
		interval float64
		formats  string
		output   string
		workers  int
		elevProp string
		jobPath  string
		refresh  bool
		noCache  bool
	)

	cmd := &cobra.Command{
		Use:   "clip [input.geojson]",
		Short: "Clip contours to a rectangle and export the result",
		Long: `Clip contour polylines against a rectangular region and export the
clipped segments. Endpoints cut at the boundary are stitched along the
rectangle perimeter so every output segment stays inside the region.

Without --rect the contours pass through unclipped, which is useful for
format conversion and interval thinning alone.`,
		Example: `  terraclip clip contours.geojson --rect 0,0,100,100 --format csv,svg
  terraclip clip contours.geojson --interval 10 --output thinned
  terraclip clip --job site.toml`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := pipeline.Options{}

			if jobPath != "" {
				job, err := LoadJob(jobPath)
				if err != nil {
					return err
				}
				opts, err = job.Options()
				if err != nil {
					return err
				}
				if output == "" {
					output = job.Output
				}
			}

			// Flags override job file settings.
			if len(args) > 0 {
				opts.Input = args[0]
			}
			if cmd.Flags().Changed("rect") {
				rect, err := parseRect(rectSpec)
				if err != nil {
					return err
				}
				opts.Rect = rect
			}
			if cmd.Flags().Changed("interval") {
				opts.Interval = interval
			}
			if cmd.Flags().Changed("format") || len(opts.Formats) == 0 {
				opts.Formats = parseFormats(formats)
			}
			if cmd.Flags().Changed("workers") {
				opts.Workers = workers
			}
			if cmd.Flags().Changed("elevation-property") {
				opts.ElevationProperty = elevProp
			}
			opts.Refresh = refresh

			if err := opts.ValidateAndSetDefaults(); err != nil {
				return err
			}

			runner := c.newRunner(noCache)
			defer runner.Close()

			prog := newProgress(c.Logger)
			result, err := runner.Execute(cmd.Context(), opts)
			if err != nil {
				return err
			}
			prog.done(fmt.Sprintf("Clipped %d features into %d segments",
				result.Stats.FeatureCount, result.Stats.SegmentCount))

			base := outputBase(output, opts.Input)
			printSuccess("Export complete")
			for _, f := range opts.Formats {
				format, err := export.ParseFormat(f)
				if err != nil {
					return err
				}
				path := base + format.Ext()
				if err := writeArtifact(path, result.Artifacts[f]); err != nil {
					return err
				}
				printFile(path)
			}
			printStats(result.Stats.FeatureCount, result.Stats.SegmentCount,
				result.CacheInfo.LoadHit && result.CacheInfo.ClipHit)
			return nil
		},
	}

	cmd.Flags().StringVarP(&rectSpec, "rect", "r", "", "clip rectangle as minx,miny,maxx,maxy")
	cmd.Flags().Float64VarP(&interval, "interval", "i", 0, "keep only contours on this elevation interval (0 keeps all)")
	cmd.Flags().StringVarP(&formats, "format", "f", pipeline.DefaultFormat, "comma-separated output formats (csv, dxf, svg)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output base path (default: input name without extension)")
	cmd.Flags().IntVarP(&workers, "workers", "w", 0, "parallel clip workers (0 uses all CPUs)")
	cmd.Flags().StringVar(&elevProp, "elevation-property", "", "GeoJSON property holding the elevation value")
	cmd.Flags().StringVarP(&jobPath, "job", "j", "", "TOML job file with clip settings")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "bypass cached results")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the result cache")

	return cmd
}

// parseRect parses a "minx,miny,maxx,maxy" flag value.
func parseRect(s string) (*geom.Rect, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return nil, errors.New(errors.ErrCodeInvalidRect,
			"rect must be minx,miny,maxx,maxy, got %q", s)
	}

	vals := make([]float64, 4)
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, errors.New(errors.ErrCodeInvalidRect,
				"rect component %q is not a number", p)
		}
		vals[i] = v
	}

	rect := &geom.Rect{MinX: vals[0], MinY: vals[1], MaxX: vals[2], MaxY: vals[3]}
	if !rect.Valid() {
		return nil, errors.New(errors.ErrCodeInvalidRect,
			"rect has no area: (%g,%g)-(%g,%g)", rect.MinX, rect.MinY, rect.MaxX, rect.MaxY)
	}
	return rect, nil
}

// outputBase resolves the output base path, falling back to the input name
// without its extension.
func outputBase(output, input string) string {
	if output != "" {
		return output
	}
	base := filepath.Base(input)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// writeArtifact writes encoded output bytes, creating parent directories.
func writeArtifact(path string, data []byte) error {
	if err := errors.ValidateOutputPath(path); err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrap(errors.ErrCodeIO, err, "create output directory %s", dir)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "write %s", path)
	}
	return nil
}
