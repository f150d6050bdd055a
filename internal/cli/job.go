package cli

import (
	"os"

	"github.com/BurntSushi/toml"

	"github.com/terraclip/terraclip/pkg/errors"
	"github.com/terraclip/terraclip/pkg/geom"
	"github.com/terraclip/terraclip/pkg/pipeline"
)

// Job describes a clip run declared in a TOML file, so repeated cuts of the
// same site can be driven by configuration instead of flags.
//
// Example:
//
//	name = "north-face"
//	input = "contours.geojson"
//	rect = [0.0, 0.0, 250.0, 180.0]
//	interval = 5.0
//	formats = ["csv", "dxf"]
//	output = "out/north-face"
type Job struct {
	Name              string    `toml:"name"`
	Input             string    `toml:"input"`
	Rect              []float64 `toml:"rect"`
	Interval          float64   `toml:"interval"`
	Formats           []string  `toml:"formats"`
	Output            string    `toml:"output"`
	ElevationProperty string    `toml:"elevation_property"`
	Workers           int       `toml:"workers"`
}

// LoadJob reads and validates a TOML job file.
func LoadJob(path string) (*Job, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "job file %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeIO, err, "read job file %s", path)
	}

	var job Job
	if err := toml.Unmarshal(data, &job); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidJob, err, "parse job file %s", path)
	}

	if job.Name != "" {
		if err := errors.ValidateJobName(job.Name); err != nil {
			return nil, err
		}
	}
	if len(job.Rect) != 0 && len(job.Rect) != 4 {
		return nil, errors.New(errors.ErrCodeInvalidJob,
			"job rect needs 4 values (minx,miny,maxx,maxy), got %d", len(job.Rect))
	}
	return &job, nil
}

// Options converts the job into pipeline options.
func (j *Job) Options() (pipeline.Options, error) {
	opts := pipeline.Options{
		Input:             j.Input,
		Interval:          j.Interval,
		Formats:           j.Formats,
		ElevationProperty: j.ElevationProperty,
		Workers:           j.Workers,
	}

	if len(j.Rect) == 4 {
		rect := &geom.Rect{MinX: j.Rect[0], MinY: j.Rect[1], MaxX: j.Rect[2], MaxY: j.Rect[3]}
		if !rect.Valid() {
			return pipeline.Options{}, errors.New(errors.ErrCodeInvalidRect,
				"job rect has no area: (%g,%g)-(%g,%g)", rect.MinX, rect.MinY, rect.MaxX, rect.MaxY)
		}
		opts.Rect = rect
	}
	return opts, nil
}
