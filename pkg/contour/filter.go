package contour

import "math"

// intervalEpsilon absorbs floating-point drift when testing whether an
// elevation lands on an interval step.
const intervalEpsilon = 1e-9

// FilterByInterval keeps only the features whose elevation is a whole number
// of interval steps above the lowest elevation present. An interval of zero
// or less disables filtering and returns the input unchanged.
//
// Thinning a dense contour set to every 5th meter before export keeps plots
// readable without touching the clipping pass.
func FilterByInterval(features []Feature, interval float64) []Feature {
	if interval <= 0 || len(features) == 0 {
		return features
	}

	min := features[0].Elevation
	for _, f := range features[1:] {
		if f.Elevation < min {
			min = f.Elevation
		}
	}

	kept := make([]Feature, 0, len(features))
	for _, f := range features {
		if onStep(f.Elevation-min, interval) {
			kept = append(kept, f)
		}
	}
	return kept
}

// onStep reports whether offset is a whole multiple of interval, tolerating
// remainders that drift to just below the next step.
func onStep(offset, interval float64) bool {
	rem := math.Mod(offset, interval)
	if rem < 0 {
		rem += interval
	}
	return rem < intervalEpsilon || interval-rem < intervalEpsilon
}
