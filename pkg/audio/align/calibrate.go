package align

import "math"

// CalibrationOptions maps a blended distance to a 0-100 score. The
// distance anchors are empirically tuned to the embedding model in use.
type CalibrationOptions struct {
	GoodDistance     float64
	BadDistance      float64
	MinDurationRatio float64
	MaxDurationRatio float64
}

// DefaultCalibrationOptions returns the standard calibration anchors.
func DefaultCalibrationOptions() CalibrationOptions {
	return CalibrationOptions{
		GoodDistance:     0.71,
		BadDistance:      1.18,
		MinDurationRatio: 0.60,
		MaxDurationRatio: 1.60,
	}
}

// Calibrate maps a blended distance to [0, 100], saturating at 100 for
// distances at or below the good anchor and 0 at or above the bad
// anchor, then applies a duration-mismatch factor.
func Calibrate(distance float64, refFrames, userFrames int, opts CalibrationOptions) float64 {
	if math.IsNaN(distance) || math.IsInf(distance, 0) {
		return 0
	}

	base := 100 * (opts.BadDistance - distance) / (opts.BadDistance - opts.GoodDistance)
	if base > 100 {
		base = 100
	} else if base < 0 {
		base = 0
	}

	score := base * DurationFactor(frameRatio(refFrames, userFrames), opts)
	if score > 100 {
		score = 100
	} else if score < 0 {
		score = 0
	}
	return score
}

// DurationFactor attenuates the score when the user recording is much
// shorter or much longer than the reference. Ratios inside
// [MinDurationRatio, MaxDurationRatio] are unpenalized.
func DurationFactor(ratio float64, opts CalibrationOptions) float64 {
	switch {
	case ratio < opts.MinDurationRatio:
		f := ratio / opts.MinDurationRatio
		if f < 0 {
			return 0
		}
		return f
	case ratio > opts.MaxDurationRatio:
		f := opts.MaxDurationRatio / ratio
		if f < 0 {
			return 0
		}
		return f
	default:
		return 1
	}
}

func frameRatio(refFrames, userFrames int) float64 {
	if refFrames == 0 {
		return 1
	}
	return float64(userFrames) / float64(refFrames)
}
