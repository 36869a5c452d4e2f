package align

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalibrateSaturation(t *testing.T) {
	opts := DefaultCalibrationOptions()

	assert.Equal(t, 100.0, Calibrate(opts.GoodDistance, 50, 50, opts))
	assert.Equal(t, 100.0, Calibrate(0, 50, 50, opts))
	assert.Equal(t, 0.0, Calibrate(opts.BadDistance, 50, 50, opts))
	assert.Equal(t, 0.0, Calibrate(5, 50, 50, opts))
}

func TestCalibrateLinearBetweenAnchors(t *testing.T) {
	opts := DefaultCalibrationOptions()
	mid := (opts.GoodDistance + opts.BadDistance) / 2
	assert.InDelta(t, 50.0, Calibrate(mid, 50, 50, opts), 1e-9)
}

func TestCalibrateMonotonic(t *testing.T) {
	opts := DefaultCalibrationOptions()
	prev := math.Inf(1)
	for d := 0.0; d <= 1.5; d += 0.05 {
		score := Calibrate(d, 50, 50, opts)
		assert.LessOrEqual(t, score, prev)
		prev = score
	}
}

func TestCalibrateNonFiniteDistance(t *testing.T) {
	opts := DefaultCalibrationOptions()
	assert.Equal(t, 0.0, Calibrate(math.NaN(), 50, 50, opts))
	assert.Equal(t, 0.0, Calibrate(math.Inf(1), 50, 50, opts))
}

func TestDurationFactor(t *testing.T) {
	opts := DefaultCalibrationOptions()

	assert.Equal(t, 1.0, DurationFactor(1.0, opts))
	assert.Equal(t, 1.0, DurationFactor(opts.MinDurationRatio, opts))
	assert.Equal(t, 1.0, DurationFactor(opts.MaxDurationRatio, opts))

	assert.InDelta(t, 0.5, DurationFactor(0.3, opts), 1e-12)
	assert.InDelta(t, opts.MaxDurationRatio/3.0, DurationFactor(3.0, opts), 1e-12)

	assert.Equal(t, 0.0, DurationFactor(0, opts))
	assert.InDelta(t, 0.0, DurationFactor(1000, opts), 1e-2)
}

func TestCalibrateDurationMismatchAttenuates(t *testing.T) {
	opts := DefaultCalibrationOptions()

	// A 3s recording against a 1s reference keeps roughly half the score.
	full := Calibrate(opts.GoodDistance, 100, 100, opts)
	long := Calibrate(opts.GoodDistance, 100, 300, opts)
	assert.InDelta(t, full*opts.MaxDurationRatio/3.0, long, 1e-9)

	short := Calibrate(opts.GoodDistance, 100, 30, opts)
	assert.InDelta(t, full*0.5, short, 1e-9)
}

func TestCalibrateZeroReferenceFramesUnpenalized(t *testing.T) {
	opts := DefaultCalibrationOptions()
	assert.Equal(t, 100.0, Calibrate(opts.GoodDistance, 0, 300, opts))
}
