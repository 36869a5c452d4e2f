package align

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCosineDistance(t *testing.T) {
	assert.InDelta(t, 0.0, CosineDistance([]float64{1, 0}, []float64{1, 0}), 1e-12)
	assert.InDelta(t, 1.0, CosineDistance([]float64{1, 0}, []float64{0, 1}), 1e-12)
	assert.InDelta(t, 2.0, CosineDistance([]float64{1, 0}, []float64{-1, 0}), 1e-12)

	// Accumulated rounding can push the dot product past ±1; the result
	// stays within [0, 2].
	assert.InDelta(t, 0.0, CosineDistance([]float64{1 + 1e-15, 0}, []float64{1, 0}), 1e-12)
}

func TestStrictDistance(t *testing.T) {
	ref := rotating(10, 0)

	assert.InDelta(t, 0.0, StrictDistance(ref, rotating(10, 0)), 1e-12)
	assert.True(t, math.IsInf(StrictDistance(nil, ref), 1))
	assert.True(t, math.IsInf(StrictDistance(ref, nil), 1))

	// Extra trailing frames on one side are ignored.
	assert.InDelta(t, 0.0, StrictDistance(ref, rotating(14, 0)), 1e-12)
}

func TestDTWIdenticalSequencesZero(t *testing.T) {
	seq := rotating(30, 0.2)
	assert.InDelta(t, 0.0, DTWDistance(seq, seq, DefaultBandRatio), 1e-12)
}

func TestDTWOrthogonalSingleFrames(t *testing.T) {
	ref := [][]float64{{1, 0}}
	user := [][]float64{{0, 1}}
	assert.InDelta(t, 1.0, DTWDistance(ref, user, DefaultBandRatio), 1e-12)
}

func TestDTWEmptyInfinite(t *testing.T) {
	seq := rotating(5, 0)
	assert.True(t, math.IsInf(DTWDistance(nil, seq, DefaultBandRatio), 1))
	assert.True(t, math.IsInf(DTWDistance(seq, nil, DefaultBandRatio), 1))
	assert.True(t, math.IsInf(DTWDistance(nil, nil, DefaultBandRatio), 1))
}

func TestDTWBandAlwaysAdmitsAPath(t *testing.T) {
	// The band half-width covers the length difference, so every
	// non-empty shape pair must yield a finite distance.
	for tl := 1; tl <= 6; tl++ {
		for ul := 1; ul <= 6; ul++ {
			d := DTWDistance(rotating(tl, 0), rotating(ul, 1.3), DefaultBandRatio)
			assert.Falsef(t, math.IsInf(d, 1), "infinite distance for %dx%d", tl, ul)
		}
	}
}

func TestDTWTempoTolerance(t *testing.T) {
	ref := rotating(12, 0)

	// Stretch the user to double tempo by repeating every frame.
	user := make([][]float64, 0, 24)
	for _, f := range ref {
		user = append(user, f, f)
	}

	dtw := DTWDistance(ref, user, DefaultBandRatio)
	strict := StrictDistance(ref, user)

	// Warping absorbs the tempo change almost entirely; positional
	// comparison does not.
	assert.Less(t, dtw, 0.05)
	assert.Greater(t, strict, dtw+0.1)
}
