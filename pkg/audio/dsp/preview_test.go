package dsp

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildComparisonJointScale(t *testing.T) {
	// The louder source defines full scale for both previews.
	ref := []float32{1.0, -1.0, 1.0, -1.0, 1.0, -1.0, 1.0, -1.0}
	user := []float32{0.5, -0.5, 0.5, -0.5, 0.5, -0.5, 0.5, -0.5}

	cmp := BuildComparison(ref, user, testSampleRate, 4)

	require.Len(t, cmp.Reference.Maxima, 4)
	require.Len(t, cmp.User.Maxima, 4)
	assert.InDelta(t, 1.0, float64(cmp.Reference.Maxima[0]), 1e-6)
	assert.InDelta(t, -1.0, float64(cmp.Reference.Minima[0]), 1e-6)
	assert.InDelta(t, 0.5, float64(cmp.User.Maxima[0]), 1e-6)
	assert.InDelta(t, -0.5, float64(cmp.User.Minima[0]), 1e-6)
}

func TestBuildComparisonDurations(t *testing.T) {
	ref := make([]float32, testSampleRate)
	user := make([]float32, testSampleRate/2)

	cmp := BuildComparison(ref, user, testSampleRate, 16)

	assert.InDelta(t, 1.0, cmp.Reference.Duration, 1e-9)
	assert.InDelta(t, 0.5, cmp.User.Duration, 1e-9)
}

func TestBuildPreviewIgnoresNonFinite(t *testing.T) {
	pcm := []float32{0.2, float32(math.NaN()), -0.3, float32(math.Inf(1))}

	p := buildPreview(pcm, testSampleRate, 2)

	assert.InDelta(t, 0.2, float64(p.Maxima[0]), 1e-6)
	assert.InDelta(t, -0.3, float64(p.Minima[1]), 1e-6)
}

func TestBuildPreviewEmptyBinsAreZero(t *testing.T) {
	// Fewer samples than bins leaves trailing bins empty.
	pcm := []float32{0.4, -0.4}

	p := buildPreview(pcm, testSampleRate, 8)

	require.Len(t, p.Minima, 8)
	assert.Zero(t, p.Maxima[7])
	assert.Zero(t, p.Minima[7])
}

func TestBuildComparisonEmptyInputs(t *testing.T) {
	cmp := BuildComparison(nil, nil, testSampleRate, 4)

	require.Len(t, cmp.Reference.Minima, 4)
	for i := range cmp.Reference.Minima {
		assert.Zero(t, cmp.Reference.Minima[i])
		assert.Zero(t, cmp.User.Maxima[i])
	}
}
