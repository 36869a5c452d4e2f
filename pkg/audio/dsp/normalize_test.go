package dsp

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func measureRMS(pcm []float32) float64 {
	sum := 0.0
	for _, s := range pcm {
		sum += float64(s) * float64(s)
	}
	return math.Sqrt(sum / float64(len(pcm)))
}

func TestNormalizeSilentInputUnchanged(t *testing.T) {
	pcm := make([]float32, 1000)

	result := Normalize(pcm, DefaultNormalizeOptions())

	assert.Equal(t, 1.0, result.Gain)
	assert.Equal(t, pcm, result.PCM)
}

func TestNormalizeQuietInputReachesTargetRMS(t *testing.T) {
	pcm := sine(testSampleRate, 440, 0.03)

	result := Normalize(pcm, DefaultNormalizeOptions())

	require.Greater(t, result.Gain, 1.0)
	assert.InDelta(t, 0.1, measureRMS(result.PCM), 0.005)
}

func TestNormalizeGainClampedToMax(t *testing.T) {
	pcm := sine(testSampleRate, 440, 0.0005)

	result := Normalize(pcm, DefaultNormalizeOptions())

	assert.InDelta(t, 12.0, result.Gain, 1e-9)
}

func TestNormalizePeakCeilingGuard(t *testing.T) {
	// Low RMS but a single large spike: the clip-prevention clamp must
	// override the RMS-derived gain.
	pcm := sine(testSampleRate, 440, 0.03)
	pcm[500] = 0.9

	result := Normalize(pcm, DefaultNormalizeOptions())

	peak := 0.0
	for _, s := range result.PCM {
		if a := math.Abs(float64(s)); a > peak {
			peak = a
		}
	}
	assert.LessOrEqual(t, peak, 0.98+1e-6)
	assert.InDelta(t, 0.98/0.9, result.Gain, 1e-6)
}

func TestNormalizeNearUnityGainSkipsRescale(t *testing.T) {
	// Amplitude chosen so RMS is already within 1% of the target.
	pcm := sine(testSampleRate, 440, 0.1*math.Sqrt2)

	result := Normalize(pcm, DefaultNormalizeOptions())

	assert.Equal(t, 1.0, result.Gain)
	assert.Equal(t, sanitize(pcm), result.PCM)
}

func TestNormalizeZeroesNonFiniteSamples(t *testing.T) {
	pcm := sine(testSampleRate, 440, 0.03)
	pcm[10] = float32(math.NaN())
	pcm[20] = float32(math.Inf(-1))

	result := Normalize(pcm, DefaultNormalizeOptions())

	assert.Zero(t, result.PCM[10])
	assert.Zero(t, result.PCM[20])
}

func TestNormalizeOutputClamped(t *testing.T) {
	opts := DefaultNormalizeOptions()
	opts.PeakCeiling = 1.0
	pcm := sine(testSampleRate, 440, 0.04)

	result := Normalize(pcm, opts)

	for _, s := range result.PCM {
		require.LessOrEqual(t, float64(s), 1.0)
		require.GreaterOrEqual(t, float64(s), -1.0)
	}
}
