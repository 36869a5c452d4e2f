package embed

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
)

func melTone(n int, freq, amp float64) []float32 {
	out := make([]float32, n)
	for i := range out {
		out[i] = float32(amp * math.Sin(2*math.Pi*freq*float64(i)/16000))
	}
	return out
}

func TestMelEmbedderFrameCount(t *testing.T) {
	m, err := NewMelEmbedder(DefaultMelConfig())
	require.NoError(t, err)

	frames, err := m.EmbedSequence(context.Background(), melTone(16000, 440, 0.5))
	require.NoError(t, err)

	// One frame per 160-sample hop while a full 400-sample window fits.
	assert.Equal(t, 98, len(frames))
	for _, f := range frames {
		assert.Equal(t, m.Dimension(), len(f))
	}
}

func TestMelEmbedderFramesAreUnitNorm(t *testing.T) {
	m, err := NewMelEmbedder(DefaultMelConfig())
	require.NoError(t, err)

	frames, err := m.EmbedSequence(context.Background(), melTone(8000, 440, 0.5))
	require.NoError(t, err)
	require.NotEmpty(t, frames)

	for _, f := range frames {
		assert.InDelta(t, 1.0, floats.Norm(f, 2), 1e-9)
	}
}

func TestMelEmbedderDeterministic(t *testing.T) {
	m, err := NewMelEmbedder(DefaultMelConfig())
	require.NoError(t, err)

	pcm := melTone(8000, 440, 0.5)
	first, err := m.EmbedSequence(context.Background(), pcm)
	require.NoError(t, err)
	second, err := m.EmbedSequence(context.Background(), pcm)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestMelEmbedderToleratesNonFiniteSamples(t *testing.T) {
	m, err := NewMelEmbedder(DefaultMelConfig())
	require.NoError(t, err)

	pcm := melTone(8000, 440, 0.5)
	pcm[100] = float32(math.NaN())
	pcm[200] = float32(math.Inf(1))

	frames, err := m.EmbedSequence(context.Background(), pcm)
	require.NoError(t, err)
	for _, f := range frames {
		for _, v := range f {
			assert.False(t, math.IsNaN(v) || math.IsInf(v, 0))
		}
	}
}

func TestMelEmbedderShortInputNoFrames(t *testing.T) {
	m, err := NewMelEmbedder(DefaultMelConfig())
	require.NoError(t, err)

	frames, err := m.EmbedSequence(context.Background(), melTone(399, 440, 0.5))
	require.NoError(t, err)
	assert.Empty(t, frames)
}

func TestMelEmbedderWindowVector(t *testing.T) {
	m, err := NewMelEmbedder(DefaultMelConfig())
	require.NoError(t, err)

	vec, err := m.EmbedWindow(context.Background(), melTone(8000, 440, 0.5))
	require.NoError(t, err)
	assert.Equal(t, m.Dimension(), len(vec))
	assert.InDelta(t, 1.0, floats.Norm(vec, 2), 1e-9)

	_, err = m.EmbedWindow(context.Background(), melTone(100, 440, 0.5))
	assert.ErrorIs(t, err, ErrNoFrames)
}

func TestMelEmbedderDistinguishesPitches(t *testing.T) {
	m, err := NewMelEmbedder(DefaultMelConfig())
	require.NoError(t, err)

	low, err := m.EmbedWindow(context.Background(), melTone(8000, 220, 0.5))
	require.NoError(t, err)
	high, err := m.EmbedWindow(context.Background(), melTone(8000, 3500, 0.5))
	require.NoError(t, err)

	assert.Less(t, floats.Dot(low, high), 0.999)
}

func TestNewMelEmbedderRejectsInvalidConfig(t *testing.T) {
	_, err := NewMelEmbedder(MelConfig{SampleRate: 16000, WindowSize: 0, HopSize: 160, MelBands: 40, FFTSize: 512})
	assert.Error(t, err)

	_, err = NewMelEmbedder(MelConfig{SampleRate: 16000, WindowSize: 400, HopSize: 160, MelBands: 40, FFTSize: 256})
	assert.Error(t, err)
}
