package embed

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeEmbedder records the inputs it receives and replays scripted frame
// batches, one per call.
type fakeEmbedder struct {
	inputs  [][]float32
	replies [][][]float64
	err     error
}

func (f *fakeEmbedder) EmbedSequence(_ context.Context, pcm []float32) ([][]float64, error) {
	f.inputs = append(f.inputs, pcm)
	if f.err != nil {
		return nil, f.err
	}
	if len(f.replies) == 0 {
		return nil, nil
	}
	reply := f.replies[0]
	f.replies = f.replies[1:]
	return reply, nil
}

func (f *fakeEmbedder) EmbedWindow(_ context.Context, pcm []float32) ([]float64, error) {
	f.inputs = append(f.inputs, pcm)
	if f.err != nil {
		return nil, f.err
	}
	return []float64{1}, nil
}

func TestModelPadsShortInput(t *testing.T) {
	fake := &fakeEmbedder{replies: [][][]float64{{{1, 0}}}}
	m := NewModel(fake, ModelOptions{
		SampleRate:   16000,
		MinDuration:  400 * time.Millisecond,
		RetryPadding: 250 * time.Millisecond,
	})

	_, err := m.EmbedSequence(context.Background(), make([]float32, 1000))
	require.NoError(t, err)

	require.Len(t, fake.inputs, 1)
	assert.Equal(t, 6400, len(fake.inputs[0]))
}

func TestModelRetriesOnZeroFrames(t *testing.T) {
	fake := &fakeEmbedder{replies: [][][]float64{
		nil,
		{{0, 1}},
	}}
	m := NewModel(fake, ModelOptions{
		SampleRate:   16000,
		MinDuration:  400 * time.Millisecond,
		RetryPadding: 250 * time.Millisecond,
	})

	frames, err := m.EmbedSequence(context.Background(), make([]float32, 1000))
	require.NoError(t, err)
	assert.Len(t, frames, 1)

	// First attempt pads to the minimum, the retry adds the extra tail.
	require.Len(t, fake.inputs, 2)
	assert.Equal(t, 6400, len(fake.inputs[0]))
	assert.Equal(t, 10400, len(fake.inputs[1]))
}

func TestModelNoFramesAfterRetry(t *testing.T) {
	fake := &fakeEmbedder{replies: [][][]float64{nil, nil}}
	m := NewModel(fake, ModelOptions{SampleRate: 16000, MinDuration: 400 * time.Millisecond})

	_, err := m.EmbedSequence(context.Background(), make([]float32, 1000))
	assert.ErrorIs(t, err, ErrNoFrames)
	assert.Len(t, fake.inputs, 2)
}

func TestModelWrapsInferenceError(t *testing.T) {
	boom := errors.New("inference backend down")
	fake := &fakeEmbedder{err: boom}
	m := NewModel(fake, ModelOptions{SampleRate: 16000})

	_, err := m.EmbedSequence(context.Background(), make([]float32, 100))
	assert.ErrorIs(t, err, boom)
}

func TestModelLongInputNotPadded(t *testing.T) {
	fake := &fakeEmbedder{replies: [][][]float64{{{1}}}}
	m := NewModel(fake, ModelOptions{SampleRate: 16000, MinDuration: 400 * time.Millisecond})

	pcm := make([]float32, 16000)
	_, err := m.EmbedSequence(context.Background(), pcm)
	require.NoError(t, err)
	assert.Equal(t, 16000, len(fake.inputs[0]))
}
