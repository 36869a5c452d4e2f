// Package embed defines the boundary to the audio embedding model and a
// local log-mel implementation of it. The model maps a normalized
// waveform to an ordered sequence of fixed-dimension, unit-length frame
// vectors; everything downstream treats it as opaque.
package embed

import (
	"context"
	"errors"
)

// ErrNoFrames indicates the model produced an empty embedding sequence.
var ErrNoFrames = errors.New("embed: model produced no frames")

// Embedder maps waveforms to embedding frames. Every returned vector is
// L2-normalized and shares the embedder's fixed dimensionality.
// Implementations are not required to be safe for concurrent use; Model
// serializes access.
type Embedder interface {
	// EmbedWindow maps a single analysis window to one frame vector.
	EmbedWindow(ctx context.Context, pcm []float32) ([]float64, error)

	// EmbedSequence maps a waveform to an ordered frame sequence.
	EmbedSequence(ctx context.Context, pcm []float32) ([][]float64, error)
}
