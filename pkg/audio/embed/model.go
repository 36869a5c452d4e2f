package embed

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/zhangpeiwhut/shadowscore/pkg/logging"
)

// ModelOptions configures the shared model wrapper.
type ModelOptions struct {
	SampleRate   int
	MinDuration  time.Duration
	RetryPadding time.Duration
	Logger       logging.Logger
}

// Model owns the process-wide embedder instance. It serializes inference
// (one call in flight at a time), pads short input with trailing silence
// up to the model's minimum duration, and retries once with extended
// padding when the model yields zero frames.
type Model struct {
	mu         sync.Mutex
	embedder   Embedder
	minSamples int
	retryPad   int
	logger     logging.Logger
}

// NewModel wraps an Embedder for shared use across scoring calls.
func NewModel(embedder Embedder, opts ModelOptions) *Model {
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	sampleRate := opts.SampleRate
	if sampleRate <= 0 {
		sampleRate = 16000
	}
	return &Model{
		embedder:   embedder,
		minSamples: int(opts.MinDuration.Seconds() * float64(sampleRate)),
		retryPad:   int(opts.RetryPadding.Seconds() * float64(sampleRate)),
		logger:     logger,
	}
}

// EmbedSequence runs inference on a waveform, returning at least one
// frame or an error.
func (m *Model) EmbedSequence(ctx context.Context, pcm []float32) ([][]float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	frames, err := m.embedder.EmbedSequence(ctx, padTrailing(pcm, m.minSamples))
	if err != nil {
		return nil, fmt.Errorf("embedding inference: %w", err)
	}
	if len(frames) > 0 {
		return frames, nil
	}

	// Zero frames from a non-empty input: retry once with extra trailing
	// silence before surfacing failure.
	m.logger.Debug("model produced zero frames, retrying with extended padding", logging.Fields{
		"samples":       len(pcm),
		"retry_padding": m.retryPad,
	})
	frames, err = m.embedder.EmbedSequence(ctx, padTrailing(pcm, m.minSamples+m.retryPad))
	if err != nil {
		return nil, fmt.Errorf("embedding inference retry: %w", err)
	}
	if len(frames) == 0 {
		return nil, ErrNoFrames
	}
	return frames, nil
}

// EmbedWindow runs single-window inference.
func (m *Model) EmbedWindow(ctx context.Context, pcm []float32) ([]float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.embedder.EmbedWindow(ctx, padTrailing(pcm, m.minSamples))
}

// padTrailing extends pcm with trailing silence up to minSamples.
func padTrailing(pcm []float32, minSamples int) []float32 {
	if len(pcm) >= minSamples {
		return pcm
	}
	out := make([]float32, minSamples)
	copy(out, pcm)
	return out
}
