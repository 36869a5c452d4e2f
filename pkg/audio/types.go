package audio

import (
	"fmt"
	"time"
)

// ScoringSampleRate is the sample rate every embedding and scoring path
// operates at. Decoders resample to this rate before anything downstream
// sees the samples.
const ScoringSampleRate = 16000

// AudioData holds a mono PCM sample sequence and its sample rate.
type AudioData struct {
	PCM        []float32     `json:"-"`
	SampleRate int           `json:"sample_rate"`
	Channels   int           `json:"channels"`
	Duration   time.Duration `json:"duration"`
}

// NewAudioData builds an AudioData with the duration derived from the
// sample count.
func NewAudioData(pcm []float32, sampleRate int) *AudioData {
	return &AudioData{
		PCM:        pcm,
		SampleRate: sampleRate,
		Channels:   1,
		Duration:   DurationForSamples(len(pcm), sampleRate),
	}
}

// DurationForSamples converts a sample count at a given rate to a duration.
func DurationForSamples(n, sampleRate int) time.Duration {
	if sampleRate <= 0 {
		return 0
	}
	return time.Duration(float64(n) / float64(sampleRate) * float64(time.Second))
}

// TimeWindow selects a [Start, End] interval (in seconds) of a longer
// recording. The zero value selects nothing; use Clamp before slicing.
type TimeWindow struct {
	Start float64 `json:"start" mapstructure:"start"`
	End   float64 `json:"end" mapstructure:"end"`
}

// Validate checks the window is well formed.
func (w TimeWindow) Validate() error {
	if w.Start < 0 || w.End < 0 {
		return fmt.Errorf("time window bounds must be non-negative: [%f, %f]", w.Start, w.End)
	}
	if w.Start > w.End {
		return fmt.Errorf("time window start %f exceeds end %f", w.Start, w.End)
	}
	return nil
}

// Clamp restricts the window to [0, duration] seconds. A window whose end
// exceeds the source duration is truncated, not rejected.
func (w TimeWindow) Clamp(duration float64) TimeWindow {
	out := w
	if out.Start < 0 {
		out.Start = 0
	}
	if out.End > duration {
		out.End = duration
	}
	if out.Start > out.End {
		out.Start = out.End
	}
	return out
}

// Seconds returns the window length.
func (w TimeWindow) Seconds() float64 {
	return w.End - w.Start
}

// SampleRange converts the window to sample indices at the given rate,
// clamped to [0, n].
func (w TimeWindow) SampleRange(sampleRate, n int) (int, int) {
	start := int(w.Start * float64(sampleRate))
	end := int(w.End * float64(sampleRate))
	if start < 0 {
		start = 0
	}
	if end > n {
		end = n
	}
	if start > end {
		start = end
	}
	return start, end
}
