package dsp

import "math"

// negligibleLevel is the RMS/peak floor below which a clip is treated as
// effectively silent and returned unchanged.
const negligibleLevel = 1e-6

// gainNoOpTolerance skips rescaling when the computed gain is within one
// percent of unity, avoiding needless floating noise.
const gainNoOpTolerance = 0.01

// NormalizeOptions configures loudness normalization.
type NormalizeOptions struct {
	TargetRMS   float64
	MaxGain     float64
	PeakCeiling float64
}

// DefaultNormalizeOptions returns the standard normalization parameters.
func DefaultNormalizeOptions() NormalizeOptions {
	return NormalizeOptions{
		TargetRMS:   0.1,
		MaxGain:     12,
		PeakCeiling: 0.98,
	}
}

// NormalizedAudio holds a loudness-normalized waveform and the
// measurements that produced it.
type NormalizedAudio struct {
	PCM  []float32
	RMS  float64
	Peak float64
	Gain float64
}

// Normalize rescales a waveform toward a target RMS without clipping.
// Non-finite samples are treated as silence and zeroed in the output.
func Normalize(pcm []float32, opts NormalizeOptions) NormalizedAudio {
	sumSquares := 0.0
	peak := 0.0
	for _, s := range pcm {
		v := float64(s)
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		sumSquares += v * v
		if a := math.Abs(v); a > peak {
			peak = a
		}
	}

	rms := 0.0
	if len(pcm) > 0 {
		rms = math.Sqrt(sumSquares / float64(len(pcm)))
	}

	if rms < negligibleLevel || peak < negligibleLevel {
		return NormalizedAudio{PCM: sanitize(pcm), RMS: rms, Peak: peak, Gain: 1}
	}

	gain := opts.TargetRMS / rms
	if gain > opts.MaxGain {
		gain = opts.MaxGain
	}
	if gain < 1/opts.MaxGain {
		gain = 1 / opts.MaxGain
	}
	if gain*peak > opts.PeakCeiling {
		gain = opts.PeakCeiling / peak
	}

	if math.Abs(gain-1) < gainNoOpTolerance {
		return NormalizedAudio{PCM: sanitize(pcm), RMS: rms, Peak: peak, Gain: 1}
	}

	out := make([]float32, len(pcm))
	for i, s := range pcm {
		v := float64(s)
		if math.IsNaN(v) || math.IsInf(v, 0) {
			out[i] = 0
			continue
		}
		v *= gain
		if v > 1 {
			v = 1
		} else if v < -1 {
			v = -1
		}
		out[i] = float32(v)
	}

	return NormalizedAudio{PCM: out, RMS: rms, Peak: peak, Gain: gain}
}

// sanitize copies the input with non-finite samples zeroed.
func sanitize(pcm []float32) []float32 {
	out := make([]float32, len(pcm))
	for i, s := range pcm {
		v := float64(s)
		if math.IsNaN(v) || math.IsInf(v, 0) {
			out[i] = 0
			continue
		}
		out[i] = s
	}
	return out
}
