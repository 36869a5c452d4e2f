// Package dsp holds the pure signal-processing stages of the scoring
// pipeline: adaptive silence trimming, loudness normalization and
// waveform preview construction. Everything here is deterministic;
// identical input always produces identical output.
package dsp

import (
	"math"
	"sort"
)

// TrimOptions configures adaptive silence detection.
type TrimOptions struct {
	FrameMs         int
	HopMs           int
	ThresholdRatio  float64
	MinActiveFrames int
	PaddingMs       int
	BaseThreshold   float64
}

// DefaultTrimOptions returns the standard trimming parameters.
func DefaultTrimOptions() TrimOptions {
	return TrimOptions{
		FrameMs:         20,
		HopMs:           10,
		ThresholdRatio:  0.06,
		MinActiveFrames: 2,
		PaddingMs:       40,
		BaseThreshold:   0.003,
	}
}

// TrimResult describes the sustained-activity region found in a waveform.
// PCM aliases the [Start, End) range of the input.
type TrimResult struct {
	PCM        []float32
	Start      int
	End        int
	Threshold  float64
	NoiseFloor float64
	Peak       float64
}

// Trim locates the first and last region of sustained acoustic activity
// using an adaptive energy threshold. When no qualifying activity run is
// found the full input range is returned untrimmed.
func Trim(pcm []float32, sampleRate int, opts TrimOptions) TrimResult {
	full := TrimResult{PCM: pcm, Start: 0, End: len(pcm)}
	if len(pcm) == 0 || sampleRate <= 0 {
		return full
	}

	frameLen := sampleRate * opts.FrameMs / 1000
	hopLen := sampleRate * opts.HopMs / 1000
	if frameLen < 1 {
		frameLen = 1
	}
	if hopLen < 1 {
		hopLen = 1
	}

	envelope, offsets := energyEnvelope(pcm, frameLen, hopLen)
	if len(envelope) == 0 {
		return full
	}

	maxEnergy := 0.0
	for _, e := range envelope {
		if e > maxEnergy {
			maxEnergy = e
		}
	}

	noiseFloor := estimateNoiseFloor(envelope, maxEnergy)
	threshold := activityThreshold(maxEnergy, noiseFloor, opts)

	full.Threshold = threshold
	full.NoiseFloor = noiseFloor
	full.Peak = maxEnergy

	startWin := firstActiveRun(envelope, threshold, opts.MinActiveFrames)
	endWin := lastActiveRun(envelope, threshold, opts.MinActiveFrames)
	if startWin < 0 || endWin < 0 {
		return full
	}

	padding := sampleRate * opts.PaddingMs / 1000
	start := offsets[startWin] - padding
	end := offsets[endWin] + frameLen + padding
	if start < 0 {
		start = 0
	}
	if end > len(pcm) {
		end = len(pcm)
	}
	if start >= end {
		return full
	}

	return TrimResult{
		PCM:        pcm[start:end],
		Start:      start,
		End:        end,
		Threshold:  threshold,
		NoiseFloor: noiseFloor,
		Peak:       maxEnergy,
	}
}

// energyEnvelope computes the mean absolute amplitude of each analysis
// window. Non-finite samples are skipped.
func energyEnvelope(pcm []float32, frameLen, hopLen int) ([]float64, []int) {
	var envelope []float64
	var offsets []int
	for off := 0; off < len(pcm); off += hopLen {
		end := off + frameLen
		if end > len(pcm) {
			end = len(pcm)
		}
		sum := 0.0
		count := 0
		for _, s := range pcm[off:end] {
			v := float64(s)
			if math.IsNaN(v) || math.IsInf(v, 0) {
				continue
			}
			sum += math.Abs(v)
			count++
		}
		energy := 0.0
		if count > 0 {
			energy = sum / float64(count)
		}
		envelope = append(envelope, energy)
		offsets = append(offsets, off)
		if end == len(pcm) {
			break
		}
	}
	return envelope, offsets
}

// estimateNoiseFloor takes the 20th percentile of the envelope as the
// background level, but only when it sits clearly below the peak.
// Otherwise the whole clip is treated as active speech.
func estimateNoiseFloor(envelope []float64, maxEnergy float64) float64 {
	sorted := make([]float64, len(envelope))
	copy(sorted, envelope)
	sort.Float64s(sorted)

	idx := int(0.2 * float64(len(sorted)-1))
	percentile := sorted[idx]
	if percentile < 0.7*maxEnergy {
		return percentile
	}
	return 0
}

func activityThreshold(maxEnergy, noiseFloor float64, opts TrimOptions) float64 {
	var threshold float64
	if noiseFloor > 0 {
		threshold = noiseFloor + (maxEnergy-noiseFloor)*opts.ThresholdRatio
	} else {
		threshold = maxEnergy * opts.ThresholdRatio
	}
	if threshold < opts.BaseThreshold {
		threshold = opts.BaseThreshold
	}
	return threshold
}

// firstActiveRun returns the index of the first window that starts a run
// of minRun consecutive windows at or above the threshold, or -1.
func firstActiveRun(envelope []float64, threshold float64, minRun int) int {
	run := 0
	for i, e := range envelope {
		if e >= threshold {
			run++
			if run >= minRun {
				return i - minRun + 1
			}
		} else {
			run = 0
		}
	}
	return -1
}

// lastActiveRun scans backward for the last window that ends a run of
// minRun consecutive active windows, or -1.
func lastActiveRun(envelope []float64, threshold float64, minRun int) int {
	run := 0
	for i := len(envelope) - 1; i >= 0; i-- {
		if envelope[i] >= threshold {
			run++
			if run >= minRun {
				return i + minRun - 1
			}
		} else {
			run = 0
		}
	}
	return -1
}
