package dsp

import "math"

// DefaultPreviewBins is the standard preview resolution.
const DefaultPreviewBins = 240

// Preview holds a downsampled min/max envelope of one waveform. Minima
// and maxima are equal-length and jointly normalized to [-1, 1] across
// the comparison they belong to.
type Preview struct {
	Minima   []float32 `json:"minima"`
	Maxima   []float32 `json:"maxima"`
	Duration float64   `json:"duration_seconds"`
}

// Comparison pairs the reference and user previews, scaled so the louder
// of the two sources defines full scale.
type Comparison struct {
	Reference Preview `json:"reference"`
	User      Preview `json:"user"`
}

// BuildComparison builds side-by-side min/max previews of two waveforms
// with a shared visual scale.
func BuildComparison(refPCM, userPCM []float32, sampleRate, bins int) Comparison {
	if bins <= 0 {
		bins = DefaultPreviewBins
	}
	ref := buildPreview(refPCM, sampleRate, bins)
	user := buildPreview(userPCM, sampleRate, bins)

	divisor := 1e-6
	for _, p := range []*Preview{&ref, &user} {
		for i := range p.Minima {
			if a := math.Abs(float64(p.Minima[i])); a > divisor {
				divisor = a
			}
			if a := math.Abs(float64(p.Maxima[i])); a > divisor {
				divisor = a
			}
		}
	}
	scale := float32(1 / divisor)
	for _, p := range []*Preview{&ref, &user} {
		for i := range p.Minima {
			p.Minima[i] *= scale
			p.Maxima[i] *= scale
		}
	}

	return Comparison{Reference: ref, User: user}
}

// buildPreview partitions the sample range into equal-width bins and
// records each bin's min and max sample value. Non-finite samples are
// ignored; empty bins yield (0, 0).
func buildPreview(pcm []float32, sampleRate, bins int) Preview {
	p := Preview{
		Minima: make([]float32, bins),
		Maxima: make([]float32, bins),
	}
	if sampleRate > 0 {
		p.Duration = float64(len(pcm)) / float64(sampleRate)
	}

	n := len(pcm)
	for b := 0; b < bins; b++ {
		start := int(math.Round(float64(b) * float64(n) / float64(bins)))
		end := int(math.Round(float64(b+1) * float64(n) / float64(bins)))
		if end > n {
			end = n
		}

		lo := math.Inf(1)
		hi := math.Inf(-1)
		found := false
		for _, s := range pcm[start:end] {
			v := float64(s)
			if math.IsNaN(v) || math.IsInf(v, 0) {
				continue
			}
			if v < lo {
				lo = v
			}
			if v > hi {
				hi = v
			}
			found = true
		}
		if found {
			p.Minima[b] = float32(lo)
			p.Maxima[b] = float32(hi)
		}
	}
	return p
}
