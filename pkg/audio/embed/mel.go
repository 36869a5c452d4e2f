package embed

import (
	"context"
	"fmt"
	"math"

	"github.com/mjibson/go-dsp/fft"
	"gonum.org/v1/gonum/floats"
)

const logEnergyFloor = 1e-10

// MelConfig configures the log-mel embedder.
type MelConfig struct {
	SampleRate int
	WindowSize int
	HopSize    int
	MelBands   int
	FFTSize    int
}

// DefaultMelConfig returns the standard embedder parameters
// (25 ms window, 10 ms hop at 16 kHz, 40 mel bands).
func DefaultMelConfig() MelConfig {
	return MelConfig{
		SampleRate: 16000,
		WindowSize: 400,
		HopSize:    160,
		MelBands:   40,
		FFTSize:    512,
	}
}

// MelEmbedder produces L2-normalized log-mel frame vectors. It is the
// default Embedder when no external inference service is wired in.
type MelEmbedder struct {
	cfg     MelConfig
	window  []float64
	filters [][]float64
}

// NewMelEmbedder builds a MelEmbedder, precomputing the analysis window
// and mel filter bank.
func NewMelEmbedder(cfg MelConfig) (*MelEmbedder, error) {
	if cfg.SampleRate <= 0 || cfg.WindowSize <= 0 || cfg.HopSize <= 0 || cfg.MelBands <= 0 {
		return nil, fmt.Errorf("embed: invalid mel config %+v", cfg)
	}
	if cfg.FFTSize < cfg.WindowSize {
		return nil, fmt.Errorf("embed: fft size %d below window size %d", cfg.FFTSize, cfg.WindowSize)
	}
	return &MelEmbedder{
		cfg:     cfg,
		window:  hannWindow(cfg.WindowSize),
		filters: melFilterBank(cfg.SampleRate, cfg.FFTSize, cfg.MelBands),
	}, nil
}

// Dimension returns the frame vector dimensionality.
func (m *MelEmbedder) Dimension() int {
	return m.cfg.MelBands
}

// EmbedSequence maps a waveform to one frame per hop interval.
func (m *MelEmbedder) EmbedSequence(ctx context.Context, pcm []float32) ([][]float64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var frames [][]float64
	for off := 0; off+m.cfg.WindowSize <= len(pcm); off += m.cfg.HopSize {
		frames = append(frames, m.frameVector(pcm[off:off+m.cfg.WindowSize]))
	}
	return frames, nil
}

// EmbedWindow maps one waveform window to a single vector by averaging
// its frames and renormalizing.
func (m *MelEmbedder) EmbedWindow(ctx context.Context, pcm []float32) ([]float64, error) {
	frames, err := m.EmbedSequence(ctx, pcm)
	if err != nil {
		return nil, err
	}
	if len(frames) == 0 {
		return nil, ErrNoFrames
	}

	mean := make([]float64, m.cfg.MelBands)
	for _, f := range frames {
		floats.Add(mean, f)
	}
	floats.Scale(1/float64(len(frames)), mean)
	normalizeUnit(mean)
	return mean, nil
}

// frameVector computes one log-mel vector from a window of samples.
func (m *MelEmbedder) frameVector(pcm []float32) []float64 {
	buf := make([]float64, m.cfg.FFTSize)
	for i := 0; i < m.cfg.WindowSize; i++ {
		v := float64(pcm[i])
		if math.IsNaN(v) || math.IsInf(v, 0) {
			v = 0
		}
		buf[i] = v * m.window[i]
	}

	spectrum := fft.FFTReal(buf)
	nBins := m.cfg.FFTSize/2 + 1
	power := make([]float64, nBins)
	for i := 0; i < nBins; i++ {
		re := real(spectrum[i])
		im := imag(spectrum[i])
		power[i] = re*re + im*im
	}

	vec := make([]float64, m.cfg.MelBands)
	for b, filter := range m.filters {
		vec[b] = math.Log10(math.Max(floats.Dot(filter, power), logEnergyFloor))
	}
	normalizeUnit(vec)
	return vec
}

// normalizeUnit rescales v to unit Euclidean length in place, guarding
// the degenerate near-zero case.
func normalizeUnit(v []float64) {
	norm := floats.Norm(v, 2)
	if norm < 1e-12 {
		return
	}
	floats.Scale(1/norm, v)
}

func hannWindow(n int) []float64 {
	w := make([]float64, n)
	for i := range w {
		w[i] = 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(n-1)))
	}
	return w
}

func hzToMel(hz float64) float64 {
	return 2595 * math.Log10(1+hz/700)
}

func melToHz(mel float64) float64 {
	return 700 * (math.Pow(10, mel/2595) - 1)
}

// melFilterBank builds triangular mel filters over the power spectrum
// bins, spanning 0 Hz to Nyquist.
func melFilterBank(sampleRate, fftSize, bands int) [][]float64 {
	nBins := fftSize/2 + 1
	maxMel := hzToMel(float64(sampleRate) / 2)

	points := make([]int, bands+2)
	for i := range points {
		hz := melToHz(maxMel * float64(i) / float64(bands+1))
		bin := int(math.Floor((float64(fftSize) + 1) * hz / float64(sampleRate)))
		if bin >= nBins {
			bin = nBins - 1
		}
		points[i] = bin
	}

	filters := make([][]float64, bands)
	for b := 0; b < bands; b++ {
		filter := make([]float64, nBins)
		left, center, right := points[b], points[b+1], points[b+2]
		for k := left; k < center; k++ {
			if center > left {
				filter[k] = float64(k-left) / float64(center-left)
			}
		}
		for k := center; k <= right; k++ {
			if right > center {
				filter[k] = float64(right-k) / float64(right-center)
			} else if k == center {
				filter[k] = 1
			}
		}
		filters[b] = filter
	}
	return filters
}
