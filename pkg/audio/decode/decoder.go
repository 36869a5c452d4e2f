// Package decode turns audio files into mono PCM at the scoring sample
// rate. Two independent read strategies are attempted: a codec-aware
// full-buffer reader, then a generic block-by-block reader used whenever
// the fast path fails for any reason.
package decode

import (
	"context"
	"fmt"
	"io"
	"os"

	gowav "github.com/go-audio/wav"
	dspwav "github.com/mjibson/go-dsp/wav"
	"go.uber.org/multierr"

	"github.com/zhangpeiwhut/shadowscore/pkg/audio"
	"github.com/zhangpeiwhut/shadowscore/pkg/logging"
)

const fallbackBlockFrames = 4096

// DecodeError reports that every decode strategy failed for a source.
// Cause aggregates the underlying failures.
type DecodeError struct {
	Source string
	Cause  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s: all strategies failed: %v", e.Source, e.Cause)
}

func (e *DecodeError) Unwrap() error {
	return e.Cause
}

// Decoder decodes audio files to mono PCM at a fixed target rate.
type Decoder struct {
	targetRate int
	logger     logging.Logger
}

// New creates a Decoder for the given target sample rate.
func New(targetRate int, logger logging.Logger) *Decoder {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Decoder{targetRate: targetRate, logger: logger}
}

// DecodeFile decodes an audio file to mono PCM at the decoder's target
// rate, optionally restricted to a time window. The window is clamped to
// the actual source duration; a window that collapses to zero length
// yields an empty waveform, not an error.
func (d *Decoder) DecodeFile(ctx context.Context, path string, window *audio.TimeWindow) (*audio.AudioData, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	pcm, sourceRate, fastErr := d.decodeFull(path)
	if fastErr != nil {
		d.logger.Debug("fast decode path failed, trying block reader", logging.Fields{
			"source": path,
			"error":  fastErr.Error(),
		})
		var fallbackErr error
		pcm, sourceRate, fallbackErr = d.decodeBlocks(path)
		if fallbackErr != nil {
			return nil, &DecodeError{
				Source: path,
				Cause: multierr.Combine(
					fmt.Errorf("full-buffer reader: %w", fastErr),
					fmt.Errorf("block reader: %w", fallbackErr),
				),
			}
		}
	}

	pcm = Resample(pcm, sourceRate, d.targetRate)

	if window != nil {
		duration := float64(len(pcm)) / float64(d.targetRate)
		clamped := window.Clamp(duration)
		start, end := clamped.SampleRange(d.targetRate, len(pcm))
		pcm = pcm[start:end]
	}

	out := audio.NewAudioData(pcm, d.targetRate)
	d.logger.Debug("decode completed", logging.Fields{
		"source":      path,
		"samples":     len(out.PCM),
		"sample_rate": out.SampleRate,
		"duration_s":  out.Duration.Seconds(),
	})
	return out, nil
}

// decodeFull reads the whole file through the codec-aware decoder.
func (d *Decoder) decodeFull(path string) ([]float32, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, err
	}
	defer f.Close()

	dec := gowav.NewDecoder(f)
	if !dec.IsValidFile() {
		return nil, 0, fmt.Errorf("not a valid wav file")
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, 0, fmt.Errorf("read pcm buffer: %w", err)
	}
	if buf == nil || buf.Format == nil || buf.Format.NumChannels < 1 {
		return nil, 0, fmt.Errorf("decoder returned empty buffer")
	}

	bitDepth := buf.SourceBitDepth
	if bitDepth <= 0 {
		bitDepth = int(dec.BitDepth)
	}
	if bitDepth <= 0 {
		bitDepth = 16
	}
	scale := float32(int64(1) << (bitDepth - 1))

	samples := make([]float32, len(buf.Data))
	for i, v := range buf.Data {
		samples[i] = float32(v) / scale
	}

	return downmixMono(samples, buf.Format.NumChannels), buf.Format.SampleRate, nil
}

// decodeBlocks reads the file sample block by sample block through the
// generic track reader. Slower, but survives inputs the fast path
// rejects.
func (d *Decoder) decodeBlocks(path string) ([]float32, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, err
	}
	defer f.Close()

	w, err := dspwav.New(f)
	if err != nil {
		return nil, 0, fmt.Errorf("open wav track: %w", err)
	}

	channels := int(w.NumChannels)
	if channels < 1 {
		return nil, 0, fmt.Errorf("invalid channel count %d", channels)
	}

	var samples []float32
	for {
		block, err := w.ReadFloats(fallbackBlockFrames * channels)
		if len(block) > 0 {
			samples = append(samples, block...)
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, 0, fmt.Errorf("read sample block: %w", err)
		}
		if len(block) == 0 {
			break
		}
	}

	if len(samples) == 0 {
		return nil, 0, fmt.Errorf("no samples decoded")
	}

	return downmixMono(samples, channels), int(w.SampleRate), nil
}
