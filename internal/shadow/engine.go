// Package shadow orchestrates the shadowing-comparison pipeline: decode,
// trim, normalize, embed, align, score, calibrate, with a waveform
// preview built off the trimmed waveforms.
package shadow

import (
	"context"
	"math"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/zhangpeiwhut/shadowscore/configs"
	"github.com/zhangpeiwhut/shadowscore/pkg/audio"
	"github.com/zhangpeiwhut/shadowscore/pkg/audio/align"
	"github.com/zhangpeiwhut/shadowscore/pkg/audio/decode"
	"github.com/zhangpeiwhut/shadowscore/pkg/audio/dsp"
	"github.com/zhangpeiwhut/shadowscore/pkg/audio/embed"
	"github.com/zhangpeiwhut/shadowscore/pkg/logging"
)

// Engine runs scoring requests. The embedding model is the only shared,
// expensive resource; one Engine reuses one model across calls.
type Engine struct {
	cfg     *configs.Config
	decoder *decode.Decoder
	model   *embed.Model
	logger  logging.Logger
}

// preparedSource is one decoded, trimmed input.
type preparedSource struct {
	decoded *audio.AudioData
	trim    dsp.TrimResult
}

// NewEngine creates a scoring engine around a shared embedding model.
func NewEngine(cfg *configs.Config, model *embed.Model, logger logging.Logger) *Engine {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Engine{
		cfg:     cfg,
		decoder: decode.New(cfg.Audio.SampleRate, logger),
		model:   model,
		logger:  logger,
	}
}

// Score runs the full pipeline for one request. Cancellation is
// cooperative: the context is checked between stages, since decoding and
// DTW can be long-running.
func (e *Engine) Score(ctx context.Context, req ScoreRequest) (*ScoreResult, error) {
	started := time.Now()

	e.logger.Debug("starting scoring request", logging.Fields{
		"reference": req.ReferencePath,
		"recording": req.RecordingPath,
		"session":   req.SessionID,
	})

	trimOpts := dsp.TrimOptions{
		FrameMs:         e.cfg.Trim.FrameMs,
		HopMs:           e.cfg.Trim.HopMs,
		ThresholdRatio:  e.cfg.Trim.ThresholdRatio,
		MinActiveFrames: e.cfg.Trim.MinActiveFrames,
		PaddingMs:       e.cfg.Trim.PaddingMs,
		BaseThreshold:   e.cfg.Trim.BaseThreshold,
	}

	// The two sources are independent until alignment; decode and trim
	// them concurrently.
	var ref, user preparedSource
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		ref, err = e.prepareSource(gctx, req.ReferencePath, req.Window, trimOpts)
		return err
	})
	g.Go(func() error {
		var err error
		user, err = e.prepareSource(gctx, req.RecordingPath, nil, trimOpts)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := e.checkCancelled(ctx, "prepare"); err != nil {
		return nil, err
	}

	// Audibility is checked independently of length, recording first.
	if peakAmplitude(user.trim.PCM) < e.cfg.Engine.MinAudiblePeak {
		return nil, NewPipelineError("gate", CodeNoVoiceDetected,
			"recording has no audible voice, try again", nil)
	}
	minSamples := int(e.cfg.Engine.MinSegment.Seconds() * float64(e.cfg.Audio.SampleRate))
	if len(ref.trim.PCM) < minSamples {
		return nil, NewPipelineError("gate", CodeSegmentTooShort,
			"reference segment too short to score", nil)
	}
	if len(user.trim.PCM) < minSamples {
		return nil, NewPipelineError("gate", CodeSegmentTooShort,
			"recording too short, try again", nil)
	}

	refNorm := dsp.Normalize(ref.trim.PCM, e.normalizeOpts())
	userNorm := dsp.Normalize(user.trim.PCM, e.normalizeOpts())
	e.logger.Debug("normalize completed", logging.Fields{
		"ref_gain":  refNorm.Gain,
		"user_gain": userNorm.Gain,
		"ref_rms":   refNorm.RMS,
		"user_rms":  userNorm.RMS,
	})
	if err := e.checkCancelled(ctx, "normalize"); err != nil {
		return nil, err
	}

	// The preview is built from the trimmed, pre-embedding waveforms.
	comparison := dsp.BuildComparison(ref.trim.PCM, user.trim.PCM,
		e.cfg.Audio.SampleRate, e.cfg.Preview.Bins)

	refFrames, err := e.model.EmbedSequence(ctx, refNorm.PCM)
	if err != nil {
		return nil, NewPipelineError("embed", CodeModelInference,
			"reference embedding failed", err)
	}
	userFrames, err := e.model.EmbedSequence(ctx, userNorm.PCM)
	if err != nil {
		return nil, NewPipelineError("embed", CodeModelInference,
			"recording embedding failed", err)
	}
	if err := e.checkCancelled(ctx, "embed"); err != nil {
		return nil, err
	}

	alignment, refAligned, userAligned := align.AlignSequences(
		refFrames, userFrames, e.cfg.Score.MaxLagFrames)
	e.logger.Debug("alignment completed", logging.Fields{
		"lag_frames":  alignment.Lag,
		"similarity":  alignment.Similarity,
		"ref_frames":  len(refAligned),
		"user_frames": len(userAligned),
	})
	if err := e.checkCancelled(ctx, "align"); err != nil {
		return nil, err
	}

	distances := align.Score(refAligned, userAligned, alignment.Similarity, align.ScoreOptions{
		DTWWeight:            e.cfg.Score.DTWWeight,
		StrictWeight:         e.cfg.Score.StrictWeight,
		BandRatio:            e.cfg.Score.BandRatio,
		SimilarityGate:       e.cfg.Score.SimilarityGate,
		SimilarityPenaltyMax: e.cfg.Score.SimilarityPenaltyMax,
		ConfidenceFrames:     e.cfg.Score.ConfidenceFrames,
	})
	// The band always covers the diagonal offset, so an infinite DTW
	// distance on non-empty sequences is a bug, not an input condition.
	if math.IsInf(distances.DTW, 1) && len(refAligned) > 0 && len(userAligned) > 0 {
		return nil, NewPipelineError("score", CodeInternalInvariant,
			"DTW band excluded all paths for non-empty sequences", nil)
	}
	e.logger.Debug("distance computed", logging.Fields{
		"dtw":     distances.DTW,
		"strict":  distances.Strict,
		"penalty": distances.Penalty,
		"final":   distances.Final,
	})

	score := align.Calibrate(distances.Final, distances.RefFrames, distances.UserFrames, align.CalibrationOptions{
		GoodDistance:     e.cfg.Score.GoodDistance,
		BadDistance:      e.cfg.Score.BadDistance,
		MinDurationRatio: e.cfg.Score.MinDurationRatio,
		MaxDurationRatio: e.cfg.Score.MaxDurationRatio,
	})

	result := &ScoreResult{
		AcousticScore:   score,
		MeanDistance:    distances.Final,
		ReferenceFrames: distances.RefFrames,
		UserFrames:      distances.UserFrames,
		Lag:             alignment.Lag,
		Similarity:      alignment.Similarity,
		Comparison:      comparison,
		ProcessingTime:  time.Since(started),
	}

	e.logger.Info("scoring completed", logging.Fields{
		"score":         result.AcousticScore,
		"mean_distance": result.MeanDistance,
		"ref_frames":    result.ReferenceFrames,
		"user_frames":   result.UserFrames,
		"elapsed_ms":    result.ProcessingTime.Milliseconds(),
	})
	return result, nil
}

// prepareSource decodes and trims one input.
func (e *Engine) prepareSource(ctx context.Context, path string, window *audio.TimeWindow, trimOpts dsp.TrimOptions) (preparedSource, error) {
	decoded, err := e.decoder.DecodeFile(ctx, path, window)
	if err != nil {
		if ctx.Err() != nil {
			return preparedSource{}, ctx.Err()
		}
		return preparedSource{}, NewPipelineError("decode", CodeDecodeFailed,
			"could not decode audio source", err)
	}

	trim := dsp.Trim(decoded.PCM, decoded.SampleRate, trimOpts)
	e.logger.Debug("trim completed", logging.Fields{
		"source":      path,
		"start":       trim.Start,
		"end":         trim.End,
		"threshold":   trim.Threshold,
		"noise_floor": trim.NoiseFloor,
		"peak":        trim.Peak,
	})
	return preparedSource{decoded: decoded, trim: trim}, nil
}

func (e *Engine) normalizeOpts() dsp.NormalizeOptions {
	return dsp.NormalizeOptions{
		TargetRMS:   e.cfg.Normalize.TargetRMS,
		MaxGain:     e.cfg.Normalize.MaxGain,
		PeakCeiling: e.cfg.Normalize.PeakCeiling,
	}
}

func (e *Engine) checkCancelled(ctx context.Context, stage string) error {
	if err := ctx.Err(); err != nil {
		e.logger.Debug("scoring cancelled", logging.Fields{"stage": stage})
		return err
	}
	return nil
}

// peakAmplitude returns the peak absolute amplitude, ignoring non-finite
// samples.
func peakAmplitude(pcm []float32) float64 {
	peak := 0.0
	for _, s := range pcm {
		v := math.Abs(float64(s))
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		if v > peak {
			peak = v
		}
	}
	return peak
}
