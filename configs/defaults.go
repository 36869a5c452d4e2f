package configs

import (
	"time"

	"github.com/spf13/viper"
)

// SetDefaults sets default configuration values for all components.
func SetDefaults(v *viper.Viper) {
	// Application defaults
	v.SetDefault("verbose", false)
	v.SetDefault("log_level", "info")
	v.SetDefault("output_format", "text")

	// Audio decoding defaults. All scoring paths run at 16 kHz mono.
	v.SetDefault("audio.sample_rate", 16000)
	v.SetDefault("audio.channels", 1)

	// Silence trimming defaults
	v.SetDefault("trim.frame_ms", 20)
	v.SetDefault("trim.hop_ms", 10)
	v.SetDefault("trim.threshold_ratio", 0.06)
	v.SetDefault("trim.min_active_frames", 2)
	v.SetDefault("trim.padding_ms", 40)
	v.SetDefault("trim.base_threshold", 0.003)

	// Loudness normalization defaults
	v.SetDefault("normalize.target_rms", 0.1)
	v.SetDefault("normalize.max_gain", 12.0)
	v.SetDefault("normalize.peak_ceiling", 0.98)

	// Embedding model defaults (25 ms window, 10 ms hop at 16 kHz)
	v.SetDefault("embed.window_size", 400)
	v.SetDefault("embed.hop_size", 160)
	v.SetDefault("embed.mel_bands", 40)
	v.SetDefault("embed.fft_size", 512)
	v.SetDefault("embed.min_duration", 400*time.Millisecond)
	v.SetDefault("embed.retry_padding", 250*time.Millisecond)

	// Alignment and calibration defaults. The distance constants are
	// tuned empirically against the default embedder.
	v.SetDefault("score.max_lag_frames", 12)
	v.SetDefault("score.band_ratio", 0.35)
	v.SetDefault("score.dtw_weight", 0.8)
	v.SetDefault("score.strict_weight", 0.2)
	v.SetDefault("score.similarity_gate", 0.14)
	v.SetDefault("score.similarity_penalty_max", 0.18)
	v.SetDefault("score.confidence_frames", 20)
	v.SetDefault("score.good_distance", 0.71)
	v.SetDefault("score.bad_distance", 1.18)
	v.SetDefault("score.min_duration_ratio", 0.60)
	v.SetDefault("score.max_duration_ratio", 1.60)

	// Waveform preview defaults
	v.SetDefault("preview.bins", 240)

	// Engine gates
	v.SetDefault("engine.min_segment", 250*time.Millisecond)
	v.SetDefault("engine.min_audible_peak", 0.02)
	v.SetDefault("engine.operation_timeout", 30*time.Second)
}

// GetDefaultConfig returns a Config struct with all default values set.
func GetDefaultConfig() *Config {
	return &Config{
		Verbose:      false,
		LogLevel:     "info",
		OutputFormat: "text",
		Audio: AudioConfig{
			SampleRate: 16000,
			Channels:   1,
		},
		Trim: TrimConfig{
			FrameMs:         20,
			HopMs:           10,
			ThresholdRatio:  0.06,
			MinActiveFrames: 2,
			PaddingMs:       40,
			BaseThreshold:   0.003,
		},
		Normalize: NormalizeConfig{
			TargetRMS:   0.1,
			MaxGain:     12.0,
			PeakCeiling: 0.98,
		},
		Embed: EmbedConfig{
			WindowSize:   400,
			HopSize:      160,
			MelBands:     40,
			FFTSize:      512,
			MinDuration:  400 * time.Millisecond,
			RetryPadding: 250 * time.Millisecond,
		},
		Score: ScoreConfig{
			MaxLagFrames:         12,
			BandRatio:            0.35,
			DTWWeight:            0.8,
			StrictWeight:         0.2,
			SimilarityGate:       0.14,
			SimilarityPenaltyMax: 0.18,
			ConfidenceFrames:     20,
			GoodDistance:         0.71,
			BadDistance:          1.18,
			MinDurationRatio:     0.60,
			MaxDurationRatio:     1.60,
		},
		Preview: PreviewConfig{
			Bins: 240,
		},
		Engine: EngineConfig{
			MinSegment:       250 * time.Millisecond,
			MinAudiblePeak:   0.02,
			OperationTimeout: 30 * time.Second,
		},
	}
}
