package configs

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config represents the application configuration.
type Config struct {
	// Application settings
	Verbose      bool   `mapstructure:"verbose"`
	LogLevel     string `mapstructure:"log_level"`
	OutputFormat string `mapstructure:"output_format"`

	// Audio decoding configuration
	Audio AudioConfig `mapstructure:"audio"`

	// Silence trimming configuration
	Trim TrimConfig `mapstructure:"trim"`

	// Loudness normalization configuration
	Normalize NormalizeConfig `mapstructure:"normalize"`

	// Embedding model configuration
	Embed EmbedConfig `mapstructure:"embed"`

	// Alignment and distance scoring configuration
	Score ScoreConfig `mapstructure:"score"`

	// Waveform preview configuration
	Preview PreviewConfig `mapstructure:"preview"`

	// Engine-level gates and timeouts
	Engine EngineConfig `mapstructure:"engine"`
}

// AudioConfig contains audio decoding settings.
type AudioConfig struct {
	SampleRate int `mapstructure:"sample_rate"`
	Channels   int `mapstructure:"channels"`
}

// TrimConfig contains adaptive silence detection settings.
type TrimConfig struct {
	FrameMs         int     `mapstructure:"frame_ms"`
	HopMs           int     `mapstructure:"hop_ms"`
	ThresholdRatio  float64 `mapstructure:"threshold_ratio"`
	MinActiveFrames int     `mapstructure:"min_active_frames"`
	PaddingMs       int     `mapstructure:"padding_ms"`
	BaseThreshold   float64 `mapstructure:"base_threshold"`
}

// NormalizeConfig contains loudness normalization settings.
type NormalizeConfig struct {
	TargetRMS   float64 `mapstructure:"target_rms"`
	MaxGain     float64 `mapstructure:"max_gain"`
	PeakCeiling float64 `mapstructure:"peak_ceiling"`
}

// EmbedConfig contains embedding model settings.
type EmbedConfig struct {
	WindowSize   int           `mapstructure:"window_size"`
	HopSize      int           `mapstructure:"hop_size"`
	MelBands     int           `mapstructure:"mel_bands"`
	FFTSize      int           `mapstructure:"fft_size"`
	MinDuration  time.Duration `mapstructure:"min_duration"`
	RetryPadding time.Duration `mapstructure:"retry_padding"`
}

// ScoreConfig contains alignment, distance and calibration settings.
// The calibration constants are empirically tuned against the embedding
// model in use; they do not transfer to a different model without
// re-calibration.
type ScoreConfig struct {
	MaxLagFrames         int     `mapstructure:"max_lag_frames"`
	BandRatio            float64 `mapstructure:"band_ratio"`
	DTWWeight            float64 `mapstructure:"dtw_weight"`
	StrictWeight         float64 `mapstructure:"strict_weight"`
	SimilarityGate       float64 `mapstructure:"similarity_gate"`
	SimilarityPenaltyMax float64 `mapstructure:"similarity_penalty_max"`
	ConfidenceFrames     int     `mapstructure:"confidence_frames"`
	GoodDistance         float64 `mapstructure:"good_distance"`
	BadDistance          float64 `mapstructure:"bad_distance"`
	MinDurationRatio     float64 `mapstructure:"min_duration_ratio"`
	MaxDurationRatio     float64 `mapstructure:"max_duration_ratio"`
}

// PreviewConfig contains waveform preview settings.
type PreviewConfig struct {
	Bins int `mapstructure:"bins"`
}

// EngineConfig contains engine-level gates and timeouts.
type EngineConfig struct {
	MinSegment       time.Duration `mapstructure:"min_segment"`
	MinAudiblePeak   float64       `mapstructure:"min_audible_peak"`
	OperationTimeout time.Duration `mapstructure:"operation_timeout"`
}

// LoadConfig loads configuration from viper.
func LoadConfig() (*Config, error) {
	config := &Config{}

	if err := viper.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("unable to decode configuration: %w", err)
	}

	return config, nil
}

// ValidateConfig validates the configuration.
func ValidateConfig(config *Config) error {
	if config.Audio.SampleRate <= 0 {
		return fmt.Errorf("audio sample rate must be positive")
	}
	if config.Trim.FrameMs <= 0 || config.Trim.HopMs <= 0 {
		return fmt.Errorf("trim frame and hop must be positive")
	}
	if config.Trim.MinActiveFrames < 1 {
		return fmt.Errorf("trim min active frames must be at least 1")
	}
	if config.Normalize.TargetRMS <= 0 {
		return fmt.Errorf("normalize target RMS must be positive")
	}
	if config.Normalize.MaxGain < 1 {
		return fmt.Errorf("normalize max gain must be at least 1")
	}
	if config.Normalize.PeakCeiling <= 0 || config.Normalize.PeakCeiling > 1 {
		return fmt.Errorf("normalize peak ceiling must be in (0, 1]")
	}
	if config.Embed.WindowSize <= 0 || config.Embed.HopSize <= 0 {
		return fmt.Errorf("embed window and hop must be positive")
	}
	if config.Embed.FFTSize < config.Embed.WindowSize {
		return fmt.Errorf("embed FFT size must be at least the window size")
	}
	if config.Embed.MelBands <= 0 {
		return fmt.Errorf("embed mel bands must be positive")
	}
	if config.Score.BandRatio <= 0 || config.Score.BandRatio > 1 {
		return fmt.Errorf("score band ratio must be in (0, 1]")
	}
	if config.Score.GoodDistance >= config.Score.BadDistance {
		return fmt.Errorf("score good distance must be below bad distance")
	}
	if config.Score.MinDurationRatio <= 0 || config.Score.MinDurationRatio >= 1 {
		return fmt.Errorf("score min duration ratio must be in (0, 1)")
	}
	if config.Score.MaxDurationRatio <= 1 {
		return fmt.Errorf("score max duration ratio must exceed 1")
	}
	if config.Preview.Bins <= 0 {
		return fmt.Errorf("preview bins must be positive")
	}
	if config.Engine.MinSegment <= 0 {
		return fmt.Errorf("engine min segment must be positive")
	}
	if config.Engine.MinAudiblePeak < 0 || config.Engine.MinAudiblePeak > 1 {
		return fmt.Errorf("engine min audible peak must be in [0, 1]")
	}
	return nil
}
