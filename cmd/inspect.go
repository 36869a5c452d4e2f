package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/zhangpeiwhut/shadowscore/internal/app"
	"github.com/zhangpeiwhut/shadowscore/pkg/audio"
	"github.com/zhangpeiwhut/shadowscore/pkg/audio/decode"
	"github.com/zhangpeiwhut/shadowscore/pkg/audio/dsp"
)

var (
	inspectStart float64
	inspectEnd   float64
)

// inspectReport summarizes decode/trim/normalize diagnostics for one file.
type inspectReport struct {
	Source          string  `json:"source"`
	SampleRate      int     `json:"sample_rate"`
	Samples         int     `json:"samples"`
	DurationSeconds float64 `json:"duration_seconds"`
	TrimStart       int     `json:"trim_start"`
	TrimEnd         int     `json:"trim_end"`
	TrimThreshold   float64 `json:"trim_threshold"`
	NoiseFloor      float64 `json:"noise_floor"`
	PeakEnergy      float64 `json:"peak_energy"`
	RMS             float64 `json:"rms"`
	Peak            float64 `json:"peak"`
	AppliedGain     float64 `json:"applied_gain"`
}

// inspectCmd represents the inspect command
var inspectCmd = &cobra.Command{
	Use:   "inspect [file]",
	Short: "Decode, trim and normalize one file and report diagnostics",
	Args:  cobra.ExactArgs(1),
	RunE:  runInspect,
}

func init() {
	rootCmd.AddCommand(inspectCmd)

	inspectCmd.Flags().Float64Var(&inspectStart, "start", 0, "window start in seconds")
	inspectCmd.Flags().Float64Var(&inspectEnd, "end", 0, "window end in seconds (0 = whole file)")
}

func runInspect(cmd *cobra.Command, args []string) error {
	appCtx := &app.Context{
		OutputFormat: outputFormat,
		OutputFile:   outputFile,
		Verbose:      verbose,
		Quiet:        quiet,
	}

	application, err := app.New(appCtx)
	if err != nil {
		return err
	}
	cfg := application.Config

	var window *audio.TimeWindow
	if inspectEnd > 0 {
		w := audio.TimeWindow{Start: inspectStart, End: inspectEnd}
		if err := w.Validate(); err != nil {
			return err
		}
		window = &w
	}

	decoder := decode.New(cfg.Audio.SampleRate, application.Logger)
	decoded, err := decoder.DecodeFile(context.Background(), args[0], window)
	if err != nil {
		return err
	}

	trim := dsp.Trim(decoded.PCM, decoded.SampleRate, dsp.TrimOptions{
		FrameMs:         cfg.Trim.FrameMs,
		HopMs:           cfg.Trim.HopMs,
		ThresholdRatio:  cfg.Trim.ThresholdRatio,
		MinActiveFrames: cfg.Trim.MinActiveFrames,
		PaddingMs:       cfg.Trim.PaddingMs,
		BaseThreshold:   cfg.Trim.BaseThreshold,
	})

	norm := dsp.Normalize(trim.PCM, dsp.NormalizeOptions{
		TargetRMS:   cfg.Normalize.TargetRMS,
		MaxGain:     cfg.Normalize.MaxGain,
		PeakCeiling: cfg.Normalize.PeakCeiling,
	})

	return application.WriteResult(appCtx, &inspectReport{
		Source:          args[0],
		SampleRate:      decoded.SampleRate,
		Samples:         len(decoded.PCM),
		DurationSeconds: decoded.Duration.Seconds(),
		TrimStart:       trim.Start,
		TrimEnd:         trim.End,
		TrimThreshold:   trim.Threshold,
		NoiseFloor:      trim.NoiseFloor,
		PeakEnergy:      trim.Peak,
		RMS:             norm.RMS,
		Peak:            norm.Peak,
		AppliedGain:     norm.Gain,
	})
}
