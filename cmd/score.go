package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/zhangpeiwhut/shadowscore/internal/app"
	"github.com/zhangpeiwhut/shadowscore/internal/shadow"
	"github.com/zhangpeiwhut/shadowscore/pkg/audio"
)

var (
	scoreReference string
	scoreRecording string
	scoreStart     float64
	scoreEnd       float64
	scoreSession   string
)

// scoreCmd represents the score command
var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score a shadowing attempt against a reference segment",
	Long: `Score a recorded shadowing attempt against a reference segment.

Examples:
  # Score a recording against a whole reference clip
  shadowscore score --reference episode.wav --recording attempt.wav

  # Restrict the reference to a segment
  shadowscore score --reference episode.wav --start 12.5 --end 19.0 --recording attempt.wav

  # Emit the full result as JSON
  shadowscore score --reference ref.wav --recording attempt.wav -o json`,
	RunE: runScore,
}

func init() {
	rootCmd.AddCommand(scoreCmd)

	scoreCmd.Flags().StringVar(&scoreReference, "reference", "", "reference audio file (required)")
	scoreCmd.Flags().StringVar(&scoreRecording, "recording", "", "recorded attempt audio file (required)")
	scoreCmd.Flags().Float64Var(&scoreStart, "start", 0, "reference window start in seconds")
	scoreCmd.Flags().Float64Var(&scoreEnd, "end", 0, "reference window end in seconds (0 = whole file)")
	scoreCmd.Flags().StringVar(&scoreSession, "session", "", "logical session ID for cancellation grouping")

	scoreCmd.MarkFlagRequired("reference")
	scoreCmd.MarkFlagRequired("recording")
}

func runScore(cmd *cobra.Command, args []string) error {
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

	req := shadow.ScoreRequest{
		ReferencePath: scoreReference,
		RecordingPath: scoreRecording,
		SessionID:     scoreSession,
	}
	if scoreEnd > 0 {
		window := audio.TimeWindow{Start: scoreStart, End: scoreEnd}
		if err := window.Validate(); err != nil {
			return err
		}
		req.Window = &window
	}

	ctx := context.Background()
	if timeout := application.Config.Engine.OperationTimeout; timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	result, err := application.Runner.Score(ctx, req)
	if err != nil {
		if shadow.IsSegmentTooShort(err) || shadow.IsNoVoiceDetected(err) {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			os.Exit(2)
		}
		return err
	}

	return application.WriteResult(appCtx, result)
}
