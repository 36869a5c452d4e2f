package shadow

import (
	"fmt"
	"strings"
	"time"

	"github.com/zhangpeiwhut/shadowscore/pkg/audio"
	"github.com/zhangpeiwhut/shadowscore/pkg/audio/dsp"
)

// ScoreRequest identifies one (reference segment, user recording) pair.
type ScoreRequest struct {
	// ReferencePath is the reference audio source.
	ReferencePath string `json:"reference_path"`

	// Window optionally restricts the reference to a time interval.
	Window *audio.TimeWindow `json:"window,omitempty"`

	// RecordingPath is the user's recorded attempt, consumed whole.
	RecordingPath string `json:"recording_path"`

	// SessionID groups requests for single-flight cancellation: a new
	// request for the same session cancels the in-flight one.
	SessionID string `json:"session_id,omitempty"`
}

// ScoreResult is the terminal artifact of one scoring call.
type ScoreResult struct {
	AcousticScore   float64        `json:"acoustic_score"`
	MeanDistance    float64        `json:"mean_distance"`
	ReferenceFrames int            `json:"reference_frames"`
	UserFrames      int            `json:"user_frames"`
	Lag             int            `json:"lag_frames"`
	Similarity      float64        `json:"similarity"`
	Comparison      dsp.Comparison `json:"waveform_comparison"`
	ProcessingTime  time.Duration  `json:"processing_time"`
}

// Summary renders a human-readable result for the CLI text formatter.
func (r *ScoreResult) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Acoustic score:   %.1f / 100\n", r.AcousticScore)
	fmt.Fprintf(&b, "Mean distance:    %.4f\n", r.MeanDistance)
	fmt.Fprintf(&b, "Reference frames: %d\n", r.ReferenceFrames)
	fmt.Fprintf(&b, "Recording frames: %d\n", r.UserFrames)
	fmt.Fprintf(&b, "Alignment lag:    %d frames (similarity %.3f)\n", r.Lag, r.Similarity)
	fmt.Fprintf(&b, "Reference audio:  %.2fs, recording %.2fs\n",
		r.Comparison.Reference.Duration, r.Comparison.User.Duration)
	fmt.Fprintf(&b, "Processing time:  %dms\n", r.ProcessingTime.Milliseconds())
	return b.String()
}
