package shadow

import "errors"

// Error codes for the scoring pipeline. All errors are request-scoped:
// they abort the current scoring call and leave no shared state behind.
const (
	CodeDecodeFailed      = "DECODE_FAILED"
	CodeSegmentTooShort   = "SEGMENT_TOO_SHORT"
	CodeNoVoiceDetected   = "NO_VOICE_DETECTED"
	CodeModelInference    = "MODEL_INFERENCE_FAILED"
	CodeInternalInvariant = "INTERNAL_INVARIANT"
)

// PipelineError is a coded, stage-tagged scoring failure.
type PipelineError struct {
	Stage   string `json:"stage"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Cause   error  `json:"-"`
}

func (e *PipelineError) Error() string {
	if e.Cause != nil {
		return e.Stage + ": " + e.Message + ": " + e.Cause.Error()
	}
	return e.Stage + ": " + e.Message
}

func (e *PipelineError) Unwrap() error {
	return e.Cause
}

// NewPipelineError creates a coded pipeline error.
func NewPipelineError(stage, code, message string, cause error) *PipelineError {
	return &PipelineError{Stage: stage, Code: code, Message: message, Cause: cause}
}

// HasCode reports whether err is a PipelineError with the given code.
func HasCode(err error, code string) bool {
	var pe *PipelineError
	return errors.As(err, &pe) && pe.Code == code
}

// IsSegmentTooShort reports a trimmed segment below the minimum scoring
// duration. User-actionable.
func IsSegmentTooShort(err error) bool {
	return HasCode(err, CodeSegmentTooShort)
}

// IsNoVoiceDetected reports a recording whose trimmed peak amplitude is
// below the audibility floor. User-actionable.
func IsNoVoiceDetected(err error) bool {
	return HasCode(err, CodeNoVoiceDetected)
}

// IsDecodeFailure reports that both decode strategies failed.
func IsDecodeFailure(err error) bool {
	return HasCode(err, CodeDecodeFailed)
}
