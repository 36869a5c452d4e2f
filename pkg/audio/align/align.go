// Package align estimates and removes the coarse time offset between two
// embedding sequences, then computes tempo-tolerant and tempo-strict
// distances and calibrates them to a 0-100 score.
package align

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// DefaultMaxLag bounds the coarse lag search in frames.
const DefaultMaxLag = 12

// Alignment holds the estimated coarse offset between two sequences.
// Lag is in frames; positive lag delays the user sequence relative to
// the reference. Similarity is the average unit-dot similarity over the
// overlap at the chosen lag.
type Alignment struct {
	Lag        int     `json:"lag_frames"`
	Similarity float64 `json:"similarity"`
}

// Debias removes per-utterance bias from a sequence: the mean frame
// vector is subtracted from every frame and each residual is
// renormalized to unit length. Sequences with fewer than two frames are
// returned as a copy unchanged.
func Debias(seq [][]float64) [][]float64 {
	out := make([][]float64, len(seq))
	for i, f := range seq {
		v := make([]float64, len(f))
		copy(v, f)
		out[i] = v
	}
	if len(out) < 2 {
		return out
	}

	mean := make([]float64, len(out[0]))
	for _, f := range out {
		floats.Add(mean, f)
	}
	floats.Scale(1/float64(len(out)), mean)

	for _, f := range out {
		floats.Sub(f, mean)
		norm := floats.Norm(f, 2)
		floats.Scale(1/(norm+1e-9), f)
	}
	return out
}

// Align searches integer lags in [-maxLag, maxLag] for the one
// maximizing average overlap similarity. Lag 0 is evaluated first and
// wins ties; later candidates must strictly exceed the incumbent. The
// inputs are expected to be bias-removed.
func Align(ref, user [][]float64, maxLag int) Alignment {
	minLen := len(ref)
	if len(user) < minLen {
		minLen = len(user)
	}
	if bound := minLen / 2; maxLag > bound {
		maxLag = bound
	}
	if maxLag < 0 {
		maxLag = 0
	}

	best := Alignment{Lag: 0, Similarity: overlapSimilarity(ref, user, 0)}
	for lag := -maxLag; lag <= maxLag; lag++ {
		if lag == 0 {
			continue
		}
		if sim := overlapSimilarity(ref, user, lag); sim > best.Similarity {
			best = Alignment{Lag: lag, Similarity: sim}
		}
	}
	return best
}

// AlignSequences performs bias removal, lag estimation and lag
// application in one step, returning the alignment and the trimmed,
// bias-removed sequences.
func AlignSequences(ref, user [][]float64, maxLag int) (Alignment, [][]float64, [][]float64) {
	refD := Debias(ref)
	userD := Debias(user)
	alignment := Align(refD, userD, maxLag)
	refA, userA := ApplyLag(alignment.Lag, refD, userD)
	return alignment, refA, userA
}

// overlapSimilarity averages the dot product between overlapping frames
// with the user sequence offset by lag. Vectors are unit length, so the
// dot product is the cosine similarity.
func overlapSimilarity(ref, user [][]float64, lag int) float64 {
	sum := 0.0
	count := 0
	for i := range ref {
		j := i + lag
		if j < 0 || j >= len(user) {
			continue
		}
		sum += floats.Dot(ref[i], user[j])
		count++
	}
	if count == 0 {
		return math.Inf(-1)
	}
	return sum / float64(count)
}

// ApplyLag drops the leading frames selected by the lag estimate:
// positive lag drops from the user sequence, negative from the
// reference. A lag that exceeds the sequence length is a no-op.
func ApplyLag(lag int, ref, user [][]float64) ([][]float64, [][]float64) {
	switch {
	case lag > 0 && lag <= len(user):
		user = user[lag:]
	case lag < 0 && -lag <= len(ref):
		ref = ref[-lag:]
	}
	return ref, user
}
