package align

import "math"

// ScoreOptions configures the distance blend and similarity penalty.
type ScoreOptions struct {
	DTWWeight            float64
	StrictWeight         float64
	BandRatio            float64
	SimilarityGate       float64
	SimilarityPenaltyMax float64
	ConfidenceFrames     int
}

// DefaultScoreOptions returns the standard blend parameters.
func DefaultScoreOptions() ScoreOptions {
	return ScoreOptions{
		DTWWeight:            0.8,
		StrictWeight:         0.2,
		BandRatio:            DefaultBandRatio,
		SimilarityGate:       0.14,
		SimilarityPenaltyMax: 0.18,
		ConfidenceFrames:     20,
	}
}

// Distances breaks down the blended distance between two aligned,
// bias-removed embedding sequences.
type Distances struct {
	DTW        float64 `json:"dtw"`
	Strict     float64 `json:"strict"`
	Blended    float64 `json:"blended"`
	Penalty    float64 `json:"penalty"`
	Final      float64 `json:"final"`
	RefFrames  int     `json:"ref_frames"`
	UserFrames int     `json:"user_frames"`
}

// Score computes the tempo-tolerant and tempo-strict distances between
// two lag-aligned sequences, blends them, and adds a penalty when the
// alignment similarity falls below the gate.
func Score(ref, user [][]float64, similarity float64, opts ScoreOptions) Distances {
	d := Distances{
		DTW:        DTWDistance(ref, user, opts.BandRatio),
		Strict:     StrictDistance(ref, user),
		RefFrames:  len(ref),
		UserFrames: len(user),
	}
	d.Blended = opts.DTWWeight*d.DTW + opts.StrictWeight*d.Strict
	d.Penalty = similarityPenalty(similarity, len(ref), len(user), opts)
	d.Final = d.Blended + d.Penalty
	return d
}

// similarityPenalty down-weights low-similarity alignments. The penalty
// scales with how far similarity falls below the gate, squared, and is
// attenuated for very short segments where the similarity estimate is
// noisy.
func similarityPenalty(similarity float64, refFrames, userFrames int, opts ScoreOptions) float64 {
	minFrames := refFrames
	if userFrames < minFrames {
		minFrames = userFrames
	}
	confidence := float64(minFrames) / float64(opts.ConfidenceFrames)
	if confidence > 1 {
		confidence = 1
	} else if confidence < 0 {
		confidence = 0
	}

	if math.IsNaN(similarity) || math.IsInf(similarity, 0) {
		return opts.SimilarityPenaltyMax * confidence
	}
	if similarity >= opts.SimilarityGate {
		return 0
	}

	t := (opts.SimilarityGate - similarity) / opts.SimilarityGate
	if t > 1 {
		t = 1
	} else if t < 0 {
		t = 0
	}
	return t * t * opts.SimilarityPenaltyMax * confidence
}
