package align

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// DefaultBandRatio sizes the Sakoe-Chiba band relative to the longer
// sequence.
const DefaultBandRatio = 0.35

// CosineDistance returns 1 - clamp(dot, -1, 1) for two unit vectors.
func CosineDistance(a, b []float64) float64 {
	dot := floats.Dot(a, b)
	if dot > 1 {
		dot = 1
	} else if dot < -1 {
		dot = -1
	}
	return 1 - dot
}

// StrictDistance averages the cosine distance at matching positions up
// to the shorter length. Empty input yields an infinite distance.
func StrictDistance(ref, user [][]float64) float64 {
	n := len(ref)
	if len(user) < n {
		n = len(user)
	}
	if n == 0 {
		return math.Inf(1)
	}
	sum := 0.0
	for i := 0; i < n; i++ {
		sum += CosineDistance(ref[i], user[i])
	}
	return sum / float64(n)
}

// dtwCell accumulates total path cost and path length through the DP so
// the reported distance can be the mean cost along the optimal path,
// which keeps the metric independent of sequence length.
type dtwCell struct {
	cost  float64
	steps int
}

// DTWDistance computes the tempo-tolerant mean path cost between two
// embedding sequences under a Sakoe-Chiba band. The band half-width is
// max(|T-U|, max(1, round(bandRatio*max(T,U)))), which always covers the
// diagonal offset, so a valid path exists for any non-empty pair.
func DTWDistance(ref, user [][]float64, bandRatio float64) float64 {
	t, u := len(ref), len(user)
	if t == 0 || u == 0 {
		return math.Inf(1)
	}

	longest := t
	if u > longest {
		longest = u
	}
	ratioBand := int(math.Round(bandRatio * float64(longest)))
	if ratioBand < 1 {
		ratioBand = 1
	}
	band := t - u
	if band < 0 {
		band = -band
	}
	if ratioBand > band {
		band = ratioBand
	}

	inf := math.Inf(1)
	prev := make([]dtwCell, u+1)
	curr := make([]dtwCell, u+1)
	for j := range prev {
		prev[j] = dtwCell{cost: inf}
	}
	prev[0] = dtwCell{cost: 0}

	for i := 1; i <= t; i++ {
		for j := range curr {
			curr[j] = dtwCell{cost: inf}
		}
		lo := i - band
		if lo < 1 {
			lo = 1
		}
		hi := i + band
		if hi > u {
			hi = u
		}
		for j := lo; j <= hi; j++ {
			// Prefer the diagonal step on cost ties for determinism.
			best := prev[j-1]
			if prev[j].cost < best.cost {
				best = prev[j]
			}
			if curr[j-1].cost < best.cost {
				best = curr[j-1]
			}
			if math.IsInf(best.cost, 1) {
				continue
			}
			curr[j] = dtwCell{
				cost:  best.cost + CosineDistance(ref[i-1], user[j-1]),
				steps: best.steps + 1,
			}
		}
		prev, curr = curr, prev
	}

	final := prev[u]
	if math.IsInf(final.cost, 1) || final.steps == 0 {
		return math.Inf(1)
	}
	return final.cost / float64(final.steps)
}
