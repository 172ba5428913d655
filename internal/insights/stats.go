package insights

import (
	"math"
	"sort"
)

// mean returns NaN for an empty slice, mirroring the empty-selection
// semantics of the aggregations; call sites guard where the output
// contract wants 0.0, and let the NaN become null otherwise.
func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return math.NaN()
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// meanOrZero is mean with the zero-guard policy applied.
func meanOrZero(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	return mean(xs)
}

// quantile computes the q-th quantile of xs with linear interpolation
// between order statistics. xs need not be sorted. Returns NaN for empty
// input.
func quantile(xs []float64, q float64) float64 {
	if len(xs) == 0 {
		return math.NaN()
	}
	sorted := make([]float64, len(xs))
	copy(sorted, xs)
	sort.Float64s(sorted)

	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}

	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

func median(xs []float64) float64 {
	return quantile(xs, 0.5)
}

// quantileEdges returns the deduplicated bin edges for an equal-frequency
// cut into n bins. Fewer than n+1 edges come back when the distribution
// cannot support distinct boundaries; callers collapse their segment
// labels accordingly instead of erroring.
func quantileEdges(xs []float64, n int) []float64 {
	if len(xs) == 0 || n < 1 {
		return nil
	}
	edges := make([]float64, 0, n+1)
	for i := 0; i <= n; i++ {
		edges = append(edges, quantile(xs, float64(i)/float64(n)))
	}
	return dedupeEdges(edges)
}

func dedupeEdges(edges []float64) []float64 {
	out := edges[:0:0]
	for i, e := range edges {
		if i == 0 || e != out[len(out)-1] {
			out = append(out, e)
		}
	}
	return out
}

// bucketIndex places v into the bin whose edges are (edges[i], edges[i+1]],
// with the first bin closed on the left. Returns -1 when v falls outside.
func bucketIndex(edges []float64, v float64) int {
	if len(edges) < 2 {
		return -1
	}
	if v < edges[0] || v > edges[len(edges)-1] {
		return -1
	}
	if v == edges[0] {
		return 0
	}
	for i := 1; i < len(edges); i++ {
		if v <= edges[i] {
			return i - 1
		}
	}
	return -1
}
