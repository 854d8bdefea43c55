// Package xeb computes the linear cross-entropy benchmarking fidelity of a
// sample set against the ideal distribution it was meant to come from.
package xeb

import (
	"math"

	"github.com/oqtopus-team/oqtopus-rcs/core"
	"github.com/oqtopus-team/oqtopus-rcs/distribution"
	"github.com/oqtopus-team/oqtopus-rcs/sampling"
)

// Score returns 2^n·mean(p(x)) - 1 over the sampled outcomes. An ideal
// sampler scores about 1 on a random circuit, a uniform one about 0. The
// value is not clamped.
func Score(d *distribution.Distribution, counts sampling.Counts) (float64, error) {
	if d == nil {
		return 0, core.InvalidInputf("distribution is nil")
	}
	k := counts.Total()
	if k == 0 {
		return 0, core.InvalidInputf("no samples to score")
	}
	var sum float64
	// sorted so the float sum does not depend on map order
	for _, x := range counts.Outcomes() {
		if x >= uint64(d.Size()) {
			return 0, core.InvalidInputf("outcome %d outside %d-qubit register", x, d.NumQubits())
		}
		// the conversion keeps the product from being fused into the sum
		sum += float64(float64(counts[x]) * d.Prob(x))
	}
	mean := sum / float64(k)
	return math.Ldexp(mean, d.NumQubits()) - 1, nil
}

func ScoreSamples(d *distribution.Distribution, outcomes []uint64) (float64, error) {
	return Score(d, sampling.CountsFromList(outcomes))
}
