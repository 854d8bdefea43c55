package sampling

import (
	"fmt"
	"math"
	"math/rand/v2"
	"sort"

	"github.com/oqtopus-team/oqtopus-rcs/core"
	"github.com/oqtopus-team/oqtopus-rcs/distribution"
	"go.uber.org/zap"
)

// Sampler draws outcomes from a fixed distribution. The cumulative table is
// built once so that each draw is a binary search.
type Sampler struct {
	n   int
	cdf []float64
	// last outcome with non-zero probability, used when rounding pushes a
	// draw past the final bucket
	last uint64
}

func NewSampler(d *distribution.Distribution) (*Sampler, error) {
	if d == nil {
		return nil, core.InvalidInputf("distribution is nil")
	}
	probs := d.Probabilities()
	cdf := make([]float64, len(probs))
	var acc float64
	var last uint64
	found := false
	for i, p := range probs {
		acc += p
		cdf[i] = acc
		if p > 0 {
			last = uint64(i)
			found = true
		}
	}
	if !found {
		return nil, core.InvalidInputf("distribution has no outcome with non-zero probability")
	}
	return &Sampler{
		n:    d.NumQubits(),
		cdf:  cdf,
		last: last,
	}, nil
}

func (s *Sampler) NumQubits() int {
	return s.n
}

// Draw returns a single outcome.
func (s *Sampler) Draw(rng *rand.Rand) uint64 {
	total := s.cdf[len(s.cdf)-1]
	u := rng.Float64() * total
	i := sort.Search(len(s.cdf), func(i int) bool { return s.cdf[i] > u })
	if i >= len(s.cdf) {
		return s.last
	}
	return uint64(i)
}

// SampleList draws k outcomes independently with replacement and keeps
// their order.
func (s *Sampler) SampleList(k int, rng *rand.Rand) ([]uint64, error) {
	if err := checkSampleArgs(k, rng); err != nil {
		return nil, err
	}
	out := make([]uint64, k)
	for i := range out {
		out[i] = s.Draw(rng)
	}
	return out, nil
}

// Sample draws k outcomes independently with replacement.
func (s *Sampler) Sample(k int, rng *rand.Rand) (Counts, error) {
	if err := checkSampleArgs(k, rng); err != nil {
		return nil, err
	}
	if uint64(k) > math.MaxUint32 {
		return nil, core.InvalidInputf("sample count %d does not fit a 32-bit count", k)
	}
	counts := make(Counts)
	for i := 0; i < k; i++ {
		counts[s.Draw(rng)]++
	}
	zap.L().Debug(fmt.Sprintf("sampled/qubits:%d/shots:%d/distinct:%d", s.n, k, len(counts)))
	return counts, nil
}

func checkSampleArgs(k int, rng *rand.Rand) error {
	if k < 1 {
		return core.InvalidInputf("sample count must be at least 1, got %d", k)
	}
	if rng == nil {
		return core.InvalidInputf("random source is nil")
	}
	return nil
}
