package distribution

import (
	"math"
	"strconv"
	"strings"

	"github.com/oqtopus-team/oqtopus-rcs/core"
)

const SumTolerance = 1e-9

// Distribution is the ideal output distribution of a circuit, indexed by
// outcome. Bit i of an outcome is qubit i. It is immutable once built.
type Distribution struct {
	n     int
	probs []float64
}

// FromAmplitudes materializes p(x) = |a(x)|^2 for a state vector of length
// 2^n.
func FromAmplitudes(amps []complex128) (*Distribution, error) {
	n, err := qubitsFor(len(amps))
	if err != nil {
		return nil, err
	}
	probs := make([]float64, len(amps))
	for i, a := range amps {
		probs[i] = real(a)*real(a) + imag(a)*imag(a)
	}
	return &Distribution{n: n, probs: probs}, nil
}

// FromProbabilities builds a distribution from explicit probabilities. They
// must be non-negative and sum to 1.
func FromProbabilities(n int, probs []float64) (*Distribution, error) {
	if n < 1 {
		return nil, core.InvalidInputf("qubit count must be at least 1, got %d", n)
	}
	if n >= 63 || len(probs) != 1<<uint(n) {
		return nil, core.InvalidInputf("%d probabilities do not match %d qubits", len(probs), n)
	}
	var sum float64
	for x, p := range probs {
		if p < 0 || math.IsNaN(p) || math.IsInf(p, 0) {
			return nil, core.InvalidInputf("probability of outcome %d is %g", x, p)
		}
		sum += p
	}
	if math.Abs(sum-1) > SumTolerance {
		return nil, core.InvalidInputf("probabilities sum to %.15g", sum)
	}
	cp := make([]float64, len(probs))
	copy(cp, probs)
	return &Distribution{n: n, probs: cp}, nil
}

func qubitsFor(length int) (int, error) {
	if length < 2 || length&(length-1) != 0 {
		return 0, core.InvalidInputf("state vector length %d is not a power of two", length)
	}
	n := 0
	for 1<<uint(n) < length {
		n++
	}
	return n, nil
}

func (d *Distribution) NumQubits() int {
	return d.n
}

// Size is the number of outcomes, 2^n.
func (d *Distribution) Size() int {
	return len(d.probs)
}

// Prob returns p(x), or 0 for an outcome outside the register.
func (d *Distribution) Prob(x uint64) float64 {
	if x >= uint64(len(d.probs)) {
		return 0
	}
	return d.probs[x]
}

// Probabilities returns a copy of the full table.
func (d *Distribution) Probabilities() []float64 {
	cp := make([]float64, len(d.probs))
	copy(cp, d.probs)
	return cp
}

func (d *Distribution) Sum() float64 {
	var sum float64
	for _, p := range d.probs {
		sum += p
	}
	return sum
}

// Bitstring renders x with qubit n-1 first, the usual measurement order.
func (d *Distribution) Bitstring(x uint64) string {
	return Bitstring(x, d.n)
}

func Bitstring(x uint64, n int) string {
	s := strconv.FormatUint(x, 2)
	if len(s) >= n {
		return s[len(s)-n:]
	}
	return strings.Repeat("0", n-len(s)) + s
}

// ParseBitstring is the inverse of Bitstring.
func ParseBitstring(s string) (uint64, error) {
	if len(s) == 0 || len(s) > 64 {
		return 0, core.InvalidInputf("bitstring %q has invalid length", s)
	}
	x, err := strconv.ParseUint(s, 2, 64)
	if err != nil {
		return 0, core.InvalidInputf("bitstring %q is not binary", s)
	}
	return x, nil
}
