package sampling

import (
	"slices"

	"github.com/oqtopus-team/oqtopus-rcs/core"
	"github.com/oqtopus-team/oqtopus-rcs/distribution"
)

// Counts maps an outcome index to the number of times it was drawn.
type Counts map[uint64]uint32

func (c Counts) Total() int {
	total := 0
	for _, v := range c {
		total += int(v)
	}
	return total
}

// Outcomes returns the drawn outcomes in ascending order.
func (c Counts) Outcomes() []uint64 {
	out := make([]uint64, 0, len(c))
	for x := range c {
		out = append(out, x)
	}
	slices.Sort(out)
	return out
}

// Bitstrings converts to the bitstring keyed form used for reporting.
func (c Counts) Bitstrings(n int) core.Counts {
	out := make(core.Counts, len(c))
	for x, v := range c {
		out[distribution.Bitstring(x, n)] = v
	}
	return out
}

func CountsFromList(outcomes []uint64) Counts {
	c := make(Counts)
	for _, x := range outcomes {
		c[x]++
	}
	return c
}

func CountsFromBitstrings(in core.Counts) (Counts, error) {
	c := make(Counts, len(in))
	for s, v := range in {
		x, err := distribution.ParseBitstring(s)
		if err != nil {
			return nil, err
		}
		c[x] += v
	}
	return c, nil
}
