package circuit

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/mohae/deepcopy"
	"github.com/oqtopus-team/oqtopus-rcs/core"
	"github.com/oqtopus-team/oqtopus-rcs/gate"
)

// Layer is one cycle of the circuit: a single-qubit moment followed by an
// entangling moment. Gates inside a moment act on disjoint qubits.
type Layer struct {
	Single     []gate.Gate
	Entangling []gate.Gate
}

type Circuit struct {
	NumQubits int
	Layers    []Layer
}

// Depth is the number of random layers, i.e. len(Layers)-1.
func (c *Circuit) Depth() int {
	if len(c.Layers) == 0 {
		return 0
	}
	return len(c.Layers) - 1
}

func (c *Circuit) GateCount() int {
	count := 0
	for _, l := range c.Layers {
		count += len(l.Single) + len(l.Entangling)
	}
	return count
}

func (c *Circuit) Clone() *Circuit {
	return deepcopy.Copy(c).(*Circuit)
}

func (c *Circuit) Validate() error {
	if c.NumQubits < 1 {
		return core.InvalidInputf("circuit has %d qubits", c.NumQubits)
	}
	for li, l := range c.Layers {
		if err := c.validateMoment(li, l.Single, gate.KindSingle); err != nil {
			return err
		}
		if err := c.validateMoment(li, l.Entangling, gate.KindCZ); err != nil {
			return err
		}
	}
	return nil
}

func (c *Circuit) validateMoment(layer int, gates []gate.Gate, kind gate.Kind) error {
	used := make(map[int]struct{})
	for _, g := range gates {
		if g.Kind != kind {
			return core.InvalidInputf("layer %d: %s gate %s in %s moment", layer, g.Kind, g, kind)
		}
		for _, q := range g.Qubits() {
			if q < 0 || q >= c.NumQubits {
				return core.InvalidInputf("layer %d: gate %s acts on qubit %d outside [0,%d)",
					layer, g, q, c.NumQubits)
			}
			if _, ok := used[q]; ok {
				return core.InvalidInputf("layer %d: qubit %d appears twice in one moment", layer, q)
			}
			used[q] = struct{}{}
		}
		if g.Kind == gate.KindCZ && g.A-g.B != 1 && g.B-g.A != 1 {
			return core.InvalidInputf("layer %d: CZ(%d,%d) is not nearest-neighbor", layer, g.A, g.B)
		}
	}
	return nil
}

// Generate builds a random circuit of depth d on n qubits. Layer 0 puts
// every qubit in superposition; each following layer applies a random gate
// from gate.RandomSet to every qubit, never repeating the gate that qubit
// received in the previous random layer, and then a brick of CZ gates
// alternating between pairing A on odd layers and pairing B on even ones.
func Generate(n, d int, rng *rand.Rand) (*Circuit, error) {
	if n < 1 {
		return nil, core.InvalidInputf("qubit count must be at least 1, got %d", n)
	}
	if d < 0 {
		return nil, core.InvalidInputf("depth must not be negative, got %d", d)
	}
	if rng == nil {
		return nil, core.InvalidInputf("random source is nil")
	}

	c := &Circuit{
		NumQubits: n,
		Layers:    make([]Layer, 0, d+1),
	}
	first := Layer{Single: make([]gate.Gate, n)}
	for q := 0; q < n; q++ {
		first.Single[q] = gate.Single(gate.H, q)
	}
	c.Layers = append(c.Layers, first)

	prev := make([]gate.Name, n)
	hasPrev := false
	choices := make([]gate.Name, 0, len(gate.RandomSet))
	for l := 1; l <= d; l++ {
		layer := Layer{Single: make([]gate.Gate, n)}
		for q := 0; q < n; q++ {
			choices = choices[:0]
			for _, name := range gate.RandomSet {
				if hasPrev && name == prev[q] {
					continue
				}
				choices = append(choices, name)
			}
			name := choices[rng.IntN(len(choices))]
			layer.Single[q] = gate.Single(name, q)
			prev[q] = name
		}
		hasPrev = true
		layer.Entangling = brick(n, l)
		c.Layers = append(c.Layers, layer)
	}
	return c, nil
}

// brick returns the CZ moment of layer l: (0,1),(2,3),... for odd l and
// (1,2),(3,4),... for even l. Qubits left without a partner idle.
func brick(n, l int) []gate.Gate {
	start := 0
	if l%2 == 0 {
		start = 1
	}
	var gates []gate.Gate
	for a := start; a+1 < n; a += 2 {
		gates = append(gates, gate.CZ(a, a+1))
	}
	return gates
}

// QASM renders the circuit as an OpenQASM 3 program with a final
// measurement of every qubit.
func (c *Circuit) QASM() string {
	var sb strings.Builder
	sb.WriteString("OPENQASM 3;\n")
	sb.WriteString("include \"stdgates.inc\";\n")
	sb.WriteString("gate sy q { U(pi/2, 0, 0) q; }\n")
	sb.WriteString("gate sw q { U(pi/2, -pi/4, pi/4) q; }\n")
	sb.WriteString(fmt.Sprintf("qubit[%d] q;\n", c.NumQubits))
	sb.WriteString(fmt.Sprintf("bit[%d] c;\n", c.NumQubits))
	for _, l := range c.Layers {
		sb.WriteString("\n")
		for _, g := range l.Single {
			sb.WriteString(fmt.Sprintf("%s q[%d];\n", g.Name.QASM(), g.Target))
		}
		for _, g := range l.Entangling {
			sb.WriteString(fmt.Sprintf("%s q[%d], q[%d];\n", g.Name.QASM(), g.A, g.B))
		}
	}
	sb.WriteString("\nc = measure q;\n")
	return sb.String()
}
