//go:build unit
// +build unit

package circuit

import (
	"math/rand/v2"
	"testing"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/go-faster/errors"
	"github.com/oqtopus-team/oqtopus-rcs/core"
	"github.com/oqtopus-team/oqtopus-rcs/gate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRand(seed uint64) *rand.Rand {
	var s [32]byte
	for i := 0; i < 8; i++ {
		s[i] = byte(seed >> (8 * i))
	}
	return rand.New(rand.NewChaCha8(s))
}

func TestGenerateInvalidInput(t *testing.T) {
	tests := []struct {
		name string
		n    int
		d    int
		rng  *rand.Rand
	}{
		{name: "zero qubits", n: 0, d: 1, rng: newRand(1)},
		{name: "negative depth", n: 2, d: -1, rng: newRand(1)},
		{name: "nil rng", n: 2, d: 1, rng: nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := Generate(tt.n, tt.d, tt.rng)
			assert.Nil(t, c)
			assert.True(t, errors.Is(err, core.ErrInvalidInput))
		})
	}
}

func TestGenerateDepthZero(t *testing.T) {
	c, err := Generate(3, 0, newRand(7))
	require.Nil(t, err)
	require.Equal(t, 1, len(c.Layers))
	assert.Equal(t, 0, c.Depth())
	for q, g := range c.Layers[0].Single {
		assert.Equal(t, gate.H, g.Name)
		assert.Equal(t, q, g.Target)
	}
	assert.Empty(t, c.Layers[0].Entangling)
}

func TestGenerateSingleQubitHasNoCZ(t *testing.T) {
	c, err := Generate(1, 6, newRand(3))
	require.Nil(t, err)
	assert.Equal(t, 7, len(c.Layers))
	for _, l := range c.Layers {
		assert.Empty(t, l.Entangling)
		assert.Equal(t, 1, len(l.Single))
	}
}

func TestGenerateBrickPattern(t *testing.T) {
	tests := []struct {
		name  string
		n     int
		layer int
		want  [][2]int
	}{
		{name: "odd layer even register", n: 4, layer: 1, want: [][2]int{{0, 1}, {2, 3}}},
		{name: "even layer even register", n: 4, layer: 2, want: [][2]int{{1, 2}}},
		{name: "odd layer odd register", n: 5, layer: 3, want: [][2]int{{0, 1}, {2, 3}}},
		{name: "even layer odd register", n: 5, layer: 4, want: [][2]int{{1, 2}, {3, 4}}},
		{name: "two qubits even layer", n: 2, layer: 2, want: nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := Generate(tt.n, 4, newRand(11))
			require.Nil(t, err)
			var got [][2]int
			for _, g := range c.Layers[tt.layer].Entangling {
				got = append(got, [2]int{g.A, g.B})
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGenerateNoImmediateRepeat(t *testing.T) {
	c, err := Generate(6, 40, newRand(42))
	require.Nil(t, err)
	require.Nil(t, c.Validate())
	for l := 2; l < len(c.Layers); l++ {
		for q := 0; q < c.NumQubits; q++ {
			assert.NotEqual(t, c.Layers[l-1].Single[q].Name, c.Layers[l].Single[q].Name)
		}
	}
	for l := 1; l < len(c.Layers); l++ {
		for _, g := range c.Layers[l].Single {
			assert.Contains(t, gate.RandomSet, g.Name)
		}
	}
}

func TestGenerateDeterministic(t *testing.T) {
	a, err := Generate(5, 8, newRand(2024))
	require.Nil(t, err)
	b, err := Generate(5, 8, newRand(2024))
	require.Nil(t, err)
	assert.Equal(t, a, b)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		circuit *Circuit
		wantErr bool
	}{
		{
			name: "valid",
			circuit: &Circuit{NumQubits: 2, Layers: []Layer{
				{Single: []gate.Gate{gate.Single(gate.H, 0), gate.Single(gate.H, 1)}},
				{Single: []gate.Gate{gate.Single(gate.SqrtX, 0)}, Entangling: []gate.Gate{gate.CZ(0, 1)}},
			}},
		},
		{
			name:    "no qubits",
			circuit: &Circuit{NumQubits: 0},
			wantErr: true,
		},
		{
			name: "out of range",
			circuit: &Circuit{NumQubits: 2, Layers: []Layer{
				{Single: []gate.Gate{gate.Single(gate.H, 2)}},
			}},
			wantErr: true,
		},
		{
			name: "qubit twice in moment",
			circuit: &Circuit{NumQubits: 2, Layers: []Layer{
				{Single: []gate.Gate{gate.Single(gate.H, 0), gate.Single(gate.SqrtY, 0)}},
			}},
			wantErr: true,
		},
		{
			name: "long range cz",
			circuit: &Circuit{NumQubits: 3, Layers: []Layer{
				{Entangling: []gate.Gate{gate.CZ(0, 2)}},
			}},
			wantErr: true,
		},
		{
			name: "cz in single moment",
			circuit: &Circuit{NumQubits: 2, Layers: []Layer{
				{Single: []gate.Gate{gate.CZ(0, 1)}},
			}},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.circuit.Validate()
			if tt.wantErr {
				assert.True(t, errors.Is(err, core.ErrInvalidInput))
			} else {
				assert.Nil(t, err)
			}
		})
	}
}

func TestCloneIsIndependent(t *testing.T) {
	c, err := Generate(3, 2, newRand(5))
	require.Nil(t, err)
	cloned := c.Clone()
	assert.Equal(t, c, cloned)
	cloned.Layers[1].Single[0] = gate.Single(gate.H, 0)
	assert.NotEqual(t, gate.H, c.Layers[1].Single[0].Name)
}

func TestGateCount(t *testing.T) {
	c, err := Generate(4, 2, newRand(9))
	require.Nil(t, err)
	// 4 H + 4 random + 2 CZ + 4 random + 1 CZ
	assert.Equal(t, 15, c.GateCount())
}

func TestQASM(t *testing.T) {
	c := &Circuit{NumQubits: 2, Layers: []Layer{
		{Single: []gate.Gate{gate.Single(gate.H, 0), gate.Single(gate.H, 1)}},
		{
			Single:     []gate.Gate{gate.Single(gate.SqrtX, 0), gate.Single(gate.SqrtW, 1)},
			Entangling: []gate.Gate{gate.CZ(0, 1)},
		},
	}}
	want := heredoc.Doc(`
		OPENQASM 3;
		include "stdgates.inc";
		gate sy q { U(pi/2, 0, 0) q; }
		gate sw q { U(pi/2, -pi/4, pi/4) q; }
		qubit[2] q;
		bit[2] c;

		h q[0];
		h q[1];

		sx q[0];
		sw q[1];
		cz q[0], q[1];

		c = measure q;
	`)
	assert.Equal(t, want, c.QASM())
}
