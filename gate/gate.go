package gate

import (
	"fmt"
	"math"
	"math/cmplx"
)

type Kind int

const (
	KindSingle Kind = iota
	KindCZ
)

func (k Kind) String() string {
	switch k {
	case KindSingle:
		return "single"
	case KindCZ:
		return "cz"
	default:
		return "unknown"
	}
}

type Name int

const (
	H Name = iota
	SqrtX
	SqrtY
	SqrtW
	CZName
)

func (n Name) String() string {
	switch n {
	case H:
		return "H"
	case SqrtX:
		return "SqrtX"
	case SqrtY:
		return "SqrtY"
	case SqrtW:
		return "SqrtW"
	case CZName:
		return "CZ"
	default:
		return "Unknown"
	}
}

// QASM returns the OpenQASM 3 identifier used when a circuit is exported.
func (n Name) QASM() string {
	switch n {
	case H:
		return "h"
	case SqrtX:
		return "sx"
	case SqrtY:
		return "sy"
	case SqrtW:
		return "sw"
	case CZName:
		return "cz"
	default:
		return "unknown"
	}
}

// Matrix2 is a row-major 2x2 complex matrix.
type Matrix2 [2][2]complex128

var invSqrt2 = 1 / math.Sqrt2

var matrices = map[Name]Matrix2{
	H: {
		{complex(invSqrt2, 0), complex(invSqrt2, 0)},
		{complex(invSqrt2, 0), complex(-invSqrt2, 0)},
	},
	SqrtX: {
		{complex(0.5, 0.5), complex(0.5, -0.5)},
		{complex(0.5, -0.5), complex(0.5, 0.5)},
	},
	SqrtY: {
		{complex(0.5, 0.5), complex(-0.5, -0.5)},
		{complex(0.5, 0.5), complex(0.5, 0.5)},
	},
	// W = (X+Y)/√2, so √W = 1/√2·[[1, -e^{iπ/4}], [e^{-iπ/4}, 1]].
	SqrtW: {
		{complex(invSqrt2, 0), complex(-0.5, -0.5)},
		{complex(0.5, -0.5), complex(invSqrt2, 0)},
	},
}

// RandomSet is the pool the generator draws single-qubit gates from.
var RandomSet = []Name{SqrtX, SqrtY, SqrtW}

// Matrix returns the unitary of a single-qubit gate. The second value is
// false for CZ and unknown names.
func Matrix(n Name) (Matrix2, bool) {
	m, ok := matrices[n]
	return m, ok
}

type Gate struct {
	Kind   Kind
	Name   Name
	Matrix Matrix2
	// Target for a single-qubit gate, A and B for CZ.
	Target int
	A      int
	B      int
}

func Single(n Name, target int) Gate {
	m, ok := matrices[n]
	if !ok {
		panic(fmt.Sprintf("%s is not a single-qubit gate", n))
	}
	return Gate{
		Kind:   KindSingle,
		Name:   n,
		Matrix: m,
		Target: target,
	}
}

func CZ(a, b int) Gate {
	return Gate{
		Kind: KindCZ,
		Name: CZName,
		A:    a,
		B:    b,
	}
}

// Qubits returns the qubit indices the gate acts on.
func (g Gate) Qubits() []int {
	if g.Kind == KindCZ {
		return []int{g.A, g.B}
	}
	return []int{g.Target}
}

func (g Gate) String() string {
	if g.Kind == KindCZ {
		return fmt.Sprintf("%s(%d,%d)", g.Name, g.A, g.B)
	}
	return fmt.Sprintf("%s(%d)", g.Name, g.Target)
}

// IsUnitary reports whether m·m† is the identity within tol.
func IsUnitary(m Matrix2, tol float64) bool {
	for r := 0; r < 2; r++ {
		for c := 0; c < 2; c++ {
			var v complex128
			for k := 0; k < 2; k++ {
				v += m[r][k] * cmplx.Conj(m[c][k])
			}
			want := complex(0, 0)
			if r == c {
				want = complex(1, 0)
			}
			if cmplx.Abs(v-want) > tol {
				return false
			}
		}
	}
	return true
}
