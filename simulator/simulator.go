package simulator

import (
	"fmt"
	"math"

	"github.com/go-faster/errors"
	"github.com/oqtopus-team/oqtopus-rcs/circuit"
	"github.com/oqtopus-team/oqtopus-rcs/core"
	"github.com/oqtopus-team/oqtopus-rcs/gate"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultMemoryLimitBytes  uint64 = 512 << 20
	DefaultParallelThreshold        = 14
	NormTolerance                   = 1e-9

	bytesPerAmplitude = 16
	// 16·2^n overflows uint64 from here on
	maxAddressableQubits = 60
)

type Options struct {
	MemoryLimitBytes  uint64
	Workers           int
	ParallelThreshold int
	CheckEveryGate    bool
}

func DefaultOptions() Options {
	return Options{
		MemoryLimitBytes:  DefaultMemoryLimitBytes,
		Workers:           1,
		ParallelThreshold: DefaultParallelThreshold,
	}
}

func (o Options) withDefaults() Options {
	if o.MemoryLimitBytes == 0 {
		o.MemoryLimitBytes = DefaultMemoryLimitBytes
	}
	if o.Workers < 1 {
		o.Workers = 1
	}
	if o.ParallelThreshold < 1 {
		o.ParallelThreshold = DefaultParallelThreshold
	}
	return o
}

// RequiredBytes returns the size of the amplitude buffer for n qubits.
// ok is false when the size does not fit in a uint64.
func RequiredBytes(n int) (bytes uint64, ok bool) {
	if n < 0 || n >= maxAddressableQubits {
		return 0, false
	}
	return bytesPerAmplitude << uint(n), true
}

// CheckMemory fails with a *core.ResourceError when n qubits do not fit in
// limit bytes.
func CheckMemory(n int, limit uint64) error {
	required, ok := RequiredBytes(n)
	if !ok || required > limit {
		return &core.ResourceError{
			Qubits:        n,
			RequiredBytes: required,
			LimitBytes:    limit,
		}
	}
	return nil
}

type Simulator struct {
	n    int
	amps []complex128
	opts Options
}

func New(n int, opts Options) (*Simulator, error) {
	if n < 1 {
		return nil, core.InvalidInputf("qubit count must be at least 1, got %d", n)
	}
	opts = opts.withDefaults()
	if err := CheckMemory(n, opts.MemoryLimitBytes); err != nil {
		zap.L().Info(fmt.Sprintf("refused to allocate state vector/qubits:%d/reason:%s", n, err))
		return nil, err
	}
	s := &Simulator{
		n:    n,
		amps: make([]complex128, 1<<uint(n)),
		opts: opts,
	}
	s.amps[0] = 1
	zap.L().Debug(fmt.Sprintf("allocated state vector/qubits:%d/amplitudes:%d/workers:%d",
		n, len(s.amps), opts.Workers))
	return s, nil
}

func (s *Simulator) NumQubits() int {
	return s.n
}

// Amplitudes returns the live amplitude buffer. Callers must not modify it.
func (s *Simulator) Amplitudes() []complex128 {
	return s.amps
}

// Reset puts the register back to |0...0>.
func (s *Simulator) Reset() {
	clear(s.amps)
	s.amps[0] = 1
}

func (s *Simulator) Norm() float64 {
	var sum float64
	for _, a := range s.amps {
		sum += real(a)*real(a) + imag(a)*imag(a)
	}
	return sum
}

func (s *Simulator) checkNorm() error {
	norm := s.Norm()
	if math.Abs(norm-1) > NormTolerance {
		return core.InternalConsistencyf("state norm drifted to %.15g", norm)
	}
	return nil
}

func (s *Simulator) ApplyGate(g gate.Gate) error {
	switch g.Kind {
	case gate.KindSingle:
		if g.Target < 0 || g.Target >= s.n {
			return core.InvalidInputf("gate %s targets qubit outside [0,%d)", g, s.n)
		}
		s.applySingle(g.Matrix, g.Target)
	case gate.KindCZ:
		if g.A < 0 || g.A >= s.n || g.B < 0 || g.B >= s.n || g.A == g.B {
			return core.InvalidInputf("gate %s is not a valid pair on %d qubits", g, s.n)
		}
		s.applyCZ(g.A, g.B)
	default:
		return core.InvalidInputf("unknown gate kind %d", g.Kind)
	}
	if s.opts.CheckEveryGate {
		if err := s.checkNorm(); err != nil {
			return errors.Wrapf(err, "after %s", g)
		}
	}
	return nil
}

func (s *Simulator) applySingle(m gate.Matrix2, q int) {
	bit := 1 << uint(q)
	low := bit - 1
	s.parallelFor(len(s.amps)/2, func(lo, hi int) {
		for p := lo; p < hi; p++ {
			i := (p>>uint(q))<<uint(q+1) | p&low
			j := i | bit
			a, b := s.amps[i], s.amps[j]
			s.amps[i] = m[0][0]*a + m[0][1]*b
			s.amps[j] = m[1][0]*a + m[1][1]*b
		}
	})
}

func (s *Simulator) applyCZ(a, b int) {
	mask := 1<<uint(a) | 1<<uint(b)
	s.parallelFor(len(s.amps), func(lo, hi int) {
		for i := lo; i < hi; i++ {
			if i&mask == mask {
				s.amps[i] = -s.amps[i]
			}
		}
	})
}

// parallelFor splits [0,total) into disjoint chunks, one per worker, when
// the register is large enough to be worth it.
func (s *Simulator) parallelFor(total int, fn func(lo, hi int)) {
	workers := s.opts.Workers
	if workers <= 1 || s.n < s.opts.ParallelThreshold || total < workers {
		fn(0, total)
		return
	}
	chunk := (total + workers - 1) / workers
	var g errgroup.Group
	for lo := 0; lo < total; lo += chunk {
		hi := min(lo+chunk, total)
		g.Go(func() error {
			fn(lo, hi)
			return nil
		})
	}
	_ = g.Wait()
}

// Run applies every layer of c in order and verifies the norm afterwards.
func (s *Simulator) Run(c *circuit.Circuit) error {
	if c.NumQubits != s.n {
		return core.InvalidInputf("circuit has %d qubits but simulator has %d", c.NumQubits, s.n)
	}
	if err := c.Validate(); err != nil {
		return err
	}
	for _, l := range c.Layers {
		for _, g := range l.Single {
			if err := s.ApplyGate(g); err != nil {
				return err
			}
		}
		for _, g := range l.Entangling {
			if err := s.ApplyGate(g); err != nil {
				return err
			}
		}
	}
	if err := s.checkNorm(); err != nil {
		zap.L().Error(fmt.Sprintf("state vector is not normalized/qubits:%d/reason:%s", s.n, err))
		return err
	}
	zap.L().Debug(fmt.Sprintf("simulated circuit/qubits:%d/depth:%d/gates:%d",
		s.n, c.Depth(), c.GateCount()))
	return nil
}
