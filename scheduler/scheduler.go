package scheduler

import (
	"context"
	"fmt"
	"sync"

	"github.com/go-faster/errors"
	"github.com/oqtopus-team/oqtopus-rcs/benchmark"
	"github.com/oqtopus-team/oqtopus-rcs/core"
	"github.com/oqtopus-team/oqtopus-rcs/simulator"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

type RunFunc func(context.Context, benchmark.Params, simulator.Options) (*core.BenchmarkResult, error)

// Grid is the cross product of depths and qubit counts to benchmark.
type Grid struct {
	Depths  []int
	Qubits  []int
	Samples int
	// BaseSeed makes the whole sweep reproducible; task i uses BaseSeed+i.
	BaseSeed *uint64
}

func (g Grid) Params() []benchmark.Params {
	params := make([]benchmark.Params, 0, len(g.Depths)*len(g.Qubits))
	for _, q := range g.Qubits {
		for _, d := range g.Depths {
			p := benchmark.Params{Depth: d, Qubits: q, Samples: g.Samples}
			if g.BaseSeed != nil {
				seed := *g.BaseSeed + uint64(len(params))
				p.Seed = &seed
			}
			params = append(params, p)
		}
	}
	return params
}

type sweepTask struct {
	index  int
	params benchmark.Params
}

type SweepScheduler struct {
	Workers int
	Options simulator.Options
	Run     RunFunc
}

func NewSweepScheduler(workers int, opts simulator.Options) *SweepScheduler {
	return &SweepScheduler{
		Workers: workers,
		Options: opts,
		Run:     benchmark.RunBenchmark,
	}
}

// Sweep runs every grid point on a pool of workers. Results come back in
// grid order; a failed point leaves a nil entry and its error is joined
// into the returned error.
func (s *SweepScheduler) Sweep(ctx context.Context, g Grid) ([]*core.BenchmarkResult, error) {
	params := g.Params()
	if len(params) == 0 {
		return nil, core.InvalidInputf("sweep grid is empty")
	}
	queue := NewSweepQueue(len(params))
	for i, p := range params {
		if err := queue.Put(&sweepTask{index: i, params: p}); err != nil {
			return nil, err
		}
	}

	workers := min(max(s.Workers, 1), len(params))
	results := make([]*core.BenchmarkResult, len(params))
	var (
		mu   sync.Mutex
		errs error
		wg   sync.WaitGroup
	)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				if ctx.Err() != nil {
					return
				}
				t, err := queue.Take()
				if err != nil {
					return
				}
				p := t.params
				zap.L().Debug(fmt.Sprintf("[Sweep/worker%d]running task %d/depth:%d/qubits:%d",
					w, t.index, p.Depth, p.Qubits))
				r, err := s.Run(ctx, p, s.Options)
				if err != nil {
					zap.L().Error(fmt.Sprintf("[Sweep/worker%d]task %d failed/reason:%s", w, t.index, err))
					mu.Lock()
					errs = multierr.Append(errs,
						errors.Wrapf(err, "depth %d qubits %d", p.Depth, p.Qubits))
					mu.Unlock()
					continue
				}
				results[t.index] = r
			}
		}()
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		errs = multierr.Append(errs, err)
	}
	return results, errs
}
