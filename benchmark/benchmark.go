package benchmark

import (
	"context"
	"fmt"
	"time"

	"github.com/go-openapi/strfmt"
	"github.com/oqtopus-team/oqtopus-rcs/circuit"
	"github.com/oqtopus-team/oqtopus-rcs/core"
	"github.com/oqtopus-team/oqtopus-rcs/distribution"
	"github.com/oqtopus-team/oqtopus-rcs/sampling"
	"github.com/oqtopus-team/oqtopus-rcs/simulator"
	"github.com/oqtopus-team/oqtopus-rcs/xeb"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const tracerName = "github.com/oqtopus-team/oqtopus-rcs/benchmark"

type Params struct {
	Depth   int
	Qubits  int
	Samples int
	// Seed is drawn from the operating system when nil.
	Seed *uint64
}

func (p Params) Validate() error {
	if p.Qubits < 1 {
		return core.InvalidInputf("qubit count must be at least 1, got %d", p.Qubits)
	}
	if p.Depth < 0 {
		return core.InvalidInputf("depth must not be negative, got %d", p.Depth)
	}
	if p.Samples < 1 {
		return core.InvalidInputf("sample count must be at least 1, got %d", p.Samples)
	}
	return nil
}

// Run holds the intermediate products of a benchmark, for callers that
// want more than the summary. Circuit is a copy the caller may modify.
type Run struct {
	Result       *core.BenchmarkResult
	Circuit      *circuit.Circuit
	Distribution *distribution.Distribution
	Counts       sampling.Counts
}

func RunBenchmark(ctx context.Context, p Params, opts simulator.Options) (*core.BenchmarkResult, error) {
	r, err := Execute(ctx, p, opts)
	if err != nil {
		return nil, err
	}
	return r.Result, nil
}

// Execute generates a random circuit, simulates it, samples the ideal
// distribution and scores the samples. The reported runtime covers the
// simulate, sample and score stages.
func Execute(ctx context.Context, p Params, opts simulator.Options) (*Run, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if opts.MemoryLimitBytes == 0 {
		opts.MemoryLimitBytes = simulator.DefaultMemoryLimitBytes
	}
	if err := simulator.CheckMemory(p.Qubits, opts.MemoryLimitBytes); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var seed uint64
	if p.Seed != nil {
		seed = *p.Seed
	} else {
		s, err := RandomSeed()
		if err != nil {
			return nil, err
		}
		seed = s
	}

	tracer := otel.Tracer(tracerName)
	ctx, span := tracer.Start(ctx, "rcs.benchmark", trace.WithAttributes(
		attribute.Int("rcs.depth", p.Depth),
		attribute.Int("rcs.qubits", p.Qubits),
		attribute.Int("rcs.samples", p.Samples),
		attribute.Int64("rcs.seed", int64(seed)),
	))
	defer span.End()

	result := core.NewBenchmarkResult()
	result.Depth = p.Depth
	result.Qubits = p.Qubits
	result.Samples = p.Samples
	result.Seed = seed
	zap.L().Debug(fmt.Sprintf("[Benchmark/%s/Start]depth:%d/qubits:%d/samples:%d/seed:%d",
		result.RunID, p.Depth, p.Qubits, p.Samples, seed))

	var c *circuit.Circuit
	err := stage(ctx, "generate", func() (err error) {
		c, err = circuit.Generate(p.Qubits, p.Depth, NewRand(seed, CircuitStream))
		return
	})
	if err != nil {
		return nil, fail(span, err)
	}

	started := time.Now()
	result.StartedAt = strfmt.DateTime(started)

	var sim *simulator.Simulator
	err = stage(ctx, "simulate", func() (err error) {
		sim, err = simulator.New(p.Qubits, opts)
		if err != nil {
			return
		}
		return sim.Run(c)
	})
	if err != nil {
		return nil, fail(span, err)
	}

	var dist *distribution.Distribution
	var counts sampling.Counts
	err = stage(ctx, "sample", func() error {
		var err error
		dist, err = distribution.FromAmplitudes(sim.Amplitudes())
		if err != nil {
			return err
		}
		// the amplitudes are no longer needed once the distribution exists
		sim = nil
		sampler, err := sampling.NewSampler(dist)
		if err != nil {
			return err
		}
		counts, err = sampler.Sample(p.Samples, NewRand(seed, SamplerStream))
		return err
	})
	if err != nil {
		return nil, fail(span, err)
	}

	err = stage(ctx, "score", func() (err error) {
		result.XEBScore, err = xeb.Score(dist, counts)
		return
	})
	if err != nil {
		return nil, fail(span, err)
	}
	result.Runtime = time.Since(started)
	result.Counts = counts.Bitstrings(p.Qubits)

	span.SetAttributes(attribute.Float64("rcs.xeb_score", result.XEBScore))
	zap.L().Debug(fmt.Sprintf("[Benchmark/%s/Done]xeb:%.6f/runtime:%v",
		result.RunID, result.XEBScore, result.Runtime))
	return &Run{
		Result:       result,
		Circuit:      c.Clone(),
		Distribution: dist,
		Counts:       counts,
	}, nil
}

func stage(ctx context.Context, name string, fn func() error) error {
	_, span := otel.Tracer(tracerName).Start(ctx, "rcs."+name)
	defer span.End()
	if err := fn(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	return nil
}

func fail(span trace.Span, err error) error {
	span.SetStatus(codes.Error, err.Error())
	zap.L().Error(fmt.Sprintf("benchmark failed/reason:%s", err))
	return err
}
