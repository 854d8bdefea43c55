package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/oqtopus-team/oqtopus-rcs/benchmark"
	"github.com/oqtopus-team/oqtopus-rcs/common"
	"github.com/oqtopus-team/oqtopus-rcs/core"
	"github.com/oqtopus-team/oqtopus-rcs/log"
	"github.com/oqtopus-team/oqtopus-rcs/report"
	"github.com/oqtopus-team/oqtopus-rcs/scheduler"
	"go.uber.org/zap"
)

type runCmd struct {
	Seed *uint64 `long:"seed" description:"seed of the circuit and the sampler, random when omitted"`
	QASM string  `long:"qasm" description:"write the generated circuit as OpenQASM 3 to this file"`
	Save bool    `long:"save" description:"store the record in the history and render the README"`

	Args struct {
		Depth   *int `positional-arg-name:"depth" description:"number of random layers (default 7)"`
		Qubits  *int `positional-arg-name:"qubits" description:"number of qubits (default 10)"`
		Samples *int `positional-arg-name:"samples" description:"number of samples (default 1024)"`
	} `positional-args:"yes"`
}

func newRunCmd() *runCmd {
	return &runCmd{}
}

func orDefault(v *int, d int) int {
	if v == nil {
		return d
	}
	return *v
}

func (c *runCmd) params() benchmark.Params {
	return benchmark.Params{
		Depth:   orDefault(c.Args.Depth, log.DefaultDepth),
		Qubits:  orDefault(c.Args.Qubits, log.DefaultQubits),
		Samples: orDefault(c.Args.Samples, log.DefaultSamples),
		Seed:    c.Seed,
	}
}

func (c *runCmd) Execute(args []string) error {
	teardown, err := rcs.setup(false)
	if err != nil {
		return err
	}
	defer teardown()

	setting := core.GetGlobalSetting()
	p := c.params()
	zap.L().Info(fmt.Sprintf("Running benchmark/depth:%d/qubits:%d/samples:%d", p.Depth, p.Qubits, p.Samples))
	res, err := benchmark.Execute(context.Background(), p, simulatorOptions(rcs.Conf, setting))
	if err != nil {
		return err
	}
	zap.L().Info(fmt.Sprintf("XEB score:%.4f/runtime:%v/seed:%d",
		res.Result.XEBScore, res.Result.Runtime, res.Result.Seed))

	if c.QASM != "" {
		if err := common.WriteFileAtomic(c.QASM, []byte(res.Circuit.QASM())); err != nil {
			zap.L().Error(fmt.Sprintf("failed to write %s/reason:%s", c.QASM, err))
			return err
		}
		zap.L().Info(fmt.Sprintf("Wrote circuit to %s", c.QASM))
	}

	record := report.NewRecord(res.Result, time.Now())
	if c.Save {
		if err := report.Publish(core.GetSystemComponents(), record, rcs.Conf.ReadmePath, setting.Report); err != nil {
			return err
		}
	}
	b, err := report.MarshalRecord(record)
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(b)
	return err
}

type readmeCmd struct{}

func newReadmeCmd() *readmeCmd {
	return &readmeCmd{}
}

func (c *readmeCmd) Execute(args []string) error {
	teardown, err := rcs.setup(false)
	if err != nil {
		return err
	}
	defer teardown()
	return report.WriteReadme(core.GetSystemComponents(), rcs.Conf.ReadmePath, core.GetGlobalSetting().Report)
}

// intList reads a comma separated list such as "1,3,5".
type intList []int

func (l *intList) UnmarshalFlag(value string) error {
	var out intList
	for _, f := range strings.Split(value, ",") {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		n, err := strconv.Atoi(f)
		if err != nil {
			return core.InvalidInputf("%q is not an integer", f)
		}
		out = append(out, n)
	}
	if len(out) == 0 {
		return core.InvalidInputf("empty list %q", value)
	}
	*l = out
	return nil
}

type sweepCmd struct {
	Depths  intList `long:"depths" description:"comma separated depths" default:"1,3,5"`
	Qubits  intList `long:"qubits" description:"comma separated qubit counts" default:"4,6"`
	Samples int     `long:"samples" description:"samples per run" default:"1024"`
	Workers int     `long:"workers" description:"runs executed in parallel" default:"1"`
	Seed    *uint64 `long:"seed" description:"base seed; run i uses seed+i"`
}

func newSweepCmd() *sweepCmd {
	return &sweepCmd{}
}

func (c *sweepCmd) grid() scheduler.Grid {
	return scheduler.Grid{
		Depths:   c.Depths,
		Qubits:   c.Qubits,
		Samples:  c.Samples,
		BaseSeed: c.Seed,
	}
}

func (c *sweepCmd) Execute(args []string) error {
	teardown, err := rcs.setup(false)
	if err != nil {
		return err
	}
	defer teardown()

	setting := core.GetGlobalSetting()
	s := scheduler.NewSweepScheduler(c.Workers, simulatorOptions(rcs.Conf, setting))
	zap.L().Info(fmt.Sprintf("Sweeping depths:%v/qubits:%v/workers:%d", c.Depths, c.Qubits, c.Workers))
	results, errs := s.Sweep(context.Background(), c.grid())

	now := time.Now()
	for _, r := range results {
		if r == nil {
			continue
		}
		fmt.Println(report.NewRecord(r, now).String())
	}
	return errs
}
