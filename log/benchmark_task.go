package log

import (
	"context"
	"fmt"
	"time"

	"github.com/oqtopus-team/oqtopus-rcs/benchmark"
	"github.com/oqtopus-team/oqtopus-rcs/core"
	"github.com/oqtopus-team/oqtopus-rcs/report"
	"github.com/oqtopus-team/oqtopus-rcs/simulator"
	"go.uber.org/zap"
)

const BenchmarkTaskName = "benchmark"

const (
	DefaultDepth   = 7
	DefaultQubits  = 10
	DefaultSamples = 1024
)

// BenchmarkTaskImpl runs one benchmark per period, saves the record to the
// history and re-renders the README.
type BenchmarkTaskImpl struct {
	Depth      int    `toml:"depth"`
	Qubits     int    `toml:"qubits"`
	Samples    int    `toml:"samples"`
	FileDir    string `toml:"file_dir"`
	ReadmePath string `toml:"readme_path"`

	Options simulator.Options
	Report  core.ReportSetting
	Now     func() time.Time

	metrics *MetricsLogger
	sc      *core.SystemComponents

	core.DefaultTaskImpl
}

func (b *BenchmarkTaskImpl) GetEmptyParams() interface{} {
	return b
}

func (b *BenchmarkTaskImpl) SetParams(p interface{}) error {
	if p == nil {
		zap.L().Debug("no params for benchmark task")
		return nil
	}
	mp, ok := p.(map[string]interface{})
	if !ok {
		msg := fmt.Errorf("failed to set params for benchmark task/params: %v", p)
		zap.L().Error(msg.Error())
		return msg
	}
	for key, dst := range map[string]*int{
		"depth":   &b.Depth,
		"qubits":  &b.Qubits,
		"samples": &b.Samples,
	} {
		v, ok := mp[key]
		if !ok {
			continue
		}
		switch n := v.(type) {
		case int64:
			*dst = int(n)
		case int:
			*dst = n
		default:
			return core.InvalidInputf("%s of benchmark task must be an integer, got %v", key, v)
		}
	}
	if fileDir, ok := mp["file_dir"].(string); ok {
		b.FileDir = fileDir
	}
	if readmePath, ok := mp["readme_path"].(string); ok {
		b.ReadmePath = readmePath
	}
	return nil
}

func (b *BenchmarkTaskImpl) Params() benchmark.Params {
	return benchmark.Params{
		Depth:   b.Depth,
		Qubits:  b.Qubits,
		Samples: b.Samples,
	}
}

func (b *BenchmarkTaskImpl) Setup() error {
	if b.Depth == 0 && b.Qubits == 0 && b.Samples == 0 {
		b.Depth, b.Qubits, b.Samples = DefaultDepth, DefaultQubits, DefaultSamples
	}
	if err := b.Params().Validate(); err != nil {
		zap.L().Error(fmt.Sprintf("invalid benchmark task params/reason:%s", err))
		return err
	}
	if b.Now == nil {
		b.Now = time.Now
	}
	if b.FileDir != "" {
		m, err := NewMetricsLogger(b.FileDir)
		if err != nil {
			zap.L().Error("failed to set up metrics log", zap.Error(err))
			return err
		}
		b.metrics = m
	}
	b.sc = core.GetSystemComponents()
	if b.sc == nil {
		return fmt.Errorf("system components are not set up")
	}
	return nil
}

func (b *BenchmarkTaskImpl) Task() {
	if _, err := b.RunOnce(context.Background()); err != nil {
		zap.L().Error(fmt.Sprintf("[BenchmarkTask]failed/reason:%s", err))
	}
}

// RunOnce runs a single benchmark and publishes its record.
func (b *BenchmarkTaskImpl) RunOnce(ctx context.Context) (*core.Record, error) {
	p := b.Params()
	result, err := benchmark.RunBenchmark(ctx, p, b.Options)
	if err != nil {
		if b.metrics != nil {
			b.metrics.LogFailure(fmt.Sprintf("%+v", p), err)
		}
		return nil, err
	}
	if b.metrics != nil {
		b.metrics.LogResult(result)
	}
	zap.L().Info(fmt.Sprintf("[BenchmarkTask]depth:%d/qubits:%d/xeb:%.4f/runtime:%v",
		result.Depth, result.Qubits, result.XEBScore, result.Runtime))

	record := report.NewRecord(result, b.Now())
	if err := report.Publish(b.sc, record, b.ReadmePath, b.Report); err != nil {
		return nil, err
	}
	return record, nil
}

func (b *BenchmarkTaskImpl) Cleanup() {
	if b.metrics != nil {
		b.metrics.Close()
	}
}
