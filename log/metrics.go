package log

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/oqtopus-team/oqtopus-rcs/common"
	"github.com/oqtopus-team/oqtopus-rcs/core"
)

// MetricsLogger appends one JSON line per benchmark run to
// metrics-YYYY-MM-DD.log in its directory.
type MetricsLogger struct {
	*slog.Logger
	dl *dailyLogger
}

func NewMetricsLogger(fileDir string) (*MetricsLogger, error) {
	if err := common.EnsureDir(fileDir); err != nil {
		return nil, fmt.Errorf("failed to write to %s: %w", fileDir, err)
	}
	dl := newDailyLogger(fileDir)
	return &MetricsLogger{
		Logger: slog.New(slog.NewJSONHandler(dl, nil)),
		dl:     dl,
	}, nil
}

func (m *MetricsLogger) LogResult(r *core.BenchmarkResult) {
	m.Info(
		"Benchmark",
		slog.String("run_id", r.RunID),
		slog.Int("depth", r.Depth),
		slog.Int("qubits", r.Qubits),
		slog.Int("samples", r.Samples),
		slog.Uint64("seed", r.Seed),
		slog.Float64("xeb_score", r.XEBScore),
		slog.Int64("runtime_ms", r.Runtime.Milliseconds()),
	)
}

func (m *MetricsLogger) LogFailure(p string, err error) {
	m.Error("Benchmark", slog.String("params", p), slog.String("error", err.Error()))
}

func (m *MetricsLogger) Close() error {
	return m.dl.Close()
}

type dailyLogger struct {
	mu              sync.Mutex
	fileDir         string
	currentFileName string
	file            *os.File
	now             func() time.Time
}

func newDailyLogger(fileDir string) *dailyLogger {
	return &dailyLogger{
		fileDir: fileDir,
		now:     time.Now,
	}
}

func (dl *dailyLogger) Write(p []byte) (n int, err error) {
	dl.mu.Lock()
	defer dl.mu.Unlock()

	fileName := fmt.Sprintf("metrics-%s.log", dl.now().Format("2006-01-02"))
	if dl.file == nil || dl.currentFileName != fileName {
		if dl.file != nil {
			dl.file.Close()
		}
		var err error
		dl.file, err = os.OpenFile(filepath.Join(dl.fileDir, fileName), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			dl.file = nil
			return 0, err
		}
		dl.currentFileName = fileName
	}

	return dl.file.Write(p)
}

func (dl *dailyLogger) Close() error {
	dl.mu.Lock()
	defer dl.mu.Unlock()
	if dl.file != nil {
		err := dl.file.Close()
		dl.file = nil
		return err
	}
	return nil
}
