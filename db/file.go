package db

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/oqtopus-team/oqtopus-rcs/common"
	"github.com/oqtopus-team/oqtopus-rcs/core"
	"github.com/oqtopus-team/oqtopus-rcs/report"
	"go.uber.org/zap"
)

// FileDB keeps one <YYYYMMDD>.json file per run day in a results directory.
type FileDB struct {
	dir string
	mu  sync.Mutex
}

func (f *FileDB) Setup(c *core.Conf) error {
	zap.L().Debug(fmt.Sprintf("Setting up File DB/dir:%s", c.ResultsDir))
	if err := common.EnsureDir(c.ResultsDir); err != nil {
		zap.L().Error(fmt.Sprintf("failed to prepare results dir/reason:%s", err))
		return err
	}
	f.dir = c.ResultsDir
	return nil
}

func (f *FileDB) Path(r *core.Record) string {
	return filepath.Join(f.dir, r.DateKey()+".json")
}

// Append writes r to its day file, replacing a record of the same day.
func (f *FileDB) Append(r *core.Record) error {
	if r == nil {
		return core.InvalidInputf("record is nil")
	}
	b, err := report.MarshalRecord(r)
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	path := f.Path(r)
	if err := common.WriteFileAtomic(path, b); err != nil {
		zap.L().Error(fmt.Sprintf("[FileDB] failed to write %s/reason:%s", path, err))
		return err
	}
	zap.L().Info(fmt.Sprintf("[FileDB] saved to %s", path))
	return nil
}

// List reads every *.json file of the directory. Files that cannot be read
// or parsed are skipped.
func (f *FileDB) List() ([]*core.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	entries, err := os.ReadDir(f.dir)
	if err != nil {
		return nil, err
	}
	records := []*core.Record{}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		path := filepath.Join(f.dir, e.Name())
		content, err := common.ReadFile(path)
		if err != nil {
			zap.L().Warn(fmt.Sprintf("[FileDB] skip %s/reason:%s", path, err))
			continue
		}
		r, err := core.UnmarshalRecord([]byte(content))
		if err != nil {
			zap.L().Warn(fmt.Sprintf("[FileDB] skip %s/reason:%s", path, err))
			continue
		}
		records = append(records, r)
	}
	core.SortRecords(records)
	zap.L().Debug(fmt.Sprintf("[FileDB] found %d records", len(records)))
	return records, nil
}
