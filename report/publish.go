package report

import (
	"fmt"

	"github.com/oqtopus-team/oqtopus-rcs/common"
	"github.com/oqtopus-team/oqtopus-rcs/core"
	"go.uber.org/zap"
)

type History interface {
	AppendRecord(*core.Record) error
	ListRecords() ([]*core.Record, error)
}

// WriteReadme renders the whole history into the README at path.
func WriteReadme(h History, path string, s core.ReportSetting) error {
	records, err := h.ListRecords()
	if err != nil {
		zap.L().Error(fmt.Sprintf("failed to list records/reason:%s", err))
		return err
	}
	if err := common.WriteFileAtomic(path, []byte(RenderReadme(records, s))); err != nil {
		zap.L().Error(fmt.Sprintf("failed to write %s/reason:%s", path, err))
		return err
	}
	zap.L().Info(fmt.Sprintf("Rendered %s from %d records", path, len(records)))
	return nil
}

// Publish stores r and refreshes the README. An empty path skips the README.
func Publish(h History, r *core.Record, path string, s core.ReportSetting) error {
	if err := h.AppendRecord(r); err != nil {
		zap.L().Error(fmt.Sprintf("failed to save record %s/reason:%s", r.DateKey(), err))
		return err
	}
	zap.L().Info(fmt.Sprintf("Saved record %s", r.DateKey()))
	if path == "" {
		return nil
	}
	return WriteReadme(h, path, s)
}
