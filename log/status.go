package log

import (
	"fmt"

	"github.com/oqtopus-team/oqtopus-rcs/core"
	"go.uber.org/zap"
)

const StatusLogTaskName = "status_log"

// StatusLogTaskImpl reports the running version and the latest stored
// score.
type StatusLogTaskImpl struct {
	core.DefaultTaskImpl
}

func (s *StatusLogTaskImpl) Task() {
	zap.L().Info(StatusLine(core.GetSystemComponents()))
}

func StatusLine(sc *core.SystemComponents) string {
	if sc == nil {
		return fmt.Sprintf("[Status]version:%s/history:unavailable", core.Version)
	}
	records, err := sc.ListRecords()
	if err != nil {
		return fmt.Sprintf("[Status]version:%s/history:error/reason:%s", core.Version, err)
	}
	if len(records) == 0 {
		return fmt.Sprintf("[Status]version:%s/records:0", core.Version)
	}
	latest := records[len(records)-1]
	return fmt.Sprintf("[Status]version:%s/records:%d/latest:%s/xeb:%.4f",
		core.Version, len(records), latest.DateKey(), latest.XEBScore)
}
