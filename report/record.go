package report

import (
	"time"

	"github.com/go-openapi/strfmt"
	jsoniter "github.com/json-iterator/go"
	"github.com/oqtopus-team/oqtopus-rcs/core"
	"github.com/tidwall/pretty"
)

var jsonIter = jsoniter.ConfigCompatibleWithStandardLibrary

// NewRecord summarizes a run for the history, dated at the given day.
func NewRecord(r *core.BenchmarkResult, date time.Time) *core.Record {
	y, m, d := date.Date()
	return &core.Record{
		Date:      strfmt.Date(time.Date(y, m, d, 0, 0, 0, 0, time.UTC)),
		Depth:     r.Depth,
		Qubits:    r.Qubits,
		XEBScore:  r.XEBScore,
		Samples:   r.Samples,
		RuntimeMS: r.Runtime.Milliseconds(),
	}
}

// MarshalRecord renders r as indented JSON with a trailing newline.
func MarshalRecord(r *core.Record) ([]byte, error) {
	b, err := jsonIter.Marshal(r)
	if err != nil {
		return nil, err
	}
	return pretty.Pretty(b), nil
}
