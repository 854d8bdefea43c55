package core

import (
	"fmt"
	"time"

	"github.com/go-openapi/strfmt"
	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	"github.com/tidwall/pretty"
	"go.uber.org/zap"
)

// Counts maps a measured bitstring (qubit n-1 first) to its count.
type Counts map[string]uint32

var jsonIter = jsoniter.ConfigCompatibleWithStandardLibrary

func (c Counts) String() string {
	st, err := jsonIter.Marshal(c)
	if err != nil {
		zap.L().Error("Failed to marshal core.Counts")
		return ""
	}
	return string(st)
}

type BenchmarkResult struct {
	RunID     string          `json:"run_id"`
	Depth     int             `json:"depth"`
	Qubits    int             `json:"qubits"`
	Samples   int             `json:"samples"`
	Seed      uint64          `json:"seed"`
	XEBScore  float64         `json:"xeb_score"`
	Runtime   time.Duration   `json:"runtime"`
	StartedAt strfmt.DateTime `json:"started_at"`
	Counts    Counts          `json:"counts,omitempty"`
}

func NewBenchmarkResult() *BenchmarkResult {
	return &BenchmarkResult{
		RunID:     uuid.NewString(),
		StartedAt: strfmt.DateTime(time.Now()),
		Counts:    make(Counts),
	}
}

func (r *BenchmarkResult) ToString() string {
	st, err := jsonIter.Marshal(r)
	if err != nil {
		zap.L().Error("Failed to marshal core.BenchmarkResult")
		return ""
	}
	st = pretty.Pretty(st)
	return string(st)
}

// Record is the persisted summary of one run, one per day.
type Record struct {
	Date      strfmt.Date `json:"date"`
	Depth     int         `json:"depth"`
	Qubits    int         `json:"qubits"`
	XEBScore  float64     `json:"xeb_score"`
	Samples   int         `json:"samples"`
	RuntimeMS int64       `json:"runtime_ms"`
}

func (r *Record) String() string {
	st, err := jsonIter.Marshal(r)
	if err != nil {
		zap.L().Error(fmt.Sprintf("Failed to marshal core.Record/reason:%s", err))
		return ""
	}
	return string(st)
}

// DateKey is the compact YYYYMMDD form used to name daily files.
func (r *Record) DateKey() string {
	return time.Time(r.Date).Format("20060102")
}

func UnmarshalRecord(b []byte) (*Record, error) {
	r := &Record{}
	if err := jsonIter.Unmarshal(b, r); err != nil {
		return nil, err
	}
	return r, nil
}
