//go:build unit
// +build unit

package report

import (
	"strings"
	"testing"
	"time"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/go-openapi/strfmt"
	"github.com/oqtopus-team/oqtopus-rcs/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func record(day int, score float64) *core.Record {
	return &core.Record{
		Date:      strfmt.Date(time.Date(2025, time.January, day, 0, 0, 0, 0, time.UTC)),
		Depth:     7,
		Qubits:    10,
		XEBScore:  score,
		Samples:   1024,
		RuntimeMS: 5,
	}
}

func TestNewRecord(t *testing.T) {
	res := core.NewBenchmarkResult()
	res.Depth = 7
	res.Qubits = 10
	res.Samples = 1024
	res.XEBScore = 0.8234
	res.Runtime = 5*time.Millisecond + 700*time.Microsecond

	r := NewRecord(res, time.Date(2025, time.January, 15, 23, 59, 0, 0, time.Local))
	assert.Equal(t, "20250115", r.DateKey())
	assert.Equal(t, int64(5), r.RuntimeMS)
	assert.Equal(t, 0.8234, r.XEBScore)
}

func TestMarshalRecord(t *testing.T) {
	b, err := MarshalRecord(record(15, 0.8234))
	require.Nil(t, err)
	want := heredoc.Doc(`
		{
		  "date": "2025-01-15",
		  "depth": 7,
		  "qubits": 10,
		  "xeb_score": 0.8234,
		  "samples": 1024,
		  "runtime_ms": 5
		}
	`)
	assert.Equal(t, want, string(b))

	back, err := core.UnmarshalRecord(b)
	require.Nil(t, err)
	assert.Equal(t, record(15, 0.8234).String(), back.String())
}

func TestRenderChart(t *testing.T) {
	records := []*core.Record{record(1, 0.5), record(2, 0.7), record(3, 0.6), record(4, 0.6)}
	want := strings.Join([]string{
		" 0.720 │            ",
		" 0.693 │    ◆       ",
		" 0.667 │            ",
		" 0.640 │            ",
		" 0.613 │       ◇  ● ",
		" 0.587 │            ",
		" 0.560 │            ",
		" 0.533 │            ",
		" 0.507 │ ●          ",
		" 0.480 │────────────",
		"       └────────────",
		"        01       04 ",
		"",
		"       ◆ = increase   ◇ = decrease   ● = start/same",
		"",
	}, "\n")
	assert.Equal(t, want, RenderChart(records))
}

func TestRenderChartClampsFloor(t *testing.T) {
	chart := RenderChart([]*core.Record{record(1, -0.9), record(2, 0.5)})
	lines := strings.Split(chart, "\n")
	assert.True(t, strings.HasPrefix(lines[9], "-0.500 │ ● "), lines[9])
	assert.True(t, strings.HasPrefix(lines[0], " 0.640 │"), lines[0])
}

func TestRenderChartBelowFloor(t *testing.T) {
	records := []*core.Record{record(1, -0.9), record(2, -0.8), record(3, -0.6)}
	want := strings.Join([]string{
		"-0.570 │         ",
		"-0.610 │       ◆ ",
		"-0.650 │         ",
		"-0.690 │         ",
		"-0.730 │         ",
		"-0.770 │         ",
		"-0.810 │    ◆    ",
		"-0.850 │         ",
		"-0.890 │ ●       ",
		"-0.930 │─────────",
		"       └─────────",
		"        01    03 ",
		"",
		"       ◆ = increase   ◇ = decrease   ● = start/same",
		"",
	}, "\n")
	assert.Equal(t, want, RenderChart(records))
}

func TestRenderChartEmpty(t *testing.T) {
	assert.Equal(t, "No data available\n", RenderChart(nil))
}

func TestRenderReadme(t *testing.T) {
	tests := []struct {
		name         string
		records      []*core.Record
		setting      core.ReportSetting
		contains     []string
		notContains  []string
		historyLines int
	}{
		{
			name:        "no records",
			records:     nil,
			setting:     core.NewReportSetting(),
			contains:    []string{"# Random Circuit Sampling Benchmark\n", "*No benchmark results yet.*"},
			notContains: []string{"## Latest Benchmark Result", "XEB Trend"},
		},
		{
			name:         "single record has no chart",
			records:      []*core.Record{record(3, 0.81234)},
			setting:      core.ReportSetting{Title: "Nightly"},
			contains:     []string{"# Nightly\n", "| **XEB Score** | **0.8123** |", "| 2025-01-03 | 7 | 10 | 0.8123 | 1024 | 5ms |"},
			notContains:  []string{"XEB Trend"},
			historyLines: 1,
		},
		{
			name: "history is limited",
			records: func() []*core.Record {
				var rs []*core.Record
				for d := 1; d <= 31; d++ {
					rs = append(rs, record(d, float64(d)/100))
				}
				return rs
			}(),
			setting:      core.NewReportSetting(),
			contains:     []string{"| Date | 2025-01-31 |", "### XEB Trend (Recent)"},
			notContains:  []string{"| 2025-01-01 |"},
			historyLines: 30,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RenderReadme(tt.records, tt.setting)
			for _, c := range tt.contains {
				assert.Contains(t, got, c)
			}
			for _, c := range tt.notContains {
				assert.NotContains(t, got, c)
			}
			assert.Equal(t, tt.historyLines, strings.Count(got, "| 7 | 10 |"))
		})
	}
}
