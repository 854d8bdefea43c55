package report

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/oqtopus-team/oqtopus-rcs/core"
)

const (
	chartHeight   = 10
	chartFloor    = -0.5
	chartMinRange = 0.1
)

func dateString(r *core.Record) string {
	return time.Time(r.Date).Format("2006-01-02")
}

// RenderReadme renders the benchmark page from records sorted by date.
func RenderReadme(records []*core.Record, s core.ReportSetting) string {
	if s.Title == "" {
		s.Title = core.NewReportSetting().Title
	}
	if s.HistoryLimit < 1 {
		s.HistoryLimit = core.NewReportSetting().HistoryLimit
	}
	if s.ChartDays < 1 {
		s.ChartDays = core.NewReportSetting().ChartDays
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("# %s\n\n", s.Title))
	sb.WriteString("Daily exact state-vector simulation of random quantum circuits, scored with\n")
	sb.WriteString("linear Cross-Entropy Benchmarking: XEB = 2^n * mean(p_ideal(x)) - 1.\n")
	sb.WriteString("An ideal sampler scores about 1, a uniform one about 0.\n\n")

	if len(records) > 0 {
		latest := records[len(records)-1]
		sb.WriteString("## Latest Benchmark Result\n\n")
		sb.WriteString("| Metric | Value |\n")
		sb.WriteString("|--------|-------|\n")
		sb.WriteString(fmt.Sprintf("| Date | %s |\n", dateString(latest)))
		sb.WriteString(fmt.Sprintf("| Qubits | %d |\n", latest.Qubits))
		sb.WriteString(fmt.Sprintf("| Circuit Depth | %d |\n", latest.Depth))
		sb.WriteString(fmt.Sprintf("| **XEB Score** | **%.4f** |\n", latest.XEBScore))
		sb.WriteString(fmt.Sprintf("| Samples | %d |\n", latest.Samples))
		sb.WriteString(fmt.Sprintf("| Runtime | %dms |\n\n", latest.RuntimeMS))
	}

	sb.WriteString("## Benchmark History\n\n")
	if len(records) == 0 {
		sb.WriteString("*No benchmark results yet.*\n\n")
	} else {
		sb.WriteString("| Date | Depth | Qubits | XEB Score | Samples | Runtime |\n")
		sb.WriteString("|------|-------|--------|-----------|---------|---------|\n")
		for _, r := range tail(records, s.HistoryLimit) {
			sb.WriteString(fmt.Sprintf("| %s | %d | %d | %.4f | %d | %dms |\n",
				dateString(r), r.Depth, r.Qubits, r.XEBScore, r.Samples, r.RuntimeMS))
		}
		sb.WriteString("\n")
		if len(records) >= 2 {
			sb.WriteString("### XEB Trend (Recent)\n\n")
			sb.WriteString("```\n")
			sb.WriteString(RenderChart(tail(records, s.ChartDays)))
			sb.WriteString("```\n\n")
		}
	}

	sb.WriteString("## Usage\n\n")
	sb.WriteString("```bash\n")
	sb.WriteString("# rcs run [depth] [qubits] [samples]\n")
	sb.WriteString("rcs run 7 10 1024 --save\n")
	sb.WriteString("rcs readme\n")
	sb.WriteString("```\n")
	return sb.String()
}

func tail(records []*core.Record, n int) []*core.Record {
	if len(records) <= n {
		return records
	}
	return records[len(records)-n:]
}

// RenderChart draws the scores of records as a 10 row ASCII chart with one
// three character column per record and a day label every third column.
func RenderChart(records []*core.Record) string {
	if len(records) == 0 {
		return "No data available\n"
	}
	minScore, maxScore := math.Inf(1), math.Inf(-1)
	for _, r := range records {
		minScore = math.Min(minScore, r.XEBScore)
		maxScore = math.Max(maxScore, r.XEBScore)
	}
	span := math.Max(maxScore-minScore, chartMinRange)
	low := minScore - span*0.1
	// the floor only applies when some score sits above it
	if maxScore > chartFloor {
		low = math.Max(low, chartFloor)
	}
	high := maxScore + span*0.1
	chartRange := high - low

	rows := make([]int, len(records))
	for i, r := range records {
		pos := int(math.Round((r.XEBScore - low) / chartRange * (chartHeight - 1)))
		rows[i] = min(max(pos, 0), chartHeight-1)
	}

	var sb strings.Builder
	for row := chartHeight - 1; row >= 0; row-- {
		y := low + float64(row)/float64(chartHeight-1)*chartRange
		sb.WriteString(fmt.Sprintf("%6.3f │", y))
		for i, r := range records {
			switch {
			case rows[i] == row:
				sb.WriteString(marker(records, i, r))
			case row == 0:
				sb.WriteString("───")
			default:
				sb.WriteString("   ")
			}
		}
		sb.WriteString("\n")
	}

	sb.WriteString("       └")
	sb.WriteString(strings.Repeat("───", len(records)))
	sb.WriteString("\n")

	sb.WriteString("        ")
	for i, r := range records {
		if i%3 == 0 || i == len(records)-1 {
			sb.WriteString(fmt.Sprintf("%-3s", dateString(r)[8:10]))
		} else {
			sb.WriteString("   ")
		}
	}
	sb.WriteString("\n")
	sb.WriteString("\n       ◆ = increase   ◇ = decrease   ● = start/same\n")
	return sb.String()
}

func marker(records []*core.Record, i int, r *core.Record) string {
	if i == 0 {
		return " ● "
	}
	prev := records[i-1].XEBScore
	switch {
	case r.XEBScore > prev:
		return " ◆ "
	case r.XEBScore < prev:
		return " ◇ "
	default:
		return " ● "
	}
}
