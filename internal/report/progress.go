package report

import (
	"math"
	"strings"
)

// BarWidth is the cell count of rendered progress bars.
const BarWidth = 20

// Progress is a bounded goal-progress reading. Applicable is false when the
// target is not positive; the remaining fields are zero in that case.
type Progress struct {
	Applicable bool    `json:"applicable"`
	Current    int     `json:"current"`
	Target     int     `json:"target"`
	Ratio      float64 `json:"ratio"`
	Percent    int     `json:"percent"`
	Bar        string  `json:"bar"`
}

// ComputeProgress renders current/target as a capped ratio, a rounded
// percentage, and a fixed-width bar. Overshooting the target displays as
// 100%, never more. A non-positive target yields the not-applicable
// sentinel rather than an error.
func ComputeProgress(current, target int) Progress {
	if target <= 0 {
		return Progress{Current: current, Target: target}
	}

	ratio := math.Min(float64(current)/float64(target), 1.0)
	filled := int(math.Round(ratio * BarWidth))

	return Progress{
		Applicable: true,
		Current:    current,
		Target:     target,
		Ratio:      ratio,
		Percent:    int(math.Round(ratio * 100)),
		Bar:        strings.Repeat("█", filled) + strings.Repeat("░", BarWidth-filled),
	}
}

// ChartBar renders a frequency bar scaled against the ranking maximum.
// Zero max yields an empty bar; any non-zero value shows at least one cell.
func ChartBar(value, max, width int) string {
	if max == 0 {
		return ""
	}
	cells := int(math.Round(float64(value) / float64(max) * float64(width)))
	if cells == 0 {
		cells = 1
	}
	return strings.Repeat("█", cells)
}

// ChartRow is one labeled bar in a usage chart.
type ChartRow struct {
	Label string `json:"label"`
	Bar   string `json:"bar"`
	Count int    `json:"count"`
}

// BuildChart renders the top entries of a ranking as bars scaled against
// the leading count.
func BuildChart(ranking []Ranked, topN int) []ChartRow {
	if len(ranking) == 0 {
		return nil
	}
	max := ranking[0].Count
	top := TopN(ranking, topN)
	rows := make([]ChartRow, 0, len(top))
	for _, entry := range top {
		rows = append(rows, ChartRow{
			Label: entry.Key,
			Bar:   ChartBar(entry.Count, max, BarWidth),
			Count: entry.Count,
		})
	}
	return rows
}
