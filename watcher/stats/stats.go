package stats

import (
	"dexwatch/watcher/defs"

	"github.com/montanaflynn/stats"
)

type RangeAnalysis struct {
	BelowRange float64 `json:"belowRange"`
	InRange    float64 `json:"inRange"`
	AboveRange float64 `json:"aboveRange"`
}

func TimeSpentInRange(rs []defs.Reading, lower, upper float64) RangeAnalysis {
	if len(rs) == 0 {
		return RangeAnalysis{}
	}

	below, above := 0.0, 0.0
	for _, r := range rs {
		switch {
		case r.MgDL <= lower:
			below++
		case r.MgDL >= upper:
			above++
		}
	}
	in := float64(len(rs)) - below - above

	total := float64(len(rs))
	return RangeAnalysis{
		BelowRange: below / total,
		InRange:    in / total,
		AboveRange: above / total,
	}
}

type SummaryStatistics struct {
	Average   float64 `json:"average"`
	Deviation float64 `json:"deviation"`
}

func GlucoseSummary(rs []defs.Reading) SummaryStatistics {
	values := make([]float64, len(rs))
	for i, r := range rs {
		values[i] = r.MgDL
	}
	avg, _ := stats.Mean(values)
	dev, _ := stats.StandardDeviation(values)
	return SummaryStatistics{Average: avg, Deviation: dev}
}
