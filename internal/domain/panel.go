package domain

import (
	"sort"
	"time"
)

// FeatureRow is one (date, symbol) entry of the feature panel. A row only
// exists when every feature had enough trailing history on that date.
type FeatureRow struct {
	Date        time.Time
	Symbol      string
	Momentum12M float64
	Momentum3M  float64
	Vol60D      float64
}

type FeaturePanel struct {
	Rows []FeatureRow
}

func (p FeaturePanel) ByDate() map[time.Time][]FeatureRow {
	out := map[time.Time][]FeatureRow{}
	for _, row := range p.Rows {
		out[row.Date] = append(out[row.Date], row)
	}
	return out
}

// AlphaTable holds one composite score per (date, symbol). Scores are
// only comparable across symbols within the same date.
type AlphaTable struct {
	Scores map[time.Time]map[string]float64
}

func (a AlphaTable) Dates() []time.Time {
	dates := []time.Time{}
	for date := range a.Scores {
		dates = append(dates, date)
	}
	sort.Slice(dates, func(i, j int) bool {
		return dates[i].Before(dates[j])
	})
	return dates
}

// WeightMatrix holds long-only portfolio weights per (date, symbol).
// For any date the positive weights sum to 1, or every weight is zero.
type WeightMatrix struct {
	Weights map[time.Time]map[string]float64
}

func (w WeightMatrix) Dates() []time.Time {
	dates := []time.Time{}
	for date := range w.Weights {
		dates = append(dates, date)
	}
	sort.Slice(dates, func(i, j int) bool {
		return dates[i].Before(dates[j])
	})
	return dates
}

type PeriodReturn struct {
	Date   time.Time
	Return float64
}

// ReturnSeries is a realized portfolio return per period, sorted by date.
type ReturnSeries struct {
	Returns []PeriodReturn
}

func (r ReturnSeries) Values() []float64 {
	values := make([]float64, len(r.Returns))
	for i, pr := range r.Returns {
		values[i] = pr.Return
	}
	return values
}

type PerformanceStats struct {
	CAGR          float64
	AnnualizedVol float64
	SharpeRatio   float64
	MaxDrawdown   float64
}
