package internal

import (
	"alphadash/internal/domain"
	"math"
	"sort"

	"github.com/montanaflynn/stats"
)

const (
	momentum12MLookback = 252
	momentum3MLookback  = 63
	volatilityWindow    = 60
)

// BuildFeaturePanel derives the per-date, per-asset feature table from a
// price table: 12-month and 3-month momentum plus 60-day annualized
// volatility. A (date, symbol) row is emitted only when every feature has
// enough trailing history - there are no partial rows, so the panel's
// first date for an asset is the latest of the three warm-up periods.
func BuildFeaturePanel(prices domain.PriceTable) domain.FeaturePanel {
	rows := []domain.FeatureRow{}

	for _, symbol := range prices.Symbols() {
		series := prices.Series[symbol]
		returns := dailyReturns(series)

		for i := range series {
			if i < momentum12MLookback {
				continue
			}

			vol, ok := annualizedVol(returns[i-volatilityWindow+1 : i+1])
			if !ok {
				continue
			}

			rows = append(rows, domain.FeatureRow{
				Date:        series[i].Date,
				Symbol:      symbol,
				Momentum12M: simpleReturn(series[i-momentum12MLookback].Price, series[i].Price),
				Momentum3M:  simpleReturn(series[i-momentum3MLookback].Price, series[i].Price),
				Vol60D:      vol,
			})
		}
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Date.Equal(rows[j].Date) {
			return rows[i].Symbol < rows[j].Symbol
		}
		return rows[i].Date.Before(rows[j].Date)
	})

	return domain.FeaturePanel{Rows: rows}
}

// dailyReturns[i] is the simple return realized on series[i].Date;
// index 0 has no prior price and is left as NaN.
func dailyReturns(series []domain.AssetPrice) []float64 {
	returns := make([]float64, len(series))
	if len(series) == 0 {
		return returns
	}
	returns[0] = math.NaN()
	for i := 1; i < len(series); i++ {
		returns[i] = simpleReturn(series[i-1].Price, series[i].Price)
	}
	return returns
}

func simpleReturn(start, end float64) float64 {
	return (end - start) / start
}

func annualizedVol(windowReturns []float64) (float64, bool) {
	stdev, err := stats.StandardDeviationSample(windowReturns)
	if err != nil || math.IsNaN(stdev) {
		return 0, false
	}
	return stdev * math.Sqrt(252), true
}
