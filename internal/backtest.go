package internal

import (
	"time"

	"alphadash/internal/domain"
)

// BacktestPortfolio applies a weight matrix to realized returns with a
// one-period lag: the return reported for date t is earned by the
// weights decided on the previous weight date, over the price move from
// that date to t. The simulated portfolio never trades on information
// it did not have yet - a price on date t can only influence returns
// reported on t or later.
//
// The first weight date has no lagged weight and produces no output. An
// asset missing either price for a period contributes nothing for that
// date; it never poisons the other holdings.
//
// The weights do not have to come from the alpha pipeline - an
// equal-weight buy-and-hold matrix backtests through the same path.
func BacktestPortfolio(weights domain.WeightMatrix, prices domain.PriceTable) domain.ReturnSeries {
	dates := weights.Dates()
	lookup := newPriceLookup(prices)

	out := domain.ReturnSeries{Returns: []domain.PeriodReturn{}}
	for t := 1; t < len(dates); t++ {
		lagged := weights.Weights[dates[t-1]]

		total := 0.0
		anyRealized := false
		holdsAnything := false
		for symbol, w := range lagged {
			if w == 0 {
				continue
			}
			holdsAnything = true
			ret, ok := lookup.periodReturn(symbol, dates[t-1], dates[t])
			if !ok {
				continue
			}
			anyRealized = true
			total += w * ret
		}

		// an all-zero weight row earns exactly zero; a held portfolio
		// with no realized prices at all has nothing to report
		if holdsAnything && !anyRealized {
			continue
		}

		out.Returns = append(out.Returns, domain.PeriodReturn{
			Date:   dates[t],
			Return: total,
		})
	}

	return out
}

// EqualWeightBenchmark builds a uniform weight matrix over the given
// dates - the buy-and-hold comparison portfolio.
func EqualWeightBenchmark(symbols []string, dates []time.Time) domain.WeightMatrix {
	out := domain.WeightMatrix{Weights: map[time.Time]map[string]float64{}}
	if len(symbols) == 0 {
		return out
	}
	for _, date := range dates {
		row := map[string]float64{}
		for _, symbol := range symbols {
			row[symbol] = 1.0 / float64(len(symbols))
		}
		out.Weights[date] = row
	}
	return out
}

type priceLookup struct {
	prices map[string]map[time.Time]float64
}

func newPriceLookup(prices domain.PriceTable) priceLookup {
	byDate := map[string]map[time.Time]float64{}
	for symbol, series := range prices.Series {
		m := make(map[time.Time]float64, len(series))
		for _, p := range series {
			m[p.Date] = p.Price
		}
		byDate[symbol] = m
	}
	return priceLookup{prices: byDate}
}

// periodReturn is the simple return for symbol over (start, end], or
// false when either price is unavailable.
func (l priceLookup) periodReturn(symbol string, start, end time.Time) (float64, bool) {
	startPrice, ok := l.prices[symbol][start]
	if !ok {
		return 0, false
	}
	endPrice, ok := l.prices[symbol][end]
	if !ok {
		return 0, false
	}
	return simpleReturn(startPrice, endPrice), true
}
