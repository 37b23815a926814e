package internal

import (
	"alphadash/internal/domain"
	"time"

	"github.com/montanaflynn/stats"
)

// TechnicalRow carries the indicator values for one trading day. Fields
// are nil until their rolling window has warmed up.
type TechnicalRow struct {
	Date    time.Time `json:"date"`
	Close   float64   `json:"close"`
	MA50    *float64  `json:"ma50"`
	MA200   *float64  `json:"ma200"`
	UpperBB *float64  `json:"upperBB"`
	LowerBB *float64  `json:"lowerBB"`
	RSI14   *float64  `json:"rsi14"`
}

// ComputeTechnicals derives the indicator set for one symbol: 50 and
// 200 day moving averages, Bollinger bands around the 50 day average
// using a 20 day stdev, and a 14 day RSI.
func ComputeTechnicals(prices domain.PriceTable, symbol string) []TechnicalRow {
	series := prices.Series[symbol]
	out := make([]TechnicalRow, len(series))

	closes := make([]float64, len(series))
	for i, p := range series {
		closes[i] = p.Price
	}

	for i, p := range series {
		row := TechnicalRow{Date: p.Date, Close: p.Price}

		if ma50, ok := rollingMean(closes, i, 50); ok {
			row.MA50 = &ma50
			if std20, ok := rollingStdev(closes, i, 20); ok {
				upper := ma50 + 2*std20
				lower := ma50 - 2*std20
				row.UpperBB = &upper
				row.LowerBB = &lower
			}
		}
		if ma200, ok := rollingMean(closes, i, 200); ok {
			row.MA200 = &ma200
		}
		if rsi, ok := rsi14(closes, i); ok {
			row.RSI14 = &rsi
		}

		out[i] = row
	}

	return out
}

func rollingMean(values []float64, end, window int) (float64, bool) {
	if end+1 < window {
		return 0, false
	}
	mean, err := stats.Mean(values[end+1-window : end+1])
	if err != nil {
		return 0, false
	}
	return mean, true
}

func rollingStdev(values []float64, end, window int) (float64, bool) {
	if end+1 < window {
		return 0, false
	}
	stdev, err := stats.StandardDeviationSample(values[end+1-window : end+1])
	if err != nil {
		return 0, false
	}
	return stdev, true
}

func rsi14(closes []float64, end int) (float64, bool) {
	const window = 14
	if end < window {
		return 0, false
	}

	avgGain, avgLoss := 0.0, 0.0
	for i := end - window + 1; i <= end; i++ {
		delta := closes[i] - closes[i-1]
		if delta > 0 {
			avgGain += delta
		} else {
			avgLoss -= delta
		}
	}
	avgGain /= window
	avgLoss /= window

	if avgLoss == 0 {
		if avgGain == 0 {
			return 0, false
		}
		return 100, true
	}

	rs := avgGain / avgLoss
	return 100 - 100/(1+rs), true
}
