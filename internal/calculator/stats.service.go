package calculator

import (
	"fmt"
	"math"

	"alphadash/internal/domain"

	"github.com/montanaflynn/stats"
)

const tradingDaysPerYear = 252

// CalculatePerformanceStats summarizes a daily return series into the
// four headline numbers the dashboard shows.
//
// CAGR compounds the realized returns and annualizes by 252/n. Sharpe is
// CAGR over annualized vol, and deliberately 0 when vol is 0 - a flat
// series has no risk-adjusted story to tell and must not divide by zero.
//
// Max drawdown measures peak-to-trough decline of cumsum(returns)+1, an
// additive approximation of the compounded equity curve. The compounded
// definition would differ for large or long-running returns; the additive
// one is kept intentionally and pinned by tests.
func CalculatePerformanceStats(returns domain.ReturnSeries) (*domain.PerformanceStats, error) {
	values := returns.Values()
	if len(values) == 0 {
		return nil, fmt.Errorf("cannot calculate stats on empty return series")
	}

	growth := 1.0
	for _, r := range values {
		growth *= 1 + r
	}
	cagr := math.Pow(growth, tradingDaysPerYear/float64(len(values))) - 1

	annualizedVol := 0.0
	if len(values) > 1 {
		stdev, err := stats.StandardDeviationSample(values)
		if err != nil {
			return nil, err
		}
		annualizedVol = stdev * math.Sqrt(tradingDaysPerYear)
	}

	sharpe := 0.0
	if annualizedVol != 0 {
		sharpe = cagr / annualizedVol
	}

	return &domain.PerformanceStats{
		CAGR:          cagr,
		AnnualizedVol: annualizedVol,
		SharpeRatio:   sharpe,
		MaxDrawdown:   maxDrawdown(values),
	}, nil
}

func maxDrawdown(values []float64) float64 {
	maxDD := 0.0
	cumsum := 0.0
	peak := 1.0
	for _, r := range values {
		cumsum += r
		curve := cumsum + 1
		if curve > peak {
			peak = curve
		}
		if dd := peak - curve; dd > maxDD {
			maxDD = dd
		}
	}
	return maxDD
}
