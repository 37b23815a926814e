package calculator

import (
	"math"
	"testing"

	"alphadash/internal/domain"
	"alphadash/internal/util"

	"github.com/stretchr/testify/require"
)

func returnsFrom(values []float64) domain.ReturnSeries {
	start := util.NewDate(2020, 1, 1)
	out := domain.ReturnSeries{}
	for i, v := range values {
		out.Returns = append(out.Returns, domain.PeriodReturn{
			Date:   start.AddDate(0, 0, i),
			Return: v,
		})
	}
	return out
}

func Test_CalculatePerformanceStats(t *testing.T) {
	t.Run("flat series reports all zeros", func(t *testing.T) {
		stats, err := CalculatePerformanceStats(returnsFrom(make([]float64, 3780)))
		require.NoError(t, err)

		require.Zero(t, stats.CAGR)
		require.Zero(t, stats.AnnualizedVol)
		// zero vol must fall back to 0, not divide
		require.Zero(t, stats.SharpeRatio)
		require.Zero(t, stats.MaxDrawdown)
	})

	t.Run("constant growth annualizes geometrically", func(t *testing.T) {
		values := make([]float64, 504)
		for i := range values {
			values[i] = 0.001
		}

		stats, err := CalculatePerformanceStats(returnsFrom(values))
		require.NoError(t, err)

		require.InDelta(t, math.Pow(1.001, 252)-1, stats.CAGR, 1e-9)
		require.InDelta(t, 0, stats.AnnualizedVol, 1e-12)
	})

	t.Run("volatility scales by root of 252", func(t *testing.T) {
		// alternating ±1% has sample stdev just over 1%
		values := make([]float64, 252)
		for i := range values {
			if i%2 == 0 {
				values[i] = 0.01
			} else {
				values[i] = -0.01
			}
		}

		stats, err := CalculatePerformanceStats(returnsFrom(values))
		require.NoError(t, err)

		expectedStdev := math.Sqrt(252.0 / 251.0 * 0.0001)
		require.InDelta(t, expectedStdev*math.Sqrt(252), stats.AnnualizedVol, 1e-9)
		require.InDelta(t, stats.CAGR/stats.AnnualizedVol, stats.SharpeRatio, 1e-12)
	})

	t.Run("max drawdown on the additive curve", func(t *testing.T) {
		// cumsum+1 walks 1.0 → 1.1 → 1.3 → 1.1 → 1.0 → 1.2; the peak
		// of 1.3 to the trough of 1.0 is the additive drawdown of 0.3,
		// not the compounded 1 - (0.9*0.909...) figure
		stats, err := CalculatePerformanceStats(returnsFrom([]float64{
			0.1, 0.2, -0.2, -0.1, 0.2,
		}))
		require.NoError(t, err)

		require.InDelta(t, 0.3, stats.MaxDrawdown, 1e-12)
	})

	t.Run("monotonic gains have zero drawdown", func(t *testing.T) {
		stats, err := CalculatePerformanceStats(returnsFrom([]float64{0.01, 0.02, 0.03}))
		require.NoError(t, err)

		require.Zero(t, stats.MaxDrawdown)
	})

	t.Run("empty series errors", func(t *testing.T) {
		_, err := CalculatePerformanceStats(domain.ReturnSeries{})
		require.Error(t, err)
	})
}
