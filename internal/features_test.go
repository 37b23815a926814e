package internal

import (
	"math"
	"testing"
	"time"

	"alphadash/internal/domain"
	"alphadash/internal/util"

	"github.com/stretchr/testify/require"
)

// growthSeries builds a daily price series compounding at a constant
// rate, starting at startPrice on the given date.
func growthSeries(symbol string, start time.Time, days int, startPrice, dailyReturn float64) []domain.AssetPrice {
	out := make([]domain.AssetPrice, days)
	price := startPrice
	for i := 0; i < days; i++ {
		out[i] = domain.AssetPrice{
			Symbol: symbol,
			Price:  price,
			Date:   start.AddDate(0, 0, i),
		}
		price *= 1 + dailyReturn
	}
	return out
}

func Test_BuildFeaturePanel(t *testing.T) {
	start := util.NewDate(2020, 1, 1)

	t.Run("warm-up period excluded", func(t *testing.T) {
		prices := domain.NewPriceTable(growthSeries("AAPL", start, 260, 100, 0.001))

		panel := BuildFeaturePanel(prices)

		// 252 warm-up rows drop, leaving 8
		require.Len(t, panel.Rows, 8)
		require.Equal(t, start.AddDate(0, 0, 252), panel.Rows[0].Date)
	})

	t.Run("feature values on constant growth", func(t *testing.T) {
		prices := domain.NewPriceTable(growthSeries("AAPL", start, 253, 100, 0.001))

		panel := BuildFeaturePanel(prices)

		require.Len(t, panel.Rows, 1)
		row := panel.Rows[0]
		require.InDelta(t, math.Pow(1.001, 252)-1, row.Momentum12M, 1e-9)
		require.InDelta(t, math.Pow(1.001, 63)-1, row.Momentum3M, 1e-9)
		// constant returns have zero stdev
		require.InDelta(t, 0, row.Vol60D, 1e-12)
	})

	t.Run("short-history asset excluded without affecting others", func(t *testing.T) {
		prices := domain.NewPriceTable(append(
			growthSeries("AAPL", start, 253, 100, 0.001),
			growthSeries("NEWIPO", start.AddDate(0, 0, 200), 53, 50, 0.002)...,
		))

		panel := BuildFeaturePanel(prices)

		require.Len(t, panel.Rows, 1)
		require.Equal(t, "AAPL", panel.Rows[0].Symbol)
	})

	t.Run("insufficient history yields empty panel", func(t *testing.T) {
		prices := domain.NewPriceTable(growthSeries("AAPL", start, 100, 100, 0.001))

		panel := BuildFeaturePanel(prices)

		require.Empty(t, panel.Rows)
	})
}
