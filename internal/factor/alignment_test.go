package factor

import (
	"math"
	"testing"

	"alphadash/internal/domain"
	"alphadash/internal/util"

	"github.com/stretchr/testify/require"
)

func Test_AlignResampleFirst(t *testing.T) {
	prices := domain.NewPriceTable([]domain.AssetPrice{
		{Symbol: "AAPL", Price: 100, Date: util.NewDate(2023, 1, 16)},
		{Symbol: "AAPL", Price: 110, Date: util.NewDate(2023, 1, 30)},
		{Symbol: "AAPL", Price: 115, Date: util.NewDate(2023, 2, 13)},
		{Symbol: "AAPL", Price: 121, Date: util.NewDate(2023, 2, 27)},
		{Symbol: "AAPL", Price: 130, Date: util.NewDate(2023, 3, 10)},
	})
	febFactors := domain.FactorRow{
		Date: util.NewDate(2023, 2, 28), MktMinusRF: 0.02, SMB: 0.01, HML: -0.01, RF: 0.001,
	}
	marFactors := domain.FactorRow{
		Date: util.NewDate(2023, 3, 31), MktMinusRF: -0.01, SMB: 0.005, HML: 0.002, RF: 0.001,
	}

	t.Run("monthly returns from last price of each month", func(t *testing.T) {
		obs := AlignResampleFirst(prices, []domain.FactorRow{febFactors, marFactors})

		require.Len(t, obs, 2)

		feb := obs[0]
		require.Equal(t, "AAPL", feb.Symbol)
		require.Equal(t, util.NewDate(2023, 2, 28), feb.Date)
		// 110 -> 121 is +10%, minus the monthly risk-free rate
		require.InDelta(t, 0.1-0.001, feb.ExcessReturn, 1e-12)
		require.Equal(t, febFactors.MktMinusRF, feb.MktMinusRF)
		require.Equal(t, febFactors.SMB, feb.SMB)
		require.Equal(t, febFactors.HML, feb.HML)

		mar := obs[1]
		require.Equal(t, util.NewDate(2023, 3, 31), mar.Date)
		require.InDelta(t, 130.0/121-1-0.001, mar.ExcessReturn, 1e-12)
	})

	t.Run("months without factor rows drop out of the join", func(t *testing.T) {
		obs := AlignResampleFirst(prices, []domain.FactorRow{febFactors})

		require.Len(t, obs, 1)
		require.Equal(t, util.NewDate(2023, 2, 28), obs[0].Date)
	})

	t.Run("no factor rows yields no observations", func(t *testing.T) {
		require.Empty(t, AlignResampleFirst(prices, nil))
	})
}

func Test_AlignCompoundDaily(t *testing.T) {
	t.Run("daily excess returns chain geometrically within a month", func(t *testing.T) {
		series := []domain.AssetPrice{{Symbol: "AAPL", Price: 100, Date: util.NewDate(2023, 1, 31)}}
		factors := []domain.FactorRow{}
		price := 100.0
		for day := 1; day <= 5; day++ {
			price *= 1.01
			series = append(series, domain.AssetPrice{
				Symbol: "AAPL", Price: price, Date: util.NewDate(2023, 2, day),
			})
			factors = append(factors, domain.FactorRow{
				Date: util.NewDate(2023, 2, day), MktMinusRF: 0.002, SMB: 0.0005, HML: -0.0005, RF: 0,
			})
		}

		obs := AlignCompoundDaily(domain.NewPriceTable(series), factors)

		require.Len(t, obs, 1)
		require.Equal(t, util.NewDate(2023, 2, 28), obs[0].Date)
		require.InDelta(t, math.Pow(1.01, 5)-1, obs[0].ExcessReturn, 1e-12)
		// the factor columns compound the same way
		require.InDelta(t, math.Pow(1.002, 5)-1, obs[0].MktMinusRF, 1e-12)
	})

	t.Run("agrees with the resample path on smooth data", func(t *testing.T) {
		series := []domain.AssetPrice{}
		daily := []domain.FactorRow{}
		price := 100.0
		date := util.NewDate(2023, 1, 1)
		for i := 0; i < 90; i++ {
			series = append(series, domain.AssetPrice{Symbol: "AAPL", Price: price, Date: date})
			daily = append(daily, domain.FactorRow{
				Date: date, MktMinusRF: 0.0004, SMB: 0.0001, HML: -0.0001, RF: 0.00005,
			})
			price *= 1.0005
			date = date.AddDate(0, 0, 1)
		}
		prices := domain.NewPriceTable(series)

		monthly := []domain.FactorRow{}
		for _, f := range compoundFactorsMonthly(daily) {
			monthly = append(monthly, f)
		}

		resampled := AlignResampleFirst(prices, monthly)
		compounded := AlignCompoundDaily(prices, daily)

		// the resample path starts at the first month-end, so it skips
		// January; index the compounded path by month
		compoundedByDate := map[string]domain.FactorObservation{}
		for _, o := range compounded {
			compoundedByDate[o.Date.Format("2006-01")] = o
		}

		require.Len(t, resampled, 2)
		for _, o := range resampled {
			other, ok := compoundedByDate[o.Date.Format("2006-01")]
			require.True(t, ok)
			require.InDelta(t, other.ExcessReturn, o.ExcessReturn, 1e-4)
		}
	})
}
