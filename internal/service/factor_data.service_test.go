package service

import (
	"context"
	"fmt"
	"math"
	"testing"
	"time"

	"alphadash/internal/domain"
	"alphadash/internal/util"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

type fakeFactorStore struct {
	cached     []domain.FactorObservation
	hit        bool
	getErr     error
	replaceErr error

	gotKey      string
	replacedKey string
	replaced    []domain.FactorObservation
}

func (f *fakeFactorStore) Get(cacheKey string, maxAge time.Duration) ([]domain.FactorObservation, bool, error) {
	f.gotKey = cacheKey
	if f.getErr != nil {
		return nil, false, f.getErr
	}
	return f.cached, f.hit, nil
}

func (f *fakeFactorStore) Replace(cacheKey string, observations []domain.FactorObservation) error {
	f.replacedKey = cacheKey
	f.replaced = observations
	return f.replaceErr
}

// monthlyPriceTable lays down one price per month end so the resample
// step is a pass-through.
func monthlyPriceTable(symbol string, months int) domain.PriceTable {
	prices := make([]domain.AssetPrice, months)
	price := 100.0
	for i := 0; i < months; i++ {
		prices[i] = domain.AssetPrice{
			Symbol: symbol,
			Price:  price,
			Date:   util.EndOfMonth(util.NewDate(2020, 1+i, 1)),
		}
		price *= 1.01
	}
	return domain.NewPriceTable(prices)
}

func monthlyFactors(months int) []domain.FactorRow {
	out := make([]domain.FactorRow, months)
	for i := 0; i < months; i++ {
		out[i] = domain.FactorRow{
			Date:       util.EndOfMonth(util.NewDate(2020, 1+i, 1)),
			MktMinusRF: 0.01 * math.Sin(float64(i)),
			SMB:        0.002 * math.Cos(1.3*float64(i)),
			HML:        -0.001 * math.Sin(0.7*float64(i)+1),
			RF:         0.0003,
		}
	}
	return out
}

func Test_FactorDataService_MergedTable(t *testing.T) {
	ctx := context.Background()

	t.Run("cache hit skips the rebuild", func(t *testing.T) {
		cached := []domain.FactorObservation{{
			Date: util.NewDate(2020, 1, 31), Symbol: "AAPL", ExcessReturn: 0.05,
		}}
		store := &fakeFactorStore{cached: cached, hit: true}
		priceService := &fakePriceService{}
		svc := NewFactorDataService(priceService, FactorSourceFunc(func() ([]domain.FactorRow, error) {
			t.Fatal("factor source should not be called on a cache hit")
			return nil, nil
		}), store)

		got, err := svc.MergedTable(ctx, []string{"AAPL"})
		require.NoError(t, err)

		require.Empty(t, cmp.Diff(cached, got))
		require.Zero(t, priceService.calls)
	})

	t.Run("cache miss rebuilds and writes back", func(t *testing.T) {
		store := &fakeFactorStore{}
		priceService := &fakePriceService{prices: monthlyPriceTable("AAPL", 24)}
		svc := NewFactorDataService(priceService, FactorSourceFunc(func() ([]domain.FactorRow, error) {
			return monthlyFactors(24), nil
		}), store)

		got, err := svc.MergedTable(ctx, []string{"AAPL"})
		require.NoError(t, err)

		// 24 month-end prices give 23 monthly returns
		require.Len(t, got, 23)
		require.Equal(t, "AAPL", store.replacedKey)
		require.Empty(t, cmp.Diff(got, store.replaced))
		require.InDelta(t, 0.01-0.0003, got[0].ExcessReturn, 1e-12)
	})

	t.Run("cache key is the sorted ticker set", func(t *testing.T) {
		store := &fakeFactorStore{}
		priceService := &fakePriceService{prices: monthlyPriceTable("AAPL", 24)}
		svc := NewFactorDataService(priceService, FactorSourceFunc(func() ([]domain.FactorRow, error) {
			return monthlyFactors(24), nil
		}), store)

		_, err := svc.MergedTable(ctx, []string{"MSFT", "AAPL"})
		require.NoError(t, err)

		require.Equal(t, "AAPL,MSFT", store.gotKey)
		require.Equal(t, "AAPL,MSFT", store.replacedKey)
	})

	t.Run("failed write-back still returns the table", func(t *testing.T) {
		store := &fakeFactorStore{replaceErr: fmt.Errorf("disk full")}
		priceService := &fakePriceService{prices: monthlyPriceTable("AAPL", 24)}
		svc := NewFactorDataService(priceService, FactorSourceFunc(func() ([]domain.FactorRow, error) {
			return monthlyFactors(24), nil
		}), store)

		got, err := svc.MergedTable(ctx, []string{"AAPL"})
		require.NoError(t, err)
		require.Len(t, got, 23)
	})

	t.Run("cache read failure errors", func(t *testing.T) {
		store := &fakeFactorStore{getErr: fmt.Errorf("db down")}
		svc := NewFactorDataService(&fakePriceService{}, FactorSourceFunc(func() ([]domain.FactorRow, error) {
			return nil, nil
		}), store)

		_, err := svc.MergedTable(ctx, []string{"AAPL"})
		require.ErrorContains(t, err, "factor cache")
	})

	t.Run("factor source failure errors", func(t *testing.T) {
		store := &fakeFactorStore{}
		priceService := &fakePriceService{prices: monthlyPriceTable("AAPL", 24)}
		svc := NewFactorDataService(priceService, FactorSourceFunc(func() ([]domain.FactorRow, error) {
			return nil, fmt.Errorf("vendor timeout")
		}), store)

		_, err := svc.MergedTable(ctx, []string{"AAPL"})
		require.ErrorContains(t, err, "factor data")
	})
}

func Test_FactorDataService_Regression(t *testing.T) {
	ctx := context.Background()
	cutoff := util.NewDate(2022, 12, 31)

	t.Run("fits the model from the merged table", func(t *testing.T) {
		store := &fakeFactorStore{}
		priceService := &fakePriceService{prices: monthlyPriceTable("AAPL", 24)}
		svc := NewFactorDataService(priceService, FactorSourceFunc(func() ([]domain.FactorRow, error) {
			return monthlyFactors(24), nil
		}), store)

		result, err := svc.Regression(ctx, []string{"AAPL"}, "AAPL", cutoff)
		require.NoError(t, err)
		require.NotNil(t, result)
		require.Equal(t, "AAPL", result.Symbol)
		require.Equal(t, 23, result.Observations)
	})

	t.Run("too little history yields nil", func(t *testing.T) {
		store := &fakeFactorStore{}
		priceService := &fakePriceService{prices: monthlyPriceTable("AAPL", 6)}
		svc := NewFactorDataService(priceService, FactorSourceFunc(func() ([]domain.FactorRow, error) {
			return monthlyFactors(6), nil
		}), store)

		result, err := svc.Regression(ctx, []string{"AAPL"}, "AAPL", cutoff)
		require.NoError(t, err)
		require.Nil(t, result)
	})
}
