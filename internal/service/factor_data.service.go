package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"alphadash/internal/domain"
	"alphadash/internal/factor"
	"alphadash/internal/logger"
	"alphadash/internal/repository"
)

// factorCacheTTL matches the half-day refresh cadence of the source
// data - factor updates land at most daily.
const factorCacheTTL = 12 * time.Hour

// factorHistoryStart is how far back prices are pulled for the merged
// table. Regressions want long monthly histories regardless of the
// backtest window the user picked.
var factorHistoryStart = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)

type FactorSource interface {
	GetMonthlyFactors() ([]domain.FactorRow, error)
}

type FactorSourceFunc func() ([]domain.FactorRow, error)

func (f FactorSourceFunc) GetMonthlyFactors() ([]domain.FactorRow, error) {
	return f()
}

type FactorDataService struct {
	PriceService PriceService
	FactorSource FactorSource
	Store        repository.FactorObservationRepository
}

func NewFactorDataService(
	priceService PriceService,
	factorSource FactorSource,
	store repository.FactorObservationRepository,
) FactorDataService {
	return FactorDataService{
		PriceService: priceService,
		FactorSource: factorSource,
		Store:        store,
	}
}

// MergedTable returns the monthly factor-aligned table for a ticker set,
// serving from the persisted cache when a fresh enough copy exists. The
// cache key is the sorted ticker set, so changing the universe is an
// implicit invalidation. Rebuilds overwrite the cached copy; the
// computation is deterministic so overwriting is always safe.
func (s FactorDataService) MergedTable(ctx context.Context, tickers []string) ([]domain.FactorObservation, error) {
	log := logger.FromContext(ctx)
	key := cacheKey(tickers)

	cached, ok, err := s.Store.Get(key, factorCacheTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to read factor cache: %w", err)
	}
	if ok {
		return cached, nil
	}

	prices, err := s.PriceService.DailyPrices(ctx, tickers, factorHistoryStart)
	if err != nil {
		return nil, fmt.Errorf("failed to load prices for factor table: %w", err)
	}

	factors, err := s.FactorSource.GetMonthlyFactors()
	if err != nil {
		return nil, fmt.Errorf("failed to load factor data: %w", err)
	}

	observations := factor.AlignResampleFirst(prices, factors)

	if err := s.Store.Replace(key, observations); err != nil {
		// a failed write-back only costs the next request a rebuild
		log.Warnf("failed to cache factor table for %s: %v", key, err)
	}

	return observations, nil
}

// Regression fits the three factor model for one symbol, training on
// aligned rows at or before the cutoff. A nil result means fewer than
// the minimum monthly observations were available.
func (s FactorDataService) Regression(ctx context.Context, tickers []string, symbol string, cutoff time.Time) (*domain.RegressionResult, error) {
	observations, err := s.MergedTable(ctx, tickers)
	if err != nil {
		return nil, err
	}

	return factor.FitFactorModel(observations, symbol, cutoff)
}

func cacheKey(tickers []string) string {
	sorted := make([]string, len(tickers))
	copy(sorted, tickers)
	sort.Strings(sorted)
	return strings.Join(sorted, ",")
}
