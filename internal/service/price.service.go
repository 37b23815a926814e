package service

import (
	"context"
	"fmt"
	"time"

	"alphadash/internal"
	"alphadash/internal/domain"
	"alphadash/internal/repository"
)

// PriceService hands the pipeline a price table for a requested ticker
// set. Symbols the vendor does not recognize are absent from the result,
// never an error - callers use PriceTable.MissingSymbols to see what was
// dropped.
type PriceService interface {
	DailyPrices(ctx context.Context, symbols []string, start time.Time) (domain.PriceTable, error)
}

func NewPriceService(adjPriceRepository repository.AdjustedPriceRepository) PriceService {
	return priceServiceHandler{AdjPriceRepository: adjPriceRepository}
}

type priceServiceHandler struct {
	AdjPriceRepository repository.AdjustedPriceRepository
}

func (h priceServiceHandler) DailyPrices(ctx context.Context, symbols []string, start time.Time) (domain.PriceTable, error) {
	profile := domain.GetProfile(ctx)
	span := profile.StartNewSpan("loading daily prices")
	defer span.End()

	_, err := internal.EnsurePrices(symbols, start, h.AdjPriceRepository)
	if err != nil {
		return domain.PriceTable{}, fmt.Errorf("failed to ensure prices: %w", err)
	}

	prices, err := h.AdjPriceRepository.List(symbols, start)
	if err != nil {
		return domain.PriceTable{}, err
	}

	return domain.NewPriceTable(prices), nil
}
