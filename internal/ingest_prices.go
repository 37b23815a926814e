package internal

import (
	"fmt"
	"time"

	"alphadash/internal/db/models/postgres/public/model"
	"alphadash/internal/logger"
	"alphadash/internal/repository"
	yahoo_client "alphadash/pkg/yahoo"
)

// IngestPrices pulls daily adjusted closes for one symbol from the price
// vendor and upserts them into the adjusted_price table.
func IngestPrices(symbol string, start time.Time, adjPricesRepository repository.AdjustedPriceRepository) error {
	bars, err := yahoo_client.GetDailyBars(symbol, start)
	if err != nil {
		return fmt.Errorf("failed to get prices for %s: %w", symbol, err)
	}

	models := []model.AdjustedPrice{}
	for _, bar := range bars {
		models = append(models, model.AdjustedPrice{
			Symbol:    symbol,
			Date:      bar.Date,
			Price:     bar.AdjClose.InexactFloat64(),
			CreatedAt: time.Now().UTC(),
		})
	}

	err = adjPricesRepository.Add(models)
	if err != nil {
		return err
	}

	return nil
}

// EnsurePrices ingests any symbol whose stored history is missing or
// more than a week stale. A symbol the vendor does not recognize is
// skipped, not fatal - it simply stays absent from the price table and
// shows up in the missing set downstream. Returns the symbols skipped.
func EnsurePrices(symbols []string, start time.Time, adjPricesRepository repository.AdjustedPriceRepository) ([]string, error) {
	log := logger.New()
	staleBefore := time.Now().UTC().AddDate(0, 0, -7)

	skipped := []string{}
	for _, symbol := range symbols {
		latest, err := adjPricesRepository.LatestDate(symbol)
		if err != nil {
			return nil, fmt.Errorf("failed to check latest price for %s: %w", symbol, err)
		}
		if latest != nil && latest.After(staleBefore) {
			continue
		}

		if err := IngestPrices(symbol, start, adjPricesRepository); err != nil {
			log.Warnf("dropping %s from universe: %v", symbol, err)
			skipped = append(skipped, symbol)
		}
	}

	return skipped, nil
}
