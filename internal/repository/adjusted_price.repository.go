package repository

import (
	"database/sql"
	"fmt"
	"time"

	"alphadash/internal/db/models/postgres/public/model"
	. "alphadash/internal/db/models/postgres/public/table"
	"alphadash/internal/domain"

	. "github.com/go-jet/jet/v2/postgres"
	"github.com/go-jet/jet/v2/qrm"
)

type AdjustedPriceRepository interface {
	Add([]model.AdjustedPrice) error
	List(symbols []string, start time.Time) ([]domain.AssetPrice, error)
	LatestDate(symbol string) (*time.Time, error)
}

func NewAdjustedPriceRepository(db *sql.DB) AdjustedPriceRepository {
	return adjustedPriceRepositoryHandler{Db: db}
}

type adjustedPriceRepositoryHandler struct {
	Db *sql.DB
}

func (h adjustedPriceRepositoryHandler) Add(adjPrices []model.AdjustedPrice) error {
	if len(adjPrices) == 0 {
		return nil
	}
	query := AdjustedPrice.
		INSERT(AdjustedPrice.MutableColumns).
		MODELS(adjPrices).
		ON_CONFLICT(
			AdjustedPrice.Symbol, AdjustedPrice.Date,
		).DO_UPDATE(
		SET(
			AdjustedPrice.Price.SET(AdjustedPrice.EXCLUDED.Price),
		),
	)

	_, err := query.Exec(h.Db)
	if err != nil {
		return fmt.Errorf("failed to add adjusted prices to db: %w", err)
	}

	return nil
}

func (h adjustedPriceRepositoryHandler) List(symbols []string, start time.Time) ([]domain.AssetPrice, error) {
	if len(symbols) == 0 {
		return []domain.AssetPrice{}, nil
	}

	symbolExpressions := []Expression{}
	for _, s := range symbols {
		symbolExpressions = append(symbolExpressions, String(s))
	}

	query := AdjustedPrice.
		SELECT(AdjustedPrice.AllColumns).
		WHERE(
			AND(
				AdjustedPrice.Symbol.IN(symbolExpressions...),
				AdjustedPrice.Date.GT_EQ(DateT(start)),
			),
		).
		ORDER_BY(AdjustedPrice.Symbol.ASC(), AdjustedPrice.Date.ASC())

	results := []model.AdjustedPrice{}
	err := query.Query(h.Db, &results)
	if err != nil {
		return nil, fmt.Errorf("failed to list adjusted prices: %w", err)
	}

	out := make([]domain.AssetPrice, len(results))
	for i, r := range results {
		out[i] = domain.AssetPrice{
			Symbol: r.Symbol,
			Price:  r.Price,
			Date:   r.Date,
		}
	}

	return out, nil
}

// LatestDate returns the most recent stored price date for the symbol,
// or nil when the symbol has never been ingested.
func (h adjustedPriceRepositoryHandler) LatestDate(symbol string) (*time.Time, error) {
	query := AdjustedPrice.
		SELECT(AdjustedPrice.AllColumns).
		WHERE(AdjustedPrice.Symbol.EQ(String(symbol))).
		ORDER_BY(AdjustedPrice.Date.DESC()).
		LIMIT(1)

	result := model.AdjustedPrice{}
	err := query.Query(h.Db, &result)
	if err == qrm.ErrNoRows {
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to query latest price date for %s: %w", symbol, err)
	}

	return &result.Date, nil
}
