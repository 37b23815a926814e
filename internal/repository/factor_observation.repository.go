package repository

import (
	"database/sql"
	"fmt"
	"time"

	"alphadash/internal/db/models/postgres/public/model"
	. "alphadash/internal/db/models/postgres/public/table"
	"alphadash/internal/domain"

	. "github.com/go-jet/jet/v2/postgres"
)

// FactorObservationRepository persists the merged monthly factor table.
// It is the only derived artifact with on-disk persistence - everything
// else in the pipeline is recomputed per request. Entries are keyed by
// the requesting ticker set, so a universe change implicitly misses the
// cache. A rebuild overwrites the key wholesale; recomputation is
// idempotent so overwriting is always safe.
type FactorObservationRepository interface {
	// Get returns the cached table for the key, or ok=false when the
	// key is absent or every row is older than maxAge.
	Get(cacheKey string, maxAge time.Duration) ([]domain.FactorObservation, bool, error)
	Replace(cacheKey string, observations []domain.FactorObservation) error
}

func NewFactorObservationRepository(db *sql.DB) FactorObservationRepository {
	return factorObservationRepositoryHandler{Db: db}
}

type factorObservationRepositoryHandler struct {
	Db *sql.DB
}

func (h factorObservationRepositoryHandler) Get(cacheKey string, maxAge time.Duration) ([]domain.FactorObservation, bool, error) {
	query := FactorObservation.
		SELECT(FactorObservation.AllColumns).
		WHERE(FactorObservation.CacheKey.EQ(String(cacheKey))).
		ORDER_BY(FactorObservation.Date.ASC(), FactorObservation.Symbol.ASC())

	results := []model.FactorObservation{}
	err := query.Query(h.Db, &results)
	if err != nil {
		return nil, false, fmt.Errorf("failed to query factor observations for %s: %w", cacheKey, err)
	}
	if len(results) == 0 {
		return nil, false, nil
	}

	out := make([]domain.FactorObservation, len(results))
	for i, r := range results {
		if time.Since(r.CreatedAt) > maxAge {
			// stale cache entries are treated as absent
			return nil, false, nil
		}
		out[i] = domain.FactorObservation{
			Date:         r.Date,
			Symbol:       r.Symbol,
			ExcessReturn: r.ExcessReturn,
			MktMinusRF:   r.MktMinusRf,
			SMB:          r.Smb,
			HML:          r.Hml,
			RF:           r.Rf,
		}
	}

	return out, true, nil
}

func (h factorObservationRepositoryHandler) Replace(cacheKey string, observations []domain.FactorObservation) error {
	tx, err := h.Db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin tx: %w", err)
	}
	defer tx.Rollback()

	deleteQuery := FactorObservation.
		DELETE().
		WHERE(FactorObservation.CacheKey.EQ(String(cacheKey)))
	if _, err := deleteQuery.Exec(tx); err != nil {
		return fmt.Errorf("failed to clear factor observations for %s: %w", cacheKey, err)
	}

	if len(observations) > 0 {
		now := time.Now().UTC()
		models := make([]model.FactorObservation, len(observations))
		for i, o := range observations {
			models[i] = model.FactorObservation{
				CacheKey:     cacheKey,
				Symbol:       o.Symbol,
				Date:         o.Date,
				ExcessReturn: o.ExcessReturn,
				MktMinusRf:   o.MktMinusRF,
				Smb:          o.SMB,
				Hml:          o.HML,
				Rf:           o.RF,
				CreatedAt:    now,
			}
		}

		insertQuery := FactorObservation.
			INSERT(FactorObservation.MutableColumns).
			MODELS(models)
		if _, err := insertQuery.Exec(tx); err != nil {
			return fmt.Errorf("failed to insert factor observations for %s: %w", cacheKey, err)
		}
	}

	return tx.Commit()
}
