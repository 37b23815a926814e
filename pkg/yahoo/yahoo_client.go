package yahoo_client

import (
	"fmt"
	"time"

	"github.com/piquette/finance-go/chart"
	"github.com/piquette/finance-go/datetime"
	"github.com/shopspring/decimal"
)

type Bar struct {
	Date     time.Time
	AdjClose decimal.Decimal
}

// GetDailyBars fetches daily adjusted-close bars for one symbol from
// Yahoo Finance, from start through today. An unknown symbol surfaces as
// an error from the chart iterator - callers decide whether that drops
// the symbol or fails the request.
func GetDailyBars(symbol string, start time.Time) ([]Bar, error) {
	now := time.Now()
	params := &chart.Params{
		Start:    datetime.New(&start),
		End:      datetime.New(&now),
		Symbol:   symbol,
		Interval: datetime.OneDay,
	}
	iter := chart.Get(params)

	bars := []Bar{}
	for iter.Next() {
		ts := time.Unix(int64(iter.Bar().Timestamp), 0).UTC()
		bars = append(bars, Bar{
			Date:     time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, time.UTC),
			AdjClose: iter.Bar().AdjClose,
		})
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("failed to get bars for %s: %w", symbol, err)
	}

	return bars, nil
}
