package domain

import (
	"sort"
	"time"
)

type AssetPrice struct {
	Symbol string
	Price  float64
	Date   time.Time
}

// PriceTable holds daily adjusted close prices, one series per symbol.
// Each series is sorted ascending by date with no duplicate dates. An
// asset with a shorter history simply has a shorter series - gaps in one
// asset never affect another.
type PriceTable struct {
	Series map[string][]AssetPrice
}

func NewPriceTable(prices []AssetPrice) PriceTable {
	bySymbol := map[string][]AssetPrice{}
	for _, p := range prices {
		bySymbol[p.Symbol] = append(bySymbol[p.Symbol], p)
	}
	for symbol, series := range bySymbol {
		sort.Slice(series, func(i, j int) bool {
			return series[i].Date.Before(series[j].Date)
		})
		deduped := series[:0]
		for i, p := range series {
			if i > 0 && p.Date.Equal(deduped[len(deduped)-1].Date) {
				deduped[len(deduped)-1] = p
				continue
			}
			deduped = append(deduped, p)
		}
		bySymbol[symbol] = deduped
	}
	return PriceTable{Series: bySymbol}
}

func (t PriceTable) Symbols() []string {
	symbols := []string{}
	for symbol := range t.Series {
		symbols = append(symbols, symbol)
	}
	sort.Strings(symbols)
	return symbols
}

// MissingSymbols returns the requested symbols that have no price series,
// so callers can surface assets the price source silently dropped.
func (t PriceTable) MissingSymbols(requested []string) []string {
	missing := []string{}
	for _, symbol := range requested {
		if len(t.Series[symbol]) == 0 {
			missing = append(missing, symbol)
		}
	}
	sort.Strings(missing)
	return missing
}

// Truncate drops all prices after the cutoff date.
func (t PriceTable) Truncate(cutoff time.Time) PriceTable {
	out := map[string][]AssetPrice{}
	for symbol, series := range t.Series {
		n := sort.Search(len(series), func(i int) bool {
			return series[i].Date.After(cutoff)
		})
		if n > 0 {
			out[symbol] = series[:n]
		}
	}
	return PriceTable{Series: out}
}
