package factor

import (
	"sort"
	"time"

	"alphadash/internal/domain"
	"alphadash/internal/util"
)

// The merged table joins per-asset monthly excess returns against monthly
// factor values. The one invariant that matters here: both sides of the
// join must be monthly and in decimal units before they meet. Daily
// factor values against monthly stock returns inflates every loading by
// roughly the number of trading days in a month.

type monthKey struct {
	year  int
	month time.Month
}

func keyOf(t time.Time) monthKey {
	return monthKey{year: t.Year(), month: t.Month()}
}

// AlignResampleFirst converts each asset's daily prices to month-end
// prices, computes monthly simple returns, subtracts the monthly
// risk-free rate and inner-joins against already-monthly factor rows.
// This is the production alignment path.
func AlignResampleFirst(prices domain.PriceTable, monthlyFactors []domain.FactorRow) []domain.FactorObservation {
	factorByMonth := map[monthKey]domain.FactorRow{}
	for _, f := range monthlyFactors {
		factorByMonth[keyOf(f.Date)] = f
	}

	out := []domain.FactorObservation{}
	for _, symbol := range prices.Symbols() {
		series := prices.Series[symbol]

		monthEnds := resampleMonthEnd(series)
		for i := 1; i < len(monthEnds); i++ {
			f, ok := factorByMonth[keyOf(monthEnds[i].Date)]
			if !ok {
				continue
			}
			monthlyReturn := (monthEnds[i].Price - monthEnds[i-1].Price) / monthEnds[i-1].Price
			out = append(out, domain.FactorObservation{
				Date:         util.EndOfMonth(monthEnds[i].Date),
				Symbol:       symbol,
				ExcessReturn: monthlyReturn - f.RF,
				MktMinusRF:   f.MktMinusRF,
				SMB:          f.SMB,
				HML:          f.HML,
				RF:           f.RF,
			})
		}
	}

	sortObservations(out)
	return out
}

// AlignCompoundDaily computes daily excess returns (daily return minus
// daily risk-free rate, both daily decimals), geometrically chains them
// within each calendar month, and compounds the daily factors into
// monthly factors the same way. Kept as the cross-check for the
// production path; both strategies must materially agree.
func AlignCompoundDaily(prices domain.PriceTable, dailyFactors []domain.FactorRow) []domain.FactorObservation {
	factorByDate := map[time.Time]domain.FactorRow{}
	for _, f := range dailyFactors {
		factorByDate[f.Date] = f
	}
	monthlyFactors := compoundFactorsMonthly(dailyFactors)

	out := []domain.FactorObservation{}
	for _, symbol := range prices.Symbols() {
		series := prices.Series[symbol]

		compounded := map[monthKey]float64{}
		for i := 1; i < len(series); i++ {
			f, ok := factorByDate[series[i].Date]
			if !ok {
				continue
			}
			dailyReturn := (series[i].Price - series[i-1].Price) / series[i-1].Price
			excess := dailyReturn - f.RF

			key := keyOf(series[i].Date)
			if _, ok := compounded[key]; !ok {
				compounded[key] = 1
			}
			compounded[key] *= 1 + excess
		}

		for key, growth := range compounded {
			f, ok := monthlyFactors[key]
			if !ok {
				continue
			}
			out = append(out, domain.FactorObservation{
				Date:         util.EndOfMonth(util.NewDate(key.year, int(key.month), 1)),
				Symbol:       symbol,
				ExcessReturn: growth - 1,
				MktMinusRF:   f.MktMinusRF,
				SMB:          f.SMB,
				HML:          f.HML,
				RF:           f.RF,
			})
		}
	}

	sortObservations(out)
	return out
}

// resampleMonthEnd keeps the last observed price of each calendar month.
func resampleMonthEnd(series []domain.AssetPrice) []domain.AssetPrice {
	out := []domain.AssetPrice{}
	for _, p := range series {
		if len(out) > 0 && util.SameMonth(out[len(out)-1].Date, p.Date) {
			out[len(out)-1] = p
			continue
		}
		out = append(out, p)
	}
	return out
}

func compoundFactorsMonthly(dailyFactors []domain.FactorRow) map[monthKey]domain.FactorRow {
	growth := map[monthKey]*domain.FactorRow{}
	for _, f := range dailyFactors {
		key := keyOf(f.Date)
		g, ok := growth[key]
		if !ok {
			g = &domain.FactorRow{
				Date:       util.EndOfMonth(f.Date),
				MktMinusRF: 1,
				SMB:        1,
				HML:        1,
				RF:         1,
			}
			growth[key] = g
		}
		g.MktMinusRF *= 1 + f.MktMinusRF
		g.SMB *= 1 + f.SMB
		g.HML *= 1 + f.HML
		g.RF *= 1 + f.RF
	}

	out := map[monthKey]domain.FactorRow{}
	for key, g := range growth {
		out[key] = domain.FactorRow{
			Date:       g.Date,
			MktMinusRF: g.MktMinusRF - 1,
			SMB:        g.SMB - 1,
			HML:        g.HML - 1,
			RF:         g.RF - 1,
		}
	}
	return out
}

func sortObservations(obs []domain.FactorObservation) {
	sort.Slice(obs, func(i, j int) bool {
		if obs[i].Date.Equal(obs[j].Date) {
			return obs[i].Symbol < obs[j].Symbol
		}
		return obs[i].Date.Before(obs[j].Date)
	})
}
