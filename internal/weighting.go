package internal

import (
	"fmt"
	"math"
	"sort"
	"time"

	"alphadash/internal/domain"
)

const weightSumTolerance = 1e-9

type LongOnlyWeightsInput struct {
	Alpha domain.AlphaTable
	// Quantile is the fraction of the ranked universe that goes long,
	// e.g. 0.2 holds the top 20% by alpha. Must be in (0, 1).
	Quantile float64
}

// CalculateLongOnlyWeights converts alpha scores into a long-only, fully
// invested weight matrix. For each date independently, assets are ranked
// by alpha descending and the ones whose percentile rank falls within the
// top quantile receive equal weight; everything else gets zero. Dates
// where nothing qualifies produce an all-zero row rather than an error.
//
// Ties in alpha break by symbol ascending, so the ranking is
// deterministic across runs.
func CalculateLongOnlyWeights(in LongOnlyWeightsInput) (domain.WeightMatrix, error) {
	if in.Quantile <= 0 || in.Quantile >= 1 {
		return domain.WeightMatrix{}, fmt.Errorf("quantile must be in (0, 1), got %f", in.Quantile)
	}

	out := domain.WeightMatrix{Weights: map[time.Time]map[string]float64{}}

	for date, scores := range in.Alpha.Scores {
		weights := longOnlyWeightsForDate(scores, in.Quantile)

		sum := 0.0
		for symbol, w := range weights {
			if math.IsNaN(w) {
				return domain.WeightMatrix{}, fmt.Errorf("invalid weight NaN for %s on %v", symbol, date)
			}
			sum += w
		}
		if sum != 0 && math.Abs(sum-1) > weightSumTolerance {
			return domain.WeightMatrix{}, fmt.Errorf("weights on %v should sum to 1, got %f", date, sum)
		}

		out.Weights[date] = weights
	}

	return out, nil
}

func longOnlyWeightsForDate(scores map[string]float64, quantile float64) map[string]float64 {
	ranked := rankedSymbols(scores)

	weights := map[string]float64{}
	for _, symbol := range ranked {
		weights[symbol] = 0
	}

	selected := 0
	n := float64(len(ranked))
	for i := range ranked {
		percentile := float64(i+1) / n
		if percentile <= quantile+weightSumTolerance {
			selected++
		}
	}
	if selected == 0 {
		return weights
	}

	for _, symbol := range ranked[:selected] {
		weights[symbol] = 1.0 / float64(selected)
	}
	return weights
}

// rankedSymbols orders symbols by alpha descending, ties broken by
// symbol ascending.
func rankedSymbols(scores map[string]float64) []string {
	symbols := []string{}
	for symbol := range scores {
		symbols = append(symbols, symbol)
	}
	sort.Slice(symbols, func(i, j int) bool {
		si, sj := scores[symbols[i]], scores[symbols[j]]
		if si == sj {
			return symbols[i] < symbols[j]
		}
		return si > sj
	})
	return symbols
}
