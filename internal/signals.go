package internal

import (
	"math"
	"time"

	"alphadash/internal/domain"

	"github.com/montanaflynn/stats"
)

// CompositeAlpha standardizes each feature cross-sectionally within every
// date and averages the z-scores into one score per (date, symbol).
// Scores are relative: they only rank assets against each other on the
// same date.
//
// When a feature has zero cross-sectional stdev on a date (all assets
// identical, or fewer than two assets), the feature carries no relative
// information and its standardized value is 0 for every asset that date.
func CompositeAlpha(panel domain.FeaturePanel) domain.AlphaTable {
	features := []func(domain.FeatureRow) float64{
		func(r domain.FeatureRow) float64 { return r.Momentum12M },
		func(r domain.FeatureRow) float64 { return r.Momentum3M },
		func(r domain.FeatureRow) float64 { return r.Vol60D },
	}

	out := domain.AlphaTable{Scores: map[time.Time]map[string]float64{}}

	for date, rows := range panel.ByDate() {
		composite := map[string]float64{}
		for _, feature := range features {
			values := make([]float64, len(rows))
			for i, row := range rows {
				values[i] = feature(row)
			}
			zScores := crossSectionalZScores(values)
			for i, row := range rows {
				composite[row.Symbol] += zScores[i] / float64(len(features))
			}
		}
		out.Scores[date] = composite
	}

	return out
}

func crossSectionalZScores(values []float64) []float64 {
	zScores := make([]float64, len(values))
	if len(values) < 2 {
		return zScores
	}

	mean, err := stats.Mean(values)
	if err != nil {
		return zScores
	}
	stdev, err := stats.StandardDeviationSample(values)
	if err != nil || degenerateStdev(stdev, mean) {
		return zScores
	}

	for i, v := range values {
		zScores[i] = (v - mean) / stdev
	}
	return zScores
}

// degenerateStdev reports whether the cross-sectional stdev is zero for
// standardization purposes. Identical inputs can produce a tiny nonzero
// stdev through accumulated rounding (e.g. three values of 0.10), and
// dividing by that noise turns equal assets into large fake z-scores, so
// anything below rounding scale counts as zero.
func degenerateStdev(stdev, mean float64) bool {
	scale := math.Abs(mean)
	if scale < 1 {
		scale = 1
	}
	return stdev < 1e-12*scale
}
