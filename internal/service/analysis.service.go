package service

import (
	"context"
	"fmt"
	"time"

	"alphadash/internal"
	"alphadash/internal/calculator"
	"alphadash/internal/domain"
)

// AnalysisRequest is the full request configuration for one pipeline
// run. Everything the pipeline needs arrives here explicitly - there is
// no ambient session state.
type AnalysisRequest struct {
	Tickers  []string
	Start    time.Time
	Cutoff   time.Time
	Quantile float64
}

// NoPriceHistoryError means none of the requested tickers had any usable
// price history, so there is nothing to analyze.
type NoPriceHistoryError struct {
	Tickers []string
}

func (e NoPriceHistoryError) Error() string {
	return fmt.Sprintf("no price history available for any of %v", e.Tickers)
}

type LatestSignals struct {
	AsOf  time.Time `json:"asOf"`
	Buys  []string  `json:"buys"`
	Sells []string  `json:"sells"`
}

type AnalysisResult struct {
	MissingSymbols   []string
	Panel            domain.FeaturePanel
	Alpha            domain.AlphaTable
	Weights          domain.WeightMatrix
	PortfolioReturns domain.ReturnSeries
	BenchmarkReturns domain.ReturnSeries

	// Stats are nil when the backtest produced no returns (not enough
	// history for any feature row) - an insufficient-data outcome, not
	// an error.
	Stats          *domain.PerformanceStats
	BenchmarkStats *domain.PerformanceStats
	Signals        *LatestSignals
}

type AnalysisService struct {
	PriceService PriceService
}

func NewAnalysisService(priceService PriceService) AnalysisService {
	return AnalysisService{PriceService: priceService}
}

// Run executes the signal pipeline end to end: prices to feature panel
// to composite alpha to long-only weights to backtested returns, plus
// the equal-weight buy-and-hold benchmark over the same dates.
func (s AnalysisService) Run(ctx context.Context, in AnalysisRequest) (*AnalysisResult, error) {
	if len(in.Tickers) == 0 {
		return nil, fmt.Errorf("cannot run analysis with no tickers")
	}

	profile := domain.GetProfile(ctx)

	prices, err := s.PriceService.DailyPrices(ctx, in.Tickers, in.Start)
	if err != nil {
		return nil, fmt.Errorf("failed to load prices: %w", err)
	}
	missing := prices.MissingSymbols(in.Tickers)
	if !in.Cutoff.IsZero() {
		prices = prices.Truncate(in.Cutoff)
	}
	if len(prices.Series) == 0 {
		return nil, NoPriceHistoryError{Tickers: in.Tickers}
	}

	span := profile.StartNewSpan("building feature panel")
	panel := internal.BuildFeaturePanel(prices)
	span.End()

	span = profile.StartNewSpan("scoring alpha")
	alpha := internal.CompositeAlpha(panel)
	span.End()

	span = profile.StartNewSpan("calculating weights")
	weights, err := internal.CalculateLongOnlyWeights(internal.LongOnlyWeightsInput{
		Alpha:    alpha,
		Quantile: in.Quantile,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to calculate weights: %w", err)
	}
	span.End()

	span = profile.StartNewSpan("backtesting")
	portfolioReturns := internal.BacktestPortfolio(weights, prices)

	benchmark := internal.EqualWeightBenchmark(prices.Symbols(), weights.Dates())
	benchmarkReturns := internal.BacktestPortfolio(benchmark, prices)
	span.End()

	out := &AnalysisResult{
		MissingSymbols:   missing,
		Panel:            panel,
		Alpha:            alpha,
		Weights:          weights,
		PortfolioReturns: portfolioReturns,
		BenchmarkReturns: benchmarkReturns,
		Signals:          latestSignals(weights, prices.Symbols()),
	}

	if len(portfolioReturns.Returns) > 0 {
		stats, err := calculator.CalculatePerformanceStats(portfolioReturns)
		if err != nil {
			return nil, fmt.Errorf("failed to calculate performance stats: %w", err)
		}
		out.Stats = stats
	}
	if len(benchmarkReturns.Returns) > 0 {
		stats, err := calculator.CalculatePerformanceStats(benchmarkReturns)
		if err != nil {
			return nil, fmt.Errorf("failed to calculate benchmark stats: %w", err)
		}
		out.BenchmarkStats = stats
	}

	return out, nil
}

// latestSignals splits the universe into the symbols held on the most
// recent weight date and everything else.
func latestSignals(weights domain.WeightMatrix, universe []string) *LatestSignals {
	dates := weights.Dates()
	if len(dates) == 0 {
		return nil
	}
	last := dates[len(dates)-1]

	held := map[string]bool{}
	buys := []string{}
	for symbol, w := range weights.Weights[last] {
		if w > 0 {
			held[symbol] = true
		}
	}
	sells := []string{}
	for _, symbol := range universe {
		if held[symbol] {
			buys = append(buys, symbol)
		} else {
			sells = append(sells, symbol)
		}
	}

	return &LatestSignals{
		AsOf:  last,
		Buys:  buys,
		Sells: sells,
	}
}
