package api

import (
	"errors"
	"fmt"
	"time"

	"alphadash/internal/domain"
	"alphadash/internal/service"

	"github.com/gin-gonic/gin"
)

type analyzeRequest struct {
	Tickers []string `json:"tickers"`
	Start   string   `json:"start"`
	Cutoff  string   `json:"cutoff"`
	// Quantile is the long-only fraction of the universe, e.g. 0.2
	Quantile float64 `json:"quantile"`
}

type performanceStatsJson struct {
	CAGR          float64 `json:"cagr"`
	AnnualizedVol float64 `json:"annualizedVol"`
	SharpeRatio   float64 `json:"sharpeRatio"`
	MaxDrawdown   float64 `json:"maxDrawdown"`
}

type periodReturnJson struct {
	Date   string  `json:"date"`
	Return float64 `json:"return"`
}

type equityPointJson struct {
	Date      string  `json:"date"`
	Model     float64 `json:"model"`
	Benchmark float64 `json:"benchmark"`
}

type analyzeResponse struct {
	MissingSymbols   []string                      `json:"missingSymbols"`
	Weights          map[string]map[string]float64 `json:"weights"`
	LatestWeights    map[string]float64            `json:"latestWeights"`
	Alpha            map[string]map[string]float64 `json:"alpha"`
	PortfolioReturns []periodReturnJson            `json:"portfolioReturns"`
	BenchmarkReturns []periodReturnJson            `json:"benchmarkReturns"`
	EquityCurve      []equityPointJson             `json:"equityCurve"`
	Stats            *performanceStatsJson         `json:"stats"`
	BenchmarkStats   *performanceStatsJson         `json:"benchmarkStats"`
	Signals          *service.LatestSignals        `json:"signals"`
}

func (m ApiHandler) analyze(c *gin.Context) {
	var requestBody analyzeRequest
	if err := c.ShouldBindJSON(&requestBody); err != nil {
		returnErrorJsonCode(fmt.Errorf("failed to read request body: %w", err), c, 400)
		return
	}

	start, err := parseDate(requestBody.Start)
	if err != nil {
		returnErrorJsonCode(err, c, 400)
		return
	}
	if start.IsZero() {
		start = time.Date(2015, 1, 1, 0, 0, 0, 0, time.UTC)
	}
	cutoff, err := parseDate(requestBody.Cutoff)
	if err != nil {
		returnErrorJsonCode(err, c, 400)
		return
	}
	quantile := requestBody.Quantile
	if quantile == 0 {
		quantile = 0.2
	}

	result, err := m.AnalysisService.Run(c.Request.Context(), service.AnalysisRequest{
		Tickers:  requestBody.Tickers,
		Start:    start,
		Cutoff:   cutoff,
		Quantile: quantile,
	})
	var noHistory service.NoPriceHistoryError
	if errors.As(err, &noHistory) {
		returnErrorJsonCode(err, c, 404)
		return
	}
	if err != nil {
		returnErrorJson(err, c)
		return
	}

	c.JSON(200, buildAnalyzeResponse(result))
}

func buildAnalyzeResponse(result *service.AnalysisResult) analyzeResponse {
	out := analyzeResponse{
		MissingSymbols:   result.MissingSymbols,
		Weights:          dateKeyedTable(result.Weights.Weights),
		Alpha:            dateKeyedTable(result.Alpha.Scores),
		PortfolioReturns: returnsJson(result.PortfolioReturns),
		BenchmarkReturns: returnsJson(result.BenchmarkReturns),
		EquityCurve:      equityCurve(result.PortfolioReturns, result.BenchmarkReturns),
		Stats:            statsJson(result.Stats),
		BenchmarkStats:   statsJson(result.BenchmarkStats),
		Signals:          result.Signals,
	}

	dates := result.Weights.Dates()
	if len(dates) > 0 {
		out.LatestWeights = result.Weights.Weights[dates[len(dates)-1]]
	}

	return out
}

func dateKeyedTable(in map[time.Time]map[string]float64) map[string]map[string]float64 {
	out := map[string]map[string]float64{}
	for date, row := range in {
		out[date.Format("2006-01-02")] = row
	}
	return out
}

func returnsJson(series domain.ReturnSeries) []periodReturnJson {
	out := make([]periodReturnJson, len(series.Returns))
	for i, r := range series.Returns {
		out[i] = periodReturnJson{
			Date:   r.Date.Format("2006-01-02"),
			Return: r.Return,
		}
	}
	return out
}

func statsJson(stats *domain.PerformanceStats) *performanceStatsJson {
	if stats == nil {
		return nil
	}
	return &performanceStatsJson{
		CAGR:          stats.CAGR,
		AnnualizedVol: stats.AnnualizedVol,
		SharpeRatio:   stats.SharpeRatio,
		MaxDrawdown:   stats.MaxDrawdown,
	}
}

// equityCurve compounds both return series into growth-of-a-dollar
// curves on the model's date axis. The benchmark carries its last value
// forward on dates it did not trade.
func equityCurve(model, benchmark domain.ReturnSeries) []equityPointJson {
	benchmarkValue := map[string]float64{}
	growth := 1.0
	for _, r := range benchmark.Returns {
		growth *= 1 + r.Return
		benchmarkValue[r.Date.Format("2006-01-02")] = growth
	}

	out := make([]equityPointJson, len(model.Returns))
	modelGrowth := 1.0
	lastBenchmark := 1.0
	for i, r := range model.Returns {
		modelGrowth *= 1 + r.Return
		date := r.Date.Format("2006-01-02")
		if v, ok := benchmarkValue[date]; ok {
			lastBenchmark = v
		}
		out[i] = equityPointJson{
			Date:      date,
			Model:     modelGrowth,
			Benchmark: lastBenchmark,
		}
	}
	return out
}
