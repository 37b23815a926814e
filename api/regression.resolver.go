package api

import (
	"fmt"
	"time"

	"alphadash/internal/factor"

	"github.com/gin-gonic/gin"
)

type regressionRequest struct {
	Tickers []string `json:"tickers"`
	Symbol  string   `json:"symbol"`
	Cutoff  string   `json:"cutoff"`
}

type regressionResponse struct {
	Symbol string `json:"symbol"`
	Cutoff string `json:"cutoff"`

	Alpha     float64 `json:"alpha"`
	MktBeta   float64 `json:"mktBeta"`
	SizeBeta  float64 `json:"sizeBeta"`
	ValueBeta float64 `json:"valueBeta"`

	AlphaStdErr     float64 `json:"alphaStdErr"`
	MktBetaStdErr   float64 `json:"mktBetaStdErr"`
	SizeBetaStdErr  float64 `json:"sizeBetaStdErr"`
	ValueBetaStdErr float64 `json:"valueBetaStdErr"`

	PredictedExcessReturn float64 `json:"predictedExcessReturn"`
	Observations          int     `json:"observations"`
}

type insufficientDataResponse struct {
	InsufficientData bool `json:"insufficientData"`
	MinObservations  int  `json:"minObservations"`
}

func (m ApiHandler) regression(c *gin.Context) {
	var requestBody regressionRequest
	if err := c.ShouldBindJSON(&requestBody); err != nil {
		returnErrorJsonCode(fmt.Errorf("failed to read request body: %w", err), c, 400)
		return
	}
	if requestBody.Symbol == "" {
		returnErrorJsonCode(fmt.Errorf("symbol is required"), c, 400)
		return
	}

	cutoff, err := parseDate(requestBody.Cutoff)
	if err != nil {
		returnErrorJsonCode(err, c, 400)
		return
	}
	if cutoff.IsZero() {
		cutoff = time.Now().UTC()
	}

	tickers := requestBody.Tickers
	if len(tickers) == 0 {
		tickers = []string{requestBody.Symbol}
	}

	result, err := m.FactorDataService.Regression(c.Request.Context(), tickers, requestBody.Symbol, cutoff)
	if err != nil {
		returnErrorJson(err, c)
		return
	}
	if result == nil {
		c.JSON(200, insufficientDataResponse{
			InsufficientData: true,
			MinObservations:  factor.MinObservations,
		})
		return
	}

	c.JSON(200, regressionResponse{
		Symbol:                result.Symbol,
		Cutoff:                result.Cutoff.Format("2006-01-02"),
		Alpha:                 result.Alpha,
		MktBeta:               result.MktBeta,
		SizeBeta:              result.SizeBeta,
		ValueBeta:             result.ValueBeta,
		AlphaStdErr:           result.AlphaStdErr,
		MktBetaStdErr:         result.MktBetaStdErr,
		SizeBetaStdErr:        result.SizeBetaStdErr,
		ValueBetaStdErr:       result.ValueBetaStdErr,
		PredictedExcessReturn: result.PredictedExcessReturn,
		Observations:          result.Observations,
	})
}
