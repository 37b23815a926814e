package api

import (
	"fmt"
	"time"

	"alphadash/internal"

	"github.com/gin-gonic/gin"
)

type technicalsRequest struct {
	Symbol string `json:"symbol"`
	Start  string `json:"start"`
}

func (m ApiHandler) technicals(c *gin.Context) {
	var requestBody technicalsRequest
	if err := c.ShouldBindJSON(&requestBody); err != nil {
		returnErrorJsonCode(fmt.Errorf("failed to read request body: %w", err), c, 400)
		return
	}
	if requestBody.Symbol == "" {
		returnErrorJsonCode(fmt.Errorf("symbol is required"), c, 400)
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

	prices, err := m.PriceService.DailyPrices(c.Request.Context(), []string{requestBody.Symbol}, start)
	if err != nil {
		returnErrorJson(err, c)
		return
	}
	if len(prices.Series[requestBody.Symbol]) == 0 {
		returnErrorJsonCode(fmt.Errorf("no price history for %s", requestBody.Symbol), c, 404)
		return
	}

	c.JSON(200, gin.H{
		"symbol": requestBody.Symbol,
		"rows":   internal.ComputeTechnicals(prices, requestBody.Symbol),
	})
}
