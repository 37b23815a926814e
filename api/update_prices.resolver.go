package api

import (
	"fmt"
	"time"

	"alphadash/internal"

	"github.com/gin-gonic/gin"
)

type updatePricesRequest struct {
	Symbols []string `json:"symbols"`
	Start   string   `json:"start"`
}

func (m ApiHandler) updatePrices(c *gin.Context) {
	var requestBody updatePricesRequest
	if err := c.ShouldBindJSON(&requestBody); err != nil {
		returnErrorJsonCode(fmt.Errorf("failed to read request body: %w", err), c, 400)
		return
	}
	if len(requestBody.Symbols) == 0 {
		returnErrorJsonCode(fmt.Errorf("symbols are required"), c, 400)
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

	skipped, err := internal.EnsurePrices(requestBody.Symbols, start, m.PriceRepository)
	if err != nil {
		returnErrorJson(err, c)
		return
	}

	c.JSON(200, gin.H{
		"requested": len(requestBody.Symbols),
		"skipped":   skipped,
	})
}
