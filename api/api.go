package api

import (
	"context"
	"fmt"
	"time"

	"alphadash/internal/domain"
	"alphadash/internal/logger"
	"alphadash/internal/repository"
	"alphadash/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ApiHandler struct {
	AnalysisService   service.AnalysisService
	FactorDataService service.FactorDataService
	PriceService      service.PriceService
	PriceRepository   repository.AdjustedPriceRepository
}

func (m ApiHandler) StartApi(port int) error {
	router := gin.Default()
	router.Use(cors.Default())
	router.Use(m.logRequestMiddleware)

	router.GET("/", func(ctx *gin.Context) {
		ctx.JSON(200, map[string]string{"message": "welcome to alphadash"})
	})
	router.POST("/analyze", m.analyze)
	router.POST("/regression", m.regression)
	router.POST("/technicals", m.technicals)
	router.POST("/updatePrices", m.updatePrices)

	return router.Run(fmt.Sprintf(":%d", port))
}

func returnErrorJson(err error, c *gin.Context) {
	logger.FromContext(c.Request.Context()).Error(err.Error())
	c.AbortWithStatusJSON(500, gin.H{
		"error": err.Error(),
	})
}

func returnErrorJsonCode(err error, c *gin.Context, code int) {
	logger.FromContext(c.Request.Context()).Error(err.Error())
	c.AbortWithStatusJSON(code, gin.H{
		"error": err.Error(),
	})
}

// logRequestMiddleware stamps each request with an id, attaches a scoped
// logger and a profile to the context, and logs timing on the way out.
func (m ApiHandler) logRequestMiddleware(c *gin.Context) {
	requestID := uuid.New()
	log := logger.New().With("requestID", requestID.String(), "route", c.Request.URL.Path)

	profile, endProfile := domain.NewProfile()

	ctx := c.Request.Context()
	ctx = context.WithValue(ctx, logger.ContextKey, log)
	ctx = context.WithValue(ctx, domain.ContextProfileKey, profile)
	c.Request = c.Request.WithContext(ctx)

	start := time.Now().UTC()
	c.Next()
	endProfile()

	log.Infow("request complete",
		"statusCode", c.Writer.Status(),
		"durationMs", time.Since(start).Milliseconds(),
	)
}

func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse("2006-01-02", s)
}
