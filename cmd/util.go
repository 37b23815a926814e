package cmd

import (
	"database/sql"
	"fmt"

	"alphadash/api"
	"alphadash/internal"
	"alphadash/internal/repository"
	"alphadash/internal/service"
	famafrench_client "alphadash/pkg/famafrench"

	_ "github.com/lib/pq"
)

func InitializeDependencies() (*api.ApiHandler, error) {
	secrets, err := internal.LoadSecrets()
	if err != nil {
		return nil, fmt.Errorf("failed to load secrets: %w", err)
	}

	dbConn, err := sql.Open("postgres", secrets.Db.ToConnectionStr())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to db: %w", err)
	}

	priceRepository := repository.NewAdjustedPriceRepository(dbConn)
	factorObservationRepository := repository.NewFactorObservationRepository(dbConn)

	priceService := service.NewPriceService(priceRepository)
	analysisService := service.NewAnalysisService(priceService)
	factorDataService := service.NewFactorDataService(
		priceService,
		service.FactorSourceFunc(famafrench_client.GetMonthlyFactors),
		factorObservationRepository,
	)

	return &api.ApiHandler{
		AnalysisService:   analysisService,
		FactorDataService: factorDataService,
		PriceService:      priceService,
		PriceRepository:   priceRepository,
	}, nil
}
