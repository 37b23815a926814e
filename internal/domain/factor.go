package domain

import "time"

// FactorRow is one period of Fama-French research factors. Values are
// decimal fractions per period (0.01 == 1%), never raw percent - the
// percent conversion happens exactly once, in the factor client.
type FactorRow struct {
	Date       time.Time
	MktMinusRF float64
	SMB        float64
	HML        float64
	RF         float64
}

// FactorObservation is one row of the merged monthly table: an asset's
// monthly excess return aligned with the same month's factor values.
// Everything here is monthly and decimal - mixing periodicities or units
// in this struct is the bug class the alignment layer exists to prevent.
type FactorObservation struct {
	Date         time.Time
	Symbol       string
	ExcessReturn float64
	MktMinusRF   float64
	SMB          float64
	HML          float64
	RF           float64
}

type RegressionResult struct {
	Symbol string
	Cutoff time.Time

	Alpha     float64
	MktBeta   float64
	SizeBeta  float64
	ValueBeta float64

	// HAC (Newey-West, lag 3) standard errors, same order as the
	// coefficients above.
	AlphaStdErr     float64
	MktBetaStdErr   float64
	SizeBetaStdErr  float64
	ValueBetaStdErr float64

	// PredictedExcessReturn applies the fitted loadings to the most
	// recent factor row, which may postdate the training cutoff.
	PredictedExcessReturn float64
	Observations          int
}
