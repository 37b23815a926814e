package factor

import (
	"fmt"
	"math"
	"time"

	"alphadash/internal/domain"
	"alphadash/internal/util"

	"gonum.org/v1/gonum/mat"
)

// MinObservations is the fewest monthly rows a regression will accept.
// Anything less returns a nil result rather than a degenerate fit.
const MinObservations = 12

const hacMaxLag = 3

// FitFactorModel regresses one asset's monthly excess returns on the
// three Fama-French factors plus a constant, using only observations at
// or before the cutoff date. Standard errors use a HAC (Newey-West)
// covariance with a lag window of 3; the point estimates are plain OLS.
//
// The predicted next-period excess return applies the fitted loadings to
// the most recent factor row available for the symbol, even when that
// row postdates the cutoff: the model trains through the cutoff but
// predicts from the latest data.
//
// A nil, nil return means insufficient data, not failure.
func FitFactorModel(obs []domain.FactorObservation, symbol string, cutoff time.Time) (*domain.RegressionResult, error) {
	all := []domain.FactorObservation{}
	train := []domain.FactorObservation{}
	for _, o := range obs {
		if o.Symbol != symbol {
			continue
		}
		all = append(all, o)
		if util.DateLte(o.Date, cutoff) {
			train = append(train, o)
		}
	}
	sortObservations(all)
	sortObservations(train)

	if len(train) < MinObservations {
		return nil, nil
	}

	n := len(train)
	const k = 4

	x := mat.NewDense(n, k, nil)
	y := mat.NewVecDense(n, nil)
	for i, o := range train {
		x.Set(i, 0, 1)
		x.Set(i, 1, o.MktMinusRF)
		x.Set(i, 2, o.SMB)
		x.Set(i, 3, o.HML)
		y.SetVec(i, o.ExcessReturn)
	}

	var qr mat.QR
	qr.Factorize(x)
	beta := mat.NewVecDense(k, nil)
	if err := qr.SolveVecTo(beta, false, y); err != nil {
		return nil, fmt.Errorf("failed to solve least squares for %s: %w", symbol, err)
	}

	stderrs, err := hacStandardErrors(x, y, beta)
	if err != nil {
		return nil, fmt.Errorf("failed to compute robust standard errors for %s: %w", symbol, err)
	}

	latest := all[len(all)-1]
	predicted := beta.AtVec(0) +
		beta.AtVec(1)*latest.MktMinusRF +
		beta.AtVec(2)*latest.SMB +
		beta.AtVec(3)*latest.HML

	return &domain.RegressionResult{
		Symbol:                symbol,
		Cutoff:                cutoff,
		Alpha:                 beta.AtVec(0),
		MktBeta:               beta.AtVec(1),
		SizeBeta:              beta.AtVec(2),
		ValueBeta:             beta.AtVec(3),
		AlphaStdErr:           stderrs[0],
		MktBetaStdErr:         stderrs[1],
		SizeBetaStdErr:        stderrs[2],
		ValueBetaStdErr:       stderrs[3],
		PredictedExcessReturn: predicted,
		Observations:          n,
	}, nil
}

// hacStandardErrors computes Newey-West standard errors with Bartlett
// kernel weights over hacMaxLag lags: cov = (X'X)^-1 S (X'X)^-1 where S
// sums the lagged outer products of the score vectors u_t * x_t.
func hacStandardErrors(x *mat.Dense, y, beta *mat.VecDense) ([]float64, error) {
	n, k := x.Dims()

	residuals := mat.NewVecDense(n, nil)
	residuals.MulVec(x, beta)
	residuals.SubVec(y, residuals)

	var xtx mat.Dense
	xtx.Mul(x.T(), x)
	var bread mat.Dense
	if err := bread.Inverse(&xtx); err != nil {
		return nil, fmt.Errorf("X'X is singular: %w", err)
	}

	scores := make([]*mat.VecDense, n)
	for t := 0; t < n; t++ {
		s := mat.NewVecDense(k, nil)
		for j := 0; j < k; j++ {
			s.SetVec(j, residuals.AtVec(t)*x.At(t, j))
		}
		scores[t] = s
	}

	meat := mat.NewDense(k, k, nil)
	for t := 0; t < n; t++ {
		addOuterProduct(meat, 1, scores[t], scores[t])
	}
	for lag := 1; lag <= hacMaxLag && lag < n; lag++ {
		w := 1 - float64(lag)/float64(hacMaxLag+1)
		for t := lag; t < n; t++ {
			addOuterProduct(meat, w, scores[t], scores[t-lag])
			addOuterProduct(meat, w, scores[t-lag], scores[t])
		}
	}

	var cov mat.Dense
	cov.Mul(&bread, meat)
	cov.Mul(&cov, &bread)

	stderrs := make([]float64, k)
	for j := 0; j < k; j++ {
		v := cov.At(j, j)
		if v < 0 {
			v = 0
		}
		stderrs[j] = math.Sqrt(v)
	}
	return stderrs, nil
}

func addOuterProduct(dst *mat.Dense, scale float64, a, b *mat.VecDense) {
	k := a.Len()
	for i := 0; i < k; i++ {
		for j := 0; j < k; j++ {
			dst.Set(i, j, dst.At(i, j)+scale*a.AtVec(i)*b.AtVec(j))
		}
	}
}
