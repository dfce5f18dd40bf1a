package regression

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"bootdw/domain/core"
	"bootdw/domain/serialcorr"
)

// maxConditionNumber is the threshold past which a design matrix is treated
// as rank-deficient. QR keeps the solve stable below it.
const maxConditionNumber = 1e12

// FitOLS computes ordinary-least-squares coefficients, fitted values and
// residuals for a regression of response on design with an intercept appended
// internally. design has n rows and k covariate columns; k may be zero for an
// intercept-only fit. The solve goes through a QR factorization, never an
// explicit inverse.
//
// Returns core.ErrSingularDesign when the sample is too short (n < k+2) or
// the augmented design is rank-deficient.
func FitOLS(response []float64, design [][]float64) (*serialcorr.FittedModel, error) {
	n := len(response)
	k := 0
	if len(design) > 0 {
		k = len(design[0])
	}

	if len(design) != 0 && len(design) != n {
		return nil, core.NewSingularDesignError(n, k, fmt.Sprintf("design has %d rows for %d responses", len(design), n))
	}
	if n < k+2 {
		return nil, core.NewSingularDesignError(n, k, "need at least k+2 observations")
	}
	for i, row := range design {
		if len(row) != k {
			return nil, core.NewSingularDesignError(n, k, fmt.Sprintf("ragged design: row %d has %d columns", i, len(row)))
		}
	}

	// Augment with the intercept column first.
	p := k + 1
	data := make([]float64, n*p)
	for i := 0; i < n; i++ {
		data[i*p] = 1
		for j := 0; j < k; j++ {
			data[i*p+1+j] = design[i][j]
		}
	}
	a := mat.NewDense(n, p, data)
	b := mat.NewVecDense(n, append([]float64(nil), response...))

	var qr mat.QR
	qr.Factorize(a)
	if cond := qr.Cond(); math.IsInf(cond, 0) || cond > maxConditionNumber {
		return nil, core.NewSingularDesignError(n, k, fmt.Sprintf("condition number %.3g exceeds %.1g", cond, maxConditionNumber))
	}

	var coef mat.VecDense
	if err := qr.SolveVecTo(&coef, false, b); err != nil {
		return nil, core.NewSingularDesignError(n, k, err.Error())
	}

	coefficients := make([]float64, p)
	for j := 0; j < p; j++ {
		c := coef.AtVec(j)
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return nil, core.NewSingularDesignError(n, k, "non-finite coefficient from solve")
		}
		coefficients[j] = c
	}

	fitted := make([]float64, n)
	residuals := make([]float64, n)
	ssr := 0.0
	for i := 0; i < n; i++ {
		yhat := coefficients[0]
		for j := 0; j < k; j++ {
			yhat += coefficients[1+j] * design[i][j]
		}
		fitted[i] = yhat
		residuals[i] = response[i] - yhat
		ssr += residuals[i] * residuals[i]
	}

	sigma2 := 0.0
	if n > p {
		sigma2 = ssr / float64(n-p)
	}

	return &serialcorr.FittedModel{
		Coefficients:  coefficients,
		Fitted:        fitted,
		Residuals:     residuals,
		Sigma2:        sigma2,
		NumObs:        n,
		NumCovariates: k,
	}, nil
}

// DropObservation returns copies of response and design with observation i
// removed. Used by the jackknife in the BCa builder.
func DropObservation(response []float64, design [][]float64, i int) ([]float64, [][]float64) {
	n := len(response)
	y := make([]float64, 0, n-1)
	y = append(y, response[:i]...)
	y = append(y, response[i+1:]...)

	if len(design) == 0 {
		return y, nil
	}
	x := make([][]float64, 0, n-1)
	x = append(x, design[:i]...)
	x = append(x, design[i+1:]...)
	return y, x
}
