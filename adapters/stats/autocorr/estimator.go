package autocorr

import (
	"bootdw/domain/core"
)

// DurbinWatson returns the Durbin-Watson statistic
// sum_{t=2..n}(e_t - e_{t-1})^2 / sum_{t=1..n} e_t^2 for a residual sequence.
// The value lies in [0, 4]; 2 indicates no first-order serial correlation.
//
// Returns core.ErrInsufficientData when fewer than 2 residuals are supplied.
// An all-zero residual sequence yields 0 rather than NaN.
func DurbinWatson(residuals []float64) (float64, error) {
	n := len(residuals)
	if n < 2 {
		return 0, core.NewInsufficientDataError("durbin-watson", n, 2)
	}

	numerator := 0.0
	denominator := residuals[0] * residuals[0]
	for t := 1; t < n; t++ {
		diff := residuals[t] - residuals[t-1]
		numerator += diff * diff
		denominator += residuals[t] * residuals[t]
	}

	if denominator == 0 {
		return 0, nil
	}
	return numerator / denominator, nil
}

// EstimateRho returns the AR(1) coefficient estimate: the no-intercept OLS
// slope of regressing e_t on e_{t-1} for t = 2..n, i.e.
// sum e_t*e_{t-1} / sum e_{t-1}^2.
//
// Returns core.ErrInsufficientData when fewer than 2 residuals are supplied.
// When the denominator is exactly zero (constant residuals, or the only
// nonzero entry sits at the end of the sequence) the estimate is 0 by
// definition, not an error and never NaN.
func EstimateRho(residuals []float64) (float64, error) {
	n := len(residuals)
	if n < 2 {
		return 0, core.NewInsufficientDataError("ar1 coefficient", n, 2)
	}

	numerator := 0.0
	denominator := 0.0
	for t := 1; t < n; t++ {
		numerator += residuals[t] * residuals[t-1]
		denominator += residuals[t-1] * residuals[t-1]
	}

	if denominator == 0 {
		return 0, nil
	}
	return numerator / denominator, nil
}
