// Package autocorr implements bootstrap-based hypothesis tests for
// first-order serial correlation in linear-regression residuals: the
// classical Durbin-Watson statistic, its bootstrapped variant, and
// percentile and BCa tests on the AR(1) coefficient.
package autocorr

import (
	"fmt"
	"math/rand"

	"github.com/montanaflynn/stats"

	"bootdw/adapters/stats/regression"
	"bootdw/domain/core"
	"bootdw/domain/serialcorr"
)

// StatisticFunc computes a scalar statistic from a residual sequence.
type StatisticFunc func(residuals []float64) (float64, error)

// Engine orchestrates the bootstrap replication loop for one fitted model.
// All replicates of one run draw from a single deterministic stream in a
// fixed order, so results are exactly reproducible for a fixed seed.
type Engine struct {
	model  *serialcorr.FittedModel
	design [][]float64
}

// NewEngine creates an engine over a fitted model and its original design.
// The model is only ever read; replicates share it without copying.
func NewEngine(model *serialcorr.FittedModel, design [][]float64) *Engine {
	return &Engine{model: model, design: design}
}

// Replicates produces the bootstrap replicate set of size b. Each trial
// simulates a residual sequence under the given rho regime, rebuilds the
// response as fitted + simulated residuals, refits OLS on the original
// design, and evaluates the statistic on the refit residuals.
//
// b is validated before any randomness is consumed, so a failed call never
// advances the stream.
func (e *Engine) Replicates(b int, rho float64, innov InnovationSource, statistic StatisticFunc, rng *rand.Rand) ([]float64, error) {
	if b < 1 {
		return nil, core.NewInvalidBootstrapCountError(b)
	}

	n := e.model.NumObs
	replicates := make([]float64, b)
	response := make([]float64, n)

	for i := 0; i < b; i++ {
		simulated := SimulateResiduals(rng, n, rho, innov)
		for t := 0; t < n; t++ {
			response[t] = e.model.Fitted[t] + simulated[t]
		}

		refit, err := regression.FitOLS(response, e.design)
		if err != nil {
			return nil, fmt.Errorf("bootstrap replicate %d: %w", i, err)
		}
		value, err := statistic(refit.Residuals)
		if err != nil {
			return nil, fmt.Errorf("bootstrap replicate %d: %w", i, err)
		}
		replicates[i] = value
	}

	return replicates, nil
}

// DWPValue computes the bootstrap p-value for the Durbin-Watson statistic.
// Positive autocorrelation drives DW below 2, so the "greater" alternative
// (rho > 0) compares against the lower tail of the replicate distribution.
// The plain proportion count/b is used, with no continuity adjustment.
func DWPValue(replicates []float64, observed float64, alt serialcorr.Alternative) float64 {
	lower := tailProportion(replicates, observed, true)
	upper := tailProportion(replicates, observed, false)

	switch alt {
	case serialcorr.AltGreater:
		return lower
	case serialcorr.AltLess:
		return upper
	default:
		return capped(2 * minF(lower, upper))
	}
}

// RhoPValue computes the percentile-method p-value for the AR(1) coefficient:
// the proportion of null replicates at least as extreme as the observed
// estimate in the tail(s) selected by the alternative. "two_sided" doubles
// the smaller one-sided proportion, capped at 1.
func RhoPValue(replicates []float64, observed float64, alt serialcorr.Alternative) float64 {
	lower := tailProportion(replicates, observed, true)
	upper := tailProportion(replicates, observed, false)

	switch alt {
	case serialcorr.AltGreater:
		return upper
	case serialcorr.AltLess:
		return lower
	default:
		return capped(2 * minF(lower, upper))
	}
}

// SummarizeReplicates describes the empirical replicate distribution for
// result diagnostics.
func SummarizeReplicates(replicates []float64) (serialcorr.ReplicateSummary, error) {
	mean, err := stats.Mean(replicates)
	if err != nil {
		return serialcorr.ReplicateSummary{}, err
	}
	sd, err := stats.StandardDeviationSample(replicates)
	if err != nil {
		return serialcorr.ReplicateSummary{}, err
	}
	min, err := stats.Min(replicates)
	if err != nil {
		return serialcorr.ReplicateSummary{}, err
	}
	max, err := stats.Max(replicates)
	if err != nil {
		return serialcorr.ReplicateSummary{}, err
	}
	p025, err := stats.Percentile(replicates, 2.5)
	if err != nil {
		return serialcorr.ReplicateSummary{}, err
	}
	p975, err := stats.Percentile(replicates, 97.5)
	if err != nil {
		return serialcorr.ReplicateSummary{}, err
	}

	return serialcorr.ReplicateSummary{
		Mean:   mean,
		StdDev: sd,
		Min:    min,
		Max:    max,
		P025:   p025,
		P975:   p975,
	}, nil
}

// tailProportion counts replicates beyond the observed value on one side.
func tailProportion(replicates []float64, observed float64, lower bool) float64 {
	count := 0
	for _, r := range replicates {
		if lower && r <= observed {
			count++
		}
		if !lower && r >= observed {
			count++
		}
	}
	return float64(count) / float64(len(replicates))
}

func capped(p float64) float64 {
	if p > 1 {
		return 1
	}
	return p
}

func minF(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
