package autocorr

import (
	"context"
	"fmt"

	"bootdw/adapters/stats/regression"
	"bootdw/domain/core"
	"bootdw/domain/serialcorr"
	"bootdw/ports"
)

// DefaultConfidence is the two-sided coverage of BCa intervals.
const DefaultConfidence = 0.95

// Runner composes the fitter, estimator, simulator, bootstrap engine and BCa
// builder into the four public serial-correlation tests. A Runner owns no
// mutable state; every invocation draws from its own deterministic stream
// obtained through the RNG port, keyed by method name and caller seed.
type Runner struct {
	rng        ports.RNGPort
	confidence float64
}

// NewRunner creates a test runner over an RNG port
func NewRunner(rng ports.RNGPort) *Runner {
	return &Runner{rng: rng, confidence: DefaultConfidence}
}

// DWTest computes the classical Durbin-Watson test. It produces the statistic
// only; the p-value stays nil because classical DW inference needs the
// tabulated bounds. seed is recorded as metadata so batteries stay uniform.
func (r *Runner) DWTest(ctx context.Context, response []float64, design [][]float64, alt serialcorr.Alternative, seed int64) (serialcorr.TestResult, error) {
	model, err := regression.FitOLS(response, design)
	if err != nil {
		return serialcorr.TestResult{}, err
	}
	dw, err := DurbinWatson(model.Residuals)
	if err != nil {
		return serialcorr.TestResult{}, err
	}
	return serialcorr.NewTestResult(serialcorr.MethodDW, alt, dw, 0, seed), nil
}

// BDWTest computes the bootstrapped Durbin-Watson test: replicates are
// generated under the null (rho = 0) from resampled centered residuals and
// the observed statistic is compared against the replicate tails.
func (r *Runner) BDWTest(ctx context.Context, response []float64, design [][]float64, nBootstrap int, alt serialcorr.Alternative, seed int64) (serialcorr.TestResult, error) {
	if nBootstrap < 1 {
		return serialcorr.TestResult{}, core.NewInvalidBootstrapCountError(nBootstrap)
	}

	model, err := regression.FitOLS(response, design)
	if err != nil {
		return serialcorr.TestResult{}, err
	}
	observed, err := DurbinWatson(model.Residuals)
	if err != nil {
		return serialcorr.TestResult{}, err
	}

	stream, err := r.rng.SeededStream(ctx, serialcorr.MethodBDW.String(), seed)
	if err != nil {
		return serialcorr.TestResult{}, fmt.Errorf("seeding bdw stream: %w", err)
	}

	engine := NewEngine(model, design)
	innov := NewResampledInnovations(model.Residuals)
	replicates, err := engine.Replicates(nBootstrap, 0, innov, DurbinWatson, stream)
	if err != nil {
		return serialcorr.TestResult{}, err
	}

	result := serialcorr.NewTestResult(serialcorr.MethodBDW, alt, observed, nBootstrap, seed).
		WithPValue(DWPValue(replicates, observed, alt))
	return r.withSummary(result, replicates), nil
}

// BRhoTest computes the bootstrapped AR(1) coefficient test with the
// percentile method: null-regime replicates of rho-hat against the observed
// estimate.
func (r *Runner) BRhoTest(ctx context.Context, response []float64, design [][]float64, nBootstrap int, alt serialcorr.Alternative, seed int64) (serialcorr.TestResult, error) {
	if nBootstrap < 1 {
		return serialcorr.TestResult{}, core.NewInvalidBootstrapCountError(nBootstrap)
	}

	model, err := regression.FitOLS(response, design)
	if err != nil {
		return serialcorr.TestResult{}, err
	}
	observed, err := EstimateRho(model.Residuals)
	if err != nil {
		return serialcorr.TestResult{}, err
	}

	stream, err := r.rng.SeededStream(ctx, serialcorr.MethodBRho.String(), seed)
	if err != nil {
		return serialcorr.TestResult{}, fmt.Errorf("seeding b_rho stream: %w", err)
	}

	engine := NewEngine(model, design)
	innov := NewResampledInnovations(model.Residuals)
	replicates, err := engine.Replicates(nBootstrap, 0, innov, EstimateRho, stream)
	if err != nil {
		return serialcorr.TestResult{}, err
	}

	result := serialcorr.NewTestResult(serialcorr.MethodBRho, alt, observed, nBootstrap, seed).
		WithPValue(RhoPValue(replicates, observed, alt))
	return r.withSummary(result, replicates), nil
}

// BCaRhoTest computes the bias-corrected-accelerated AR(1) coefficient test.
// Replicates are generated under the estimated model (rho = rho-hat) so the
// bootstrap distribution centres on the estimate; the BCa builder then
// produces the confidence bounds and the p-value by inverting the adjusted
// percentile map at zero.
func (r *Runner) BCaRhoTest(ctx context.Context, response []float64, design [][]float64, nBootstrap int, alt serialcorr.Alternative, seed int64) (serialcorr.TestResult, error) {
	if nBootstrap < 1 {
		return serialcorr.TestResult{}, core.NewInvalidBootstrapCountError(nBootstrap)
	}

	model, err := regression.FitOLS(response, design)
	if err != nil {
		return serialcorr.TestResult{}, err
	}
	observed, err := EstimateRho(model.Residuals)
	if err != nil {
		return serialcorr.TestResult{}, err
	}

	jackknife, err := jackknifeRho(response, design)
	if err != nil {
		return serialcorr.TestResult{}, err
	}

	stream, err := r.rng.SeededStream(ctx, serialcorr.MethodBCaRho.String(), seed)
	if err != nil {
		return serialcorr.TestResult{}, fmt.Errorf("seeding bca_rho stream: %w", err)
	}

	engine := NewEngine(model, design)
	innov := NewResampledInnovations(model.Residuals)
	replicates, err := engine.Replicates(nBootstrap, observed, innov, EstimateRho, stream)
	if err != nil {
		return serialcorr.TestResult{}, err
	}

	interval, diag := BCaInterval(replicates, observed, jackknife, r.confidence)
	result := serialcorr.NewTestResult(serialcorr.MethodBCaRho, alt, observed, nBootstrap, seed).
		WithPValue(BCaPValue(replicates, diag, alt)).
		WithConfidenceInterval(interval.Lower, interval.Upper).
		WithBCaDiagnostics(diag)
	return r.withSummary(result, replicates), nil
}

// Run dispatches on the closed method set. The switch is exhaustive over
// serialcorr.Methods; an unknown tag is a caller error, not a fallthrough.
func (r *Runner) Run(ctx context.Context, method serialcorr.Method, response []float64, design [][]float64, nBootstrap int, alt serialcorr.Alternative, seed int64) (serialcorr.TestResult, error) {
	switch method {
	case serialcorr.MethodDW:
		return r.DWTest(ctx, response, design, alt, seed)
	case serialcorr.MethodBDW:
		return r.BDWTest(ctx, response, design, nBootstrap, alt, seed)
	case serialcorr.MethodBRho:
		return r.BRhoTest(ctx, response, design, nBootstrap, alt, seed)
	case serialcorr.MethodBCaRho:
		return r.BCaRhoTest(ctx, response, design, nBootstrap, alt, seed)
	default:
		return serialcorr.TestResult{}, fmt.Errorf("%w: %q", core.ErrUnknownMethod, method)
	}
}

// jackknifeRho recomputes rho-hat with each observation removed in turn.
// Ephemeral: consumed only by the acceleration constant.
func jackknifeRho(response []float64, design [][]float64) ([]float64, error) {
	n := len(response)
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		y, x := regression.DropObservation(response, design, i)
		model, err := regression.FitOLS(y, x)
		if err != nil {
			return nil, fmt.Errorf("jackknife without observation %d: %w", i, err)
		}
		rho, err := EstimateRho(model.Residuals)
		if err != nil {
			return nil, fmt.Errorf("jackknife without observation %d: %w", i, err)
		}
		out[i] = rho
	}
	return out, nil
}

// withSummary attaches the replicate-distribution summary when it is
// well-defined (sample statistics need at least two replicates).
func (r *Runner) withSummary(result serialcorr.TestResult, replicates []float64) serialcorr.TestResult {
	if len(replicates) < 2 {
		return result
	}
	summary, err := SummarizeReplicates(replicates)
	if err != nil {
		return result
	}
	return result.WithNullSummary(summary)
}
