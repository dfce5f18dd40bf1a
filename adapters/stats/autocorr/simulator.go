package autocorr

import (
	"math"
	"math/rand"
)

// InnovationSource draws one independent innovation per recursion step from a
// seeded stream. A single source instance is fixed for the whole of one test
// invocation: mixing generation schemes across replicates is forbidden.
type InnovationSource interface {
	Draw(rng *rand.Rand) float64
}

// ResampledInnovations draws with replacement from the centered empirical
// residuals of a fitted model. This is the nonparametric scheme used by the
// bootstrap variants; it preserves the shape of the empirical error
// distribution instead of assuming normality.
type ResampledInnovations struct {
	pool []float64
}

// NewResampledInnovations centers the residual pool at zero and returns a
// resampling source over it.
func NewResampledInnovations(residuals []float64) *ResampledInnovations {
	pool := make([]float64, len(residuals))
	mean := 0.0
	for _, e := range residuals {
		mean += e
	}
	if len(residuals) > 0 {
		mean /= float64(len(residuals))
	}
	for i, e := range residuals {
		pool[i] = e - mean
	}
	return &ResampledInnovations{pool: pool}
}

// Draw returns one uniform draw from the centered pool
func (s *ResampledInnovations) Draw(rng *rand.Rand) float64 {
	return s.pool[rng.Intn(len(s.pool))]
}

// GaussianInnovations draws N(0, sigma^2) innovations with the estimated
// residual standard deviation. Parametric alternative to resampling.
type GaussianInnovations struct {
	sigma float64
}

// NewGaussianInnovations builds a Gaussian source from a residual variance
func NewGaussianInnovations(sigma2 float64) *GaussianInnovations {
	return &GaussianInnovations{sigma: math.Sqrt(sigma2)}
}

// Draw returns one Gaussian draw
func (g *GaussianInnovations) Draw(rng *rand.Rand) float64 {
	return rng.NormFloat64() * g.sigma
}

// SimulateResiduals generates one synthetic residual sequence of length n
// obeying the first-order recursion e_1 = u_1, e_t = rho*e_{t-1} + u_t, with
// one innovation draw per step. The recursion is inherently sequential inside
// a replicate (step t needs step t-1), so it is written as an explicit
// accumulator over innovations; independent replicates simply call this
// again on their own streams.
func SimulateResiduals(rng *rand.Rand, n int, rho float64, innov InnovationSource) []float64 {
	if n <= 0 {
		return nil
	}
	out := make([]float64, n)
	acc := innov.Draw(rng)
	out[0] = acc
	for t := 1; t < n; t++ {
		acc = rho*acc + innov.Draw(rng)
		out[t] = acc
	}
	return out
}
