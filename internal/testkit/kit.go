package testkit

import (
	"context"
	"math"

	"bootdw/adapters/rng"
	"bootdw/ports"
)

// Kit builds synthetic regression fixtures with AR(1) errors for tests and
// local experiments. All output is deterministic in the given seed.
type Kit struct {
	rng ports.RNGPort
}

// NewKit creates a test kit over the deterministic RNG adapter
func NewKit() *Kit {
	return &Kit{rng: rng.NewAdapter()}
}

// RNGAdapter exposes the kit's RNG port for wiring into runners under test
func (k *Kit) RNGAdapter() ports.RNGPort {
	return k.rng
}

// AR1Series generates n error terms following e_t = rho*e_{t-1} + u_t with
// Gaussian innovations of standard deviation sigma. For |rho| < 1 the first
// value is drawn from the stationary distribution.
func (k *Kit) AR1Series(n int, rho, sigma float64, seed int64) []float64 {
	stream, _ := k.rng.SeededStream(context.Background(), "testkit-ar1", seed)

	series := make([]float64, n)
	if n == 0 {
		return series
	}

	first := stream.NormFloat64() * sigma
	if math.Abs(rho) < 1 {
		first /= math.Sqrt(1 - rho*rho)
	}
	series[0] = first
	for t := 1; t < n; t++ {
		series[t] = rho*series[t-1] + stream.NormFloat64()*sigma
	}
	return series
}

// Regression generates a response and design with kCov standard-normal
// covariates, unit coefficients, intercept 1, and AR(1) errors with the given
// rho. Returns (response, design).
func (k *Kit) Regression(n, kCov int, rho float64, seed int64) ([]float64, [][]float64) {
	stream, _ := k.rng.SeededStream(context.Background(), "testkit-design", seed)

	design := make([][]float64, n)
	for i := range design {
		design[i] = make([]float64, kCov)
		for j := 0; j < kCov; j++ {
			design[i][j] = stream.NormFloat64()
		}
	}

	errors := k.AR1Series(n, rho, 1.0, seed)

	response := make([]float64, n)
	for i := 0; i < n; i++ {
		y := 1.0
		for j := 0; j < kCov; j++ {
			y += design[i][j]
		}
		response[i] = y + errors[i]
	}
	return response, design
}
