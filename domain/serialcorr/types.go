package serialcorr

import (
	"fmt"
	"strings"

	"bootdw/domain/core"
)

// Method identifies one of the serial-correlation test compositions.
// The set is closed: dispatch over methods is an exhaustive switch, so
// adding a method is a compile-time-checked extension point.
type Method string

const (
	// MethodDW is the classical Durbin-Watson test (statistic only,
	// critical values come from tables, so no p-value is attached).
	MethodDW Method = "dw"
	// MethodBDW is the bootstrapped Durbin-Watson test.
	MethodBDW Method = "bdw"
	// MethodBRho is the bootstrapped AR(1) coefficient test.
	MethodBRho Method = "b_rho"
	// MethodBCaRho is the bias-corrected-accelerated AR(1) coefficient test.
	MethodBCaRho Method = "bca_rho"
)

// Methods returns all known test methods in canonical order.
func Methods() []Method {
	return []Method{MethodDW, MethodBDW, MethodBRho, MethodBCaRho}
}

// ParseMethod parses a string into a Method
func ParseMethod(s string) (Method, error) {
	switch Method(strings.ToLower(strings.TrimSpace(s))) {
	case MethodDW:
		return MethodDW, nil
	case MethodBDW:
		return MethodBDW, nil
	case MethodBRho:
		return MethodBRho, nil
	case MethodBCaRho:
		return MethodBCaRho, nil
	default:
		return "", fmt.Errorf("%w: %q", core.ErrUnknownMethod, s)
	}
}

func (m Method) String() string { return string(m) }

// IsBootstrap reports whether the method consumes bootstrap replicates.
func (m Method) IsBootstrap() bool { return m != MethodDW }

// Alternative tags the alternative hypothesis about the AR(1) coefficient.
type Alternative string

const (
	AltGreater  Alternative = "greater"
	AltLess     Alternative = "less"
	AltTwoSided Alternative = "two_sided"
)

// ParseAlternative parses a string into an Alternative
func ParseAlternative(s string) (Alternative, error) {
	switch Alternative(strings.ToLower(strings.TrimSpace(s))) {
	case AltGreater:
		return AltGreater, nil
	case AltLess:
		return AltLess, nil
	case AltTwoSided:
		return AltTwoSided, nil
	default:
		return "", fmt.Errorf("%w: %q", core.ErrUnknownAlternative, s)
	}
}

func (a Alternative) String() string { return string(a) }

// FittedModel holds the output of one OLS fit: coefficient vector (intercept
// first), fitted values, residuals and the residual variance estimate.
// Created once per sample and read-only afterward.
type FittedModel struct {
	Coefficients  []float64 `json:"coefficients"`
	Fitted        []float64 `json:"fitted"`
	Residuals     []float64 `json:"residuals"`
	Sigma2        float64   `json:"sigma2"`
	NumObs        int       `json:"n_obs"`
	NumCovariates int       `json:"n_covariates"`
}

// Interval is a closed confidence interval.
type Interval struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
}

// ReplicateSummary describes the empirical bootstrap distribution of a
// statistic. Attached to bootstrap results for diagnostics.
type ReplicateSummary struct {
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	P025   float64 `json:"p_2_5"`
	P975   float64 `json:"p_97_5"`
}

// BCaDiagnostics carries the bias-correction and acceleration constants of a
// BCa interval. Degenerate marks the bias-corrected fallback (a forced to 0
// because all jackknife statistics were identical).
type BCaDiagnostics struct {
	Z0           float64 `json:"bias_constant_z0"`
	Acceleration float64 `json:"acceleration_constant_a0"`
	Degenerate   bool    `json:"degenerate,omitempty"`
}
