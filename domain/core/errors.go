package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Regression geometry errors
	ErrSingularDesign = errors.New("singular design matrix")

	// Sample errors
	ErrInsufficientData = errors.New("insufficient data for analysis")

	// Bootstrap configuration errors
	ErrInvalidBootstrapCount = errors.New("invalid bootstrap replicate count")

	// Numerically degenerate jackknife. Recovered locally via the
	// bias-corrected fallback, never surfaced to callers.
	ErrDegenerateAcceleration = errors.New("degenerate acceleration constant")

	// Dispatch errors
	ErrUnknownMethod      = errors.New("unknown test method")
	ErrUnknownAlternative = errors.New("unknown alternative hypothesis")

	// Determinism errors
	ErrSeedMismatch = errors.New("seed mismatch")
)

// Error constructors with context
func NewSingularDesignError(n, k int, reason string) error {
	return fmt.Errorf("%w: n=%d, k=%d: %s", ErrSingularDesign, n, k, reason)
}

func NewInsufficientDataError(statistic string, n, required int) error {
	return fmt.Errorf("%w: %s requires at least %d observations, got %d", ErrInsufficientData, statistic, required, n)
}

func NewInvalidBootstrapCountError(b int) error {
	return fmt.Errorf("%w: got %d, need at least 1", ErrInvalidBootstrapCount, b)
}

// Error checking helpers
func IsSingularDesign(err error) bool {
	return errors.Is(err, ErrSingularDesign)
}

func IsInsufficientData(err error) bool {
	return errors.Is(err, ErrInsufficientData)
}

func IsInvalidBootstrapCount(err error) bool {
	return errors.Is(err, ErrInvalidBootstrapCount)
}
