package ports

import (
	"context"
	"math/rand"
)

// RNGPort provides seeded random number generation for deterministic operations
type RNGPort interface {
	// SeededStream creates a deterministic random number generator for a named
	// operation. The same (name, seed) pair always yields an identical stream,
	// so bootstrap replicate sets are exactly reproducible.
	SeededStream(ctx context.Context, name string, seed int64) (*rand.Rand, error)

	// SubStream derives an independent stream for one replicate index from the
	// master seed. Replicates drawn from sub-streams can run on independent
	// goroutines with no shared mutable state while staying reproducible.
	SubStream(ctx context.Context, name string, seed int64, index int) (*rand.Rand, error)
}
