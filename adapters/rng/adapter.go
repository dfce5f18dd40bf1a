package rng

import (
	"context"
	"encoding/binary"
	"hash/fnv"
	"math/rand"

	"bootdw/ports"
)

// Adapter implements ports.RNGPort with FNV-derived deterministic streams.
// Stream identity is (name, seed) so different operations sharing one caller
// seed never consume from the same stream.
type Adapter struct{}

// NewAdapter creates a deterministic RNG adapter
func NewAdapter() *Adapter {
	return &Adapter{}
}

// SeededStream creates a deterministic random number generator for a named operation
func (a *Adapter) SeededStream(ctx context.Context, name string, seed int64) (*rand.Rand, error) {
	return rand.New(rand.NewSource(deriveSeed(name, seed, -1))), nil
}

// SubStream derives an independent stream for one replicate index
func (a *Adapter) SubStream(ctx context.Context, name string, seed int64, index int) (*rand.Rand, error) {
	return rand.New(rand.NewSource(deriveSeed(name, seed, int64(index)))), nil
}

// deriveSeed mixes operation name, caller seed and replicate index through
// FNV-1a. index -1 marks the master stream.
func deriveSeed(name string, seed int64, index int64) int64 {
	h := fnv.New64a()
	h.Write([]byte(name))

	var buf [16]byte
	binary.LittleEndian.PutUint64(buf[:8], uint64(seed))
	binary.LittleEndian.PutUint64(buf[8:], uint64(index))
	h.Write(buf[:])

	return int64(h.Sum64())
}
