package collect

import (
	cryptoRand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/rand/v2"
)

// RandomSource abstract

type RandomSource interface {
	IntN(n int) int // [0, n)
}

// Replicable RNG; one instance per worker, never shared
type seededRNG struct{ r *rand.Rand }

// NewSeededRNG returns a PCG generator. Workers of one run share the seed
// and differ by stream, so their sequences are independent.
func NewSeededRNG(seed, stream uint64) RandomSource {
	return &seededRNG{r: rand.New(rand.NewPCG(seed, stream))}
}

func (s *seededRNG) IntN(n int) int { return s.r.IntN(n) }

// NewSeed reads a fresh run seed from crypto/rand.
func NewSeed() (uint64, error) {
	var buf [8]byte
	if _, err := cryptoRand.Read(buf[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}
	return binary.LittleEndian.Uint64(buf[:]), nil
}

// DefaultRNG is a crypto-seeded generator for callers that don't care
// about reproducibility.
func DefaultRNG() RandomSource {
	seed, err := NewSeed()
	if err != nil {
		// back to math/rand/v2's own seeding
		return &seededRNG{r: rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))}
	}
	return NewSeededRNG(seed, 0)
}
