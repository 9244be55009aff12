package common

import (
	"sync"
	"time"
)

// SeededRNG implements a Mulberry32 seeded pseudo-random number generator.
// Produces deterministic sequences so a soundscape can be replayed from its seed.
// Safe for use from timer callbacks running on different goroutines.
type SeededRNG struct {
	mu          sync.Mutex
	state       uint32
	initialSeed uint32
}

// NewSeededRNG creates a new seeded random number generator.
func NewSeededRNG(seed uint32) *SeededRNG {
	return &SeededRNG{
		state:       seed,
		initialSeed: seed,
	}
}

// Seed returns the seed the generator was created with.
func (r *SeededRNG) Seed() uint32 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.initialSeed
}

// Random returns the next value in [0, 1).
func (r *SeededRNG) Random() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.state += 0x6D2B79F5
	t := r.state
	t = (t ^ (t >> 15)) * (t | 1)
	t ^= t + (t^(t>>7))*(t|61)
	return float64(t^(t>>14)) / 4294967296.0
}

// SessionSeed derives a non-zero seed from a wall-clock instant.
func SessionSeed(t time.Time) uint32 {
	n := uint64(t.UnixNano())
	seed := uint32(n) ^ uint32(n>>32)
	seed = (seed ^ (seed >> 16)) * 0x85ebca6b
	seed = (seed ^ (seed >> 13)) * 0xc2b2ae35
	seed ^= seed >> 16
	if seed == 0 {
		seed = 0x9E3779B9
	}
	return seed
}
