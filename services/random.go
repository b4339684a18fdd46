package services

import (
	"math/rand/v2"
	"sync"
	"time"
)

// Random is the source of every stochastic decision in the simulation.
// Float64 returns a value in [0, 1).
type Random interface {
	Float64() float64
}

type lockedRandom struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandom returns a goroutine-safe PCG source. A zero seed is replaced by
// the current time.
func NewRandom(seed uint64) Random {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return &lockedRandom{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (r *lockedRandom) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rng.Float64()
}
