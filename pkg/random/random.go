package random

import (
	"math/rand"
	"sync"
	"time"
)

// Source is the randomness the generators draw from.
// *rand.Rand satisfies it.
type Source interface {
	// Intn returns a value in [0, n)
	Intn(n int) int
	// Float64 returns a value in [0.0, 1.0)
	Float64() float64
}

// New returns a source seeded with seed. A zero seed uses the current time.
func New(seed int64) Source {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

// Locked wraps a source with a mutex so it can be shared between goroutines
type Locked struct {
	mu  sync.Mutex
	src Source
}

// NewLocked creates a goroutine-safe source
func NewLocked(src Source) *Locked {
	return &Locked{src: src}
}

// Intn implements Source
func (l *Locked) Intn(n int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.src.Intn(n)
}

// Float64 implements Source
func (l *Locked) Float64() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.src.Float64()
}

// Between returns an integer in [min, max] (both inclusive)
// Example: Between(src, -5, 15) returns one of -5..15
func Between(src Source, min, max int) int {
	if max <= min {
		return min
	}
	return src.Intn(max-min+1) + min
}

// Chance reports true with probability p
func Chance(src Source, p float64) bool {
	if p <= 0 {
		return false
	}
	if p >= 1 {
		return true
	}
	return src.Float64() < p
}

// BetweenDuration returns a whole-minute offset in [min, max] minutes
func BetweenDuration(src Source, min, max int) time.Duration {
	return time.Duration(Between(src, min, max)) * time.Minute
}
