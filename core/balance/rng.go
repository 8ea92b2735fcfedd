package balance

import (
	"math/rand/v2"
	"sync"
)

// RandomSource supplies the permutations used to place free players.
type RandomSource interface {
	Shuffle(n int, swap func(i, j int))
}

type globalSource struct{}

func (globalSource) Shuffle(n int, swap func(i, j int)) { rand.Shuffle(n, swap) }

// DefaultSource draws from the process-wide generator. It is safe for
// concurrent use.
func DefaultSource() RandomSource { return globalSource{} }

// NewSeededSource returns a reproducible source. The returned value must not
// be shared between goroutines.
func NewSeededSource(seed uint64) RandomSource {
	return rand.New(rand.NewPCG(seed, 0))
}

type lockedSource struct {
	mu  sync.Mutex
	src RandomSource
}

func (l *lockedSource) Shuffle(n int, swap func(i, j int)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.src.Shuffle(n, swap)
}

// Synchronized wraps src so it can be shared by concurrent searches.
func Synchronized(src RandomSource) RandomSource {
	if _, ok := src.(globalSource); ok {
		return src
	}
	return &lockedSource{src: src}
}
