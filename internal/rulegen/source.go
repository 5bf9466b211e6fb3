package rulegen

import (
	"math/rand/v2"
	"sync"
)

// Source yields uniformly distributed floats in [0, 1). *rand.Rand from
// math/rand/v2 satisfies it.
type Source interface {
	Float64() float64
}

// globalSource draws from the process-wide math/rand/v2 generator, which is
// safe for concurrent use.
type globalSource struct{}

func (globalSource) Float64() float64 { return rand.Float64() }

// NewSeededSource returns a reproducible source. The returned value is not
// safe for concurrent use; WithSeed builds one per call instead.
func NewSeededSource(seed uint64) Source {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// SequenceSource replays a fixed cycle of values. Used by tests to pin
// shuffles and template choices.
type SequenceSource struct {
	mu     sync.Mutex
	values []float64
	next   int
}

// NewSequenceSource creates a SequenceSource cycling through values. With no
// values it always returns 0.
func NewSequenceSource(values ...float64) *SequenceSource {
	return &SequenceSource{values: values}
}

func (s *SequenceSource) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.values) == 0 {
		return 0
	}
	v := s.values[s.next%len(s.values)]
	s.next++
	return v
}

// intn maps a draw from src onto [0, n).
func intn(src Source, n int) int {
	if n <= 1 {
		return 0
	}
	i := int(src.Float64() * float64(n))
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

// shuffle permutes xs in place with Fisher-Yates.
func shuffle[T any](src Source, xs []T) {
	for i := len(xs) - 1; i > 0; i-- {
		j := intn(src, i+1)
		xs[i], xs[j] = xs[j], xs[i]
	}
}

// perm returns a random permutation of [0, n).
func perm(src Source, n int) []int {
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	shuffle(src, idx)
	return idx
}
