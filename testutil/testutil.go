package testutil

import (
	"math/rand"
	"sync"

	"golang.org/x/exp/constraints"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Float64 returns a pseudo-random number in [0.0,1.0).
func (r *RNG) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Float64()
}

// FillUniformRange fills dst with random values in [minVal, maxVal).
// Locks only once per call (preferred over calling Float64 in a loop).
func FillUniformRange[F constraints.Float](r *RNG, dst []F, minVal, maxVal F) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fillLocked(r, dst, minVal, maxVal)
}

func fillLocked[F constraints.Float](r *RNG, dst []F, minVal, maxVal F) {
	span := float64(maxVal - minVal)
	for i := range dst {
		dst[i] = minVal + F(r.rand.Float64()*span)
	}
}

// UniformVectors generates num vectors of the given dimension with values in
// [minVal, maxVal). Uses a single backing array for efficiency.
func UniformVectors[F constraints.Float](r *RNG, num, dimensions int, minVal, maxVal F) [][]F {
	r.mu.Lock()
	defer r.mu.Unlock()

	data := make([]F, num*dimensions)
	vectors := make([][]F, num)
	for i := range num {
		vec := data[i*dimensions : (i+1)*dimensions : (i+1)*dimensions]
		fillLocked(r, vec, minVal, maxVal)
		vectors[i] = vec
	}
	return vectors
}

// Constant returns a vector of n copies of v.
func Constant[F constraints.Float](n int, v F) []F {
	vec := make([]F, n)
	for i := range vec {
		vec[i] = v
	}
	return vec
}
