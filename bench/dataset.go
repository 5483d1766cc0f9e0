package bench

import (
	"math/rand/v2"
	"time"

	"gonum.org/v1/gonum/stat/distuv"
)

// Dataset is a row-major matrix of float64 vectors in one backing array.
type Dataset struct {
	Count int
	Dim   int
	// Seed is the generator seed actually used, or zero for loaded fixtures.
	Seed int64

	data []float64
}

// NewDataset wraps data as count vectors of dim elements.
// It panics if len(data) != count*dim.
func NewDataset(count, dim int, data []float64) *Dataset {
	if len(data) != count*dim {
		panic("bench: dataset shape does not match data length")
	}
	return &Dataset{Count: count, Dim: dim, data: data}
}

// Generate draws count*dim values uniformly from [minVal, maxVal).
// A zero seed is replaced with a time-based one, recorded in Dataset.Seed.
func Generate(count, dim int, minVal, maxVal float64, seed int64) *Dataset {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	rng := rand.New(rand.NewPCG(uint64(seed), uint64(seed)^0x9e3779b97f4a7c15))
	dist := distuv.Uniform{Min: minVal, Max: maxVal}

	data := make([]float64, count*dim)
	for i := range data {
		data[i] = dist.Quantile(rng.Float64())
	}

	ds := NewDataset(count, dim, data)
	ds.Seed = seed
	return ds
}

// Vector returns row i. The slice aliases the dataset.
func (d *Dataset) Vector(i int) []float64 {
	start := i * d.Dim
	return d.data[start : start+d.Dim : start+d.Dim]
}

// Rows returns every row as a slice aliasing the dataset.
func (d *Dataset) Rows() [][]float64 {
	rows := make([][]float64, d.Count)
	for i := range rows {
		rows[i] = d.Vector(i)
	}
	return rows
}

// Data returns the backing array.
func (d *Dataset) Data() []float64 {
	return d.data
}
