// Package distance pairs plain float distances with their hybrid-vector
// counterparts.
//
// Plain functions run on the same kernels as the hybrid vector's
// full-precision half, so timing one against the other isolates the effect of
// the quantized half.
//
// # Supported Metrics
//
//   - MetricSquaredL2: Squared Euclidean distance (default)
//   - MetricL2: Euclidean distance
//
// # Usage
//
//	regular, _ := distance.Provider[float64](distance.MetricSquaredL2)
//	hybrid, _ := distance.HybridProvider[float64, uint8](distance.MetricSquaredL2)
//
//	want := regular(x, y)
//	got, err := hybrid(hx, hy)
package distance
