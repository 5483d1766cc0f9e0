// Package testutil provides deterministic data generators for tests and the
// benchmark harness.
//
// # Random Vector Generation
//
//	rng := testutil.NewRNG(seed)
//	vecs := testutil.UniformVectors(rng, 1000, 4096, -10.0, 10.0)
//
//	buf := make([]float32, 128)
//	testutil.FillUniformRange(rng, buf, -1, 1)
//
// RNG is safe for concurrent use; every generator locks once per call.
package testutil
