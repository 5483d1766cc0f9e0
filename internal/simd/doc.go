// Package simd provides the data-parallel loops behind hybrid vectors.
//
// # Supported Platforms
//
//   - x86-64: AVX-512, AVX2
//   - ARM64: NEON, SVE2
//
// Runtime CPU feature detection decides whether the four-lane kernels are
// used. Every kernel is plain Go: the detected ISA changes only the
// accumulator layout, not the instructions emitted by hand. Set
// HYBRIDVEC_SIMD=generic to force the scalar fallback.
//
// # Operations
//
//   - Distance: SquaredL2, SquaredL2Codes
//   - Reduction: Sum, SumDequantized
//   - Element-wise: AddInPlace, SubInPlace, MulInPlace
//
// The scalar and lane variants agree up to floating-point summation order.
package simd
