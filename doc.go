// Package hybridvec provides a hybrid-precision vector that halves the memory
// footprint of a float vector while keeping squared Euclidean distances close
// to exact.
//
// # Layout
//
// A Vector[F, Q] splits its (padded) input in two:
//
//	values:  x0 x1 ... x(h-1) | x(h) ... x(2h-1) | x(2h)
//	         fp half (F)      | q half (Q codes) | dropped
//
// Codes are produced by a linear quantizer whose scale and offset are derived
// once from the input's min/max:
//
//	scale  = (max - min) / (q_max - q_min)
//	offset = q_min - min/scale
//	code   = trunc(x/scale + offset)
//
// An input of even length is padded with one zero, so the logical size is
// always odd and h = size/2. The trailing element of the padded input is not
// stored: for even inputs it is the padding zero, for odd inputs it is the
// last input value.
//
// # Distance
//
// SquaredDistanceTo never dequantizes. The quantized half contributes
//
//	scale_a * scale_b * sum_i (a_i - b_i)^2
//
// over raw codes, which replaces a per-element dequantize/subtract/square with
// an integer difference, a square and one multiplication per call.
//
// # Usage
//
//	a, _ := hybridvec.New[float64, uint8](x)
//	b, _ := hybridvec.New[float64, uint8](y)
//	d2, err := a.SquaredDistanceTo(b)
//
// Any floating-point F (float32, float64) can be combined with any fixed-width
// unsigned Q (uint8, uint16, uint32).
//
// # Mutation
//
// Add, Sub and Mul operate on raw codes with wraparound and never rescale.
// Accumulate and SquaredDistanceTo on a mutated vector keep using the
// construction-time parameters and should be treated as diagnostic values.
package hybridvec
