package hybridvec

import (
	"math"

	"github.com/hupe1980/hybridvec/internal/simd"
)

// Accumulate returns the sum of the full-precision half and the dequantized
// codes.
//
// Codes are dequantized with the construction-time Params. After Add, Sub or
// Mul this is no longer a physically meaningful value.
func (v *Vector[F, Q]) Accumulate() F {
	sum := simd.Sum(v.fpHalf)
	if v.params.Degenerate() {
		for range v.qHalf {
			sum += v.params.Min
		}
	} else {
		sum += simd.SumDequantized(v.qHalf, v.params.Offset, v.params.Scale)
	}
	return sum
}

// SquaredDistanceTo approximates the squared Euclidean distance to other.
//
// The quantized half is never dequantized. For codes a, b the squared
// difference of their dequantized values is taken as
//
//	(a - b)^2 * scale_v * scale_other
//
// so the hot loop is an integer difference, a square and, once per call, a
// multiplication by the scale product. When v's range is degenerate the
// quantized half contributes nothing.
//
// The result is only meaningful for vectors that were not mutated after
// construction, because the scales are not updated by Add, Sub or Mul.
func (v *Vector[F, Q]) SquaredDistanceTo(other *Vector[F, Q]) (F, error) {
	if err := v.checkCompatible("squared distance", other); err != nil {
		return 0, err
	}

	sum := simd.SquaredL2(v.fpHalf, other.fpHalf)
	if !v.params.Degenerate() {
		scaleProduct := v.params.Scale * other.params.Scale
		sum += simd.SquaredL2Codes[F](v.qHalf, other.qHalf) * scaleProduct
	}
	return sum, nil
}

// DistanceTo returns sqrt(SquaredDistanceTo(other)).
func (v *Vector[F, Q]) DistanceTo(other *Vector[F, Q]) (F, error) {
	sq, err := v.SquaredDistanceTo(other)
	if err != nil {
		return 0, err
	}
	return F(math.Sqrt(float64(sq))), nil
}
