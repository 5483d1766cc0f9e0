package hybridvec

import "github.com/hupe1980/hybridvec/internal/simd"

// Add computes v += other element-wise.
//
// The full-precision half uses F arithmetic. Codes are added
// as raw Q integers and wrap on overflow; Params are not recomputed, so the
// result no longer dequantizes to the sum of the original values.
func (v *Vector[F, Q]) Add(other *Vector[F, Q]) error {
	if err := v.checkCompatible("add", other); err != nil {
		return err
	}
	simd.AddInPlace(v.fpHalf, other.fpHalf)
	simd.AddInPlace(v.qHalf, other.qHalf)
	return nil
}

// Sub computes v -= other element-wise. Codes wrap below zero.
func (v *Vector[F, Q]) Sub(other *Vector[F, Q]) error {
	if err := v.checkCompatible("sub", other); err != nil {
		return err
	}
	simd.SubInPlace(v.fpHalf, other.fpHalf)
	simd.SubInPlace(v.qHalf, other.qHalf)
	return nil
}

// Mul computes v *= other element-wise. Code products keep the low bits.
func (v *Vector[F, Q]) Mul(other *Vector[F, Q]) error {
	if err := v.checkCompatible("mul", other); err != nil {
		return err
	}
	simd.MulInPlace(v.fpHalf, other.fpHalf)
	simd.MulInPlace(v.qHalf, other.qHalf)
	return nil
}

// Plus returns v + other without modifying either operand.
func (v *Vector[F, Q]) Plus(other *Vector[F, Q]) (*Vector[F, Q], error) {
	return v.apply(other, (*Vector[F, Q]).Add)
}

// Minus returns v - other without modifying either operand.
func (v *Vector[F, Q]) Minus(other *Vector[F, Q]) (*Vector[F, Q], error) {
	return v.apply(other, (*Vector[F, Q]).Sub)
}

// Times returns v * other without modifying either operand.
func (v *Vector[F, Q]) Times(other *Vector[F, Q]) (*Vector[F, Q], error) {
	return v.apply(other, (*Vector[F, Q]).Mul)
}

func (v *Vector[F, Q]) apply(other *Vector[F, Q], op func(*Vector[F, Q], *Vector[F, Q]) error) (*Vector[F, Q], error) {
	result := v.Clone()
	if err := op(result, other); err != nil {
		return nil, err
	}
	return result, nil
}

func (v *Vector[F, Q]) checkCompatible(op string, other *Vector[F, Q]) error {
	if len(v.fpHalf) != len(other.fpHalf) {
		return &ErrLengthMismatch{Op: op, Expected: len(v.fpHalf), Actual: len(other.fpHalf)}
	}
	if len(v.qHalf) != len(other.qHalf) {
		return &ErrLengthMismatch{Op: op, Expected: len(v.qHalf), Actual: len(other.qHalf)}
	}
	return nil
}
