package simd

import "golang.org/x/exp/constraints"

// Number is the element type accepted by the element-wise kernels.
type Number interface {
	constraints.Integer | constraints.Float
}

// Reductions come in two flavours: a scalar loop (...Generic) and a
// four-accumulator loop (...Lanes) that breaks the loop-carried dependency so
// the compiler and the CPU can keep several FP pipelines busy. Both visit the
// same elements; results differ only by summation order.
//
// Go generics cannot be stored in package-level impl variables without
// instantiation, so dispatch is a branch on laneParallel.

// SquaredL2 computes sum_i (a[i] - b[i])^2.
//
// Assumes len(a) == len(b). Caller's responsibility.
func SquaredL2[F constraints.Float](a, b []F) F {
	if laneParallel {
		return squaredL2Lanes(a, b)
	}
	return squaredL2Generic(a, b)
}

func squaredL2Generic[F constraints.Float](a, b []F) F {
	b = b[:len(a)]
	var sum F
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}

func squaredL2Lanes[F constraints.Float](a, b []F) F {
	n := len(a)
	b = b[:n]
	var s0, s1, s2, s3 F
	i := 0
	for ; i+4 <= n; i += 4 {
		d0 := a[i] - b[i]
		d1 := a[i+1] - b[i+1]
		d2 := a[i+2] - b[i+2]
		d3 := a[i+3] - b[i+3]
		s0 += d0 * d0
		s1 += d1 * d1
		s2 += d2 * d2
		s3 += d3 * d3
	}
	for ; i < n; i++ {
		d := a[i] - b[i]
		s0 += d * d
	}
	return (s0 + s1) + (s2 + s3)
}

// SquaredL2Codes computes sum_i (F(a[i]) - F(b[i]))^2 over integer codes.
//
// Codes are lifted to F before subtracting, so unsigned wraparound never
// occurs. Assumes len(a) == len(b).
func SquaredL2Codes[F constraints.Float, Q constraints.Unsigned](a, b []Q) F {
	if laneParallel {
		return squaredL2CodesLanes[F](a, b)
	}
	return squaredL2CodesGeneric[F](a, b)
}

func squaredL2CodesGeneric[F constraints.Float, Q constraints.Unsigned](a, b []Q) F {
	b = b[:len(a)]
	var sum F
	for i := range a {
		d := F(a[i]) - F(b[i])
		sum += d * d
	}
	return sum
}

func squaredL2CodesLanes[F constraints.Float, Q constraints.Unsigned](a, b []Q) F {
	n := len(a)
	b = b[:n]
	var s0, s1, s2, s3 F
	i := 0
	for ; i+4 <= n; i += 4 {
		d0 := F(a[i]) - F(b[i])
		d1 := F(a[i+1]) - F(b[i+1])
		d2 := F(a[i+2]) - F(b[i+2])
		d3 := F(a[i+3]) - F(b[i+3])
		s0 += d0 * d0
		s1 += d1 * d1
		s2 += d2 * d2
		s3 += d3 * d3
	}
	for ; i < n; i++ {
		d := F(a[i]) - F(b[i])
		s0 += d * d
	}
	return (s0 + s1) + (s2 + s3)
}

// Sum returns sum_i a[i].
func Sum[F constraints.Float](a []F) F {
	if laneParallel {
		return sumLanes(a)
	}
	return sumGeneric(a)
}

func sumGeneric[F constraints.Float](a []F) F {
	var sum F
	for _, v := range a {
		sum += v
	}
	return sum
}

func sumLanes[F constraints.Float](a []F) F {
	n := len(a)
	var s0, s1, s2, s3 F
	i := 0
	for ; i+4 <= n; i += 4 {
		s0 += a[i]
		s1 += a[i+1]
		s2 += a[i+2]
		s3 += a[i+3]
	}
	for ; i < n; i++ {
		s0 += a[i]
	}
	return (s0 + s1) + (s2 + s3)
}

// SumDequantized returns sum_i (F(codes[i]) - offset) * scale.
func SumDequantized[F constraints.Float, Q constraints.Unsigned](codes []Q, offset, scale F) F {
	if laneParallel {
		return sumDequantizedLanes(codes, offset, scale)
	}
	return sumDequantizedGeneric(codes, offset, scale)
}

func sumDequantizedGeneric[F constraints.Float, Q constraints.Unsigned](codes []Q, offset, scale F) F {
	var sum F
	for _, c := range codes {
		sum += (F(c) - offset) * scale
	}
	return sum
}

func sumDequantizedLanes[F constraints.Float, Q constraints.Unsigned](codes []Q, offset, scale F) F {
	n := len(codes)
	var s0, s1, s2, s3 F
	i := 0
	for ; i+4 <= n; i += 4 {
		s0 += (F(codes[i]) - offset) * scale
		s1 += (F(codes[i+1]) - offset) * scale
		s2 += (F(codes[i+2]) - offset) * scale
		s3 += (F(codes[i+3]) - offset) * scale
	}
	for ; i < n; i++ {
		s0 += (F(codes[i]) - offset) * scale
	}
	return (s0 + s1) + (s2 + s3)
}

// AddInPlace computes dst[i] += src[i].
// Integer element types wrap on overflow.
//
// Assumes len(dst) == len(src).
func AddInPlace[T Number](dst, src []T) {
	src = src[:len(dst)]
	for i := range dst {
		dst[i] += src[i]
	}
}

// SubInPlace computes dst[i] -= src[i].
// Unsigned element types wrap below zero.
func SubInPlace[T Number](dst, src []T) {
	src = src[:len(dst)]
	for i := range dst {
		dst[i] -= src[i]
	}
}

// MulInPlace computes dst[i] *= src[i].
// Integer element types keep the low bits of the product.
func MulInPlace[T Number](dst, src []T) {
	src = src[:len(dst)]
	for i := range dst {
		dst[i] *= src[i]
	}
}
