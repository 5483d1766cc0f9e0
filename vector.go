package hybridvec

import (
	"slices"
	"unsafe"

	"golang.org/x/exp/constraints"
)

// Float is the full-precision element type F.
type Float interface {
	constraints.Float
}

// Code is the quantization code type Q.
//
// Codes are fixed-width unsigned integers; element-wise arithmetic on them
// wraps modulo 2^bits.
type Code interface {
	~uint8 | ~uint16 | ~uint32
}

// Vector is a hybrid-precision vector.
//
// The first size/2 elements of the (padded) input are stored as F, the next
// size/2 as linearly quantized Q codes. Under the padding rule the logical
// size is always odd, so the trailing element of the padded input is not
// stored and takes no part in arithmetic, Accumulate or distance.
//
// Read-only methods are safe for concurrent use. Add, Sub and Mul mutate the
// receiver and must not run concurrently with any other method on it.
type Vector[F Float, Q Code] struct {
	size   int
	fpHalf []F
	qHalf  []Q
	params Params[F, Q]
}

// New builds a hybrid vector from values.
//
// fp_min/fp_max are taken from values before padding. An even-length input is
// padded with a single zero. The first size/2 elements are copied verbatim,
// the next size/2 are quantized and the trailing element is dropped.
func New[F Float, Q Code](values []F) (*Vector[F, Q], error) {
	if len(values) == 0 {
		return nil, ErrEmptyInput
	}

	minVal, maxVal := values[0], values[0]
	for _, x := range values[1:] {
		if x < minVal {
			minVal = x
		}
		if x > maxVal {
			maxVal = x
		}
	}
	params := newParams[F, Q](minVal, maxVal)

	n := len(values)
	size := n
	if n%2 == 0 {
		size = n + 1
	}
	// The padding zero is always the dropped trailing element, so both halves
	// lie within values.
	half := size / 2

	v := &Vector[F, Q]{
		size:   size,
		fpHalf: make([]F, half),
		qHalf:  make([]Q, half),
		params: params,
	}
	copy(v.fpHalf, values[:half])
	for i := range v.qHalf {
		v.qHalf[i] = params.Quantize(values[half+i])
	}

	return v, nil
}

// Size returns the padded logical element count.
func (v *Vector[F, Q]) Size() int {
	return v.size
}

// HalfLen returns the length of each half buffer.
func (v *Vector[F, Q]) HalfLen() int {
	return len(v.fpHalf)
}

// FPHalf returns the full-precision half. The slice aliases internal storage.
func (v *Vector[F, Q]) FPHalf() []F {
	return v.fpHalf
}

// QHalf returns the quantized half. The slice aliases internal storage.
func (v *Vector[F, Q]) QHalf() []Q {
	return v.qHalf
}

// Params returns the quantization parameters fixed at construction.
func (v *Vector[F, Q]) Params() Params[F, Q] {
	return v.params
}

// Clone returns a deep copy of v.
func (v *Vector[F, Q]) Clone() *Vector[F, Q] {
	return &Vector[F, Q]{
		size:   v.size,
		fpHalf: slices.Clone(v.fpHalf),
		qHalf:  slices.Clone(v.qHalf),
		params: v.params,
	}
}

// MemoryBytes returns the bytes held by the two half buffers.
func (v *Vector[F, Q]) MemoryBytes() int {
	var f F
	var q Q
	return len(v.fpHalf)*sizeOf(f) + len(v.qHalf)*sizeOf(q)
}

func sizeOf[T any](x T) int {
	return int(unsafe.Sizeof(x))
}
