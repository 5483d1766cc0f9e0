package conv

import (
	"errors"
	"fmt"
	"math"
)

// ErrOverflow matches every *OverflowError.
var ErrOverflow = errors.New("integer overflow")

// OverflowError reports a value that does not fit in the target type.
type OverflowError struct {
	Value  any
	Target string
}

func (e *OverflowError) Error() string {
	return fmt.Sprintf("integer overflow: %v cannot be converted to %s", e.Value, e.Target)
}

func (e *OverflowError) Is(target error) bool {
	return target == ErrOverflow
}

// IntToUint32 converts int to uint32 safely.
func IntToUint32(v int) (uint32, error) {
	// On 32-bit platforms the upper check is always false.
	if v < 0 || uint64(v) > math.MaxUint32 {
		return 0, &OverflowError{Value: v, Target: "uint32"}
	}
	return uint32(v), nil
}

// Uint64ToInt converts uint64 to int safely.
func Uint64ToInt(v uint64) (int, error) {
	if v > uint64(math.MaxInt) {
		return 0, &OverflowError{Value: v, Target: "int"}
	}
	return int(v), nil
}

// MulInt returns a*b for non-negative operands, or an error if the product
// overflows int.
func MulInt(a, b int) (int, error) {
	if a < 0 || b < 0 {
		return 0, &OverflowError{Value: fmt.Sprintf("%d*%d", a, b), Target: "int"}
	}
	if a != 0 && b > math.MaxInt/a {
		return 0, &OverflowError{Value: fmt.Sprintf("%d*%d", a, b), Target: "int"}
	}
	return a * b, nil
}
