package hybridvec

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyInput is returned when constructing a vector from an empty sequence.
	ErrEmptyInput = errors.New("hybridvec: empty input")

	// ErrIncompatible is matched by every *ErrLengthMismatch via errors.Is.
	ErrIncompatible = errors.New("hybridvec: incompatible vectors")
)

// ErrLengthMismatch indicates a binary operation between vectors whose half
// buffers differ in length.
type ErrLengthMismatch struct {
	Op       string
	Expected int
	Actual   int
}

func (e *ErrLengthMismatch) Error() string {
	return fmt.Sprintf("hybridvec: %s: half length mismatch: expected %d, got %d", e.Op, e.Expected, e.Actual)
}

// Is reports ErrIncompatible as a match.
func (e *ErrLengthMismatch) Is(target error) bool {
	return target == ErrIncompatible
}
