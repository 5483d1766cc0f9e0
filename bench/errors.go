package bench

import (
	"errors"
	"fmt"
)

var (
	// ErrFixtureCorrupt is returned when a fixture fails header or checksum
	// validation.
	ErrFixtureCorrupt = errors.New("bench: corrupt fixture")

	// ErrZeroBaseline is returned when the regular distance total is zero, so
	// a relative error is undefined.
	ErrZeroBaseline = errors.New("bench: baseline distance total is zero")
)

// ErrInvalidConfig indicates a configuration value outside its valid range.
//
// The original underlying error (if any) can be accessed via errors.Unwrap.
type ErrInvalidConfig struct {
	Field  string
	Value  any
	Reason string
	cause  error
}

func (e *ErrInvalidConfig) Error() string {
	return fmt.Sprintf("invalid %s (%v): %s", e.Field, e.Value, e.Reason)
}

func (e *ErrInvalidConfig) Unwrap() error { return e.cause }

func invalid(field string, value any, reason string) error {
	return &ErrInvalidConfig{Field: field, Value: value, Reason: reason}
}

// ErrRunFailed wraps an error raised while timing a run.
type ErrRunFailed struct {
	Run   int
	cause error
}

func (e *ErrRunFailed) Error() string {
	return fmt.Sprintf("run %d: %v", e.Run, e.cause)
}

func (e *ErrRunFailed) Unwrap() error { return e.cause }
