// Package conv provides checked integer conversions.
//
// Fixture headers store counts as fixed-width unsigned integers, so values
// read from or written to disk pass through these helpers. Every failure
// matches ErrOverflow.
package conv
