package hybridvec

// Params holds the linear quantization parameters of a vector.
//
// They are derived once from the original input range and never recomputed,
// even when Add, Sub or Mul later change the codes.
type Params[F Float, Q Code] struct {
	// Min and Max are the extremes of the original input (before padding).
	Min, Max F
	// Scale is (Max - Min) / (q_max - q_min), or 1 for a degenerate range.
	Scale F
	// Offset is q_min - Min/Scale, or 0 for a degenerate range.
	Offset F
}

// CodeRange returns the representable code range [q_min, q_max] of Q.
func CodeRange[Q Code]() (Q, Q) {
	return 0, ^Q(0)
}

func newParams[F Float, Q Code](minVal, maxVal F) Params[F, Q] {
	qMin, qMax := CodeRange[Q]()

	p := Params[F, Q]{
		Min:   minVal,
		Max:   maxVal,
		Scale: (maxVal - minVal) / (F(qMax) - F(qMin)),
	}
	if maxVal == minVal {
		p.Scale = 1
		p.Offset = 0
	} else {
		p.Offset = F(qMin) - minVal/p.Scale
	}
	return p
}

// Degenerate reports whether all original values were equal.
// Every code is then 0 and dequantizes to Min.
func (p Params[F, Q]) Degenerate() bool {
	return p.Max == p.Min
}

// Quantize maps x to a code: trunc(x/Scale + Offset).
//
// The result is clamped to the code range so that the float-to-integer
// conversion is always defined; values inside [Min, Max] are unaffected.
func (p Params[F, Q]) Quantize(x F) Q {
	if p.Degenerate() {
		return 0
	}
	_, qMax := CodeRange[Q]()
	y := x/p.Scale + p.Offset
	switch {
	case y != y, y <= 0: // NaN or below range
		return 0
	case y >= F(qMax):
		return qMax
	}
	return Q(y)
}

// Dequantize maps a code back to (F(code) - Offset) * Scale.
// A degenerate range always yields Min.
func (p Params[F, Q]) Dequantize(code Q) F {
	if p.Degenerate() {
		return p.Min
	}
	return (F(code) - p.Offset) * p.Scale
}

// Step returns the width of one quantization step.
func (p Params[F, Q]) Step() F {
	if p.Degenerate() {
		return 0
	}
	return p.Scale
}
