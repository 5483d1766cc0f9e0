package distance

import (
	"fmt"
	"math"
	"strings"

	"github.com/hupe1980/hybridvec"
	"github.com/hupe1980/hybridvec/internal/simd"
	"golang.org/x/exp/constraints"
)

// SquaredL2 calculates the squared L2 (Euclidean) distance between two vectors.
// Assumes vectors are the same length (caller's responsibility).
func SquaredL2[F constraints.Float](a, b []F) F {
	return simd.SquaredL2(a, b)
}

// L2 calculates the Euclidean distance between two vectors.
func L2[F constraints.Float](a, b []F) F {
	return F(math.Sqrt(float64(simd.SquaredL2(a, b))))
}

// HybridSquaredL2 is the squared distance between two hybrid vectors.
func HybridSquaredL2[F hybridvec.Float, Q hybridvec.Code](a, b *hybridvec.Vector[F, Q]) (F, error) {
	return a.SquaredDistanceTo(b)
}

// HybridL2 is the Euclidean distance between two hybrid vectors.
func HybridL2[F hybridvec.Float, Q hybridvec.Code](a, b *hybridvec.Vector[F, Q]) (F, error) {
	return a.DistanceTo(b)
}

// Metric represents the distance metric used for vector comparison.
type Metric int

const (
	// MetricSquaredL2 is the squared Euclidean distance (default).
	MetricSquaredL2 Metric = iota
	// MetricL2 is the Euclidean distance.
	MetricL2
)

func (m Metric) String() string {
	switch m {
	case MetricSquaredL2:
		return "squared_l2"
	case MetricL2:
		return "l2"
	default:
		return fmt.Sprintf("unknown(%d)", m)
	}
}

// ParseMetric parses a metric name as accepted in configuration files.
func ParseMetric(s string) (Metric, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "squared_l2", "sql2":
		return MetricSquaredL2, nil
	case "l2", "euclidean":
		return MetricL2, nil
	default:
		return 0, fmt.Errorf("unsupported metric: %q", s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (m Metric) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Metric) UnmarshalText(text []byte) error {
	parsed, err := ParseMetric(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// Func is a function type for distance calculation on plain vectors.
type Func[F constraints.Float] func(a, b []F) F

// HybridFunc is a function type for distance calculation on hybrid vectors.
type HybridFunc[F hybridvec.Float, Q hybridvec.Code] func(a, b *hybridvec.Vector[F, Q]) (F, error)

// Provider returns the plain distance function for the given metric.
func Provider[F constraints.Float](m Metric) (Func[F], error) {
	switch m {
	case MetricSquaredL2:
		return SquaredL2[F], nil
	case MetricL2:
		return L2[F], nil
	default:
		return nil, fmt.Errorf("unsupported metric: %v", m)
	}
}

// HybridProvider returns the hybrid distance function for the given metric.
func HybridProvider[F hybridvec.Float, Q hybridvec.Code](m Metric) (HybridFunc[F, Q], error) {
	switch m {
	case MetricSquaredL2:
		return HybridSquaredL2[F, Q], nil
	case MetricL2:
		return HybridL2[F, Q], nil
	default:
		return nil, fmt.Errorf("unsupported metric: %v", m)
	}
}
