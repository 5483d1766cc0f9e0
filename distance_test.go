package hybridvec

import (
	"errors"
	"math"
	"testing"

	"github.com/hupe1980/hybridvec/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func exactSquaredL2(a, b []float64) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}

func TestAccumulate(t *testing.T) {
	t.Run("UnitScale", func(t *testing.T) {
		// The trailing 7 is not stored.
		v := unitScale(t, 0, 255, 200, 100, 7)
		assert.Equal(t, 555.0, v.Accumulate())
	})

	t.Run("EvenPadding", func(t *testing.T) {
		v := unitScale(t, 0, 1, 2, 255)
		assert.Equal(t, 258.0, v.Accumulate())
	})

	t.Run("OddLength", func(t *testing.T) {
		// Range [1, 3]: scale 2/255, offset -127.5, code(2) = 127.
		v, err := New[float64, uint8]([]float64{1, 2, 3})
		require.NoError(t, err)

		p := v.Params()
		assert.InDelta(t, 1+p.Dequantize(127), v.Accumulate(), 1e-12)
		assert.InDelta(t, 2.996, v.Accumulate(), 1e-3)
	})

	t.Run("Random", func(t *testing.T) {
		rng := testutil.NewRNG(7)
		values := testutil.UniformVectors(rng, 1, 4096, -10.0, 10.0)[0]
		v, err := New[float64, uint8](values)
		require.NoError(t, err)

		var exact float64
		for _, x := range values {
			exact += x
		}
		// Each code is off by less than one step.
		bound := float64(v.HalfLen()) * v.Params().Scale
		assert.InDelta(t, exact, v.Accumulate(), bound)
	})
}

func TestAccumulate_Degenerate(t *testing.T) {
	// Only the 2*(size/2) stored elements count: odd n loses its last value,
	// even n loses only the padding zero.
	tests := map[int]float64{1: 0, 2: 5, 8: 20, 9: 20, 4096: 10240}
	for n, want := range tests {
		values := testutil.Constant(n, 2.5)
		v, err := New[float64, uint8](values)
		require.NoError(t, err)
		assert.InDelta(t, want, v.Accumulate(), 1e-9, "n=%d", n)
	}
}

func TestSquaredDistance_Exact(t *testing.T) {
	a := unitScale(t, 0, 1, 2, 3, 255)
	b := unitScale(t, 255, 2, 5, 0, 3)

	// fp: 255^2 + 1^2, codes: 3^2 + 3^2; the trailing 255 vs 3 is not stored.
	d, err := a.SquaredDistanceTo(b)
	require.NoError(t, err)
	assert.Equal(t, 65044.0, d)

	dist, err := a.DistanceTo(b)
	require.NoError(t, err)
	assert.InDelta(t, math.Sqrt(65044), dist, 1e-9)
}

func TestSquaredDistance_IgnoresTrailingElement(t *testing.T) {
	a, err := New[float64, uint8]([]float64{1, 2, 3})
	require.NoError(t, err)
	b, err := New[float64, uint8]([]float64{1, 2, 9})
	require.NoError(t, err)

	// fp halves are equal; codes 127 (range [1,3]) vs 31 (range [1,9]).
	require.Equal(t, []uint8{127}, a.QHalf())
	require.Equal(t, []uint8{31}, b.QHalf())
	want := 96.0 * 96.0 * a.Params().Scale * b.Params().Scale

	d, err := a.SquaredDistanceTo(b)
	require.NoError(t, err)
	assert.InDelta(t, want, d, 1e-12)
	assert.InDelta(t, 2.268, d, 1e-3)
}

func TestSquaredDistance_Properties(t *testing.T) {
	rng := testutil.NewRNG(1)
	raw := testutil.UniformVectors(rng, 16, 129, -10.0, 10.0)

	vecs := make([]*Vector[float64, uint8], len(raw))
	for i, r := range raw {
		v, err := New[float64, uint8](r)
		require.NoError(t, err)
		vecs[i] = v
	}

	for i, a := range vecs {
		self, err := a.SquaredDistanceTo(a)
		require.NoError(t, err)
		assert.Equal(t, 0.0, self)

		for j, b := range vecs {
			ab, err := a.SquaredDistanceTo(b)
			require.NoError(t, err)
			ba, err := b.SquaredDistanceTo(a)
			require.NoError(t, err)

			assert.GreaterOrEqual(t, ab, 0.0)
			assert.Equal(t, ab, ba, "pair (%d,%d)", i, j)
		}
	}
}

func TestSquaredDistance_Degenerate(t *testing.T) {
	a, err := New[float64, uint8](testutil.Constant(9, 3.0))
	require.NoError(t, err)
	b, err := New[float64, uint8](testutil.Constant(9, 3.0))
	require.NoError(t, err)

	d, err := a.SquaredDistanceTo(b)
	require.NoError(t, err)
	assert.Equal(t, 0.0, d)

	// A degenerate receiver skips the quantized half entirely.
	c, err := New[float64, uint8]([]float64{3, 3, 3, 3, 3, 3, 3, 255, 3})
	require.NoError(t, err)
	d, err = a.SquaredDistanceTo(c)
	require.NoError(t, err)
	assert.Equal(t, 0.0, d)
}

func TestSquaredDistance_Accuracy(t *testing.T) {
	const dim = 4096

	for seed := int64(0); seed < 20; seed++ {
		rng := testutil.NewRNG(seed)
		raw := testutil.UniformVectors(rng, 2, dim, -10.0, 10.0)

		a, err := New[float64, uint8](raw[0])
		require.NoError(t, err)
		b, err := New[float64, uint8](raw[1])
		require.NoError(t, err)

		got, err := a.DistanceTo(b)
		require.NoError(t, err)
		want := math.Sqrt(exactSquaredL2(raw[0], raw[1]))

		relErr := math.Abs(got-want) / want
		assert.Less(t, relErr, 0.01, "seed %d", seed)
	}
}

func TestSquaredDistance_Float32Uint16(t *testing.T) {
	rng := testutil.NewRNG(3)
	raw := testutil.UniformVectors(rng, 2, 1024, float32(-1), float32(1))

	a, err := New[float32, uint16](raw[0])
	require.NoError(t, err)
	b, err := New[float32, uint16](raw[1])
	require.NoError(t, err)

	var exact float64
	for i := range raw[0] {
		d := float64(raw[0][i] - raw[1][i])
		exact += d * d
	}

	got, err := a.SquaredDistanceTo(b)
	require.NoError(t, err)
	assert.InEpsilon(t, exact, float64(got), 0.001)
}

func TestSquaredDistance_LengthMismatch(t *testing.T) {
	a, err := New[float64, uint8]([]float64{1, 2, 3})
	require.NoError(t, err)
	b, err := New[float64, uint8]([]float64{1, 2, 3, 4, 5})
	require.NoError(t, err)

	_, err = a.SquaredDistanceTo(b)
	assert.True(t, errors.Is(err, ErrIncompatible))

	_, err = a.DistanceTo(b)
	var lm *ErrLengthMismatch
	require.ErrorAs(t, err, &lm)
	assert.Equal(t, "squared distance", lm.Op)
}

func TestSquaredDistance_Concurrent(t *testing.T) {
	rng := testutil.NewRNG(11)
	raw := testutil.UniformVectors(rng, 8, 512, -10.0, 10.0)

	vecs := make([]*Vector[float64, uint8], len(raw))
	for i, r := range raw {
		v, err := New[float64, uint8](r)
		require.NoError(t, err)
		vecs[i] = v
	}

	want := make([]float64, len(vecs)-1)
	for i := range want {
		d, err := vecs[i].SquaredDistanceTo(vecs[i+1])
		require.NoError(t, err)
		want[i] = d
	}

	var g errgroup.Group
	got := make([][]float64, 8)
	for w := range got {
		got[w] = make([]float64, len(want))
		g.Go(func() error {
			for i := range want {
				d, err := vecs[i].SquaredDistanceTo(vecs[i+1])
				if err != nil {
					return err
				}
				got[w][i] = d
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	for w := range got {
		assert.Equal(t, want, got[w])
	}
}

func BenchmarkSquaredDistance(b *testing.B) {
	rng := testutil.NewRNG(0)
	raw := testutil.UniformVectors(rng, 2, 4096, -10.0, 10.0)
	x, _ := New[float64, uint8](raw[0])
	y, _ := New[float64, uint8](raw[1])

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = x.SquaredDistanceTo(y)
	}
}
