//go:build amd64 || arm64

package conv

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntToUint32(t *testing.T) {
	tests := []struct {
		name    string
		in      int
		want    uint32
		wantErr bool
	}{
		{"zero", 0, 0, false},
		{"positive", 4096, 4096, false},
		{"max int32", math.MaxInt32, math.MaxInt32, false},
		{"max uint32", math.MaxUint32, math.MaxUint32, false},
		{"negative", -1, 0, true},
		{"too large", math.MaxUint32 + 1, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := IntToUint32(tt.in)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrOverflow)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestUint64ToInt(t *testing.T) {
	got, err := Uint64ToInt(1 << 20)
	require.NoError(t, err)
	assert.Equal(t, 1<<20, got)

	_, err = Uint64ToInt(math.MaxUint64)
	require.ErrorIs(t, err, ErrOverflow)

	var ovf *OverflowError
	require.ErrorAs(t, err, &ovf)
	assert.Equal(t, "int", ovf.Target)
}

func TestMulInt(t *testing.T) {
	got, err := MulInt(1000, 4096)
	require.NoError(t, err)
	assert.Equal(t, 4096000, got)

	got, err = MulInt(0, math.MaxInt)
	require.NoError(t, err)
	assert.Zero(t, got)

	_, err = MulInt(math.MaxInt/2, 3)
	assert.ErrorIs(t, err, ErrOverflow)

	_, err = MulInt(-1, 2)
	assert.ErrorIs(t, err, ErrOverflow)
}
