package oracle

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBucketForTick(t *testing.T) {
	tests := []struct {
		name string
		tick int64
		want int64
	}{
		{"zero tick", 0, 0},
		{"inside first bucket", 199, 0},
		{"first boundary", 200, 1},
		{"mid positive", 1234, 6},
		{"negative floors down", -1, -1},
		{"negative boundary", -200, -1},
		{"below negative boundary", -201, -2},
		{"clamped high", 10_000_000, 4435},
		{"clamped low", -10_000_000, -4435},
		{"exactly max", 4435 * 200, 4435},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BucketForTick(big.NewInt(tt.tick))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTwapToUSD(t *testing.T) {
	tests := []struct {
		name   string
		answer *big.Int
		want   int64
	}{
		{"whole dollars", big.NewInt(2500_0000_0000), 2500},
		{"truncates cents", big.NewInt(1_9999_9999), 1},
		{"sub-dollar truncates to zero", big.NewInt(9999_9999), 0},
		{"zero answer", big.NewInt(0), 0},
		{"negative feed clamps to zero", big.NewInt(-5_0000_0000), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TwapToUSD(tt.answer)
			assert.Equal(t, tt.want, got.Int64())
		})
	}
}

func TestDeriveParams(t *testing.T) {
	params := DeriveParams(big.NewInt(1234), big.NewInt(2500_0000_0000))

	require.NotNil(t, params.Bucket)
	require.NotNil(t, params.TwapUSD)
	assert.Equal(t, int64(6), params.Bucket.Int64())
	assert.Equal(t, int64(2500), params.TwapUSD.Int64())
}

// Callers hold the returned values across goroutines; deriving twice must not
// alias the inputs.
func TestDeriveParamsDoesNotMutateInputs(t *testing.T) {
	tick := big.NewInt(1234)
	answer := big.NewInt(2500_0000_0000)

	DeriveParams(tick, answer)

	assert.Equal(t, int64(1234), tick.Int64())
	assert.Equal(t, int64(2500_0000_0000), answer.Int64())
}
