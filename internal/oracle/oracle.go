// Package oracle converts raw venue readings into the launch strategy's
// oracle configuration parameters.
//
// Both conversions are approximations: the pool tick maps to a liquidity
// bucket by floored integer division clamped to the supported range, and
// the TWAP answer maps to a 1e8-scaled USD value with truncating division.
// Rounding near bucket boundaries is intentionally coarse.
package oracle

import "math/big"

const (
	// BucketWidth is the tick span covered by one liquidity bucket.
	BucketWidth = 200

	MinBucket = -4435
	MaxBucket = 4435
)

// usdScale normalizes price-feed answers (8 decimals) to whole 1e8 USD units.
var usdScale = big.NewInt(1e8)

// Params are the venue parameters the launch strategy's oracle configuration
// call carries.
type Params struct {
	Bucket  *big.Int
	TwapUSD *big.Int
}

// DeriveParams computes oracle parameters from a pool tick and a price-feed
// TWAP answer.
func DeriveParams(tick, answer *big.Int) Params {
	return Params{
		Bucket:  big.NewInt(BucketForTick(tick)),
		TwapUSD: TwapToUSD(answer),
	}
}

// BucketForTick maps a tick to its bucket index: floor division by the bucket
// width, clamped to [MinBucket, MaxBucket].
func BucketForTick(tick *big.Int) int64 {
	bucket := new(big.Int).Div(tick, big.NewInt(BucketWidth))

	if bucket.Cmp(big.NewInt(MinBucket)) < 0 {
		return MinBucket
	}
	if bucket.Cmp(big.NewInt(MaxBucket)) > 0 {
		return MaxBucket
	}

	return bucket.Int64()
}

// TwapToUSD converts a 1e8-scaled price-feed answer to whole USD, truncating
// toward zero. Negative answers clamp to zero; a feed reporting below zero is
// broken, not a price.
func TwapToUSD(answer *big.Int) *big.Int {
	if answer == nil || answer.Sign() <= 0 {
		return big.NewInt(0)
	}
	return new(big.Int).Quo(answer, usdScale)
}
