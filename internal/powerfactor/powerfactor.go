package powerfactor

import (
	"math"
	"math/big"

	"github.com/shopspring/decimal"
)

// Contract reads report the multiplier as an integer scaled by 10^21 and then
// by 10^4, so the displayed value is raw / 10^25.
const rawMultiplierExponent = -25

const fallbackPowerFactor = "x1.0"

// growth constant of the client-side approximation curve
const estimateGrowthK = 2.5

// FormatPowerFactor converts a raw contract-reported multiplier into the
// display form "x<one-decimal>". Zero and negative raws render as "x0.0"
// instead of failing; any conversion panic falls back to "x1.0". This is
// display-only and must never fail the caller.
func (e Edition) FormatPowerFactor(raw *big.Int) (out string) {
	defer func() {
		if r := recover(); r != nil {
			out = fallbackPowerFactor
		}
	}()

	if raw == nil {
		return fallbackPowerFactor
	}

	d := decimal.NewFromBigInt(raw, rawMultiplierExponent)
	if d.Sign() <= 0 {
		return "x0.0"
	}

	max := decimal.NewFromFloat(e.MaxPowerFactor)
	if d.GreaterThan(max) {
		d = max
	}

	return "x" + d.StringFixed(1)
}

// EstimatePowerFactor approximates the multiplier for a lock of the given
// length when no contract read is available. It is an exponential approach to
// the edition maximum, a UI preview only: it will disagree with the
// authoritative on-chain curve near the extremes.
func (e Edition) EstimatePowerFactor(lockYears float64) float64 {
	if lockYears <= 0 {
		return 1
	}

	x := lockYears / MaxLockYears
	if x > 1 {
		x = 1
	}

	pf := 1 + (e.MaxPowerFactor-1)*(1-math.Exp(-estimateGrowthK*x))
	if pf > e.MaxPowerFactor {
		pf = e.MaxPowerFactor
	}
	return pf
}

// FormatEstimate renders the local approximation in the same display form as
// contract-reported multipliers.
func (e Edition) FormatEstimate(lockYears float64) string {
	return "x" + decimal.NewFromFloat(e.EstimatePowerFactor(lockYears)).StringFixed(1)
}
