package rewards

import (
	"math/big"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// rate of 2.0 reward tokens per deposited token per year, 18 decimals
func rateWei(whole int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(whole), new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil))
}

func validParams() ProjectionParams {
	return ProjectionParams{
		DepositAmount:     "100",
		PoolRate:          rateWei(2),
		PowerFactor:       "x2.0",
		LockDurationYears: decimal.NewFromInt(1),
	}
}

func TestCalculateEstimatedRewards(t *testing.T) {
	res := CalculateEstimatedRewards(validParams())
	require.True(t, res.IsValid)
	require.NoError(t, res.Err)

	// 100 * 2.0 * 1y = 200 base, * x2.0 = 400
	assert.True(t, res.BaseRewards.Equal(decimal.NewFromInt(200)), "base %s", res.BaseRewards)
	assert.True(t, res.FinalRewards.Equal(decimal.NewFromInt(400)), "final %s", res.FinalRewards)
	assert.Equal(t, "400.0000", res.FormattedRewards)
}

func TestCalculateEstimatedRewardsZeroDeposit(t *testing.T) {
	p := validParams()
	p.DepositAmount = "0"
	res := CalculateEstimatedRewards(p)
	assert.False(t, res.IsValid)
	assert.ErrorIs(t, res.Err, ErrDepositNotPositive)

	p.DepositAmount = "-5"
	res = CalculateEstimatedRewards(p)
	assert.ErrorIs(t, res.Err, ErrDepositNotPositive)
}

func TestCalculateEstimatedRewardsMalformedDeposit(t *testing.T) {
	p := validParams()
	p.DepositAmount = "1,000"
	res := CalculateEstimatedRewards(p)
	assert.False(t, res.IsValid)
	assert.ErrorIs(t, res.Err, ErrDepositInvalid)
}

func TestCalculateEstimatedRewardsMissingRate(t *testing.T) {
	p := validParams()
	p.PoolRate = nil
	res := CalculateEstimatedRewards(p)
	assert.ErrorIs(t, res.Err, ErrRateUnavailable)

	p.PoolRate = big.NewInt(0)
	res = CalculateEstimatedRewards(p)
	assert.ErrorIs(t, res.Err, ErrRateUnavailable)
}

func TestCalculateEstimatedRewardsTransientPowerFactor(t *testing.T) {
	for _, pf := range []string{"Loading...", "Error", "---", "", "2.0", "x"} {
		p := validParams()
		p.PowerFactor = pf
		res := CalculateEstimatedRewards(p)
		assert.False(t, res.IsValid, "power factor %q", pf)
		assert.ErrorIs(t, res.Err, ErrPowerFactorNotReady, "power factor %q", pf)
	}
}

func TestCalculateEstimatedRewardsZeroDuration(t *testing.T) {
	p := validParams()
	p.LockDurationYears = decimal.Zero
	res := CalculateEstimatedRewards(p)
	assert.ErrorIs(t, res.Err, ErrDurationNotPositive)
}

func TestCalculateEstimatedRewardsTokenDecimals(t *testing.T) {
	// the same fixed-point rate means wildly different things at 8 vs 18 decimals
	p := validParams()
	p.PoolRate = big.NewInt(200000000) // 2.0 at 8 decimals
	p.TokenDecimals = 8
	res := CalculateEstimatedRewards(p)
	require.True(t, res.IsValid)
	assert.True(t, res.FinalRewards.Equal(decimal.NewFromInt(400)), "final %s", res.FinalRewards)

	p.TokenDecimals = 0 // defaults to 18
	res = CalculateEstimatedRewards(p)
	require.True(t, res.IsValid)
	assert.True(t, res.FinalRewards.LessThan(decimal.NewFromInt(1)), "final %s", res.FinalRewards)
}

func TestCalculateEstimatedRewardsMonotonicity(t *testing.T) {
	base := CalculateEstimatedRewards(validParams())
	require.True(t, base.IsValid)

	p := validParams()
	p.DepositAmount = "150"
	assert.True(t, CalculateEstimatedRewards(p).FinalRewards.GreaterThan(base.FinalRewards))

	p = validParams()
	p.PoolRate = rateWei(3)
	assert.True(t, CalculateEstimatedRewards(p).FinalRewards.GreaterThan(base.FinalRewards))

	p = validParams()
	p.LockDurationYears = decimal.NewFromInt(2)
	assert.True(t, CalculateEstimatedRewards(p).FinalRewards.GreaterThan(base.FinalRewards))

	p = validParams()
	p.PowerFactor = "x3.5"
	assert.True(t, CalculateEstimatedRewards(p).FinalRewards.GreaterThan(base.FinalRewards))
}

func TestCalculateEstimatedRewardsFractionalYears(t *testing.T) {
	p := validParams()
	p.LockDurationYears = decimal.NewFromFloat(0.5)
	res := CalculateEstimatedRewards(p)
	require.True(t, res.IsValid)
	assert.True(t, res.FinalRewards.Equal(decimal.NewFromInt(200)), "final %s", res.FinalRewards)
}
