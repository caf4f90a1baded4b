package rewards

import (
	"errors"
	"math/big"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrDepositInvalid      = errors.New("deposit amount is not a valid number")
	ErrDepositNotPositive  = errors.New("deposit amount must be greater than zero")
	ErrRateUnavailable     = errors.New("reward pool rate is not available")
	ErrDurationNotPositive = errors.New("lock duration must be greater than zero")
	ErrPowerFactorNotReady = errors.New("power factor is not ready")
)

// DefaultTokenDecimals applies to ETH-pegged deposit assets. BTC-pegged pools
// use 8; decimals must be threaded explicitly per asset because a wrong value
// silently skews the result by orders of magnitude.
const DefaultTokenDecimals = 18

// display form produced by powerfactor.FormatPowerFactor
var powerFactorRe = regexp.MustCompile(`^x(\d+(?:\.\d+)?)$`)

// PoolRateData is a read-only snapshot of the emission state reported by the
// deposit pool contract.
type PoolRateData struct {
	LastUpdate            time.Time
	Rate                  *big.Int
	TotalVirtualDeposited *big.Int
}

type ProjectionParams struct {
	// DepositAmount is a decimal string in whole-token units
	DepositAmount string
	// PoolRate is the fixed-point reward rate per deposited token per year
	PoolRate *big.Int
	// PowerFactor is the display form, e.g. "x2.5"
	PowerFactor string
	// LockDurationYears may be fractional
	LockDurationYears decimal.Decimal
	// TokenDecimals scales PoolRate; 0 means DefaultTokenDecimals
	TokenDecimals int32
}

type ProjectionResult struct {
	FormattedRewards string
	BaseRewards      decimal.Decimal
	FinalRewards     decimal.Decimal
	IsValid          bool
	Err              error
}

// CalculateEstimatedRewards projects the reward payout for a prospective
// deposit. Pure computation: expected bad input comes back as an invalid
// result, never a panic or NaN.
func CalculateEstimatedRewards(p ProjectionParams) ProjectionResult {
	amount, err := decimal.NewFromString(strings.TrimSpace(p.DepositAmount))
	if err != nil {
		return ProjectionResult{Err: ErrDepositInvalid}
	}
	if amount.Sign() <= 0 {
		return ProjectionResult{Err: ErrDepositNotPositive}
	}

	if p.PoolRate == nil || p.PoolRate.Sign() <= 0 {
		return ProjectionResult{Err: ErrRateUnavailable}
	}

	if p.LockDurationYears.Sign() <= 0 {
		return ProjectionResult{Err: ErrDurationNotPositive}
	}

	pf, ok := parsePowerFactor(p.PowerFactor)
	if !ok {
		return ProjectionResult{Err: ErrPowerFactorNotReady}
	}

	decimals := p.TokenDecimals
	if decimals == 0 {
		decimals = DefaultTokenDecimals
	}

	rate := decimal.NewFromBigInt(p.PoolRate, -decimals)
	base := amount.Mul(rate).Mul(p.LockDurationYears)
	final := base.Mul(pf)

	return ProjectionResult{
		FormattedRewards: final.StringFixed(4),
		BaseRewards:      base,
		FinalRewards:     final,
		IsValid:          true,
	}
}

// parsePowerFactor accepts only the settled display form. Transient values the
// UI layer may hold ("Loading...", "Error", "---") fail the match and are
// treated as not-yet-ready rather than as x1.0.
func parsePowerFactor(s string) (decimal.Decimal, bool) {
	m := powerFactorRe.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return decimal.Decimal{}, false
	}

	pf, err := decimal.NewFromString(m[1])
	if err != nil {
		return decimal.Decimal{}, false
	}
	return pf, true
}
