package rewards

import (
	"context"
	"time"

	"github.com/MorpheusAIs/capital-router/internal/interfaces"
	"github.com/MorpheusAIs/capital-router/internal/powerfactor"
	"github.com/shopspring/decimal"
	"go.uber.org/atomic"
)

// State of the estimation pipeline
type State string

const (
	StateDisabled State = "disabled"
	StateLoading  State = "loading"
	StateReady    State = "ready"
)

const secondsPerYear = powerfactor.DaysPerYear * powerfactor.SecondsPerDay

// PoolDataReader is the contract-read capability the pipeline depends on.
// Errors it returns must identify the failing contract call so that a user can
// tell "contract not deployed on this network" apart from "RPC call reverted".
type PoolDataReader interface {
	RewardPoolData(ctx context.Context) (*PoolRateData, error)
}

type EstimateInput struct {
	Amount    string
	LockValue string
	LockUnit  powerfactor.Unit
	// TokenDecimals of the deposit asset; 0 means DefaultTokenDecimals
	TokenDecimals int32
	// PowerFactor is an optional contract-reported display value; when empty
	// the local approximation curve is used instead
	PowerFactor string
}

type EstimatedRewardsResult struct {
	EstimatedRewards string
	PowerFactor      string
	UnlockDate       *time.Time
	State            State
	IsValid          bool
	Error            string
	Warning          string
}

type snapshot struct {
	data *PoolRateData
	err  error
}

// Estimator keeps a periodically refreshed pool-rate snapshot and combines it
// with the pure duration/power-factor/projection functions. Reads superseded
// by Invalidate are discarded, so the most recent user action always wins.
type Estimator struct {
	// config
	edition         powerfactor.Edition
	refreshInterval time.Duration

	// state
	enabled      atomic.Bool
	gen          atomic.Uint64
	snap         atomic.Value // snapshot
	invalidateCh chan struct{}

	// deps
	reader PoolDataReader
	log    interfaces.ILogger
}

func NewEstimator(reader PoolDataReader, edition powerfactor.Edition, refreshInterval time.Duration, log interfaces.ILogger) *Estimator {
	if refreshInterval == 0 {
		refreshInterval = 30 * time.Second
	}
	return &Estimator{
		edition:         edition,
		refreshInterval: refreshInterval,
		invalidateCh:    make(chan struct{}, 1),
		reader:          reader,
		log:             log,
	}
}

// Run refreshes the pool snapshot until the context is cancelled
func (e *Estimator) Run(ctx context.Context) error {
	ticker := time.NewTicker(e.refreshInterval)
	defer ticker.Stop()

	for {
		if e.enabled.Load() {
			e.refresh(ctx)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		case <-e.invalidateCh:
		}
	}
}

func (e *Estimator) refresh(ctx context.Context) {
	gen := e.gen.Load()

	data, err := e.reader.RewardPoolData(ctx)
	if ctx.Err() != nil {
		return
	}

	// a newer invalidation superseded this read
	if e.gen.Load() != gen {
		e.log.Debugf("discarding superseded pool data read, generation %d", gen)
		return
	}

	if err != nil {
		e.log.Warnf("pool data refresh failed: %s", err)
	}
	e.snap.Store(snapshot{data: data, err: err})
}

// SetEnabled turns the pipeline on or off. Disabling clears the snapshot so a
// later enable starts from the loading state instead of serving stale data.
func (e *Estimator) SetEnabled(enabled bool) {
	if enabled {
		if e.enabled.CompareAndSwap(false, true) {
			e.Invalidate()
		}
		return
	}

	if e.enabled.CompareAndSwap(true, false) {
		e.gen.Inc()
		e.snap.Store(snapshot{})
	}
}

// Invalidate forces a refetch, superseding any in-flight read. Called after
// user transactions (approve/stake/withdraw/claim) that move authoritative
// chain state.
func (e *Estimator) Invalidate() {
	e.gen.Inc()
	select {
	case e.invalidateCh <- struct{}{}:
	default:
	}
}

func (e *Estimator) State() State {
	if !e.enabled.Load() {
		return StateDisabled
	}
	s, ok := e.snap.Load().(snapshot)
	if !ok || s.data == nil {
		return StateLoading
	}
	return StateReady
}

// PoolData returns the latest snapshot, which may be absent while loading
func (e *Estimator) PoolData() (*PoolRateData, error) {
	s, ok := e.snap.Load().(snapshot)
	if !ok {
		return nil, nil
	}
	return s.data, s.err
}

// Estimate produces a result for the current user input against the latest
// pool snapshot. Input validation failures come back as invalid results;
// contract-read failures come back as the reader's diagnostic string.
func (e *Estimator) Estimate(input EstimateInput) EstimatedRewardsResult {
	state := e.State()
	res := EstimatedRewardsResult{State: state, EstimatedRewards: "---"}

	if state == StateDisabled {
		return res
	}

	data, readErr := e.PoolData()
	if readErr != nil {
		res.Error = readErr.Error()
	}
	if state == StateLoading || data == nil {
		return res
	}

	validation := e.edition.ValidateLockDuration(input.LockValue, input.LockUnit)
	res.Warning = validation.WarningMessage
	if !validation.IsValid {
		res.Error = validation.ErrorMessage
		return res
	}

	seconds := e.edition.DurationToSeconds(input.LockValue, input.LockUnit)
	if seconds == 0 {
		res.Error = "lock duration is not valid"
		return res
	}

	years := decimal.NewFromInt(seconds).Div(decimal.NewFromInt(secondsPerYear))
	yearsFloat, _ := years.Float64()

	pf := input.PowerFactor
	if pf == "" {
		pf = e.edition.FormatEstimate(yearsFloat)
	}
	res.PowerFactor = pf

	if unlock, ok := powerfactor.CalculateUnlockDate(input.LockValue, input.LockUnit, time.Now()); ok {
		res.UnlockDate = &unlock
	}

	proj := CalculateEstimatedRewards(ProjectionParams{
		DepositAmount:     input.Amount,
		PoolRate:          data.Rate,
		PowerFactor:       pf,
		LockDurationYears: years,
		TokenDecimals:     input.TokenDecimals,
	})
	if !proj.IsValid {
		res.Error = proj.Err.Error()
		return res
	}

	res.IsValid = true
	res.EstimatedRewards = proj.FormattedRewards
	return res
}
