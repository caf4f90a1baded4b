package rewards

import (
	"context"
	"errors"
	"math/big"
	"sync"
	"testing"
	"time"

	"github.com/MorpheusAIs/capital-router/internal/lib"
	"github.com/MorpheusAIs/capital-router/internal/powerfactor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePoolReader struct {
	mu     sync.Mutex
	data   *PoolRateData
	err    error
	calls  int
	onRead func()
}

func (f *fakePoolReader) RewardPoolData(ctx context.Context) (*PoolRateData, error) {
	f.mu.Lock()
	f.calls++
	data, err, onRead := f.data, f.err, f.onRead
	f.mu.Unlock()

	if onRead != nil {
		onRead()
	}
	return data, err
}

func (f *fakePoolReader) set(data *PoolRateData, err error) {
	f.mu.Lock()
	f.data, f.err = data, err
	f.mu.Unlock()
}

func poolData() *PoolRateData {
	return &PoolRateData{
		LastUpdate:            time.Now(),
		Rate:                  new(big.Int).Mul(big.NewInt(2), new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil)),
		TotalVirtualDeposited: big.NewInt(1),
	}
}

func newTestEstimator(reader PoolDataReader) *Estimator {
	return NewEstimator(reader, powerfactor.EditionV2, 10*time.Millisecond, lib.NewTestLogger())
}

func TestEstimatorDisabledByDefault(t *testing.T) {
	e := newTestEstimator(&fakePoolReader{})

	assert.Equal(t, StateDisabled, e.State())

	res := e.Estimate(EstimateInput{Amount: "100", LockValue: "1", LockUnit: powerfactor.UnitYears})
	assert.Equal(t, StateDisabled, res.State)
	assert.False(t, res.IsValid)
	assert.Equal(t, "---", res.EstimatedRewards)
}

func TestEstimatorLoadingUntilFirstRead(t *testing.T) {
	e := newTestEstimator(&fakePoolReader{data: poolData()})
	e.SetEnabled(true)

	assert.Equal(t, StateLoading, e.State())
	res := e.Estimate(EstimateInput{Amount: "100", LockValue: "1", LockUnit: powerfactor.UnitYears})
	assert.Equal(t, StateLoading, res.State)
	assert.False(t, res.IsValid)
}

func TestEstimatorReadyAfterRefresh(t *testing.T) {
	reader := &fakePoolReader{data: poolData()}
	e := newTestEstimator(reader)
	e.SetEnabled(true)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	task := lib.NewTaskFunc(e.Run, "estimator")
	task.Start(ctx)
	defer func() { <-task.Stop() }()

	require.Eventually(t, func() bool { return e.State() == StateReady }, time.Second, 5*time.Millisecond)

	res := e.Estimate(EstimateInput{Amount: "100", LockValue: "1", LockUnit: powerfactor.UnitYears})
	assert.True(t, res.IsValid)
	assert.NotEqual(t, "---", res.EstimatedRewards)
	assert.NotEmpty(t, res.PowerFactor)
	assert.NotNil(t, res.UnlockDate)
}

func TestEstimatorReadySurfacesInputValidation(t *testing.T) {
	reader := &fakePoolReader{data: poolData()}
	e := newTestEstimator(reader)
	e.SetEnabled(true)
	e.refresh(context.Background())
	require.Equal(t, StateReady, e.State())

	// pipeline stays ready even when the specific input combination is invalid
	res := e.Estimate(EstimateInput{Amount: "0", LockValue: "1", LockUnit: powerfactor.UnitYears})
	assert.Equal(t, StateReady, res.State)
	assert.False(t, res.IsValid)
	assert.Equal(t, ErrDepositNotPositive.Error(), res.Error)

	res = e.Estimate(EstimateInput{Amount: "100", LockValue: "7", LockUnit: powerfactor.UnitYears})
	assert.False(t, res.IsValid)
	assert.Contains(t, res.Error, "maximum lock period")

	res = e.Estimate(EstimateInput{Amount: "100", LockValue: "3", LockUnit: powerfactor.UnitMonths})
	assert.True(t, res.IsValid)
	assert.NotEmpty(t, res.Warning)
}

func TestEstimatorSurfacesReadDiagnostics(t *testing.T) {
	readErr := errors.New(`distribution.poolsData(0) call failed on sepolia: execution reverted`)
	e := newTestEstimator(&fakePoolReader{err: readErr})
	e.SetEnabled(true)
	e.refresh(context.Background())

	res := e.Estimate(EstimateInput{Amount: "100", LockValue: "1", LockUnit: powerfactor.UnitYears})
	assert.False(t, res.IsValid)
	assert.Contains(t, res.Error, "distribution.poolsData")
}

func TestEstimatorDiscardsSupersededReads(t *testing.T) {
	reader := &fakePoolReader{data: poolData()}
	e := newTestEstimator(reader)
	e.SetEnabled(true)

	// invalidation lands while the read is in flight; its result must not stick
	reader.onRead = func() { e.Invalidate() }
	e.refresh(context.Background())
	assert.Equal(t, StateLoading, e.State())

	reader.onRead = nil
	e.refresh(context.Background())
	assert.Equal(t, StateReady, e.State())
}

func TestEstimatorInvalidateForcesRefetch(t *testing.T) {
	reader := &fakePoolReader{data: poolData()}
	e := newTestEstimator(reader)
	e.SetEnabled(true)
	e.refresh(context.Background())

	reader.set(nil, errors.New("token.balanceOf call failed on sepolia"))
	e.refresh(context.Background())

	_, err := e.PoolData()
	assert.Error(t, err)
}

func TestEstimatorDisableClearsSnapshot(t *testing.T) {
	reader := &fakePoolReader{data: poolData()}
	e := newTestEstimator(reader)
	e.SetEnabled(true)
	e.refresh(context.Background())
	require.Equal(t, StateReady, e.State())

	e.SetEnabled(false)
	assert.Equal(t, StateDisabled, e.State())

	// a later enable starts from loading, not from a stale snapshot
	e.SetEnabled(true)
	assert.Equal(t, StateLoading, e.State())
}
