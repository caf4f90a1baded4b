package bridge

import (
	"context"
	"errors"
	"math/big"
	"sync"
	"testing"
	"time"

	"github.com/MorpheusAIs/capital-router/internal/lib"
	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBalances struct {
	mu      sync.Mutex
	balance *big.Int
	err     error
	calls   int
}

func (f *fakeBalances) Balance(ctx context.Context, token, account common.Address) (*big.Int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return new(big.Int).Set(f.balance), nil
}

func (f *fakeBalances) set(balance int64) {
	f.mu.Lock()
	f.balance = big.NewInt(balance)
	f.mu.Unlock()
}

func (f *fakeBalances) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeNotifier struct {
	mu        sync.Mutex
	successes []string
	infos     []string
	errors    []string
}

func (n *fakeNotifier) Success(msg string) {
	n.mu.Lock()
	n.successes = append(n.successes, msg)
	n.mu.Unlock()
}

func (n *fakeNotifier) Info(msg string) {
	n.mu.Lock()
	n.infos = append(n.infos, msg)
	n.mu.Unlock()
}

func (n *fakeNotifier) Error(msg string) {
	n.mu.Lock()
	n.errors = append(n.errors, msg)
	n.mu.Unlock()
}

func (n *fakeNotifier) counts() (int, int, int) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.successes), len(n.infos), len(n.errors)
}

func transfer(expected int64) Transfer {
	return Transfer{
		ID:       uuid.New(),
		Token:    common.HexToAddress("0x7431aDa8a591C955a994a21710752EF9b882b8e3"),
		Account:  common.HexToAddress("0x1111111111111111111111111111111111111111"),
		Expected: big.NewInt(expected),
	}
}

func newTestMonitor(reader BalanceReader, notifier Notifier, timeout time.Duration) *Monitor {
	return NewMonitor(context.Background(), reader, notifier, NewHistory(16), 5*time.Millisecond, timeout, lib.NewTestLogger())
}

func TestMonitorCompletesWithinTolerance(t *testing.T) {
	reader := &fakeBalances{balance: big.NewInt(1000)}
	notifier := &fakeNotifier{}
	m := newTestMonitor(reader, notifier, time.Second)
	defer m.Stop()

	refreshed := make(chan struct{}, 1)
	m.SetOnComplete(func() { refreshed <- struct{}{} })

	m.Submit(transfer(100))
	assert.Equal(t, StateSubmitted, m.State())

	require.NoError(t, m.Confirm(context.Background()))
	assert.Equal(t, StateMonitoring, m.State())

	// 1099-1000 = 99 >= 100-1, inside the 1% tolerance
	reader.set(1099)
	require.Eventually(t, func() bool { return m.State() == StateCompleted }, time.Second, time.Millisecond)

	select {
	case <-refreshed:
	case <-time.After(time.Second):
		t.Fatal("balance refresh hook was not invoked")
	}

	successes, _, _ := notifier.counts()
	assert.Equal(t, 1, successes)
	require.Equal(t, 1, m.history.Len())
	assert.Equal(t, StateCompleted, m.history.Records()[0].Outcome)
}

func TestMonitorStaysMonitoringBelowTolerance(t *testing.T) {
	reader := &fakeBalances{balance: big.NewInt(1000)}
	m := newTestMonitor(reader, &fakeNotifier{}, time.Minute)
	defer m.Stop()

	m.Submit(transfer(100))
	require.NoError(t, m.Confirm(context.Background()))

	// 1050-1000 = 50 < 99, not enough to count as delivered
	reader.set(1050)
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, StateMonitoring, m.State())
}

func TestMonitorTimesOutAndStopsPolling(t *testing.T) {
	reader := &fakeBalances{balance: big.NewInt(1000)}
	notifier := &fakeNotifier{}
	m := newTestMonitor(reader, notifier, 25*time.Millisecond)
	defer m.Stop()

	m.Submit(transfer(100))
	require.NoError(t, m.Confirm(context.Background()))

	require.Eventually(t, func() bool { return m.State() == StateTimedOut }, time.Second, time.Millisecond)

	// no balance reads may happen once the monitor timed out
	calls := reader.callCount()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, calls, reader.callCount())

	// a timeout is informational, never an error
	successes, infos, errs := notifier.counts()
	assert.Zero(t, successes)
	assert.Equal(t, 1, infos)
	assert.Zero(t, errs)

	require.Equal(t, 1, m.history.Len())
	assert.Equal(t, StateTimedOut, m.history.Records()[0].Outcome)
}

func TestMonitorSupersession(t *testing.T) {
	reader := &fakeBalances{balance: big.NewInt(1000)}
	notifier := &fakeNotifier{}
	m := newTestMonitor(reader, notifier, time.Minute)
	defer m.Stop()

	m.Submit(transfer(100))
	require.NoError(t, m.Confirm(context.Background()))
	require.Equal(t, StateMonitoring, m.State())

	// a new transfer supersedes the active session
	second := transfer(500)
	m.Submit(second)
	assert.Equal(t, StateSubmitted, m.State())
	require.NoError(t, m.Confirm(context.Background()))

	// only the second session's threshold matters now
	reader.set(1099)
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, StateMonitoring, m.State())

	reader.set(1500)
	require.Eventually(t, func() bool { return m.State() == StateCompleted }, time.Second, time.Millisecond)

	successes, _, _ := notifier.counts()
	assert.Equal(t, 1, successes)
}

func TestMonitorOutlivesConfirmContext(t *testing.T) {
	reader := &fakeBalances{balance: big.NewInt(1000)}
	notifier := &fakeNotifier{}
	m := newTestMonitor(reader, notifier, time.Second)
	defer m.Stop()

	m.Submit(transfer(100))

	// the caller's context dies right after Confirm returns, the way an HTTP
	// request context does once the response is written
	reqCtx, cancelReq := context.WithCancel(context.Background())
	require.NoError(t, m.Confirm(reqCtx))
	cancelReq()

	reader.set(1099)
	require.Eventually(t, func() bool { return m.State() == StateCompleted }, time.Second, time.Millisecond)

	successes, _, _ := notifier.counts()
	assert.Equal(t, 1, successes)
}

func TestMonitorTimesOutAfterConfirmContextCancelled(t *testing.T) {
	reader := &fakeBalances{balance: big.NewInt(1000)}
	notifier := &fakeNotifier{}
	m := newTestMonitor(reader, notifier, 25*time.Millisecond)
	defer m.Stop()

	m.Submit(transfer(100))

	reqCtx, cancelReq := context.WithCancel(context.Background())
	require.NoError(t, m.Confirm(reqCtx))
	cancelReq()

	require.Eventually(t, func() bool { return m.State() == StateTimedOut }, time.Second, time.Millisecond)

	_, infos, errs := notifier.counts()
	assert.Equal(t, 1, infos)
	assert.Zero(t, errs)
	assert.Equal(t, 1, m.history.Len())
}

func TestMonitorConfirmWithoutSubmit(t *testing.T) {
	m := newTestMonitor(&fakeBalances{balance: big.NewInt(0)}, &fakeNotifier{}, time.Minute)
	assert.ErrorIs(t, m.Confirm(context.Background()), ErrNoTransfer)
}

func TestMonitorConfirmInitialReadFailure(t *testing.T) {
	reader := &fakeBalances{err: errors.New("rpc unreachable")}
	m := newTestMonitor(reader, &fakeNotifier{}, time.Minute)

	m.Submit(transfer(100))
	err := m.Confirm(context.Background())
	assert.ErrorIs(t, err, ErrInitialBalance)
	assert.Equal(t, StateSubmitted, m.State())
}

func TestMonitorStopCancelsPolling(t *testing.T) {
	reader := &fakeBalances{balance: big.NewInt(1000)}
	m := newTestMonitor(reader, &fakeNotifier{}, time.Minute)

	m.Submit(transfer(100))
	require.NoError(t, m.Confirm(context.Background()))

	m.Stop()
	assert.Equal(t, StateIdle, m.State())

	time.Sleep(20 * time.Millisecond)
	calls := reader.callCount()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, calls, reader.callCount())
}

func TestCompletionThreshold(t *testing.T) {
	assert.Equal(t, int64(99), completionThreshold(big.NewInt(100)).Int64())
	assert.Equal(t, int64(990), completionThreshold(big.NewInt(1000)).Int64())
	// amounts too small for the integer tolerance require the full amount
	assert.Equal(t, int64(50), completionThreshold(big.NewInt(50)).Int64())
}

func TestHistoryBounded(t *testing.T) {
	h := NewHistory(2)
	for i := 0; i < 3; i++ {
		h.Add(Record{ID: uuid.New(), Outcome: StateCompleted, Expected: big.NewInt(int64(i))})
	}
	require.Equal(t, 2, h.Len())
	records := h.Records()
	assert.Equal(t, int64(1), records[0].Expected.Int64())
	assert.Equal(t, int64(2), records[1].Expected.Int64())
}
