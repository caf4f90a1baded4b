package bridge

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/MorpheusAIs/capital-router/internal/interfaces"
	"github.com/MorpheusAIs/capital-router/internal/lib"
	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
	"go.uber.org/atomic"
)

type State string

const (
	StateIdle       State = "idle"
	StateSubmitted  State = "submitted"
	StateMonitoring State = "monitoring"
	StateCompleted  State = "completed"
	StateTimedOut   State = "timed_out"
)

const (
	DefaultPollInterval = 15 * time.Second
	DefaultTimeout      = 10 * time.Minute

	// bridges may apply rounding or micro-fees; they should not block
	// completion detection
	toleranceDivisor = 100
)

var (
	ErrNoTransfer     = errors.New("no submitted transfer to monitor")
	ErrSuperseded     = errors.New("transfer superseded by a newer one")
	ErrInitialBalance = errors.New("initial destination balance read failed")
)

// BalanceReader is the destination-chain balance capability. The monitor uses
// it identically for the one-shot initial read and for polling.
type BalanceReader interface {
	Balance(ctx context.Context, token common.Address, account common.Address) (*big.Int, error)
}

// Transfer describes a cross-chain transfer whose delivery is awaited on the
// destination chain.
type Transfer struct {
	ID       uuid.UUID
	Token    common.Address
	Account  common.Address
	Expected *big.Int
}

type session struct {
	transfer  Transfer
	initial   *big.Int
	startedAt time.Time
}

// Monitor detects asynchronous bridge message delivery by polling the
// destination-chain balance until it rises by roughly the expected amount.
// One session is active per bridge direction; submitting a new transfer
// supersedes the previous session explicitly.
type Monitor struct {
	// config
	pollInterval time.Duration
	timeout      time.Duration

	// state
	mu      sync.Mutex
	state   atomic.String
	current *session
	task    *lib.Task

	// deps
	baseCtx    context.Context
	reader     BalanceReader
	notifier   Notifier
	history    *History
	onComplete func()
	log        interfaces.ILogger
}

// NewMonitor binds the polling lifetime to ctx, the application context.
// Short-lived contexts (an HTTP request) must never drive the poller; they
// only guard the one-shot read in Confirm.
func NewMonitor(ctx context.Context, reader BalanceReader, notifier Notifier, history *History, pollInterval, timeout time.Duration, log interfaces.ILogger) *Monitor {
	if ctx == nil {
		ctx = context.Background()
	}
	if pollInterval == 0 {
		pollInterval = DefaultPollInterval
	}
	if timeout == 0 {
		timeout = DefaultTimeout
	}

	m := &Monitor{
		pollInterval: pollInterval,
		timeout:      timeout,
		baseCtx:      ctx,
		reader:       reader,
		notifier:     notifier,
		history:      history,
		log:          log,
	}
	m.state.Store(string(StateIdle))
	return m
}

// SetOnComplete registers the refresh hook invoked after a detected delivery,
// so other readers of the same balance refetch instead of serving stale state
func (m *Monitor) SetOnComplete(f func()) {
	m.mu.Lock()
	m.onComplete = f
	m.mu.Unlock()
}

func (m *Monitor) State() State {
	return State(m.state.Load())
}

// Submit records a signed transfer, superseding any active session
func (m *Monitor) Submit(t Transfer) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.stopLocked()
	m.current = &session{transfer: t}
	m.state.Store(string(StateSubmitted))
	m.log.Infof("bridge transfer %s submitted, expecting %s on destination", t.ID, t.Expected)
}

// Confirm is called once the source-chain transaction is mined. It captures
// the destination balance with a dedicated one-shot read before polling
// starts, so an arrival between submission and the first poll is not missed.
// ctx bounds that read only; the polling task runs on the monitor's own
// context and outlives the caller.
func (m *Monitor) Confirm(ctx context.Context) error {
	m.mu.Lock()
	cur := m.current
	m.mu.Unlock()

	if cur == nil {
		return ErrNoTransfer
	}

	initial, err := m.reader.Balance(ctx, cur.transfer.Token, cur.transfer.Account)
	if err != nil {
		return lib.WrapError(ErrInitialBalance, err)
	}

	m.mu.Lock()
	if m.current != cur {
		m.mu.Unlock()
		return ErrSuperseded
	}
	cur.initial = initial
	cur.startedAt = time.Now()
	m.state.Store(string(StateMonitoring))

	task := lib.NewTaskFunc(func(ctx context.Context) error {
		return m.watch(ctx, cur)
	}, "bridge-monitor-"+cur.transfer.ID.String())
	m.task = task
	m.mu.Unlock()

	task.Start(m.baseCtx)
	m.log.Infof("monitoring destination balance for transfer %s, initial %s", cur.transfer.ID, initial)
	return nil
}

// Stop tears the monitor down; polling and the timeout are cancelled together
func (m *Monitor) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopLocked()
	m.state.Store(string(StateIdle))
}

func (m *Monitor) stopLocked() {
	if m.task != nil {
		m.task.Stop()
		m.task = nil
	}
	m.current = nil
}

var errNotArrived = errors.New("transfer not arrived yet")

func (m *Monitor) watch(ctx context.Context, s *session) error {
	threshold := completionThreshold(s.transfer.Expected)

	err := lib.Poll(ctx, m.timeout, func() error {
		bal, err := m.reader.Balance(ctx, s.transfer.Token, s.transfer.Account)
		if err != nil {
			m.log.Warnf("destination balance read failed: %s", err)
			return err
		}

		delta := new(big.Int).Sub(bal, s.initial)
		if delta.Cmp(threshold) >= 0 {
			return nil
		}
		return errNotArrived
	}, m.pollInterval)

	if ctx.Err() != nil {
		// superseded or torn down, not this session's outcome to record
		return ctx.Err()
	}

	if err == nil {
		m.finish(s, StateCompleted)
		m.notifier.Success(fmt.Sprintf("bridge transfer %s arrived on the destination chain", s.transfer.ID))
		return nil
	}

	// delivery latency is inherently variable: a timeout is informational,
	// not proof of failure
	m.finish(s, StateTimedOut)
	m.notifier.Info(fmt.Sprintf("bridge transfer %s was not detected within %s, verify the balance manually", s.transfer.ID, m.timeout))
	return nil
}

func (m *Monitor) finish(s *session, outcome State) {
	var onComplete func()

	m.mu.Lock()
	if m.current == s {
		m.current = nil
		m.task = nil
		m.state.Store(string(outcome))
		if outcome == StateCompleted {
			onComplete = m.onComplete
		}
	}
	m.mu.Unlock()

	if m.history != nil {
		m.history.Add(Record{
			ID:         s.transfer.ID,
			Token:      s.transfer.Token,
			Account:    s.transfer.Account,
			Expected:   s.transfer.Expected,
			Outcome:    outcome,
			StartedAt:  s.startedAt,
			FinishedAt: time.Now(),
		})
	}

	if onComplete != nil {
		onComplete()
	}
}

// completionThreshold is the expected amount minus a 1% tolerance
func completionThreshold(expected *big.Int) *big.Int {
	tolerance := new(big.Int).Div(expected, big.NewInt(toleranceDivisor))
	return new(big.Int).Sub(expected, tolerance)
}
