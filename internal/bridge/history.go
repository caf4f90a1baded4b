package bridge

import (
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gammazero/deque"
	"github.com/google/uuid"
)

// Record is a finished monitoring session
type Record struct {
	ID         uuid.UUID      `json:"id"`
	Token      common.Address `json:"token"`
	Account    common.Address `json:"account"`
	Expected   *big.Int       `json:"expected"`
	Outcome    State          `json:"outcome"`
	StartedAt  time.Time      `json:"startedAt"`
	FinishedAt time.Time      `json:"finishedAt"`
}

// History keeps the most recent finished transfers in a bounded ring buffer;
// the oldest record is overwritten when capacity is reached
type History struct {
	mu   sync.Mutex
	data *deque.Deque[Record]
	cap  int
}

func NewHistory(cap int) *History {
	return &History{
		data: deque.New[Record](cap, cap),
		cap:  cap,
	}
}

func (h *History) Add(r Record) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.data.Len() >= h.cap {
		h.data.PopFront()
	}
	h.data.PushBack(r)
}

func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.data.Len()
}

// Records returns finished transfers, newest last
func (h *History) Records() []Record {
	h.mu.Lock()
	defer h.mu.Unlock()

	out := make([]Record, 0, h.data.Len())
	for i := 0; i < h.data.Len(); i++ {
		out = append(out, h.data.At(i))
	}
	return out
}
