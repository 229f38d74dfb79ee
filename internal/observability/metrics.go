package observability

import (
	"strconv"
	"sync"
	"sync/atomic"
	"time"
)

// Metrics keeps in-process request and error counters. Totals feed the admin
// dashboard; the per-route maps exist for debugging and are never exported.
type Metrics struct {
	totalReqs atomic.Int64
	totalErrs atomic.Int64

	mu       sync.Mutex
	requests map[string]int64
	errors   map[string]int64
}

func NewMetrics() *Metrics {
	return &Metrics{
		requests: make(map[string]int64),
		errors:   make(map[string]int64),
	}
}

// RecordRequest counts a completed request under its path|method|status key.
func (m *Metrics) RecordRequest(path, method string, status int, _ time.Duration) {
	if m == nil {
		return
	}
	m.totalReqs.Add(1)
	key := path + "|" + method + "|" + strconv.Itoa(status)
	m.mu.Lock()
	m.requests[key]++
	m.mu.Unlock()
}

// RecordError counts a rendered error under its path|method|code key.
func (m *Metrics) RecordError(path, method, code string) {
	if m == nil {
		return
	}
	m.totalErrs.Add(1)
	key := path + "|" + method + "|" + code
	m.mu.Lock()
	m.errors[key]++
	m.mu.Unlock()
}

// Snapshot returns the aggregate request and error totals.
func (m *Metrics) Snapshot() (requests, errors int64) {
	if m == nil {
		return 0, 0
	}
	return m.totalReqs.Load(), m.totalErrs.Load()
}
