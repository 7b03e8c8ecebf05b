package ledger

import (
	"context"
	"hosting-dashboard/internal/metrics"
	"sync"
	"time"
)

type MemoryLedger struct {
	claimed map[string]time.Time
	ttl     time.Duration
	now     func() time.Time
	mutex   sync.Mutex
}

func NewMemoryLedger(ttl time.Duration) *MemoryLedger {
	return &MemoryLedger{
		claimed: make(map[string]time.Time),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Claim marks code as consumed. Expired entries are swept on every call.
func (m *MemoryLedger) Claim(ctx context.Context, code string) (bool, error) {
	start := time.Now()
	defer func() {
		metrics.LedgerClaimDuration.WithLabelValues(metrics.LedgerTypeMemory).Observe(time.Since(start).Seconds())
	}()

	m.mutex.Lock()
	defer m.mutex.Unlock()

	now := m.now()
	m.sweep(now)

	if _, exists := m.claimed[code]; exists {
		metrics.LedgerClaims.WithLabelValues(metrics.LedgerTypeMemory, metrics.ClaimResultReplay).Inc()
		return false, nil
	}

	m.claimed[code] = now.Add(m.ttl)
	metrics.LedgerClaims.WithLabelValues(metrics.LedgerTypeMemory, metrics.ClaimResultClaimed).Inc()
	metrics.LedgerItems.WithLabelValues(metrics.LedgerTypeMemory).Set(float64(len(m.claimed)))
	return true, nil
}

func (m *MemoryLedger) sweep(now time.Time) {
	if m.ttl <= 0 {
		return
	}
	for code, expires := range m.claimed {
		if !now.Before(expires) {
			delete(m.claimed, code)
		}
	}
}

// Size returns the number of unexpired claims
func (m *MemoryLedger) Size(ctx context.Context) int {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.sweep(m.now())
	return len(m.claimed)
}

func (m *MemoryLedger) Close() error {
	return nil
}
