package guard

import (
	"context"
	"sync"
	"time"

	"github.com/ololchike/tourpay/internal/domain"
)

// MemoryGuard tracks recently seen delivery keys in a process-local set with
// timed eviction. It only short-circuits redeliveries that land on the same
// process within the window; the reconciliation transaction is the durable
// backstop.
type MemoryGuard struct {
	mu     sync.Mutex
	seen   map[string]time.Time
	window time.Duration
}

func NewMemoryGuard(window time.Duration) domain.IdempotencyGuard {
	return &MemoryGuard{
		seen:   make(map[string]time.Time),
		window: window,
	}
}

func (g *MemoryGuard) TryBegin(_ context.Context, key string) (bool, error) {
	now := time.Now()

	g.mu.Lock()
	defer g.mu.Unlock()

	for k, expiry := range g.seen {
		if now.After(expiry) {
			delete(g.seen, k)
		}
	}

	if _, ok := g.seen[key]; ok {
		return false, nil
	}
	g.seen[key] = now.Add(g.window)
	return true, nil
}
