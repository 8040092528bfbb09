package app

import (
	"context"
	"fmt"
	"sync/atomic"

	"golang.org/x/sync/semaphore"

	"github.com/yagoscalfoni/order-processing/internal/domain"
)

// DefaultAdmissionCapacity bounds concurrent order creations process-wide.
const DefaultAdmissionCapacity = 8

// AdmissionGate is a counting limiter for in-flight order creations.
// Waiters suspend on their context instead of holding a lock, and are
// granted permits roughly in arrival order.
type AdmissionGate struct {
	sem      *semaphore.Weighted
	capacity int64
	inFlight atomic.Int64
	waiting  atomic.Int64
}

func NewAdmissionGate(capacity int) *AdmissionGate {
	if capacity <= 0 {
		capacity = DefaultAdmissionCapacity
	}
	return &AdmissionGate{
		sem:      semaphore.NewWeighted(int64(capacity)),
		capacity: int64(capacity),
	}
}

// Acquire blocks until a permit is free or ctx is done. A cancelled wait
// consumes no permit. Only callers that find no free permit count as waiting.
func (g *AdmissionGate) Acquire(ctx context.Context) error {
	if !g.sem.TryAcquire(1) {
		g.waiting.Add(1)
		err := g.sem.Acquire(ctx, 1)
		g.waiting.Add(-1)
		if err != nil {
			return fmt.Errorf("%w: %w", domain.ErrCancelled, err)
		}
	}
	g.inFlight.Add(1)
	return nil
}

// Release returns one permit. It must be paired with a successful Acquire.
func (g *AdmissionGate) Release() {
	g.inFlight.Add(-1)
	g.sem.Release(1)
}

// Do runs fn while holding a permit and releases it on every return path.
func (g *AdmissionGate) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := g.Acquire(ctx); err != nil {
		return err
	}
	defer g.Release()
	return fn(ctx)
}

func (g *AdmissionGate) Capacity() int64 { return g.capacity }

func (g *AdmissionGate) InFlight() int64 { return g.inFlight.Load() }

func (g *AdmissionGate) Waiting() int64 { return g.waiting.Load() }
