// Package metrics carries order metrics from request goroutines to a single
// background reporter, and owns the service's prometheus collectors.
package metrics

import (
	"context"
	"errors"
	"sync"

	"github.com/yagoscalfoni/order-processing/internal/domain"
)

// ErrClosed is returned by Receive once the channel is closed and drained.
var ErrClosed = errors.New("metrics channel closed")

// Channel is an unbounded multi-producer, single-consumer queue.
// Producers never block; memory is the only bound.
type Channel struct {
	mu     sync.Mutex
	queue  []domain.OrderMetric
	closed bool
	notify chan struct{}

	onDrop func()
}

type ChannelOption func(*Channel)

// OnDrop registers fn to run for every publish rejected by a closed channel.
func OnDrop(fn func()) ChannelOption {
	return func(c *Channel) {
		c.onDrop = fn
	}
}

func NewChannel(opts ...ChannelOption) *Channel {
	c := &Channel{notify: make(chan struct{}, 1)}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// TryPublish enqueues m. It reports false only when the channel is closed.
func (c *Channel) TryPublish(m domain.OrderMetric) bool {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		if c.onDrop != nil {
			c.onDrop()
		}
		return false
	}
	c.queue = append(c.queue, m)
	// notify is closed only under mu, so this send cannot panic.
	select {
	case c.notify <- struct{}{}:
	default:
	}
	c.mu.Unlock()
	return true
}

// Receive returns the next metric, waiting if the queue is empty.
// Cancellation takes priority over queued items.
func (c *Channel) Receive(ctx context.Context) (domain.OrderMetric, error) {
	for {
		if err := ctx.Err(); err != nil {
			return domain.OrderMetric{}, err
		}

		c.mu.Lock()
		if len(c.queue) > 0 {
			m := c.queue[0]
			c.queue[0] = domain.OrderMetric{}
			c.queue = c.queue[1:]
			if len(c.queue) == 0 {
				c.queue = nil
			}
			c.mu.Unlock()
			return m, nil
		}
		if c.closed {
			c.mu.Unlock()
			return domain.OrderMetric{}, ErrClosed
		}
		c.mu.Unlock()

		select {
		case <-ctx.Done():
			return domain.OrderMetric{}, ctx.Err()
		case <-c.notify:
		}
	}
}

// Close stops accepting metrics. Already queued metrics stay receivable.
func (c *Channel) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.notify)
}

// Len reports how many metrics are waiting to be received.
func (c *Channel) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.queue)
}
