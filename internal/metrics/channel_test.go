package metrics

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yagoscalfoni/order-processing/internal/domain"
)

func metric(id int64) domain.OrderMetric {
	return domain.OrderMetric{
		OrderID:     id,
		TotalAmount: decimal.NewFromInt(id),
		CreatedAt:   time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestChannel_PublishReceiveFIFO(t *testing.T) {
	t.Parallel()

	ch := NewChannel()
	for i := int64(1); i <= 3; i++ {
		require.True(t, ch.TryPublish(metric(i)))
	}
	assert.Equal(t, 3, ch.Len())

	ctx := context.Background()
	for i := int64(1); i <= 3; i++ {
		m, err := ch.Receive(ctx)
		require.NoError(t, err)
		assert.Equal(t, i, m.OrderID)
	}
	assert.Equal(t, 0, ch.Len())
}

func TestChannel_ReceiveWaitsForPublish(t *testing.T) {
	t.Parallel()

	ch := NewChannel()
	got := make(chan domain.OrderMetric, 1)
	go func() {
		m, err := ch.Receive(context.Background())
		if err == nil {
			got <- m
		}
	}()

	time.Sleep(20 * time.Millisecond)
	require.True(t, ch.TryPublish(metric(42)))

	select {
	case m := <-got:
		assert.Equal(t, int64(42), m.OrderID)
	case <-time.After(2 * time.Second):
		t.Fatal("receiver was not woken by publish")
	}
}

func TestChannel_CloseDrainsThenReportsClosed(t *testing.T) {
	t.Parallel()

	dropped := 0
	ch := NewChannel(OnDrop(func() { dropped++ }))
	require.True(t, ch.TryPublish(metric(1)))
	ch.Close()
	ch.Close()

	assert.False(t, ch.TryPublish(metric(2)))
	assert.Equal(t, 1, dropped)

	m, err := ch.Receive(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), m.OrderID)

	_, err = ch.Receive(context.Background())
	assert.True(t, errors.Is(err, ErrClosed))
}

func TestChannel_CancelledReceiveDropsPending(t *testing.T) {
	t.Parallel()

	ch := NewChannel()
	require.True(t, ch.TryPublish(metric(1)))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := ch.Receive(ctx)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Equal(t, 1, ch.Len())
}

func TestChannel_ConcurrentProducers(t *testing.T) {
	t.Parallel()

	const producers, perProducer = 16, 250
	ch := NewChannel()

	var wg sync.WaitGroup
	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func(p int) {
			defer wg.Done()
			for i := 0; i < perProducer; i++ {
				ch.TryPublish(metric(int64(p*perProducer + i)))
			}
		}(p)
	}
	wg.Wait()
	ch.Close()

	seen := make(map[int64]struct{}, producers*perProducer)
	for {
		m, err := ch.Receive(context.Background())
		if errors.Is(err, ErrClosed) {
			break
		}
		require.NoError(t, err)
		seen[m.OrderID] = struct{}{}
	}
	assert.Len(t, seen, producers*perProducer)
}
