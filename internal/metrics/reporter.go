package metrics

import (
	"context"
	"errors"
	"log/slog"
)

// Reporter is the single consumer of a Channel. Each metric becomes one log record.
type Reporter struct {
	ch       *Channel
	logger   *slog.Logger
	reported func()
}

func NewReporter(ch *Channel, logger *slog.Logger, collectors *Collectors) *Reporter {
	if logger == nil {
		logger = slog.Default()
	}
	r := &Reporter{ch: ch, logger: logger}
	if collectors != nil {
		r.reported = collectors.MetricsReported.Inc
	}
	return r
}

// Run drains the channel until it is closed and empty, returning nil, or
// until ctx is cancelled, returning ctx.Err() and abandoning queued metrics.
func (r *Reporter) Run(ctx context.Context) error {
	for {
		m, err := r.ch.Receive(ctx)
		if err != nil {
			if errors.Is(err, ErrClosed) {
				r.logger.Info("metrics reporter drained")
				return nil
			}
			if pending := r.ch.Len(); pending > 0 {
				r.logger.Warn("metrics reporter stopped with pending metrics", "pending", pending)
			}
			return err
		}

		r.logger.Info("order processed",
			"order_id", m.OrderID,
			"total_amount", m.TotalAmount.String(),
			"created_at", m.CreatedAt,
		)
		if r.reported != nil {
			r.reported()
		}
	}
}
