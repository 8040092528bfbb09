package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/yagoscalfoni/order-processing/internal/clock"
	"github.com/yagoscalfoni/order-processing/internal/domain"
)

// OrderCreator stores a draft and returns the id assigned by storage.
// Implementations insert the order and its lines atomically.
type OrderCreator interface {
	CreateOrder(ctx context.Context, draft domain.OrderDraft) (int64, error)
}

type OrderCreatorFunc func(ctx context.Context, draft domain.OrderDraft) (int64, error)

func (f OrderCreatorFunc) CreateOrder(ctx context.Context, draft domain.OrderDraft) (int64, error) {
	return f(ctx, draft)
}

// SyncOrderCreator is the blocking flavour of OrderCreator for stores that
// have no context-aware I/O path.
type SyncOrderCreator interface {
	CreateOrderSync(draft domain.OrderDraft) (int64, error)
}

// FromSync adapts a SyncOrderCreator. The context is only checked before the call.
func FromSync(c SyncOrderCreator) OrderCreator {
	return OrderCreatorFunc(func(ctx context.Context, draft domain.OrderDraft) (int64, error) {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		return c.CreateOrderSync(draft)
	})
}

// Gate limits how many orders are processed at once.
type Gate interface {
	Acquire(ctx context.Context) error
	Release()
}

// MetricsPublisher accepts metrics without blocking.
type MetricsPublisher interface {
	TryPublish(m domain.OrderMetric) bool
}

type OrderState string

const (
	StateReceived         OrderState = "received"
	StateValidating       OrderState = "validating"
	StateRejected         OrderState = "rejected"
	StateNormalizing      OrderState = "normalizing"
	StateAdmissionWait    OrderState = "admission_wait"
	StateAdmissionGranted OrderState = "admission_granted"
	StateTaxComputation   OrderState = "tax_computation"
	StatePersisting       OrderState = "persisting"
	StateMetricEmit       OrderState = "metric_emit"
	StateCompleted        OrderState = "completed"
	StateCancelled        OrderState = "cancelled"
	StateFailed           OrderState = "failed"
)

// StateObserver is notified of every state a request passes through.
type StateObserver func(ctx context.Context, state OrderState)

type OrderService struct {
	tax     TaxClient
	gate    Gate
	metrics MetricsPublisher
	clock   clock.Clock
	logger  *slog.Logger
	observe StateObserver
}

type OrderServiceOption func(*OrderService)

func WithLogger(logger *slog.Logger) OrderServiceOption {
	return func(s *OrderService) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithStateObserver(fn StateObserver) OrderServiceOption {
	return func(s *OrderService) {
		s.observe = fn
	}
}

func NewOrderService(tax TaxClient, gate Gate, metrics MetricsPublisher, clk clock.Clock, opts ...OrderServiceOption) *OrderService {
	svc := &OrderService{
		tax:     tax,
		gate:    gate,
		metrics: metrics,
		clock:   clk,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

type CreateOrderResult struct {
	OrderID     int64
	CreatedAt   time.Time
	TotalAmount decimal.Decimal
	Currency    string
}

// CreateOrder runs a request through validation, admission, tax and storage.
// The admission permit, once taken, is released on every return path.
func (s *OrderService) CreateOrder(ctx context.Context, in CreateOrderInput, creator OrderCreator) (CreateOrderResult, error) {
	s.enter(ctx, StateReceived)

	s.enter(ctx, StateValidating)
	if msgs := slices.Collect(Validate(in)); len(msgs) > 0 {
		s.enter(ctx, StateRejected)
		s.logger.WarnContext(ctx, "order validation failed", "errors", msgs)
		return CreateOrderResult{}, &domain.ValidationError{Messages: msgs}
	}

	s.enter(ctx, StateNormalizing)
	lines := NormalizeLines(in.Items)
	subtotal := Subtotal(lines, in.Currency)

	s.enter(ctx, StateAdmissionWait)
	if err := ctx.Err(); err != nil {
		s.enter(ctx, StateCancelled)
		return CreateOrderResult{}, fmt.Errorf("%w: %w", domain.ErrCancelled, err)
	}
	if err := s.gate.Acquire(ctx); err != nil {
		s.enter(ctx, StateCancelled)
		if !errors.Is(err, domain.ErrCancelled) {
			err = fmt.Errorf("%w: %w", domain.ErrCancelled, err)
		}
		return CreateOrderResult{}, err
	}
	defer s.gate.Release()
	s.enter(ctx, StateAdmissionGranted)

	res, err := s.admit(ctx, in.CustomerID, subtotal, lines, creator)
	if err != nil {
		if errors.Is(err, domain.ErrCancelled) {
			s.enter(ctx, StateCancelled)
		} else {
			s.enter(ctx, StateFailed)
		}
		return CreateOrderResult{}, err
	}
	s.enter(ctx, StateCompleted)
	return res, nil
}

func (s *OrderService) admit(
	ctx context.Context,
	customerID uuid.UUID,
	subtotal domain.Money,
	lines []domain.OrderLine,
	creator OrderCreator,
) (CreateOrderResult, error) {
	s.enter(ctx, StateTaxComputation)
	tax, err := s.tax.GetTax(ctx, subtotal)
	if err != nil {
		if ctx.Err() != nil {
			return CreateOrderResult{}, fmt.Errorf("%w: %w", domain.ErrCancelled, err)
		}
		if errors.Is(err, domain.ErrTaxServiceUnavailable) {
			return CreateOrderResult{}, err
		}
		return CreateOrderResult{}, fmt.Errorf("%w: %w", domain.ErrTaxServiceUnavailable, err)
	}
	total, err := subtotal.Add(tax.Round())
	if err != nil {
		return CreateOrderResult{}, err
	}

	draft := domain.OrderDraft{
		CustomerID: customerID,
		CreatedAt:  s.clock.Now(),
		Total:      total,
		Lines:      lines,
	}

	s.enter(ctx, StatePersisting)
	orderID, err := creator.CreateOrder(ctx, draft)
	if err != nil {
		if ctx.Err() != nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return CreateOrderResult{}, fmt.Errorf("%w: %w", domain.ErrCancelled, err)
		}
		s.logger.ErrorContext(ctx, "order persistence failed", "error", err)
		return CreateOrderResult{}, fmt.Errorf("%w: %w", domain.ErrPersistenceFailed, err)
	}

	s.enter(ctx, StateMetricEmit)
	metric := domain.OrderMetric{
		OrderID:     orderID,
		TotalAmount: total.Amount,
		CreatedAt:   draft.CreatedAt,
	}
	if !s.metrics.TryPublish(metric) {
		s.logger.DebugContext(ctx, "order metric dropped", "order_id", orderID)
	}

	return CreateOrderResult{
		OrderID:     orderID,
		CreatedAt:   draft.CreatedAt,
		TotalAmount: total.Amount,
		Currency:    total.Currency,
	}, nil
}

func (s *OrderService) enter(ctx context.Context, state OrderState) {
	if s.observe != nil {
		s.observe(ctx, state)
	}
}
