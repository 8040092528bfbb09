package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "order_processing"

// Collectors groups the prometheus instruments of the service.
type Collectors struct {
	OrdersCreated   *prometheus.CounterVec
	OrdersFailed    *prometheus.CounterVec
	MetricsReported prometheus.Counter
	MetricsDropped  prometheus.Counter
}

// GateStats is the read side of the admission gate.
type GateStats interface {
	Capacity() int64
	InFlight() int64
	Waiting() int64
}

// NewCollectors creates and registers the service collectors on reg.
func NewCollectors(reg prometheus.Registerer) *Collectors {
	c := &Collectors{
		OrdersCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "orders_created_total",
			Help:      "Orders stored successfully, by persistence strategy.",
		}, []string{"strategy"}),
		OrdersFailed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "orders_failed_total",
			Help:      "Order requests that did not produce an order, by strategy and reason.",
		}, []string{"strategy", "reason"}),
		MetricsReported: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "order_metrics_reported_total",
			Help:      "Order metrics drained by the reporter.",
		}),
		MetricsDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "order_metrics_dropped_total",
			Help:      "Order metrics rejected because the channel was closed.",
		}),
	}
	reg.MustRegister(c.OrdersCreated, c.OrdersFailed, c.MetricsReported, c.MetricsDropped)
	return c
}

// RegisterGate exposes the gate's permit usage as gauges.
func RegisterGate(reg prometheus.Registerer, gate GateStats) {
	reg.MustRegister(
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "admission_capacity",
			Help:      "Permits of the order admission gate.",
		}, func() float64 { return float64(gate.Capacity()) }),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "admission_in_flight",
			Help:      "Orders currently holding an admission permit.",
		}, func() float64 { return float64(gate.InFlight()) }),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "admission_waiting",
			Help:      "Orders waiting for an admission permit.",
		}, func() float64 { return float64(gate.Waiting()) }),
	)
}

// OrderCreated implements the transport's outcome recorder.
func (c *Collectors) OrderCreated(strategy string) {
	c.OrdersCreated.WithLabelValues(strategy).Inc()
}

func (c *Collectors) OrderFailed(strategy, reason string) {
	c.OrdersFailed.WithLabelValues(strategy, reason).Inc()
}
