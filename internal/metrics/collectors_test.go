package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubGate struct {
	capacity, inFlight, waiting int64
}

func (g stubGate) Capacity() int64 { return g.capacity }
func (g stubGate) InFlight() int64 { return g.inFlight }
func (g stubGate) Waiting() int64  { return g.waiting }

func TestCollectors_CountOutcomes(t *testing.T) {
	t.Parallel()

	c := NewCollectors(prometheus.NewRegistry())
	c.OrderCreated("orm")
	c.OrderCreated("orm")
	c.OrderFailed("sp", "validation")

	assert.Equal(t, float64(2), promtest.ToFloat64(c.OrdersCreated.WithLabelValues("orm")))
	assert.Equal(t, float64(1), promtest.ToFloat64(c.OrdersFailed.WithLabelValues("sp", "validation")))
}

func TestRegisterGate_ExposesGauges(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	RegisterGate(reg, stubGate{capacity: 8, inFlight: 3, waiting: 1})

	families, err := reg.Gather()
	require.NoError(t, err)

	values := map[string]float64{}
	for _, f := range families {
		values[f.GetName()] = f.GetMetric()[0].GetGauge().GetValue()
	}
	assert.Equal(t, float64(8), values["order_processing_admission_capacity"])
	assert.Equal(t, float64(3), values["order_processing_admission_in_flight"])
	assert.Equal(t, float64(1), values["order_processing_admission_waiting"])
}
