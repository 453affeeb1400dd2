package obs

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors for the reservation engine.
type Metrics struct {
	ReservationsTotal *prometheus.CounterVec   // op=create|cancel|complete|confirm_payment|update_dates, result=success|rejected|error
	OpLatency         *prometheus.HistogramVec // op as above
	ActiveHolds       prometheus.Gauge
}

// NewMetrics creates and registers the collectors on the given registerer.
// Tests pass a fresh prometheus.NewRegistry to avoid double registration.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		ReservationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "booking_operations_total",
				Help: "Total reservation engine operations by result",
			},
			[]string{"op", "result"},
		),
		OpLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "booking_op_duration_seconds",
				Help:    "Latency of reservation engine operations",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"op"},
		),
		ActiveHolds: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "booking_active_holds",
			Help: "Number of rentals currently held by a booking",
		}),
	}

	reg.MustRegister(m.ReservationsTotal, m.OpLatency, m.ActiveHolds)

	return m
}

// Observe records one engine operation. A nil receiver is a no-op so callers
// do not need to guard against missing metrics in tests.
func (m *Metrics) Observe(op, result string, started time.Time) {
	if m == nil {
		return
	}
	m.ReservationsTotal.WithLabelValues(op, result).Inc()
	m.OpLatency.WithLabelValues(op).Observe(time.Since(started).Seconds())
}

// HoldTaken bumps the active-holds gauge when a booking takes a rental.
func (m *Metrics) HoldTaken() {
	if m == nil {
		return
	}
	m.ActiveHolds.Inc()
}

// HoldReleased drops the active-holds gauge when a rental returns to the pool.
func (m *Metrics) HoldReleased() {
	if m == nil {
		return
	}
	m.ActiveHolds.Dec()
}
