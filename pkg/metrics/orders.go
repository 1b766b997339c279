package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// OrderMetrics records checkout and order workflow counters.
type OrderMetrics struct {
	ordersCreated  *prometheus.CounterVec
	transitions    *prometheus.CounterVec
	checkoutTiming prometheus.Histogram
}

// NewOrderMetrics registers the order metrics on the provided registerer.
func NewOrderMetrics(reg prometheus.Registerer) *OrderMetrics {
	if reg == nil {
		return &OrderMetrics{}
	}
	ordersCreated := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "orders_created_total",
		Help: "Sales created by checkout.",
	}, []string{"outcome"})
	transitions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "order_status_transitions_total",
		Help: "Sale status transitions applied by pharmacists.",
	}, []string{"to"})
	checkoutTiming := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "checkout_duration_seconds",
		Help:    "Duration of checkout execution in seconds.",
		Buckets: prometheus.DefBuckets,
	})
	reg.MustRegister(ordersCreated, transitions, checkoutTiming)
	return &OrderMetrics{
		ordersCreated:  ordersCreated,
		transitions:    transitions,
		checkoutTiming: checkoutTiming,
	}
}

// IncOrderCreated increments the created counter for the given outcome label.
func (m *OrderMetrics) IncOrderCreated(outcome string) {
	if m == nil || m.ordersCreated == nil {
		return
	}
	m.ordersCreated.WithLabelValues(normalizeLabel(outcome)).Inc()
}

// IncTransition increments the transition counter for the target status.
func (m *OrderMetrics) IncTransition(to string) {
	if m == nil || m.transitions == nil {
		return
	}
	m.transitions.WithLabelValues(normalizeLabel(to)).Inc()
}

// ObserveCheckout records the duration of one checkout execution.
func (m *OrderMetrics) ObserveCheckout(duration time.Duration) {
	if m == nil || m.checkoutTiming == nil {
		return
	}
	m.checkoutTiming.Observe(duration.Seconds())
}

// ConsumerMetrics records event consumer counters.
type ConsumerMetrics struct {
	events *prometheus.CounterVec
}

// NewConsumerMetrics registers the consumer metrics on the provided registerer.
func NewConsumerMetrics(reg prometheus.Registerer) *ConsumerMetrics {
	if reg == nil {
		return &ConsumerMetrics{}
	}
	events := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "consumer_events_total",
		Help: "Order events handled by the notification consumer.",
	}, []string{"event_type", "outcome"})
	reg.MustRegister(events)
	return &ConsumerMetrics{events: events}
}

// IncEvent increments the event counter for the given type and outcome.
func (m *ConsumerMetrics) IncEvent(eventType, outcome string) {
	if m == nil || m.events == nil {
		return
	}
	m.events.WithLabelValues(normalizeLabel(eventType), normalizeLabel(outcome)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
