package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	CartEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "storefront",
		Name:      "cart_events_total",
		Help:      "Cart mutations by event type.",
	}, []string{"event"})

	CheckoutAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "storefront",
		Name:      "checkout_attempts_total",
		Help:      "Checkout submissions by outcome.",
	}, []string{"outcome"})

	OrphanedOrderHeaders = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "storefront",
		Name:      "orphaned_order_headers_total",
		Help:      "Order headers written whose line items failed to persist.",
	})

	ActiveSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "storefront",
		Name:      "active_sessions",
		Help:      "Open shopping sessions.",
	})
)
