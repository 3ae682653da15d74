// Package metrics provides Prometheus instrumentation for the bot.
//
// Wire the handler into the admin HTTP server:
//
//	r.Get("/metrics", metrics.Handler().ServeHTTP)
//
// and scrape it from Prometheus.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// UpdatesTotal counts inbound chat updates by type ("text", "callback").
	UpdatesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "storebot",
			Subsystem: "bot",
			Name:      "updates_total",
			Help:      "Inbound chat updates processed.",
		},
		[]string{"type"},
	)

	// OrdersTotal counts order lifecycle events by outcome
	// ("created", "payment_submitted", "approved", "rejected").
	OrdersTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "storebot",
			Subsystem: "orders",
			Name:      "events_total",
			Help:      "Order lifecycle events.",
		},
		[]string{"event"},
	)

	// StockAllocated counts credentials handed out per product.
	StockAllocated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "storebot",
			Subsystem: "stock",
			Name:      "allocated_total",
			Help:      "Credentials allocated to delivered orders.",
		},
		[]string{"product"},
	)

	// NotifyFailures counts per-recipient delivery failures.
	NotifyFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "storebot",
		Subsystem: "notify",
		Name:      "failures_total",
		Help:      "Messenger deliveries that failed for a recipient.",
	})

	// PendingOrders gauges the current approval queue depth.
	PendingOrders = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "storebot",
		Subsystem: "orders",
		Name:      "pending",
		Help:      "Orders currently awaiting an operator decision.",
	})

	// StockAvailable gauges unused credentials per product.
	StockAvailable = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "storebot",
			Subsystem: "stock",
			Name:      "available",
			Help:      "Unused credentials in the pool.",
		},
		[]string{"product"},
	)
)

var registry = prometheus.NewRegistry()

func init() {
	registry.MustRegister(
		UpdatesTotal,
		OrdersTotal,
		StockAllocated,
		NotifyFailures,
		PendingOrders,
		StockAvailable,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
}

// Handler returns the scrape endpoint.
func Handler() http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}
