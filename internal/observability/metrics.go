// Package observability provides logging, metrics, and tracing.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrorRate counts Redis errors by operation type.
	RedisErrorRate = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bloghub_redis_error_rate_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "bloghub_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// DraftSlotWrites counts draft snapshots written to transient storage.
	DraftSlotWrites = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bloghub_draft_slot_writes_total",
		Help: "Total number of draft snapshots written on preview",
	})

	// DraftSlotConsumed counts draft snapshots consumed on compose-form mount.
	DraftSlotConsumed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bloghub_draft_slot_consumed_total",
		Help: "Total number of draft snapshots read-and-deleted on mount",
	})

	// DraftSlotCorrupt counts draft snapshots discarded as unparseable.
	DraftSlotCorrupt = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bloghub_draft_slot_corrupt_total",
		Help: "Total number of draft snapshots dropped due to parse failure",
	})

	// WebSocketConnectionsTotal is the gauge of active event stream connections.
	WebSocketConnectionsTotal = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "bloghub_websocket_connections_total",
		Help: "Total number of active WebSocket connections",
	})

	// WebSocketEventsTotal counts broadcast events by type.
	WebSocketEventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bloghub_websocket_events_total",
		Help: "Total WebSocket events by type",
	}, []string{"event_type"})

	// WebSocketBackpressureDrops counts messages dropped because a client's
	// send buffer was full or closed.
	WebSocketBackpressureDrops = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bloghub_websocket_backpressure_drops_total",
		Help: "Total WebSocket messages dropped due to backpressure",
	}, []string{"hub", "reason"})
)

// TrackQuery returns a function that records query latency when called (e.g. defer).
func TrackQuery(operation, table string) func() {
	start := time.Now()
	return func() {
		DatabaseQueryLatency.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
	}
}
