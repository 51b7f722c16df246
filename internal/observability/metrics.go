// Package observability provides metrics and tracing.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrors counts Redis errors by command name.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "skyhub_redis_errors_total",
		Help: "Total number of Redis errors by command",
	}, []string{"command"})

	// CacheLookups counts cache-aside lookups by key family and result (hit/miss).
	CacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "skyhub_cache_lookups_total",
		Help: "Cache-aside lookups by key family and result",
	}, []string{"family", "result"})

	// SignupsTotal counts successful registrations.
	SignupsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "skyhub_signups_total",
		Help: "Total number of successful signups",
	})

	// LoginFailuresTotal counts failed logins by reason.
	LoginFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "skyhub_login_failures_total",
		Help: "Total number of failed logins by reason",
	}, []string{"reason"})

	// OrdersCreatedTotal counts placed orders.
	OrdersCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "skyhub_orders_created_total",
		Help: "Total number of orders placed",
	})

	// OrderStatusChanges counts order status writes by target status.
	OrderStatusChanges = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "skyhub_order_status_changes_total",
		Help: "Order status updates by new status",
	}, []string{"status"})

	// MessagesSentTotal counts persisted direct messages.
	MessagesSentTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "skyhub_messages_sent_total",
		Help: "Total number of direct messages sent",
	})

	// ImageUploadsTotal counts processed drone image uploads by outcome.
	ImageUploadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "skyhub_image_uploads_total",
		Help: "Drone image uploads by outcome",
	}, []string{"outcome"})

	// WebSocketConnections is the gauge of active notification sockets.
	WebSocketConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "skyhub_websocket_connections",
		Help: "Number of active notification WebSocket connections",
	})

	// WebSocketBackpressureDrops counts messages dropped due to backpressure by hub and reason.
	WebSocketBackpressureDrops = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "skyhub_websocket_backpressure_drops_total",
		Help: "Total number of WebSocket messages dropped due to backpressure",
	}, []string{"hub", "reason"})
)
