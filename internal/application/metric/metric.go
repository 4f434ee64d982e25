package metric

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// WS metrics - active connection count
	wsActiveConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "ws_active_connections",
			Help: "Number of active WebSocket connections",
		},
	)

	// Room metrics - live room count
	activeRooms = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "rooms_active",
			Help: "Number of live rooms",
		},
	)

	// Message metrics - total relayed chat messages
	messagesRelayed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "messages_relayed_total",
			Help: "Total chat messages accepted and fanned out",
		},
	)

	// Event metrics - inbound events by type
	eventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ws_events_total",
			Help: "Total inbound WebSocket events by type",
		},
		[]string{"type"},
	)
)

func IncrementWSActiveConnections() {
	wsActiveConnections.Inc()
}

func DecrementWSActiveConnections() {
	wsActiveConnections.Dec()
}

func IncrementActiveRooms() {
	activeRooms.Inc()
}

func DecrementActiveRooms() {
	activeRooms.Dec()
}

func IncrementMessagesRelayed() {
	messagesRelayed.Inc()
}

func RecordInboundEvent(eventType string) {
	eventsTotal.WithLabelValues(eventType).Inc()
}
