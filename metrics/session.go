package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	sessionsActive          = "ws_sessions_active"
	sessionsTotal           = "ws_sessions_total"
	sessionFramesTotal      = "ws_frames_total"
	subscriptionsActive     = "sse_subscriptions_active"
	subscriptionEventsTotal = "sse_events_total"
)

func init() {
	prometheus.MustRegister(wsSessionsActive)
	prometheus.MustRegister(wsSessionsTotal)
	prometheus.MustRegister(wsFramesTotal)
	prometheus.MustRegister(sseSubscriptionsActive)
	prometheus.MustRegister(sseEventsTotal)
}

var (
	// wsSessionsActive tracks currently open duplex sessions.
	wsSessionsActive = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Subsystem: zethProcess,
			Name:      sessionsActive,
			Help:      "Number of open websocket relay sessions.",
		},
	)

	// wsSessionsTotal counts closed duplex sessions by the side that ended them ("client" or "endpoint").
	wsSessionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Subsystem: zethProcess,
			Name:      sessionsTotal,
			Help:      "Total number of websocket relay sessions, labeled by endpoint ID and closing side.",
		},
		[]string{"endpoint_id", "closed_by"},
	)

	// wsFramesTotal counts data frames forwarded by duplex sessions.
	//   - direction: "upstream" (client to endpoint) or "downstream" (endpoint to client)
	wsFramesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Subsystem: zethProcess,
			Name:      sessionFramesTotal,
			Help:      "Total number of websocket frames relayed, labeled by endpoint ID and direction.",
		},
		[]string{"endpoint_id", "direction"},
	)

	sseSubscriptionsActive = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Subsystem: zethProcess,
			Name:      subscriptionsActive,
			Help:      "Number of open server-sent event subscriptions.",
		},
	)

	sseEventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Subsystem: zethProcess,
			Name:      subscriptionEventsTotal,
			Help:      "Total number of server-sent events written, labeled by endpoint ID.",
		},
		[]string{"endpoint_id"},
	)
)

// SessionOpened records a new duplex session.
func SessionOpened() { wsSessionsActive.Inc() }

// SessionClosed records the end of a duplex session.
func SessionClosed(endpointID, closedBy string) {
	wsSessionsActive.Dec()
	wsSessionsTotal.With(prometheus.Labels{"endpoint_id": endpointID, "closed_by": closedBy}).Inc()
}

// FrameRelayed records one forwarded data frame.
func FrameRelayed(endpointID, direction string) {
	wsFramesTotal.With(prometheus.Labels{"endpoint_id": endpointID, "direction": direction}).Inc()
}

// SubscriptionOpened records a new event stream.
func SubscriptionOpened() { sseSubscriptionsActive.Inc() }

// SubscriptionClosed records the end of an event stream.
func SubscriptionClosed() { sseSubscriptionsActive.Dec() }

// EventSent records one event written to a subscriber.
func EventSent(endpointID string) {
	sseEventsTotal.With(prometheus.Labels{"endpoint_id": endpointID}).Inc()
}
