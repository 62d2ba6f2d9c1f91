package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// See the metrics initialization below for details.
const (
	zethProcess = "zeth"

	relaysTotal          = "relays_total"
	relayDurationSeconds = "relay_duration_seconds"
	responseSizeBytes    = "response_size_bytes"
	relaysInFlight       = "relays_in_flight"
)

func init() {
	prometheus.MustRegister(httpRelaysTotal)
	prometheus.MustRegister(httpRelayDurationSeconds)
	prometheus.MustRegister(httpRelayResponseSizeBytes)
	prometheus.MustRegister(httpRelaysInFlight)
}

var (
	// httpRelaysTotal is a counter tracking HTTP relays per endpoint.
	// It increments on each relay with labels:
	//   - endpoint_id: the relayed endpoint
	//   - result: "success" or the error class that ended the relay (e.g. "not_found", "upstream_unreachable")
	//
	// Usage:
	// - Monitor request load per endpoint.
	// - Alert on upstream failures.
	httpRelaysTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Subsystem: zethProcess,
			Name:      relaysTotal,
			Help:      "Total number of HTTP relays, labeled by endpoint ID and result.",
		},
		[]string{"endpoint_id", "result"},
	)

	// httpRelayDurationSeconds measures the upstream round trip of successful relays.
	// Buckets are selected as: [0, 0.05), [0.05, 0.1), [0.1, 0.5), [0.5, 1), [1, 2), [2, 5), [5, 30)
	httpRelayDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Subsystem: zethProcess,
			Name:      relayDurationSeconds,
			Help:      "Histogram of HTTP relay duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.5, 1, 2, 5, 30},
		},
		[]string{"endpoint_id"},
	)

	// httpRelayResponseSizeBytes tracks upstream response body sizes.
	httpRelayResponseSizeBytes = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Subsystem: zethProcess,
			Name:      responseSizeBytes,
			Help:      "Histogram of HTTP relay response sizes in bytes.",
			Buckets:   []float64{100, 500, 1000, 5000, 10000, 50000, 500000},
		},
		[]string{"endpoint_id"},
	)

	// httpRelaysInFlight is the number of upstream HTTP requests holding a relay slot.
	httpRelaysInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Subsystem: zethProcess,
			Name:      relaysInFlight,
			Help:      "Number of in-flight upstream HTTP relay requests.",
		},
	)
)

// HTTPRelayCompleted records a successful HTTP relay.
func HTTPRelayCompleted(endpointID string, duration time.Duration, responseSize int) {
	httpRelaysTotal.With(prometheus.Labels{"endpoint_id": endpointID, "result": "success"}).Inc()
	httpRelayDurationSeconds.With(prometheus.Labels{"endpoint_id": endpointID}).Observe(duration.Seconds())
	httpRelayResponseSizeBytes.With(prometheus.Labels{"endpoint_id": endpointID}).Observe(float64(responseSize))
}

// HTTPRelayFailed records an HTTP relay that ended with the given error class.
func HTTPRelayFailed(endpointID string, result string) {
	httpRelaysTotal.With(prometheus.Labels{"endpoint_id": endpointID, "result": result}).Inc()
}

// SetHTTPRelaysInFlight records the number of in-flight upstream HTTP requests.
func SetHTTPRelaysInFlight(n int64) {
	httpRelaysInFlight.Set(float64(n))
}
