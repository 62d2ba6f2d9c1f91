package metrics

import (
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	hubMessagesTotal        = "hub_messages_total"
	hubDroppedMessagesTotal = "hub_dropped_messages_total"
	hubEntries              = "hub_entries"
	hubConsumers            = "hub_consumers"
)

func init() {
	prometheus.MustRegister(hubMessagesPublishedTotal)
	prometheus.MustRegister(hubMessagesDroppedTotal)
	prometheus.MustRegister(hubEntriesGauge)
	prometheus.MustRegister(hubConsumersGauge)
}

// hubStats reports (entries, consumers) for the gauges below. Set by RegisterHubStats.
var hubStats atomic.Pointer[func() (int, int)]

var (
	// hubMessagesPublishedTotal counts messages published to the fan-out hub per endpoint.
	hubMessagesPublishedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Subsystem: zethProcess,
			Name:      hubMessagesTotal,
			Help:      "Total number of messages published to the hub, labeled by endpoint ID.",
		},
		[]string{"endpoint_id"},
	)

	// hubMessagesDroppedTotal counts per-consumer deliveries that were skipped because the consumer lagged.
	//
	// Usage:
	// - A steady increase means subscribers cannot keep up with the endpoint's traffic.
	hubMessagesDroppedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Subsystem: zethProcess,
			Name:      hubDroppedMessagesTotal,
			Help:      "Total number of messages missed by lagging consumers, labeled by endpoint ID.",
		},
		[]string{"endpoint_id"},
	)

	hubEntriesGauge = prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Subsystem: zethProcess,
			Name:      hubEntries,
			Help:      "Number of live hub entries.",
		},
		func() float64 {
			entries, _ := readHubStats()
			return float64(entries)
		},
	)

	hubConsumersGauge = prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Subsystem: zethProcess,
			Name:      hubConsumers,
			Help:      "Number of consumers attached to hub entries.",
		},
		func() float64 {
			_, consumers := readHubStats()
			return float64(consumers)
		},
	)
)

// RegisterHubStats sets the source of the hub gauges. The last registration wins.
func RegisterHubStats(stats func() (entries, consumers int)) {
	hubStats.Store(&stats)
}

func readHubStats() (int, int) {
	stats := hubStats.Load()
	if stats == nil {
		return 0, 0
	}
	return (*stats)()
}

// HubMessagePublished records one publish and the number of consumers that missed it.
func HubMessagePublished(endpointID string, dropped int) {
	hubMessagesPublishedTotal.With(prometheus.Labels{"endpoint_id": endpointID}).Inc()
	if dropped > 0 {
		hubMessagesDroppedTotal.With(prometheus.Labels{"endpoint_id": endpointID}).Add(float64(dropped))
	}
}
