package stats

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/avnu-align/avdecc-engine/avdecc"
)

// PrometheusSink is an optional Sink backed by client_golang counters
// and a histogram, registered against a caller-supplied Registerer so
// multiple engine instances in one process don't collide on metric
// names (spec.md's DOMAIN STACK wiring for prometheus/client_golang).
type PrometheusSink struct {
	retries    *prometheus.CounterVec
	timeouts   *prometheus.CounterVec
	unexpected *prometheus.CounterVec
	roundTrips *prometheus.CounterVec
	unsolicited *prometheus.CounterVec
	rtt        *prometheus.HistogramVec
}

// NewPrometheusSink creates and registers the engine's metrics against
// reg.
func NewPrometheusSink(reg prometheus.Registerer) *PrometheusSink {
	s := &PrometheusSink{
		retries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "avdecc", Name: "aecp_retries_total",
			Help: "AECP command retransmissions, by target entity.",
		}, []string{"entity_id"}),
		timeouts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "avdecc", Name: "command_timeouts_total",
			Help: "Inflight commands retired with no response, by target entity.",
		}, []string{"entity_id"}),
		unexpected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "avdecc", Name: "unexpected_responses_total",
			Help: "Responses received with no matching inflight command.",
		}, []string{"entity_id"}),
		roundTrips: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "avdecc", Name: "round_trips_total",
			Help: "Successfully completed command/response round trips.",
		}, []string{"entity_id"}),
		unsolicited: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "avdecc", Name: "aecp_unsolicited_total",
			Help: "Unsolicited AEM notifications received.",
		}, []string{"entity_id"}),
		rtt: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "avdecc", Name: "round_trip_seconds",
			Help:    "Command/response round-trip latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"entity_id"}),
	}
	reg.MustRegister(s.retries, s.timeouts, s.unexpected, s.roundTrips, s.unsolicited, s.rtt)
	return s
}

func (s *PrometheusSink) Observe(entityID avdecc.EntityID, ev Event, rtt time.Duration) {
	label := prometheus.Labels{"entity_id": entityID.String()}
	switch ev {
	case EventRetry:
		s.retries.With(label).Inc()
	case EventTimeout:
		s.timeouts.With(label).Inc()
	case EventUnexpectedResponse:
		s.unexpected.With(label).Inc()
	case EventRoundTrip:
		s.roundTrips.With(label).Inc()
		s.rtt.With(label).Observe(rtt.Seconds())
	case EventAecpUnsolicited:
		s.unsolicited.With(label).Inc()
	}
}
