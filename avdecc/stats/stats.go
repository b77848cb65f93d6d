// Package stats implements C7: per-entity counters and round-trip
// timing the local-entity facade exposes for observability. See
// spec.md §3.7, §7.
package stats

import (
	"math"
	"sync"
	"time"

	"github.com/avnu-align/avdecc-engine/avdecc"
)

// Event is a typed notification the facade emits as bookkeeping
// changes, mirroring the teacher's observer-callback style rather than
// a generic string-keyed event bus.
type Event uint8

const (
	EventRetry Event = iota
	EventTimeout
	EventUnexpectedResponse
	EventRoundTrip
	EventAecpUnsolicited
)

func (e Event) String() string {
	switch e {
	case EventRetry:
		return "Retry"
	case EventTimeout:
		return "Timeout"
	case EventUnexpectedResponse:
		return "UnexpectedResponse"
	case EventRoundTrip:
		return "RoundTrip"
	case EventAecpUnsolicited:
		return "AecpUnsolicited"
	default:
		return "Unknown"
	}
}

// Sink receives stats Events as they occur. Implementations must not
// block; the facade calls Observe synchronously from its own
// bookkeeping path (never under its protocol interface lock — spec.md
// §7's no-callback-under-lock invariant applies here too).
type Sink interface {
	Observe(entityID avdecc.EntityID, ev Event, rtt time.Duration)
}

// counters is the per-entity running tally. rtt mean/stdev are kept as
// running sum/sum-of-squares rather than a stored sample window, the
// same fixed-memory approach the teacher takes for connection
// bookkeeping (no unbounded per-event history).
type counters struct {
	retries             uint64
	timeouts            uint64
	unexpectedResponses uint64
	roundTrips          uint64
	aecpUnsolicited     uint64

	rttSum     float64
	rttSumSq   float64
}

// Snapshot is a point-in-time, immutable copy of one entity's counters.
type Snapshot struct {
	Retries             uint64
	Timeouts            uint64
	UnexpectedResponses uint64
	RoundTrips          uint64
	AecpUnsolicited     uint64
	RTTMean             time.Duration
	RTTStdDev           time.Duration
}

// Tracker aggregates Events into per-entity Snapshots and forwards
// every Event to an optional Sink (e.g. the Prometheus exporter in
// prometheus.go).
type Tracker struct {
	mu       sync.Mutex
	entities map[avdecc.EntityID]*counters
	sink     Sink
}

// New builds a Tracker. sink may be nil.
func New(sink Sink) *Tracker {
	return &Tracker{entities: make(map[avdecc.EntityID]*counters), sink: sink}
}

func (t *Tracker) entry(id avdecc.EntityID) *counters {
	c, ok := t.entities[id]
	if !ok {
		c = &counters{}
		t.entities[id] = c
	}
	return c
}

// Record registers ev for entityID, with rtt meaningful only for
// EventRoundTrip.
func (t *Tracker) Record(entityID avdecc.EntityID, ev Event, rtt time.Duration) {
	t.mu.Lock()
	c := t.entry(entityID)
	switch ev {
	case EventRetry:
		c.retries++
	case EventTimeout:
		c.timeouts++
	case EventUnexpectedResponse:
		c.unexpectedResponses++
	case EventRoundTrip:
		c.roundTrips++
		f := float64(rtt)
		c.rttSum += f
		c.rttSumSq += f * f
	case EventAecpUnsolicited:
		c.aecpUnsolicited++
	}
	t.mu.Unlock()

	if t.sink != nil {
		t.sink.Observe(entityID, ev, rtt)
	}
}

// Snapshot returns a copy of entityID's current counters.
func (t *Tracker) Snapshot(entityID avdecc.EntityID) Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	c, ok := t.entities[entityID]
	if !ok {
		return Snapshot{}
	}
	return Snapshot{
		Retries:             c.retries,
		Timeouts:            c.timeouts,
		UnexpectedResponses: c.unexpectedResponses,
		RoundTrips:          c.roundTrips,
		AecpUnsolicited:     c.aecpUnsolicited,
		RTTMean:             meanOf(c),
		RTTStdDev:           stdDevOf(c),
	}
}

// Forget drops entityID's counters, called when the discovery tracker
// reports it offline.
func (t *Tracker) Forget(entityID avdecc.EntityID) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.entities, entityID)
}

func meanOf(c *counters) time.Duration {
	if c.roundTrips == 0 {
		return 0
	}
	return time.Duration(c.rttSum / float64(c.roundTrips))
}

func stdDevOf(c *counters) time.Duration {
	if c.roundTrips == 0 {
		return 0
	}
	n := float64(c.roundTrips)
	mean := c.rttSum / n
	variance := c.rttSumSq/n - mean*mean
	if variance < 0 {
		variance = 0
	}
	return time.Duration(math.Sqrt(variance))
}
