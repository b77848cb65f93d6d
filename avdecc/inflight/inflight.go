// Package inflight implements C3: the per-(target, sequence_id)
// registry that tracks commands awaiting a response, retries AECP
// commands once on timeout, and guarantees every registered command is
// retired exactly once (with TimedOut, Aborted, or the real response).
// See spec.md §3.5, §4.5, §7.
package inflight

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/avnu-align/avdecc-engine/avdecc"
)

// Protocol distinguishes AECP and ACMP retry policy: AECP retries once
// on timeout, ACMP never retries (spec.md §4.4, §4.5).
type Protocol uint8

const (
	ProtocolAECP Protocol = iota
	ProtocolACMP
)

// Config holds the registry's timing parameters, validated and
// defaulted the way the teacher's cs104 Config does (named Min/Max
// range constants, Valid() filling in zero fields, a DefaultConfig()
// constructor). See spec.md §4.5 default timeouts.
type Config struct {
	// AECPTimeout is how long an AECP command waits before its single
	// retry fires; a second expiry without a response retires it TimedOut.
	AECPTimeout time.Duration
	// ACMPTimeout is how long an ACMP command waits before it retires
	// TimedOut with no retry.
	ACMPTimeout time.Duration
}

const (
	MinTimeout     = 50 * time.Millisecond
	MaxTimeout     = 10 * time.Second
	DefaultAECPTimeout = 250 * time.Millisecond
	DefaultACMPTimeout = 250 * time.Millisecond
)

// Valid range-checks c, filling any zero field with its default and
// clamping out-of-range values — mirrors cs104/config.go's Valid().
func (c *Config) Valid() error {
	if c.AECPTimeout == 0 {
		c.AECPTimeout = DefaultAECPTimeout
	}
	if c.ACMPTimeout == 0 {
		c.ACMPTimeout = DefaultACMPTimeout
	}
	for _, d := range []*time.Duration{&c.AECPTimeout, &c.ACMPTimeout} {
		if *d < MinTimeout {
			*d = MinTimeout
		}
		if *d > MaxTimeout {
			*d = MaxTimeout
		}
	}
	return nil
}

// DefaultConfig returns a Config with the spec's default timeouts.
func DefaultConfig() Config {
	c := Config{AECPTimeout: DefaultAECPTimeout, ACMPTimeout: DefaultACMPTimeout}
	_ = c.Valid()
	return c
}

// Outcome is how an inflight command was retired.
type Outcome uint8

const (
	OutcomeResponse Outcome = iota
	OutcomeTimedOut
	OutcomeAborted
)

func (o Outcome) String() string {
	switch o {
	case OutcomeResponse:
		return "Response"
	case OutcomeTimedOut:
		return "TimedOut"
	case OutcomeAborted:
		return "Aborted"
	default:
		return "Unknown"
	}
}

// Response is the minimal shape both AECP and ACMP resolution paths
// need to hand back to a completion: the status byte the wire header
// carried plus the sub-protocol's command-specific payload bytes
// (headers already stripped by the caller).
type Response struct {
	Status  uint8
	Payload []byte
}

// Completion is invoked exactly once per registered command (spec.md
// §7's "typed completion always invoked exactly once" invariant).
// resp is the zero value unless outcome == OutcomeResponse.
type Completion func(outcome Outcome, resp Response)

// key identifies one inflight slot: a command is uniquely addressed by
// who it was sent to and the sequence_id it carries.
type key struct {
	target     avdecc.EntityID
	sequenceID avdecc.SequenceID
}

type entry struct {
	protocol    Protocol
	correlation uuid.UUID // log correlation id, not wire-visible
	deadline    time.Time
	retried     bool
	completion  Completion
	resend      func()
}

// Registry is the mutex-guarded inflight-command table. One Registry
// instance serves both AECP and ACMP traffic for a single local entity
// (spec.md §7: "a single ProtocolInterface mutex guards all bookkeeping").
type Registry struct {
	mu      sync.Mutex
	cfg     Config
	entries map[key]*entry
	now     func() time.Time
	retry   func(protocol Protocol, target avdecc.EntityID, sequenceID avdecc.SequenceID)
}

// New builds a Registry. retry is invoked (outside any lock) when an
// AECP command's first deadline expires and a retransmit should be
// sent; it is never called for ACMP.
func New(cfg Config, retry func(protocol Protocol, target avdecc.EntityID, sequenceID avdecc.SequenceID)) *Registry {
	_ = cfg.Valid()
	return &Registry{
		cfg:     cfg,
		entries: make(map[key]*entry),
		now:     time.Now,
		retry:   retry,
	}
}

// SetClock overrides the time source, for deterministic tests.
func (r *Registry) SetClock(now func() time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.now = now
}

// Register adds a new inflight command. It returns false if the
// (target, sequenceID) pair is already registered — spec.md §7's
// "no two live inflights share a key" invariant; callers must pick a
// fresh sequence_id rather than calling Register twice for one key.
func (r *Registry) Register(protocol Protocol, target avdecc.EntityID, sequenceID avdecc.SequenceID, completion Completion) bool {
	return r.register(protocol, target, sequenceID, completion, nil)
}

// RegisterWithResend is Register plus resend, a closure that re-sends
// the original command bytes. It is invoked (outside any lock) the one
// time an AECP command's first deadline expires, right after the
// registry's own retry callback records the event (spec.md §4.5's single
// retry).
// ACMP entries never call resend since ACMP never retries.
func (r *Registry) RegisterWithResend(protocol Protocol, target avdecc.EntityID, sequenceID avdecc.SequenceID, completion Completion, resend func()) bool {
	return r.register(protocol, target, sequenceID, completion, resend)
}

func (r *Registry) register(protocol Protocol, target avdecc.EntityID, sequenceID avdecc.SequenceID, completion Completion, resend func()) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	k := key{target: target, sequenceID: sequenceID}
	if _, exists := r.entries[k]; exists {
		return false
	}

	timeout := r.cfg.ACMPTimeout
	if protocol == ProtocolAECP {
		timeout = r.cfg.AECPTimeout
	}
	r.entries[k] = &entry{
		protocol:    protocol,
		correlation: uuid.New(),
		deadline:    r.now().Add(timeout),
		completion:  completion,
		resend:      resend,
	}
	return true
}

// Resolve retires the inflight command matching (target, sequenceID)
// with the given response, if one is registered. Returns false if no
// such command is inflight (a late or spurious response).
func (r *Registry) Resolve(target avdecc.EntityID, sequenceID avdecc.SequenceID, resp Response) bool {
	k := key{target: target, sequenceID: sequenceID}

	r.mu.Lock()
	e, ok := r.entries[k]
	if ok {
		delete(r.entries, k)
	}
	r.mu.Unlock()

	if !ok {
		return false
	}
	e.completion(OutcomeResponse, resp)
	return true
}

// AbortAll retires every inflight command with OutcomeAborted, used
// during facade teardown (spec.md §7: "drain inflight with Aborted,
// wait for callbacks" before a destroyed facade stops blocking).
func (r *Registry) AbortAll() {
	r.mu.Lock()
	pending := make([]*entry, 0, len(r.entries))
	for k, e := range r.entries {
		pending = append(pending, e)
		delete(r.entries, k)
	}
	r.mu.Unlock()

	for _, e := range pending {
		e.completion(OutcomeAborted, Response{})
	}
}

// Tick expires entries whose deadline has passed: AECP entries get one
// retransmit (r.retry is invoked, the entry's deadline pushed out
// again) before a second expiry retires them TimedOut; ACMP entries
// retire TimedOut immediately on first expiry (spec.md §4.4, §4.5).
func (r *Registry) Tick(now time.Time) {
	var toRetry []key
	var toRetryEntry []*entry
	var toRetire []*entry

	r.mu.Lock()
	for k, e := range r.entries {
		if now.Before(e.deadline) {
			continue
		}
		if e.protocol == ProtocolAECP && !e.retried {
			e.retried = true
			e.deadline = now.Add(r.cfg.AECPTimeout)
			toRetry = append(toRetry, k)
			toRetryEntry = append(toRetryEntry, e)
			continue
		}
		delete(r.entries, k)
		toRetire = append(toRetire, e)
	}
	r.mu.Unlock()

	for i, k := range toRetry {
		r.retry(ProtocolAECP, k.target, k.sequenceID)
		if resend := toRetryEntry[i].resend; resend != nil {
			resend()
		}
	}
	for _, e := range toRetire {
		e.completion(OutcomeTimedOut, Response{})
	}
}

// Len reports the number of commands currently inflight, for tests and
// stats.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}
