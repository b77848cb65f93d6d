package inflight_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/avnu-align/avdecc-engine/avdecc"
	"github.com/avnu-align/avdecc-engine/avdecc/inflight"
)

func newRegistry(t *testing.T, retry func(inflight.Protocol, avdecc.EntityID, avdecc.SequenceID)) *inflight.Registry {
	t.Helper()
	if retry == nil {
		retry = func(inflight.Protocol, avdecc.EntityID, avdecc.SequenceID) {}
	}
	return inflight.New(inflight.DefaultConfig(), retry)
}

func TestRegisterResolveExactlyOnce(t *testing.T) {
	r := newRegistry(t, nil)
	calls := 0
	var got inflight.Response
	ok := r.Register(inflight.ProtocolAECP, avdecc.EntityID(1), avdecc.SequenceID(1), func(o inflight.Outcome, resp inflight.Response) {
		calls++
		got = resp
		require.Equal(t, inflight.OutcomeResponse, o)
	})
	require.True(t, ok)
	require.Equal(t, 1, r.Len())

	resolved := r.Resolve(avdecc.EntityID(1), avdecc.SequenceID(1), inflight.Response{Status: 0, Payload: []byte{1, 2, 3}})
	require.True(t, resolved)
	require.Equal(t, 1, calls)
	require.Equal(t, []byte{1, 2, 3}, got.Payload)
	require.Equal(t, 0, r.Len())

	// A second Resolve for the same key is a late/spurious response and
	// must not re-invoke the completion (spec.md §7 exactly-once invariant).
	resolved = r.Resolve(avdecc.EntityID(1), avdecc.SequenceID(1), inflight.Response{})
	require.False(t, resolved)
	require.Equal(t, 1, calls)
}

func TestRegisterDuplicateKeyRejected(t *testing.T) {
	r := newRegistry(t, nil)
	ok := r.Register(inflight.ProtocolAECP, avdecc.EntityID(1), avdecc.SequenceID(1), func(inflight.Outcome, inflight.Response) {})
	require.True(t, ok)
	ok = r.Register(inflight.ProtocolAECP, avdecc.EntityID(1), avdecc.SequenceID(1), func(inflight.Outcome, inflight.Response) {})
	require.False(t, ok, "no two live inflights may share a (target, sequence_id) key")
}

func TestAECPRetriesOnceThenTimesOut(t *testing.T) {
	now := time.Unix(0, 0)
	clock := func() time.Time { return now }

	var retries int
	r := inflight.New(inflight.Config{AECPTimeout: 100 * time.Millisecond, ACMPTimeout: 100 * time.Millisecond},
		func(p inflight.Protocol, target avdecc.EntityID, seq avdecc.SequenceID) {
			require.Equal(t, inflight.ProtocolAECP, p)
			retries++
		})
	r.SetClock(clock)

	var outcome inflight.Outcome
	var done bool
	r.Register(inflight.ProtocolAECP, avdecc.EntityID(1), avdecc.SequenceID(1), func(o inflight.Outcome, resp inflight.Response) {
		outcome = o
		done = true
	})

	now = now.Add(101 * time.Millisecond)
	r.Tick(now)
	require.Equal(t, 1, retries)
	require.False(t, done, "first expiry retries, it does not retire the command")

	now = now.Add(101 * time.Millisecond)
	r.Tick(now)
	require.Equal(t, 1, retries, "the retry callback fires once, not on the second expiry")
	require.True(t, done)
	require.Equal(t, inflight.OutcomeTimedOut, outcome)
}

func TestACMPTimesOutWithoutRetry(t *testing.T) {
	now := time.Unix(0, 0)
	var retries int
	r := inflight.New(inflight.Config{AECPTimeout: 100 * time.Millisecond, ACMPTimeout: 100 * time.Millisecond},
		func(inflight.Protocol, avdecc.EntityID, avdecc.SequenceID) { retries++ })
	r.SetClock(func() time.Time { return now })

	var outcome inflight.Outcome
	r.Register(inflight.ProtocolACMP, avdecc.EntityID(1), avdecc.SequenceID(1), func(o inflight.Outcome, resp inflight.Response) {
		outcome = o
	})

	now = now.Add(101 * time.Millisecond)
	r.Tick(now)
	require.Equal(t, 0, retries, "ACMP never retries")
	require.Equal(t, inflight.OutcomeTimedOut, outcome)
}

func TestResendClosureInvokedOnRetry(t *testing.T) {
	now := time.Unix(0, 0)
	r := inflight.New(inflight.Config{AECPTimeout: 50 * time.Millisecond, ACMPTimeout: 50 * time.Millisecond},
		func(inflight.Protocol, avdecc.EntityID, avdecc.SequenceID) {})
	r.SetClock(func() time.Time { return now })

	resent := 0
	r.RegisterWithResend(inflight.ProtocolAECP, avdecc.EntityID(1), avdecc.SequenceID(1),
		func(inflight.Outcome, inflight.Response) {},
		func() { resent++ })

	now = now.Add(51 * time.Millisecond)
	r.Tick(now)
	require.Equal(t, 1, resent)
}

func TestAbortAllDrainsWithAbortedOutcome(t *testing.T) {
	r := newRegistry(t, nil)
	var outcomes []inflight.Outcome
	for i := 0; i < 3; i++ {
		r.Register(inflight.ProtocolAECP, avdecc.EntityID(1), avdecc.SequenceID(i), func(o inflight.Outcome, resp inflight.Response) {
			outcomes = append(outcomes, o)
		})
	}
	require.Equal(t, 3, r.Len())

	r.AbortAll()
	require.Equal(t, 0, r.Len())
	require.Len(t, outcomes, 3)
	for _, o := range outcomes {
		require.Equal(t, inflight.OutcomeAborted, o)
	}

	// A freshly-drained registry never blocks a late resolve.
	require.False(t, r.Resolve(avdecc.EntityID(1), avdecc.SequenceID(0), inflight.Response{}))
}
