package stats_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/avnu-align/avdecc-engine/avdecc"
	"github.com/avnu-align/avdecc-engine/avdecc/stats"
)

type fakeSink struct {
	calls int
	last  stats.Event
}

func (f *fakeSink) Observe(entityID avdecc.EntityID, ev stats.Event, rtt time.Duration) {
	f.calls++
	f.last = ev
}

func TestRecordForwardsToSink(t *testing.T) {
	sink := &fakeSink{}
	tr := stats.New(sink)
	tr.Record(avdecc.EntityID(1), stats.EventRetry, 0)
	require.Equal(t, 1, sink.calls)
	require.Equal(t, stats.EventRetry, sink.last)
}

func TestSnapshotAggregatesRoundTrips(t *testing.T) {
	tr := stats.New(nil)
	id := avdecc.EntityID(1)
	tr.Record(id, stats.EventRoundTrip, 10*time.Millisecond)
	tr.Record(id, stats.EventRoundTrip, 20*time.Millisecond)
	tr.Record(id, stats.EventRetry, 0)
	tr.Record(id, stats.EventTimeout, 0)

	snap := tr.Snapshot(id)
	require.Equal(t, uint64(2), snap.RoundTrips)
	require.Equal(t, uint64(1), snap.Retries)
	require.Equal(t, uint64(1), snap.Timeouts)
	require.Equal(t, 15*time.Millisecond, snap.RTTMean)
	require.True(t, snap.RTTStdDev > 0)
}

func TestForgetDropsCounters(t *testing.T) {
	tr := stats.New(nil)
	id := avdecc.EntityID(1)
	tr.Record(id, stats.EventRetry, 0)
	require.Equal(t, uint64(1), tr.Snapshot(id).Retries)

	tr.Forget(id)
	require.Equal(t, stats.Snapshot{}, tr.Snapshot(id))
}

func TestSnapshotUnknownEntityIsZeroValue(t *testing.T) {
	tr := stats.New(nil)
	require.Equal(t, stats.Snapshot{}, tr.Snapshot(avdecc.EntityID(999)))
}
