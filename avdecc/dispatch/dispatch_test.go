package dispatch_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/avnu-align/avdecc-engine/avdecc"
	"github.com/avnu-align/avdecc-engine/avdecc/aecp"
	"github.com/avnu-align/avdecc-engine/avdecc/aecp/aem"
	"github.com/avnu-align/avdecc-engine/avdecc/dispatch"
	"github.com/avnu-align/avdecc-engine/avdecc/inflight"
)

func TestDispatchResolvesSolicitedResponse(t *testing.T) {
	reg := inflight.New(inflight.DefaultConfig(), func(inflight.Protocol, avdecc.EntityID, avdecc.SequenceID) {})
	table := dispatch.New(reg)

	var resolved inflight.Response
	reg.Register(inflight.ProtocolAECP, avdecc.EntityID(1), avdecc.SequenceID(5), func(o inflight.Outcome, resp inflight.Response) {
		resolved = resp
	})

	common := aecp.Common{MessageType: aecp.MessageAemResponse, Status: 0, TargetEntityID: 1, SequenceID: 5}
	header := aem.Header{CommandType: aem.AcquireEntity}
	err := table.Dispatch(common, header, []byte{1, 2, 3}, aem.AcquireEntity, true)
	require.NoError(t, err)
	require.Equal(t, []byte{1, 2, 3}, resolved.Payload)
	require.Equal(t, 0, reg.Len())
}

func TestDispatchMismatchedCommandTypeIsProtocolViolation(t *testing.T) {
	reg := inflight.New(inflight.DefaultConfig(), func(inflight.Protocol, avdecc.EntityID, avdecc.SequenceID) {})
	table := dispatch.New(reg)
	var outcome inflight.Outcome
	var resolved inflight.Response
	reg.Register(inflight.ProtocolAECP, avdecc.EntityID(1), avdecc.SequenceID(5), func(o inflight.Outcome, resp inflight.Response) {
		outcome = o
		resolved = resp
	})

	common := aecp.Common{MessageType: aecp.MessageAemResponse, TargetEntityID: 1, SequenceID: 5}
	header := aem.Header{CommandType: aem.GetName} // echoes the wrong command_type
	err := table.Dispatch(common, header, nil, aem.AcquireEntity, true)

	var perr *avdecc.PayloadError
	require.ErrorAs(t, err, &perr)
	require.Equal(t, avdecc.PayloadUnsupportedValue, perr.Kind)
	require.Equal(t, uint8(aem.StatusBaseProtocolViolation), perr.Status)
	// The mismatched response retires the inflight entry immediately
	// rather than leaving it to time out: exactly-once completion with
	// BaseProtocolViolation, not TimedOut.
	require.Equal(t, 0, reg.Len())
	require.Equal(t, inflight.OutcomeResponse, outcome)
	require.Equal(t, uint8(aem.StatusBaseProtocolViolation), resolved.Status)
}

func TestDispatchUnsolicitedRoutesToRegisteredHandler(t *testing.T) {
	reg := inflight.New(inflight.DefaultConfig(), func(inflight.Protocol, avdecc.EntityID, avdecc.SequenceID) {})
	table := dispatch.New(reg)

	var got []byte
	table.OnUnsolicited(aem.SetName, func(common aecp.Common, header aem.Header, body []byte) {
		got = body
	})

	common := aecp.Common{MessageType: aecp.MessageAemResponse, TargetEntityID: 1}
	header := aem.Header{CommandType: aem.SetName, Unsolicited: true}
	err := table.Dispatch(common, header, []byte{9, 9}, 0, false)
	require.NoError(t, err)
	require.Equal(t, []byte{9, 9}, got)
}

func TestDispatchUnknownSolicitedCommandIsInternalError(t *testing.T) {
	reg := inflight.New(inflight.DefaultConfig(), func(inflight.Protocol, avdecc.EntityID, avdecc.SequenceID) {})
	table := dispatch.New(reg)

	common := aecp.Common{MessageType: aecp.MessageAemCommand, TargetEntityID: 1}
	header := aem.Header{CommandType: aem.AcquireEntity}
	err := table.Dispatch(common, header, nil, 0, false)

	var perr *avdecc.PayloadError
	require.ErrorAs(t, err, &perr)
	require.Equal(t, avdecc.PayloadUnknownCommandType, perr.Kind)
}

func TestDispatchUnresolvedResponseIsNotAnError(t *testing.T) {
	reg := inflight.New(inflight.DefaultConfig(), func(inflight.Protocol, avdecc.EntityID, avdecc.SequenceID) {})
	table := dispatch.New(reg)

	common := aecp.Common{MessageType: aecp.MessageAemResponse, TargetEntityID: 1, SequenceID: 99}
	header := aem.Header{CommandType: aem.AcquireEntity}
	err := table.Dispatch(common, header, nil, 0, false)
	require.NoError(t, err, "a late/spurious response is dropped, not treated as a protocol error")
}
