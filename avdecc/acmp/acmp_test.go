package acmp_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/avnu-align/avdecc-engine/avdecc"
	"github.com/avnu-align/avdecc-engine/avdecc/acmp"
	"github.com/avnu-align/avdecc-engine/avdecc/wire"
)

func TestPDURoundTrip(t *testing.T) {
	p := acmp.PDU{
		ControllerEntityID: avdecc.EntityID(0x1111),
		TalkerEntityID:     avdecc.EntityID(0x2222),
		ListenerEntityID:   avdecc.EntityID(0x3333),
		TalkerUniqueID:     1,
		ListenerUniqueID:   2,
		StreamDestMac:      avdecc.MacAddress{0x91, 0xE0, 0xF0, 0x00, 0x01, 0x02},
		ConnectionCount:    3,
		SequenceID:         42,
		Flags:              acmp.FlagClassB | acmp.FlagFastConnect,
		StreamVlanID:       7,
	}

	h, body := p.Encode(acmp.ConnectRxCommand, acmp.StatusSuccess)
	require.Equal(t, wire.SubtypeACMP, h.Subtype)
	require.Equal(t, uint8(acmp.ConnectRxCommand), h.ControlData)
	require.Len(t, body, acmp.BodySize)

	got, err := acmp.Decode(h, body)
	require.NoError(t, err)
	require.Equal(t, p, got)
}

func TestDecodeTooShort(t *testing.T) {
	_, err := acmp.Decode(wire.CommonHeader{}, make([]byte, acmp.BodySize-1))
	var werr *avdecc.WireError
	require.ErrorAs(t, err, &werr)
	require.Equal(t, avdecc.WireTooShort, werr.Kind)
}

func TestMessageTypeIsResponse(t *testing.T) {
	require.False(t, acmp.ConnectRxCommand.IsResponse())
	require.True(t, acmp.ConnectRxResponse.IsResponse())
	require.False(t, acmp.GetTxConnectionCommand.IsResponse())
	require.True(t, acmp.GetTxConnectionResponse.IsResponse())
}

func TestStatusString(t *testing.T) {
	require.Equal(t, "SUCCESS", acmp.StatusSuccess.String())
	require.Equal(t, "TIMED_OUT", acmp.StatusTimedOut.String())
}
