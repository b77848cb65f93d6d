package entity_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/avnu-align/avdecc-engine/avdecc"
	"github.com/avnu-align/avdecc-engine/avdecc/acmp"
	"github.com/avnu-align/avdecc-engine/avdecc/adp"
	"github.com/avnu-align/avdecc-engine/avdecc/aecp"
	"github.com/avnu-align/avdecc-engine/avdecc/aecp/aem"
	"github.com/avnu-align/avdecc-engine/avdecc/wire"
	"github.com/avnu-align/avdecc-engine/entity"
	"github.com/avnu-align/avdecc-engine/entity/transport"
)

func newPI(t *testing.T, bus *transport.Bus, mac avdecc.MacAddress, entityID avdecc.EntityID) *entity.ProtocolInterface {
	t.Helper()
	pi, err := entity.New(entity.DefaultConfig(entityID), bus.NewMemory(mac), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pi.Close() })
	return pi
}

func TestControllerGetTxStateRoundTripsThroughTalker(t *testing.T) {
	bus := transport.NewBus()
	controllerPI := newPI(t, bus, avdecc.MacAddress{0, 0, 0, 0, 0, 1}, avdecc.EntityID(0x1))
	talkerPI := newPI(t, bus, avdecc.MacAddress{0, 0, 0, 0, 0, 2}, avdecc.EntityID(0x2))

	talker := entity.NewTalker(talkerPI)
	talker.OnGetTxState(func(req acmp.PDU) (acmp.PDU, acmp.Status) {
		resp := req
		resp.ConnectionCount = 3
		return resp, acmp.StatusSuccess
	})

	controller := entity.NewController(controllerPI)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	pdu, status, err := controller.GetTxState(ctx, avdecc.EntityID(0x2), 7)
	require.NoError(t, err)
	require.Equal(t, acmp.StatusSuccess, status)
	require.Equal(t, uint16(3), pdu.ConnectionCount)
	require.Equal(t, uint16(7), pdu.TalkerUniqueID)
}

func TestControllerConnectRxRoutesToListener(t *testing.T) {
	bus := transport.NewBus()
	controllerPI := newPI(t, bus, avdecc.MacAddress{0, 0, 0, 0, 0, 1}, avdecc.EntityID(0x1))
	listenerPI := newPI(t, bus, avdecc.MacAddress{0, 0, 0, 0, 0, 3}, avdecc.EntityID(0x3))

	listener := entity.NewListener(listenerPI)
	var sawReq acmp.PDU
	listener.OnConnectRx(func(req acmp.PDU) (acmp.PDU, acmp.Status) {
		sawReq = req
		resp := req
		resp.Flags = acmp.FlagFastConnect
		return resp, acmp.StatusSuccess
	})

	controller := entity.NewController(controllerPI)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	pdu, status, err := controller.ConnectRx(ctx, avdecc.EntityID(0x2), avdecc.EntityID(0x3), 1, 2)
	require.NoError(t, err)
	require.Equal(t, acmp.StatusSuccess, status)
	require.Equal(t, acmp.FlagFastConnect, pdu.Flags)
	require.Equal(t, avdecc.EntityID(0x2), sawReq.TalkerEntityID)
	require.Equal(t, uint16(2), sawReq.ListenerUniqueID)
}

func TestControllerGetNameTimesOutWithNoResponder(t *testing.T) {
	bus := transport.NewBus()
	cfg := entity.DefaultConfig(avdecc.EntityID(0x1))
	cfg.Inflight.AECPTimeout = 30 * time.Millisecond
	pi, err := entity.New(cfg, bus.NewMemory(avdecc.MacAddress{0, 0, 0, 0, 0, 1}), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pi.Close() })

	controller := entity.NewController(pi)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, status, err := controller.GetName(ctx, avdecc.EntityID(0x2), avdecc.DescriptorEntity, 0, 0, 0)
	require.NoError(t, err)
	require.Equal(t, aem.StatusTimedOut, status)
}

// fakeResponder stands in for a compliant remote AVDECC entity: it
// reads one AECP command off the bus and answers GET_NAME by echoing a
// fixed name back, exercising Controller.sendAEM's full wire path
// without building a complete descriptor-model responder.
func fakeResponder(t *testing.T, m *transport.Memory, name string) {
	t.Helper()
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		frame, err := m.Receive(ctx)
		if err != nil {
			return
		}
		h, body, err := wire.Decode(frame.Payload)
		if err != nil || h.Subtype != wire.SubtypeAECP {
			return
		}
		common, rest, err := aecp.DecodeCommon(h, body)
		if err != nil {
			return
		}
		cmdHeader, _, err := aem.DecodeHeader(rest)
		if err != nil {
			return
		}

		respBody := aem.Header{CommandType: cmdHeader.CommandType}.Encode(
			aem.NamePayload{Name: avdecc.NewAvdeccFixedString(name)}.Encode(),
		)
		respCommon := aecp.Common{
			MessageType:        aecp.MessageAemResponse,
			TargetEntityID:     common.TargetEntityID,
			ControllerEntityID: common.ControllerEntityID,
			SequenceID:         common.SequenceID,
		}
		respHeader, respFrame := respCommon.Encode(respBody)
		_ = m.SendRaw(frame.Source, wire.PadToMinimum(respHeader.Encode(respFrame)))
	}()
}

func TestControllerGetNameRoundTripsAgainstRemoteEntity(t *testing.T) {
	bus := transport.NewBus()
	remote := bus.NewMemory(avdecc.MacAddress{0, 0, 0, 0, 0, 9})
	fakeResponder(t, remote, "measured input 1")

	pi, err := entity.New(entity.DefaultConfig(avdecc.EntityID(0x1)), bus.NewMemory(avdecc.MacAddress{0, 0, 0, 0, 0, 1}), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pi.Close() })

	controller := entity.NewController(pi)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	name, status, err := controller.GetName(ctx, avdecc.EntityID(0x2), avdecc.DescriptorStreamInput, 0, 0, 0)
	require.NoError(t, err)
	require.Equal(t, aem.StatusSuccess, status)
	require.Equal(t, "measured input 1", name)
}

func TestDiscoveryObserverSeesOnlineAndOffline(t *testing.T) {
	bus := transport.NewBus()
	controllerMemory := bus.NewMemory(avdecc.MacAddress{0, 0, 0, 0, 0, 1})
	pi, err := entity.New(entity.DefaultConfig(avdecc.EntityID(0x1)), controllerMemory, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pi.Close() })

	events := make(chan adp.Event, 8)
	pi.AddDiscoveryObserver(func(ev adp.Event, entityID avdecc.EntityID, snapshot adp.PDU) {
		events <- ev
	})

	remote := bus.NewMemory(avdecc.MacAddress{0, 0, 0, 0, 0, 5})
	available := adp.PDU{MessageType: adp.MessageAvailable, ValidTime: 10, EntityID: avdecc.EntityID(0x77), AvailableIndex: 1}
	require.NoError(t, remote.SendRaw(transport.AvdeccMulticastMAC, available.Encode()))

	require.Equal(t, adp.EventOnline, <-events)

	departing := adp.PDU{MessageType: adp.MessageDeparting, EntityID: avdecc.EntityID(0x77)}
	require.NoError(t, remote.SendRaw(transport.AvdeccMulticastMAC, departing.Encode()))

	require.Equal(t, adp.EventOffline, <-events)
}
