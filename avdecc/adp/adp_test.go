package adp_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/avnu-align/avdecc-engine/avdecc"
	"github.com/avnu-align/avdecc-engine/avdecc/adp"
	"github.com/avnu-align/avdecc-engine/avdecc/wire"
)

func decodeFrame(frame []byte) (adp.PDU, error) {
	h, body, err := wire.Decode(frame)
	if err != nil {
		return adp.PDU{}, err
	}
	return adp.Decode(h, body)
}

type recordingObserver struct {
	events []adp.Event
}

func (r *recordingObserver) OnEntityEvent(ev adp.Event, entityID avdecc.EntityID, snapshot adp.PDU) {
	r.events = append(r.events, ev)
}

func available(entityID avdecc.EntityID, availableIndex uint32, ifaceIndex uint16) adp.PDU {
	return adp.PDU{
		MessageType:    adp.MessageAvailable,
		ValidTime:      10,
		EntityID:       entityID,
		AvailableIndex: availableIndex,
		InterfaceIndex: ifaceIndex,
	}
}

func TestTrackerSurfacesOnlineThenUpdate(t *testing.T) {
	obs := &recordingObserver{}
	tr := adp.NewTracker(avdecc.EntityID(0xffff), obs)

	tr.HandleADP(available(1, 1, 0))
	tr.HandleADP(available(1, 2, 0))

	require.Equal(t, []adp.Event{adp.EventOnline, adp.EventUpdate}, obs.events)
}

func TestTrackerSameAvailableIndexIsNoOp(t *testing.T) {
	obs := &recordingObserver{}
	tr := adp.NewTracker(avdecc.EntityID(0xffff), obs)

	tr.HandleADP(available(1, 1, 0))
	tr.HandleADP(available(1, 1, 0))

	require.Equal(t, []adp.Event{adp.EventOnline}, obs.events)
}

func TestTrackerAvailableIndexDecreaseIsOfflineThenOnline(t *testing.T) {
	obs := &recordingObserver{}
	tr := adp.NewTracker(avdecc.EntityID(0xffff), obs)

	tr.HandleADP(available(1, 5, 0))
	tr.HandleADP(available(1, 2, 0))

	require.Equal(t, []adp.Event{adp.EventOnline, adp.EventOfflineThenOnline}, obs.events)
}

func TestTrackerDepartingSurfacesOfflineOnlyIfKnown(t *testing.T) {
	obs := &recordingObserver{}
	tr := adp.NewTracker(avdecc.EntityID(0xffff), obs)

	tr.HandleADP(adp.PDU{MessageType: adp.MessageDeparting, EntityID: 1})
	require.Empty(t, obs.events, "departing from an entity never seen online must not surface Offline")

	tr.HandleADP(available(1, 1, 0))
	tr.HandleADP(adp.PDU{MessageType: adp.MessageDeparting, EntityID: 1})
	require.Equal(t, []adp.Event{adp.EventOnline, adp.EventOffline}, obs.events)
}

func TestTrackerLocalEntityIsNeverTrackedAsRemote(t *testing.T) {
	obs := &recordingObserver{}
	localID := avdecc.EntityID(0xffff)
	tr := adp.NewTracker(localID, obs)

	tr.HandleADP(available(localID, 1, 0))
	require.Equal(t, []adp.Event{adp.EventLocalEntity}, obs.events)
	require.Nil(t, tr.Interfaces(localID))
}

func TestTrackerTickExpiresStaleInterfaceAsOffline(t *testing.T) {
	obs := &recordingObserver{}
	tr := adp.NewTracker(avdecc.EntityID(0xffff), obs)

	now := time.Unix(1000, 0)
	tr.SetClock(func() time.Time { return now })

	p := available(1, 1, 0)
	p.ValidTime = 1 // validity = 2 * 1s
	tr.HandleADP(p)
	require.Equal(t, []adp.Event{adp.EventOnline}, obs.events)

	tr.Tick(now.Add(3 * time.Second))
	require.Equal(t, []adp.Event{adp.EventOnline, adp.EventOffline}, obs.events)
	require.Nil(t, tr.Interfaces(1))
}

func TestTrackerMainInterfaceAgingOutRebinds(t *testing.T) {
	obs := &recordingObserver{}
	tr := adp.NewTracker(avdecc.EntityID(0xffff), obs)

	now := time.Unix(2000, 0)
	tr.SetClock(func() time.Time { return now })

	main := available(1, 1, 0)
	main.ValidTime = 1
	tr.HandleADP(main)

	secondary := available(1, 2, 1)
	secondary.ValidTime = 100
	tr.HandleADP(secondary)
	require.Equal(t, []adp.Event{adp.EventOnline, adp.EventUpdate}, obs.events)

	tr.Tick(now.Add(3 * time.Second))
	require.Equal(t, []adp.Event{adp.EventOnline, adp.EventUpdate, adp.EventOfflineThenOnline}, obs.events)

	idx, ok := tr.MainInterface(1)
	require.True(t, ok)
	require.Equal(t, uint16(1), idx)
}

func TestPDUEncodeDecodeRoundTrip(t *testing.T) {
	p := adp.PDU{
		MessageType:            adp.MessageAvailable,
		ValidTime:              31,
		EntityID:               avdecc.EntityID(0x1122334455667788),
		EntityModelID:          avdecc.EntityModelID(0xaabbccdd),
		EntityCapabilities:     adp.EntityCapAemSupported | adp.EntityCapGptpSupported,
		TalkerStreamSources:    2,
		TalkerCapabilities:     adp.TalkerCapImplemented | adp.TalkerCapAudioSource,
		ListenerStreamSinks:    1,
		ListenerCapabilities:   adp.ListenerCapImplemented,
		ControllerCapabilities: 0,
		AvailableIndex:         42,
		GptpGrandmasterID:      avdecc.EntityID(0x0102030405060708),
		GptpDomainNumber:       1,
		IdentifyControlIndex:   0,
		InterfaceIndex:         0,
		AssociationID:          0,
	}

	frame := p.Encode()
	require.Len(t, frame, 12+adp.BodySize)

	decoded, err := decodeFrame(frame)
	require.NoError(t, err)
	require.Equal(t, p, decoded)
}
