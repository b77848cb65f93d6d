package adp

import (
	"sync"
	"time"

	"github.com/avnu-align/avdecc-engine/avdecc"
)

// Event is the surface a Tracker delivers to its Observer. See
// spec.md §4.4.
type Event uint8

const (
	EventOnline Event = iota
	EventUpdate
	EventOffline
	EventOfflineThenOnline
	EventLocalEntity
)

func (e Event) String() string {
	switch e {
	case EventOnline:
		return "Online"
	case EventUpdate:
		return "Update"
	case EventOffline:
		return "Offline"
	case EventOfflineThenOnline:
		return "OfflineThenOnline"
	case EventLocalEntity:
		return "LocalEntity"
	default:
		return "Event<unknown>"
	}
}

// Observer receives discovery events. No observer method is ever
// invoked while the Tracker's internal lock is held (spec.md §5).
type Observer interface {
	OnEntityEvent(ev Event, entityID avdecc.EntityID, snapshot PDU)
}

// Interface is the per-AvbInterface state the tracker keeps for each
// observed entity (spec.md §3.4).
type Interface struct {
	MacAddress      avdecc.MacAddress
	GptpGrandmaster avdecc.EntityID
	GptpDomain      uint8
	ValidUntil      time.Time
}

type entityState struct {
	lastSeen       time.Time
	availableIndex uint32
	mainInterface  uint16
	haveMain       bool
	interfaces     map[uint16]*Interface
	snapshot       PDU
}

// Tracker is C4: it consumes ADP datagrams and drives the per-entity
// online/update/offline state machine of spec.md §4.4.
type Tracker struct {
	mu       sync.Mutex
	localID  avdecc.EntityID
	entities map[avdecc.EntityID]*entityState
	observer Observer
	now      func() time.Time
}

// NewTracker constructs a Tracker for the local entity localID,
// delivering events to observer.
func NewTracker(localID avdecc.EntityID, observer Observer) *Tracker {
	return &Tracker{
		localID:  localID,
		entities: make(map[avdecc.EntityID]*entityState),
		observer: observer,
		now:      time.Now,
	}
}

// SetClock overrides the wall-clock source; used by tests.
func (t *Tracker) SetClock(now func() time.Time) { t.now = now }

// HandleADP processes one decoded ADP datagram and delivers at most
// one event to the observer. See spec.md §4.4 for the full state
// machine and §3.4 for the per-entity invariants.
func (t *Tracker) HandleADP(p PDU) {
	if p.EntityID == t.localID {
		t.observer.OnEntityEvent(EventLocalEntity, p.EntityID, p)
		return
	}

	switch p.MessageType {
	case MessageDeparting:
		t.handleDeparting(p)
	case MessageAvailable:
		t.handleAvailable(p)
	case MessageDiscover:
		// Discover requests carry no entity state to track.
	}
}

func (t *Tracker) handleDeparting(p PDU) {
	t.mu.Lock()
	_, existed := t.entities[p.EntityID]
	if existed {
		delete(t.entities, p.EntityID)
	}
	t.mu.Unlock()

	if existed {
		t.observer.OnEntityEvent(EventOffline, p.EntityID, p)
	}
}

func (t *Tracker) handleAvailable(p PDU) {
	now := t.now()

	t.mu.Lock()
	st, existed := t.entities[p.EntityID]
	if !existed {
		st = &entityState{
			mainInterface: p.InterfaceIndex,
			haveMain:      true,
			interfaces:    make(map[uint16]*Interface),
		}
		t.entities[p.EntityID] = st
	}

	validUntil := now.Add(2 * time.Duration(p.ValiditySeconds()) * time.Second)
	st.interfaces[p.InterfaceIndex] = &Interface{
		MacAddress:      macFromEntity(p),
		GptpGrandmaster: p.GptpGrandmasterID,
		GptpDomain:      p.GptpDomainNumber,
		ValidUntil:      validUntil,
	}

	_, mainStillPresent := st.interfaces[st.mainInterface]

	var surface Event
	switch {
	case !existed:
		surface = EventOnline
	case !mainStillPresent:
		// Main interface aged out of this advertisement: force
		// offline-then-online so bound consumers rebind (invariant,
		// spec.md §3.4).
		surface = EventOfflineThenOnline
		st.mainInterface = p.InterfaceIndex
	case p.AvailableIndex == st.availableIndex:
		surface = EventUpdate // still decided below: no-op if truly unchanged
	case wrapsOrDecreases(st.availableIndex, p.AvailableIndex):
		surface = EventOfflineThenOnline
	default:
		surface = EventUpdate
	}

	noOp := existed && mainStillPresent && p.AvailableIndex == st.availableIndex
	st.lastSeen = now
	st.availableIndex = p.AvailableIndex
	st.snapshot = p
	t.mu.Unlock()

	if noOp {
		return
	}
	t.observer.OnEntityEvent(surface, p.EntityID, p)
}

// wrapsOrDecreases reports whether next is not a strict advance over
// prev, treating 16/32-bit wraparound as a decrease (spec.md §3.4
// invariant: available_index must advance strictly monotonically).
func wrapsOrDecreases(prev, next uint32) bool {
	return next <= prev
}

// macFromEntity is a placeholder extraction point: ADP carries no MAC
// address field of its own (it rides inside the Ethernet source
// address the transport observed); callers that need it should record
// it from the raw frame and merge it in via UpdateInterfaceMAC.
func macFromEntity(PDU) avdecc.MacAddress { return avdecc.MacAddress{} }

// UpdateInterfaceMAC records the observed Ethernet source MAC for an
// entity's interface; the transport layer supplies this alongside the
// decoded PDU since it is not part of the ADP body itself.
func (t *Tracker) UpdateInterfaceMAC(entityID avdecc.EntityID, interfaceIndex uint16, mac avdecc.MacAddress) {
	t.mu.Lock()
	defer t.mu.Unlock()
	st, ok := t.entities[entityID]
	if !ok {
		return
	}
	if iface, ok := st.interfaces[interfaceIndex]; ok {
		iface.MacAddress = mac
	}
}

// Tick sweeps expired interface validity timers. It must be driven
// periodically by the timer thread described in spec.md §5.
func (t *Tracker) Tick(now time.Time) {
	type expiry struct {
		id       avdecc.EntityID
		snapshot PDU
		event    Event
	}
	var fired []expiry

	t.mu.Lock()
	for id, st := range t.entities {
		wasMain := st.mainInterface
		for idx, iface := range st.interfaces {
			if now.After(iface.ValidUntil) {
				delete(st.interfaces, idx)
			}
		}
		if len(st.interfaces) == 0 {
			delete(t.entities, id)
			fired = append(fired, expiry{id: id, snapshot: st.snapshot, event: EventOffline})
			continue
		}
		if _, stillThere := st.interfaces[wasMain]; !stillThere {
			// Pick any remaining interface as the new main and surface
			// offline-then-online so consumers rebind (spec.md §3.4).
			for idx := range st.interfaces {
				st.mainInterface = idx
				break
			}
			fired = append(fired, expiry{id: id, snapshot: st.snapshot, event: EventOfflineThenOnline})
		}
	}
	t.mu.Unlock()

	for _, e := range fired {
		t.observer.OnEntityEvent(e.event, e.id, e.snapshot)
	}
}

// Interfaces returns a snapshot copy of the tracked interfaces for an
// entity, or nil if the entity is not currently tracked.
func (t *Tracker) Interfaces(entityID avdecc.EntityID) map[uint16]Interface {
	t.mu.Lock()
	defer t.mu.Unlock()
	st, ok := t.entities[entityID]
	if !ok {
		return nil
	}
	out := make(map[uint16]Interface, len(st.interfaces))
	for idx, iface := range st.interfaces {
		out[idx] = *iface
	}
	return out
}

// MainInterface returns the index of the entity's main (first
// discovered, or most recently rebound) AvbInterface.
func (t *Tracker) MainInterface(entityID avdecc.EntityID) (uint16, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	st, ok := t.entities[entityID]
	if !ok {
		return 0, false
	}
	return st.mainInterface, true
}
