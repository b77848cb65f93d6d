// Package entity implements C6: the local-entity facade that composes
// the Controller, Talker, and Listener roles over one ProtocolInterface
// (transport + discovery tracker + inflight registry + dispatch table
// + stats tracker). See spec.md §3.1, §7.
package entity

import (
	"context"
	"sync"
	"time"

	"github.com/avnu-align/avdecc-engine/avdecc"
	"github.com/avnu-align/avdecc-engine/avdecc/acmp"
	"github.com/avnu-align/avdecc-engine/avdecc/adp"
	"github.com/avnu-align/avdecc-engine/avdecc/aecp"
	"github.com/avnu-align/avdecc-engine/avdecc/aecp/aem"
	"github.com/avnu-align/avdecc-engine/avdecc/aecp/mvu"
	"github.com/avnu-align/avdecc-engine/avdecc/dispatch"
	"github.com/avnu-align/avdecc-engine/avdecc/inflight"
	"github.com/avnu-align/avdecc-engine/avdecc/stats"
	"github.com/avnu-align/avdecc-engine/avdecc/wire"
	"github.com/avnu-align/avdecc-engine/clog"
	"github.com/avnu-align/avdecc-engine/entity/transport"
	"github.com/avnu-align/avdecc-engine/internal/bufpool"
)

// Config holds the facade's tunables, validated and defaulted the way
// the teacher's cs104 Config is (spec.md §4, ambient config pattern).
type Config struct {
	EntityID      avdecc.EntityID
	EntityModelID avdecc.EntityModelID
	Inflight      inflight.Config
}

// Valid fills zero fields with defaults, mirroring cs104/config.go.
func (c *Config) Valid() error {
	return c.Inflight.Valid()
}

// DefaultConfig returns a Config with the spec's default inflight timeouts.
func DefaultConfig(entityID avdecc.EntityID) Config {
	c := Config{EntityID: entityID, Inflight: inflight.DefaultConfig()}
	_ = c.Valid()
	return c
}

// ProtocolInterface is the single mutex-guarded hub every role
// (Controller, Talker, Listener) shares: one transport, one discovery
// tracker, one AECP inflight registry, one ACMP inflight registry, one
// dispatch table, one stats tracker (spec.md §7's single-mutex
// invariant — the mutex here is inflight's own per-registry lock; the
// facade itself holds only the sequence-id counter and the sent
// command_type map under its own small lock so that no user callback is
// ever invoked while it is held).
type ProtocolInterface struct {
	cfg       Config
	tx        transport.Interface
	log       clog.Clog
	tracker   *adp.Tracker
	aecpInflight *inflight.Registry
	acmpInflight *inflight.Registry
	dispatch  *dispatch.Table
	stats     *stats.Tracker

	mu        sync.Mutex
	sequence  avdecc.SequenceID
	sentCommandTypes map[sentKey]aem.CommandType

	// acmpCommandHandlers answer an inbound ACMP command synchronously:
	// handled == false means "not mine", letting the next role (or, for
	// a self-addressed command, Controller.sendACMP's in-process path)
	// try. NewTalker and NewListener each register one.
	acmpCommandHandlers []func(messageType acmp.MessageType, pdu acmp.PDU) (resp acmp.PDU, status acmp.Status, handled bool)
	discoveryObservers  []func(ev adp.Event, entityID avdecc.EntityID, snapshot adp.PDU)
	unsolicitedObservers []func(common aecp.Common, header aem.Header, body []byte)
	sniffedObservers     []func(messageType acmp.MessageType, pdu acmp.PDU)

	cancel context.CancelFunc
	done   chan struct{}
}

// AddACMPCommandHandler registers a callback invoked for every inbound
// (non-response) ACMP frame, and for a self-addressed command dispatched
// in-process by Controller.sendACMP; NewTalker and NewListener each call
// this once to wire their role-specific handling in. Both roles can
// coexist on one ProtocolInterface since CONNECT_TX/DISCONNECT_TX/
// GET_TX_STATE/GET_TX_CONNECTION and CONNECT_RX/DISCONNECT_RX/
// GET_RX_STATE partition the message_type space (spec.md §3.4) — each
// handler reports handled == false for message types outside its role.
func (pi *ProtocolInterface) AddACMPCommandHandler(h func(messageType acmp.MessageType, pdu acmp.PDU) (acmp.PDU, acmp.Status, bool)) {
	pi.acmpCommandHandlers = append(pi.acmpCommandHandlers, h)
}

// dispatchACMPCommand runs pdu through every registered ACMP command
// handler, returning the first one that claims it. Used both by
// handleACMP for a real inbound frame and by Controller.sendACMP's
// self-command-elision path.
func (pi *ProtocolInterface) dispatchACMPCommand(messageType acmp.MessageType, pdu acmp.PDU) (acmp.PDU, acmp.Status, bool) {
	for _, h := range pi.acmpCommandHandlers {
		if resp, status, handled := h(messageType, pdu); handled {
			return resp, status, true
		}
	}
	return acmp.PDU{}, 0, false
}

// AddUnsolicitedObserver registers a callback fired for every AEM
// notification received with the unsolicited flag set (spec.md §4.5's
// unsolicited flow, §8 scenarios 4/5) — a controller calls
// Controller.RegisterUnsolicitedNotification on a target, then binds
// this hook to learn about state changes that target reports without
// being asked. header.CommandType tells the observer which field changed.
func (pi *ProtocolInterface) AddUnsolicitedObserver(h func(common aecp.Common, header aem.Header, body []byte)) {
	pi.unsolicitedObservers = append(pi.unsolicitedObservers, h)
}

func (pi *ProtocolInterface) onUnsolicited(common aecp.Common, header aem.Header, body []byte) {
	for _, h := range pi.unsolicitedObservers {
		h(common, header, body)
	}
}

// AddACMPSniffedObserver registers a callback fired for an ACMP response
// received on the wire whose controller_entity_id is not this entity's
// own — every entity on the segment receives every ACMP frame since it
// is sent to the AVDECC multicast address, so a controller watching the
// network can observe connections it did not itself request (spec.md §8
// scenario 6, on_controller_connect_response_sniffed).
func (pi *ProtocolInterface) AddACMPSniffedObserver(h func(messageType acmp.MessageType, pdu acmp.PDU)) {
	pi.sniffedObservers = append(pi.sniffedObservers, h)
}

// SetLogMode enables or disables the facade's internal debug/warn
// logging (disabled by default, matching clog's convention). cmd/
// avdeccping calls this when a caller wants to see dispatch/retry/
// discovery chatter on stdout.
func (pi *ProtocolInterface) SetLogMode(enable bool) {
	pi.log.LogMode(enable)
}

// AddDiscoveryObserver registers a callback fired for every discovery
// event the tracker surfaces (Online/Update/Offline/OfflineThenOnline/
// LocalEntity) — the hook cmd/avdeccping uses to print ADP snapshots,
// and the one a "controller library" consumer binds to mirror
// discovered entities (spec.md §3.1, §4.4).
func (pi *ProtocolInterface) AddDiscoveryObserver(h func(ev adp.Event, entityID avdecc.EntityID, snapshot adp.PDU)) {
	pi.discoveryObservers = append(pi.discoveryObservers, h)
}

// New builds a ProtocolInterface bound to tx and starts its receive
// loop and periodic tick goroutines. Call Close to tear it down.
func New(cfg Config, tx transport.Interface, sink stats.Sink) (*ProtocolInterface, error) {
	if err := cfg.Valid(); err != nil {
		return nil, err
	}

	pi := &ProtocolInterface{
		cfg:   cfg,
		tx:    tx,
		log:   clog.NewLogger("avdecc"),
		stats: stats.New(sink),
		done:  make(chan struct{}),
	}
	pi.tracker = adp.NewTracker(cfg.EntityID, trackerObserverFunc(pi.onEntityEvent))

	pi.aecpInflight = inflight.New(cfg.Inflight, pi.retransmitAECP)
	pi.acmpInflight = inflight.New(cfg.Inflight, func(inflight.Protocol, avdecc.EntityID, avdecc.SequenceID) {})
	pi.dispatch = dispatch.New(pi.aecpInflight)
	pi.dispatch.OnUnhandled(pi.onUnsolicited)
	pi.dispatch.OnUnexpectedResponse(func(entityID avdecc.EntityID) {
		pi.stats.Record(entityID, stats.EventUnexpectedResponse, 0)
	})

	ctx, cancel := context.WithCancel(context.Background())
	pi.cancel = cancel
	go pi.receiveLoop(ctx)
	go pi.tickLoop(ctx)
	return pi, nil
}

// trackerObserverFunc adapts a plain function to adp.Observer, the way
// http.HandlerFunc adapts a function to http.Handler.
type trackerObserverFunc func(ev adp.Event, entityID avdecc.EntityID, snapshot adp.PDU)

func (f trackerObserverFunc) OnEntityEvent(ev adp.Event, entityID avdecc.EntityID, snapshot adp.PDU) {
	f(ev, entityID, snapshot)
}

func (pi *ProtocolInterface) onEntityEvent(ev adp.Event, entityID avdecc.EntityID, snapshot adp.PDU) {
	if ev == adp.EventOffline {
		pi.stats.Forget(entityID)
	}
	pi.log.Debug("discovery event %s entity=%s", ev, entityID)
	for _, h := range pi.discoveryObservers {
		h(ev, entityID, snapshot)
	}
}

// retransmitAECP records the stats/log side of a retry; the actual
// resend happens via the per-entry resend closure the caller supplies
// to Registry.RegisterWithResend (see Controller.sendAECP), which
// Registry.Tick invokes right after this callback.
func (pi *ProtocolInterface) retransmitAECP(protocol inflight.Protocol, target avdecc.EntityID, sequenceID avdecc.SequenceID) {
	pi.stats.Record(target, stats.EventRetry, 0)
	pi.log.Debug("retrying aecp target=%s seq=%d", target, sequenceID)
}

func (pi *ProtocolInterface) nextSequenceID() avdecc.SequenceID {
	pi.mu.Lock()
	defer pi.mu.Unlock()
	pi.sequence = pi.sequence.Next()
	return pi.sequence
}

// sentKey identifies one outstanding AEM command by the same (target,
// sequence_id) pair the inflight Registry keys on.
type sentKey struct {
	target     avdecc.EntityID
	sequenceID avdecc.SequenceID
}

// recordSentCommandType remembers which command_type was sent under
// (target, sequenceID), so the response's echoed command_type can be
// cross-checked (spec.md §4.5's command_type mismatch -> protocol
// violation). Controller.sendAEM calls this right before transmitting.
func (pi *ProtocolInterface) recordSentCommandType(target avdecc.EntityID, sequenceID avdecc.SequenceID, commandType aem.CommandType) {
	pi.mu.Lock()
	defer pi.mu.Unlock()
	if pi.sentCommandTypes == nil {
		pi.sentCommandTypes = make(map[sentKey]aem.CommandType)
	}
	pi.sentCommandTypes[sentKey{target: target, sequenceID: sequenceID}] = commandType
}

// takeSentCommandType looks up and forgets the command_type recorded
// for (target, sequenceID), returning ok == false if none is on file
// (e.g. an inbound command/notification rather than our own response).
func (pi *ProtocolInterface) takeSentCommandType(target avdecc.EntityID, sequenceID avdecc.SequenceID) (aem.CommandType, bool) {
	pi.mu.Lock()
	defer pi.mu.Unlock()
	k := sentKey{target: target, sequenceID: sequenceID}
	ct, ok := pi.sentCommandTypes[k]
	if ok {
		delete(pi.sentCommandTypes, k)
	}
	return ct, ok
}

// Close stops the receive/tick loops and aborts every inflight command
// (spec.md §7: "drain inflight with Aborted, wait for callbacks" —
// a freshly-destroyed facade never blocks a caller already waiting on
// a completion).
func (pi *ProtocolInterface) Close() error {
	pi.cancel()
	<-pi.done
	pi.aecpInflight.AbortAll()
	pi.acmpInflight.AbortAll()
	return pi.tx.Close()
}

func (pi *ProtocolInterface) receiveLoop(ctx context.Context) {
	defer close(pi.done)
	for {
		frame, err := pi.tx.Receive(ctx)
		if err != nil {
			return
		}
		pi.handleFrame(frame)
	}
}

func (pi *ProtocolInterface) tickLoop(ctx context.Context) {
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			pi.tracker.Tick(now)
			pi.aecpInflight.Tick(now)
			pi.acmpInflight.Tick(now)
		}
	}
}

func (pi *ProtocolInterface) handleFrame(frame transport.Frame) {
	header, payload, err := wire.Decode(frame.Payload)
	if err != nil {
		pi.log.Debug("dropping frame from %s: %v", frame.Source, err)
		return
	}

	switch header.Subtype {
	case wire.SubtypeADP:
		pdu, err := adp.Decode(header, payload)
		if err != nil {
			pi.log.Debug("malformed ADP from %s: %v", frame.Source, err)
			return
		}
		pi.tracker.HandleADP(pdu)
	case wire.SubtypeAECP:
		pi.handleAECP(header, payload)
	case wire.SubtypeACMP:
		pi.handleACMP(header, payload)
	}
}

func (pi *ProtocolInterface) handleAECP(header wire.CommonHeader, payload []byte) {
	common, rest, err := aecp.DecodeCommon(header, payload)
	if err != nil {
		pi.log.Debug("malformed AECP common header: %v", err)
		return
	}

	isMilanVU := false
	if common.MessageType == aecp.MessageVendorUniqueCommand || common.MessageType == aecp.MessageVendorUniqueResponse {
		isMilanVU = mvu.IsMilanProtocolID(rest)
	}

	switch common.KindOf(isMilanVU) {
	case aecp.KindAEM:
		h, body, err := aem.DecodeHeader(rest)
		if err != nil {
			pi.log.Debug("malformed AEM header: %v", err)
			return
		}
		if h.Unsolicited {
			pi.stats.Record(common.TargetEntityID, stats.EventAecpUnsolicited, 0)
		}
		sentType, hasSentType := pi.takeSentCommandType(common.TargetEntityID, common.SequenceID)
		if err := pi.dispatch.Dispatch(common, h, body, sentType, hasSentType); err != nil {
			pi.log.Warn("aecp dispatch error: %v", err)
		}
	default:
		// AA/MVU commands have no local responder role in this engine
		// (only Controller issues them); an inbound one is logged and
		// dropped rather than mistaken for a response to resolve.
		if !common.MessageType.IsResponse() {
			pi.log.Debug("dropping inbound AA/MVU command from target=%s", common.TargetEntityID)
			return
		}
		resolved := pi.aecpInflight.Resolve(common.TargetEntityID, common.SequenceID, inflight.Response{Status: common.Status, Payload: rest})
		if !resolved {
			pi.stats.Record(common.TargetEntityID, stats.EventUnexpectedResponse, 0)
		}
	}
}

func (pi *ProtocolInterface) handleACMP(header wire.CommonHeader, payload []byte) {
	pdu, err := acmp.Decode(header, payload)
	if err != nil {
		pi.log.Debug("malformed ACMP pdu: %v", err)
		return
	}
	messageType := acmp.MessageType(header.ControlData)
	if !messageType.IsResponse() {
		resp, status, handled := pi.dispatchACMPCommand(messageType, pdu)
		if !handled {
			return
		}
		h2, frame := resp.Encode(messageType.Response(), status)
		if err := pi.sendRaw(avdecc.MacAddress{}, h2, frame); err != nil {
			pi.log.Warn("acmp response send failed: %v", err)
		}
		return
	}

	// Every entity on the segment receives every ACMP response since it
	// is sent to the AVDECC multicast address; one not addressed back to
	// this entity's controller_entity_id is sniffed, not ours to resolve.
	if pdu.ControllerEntityID != pi.cfg.EntityID {
		for _, h := range pi.sniffedObservers {
			h(messageType, pdu)
		}
		return
	}

	resolved := pi.acmpInflight.Resolve(pdu.ControllerEntityID, pdu.SequenceID, inflight.Response{Status: header.Status, Payload: payload})
	if !resolved {
		pi.stats.Record(pdu.ControllerEntityID, stats.EventUnexpectedResponse, 0)
	}
}

// sendRaw serializes and transmits one AVTPDU to dest (the zero MAC
// means the AVDECC multicast address). The frame is built into a
// pooled scratch buffer (bufpool) since this is the path every
// command, response, retry and notification takes.
func (pi *ProtocolInterface) sendRaw(dest avdecc.MacAddress, h wire.CommonHeader, payload []byte) error {
	buf := bufpool.Get()
	defer bufpool.Put(buf)
	frame := h.EncodeInto(buf, payload)
	frame = wire.PadToMinimum(frame)
	return pi.tx.SendRaw(dest, frame)
}
