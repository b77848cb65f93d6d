package entity

import (
	"context"
	"time"

	"github.com/avnu-align/avdecc-engine/avdecc"
	"github.com/avnu-align/avdecc-engine/avdecc/acmp"
	"github.com/avnu-align/avdecc-engine/avdecc/aecp"
	"github.com/avnu-align/avdecc-engine/avdecc/aecp/aa"
	"github.com/avnu-align/avdecc-engine/avdecc/aecp/aem"
	"github.com/avnu-align/avdecc-engine/avdecc/aecp/mvu"
	"github.com/avnu-align/avdecc-engine/avdecc/descriptor"
	"github.com/avnu-align/avdecc-engine/avdecc/inflight"
	"github.com/avnu-align/avdecc-engine/avdecc/stats"
	"github.com/avnu-align/avdecc-engine/avdecc/wire"
)

// Controller is the role that issues AEM commands to enumerate and
// control remote entities, and ACMP commands to manage connections
// between them (spec.md §3.1's Controller role).
type Controller struct {
	pi *ProtocolInterface
}

// NewController wraps pi with the Controller role's operation surface.
func NewController(pi *ProtocolInterface) *Controller { return &Controller{pi: pi} }

// Result is what every AEM command operation resolves to: either a
// decoded response body (Status == aem.StatusSuccess) or a non-success
// status the caller must interpret per-command.
type Result struct {
	Status aem.Status
	Body   []byte
}

// sendAECP issues one already-encoded AECP command body of the given
// message type and blocks until its response, retry, or timeout
// resolves — the facade's exactly-once completion contract is upheld by
// inflight.Registry (spec.md §7). It is the shared chokepoint for
// sendAEM/sendMVU/sendAA, and the single place self-command elision is
// enforced: onRegistered, if non-nil, runs right after the inflight
// entry is registered and before the frame is transmitted (sendAEM uses
// it to record the sent command_type for the protocol-violation
// cross-check in avdecc/dispatch).
func (c *Controller) sendAECP(ctx context.Context, messageType aecp.MessageType, target avdecc.EntityID, body []byte, onRegistered func(seq avdecc.SequenceID)) (Result, error) {
	if target == c.pi.cfg.EntityID {
		// A command addressed to this same entity must not go over the
		// wire: entity/transport/memory.go's in-memory transport filters
		// the sender out of its own multicast recipients, and a real raw
		// socket's self-reception is equally unreliable. This engine has
		// no local AEM/AA/MVU responder role (only Controller issues
		// these), so the only honest answer is the one a real device
		// gives for a command it doesn't implement, returned immediately
		// without ever touching the inflight registry (spec.md §4.3).
		return Result{Status: aem.StatusNotImplemented}, nil
	}

	seq := c.pi.nextSequenceID()

	type outcome struct {
		status aem.Status
		body   []byte
		err    error
	}
	ch := make(chan outcome, 1)

	started := time.Now()
	completion := func(o inflight.Outcome, resp inflight.Response) {
		switch o {
		case inflight.OutcomeResponse:
			// resp.Payload is the AECP sub-protocol's command-specific
			// body: handleAECP/dispatch have already stripped the AECP
			// common header (and, for AEM, the 2-octet u/command_type
			// header) before forwarding these bytes to Resolve.
			c.pi.stats.Record(target, stats.EventRoundTrip, time.Since(started))
			ch <- outcome{status: aem.Status(resp.Status), body: resp.Payload}
		case inflight.OutcomeTimedOut:
			c.pi.stats.Record(target, stats.EventTimeout, 0)
			ch <- outcome{status: aem.StatusTimedOut}
		case inflight.OutcomeAborted:
			ch <- outcome{status: aem.StatusAborted}
		}
	}

	common := aecp.Common{
		MessageType:        messageType,
		TargetEntityID:     target,
		ControllerEntityID: c.pi.cfg.EntityID,
		SequenceID:         seq,
	}
	h, frame := common.Encode(body)

	resend := func() { _ = c.pi.sendRaw(avdecc.MacAddress{}, h, frame) }
	if !c.pi.aecpInflight.RegisterWithResend(inflight.ProtocolAECP, target, seq, completion, resend) {
		return Result{}, &avdecc.PayloadError{Kind: avdecc.PayloadUnsupportedValue}
	}
	if onRegistered != nil {
		onRegistered(seq)
	}

	if err := c.pi.sendRaw(avdecc.MacAddress{}, h, frame); err != nil {
		return Result{}, err
	}

	select {
	case o := <-ch:
		if o.err != nil {
			return Result{}, o.err
		}
		return Result{Status: o.status, Body: o.body}, nil
	case <-ctx.Done():
		return Result{}, ctx.Err()
	}
}

// sendAEM issues one AEM command through sendAECP, recording the sent
// command_type so the response's echo can be cross-checked.
func (c *Controller) sendAEM(ctx context.Context, target avdecc.EntityID, commandType aem.CommandType, payload []byte) (Result, error) {
	header := aem.Header{CommandType: commandType}
	body := header.Encode(payload)
	return c.sendAECP(ctx, aecp.MessageAemCommand, target, body, func(seq avdecc.SequenceID) {
		c.pi.recordSentCommandType(target, seq, commandType)
	})
}

// sendMVU issues one Milan Vendor-Unique command through sendAECP,
// stripping the MVU protocol_id+command_type prefix from a successful
// response before returning its command-specific body.
func (c *Controller) sendMVU(ctx context.Context, target avdecc.EntityID, commandType mvu.CommandType, payload []byte) (Result, error) {
	header := mvu.Header{CommandType: commandType}
	body := header.Encode(payload)
	res, err := c.sendAECP(ctx, aecp.MessageVendorUniqueCommand, target, body, nil)
	if err != nil || res.Status != aem.StatusSuccess {
		return res, err
	}
	_, rest, err := mvu.DecodeHeader(res.Body)
	if err != nil {
		return Result{}, err
	}
	return Result{Status: res.Status, Body: rest}, nil
}

// sendAA issues one Address Access command (a TLV list with no extra
// header of its own) through sendAECP.
func (c *Controller) sendAA(ctx context.Context, target avdecc.EntityID, tlvs []aa.TLV) ([]aa.TLV, aem.Status, error) {
	res, err := c.sendAECP(ctx, aecp.MessageAddressAccessCommand, target, aa.Encode(tlvs), nil)
	if err != nil {
		return nil, 0, err
	}
	if res.Status != aem.StatusSuccess {
		return nil, res.Status, nil
	}
	out, err := aa.Decode(res.Body)
	return out, res.Status, err
}

// GetMilanInfo issues the Milan Vendor-Unique GET_MILAN_INFO command,
// decoding the Milan 1.2 (8-byte) or 1.3 (12-byte) response shape by the
// body length target actually returns (spec.md §8 scenario 2).
func (c *Controller) GetMilanInfo(ctx context.Context, target avdecc.EntityID) (mvu.MilanInfoResponse, aem.Status, error) {
	res, err := c.sendMVU(ctx, target, mvu.GetMilanInfo, nil)
	if err != nil {
		return mvu.MilanInfoResponse{}, 0, err
	}
	if res.Status != aem.StatusSuccess {
		return mvu.MilanInfoResponse{}, res.Status, nil
	}
	version := mvu.Milan12
	if len(res.Body) >= 12 {
		version = mvu.Milan13
	}
	info, err := mvu.DecodeMilanInfoResponse(res.Body, version)
	return info, res.Status, err
}

// AddressAccess issues an AECP Address Access command, returning the TLV
// list target replies with: the values read back for ModeRead entries,
// or the same TLVs echoed for ModeWrite/ModeExecute (spec.md §3.3, §4.3).
func (c *Controller) AddressAccess(ctx context.Context, target avdecc.EntityID, tlvs []aa.TLV) ([]aa.TLV, aem.Status, error) {
	return c.sendAA(ctx, target, tlvs)
}

// RegisterUnsolicitedNotification asks target to start sending this
// controller unsolicited AEM notifications for state it changes (spec.md
// §4.5's unsolicited flow, §8 scenarios 4/5); bind
// ProtocolInterface.AddUnsolicitedObserver to receive them.
func (c *Controller) RegisterUnsolicitedNotification(ctx context.Context, target avdecc.EntityID) (aem.Status, error) {
	res, err := c.sendAEM(ctx, target, aem.RegisterUnsolicitedNotification, nil)
	if err != nil {
		return 0, err
	}
	return res.Status, nil
}

// DeregisterUnsolicitedNotification undoes a prior RegisterUnsolicitedNotification.
func (c *Controller) DeregisterUnsolicitedNotification(ctx context.Context, target avdecc.EntityID) (aem.Status, error) {
	res, err := c.sendAEM(ctx, target, aem.DeregisterUnsolicitedNotification, nil)
	if err != nil {
		return 0, err
	}
	return res.Status, nil
}

// AcquireEntity acquires (or releases, via AcquireFlagRelease) exclusive
// control of target.
func (c *Controller) AcquireEntity(ctx context.Context, target avdecc.EntityID, flags aem.AcquireFlags) (aem.AcquireEntityPayload, aem.Status, error) {
	req := aem.AcquireEntityPayload{Flags: flags, DescriptorType: 0, DescriptorIndex: 0}
	res, err := c.sendAEM(ctx, target, aem.AcquireEntity, req.Encode())
	if err != nil {
		return aem.AcquireEntityPayload{}, 0, err
	}
	if res.Status != aem.StatusSuccess {
		return aem.AcquireEntityPayload{}, res.Status, nil
	}
	p, err := aem.DecodeAcquireEntity(res.Body)
	return p, res.Status, err
}

// LockEntity locks (or unlocks) target against concurrent control.
func (c *Controller) LockEntity(ctx context.Context, target avdecc.EntityID, flags aem.AcquireFlags) (aem.LockEntityPayload, aem.Status, error) {
	req := aem.LockEntityPayload{Flags: flags}
	res, err := c.sendAEM(ctx, target, aem.LockEntity, req.Encode())
	if err != nil {
		return aem.LockEntityPayload{}, 0, err
	}
	if res.Status != aem.StatusSuccess {
		return aem.LockEntityPayload{}, res.Status, nil
	}
	p, err := aem.DecodeLockEntity(res.Body)
	return p, res.Status, err
}

// ReadDescriptor fetches one descriptor from target's model tree and
// decodes it with the descriptor-specific decoder selected by
// descriptorType (spec.md §4.2: "descriptor-specific decoders are
// selected by the descriptor type"). The returned value's concrete type
// is one of the avdecc/descriptor structs; callers that already know
// descriptorType type-assert it directly.
func (c *Controller) ReadDescriptor(ctx context.Context, target avdecc.EntityID, configuration avdecc.ConfigurationIndex, descriptorType avdecc.DescriptorType, descriptorIndex avdecc.DescriptorIndexValue) (interface{}, aem.Status, error) {
	req := aem.ReadDescriptorCommand{ConfigurationIndex: configuration, DescriptorType: descriptorType, DescriptorIndex: descriptorIndex}
	res, err := c.sendAEM(ctx, target, aem.ReadDescriptor, req.Encode())
	if err != nil {
		return nil, 0, err
	}
	if res.Status != aem.StatusSuccess {
		return nil, res.Status, nil
	}
	_, rest, err := aem.DecodeReadDescriptorResponsePrefix(res.Body)
	if err != nil {
		return nil, res.Status, err
	}
	d, err := descriptor.DecodeDescriptor(descriptorType, rest)
	return d, res.Status, err
}

// SetName writes a name field polymorphically selected by
// (descriptorType, nameIndex) — e.g. nameIndex 0 on a STREAM_INPUT
// descriptor is its stream name (spec.md §4.2).
func (c *Controller) SetName(ctx context.Context, target avdecc.EntityID, descriptorType avdecc.DescriptorType, descriptorIndex avdecc.DescriptorIndexValue, nameIndex uint16, configuration avdecc.ConfigurationIndex, name string) (aem.Status, error) {
	req := aem.NamePayload{
		DescriptorType:     descriptorType,
		DescriptorIndex:    descriptorIndex,
		NameIndex:          nameIndex,
		ConfigurationIndex: configuration,
		Name:               avdecc.NewAvdeccFixedString(name),
	}
	res, err := c.sendAEM(ctx, target, aem.SetName, req.Encode())
	if err != nil {
		return 0, err
	}
	return res.Status, nil
}

// GetName reads back a name field set by SetName.
func (c *Controller) GetName(ctx context.Context, target avdecc.EntityID, descriptorType avdecc.DescriptorType, descriptorIndex avdecc.DescriptorIndexValue, nameIndex uint16, configuration avdecc.ConfigurationIndex) (string, aem.Status, error) {
	req := aem.NamePayload{DescriptorType: descriptorType, DescriptorIndex: descriptorIndex, NameIndex: nameIndex, ConfigurationIndex: configuration}
	res, err := c.sendAEM(ctx, target, aem.GetName, req.Encode())
	if err != nil {
		return "", 0, err
	}
	if res.Status != aem.StatusSuccess {
		return "", res.Status, nil
	}
	p, err := aem.DecodeName(res.Body)
	return p.Name.String(), res.Status, err
}

// SetStreamFormat sets the stream format on a STREAM_INPUT/OUTPUT descriptor.
func (c *Controller) SetStreamFormat(ctx context.Context, target avdecc.EntityID, descriptorType avdecc.DescriptorType, streamIndex avdecc.StreamIndex, format avdecc.StreamFormat) (aem.Status, error) {
	req := aem.StreamFormatPayload{DescriptorType: descriptorType, DescriptorIndex: streamIndex, StreamFormat: format}
	res, err := c.sendAEM(ctx, target, aem.SetStreamFormat, req.Encode())
	if err != nil {
		return 0, err
	}
	return res.Status, nil
}

// GetStreamFormat reads back the current stream format.
func (c *Controller) GetStreamFormat(ctx context.Context, target avdecc.EntityID, descriptorType avdecc.DescriptorType, streamIndex avdecc.StreamIndex) (avdecc.StreamFormat, aem.Status, error) {
	req := aem.StreamFormatPayload{DescriptorType: descriptorType, DescriptorIndex: streamIndex}
	res, err := c.sendAEM(ctx, target, aem.GetStreamFormat, req.Encode())
	if err != nil {
		return 0, 0, err
	}
	if res.Status != aem.StatusSuccess {
		return 0, res.Status, nil
	}
	p, err := aem.DecodeStreamFormat(res.Body, 12)
	return p.StreamFormat, res.Status, err
}

// StartStreaming/StopStreaming toggle streaming on a STREAM_OUTPUT (talker
// side) or STREAM_INPUT (listener side) descriptor.
func (c *Controller) StartStreaming(ctx context.Context, target avdecc.EntityID, descriptorType avdecc.DescriptorType, streamIndex avdecc.StreamIndex) (aem.Status, error) {
	req := aem.StreamingPayload{DescriptorType: descriptorType, DescriptorIndex: streamIndex}
	res, err := c.sendAEM(ctx, target, aem.StartStreaming, req.Encode())
	if err != nil {
		return 0, err
	}
	return res.Status, nil
}

func (c *Controller) StopStreaming(ctx context.Context, target avdecc.EntityID, descriptorType avdecc.DescriptorType, streamIndex avdecc.StreamIndex) (aem.Status, error) {
	req := aem.StreamingPayload{DescriptorType: descriptorType, DescriptorIndex: streamIndex}
	res, err := c.sendAEM(ctx, target, aem.StopStreaming, req.Encode())
	if err != nil {
		return 0, err
	}
	return res.Status, nil
}

// acmpTarget reports which entity one ACMP command addresses: the
// listener for the RX family, the talker for the TX/fan-out family
// (spec.md §3.4). Used by sendACMP to decide whether a command targets
// this same local entity and should be elided rather than transmitted.
func acmpTarget(messageType acmp.MessageType, req acmp.PDU) avdecc.EntityID {
	switch messageType {
	case acmp.ConnectRxCommand, acmp.DisconnectRxCommand, acmp.GetRxStateCommand:
		return req.ListenerEntityID
	case acmp.GetTxStateCommand, acmp.GetTxConnectionCommand:
		return req.TalkerEntityID
	default:
		return 0
	}
}

// sendACMP issues one ACMP command and blocks for its response. ACMP
// never retries on timeout (spec.md §4.4): a single expiry retires the
// command TimedOut. A command addressed to this same local entity is
// dispatched in-process to the local Talker/Listener role instead of
// being transmitted: the in-memory transport never loops a multicast
// frame back to its own sender (entity/transport/memory.go), and a real
// raw socket's self-reception is equally unreliable, so the round trip
// would otherwise never complete (spec.md §4.3).
func (c *Controller) sendACMP(ctx context.Context, messageType acmp.MessageType, req acmp.PDU) (acmp.PDU, acmp.Status, error) {
	req.ControllerEntityID = c.pi.cfg.EntityID

	if acmpTarget(messageType, req) == c.pi.cfg.EntityID {
		req.SequenceID = c.pi.nextSequenceID()
		resp, status, handled := c.pi.dispatchACMPCommand(messageType, req)
		if !handled {
			return acmp.PDU{}, acmp.StatusNotSupported, nil
		}
		return resp, status, nil
	}

	seq := c.pi.nextSequenceID()
	req.SequenceID = seq

	type outcome struct {
		pdu    acmp.PDU
		status acmp.Status
		err    error
	}
	ch := make(chan outcome, 1)

	completion := func(o inflight.Outcome, resp inflight.Response) {
		switch o {
		case inflight.OutcomeResponse:
			// resp.Payload is the 44-byte ACMP body; handleACMP already
			// stripped the AVTPDU common header before calling Resolve.
			pdu, err := acmp.Decode(wire.CommonHeader{}, resp.Payload)
			if err != nil {
				ch <- outcome{err: err}
				return
			}
			ch <- outcome{pdu: pdu, status: acmp.Status(resp.Status)}
		case inflight.OutcomeTimedOut:
			ch <- outcome{status: acmp.StatusTimedOut}
		case inflight.OutcomeAborted:
			ch <- outcome{status: acmp.StatusTimedOut}
		}
	}

	// ACMP responses are matched on (talker or listener entity id,
	// sequence_id) depending on direction; the controller always keys on
	// its own entity id as the inflight target since responses are
	// addressed back to the controller.
	if !c.pi.acmpInflight.Register(inflight.ProtocolACMP, c.pi.cfg.EntityID, seq, completion) {
		return acmp.PDU{}, 0, &avdecc.PayloadError{Kind: avdecc.PayloadUnsupportedValue}
	}

	h, frame := req.Encode(messageType, acmp.StatusSuccess)
	if err := c.pi.sendRaw(avdecc.MacAddress{}, h, frame); err != nil {
		return acmp.PDU{}, 0, err
	}

	select {
	case o := <-ch:
		return o.pdu, o.status, o.err
	case <-ctx.Done():
		return acmp.PDU{}, 0, ctx.Err()
	}
}

// ConnectRx asks listener to connect its listenerUniqueID stream input
// to talker's talkerUniqueID stream output (spec.md §3.4: controller
// drives connection establishment by talking to the listener first).
func (c *Controller) ConnectRx(ctx context.Context, talker, listener avdecc.EntityID, talkerUniqueID, listenerUniqueID uint16) (acmp.PDU, acmp.Status, error) {
	req := acmp.PDU{TalkerEntityID: talker, ListenerEntityID: listener, TalkerUniqueID: talkerUniqueID, ListenerUniqueID: listenerUniqueID}
	return c.sendACMP(ctx, acmp.ConnectRxCommand, req)
}

// DisconnectRx tears down a connection previously made with ConnectRx.
func (c *Controller) DisconnectRx(ctx context.Context, talker, listener avdecc.EntityID, talkerUniqueID, listenerUniqueID uint16) (acmp.PDU, acmp.Status, error) {
	req := acmp.PDU{TalkerEntityID: talker, ListenerEntityID: listener, TalkerUniqueID: talkerUniqueID, ListenerUniqueID: listenerUniqueID}
	return c.sendACMP(ctx, acmp.DisconnectRxCommand, req)
}

// GetRxState queries listener's current connection state for listenerUniqueID.
func (c *Controller) GetRxState(ctx context.Context, listener avdecc.EntityID, listenerUniqueID uint16) (acmp.PDU, acmp.Status, error) {
	req := acmp.PDU{ListenerEntityID: listener, ListenerUniqueID: listenerUniqueID}
	return c.sendACMP(ctx, acmp.GetRxStateCommand, req)
}

// GetTxState queries talker's current connection state for talkerUniqueID.
func (c *Controller) GetTxState(ctx context.Context, talker avdecc.EntityID, talkerUniqueID uint16) (acmp.PDU, acmp.Status, error) {
	req := acmp.PDU{TalkerEntityID: talker, TalkerUniqueID: talkerUniqueID}
	return c.sendACMP(ctx, acmp.GetTxStateCommand, req)
}

// GetTxConnection enumerates the Nth connection fanned out from one
// talker stream output, walking ConnectionCount upward until the
// talker returns StatusNoSuchConnection (spec.md §4.4 fan-out
// accounting, supplemented from original_source's
// controllerCapabilityDelegate.cpp GetTxConnection handling).
func (c *Controller) GetTxConnection(ctx context.Context, talker avdecc.EntityID, talkerUniqueID, connectionIndex uint16) (acmp.PDU, acmp.Status, error) {
	req := acmp.PDU{TalkerEntityID: talker, TalkerUniqueID: talkerUniqueID, ConnectionCount: connectionIndex}
	return c.sendACMP(ctx, acmp.GetTxConnectionCommand, req)
}
