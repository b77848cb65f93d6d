package entity

import (
	"github.com/avnu-align/avdecc-engine/avdecc/acmp"
)

// Listener is the role that answers CONNECT_RX/DISCONNECT_RX/
// GET_RX_STATE commands addressed to one of this entity's stream
// inputs (spec.md §3.1's Listener role).
type Listener struct {
	pi *ProtocolInterface

	onConnectRx    ConnectionHandler
	onDisconnectRx ConnectionHandler
	onGetRxState   ConnectionHandler
}

// NewListener wraps pi with the Listener role's inbound-command hooks
// and registers handleCommand as one of pi's ACMP command handlers.
func NewListener(pi *ProtocolInterface) *Listener {
	l := &Listener{pi: pi}
	pi.AddACMPCommandHandler(l.handleCommand)
	return l
}

// OnConnectRx registers the handler invoked for an inbound CONNECT_RX_COMMAND.
// A listener accepting the connection issues its own CONNECT_TX_COMMAND to
// the talker before answering (spec.md §4.4); that round trip is the
// caller's responsibility, not this hook's.
func (l *Listener) OnConnectRx(h ConnectionHandler) { l.onConnectRx = h }

// OnDisconnectRx registers the handler invoked for an inbound DISCONNECT_RX_COMMAND.
func (l *Listener) OnDisconnectRx(h ConnectionHandler) { l.onDisconnectRx = h }

// OnGetRxState registers the handler invoked for an inbound GET_RX_STATE_COMMAND.
func (l *Listener) OnGetRxState(h ConnectionHandler) { l.onGetRxState = h }

// handleCommand answers one inbound ACMP command addressed to this
// Listener's message types, returning handled == false for message
// types outside CONNECT_RX/DISCONNECT_RX/GET_RX_STATE so a Talker
// sharing one ProtocolInterface doesn't get skipped. The caller (the
// facade's receive loop for a real inbound frame, or Controller.sendACMP
// in-process for a self-addressed command) owns actually transmitting
// or returning the response.
func (l *Listener) handleCommand(messageType acmp.MessageType, req acmp.PDU) (acmp.PDU, acmp.Status, bool) {
	var h ConnectionHandler
	switch messageType {
	case acmp.ConnectRxCommand:
		h = l.onConnectRx
	case acmp.DisconnectRxCommand:
		h = l.onDisconnectRx
	case acmp.GetRxStateCommand:
		h = l.onGetRxState
	default:
		return acmp.PDU{}, 0, false
	}

	if h != nil {
		resp, status := h(req)
		return resp, status, true
	}
	return req, acmp.StatusNotSupported, true
}
