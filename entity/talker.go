package entity

import (
	"github.com/avnu-align/avdecc-engine/avdecc/acmp"
)

// ConnectionHandler answers an inbound ACMP command the Talker role
// receives (spec.md §3.1's Talker role: accept/reject connection
// requests, report current state).
type ConnectionHandler func(req acmp.PDU) (resp acmp.PDU, status acmp.Status)

// Talker is the role that answers CONNECT_TX/DISCONNECT_TX/
// GET_TX_STATE/GET_TX_CONNECTION commands addressed to one of this
// entity's stream outputs.
type Talker struct {
	pi *ProtocolInterface

	onConnectTx    ConnectionHandler
	onDisconnectTx ConnectionHandler
	onGetTxState   ConnectionHandler
	onGetTxConnection ConnectionHandler
}

// NewTalker wraps pi with the Talker role's inbound-command hooks and
// registers handleCommand as one of pi's ACMP command handlers.
func NewTalker(pi *ProtocolInterface) *Talker {
	t := &Talker{pi: pi}
	pi.AddACMPCommandHandler(t.handleCommand)
	return t
}

// OnConnectTx registers the handler invoked for an inbound CONNECT_TX_COMMAND.
func (t *Talker) OnConnectTx(h ConnectionHandler) { t.onConnectTx = h }

// OnDisconnectTx registers the handler invoked for an inbound DISCONNECT_TX_COMMAND.
func (t *Talker) OnDisconnectTx(h ConnectionHandler) { t.onDisconnectTx = h }

// OnGetTxState registers the handler invoked for an inbound GET_TX_STATE_COMMAND.
func (t *Talker) OnGetTxState(h ConnectionHandler) { t.onGetTxState = h }

// OnGetTxConnection registers the handler invoked for an inbound
// GET_TX_CONNECTION_COMMAND (fan-out enumeration, spec.md §4.4).
func (t *Talker) OnGetTxConnection(h ConnectionHandler) { t.onGetTxConnection = h }

// handleCommand answers one inbound ACMP command addressed to this
// Talker's message types, returning handled == false for anything else
// so a Listener sharing the same ProtocolInterface gets a turn.
// Unregistered message types the Talker does own are answered with
// StatusNotSupported rather than silently dropped, so a controller
// probing capabilities gets a definitive answer. The caller (the
// facade's receive loop for a real inbound frame, or Controller.sendACMP
// in-process for a self-addressed command) owns actually transmitting
// or returning the response.
func (t *Talker) handleCommand(messageType acmp.MessageType, req acmp.PDU) (acmp.PDU, acmp.Status, bool) {
	var h ConnectionHandler
	switch messageType {
	case acmp.ConnectTxCommand:
		h = t.onConnectTx
	case acmp.DisconnectTxCommand:
		h = t.onDisconnectTx
	case acmp.GetTxStateCommand:
		h = t.onGetTxState
	case acmp.GetTxConnectionCommand:
		h = t.onGetTxConnection
	default:
		return acmp.PDU{}, 0, false
	}

	if h != nil {
		resp, status := h(req)
		return resp, status, true
	}
	return req, acmp.StatusNotSupported, true
}
