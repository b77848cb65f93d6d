// Package dispatch implements C5: routing a decoded AECP frame to the
// right handler, enforcing the command_type-echo protocol-violation
// guard, and separating solicited responses (which retire an inflight
// entry) from unsolicited notifications (which fan out to observers).
// See spec.md §3.6, §4.5.
package dispatch

import (
	"github.com/avnu-align/avdecc-engine/avdecc"
	"github.com/avnu-align/avdecc-engine/avdecc/aecp"
	"github.com/avnu-align/avdecc-engine/avdecc/aecp/aem"
	"github.com/avnu-align/avdecc-engine/avdecc/inflight"
)

// AemHandler processes one decoded AEM command or response. body
// follows the 2-octet u/command_type header already stripped by
// aem.DecodeHeader.
type AemHandler func(common aecp.Common, header aem.Header, body []byte)

// Table dispatches AEM traffic by command_type, separating solicited
// responses (handed to the inflight Registry) from unsolicited
// notifications (handed to a per-command-type observer, if any).
type Table struct {
	registry   *inflight.Registry
	handlers   map[aem.CommandType]AemHandler
	unhandled  AemHandler                          // called for unsolicited notifications with no registered handler
	unexpected func(entityID avdecc.EntityID) // called for a solicited-looking response with no matching inflight entry
}

// New builds a dispatch Table bound to registry for resolving
// solicited responses.
func New(registry *inflight.Registry) *Table {
	return &Table{registry: registry, handlers: make(map[aem.CommandType]AemHandler)}
}

// OnUnsolicited registers the handler invoked for an unsolicited
// notification of commandType. Overwrites any previous registration.
func (t *Table) OnUnsolicited(commandType aem.CommandType, h AemHandler) {
	t.handlers[commandType] = h
}

// OnUnhandled registers the fallback invoked for an unsolicited
// notification whose command_type has no specific handler (spec.md
// §4.5: aggregation/ordering across Controller, Listener, Talker).
func (t *Table) OnUnhandled(h AemHandler) { t.unhandled = h }

// OnUnexpectedResponse registers the callback invoked when a solicited
// response arrives with no matching inflight entry (spec.md §4.3:
// every non-matching response is surfaced to C7 as UnexpectedResponse).
func (t *Table) OnUnexpectedResponse(h func(entityID avdecc.EntityID)) { t.unexpected = h }

// Dispatch routes one decoded AEM frame. sentCommandType is the
// command_type the local entity sent under this sequence_id, used to
// detect a mismatched response (spec.md §4.5: "command_type mismatch
// -> BaseProtocolViolation"); callers pass aem.CommandType(0xFFFF)-like
// sentinel (use HasSentCommandType=false) when the frame is itself the
// inbound notification/command and there is nothing to match against.
func (t *Table) Dispatch(common aecp.Common, header aem.Header, body []byte, sentCommandType aem.CommandType, hasSentCommandType bool) error {
	if common.MessageType.IsResponse() && !header.Unsolicited && hasSentCommandType {
		if header.CommandType != sentCommandType {
			// Retire the inflight entry immediately with the violation
			// status rather than leaving it to age out on the ordinary
			// AECP timeout: spec.md §4.5/§8 scenario 3 require the caller
			// to observe BaseProtocolViolation, not TimedOut, and the
			// exactly-once completion invariant still applies here.
			t.registry.Resolve(common.TargetEntityID, common.SequenceID, inflight.Response{Status: uint8(aem.StatusBaseProtocolViolation), Payload: body})
			return &avdecc.PayloadError{Kind: avdecc.PayloadUnsupportedValue, Status: uint8(aem.StatusBaseProtocolViolation)}
		}
	}

	if !header.Unsolicited && common.MessageType.IsResponse() {
		resolved := t.registry.Resolve(common.TargetEntityID, common.SequenceID, inflight.Response{Status: common.Status, Payload: body})
		if !resolved {
			// A solicited-looking response with no matching inflight entry
			// is not a protocol violation by itself, but spec.md §4.3 still
			// wants it surfaced to C7 as an unexpected response.
			if t.unexpected != nil {
				t.unexpected(common.TargetEntityID)
			}
			return nil
		}
		return nil
	}

	h, ok := t.handlers[header.CommandType]
	if !ok {
		h = t.unhandled
	}
	if h != nil {
		h(common, header, body)
	} else if !header.Unsolicited {
		// An unrecognized solicited command with nothing registered to
		// answer it: spec.md §4.5 treats this as an internal error, not a
		// silently dropped frame.
		return &avdecc.PayloadError{Kind: avdecc.PayloadUnknownCommandType, Status: uint8(aem.StatusInternalError)}
	}
	return nil
}
