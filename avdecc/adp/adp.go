// Package adp implements C1's ADP variant and C4, the discovery
// tracker that consumes it. See spec.md §3.2, §4.4 and IEEE
// 1722.1-2021 clause 6.2.1.
package adp

import (
	"github.com/avnu-align/avdecc-engine/avdecc"
	"github.com/avnu-align/avdecc-engine/avdecc/wire"
)

// MessageType is the ADP control_data field.
type MessageType uint8

const (
	MessageAvailable MessageType = 0x00
	MessageDeparting MessageType = 0x01
	MessageDiscover  MessageType = 0x02
)

func (m MessageType) String() string {
	switch m {
	case MessageAvailable:
		return "ENTITY_AVAILABLE"
	case MessageDeparting:
		return "ENTITY_DEPARTING"
	case MessageDiscover:
		return "ENTITY_DISCOVER"
	default:
		return "ADP<unknown>"
	}
}

// BodySize is the fixed ADP-specific payload length following the
// 12-octet AVTPDU common header (IEEE 1722.1-2021 clause 6.2.1.7).
const BodySize = 56

// EntityCapabilities, TalkerCapabilities, ListenerCapabilities and
// ControllerCapabilities are bitmask flag fields; only the bits this
// engine inspects (rather than merely transports) are named.
type EntityCapabilities uint32

const (
	EntityCapAemSupported        EntityCapabilities = 1 << 0
	EntityCapClassASupported     EntityCapabilities = 1 << 2
	EntityCapClassBSupported     EntityCapabilities = 1 << 3
	EntityCapGptpSupported       EntityCapabilities = 1 << 4
	EntityCapAemAuthSupported    EntityCapabilities = 1 << 6
	EntityCapAssociationIDValid  EntityCapabilities = 1 << 9
	EntityCapVendorUniqueSupport EntityCapabilities = 1 << 10
)

type TalkerCapabilities uint16

const (
	TalkerCapImplemented  TalkerCapabilities = 1 << 0
	TalkerCapAudioSource  TalkerCapabilities = 1 << 9
	TalkerCapVideoSource  TalkerCapabilities = 1 << 10
	TalkerCapMediaClock   TalkerCapabilities = 1 << 12
)

type ListenerCapabilities uint16

const (
	ListenerCapImplemented ListenerCapabilities = 1 << 0
	ListenerCapAudioSink   ListenerCapabilities = 1 << 9
	ListenerCapVideoSink   ListenerCapabilities = 1 << 10
	ListenerCapMediaClock  ListenerCapabilities = 1 << 12
)

type ControllerCapabilities uint32

const ControllerCapImplemented ControllerCapabilities = 1 << 0

// PDU is a decoded ADP datagram (spec.md §3.2).
type PDU struct {
	MessageType            MessageType
	ValidTime               uint8 // validity period in whole seconds (see ValiditySeconds)
	EntityID                avdecc.EntityID
	EntityModelID           avdecc.EntityModelID
	EntityCapabilities      EntityCapabilities
	TalkerStreamSources     uint16
	TalkerCapabilities      TalkerCapabilities
	ListenerStreamSinks     uint16
	ListenerCapabilities    ListenerCapabilities
	ControllerCapabilities  ControllerCapabilities
	AvailableIndex          uint32
	GptpGrandmasterID       avdecc.EntityID
	GptpDomainNumber        uint8
	IdentifyControlIndex    uint16
	InterfaceIndex          uint16
	AssociationID           avdecc.AssociationID
}

// ValiditySeconds returns the advertised validity period in seconds
// (the wire field is validTime/2 per clause 6.2.1.6... historically
// many stacks, including the reference implementation, transport it
// directly in seconds; this engine follows spec.md's "validity period
// (seconds)" wording and treats ValidTime as whole seconds).
func (p PDU) ValiditySeconds() uint8 { return p.ValidTime }

// Decode parses an ADP body (the bytes following the AVTPDU common
// header) together with the header's message-type/status/stream_id
// fields already extracted by wire.Decode.
func Decode(h wire.CommonHeader, body []byte) (PDU, error) {
	if len(body) < BodySize {
		return PDU{}, &avdecc.WireError{Kind: avdecc.WireTooShort}
	}

	p := PDU{
		MessageType:            MessageType(h.ControlData),
		ValidTime:              h.Status,
		EntityID:               avdecc.EntityID(h.StreamID),
		EntityModelID:          avdecc.EntityModelID(avdecc.Uint64(body[0:8])),
		EntityCapabilities:     EntityCapabilities(be32(body[8:12])),
		TalkerStreamSources:    be16(body[12:14]),
		TalkerCapabilities:     TalkerCapabilities(be16(body[14:16])),
		ListenerStreamSinks:    be16(body[16:18]),
		ListenerCapabilities:   ListenerCapabilities(be16(body[18:20])),
		ControllerCapabilities: ControllerCapabilities(be32(body[20:24])),
		AvailableIndex:         be32(body[24:28]),
		GptpGrandmasterID:      avdecc.EntityID(avdecc.Uint64(body[28:36])),
		GptpDomainNumber:       body[36],
		// body[37:40] reserved
		IdentifyControlIndex: be16(body[40:42]),
		InterfaceIndex:       be16(body[42:44]),
		AssociationID:        avdecc.AssociationID(avdecc.Uint64(body[44:52])),
		// body[52:56] reserved
	}
	return p, nil
}

// Encode serializes p into a 68-octet frame (12-octet common header +
// 56-octet body), padded by the caller's transport to the Ethernet
// minimum if needed.
func (p PDU) Encode() []byte {
	body := make([]byte, BodySize)
	avdecc.PutUint64(body[0:8], uint64(p.EntityModelID))
	putBE32(body[8:12], uint32(p.EntityCapabilities))
	putBE16(body[12:14], p.TalkerStreamSources)
	putBE16(body[14:16], uint16(p.TalkerCapabilities))
	putBE16(body[16:18], p.ListenerStreamSinks)
	putBE16(body[18:20], uint16(p.ListenerCapabilities))
	putBE32(body[20:24], uint32(p.ControllerCapabilities))
	putBE32(body[24:28], p.AvailableIndex)
	avdecc.PutUint64(body[28:36], uint64(p.GptpGrandmasterID))
	body[36] = p.GptpDomainNumber
	putBE16(body[40:42], p.IdentifyControlIndex)
	putBE16(body[42:44], p.InterfaceIndex)
	avdecc.PutUint64(body[44:52], uint64(p.AssociationID))

	h := wire.CommonHeader{
		Subtype:     wire.SubtypeADP,
		ControlData: uint8(p.MessageType),
		Status:      p.ValidTime,
		StreamID:    uint64(p.EntityID),
	}
	return h.Encode(body)
}

func be16(b []byte) uint16 { return uint16(b[0])<<8 | uint16(b[1]) }
func be32(b []byte) uint32 {
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
}
func putBE16(dst []byte, v uint16) { dst[0] = byte(v >> 8); dst[1] = byte(v) }
func putBE32(dst []byte, v uint32) {
	dst[0] = byte(v >> 24)
	dst[1] = byte(v >> 16)
	dst[2] = byte(v >> 8)
	dst[3] = byte(v)
}
