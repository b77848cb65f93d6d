// Package aecp implements the AECP common header (C1) and dispatches
// to the AEM/AA/MVU payload codecs (C2). See spec.md §3.2, §4.2, §6.2.
package aecp

import (
	"github.com/avnu-align/avdecc-engine/avdecc"
	"github.com/avnu-align/avdecc-engine/avdecc/wire"
)

// MessageType is the AECP control_data field (IEEE 1722.1-2021 clause
// 9.2.1.1.5, table 9.2).
type MessageType uint8

const (
	MessageAemCommand              MessageType = 0
	MessageAemResponse              MessageType = 1
	MessageAddressAccessCommand     MessageType = 2
	MessageAddressAccessResponse    MessageType = 3
	MessageAvcCommand               MessageType = 4
	MessageAvcResponse              MessageType = 5
	MessageVendorUniqueCommand      MessageType = 6
	MessageVendorUniqueResponse     MessageType = 7
	MessageHdcpAPMCommand           MessageType = 8
	MessageHdcpAPMResponse          MessageType = 9
	MessageExtendedCommand          MessageType = 14
	MessageExtendedResponse         MessageType = 15
)

func (m MessageType) IsResponse() bool { return m&0x01 == 1 }

func (m MessageType) String() string {
	switch m {
	case MessageAemCommand:
		return "AEM_COMMAND"
	case MessageAemResponse:
		return "AEM_RESPONSE"
	case MessageAddressAccessCommand:
		return "ADDRESS_ACCESS_COMMAND"
	case MessageAddressAccessResponse:
		return "ADDRESS_ACCESS_RESPONSE"
	case MessageVendorUniqueCommand:
		return "VENDOR_UNIQUE_COMMAND"
	case MessageVendorUniqueResponse:
		return "VENDOR_UNIQUE_RESPONSE"
	default:
		return "AECP<unknown>"
	}
}

// CommonSize is the AECP-specific header following the AVTPDU common
// header: target_entity_id(8) + controller_entity_id(8) + sequence_id(2).
const CommonSize = 18

// Common is the AECP header shared by AEM, AA and MVU sub-protocols.
type Common struct {
	MessageType      MessageType
	Status           uint8 // device-reported status (0..0x1F); see spec.md §6.3
	TargetEntityID   avdecc.EntityID
	ControllerEntityID avdecc.EntityID
	SequenceID       avdecc.SequenceID
}

// Kind names which C2 sub-codec should parse the command-specific
// bytes following Common.
type Kind uint8

const (
	KindAEM Kind = iota
	KindAA
	KindMVU
)

// KindOf classifies the AECP message's sub-protocol. Vendor-unique
// messages are further discriminated by the 6-byte protocol identifier
// at the front of the payload (spec.md §4.2, MVU protocol identifier).
func (c Common) KindOf(isMilanVU bool) Kind {
	switch c.MessageType {
	case MessageAddressAccessCommand, MessageAddressAccessResponse:
		return KindAA
	case MessageVendorUniqueCommand, MessageVendorUniqueResponse:
		if isMilanVU {
			return KindMVU
		}
	}
	return KindAEM
}

// DecodeCommon parses the 18-octet AECP common header from body (the
// bytes after the AVTPDU common header) and returns the header plus
// the remaining command-specific bytes.
func DecodeCommon(h wire.CommonHeader, body []byte) (Common, []byte, error) {
	if len(body) < CommonSize {
		return Common{}, nil, &avdecc.WireError{Kind: avdecc.WireTooShort}
	}
	c := Common{
		MessageType:        MessageType(h.ControlData),
		Status:             h.Status,
		TargetEntityID:     avdecc.EntityID(avdecc.Uint64(body[0:8])),
		ControllerEntityID: avdecc.EntityID(avdecc.Uint64(body[8:16])),
		SequenceID:         avdecc.SequenceID(uint16(body[16])<<8 | uint16(body[17])),
	}
	return c, body[CommonSize:], nil
}

// Encode serializes the common header and the already-serialized
// command-specific payload into a full AECP frame (after the AVTPDU
// common header; the caller wraps it with wire.CommonHeader.Encode).
func (c Common) Encode(payload []byte) (wire.CommonHeader, []byte) {
	buf := make([]byte, CommonSize+len(payload))
	avdecc.PutUint64(buf[0:8], uint64(c.TargetEntityID))
	avdecc.PutUint64(buf[8:16], uint64(c.ControllerEntityID))
	buf[16] = byte(c.SequenceID >> 8)
	buf[17] = byte(c.SequenceID)
	copy(buf[CommonSize:], payload)

	h := wire.CommonHeader{
		Subtype:     wire.SubtypeAECP,
		ControlData: uint8(c.MessageType),
		Status:      c.Status,
		StreamID:    uint64(c.TargetEntityID),
	}
	return h, buf
}
