// Package wire implements C1: bit-exact serialization and
// deserialization of the Ethernet L2 header and the AVTPDU control
// common header shared by ADP, AECP and ACMP. See spec.md §4.1 and §6.2.
package wire

import (
	"github.com/avnu-align/avdecc-engine/avdecc"
)

// EtherTypeAVTP is the EtherType carried by every AVTP/AVDECC frame.
const EtherTypeAVTP uint16 = 0x22F0

// EthernetHeaderSize is the fixed 14-octet L2 header length.
const EthernetHeaderSize = 14

// MinEthernetPayload is the minimum Ethernet payload length; frames
// shorter than this are padded on egress and the padding is ignored on
// ingress.
const MinEthernetPayload = 46

// EthernetHeader is the 6+6+2 octet L2 header common to every AVDECC
// frame.
type EthernetHeader struct {
	Destination avdecc.MacAddress
	Source      avdecc.MacAddress
	EtherType   uint16
}

// DecodeEthernetHeader parses the leading 14 octets of b.
func DecodeEthernetHeader(b []byte) (EthernetHeader, []byte, error) {
	if len(b) < EthernetHeaderSize {
		return EthernetHeader{}, nil, &avdecc.WireError{Kind: avdecc.WireTooShort}
	}
	h := EthernetHeader{
		Destination: avdecc.ParseMacAddress(b[0:6]),
		Source:      avdecc.ParseMacAddress(b[6:12]),
		EtherType:   uint16(b[12])<<8 | uint16(b[13]),
	}
	if h.EtherType != EtherTypeAVTP {
		return EthernetHeader{}, nil, &avdecc.WireError{Kind: avdecc.WireUnknownEtherType, Value: uint32(h.EtherType)}
	}
	return h, b[EthernetHeaderSize:], nil
}

// Encode writes the 14-octet header into dst, which must be at least
// EthernetHeaderSize long.
func (h EthernetHeader) Encode(dst []byte) {
	copy(dst[0:6], h.Destination[:])
	copy(dst[6:12], h.Source[:])
	dst[12] = byte(h.EtherType >> 8)
	dst[13] = byte(h.EtherType)
}

// PadToMinimum appends zero bytes to payload so the total Ethernet
// payload (everything after the 14-octet header) reaches
// MinEthernetPayload.
func PadToMinimum(payload []byte) []byte {
	if len(payload) >= MinEthernetPayload {
		return payload
	}
	pad := make([]byte, MinEthernetPayload-len(payload))
	return append(payload, pad...)
}
