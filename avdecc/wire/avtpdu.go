package wire

import "github.com/avnu-align/avdecc-engine/avdecc"

// Subtype distinguishes ADP/AECP/ACMP (and anything else riding on the
// AVTPDU control header). See spec.md §6.2.
type Subtype uint8

const (
	SubtypeADP  Subtype = 0x7A
	SubtypeAECP Subtype = 0x7B
	SubtypeACMP Subtype = 0x7C
)

func (s Subtype) String() string {
	switch s {
	case SubtypeADP:
		return "ADP"
	case SubtypeAECP:
		return "AECP"
	case SubtypeACMP:
		return "ACMP"
	default:
		return "SUBTYPE<unknown>"
	}
}

// CommonHeaderSize is the fixed 12-octet AVTPDU control common header.
const CommonHeaderSize = 12

// protocolVersion is the only version this codec understands.
const protocolVersion = 0

// CommonHeader is the 12-octet header shared by ADP, AECP and ACMP,
// before subtype-specific reinterpretation of control_data/status/
// stream_id. See spec.md §6.2.
type CommonHeader struct {
	Subtype           Subtype
	StreamValid       bool   // bit 8; header-specific meaning per subtype
	ControlData       uint8  // bits 12-15, reinterpreted per subtype (message type)
	Status            uint8  // bits 16-20
	ControlDataLength uint16 // bits 21-31: payload octets following the stream_id field
	StreamID          uint64 // bytes 4-11: entity_id for ADP/AECP, opaque for ACMP
}

// Decode parses the 12-octet common header from the front of b and
// returns the header, the bytes remaining after it (exactly
// ControlDataLength long, truncation already validated) and any error.
func Decode(b []byte) (CommonHeader, []byte, error) {
	if len(b) < CommonHeaderSize {
		return CommonHeader{}, nil, &avdecc.WireError{Kind: avdecc.WireTooShort}
	}

	cd := b[0] & 0x01
	if cd != 1 {
		return CommonHeader{}, nil, &avdecc.WireError{Kind: avdecc.WireTooShort}
	}
	subtype := Subtype(b[0] >> 1)
	if subtype != SubtypeADP && subtype != SubtypeAECP && subtype != SubtypeACMP {
		return CommonHeader{}, nil, &avdecc.WireError{Kind: avdecc.WireUnknownSubtype, Value: uint32(subtype)}
	}

	streamValid := b[1]&0x80 != 0
	version := (b[1] >> 4) & 0x07
	if version != protocolVersion {
		return CommonHeader{}, nil, &avdecc.WireError{Kind: avdecc.WireUnknownVersion, Value: uint32(version)}
	}
	controlData := b[1] & 0x0F

	status := b[2] >> 3
	controlDataLength := (uint16(b[2]&0x07) << 8) | uint16(b[3])

	streamID := avdecc.Uint64(b[4:12])

	rest := b[CommonHeaderSize:]
	if int(controlDataLength) > len(rest) {
		return CommonHeader{}, nil, &avdecc.WireError{Kind: avdecc.WireTruncated}
	}

	h := CommonHeader{
		Subtype:           subtype,
		StreamValid:       streamValid,
		ControlData:       controlData,
		Status:            status,
		ControlDataLength: controlDataLength,
		StreamID:          streamID,
	}
	return h, rest[:controlDataLength], nil
}

// Encode returns a newly allocated buffer holding the 12-octet common
// header (ControlDataLength set to len(payload)) followed by payload.
// It does not pad; PadToMinimum does that.
func (h CommonHeader) Encode(payload []byte) []byte {
	buf := make([]byte, 0, CommonHeaderSize+len(payload))
	return h.EncodeInto(&buf, payload)
}

// EncodeInto behaves like Encode but appends into *dst (growing it if
// needed) instead of always allocating — the path entity.sendRaw uses
// with a pooled scratch buffer (see internal/bufpool) so the transmit
// loop does not allocate on every command, retry, or notification.
func (h CommonHeader) EncodeInto(dst *[]byte, payload []byte) []byte {
	h.ControlDataLength = uint16(len(payload))

	buf := append((*dst)[:0], make([]byte, CommonHeaderSize)...)
	buf[0] = 0x01 | byte(h.Subtype)<<1
	buf[1] = (protocolVersion << 4) | (h.ControlData & 0x0F)
	if h.StreamValid {
		buf[1] |= 0x80
	}
	buf[2] = (h.Status << 3) | byte(h.ControlDataLength>>8)&0x07
	buf[3] = byte(h.ControlDataLength)
	avdecc.PutUint64(buf[4:12], h.StreamID)
	buf = append(buf, payload...)
	*dst = buf
	return buf
}
