package aem

import "github.com/avnu-align/avdecc-engine/avdecc"

// HeaderSize is the u+command_type bitfield preceding every AEM
// command/response body (spec.md §6.2: "u(1)=unsolicited |
// command_type(15)").
const HeaderSize = 2

// Header is the small fixed prefix every AEM payload carries before
// its command-specific bytes.
type Header struct {
	Unsolicited bool
	CommandType CommandType
}

// DecodeHeader parses the 2-octet AEM header from the front of body.
func DecodeHeader(body []byte) (Header, []byte, error) {
	if len(body) < HeaderSize {
		return Header{}, nil, &avdecc.WireError{Kind: avdecc.WireTooShort}
	}
	v := uint16(body[0])<<8 | uint16(body[1])
	h := Header{
		Unsolicited: v&0x8000 != 0,
		CommandType: CommandType(v & 0x7FFF),
	}
	return h, body[HeaderSize:], nil
}

// Encode serializes the header and appends payload.
func (h Header) Encode(payload []byte) []byte {
	buf := make([]byte, HeaderSize+len(payload))
	v := uint16(h.CommandType) & 0x7FFF
	if h.Unsolicited {
		v |= 0x8000
	}
	buf[0] = byte(v >> 8)
	buf[1] = byte(v)
	copy(buf[HeaderSize:], payload)
	return buf
}
