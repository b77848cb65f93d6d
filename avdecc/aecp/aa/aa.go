// Package aa implements the AECP Address Access (AA) sub-protocol: a
// small TLV list of READ/WRITE/EXECUTE operations against an entity's
// 64-bit addressed memory space. See spec.md §3.3 (address access),
// §4.3, §6.2.
package aa

import (
	"strconv"

	"github.com/avnu-align/avdecc-engine/avdecc"
)

// Mode is the per-TLV address access mode (IEEE 1722.1-2021 table 9.9).
type Mode uint8

const (
	ModeRead Mode = iota
	ModeWrite
	ModeExecute
)

func (m Mode) String() string {
	switch m {
	case ModeRead:
		return "READ"
	case ModeWrite:
		return "WRITE"
	case ModeExecute:
		return "EXECUTE"
	default:
		return "AA_MODE<" + strconv.Itoa(int(m)) + ">"
	}
}

// TLV is one address-access entry: an address, a mode, and either the
// bytes being written/executed (command) or the bytes read back
// (response).
type TLV struct {
	Mode    Mode
	Address uint64
	Value   []byte
}

// tlvPrefixSize is the per-TLV mode(1, top 3 bits of a 2-octet field) +
// length(2, bottom 13 bits) + address(8) prefix.
const tlvPrefixSize = 10

// Decode parses every TLV packed into body, returning them in order.
// A command and its response carry the same TLV list shape; Mode
// differs only in interpretation (spec.md §4.3).
func Decode(body []byte) ([]TLV, error) {
	var out []TLV
	for len(body) > 0 {
		if len(body) < tlvPrefixSize {
			return nil, &avdecc.PayloadError{Kind: avdecc.PayloadIncorrectSize}
		}
		modeLength := uint16(body[0])<<8 | uint16(body[1])
		mode := Mode(modeLength >> 13)
		length := int(modeLength & 0x1FFF)
		address := avdecc.Uint64(body[2:10])
		if len(body) < tlvPrefixSize+length {
			return nil, &avdecc.PayloadError{Kind: avdecc.PayloadIncorrectSize}
		}
		value := make([]byte, length)
		copy(value, body[tlvPrefixSize:tlvPrefixSize+length])
		out = append(out, TLV{Mode: mode, Address: address, Value: value})
		body = body[tlvPrefixSize+length:]
	}
	return out, nil
}

// Encode serializes tlvs back-to-back in wire order.
func Encode(tlvs []TLV) []byte {
	size := 0
	for _, t := range tlvs {
		size += tlvPrefixSize + len(t.Value)
	}
	buf := make([]byte, size)
	offset := 0
	for _, t := range tlvs {
		modeLength := uint16(t.Mode)<<13 | uint16(len(t.Value)&0x1FFF)
		buf[offset] = byte(modeLength >> 8)
		buf[offset+1] = byte(modeLength)
		avdecc.PutUint64(buf[offset+2:offset+10], t.Address)
		copy(buf[offset+10:offset+10+len(t.Value)], t.Value)
		offset += tlvPrefixSize + len(t.Value)
	}
	return buf
}
