// Package mvu implements the Milan Vendor-Unique (MVU) AECP
// sub-protocol: a vendor-unique payload carrying the fixed 6-octet
// Milan protocol identifier followed by a command-specific body. See
// spec.md §3.3, §4.3, §6.2 and the AVnu Milan specification clause 5.4.
package mvu

import (
	"bytes"
	"strconv"

	"github.com/avnu-align/avdecc-engine/avdecc"
)

// ProtocolID is the fixed 6-octet vendor-unique protocol identifier
// that marks a VENDOR_UNIQUE AECP payload as carrying an MVU command
// rather than some other vendor's extension (spec.md §4.3).
var ProtocolID = [6]byte{0x00, 0x1B, 0xC5, 0x0A, 0xC1, 0x00}

// HeaderSize is the protocol_id(6) + command_type(2) prefix.
const HeaderSize = 8

// CommandType is the MVU command_type field.
type CommandType uint16

const (
	GetMilanInfo CommandType = iota
	SetSystemUniqueID
	GetSystemUniqueID
	SetMediaClockReferenceInfo
	GetMediaClockReferenceInfo
	BindStream
	UnbindStream
	GetStreamInputInfoEx
)

var commandTypeNames = [...]string{
	"GET_MILAN_INFO", "SET_SYSTEM_UNIQUE_ID", "GET_SYSTEM_UNIQUE_ID",
	"SET_MEDIA_CLOCK_REFERENCE_INFO", "GET_MEDIA_CLOCK_REFERENCE_INFO",
	"BIND_STREAM", "UNBIND_STREAM", "GET_STREAM_INPUT_INFO_EX",
}

func (c CommandType) String() string {
	if int(c) < len(commandTypeNames) {
		return commandTypeNames[c]
	}
	return "MVU_CMD<" + strconv.Itoa(int(c)) + ">"
}

// Header is the fixed prefix of every MVU command/response.
type Header struct {
	CommandType CommandType
}

// IsMilanProtocolID reports whether the leading 6 bytes of a
// VENDOR_UNIQUE payload match the Milan MVU protocol identifier, the
// discriminator AECP's Common.KindOf uses to route to this package
// instead of treating the message as an opaque vendor extension
// (spec.md §4.3, avdecc/aecp/common.go KindOf).
func IsMilanProtocolID(payload []byte) bool {
	return len(payload) >= 6 && bytes.Equal(payload[0:6], ProtocolID[:])
}

// DecodeHeader parses the protocol_id + command_type prefix, verifying
// the protocol identifier matches Milan's.
func DecodeHeader(body []byte) (Header, []byte, error) {
	if len(body) < HeaderSize {
		return Header{}, nil, &avdecc.WireError{Kind: avdecc.WireTooShort}
	}
	if !bytes.Equal(body[0:6], ProtocolID[:]) {
		return Header{}, nil, &avdecc.PayloadError{Kind: avdecc.PayloadUnknownVendorUnique}
	}
	h := Header{CommandType: CommandType(uint16(body[6])<<8 | uint16(body[7]))}
	return h, body[HeaderSize:], nil
}

func (h Header) Encode(payload []byte) []byte {
	buf := make([]byte, HeaderSize+len(payload))
	copy(buf[0:6], ProtocolID[:])
	buf[6] = byte(h.CommandType >> 8)
	buf[7] = byte(h.CommandType)
	copy(buf[HeaderSize:], payload)
	return buf
}

// ProtocolVersion distinguishes the Milan 1.2 and 1.3 GET_MILAN_INFO
// response shapes (spec.md §6.2: 14-byte Milan 1.2 response vs 18-byte
// Milan 1.3 response, the extra 4 bytes carrying certification version).
type ProtocolVersion uint8

const (
	Milan12 ProtocolVersion = iota
	Milan13
)

// MilanInfoResponse is the GET_MILAN_INFO response body.
type MilanInfoResponse struct {
	ProtocolVersion       uint32
	FeaturesFlags         uint32
	CertificationVersion  uint32 // Milan 1.3 only; zero under Milan 1.2
}

// DecodeMilanInfoResponse decodes either the 14- or 18-byte response
// shape depending on the caller's negotiated protocol version.
func DecodeMilanInfoResponse(body []byte, version ProtocolVersion) (MilanInfoResponse, error) {
	minSize := 8
	if version == Milan13 {
		minSize = 12
	}
	if len(body) < minSize {
		return MilanInfoResponse{}, &avdecc.PayloadError{Kind: avdecc.PayloadIncorrectSize}
	}
	r := MilanInfoResponse{
		ProtocolVersion: be32(body[0:4]),
		FeaturesFlags:   be32(body[4:8]),
	}
	if version == Milan13 {
		r.CertificationVersion = be32(body[8:12])
	}
	return r, nil
}

func (r MilanInfoResponse) Encode(version ProtocolVersion) []byte {
	size := 8
	if version == Milan13 {
		size = 12
	}
	b := make([]byte, size)
	putBE32(b[0:4], r.ProtocolVersion)
	putBE32(b[4:8], r.FeaturesFlags)
	if version == Milan13 {
		putBE32(b[8:12], r.CertificationVersion)
	}
	return b
}

// SystemUniqueIDPayload is the SET/GET_SYSTEM_UNIQUE_ID command/response body.
type SystemUniqueIDPayload struct {
	SystemUniqueID uint32
}

func (p SystemUniqueIDPayload) Encode() []byte {
	b := make([]byte, 4)
	putBE32(b, p.SystemUniqueID)
	return b
}

func DecodeSystemUniqueID(body []byte) (SystemUniqueIDPayload, error) {
	if len(body) < 4 {
		return SystemUniqueIDPayload{}, &avdecc.PayloadError{Kind: avdecc.PayloadIncorrectSize}
	}
	return SystemUniqueIDPayload{SystemUniqueID: be32(body[0:4])}, nil
}

// MediaClockReferenceInfoPayload is the SET/GET_MEDIA_CLOCK_REFERENCE_INFO
// command/response body.
type MediaClockReferenceInfoPayload struct {
	ClockDomainIndex        avdecc.ClockDomainIndex
	DefaultMediaClockReferencePriority uint8
	UserMediaClockReferencePriority    uint8
	MediaClockReferenceName            avdecc.AvdeccFixedString
}

func (p MediaClockReferenceInfoPayload) Encode() []byte {
	b := make([]byte, 68)
	putBE16(b[0:2], uint16(p.ClockDomainIndex))
	b[2] = p.DefaultMediaClockReferencePriority
	b[3] = p.UserMediaClockReferencePriority
	copy(b[4:68], p.MediaClockReferenceName[:])
	return b
}

func DecodeMediaClockReferenceInfo(body []byte) (MediaClockReferenceInfoPayload, error) {
	if len(body) < 68 {
		return MediaClockReferenceInfoPayload{}, &avdecc.PayloadError{Kind: avdecc.PayloadIncorrectSize}
	}
	var name avdecc.AvdeccFixedString
	copy(name[:], body[4:68])
	return MediaClockReferenceInfoPayload{
		ClockDomainIndex:                   avdecc.ClockDomainIndex(uint16(body[0])<<8 | uint16(body[1])),
		DefaultMediaClockReferencePriority: body[2],
		UserMediaClockReferencePriority:    body[3],
		MediaClockReferenceName:            name,
	}, nil
}

// BindStreamPayload is the BIND_STREAM command/response body.
type BindStreamPayload struct {
	StreamIndex         avdecc.StreamIndex
	MediaClockReferenceID avdecc.EntityID
}

func (p BindStreamPayload) Encode() []byte {
	b := make([]byte, 18)
	putBE16(b[0:2], uint16(p.StreamIndex))
	avdecc.PutUint64(b[2:10], uint64(p.MediaClockReferenceID))
	return b
}

func DecodeBindStream(body []byte) (BindStreamPayload, error) {
	if len(body) < 18 {
		return BindStreamPayload{}, &avdecc.PayloadError{Kind: avdecc.PayloadIncorrectSize}
	}
	return BindStreamPayload{
		StreamIndex:           avdecc.StreamIndex(uint16(body[0])<<8 | uint16(body[1])),
		MediaClockReferenceID: avdecc.EntityID(avdecc.Uint64(body[2:10])),
	}, nil
}

// UnbindStreamPayload is the UNBIND_STREAM command/response body.
type UnbindStreamPayload struct {
	StreamIndex avdecc.StreamIndex
}

func (p UnbindStreamPayload) Encode() []byte {
	b := make([]byte, 2)
	putBE16(b, uint16(p.StreamIndex))
	return b
}

func DecodeUnbindStream(body []byte) (UnbindStreamPayload, error) {
	if len(body) < 2 {
		return UnbindStreamPayload{}, &avdecc.PayloadError{Kind: avdecc.PayloadIncorrectSize}
	}
	return UnbindStreamPayload{StreamIndex: avdecc.StreamIndex(uint16(body[0])<<8 | uint16(body[1]))}, nil
}

func be32(b []byte) uint32 {
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
}

func putBE32(dst []byte, v uint32) {
	dst[0] = byte(v >> 24)
	dst[1] = byte(v >> 16)
	dst[2] = byte(v >> 8)
	dst[3] = byte(v)
}

func putBE16(dst []byte, v uint16) { dst[0] = byte(v >> 8); dst[1] = byte(v) }
