// Package avdecc holds the identifiers and small value types shared by
// every layer of the AVDECC protocol engine (ADP, AECP, ACMP). See IEEE
// 1722.1-2021 clause 6 and the AVnu Milan specification for the wire
// shapes these types model.
package avdecc

import (
	"encoding/binary"
	"fmt"
)

// EntityID is a 64-bit EUI-64 shaped identifier for an AVDECC entity.
type EntityID uint64

// NullEntityID is the sentinel meaning "absent" for an EntityID field.
const NullEntityID EntityID = 0xFFFFFFFFFFFFFFFF

// IsNull reports whether id is the all-ones sentinel.
func (id EntityID) IsNull() bool { return id == NullEntityID }

func (id EntityID) String() string { return fmt.Sprintf("0x%016X", uint64(id)) }

// EntityModelID identifies the AEM model implemented by an entity.
type EntityModelID uint64

func (id EntityModelID) String() string { return fmt.Sprintf("0x%016X", uint64(id)) }

// AssociationID groups entities that belong to the same physical device.
type AssociationID uint64

// NullAssociationID means "no association".
const NullAssociationID AssociationID = 0xFFFFFFFFFFFFFFFF

func (id AssociationID) IsNull() bool { return id == NullAssociationID }

// MacAddress is a 6-octet IEEE 802 address.
type MacAddress [6]byte

func (m MacAddress) String() string {
	return fmt.Sprintf("%02x:%02x:%02x:%02x:%02x:%02x", m[0], m[1], m[2], m[3], m[4], m[5])
}

// IsZero reports whether every octet is zero.
func (m MacAddress) IsZero() bool { return m == MacAddress{} }

// ParseMacAddress reads a MacAddress from the first 6 bytes of b.
func ParseMacAddress(b []byte) MacAddress {
	var m MacAddress
	copy(m[:], b[:6])
	return m
}

// SequenceID is the 16-bit wrapping counter that correlates an AECP or
// ACMP command with its response within an (issuer, target) pair.
type SequenceID uint16

// Next returns the next sequence ID in the wrap-at-2^16 sequence.
func (s SequenceID) Next() SequenceID { return s + 1 }

// StreamFormat is an opaque 64-bit stream format descriptor; the core
// transports it without interpreting the encoded sample layout.
type StreamFormat uint64

// NullStreamFormat means "no format set".
const NullStreamFormat StreamFormat = 0

// SamplingRate packs a pull multiplier bit and a base rate. Sentinel 0
// means unset. See IEEE 1722.1-2021 clause 7.3.
type SamplingRate uint32

// IsSet reports whether the rate carries a non-sentinel value.
func (r SamplingRate) IsSet() bool { return r != 0 }

// Pull reports the pull multiplier bits (top 3 bits of the 32-bit field).
func (r SamplingRate) Pull() uint8 { return uint8(r >> 29) }

// BaseRate reports the base rate in Hz (bottom 29 bits).
func (r SamplingRate) BaseRate() uint32 { return uint32(r) & 0x1FFFFFFF }

// AvdeccFixedStringSize is the fixed wire width of an AvdeccFixedString.
const AvdeccFixedStringSize = 64

// AvdeccFixedString is a zero-padded 64-byte string field; it is not
// required to be NUL-terminated, so decoding stops at the first zero
// byte or at the end of the buffer, whichever comes first.
type AvdeccFixedString [AvdeccFixedStringSize]byte

// NewAvdeccFixedString builds a zero-padded field from s, truncating at
// AvdeccFixedStringSize.
func NewAvdeccFixedString(s string) AvdeccFixedString {
	var out AvdeccFixedString
	copy(out[:], s)
	return out
}

func (s AvdeccFixedString) String() string {
	n := len(s)
	for i, b := range s {
		if b == 0 {
			n = i
			break
		}
	}
	return string(s[:n])
}

// PutUint64 writes v into b[0:8] big-endian; a small helper used
// throughout the codec packages to keep call sites terse.
func PutUint64(b []byte, v uint64) { binary.BigEndian.PutUint64(b, v) }

// Uint64 reads a big-endian 64-bit value from b[0:8].
func Uint64(b []byte) uint64 { return binary.BigEndian.Uint64(b) }
