package avdecc

import (
	"errors"
	"fmt"
)

// Sentinel errors for programmer misuse and malformed input that does
// not carry enough context to warrant a typed error. Mirrors the
// teacher's flat ErrXxx sentinels in asdu.
var (
	ErrBufferTooSmall  = errors.New("avdecc: destination buffer too small")
	ErrFixedStringSize = errors.New("avdecc: string does not fit in 64 bytes")
)

// WireErrorKind classifies a C1 (wire codec) failure. See spec.md §4.1.
type WireErrorKind uint8

const (
	WireTruncated WireErrorKind = iota
	WireTooShort
	WireUnknownEtherType
	WireUnknownSubtype
	WireUnknownVersion
)

func (k WireErrorKind) String() string {
	switch k {
	case WireTruncated:
		return "Truncated"
	case WireTooShort:
		return "TooShort"
	case WireUnknownEtherType:
		return "UnknownEtherType"
	case WireUnknownSubtype:
		return "UnknownSubtype"
	case WireUnknownVersion:
		return "UnknownVersion"
	default:
		return "Unknown"
	}
}

// WireError reports why a raw frame was rejected by the wire codec.
type WireError struct {
	Kind  WireErrorKind
	Value uint32 // the offending EtherType/subtype/version, when applicable
}

func (e *WireError) Error() string {
	if e.Kind == WireUnknownEtherType || e.Kind == WireUnknownSubtype || e.Kind == WireUnknownVersion {
		return fmt.Sprintf("avdecc: wire: %s(0x%x)", e.Kind, e.Value)
	}
	return "avdecc: wire: " + e.Kind.String()
}

// PayloadErrorKind classifies a C2 (payload codec) failure. See
// spec.md §4.2 and the DESIGN NOTES error-reporting discussion.
type PayloadErrorKind uint8

const (
	PayloadIncorrectSize PayloadErrorKind = iota
	PayloadNotImplemented
	PayloadInvalidDescriptorType
	PayloadUnsupportedValue
	PayloadUnknownCommandType
	PayloadUnknownVendorUnique
)

func (k PayloadErrorKind) String() string {
	switch k {
	case PayloadIncorrectSize:
		return "IncorrectSize"
	case PayloadNotImplemented:
		return "NotImplemented"
	case PayloadInvalidDescriptorType:
		return "InvalidDescriptorType"
	case PayloadUnsupportedValue:
		return "UnsupportedValue"
	case PayloadUnknownCommandType:
		return "UnknownCommandType"
	case PayloadUnknownVendorUnique:
		return "UnknownVendorUnique"
	default:
		return "Unknown"
	}
}

// PayloadError reports why a command/response payload failed to decode.
type PayloadError struct {
	Kind PayloadErrorKind
	// Status carries the device-reported status for the
	// tolerate-partial-on-nonsuccess path (spec.md §4.2); zero otherwise.
	Status  uint8
	Wrapped error
}

func (e *PayloadError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("avdecc: payload: %s: %v", e.Kind, e.Wrapped)
	}
	return "avdecc: payload: " + e.Kind.String()
}

func (e *PayloadError) Unwrap() error { return e.Wrapped }
