// Package acmp implements the ACMP (AVDECC Connection Management
// Protocol) PDU shared by all seven message types — connect/disconnect/
// get-state for both TX and RX roles, plus GET_TX_CONNECTION for
// fan-out accounting. See spec.md §3.4, §4.4, §6.2.
package acmp

import (
	"strconv"

	"github.com/avnu-align/avdecc-engine/avdecc"
	"github.com/avnu-align/avdecc-engine/avdecc/wire"
)

// MessageType is the ACMP message_type field (IEEE 1722.1-2021 table 8.1).
type MessageType uint8

const (
	ConnectTxCommand MessageType = iota
	ConnectTxResponse
	DisconnectTxCommand
	DisconnectTxResponse
	GetTxStateCommand
	GetTxStateResponse
	ConnectRxCommand
	ConnectRxResponse
	DisconnectRxCommand
	DisconnectRxResponse
	GetRxStateCommand
	GetRxStateResponse
	GetTxConnectionCommand
	GetTxConnectionResponse
)

var messageTypeNames = [...]string{
	"CONNECT_TX_COMMAND", "CONNECT_TX_RESPONSE", "DISCONNECT_TX_COMMAND", "DISCONNECT_TX_RESPONSE",
	"GET_TX_STATE_COMMAND", "GET_TX_STATE_RESPONSE", "CONNECT_RX_COMMAND", "CONNECT_RX_RESPONSE",
	"DISCONNECT_RX_COMMAND", "DISCONNECT_RX_RESPONSE", "GET_RX_STATE_COMMAND", "GET_RX_STATE_RESPONSE",
	"GET_TX_CONNECTION_COMMAND", "GET_TX_CONNECTION_RESPONSE",
}

func (m MessageType) String() string {
	if int(m) < len(messageTypeNames) {
		return messageTypeNames[m]
	}
	return "ACMP<" + strconv.Itoa(int(m)) + ">"
}

// IsResponse reports whether m is one of the *_RESPONSE variants
// (every response is the odd-numbered sibling of its command).
func (m MessageType) IsResponse() bool { return m%2 == 1 }

// Response returns the *_RESPONSE variant of a command message type.
func (m MessageType) Response() MessageType { return m + 1 }

// Status is the ACMP response status code (IEEE 1722.1-2021 table 8.2).
// Unlike AEM, ACMP never retries on timeout (spec.md §4.4), so the only
// locally synthesized status is StatusListenerTalkerTimeout's sibling,
// StatusTimedOut, used for a command that never received any response.
type Status uint8

const (
	StatusSuccess Status = iota
	StatusListenerUnknownID
	StatusTalkerUnknownID
	StatusTalkerDestMacFail
	StatusTalkerNoStreamIndex
	StatusTalkerNoBandwidth
	StatusTalkerExclusive
	StatusListenerTalkerTimeout
	StatusListenerExclusive
	StatusStateUnavailable
	StatusNotConnected
	StatusNoSuchConnection
	StatusCouldNotSendMessage
	StatusTalkerMisbehaving
	StatusListenerMisbehaving
	_ // reserved
	StatusControllerNotAuthorized
	StatusIncompatibleRequest
	StatusListenerInvalidConnection
	StatusNotSupported
)

// StatusTimedOut is synthesized locally when an inflight ACMP command
// expires with no response at all (spec.md §4.4: ACMP has no retry).
const StatusTimedOut Status = 0xFF

var statusNames = map[Status]string{
	StatusSuccess:                   "SUCCESS",
	StatusListenerUnknownID:         "LISTENER_UNKNOWN_ID",
	StatusTalkerUnknownID:           "TALKER_UNKNOWN_ID",
	StatusTalkerDestMacFail:         "TALKER_DEST_MAC_FAIL",
	StatusTalkerNoStreamIndex:       "TALKER_NO_STREAM_INDEX",
	StatusTalkerNoBandwidth:         "TALKER_NO_BANDWIDTH",
	StatusTalkerExclusive:           "TALKER_EXCLUSIVE",
	StatusListenerTalkerTimeout:     "LISTENER_TALKER_TIMEOUT",
	StatusListenerExclusive:         "LISTENER_EXCLUSIVE",
	StatusStateUnavailable:          "STATE_UNAVAILABLE",
	StatusNotConnected:              "NOT_CONNECTED",
	StatusNoSuchConnection:          "NO_SUCH_CONNECTION",
	StatusCouldNotSendMessage:       "COULD_NOT_SEND_MESSAGE",
	StatusTalkerMisbehaving:         "TALKER_MISBEHAVING",
	StatusListenerMisbehaving:       "LISTENER_MISBEHAVING",
	StatusControllerNotAuthorized:   "CONTROLLER_NOT_AUTHORIZED",
	StatusIncompatibleRequest:       "INCOMPATIBLE_REQUEST",
	StatusListenerInvalidConnection: "LISTENER_INVALID_CONNECTION",
	StatusNotSupported:              "NOT_SUPPORTED",
	StatusTimedOut:                  "TIMED_OUT",
}

func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return "ACMP_STATUS<" + strconv.Itoa(int(s)) + ">"
}

// Flags is the ACMPDU flags bitfield (IEEE 1722.1-2021 table 8.3).
type Flags uint16

const (
	FlagClassB              Flags = 1 << 0
	FlagFastConnect         Flags = 1 << 1
	FlagSavedState          Flags = 1 << 2
	FlagStreamingWait       Flags = 1 << 3
	FlagSupportsEncrypted   Flags = 1 << 4
	FlagEncryptedPdu        Flags = 1 << 5
	FlagTalkerFailed        Flags = 1 << 6
	FlagNoSrpSupport        Flags = 1 << 7
	FlagUdp                 Flags = 1 << 8
)

// BodySize is the fixed ACMPDU body width shared by every ACMP message
// type (IEEE 1722.1-2021 clause 8.2.1).
const BodySize = 44

// PDU is the single ACMPDU body shape every ACMP message type shares.
type PDU struct {
	ControllerEntityID avdecc.EntityID
	TalkerEntityID     avdecc.EntityID
	ListenerEntityID   avdecc.EntityID
	TalkerUniqueID     uint16
	ListenerUniqueID   uint16
	StreamDestMac      avdecc.MacAddress
	ConnectionCount    uint16
	SequenceID         avdecc.SequenceID
	Flags              Flags
	StreamVlanID       uint16
}

// Decode parses a 44-byte ACMPDU body.
func Decode(h wire.CommonHeader, body []byte) (PDU, error) {
	if len(body) < BodySize {
		return PDU{}, &avdecc.WireError{Kind: avdecc.WireTooShort}
	}
	p := PDU{
		ControllerEntityID: avdecc.EntityID(avdecc.Uint64(body[0:8])),
		TalkerEntityID:     avdecc.EntityID(avdecc.Uint64(body[8:16])),
		ListenerEntityID:   avdecc.EntityID(avdecc.Uint64(body[16:24])),
		TalkerUniqueID:     be16(body[24:26]),
		ListenerUniqueID:   be16(body[26:28]),
		StreamDestMac:      avdecc.ParseMacAddress(body[28:34]),
		ConnectionCount:    be16(body[34:36]),
		SequenceID:         avdecc.SequenceID(be16(body[36:38])),
		Flags:              Flags(be16(body[38:40])),
		StreamVlanID:       be16(body[40:42]),
	}
	return p, nil
}

// Encode serializes p and returns the AVTPDU common header to wrap it
// with, matching the MessageType/Status the caller fills into h before
// calling wire.CommonHeader.Encode.
func (p PDU) Encode(messageType MessageType, status Status) (wire.CommonHeader, []byte) {
	buf := make([]byte, BodySize)
	avdecc.PutUint64(buf[0:8], uint64(p.ControllerEntityID))
	avdecc.PutUint64(buf[8:16], uint64(p.TalkerEntityID))
	avdecc.PutUint64(buf[16:24], uint64(p.ListenerEntityID))
	putBE16(buf[24:26], p.TalkerUniqueID)
	putBE16(buf[26:28], p.ListenerUniqueID)
	copy(buf[28:34], p.StreamDestMac[:])
	putBE16(buf[34:36], p.ConnectionCount)
	putBE16(buf[36:38], uint16(p.SequenceID))
	putBE16(buf[38:40], uint16(p.Flags))
	putBE16(buf[40:42], p.StreamVlanID)
	// buf[42:44] reserved

	h := wire.CommonHeader{
		Subtype:     wire.SubtypeACMP,
		ControlData: uint8(messageType),
		Status:      uint8(status),
	}
	return h, buf
}

func be16(b []byte) uint16           { return uint16(b[0])<<8 | uint16(b[1]) }
func putBE16(dst []byte, v uint16)   { dst[0] = byte(v >> 8); dst[1] = byte(v) }
