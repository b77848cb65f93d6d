// Package transport defines the L2 send/receive contract the engine
// needs from an Ethernet interface, and provides two implementations:
// an in-memory loopback for tests and a raw AF_PACKET socket for Linux
// (rawsock_linux.go). See spec.md §6.1.
package transport

import (
	"context"

	"github.com/avnu-align/avdecc-engine/avdecc"
)

// Frame is one received Ethernet frame, EtherType 0x22F0 already
// filtered by the transport (spec.md §6.1).
type Frame struct {
	Source  avdecc.MacAddress
	Payload []byte
}

// Interface is the transport contract the entity facade drives. An
// implementation owns exactly one physical or virtual network
// interface and is safe for concurrent SendRaw/Close calls from
// multiple goroutines (spec.md §6.1: "send_raw, observer registration,
// mutex, discovery hooks").
type Interface interface {
	// LocalMAC reports the interface's own hardware address.
	LocalMAC() avdecc.MacAddress

	// SendRaw transmits payload (already padded per spec.md §6.1) to
	// dest, or to the AVDECC multicast address if dest is the zero MAC.
	SendRaw(dest avdecc.MacAddress, payload []byte) error

	// Receive blocks until a frame arrives, ctx is cancelled, or the
	// transport is closed. It returns (Frame{}, ctx.Err()) on
	// cancellation and (Frame{}, ErrClosed) after Close.
	Receive(ctx context.Context) (Frame, error)

	// Close releases the underlying socket/interface. Any blocked
	// Receive call returns promptly.
	Close() error
}

// AvdeccMulticastMAC is the well-known multicast destination ADP/ACMP
// discovery traffic targets (IEEE 1722.1-2021 clause 6.4).
var AvdeccMulticastMAC = avdecc.MacAddress{0x91, 0xE0, 0xF0, 0x01, 0x00, 0x00}
