//go:build linux

package transport

import (
	"context"
	"encoding/binary"
	"net"

	"golang.org/x/sys/unix"

	"github.com/avnu-align/avdecc-engine/avdecc"
	"github.com/avnu-align/avdecc-engine/avdecc/wire"
)

// RawSocket is an Interface backed by a Linux AF_PACKET socket bound
// to a specific interface and filtered to EtherType 0x22F0, following
// the raw-socket-ownership pattern other pack repos use for low-level
// transport (see DESIGN.md's domain stack table).
type RawSocket struct {
	fd     int
	ifIdx  int
	mac    avdecc.MacAddress
	closed chan struct{}
}

// NewRawSocket opens a raw AF_PACKET socket on the named interface.
func NewRawSocket(ifaceName string) (*RawSocket, error) {
	fd, err := unix.Socket(unix.AF_PACKET, unix.SOCK_RAW, htons(uint16(wire.EtherTypeAVTP)))
	if err != nil {
		return nil, err
	}

	idx, mac, err := interfaceInfo(fd, ifaceName)
	if err != nil {
		unix.Close(fd)
		return nil, err
	}

	addr := unix.SockaddrLinklayer{
		Protocol: htons(uint16(wire.EtherTypeAVTP)),
		Ifindex:  idx,
	}
	if err := unix.Bind(fd, &addr); err != nil {
		unix.Close(fd)
		return nil, err
	}

	return &RawSocket{fd: fd, ifIdx: idx, mac: mac, closed: make(chan struct{})}, nil
}

func (r *RawSocket) LocalMAC() avdecc.MacAddress { return r.mac }

func (r *RawSocket) SendRaw(dest avdecc.MacAddress, payload []byte) error {
	if dest.IsZero() {
		dest = AvdeccMulticastMAC
	}
	addr := unix.SockaddrLinklayer{
		Protocol: htons(uint16(wire.EtherTypeAVTP)),
		Ifindex:  r.ifIdx,
		Halen:    6,
	}
	copy(addr.Addr[:6], dest[:])
	return unix.Sendto(r.fd, payload, 0, &addr)
}

func (r *RawSocket) Receive(ctx context.Context) (Frame, error) {
	type result struct {
		frame Frame
		err   error
	}
	done := make(chan result, 1)

	go func() {
		buf := make([]byte, 2048)
		n, from, err := unix.Recvfrom(r.fd, buf, 0)
		if err != nil {
			done <- result{err: err}
			return
		}
		var src avdecc.MacAddress
		if ll, ok := from.(*unix.SockaddrLinklayer); ok {
			copy(src[:], ll.Addr[:6])
		}
		done <- result{frame: Frame{Source: src, Payload: buf[:n]}}
	}()

	select {
	case r := <-done:
		return r.frame, r.err
	case <-ctx.Done():
		return Frame{}, ctx.Err()
	case <-r.closed:
		return Frame{}, ErrClosed
	}
}

func (r *RawSocket) Close() error {
	select {
	case <-r.closed:
		return nil
	default:
		close(r.closed)
	}
	return unix.Close(r.fd)
}

func htons(v uint16) uint16 {
	b := make([]byte, 2)
	binary.BigEndian.PutUint16(b, v)
	return binary.LittleEndian.Uint16(b)
}

// interfaceInfo resolves ifaceName's kernel index and hardware address
// via the stdlib net package, which already wraps the netlink/ioctl
// lookup correctly across kernel versions; only the send/receive path
// needs the raw AF_PACKET socket itself.
func interfaceInfo(fd int, ifaceName string) (int, avdecc.MacAddress, error) {
	iface, err := net.InterfaceByName(ifaceName)
	if err != nil {
		return 0, avdecc.MacAddress{}, err
	}
	var mac avdecc.MacAddress
	copy(mac[:], iface.HardwareAddr)
	return iface.Index, mac, nil
}
