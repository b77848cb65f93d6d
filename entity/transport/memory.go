package transport

import (
	"context"
	"errors"
	"sync"

	"github.com/avnu-align/avdecc-engine/avdecc"
)

// ErrClosed is returned by Receive once Close has been called.
var ErrClosed = errors.New("transport: closed")

// Memory is an in-process Interface implementation for tests: frames
// SendRaw'd on one Memory are delivered to every other Memory sharing
// the same Bus, modeling a shared Ethernet segment without any real
// socket.
type Memory struct {
	mac avdecc.MacAddress
	bus *Bus

	mu     sync.Mutex
	inbox  chan Frame
	closed bool
}

// Bus is a shared medium a set of Memory transports attach to.
type Bus struct {
	mu       sync.Mutex
	members  []*Memory
}

// NewBus creates an empty shared medium.
func NewBus() *Bus { return &Bus{} }

// NewMemory attaches a new transport with the given MAC to bus.
func (bus *Bus) NewMemory(mac avdecc.MacAddress) *Memory {
	m := &Memory{mac: mac, bus: bus, inbox: make(chan Frame, 64)}
	bus.mu.Lock()
	bus.members = append(bus.members, m)
	bus.mu.Unlock()
	return m
}

func (m *Memory) LocalMAC() avdecc.MacAddress { return m.mac }

func (m *Memory) SendRaw(dest avdecc.MacAddress, payload []byte) error {
	m.mu.Lock()
	closed := m.closed
	m.mu.Unlock()
	if closed {
		return ErrClosed
	}

	frame := Frame{Source: m.mac, Payload: append([]byte(nil), payload...)}

	m.bus.mu.Lock()
	recipients := make([]*Memory, 0, len(m.bus.members))
	for _, peer := range m.bus.members {
		if peer == m {
			continue
		}
		recipients = append(recipients, peer)
	}
	m.bus.mu.Unlock()

	for _, peer := range recipients {
		peer.deliver(frame)
	}
	return nil
}

func (m *Memory) deliver(f Frame) {
	m.mu.Lock()
	closed := m.closed
	m.mu.Unlock()
	if closed {
		return
	}
	select {
	case m.inbox <- f:
	default:
		// slow consumer: drop rather than block the sender, matching a
		// real best-effort Ethernet segment.
	}
}

func (m *Memory) Receive(ctx context.Context) (Frame, error) {
	select {
	case f, ok := <-m.inbox:
		if !ok {
			return Frame{}, ErrClosed
		}
		return f, nil
	case <-ctx.Done():
		return Frame{}, ctx.Err()
	}
}

func (m *Memory) Close() error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil
	}
	m.closed = true
	m.mu.Unlock()
	close(m.inbox)
	return nil
}
