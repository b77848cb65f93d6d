package transport_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/avnu-align/avdecc-engine/avdecc"
	"github.com/avnu-align/avdecc-engine/entity/transport"
)

func TestMemoryBusFansOutToOtherMembers(t *testing.T) {
	bus := transport.NewBus()
	a := bus.NewMemory(avdecc.MacAddress{0, 0, 0, 0, 0, 1})
	b := bus.NewMemory(avdecc.MacAddress{0, 0, 0, 0, 0, 2})
	c := bus.NewMemory(avdecc.MacAddress{0, 0, 0, 0, 0, 3})

	require.NoError(t, a.SendRaw(transport.AvdeccMulticastMAC, []byte{1, 2, 3}))

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	fb, err := b.Receive(ctx)
	require.NoError(t, err)
	require.Equal(t, []byte{1, 2, 3}, fb.Payload)
	require.Equal(t, a.LocalMAC(), fb.Source)

	fc, err := c.Receive(ctx)
	require.NoError(t, err)
	require.Equal(t, []byte{1, 2, 3}, fc.Payload)
}

func TestMemoryDoesNotEchoToSender(t *testing.T) {
	bus := transport.NewBus()
	a := bus.NewMemory(avdecc.MacAddress{0, 0, 0, 0, 0, 1})
	bus.NewMemory(avdecc.MacAddress{0, 0, 0, 0, 0, 2})

	require.NoError(t, a.SendRaw(transport.AvdeccMulticastMAC, []byte{1}))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := a.Receive(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestMemoryReceiveUnblocksOnClose(t *testing.T) {
	bus := transport.NewBus()
	a := bus.NewMemory(avdecc.MacAddress{0, 0, 0, 0, 0, 1})

	require.NoError(t, a.Close())
	_, err := a.Receive(context.Background())
	require.ErrorIs(t, err, transport.ErrClosed)

	require.ErrorIs(t, a.SendRaw(transport.AvdeccMulticastMAC, []byte{1}), transport.ErrClosed)
	require.NoError(t, a.Close(), "Close is idempotent")
}
