package wire_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/avnu-align/avdecc-engine/avdecc"
	"github.com/avnu-align/avdecc-engine/avdecc/wire"
)

func TestCommonHeaderRoundTrip(t *testing.T) {
	h := wire.CommonHeader{
		Subtype:     wire.SubtypeAECP,
		StreamValid: true,
		ControlData: 0x02,
		Status:      0x1F,
		StreamID:    0x0011223344556677,
	}
	payload := []byte{1, 2, 3, 4, 5}

	frame := h.Encode(payload)
	got, rest, err := wire.Decode(frame)
	require.NoError(t, err)

	h.ControlDataLength = uint16(len(payload))
	if diff := cmp.Diff(h, got); diff != "" {
		t.Fatalf("header mismatch (-want +got):\n%s", diff)
	}
	require.Equal(t, payload, rest)
}

func TestDecodeTruncated(t *testing.T) {
	h := wire.CommonHeader{Subtype: wire.SubtypeADP}
	frame := h.Encode(make([]byte, 10))
	_, _, err := wire.Decode(frame[:wire.CommonHeaderSize+4])
	var werr *avdecc.WireError
	require.ErrorAs(t, err, &werr)
	require.Equal(t, avdecc.WireTruncated, werr.Kind)
}

func TestDecodeTooShort(t *testing.T) {
	_, _, err := wire.Decode(make([]byte, 4))
	var werr *avdecc.WireError
	require.ErrorAs(t, err, &werr)
	require.Equal(t, avdecc.WireTooShort, werr.Kind)
}

func TestDecodeUnknownSubtype(t *testing.T) {
	frame := make([]byte, wire.CommonHeaderSize)
	frame[0] = 0x01 | (0x10 << 1) // cd=1, subtype=0x10 (unknown)
	_, _, err := wire.Decode(frame)
	var werr *avdecc.WireError
	require.ErrorAs(t, err, &werr)
	require.Equal(t, avdecc.WireUnknownSubtype, werr.Kind)
}

func TestEthernetHeaderRoundTrip(t *testing.T) {
	h := wire.EthernetHeader{
		Destination: avdecc.MacAddress{0x91, 0x0E, 0xAF, 0x00, 0x00, 0x00},
		Source:      avdecc.MacAddress{0x00, 0x11, 0x22, 0x33, 0x44, 0x55},
		EtherType:   wire.EtherTypeAVTP,
	}
	buf := make([]byte, wire.EthernetHeaderSize)
	h.Encode(buf)

	got, rest, err := wire.DecodeEthernetHeader(buf)
	require.NoError(t, err)
	require.Equal(t, h, got)
	require.Empty(t, rest)
}

func TestEthernetHeaderUnknownEtherType(t *testing.T) {
	buf := make([]byte, wire.EthernetHeaderSize)
	buf[12], buf[13] = 0x08, 0x00 // IPv4
	_, _, err := wire.DecodeEthernetHeader(buf)
	var werr *avdecc.WireError
	require.ErrorAs(t, err, &werr)
	require.Equal(t, avdecc.WireUnknownEtherType, werr.Kind)
}

func TestPadToMinimum(t *testing.T) {
	short := make([]byte, 10)
	padded := wire.PadToMinimum(short)
	require.Len(t, padded, wire.MinEthernetPayload)

	long := make([]byte, 100)
	require.Len(t, wire.PadToMinimum(long), 100)
}
