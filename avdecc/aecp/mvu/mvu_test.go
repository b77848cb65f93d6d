package mvu_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/avnu-align/avdecc-engine/avdecc"
	"github.com/avnu-align/avdecc-engine/avdecc/aecp/mvu"
)

func TestHeaderRoundTrip(t *testing.T) {
	h := mvu.Header{CommandType: mvu.GetMilanInfo}
	frame := h.Encode(nil)
	require.True(t, mvu.IsMilanProtocolID(frame))

	got, rest, err := mvu.DecodeHeader(frame)
	require.NoError(t, err)
	require.Equal(t, h, got)
	require.Empty(t, rest)
}

func TestDecodeHeaderRejectsForeignProtocolID(t *testing.T) {
	frame := make([]byte, mvu.HeaderSize)
	frame[0] = 0xFF // not the Milan protocol id
	_, _, err := mvu.DecodeHeader(frame)
	var perr *avdecc.PayloadError
	require.ErrorAs(t, err, &perr)
	require.Equal(t, avdecc.PayloadUnknownVendorUnique, perr.Kind)
}

func TestMilanInfoResponseRoundTripByVersion(t *testing.T) {
	r := mvu.MilanInfoResponse{ProtocolVersion: 1, FeaturesFlags: 0x03, CertificationVersion: 7}

	b12 := r.Encode(mvu.Milan12)
	require.Len(t, b12, 8)
	got12, err := mvu.DecodeMilanInfoResponse(b12, mvu.Milan12)
	require.NoError(t, err)
	require.Equal(t, uint32(0), got12.CertificationVersion)

	b13 := r.Encode(mvu.Milan13)
	require.Len(t, b13, 12)
	got13, err := mvu.DecodeMilanInfoResponse(b13, mvu.Milan13)
	require.NoError(t, err)
	require.Equal(t, r, got13)
}

func TestBindUnbindStreamRoundTrip(t *testing.T) {
	b := mvu.BindStreamPayload{StreamIndex: 3, MediaClockReferenceID: avdecc.EntityID(0xAABB)}
	got, err := mvu.DecodeBindStream(b.Encode())
	require.NoError(t, err)
	require.Equal(t, b, got)

	u := mvu.UnbindStreamPayload{StreamIndex: 3}
	gotU, err := mvu.DecodeUnbindStream(u.Encode())
	require.NoError(t, err)
	require.Equal(t, u, gotU)
}

func TestMediaClockReferenceInfoRoundTrip(t *testing.T) {
	p := mvu.MediaClockReferenceInfoPayload{
		ClockDomainIndex:                   2,
		DefaultMediaClockReferencePriority: 1,
		UserMediaClockReferencePriority:    2,
		MediaClockReferenceName:            avdecc.NewAvdeccFixedString("ref-clock"),
	}
	got, err := mvu.DecodeMediaClockReferenceInfo(p.Encode())
	require.NoError(t, err)
	require.Equal(t, p, got)
}
