package aa_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/avnu-align/avdecc-engine/avdecc"
	"github.com/avnu-align/avdecc-engine/avdecc/aecp/aa"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	tlvs := []aa.TLV{
		{Mode: aa.ModeRead, Address: 0x1000, Value: []byte{}},
		{Mode: aa.ModeWrite, Address: 0x2000, Value: []byte{0xDE, 0xAD, 0xBE, 0xEF}},
	}
	got, err := aa.Decode(aa.Encode(tlvs))
	require.NoError(t, err)
	require.Equal(t, tlvs, got)
}

func TestDecodeEmptyBody(t *testing.T) {
	got, err := aa.Decode(nil)
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestDecodeTruncatedTLV(t *testing.T) {
	_, err := aa.Decode([]byte{0, 0, 1, 2, 3})
	var perr *avdecc.PayloadError
	require.ErrorAs(t, err, &perr)
	require.Equal(t, avdecc.PayloadIncorrectSize, perr.Kind)
}

func TestDecodeTruncatedValue(t *testing.T) {
	tlvs := []aa.TLV{{Mode: aa.ModeExecute, Address: 1, Value: []byte{1, 2, 3, 4}}}
	frame := aa.Encode(tlvs)
	_, err := aa.Decode(frame[:len(frame)-1])
	var perr *avdecc.PayloadError
	require.ErrorAs(t, err, &perr)
	require.Equal(t, avdecc.PayloadIncorrectSize, perr.Kind)
}
