package descriptor_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/avnu-align/avdecc-engine/avdecc"
	"github.com/avnu-align/avdecc-engine/avdecc/descriptor"
)

func TestEntityRoundTrip(t *testing.T) {
	e := descriptor.Entity{
		EntityID:             avdecc.EntityID(0x1122334455667788),
		EntityModelID:        avdecc.EntityModelID(0x1),
		EntityCapabilities:   0x41,
		ConfigurationsCount:  1,
		CurrentConfiguration: 0,
		EntityName:           avdecc.NewAvdeccFixedString("test entity"),
	}
	got, err := descriptor.DecodeEntity(e.Encode())
	require.NoError(t, err)
	require.Equal(t, e, got)
}

func TestConfigurationRoundTripIsDeterministic(t *testing.T) {
	c := descriptor.Configuration{
		ObjectName: avdecc.NewAvdeccFixedString("default"),
		Counts: map[avdecc.DescriptorType]uint16{
			avdecc.DescriptorStreamInput:  2,
			avdecc.DescriptorStreamOutput: 1,
			avdecc.DescriptorAvbInterface: 1,
		},
	}

	first := c.Encode()
	second := c.Encode()
	require.Equal(t, first, second, "repeated Encode calls on the same map must be byte-identical")

	got, err := descriptor.DecodeConfiguration(first)
	require.NoError(t, err)
	require.Equal(t, c.Counts, got.Counts)
}

func TestConfigurationDecodeTooShort(t *testing.T) {
	_, err := descriptor.DecodeConfiguration(make([]byte, 10))
	var perr *avdecc.PayloadError
	require.ErrorAs(t, err, &perr)
	require.Equal(t, avdecc.PayloadIncorrectSize, perr.Kind)
}

func TestDecodeClockDomain(t *testing.T) {
	b := make([]byte, 74)
	copy(b[0:64], avdecc.NewAvdeccFixedString("domain-0")[:])
	b[66], b[67] = 0, 1 // ClockSourceIndex = 1
	b[68], b[69] = 0, 2 // count = 2
	b[70], b[71] = 0, 1
	b[72], b[73] = 0, 2

	got, err := descriptor.DecodeClockDomain(b)
	require.NoError(t, err)
	require.Equal(t, avdecc.ClockSourceIndex(1), got.ClockSourceIndex)
	require.Equal(t, []avdecc.ClockSourceIndex{1, 2}, got.ClockSources)
}
