package avdecc

import "strconv"

// DescriptorType is the 16-bit tagged enum identifying the kind of
// descriptor an index refers to. See IEEE 1722.1-2021 clause 7.2.
type DescriptorType uint16

// The standard descriptor types, IEEE 1722.1-2021 table 7.1.
const (
	DescriptorEntity DescriptorType = iota
	DescriptorConfiguration
	DescriptorAudioUnit
	DescriptorVideoUnit
	DescriptorSensorUnit
	DescriptorStreamInput
	DescriptorStreamOutput
	DescriptorJackInput
	DescriptorJackOutput
	DescriptorAvbInterface
	DescriptorClockSource
	DescriptorMemoryObject
	DescriptorLocale
	DescriptorStrings
	DescriptorStreamPortInput
	DescriptorStreamPortOutput
	DescriptorExternalPortInput
	DescriptorExternalPortOutput
	DescriptorInternalPortInput
	DescriptorInternalPortOutput
	DescriptorAudioCluster
	DescriptorVideoCluster
	DescriptorSensorCluster
	DescriptorAudioMap
	DescriptorVideoMap
	DescriptorSensorMap
	DescriptorControl
	DescriptorSignalSelector
	DescriptorMixer
	DescriptorMatrix
	DescriptorMatrixSignal
	DescriptorSignalSplitter
	DescriptorSignalCombiner
	DescriptorSignalDemultiplexer
	DescriptorSignalMultiplexer
	DescriptorSignalTranscoder
	DescriptorClockDomain
	DescriptorControlBlock
	DescriptorTiming
	DescriptorPtpInstance
	DescriptorPtpPort
)

// DescriptorInvalid marks the "no descriptor" sentinel used by some AEM
// fields (e.g. an unbound name_index target).
const DescriptorInvalid DescriptorType = 0xFFFF

var descriptorTypeNames = [...]string{
	"ENTITY", "CONFIGURATION", "AUDIO_UNIT", "VIDEO_UNIT", "SENSOR_UNIT",
	"STREAM_INPUT", "STREAM_OUTPUT", "JACK_INPUT", "JACK_OUTPUT",
	"AVB_INTERFACE", "CLOCK_SOURCE", "MEMORY_OBJECT", "LOCALE", "STRINGS",
	"STREAM_PORT_INPUT", "STREAM_PORT_OUTPUT", "EXTERNAL_PORT_INPUT",
	"EXTERNAL_PORT_OUTPUT", "INTERNAL_PORT_INPUT", "INTERNAL_PORT_OUTPUT",
	"AUDIO_CLUSTER", "VIDEO_CLUSTER", "SENSOR_CLUSTER", "AUDIO_MAP",
	"VIDEO_MAP", "SENSOR_MAP", "CONTROL", "SIGNAL_SELECTOR", "MIXER",
	"MATRIX", "MATRIX_SIGNAL", "SIGNAL_SPLITTER", "SIGNAL_COMBINER",
	"SIGNAL_DEMULTIPLEXER", "SIGNAL_MULTIPLEXER", "SIGNAL_TRANSCODER",
	"CLOCK_DOMAIN", "CONTROL_BLOCK", "TIMING", "PTP_INSTANCE", "PTP_PORT",
}

func (d DescriptorType) String() string {
	if d == DescriptorInvalid {
		return "DESCRIPTOR<invalid>"
	}
	if int(d) < len(descriptorTypeNames) {
		return descriptorTypeNames[d]
	}
	return "DESCRIPTOR<" + strconv.Itoa(int(d)) + ">"
}

// DescriptorIndex family types. A single distinct numeric type per
// family prevents an index from one descriptor family being passed
// where another is expected — the compiler catches what the wire
// format cannot.
type (
	ConfigurationIndex   uint16
	AudioUnitIndex       uint16
	StreamIndex          uint16
	JackIndex            uint16
	AvbInterfaceIndex    uint16
	ClockSourceIndex     uint16
	MemoryObjectIndex    uint16
	LocaleIndex          uint16
	StringsIndex         uint16
	StreamPortIndex      uint16
	ExternalPortIndex    uint16
	InternalPortIndex    uint16
	AudioClusterIndex    uint16
	AudioMapIndex        uint16
	ControlIndex         uint16
	ClockDomainIndex     uint16
	TimingIndex          uint16
	PtpInstanceIndex     uint16
	PtpPortIndex         uint16
	DescriptorIndexValue uint16 // raw index carried in generic (descriptor_type, descriptor_index) pairs
)
