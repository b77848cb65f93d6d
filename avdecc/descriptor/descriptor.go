// Package descriptor holds the READ_DESCRIPTOR response bodies for the
// AVDECC Entity Model's descriptor catalog (IEEE 1722.1-2021 clause
// 7.2). Each descriptor's Encode/Decode pair follows the same prefix
// shape of (type implied by caller, index implied by caller) + fields,
// matching how asdu/information.go builds one struct per information
// object rather than a single polymorphic blob. See spec.md §5.
package descriptor

import (
	"github.com/avnu-align/avdecc-engine/avdecc"
)

func be16(b []byte) uint16         { return uint16(b[0])<<8 | uint16(b[1]) }
func putBE16(dst []byte, v uint16) { dst[0] = byte(v >> 8); dst[1] = byte(v) }
func be32(b []byte) uint32 {
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
}
func putBE32(dst []byte, v uint32) {
	dst[0] = byte(v >> 24)
	dst[1] = byte(v >> 16)
	dst[2] = byte(v >> 8)
	dst[3] = byte(v)
}

func checkMinSize(body []byte, min int) error {
	if len(body) < min {
		return &avdecc.PayloadError{Kind: avdecc.PayloadIncorrectSize}
	}
	return nil
}

// Entity is the ENTITY descriptor (always descriptor_index 0, the
// root of an entity's model tree).
type Entity struct {
	EntityID              avdecc.EntityID
	EntityModelID         avdecc.EntityModelID
	EntityCapabilities    uint32
	TalkerStreamSources   uint16
	TalkerCapabilities    uint16
	ListenerStreamSinks   uint16
	ListenerCapabilities  uint16
	ControllerCapabilities uint32
	AvailableIndex        uint32
	AssociationID         avdecc.AssociationID
	EntityName            avdecc.AvdeccFixedString
	VendorNameString      avdecc.StringsIndex
	ModelNameString       avdecc.StringsIndex
	FirmwareVersion       avdecc.AvdeccFixedString
	GroupName             avdecc.AvdeccFixedString
	SerialNumber          avdecc.AvdeccFixedString
	ConfigurationsCount   uint16
	CurrentConfiguration  avdecc.ConfigurationIndex
}

// entitySize is the fixed wire width of an ENTITY descriptor body (IEEE
// 1722.1-2021 table 7.2), not counting the 4-octet descriptor_type +
// descriptor_index prefix READ_DESCRIPTOR wraps it in.
const entitySize = 8 + 8 + 4 + 2 + 2 + 2 + 2 + 4 + 4 + 8 + 64 + 2 + 2 + 64 + 64 + 64 + 2 + 2

func DecodeEntity(body []byte) (Entity, error) {
	if err := checkMinSize(body, entitySize); err != nil {
		return Entity{}, err
	}
	const o = 0
	e := Entity{
		EntityID:               avdecc.EntityID(avdecc.Uint64(body[o:])),
		EntityModelID:          avdecc.EntityModelID(avdecc.Uint64(body[o+8:])),
		EntityCapabilities:     be32(body[o+16 : o+20]),
		TalkerStreamSources:    be16(body[o+20 : o+22]),
		TalkerCapabilities:     be16(body[o+22 : o+24]),
		ListenerStreamSinks:    be16(body[o+24 : o+26]),
		ListenerCapabilities:   be16(body[o+26 : o+28]),
		ControllerCapabilities: be32(body[o+28 : o+32]),
		AvailableIndex:         be32(body[o+32 : o+36]),
		AssociationID:          avdecc.AssociationID(avdecc.Uint64(body[o+36:])),
	}
	copy(e.EntityName[:], body[o+44:o+108])
	e.VendorNameString = avdecc.StringsIndex(be16(body[o+108 : o+110]))
	e.ModelNameString = avdecc.StringsIndex(be16(body[o+110 : o+112]))
	copy(e.FirmwareVersion[:], body[o+112:o+176])
	copy(e.GroupName[:], body[o+176:o+240])
	copy(e.SerialNumber[:], body[o+240:o+304])
	e.ConfigurationsCount = be16(body[o+304 : o+306])
	e.CurrentConfiguration = avdecc.ConfigurationIndex(be16(body[o+306 : o+308]))
	return e, nil
}

func (e Entity) Encode() []byte {
	b := make([]byte, entitySize)
	avdecc.PutUint64(b[0:8], uint64(e.EntityID))
	avdecc.PutUint64(b[8:16], uint64(e.EntityModelID))
	putBE32(b[16:20], e.EntityCapabilities)
	putBE16(b[20:22], e.TalkerStreamSources)
	putBE16(b[22:24], e.TalkerCapabilities)
	putBE16(b[24:26], e.ListenerStreamSinks)
	putBE16(b[26:28], e.ListenerCapabilities)
	putBE32(b[28:32], e.ControllerCapabilities)
	putBE32(b[32:36], e.AvailableIndex)
	avdecc.PutUint64(b[36:44], uint64(e.AssociationID))
	copy(b[44:108], e.EntityName[:])
	putBE16(b[108:110], uint16(e.VendorNameString))
	putBE16(b[110:112], uint16(e.ModelNameString))
	copy(b[112:176], e.FirmwareVersion[:])
	copy(b[176:240], e.GroupName[:])
	copy(b[240:304], e.SerialNumber[:])
	putBE16(b[304:306], e.ConfigurationsCount)
	putBE16(b[306:308], uint16(e.CurrentConfiguration))
	return b
}

// Configuration is the CONFIGURATION descriptor: a name plus the
// per-descriptor-type counts table describing how many of each
// descriptor family this configuration contains.
type Configuration struct {
	ObjectName          avdecc.AvdeccFixedString
	LocalizedDescription avdecc.StringsIndex
	Counts              map[avdecc.DescriptorType]uint16
}

func DecodeConfiguration(body []byte) (Configuration, error) {
	if err := checkMinSize(body, 70); err != nil {
		return Configuration{}, err
	}
	var c Configuration
	copy(c.ObjectName[:], body[0:64])
	c.LocalizedDescription = avdecc.StringsIndex(be16(body[64:66]))
	descriptorCounts := be16(body[66:68])
	countOffset := be16(body[68:70])
	c.Counts = make(map[avdecc.DescriptorType]uint16, descriptorCounts)
	base := int(countOffset)
	for i := 0; i < int(descriptorCounts); i++ {
		rowStart := base + i*4
		if err := checkMinSize(body, rowStart+4); err != nil {
			return Configuration{}, err
		}
		dt := avdecc.DescriptorType(be16(body[rowStart : rowStart+2]))
		count := be16(body[rowStart+2 : rowStart+4])
		c.Counts[dt] = count
	}
	return c, nil
}

func (c Configuration) Encode() []byte {
	const countOffset = 70
	b := make([]byte, countOffset+len(c.Counts)*4)
	copy(b[0:64], c.ObjectName[:])
	putBE16(b[64:66], uint16(c.LocalizedDescription))
	putBE16(b[66:68], uint16(len(c.Counts)))
	putBE16(b[68:70], countOffset)
	// deterministic order: iterate a sorted key slice so repeated Encode
	// calls on the same map are byte-identical (maps don't guarantee
	// iteration order).
	keys := make([]avdecc.DescriptorType, 0, len(c.Counts))
	for k := range c.Counts {
		keys = append(keys, k)
	}
	for i := 0; i < len(keys); i++ {
		for j := i + 1; j < len(keys); j++ {
			if keys[j] < keys[i] {
				keys[i], keys[j] = keys[j], keys[i]
			}
		}
	}
	for i, dt := range keys {
		row := b[countOffset+i*4:]
		putBE16(row[0:2], uint16(dt))
		putBE16(row[2:4], c.Counts[dt])
	}
	return b
}

// AudioUnit is the AUDIO_UNIT descriptor (clock source selection and
// sampling rate range for one audio processing unit).
type AudioUnit struct {
	ObjectName            avdecc.AvdeccFixedString
	LocalizedDescription  avdecc.StringsIndex
	ClockDomainIndex      avdecc.ClockDomainIndex
	NumberOfStreamInputPorts  uint16
	BaseStreamInputPort       avdecc.StreamPortIndex
	NumberOfStreamOutputPorts uint16
	BaseStreamOutputPort      avdecc.StreamPortIndex
	CurrentSamplingRate       avdecc.SamplingRate
	SamplingRates             []avdecc.SamplingRate
}

func DecodeAudioUnit(body []byte) (AudioUnit, error) {
	if err := checkMinSize(body, 84); err != nil {
		return AudioUnit{}, err
	}
	var a AudioUnit
	copy(a.ObjectName[:], body[0:64])
	a.LocalizedDescription = avdecc.StringsIndex(be16(body[64:66]))
	a.ClockDomainIndex = avdecc.ClockDomainIndex(be16(body[66:68]))
	a.NumberOfStreamInputPorts = be16(body[68:70])
	a.BaseStreamInputPort = avdecc.StreamPortIndex(be16(body[70:72]))
	a.NumberOfStreamOutputPorts = be16(body[72:74])
	a.BaseStreamOutputPort = avdecc.StreamPortIndex(be16(body[74:76]))
	a.CurrentSamplingRate = avdecc.SamplingRate(be32(body[76:80]))
	count := int(be16(body[80:82]))
	need := 84 + count*4
	if err := checkMinSize(body, need); err != nil {
		return AudioUnit{}, err
	}
	a.SamplingRates = make([]avdecc.SamplingRate, count)
	for i := 0; i < count; i++ {
		a.SamplingRates[i] = avdecc.SamplingRate(be32(body[84+i*4 : 88+i*4]))
	}
	return a, nil
}

// StreamPort is the common shape of STREAM_INPUT and STREAM_OUTPUT
// descriptors (which differ only in direction, not wire layout).
type StreamPort struct {
	ObjectName            avdecc.AvdeccFixedString
	LocalizedDescription  avdecc.StringsIndex
	ClockDomainIndex      avdecc.ClockDomainIndex
	StreamFlags           uint16
	CurrentFormat         avdecc.StreamFormat
	Formats               []avdecc.StreamFormat
}

func DecodeStreamPort(body []byte) (StreamPort, error) {
	if err := checkMinSize(body, 84); err != nil {
		return StreamPort{}, err
	}
	var s StreamPort
	copy(s.ObjectName[:], body[0:64])
	s.LocalizedDescription = avdecc.StringsIndex(be16(body[64:66]))
	s.ClockDomainIndex = avdecc.ClockDomainIndex(be16(body[66:68]))
	s.StreamFlags = be16(body[68:70])
	s.CurrentFormat = avdecc.StreamFormat(avdecc.Uint64(body[70:78]))
	count := int(be16(body[78:80]))
	need := 84 + count*8
	if err := checkMinSize(body, need); err != nil {
		return StreamPort{}, err
	}
	s.Formats = make([]avdecc.StreamFormat, count)
	for i := 0; i < count; i++ {
		s.Formats[i] = avdecc.StreamFormat(avdecc.Uint64(body[84+i*8 : 92+i*8]))
	}
	return s, nil
}

// AvbInterface is the AVB_INTERFACE descriptor.
type AvbInterface struct {
	ObjectName            avdecc.AvdeccFixedString
	LocalizedDescription  avdecc.StringsIndex
	MacAddress            avdecc.MacAddress
	InterfaceFlags        uint16
	ClockIdentity         avdecc.EntityID
	Priority1             uint8
	ClockClass            uint8
	OffsetScaledLogVariance uint16
	ClockAccuracy         uint8
	Priority2             uint8
	DomainNumber          uint8
	LogSyncInterval       int8
	LogAnnounceInterval   int8
	LogPdelayInterval     int8
	PortNumber            uint16
}

const avbInterfaceSize = 64 + 2 + 6 + 2 + 8 + 1 + 1 + 2 + 1 + 1 + 1 + 1 + 1 + 1 + 2

func DecodeAvbInterface(body []byte) (AvbInterface, error) {
	if err := checkMinSize(body, avbInterfaceSize); err != nil {
		return AvbInterface{}, err
	}
	var a AvbInterface
	copy(a.ObjectName[:], body[0:64])
	a.LocalizedDescription = avdecc.StringsIndex(be16(body[64:66]))
	a.MacAddress = avdecc.ParseMacAddress(body[66:72])
	a.InterfaceFlags = be16(body[72:74])
	a.ClockIdentity = avdecc.EntityID(avdecc.Uint64(body[74:82]))
	a.Priority1 = body[82]
	a.ClockClass = body[83]
	a.OffsetScaledLogVariance = be16(body[84:86])
	a.ClockAccuracy = body[86]
	a.Priority2 = body[87]
	a.DomainNumber = body[88]
	a.LogSyncInterval = int8(body[89])
	a.LogAnnounceInterval = int8(body[90])
	a.LogPdelayInterval = int8(body[91])
	a.PortNumber = be16(body[92:94])
	return a, nil
}

// ClockSource is the CLOCK_SOURCE descriptor.
type ClockSource struct {
	ObjectName              avdecc.AvdeccFixedString
	LocalizedDescription    avdecc.StringsIndex
	ClockSourceFlags        uint16
	ClockSourceType         uint16
	ClockSourceIdentifier   avdecc.EntityID
	ClockSourceLocationType avdecc.DescriptorType
	ClockSourceLocationIndex avdecc.DescriptorIndexValue
}

func DecodeClockSource(body []byte) (ClockSource, error) {
	if err := checkMinSize(body, 80); err != nil {
		return ClockSource{}, err
	}
	var c ClockSource
	copy(c.ObjectName[:], body[0:64])
	c.LocalizedDescription = avdecc.StringsIndex(be16(body[64:66]))
	c.ClockSourceFlags = be16(body[66:68])
	c.ClockSourceType = be16(body[68:70])
	c.ClockSourceIdentifier = avdecc.EntityID(avdecc.Uint64(body[70:78]))
	c.ClockSourceLocationType = avdecc.DescriptorType(be16(body[78:80]))
	return c, nil
}

// ClockDomain is the CLOCK_DOMAIN descriptor.
type ClockDomain struct {
	ObjectName           avdecc.AvdeccFixedString
	LocalizedDescription avdecc.StringsIndex
	ClockSourceIndex     avdecc.ClockSourceIndex
	ClockSources         []avdecc.ClockSourceIndex
}

func DecodeClockDomain(body []byte) (ClockDomain, error) {
	if err := checkMinSize(body, 70); err != nil {
		return ClockDomain{}, err
	}
	var c ClockDomain
	copy(c.ObjectName[:], body[0:64])
	c.LocalizedDescription = avdecc.StringsIndex(be16(body[64:66]))
	c.ClockSourceIndex = avdecc.ClockSourceIndex(be16(body[66:68]))
	count := int(be16(body[68:70]))
	need := 70 + count*2
	if err := checkMinSize(body, need); err != nil {
		return ClockDomain{}, err
	}
	c.ClockSources = make([]avdecc.ClockSourceIndex, count)
	for i := 0; i < count; i++ {
		c.ClockSources[i] = avdecc.ClockSourceIndex(be16(body[70+i*2 : 72+i*2]))
	}
	return c, nil
}

// Jack is the common shape of JACK_INPUT and JACK_OUTPUT descriptors.
type Jack struct {
	ObjectName           avdecc.AvdeccFixedString
	LocalizedDescription avdecc.StringsIndex
	JackFlags            uint16
	JackType             uint16
	NumberOfControls     uint16
	BaseControl          avdecc.ControlIndex
}

const jackSize = 64 + 2 + 2 + 2 + 2 + 2

func DecodeJack(body []byte) (Jack, error) {
	if err := checkMinSize(body, jackSize); err != nil {
		return Jack{}, err
	}
	var j Jack
	copy(j.ObjectName[:], body[0:64])
	j.LocalizedDescription = avdecc.StringsIndex(be16(body[64:66]))
	j.JackFlags = be16(body[66:68])
	j.JackType = be16(body[68:70])
	j.NumberOfControls = be16(body[70:72])
	j.BaseControl = avdecc.ControlIndex(be16(body[72:74]))
	return j, nil
}

// MemoryObject is the MEMORY_OBJECT descriptor: firmware images, crash
// dumps, or other addressable blobs an entity exposes for upload/download.
type MemoryObject struct {
	ObjectName            avdecc.AvdeccFixedString
	LocalizedDescription  avdecc.StringsIndex
	MemoryObjectType      uint16
	TargetDescriptorType  avdecc.DescriptorType
	TargetDescriptorIndex avdecc.DescriptorIndexValue
	StartAddress          uint64
	MaximumLength         uint64
	Length                uint64
}

const memoryObjectSize = 64 + 2 + 2 + 2 + 2 + 8 + 8 + 8

func DecodeMemoryObject(body []byte) (MemoryObject, error) {
	if err := checkMinSize(body, memoryObjectSize); err != nil {
		return MemoryObject{}, err
	}
	var m MemoryObject
	copy(m.ObjectName[:], body[0:64])
	m.LocalizedDescription = avdecc.StringsIndex(be16(body[64:66]))
	m.MemoryObjectType = be16(body[66:68])
	m.TargetDescriptorType = avdecc.DescriptorType(be16(body[68:70]))
	m.TargetDescriptorIndex = avdecc.DescriptorIndexValue(be16(body[70:72]))
	m.StartAddress = avdecc.Uint64(body[72:80])
	m.MaximumLength = avdecc.Uint64(body[80:88])
	m.Length = avdecc.Uint64(body[88:96])
	return m, nil
}

// Locale is the LOCALE descriptor: a language tag plus the STRINGS
// descriptor range holding that language's localized text.
type Locale struct {
	LocaleID        avdecc.AvdeccFixedString
	NumberOfStrings uint16
	BaseStrings     avdecc.StringsIndex
}

const localeSize = 64 + 2 + 2

func DecodeLocale(body []byte) (Locale, error) {
	if err := checkMinSize(body, localeSize); err != nil {
		return Locale{}, err
	}
	var l Locale
	copy(l.LocaleID[:], body[0:64])
	l.NumberOfStrings = be16(body[64:66])
	l.BaseStrings = avdecc.StringsIndex(be16(body[66:68]))
	return l, nil
}

// Strings is the STRINGS descriptor: up to 7 fixed 64-byte localized
// strings referenced by StringsIndex from other descriptors' name fields.
type Strings struct {
	Values [7]avdecc.AvdeccFixedString
}

const stringsSize = 7 * 64

func DecodeStrings(body []byte) (Strings, error) {
	if err := checkMinSize(body, stringsSize); err != nil {
		return Strings{}, err
	}
	var s Strings
	for i := 0; i < 7; i++ {
		copy(s.Values[i][:], body[i*64:(i+1)*64])
	}
	return s, nil
}

// StreamPortInOut is the common shape of STREAM_PORT_INPUT and
// STREAM_PORT_OUTPUT descriptors: the grouping node between a unit's
// clock domain and the clusters/maps that carry its channels.
type StreamPortInOut struct {
	ClockDomainIndex avdecc.ClockDomainIndex
	PortFlags        uint16
	NumberOfControls uint16
	BaseControl      avdecc.ControlIndex
	NumberOfClusters uint16
	BaseCluster      avdecc.AudioClusterIndex
	NumberOfMaps     uint16
	BaseMap          avdecc.AudioMapIndex
}

const streamPortInOutSize = 2 * 8

func DecodeStreamPortInOut(body []byte) (StreamPortInOut, error) {
	if err := checkMinSize(body, streamPortInOutSize); err != nil {
		return StreamPortInOut{}, err
	}
	return StreamPortInOut{
		ClockDomainIndex: avdecc.ClockDomainIndex(be16(body[0:2])),
		PortFlags:        be16(body[2:4]),
		NumberOfControls: be16(body[4:6]),
		BaseControl:      avdecc.ControlIndex(be16(body[6:8])),
		NumberOfClusters: be16(body[8:10]),
		BaseCluster:      avdecc.AudioClusterIndex(be16(body[10:12])),
		NumberOfMaps:     be16(body[12:14]),
		BaseMap:          avdecc.AudioMapIndex(be16(body[14:16])),
	}, nil
}

// Port is the common shape of EXTERNAL_PORT_INPUT/OUTPUT and
// INTERNAL_PORT_INPUT/OUTPUT descriptors: a single signal-carrying
// connector inside a StreamPortInOut's port group.
type Port struct {
	ClockDomainIndex avdecc.ClockDomainIndex
	PortFlags        uint16
	NumberOfControls uint16
	BaseControl      avdecc.ControlIndex
	SignalType       avdecc.DescriptorType
	SignalIndex      avdecc.DescriptorIndexValue
	SignalOutput     uint16
	BlockLatency     uint32
	JackIndex        avdecc.JackIndex
}

const portSize = 2 + 2 + 2 + 2 + 2 + 2 + 2 + 4 + 2

func DecodePort(body []byte) (Port, error) {
	if err := checkMinSize(body, portSize); err != nil {
		return Port{}, err
	}
	return Port{
		ClockDomainIndex: avdecc.ClockDomainIndex(be16(body[0:2])),
		PortFlags:        be16(body[2:4]),
		NumberOfControls: be16(body[4:6]),
		BaseControl:      avdecc.ControlIndex(be16(body[6:8])),
		SignalType:       avdecc.DescriptorType(be16(body[8:10])),
		SignalIndex:      avdecc.DescriptorIndexValue(be16(body[10:12])),
		SignalOutput:     be16(body[12:14]),
		BlockLatency:     be32(body[14:18]),
		JackIndex:        avdecc.JackIndex(be16(body[18:20])),
	}, nil
}

// AudioCluster is the AUDIO_CLUSTER descriptor: one group of co-located
// audio channels (e.g. a stereo pair) feeding a signal path.
type AudioCluster struct {
	ObjectName           avdecc.AvdeccFixedString
	LocalizedDescription avdecc.StringsIndex
	SignalType           avdecc.DescriptorType
	SignalIndex          avdecc.DescriptorIndexValue
	SignalOutput         uint16
	PathLatency          uint32
	BlockLatency         uint32
	ChannelCount         uint16
	Format               uint8
}

const audioClusterSize = 64 + 2 + 2 + 2 + 2 + 4 + 4 + 2 + 1

func DecodeAudioCluster(body []byte) (AudioCluster, error) {
	if err := checkMinSize(body, audioClusterSize); err != nil {
		return AudioCluster{}, err
	}
	var a AudioCluster
	copy(a.ObjectName[:], body[0:64])
	a.LocalizedDescription = avdecc.StringsIndex(be16(body[64:66]))
	a.SignalType = avdecc.DescriptorType(be16(body[66:68]))
	a.SignalIndex = avdecc.DescriptorIndexValue(be16(body[68:70]))
	a.SignalOutput = be16(body[70:72])
	a.PathLatency = be32(body[72:76])
	a.BlockLatency = be32(body[76:80])
	a.ChannelCount = be16(body[80:82])
	a.Format = body[82]
	return a, nil
}

// AudioMapping is one (stream channel) <-> (cluster channel) binding
// inside an AUDIO_MAP descriptor.
type AudioMapping struct {
	StreamIndex   avdecc.StreamIndex
	StreamChannel uint16
	ClusterOffset uint16
	ClusterChannel uint16
}

// AudioMap is the AUDIO_MAP descriptor: the channel routing table bound
// to a StreamPortInOut via ADD/REMOVE_AUDIO_MAPPINGS.
type AudioMap struct {
	Mappings []AudioMapping
}

func DecodeAudioMap(body []byte) (AudioMap, error) {
	if err := checkMinSize(body, 4); err != nil {
		return AudioMap{}, err
	}
	count := int(be16(body[0:2]))
	need := 4 + count*8
	if err := checkMinSize(body, need); err != nil {
		return AudioMap{}, err
	}
	m := AudioMap{Mappings: make([]AudioMapping, count)}
	for i := 0; i < count; i++ {
		row := body[4+i*8:]
		m.Mappings[i] = AudioMapping{
			StreamIndex:    avdecc.StreamIndex(be16(row[0:2])),
			StreamChannel:  be16(row[2:4]),
			ClusterOffset:  be16(row[4:6]),
			ClusterChannel: be16(row[6:8]),
		}
	}
	return m, nil
}

// Control is the CONTROL descriptor: one read/write control value
// exposed for automation (gain, mute, identify, …).
type Control struct {
	ObjectName           avdecc.AvdeccFixedString
	LocalizedDescription avdecc.StringsIndex
	BlockLatency         uint32
	ControlLatency       uint32
	ControlDomain        uint16
	ControlValueType     uint16
	ControlType          avdecc.EntityID
	ResetTime            uint32
	SignalType           avdecc.DescriptorType
	SignalIndex          avdecc.DescriptorIndexValue
	SignalOutput         uint16
	Values               []byte
}

const controlFixedSize = 64 + 2 + 4 + 4 + 2 + 2 + 8 + 4 + 2 + 2 + 2 + 2

func DecodeControl(body []byte) (Control, error) {
	if err := checkMinSize(body, controlFixedSize); err != nil {
		return Control{}, err
	}
	var c Control
	copy(c.ObjectName[:], body[0:64])
	c.LocalizedDescription = avdecc.StringsIndex(be16(body[64:66]))
	c.BlockLatency = be32(body[66:70])
	c.ControlLatency = be32(body[70:74])
	c.ControlDomain = be16(body[74:76])
	c.ControlValueType = be16(body[76:78])
	c.ControlType = avdecc.EntityID(avdecc.Uint64(body[78:86]))
	c.ResetTime = be32(body[86:90])
	c.SignalType = avdecc.DescriptorType(be16(body[92:94]))
	c.SignalIndex = avdecc.DescriptorIndexValue(be16(body[94:96]))
	c.SignalOutput = be16(body[96:98])
	valuesOffset := be16(body[90:92])
	if int(valuesOffset) < len(body) {
		c.Values = append([]byte(nil), body[valuesOffset:]...)
	}
	return c, nil
}

// ControlBlock is the CONTROL_BLOCK descriptor: a named grouping of
// related CONTROL descriptors with no fields of its own besides identity.
type ControlBlock struct {
	ObjectName           avdecc.AvdeccFixedString
	LocalizedDescription avdecc.StringsIndex
}

const controlBlockSize = 64 + 2

func DecodeControlBlock(body []byte) (ControlBlock, error) {
	if err := checkMinSize(body, controlBlockSize); err != nil {
		return ControlBlock{}, err
	}
	var c ControlBlock
	copy(c.ObjectName[:], body[0:64])
	c.LocalizedDescription = avdecc.StringsIndex(be16(body[64:66]))
	return c, nil
}

// SignalSelector is the SIGNAL_SELECTOR descriptor: a routable N-input,
// 1-output selector (e.g. redundant-source failover) with a current
// default/selected index.
type SignalSelector struct {
	ObjectName           avdecc.AvdeccFixedString
	LocalizedDescription avdecc.StringsIndex
	ControlDomain        uint16
	SignalType           avdecc.DescriptorType
	MaxSources           uint16
	Sources              []avdecc.DescriptorIndexValue
	DefaultIndex         uint16
	CurrentIndex         uint16
}

const signalSelectorFixedSize = 64 + 2 + 2 + 2 + 2

func DecodeSignalSelector(body []byte) (SignalSelector, error) {
	if err := checkMinSize(body, signalSelectorFixedSize); err != nil {
		return SignalSelector{}, err
	}
	var s SignalSelector
	copy(s.ObjectName[:], body[0:64])
	s.LocalizedDescription = avdecc.StringsIndex(be16(body[64:66]))
	s.ControlDomain = be16(body[66:68])
	s.SignalType = avdecc.DescriptorType(be16(body[68:70]))
	s.MaxSources = be16(body[70:72])
	need := signalSelectorFixedSize + int(s.MaxSources)*2 + 4
	if err := checkMinSize(body, need); err != nil {
		return SignalSelector{}, err
	}
	s.Sources = make([]avdecc.DescriptorIndexValue, s.MaxSources)
	for i := 0; i < int(s.MaxSources); i++ {
		off := signalSelectorFixedSize + i*2
		s.Sources[i] = avdecc.DescriptorIndexValue(be16(body[off : off+2]))
	}
	tail := signalSelectorFixedSize + int(s.MaxSources)*2
	s.DefaultIndex = be16(body[tail : tail+2])
	s.CurrentIndex = be16(body[tail+2 : tail+4])
	return s, nil
}

// Mixer is the MIXER descriptor: an N-input summing node with no wire
// fields of its own beyond identity and its source/sink counts, which
// are carried by the surrounding signal-path descriptors rather than
// the mixer itself (IEEE 1722.1-2021 table 7.38).
type Mixer struct {
	ObjectName           avdecc.AvdeccFixedString
	LocalizedDescription avdecc.StringsIndex
}

const mixerSize = 64 + 2

func DecodeMixer(body []byte) (Mixer, error) {
	if err := checkMinSize(body, mixerSize); err != nil {
		return Mixer{}, err
	}
	var m Mixer
	copy(m.ObjectName[:], body[0:64])
	m.LocalizedDescription = avdecc.StringsIndex(be16(body[64:66]))
	return m, nil
}

// DecodeDescriptor dispatches body to the descriptor-specific decoder
// selected by descriptorType, returning the decoded struct as an
// interface{} (spec.md §4.2: "descriptor-specific decoders are selected
// by the descriptor type carried in that prefix").
func DecodeDescriptor(descriptorType avdecc.DescriptorType, body []byte) (interface{}, error) {
	switch descriptorType {
	case avdecc.DescriptorEntity:
		return DecodeEntity(body)
	case avdecc.DescriptorConfiguration:
		return DecodeConfiguration(body)
	case avdecc.DescriptorAudioUnit:
		return DecodeAudioUnit(body)
	case avdecc.DescriptorStreamInput, avdecc.DescriptorStreamOutput:
		return DecodeStreamPort(body)
	case avdecc.DescriptorJackInput, avdecc.DescriptorJackOutput:
		return DecodeJack(body)
	case avdecc.DescriptorAvbInterface:
		return DecodeAvbInterface(body)
	case avdecc.DescriptorClockSource:
		return DecodeClockSource(body)
	case avdecc.DescriptorMemoryObject:
		return DecodeMemoryObject(body)
	case avdecc.DescriptorLocale:
		return DecodeLocale(body)
	case avdecc.DescriptorStrings:
		return DecodeStrings(body)
	case avdecc.DescriptorStreamPortInput, avdecc.DescriptorStreamPortOutput:
		return DecodeStreamPortInOut(body)
	case avdecc.DescriptorExternalPortInput, avdecc.DescriptorExternalPortOutput,
		avdecc.DescriptorInternalPortInput, avdecc.DescriptorInternalPortOutput:
		return DecodePort(body)
	case avdecc.DescriptorAudioCluster:
		return DecodeAudioCluster(body)
	case avdecc.DescriptorAudioMap:
		return DecodeAudioMap(body)
	case avdecc.DescriptorControl:
		return DecodeControl(body)
	case avdecc.DescriptorControlBlock:
		return DecodeControlBlock(body)
	case avdecc.DescriptorSignalSelector:
		return DecodeSignalSelector(body)
	case avdecc.DescriptorMixer:
		return DecodeMixer(body)
	case avdecc.DescriptorClockDomain:
		return DecodeClockDomain(body)
	default:
		// VideoUnit/SensorUnit/VideoCluster/SensorCluster/VideoMap/SensorMap
		// (Non-goals exclude video/sensor sample transport) and the
		// Matrix/MatrixSignal/SignalSplitter/SignalCombiner/
		// SignalDemultiplexer/SignalMultiplexer/SignalTranscoder/Timing/
		// PtpInstance/PtpPort family (no signal-routing-matrix or gPTP
		// instance model in this engine's scope) have no decoder; for them
		// DecodeDescriptor returns only this error, and ReadDescriptor passes
		// it on without the raw bytes.
		return nil, &avdecc.PayloadError{Kind: avdecc.PayloadInvalidDescriptorType}
	}
}
