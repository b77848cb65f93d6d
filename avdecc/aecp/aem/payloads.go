package aem

import (
	"github.com/avnu-align/avdecc-engine/avdecc"
)

func be16(b []byte) uint16 { return uint16(b[0])<<8 | uint16(b[1]) }
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

// checkMinSize enforces the per-command-type size table invariant
// (spec.md §4.2): deserialization fails with PayloadIncorrectSize if
// body is shorter than the declared minimum. Overlong payloads are
// accepted silently — trailing bytes are ignored.
func checkMinSize(body []byte, min int) error {
	if len(body) < min {
		return &avdecc.PayloadError{Kind: avdecc.PayloadIncorrectSize}
	}
	return nil
}

// AcquireFlags is the AcquireEntity/LockEntity flags bitmask.
type AcquireFlags uint32

const (
	AcquireFlagPersistent AcquireFlags = 1 << 0
	AcquireFlagRelease    AcquireFlags = 1 << 31
)

// AcquireEntityPayload is the ACQUIRE_ENTITY command/response body.
type AcquireEntityPayload struct {
	Flags          AcquireFlags
	OwnerID        avdecc.EntityID
	DescriptorType avdecc.DescriptorType
	DescriptorIndex avdecc.DescriptorIndexValue
}

func (p AcquireEntityPayload) Encode() []byte {
	b := make([]byte, 16)
	putBE32(b[0:4], uint32(p.Flags))
	avdecc.PutUint64(b[4:12], uint64(p.OwnerID))
	putBE16(b[12:14], uint16(p.DescriptorType))
	putBE16(b[14:16], uint16(p.DescriptorIndex))
	return b
}

func DecodeAcquireEntity(body []byte) (AcquireEntityPayload, error) {
	if err := checkMinSize(body, 16); err != nil {
		return AcquireEntityPayload{}, err
	}
	return AcquireEntityPayload{
		Flags:           AcquireFlags(be32(body[0:4])),
		OwnerID:         avdecc.EntityID(avdecc.Uint64(body[4:12])),
		DescriptorType:  avdecc.DescriptorType(be16(body[12:14])),
		DescriptorIndex: avdecc.DescriptorIndexValue(be16(body[14:16])),
	}, nil
}

// LockEntityPayload is the LOCK_ENTITY command/response body.
type LockEntityPayload struct {
	Flags           AcquireFlags
	LockedID        avdecc.EntityID
	DescriptorType  avdecc.DescriptorType
	DescriptorIndex avdecc.DescriptorIndexValue
}

func (p LockEntityPayload) Encode() []byte {
	b := make([]byte, 16)
	putBE32(b[0:4], uint32(p.Flags))
	avdecc.PutUint64(b[4:12], uint64(p.LockedID))
	putBE16(b[12:14], uint16(p.DescriptorType))
	putBE16(b[14:16], uint16(p.DescriptorIndex))
	return b
}

func DecodeLockEntity(body []byte) (LockEntityPayload, error) {
	if err := checkMinSize(body, 16); err != nil {
		return LockEntityPayload{}, err
	}
	return LockEntityPayload{
		Flags:           AcquireFlags(be32(body[0:4])),
		LockedID:        avdecc.EntityID(avdecc.Uint64(body[4:12])),
		DescriptorType:  avdecc.DescriptorType(be16(body[12:14])),
		DescriptorIndex: avdecc.DescriptorIndexValue(be16(body[14:16])),
	}, nil
}

// ReadDescriptorCommand is the READ_DESCRIPTOR command body.
type ReadDescriptorCommand struct {
	ConfigurationIndex avdecc.ConfigurationIndex
	DescriptorType     avdecc.DescriptorType
	DescriptorIndex    avdecc.DescriptorIndexValue
}

func (p ReadDescriptorCommand) Encode() []byte {
	b := make([]byte, 8)
	putBE16(b[0:2], uint16(p.ConfigurationIndex))
	// b[2:4] reserved
	putBE16(b[4:6], uint16(p.DescriptorType))
	putBE16(b[6:8], uint16(p.DescriptorIndex))
	return b
}

func DecodeReadDescriptorCommand(body []byte) (ReadDescriptorCommand, error) {
	if err := checkMinSize(body, 8); err != nil {
		return ReadDescriptorCommand{}, err
	}
	return ReadDescriptorCommand{
		ConfigurationIndex: avdecc.ConfigurationIndex(be16(body[0:2])),
		DescriptorType:     avdecc.DescriptorType(be16(body[4:6])),
		DescriptorIndex:    avdecc.DescriptorIndexValue(be16(body[6:8])),
	}, nil
}

// ReadDescriptorResponsePrefix is the 8-octet common prefix of every
// READ_DESCRIPTOR response; the descriptor-specific bytes that follow
// are decoded by the avdecc/descriptor package, selected on
// DescriptorType (spec.md §4.2).
type ReadDescriptorResponsePrefix struct {
	ConfigurationIndex avdecc.ConfigurationIndex
	DescriptorType     avdecc.DescriptorType
	DescriptorIndex    avdecc.DescriptorIndexValue
}

func DecodeReadDescriptorResponsePrefix(body []byte) (ReadDescriptorResponsePrefix, []byte, error) {
	if err := checkMinSize(body, 8); err != nil {
		return ReadDescriptorResponsePrefix{}, nil, err
	}
	p := ReadDescriptorResponsePrefix{
		ConfigurationIndex: avdecc.ConfigurationIndex(be16(body[0:2])),
		DescriptorType:     avdecc.DescriptorType(be16(body[4:6])),
		DescriptorIndex:    avdecc.DescriptorIndexValue(be16(body[6:8])),
	}
	return p, body[8:], nil
}

func (p ReadDescriptorResponsePrefix) Encode(descriptor []byte) []byte {
	b := make([]byte, 8+len(descriptor))
	putBE16(b[0:2], uint16(p.ConfigurationIndex))
	putBE16(b[4:6], uint16(p.DescriptorType))
	putBE16(b[6:8], uint16(p.DescriptorIndex))
	copy(b[8:], descriptor)
	return b
}

// ConfigurationPayload is the SET/GET_CONFIGURATION command/response body.
type ConfigurationPayload struct {
	ConfigurationIndex avdecc.ConfigurationIndex
}

func (p ConfigurationPayload) Encode() []byte {
	b := make([]byte, 2)
	putBE16(b, uint16(p.ConfigurationIndex))
	return b
}

func DecodeConfiguration(body []byte) (ConfigurationPayload, error) {
	if err := checkMinSize(body, 2); err != nil {
		return ConfigurationPayload{}, err
	}
	return ConfigurationPayload{ConfigurationIndex: avdecc.ConfigurationIndex(be16(body[0:2]))}, nil
}

// StreamFormatPayload is the SET/GET_STREAM_FORMAT command/response body.
type StreamFormatPayload struct {
	DescriptorType  avdecc.DescriptorType
	DescriptorIndex avdecc.StreamIndex
	StreamFormat    avdecc.StreamFormat
}

func (p StreamFormatPayload) Encode() []byte {
	b := make([]byte, 12)
	putBE16(b[0:2], uint16(p.DescriptorType))
	putBE16(b[2:4], uint16(p.DescriptorIndex))
	avdecc.PutUint64(b[4:12], uint64(p.StreamFormat))
	return b
}

func DecodeStreamFormat(body []byte, min int) (StreamFormatPayload, error) {
	if err := checkMinSize(body, min); err != nil {
		return StreamFormatPayload{}, err
	}
	p := StreamFormatPayload{
		DescriptorType:  avdecc.DescriptorType(be16(body[0:2])),
		DescriptorIndex: avdecc.StreamIndex(be16(body[2:4])),
	}
	if len(body) >= 12 {
		p.StreamFormat = avdecc.StreamFormat(avdecc.Uint64(body[4:12]))
	}
	return p, nil
}

// StreamInfoFlags flags the fields actually carried by a StreamInfo
// payload (not every field is always populated).
type StreamInfoFlags uint32

const (
	StreamInfoClassB             StreamInfoFlags = 1 << 0
	StreamInfoFastConnect        StreamInfoFlags = 1 << 1
	StreamInfoSavedState         StreamInfoFlags = 1 << 2
	StreamInfoStreamFormatValid  StreamInfoFlags = 1 << 3
	StreamInfoConnected          StreamInfoFlags = 1 << 4
	StreamInfoMsrpFailureValid   StreamInfoFlags = 1 << 5
	StreamInfoStreamDestMacValid StreamInfoFlags = 1 << 6
	StreamInfoStreamIDValid      StreamInfoFlags = 1 << 7
	StreamInfoStreamVlanValid    StreamInfoFlags = 1 << 8
)

// StreamInfoPayload is the SET/GET_STREAM_INFO command/response body.
type StreamInfoPayload struct {
	DescriptorType          avdecc.DescriptorType
	DescriptorIndex         avdecc.StreamIndex
	Flags                   StreamInfoFlags
	StreamFormat            avdecc.StreamFormat
	StreamID                avdecc.EntityID
	MsrpAccumulatedLatency  uint32
	StreamDestMac           avdecc.MacAddress
	MsrpFailureCode         uint8
	MsrpFailureBridgeID     avdecc.EntityID
	StreamVlanID            uint16
}

func (p StreamInfoPayload) Encode() []byte {
	b := make([]byte, 48)
	putBE16(b[0:2], uint16(p.DescriptorType))
	putBE16(b[2:4], uint16(p.DescriptorIndex))
	putBE32(b[4:8], uint32(p.Flags))
	avdecc.PutUint64(b[8:16], uint64(p.StreamFormat))
	avdecc.PutUint64(b[16:24], uint64(p.StreamID))
	putBE32(b[24:28], p.MsrpAccumulatedLatency)
	copy(b[28:34], p.StreamDestMac[:])
	b[34] = p.MsrpFailureCode
	avdecc.PutUint64(b[35:43], uint64(p.MsrpFailureBridgeID))
	putBE16(b[43:45], p.StreamVlanID)
	return b
}

func DecodeStreamInfo(body []byte) (StreamInfoPayload, error) {
	if err := checkMinSize(body, 45); err != nil {
		return StreamInfoPayload{}, err
	}
	return StreamInfoPayload{
		DescriptorType:         avdecc.DescriptorType(be16(body[0:2])),
		DescriptorIndex:        avdecc.StreamIndex(be16(body[2:4])),
		Flags:                  StreamInfoFlags(be32(body[4:8])),
		StreamFormat:           avdecc.StreamFormat(avdecc.Uint64(body[8:16])),
		StreamID:               avdecc.EntityID(avdecc.Uint64(body[16:24])),
		MsrpAccumulatedLatency: be32(body[24:28]),
		StreamDestMac:          avdecc.ParseMacAddress(body[28:34]),
		MsrpFailureCode:        body[34],
		MsrpFailureBridgeID:    avdecc.EntityID(avdecc.Uint64(body[35:43])),
		StreamVlanID:           be16(body[43:45]),
	}, nil
}

// NamePayload is the SET/GET_NAME command/response body. The
// descriptor_type/descriptor_index pair carries polymorphic meaning
// the codec does not validate; see spec.md §4.2.
type NamePayload struct {
	DescriptorType     avdecc.DescriptorType
	DescriptorIndex    avdecc.DescriptorIndexValue
	NameIndex          uint16
	ConfigurationIndex avdecc.ConfigurationIndex
	Name               avdecc.AvdeccFixedString
}

func (p NamePayload) Encode() []byte {
	b := make([]byte, 72)
	putBE16(b[0:2], uint16(p.DescriptorType))
	putBE16(b[2:4], uint16(p.DescriptorIndex))
	putBE16(b[4:6], p.NameIndex)
	putBE16(b[6:8], uint16(p.ConfigurationIndex))
	copy(b[8:72], p.Name[:])
	return b
}

func DecodeName(body []byte) (NamePayload, error) {
	if err := checkMinSize(body, 72); err != nil {
		return NamePayload{}, err
	}
	var name avdecc.AvdeccFixedString
	copy(name[:], body[8:72])
	return NamePayload{
		DescriptorType:     avdecc.DescriptorType(be16(body[0:2])),
		DescriptorIndex:    avdecc.DescriptorIndexValue(be16(body[2:4])),
		NameIndex:          be16(body[4:6]),
		ConfigurationIndex: avdecc.ConfigurationIndex(be16(body[6:8])),
		Name:               name,
	}, nil
}

// SamplingRatePayload is the SET/GET_SAMPLING_RATE command/response body.
type SamplingRatePayload struct {
	DescriptorType  avdecc.DescriptorType
	DescriptorIndex avdecc.AudioUnitIndex
	SamplingRate    avdecc.SamplingRate
}

func (p SamplingRatePayload) Encode() []byte {
	b := make([]byte, 8)
	putBE16(b[0:2], uint16(p.DescriptorType))
	putBE16(b[2:4], uint16(p.DescriptorIndex))
	putBE32(b[4:8], uint32(p.SamplingRate))
	return b
}

func DecodeSamplingRate(body []byte) (SamplingRatePayload, error) {
	if err := checkMinSize(body, 8); err != nil {
		return SamplingRatePayload{}, err
	}
	return SamplingRatePayload{
		DescriptorType:  avdecc.DescriptorType(be16(body[0:2])),
		DescriptorIndex: avdecc.AudioUnitIndex(be16(body[2:4])),
		SamplingRate:    avdecc.SamplingRate(be32(body[4:8])),
	}, nil
}

// ClockSourcePayload is the SET/GET_CLOCK_SOURCE command/response body.
type ClockSourcePayload struct {
	DescriptorType   avdecc.DescriptorType
	DescriptorIndex  avdecc.ClockDomainIndex
	ClockSourceIndex avdecc.ClockSourceIndex
}

func (p ClockSourcePayload) Encode() []byte {
	b := make([]byte, 6)
	putBE16(b[0:2], uint16(p.DescriptorType))
	putBE16(b[2:4], uint16(p.DescriptorIndex))
	putBE16(b[4:6], uint16(p.ClockSourceIndex))
	return b
}

func DecodeClockSource(body []byte) (ClockSourcePayload, error) {
	if err := checkMinSize(body, 6); err != nil {
		return ClockSourcePayload{}, err
	}
	return ClockSourcePayload{
		DescriptorType:   avdecc.DescriptorType(be16(body[0:2])),
		DescriptorIndex:  avdecc.ClockDomainIndex(be16(body[2:4])),
		ClockSourceIndex: avdecc.ClockSourceIndex(be16(body[4:6])),
	}, nil
}

// ControlPayload is the SET/GET_CONTROL command/response body. The
// control value is transported verbatim — interpretation depends on
// the control descriptor and is not this codec's concern (spec.md §4.2).
type ControlPayload struct {
	DescriptorType  avdecc.DescriptorType
	DescriptorIndex avdecc.ControlIndex
	Value           []byte
}

func (p ControlPayload) Encode() []byte {
	b := make([]byte, 4+len(p.Value))
	putBE16(b[0:2], uint16(p.DescriptorType))
	putBE16(b[2:4], uint16(p.DescriptorIndex))
	copy(b[4:], p.Value)
	return b
}

func DecodeControl(body []byte) (ControlPayload, error) {
	if err := checkMinSize(body, 4); err != nil {
		return ControlPayload{}, err
	}
	value := make([]byte, len(body)-4)
	copy(value, body[4:])
	return ControlPayload{
		DescriptorType:  avdecc.DescriptorType(be16(body[0:2])),
		DescriptorIndex: avdecc.ControlIndex(be16(body[2:4])),
		Value:           value,
	}, nil
}

// StreamingPayload is the START/STOP_STREAMING command/response body.
type StreamingPayload struct {
	DescriptorType  avdecc.DescriptorType
	DescriptorIndex avdecc.StreamIndex
}

func (p StreamingPayload) Encode() []byte {
	b := make([]byte, 4)
	putBE16(b[0:2], uint16(p.DescriptorType))
	putBE16(b[2:4], uint16(p.DescriptorIndex))
	return b
}

func DecodeStreaming(body []byte) (StreamingPayload, error) {
	if err := checkMinSize(body, 4); err != nil {
		return StreamingPayload{}, err
	}
	return StreamingPayload{
		DescriptorType:  avdecc.DescriptorType(be16(body[0:2])),
		DescriptorIndex: avdecc.StreamIndex(be16(body[2:4])),
	}, nil
}

// AvbInfoCommand is the GET_AVB_INFO command body.
type AvbInfoCommand struct {
	DescriptorType  avdecc.DescriptorType
	DescriptorIndex avdecc.AvbInterfaceIndex
}

func DecodeAvbInfoCommand(body []byte) (AvbInfoCommand, error) {
	if err := checkMinSize(body, 4); err != nil {
		return AvbInfoCommand{}, err
	}
	return AvbInfoCommand{
		DescriptorType:  avdecc.DescriptorType(be16(body[0:2])),
		DescriptorIndex: avdecc.AvbInterfaceIndex(be16(body[2:4])),
	}, nil
}

func (p AvbInfoCommand) Encode() []byte {
	b := make([]byte, 4)
	putBE16(b[0:2], uint16(p.DescriptorType))
	putBE16(b[2:4], uint16(p.DescriptorIndex))
	return b
}

// AvbInfoResponse is the GET_AVB_INFO response body. The 16-octet
// fixed prefix matches responseSizes[GetAvbInfo]; MsrpMappings is the
// variable region beyond it, transported verbatim.
type AvbInfoResponse struct {
	DescriptorType    avdecc.DescriptorType
	DescriptorIndex   avdecc.AvbInterfaceIndex
	GptpGrandmasterID avdecc.EntityID
	GptpDomainNumber  uint8
	Flags             uint8
	MsrpMappings      []byte
}

func (p AvbInfoResponse) Encode() []byte {
	b := make([]byte, 16+len(p.MsrpMappings))
	putBE16(b[0:2], uint16(p.DescriptorType))
	putBE16(b[2:4], uint16(p.DescriptorIndex))
	avdecc.PutUint64(b[4:12], uint64(p.GptpGrandmasterID))
	b[12] = p.GptpDomainNumber
	b[13] = p.Flags
	copy(b[16:], p.MsrpMappings)
	return b
}

func DecodeAvbInfoResponse(body []byte) (AvbInfoResponse, error) {
	if err := checkMinSize(body, 16); err != nil {
		return AvbInfoResponse{}, err
	}
	return AvbInfoResponse{
		DescriptorType:    avdecc.DescriptorType(be16(body[0:2])),
		DescriptorIndex:   avdecc.AvbInterfaceIndex(be16(body[2:4])),
		GptpGrandmasterID: avdecc.EntityID(avdecc.Uint64(body[4:12])),
		GptpDomainNumber:  body[12],
		Flags:             body[13],
		MsrpMappings:      append([]byte(nil), body[16:]...),
	}, nil
}

// AsPathCommand is the GET_AS_PATH command body.
type AsPathCommand struct {
	DescriptorIndex avdecc.AvbInterfaceIndex
}

func DecodeAsPathCommand(body []byte) (AsPathCommand, error) {
	if err := checkMinSize(body, 4); err != nil {
		return AsPathCommand{}, err
	}
	return AsPathCommand{DescriptorIndex: avdecc.AvbInterfaceIndex(be16(body[2:4]))}, nil
}

// AsPathResponse is the GET_AS_PATH response body: a count followed
// by that many 8-octet clock identities.
type AsPathResponse struct {
	DescriptorIndex avdecc.AvbInterfaceIndex
	Path            []avdecc.EntityID
}

func DecodeAsPathResponse(body []byte) (AsPathResponse, error) {
	if err := checkMinSize(body, 6); err != nil {
		return AsPathResponse{}, err
	}
	count := int(be16(body[4:6]))
	need := 6 + count*8
	if err := checkMinSize(body, need); err != nil {
		return AsPathResponse{}, err
	}
	path := make([]avdecc.EntityID, count)
	for i := 0; i < count; i++ {
		path[i] = avdecc.EntityID(avdecc.Uint64(body[6+i*8 : 14+i*8]))
	}
	return AsPathResponse{
		DescriptorIndex: avdecc.AvbInterfaceIndex(be16(body[2:4])),
		Path:            path,
	}, nil
}

// CountersResponse is the GET_COUNTERS response body: a bitmap of
// which of the 32 fixed counter slots are valid, followed by 32
// 4-octet counters in slot order.
type CountersResponse struct {
	DescriptorType  avdecc.DescriptorType
	DescriptorIndex avdecc.DescriptorIndexValue
	ValidCounters   uint32
	Counters        [32]uint32
}

func DecodeCountersResponse(body []byte) (CountersResponse, error) {
	if err := checkMinSize(body, 8+32*4); err != nil {
		return CountersResponse{}, err
	}
	r := CountersResponse{
		DescriptorType:  avdecc.DescriptorType(be16(body[0:2])),
		DescriptorIndex: avdecc.DescriptorIndexValue(be16(body[2:4])),
		ValidCounters:   be32(body[4:8]),
	}
	for i := 0; i < 32; i++ {
		r.Counters[i] = be32(body[8+i*4 : 12+i*4])
	}
	return r, nil
}

// AudioMappingQuad is one (stream_channel, cluster_offset,
// cluster_channel, map_index) entry in an audio map (spec.md §4.2).
type AudioMappingQuad struct {
	StreamChannel  uint16
	ClusterOffset  uint16
	ClusterChannel uint16
	MapIndex       uint16
}

func decodeMappingQuads(body []byte, n int) []AudioMappingQuad {
	out := make([]AudioMappingQuad, n)
	for i := 0; i < n; i++ {
		o := body[i*8 : i*8+8]
		out[i] = AudioMappingQuad{
			StreamChannel:  be16(o[0:2]),
			ClusterOffset:  be16(o[2:4]),
			ClusterChannel: be16(o[4:6]),
			MapIndex:       be16(o[6:8]),
		}
	}
	return out
}

func encodeMappingQuads(quads []AudioMappingQuad) []byte {
	out := make([]byte, len(quads)*8)
	for i, q := range quads {
		o := out[i*8 : i*8+8]
		putBE16(o[0:2], q.StreamChannel)
		putBE16(o[2:4], q.ClusterOffset)
		putBE16(o[4:6], q.ClusterChannel)
		putBE16(o[6:8], q.MapIndex)
	}
	return out
}

// GetAudioMapResponse is the GET_AUDIO_MAP response body. Multi-page:
// the caller issues successive GET_AUDIO_MAP commands with increasing
// MapIndex until a response carries no mappings (spec.md §4.2).
type GetAudioMapResponse struct {
	DescriptorType  avdecc.DescriptorType
	DescriptorIndex avdecc.StreamPortIndex
	MapIndex        uint16
	NumberOfMappings uint16
	Mappings        []AudioMappingQuad
}

func DecodeGetAudioMapResponse(body []byte) (GetAudioMapResponse, error) {
	if err := checkMinSize(body, 8); err != nil {
		return GetAudioMapResponse{}, err
	}
	numberOfMappings := int(be16(body[6:8]))
	need := 8 + numberOfMappings*8
	if err := checkMinSize(body, need); err != nil {
		return GetAudioMapResponse{}, err
	}
	return GetAudioMapResponse{
		DescriptorType:   avdecc.DescriptorType(be16(body[0:2])),
		DescriptorIndex:  avdecc.StreamPortIndex(be16(body[2:4])),
		MapIndex:         be16(body[4:6]),
		NumberOfMappings: uint16(numberOfMappings),
		Mappings:         decodeMappingQuads(body[8:], numberOfMappings),
	}, nil
}

// AudioMappingsPayload is the ADD/REMOVE_AUDIO_MAPPINGS command body.
type AudioMappingsPayload struct {
	DescriptorType  avdecc.DescriptorType
	DescriptorIndex avdecc.StreamPortIndex
	Mappings        []AudioMappingQuad
}

func (p AudioMappingsPayload) Encode() []byte {
	b := make([]byte, 8+len(p.Mappings)*8)
	putBE16(b[0:2], uint16(p.DescriptorType))
	putBE16(b[2:4], uint16(p.DescriptorIndex))
	putBE16(b[6:8], uint16(len(p.Mappings)))
	copy(b[8:], encodeMappingQuads(p.Mappings))
	return b
}

func DecodeAudioMappings(body []byte) (AudioMappingsPayload, error) {
	if err := checkMinSize(body, 8); err != nil {
		return AudioMappingsPayload{}, err
	}
	n := int(be16(body[6:8]))
	if err := checkMinSize(body, 8+n*8); err != nil {
		return AudioMappingsPayload{}, err
	}
	return AudioMappingsPayload{
		DescriptorType:  avdecc.DescriptorType(be16(body[0:2])),
		DescriptorIndex: avdecc.StreamPortIndex(be16(body[2:4])),
		Mappings:        decodeMappingQuads(body[8:], n),
	}, nil
}

// MemoryObjectLengthPayload is the SET/GET_MEMORY_OBJECT_LENGTH
// command/response body.
type MemoryObjectLengthPayload struct {
	ConfigurationIndex avdecc.ConfigurationIndex
	MemoryObjectIndex  avdecc.MemoryObjectIndex
	Length             uint64
}

func (p MemoryObjectLengthPayload) Encode() []byte {
	b := make([]byte, 12)
	putBE16(b[0:2], uint16(p.ConfigurationIndex))
	putBE16(b[2:4], uint16(p.MemoryObjectIndex))
	avdecc.PutUint64(b[4:12], p.Length)
	return b
}

func DecodeMemoryObjectLength(body []byte) (MemoryObjectLengthPayload, error) {
	if err := checkMinSize(body, 12); err != nil {
		return MemoryObjectLengthPayload{}, err
	}
	return MemoryObjectLengthPayload{
		ConfigurationIndex: avdecc.ConfigurationIndex(be16(body[0:2])),
		MemoryObjectIndex:  avdecc.MemoryObjectIndex(be16(body[2:4])),
		Length:             avdecc.Uint64(body[4:12]),
	}, nil
}

// OperationPayload is the START/ABORT_OPERATION command body and the
// shared prefix of the always-unsolicited OPERATION_STATUS response
// (spec.md §4.5: "An OPERATION_STATUS response is always unsolicited").
type OperationPayload struct {
	DescriptorType  avdecc.DescriptorType
	DescriptorIndex avdecc.DescriptorIndexValue
	OperationID     uint16
	OperationType   uint16
	OperationSpecific []byte
}

func (p OperationPayload) Encode() []byte {
	b := make([]byte, 8+len(p.OperationSpecific))
	putBE16(b[0:2], uint16(p.DescriptorType))
	putBE16(b[2:4], uint16(p.DescriptorIndex))
	putBE16(b[4:6], p.OperationID)
	putBE16(b[6:8], p.OperationType)
	copy(b[8:], p.OperationSpecific)
	return b
}

func DecodeOperation(body []byte) (OperationPayload, error) {
	if err := checkMinSize(body, 8); err != nil {
		return OperationPayload{}, err
	}
	specific := make([]byte, len(body)-8)
	copy(specific, body[8:])
	return OperationPayload{
		DescriptorType:    avdecc.DescriptorType(be16(body[0:2])),
		DescriptorIndex:   avdecc.DescriptorIndexValue(be16(body[2:4])),
		OperationID:       be16(body[4:6]),
		OperationType:     be16(body[6:8]),
		OperationSpecific: specific,
	}, nil
}

// OperationStatusResponse is the OPERATION_STATUS unsolicited response.
type OperationStatusResponse struct {
	DescriptorType    avdecc.DescriptorType
	DescriptorIndex   avdecc.DescriptorIndexValue
	OperationID       uint16
	PercentComplete   uint16
}

func DecodeOperationStatus(body []byte) (OperationStatusResponse, error) {
	if err := checkMinSize(body, 10); err != nil {
		return OperationStatusResponse{}, err
	}
	return OperationStatusResponse{
		DescriptorType:  avdecc.DescriptorType(be16(body[0:2])),
		DescriptorIndex: avdecc.DescriptorIndexValue(be16(body[2:4])),
		OperationID:     be16(body[4:6]),
		PercentComplete: be16(body[8:10]),
	}, nil
}

// AssociationIDPayload is the SET/GET_ASSOCIATION_ID command/response body.
type AssociationIDPayload struct {
	AssociationID avdecc.AssociationID
}

func (p AssociationIDPayload) Encode() []byte {
	b := make([]byte, 8)
	avdecc.PutUint64(b, uint64(p.AssociationID))
	return b
}

func DecodeAssociationID(body []byte) (AssociationIDPayload, error) {
	if err := checkMinSize(body, 8); err != nil {
		return AssociationIDPayload{}, err
	}
	return AssociationIDPayload{AssociationID: avdecc.AssociationID(avdecc.Uint64(body[0:8]))}, nil
}
