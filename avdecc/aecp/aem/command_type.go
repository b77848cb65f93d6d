// Package aem implements the AEM (AVDECC Entity Model) command/response
// payload codec, C2's largest sub-codec. See spec.md §3.2, §4.2, §6.2
// and IEEE 1722.1-2021 clause 7.4 (table 7.126 "command_type").
package aem

import "strconv"

// CommandType is the 15-bit command_type field inside an AEM payload.
type CommandType uint16

// The standard AEM command types. Values follow IEEE 1722.1-2021
// table 7.126; entries are listed in wire-value order. A handful
// (GET_DYNAMIC_INFO, SET/GET_MAX_TRANSIT_TIME) are rarely mentioned in
// prose summaries of the protocol but are part of the full command
// catalog a complete engine must dispatch — see SPEC_FULL.md §3.
const (
	AcquireEntity CommandType = iota
	LockEntity
	EntityAvailable
	ControllerAvailable
	ReadDescriptor
	WriteDescriptor
	SetConfiguration
	GetConfiguration
	SetStreamFormat
	GetStreamFormat
	SetVideoFormat
	GetVideoFormat
	SetSensorFormat
	GetSensorFormat
	SetStreamInfo
	GetStreamInfo
	SetName
	GetName
	SetAssociationID
	GetAssociationID
	SetSamplingRate
	GetSamplingRate
	SetClockSource
	GetClockSource
	SetControl
	GetControl
	IncrementControl
	DecrementControl
	SetSignalSelector
	GetSignalSelector
	SetMixer
	GetMixer
	SetMatrix
	GetMatrix
	StartStreaming
	StopStreaming
	RegisterUnsolicitedNotification
	DeregisterUnsolicitedNotification
	Identify
	GetAvbInfo
	GetAsPath
	GetCounters
	Reboot
	GetAudioMap
	AddAudioMappings
	RemoveAudioMappings
	GetVideoMap
	AddVideoMappings
	RemoveVideoMappings
	GetSensorMap
	AddSensorMappings
	RemoveSensorMappings
	StartOperation
	AbortOperation
	OperationStatus
	AuthAddKey
	AuthDeleteKey
	AuthGetKeychainList
	AuthGetKey
	AuthAddKeyToChain
	AuthDeleteKeyFromChain
	AuthGetKeychainListFromChain
	AuthGetIdentity
	AuthAddToken
	AuthDeleteToken
	Authenticate
	Deauthenticate
	EnableTransportSecurity
	DisableTransportSecurity
	EnableStreamEncryption
	DisableStreamEncryption
	SetMemoryObjectLength
	GetMemoryObjectLength
	SetStreamBackup
	GetStreamBackup
	GetDynamicInfo
	SetMaxTransitTime
	GetMaxTransitTime
)

// commandTypeExpansion = 0x004e (78) through the end of the compatible
// range are reserved; this engine treats anything beyond the named
// constants as dispatchable-but-unknown (spec.md §4.5).
const commandTypeExpansion CommandType = 0x004e

var commandTypeNames = [...]string{
	"ACQUIRE_ENTITY", "LOCK_ENTITY", "ENTITY_AVAILABLE", "CONTROLLER_AVAILABLE",
	"READ_DESCRIPTOR", "WRITE_DESCRIPTOR", "SET_CONFIGURATION", "GET_CONFIGURATION",
	"SET_STREAM_FORMAT", "GET_STREAM_FORMAT", "SET_VIDEO_FORMAT", "GET_VIDEO_FORMAT",
	"SET_SENSOR_FORMAT", "GET_SENSOR_FORMAT", "SET_STREAM_INFO", "GET_STREAM_INFO",
	"SET_NAME", "GET_NAME", "SET_ASSOCIATION_ID", "GET_ASSOCIATION_ID",
	"SET_SAMPLING_RATE", "GET_SAMPLING_RATE", "SET_CLOCK_SOURCE", "GET_CLOCK_SOURCE",
	"SET_CONTROL", "GET_CONTROL", "INCREMENT_CONTROL", "DECREMENT_CONTROL",
	"SET_SIGNAL_SELECTOR", "GET_SIGNAL_SELECTOR", "SET_MIXER", "GET_MIXER",
	"SET_MATRIX", "GET_MATRIX", "START_STREAMING", "STOP_STREAMING",
	"REGISTER_UNSOLICITED_NOTIFICATION", "DEREGISTER_UNSOLICITED_NOTIFICATION",
	"IDENTIFY", "GET_AVB_INFO", "GET_AS_PATH", "GET_COUNTERS", "REBOOT",
	"GET_AUDIO_MAP", "ADD_AUDIO_MAPPINGS", "REMOVE_AUDIO_MAPPINGS",
	"GET_VIDEO_MAP", "ADD_VIDEO_MAPPINGS", "REMOVE_VIDEO_MAPPINGS",
	"GET_SENSOR_MAP", "ADD_SENSOR_MAPPINGS", "REMOVE_SENSOR_MAPPINGS",
	"START_OPERATION", "ABORT_OPERATION", "OPERATION_STATUS",
	"AUTH_ADD_KEY", "AUTH_DELETE_KEY", "AUTH_GET_KEYCHAIN_LIST", "AUTH_GET_KEY",
	"AUTH_ADD_KEY_TO_CHAIN", "AUTH_DELETE_KEY_FROM_CHAIN", "AUTH_GET_KEYCHAIN_LIST_FROM_CHAIN",
	"AUTH_GET_IDENTITY", "AUTH_ADD_TOKEN", "AUTH_DELETE_TOKEN", "AUTHENTICATE", "DEAUTHENTICATE",
	"ENABLE_TRANSPORT_SECURITY", "DISABLE_TRANSPORT_SECURITY",
	"ENABLE_STREAM_ENCRYPTION", "DISABLE_STREAM_ENCRYPTION",
	"SET_MEMORY_OBJECT_LENGTH", "GET_MEMORY_OBJECT_LENGTH",
	"SET_STREAM_BACKUP", "GET_STREAM_BACKUP",
	"GET_DYNAMIC_INFO", "SET_MAX_TRANSIT_TIME", "GET_MAX_TRANSIT_TIME",
}

func (c CommandType) String() string {
	if int(c) < len(commandTypeNames) {
		return commandTypeNames[c]
	}
	return "CMD<" + strconv.Itoa(int(c)) + ">"
}

// IsKnown reports whether c is one of the named command types.
func (c CommandType) IsKnown() bool { return int(c) < len(commandTypeNames) }
