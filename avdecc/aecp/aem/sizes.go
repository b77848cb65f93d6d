package aem

import "errors"

// ErrUnknownCommandType names a command_type this codec has no table
// entry for. GetCommandSize/GetResponseSize do not return it; they
// report a missing entry with ok == false.
var ErrUnknownCommandType = errors.New("aem: unknown command_type")

// commandSizes and responseSizes are the minimum payload length (in
// octets, following the 2-octet u/command_type header) for each AEM
// command_type. Entries absent from a table have no fixed/minimum size
// requirement beyond the header (e.g. GET_CONFIGURATION's command is
// empty). This is the "per-command size table" critical invariant of
// spec.md §4.2; every entry here must be reproduced exactly against
// whatever device population this engine talks to.
var commandSizes = map[CommandType]int{
	AcquireEntity:                      16, // flags(4) + owner_id(8) + descriptor_type(2) + descriptor_index(2)
	LockEntity:                         16,
	ReadDescriptor:                     8, // configuration_index(2) + reserved(2) ... + descriptor_type(2) + descriptor_index(2)
	SetConfiguration:                   2,
	GetConfiguration:                   0,
	SetStreamFormat:                    12,
	GetStreamFormat:                    4,
	SetStreamInfo:                      48,
	GetStreamInfo:                      4,
	SetName:                            72,
	GetName:                            8,
	SetAssociationID:                   8,
	GetAssociationID:                   0,
	SetSamplingRate:                    8,
	GetSamplingRate:                    4,
	SetClockSource:                     6,
	GetClockSource:                     4,
	SetControl:                         4, // + variable control value bytes
	GetControl:                         4,
	StartStreaming:                     4,
	StopStreaming:                      4,
	RegisterUnsolicitedNotification:    0,
	DeregisterUnsolicitedNotification:  0,
	GetAvbInfo:                         4,
	GetAsPath:                          4,
	GetCounters:                        4,
	Reboot:                             0,
	GetAudioMap:                        8,
	AddAudioMappings:                   8, // + variable mapping quads
	RemoveAudioMappings:                8,
	SetMemoryObjectLength:              12,
	GetMemoryObjectLength:              4,
	StartOperation:                     8, // + variable operation-specific bytes
	AbortOperation:                     8,
}

var responseSizes = map[CommandType]int{
	AcquireEntity:                      16,
	LockEntity:                         16,
	ReadDescriptor:                     8, // common prefix; descriptor-specific bytes follow
	SetConfiguration:                   2,
	GetConfiguration:                   2,
	SetStreamFormat:                    12,
	GetStreamFormat:                    12,
	SetStreamInfo:                      48,
	GetStreamInfo:                      48,
	SetName:                            72,
	GetName:                            72,
	SetAssociationID:                   8,
	GetAssociationID:                   8,
	SetSamplingRate:                    8,
	GetSamplingRate:                    8,
	SetClockSource:                     6,
	GetClockSource:                     6,
	SetControl:                         4,
	GetControl:                         4,
	StartStreaming:                     4,
	StopStreaming:                      4,
	RegisterUnsolicitedNotification:    0,
	DeregisterUnsolicitedNotification:  0,
	GetAvbInfo:                         4 + 12, // descriptor prefix + fixed AvbInfo fields (variable msrp mappings beyond this)
	GetAsPath:                          6,
	GetCounters:                        4 + 4 + 32*4, // descriptor prefix + counters_valid(4) + 32 counters
	Reboot:                             0,
	GetAudioMap:                        8,
	AddAudioMappings:                   8,
	RemoveAudioMappings:                8,
	SetMemoryObjectLength:              12,
	GetMemoryObjectLength:              12,
	StartOperation:                     8,
	AbortOperation:                     8,
	OperationStatus:                    10,
}

// GetCommandSize returns the minimum command payload length for t, and
// ok == false if the table has no entry (either an
// undersized-table command, in which case callers should skip the
// size check, or a genuinely unknown command_type).
func GetCommandSize(t CommandType) (int, bool) {
	n, ok := commandSizes[t]
	return n, ok
}

// GetResponseSize returns the minimum response payload length for t.
func GetResponseSize(t CommandType) (int, bool) {
	n, ok := responseSizes[t]
	return n, ok
}
