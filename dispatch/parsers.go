package dispatch

import "encoding/binary"

// Parser validates and decodes a command payload, returning the decoded
// arguments and whether the payload was well-formed for this opcode.
// Parsers are pure functions over byte slices; they never touch host
// state.
type Parser func(payload []byte) (args any, ok bool)

// SensorIDArgs is the decoded form of the single-byte sensor_id parser.
type SensorIDArgs struct {
	SensorID uint8
}

// SetPeriodArgs is the decoded form of the set_period parser.
type SetPeriodArgs struct {
	SensorID uint8
	PeriodMs uint16
}

// ParseNoArgs succeeds iff the payload is empty.
func ParseNoArgs(payload []byte) (any, bool) {
	if len(payload) != 0 {
		return nil, false
	}
	return nil, true
}

// ParseSensorID succeeds iff the payload is exactly one byte: runtime_id.
func ParseSensorID(payload []byte) (any, bool) {
	if len(payload) != 1 {
		return nil, false
	}
	return SensorIDArgs{SensorID: payload[0]}, true
}

// ParseSetPeriod succeeds iff the payload is exactly 3 bytes:
// sensor_id:u8, period_ms:u16le.
func ParseSetPeriod(payload []byte) (any, bool) {
	if len(payload) != 3 {
		return nil, false
	}
	return SetPeriodArgs{
		SensorID: payload[0],
		PeriodMs: binary.LittleEndian.Uint16(payload[1:3]),
	}, true
}
