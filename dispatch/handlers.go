package dispatch

import "encoding/binary"

// Representative period bounds in milliseconds; SET_PERIOD rejects values
// outside this range.
const (
	MinPeriodMs = 1
	MaxPeriodMs = 10000
)

// Handler operates on host state using args decoded by the opcode's
// Parser. It writes at most len(resp) bytes into resp and returns the
// number of bytes written and an error code only meaningful when ok is
// false.
type Handler func(h Host, args any, resp []byte) (n int, ok bool, errCode ErrorCode)

// HandlePing acks with an empty payload.
func HandlePing(h Host, args any, resp []byte) (int, bool, ErrorCode) {
	return 0, true, 0
}

// HandleGetSensors writes (runtime_id, type_id) pairs in registration
// order.
func HandleGetSensors(h Host, args any, resp []byte) (int, bool, ErrorCode) {
	sensors := h.Sensors()
	need := 2 * len(sensors)
	if len(resp) < need {
		return 0, false, Overflow
	}
	for i, s := range sensors {
		resp[2*i] = s.RuntimeID
		resp[2*i+1] = s.TypeID
	}
	return need, true, 0
}

// HandleStartStream enables streaming for the requested sensor.
func HandleStartStream(h Host, args any, resp []byte) (int, bool, ErrorCode) {
	a, ok := args.(SensorIDArgs)
	if !ok {
		return 0, false, Internal
	}
	if !h.StartStream(a.SensorID) {
		return 0, false, InvalidValue
	}
	return 0, true, 0
}

// HandleStopStream disables streaming for the requested sensor.
func HandleStopStream(h Host, args any, resp []byte) (int, bool, ErrorCode) {
	a, ok := args.(SensorIDArgs)
	if !ok {
		return 0, false, Internal
	}
	if !h.StopStream(a.SensorID) {
		return 0, false, InvalidValue
	}
	return 0, true, 0
}

// HandleSetPeriod validates the requested period and applies it.
func HandleSetPeriod(h Host, args any, resp []byte) (int, bool, ErrorCode) {
	a, ok := args.(SetPeriodArgs)
	if !ok {
		return 0, false, Internal
	}
	if a.PeriodMs < MinPeriodMs || a.PeriodMs > MaxPeriodMs {
		return 0, false, InvalidValue
	}
	if !h.SetPeriod(a.SensorID, a.PeriodMs) {
		return 0, false, InvalidValue
	}
	return 0, true, 0
}

// HandleGetPeriod ACKs with the current period, widened to u32le.
func HandleGetPeriod(h Host, args any, resp []byte) (int, bool, ErrorCode) {
	a, ok := args.(SensorIDArgs)
	if !ok {
		return 0, false, Internal
	}
	periodMs, found := h.GetPeriod(a.SensorID)
	if !found {
		return 0, false, InvalidValue
	}
	if len(resp) < 4 {
		return 0, false, Overflow
	}
	binary.LittleEndian.PutUint32(resp[:4], uint32(periodMs))
	return 4, true, 0
}
