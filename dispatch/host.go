package dispatch

// SensorInfo is one registration-order entry reported by GET_SENSORS.
type SensorInfo struct {
	RuntimeID uint8
	TypeID    uint8
}

// Host is the state a command handler operates on; the streaming core
// implements this so dispatch never imports core (which imports
// dispatch), keeping the dependency a one-way street.
type Host interface {
	// Sensors returns every registered sensor in registration order.
	Sensors() []SensorInfo
	// StartStream enables streaming for runtimeID, resetting its state
	// machine to IDLE and its sequence counter to 0. It reports whether
	// runtimeID is registered.
	StartStream(runtimeID uint8) bool
	// StopStream disables streaming for runtimeID. It reports whether
	// runtimeID is registered.
	StopStream(runtimeID uint8) bool
	// SetPeriod updates the emission period for runtimeID. It reports
	// whether runtimeID is registered.
	SetPeriod(runtimeID uint8, periodMs uint16) bool
	// GetPeriod returns the current emission period for runtimeID, and
	// whether runtimeID is registered.
	GetPeriod(runtimeID uint8) (periodMs uint16, ok bool)
}
