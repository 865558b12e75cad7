package core

import "github.com/powerscope/streamcore/sensor"

// smState is the per-sensor streaming state machine state.
type smState int

const (
	smIdle smState = iota
	smStart
	smPoll
	smReady
	smError
)

// sensorEntry tracks one registered sensor's adapter and streaming state.
type sensorEntry struct {
	runtimeID uint8
	adapter   sensor.Adapter

	streaming  bool
	periodMs   uint16
	lastEmitMs uint32
	seq        uint32
	state      smState
	sampleBuf  []byte
}
