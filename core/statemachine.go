package core

import (
	"github.com/powerscope/streamcore/protocol"
	"github.com/powerscope/streamcore/sensor"
)

// stepSensor advances one sensor's streaming state machine by exactly
// one state transition, the cooperative per-tick contract: a sensor with
// a slow Poll loop spends many ticks in smPoll rather than blocking Tick.
func (c *Core) stepSensor(s *sensorEntry, now uint32) {
	switch s.state {
	case smIdle:
		if now-s.lastEmitMs >= uint32(s.periodMs) {
			s.state = smStart
		}

	case smStart:
		switch s.adapter.Start() {
		case sensor.Ready:
			s.state = smReady
		case sensor.Busy:
			s.state = smPoll
		default:
			s.state = smError
		}

	case smPoll:
		switch s.adapter.Poll() {
		case sensor.Ready:
			s.state = smReady
		case sensor.Busy:
			// remain in smPoll
		default:
			s.state = smError
		}

	case smReady:
		c.emitSample(s, now)
		s.state = smIdle

	case smError:
		s.streaming = false
		s.state = smIdle
	}
}

// emitSample fills the sensor's sample buffer, prefixes runtime_id, and
// hands the payload to the TX engine as a STREAM frame. A zero-length
// fill is treated as "not ready yet": nothing is sent and lastEmitMs is
// left as it was, so the next IDLE step starts a new acquisition at once.
func (c *Core) emitSample(s *sensorEntry, now uint32) {
	maxFill := protocol.MaxPayload - 1
	if len(s.sampleBuf) < maxFill {
		maxFill = len(s.sampleBuf)
	}

	filled := s.adapter.Fill(s.sampleBuf, maxFill)
	if filled == 0 {
		return
	}

	frame := make([]byte, filled+1)
	frame[0] = s.runtimeID
	copy(frame[1:], s.sampleBuf[:filled])

	c.tx.SendStream(frame, s.seq, now)
	s.seq++
	s.lastEmitMs = now
}
