// Package core wires the ring buffers, TX engine, command dispatcher, and
// per-sensor state machines into the single-threaded, cooperatively
// scheduled streaming core the rest of the system drives one Tick at a
// time.
package core

import (
	"log"

	"github.com/powerscope/streamcore/dispatch"
	"github.com/powerscope/streamcore/ringbuf"
	"github.com/powerscope/streamcore/sensor"
	"github.com/powerscope/streamcore/txengine"
	"github.com/powerscope/streamcore/transportif"
)

// Core is a single streaming-core instance. A Core is strictly
// single-threaded and cooperatively scheduled: Tick must not be called
// concurrently with itself, though OnRX may be invoked from another
// goroutine or interrupt context since it only appends to the RX ring.
type Core struct {
	rx    *ringbuf.Ring
	tx    *txengine.Engine
	table *dispatch.Table

	sensors []*sensorEntry

	nowMs func() uint32
}

// Config bundles the resources a Core needs: the RX ring (sized by the
// caller), the TX stream ring and transport (wrapped into a txengine),
// the command table, and a monotonic millisecond clock.
type Config struct {
	RXRing     *ringbuf.Ring
	TXRing     *ringbuf.Ring
	Transport  transportif.Transport
	Table      *dispatch.Table
	MaxPayload int
	NowMs      func() uint32
}

// New constructs a Core from cfg. If Table is nil, dispatch.NewTable()'s
// reference command set is used.
func New(cfg Config) *Core {
	table := cfg.Table
	if table == nil {
		table = dispatch.NewTable()
	}
	return &Core{
		rx:    cfg.RXRing,
		tx:    txengine.New(cfg.TXRing, cfg.Transport, cfg.MaxPayload),
		table: table,
		nowMs: cfg.NowMs,
	}
}

// OnRX appends received bytes into the RX ring (drop-newest on
// overflow). Safe to call from the transport's RX callback, including an
// interrupt or reader-goroutine context, since it only touches the
// producer side of an SPSC ring.
func (c *Core) OnRX(data []byte) {
	if n := c.rx.WriteTry(data); n != len(data) {
		log.Printf("[core] RX overflow, dropped %d of %d bytes", len(data)-n, len(data))
	}
}

// RegisterSensor attaches adapter under the next available runtime_id
// (registration order, starting at 0) with the given default emission
// period, and returns that runtime_id.
func (c *Core) RegisterSensor(adapter sensor.Adapter, defaultPeriodMs uint16) uint8 {
	runtimeID := uint8(len(c.sensors))
	c.sensors = append(c.sensors, &sensorEntry{
		runtimeID: runtimeID,
		adapter:   adapter,
		periodMs:  defaultPeriodMs,
		state:     smIdle,
		sampleBuf: make([]byte, adapter.SampleSize()),
	})
	return runtimeID
}

func (c *Core) find(runtimeID uint8) *sensorEntry {
	for _, s := range c.sensors {
		if s.runtimeID == runtimeID {
			return s
		}
	}
	return nil
}

// Tick advances the core by one step: drains and dispatches as many
// complete RX frames as are buffered, advances every streaming sensor's
// state machine by exactly one step, then pumps at most one TX frame.
func (c *Core) Tick() {
	now := c.nowMs()
	c.processRX(now)
	for _, s := range c.sensors {
		if s.streaming {
			c.stepSensor(s, now)
		}
	}
	c.tx.Pump()
}

// --- dispatch.Host -----------------------------------------------------

func (c *Core) Sensors() []dispatch.SensorInfo {
	out := make([]dispatch.SensorInfo, len(c.sensors))
	for i, s := range c.sensors {
		out[i] = dispatch.SensorInfo{RuntimeID: s.runtimeID, TypeID: s.adapter.TypeID()}
	}
	return out
}

func (c *Core) StartStream(runtimeID uint8) bool {
	s := c.find(runtimeID)
	if s == nil {
		return false
	}
	s.streaming = true
	s.state = smIdle
	s.seq = 0
	return true
}

func (c *Core) StopStream(runtimeID uint8) bool {
	s := c.find(runtimeID)
	if s == nil {
		return false
	}
	s.streaming = false
	s.state = smIdle
	return true
}

func (c *Core) SetPeriod(runtimeID uint8, periodMs uint16) bool {
	s := c.find(runtimeID)
	if s == nil {
		return false
	}
	s.periodMs = periodMs
	return true
}

func (c *Core) GetPeriod(runtimeID uint8) (uint16, bool) {
	s := c.find(runtimeID)
	if s == nil {
		return 0, false
	}
	return s.periodMs, true
}

var _ dispatch.Host = (*Core)(nil)

// RingCapacityFor rounds a desired usable byte count up to the next
// power-of-two ring capacity (capacity includes the one reserved slot),
// for callers sizing ringbuf.New's backing storage.
func RingCapacityFor(usable int) int {
	capacity := 2
	for capacity-1 < usable {
		capacity <<= 1
	}
	return capacity
}
