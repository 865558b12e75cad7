package core

import (
	"testing"

	"github.com/powerscope/streamcore/dispatch"
	"github.com/powerscope/streamcore/protocol"
	"github.com/powerscope/streamcore/ringbuf"
	"github.com/powerscope/streamcore/sensor"
	"github.com/powerscope/streamcore/sensor/stub"
	tstub "github.com/powerscope/streamcore/transportif/stub"
)

type fakeClock struct{ ms uint32 }

func (c *fakeClock) now() uint32 { return c.ms }

func newTestCore(t *testing.T) (*Core, *tstub.Transport, *fakeClock) {
	t.Helper()
	clock := &fakeClock{}
	tr := tstub.New()
	c := New(Config{
		RXRing:     ringbuf.New(make([]byte, 256)),
		TXRing:     ringbuf.New(make([]byte, 256)),
		Transport:  tr,
		MaxPayload: 0,
		NowMs:      clock.now,
	})
	return c, tr, clock
}

func sendCmd(t *testing.T, c *Core, cmdID uint8, payload []byte, seq uint32) {
	t.Helper()
	buf := make([]byte, protocol.FrameMaxBytes)
	n := protocol.WriteFrame(buf, protocol.TypeCmd, cmdID, payload, seq, 0)
	if n == 0 {
		t.Fatal("WriteFrame() = 0")
	}
	c.OnRX(buf[:n])
}

func TestPingRoundTrip(t *testing.T) {
	c, tr, _ := newTestCore(t)
	sendCmd(t, c, dispatch.CmdPing, nil, 7)

	c.Tick()

	writes := tr.Writes()
	if len(writes) != 1 {
		t.Fatalf("writes = %d, want 1", len(writes))
	}
	hdr, payload, n := protocol.ParseFrame(writes[0])
	if n == 0 {
		t.Fatal("ACK frame failed to parse")
	}
	if hdr.Type != protocol.TypeAck || hdr.Seq != 7 || len(payload) != 0 {
		t.Fatalf("ACK = type=%d seq=%d payload=%v", hdr.Type, hdr.Seq, payload)
	}
}

func TestUnknownCommandNacks(t *testing.T) {
	c, tr, _ := newTestCore(t)
	sendCmd(t, c, 0x7F, nil, 1)

	c.Tick()

	writes := tr.Writes()
	if len(writes) != 1 {
		t.Fatalf("writes = %d, want 1", len(writes))
	}
	hdr, payload, _ := protocol.ParseFrame(writes[0])
	if hdr.Type != protocol.TypeNack || len(payload) != 1 || dispatch.ErrorCode(payload[0]) != dispatch.InvalidCmd {
		t.Fatalf("NACK = type=%d payload=%v, want NACK/InvalidCmd", hdr.Type, payload)
	}
}

func TestStreamingLifecycle(t *testing.T) {
	c, tr, clock := newTestCore(t)
	adapter := stub.New(1, 4)
	adapter.Sample = []byte{0xAA, 0xBB, 0xCC, 0xDD}
	runtimeID := c.RegisterSensor(adapter, 10)

	sendCmd(t, c, dispatch.CmdStartStream, []byte{runtimeID}, 1)
	c.Tick() // dispatches START_STREAM, ACKs

	clock.ms = 10
	c.Tick() // idle -> SENSOR_START (one state-machine step per tick)

	// Drain ticks until a STREAM frame shows up (sm advances one step/tick).
	var streamFrame []byte
	for i := 0; i < 10 && streamFrame == nil; i++ {
		c.Tick()
		for _, w := range tr.Writes() {
			hdr, _, n := protocol.ParseFrame(w)
			if n != 0 && hdr.Type == protocol.TypeStream {
				streamFrame = w
			}
		}
	}
	if streamFrame == nil {
		t.Fatal("no STREAM frame observed after starting streaming")
	}
	_, payload, _ := protocol.ParseFrame(streamFrame)
	if payload[0] != runtimeID {
		t.Fatalf("STREAM payload runtime_id = %d, want %d", payload[0], runtimeID)
	}
	if payload[1] != 0xAA || payload[2] != 0xBB || payload[3] != 0xCC || payload[4] != 0xDD {
		t.Fatalf("STREAM payload sample = %v, want AA BB CC DD", payload[1:])
	}
}

func TestSensorErrorStopsStreaming(t *testing.T) {
	c, _, clock := newTestCore(t)
	adapter := stub.New(1, 2)
	adapter.StartStatus = sensor.Error
	runtimeID := c.RegisterSensor(adapter, 1)

	sendCmd(t, c, dispatch.CmdStartStream, []byte{runtimeID}, 1)
	c.Tick()

	clock.ms = 1
	for i := 0; i < 4; i++ {
		c.Tick()
	}

	if c.find(runtimeID).streaming {
		t.Fatal("sensor still streaming after adapter reported Error")
	}
}

// TestResyncPreservesSplitMagicByte covers the case where noise fills a
// contiguous RX run right up to a byte that happens to be the first half
// of the frame magic: that byte must survive resync so the valid frame
// that completes it on the next OnRX is still recognized.
func TestResyncPreservesSplitMagicByte(t *testing.T) {
	c, tr, _ := newTestCore(t)

	magic := protocol.Magic
	lowByte := byte(magic)
	highByte := byte(protocol.Magic >> 8)

	noise := make([]byte, protocol.HeaderLen+protocol.CRCLen)
	noise[len(noise)-1] = lowByte // dangles as a possible magic prefix
	c.OnRX(noise)
	c.Tick()

	if len(tr.Writes()) != 0 {
		t.Fatalf("writes after noise-only tick = %d, want 0", len(tr.Writes()))
	}

	frame := make([]byte, protocol.FrameMaxBytes)
	n := protocol.WriteFrame(frame, protocol.TypeCmd, dispatch.CmdPing, nil, 42, 0)
	if n == 0 {
		t.Fatal("WriteFrame() = 0")
	}
	if frame[0] != lowByte || frame[1] != highByte {
		t.Fatalf("frame magic bytes = %#x %#x, want %#x %#x", frame[0], frame[1], lowByte, highByte)
	}
	c.OnRX(frame[1:n]) // completes the magic the noise left dangling

	c.Tick()

	writes := tr.Writes()
	if len(writes) != 1 {
		t.Fatalf("writes = %d, want 1 (frame split across the dangling magic byte was lost)", len(writes))
	}
	hdr, _, consumed := protocol.ParseFrame(writes[0])
	if consumed == 0 || hdr.Type != protocol.TypeAck || hdr.Seq != 42 {
		t.Fatalf("ACK = type=%d seq=%d, want ACK/seq=42", hdr.Type, hdr.Seq)
	}
}

func TestGetSensorsReportsRegistrationOrder(t *testing.T) {
	c, tr, _ := newTestCore(t)
	c.RegisterSensor(stub.New(5, 2), 1)
	c.RegisterSensor(stub.New(9, 2), 1)

	sendCmd(t, c, dispatch.CmdGetSensors, nil, 1)
	c.Tick()

	writes := tr.Writes()
	if len(writes) != 1 {
		t.Fatalf("writes = %d, want 1", len(writes))
	}
	_, payload, _ := protocol.ParseFrame(writes[0])
	want := []byte{0, 5, 1, 9}
	for i := range want {
		if payload[i] != want[i] {
			t.Fatalf("payload = %v, want %v", payload, want)
		}
	}
}
