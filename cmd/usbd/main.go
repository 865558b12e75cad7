// Command usbd bridges a PowerScope streaming core to a host over a USB
// CDC-ACM serial port.
package main

import (
	"flag"
	"log"
	"os"
	"time"

	"go.bug.st/serial"

	"github.com/powerscope/streamcore/core"
	"github.com/powerscope/streamcore/dispatch"
	"github.com/powerscope/streamcore/internal/wire"
	"github.com/powerscope/streamcore/protocol"
	"github.com/powerscope/streamcore/ringbuf"
)

func main() {
	fs := flag.NewFlagSet("usbd", flag.ExitOnError)
	cfg, err := wire.Load(fs, os.Args[1:])
	if err != nil {
		log.Fatalf("[usbd] config: %v", err)
	}
	if cfg.Serial.Port == "" {
		log.Fatal("[usbd] -port is required")
	}

	mode := &serial.Mode{BaudRate: cfg.Serial.BaudRate, DataBits: 8, Parity: serial.NoParity, StopBits: serial.OneStopBit}
	port, err := serial.Open(cfg.Serial.Port, mode)
	if err != nil {
		log.Fatalf("[usbd] opening %s: %v", cfg.Serial.Port, err)
	}
	defer port.Close()

	transport := wire.NewSerialTransport(port, protocol.FrameMaxBytes)
	defer transport.Close()

	c := core.New(core.Config{
		RXRing:     ringbuf.New(make([]byte, core.RingCapacityFor(cfg.Core.RXRingBytes))),
		TXRing:     ringbuf.New(make([]byte, core.RingCapacityFor(cfg.Core.TXRingBytes))),
		Transport:  transport,
		Table:      dispatch.NewTable(),
		MaxPayload: cfg.Core.MaxStreamPayload,
		NowMs:      nowMs,
	})
	transport.SetRXHandler(c.OnRX)

	log.Printf("[usbd] bridging %s @ %d baud, tick every %s", cfg.Serial.Port, cfg.Serial.BaudRate, cfg.TickInterval())

	ticker := time.NewTicker(cfg.TickInterval())
	defer ticker.Stop()
	for range ticker.C {
		c.Tick()
	}
}

var bootTime = time.Now()

func nowMs() uint32 {
	return uint32(time.Since(bootTime).Milliseconds())
}
