// Command uartd bridges a PowerScope streaming core to a host over a
// plain UART, optionally mirroring INA219 samples to InfluxDB as they're
// acquired.
package main

import (
	"encoding/binary"
	"flag"
	"log"
	"os"
	"time"

	"github.com/tarm/serial"

	"github.com/powerscope/streamcore/core"
	"github.com/powerscope/streamcore/dispatch"
	"github.com/powerscope/streamcore/internal/wire"
	"github.com/powerscope/streamcore/internal/wire/sink"
	"github.com/powerscope/streamcore/protocol"
	"github.com/powerscope/streamcore/ringbuf"
	"github.com/powerscope/streamcore/sensor"
	"github.com/powerscope/streamcore/sensor/ina219"
	"github.com/powerscope/streamcore/sensor/registry"
)

const defaultSensorPeriodMs = 100

func main() {
	fs := flag.NewFlagSet("uartd", flag.ExitOnError)
	cfg, err := wire.Load(fs, os.Args[1:])
	if err != nil {
		log.Fatalf("[uartd] config: %v", err)
	}
	if cfg.Serial.Port == "" {
		log.Fatal("[uartd] -port is required")
	}

	port, err := serial.OpenPort(&serial.Config{
		Name:        cfg.Serial.Port,
		Baud:        cfg.Serial.BaudRate,
		ReadTimeout: 100 * time.Millisecond,
	})
	if err != nil {
		log.Fatalf("[uartd] opening %s: %v", cfg.Serial.Port, err)
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

	var influx *sink.Influx
	if cfg.Influx.Enabled {
		influx = sink.NewInflux(cfg.Influx.URL, cfg.Influx.Token, cfg.Influx.Org, cfg.Influx.Bucket)
		defer influx.Close()
	}

	reg := registry.New()
	if bus, ok := openI2CBus(cfg); ok {
		reg.Register(ina219.TypeID, func() (sensor.Adapter, error) {
			return ina219.NewAdapter(bus, ina219.DefaultAddress, ina219.DefaultShuntMOhm, ina219.DefaultCalibration)
		})
	}

	for _, sc := range cfg.Sensors {
		adapter, ok := reg.Get(sc.Type)
		if !ok {
			log.Printf("[uartd] no factory registered for sensor type %d (no bus configured?), skipping", sc.Type)
			continue
		}
		var exporter *exportingAdapter
		if influx != nil {
			exporter = &exportingAdapter{Adapter: adapter, influx: influx}
			adapter = exporter
		}
		periodMs := sc.PeriodMs
		if periodMs == 0 {
			periodMs = defaultSensorPeriodMs
		}
		runtimeID := c.RegisterSensor(adapter, periodMs)
		if exporter != nil {
			exporter.runtimeID = runtimeID
		}
		log.Printf("[uartd] registered sensor type=%d as runtime_id=%d", sc.Type, runtimeID)
	}

	log.Printf("[uartd] bridging %s @ %d baud, tick every %s", cfg.Serial.Port, cfg.Serial.BaudRate, cfg.TickInterval())

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

// openI2CBus is a deployment-specific hook: the Go ecosystem corpus this
// binary was built from carries no I2C driver, so attaching a real bus
// (e.g. a Linux /dev/i2c-N character device) is left to the board
// integrator. It returns ok=false until wired up.
func openI2CBus(cfg wire.Config) (ina219.I2CBus, bool) {
	return nil, false
}

// exportingAdapter decorates a sensor.Adapter so every successful Fill is
// also mirrored to InfluxDB, independent of how the sample is eventually
// framed on the wire.
type exportingAdapter struct {
	sensor.Adapter
	influx    *sink.Influx
	runtimeID uint8
}

func (a *exportingAdapter) Fill(dst []byte, max int) int {
	n := a.Adapter.Fill(dst, max)
	if n < ina219.SampleBytes {
		return n
	}
	busMV := binary.LittleEndian.Uint16(dst[0:2])
	currentUA := int32(binary.LittleEndian.Uint32(dst[2:6]))
	if err := a.influx.WriteSample(a.runtimeID, a.Adapter.TypeID(), map[string]interface{}{
		"bus_mv":     busMV,
		"current_ua": currentUA,
	}, time.Now()); err != nil {
		log.Printf("[uartd] influx export failed: %v", err)
	}
	return n
}
