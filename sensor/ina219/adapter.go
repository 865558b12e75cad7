package ina219

import (
	"encoding/binary"

	"github.com/powerscope/streamcore/sensor"
)

// Default hardware configuration, matching the reference power-monitor
// board: 7-bit address 0x40, 100 mOhm shunt, calibration for a 32V/2A
// range.
const (
	DefaultAddress = 0x40
	DefaultShuntMOhm = 100
	DefaultCalibration = 4096

	// TypeID identifies this sensor kind on the wire.
	TypeID uint8 = 1

	// SampleBytes is bus_mV (uint16 LE) + current_uA (int32 LE).
	SampleBytes = 6
)

// Adapter wraps a Device as a sensor.Adapter: Start/Poll complete
// synchronously since the underlying I2CBus calls are assumed blocking,
// matching the reference hardware's single hw_read callback.
type Adapter struct {
	dev    *Device
	sample [SampleBytes]byte
	err    bool
}

// NewAdapter opens the device at the given bus/address/shunt/calibration
// and wraps it as a sensor.Adapter.
func NewAdapter(bus I2CBus, addr uint8, shuntMOhm uint32, calibration uint16) (*Adapter, error) {
	dev, err := Open(Config{
		Bus:            bus,
		Address:        addr,
		ShuntMilliohm:  shuntMOhm,
		Calibration:    calibration,
		ConfigRegister: ConfigDefault,
	})
	if err != nil {
		return nil, err
	}
	return &Adapter{dev: dev}, nil
}

// Start acquires bus voltage and current and encodes them into the
// sample buffer; it never defers to Poll since the bus read is blocking.
func (a *Adapter) Start() sensor.Status {
	busMV, err := a.dev.ReadBusVoltageMV()
	if err != nil {
		a.err = true
		return sensor.Error
	}
	currentUA, err := a.dev.ReadCurrentUA()
	if err != nil {
		a.err = true
		return sensor.Error
	}
	binary.LittleEndian.PutUint16(a.sample[0:2], busMV)
	binary.LittleEndian.PutUint32(a.sample[2:6], uint32(currentUA))
	a.err = false
	return sensor.Ready
}

// Poll always reports the outcome of the last Start; this adapter never
// spans acquisition across multiple ticks.
func (a *Adapter) Poll() sensor.Status {
	if a.err {
		return sensor.Error
	}
	return sensor.Ready
}

// Fill copies the 6-byte sample into dst.
func (a *Adapter) Fill(dst []byte, max int) int {
	if a.err || max < SampleBytes || len(dst) < SampleBytes {
		return 0
	}
	copy(dst, a.sample[:])
	return SampleBytes
}

func (a *Adapter) SampleSize() int { return SampleBytes }
func (a *Adapter) TypeID() uint8   { return TypeID }

var _ sensor.Adapter = (*Adapter)(nil)
