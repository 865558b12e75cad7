// Package ina219 is a minimal driver for the TI INA219 bus-voltage/current
// sensor: init/config and measurement in engineering units, talking to the
// device over a caller-supplied register read/write transport.
//
// Device registers are 16-bit big-endian; every register access moves
// exactly 2 bytes. The driver holds no hardware handle of its own beyond
// the I2CBus it's given, so it has no goroutine-safety requirements
// different from its transport's.
package ina219

import (
	"errors"
	"fmt"
)

// Register addresses (16-bit big-endian).
const (
	RegConfig      = 0x00
	RegShuntVolt   = 0x01 // signed 16-bit, 10 uV/LSB
	RegBusVolt     = 0x02 // 13-bit data at bits[15:3], 4 mV/LSB
	RegPower       = 0x03 // 20 * current_LSB
	RegCurrent     = 0x04 // signed 16-bit, current_LSB
	RegCalibration = 0x05
)

// CONFIG field values.
const (
	CfgBRNG16V = 0x0000
	CfgBRNG32V = 0x2000

	CfgPG40mV  = 0x0000
	CfgPG80mV  = 0x0800
	CfgPG160mV = 0x1000
	CfgPG320mV = 0x1800

	CfgBADC12Bit = 0x0180
	CfgSADC12Bit = 0x0018

	CfgModeShuntBusCont = 0x0007
)

// ConfigDefault is BRNG=32V, PG=320mV, BADC/SADC=12-bit single-sample,
// MODE=shunt+bus continuous — a sensible default for most 12V/24V rails.
const ConfigDefault uint16 = CfgBRNG32V | CfgPG320mV | CfgBADC12Bit | CfgSADC12Bit | CfgModeShuntBusCont

const (
	addrMax      = 0x7F
	shuntMinMOhm = 1
	shuntMaxMOhm = 1000000
	calMin       = 1
	calMax       = 65535
)

// ErrParam marks an out-of-range constructor argument.
var ErrParam = errors.New("ina219: invalid parameter")

// I2CBus is the blocking register transport the driver needs. A single
// call reads or writes exactly len(buf) bytes starting at reg.
type I2CBus interface {
	ReadReg(addr, reg uint8, buf []byte) error
	WriteReg(addr, reg uint8, buf []byte) error
}

// Config is the one-shot initialization parameters for a Device.
type Config struct {
	Bus            I2CBus
	Address        uint8
	ShuntMilliohm  uint32
	Calibration    uint16
	ConfigRegister uint16
}

// Device is a driver context; keep one instance per physical sensor.
type Device struct {
	bus            I2CBus
	addr           uint8
	shuntMilliohm  uint32
	calibration    uint16
	currentScaleUA uint16
	powerScaleMW   uint16
}

// Open initializes the INA219: writes CONFIG then CALIBRATION and caches
// integer current/power scale factors.
func Open(cfg Config) (*Device, error) {
	if cfg.Bus == nil {
		return nil, fmt.Errorf("%w: nil bus", ErrParam)
	}
	if cfg.Address > addrMax {
		return nil, fmt.Errorf("%w: address 0x%02x out of range", ErrParam, cfg.Address)
	}
	if cfg.ShuntMilliohm < shuntMinMOhm || cfg.ShuntMilliohm > shuntMaxMOhm {
		return nil, fmt.Errorf("%w: shunt %d mOhm out of range", ErrParam, cfg.ShuntMilliohm)
	}
	if cfg.Calibration < calMin || cfg.Calibration > calMax {
		return nil, fmt.Errorf("%w: calibration %d out of range", ErrParam, cfg.Calibration)
	}

	d := &Device{bus: cfg.Bus, addr: cfg.Address, shuntMilliohm: cfg.ShuntMilliohm}
	if err := d.WriteConfig(cfg.ConfigRegister); err != nil {
		return nil, err
	}
	if err := d.SetCalibration(cfg.Calibration); err != nil {
		return nil, err
	}
	return d, nil
}

// WriteConfig writes a full 16-bit CONFIG register value.
func (d *Device) WriteConfig(cfg uint16) error {
	return d.writeU16(RegConfig, cfg)
}

// SetCalibration updates the CALIBRATION register and recomputes the
// current/power scale factors for subsequent reads.
func (d *Device) SetCalibration(calibration uint16) error {
	if calibration < calMin {
		return fmt.Errorf("%w: calibration %d out of range", ErrParam, calibration)
	}
	if err := d.writeU16(RegCalibration, calibration); err != nil {
		return err
	}
	d.calibration = calibration
	d.currentScaleUA = currentScaleUA(calibration, d.shuntMilliohm)
	d.powerScaleMW = powerScaleMW(d.currentScaleUA)
	return nil
}

// ReadBusVoltageMV reads the bus voltage in millivolts.
func (d *Device) ReadBusVoltageMV() (uint16, error) {
	raw, err := d.readU16(RegBusVolt)
	if err != nil {
		return 0, err
	}
	// bits[15:3] hold the 13-bit conversion, 4 mV/LSB.
	return (raw >> 3) * 4, nil
}

// ReadShuntVoltageUV reads the shunt voltage in microvolts (signed,
// 10 uV/LSB).
func (d *Device) ReadShuntVoltageUV() (int32, error) {
	raw, err := d.readU16(RegShuntVolt)
	if err != nil {
		return 0, err
	}
	return int32(int16(raw)) * 10, nil
}

// ReadCurrentUA reads current in microamperes (signed); requires a
// calibration set via SetCalibration/Open.
func (d *Device) ReadCurrentUA() (int32, error) {
	raw, err := d.readU16(RegCurrent)
	if err != nil {
		return 0, err
	}
	return int32(int16(raw)) * int32(d.currentScaleUA), nil
}

// ReadPowerMW reads power in milliwatts; requires a mode measuring both
// bus and shunt.
func (d *Device) ReadPowerMW() (uint32, error) {
	raw, err := d.readU16(RegPower)
	if err != nil {
		return 0, err
	}
	return uint32(raw) * uint32(d.powerScaleMW), nil
}

func (d *Device) readU16(reg uint8) (uint16, error) {
	var buf [2]byte
	if err := d.bus.ReadReg(d.addr, reg, buf[:]); err != nil {
		return 0, fmt.Errorf("ina219: read reg 0x%02x: %w", reg, err)
	}
	return uint16(buf[0])<<8 | uint16(buf[1]), nil
}

func (d *Device) writeU16(reg uint8, v uint16) error {
	buf := [2]byte{byte(v >> 8), byte(v)}
	if err := d.bus.WriteReg(d.addr, reg, buf[:]); err != nil {
		return fmt.Errorf("ina219: write reg 0x%02x: %w", reg, err)
	}
	return nil
}

// currentScaleUA computes microamps-per-LSB: 40960000 / (cal * shunt_mOhm),
// saturating to the max uint16 on overflow and returning 0 for a zero
// denominator.
func currentScaleUA(cal uint16, shuntMOhm uint32) uint16 {
	denom := uint64(cal) * uint64(shuntMOhm)
	if denom == 0 {
		return 0
	}
	s := 40960000 / denom
	if s > 0xFFFF {
		return 0xFFFF
	}
	return uint16(s)
}

// powerScaleMW computes milliwatts-per-LSB: 20 * current_LSB, converted
// from uA to mW by dividing by 1000.
func powerScaleMW(currentScaleUA uint16) uint16 {
	return uint16(uint32(currentScaleUA) * 20 / 1000)
}
