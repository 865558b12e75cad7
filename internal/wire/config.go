// Package wire holds the configuration and command-line plumbing shared
// by the cmd/uartd and cmd/usbd wiring binaries: both bind a serial-style
// link and a streaming core together; cmd/uartd can also export samples
// to InfluxDB.
package wire

import (
	"flag"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the on-disk configuration for a wiring binary.
type Config struct {
	Serial struct {
		Port     string `yaml:"port"`
		BaudRate int    `yaml:"baud_rate"`
	} `yaml:"serial"`

	Core struct {
		RXRingBytes      int `yaml:"rx_ring_bytes"`
		TXRingBytes      int `yaml:"tx_ring_bytes"`
		MaxStreamPayload int `yaml:"max_stream_payload"`
		TickIntervalMs   int `yaml:"tick_interval_ms"`
	} `yaml:"core"`

	Influx struct {
		Enabled bool   `yaml:"enabled"`
		URL     string `yaml:"url"`
		Token   string `yaml:"token"`
		Org     string `yaml:"org"`
		Bucket  string `yaml:"bucket"`
	} `yaml:"influx"`

	// Sensors lists the sensor types this deployment attaches, by the
	// type_id a registry.Registry was given a Factory for. A board with
	// no INA219 fitted simply omits it rather than the binary hardcoding
	// which sensors exist.
	Sensors []SensorConfig `yaml:"sensors"`
}

// SensorConfig declares one attached sensor: which registered type to
// construct and how often it should emit while streaming.
type SensorConfig struct {
	Type     uint8  `yaml:"type"`
	PeriodMs uint16 `yaml:"period_ms"`
}

// Defaults returns a Config with every field set to a workable default,
// to be overlaid by a config file and then CLI flags.
func Defaults() Config {
	var c Config
	c.Serial.BaudRate = 115200
	c.Core.RXRingBytes = 1024
	c.Core.TXRingBytes = 1024
	c.Core.MaxStreamPayload = 0
	c.Core.TickIntervalMs = 5
	return c
}

// Load registers every flag fs understands (including -config) and
// parses args, overlaying a YAML config file (if present) over Defaults
// and CLI flags over that.
func Load(fs *flag.FlagSet, args []string) (Config, error) {
	cfg := Defaults()

	configPath := fs.String("config", "", "path to YAML config file")
	portFlag := fs.String("port", "", "serial device path")
	baudFlag := fs.Int("baud", 0, "serial baud rate (0 keeps the config/default value)")
	tickFlag := fs.Int("tick-ms", 0, "core tick interval in milliseconds (0 keeps the config/default value)")
	influxFlag := fs.Bool("influx", false, "export samples to InfluxDB")

	if err := fs.Parse(args); err != nil {
		return cfg, err
	}

	if *configPath != "" {
		data, err := os.ReadFile(*configPath)
		if err != nil {
			if !os.IsNotExist(err) {
				return cfg, fmt.Errorf("wire: reading config %s: %w", *configPath, err)
			}
		} else if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("wire: parsing config %s: %w", *configPath, err)
		}
	}

	if *portFlag != "" {
		cfg.Serial.Port = *portFlag
	}
	if *baudFlag != 0 {
		cfg.Serial.BaudRate = *baudFlag
	}
	if *tickFlag != 0 {
		cfg.Core.TickIntervalMs = *tickFlag
	}
	if *influxFlag {
		cfg.Influx.Enabled = true
	}
	return cfg, nil
}

// TickInterval returns Core.TickIntervalMs as a time.Duration.
func (c Config) TickInterval() time.Duration {
	return time.Duration(c.Core.TickIntervalMs) * time.Millisecond
}
