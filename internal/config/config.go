// Package config holds the daemon settings: where the meter is attached and
// how it is announced on hemtjanst.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Parity values accepted in the config file.
const (
	ParityNone = "none"
	ParityEven = "even"
	ParityOdd  = "odd"
)

// Config is the root of the YAML config file.
type Config struct {
	Serial   SerialConfig `yaml:"serial"`
	Device   DeviceConfig `yaml:"device"`
	LogLevel string       `yaml:"log_level"`
}

// SerialConfig describes the optical head the meter is read through.
type SerialConfig struct {
	Device string `yaml:"device"`
	Baud   int    `yaml:"baud"`
	Parity string `yaml:"parity"` // none, even or odd
}

// DeviceConfig describes the hemtjanst device the readings are published as.
type DeviceConfig struct {
	Topic        string `yaml:"topic"`
	Name         string `yaml:"name"`
	Manufacturer string `yaml:"manufacturer"`
	Model        string `yaml:"model"`
	SerialNumber string `yaml:"serial_number"`
}

// Default returns the settings used when no config file is given. SML
// meters talk 9600 8N1 on the optical interface.
func Default() *Config {
	return &Config{
		Serial: SerialConfig{
			Device: "/dev/ttyUSB0",
			Baud:   9600,
			Parity: ParityNone,
		},
		Device: DeviceConfig{
			Topic: "powerMeter/house",
			Name:  "House Power Meter",
		},
		LogLevel: "info",
	}
}

// Load reads path and merges it onto the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	return Parse(data)
}

// Parse merges the YAML document onto the defaults and validates the result.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the settings for values the daemon cannot work with.
func (c *Config) Validate() error {
	if c.Serial.Device == "" {
		return errors.New("config: serial device is required")
	}
	if c.Serial.Baud <= 0 {
		return fmt.Errorf("config: invalid baud rate %d", c.Serial.Baud)
	}
	switch c.Serial.Parity {
	case ParityNone, ParityEven, ParityOdd:
	default:
		return fmt.Errorf("config: unknown parity %q", c.Serial.Parity)
	}
	if c.Device.Topic == "" {
		return errors.New("config: device topic is required")
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// Level returns the configured log level, falling back to info.
func (c *Config) Level() logrus.Level {
	lvl, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return logrus.InfoLevel
	}
	return lvl
}
