package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mcuadros/go-defaults"
	"github.com/sirupsen/logrus"
	"github.com/srg/blimp/internal/goble"
	"github.com/srg/blimp/internal/peripheral"
	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is wrapped by every Validate failure
var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds application configuration
type Config struct {
	LogLevel           string        `yaml:"log_level" json:"log_level" default:"info"`
	DeviceName         string        `yaml:"device_name" json:"device_name" default:"blimp"`
	ServiceUUID        string        `yaml:"service_uuid" json:"service_uuid" default:"1706BBC0-88AB-4B8D-877E-2237916EE929"`
	CharacteristicUUID string        `yaml:"characteristic_uuid" json:"characteristic_uuid" default:"275348FB-C14D-4FD5-B434-7C3F351DEA5F"`
	NotifyPeriod       time.Duration `yaml:"notify_period" json:"notify_period" default:"2s"`
	EventBuffer        int           `yaml:"event_buffer" json:"event_buffer" default:"64"`
}

// DefaultConfig returns default configuration values
func DefaultConfig() *Config {
	cfg := &Config{}
	defaults.SetDefaults(cfg)
	return cfg
}

// Load reads a YAML file over the defaults. An empty path yields the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks identifiers, timing and log level
func (c *Config) Validate() error {
	if _, err := uuid.Parse(c.ServiceUUID); err != nil {
		return fmt.Errorf("%w: service_uuid %q: %v", ErrInvalidConfig, c.ServiceUUID, err)
	}
	if _, err := uuid.Parse(c.CharacteristicUUID); err != nil {
		return fmt.Errorf("%w: characteristic_uuid %q: %v", ErrInvalidConfig, c.CharacteristicUUID, err)
	}
	if c.NotifyPeriod <= 0 {
		return fmt.Errorf("%w: notify_period must be positive, got %s", ErrInvalidConfig, c.NotifyPeriod)
	}
	if c.EventBuffer <= 0 {
		return fmt.Errorf("%w: event_buffer must be positive, got %d", ErrInvalidConfig, c.EventBuffer)
	}
	if strings.TrimSpace(c.DeviceName) == "" {
		return fmt.Errorf("%w: device_name is empty", ErrInvalidConfig)
	}
	if _, err := c.Level(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

// Level parses LogLevel
func (c *Config) Level() (logrus.Level, error) {
	return logrus.ParseLevel(c.LogLevel)
}

// NewLogger creates a configured logger instance
func (c *Config) NewLogger() *logrus.Logger {
	logger := logrus.New()

	level, err := c.Level()
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	// Use structured logging format
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})

	return logger
}

// PeripheralOptions converts the configuration for peripheral.New
func (c *Config) PeripheralOptions() peripheral.Options {
	return peripheral.Options{
		ServiceUUID:        c.ServiceUUID,
		CharacteristicUUID: c.CharacteristicUUID,
		NotifyPeriod:       c.NotifyPeriod,
		EventBuffer:        c.EventBuffer,
	}
}

// ServerOptions converts the configuration for goble.NewServer
func (c *Config) ServerOptions() goble.ServerOptions {
	return goble.ServerOptions{
		DeviceName:         c.DeviceName,
		ServiceUUID:        c.ServiceUUID,
		CharacteristicUUID: c.CharacteristicUUID,
	}
}
