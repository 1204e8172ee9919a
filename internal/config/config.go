// Skywatch - ADS-B Aircraft Classification and Anomaly Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skywatch

// Package config loads the service configuration.
//
// Loading order (koanf v2):
//  1. Defaults from defaultConfig
//  2. Optional YAML file (CONFIG_PATH, then DefaultConfigPaths)
//  3. Environment variables listed in envMappings
//
// Config is immutable after Load and safe for concurrent reads.
package config

import (
	"fmt"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/skywatch/internal/detection"
	"github.com/tomtom215/skywatch/internal/detectors/position"
	"github.com/tomtom215/skywatch/internal/logging"
)

// Config holds all service configuration.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Logging   LoggingConfig   `koanf:"logging"`
	Detection DetectionConfig `koanf:"detection"`
	Receiver  ReceiverConfig  `koanf:"receiver"`
	Feed      FeedConfig      `koanf:"feed"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port" validate:"gte=1,lte=65535"`
	Timeout         time.Duration `koanf:"timeout" validate:"gt=0"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"gt=0"`

	// MaxBatchSize caps the number of aircraft in one batch request.
	MaxBatchSize int `koanf:"max_batch_size" validate:"gte=1"`

	RateLimitReqs     int           `koanf:"rate_limit_reqs" validate:"gte=1"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window" validate:"gt=0"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	CORSOrigins       []string      `koanf:"cors_origins"`
}

// Addr returns the listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// LoggingConfig holds logging settings.
//
// Environment Variables:
//   - LOG_LEVEL: trace, debug, info, warn, error (default: info)
//   - LOG_FORMAT: json, console (default: json)
//   - LOG_CALLER: true/false (default: false)
type LoggingConfig struct {
	Level  string `koanf:"level" validate:"oneof=trace debug info warn error"`
	Format string `koanf:"format" validate:"oneof=json console"`
	Caller bool   `koanf:"caller"`
}

// DetectionConfig configures the classification coordinator.
type DetectionConfig struct {
	// DetectAnomalies enables the anomaly engine (DETECT_ANOMALIES).
	DetectAnomalies bool `koanf:"detect_anomalies"`

	// Categories adds to or overrides entries of the built-in category
	// table by name.
	Categories []detection.Category `koanf:"categories" validate:"dive"`

	// Modules holds one free-form section per detector module, keyed by
	// module ID. A section with enabled: false disables the module.
	Modules map[string]map[string]any `koanf:"modules"`
}

// ReceiverConfig is the location of the ADS-B receiver.
type ReceiverConfig struct {
	Lat float64 `koanf:"lat" validate:"latitude"`
	Lon float64 `koanf:"lon" validate:"longitude"`
}

// Feed transports.
const (
	TransportMemory = "memory"
	TransportNATS   = "nats"
)

// FeedConfig configures the aircraft feed consumer.
type FeedConfig struct {
	Enabled   bool   `koanf:"enabled"`
	Transport string `koanf:"transport" validate:"oneof=memory nats"`
	NATSURL   string `koanf:"nats_url" validate:"required_if=Transport nats"`

	AircraftTopic string `koanf:"aircraft_topic" validate:"required"`
	VerdictTopic  string `koanf:"verdict_topic" validate:"required,nefield=AircraftTopic"`
	QueueGroup    string `koanf:"queue_group"`
	Subscribers   int    `koanf:"subscribers" validate:"gte=1,lte=32"`

	RetryCount           int           `koanf:"retry_count" validate:"gte=0"`
	RetryInitialInterval time.Duration `koanf:"retry_initial_interval" validate:"gt=0"`
	CloseTimeout         time.Duration `koanf:"close_timeout" validate:"gt=0"`

	// BreakerMaxFailures consecutive publish failures open the circuit.
	BreakerMaxFailures uint32        `koanf:"breaker_max_failures" validate:"gte=1"`
	BreakerTimeout     time.Duration `koanf:"breaker_timeout" validate:"gt=0"`

	// SuppressWindow skips unchanged verdicts for the same aircraft; 0
	// emits every flagged record.
	SuppressWindow time.Duration `koanf:"suppress_window" validate:"gte=0"`
}

// CategoryRegistry builds the category registry: the built-in table with
// configured entries layered on top.
func (d DetectionConfig) CategoryRegistry() *detection.CategoryRegistry {
	reg := detection.DefaultCategoryRegistry()
	for _, c := range d.Categories {
		reg.Set(c)
	}
	return reg
}

// CoordinatorConfig converts the detection section to the coordinator's
// form, re-encoding each module section as JSON.
func (d DetectionConfig) CoordinatorConfig() (detection.CoordinatorConfig, error) {
	detect := d.DetectAnomalies
	out := detection.CoordinatorConfig{
		DetectAnomalies: &detect,
		Modules:         make(map[string]json.RawMessage, len(d.Modules)),
	}
	for id, section := range d.Modules {
		raw, err := json.Marshal(section)
		if err != nil {
			return detection.CoordinatorConfig{}, fmt.Errorf("encode module %s config: %w", id, err)
		}
		out.Modules[id] = raw
	}
	return out, nil
}

// Extra returns the values shared with every detector module.
func (c *Config) Extra() map[string]any {
	return map[string]any{
		position.ExtraReceiverLat: c.Receiver.Lat,
		position.ExtraReceiverLon: c.Receiver.Lon,
	}
}

// LoggingConfig converts the logging section for logging.Init.
func (c *Config) LoggingConfig() logging.Config {
	lc := logging.DefaultConfig()
	lc.Level = c.Logging.Level
	lc.Format = c.Logging.Format
	lc.Caller = c.Logging.Caller
	return lc
}

// Load loads configuration from defaults, file and environment.
func Load() (*Config, error) {
	return LoadWithKoanf()
}
