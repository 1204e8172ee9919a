// Skywatch - ADS-B Aircraft Classification and Anomaly Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skywatch

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/tomtom215/skywatch/internal/logging"
	"github.com/tomtom215/skywatch/internal/validation"
)

// DefaultConfigPaths lists the paths searched for a config file, in order.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/skywatch/config.yaml",
	"/etc/skywatch/config.yml",
}

// ConfigPathEnvVar overrides the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:              "0.0.0.0",
			Port:              8080,
			Timeout:           30 * time.Second,
			ShutdownTimeout:   10 * time.Second,
			MaxBatchSize:      5000,
			RateLimitReqs:     300,
			RateLimitWindow:   time.Minute,
			RateLimitDisabled: false,
			CORSOrigins:       []string{"*"},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
		Detection: DetectionConfig{
			DetectAnomalies: true,
		},
		Receiver: ReceiverConfig{
			Lat: 51.501126,
			Lon: -0.14239,
		},
		Feed: FeedConfig{
			Enabled:              false, // opt-in: the HTTP API works without a feed
			Transport:            TransportMemory,
			NATSURL:              "nats://127.0.0.1:4222",
			AircraftTopic:        "aircraft",
			VerdictTopic:         "verdicts",
			QueueGroup:           "skywatch",
			Subscribers:          1,
			RetryCount:           3,
			RetryInitialInterval: 100 * time.Millisecond,
			CloseTimeout:         30 * time.Second,
			BreakerMaxFailures:   5,
			BreakerTimeout:       30 * time.Second,
			SuppressWindow:       time.Minute,
		},
	}
}

// LoadWithKoanf loads defaults, then the config file, then environment
// overrides, and validates the result.
func LoadWithKoanf() (*Config, error) {
	return loadFrom(FindConfigFile())
}

func loadFrom(configPath string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := splitCSVFields(k); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// Validate checks struct tags and the module sections.
func (c *Config) Validate() error {
	if err := validation.ValidateStruct(c); err != nil {
		return err
	}
	for id, section := range c.Detection.Modules {
		if section == nil {
			continue
		}
		if v, ok := section["enabled"]; ok {
			if _, isBool := v.(bool); !isBool {
				return fmt.Errorf("detection.modules.%s.enabled must be a boolean", id)
			}
		}
	}
	return nil
}

// FindConfigFile returns the config file Load would read, or "" when none
// exists.
func FindConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// csvPaths hold lists that arrive from the environment as one
// comma-separated string.
var csvPaths = []string{
	"server.cors_origins",
}

func splitCSVFields(k *koanf.Koanf) error {
	for _, path := range csvPaths {
		raw, ok := k.Get(path).(string)
		if !ok {
			continue
		}
		items := strings.FieldsFunc(raw, func(r rune) bool { return r == ',' })
		vals := items[:0]
		for _, item := range items {
			if item = strings.TrimSpace(item); item != "" {
				vals = append(vals, item)
			}
		}
		if len(vals) == 0 {
			continue
		}
		if err := k.Set(path, vals); err != nil {
			return fmt.Errorf("set %s: %w", path, err)
		}
	}
	return nil
}

var envMappings = map[string]string{
	"http_host":             "server.host",
	"http_port":             "server.port",
	"http_timeout":          "server.timeout",
	"http_shutdown_timeout": "server.shutdown_timeout",
	"max_batch_size":        "server.max_batch_size",
	"rate_limit_requests":   "server.rate_limit_reqs",
	"rate_limit_window":     "server.rate_limit_window",
	"disable_rate_limit":    "server.rate_limit_disabled",
	"cors_origins":          "server.cors_origins",

	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",

	"detect_anomalies": "detection.detect_anomalies",

	"receiver_lat": "receiver.lat",
	"receiver_lon": "receiver.lon",

	"feed_enabled":              "feed.enabled",
	"feed_transport":            "feed.transport",
	"nats_url":                  "feed.nats_url",
	"feed_aircraft_topic":       "feed.aircraft_topic",
	"feed_verdict_topic":        "feed.verdict_topic",
	"nats_queue_group":          "feed.queue_group",
	"feed_subscribers":          "feed.subscribers",
	"feed_retry_count":          "feed.retry_count",
	"feed_retry_interval":       "feed.retry_initial_interval",
	"feed_close_timeout":        "feed.close_timeout",
	"feed_breaker_max_failures": "feed.breaker_max_failures",
	"feed_breaker_timeout":      "feed.breaker_timeout",
	"feed_suppress_window":      "feed.suppress_window",
}

// envTransformFunc maps an environment variable to its config path.
// Unmapped variables are skipped.
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}

// WatchConfigFile calls callback whenever path changes. The caller
// synchronizes access to configuration reloaded from the callback.
func WatchConfigFile(path string, callback func()) error {
	return file.Provider(path).Watch(func(_ interface{}, err error) {
		if err != nil {
			logging.Warn().Err(err).Str("path", path).Msg("Config file watch error")
			return
		}
		callback()
	})
}
