// Skywatch - ADS-B Aircraft Classification and Anomaly Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skywatch

package config

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/skywatch/internal/detection"
	"github.com/tomtom215/skywatch/internal/detectors/position"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := defaultConfig()

	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Server.Timeout != 30*time.Second {
		t.Errorf("Server.Timeout = %v, want 30s", cfg.Server.Timeout)
	}
	if !cfg.Detection.DetectAnomalies {
		t.Error("Detection.DetectAnomalies should be true by default")
	}
	if cfg.Receiver.Lat != 51.501126 || cfg.Receiver.Lon != -0.14239 {
		t.Errorf("Receiver = %+v", cfg.Receiver)
	}
	if cfg.Feed.Enabled {
		t.Error("Feed.Enabled should be false by default")
	}
	if cfg.Feed.AircraftTopic != "aircraft" || cfg.Feed.VerdictTopic != "verdicts" {
		t.Errorf("Feed topics = %q/%q", cfg.Feed.AircraftTopic, cfg.Feed.VerdictTopic)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults must validate: %v", err)
	}
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := loadFrom("")
	if err != nil {
		t.Fatalf("loadFrom() error = %v", err)
	}
	if cfg.Server.Addr() != "0.0.0.0:8080" {
		t.Errorf("Addr() = %q", cfg.Server.Addr())
	}
	if cfg.Feed.Transport != TransportMemory {
		t.Errorf("Feed.Transport = %q", cfg.Feed.Transport)
	}
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9090
logging:
  level: debug
  format: console
detection:
  detect_anomalies: false
  categories:
    - name: military
      priority: 1
      warn: true
    - name: vip
      priority: 2
  modules:
    callsign:
      prefixes:
        - prefix: RCH
          category: military
    hexcode:
      enabled: false
receiver:
  lat: 40.6413
  lon: -73.7781
`)

	cfg, err := loadFrom(path)
	if err != nil {
		t.Fatalf("loadFrom() error = %v", err)
	}
	if cfg.Server.Port != 9090 || cfg.Logging.Level != "debug" || cfg.Logging.Format != "console" {
		t.Errorf("server/logging = %+v / %+v", cfg.Server, cfg.Logging)
	}
	if cfg.Server.Timeout != 30*time.Second {
		t.Errorf("unset keys must keep defaults, Timeout = %v", cfg.Server.Timeout)
	}
	if cfg.Detection.DetectAnomalies {
		t.Error("DetectAnomalies should be false from file")
	}

	reg := cfg.Detection.CategoryRegistry()
	if reg.Priority("military") != 1 || reg.Priority("vip") != 2 || reg.Priority("royalty") != 1 {
		t.Errorf("registry priorities military=%d vip=%d royalty=%d",
			reg.Priority("military"), reg.Priority("vip"), reg.Priority("royalty"))
	}

	cc, err := cfg.Detection.CoordinatorConfig()
	if err != nil {
		t.Fatalf("CoordinatorConfig() error = %v", err)
	}
	if cc.AnomaliesEnabled() {
		t.Error("coordinator anomalies should be disabled")
	}
	var callsign struct {
		Prefixes []struct {
			Prefix   string `json:"prefix"`
			Category string `json:"category"`
		} `json:"prefixes"`
	}
	if err := json.Unmarshal(cc.Modules["callsign"], &callsign); err != nil {
		t.Fatalf("decode callsign section: %v", err)
	}
	if len(callsign.Prefixes) != 1 || callsign.Prefixes[0].Prefix != "RCH" {
		t.Errorf("callsign section = %s", cc.Modules["callsign"])
	}
	if !strings.Contains(string(cc.Modules["hexcode"]), `"enabled":false`) {
		t.Errorf("hexcode section = %s", cc.Modules["hexcode"])
	}

	extra := cfg.Extra()
	if extra[position.ExtraReceiverLat] != 40.6413 || extra[position.ExtraReceiverLon] != -73.7781 {
		t.Errorf("Extra() = %v", extra)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("HTTP_PORT", "7000")
	t.Setenv("DETECT_ANOMALIES", "false")
	t.Setenv("RECEIVER_LAT", "-33.9")
	t.Setenv("NATS_URL", "nats://broker:4222")
	t.Setenv("FEED_TRANSPORT", "nats")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("FEED_RETRY_INTERVAL", "250ms")
	t.Setenv("UNRELATED_VARIABLE", "ignored")

	path := writeConfig(t, "server:\n  port: 9090\n")
	cfg, err := loadFrom(path)
	if err != nil {
		t.Fatalf("loadFrom() error = %v", err)
	}
	if cfg.Server.Port != 7000 {
		t.Errorf("env must override file, Port = %d", cfg.Server.Port)
	}
	if cfg.Detection.DetectAnomalies {
		t.Error("DETECT_ANOMALIES=false not applied")
	}
	if cfg.Receiver.Lat != -33.9 {
		t.Errorf("Receiver.Lat = %v", cfg.Receiver.Lat)
	}
	if cfg.Feed.NATSURL != "nats://broker:4222" || cfg.Feed.Transport != TransportNATS {
		t.Errorf("Feed = %+v", cfg.Feed)
	}
	if !slices.Equal(cfg.Server.CORSOrigins, []string{"https://a.example", "https://b.example"}) {
		t.Errorf("CORSOrigins = %v", cfg.Server.CORSOrigins)
	}
	if cfg.Feed.RetryInitialInterval != 250*time.Millisecond {
		t.Errorf("RetryInitialInterval = %v", cfg.Feed.RetryInitialInterval)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"bad port", func(c *Config) { c.Server.Port = 0 }, "port"},
		{"bad level", func(c *Config) { c.Logging.Level = "verbose" }, "level"},
		{"bad latitude", func(c *Config) { c.Receiver.Lat = 123 }, "lat"},
		{"bad transport", func(c *Config) { c.Feed.Transport = "kafka" }, "transport"},
		{"nats without url", func(c *Config) { c.Feed.Transport = TransportNATS; c.Feed.NATSURL = "" }, "nats_url"},
		{"same topics", func(c *Config) { c.Feed.VerdictTopic = c.Feed.AircraftTopic }, "verdict_topic"},
		{"category priority", func(c *Config) {
			c.Detection.Categories = append(c.Detection.Categories, defaultCategory("vip", 1000))
		}, "priority"},
		{"module enabled not bool", func(c *Config) {
			c.Detection.Modules = map[string]map[string]any{"squawk": {"enabled": "no"}}
		}, "detection.modules.squawk.enabled"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Validate() error = %v, want mention of %q", err, tt.want)
			}
		})
	}
}

func TestLoad_InvalidFile(t *testing.T) {
	path := writeConfig(t, "server: [this is not a map\n")
	if _, err := loadFrom(path); err == nil {
		t.Error("loadFrom() error = nil for malformed YAML")
	}

	path = writeConfig(t, "logging:\n  level: loud\n")
	_, err := loadFrom(path)
	if err == nil || !strings.Contains(err.Error(), "configuration validation failed") {
		t.Errorf("loadFrom() error = %v", err)
	}
}

func TestFindConfigFile(t *testing.T) {
	path := writeConfig(t, "server:\n  port: 1234\n")
	t.Setenv(ConfigPathEnvVar, path)
	if got := FindConfigFile(); got != path {
		t.Errorf("FindConfigFile() = %q, want %q", got, path)
	}
}

func TestEnvTransformFunc(t *testing.T) {
	tests := map[string]string{
		"LOG_LEVEL":        "logging.level",
		"receiver_lon":     "receiver.lon",
		"NATS_QUEUE_GROUP": "feed.queue_group",
		"HOME":             "",
	}
	for in, want := range tests {
		if got := envTransformFunc(in); got != want {
			t.Errorf("envTransformFunc(%q) = %q, want %q", in, got, want)
		}
	}
}

func defaultCategory(name string, priority int) detection.Category {
	return detection.Category{Name: name, Priority: priority}
}
