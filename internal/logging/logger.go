// Skywatch - ADS-B Aircraft Classification and Anomaly Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skywatch

// Package logging provides the process-wide zerolog logger for Skywatch.
//
// Classification output, detector failures and feed errors all go through
// one structured stream:
//
//	logging.Init(logging.Config{Level: "info", Format: "json"})
//	logging.Info().Str("hex", "ae1234").Msg("Aircraft flagged")
//	logging.Ctx(ctx).Warn().Err(err).Msg("Detector failed")
//
// suture and Watermill log through log/slog; NewSlogLogger bridges them
// into the same zerolog backend.
package logging

import (
	"io"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// Config selects level, encoding and destination of the global logger.
type Config struct {
	Level     string    // trace, debug, info, warn, error, fatal, panic or disabled
	Format    string    // json or console
	Service   string    // value of the "service" field; empty omits it
	Caller    bool      // attach file:line
	Timestamp bool      // attach RFC 3339 time
	Output    io.Writer // nil means os.Stderr
}

// DefaultConfig is JSON at info level on stderr, with timestamps.
func DefaultConfig() Config {
	return Config{
		Level:     "info",
		Format:    "json",
		Service:   "skywatch",
		Timestamp: true,
		Output:    os.Stderr,
	}
}

var global atomic.Pointer[zerolog.Logger]

var levelNames = map[string]zerolog.Level{
	"trace":    zerolog.TraceLevel,
	"debug":    zerolog.DebugLevel,
	"info":     zerolog.InfoLevel,
	"warn":     zerolog.WarnLevel,
	"warning":  zerolog.WarnLevel,
	"error":    zerolog.ErrorLevel,
	"fatal":    zerolog.FatalLevel,
	"panic":    zerolog.PanicLevel,
	"disabled": zerolog.Disabled,
}

//nolint:gochecknoinits // packages log before main calls Init
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
	zerolog.TimestampFieldName = "time"
	zerolog.MessageFieldName = "message"
	Init(DefaultConfig())
}

// Init builds a logger from cfg and installs it globally. Calling it again
// replaces the previous logger.
func Init(cfg Config) {
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	if strings.EqualFold(cfg.Format, "console") {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: "15:04:05"}
	}

	zerolog.SetGlobalLevel(parseLevel(cfg.Level))

	zc := zerolog.New(out).With()
	if cfg.Service != "" {
		zc = zc.Str("service", cfg.Service)
	}
	if cfg.Timestamp {
		zc = zc.Timestamp()
	}
	if cfg.Caller {
		zc = zc.Caller()
	}
	l := zc.Logger()
	global.Store(&l)
}

// parseLevel maps a level name to zerolog, case-insensitively. Unknown or
// empty names mean info.
func parseLevel(name string) zerolog.Level {
	if lvl, ok := levelNames[strings.ToLower(strings.TrimSpace(name))]; ok {
		return lvl
	}
	return zerolog.InfoLevel
}

// Logger returns a copy of the global logger.
func Logger() zerolog.Logger {
	return *global.Load()
}

// SetLogger installs l as the global logger. Tests use it to capture output.
//
//nolint:gocritic // zerolog.Logger is a value type
func SetLogger(l zerolog.Logger) {
	global.Store(&l)
}

// With starts a child logger context.
func With() zerolog.Context { return global.Load().With() }

func Trace() *zerolog.Event { return global.Load().Trace() }
func Debug() *zerolog.Event { return global.Load().Debug() }
func Info() *zerolog.Event  { return global.Load().Info() }
func Warn() *zerolog.Event  { return global.Load().Warn() }
func Error() *zerolog.Event { return global.Load().Error() }

// Fatal exits the process with status 1 after the event is written.
func Fatal() *zerolog.Event { return global.Load().Fatal() }

// Err is Error with err attached, or Info when err is nil.
func Err(err error) *zerolog.Event { return global.Load().Err(err) }

// GetLevel returns the global minimum level.
func GetLevel() zerolog.Level {
	return zerolog.GlobalLevel()
}

// SetLevelString changes the global minimum level without rebuilding the
// logger. Used on config reload.
func SetLevelString(level string) {
	zerolog.SetGlobalLevel(parseLevel(level))
}

// WithComponent returns a child logger tagged with component, e.g. "feed"
// or "api".
func WithComponent(component string) zerolog.Logger {
	return With().Str("component", component).Logger()
}

// NewTestLogger returns a logger writing timestamped JSON lines to w.
func NewTestLogger(w io.Writer) zerolog.Logger {
	return zerolog.New(w).With().Timestamp().Logger()
}
