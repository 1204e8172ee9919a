// Skywatch - ADS-B Aircraft Classification and Anomaly Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skywatch

package logging

import (
	"context"
	"log/slog"
	"strings"

	"github.com/rs/zerolog"
)

// SlogHandler is a slog.Handler writing into zerolog. sutureslog and the
// Watermill slog adapter log through it, so supervisor and feed events land
// in the same stream as everything else. Groups become dotted key prefixes.
type SlogHandler struct {
	logger zerolog.Logger
	group  string
}

// NewSlogHandler wraps the current global logger.
func NewSlogHandler() *SlogHandler {
	return &SlogHandler{logger: Logger()}
}

// NewSlogHandlerWithLogger wraps logger.
//
//nolint:gocritic // zerolog.Logger is a value type
func NewSlogHandlerWithLogger(logger zerolog.Logger) *SlogHandler {
	return &SlogHandler{logger: logger}
}

// NewSlogLogger returns a slog.Logger over the global logger, for
// sutureslog.Handler and watermill.NewSlogLogger.
func NewSlogLogger() *slog.Logger {
	return slog.New(NewSlogHandler())
}

// NewComponentSlogLogger is NewSlogLogger with a component field.
func NewComponentSlogLogger(component string) *slog.Logger {
	return slog.New(NewSlogHandlerWithLogger(WithComponent(strings.ToLower(component))))
}

func (h *SlogHandler) Enabled(_ context.Context, level slog.Level) bool {
	lvl := slogToZerologLevel(level)
	return lvl >= zerolog.GlobalLevel() && lvl >= h.logger.GetLevel()
}

//nolint:gocritic // slog.Handler takes the record by value
func (h *SlogHandler) Handle(_ context.Context, record slog.Record) error {
	ev := h.logger.WithLevel(slogToZerologLevel(record.Level))
	record.Attrs(func(a slog.Attr) bool {
		flatten(h.group, a, func(key string, v slog.Value) {
			ev = appendValue(ev, key, v)
		})
		return true
	})
	ev.Msg(record.Message)
	return nil
}

// WithAttrs renders attrs into the zerolog context once, rather than on
// every record.
func (h *SlogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	fields := make(map[string]any, len(attrs))
	for _, a := range attrs {
		flatten(h.group, a, func(key string, v slog.Value) {
			fields[key] = v.Any()
		})
	}
	return &SlogHandler{logger: h.logger.With().Fields(fields).Logger(), group: h.group}
}

func (h *SlogHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	return &SlogHandler{logger: h.logger, group: h.group + name + "."}
}

// flatten resolves a and calls emit for each leaf, expanding groups into
// dotted keys. Empty attributes are dropped.
func flatten(prefix string, a slog.Attr, emit func(key string, v slog.Value)) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}
	if a.Value.Kind() != slog.KindGroup {
		emit(prefix+a.Key, a.Value)
		return
	}
	if a.Key != "" {
		prefix += a.Key + "."
	}
	for _, member := range a.Value.Group() {
		flatten(prefix, member, emit)
	}
}

func appendValue(ev *zerolog.Event, key string, v slog.Value) *zerolog.Event {
	switch v.Kind() {
	case slog.KindString:
		return ev.Str(key, v.String())
	case slog.KindInt64:
		return ev.Int64(key, v.Int64())
	case slog.KindUint64:
		return ev.Uint64(key, v.Uint64())
	case slog.KindFloat64:
		return ev.Float64(key, v.Float64())
	case slog.KindBool:
		return ev.Bool(key, v.Bool())
	case slog.KindDuration:
		return ev.Dur(key, v.Duration())
	case slog.KindTime:
		return ev.Time(key, v.Time())
	}
	if err, ok := v.Any().(error); ok {
		return ev.AnErr(key, err)
	}
	return ev.Interface(key, v.Any())
}

// slogToZerologLevel maps slog's open-ended levels onto zerolog's. Anything
// above error stays error; fatal and panic are never produced from slog.
func slogToZerologLevel(level slog.Level) zerolog.Level {
	switch {
	case level >= slog.LevelError:
		return zerolog.ErrorLevel
	case level >= slog.LevelWarn:
		return zerolog.WarnLevel
	case level >= slog.LevelInfo:
		return zerolog.InfoLevel
	case level >= slog.LevelDebug:
		return zerolog.DebugLevel
	}
	return zerolog.TraceLevel
}
