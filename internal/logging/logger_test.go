// Skywatch - ADS-B Aircraft Classification and Anomaly Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skywatch

package logging

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	if cfg.Level != "info" {
		t.Errorf("expected default level 'info', got '%s'", cfg.Level)
	}
	if cfg.Format != "json" {
		t.Errorf("expected default format 'json', got '%s'", cfg.Format)
	}
	if !cfg.Timestamp {
		t.Error("expected default timestamp to be true")
	}
}

func TestInit(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: "debug", Format: "json", Service: "skywatch-test", Output: &buf})
	defer Init(DefaultConfig())

	Info().Str("hex", "ae1234").Msg("aircraft flagged")

	output := buf.String()
	if !strings.Contains(output, `"service":"skywatch-test"`) {
		t.Errorf("expected service field in output, got: %s", output)
	}
	if !strings.Contains(output, "aircraft flagged") {
		t.Errorf("expected message in output, got: %s", output)
	}
	if !strings.Contains(output, `"hex":"ae1234"`) {
		t.Errorf("expected hex field in output, got: %s", output)
	}
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input    string
		expected zerolog.Level
	}{
		{"trace", zerolog.TraceLevel},
		{"debug", zerolog.DebugLevel},
		{"INFO", zerolog.InfoLevel},
		{"warning", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"disabled", zerolog.Disabled},
		{"bogus", zerolog.InfoLevel},
		{" Warn ", zerolog.WarnLevel},
		{"", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		if got := parseLevel(tt.input); got != tt.expected {
			t.Errorf("parseLevel(%q) = %v, want %v", tt.input, got, tt.expected)
		}
	}
}

func TestSetLevelString(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: "info", Output: &buf})
	defer Init(DefaultConfig())

	Debug().Msg("hidden")
	SetLevelString("debug")
	if GetLevel() != zerolog.DebugLevel {
		t.Fatalf("GetLevel() = %v, want debug", GetLevel())
	}
	Debug().Msg("visible")

	output := buf.String()
	if strings.Contains(output, "hidden") {
		t.Errorf("debug event written at info level: %s", output)
	}
	if !strings.Contains(output, "visible") {
		t.Errorf("debug event missing after reload: %s", output)
	}
}

func TestCtx_AddsCorrelationAndRequestID(t *testing.T) {
	var buf bytes.Buffer
	SetLogger(NewTestLogger(&buf))
	defer Init(DefaultConfig())

	ctx := ContextWithCorrelationID(context.Background(), "abcd1234")
	ctx = ContextWithRequestID(ctx, "req-1")
	Ctx(ctx).Info().Msg("evaluating")

	output := buf.String()
	if !strings.Contains(output, `"correlation_id":"abcd1234"`) {
		t.Errorf("missing correlation_id: %s", output)
	}
	if !strings.Contains(output, `"request_id":"req-1"`) {
		t.Errorf("missing request_id: %s", output)
	}
}

func TestGenerateCorrelationID(t *testing.T) {
	t.Parallel()

	id := GenerateCorrelationID()
	if len(id) != 8 {
		t.Errorf("expected 8 character correlation ID, got %q", id)
	}
	if id == GenerateCorrelationID() {
		t.Error("expected unique correlation IDs")
	}
	if CorrelationIDFromContext(context.Background()) != "" {
		t.Error("expected empty correlation ID for bare context")
	}
}

func TestSlogHandler_WritesThroughZerolog(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewSlogHandlerWithLogger(NewTestLogger(&buf)))

	logger.WithGroup("feed").Warn("publish failed",
		slog.String("topic", "verdicts"),
		slog.Int("attempt", 2),
		slog.Any("err", errors.New("broken pipe")),
	)

	output := buf.String()
	for _, want := range []string{
		`"level":"warn"`,
		`"feed.topic":"verdicts"`,
		`"feed.attempt":2`,
		`"feed.err":"broken pipe"`,
		"publish failed",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %s in output, got: %s", want, output)
		}
	}
}

func TestSlogHandler_WithAttrsAndNestedGroups(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewSlogHandlerWithLogger(NewTestLogger(&buf))).
		With(slog.String("service", "feed-processor")).
		WithGroup("router")

	logger.Info("handler started",
		slog.Group("handler", slog.String("name", "aircraft-classifier")),
		slog.Attr{},
	)

	output := buf.String()
	for _, want := range []string{
		`"service":"feed-processor"`,
		`"router.handler.name":"aircraft-classifier"`,
	} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %s in output, got: %s", want, output)
		}
	}
	if strings.Contains(output, `"router.":`) {
		t.Errorf("empty attribute was written: %s", output)
	}
}

func TestSlogToZerologLevel(t *testing.T) {
	t.Parallel()

	if slogToZerologLevel(slog.LevelDebug) != zerolog.DebugLevel {
		t.Error("debug mismatch")
	}
	if slogToZerologLevel(slog.LevelInfo) != zerolog.InfoLevel {
		t.Error("info mismatch")
	}
	if slogToZerologLevel(slog.LevelWarn) != zerolog.WarnLevel {
		t.Error("warn mismatch")
	}
	if slogToZerologLevel(slog.LevelError+4) != zerolog.ErrorLevel {
		t.Error("error mismatch")
	}
}
