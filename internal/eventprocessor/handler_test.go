// Skywatch - ADS-B Aircraft Classification and Anomaly Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skywatch

package eventprocessor

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/goccy/go-json"

	"github.com/tomtom215/skywatch/internal/cache"
	"github.com/tomtom215/skywatch/internal/detection"
)

// flagHexEvaluator flags records whose hex is in the set, as military with
// one high-severity anomaly.
type flagHexEvaluator struct {
	flag  map[string]bool
	calls int
}

func (e *flagHexEvaluator) EvaluateBatch(_ context.Context, recs []*detection.Aircraft) detection.BatchResult {
	e.calls++
	result := detection.BatchResult{Flagged: make([]*detection.Aircraft, 0)}
	for _, rec := range recs {
		result.Evaluated++
		if !e.flag[rec.Hex] {
			continue
		}
		m := detection.Match{Detector: "test", Category: detection.CategoryMilitary, Confidence: 1}
		rec.Calculated.Verdict = detection.Verdict{
			IsSpecific:      true,
			Matches:         []detection.Match{m},
			PrimaryMatch:    &m,
			Anomalies:       []detection.Anomaly{{Type: "t", Severity: detection.SeverityHigh, Confidence: 1}},
			HasAnomalies:    true,
			HighestSeverity: detection.SeverityHigh,
		}
		result.Flagged = append(result.Flagged, rec)
	}
	return result
}

func TestDecodeAircraft(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		want    []string
		wantErr bool
	}{
		{"single record", `{"hex":"ae1234","flight":"RCH123"}`, []string{"ae1234"}, false},
		{"snapshot", `{"now":1700000000.5,"aircraft":[{"hex":"a"},null,{"hex":"b"}]}`, []string{"a", "b"}, false},
		{"empty snapshot", `{"now":1,"aircraft":[]}`, nil, false},
		{"single without hex", `{"flight":"BAW1"}`, nil, true},
		{"array", `[{"hex":"a"}]`, nil, true},
		{"garbage", `not json`, nil, true},
		{"empty", ``, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recs, err := DecodeAircraft([]byte(tt.payload))
			if tt.wantErr {
				if !errors.Is(err, ErrMalformedPayload) {
					t.Errorf("DecodeAircraft() error = %v, want ErrMalformedPayload", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("DecodeAircraft() error = %v", err)
			}
			if len(recs) != len(tt.want) {
				t.Fatalf("got %d records, want %d", len(recs), len(tt.want))
			}
			for i, rec := range recs {
				if rec.Hex != tt.want[i] {
					t.Errorf("recs[%d].Hex = %q, want %q", i, rec.Hex, tt.want[i])
				}
			}
		})
	}
}

func TestNewVerdictHandler_NilEvaluator(t *testing.T) {
	if _, err := NewVerdictHandler(nil, nil, nil); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("NewVerdictHandler(nil) error = %v, want ErrInvalidConfig", err)
	}
}

func TestVerdictHandler_Handle(t *testing.T) {
	eval := &flagHexEvaluator{flag: map[string]bool{"ae1234": true}}
	h, err := NewVerdictHandler(eval, nil, nil)
	if err != nil {
		t.Fatalf("NewVerdictHandler() error = %v", err)
	}

	in := message.NewMessage("in-1", []byte(`{"aircraft":[{"hex":"ae1234"},{"hex":"400abc"}]}`))
	out, err := h.Handle(in)
	if err != nil {
		t.Fatalf("Handle() error = %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("Handle() emitted %d messages, want 1", len(out))
	}

	msg := out[0]
	if msg.UUID == "" || msg.UUID == in.UUID {
		t.Errorf("verdict UUID = %q, want a fresh UUID", msg.UUID)
	}
	if got := msg.Metadata.Get(MetadataHex); got != "ae1234" {
		t.Errorf("metadata hex = %q", got)
	}
	if got := msg.Metadata.Get(MetadataCategory); got != detection.CategoryMilitary {
		t.Errorf("metadata category = %q", got)
	}
	if got := msg.Metadata.Get(MetadataSeverity); got != string(detection.SeverityHigh) {
		t.Errorf("metadata severity = %q", got)
	}

	var rec detection.Aircraft
	if err := json.Unmarshal(msg.Payload, &rec); err != nil {
		t.Fatalf("decode verdict payload: %v", err)
	}
	if !rec.Calculated.Verdict.IsSpecific || rec.Calculated.Verdict.PrimaryMatch == nil {
		t.Errorf("verdict payload lost its classification: %+v", rec.Calculated.Verdict)
	}

	stats := h.Stats()
	if stats.MessagesReceived != 1 || stats.AircraftSeen != 2 || stats.VerdictsEmitted != 1 {
		t.Errorf("Stats() = %+v", stats)
	}
	if stats.LastMessageTime.IsZero() {
		t.Error("LastMessageTime not recorded")
	}
}

func TestVerdictHandler_MalformedIsAcked(t *testing.T) {
	eval := &flagHexEvaluator{}
	h, _ := NewVerdictHandler(eval, nil, nil)

	out, err := h.Handle(message.NewMessage("bad", []byte(`{"aircraft":`)))
	if err != nil {
		t.Fatalf("Handle() error = %v, want nil so the message is acked", err)
	}
	if out != nil {
		t.Errorf("Handle() emitted %d messages for malformed input", len(out))
	}
	if eval.calls != 0 {
		t.Error("evaluator called for malformed input")
	}
	if h.Stats().ParseErrors != 1 {
		t.Errorf("ParseErrors = %d, want 1", h.Stats().ParseErrors)
	}
}

func TestNewVerdictMessage_UnflaggedMetadata(t *testing.T) {
	rec := &detection.Aircraft{Hex: "400abc"}
	msg, err := NewVerdictMessage(rec)
	if err != nil {
		t.Fatalf("NewVerdictMessage() error = %v", err)
	}
	if msg.Metadata.Get(MetadataCategory) != "" || msg.Metadata.Get(MetadataSeverity) != "" {
		t.Errorf("unexpected metadata %v", msg.Metadata)
	}
}

func TestVerdictHandler_SuppressesUnchangedVerdicts(t *testing.T) {
	eval := &flagHexEvaluator{flag: map[string]bool{"ae1234": true}}
	h, err := NewVerdictHandler(eval, cache.NewLRU[string](100, time.Minute), nil)
	if err != nil {
		t.Fatalf("NewVerdictHandler() error = %v", err)
	}

	payload := []byte(`{"aircraft":[{"hex":"ae1234"}]}`)
	for i, want := range []int{1, 0, 0} {
		out, err := h.Handle(message.NewMessage("m", payload))
		if err != nil {
			t.Fatalf("Handle() #%d error = %v", i, err)
		}
		if len(out) != want {
			t.Errorf("Handle() #%d emitted %d, want %d", i, len(out), want)
		}
	}

	stats := h.Stats()
	if stats.VerdictsEmitted != 1 || stats.VerdictsSuppressed != 2 {
		t.Errorf("Stats() = %+v", stats)
	}
}

func TestVerdictHandler_HexlessEntriesAreNeverSuppressed(t *testing.T) {
	eval := &flagHexEvaluator{flag: map[string]bool{"": true}}
	h, err := NewVerdictHandler(eval, cache.NewLRU[string](100, time.Minute), nil)
	if err != nil {
		t.Fatalf("NewVerdictHandler() error = %v", err)
	}

	payload := []byte(`{"aircraft":[{"hex":"","flight":"ONE"},{"flight":"TWO"}]}`)
	for round := 0; round < 2; round++ {
		out, err := h.Handle(message.NewMessage("snap", payload))
		if err != nil {
			t.Fatalf("Handle() error = %v", err)
		}
		if len(out) != 2 {
			t.Fatalf("round %d: emitted %d verdicts, want 2", round, len(out))
		}
	}
	if got := h.Stats().VerdictsSuppressed; got != 0 {
		t.Errorf("VerdictsSuppressed = %d, want 0", got)
	}
}

func TestVerdictKey_ChangesWithAnomalies(t *testing.T) {
	rec := &detection.Aircraft{Hex: "ae1234"}
	rec.Calculated.Verdict.Matches = []detection.Match{{Category: "military"}}
	before := verdictKey(rec)

	rec.Calculated.Verdict.Anomalies = []detection.Anomaly{{Type: "hex-reserved", Severity: detection.SeverityMedium}}
	if verdictKey(rec) == before {
		t.Error("verdictKey ignores anomalies")
	}
}
