// Skywatch - ADS-B Aircraft Classification and Anomaly Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skywatch

package eventprocessor

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/tomtom215/skywatch/internal/cache"
	"github.com/tomtom215/skywatch/internal/detection"
	"github.com/tomtom215/skywatch/internal/metrics"
)

// Verdict message metadata keys.
const (
	MetadataHex      = "hex"
	MetadataCategory = "category"
	MetadataSeverity = "severity"
)

// BatchEvaluator is the slice of the classification coordinator the feed
// handler needs. *detection.SyncCoordinator satisfies it.
type BatchEvaluator interface {
	EvaluateBatch(ctx context.Context, recs []*detection.Aircraft) detection.BatchResult
}

// Snapshot is a receiver aircraft list as published by readsb/tar1090
// (aircraft.json): a timestamp plus every tracked aircraft.
type Snapshot struct {
	Now      float64               `json:"now,omitempty"`
	Messages int64                 `json:"messages,omitempty"`
	Aircraft []*detection.Aircraft `json:"aircraft"`
}

// VerdictHandler classifies aircraft messages from the feed and emits one
// verdict message per flagged aircraft.
//
// Receivers republish every aircraft about once a second. With a
// suppression cache, a verdict identical to the last one emitted for the
// same hex within the window is skipped; any change is emitted at once.
//
// Malformed payloads are acknowledged and dropped: redelivery cannot fix
// them. Publishing errors are returned so the router retries the message.
type VerdictHandler struct {
	evaluator BatchEvaluator
	suppress  *cache.LRU[string]
	logger    watermill.LoggerAdapter

	messagesReceived   atomic.Int64
	aircraftSeen       atomic.Int64
	verdictsEmitted    atomic.Int64
	verdictsSuppressed atomic.Int64
	parseErrors        atomic.Int64
	lastMessageTime    atomic.Value // time.Time
}

// HandlerStats is a snapshot of VerdictHandler counters.
type HandlerStats struct {
	MessagesReceived   int64     `json:"messages_received"`
	AircraftSeen       int64     `json:"aircraft_seen"`
	VerdictsEmitted    int64     `json:"verdicts_emitted"`
	VerdictsSuppressed int64     `json:"verdicts_suppressed"`
	ParseErrors        int64     `json:"parse_errors"`
	LastMessageTime    time.Time `json:"last_message_time,omitempty"`
}

// NewVerdictHandler creates a handler over evaluator. suppress may be nil
// to emit every flagged record.
func NewVerdictHandler(evaluator BatchEvaluator, suppress *cache.LRU[string], logger watermill.LoggerAdapter) (*VerdictHandler, error) {
	if evaluator == nil {
		return nil, fmt.Errorf("%w: evaluator cannot be nil", ErrInvalidConfig)
	}
	if logger == nil {
		logger = watermill.NopLogger{}
	}
	h := &VerdictHandler{evaluator: evaluator, suppress: suppress, logger: logger}
	h.lastMessageTime.Store(time.Time{})
	return h, nil
}

// Handle is a message.HandlerFunc.
func (h *VerdictHandler) Handle(msg *message.Message) ([]*message.Message, error) {
	start := time.Now()
	h.messagesReceived.Add(1)
	h.lastMessageTime.Store(start)
	metrics.RecordFeedConsume()

	recs, err := DecodeAircraft(msg.Payload)
	if err != nil {
		h.parseErrors.Add(1)
		metrics.RecordFeedParseFailed()
		h.logger.Error("Dropping malformed aircraft message", err, watermill.LogFields{
			"message_uuid": msg.UUID,
		})
		return nil, nil
	}
	h.aircraftSeen.Add(int64(len(recs)))

	ctx := msg.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	result := h.evaluator.EvaluateBatch(ctx, recs)

	out := make([]*message.Message, 0, len(result.Flagged))
	for _, rec := range result.Flagged {
		if h.suppressed(rec) {
			h.verdictsSuppressed.Add(1)
			continue
		}
		vm, err := NewVerdictMessage(rec)
		if err != nil {
			// Records decoded from JSON always re-encode.
			return nil, fmt.Errorf("encode verdict for %s: %w", rec.Hex, err)
		}
		out = append(out, vm)
	}

	h.verdictsEmitted.Add(int64(len(out)))
	metrics.RecordFeedProcessingDuration(time.Since(start))

	if len(out) > 0 {
		h.logger.Debug("Aircraft message classified", watermill.LogFields{
			"message_uuid": msg.UUID,
			"evaluated":    result.Evaluated,
			"flagged":      len(out),
		})
	}
	return out, nil
}

// suppressed reports whether rec repeats the last verdict emitted for its
// hex within the window. Snapshot entries without a hex share no identity,
// so they are always emitted.
func (h *VerdictHandler) suppressed(rec *detection.Aircraft) bool {
	hex := strings.TrimSpace(rec.Hex)
	if h.suppress == nil || hex == "" {
		return false
	}
	return h.suppress.IsDuplicate(hex, verdictKey(rec), equalKeys)
}

// Stats returns the handler counters.
func (h *VerdictHandler) Stats() HandlerStats {
	last, _ := h.lastMessageTime.Load().(time.Time)
	return HandlerStats{
		MessagesReceived:   h.messagesReceived.Load(),
		AircraftSeen:       h.aircraftSeen.Load(),
		VerdictsEmitted:    h.verdictsEmitted.Load(),
		VerdictsSuppressed: h.verdictsSuppressed.Load(),
		ParseErrors:        h.parseErrors.Load(),
		LastMessageTime:    last,
	}
}

// DecodeAircraft accepts either a single aircraft object or a Snapshot.
// Null entries in a snapshot are skipped.
func DecodeAircraft(payload []byte) ([]*detection.Aircraft, error) {
	payload = bytes.TrimSpace(payload)
	if len(payload) == 0 || payload[0] != '{' {
		return nil, ErrMalformedPayload
	}

	var envelope struct {
		Aircraft json.RawMessage `json:"aircraft"`
	}
	if err := json.Unmarshal(payload, &envelope); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}

	if envelope.Aircraft != nil {
		var snap Snapshot
		if err := json.Unmarshal(payload, &snap); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
		}
		recs := make([]*detection.Aircraft, 0, len(snap.Aircraft))
		for _, rec := range snap.Aircraft {
			if rec != nil {
				recs = append(recs, rec)
			}
		}
		return recs, nil
	}

	var rec detection.Aircraft
	if err := json.Unmarshal(payload, &rec); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	if rec.Hex == "" {
		return nil, fmt.Errorf("%w: missing hex", ErrMalformedPayload)
	}
	return []*detection.Aircraft{&rec}, nil
}

// NewVerdictMessage encodes an evaluated record as a verdict message. The
// primary category and highest anomaly severity are copied into metadata so
// subscribers can filter without decoding the payload.
func NewVerdictMessage(rec *detection.Aircraft) (*message.Message, error) {
	payload, err := json.Marshal(rec)
	if err != nil {
		return nil, err
	}
	msg := message.NewMessage(uuid.NewString(), payload)
	msg.Metadata.Set(MetadataHex, rec.Hex)

	v := &rec.Calculated.Verdict
	if v.PrimaryMatch != nil {
		msg.Metadata.Set(MetadataCategory, v.PrimaryMatch.Category)
	}
	if v.HasAnomalies {
		msg.Metadata.Set(MetadataSeverity, string(v.HighestSeverity))
	}
	return msg, nil
}

// verdictKey summarizes what a subscriber would act on: the match
// categories and the anomaly types with their severity.
func verdictKey(rec *detection.Aircraft) string {
	v := &rec.Calculated.Verdict
	var b strings.Builder
	for i := range v.Matches {
		b.WriteString(v.Matches[i].Category)
		b.WriteByte(',')
	}
	b.WriteByte('|')
	for i := range v.Anomalies {
		b.WriteString(v.Anomalies[i].Type)
		b.WriteByte(':')
		b.WriteString(string(v.Anomalies[i].Severity))
		b.WriteByte(',')
	}
	return b.String()
}

func equalKeys(a, b string) bool { return a == b }
