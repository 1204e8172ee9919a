// Skywatch - ADS-B Aircraft Classification and Anomaly Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skywatch

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/tomtom215/skywatch/internal/logging"
	"github.com/tomtom215/skywatch/internal/metrics"
)

func TestPrometheusMetrics_UsesRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(PrometheusMetrics)
	r.Get("/things/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	counter := metrics.APIRequestsTotal.WithLabelValues("GET", "/things/{id}", "418")
	before := testutil.ToFloat64(counter)

	for _, id := range []string{"1", "2"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/things/"+id, nil))
		if rec.Code != http.StatusTeapot {
			t.Fatalf("status = %d", rec.Code)
		}
	}

	if got := testutil.ToFloat64(counter) - before; got != 2 {
		t.Errorf("requests recorded under route pattern = %v, want 2", got)
	}
}

func TestPrometheusMetrics_DefaultStatus(t *testing.T) {
	h := PrometheusMetrics(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok"))
	}))

	counter := metrics.APIRequestsTotal.WithLabelValues("POST", "/plain", "200")
	before := testutil.ToFloat64(counter)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/plain", nil))

	if got := testutil.ToFloat64(counter) - before; got != 1 {
		t.Errorf("recorded = %v, want 1 under status 200", got)
	}
}

func TestRequestID(t *testing.T) {
	t.Parallel()

	var seenRequestID, seenCorrelationID string
	h := RequestID(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		seenRequestID = logging.RequestIDFromContext(r.Context())
		seenCorrelationID = logging.CorrelationIDFromContext(r.Context())
	}))

	t.Run("generated", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		id := rec.Header().Get(RequestIDHeader)
		if len(id) != 36 {
			t.Errorf("generated request ID = %q, want UUID", id)
		}
		if seenRequestID != id || seenCorrelationID == "" {
			t.Errorf("context ids = %q/%q", seenRequestID, seenCorrelationID)
		}
	})

	t.Run("propagated", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(RequestIDHeader, "upstream-123")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if got := rec.Header().Get(RequestIDHeader); got != "upstream-123" {
			t.Errorf("response header = %q", got)
		}
		if seenRequestID != "upstream-123" {
			t.Errorf("context request ID = %q", seenRequestID)
		}
	})
}
