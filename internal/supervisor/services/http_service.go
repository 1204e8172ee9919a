// Skywatch - ADS-B Aircraft Classification and Anomaly Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skywatch

// Package services adapts skywatch components to suture.Service.
package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/tomtom215/skywatch/internal/logging"
)

const defaultShutdownTimeout = 10 * time.Second

// HTTPServer is the part of *http.Server the service drives.
type HTTPServer interface {
	ListenAndServe() error
	Shutdown(ctx context.Context) error
}

// HTTPServerService keeps the classification API listening under the
// api-layer supervisor.
type HTTPServerService struct {
	server          HTTPServer
	addr            string
	shutdownTimeout time.Duration
}

// NewHTTPServerService wraps server; addr only labels log lines. A
// shutdownTimeout <= 0 means 10s.
func NewHTTPServerService(server HTTPServer, addr string, shutdownTimeout time.Duration) *HTTPServerService {
	if shutdownTimeout <= 0 {
		shutdownTimeout = defaultShutdownTimeout
	}
	return &HTTPServerService{server: server, addr: addr, shutdownTimeout: shutdownTimeout}
}

// Serve listens until ctx is canceled, then drains in-flight requests. A
// listener that exits on its own is reported as an error so suture restarts
// it.
func (h *HTTPServerService) Serve(ctx context.Context) error {
	log := logging.WithComponent("http").With().Str("addr", h.addr).Logger()

	exited := make(chan error, 1)
	go func() { exited <- h.server.ListenAndServe() }()
	log.Info().Msg("HTTP server listening")

	select {
	case <-ctx.Done():
	case err := <-exited:
		if err == nil || errors.Is(err, http.ErrServerClosed) {
			return errors.New("http server exited without shutdown")
		}
		return fmt.Errorf("http listener: %w", err)
	}

	log.Info().Dur("timeout", h.shutdownTimeout).Msg("Draining HTTP server")
	drainCtx, cancel := context.WithTimeout(context.Background(), h.shutdownTimeout)
	defer cancel()
	if err := h.server.Shutdown(drainCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	<-exited
	return ctx.Err()
}

func (h *HTTPServerService) String() string { return "http-server" }
