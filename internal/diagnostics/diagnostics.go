// Seedcore - Seismic Waveform Acquisition Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seedcore

// Package diagnostics exposes operator tooling over HTTP: a SQL
// passthrough onto the archive index (spec's ExecuteQuery) and a
// Prometheus scrape endpoint. It is optional surface around the core
// pipeline, wired as its own suture.Service so a long-running daemon can
// supervise it the same way it supervises a run.
package diagnostics

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/seedcore/internal/index"
	"github.com/tomtom215/seedcore/internal/logging"
)

// QueryExecutor is the archive index surface the /query endpoint needs.
// *index.DB satisfies this.
type QueryExecutor interface {
	ExecuteQuery(query string) (isTabular bool, message string, rows []index.Row, err error)
}

type queryRequest struct {
	SQL string `json:"sql"`
}

type queryResponse struct {
	Tabular bool        `json:"tabular"`
	Message string      `json:"message"`
	Rows    []index.Row `json:"rows,omitempty"`
}

// NewRouter builds the diagnostics HTTP handler: POST /query runs
// ExecuteQuery against the index, GET /metrics serves the process's
// Prometheus registry.
func NewRouter(qe QueryExecutor) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RealIP)

	r.Post("/query", handleQuery(qe))
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	return r
}

func handleQuery(qe QueryExecutor) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		var body queryRequest
		if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
			http.Error(w, "malformed request body", http.StatusBadRequest)
			return
		}
		if body.SQL == "" {
			http.Error(w, "sql field is required", http.StatusBadRequest)
			return
		}

		tabular, message, rows, err := qe.ExecuteQuery(body.SQL)
		if err != nil {
			logging.Warn().Err(err).Msg("diagnostics query failed")
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(queryResponse{Tabular: tabular, Message: message, Rows: rows})
	}
}

// Service adapts the diagnostics HTTP server to suture.Service: Serve
// starts listening, then blocks until ctx is canceled or the server
// fails, shutting the server down gracefully on cancellation.
type Service struct {
	server          *http.Server
	shutdownTimeout time.Duration
}

// NewService builds a diagnostics Service bound to addr.
func NewService(addr string, qe QueryExecutor) *Service {
	return &Service{
		server:          &http.Server{Addr: addr, Handler: NewRouter(qe)},
		shutdownTimeout: 10 * time.Second,
	}
}

// String names this service in suture's event log.
func (s *Service) String() string { return "seedcore-diagnostics" }

// Serve implements suture.Service.
func (s *Service) Serve(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("diagnostics server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()
		if err := s.server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("diagnostics server shutdown failed: %w", err)
		}
		<-errCh
		return ctx.Err()
	}
}
