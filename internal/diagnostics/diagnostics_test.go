// Seedcore - Seismic Waveform Acquisition Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seedcore

package diagnostics

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/tomtom215/seedcore/internal/index"
)

type fakeQueryExecutor struct {
	tabular bool
	message string
	rows    []index.Row
	err     error
}

func (f *fakeQueryExecutor) ExecuteQuery(query string) (bool, string, []index.Row, error) {
	return f.tabular, f.message, f.rows, f.err
}

func TestQueryEndpointReturnsRows(t *testing.T) {
	qe := &fakeQueryExecutor{
		tabular: true,
		message: "query executed successfully, 1 row returned",
		rows:    []index.Row{{"network": "AU"}},
	}
	router := NewRouter(qe)

	body, _ := json.Marshal(queryRequest{SQL: "SELECT * FROM archive_data"})
	req := httptest.NewRequest(http.MethodPost, "/query", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	var resp queryResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("json.Unmarshal() error = %v", err)
	}
	if !resp.Tabular || len(resp.Rows) != 1 {
		t.Fatalf("resp = %+v, want one tabular row", resp)
	}
}

func TestQueryEndpointRejectsEmptyBody(t *testing.T) {
	router := NewRouter(&fakeQueryExecutor{})
	req := httptest.NewRequest(http.MethodPost, "/query", bytes.NewReader([]byte(`{}`)))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400 for an empty sql field", rr.Code)
	}
}

func TestQueryEndpointSurfacesExecutionError(t *testing.T) {
	qe := &fakeQueryExecutor{message: "error executing query: boom", err: errors.New("boom")}
	router := NewRouter(qe)

	body, _ := json.Marshal(queryRequest{SQL: "SELECT 1"})
	req := httptest.NewRequest(http.MethodPost, "/query", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (the error is reported in the JSON body, not the status line)", rr.Code)
	}
	var resp queryResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("json.Unmarshal() error = %v", err)
	}
	if resp.Message == "" {
		t.Fatal("resp.Message is empty, want the execution error message")
	}
}

func TestMetricsEndpointServesPrometheusFormat(t *testing.T) {
	router := NewRouter(&fakeQueryExecutor{})
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
}

func TestServiceServeShutsDownOnContextCancel(t *testing.T) {
	svc := NewService("127.0.0.1:0", &fakeQueryExecutor{})
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- svc.Serve(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil && !errors.Is(err, context.Canceled) {
			t.Fatalf("Serve() error = %v, want nil or context.Canceled", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Serve() did not return after context cancellation")
	}
}
