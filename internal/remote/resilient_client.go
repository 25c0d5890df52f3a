// Seedcore - Seismic Waveform Acquisition Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seedcore

package remote

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/tomtom215/seedcore/internal/apperr"
	"github.com/tomtom215/seedcore/internal/logging"
	"github.com/tomtom215/seedcore/internal/metrics"
	"github.com/tomtom215/seedcore/internal/model"
)

// ResilientClientConfig configures the circuit breaker and rate limiter
// wrapped around a concrete Client.
type ResilientClientConfig struct {
	// Name identifies the circuit breaker instance in logs and metrics.
	Name string

	// MaxRequests is the number of requests allowed in half-open state.
	MaxRequests uint32

	// Interval is the cyclic reset period for closed-state counts.
	Interval time.Duration

	// Timeout is the duration in open state before transitioning to half-open.
	Timeout time.Duration

	// FailureThreshold is the number of consecutive failures before opening.
	FailureThreshold uint32

	// RequestsPerSecond and Burst bound the sustained and instantaneous
	// request rate issued to the remote data service.
	RequestsPerSecond float64
	Burst             int

	// MaxRetries bounds the exponential-backoff retry applied to transient
	// failures before a FetchError is returned.
	MaxRetries uint64
}

// DefaultResilientClientConfig returns conservative defaults suitable for a
// single remote data-service endpoint.
func DefaultResilientClientConfig(name string) ResilientClientConfig {
	return ResilientClientConfig{
		Name:              name,
		MaxRequests:       1,
		Interval:          30 * time.Second,
		Timeout:           10 * time.Second,
		FailureThreshold:  5,
		RequestsPerSecond: 4,
		Burst:             4,
		MaxRetries:        3,
	}
}

// ResilientClient wraps a concrete Client with a circuit breaker, a token-
// bucket rate limiter, and bounded retry, so a failing or slow remote
// service degrades one request at a time rather than stalling the run.
type ResilientClient struct {
	inner   Client
	cfg     ResilientClientConfig
	breaker *gobreaker.CircuitBreaker[any]
	limiter *rate.Limiter
}

// NewResilientClient wraps inner behind the configured circuit breaker and
// rate limiter.
func NewResilientClient(inner Client, cfg ResilientClientConfig) *ResilientClient {
	rc := &ResilientClient{
		inner:   inner,
		cfg:     cfg,
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst),
	}

	settings := gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.FailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			metrics.SetCircuitBreakerState(name, int(to))
			logging.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).
				Msg("remote data service circuit breaker state change")
		},
	}
	rc.breaker = gobreaker.NewCircuitBreaker[any](settings)
	return rc
}

// GetWaveforms fetches the MiniSEED byte stream for req, through the rate
// limiter, circuit breaker, and retry.
func (rc *ResilientClient) GetWaveforms(ctx context.Context, req WaveformRequest) ([]byte, error) {
	result, err := rc.call(ctx, fmt.Sprintf("%s.%s.%s.%s", req.Network, req.Station, req.Location, req.Channel),
		func(ctx context.Context) (any, error) {
			return rc.inner.GetWaveforms(ctx, req)
		})
	if err != nil {
		return nil, err
	}
	return result.([]byte), nil
}

// GetStations fetches station metadata for req.
func (rc *ResilientClient) GetStations(ctx context.Context, req StationRequest) (model.Inventory, error) {
	result, err := rc.call(ctx, "station-query", func(ctx context.Context) (any, error) {
		return rc.inner.GetStations(ctx, req)
	})
	if err != nil {
		return model.Inventory{}, err
	}
	return result.(model.Inventory), nil
}

// GetEvents fetches an event catalog for req.
func (rc *ResilientClient) GetEvents(ctx context.Context, req EventRequest) (model.EventCatalog, error) {
	result, err := rc.call(ctx, "event-query", func(ctx context.Context) (any, error) {
		return rc.inner.GetEvents(ctx, req)
	})
	if err != nil {
		return model.EventCatalog{}, err
	}
	return result.(model.EventCatalog), nil
}

// call runs fn under the rate limiter, circuit breaker, and bounded retry,
// recording fetch metrics and wrapping any terminal failure as a
// *apperr.FetchError naming requestLabel.
func (rc *ResilientClient) call(ctx context.Context, requestLabel string, fn func(context.Context) (any, error)) (any, error) {
	start := time.Now()

	if err := rc.limiter.Wait(ctx); err != nil {
		metrics.RecordFetch("error", time.Since(start))
		return nil, &apperr.FetchError{Request: requestLabel, Err: err}
	}

	b := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), rc.cfg.MaxRetries), ctx)

	var result any
	retryErr := backoff.Retry(func() error {
		res, err := rc.breaker.Execute(func() (any, error) { return fn(ctx) })
		if err != nil {
			if err == gobreaker.ErrOpenState || err == gobreaker.ErrTooManyRequests {
				return backoff.Permanent(err)
			}
			return err
		}
		result = res
		return nil
	}, b)

	if retryErr != nil {
		metrics.RecordFetch("error", time.Since(start))
		return nil, &apperr.FetchError{Request: requestLabel, Err: retryErr}
	}

	metrics.RecordFetch("success", time.Since(start))
	return result, nil
}
