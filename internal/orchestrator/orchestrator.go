// Seedcore - Seismic Waveform Acquisition Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seedcore

// Package orchestrator wires the archive index, request planner, fetch
// pipeline, and segment compactor into one run, and supervises that run
// under a suture.Supervisor so a transient crash (as opposed to the
// ordinary "log and skip" failure paths already built into each stage)
// is retried with backoff rather than taking the process down.
package orchestrator

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/thejerf/suture/v4"
	"github.com/thejerf/sutureslog"

	"github.com/tomtom215/seedcore/internal/apperr"
	"github.com/tomtom215/seedcore/internal/compactor"
	"github.com/tomtom215/seedcore/internal/config"
	"github.com/tomtom215/seedcore/internal/fetchpipe"
	"github.com/tomtom215/seedcore/internal/logging"
	"github.com/tomtom215/seedcore/internal/model"
	"github.com/tomtom215/seedcore/internal/planner"
	"github.com/tomtom215/seedcore/internal/remote"
	"github.com/tomtom215/seedcore/internal/travetime"
)

// Index is the full archive index surface one run needs: gap/arrival
// queries for planning, the archive upsert the fetch pipeline writes
// through, and the row-level reads/writes the compactor uses. *index.DB
// satisfies this; tests substitute a fake.
type Index interface {
	planner.Index
	fetchpipe.ArchiveIndex
	compactor.Index
}

// Deps are the collaborators one run needs. Index and Client are the only
// two boundaries the orchestrator depends on directly; TTModel is only
// required for event-mode runs.
type Deps struct {
	Config  *config.Config
	Index   Index
	Client  remote.Client
	TTModel travetime.Model
}

// RunService is a one-shot suture.Service: Serve executes exactly one
// plan/fetch/compact pass for the configured download_type and returns.
// Returning nil tells the supervisor the service finished normally and
// should not be restarted; returning an error from a genuinely transient
// stage lets suture's backoff retry it.
type RunService struct {
	Deps
}

// NewRunService builds the one-shot run service from its dependencies.
func NewRunService(deps Deps) *RunService {
	return &RunService{Deps: deps}
}

// String names this service in suture's event log.
func (s *RunService) String() string { return "seedcore-run-" + s.Config.DownloadType }

// Serve runs one end-to-end pass: plan, fetch/merge/persist, compact.
func (s *RunService) Serve(ctx context.Context) error {
	ctx = logging.ContextWithNewCorrelationID(ctx)
	logger := logging.CtxWith(ctx).Str("download_type", s.Config.DownloadType).Logger()
	logger.Info().Msg("run starting")

	var err error
	switch s.Config.DownloadType {
	case "continuous":
		err = s.runContinuous(ctx)
	case "event":
		err = s.runEvent(ctx)
	default:
		return &apperr.ConfigError{Msg: fmt.Sprintf("unknown download_type %q", s.Config.DownloadType)}
	}
	if err != nil {
		logger.Warn().Err(err).Msg("run ended with an error")
		return err
	}

	tolerance := time.Duration(s.Config.GapTolerance) * time.Second
	if err := compactor.Run(s.Index, tolerance); err != nil {
		logger.Warn().Err(err).Msg("compactor pass failed")
		return err
	}

	logger.Info().Msg("run complete")
	return nil
}

func (s *RunService) runContinuous(ctx context.Context) error {
	inv, err := s.inventory(ctx)
	if err != nil {
		return err
	}

	requests, err := planner.PlanContinuous(s.Index, inv, s.Config.Station.StartTime, s.Config.Station.EndTime, s.Config.Waveform.DaysPerRequest)
	if err != nil {
		return err
	}

	pipeline := fetchpipe.New(s.Client, s.Index, s.Config.SDSPath)
	for _, req := range requests {
		if err := pipeline.Run(ctx, req); err != nil {
			logging.CtxWarn(ctx).Err(err).Msg("request failed and was skipped")
		}
	}
	return nil
}

func (s *RunService) runEvent(ctx context.Context) error {
	inv, err := s.inventory(ctx)
	if err != nil {
		return err
	}

	catalog, err := s.Client.GetEvents(ctx, remote.EventRequest{
		Start:                s.Config.Event.StartTime,
		End:                  s.Config.Event.EndTime,
		MinDepthKm:           s.Config.Event.MinDepthKm,
		MaxDepthKm:           s.Config.Event.MaxDepthKm,
		MinMagnitude:         s.Config.Event.MinMag,
		MaxMagnitude:         s.Config.Event.MaxMag,
		Contributor:          s.Config.Event.Contributor,
		IncludeAllOrigins:    s.Config.Event.IncludeAllOrigins,
		IncludeAllMagnitudes: s.Config.Event.IncludeAllMagnitudes,
	})
	if err != nil {
		return &apperr.FetchError{Request: "event catalog", Err: err}
	}

	beforeP := time.Duration(s.Config.Event.BeforePSec) * time.Second
	afterP := time.Duration(s.Config.Event.AfterPSec) * time.Second

	pipeline := fetchpipe.New(s.Client, s.Index, s.Config.SDSPath)
	for _, ev := range catalog.Events {
		requests, err := planner.PlanEvent(ctx, s.Index, s.TTModel, ev, inv, s.Config.Waveform.ChannelPref, beforeP, afterP)
		if err != nil {
			logging.CtxWarn(ctx).Err(err).Str("event_id", ev.ID).Msg("event planning failed and was skipped")
			continue
		}
		for _, req := range requests {
			if err := pipeline.Run(ctx, req); err != nil {
				logging.CtxWarn(ctx).Err(err).Str("event_id", ev.ID).Msg("request failed and was skipped")
			}
		}
	}
	return nil
}

func (s *RunService) inventory(ctx context.Context) (model.Inventory, error) {
	inv, err := s.Client.GetStations(ctx, remote.StationRequest{
		Network:           s.Config.Station.Network,
		Station:           s.Config.Station.Station,
		Location:          s.Config.Station.Location,
		Channel:           s.Config.Station.Channel,
		Start:             s.Config.Station.StartTime,
		End:               s.Config.Station.EndTime,
		IncludeRestricted: s.Config.Station.IncludeRestricted,
	})
	if err != nil {
		return model.Inventory{}, &apperr.FetchError{Request: "station inventory", Err: err}
	}
	return inv.Filter(s.Config.Station.ForceStations, s.Config.Station.ExcludeStations), nil
}

// NewSupervisor builds a root suture.Supervisor with a slog/sutureslog
// event hook, the same shape the media-server tree used for its HTTP and
// sync services, sized down to a single-service tree for one run.
func NewSupervisor(name string) *suture.Supervisor {
	handler := &sutureslog.Handler{Logger: slog.Default()}
	return suture.New(name, suture.Spec{
		EventHook:        handler.MustHook(),
		FailureThreshold: 5,
		FailureDecay:     30,
		FailureBackoff:   15 * time.Second,
		Timeout:          10 * time.Second,
	})
}

// onceService adapts a one-shot RunService to the supervisor tree: its
// own Serve call always returns nil (suture's "stop, don't restart"
// signal) so a single end-to-end run never loops under suture's restart
// policy, while the run's actual result is handed back on result and the
// supervisor is told to stop via cancel.
type onceService struct {
	inner  *RunService
	result chan<- error
	cancel context.CancelFunc
}

func (o *onceService) String() string { return o.inner.String() }

func (o *onceService) Serve(ctx context.Context) error {
	err := o.inner.Serve(ctx)
	select {
	case o.result <- err:
	default:
	}
	o.cancel()
	return nil
}

// Run builds a single-service supervisor around deps, runs it exactly
// once, and returns the run's result. The supervisor tree exists so a
// daemonized caller gets the same failure-isolation and structured event
// logging the media-server's long-running services use; a one-shot CLI
// invocation stops the tree itself as soon as the run completes.
func Run(ctx context.Context, deps Deps) error {
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	result := make(chan error, 1)
	sup := NewSupervisor("seedcore")
	sup.Add(&onceService{inner: NewRunService(deps), result: result, cancel: cancel})

	errCh := sup.ServeBackground(runCtx)

	var runErr error
	select {
	case runErr = <-result:
	case runErr = <-errCh:
		return runErr
	}
	<-errCh
	return runErr
}
