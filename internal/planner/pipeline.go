// Seedcore - Seismic Waveform Acquisition Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seedcore

package planner

import (
	"context"
	"time"

	"github.com/tomtom215/seedcore/internal/metrics"
	"github.com/tomtom215/seedcore/internal/model"
	"github.com/tomtom215/seedcore/internal/travetime"
)

// Index is the full archive index surface the planner pipeline needs:
// gap queries for pruning plus arrival memoization for event planning.
type Index interface {
	GapIndex
	ArrivalIndex
}

// PlanContinuous runs plan, then prune, then combine for a fixed time
// window, and records the pass in the planner metrics.
func PlanContinuous(idx Index, inv model.Inventory, t0, t1 time.Time, daysPerRequest int) ([]model.FetchRequest, error) {
	started := time.Now()

	planned := Continuous(inv, t0, t1, daysPerRequest)
	pruned, err := Prune(idx, planned)
	if err != nil {
		return nil, err
	}
	combined := Combine(pruned)

	recordPlan("continuous", len(planned), len(pruned), len(combined), started)
	return combined, nil
}

// PlanEvent runs plan, then prune, then combine for a single event, and
// records the pass in the planner metrics.
func PlanEvent(ctx context.Context, idx Index, ttModel travetime.Model, ev model.Event, inv model.Inventory, channelPref []string, beforeP, afterP time.Duration) ([]model.FetchRequest, error) {
	started := time.Now()

	planned, err := Event(ctx, idx, ttModel, ev, inv, channelPref, beforeP, afterP)
	if err != nil {
		return nil, err
	}
	pruned, err := Prune(idx, planned)
	if err != nil {
		return nil, err
	}
	combined := Combine(pruned)

	recordPlan("event", len(planned), len(pruned), len(combined), started)
	return combined, nil
}

func recordPlan(mode string, planned, pruned, combined int, started time.Time) {
	prunedAway := planned - pruned
	if prunedAway < 0 {
		prunedAway = 0
	}
	combinedAway := pruned - combined
	if combinedAway < 0 {
		combinedAway = 0
	}
	metrics.RecordPlan(mode, planned, prunedAway, combinedAway, time.Since(started))
}
