// Seedcore - Seismic Waveform Acquisition Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seedcore

package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/tomtom215/seedcore/internal/apperr"
	"github.com/tomtom215/seedcore/internal/bootstrap"
	"github.com/tomtom215/seedcore/internal/compactor"
	"github.com/tomtom215/seedcore/internal/index"
	"github.com/tomtom215/seedcore/internal/logging"
)

func newSyncDBCmd() *cobra.Command {
	var patterns []string
	var newerThan string
	var cpu int
	var gapTolerance float64

	cmd := &cobra.Command{
		Use:   "sync-db <sds_path> <db_path>",
		Short: "Bootstrap or refresh the archive index from an existing SDS tree",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return syncDB(cmd.Context(), args[0], args[1], patterns, newerThan, cpu, gapTolerance)
		},
	}
	cmd.Flags().StringSliceVar(&patterns, "search-patterns", nil, "shell-glob filename patterns (default: the standard SDS single-day pattern)")
	cmd.Flags().StringVar(&newerThan, "newer-than", "", "skip files whose mtime is not after this RFC3339 timestamp")
	cmd.Flags().IntVar(&cpu, "cpu", 0, "bounded parallelism for the file scan (0 = all available CPUs)")
	cmd.Flags().Float64Var(&gapTolerance, "gap-tolerance", 60, "seconds of gap tolerated when compacting adjacent intervals after bootstrap")
	return cmd
}

func syncDB(ctx context.Context, sdsPath, dbPath string, patterns []string, newerThan string, cpu int, gapToleranceSec float64) error {
	logging.Init(logging.DefaultConfig())

	var newerThanTime time.Time
	if newerThan != "" {
		t, err := time.Parse(time.RFC3339, newerThan)
		if err != nil {
			return &apperr.ConfigError{Msg: fmt.Sprintf("--newer-than %q is not an RFC3339 timestamp: %v", newerThan, err)}
		}
		newerThanTime = t
	}

	db, err := index.Open(dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	bootCfg := bootstrap.Config{Root: sdsPath, Patterns: patterns, NewerThan: newerThanTime, Concurrency: cpu}
	if err := bootstrap.Run(ctx, db, bootCfg); err != nil {
		return err
	}

	return compactor.Run(db, time.Duration(gapToleranceSec*float64(time.Second)))
}
