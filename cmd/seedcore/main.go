// Seedcore - Seismic Waveform Acquisition Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seedcore

// Command seedcore is the CLI entrypoint: run-cli executes one end-to-end
// plan/fetch/compact pass from a config file, sync-db bootstraps or
// refreshes the index from an existing SDS tree.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

// Transient fetch/parse/write failures are logged and absorbed inside the
// run itself (orchestrator.RunService, fetchpipe, bootstrap). Any error that
// does reach Execute() — a *apperr.ConfigError, an *apperr.IndexError, a
// command-line usage error, or any other error a command returns — is
// printed to stderr and exits with code 1.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
