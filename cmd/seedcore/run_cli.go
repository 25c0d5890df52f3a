// Seedcore - Seismic Waveform Acquisition Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seedcore

package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/tomtom215/seedcore/internal/config"
	"github.com/tomtom215/seedcore/internal/diagnostics"
	"github.com/tomtom215/seedcore/internal/fdsnclient"
	"github.com/tomtom215/seedcore/internal/index"
	"github.com/tomtom215/seedcore/internal/logging"
	"github.com/tomtom215/seedcore/internal/orchestrator"
	"github.com/tomtom215/seedcore/internal/remote"
	"github.com/tomtom215/seedcore/internal/travetime"
)

func newRunCLICmd() *cobra.Command {
	var configFile string
	var diagnosticsAddr string

	cmd := &cobra.Command{
		Use:   "run-cli",
		Short: "Execute one end-to-end plan/fetch/compact run from a config file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCLI(cmd.Context(), configFile, diagnosticsAddr)
		},
	}
	cmd.Flags().StringVarP(&configFile, "file", "f", "", "path to the YAML config file")
	cmd.Flags().StringVar(&diagnosticsAddr, "diagnostics-addr", "", "if set, serve the diagnostics HTTP endpoint (SQL passthrough + /metrics) on this address for the run's duration")
	return cmd
}

func runCLI(ctx context.Context, configFile, diagnosticsAddr string) error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return err
	}
	logging.Init(logging.Config{Level: cfg.Logging.Level, Format: cfg.Logging.Format, Caller: cfg.Logging.Caller})

	db, err := index.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	defer db.Close()

	creds := remoteCredentials(cfg)
	fdsn := fdsnclient.New(cfg.Station.Client, cfg.Event.Client, cfg.Waveform.Client, creds)
	client := remote.NewResilientClient(fdsn, remote.DefaultResilientClientConfig("fdsn"))

	ttModel := travetime.NewLinearModel(cfg.Event.Model, 8.04, 4.47)

	deps := orchestrator.Deps{Config: cfg, Index: db, Client: client, TTModel: ttModel}

	if diagnosticsAddr != "" {
		diagCtx, cancelDiag := context.WithCancel(ctx)
		defer cancelDiag()
		svc := diagnostics.NewService(diagnosticsAddr, db)
		go func() {
			if err := svc.Serve(diagCtx); err != nil {
				logging.Warn().Err(err).Msg("diagnostics server stopped")
			}
		}()
	}

	return orchestrator.Run(ctx, deps)
}

func remoteCredentials(cfg *config.Config) remote.Credentials {
	creds := make(remote.Credentials, len(cfg.Credentials))
	for key, c := range cfg.Credentials {
		creds[key] = remote.Credential{User: c.User, Password: c.Password}
	}
	return creds
}
