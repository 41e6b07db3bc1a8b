// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"

	"github.com/AleutianAI/arrayviz/pkg/logging"
	"github.com/AleutianAI/arrayviz/services/arrayviz/algorithms"
	"github.com/AleutianAI/arrayviz/services/arrayviz/config"
	"github.com/AleutianAI/arrayviz/services/arrayviz/session"
	arraydb "github.com/AleutianAI/arrayviz/services/arrayviz/storage/badger"
	"github.com/AleutianAI/arrayviz/services/arrayviz/telemetry"
)

// app holds everything a command needs. Fields are filled by setup in the
// root command's PersistentPreRunE; the store opens on first use so
// commands that never touch it do not lock the database.
type app struct {
	// Flags
	configPath string
	inMemory   bool
	debug      bool

	cfg      *config.Config
	logger   *logging.Logger
	metrics  *telemetry.Metrics
	runner   *session.Runner
	db       *arraydb.DB
	store    session.Store
	shutdown func(context.Context) error
}

// newRootCmd builds the command tree around a fresh app.
func newRootCmd() (*cobra.Command, *app) {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "arrayviz",
		Short: "Record and replay array algorithm animations",
		Long: `arrayviz runs instrumented array algorithms, records every state
change as a frame, and replays the frames with per-step diffs for a renderer.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd.Context(), cmd.Name() == "serve", cmd.ErrOrStderr())
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "config file (default ~/.arrayviz/arrayviz.yaml)")
	flags.BoolVar(&a.inMemory, "in-memory", false, "keep recordings in memory only")
	flags.BoolVar(&a.debug, "debug", false, "enable debug logging")

	rootCmd.AddCommand(
		newAlgorithmsCmd(a),
		newRunCmd(a),
		newListCmd(a),
		newShowCmd(a),
		newDiffCmd(a),
		newDeleteCmd(a),
		newServeCmd(a),
	)
	return rootCmd, a
}

// setup loads config, then builds the logger, telemetry and runner.
func (a *app) setup(ctx context.Context, serving bool, stderr io.Writer) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if a.inMemory {
		cfg.Storage.InMemory = true
	}
	a.cfg = cfg

	level, err := logging.ParseLevel(cfg.Logging.Level)
	if err != nil {
		return err
	}
	switch {
	case a.debug:
		level = logging.LevelDebug
	case !serving:
		// Keep one-shot command output readable.
		level = max(level, logging.LevelWarn)
	}
	a.logger = logging.New(logging.Config{
		Level:   level,
		LogDir:  cfg.Logging.Dir,
		Service: "arrayviz",
		JSON:    cfg.Logging.JSON,
		Output:  stderr,
	})
	logging.SetDefault(a.logger)

	a.shutdown, err = telemetry.Init(ctx, cfg.Telemetry)
	if err != nil {
		return fmt.Errorf("init telemetry: %w", err)
	}
	a.metrics, err = telemetry.NewMetrics(otel.Meter("arrayviz"))
	if err != nil {
		return fmt.Errorf("create metrics: %w", err)
	}

	a.runner = session.NewRunner(algorithms.DefaultRegistry(),
		session.WithLogger(a.logger.Slog()),
		session.WithMetrics(a.metrics),
		session.WithDelay(cfg.Render.Delay),
	)
	return nil
}

// openStore returns the recording store, opening it on first call.
func (a *app) openStore() (session.Store, error) {
	if a.store != nil {
		return a.store, nil
	}
	if a.cfg.Storage.InMemory {
		a.store = session.NewMemoryStore()
		return a.store, nil
	}

	dbCfg := arraydb.DefaultConfig(a.cfg.Storage.Path)
	dbCfg.SyncWrites = a.cfg.Storage.SyncWrites
	dbCfg.GCInterval = a.cfg.Storage.GCInterval
	dbCfg.Logger = a.logger.Slog()

	db, err := arraydb.Open(dbCfg)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	a.db = db
	a.store = session.NewBadgerStore(db)
	return a.store, nil
}

// Close releases the database, telemetry and log file. Safe to call on
// an app whose setup never ran or failed partway.
func (a *app) Close() error {
	var errs []error
	if a.db != nil {
		errs = append(errs, a.db.Close())
		a.db = nil
	}
	if a.shutdown != nil {
		errs = append(errs, a.shutdown(context.Background()))
		a.shutdown = nil
	}
	if a.logger != nil {
		errs = append(errs, a.logger.Close())
	}
	return errors.Join(errs...)
}
