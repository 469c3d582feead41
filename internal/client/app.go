// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package client

import (
	"context"
	"errors"

	"github.com/MKhiriev/go-pref-sync/internal/auth"
	"github.com/MKhiriev/go-pref-sync/internal/config"
	"github.com/MKhiriev/go-pref-sync/internal/logger"
	"github.com/MKhiriev/go-pref-sync/internal/service"
	"github.com/MKhiriev/go-pref-sync/internal/tui"
	"github.com/MKhiriev/go-pref-sync/internal/workers"
)

// App ties the sync core, the background workers, and the terminal UI into
// one client process.
type App struct {
	services   *service.ClientServices
	signal     *auth.Signal
	ui         *tui.TUI
	workersCfg config.ClientWorkers
	logger     *logger.Logger
}

// NewApp assembles the client application from already constructed parts.
func NewApp(services *service.ClientServices, signal *auth.Signal, ui *tui.TUI, workersCfg config.ClientWorkers, log *logger.Logger) (Client, error) {
	if services == nil || signal == nil || ui == nil {
		return nil, errors.New("client app is missing required dependencies")
	}

	return &App{
		services:   services,
		signal:     signal,
		ui:         ui,
		workersCfg: workersCfg,
		logger:     log,
	}, nil
}

// Run starts the background workers and the terminal UI and blocks until the
// user quits or the UI fails. The workers are cancelled and drained before
// Run returns, so the engine never outlives the process teardown.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	background := workers.NewWorkers(
		workers.NewSessionWorker(a.services.Engine, a.signal),
		workers.NewResyncWorker(a.services.Engine, a.workersCfg.ResyncInterval, a.logger),
	)

	workersDone := make(chan struct{})
	go func() {
		defer close(workersDone)
		background.Run(ctx)
	}()

	err := a.ui.Run(ctx)

	cancel()
	<-workersDone

	if errors.Is(err, tui.ErrUserQuit) {
		a.logger.Info().Msg("user quit the client")
		return nil
	}

	return err
}
