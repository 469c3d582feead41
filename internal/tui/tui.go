// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package tui is the interactive client surface: a bubbletea application with
// a sync status screen, preference and API-key editors, and the modal that
// serves as the default interactive conflict arbiter.
package tui

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/MKhiriev/go-pref-sync/internal/adapter"
	"github.com/MKhiriev/go-pref-sync/internal/auth"
	"github.com/MKhiriev/go-pref-sync/internal/logger"
	"github.com/MKhiriev/go-pref-sync/internal/service"
)

// ErrUserQuit reports that the user closed the application deliberately.
var ErrUserQuit = errors.New("вышел из программы")

// TUI owns the terminal application. The arbiter it is constructed with must
// be the same instance handed to the engine, otherwise conflicts never reach
// the modal.
type TUI struct {
	services *service.ClientServices
	signal   *auth.Signal
	sessions *adapter.SessionClient
	arbiter  *ModalArbiter
	version  string
}

// New assembles the TUI over an already wired client core.
func New(services *service.ClientServices, signal *auth.Signal, sessions *adapter.SessionClient, arbiter *ModalArbiter, version string, _ *logger.Logger) *TUI {
	return &TUI{
		services: services,
		signal:   signal,
		sessions: sessions,
		arbiter:  arbiter,
		version:  version,
	}
}

// Run blocks until the user quits or ctx is cancelled.
func (t *TUI) Run(ctx context.Context) error {
	model := newAppModel(ctx, t.services, t.signal, t.sessions, t.arbiter, t.version)

	finalModel, err := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return ctx.Err()
		}
		return err
	}

	result, ok := finalModel.(appModel)
	if !ok {
		return tea.ErrProgramKilled
	}
	if result.quitByUser {
		return ErrUserQuit
	}
	return nil
}
