// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package workers

import (
	"context"

	"github.com/MKhiriev/go-pref-sync/internal/auth"
	"github.com/MKhiriev/go-pref-sync/internal/service"
)

// sessionWorker feeds the identity signal into the engine for the lifetime
// of the application.
type sessionWorker struct {
	engine service.ReconciliationEngine
	signal *auth.Signal
}

// NewSessionWorker constructs the worker that connects the auth signal to
// the reconciliation engine.
func NewSessionWorker(engine service.ReconciliationEngine, signal *auth.Signal) Worker {
	return &sessionWorker{engine: engine, signal: signal}
}

// Run implements [Worker].
func (w *sessionWorker) Run(ctx context.Context) {
	sessions, cancel := w.signal.Subscribe()
	defer cancel()

	w.engine.Run(ctx, sessions)
}
