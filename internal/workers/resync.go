// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package workers

import (
	"context"
	"time"

	"github.com/MKhiriev/go-pref-sync/internal/logger"
	"github.com/MKhiriev/go-pref-sync/internal/service"
	"github.com/MKhiriev/go-pref-sync/models"
)

// resyncWorker periodically nudges the engine to retry kinds stuck in the
// error state. The engine itself never retries; the retry policy lives here
// so a flaky network does not leave the client broken until restart.
type resyncWorker struct {
	engine   service.ReconciliationEngine
	interval time.Duration
	logger   *logger.Logger
}

// NewResyncWorker constructs the periodic resync worker.
func NewResyncWorker(engine service.ReconciliationEngine, interval time.Duration, log *logger.Logger) Worker {
	return &resyncWorker{engine: engine, interval: interval, logger: log}
}

// Run implements [Worker].
func (w *resyncWorker) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.sweep()
		}
	}
}

func (w *resyncWorker) sweep() {
	for _, kind := range []models.Kind{models.KindPreferences, models.KindCredentials} {
		if w.engine.State(kind) != models.StateError {
			continue
		}
		w.logger.Info().
			Str("kind", string(kind)).
			AnErr("last_error", w.engine.Err(kind)).
			Msg("retrying failed sync")
		w.engine.Resync(kind)
	}
}
