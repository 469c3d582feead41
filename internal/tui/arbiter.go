// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"context"

	"github.com/MKhiriev/go-pref-sync/models"
)

type conflictRequest struct {
	conflict *models.ConflictCase
	reply    chan models.Resolution
}

// ModalArbiter is the interactive [service.ConflictArbiter]: Resolve parks the
// conflict on a channel the running TUI drains, renders it as a modal, and
// returns whichever resolution the user picked.
//
// The engine discards late resolutions itself, so a conflict abandoned by a
// session change simply stays on screen until dismissed; answering it is a
// harmless no-op.
type ModalArbiter struct {
	requests chan conflictRequest
}

// NewModalArbiter builds an arbiter with no buffering: Resolve blocks until
// the TUI picks the conflict up.
func NewModalArbiter() *ModalArbiter {
	return &ModalArbiter{requests: make(chan conflictRequest)}
}

// Resolve implements [service.ConflictArbiter].
func (a *ModalArbiter) Resolve(ctx context.Context, conflict *models.ConflictCase) (models.Resolution, error) {
	req := conflictRequest{conflict: conflict, reply: make(chan models.Resolution, 1)}

	select {
	case a.requests <- req:
	case <-ctx.Done():
		return "", ctx.Err()
	}

	select {
	case resolution := <-req.reply:
		return resolution, nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}
