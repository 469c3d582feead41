// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package service contains the client's sync core: the reconciliation engine
// that decides which storage tier is authoritative for each document kind,
// the conflict arbiter contract it suspends on when the tiers diverge, and
// the optimistic edit buffer used by the credential management surface.
package service

import (
	"context"

	"github.com/MKhiriev/go-pref-sync/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/service_mock.go -package=mock

// ReconciliationEngine owns the authoritative in-memory Record for every
// document kind and keeps it consistent with the device-local store and the
// remote document store.
//
// The engine is driven by session transitions: a named session makes the
// remote tier authoritative (after a one-time reconciliation against local
// state), an anonymous session makes the local tier authoritative with no
// network traffic at all. One realtime subscription per kind is held while
// remote-authoritative.
type ReconciliationEngine interface {
	// Run consumes the session stream until ctx is cancelled. Each emitted
	// session is handed to HandleAuthChange. Run blocks; start it on its own
	// goroutine.
	Run(ctx context.Context, sessions <-chan models.Session)

	// HandleAuthChange reacts to a session transition. Any in-flight
	// reconciliation, pending arbitration, or live subscription belonging to
	// the previous session is invalidated before the new regime starts.
	HandleAuthChange(session models.Session)

	// Update applies a partial record edit. Anonymous sessions write through
	// to the local store. Named sessions merge into the in-memory record and
	// propagate to the remote store; if reconciliation for the kind is still
	// in flight the update is queued and replayed after adoption, never
	// dropped.
	Update(kind models.Kind, partial models.PartialRecord) error

	// Record returns the current authoritative record for kind and whether
	// one has been adopted yet. The returned record is a snapshot; mutating
	// it does not affect the engine.
	Record(kind models.Kind) (models.Record, bool)

	// State returns the sync lifecycle state for kind.
	State(kind models.Kind) models.SyncState

	// Err returns the error that put kind into [models.StateError], or nil.
	Err(kind models.Kind) error

	// Resync restarts reconciliation for a kind stuck in [models.StateError].
	// It is a no-op in any other state or in the anonymous regime.
	Resync(kind models.Kind)

	// Close tears down all subscriptions and invalidates in-flight work.
	Close()
}

// ConflictArbiter adjudicates a divergence between the local and remote
// snapshots of one document. Resolve blocks until a resolution is chosen
// (typically by a human in a modal) or ctx is cancelled.
//
// The engine discards late resolutions on its own; an arbiter does not need
// to care whether the session changed while it was waiting.
type ConflictArbiter interface {
	Resolve(ctx context.Context, conflict *models.ConflictCase) (models.Resolution, error)
}

// ArbiterFunc adapts a plain function to the [ConflictArbiter] interface.
type ArbiterFunc func(ctx context.Context, conflict *models.ConflictCase) (models.Resolution, error)

// Resolve implements [ConflictArbiter].
func (f ArbiterFunc) Resolve(ctx context.Context, conflict *models.ConflictCase) (models.Resolution, error) {
	return f(ctx, conflict)
}

// CredentialBuffer is the optimistic edit buffer behind the provider
// credential management surface. Edits accumulate as drafts; nothing reaches
// the engine until Commit validates the whole set and performs a single
// merged write.
type CredentialBuffer interface {
	// Load (re)fills the buffer from the engine's current credentials record,
	// discarding any uncommitted drafts.
	Load()

	// Drafts returns the current draft list sorted for display.
	Drafts() []models.ProviderCredential

	// AddDraft appends a new empty draft and returns its generated id.
	AddDraft() string

	// UpdateDraft mutates one field of the identified draft.
	// Returns [ErrDraftNotFound] for an unknown id.
	UpdateDraft(id, field, value string) error

	// DeleteDraft removes the identified draft. Drafts that were already
	// committed previously are tombstoned so the deletion propagates to other
	// devices. Returns [ErrDraftNotFound] for an unknown id.
	DeleteDraft(id string) error

	// Commit validates all drafts and, if they pass, writes the full set
	// through the engine in one partial update. On validation failure no
	// write happens and the drafts are preserved so typed input is not lost;
	// the per-field problems are available via LastError.
	Commit(ctx context.Context) error

	// HasUnsavedChanges reports whether the drafts differ from the last
	// loaded or committed state.
	HasUnsavedChanges() bool

	// IsCommitting reports whether a Commit is currently in flight.
	IsCommitting() bool

	// LastError returns the error recorded by the most recent Commit, or nil
	// if it succeeded. Validation failures are returned as
	// [*ValidationError] so callers can render per-field messages.
	LastError() error
}
