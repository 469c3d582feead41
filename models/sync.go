// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// SyncState is the lifecycle state of a reconciliation engine instance.
// One instance exists per document kind.
//
// Transitions:
//
//	Uninitialized → Loading → {Adopted | Reconciling} → Subscribed
//
// Reconciling moves to Subscribed only after arbitration completes. Error is
// reachable from any state. Subscribed is terminal until an identity change
// tears the engine down and resets it to Uninitialized.
type SyncState string

const (
	StateUninitialized SyncState = "uninitialized"
	StateLoading       SyncState = "loading"
	StateAdopted       SyncState = "adopted"
	StateReconciling   SyncState = "reconciling"
	StateSubscribed    SyncState = "subscribed"
	StateError         SyncState = "error"
)

// AdoptionSource records which branch of the reconciliation decision table
// produced the engine's authoritative in-memory Record.
type AdoptionSource string

const (
	// AdoptedDefault: neither tier held a Record; an empty default was adopted.
	AdoptedDefault AdoptionSource = "default"

	// AdoptedRemote: only the remote tier held a Record.
	AdoptedRemote AdoptionSource = "remote"

	// AdoptedLocalMigrated: only the local tier held a Record; it was written
	// to the remote tier as an initial migration and the local copy cleared.
	AdoptedLocalMigrated AdoptionSource = "local-migrated"

	// AdoptedEqual: both tiers held byte-equal snapshots; the redundant local
	// copy was cleared.
	AdoptedEqual AdoptionSource = "equal"

	// AdoptedLocal: anonymous session; the local tier is authoritative and no
	// network calls were made.
	AdoptedLocal AdoptionSource = "local"

	// AdoptedArbiter: both tiers diverged and a conflict resolution chose the
	// adopted snapshot.
	AdoptedArbiter AdoptionSource = "arbiter"
)
