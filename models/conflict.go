// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "errors"

// Resolution is the outcome of a conflict arbitration.
type Resolution string

const (
	// ResolutionUseLocal adopts the local snapshot and pushes it to the
	// remote tier.
	ResolutionUseLocal Resolution = "use-local"

	// ResolutionUseRemote adopts the remote snapshot as-is.
	ResolutionUseRemote Resolution = "use-remote"

	// ResolutionMerge unions both snapshots. Only offered for the
	// credentials kind, where sub-records carry a stable identifier.
	ResolutionMerge Resolution = "merge"
)

// ErrResolutionAlreadySet is returned when a conflict ticket is resolved a
// second time. The slot is filled exactly once.
var ErrResolutionAlreadySet = errors.New("conflict resolution already set")

// ConflictCase is produced when both tiers hold a Record for the same logical
// document and their canonical snapshots differ. It is an explicit ticket
// object passed by reference to the arbiter; the resolution slot is filled
// exactly once and read back by the engine.
type ConflictCase struct {
	// Kind is the document kind the conflict belongs to.
	Kind Kind

	// Local is the device-local snapshot at the time of divergence.
	Local Record

	// Remote is the remote-tier snapshot at the time of divergence.
	Remote Record

	resolution Resolution
	resolved   bool
}

// NewConflictCase builds a ticket for the given divergent snapshots.
func NewConflictCase(kind Kind, local, remote Record) *ConflictCase {
	return &ConflictCase{Kind: kind, Local: local.Clone(), Remote: remote.Clone()}
}

// SetResolution fills the resolution slot. Returns
// [ErrResolutionAlreadySet] if the slot has already been filled.
func (c *ConflictCase) SetResolution(r Resolution) error {
	if c.resolved {
		return ErrResolutionAlreadySet
	}
	c.resolution = r
	c.resolved = true
	return nil
}

// Resolution returns the filled resolution and whether it has been set.
func (c *ConflictCase) Resolution() (Resolution, bool) {
	return c.resolution, c.resolved
}

// OffersMerge reports whether the merge resolution is valid for this
// conflict. Only credential documents support union-merge.
func (c *ConflictCase) OffersMerge() bool {
	return c.Kind == KindCredentials
}
