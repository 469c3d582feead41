// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"encoding/json"
	"sort"
)

// Kind identifies one user-scoped configuration document. Every engine
// instance owns exactly one kind.
type Kind string

const (
	// KindPreferences is the display/theme preferences document.
	KindPreferences Kind = "preferences"

	// KindCredentials is the provider API-credential document. Its Record
	// fields are credential IDs mapped to JSON-encoded [ProviderCredential]
	// values.
	KindCredentials Kind = "credentials"
)

// Valid reports whether k is a known document kind.
func (k Kind) Valid() bool {
	return k == KindPreferences || k == KindCredentials
}

// Record is a flat mapping of named fields to scalar values (string, float64,
// bool) representing one whole-document snapshot of a configuration document.
//
// Reconciliation compares whole-document snapshots via [Record.Canonical];
// partial writes merge field-by-field via [Record.Merge].
type Record map[string]any

// PartialRecord is a field-level update applied on top of an existing Record.
// Fields absent from the partial are left untouched.
type PartialRecord map[string]any

// Clone returns an independent shallow copy of r. Values are scalars, so a
// shallow copy is a full copy.
func (r Record) Clone() Record {
	if r == nil {
		return nil
	}
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Merge applies partial on top of r and returns the result. r itself is not
// modified. A nil receiver is treated as an empty Record.
func (r Record) Merge(partial PartialRecord) Record {
	out := r.Clone()
	if out == nil {
		out = make(Record, len(partial))
	}
	for k, v := range partial {
		out[k] = v
	}
	return out
}

// Canonical returns the canonical serialized form of r used for divergence
// detection: a JSON object with lexicographically sorted keys. Two Records are
// considered equal exactly when their canonical forms are byte-equal.
//
// encoding/json already sorts map keys, so marshalling the map is sufficient;
// numeric values must be stored as float64 (the JSON number type) for the
// comparison to be stable across a decode/encode round trip.
func (r Record) Canonical() string {
	if len(r) == 0 {
		return "{}"
	}
	payload, err := json.Marshal(map[string]any(r))
	if err != nil {
		// Records hold only scalars; marshalling cannot fail for well-formed
		// data. Fall back to a non-equal sentinel rather than panicking.
		return ""
	}
	return string(payload)
}

// Equal reports whether r and other have identical canonical forms.
func (r Record) Equal(other Record) bool {
	return r.Canonical() == other.Canonical()
}

// FieldNames returns the sorted field names of r.
func (r Record) FieldNames() []string {
	names := make([]string, 0, len(r))
	for k := range r {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
