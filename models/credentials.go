// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"
)

// ProviderCredential is one API-provider credential sub-record stored inside
// the credentials document. The credentials Record maps credential ID →
// JSON-encoded ProviderCredential, so a field-level remote merge operates on
// whole credentials keyed by their stable identifier.
type ProviderCredential struct {
	// ID is the stable identifier (UUID) assigned when the credential is
	// first created. Union-merge matches sub-records by this value.
	ID string `json:"id"`

	// Name is the user-visible display name. Unique within one document.
	Name string `json:"name"`

	// Provider is the model-provider slug (e.g. "openai", "anthropic").
	Provider string `json:"provider"`

	// APIKey is the secret key. Sealed before it reaches the local store.
	APIKey string `json:"api_key"`

	// UpdatedAt is the last-writer timestamp used to pick a side for
	// conflicting fields during union-merge.
	UpdatedAt time.Time `json:"updated_at"`

	// Deleted marks a tombstone. Tombstones survive merges so a deletion on
	// one device is not resurrected by another device's stale copy.
	Deleted bool `json:"deleted,omitempty"`
}

// EncodeCredential serializes c into the Record field value format.
func EncodeCredential(c ProviderCredential) (string, error) {
	payload, err := json.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("encode credential %s: %w", c.ID, err)
	}
	return string(payload), nil
}

// DecodeCredential parses a Record field value into a ProviderCredential.
func DecodeCredential(raw string) (ProviderCredential, error) {
	var c ProviderCredential
	if err := json.Unmarshal([]byte(raw), &c); err != nil {
		return ProviderCredential{}, fmt.Errorf("decode credential: %w", err)
	}
	return c, nil
}

// CredentialsFromRecord decodes every field of a credentials Record.
// Tombstoned entries are excluded. The result is ordered by Name, then ID,
// which is the presentation order of the credential list.
// Fields that fail to decode are skipped: a single corrupt sub-record must not
// hide the rest of the document.
func CredentialsFromRecord(r Record) []ProviderCredential {
	out := make([]ProviderCredential, 0, len(r))
	for _, v := range r {
		raw, ok := v.(string)
		if !ok {
			continue
		}
		c, err := DecodeCredential(raw)
		if err != nil || c.Deleted {
			continue
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// RecordFromCredentials encodes credentials (tombstones included) into the
// Record field format.
func RecordFromCredentials(creds []ProviderCredential) (Record, error) {
	r := make(Record, len(creds))
	for _, c := range creds {
		raw, err := EncodeCredential(c)
		if err != nil {
			return nil, err
		}
		r[c.ID] = raw
	}
	return r, nil
}

// MergeCredentialRecords unions two credentials Records by stable ID.
// For IDs present on both sides the sub-record with the later UpdatedAt wins
// whole (last-writer-wins per conflicting sub-record; the document has no
// per-field timestamps below that granularity). Sub-records present on only
// one side are kept. Undecodable entries fall back to the remote value.
//
// Two devices creating distinct credentials with the same display name
// produce two entries; deduplication is by ID only.
func MergeCredentialRecords(local, remote Record) Record {
	merged := remote.Clone()
	if merged == nil {
		merged = make(Record, len(local))
	}

	for id, lv := range local {
		rv, onRemote := merged[id]
		if !onRemote {
			merged[id] = lv
			continue
		}

		lraw, lok := lv.(string)
		rraw, rok := rv.(string)
		if !lok || !rok {
			continue // keep remote
		}

		lc, lerr := DecodeCredential(lraw)
		rc, rerr := DecodeCredential(rraw)
		if lerr != nil || rerr != nil {
			continue // keep remote
		}

		if lc.UpdatedAt.After(rc.UpdatedAt) {
			merged[id] = lv
		}
	}

	return merged
}
