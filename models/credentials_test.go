// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cred(id, name, key string, at time.Time) ProviderCredential {
	return ProviderCredential{ID: id, Name: name, Provider: "openai", APIKey: key, UpdatedAt: at}
}

// ── encode / decode ───────────────────────────────────────────────────────────

func TestCredentialsFromRecord_OrderedByName(t *testing.T) {
	now := time.Now().UTC()
	rec, err := RecordFromCredentials([]ProviderCredential{
		cred("id-2", "zeta", "sk-2", now),
		cred("id-1", "alpha", "sk-1", now),
	})
	require.NoError(t, err)

	got := CredentialsFromRecord(rec)
	require.Len(t, got, 2)
	assert.Equal(t, "alpha", got[0].Name)
	assert.Equal(t, "zeta", got[1].Name)
}

func TestCredentialsFromRecord_SkipsTombstonesAndGarbage(t *testing.T) {
	now := time.Now().UTC()
	dead := cred("id-dead", "old", "sk", now)
	dead.Deleted = true

	rec, err := RecordFromCredentials([]ProviderCredential{cred("id-1", "live", "sk-1", now), dead})
	require.NoError(t, err)
	rec["id-bad"] = "{not json"
	rec["id-num"] = 42.0

	got := CredentialsFromRecord(rec)
	require.Len(t, got, 1)
	assert.Equal(t, "live", got[0].Name)
}

// ── MergeCredentialRecords ────────────────────────────────────────────────────

// TestMergeCredentialRecords_Union verifies that sub-records present on only
// one side survive the merge.
func TestMergeCredentialRecords_Union(t *testing.T) {
	now := time.Now().UTC()
	local, err := RecordFromCredentials([]ProviderCredential{cred("id-l", "local-only", "sk-l", now)})
	require.NoError(t, err)
	remote, err := RecordFromCredentials([]ProviderCredential{cred("id-r", "remote-only", "sk-r", now)})
	require.NoError(t, err)

	merged := MergeCredentialRecords(local, remote)
	got := CredentialsFromRecord(merged)

	require.Len(t, got, 2)
	assert.Equal(t, "local-only", got[0].Name)
	assert.Equal(t, "remote-only", got[1].Name)
}

// TestMergeCredentialRecords_LastWriterWins verifies that for a shared ID the
// sub-record with the later UpdatedAt is kept whole.
func TestMergeCredentialRecords_LastWriterWins(t *testing.T) {
	older := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	newer := older.Add(time.Hour)

	local, err := RecordFromCredentials([]ProviderCredential{cred("id-1", "renamed-locally", "sk-new", newer)})
	require.NoError(t, err)
	remote, err := RecordFromCredentials([]ProviderCredential{cred("id-1", "original", "sk-old", older)})
	require.NoError(t, err)

	got := CredentialsFromRecord(MergeCredentialRecords(local, remote))
	require.Len(t, got, 1)
	assert.Equal(t, "renamed-locally", got[0].Name)
	assert.Equal(t, "sk-new", got[0].APIKey)

	// and the other way around: remote newer → remote wins
	got = CredentialsFromRecord(MergeCredentialRecords(remote, local))
	require.Len(t, got, 1)
	assert.Equal(t, "renamed-locally", got[0].Name)
}

// TestMergeCredentialRecords_SameNameDistinctIDs documents the dedupe-by-ID
// decision: two devices creating a credential with the same display name end
// up with two entries.
func TestMergeCredentialRecords_SameNameDistinctIDs(t *testing.T) {
	now := time.Now().UTC()
	local, err := RecordFromCredentials([]ProviderCredential{cred("id-a", "work", "sk-a", now)})
	require.NoError(t, err)
	remote, err := RecordFromCredentials([]ProviderCredential{cred("id-b", "work", "sk-b", now)})
	require.NoError(t, err)

	got := CredentialsFromRecord(MergeCredentialRecords(local, remote))
	assert.Len(t, got, 2)
}

// TestMergeCredentialRecords_TombstoneNotResurrected verifies that a newer
// deletion beats a stale live copy.
func TestMergeCredentialRecords_TombstoneNotResurrected(t *testing.T) {
	older := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	newer := older.Add(time.Hour)

	dead := cred("id-1", "gone", "sk", newer)
	dead.Deleted = true

	local, err := RecordFromCredentials([]ProviderCredential{dead})
	require.NoError(t, err)
	remote, err := RecordFromCredentials([]ProviderCredential{cred("id-1", "gone", "sk", older)})
	require.NoError(t, err)

	got := CredentialsFromRecord(MergeCredentialRecords(local, remote))
	assert.Empty(t, got)
}

func TestMergeCredentialRecords_UndecodableFallsBackToRemote(t *testing.T) {
	now := time.Now().UTC()
	remote, err := RecordFromCredentials([]ProviderCredential{cred("id-1", "remote", "sk-r", now)})
	require.NoError(t, err)
	local := Record{"id-1": "{broken"}

	merged := MergeCredentialRecords(local, remote)
	got := CredentialsFromRecord(merged)
	require.Len(t, got, 1)
	assert.Equal(t, "remote", got[0].Name)
}
