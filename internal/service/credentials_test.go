// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-pref-sync/internal/logger"
	"github.com/MKhiriev/go-pref-sync/models"
)

// engineStub implements ReconciliationEngine for buffer tests without the
// full reconciliation machinery.
type engineStub struct {
	record    models.Record
	hasRecord bool
	updates   []models.PartialRecord
	updateErr error
}

func (e *engineStub) Run(context.Context, <-chan models.Session)       {}
func (e *engineStub) HandleAuthChange(models.Session)                  {}
func (e *engineStub) Record(models.Kind) (models.Record, bool)         { return e.record.Clone(), e.hasRecord }
func (e *engineStub) State(models.Kind) models.SyncState               { return models.StateSubscribed }
func (e *engineStub) Err(models.Kind) error                            { return nil }
func (e *engineStub) Resync(models.Kind)                               {}
func (e *engineStub) Close()                                           {}
func (e *engineStub) Update(_ models.Kind, p models.PartialRecord) error {
	if e.updateErr != nil {
		return e.updateErr
	}
	e.updates = append(e.updates, p)
	return nil
}

func newTestBuffer(t *testing.T, initial []models.ProviderCredential) (CredentialBuffer, *engineStub) {
	t.Helper()

	stub := &engineStub{}
	if initial != nil {
		rec, err := models.RecordFromCredentials(initial)
		require.NoError(t, err)
		stub.record = rec
		stub.hasRecord = true
	}

	buffer := NewCredentialBuffer(stub, logger.Nop())
	buffer.Load()
	return buffer, stub
}

// ── drafts ────────────────────────────────────────────────────────────────────

func TestCredentialBuffer_LoadAndList(t *testing.T) {
	buffer, _ := newTestBuffer(t, []models.ProviderCredential{
		{ID: "b", Name: "work", Provider: "openai", APIKey: "k2", UpdatedAt: time.Now()},
		{ID: "a", Name: "home", Provider: "anthropic", APIKey: "k1", UpdatedAt: time.Now()},
		{ID: "c", Name: "old", APIKey: "k3", Deleted: true, UpdatedAt: time.Now()},
	})

	drafts := buffer.Drafts()
	require.Len(t, drafts, 2, "tombstones are not listed")
	assert.Equal(t, "home", drafts[0].Name)
	assert.Equal(t, "work", drafts[1].Name)
	assert.False(t, buffer.HasUnsavedChanges())
}

func TestCredentialBuffer_AddAndUpdateDraft(t *testing.T) {
	buffer, _ := newTestBuffer(t, nil)

	id := buffer.AddDraft()
	require.NotEmpty(t, id)
	assert.True(t, buffer.HasUnsavedChanges())

	require.NoError(t, buffer.UpdateDraft(id, DraftFieldName, "work"))
	require.NoError(t, buffer.UpdateDraft(id, DraftFieldProvider, "openai"))
	require.NoError(t, buffer.UpdateDraft(id, DraftFieldAPIKey, "sk-123"))

	drafts := buffer.Drafts()
	require.Len(t, drafts, 1)
	assert.Equal(t, "work", drafts[0].Name)
	assert.Equal(t, "openai", drafts[0].Provider)
	assert.Equal(t, "sk-123", drafts[0].APIKey)
}

func TestCredentialBuffer_UpdateDraftErrors(t *testing.T) {
	buffer, _ := newTestBuffer(t, nil)

	assert.ErrorIs(t, buffer.UpdateDraft("missing", DraftFieldName, "x"), ErrDraftNotFound)

	id := buffer.AddDraft()
	assert.Error(t, buffer.UpdateDraft(id, "color", "red"))
}

// TestCredentialBuffer_DeleteDraft: uncommitted drafts vanish, committed ones
// become tombstones that keep propagating.
func TestCredentialBuffer_DeleteDraft(t *testing.T) {
	committed := models.ProviderCredential{ID: "a", Name: "home", APIKey: "k1", UpdatedAt: time.Now()}
	buffer, stub := newTestBuffer(t, []models.ProviderCredential{committed})

	fresh := buffer.AddDraft()
	require.NoError(t, buffer.DeleteDraft(fresh))
	assert.ErrorIs(t, buffer.DeleteDraft(fresh), ErrDraftNotFound)

	require.NoError(t, buffer.DeleteDraft("a"))
	assert.Empty(t, buffer.Drafts())

	require.NoError(t, buffer.Commit(context.Background()))
	require.Len(t, stub.updates, 1)

	raw, ok := stub.updates[0]["a"].(string)
	require.True(t, ok, "tombstone must be part of the committed partial")
	cred, err := models.DecodeCredential(raw)
	require.NoError(t, err)
	assert.True(t, cred.Deleted)
}

// ── commit ────────────────────────────────────────────────────────────────────

func TestCredentialBuffer_CommitWritesThroughEngine(t *testing.T) {
	buffer, stub := newTestBuffer(t, nil)

	id := buffer.AddDraft()
	require.NoError(t, buffer.UpdateDraft(id, DraftFieldName, "work"))
	require.NoError(t, buffer.UpdateDraft(id, DraftFieldAPIKey, "sk-123"))

	require.NoError(t, buffer.Commit(context.Background()))
	assert.NoError(t, buffer.LastError())
	assert.False(t, buffer.HasUnsavedChanges())
	assert.False(t, buffer.IsCommitting())

	require.Len(t, stub.updates, 1)
	raw, ok := stub.updates[0][id].(string)
	require.True(t, ok)
	cred, err := models.DecodeCredential(raw)
	require.NoError(t, err)
	assert.Equal(t, "work", cred.Name)
	assert.Equal(t, "sk-123", cred.APIKey)
}

// TestCredentialBuffer_CommitValidation: invalid drafts produce a field-level
// error list and no write at all; typed input is preserved.
func TestCredentialBuffer_CommitValidation(t *testing.T) {
	buffer, stub := newTestBuffer(t, nil)

	missingKey := buffer.AddDraft()
	require.NoError(t, buffer.UpdateDraft(missingKey, DraftFieldName, "work"))

	missingName := buffer.AddDraft()
	require.NoError(t, buffer.UpdateDraft(missingName, DraftFieldAPIKey, "sk-123"))

	err := buffer.Commit(context.Background())
	require.Error(t, err)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Len(t, verr.Fields, 2)
	assert.Empty(t, stub.updates, "validation failure must not write")
	assert.Len(t, buffer.Drafts(), 2, "drafts preserved so input is not lost")
	assert.Equal(t, err, buffer.LastError())
}

func TestCredentialBuffer_CommitRejectsDuplicateNames(t *testing.T) {
	buffer, stub := newTestBuffer(t, nil)

	first := buffer.AddDraft()
	require.NoError(t, buffer.UpdateDraft(first, DraftFieldName, "Work"))
	require.NoError(t, buffer.UpdateDraft(first, DraftFieldAPIKey, "k1"))

	second := buffer.AddDraft()
	require.NoError(t, buffer.UpdateDraft(second, DraftFieldName, "work"))
	require.NoError(t, buffer.UpdateDraft(second, DraftFieldAPIKey, "k2"))

	err := buffer.Commit(context.Background())
	require.Error(t, err)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	require.Len(t, verr.Fields, 2)
	for _, f := range verr.Fields {
		assert.Equal(t, DraftFieldName, f.Field)
	}
	assert.Empty(t, stub.updates)
}

func TestCredentialBuffer_CommitEngineFailureIsSurfaced(t *testing.T) {
	buffer, stub := newTestBuffer(t, nil)
	stub.updateErr = errors.New("remote down")

	id := buffer.AddDraft()
	require.NoError(t, buffer.UpdateDraft(id, DraftFieldName, "work"))
	require.NoError(t, buffer.UpdateDraft(id, DraftFieldAPIKey, "sk-123"))

	err := buffer.Commit(context.Background())
	assert.ErrorIs(t, err, stub.updateErr)
	assert.Equal(t, err, buffer.LastError())
	assert.True(t, buffer.HasUnsavedChanges(), "failed commit keeps the dirty flag")
}

func TestCredentialBuffer_LoadDiscardsDrafts(t *testing.T) {
	buffer, _ := newTestBuffer(t, []models.ProviderCredential{
		{ID: "a", Name: "home", APIKey: "k1", UpdatedAt: time.Now()},
	})

	id := buffer.AddDraft()
	require.NoError(t, buffer.UpdateDraft(id, DraftFieldName, "scratch"))
	require.True(t, buffer.HasUnsavedChanges())

	buffer.Load()
	assert.False(t, buffer.HasUnsavedChanges())
	drafts := buffer.Drafts()
	require.Len(t, drafts, 1)
	assert.Equal(t, "home", drafts[0].Name)
}
