// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/MKhiriev/go-pref-sync/internal/logger"
	"github.com/MKhiriev/go-pref-sync/internal/utils"
	"github.com/MKhiriev/go-pref-sync/models"
)

// Draft field names accepted by UpdateDraft.
const (
	DraftFieldName     = "name"
	DraftFieldProvider = "provider"
	DraftFieldAPIKey   = "api_key"
)

type credentialBuffer struct {
	engine ReconciliationEngine
	uuid   *utils.UUIDGenerator
	logger *logger.Logger
	now    func() time.Time

	mu         sync.Mutex
	drafts     map[string]models.ProviderCredential
	baseline   map[string]models.ProviderCredential
	committing bool
	lastErr    error
}

// NewCredentialBuffer constructs the optimistic edit buffer on top of the
// engine's credentials document. Call Load before presenting the list.
func NewCredentialBuffer(engine ReconciliationEngine, log *logger.Logger) CredentialBuffer {
	return &credentialBuffer{
		engine:   engine,
		uuid:     utils.NewUUIDGenerator(),
		logger:   log,
		now:      time.Now,
		drafts:   make(map[string]models.ProviderCredential),
		baseline: make(map[string]models.ProviderCredential),
	}
}

// Load implements [CredentialBuffer]. Tombstones are loaded too: the buffer
// must keep carrying them so deletions keep propagating through merges.
func (b *credentialBuffer) Load() {
	record, _ := b.engine.Record(models.KindCredentials)

	drafts := make(map[string]models.ProviderCredential, len(record))
	for id, v := range record {
		raw, ok := v.(string)
		if !ok {
			continue
		}
		cred, err := models.DecodeCredential(raw)
		if err != nil {
			b.logger.Warn().Err(err).Str("credential_id", id).Msg("skipping undecodable credential")
			continue
		}
		drafts[id] = cred
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.drafts = drafts
	b.baseline = cloneCredentialMap(drafts)
	b.lastErr = nil
}

// Drafts implements [CredentialBuffer].
func (b *credentialBuffer) Drafts() []models.ProviderCredential {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]models.ProviderCredential, 0, len(b.drafts))
	for _, cred := range b.drafts {
		if cred.Deleted {
			continue
		}
		out = append(out, cred)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// AddDraft implements [CredentialBuffer].
func (b *credentialBuffer) AddDraft() string {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.uuid.Generate()
	b.drafts[id] = models.ProviderCredential{ID: id, UpdatedAt: b.now()}
	return id
}

// UpdateDraft implements [CredentialBuffer].
func (b *credentialBuffer) UpdateDraft(id, field, value string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	cred, ok := b.drafts[id]
	if !ok || cred.Deleted {
		return fmt.Errorf("%w: %s", ErrDraftNotFound, id)
	}

	switch field {
	case DraftFieldName:
		cred.Name = value
	case DraftFieldProvider:
		cred.Provider = value
	case DraftFieldAPIKey:
		cred.APIKey = value
	default:
		return fmt.Errorf("unknown draft field %q", field)
	}
	cred.UpdatedAt = b.now()
	b.drafts[id] = cred
	return nil
}

// DeleteDraft implements [CredentialBuffer]. A draft that has never been
// committed simply disappears; a committed credential becomes a tombstone so
// the deletion wins over stale copies on other devices.
func (b *credentialBuffer) DeleteDraft(id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	cred, ok := b.drafts[id]
	if !ok || cred.Deleted {
		return fmt.Errorf("%w: %s", ErrDraftNotFound, id)
	}

	if _, committed := b.baseline[id]; !committed {
		delete(b.drafts, id)
		return nil
	}

	cred.Deleted = true
	cred.UpdatedAt = b.now()
	b.drafts[id] = cred
	return nil
}

// Commit implements [CredentialBuffer].
func (b *credentialBuffer) Commit(_ context.Context) error {
	b.mu.Lock()
	if b.committing {
		b.mu.Unlock()
		return ErrCommitRunning
	}

	if verr := b.validateLocked(); verr != nil {
		b.lastErr = verr
		b.mu.Unlock()
		return verr
	}

	snapshot := cloneCredentialMap(b.drafts)
	b.committing = true
	b.mu.Unlock()

	partial, err := credentialPartial(snapshot)
	if err == nil {
		err = b.engine.Update(models.KindCredentials, partial)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.committing = false
	b.lastErr = err
	if err != nil {
		return err
	}

	b.baseline = snapshot
	return nil
}

// validateLocked checks every live draft: required fields present, display
// names unique. All problems are reported at once.
func (b *credentialBuffer) validateLocked() error {
	var fields []FieldError

	namesSeen := make(map[string][]string) // normalized name -> draft ids
	for id, cred := range b.drafts {
		if cred.Deleted {
			continue
		}
		if strings.TrimSpace(cred.Name) == "" {
			fields = append(fields, FieldError{DraftID: id, Field: DraftFieldName, Message: "name is required"})
		} else {
			key := strings.ToLower(strings.TrimSpace(cred.Name))
			namesSeen[key] = append(namesSeen[key], id)
		}
		if strings.TrimSpace(cred.APIKey) == "" {
			fields = append(fields, FieldError{DraftID: id, Field: DraftFieldAPIKey, Message: "api key is required"})
		}
	}

	for _, ids := range namesSeen {
		if len(ids) < 2 {
			continue
		}
		for _, id := range ids {
			fields = append(fields, FieldError{DraftID: id, Field: DraftFieldName, Message: "name is already in use"})
		}
	}

	if len(fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: fields}
}

// HasUnsavedChanges implements [CredentialBuffer].
func (b *credentialBuffer) HasUnsavedChanges() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(b.drafts) != len(b.baseline) {
		return true
	}
	for id, cred := range b.drafts {
		if b.baseline[id] != cred {
			return true
		}
	}
	return false
}

// IsCommitting implements [CredentialBuffer].
func (b *credentialBuffer) IsCommitting() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.committing
}

// LastError implements [CredentialBuffer].
func (b *credentialBuffer) LastError() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.lastErr
}

func cloneCredentialMap(m map[string]models.ProviderCredential) map[string]models.ProviderCredential {
	out := make(map[string]models.ProviderCredential, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func credentialPartial(m map[string]models.ProviderCredential) (models.PartialRecord, error) {
	partial := make(models.PartialRecord, len(m))
	for id, cred := range m {
		raw, err := models.EncodeCredential(cred)
		if err != nil {
			return nil, err
		}
		partial[id] = raw
	}
	return partial, nil
}
