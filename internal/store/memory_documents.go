package store

import (
	"context"
	"sync"

	"github.com/MKhiriev/go-pref-sync/models"
)

type memoryDocumentKey struct {
	userID string
	kind   models.Kind
}

// memoryDocumentRepository is an in-memory [DocumentRepository] used by
// handler tests and the server's no-database development mode.
type memoryDocumentRepository struct {
	mu   sync.RWMutex
	docs map[memoryDocumentKey]models.Record
}

// NewMemoryDocumentRepository constructs an empty in-memory repository.
func NewMemoryDocumentRepository() DocumentRepository {
	return &memoryDocumentRepository{docs: make(map[memoryDocumentKey]models.Record)}
}

// Get implements [DocumentRepository].
func (m *memoryDocumentRepository) Get(_ context.Context, userID string, kind models.Kind) (models.Record, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	doc, ok := m.docs[memoryDocumentKey{userID: userID, kind: kind}]
	if !ok {
		return nil, false, nil
	}
	return doc.Clone(), true, nil
}

// Merge implements [DocumentRepository].
func (m *memoryDocumentRepository) Merge(_ context.Context, userID string, kind models.Kind, partial models.PartialRecord) (models.Record, error) {
	if len(partial) == 0 {
		return nil, ErrNothingToMerge
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	key := memoryDocumentKey{userID: userID, kind: kind}
	merged := m.docs[key].Merge(partial)
	m.docs[key] = merged

	return merged.Clone(), nil
}
