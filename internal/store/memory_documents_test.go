package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-pref-sync/models"
)

func TestMemoryDocumentRepository_GetAbsent(t *testing.T) {
	repo := NewMemoryDocumentRepository()

	doc, ok, err := repo.Get(context.Background(), "user-1", models.KindPreferences)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, doc)
}

func TestMemoryDocumentRepository_MergeCreatesAndUpserts(t *testing.T) {
	repo := NewMemoryDocumentRepository()
	ctx := context.Background()

	merged, err := repo.Merge(ctx, "user-1", models.KindPreferences, models.PartialRecord{"theme": "dark"})
	require.NoError(t, err)
	assert.Equal(t, models.Record{"theme": "dark"}, merged)

	merged, err = repo.Merge(ctx, "user-1", models.KindPreferences, models.PartialRecord{"fontSize": 1.15})
	require.NoError(t, err)
	assert.Equal(t, models.Record{"theme": "dark", "fontSize": 1.15}, merged)

	doc, ok, err := repo.Get(ctx, "user-1", models.KindPreferences)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, models.Record{"theme": "dark", "fontSize": 1.15}, doc)
}

func TestMemoryDocumentRepository_MergeEmptyPartial(t *testing.T) {
	repo := NewMemoryDocumentRepository()

	_, err := repo.Merge(context.Background(), "user-1", models.KindPreferences, models.PartialRecord{})
	assert.ErrorIs(t, err, ErrNothingToMerge)
}

func TestMemoryDocumentRepository_UsersAndKindsAreIsolated(t *testing.T) {
	repo := NewMemoryDocumentRepository()
	ctx := context.Background()

	_, err := repo.Merge(ctx, "user-1", models.KindPreferences, models.PartialRecord{"theme": "dark"})
	require.NoError(t, err)

	_, ok, err := repo.Get(ctx, "user-2", models.KindPreferences)
	require.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = repo.Get(ctx, "user-1", models.KindCredentials)
	require.NoError(t, err)
	assert.False(t, ok)
}

// TestMemoryDocumentRepository_SnapshotsAreIsolated verifies that mutating a
// returned document does not leak back into the repository.
func TestMemoryDocumentRepository_SnapshotsAreIsolated(t *testing.T) {
	repo := NewMemoryDocumentRepository()
	ctx := context.Background()

	_, err := repo.Merge(ctx, "user-1", models.KindPreferences, models.PartialRecord{"theme": "dark"})
	require.NoError(t, err)

	doc, ok, err := repo.Get(ctx, "user-1", models.KindPreferences)
	require.NoError(t, err)
	require.True(t, ok)
	doc["theme"] = "light"

	doc2, _, err := repo.Get(ctx, "user-1", models.KindPreferences)
	require.NoError(t, err)
	assert.Equal(t, "dark", doc2["theme"])
}
