package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-pref-sync/models"
)

func TestPreferRemoteArbiter(t *testing.T) {
	arbiter := NewPreferRemoteArbiter()

	conflict := models.NewConflictCase(models.KindPreferences,
		models.Record{"theme": "dark"}, models.Record{"theme": "light"})

	resolution, err := arbiter.Resolve(context.Background(), conflict)
	require.NoError(t, err)
	assert.Equal(t, models.ResolutionUseRemote, resolution)
}

func TestArbiterFunc(t *testing.T) {
	called := false
	arbiter := ArbiterFunc(func(_ context.Context, c *models.ConflictCase) (models.Resolution, error) {
		called = true
		assert.True(t, c.OffersMerge())
		return models.ResolutionMerge, nil
	})

	conflict := models.NewConflictCase(models.KindCredentials, models.Record{}, models.Record{})
	resolution, err := arbiter.Resolve(context.Background(), conflict)
	require.NoError(t, err)
	assert.True(t, called)
	assert.Equal(t, models.ResolutionMerge, resolution)
}
