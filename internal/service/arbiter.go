package service

import (
	"context"

	"github.com/MKhiriev/go-pref-sync/models"
)

// PreferRemoteArbiter resolves every conflict in favour of the remote
// snapshot without asking anyone. It is the fallback the engine installs
// when the host application supplies no arbiter: the alternative would be a
// reconciliation that hangs forever waiting for a modal nobody renders.
//
// Remote wins because it is the multi-device tier; the displaced local
// snapshot predates the last successful sync from another device.
type PreferRemoteArbiter struct{}

// NewPreferRemoteArbiter constructs the deterministic fallback arbiter.
func NewPreferRemoteArbiter() *PreferRemoteArbiter {
	return &PreferRemoteArbiter{}
}

// Resolve implements [ConflictArbiter].
func (a *PreferRemoteArbiter) Resolve(_ context.Context, _ *models.ConflictCase) (models.Resolution, error) {
	return models.ResolutionUseRemote, nil
}
