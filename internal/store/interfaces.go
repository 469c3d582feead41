package store

import (
	"context"

	"github.com/MKhiriev/go-pref-sync/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

// RecordStore is the device-local persistence tier. It is available without
// authentication, synchronous, and purely local: no method touches the
// network.
//
// A Record that fails to deserialize is treated as absent and logged;
// corruption never propagates as an error to callers.
type RecordStore interface {
	// Read returns the locally stored Record for kind, or ok=false when the
	// store holds no (or only corrupt) data for it.
	Read(kind models.Kind) (models.Record, bool)

	// Write merges partial into the locally stored Record field by field.
	// Fields absent from partial are left untouched.
	Write(kind models.Kind, partial models.PartialRecord) error

	// Clear removes every field of the Record for kind. Called when the
	// Record migrates into the remote tier.
	Clear(kind models.Kind) error
}

// DocumentRepository is the server-side persistence for user-scoped
// configuration documents, one per (user id, kind).
type DocumentRepository interface {
	// Get returns the document for (userID, kind), or ok=false when the
	// user has never written that kind.
	Get(ctx context.Context, userID string, kind models.Kind) (models.Record, bool, error)

	// Merge upserts partial into the document field by field and returns
	// the merged result. The merge is atomic: concurrent merges interleave
	// at field granularity, never torn mid-field.
	Merge(ctx context.Context, userID string, kind models.Kind, partial models.PartialRecord) (models.Record, error)
}
