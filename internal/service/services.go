package service

import (
	"github.com/MKhiriev/go-pref-sync/internal/adapter"
	"github.com/MKhiriev/go-pref-sync/internal/logger"
	"github.com/MKhiriev/go-pref-sync/internal/store"
)

// ClientServices bundles the client's sync core for wiring into the app.
type ClientServices struct {
	Engine           ReconciliationEngine
	CredentialBuffer CredentialBuffer
}

// NewClientServices wires the engine and the credential buffer. arbiter may
// be nil; the engine then falls back to preferring the remote snapshot.
func NewClientServices(local store.RecordStore, remote adapter.RemoteStore, arbiter ConflictArbiter, log *logger.Logger) *ClientServices {
	engine := NewReconciliationEngine(local, remote, arbiter, log)

	return &ClientServices{
		Engine:           engine,
		CredentialBuffer: NewCredentialBuffer(engine, log),
	}
}
