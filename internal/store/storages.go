package store

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-pref-sync/internal/config"
	"github.com/MKhiriev/go-pref-sync/internal/crypto"
	"github.com/MKhiriev/go-pref-sync/internal/logger"
)

// Storages groups the server-side repositories.
type Storages struct {
	// DocumentRepository persists user-scoped configuration documents.
	DocumentRepository DocumentRepository
}

// NewStorages initialises the server storage layer: it connects to the
// document database, runs pending goose migrations, and wires the document
// repository. When cfg.DB.DSN is empty the server falls back to the
// in-memory repository (development mode, nothing survives a restart).
func NewStorages(cfg config.Storage, log *logger.Logger) (*Storages, error) {
	log.Info().Msg("creating new storages...")

	if cfg.DB.DSN == "" {
		log.Warn().Msg("no database DSN configured, using in-memory document repository")
		return &Storages{DocumentRepository: NewMemoryDocumentRepository()}, nil
	}

	db, err := NewConnectPostgres(context.Background(), cfg.DB, log)
	if err != nil {
		return nil, fmt.Errorf("postgres connection error: %w", err)
	}

	if err = db.Migrate(); err != nil {
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	return &Storages{DocumentRepository: NewDocumentRepository(db, log)}, nil
}

// ClientStorages groups the client-side storage layer.
type ClientStorages struct {
	// RecordStore is the SQLite-backed device-local record store.
	RecordStore RecordStore
}

// NewClientStorages initialises the client storage layer: it opens the local
// SQLite file named by cfg.DB.DSN (creating it if missing), bootstraps the
// schema, and wires the record store with credential sealing derived from
// devicePassphrase.
func NewClientStorages(cfg config.ClientStorage, devicePassphrase string, log *logger.Logger) (*ClientStorages, error) {
	log.Info().Msg("creating new storages...")

	db, err := NewConnectSQLite(context.Background(), cfg.DB, log)
	if err != nil {
		return nil, fmt.Errorf("sqlite connection error: %w", err)
	}

	recordStore, err := NewRecordStore(db, crypto.NewSealer(), devicePassphrase, log)
	if err != nil {
		return nil, fmt.Errorf("create record store: %w", err)
	}

	return &ClientStorages{RecordStore: recordStore}, nil
}
