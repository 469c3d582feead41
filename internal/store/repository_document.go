package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-pref-sync/internal/logger"
	"github.com/MKhiriev/go-pref-sync/models"
)

const (
	getDocument = `
		SELECT fields
		FROM documents
		WHERE user_id = $1 AND kind = $2;`

	// The jsonb concatenation operator implements the field-level merge:
	// existing fields survive, partial fields win.
	mergeDocument = `
		INSERT INTO documents (user_id, kind, fields, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (user_id, kind)
		DO UPDATE SET
			fields = documents.fields || EXCLUDED.fields,
			updated_at = NOW()
		RETURNING fields;`
)

type documentRepository struct {
	*DB
	logger *logger.Logger
}

// NewDocumentRepository constructs the postgres-backed [DocumentRepository].
func NewDocumentRepository(db *DB, logger *logger.Logger) DocumentRepository {
	return &documentRepository{DB: db, logger: logger}
}

// Get implements [DocumentRepository].
func (r *documentRepository) Get(ctx context.Context, userID string, kind models.Kind) (models.Record, bool, error) {
	log := logger.FromContext(ctx)

	var raw []byte
	err := r.DB.QueryRowContext(ctx, getDocument, userID, string(kind)).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		log.Err(err).
			Str("func", "documentRepository.Get").
			Str("user_id", userID).
			Str("kind", string(kind)).
			Str("pg_code", postgresError(err)).
			Msg("failed to query document")
		return nil, false, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	var record models.Record
	if err = json.Unmarshal(raw, &record); err != nil {
		return nil, false, fmt.Errorf("decode document fields: %w", err)
	}

	return record, true, nil
}

// Merge implements [DocumentRepository]. The upsert is a single statement, so
// concurrent merges serialize inside postgres at row granularity.
func (r *documentRepository) Merge(ctx context.Context, userID string, kind models.Kind, partial models.PartialRecord) (models.Record, error) {
	log := logger.FromContext(ctx)

	if len(partial) == 0 {
		return nil, ErrNothingToMerge
	}

	payload, err := json.Marshal(partial)
	if err != nil {
		return nil, fmt.Errorf("encode partial fields: %w", err)
	}

	var raw []byte
	err = r.DB.QueryRowContext(ctx, mergeDocument, userID, string(kind), payload).Scan(&raw)
	if err != nil {
		log.Err(err).
			Str("func", "documentRepository.Merge").
			Str("user_id", userID).
			Str("kind", string(kind)).
			Str("pg_code", postgresError(err)).
			Msg("failed to merge document")
		return nil, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	var merged models.Record
	if err = json.Unmarshal(raw, &merged); err != nil {
		return nil, fmt.Errorf("decode merged fields: %w", err)
	}

	return merged, nil
}
