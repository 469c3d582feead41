// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/MKhiriev/go-pref-sync/internal/crypto"
	"github.com/MKhiriev/go-pref-sync/internal/logger"
	"github.com/MKhiriev/go-pref-sync/models"
)

const sealSaltMetaKey = "seal_salt"

// sqliteRecordStore is the SQLite-backed implementation of [RecordStore].
// Each Record field is one row; values are JSON-encoded scalars so the
// original type (string, number, bool) survives a round trip.
//
// For the credentials kind the api_key inside every sub-record is sealed via
// [crypto.Sealer] before it reaches disk and opened again on read. A failed
// unseal is local corruption: logged, reported as absent, never fatal.
type sqliteRecordStore struct {
	db      *LocalDB
	sealer  crypto.Sealer
	sealKey []byte
	logger  *logger.Logger
}

// NewRecordStore constructs the client-local [RecordStore] on top of db.
//
// When devicePassphrase is non-empty the sealing key is derived from it and
// the device salt (created on first use and kept in the meta table). With an
// empty passphrase the store still serves the preferences kind but refuses
// credentials writes with [ErrSealingUnavailable].
func NewRecordStore(db *LocalDB, sealer crypto.Sealer, devicePassphrase string, log *logger.Logger) (RecordStore, error) {
	s := &sqliteRecordStore{db: db, sealer: sealer, logger: log}

	if devicePassphrase != "" {
		salt, err := s.loadOrCreateSealSalt()
		if err != nil {
			return nil, fmt.Errorf("init seal salt: %w", err)
		}
		s.sealKey = sealer.DeriveKey(devicePassphrase, salt)
	}

	return s, nil
}

// Read implements [RecordStore]. Corruption of any field value makes the
// whole Record absent: a half-decoded snapshot must never feed the
// reconciliation decision table.
func (s *sqliteRecordStore) Read(kind models.Kind) (models.Record, bool) {
	query, args, err := sq.Select("field", "value").
		From("records").
		Where(sq.Eq{"kind": string(kind)}).
		ToSql()
	if err != nil {
		s.logger.Err(err).Str("kind", string(kind)).Msg("build local read query")
		return nil, false
	}

	rows, err := s.db.QueryContext(context.Background(), query, args...)
	if err != nil {
		s.logger.Err(err).Str("kind", string(kind)).Msg("read local record")
		return nil, false
	}
	defer rows.Close()

	record := make(models.Record)
	for rows.Next() {
		var field, raw string
		if err = rows.Scan(&field, &raw); err != nil {
			s.logger.Err(err).Str("kind", string(kind)).Msg("scan local record row")
			return nil, false
		}

		var value any
		if err = json.Unmarshal([]byte(raw), &value); err != nil {
			s.logger.Err(err).
				Str("kind", string(kind)).
				Str("field", field).
				Msg("corrupt local record value, treating record as absent")
			return nil, false
		}
		record[field] = value
	}
	if err = rows.Err(); err != nil {
		s.logger.Err(err).Str("kind", string(kind)).Msg("iterate local record rows")
		return nil, false
	}

	if len(record) == 0 {
		return nil, false
	}

	if kind == models.KindCredentials && s.sealKey != nil {
		opened, ok := s.openCredentialFields(record)
		if !ok {
			return nil, false
		}
		record = opened
	}

	return record, true
}

// Write implements [RecordStore]. Each field of partial is upserted as its
// own row, leaving unrelated fields untouched.
func (s *sqliteRecordStore) Write(kind models.Kind, partial models.PartialRecord) error {
	if len(partial) == 0 {
		return nil
	}

	if kind == models.KindCredentials {
		if s.sealKey == nil {
			return ErrSealingUnavailable
		}
		sealed, err := s.sealCredentialFields(partial)
		if err != nil {
			return fmt.Errorf("seal credential fields: %w", err)
		}
		partial = sealed
	}

	builder := sq.Insert("records").
		Columns("kind", "field", "value").
		Suffix("ON CONFLICT(kind, field) DO UPDATE SET value = excluded.value")

	for field, value := range partial {
		raw, err := json.Marshal(value)
		if err != nil {
			return fmt.Errorf("%w: field %s", ErrBuildingSQLQuery, field)
		}
		builder = builder.Values(string(kind), field, string(raw))
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if _, err = s.db.ExecContext(context.Background(), query, args...); err != nil {
		s.logger.Err(err).Str("kind", string(kind)).Msg("write local record")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return nil
}

// Clear implements [RecordStore].
func (s *sqliteRecordStore) Clear(kind models.Kind) error {
	query, args, err := sq.Delete("records").
		Where(sq.Eq{"kind": string(kind)}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if _, err = s.db.ExecContext(context.Background(), query, args...); err != nil {
		s.logger.Err(err).Str("kind", string(kind)).Msg("clear local record")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return nil
}

// sealCredentialFields returns a copy of partial with every decodable
// credential's api_key sealed. Non-credential values pass through untouched
// so a schema mismatch surfaces downstream instead of being silently eaten.
func (s *sqliteRecordStore) sealCredentialFields(partial models.PartialRecord) (models.PartialRecord, error) {
	out := make(models.PartialRecord, len(partial))
	for field, value := range partial {
		raw, ok := value.(string)
		if !ok {
			out[field] = value
			continue
		}

		cred, err := models.DecodeCredential(raw)
		if err != nil {
			out[field] = value
			continue
		}

		sealed, err := s.sealer.Seal(cred.APIKey, s.sealKey)
		if err != nil {
			return nil, fmt.Errorf("seal api key for %s: %w", cred.ID, err)
		}
		cred.APIKey = sealed

		encoded, err := models.EncodeCredential(cred)
		if err != nil {
			return nil, err
		}
		out[field] = encoded
	}
	return out, nil
}

// openCredentialFields reverses sealCredentialFields. ok=false signals
// corruption (wrong passphrase or damaged blob) and makes the Record absent.
func (s *sqliteRecordStore) openCredentialFields(record models.Record) (models.Record, bool) {
	out := make(models.Record, len(record))
	for field, value := range record {
		raw, ok := value.(string)
		if !ok {
			out[field] = value
			continue
		}

		cred, err := models.DecodeCredential(raw)
		if err != nil {
			out[field] = value
			continue
		}

		opened, err := s.sealer.Open(cred.APIKey, s.sealKey)
		if err != nil {
			s.logger.Err(err).
				Str("field", field).
				Msg("cannot unseal local api key, treating credentials record as absent")
			return nil, false
		}
		cred.APIKey = opened

		encoded, err := models.EncodeCredential(cred)
		if err != nil {
			s.logger.Err(err).Str("field", field).Msg("re-encode unsealed credential")
			return nil, false
		}
		out[field] = encoded
	}
	return out, true
}

// loadOrCreateSealSalt returns the device sealing salt, generating and
// persisting it on first use.
func (s *sqliteRecordStore) loadOrCreateSealSalt() ([]byte, error) {
	query, args, err := sq.Select("value").
		From("meta").
		Where(sq.Eq{"key": sealSaltMetaKey}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var salt []byte
	row := s.db.QueryRowContext(context.Background(), query, args...)
	switch err = row.Scan(&salt); {
	case err == nil:
		return salt, nil
	case !errors.Is(err, sql.ErrNoRows):
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	salt, err = s.sealer.GenerateSalt()
	if err != nil {
		return nil, fmt.Errorf("generate seal salt: %w", err)
	}

	insert, args, err := sq.Insert("meta").
		Columns("key", "value").
		Values(sealSaltMetaKey, salt).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	if _, err = s.db.ExecContext(context.Background(), insert, args...); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return salt, nil
}
