package store

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-pref-sync/internal/logger"
	"github.com/MKhiriev/go-pref-sync/models"
)

func newMockDocumentRepository(t *testing.T) (DocumentRepository, sqlmock.Sqlmock) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = mockDB.Close() })

	db := &DB{DB: mockDB, errorClassificator: NewPostgresErrorClassifier(), logger: logger.Nop()}
	return NewDocumentRepository(db, logger.Nop()), mock
}

// ── Get ───────────────────────────────────────────────────────────────────────

func TestDocumentRepository_Get(t *testing.T) {
	repo, mock := newMockDocumentRepository(t)

	mock.ExpectQuery(regexp.QuoteMeta(getDocument)).
		WithArgs("user-1", "preferences").
		WillReturnRows(sqlmock.NewRows([]string{"fields"}).AddRow([]byte(`{"theme":"dark"}`)))

	doc, ok, err := repo.Get(context.Background(), "user-1", models.KindPreferences)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, models.Record{"theme": "dark"}, doc)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentRepository_GetAbsent(t *testing.T) {
	repo, mock := newMockDocumentRepository(t)

	mock.ExpectQuery(regexp.QuoteMeta(getDocument)).
		WithArgs("user-1", "preferences").
		WillReturnError(sql.ErrNoRows)

	doc, ok, err := repo.Get(context.Background(), "user-1", models.KindPreferences)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, doc)
}

func TestDocumentRepository_GetQueryError(t *testing.T) {
	repo, mock := newMockDocumentRepository(t)

	mock.ExpectQuery(regexp.QuoteMeta(getDocument)).
		WithArgs("user-1", "preferences").
		WillReturnError(&pgconn.PgError{Code: pgerrcode.ConnectionFailure})

	_, _, err := repo.Get(context.Background(), "user-1", models.KindPreferences)
	assert.ErrorIs(t, err, ErrExecutingQuery)
}

func TestDocumentRepository_GetCorruptPayload(t *testing.T) {
	repo, mock := newMockDocumentRepository(t)

	mock.ExpectQuery(regexp.QuoteMeta(getDocument)).
		WithArgs("user-1", "preferences").
		WillReturnRows(sqlmock.NewRows([]string{"fields"}).AddRow([]byte(`{broken`)))

	_, _, err := repo.Get(context.Background(), "user-1", models.KindPreferences)
	assert.Error(t, err)
}

// ── Merge ─────────────────────────────────────────────────────────────────────

func TestDocumentRepository_Merge(t *testing.T) {
	repo, mock := newMockDocumentRepository(t)

	mock.ExpectQuery(regexp.QuoteMeta(mergeDocument)).
		WithArgs("user-1", "preferences", []byte(`{"theme":"dark"}`)).
		WillReturnRows(sqlmock.NewRows([]string{"fields"}).AddRow([]byte(`{"fontSize":1.15,"theme":"dark"}`)))

	merged, err := repo.Merge(context.Background(), "user-1", models.KindPreferences,
		models.PartialRecord{"theme": "dark"})
	require.NoError(t, err)
	assert.Equal(t, models.Record{"theme": "dark", "fontSize": 1.15}, merged)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentRepository_MergeEmptyPartial(t *testing.T) {
	repo, _ := newMockDocumentRepository(t)

	_, err := repo.Merge(context.Background(), "user-1", models.KindPreferences, models.PartialRecord{})
	assert.ErrorIs(t, err, ErrNothingToMerge)
}

func TestDocumentRepository_MergeStatementError(t *testing.T) {
	repo, mock := newMockDocumentRepository(t)

	mock.ExpectQuery(regexp.QuoteMeta(mergeDocument)).
		WithArgs("user-1", "preferences", []byte(`{"theme":"dark"}`)).
		WillReturnError(errors.New("boom"))

	_, err := repo.Merge(context.Background(), "user-1", models.KindPreferences,
		models.PartialRecord{"theme": "dark"})
	assert.ErrorIs(t, err, ErrExecutingStatement)
}

// ── error classification ──────────────────────────────────────────────────────

func TestPostgresErrorClassifier_Classify(t *testing.T) {
	classifier := NewPostgresErrorClassifier()

	tests := []struct {
		name string
		err  error
		want ErrorClassification
	}{
		{name: "nil error", err: nil, want: NonRetryable},
		{name: "not a pg error", err: errors.New("boom"), want: NonRetryable},
		{name: "connection failure", err: &pgconn.PgError{Code: pgerrcode.ConnectionFailure}, want: Retryable},
		{name: "deadlock", err: &pgconn.PgError{Code: pgerrcode.DeadlockDetected}, want: Retryable},
		{name: "serialization failure", err: &pgconn.PgError{Code: pgerrcode.SerializationFailure}, want: Retryable},
		{name: "unique violation", err: &pgconn.PgError{Code: pgerrcode.UniqueViolation}, want: NonRetryable},
		{name: "syntax error", err: &pgconn.PgError{Code: pgerrcode.SyntaxError}, want: NonRetryable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, classifier.Classify(tt.err))
		})
	}
}
