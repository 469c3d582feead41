package store

import "errors"

// Sentinel errors returned by store methods to signal well-known failure
// conditions. Callers should use [errors.Is] to match against these values.
var (
	// ErrDocumentNotFound is returned when a query targets a document
	// (identified by user id and kind) that does not exist.
	ErrDocumentNotFound = errors.New("document was not found")

	// ErrNothingToMerge is returned when a merge request carries an empty
	// partial; the repository performs no write in that case.
	ErrNothingToMerge = errors.New("empty partial, nothing to merge")

	// ErrSealingUnavailable is returned when a credentials write requires
	// sealing but the store was constructed without a sealing key.
	ErrSealingUnavailable = errors.New("credential sealing is not configured")
)

// Low-level database operation errors. These are returned (or wrapped) by
// store methods when a SQL-level operation fails before any domain logic can
// be applied.
var (
	// ErrBuildingSQLQuery is returned when constructing a parameterised SQL
	// query fails (e.g. invalid argument count or unsupported type).
	ErrBuildingSQLQuery = errors.New("error building sql query")

	// ErrExecutingQuery is returned when executing a SELECT or similar
	// read-only query against the database fails.
	ErrExecutingQuery = errors.New("error executing sql query")

	// ErrExecutingStatement is returned when executing a DML statement
	// (INSERT, UPDATE, DELETE) fails.
	ErrExecutingStatement = errors.New("failed to executing statement")

	// ErrScanningRows is returned when scanning column values during
	// multi-row iteration fails, typically mid-result-set.
	ErrScanningRows = errors.New("failed to scan record rows")
)
