package service

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrUnknownKind   = errors.New("unknown document kind")
	ErrEngineClosed  = errors.New("reconciliation engine is closed")
	ErrDraftNotFound = errors.New("draft not found")
	ErrCommitRunning = errors.New("commit already in progress")
	ErrNoEngineData  = errors.New("no credentials record adopted yet")
)

// FieldError describes one invalid field of one credential draft.
type FieldError struct {
	DraftID string
	Field   string
	Message string
}

// ValidationError aggregates every field problem found during a commit
// attempt. The write is refused as a whole; there are no partial commits.
type ValidationError struct {
	Fields []FieldError
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}

	sorted := make([]FieldError, len(e.Fields))
	copy(sorted, e.Fields)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].DraftID != sorted[j].DraftID {
			return sorted[i].DraftID < sorted[j].DraftID
		}
		return sorted[i].Field < sorted[j].Field
	})

	parts := make([]string, 0, len(sorted))
	for _, f := range sorted {
		parts = append(parts, fmt.Sprintf("%s.%s: %s", f.DraftID, f.Field, f.Message))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}
