package http

import (
	"errors"
	"net/http"

	"github.com/MKhiriev/go-pref-sync/internal/store"
)

var errorStatusMap = map[error]int{
	store.ErrNothingToMerge:   http.StatusBadRequest,
	store.ErrDocumentNotFound: http.StatusNotFound,

	store.ErrBuildingSQLQuery:   http.StatusInternalServerError,
	store.ErrExecutingQuery:     http.StatusInternalServerError,
	store.ErrExecutingStatement: http.StatusInternalServerError,
	store.ErrScanningRows:       http.StatusInternalServerError,
}

func statusFromError(err error) int {
	for target, status := range errorStatusMap {
		if errors.Is(err, target) {
			return status
		}
	}
	return http.StatusInternalServerError
}
