// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MKhiriev/go-pref-sync/internal/app"
	"github.com/MKhiriev/go-pref-sync/internal/logger"
	"github.com/MKhiriev/go-pref-sync/internal/utils"
	"github.com/MKhiriev/go-pref-sync/models"
)

// requestScope resolves the authenticated user and the document kind from the
// request, writing the error response itself when either is missing.
func (h *Handler) requestScope(w http.ResponseWriter, r *http.Request) (userID string, kind models.Kind, ok bool) {
	log := logger.FromRequest(r)

	userID, ok = utils.GetUserIDFromContext(r.Context())
	if !ok {
		log.Error().Msg("no user id in request context")
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return "", "", false
	}

	kind = models.Kind(chi.URLParam(r, "kind"))
	if !kind.Valid() {
		log.Err(ErrUnknownDocumentKind).Str("kind", string(kind)).Send()
		http.Error(w, ErrUnknownDocumentKind.Error(), http.StatusBadRequest)
		return "", "", false
	}

	return userID, kind, true
}

// getDocument returns the caller's whole document for the requested kind.
// A user that has never written the kind gets HTTP 404; the client adapter
// maps that to an absent document, not an error.
func (h *Handler) getDocument(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	userID, kind, ok := h.requestScope(w, r)
	if !ok {
		return
	}

	record, found, err := h.documents.Get(ctx, userID, kind)
	if err != nil {
		log.Err(err).Msg("error getting document")
		http.Error(w, http.StatusText(statusFromError(err)), statusFromError(err))
		return
	}
	if !found {
		http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
		return
	}

	utils.WriteJSON(w, record, http.StatusOK)
}

// mergeDocument upserts the posted partial into the caller's document field
// by field, broadcasts the merged result to all watch subscriptions of the
// same (user, kind), and returns the merged document.
func (h *Handler) mergeDocument(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	userID, kind, ok := h.requestScope(w, r)
	if !ok {
		return
	}

	var partial models.PartialRecord
	if err := json.NewDecoder(r.Body).Decode(&partial); err != nil {
		log.Err(err).Msg(app.MsgInvalidJSONProvided)
		http.Error(w, app.MsgInvalidJSONProvided, http.StatusBadRequest)
		return
	}

	merged, err := h.documents.Merge(ctx, userID, kind, partial)
	if err != nil {
		log.Err(err).Msg("error merging document")
		http.Error(w, http.StatusText(statusFromError(err)), statusFromError(err))
		return
	}

	h.hub.Broadcast(userID, kind, merged)

	utils.WriteJSON(w, merged, http.StatusOK)
}
