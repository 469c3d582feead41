// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package adapter provides transport-layer abstractions for communicating with
// the preference sync server.
//
// The primary abstraction is [RemoteStore], which decouples the reconciliation
// layer from the underlying protocol. The package ships an HTTP/REST
// implementation ([NewHTTPRemoteStore]) that uses a websocket for the realtime
// watch channel.
//
// Error values defined in errors.go are mapped from HTTP status codes by
// mapHTTPError so that callers can use [errors.Is] for transport-agnostic error
// handling (e.g. [ErrUnauthorized] for 401, [ErrNotFound] for 404).
package adapter

import (
	"context"

	"github.com/MKhiriev/go-pref-sync/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/remote_store_mock.go -package=mock

// RemoteStore defines transport-agnostic communication with the document
// store that backs cloud sync. Implementations are responsible for
// serialisation, authentication header management, payload validation, and
// mapping transport-level errors to the sentinel values defined in this
// package.
//
// All documents are scoped to the signed-in user; the server infers the user
// from the bearer token, so no method takes a user identifier.
type RemoteStore interface {
	// SetToken stores the bearer token that will be attached to all subsequent
	// requests. It should be called whenever the session changes; an empty
	// token clears authentication.
	SetToken(token string)

	// Token returns the bearer token currently stored in the adapter, or an
	// empty string if no token has been set yet.
	Token() string

	// Get fetches the document of the given kind. The boolean result is false
	// when the server holds no document for this user and kind; that is not
	// an error.
	Get(ctx context.Context, kind models.Kind) (models.Record, bool, error)

	// SetMerge sends a partial update to the server. The server merges it
	// field by field into the stored document (fields absent from partial are
	// preserved) and returns the complete merged document.
	SetMerge(ctx context.Context, kind models.Kind, partial models.PartialRecord) (models.Record, error)

	// Subscribe opens the realtime watch channel for the given kind. Every
	// update to the document, including echoes of this client's own merges,
	// is delivered to onRecord in server order. The channel is receive-only:
	// nothing is ever pushed back through it.
	//
	// When the channel fails (network loss, server close), onError is called
	// exactly once and the subscription is dead; the caller decides whether
	// to resubscribe. Close releases the subscription and suppresses further
	// callbacks.
	Subscribe(ctx context.Context, kind models.Kind, onRecord func(models.Record), onError func(error)) (Subscription, error)
}

// Subscription is a handle on an open watch channel.
type Subscription interface {
	// Close tears down the channel. It is safe to call more than once.
	Close()
}
