// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-pref-sync/internal/config"
	"github.com/MKhiriev/go-pref-sync/internal/logger"
	"github.com/MKhiriev/go-pref-sync/internal/server"
	"github.com/MKhiriev/go-pref-sync/internal/store"
	"github.com/MKhiriev/go-pref-sync/internal/utils"
)

var testAppCfg = config.App{
	TokenSignKey:  "test-sign-key",
	TokenIssuer:   "pref-sync-test",
	TokenDuration: time.Hour,
	Version:       "1.0.0-test",
}

type testEnv struct {
	router    *chi.Mux
	documents store.DocumentRepository
	hub       *server.Hub
	srv       *httptest.Server
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	documents := store.NewMemoryDocumentRepository()
	hub := server.NewHub(logger.Nop())
	handler := NewHandler(documents, hub, testAppCfg, logger.Nop())
	router := handler.Init()

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	return &testEnv{router: router, documents: documents, hub: hub, srv: srv}
}

// bearerFor issues a valid Authorization header value for the given identity.
func bearerFor(t *testing.T, identity string) string {
	t.Helper()

	token, err := utils.GenerateJWTToken(testAppCfg.TokenIssuer, identity, testAppCfg.TokenDuration, testAppCfg.TokenSignKey)
	require.NoError(t, err)
	return "Bearer " + token.SignedString
}
