// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-pref-sync/internal/utils"
)

func doWithHeader(env *testEnv, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/docs/preferences", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	return rec
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	env := newTestEnv(t)

	// 404 means the request passed auth and reached the document handler
	rec := doWithHeader(env, bearerFor(t, "user-1"))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAuthMiddleware_MissingHeader(t *testing.T) {
	env := newTestEnv(t)

	rec := doWithHeader(env, "")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthMiddleware_GarbageToken(t *testing.T) {
	env := newTestEnv(t)

	rec := doWithHeader(env, "Bearer not-a-jwt")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthMiddleware_WrongSignKey(t *testing.T) {
	env := newTestEnv(t)

	token, err := utils.GenerateJWTToken(testAppCfg.TokenIssuer, "user-1", time.Hour, "another-sign-key")
	require.NoError(t, err)

	rec := doWithHeader(env, "Bearer "+token.SignedString)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthMiddleware_ExpiredToken(t *testing.T) {
	env := newTestEnv(t)

	token, err := utils.GenerateJWTToken(testAppCfg.TokenIssuer, "user-1", -time.Minute, testAppCfg.TokenSignKey)
	require.NoError(t, err)

	rec := doWithHeader(env, "Bearer "+token.SignedString)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
