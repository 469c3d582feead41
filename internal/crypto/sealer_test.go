// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ── GenerateSalt / DeriveKey ──────────────────────────────────────────────────

func TestGenerateSalt_Length(t *testing.T) {
	s := NewSealer()
	salt, err := s.GenerateSalt()
	require.NoError(t, err)
	assert.Len(t, salt, 16)
}

func TestGenerateSalt_Unique(t *testing.T) {
	s := NewSealer()
	a, err := s.GenerateSalt()
	require.NoError(t, err)
	b, err := s.GenerateSalt()
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

// TestDeriveKey_Deterministic verifies that the same passphrase and salt
// always produce the same key, and a different salt produces a different key.
func TestDeriveKey_Deterministic(t *testing.T) {
	s := NewSealer()
	salt, err := s.GenerateSalt()
	require.NoError(t, err)

	k1 := s.DeriveKey("device-passphrase", salt)
	k2 := s.DeriveKey("device-passphrase", salt)
	assert.Equal(t, k1, k2)
	assert.Len(t, k1, 32)

	otherSalt, err := s.GenerateSalt()
	require.NoError(t, err)
	assert.NotEqual(t, k1, s.DeriveKey("device-passphrase", otherSalt))
}

// ── Seal / Open ───────────────────────────────────────────────────────────────

func TestSeal_OpenRoundTrip(t *testing.T) {
	s := NewSealer()
	salt, err := s.GenerateSalt()
	require.NoError(t, err)
	key := s.DeriveKey("device-passphrase", salt)

	sealed, err := s.Seal("sk-super-secret", key)
	require.NoError(t, err)
	assert.NotContains(t, sealed, "sk-super-secret")

	opened, err := s.Open(sealed, key)
	require.NoError(t, err)
	assert.Equal(t, "sk-super-secret", opened)
}

// TestOpen_WrongKeyFails verifies that a wrong passphrase is reported as an
// error rather than producing garbage output.
func TestOpen_WrongKeyFails(t *testing.T) {
	s := NewSealer()
	salt, err := s.GenerateSalt()
	require.NoError(t, err)

	sealed, err := s.Seal("sk-super-secret", s.DeriveKey("right", salt))
	require.NoError(t, err)

	_, err = s.Open(sealed, s.DeriveKey("wrong", salt))
	assert.Error(t, err)
}

func TestOpen_MalformedBlob(t *testing.T) {
	s := NewSealer()
	salt, err := s.GenerateSalt()
	require.NoError(t, err)
	key := s.DeriveKey("device-passphrase", salt)

	_, err = s.Open("not base64!!!", key)
	assert.Error(t, err)

	_, err = s.Open("AAAA", key) // shorter than a GCM nonce
	assert.Error(t, err)
}

func TestSeal_UniqueNonce(t *testing.T) {
	s := NewSealer()
	salt, err := s.GenerateSalt()
	require.NoError(t, err)
	key := s.DeriveKey("device-passphrase", salt)

	a, err := s.Seal("same plaintext", key)
	require.NoError(t, err)
	b, err := s.Seal("same plaintext", key)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}
