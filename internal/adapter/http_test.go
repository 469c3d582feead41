package adapter

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-pref-sync/internal/config"
	"github.com/MKhiriev/go-pref-sync/internal/logger"
	"github.com/MKhiriev/go-pref-sync/models"
)

func newTestRemoteStore(t *testing.T, handler http.Handler) RemoteStore {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	store, err := NewHTTPRemoteStore(config.Adapter{
		HTTPAddress:    srv.URL,
		RequestTimeout: 5 * time.Second,
	}, logger.Nop())
	require.NoError(t, err)
	return store
}

// ── URL normalisation ─────────────────────────────────────────────────────────

func TestNormalizeBaseURL(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{name: "plain host gets http scheme", in: "localhost:8080", want: "http://localhost:8080"},
		{name: "trailing slash trimmed", in: "http://localhost:8080/", want: "http://localhost:8080"},
		{name: "https preserved", in: "https://sync.example.com", want: "https://sync.example.com"},
		{name: "empty", in: "   ", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := normalizeBaseURL(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestHTTPToWS(t *testing.T) {
	assert.Equal(t, "ws://localhost:8080", httpToWS("http://localhost:8080"))
	assert.Equal(t, "wss://sync.example.com", httpToWS("https://sync.example.com"))
}

// ── Get ───────────────────────────────────────────────────────────────────────

func TestHTTPRemoteStore_Get(t *testing.T) {
	store := newTestRemoteStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/docs/preferences", r.URL.Path)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"theme": "dark"})
	}))
	store.SetToken("test-token")

	record, found, err := store.Get(context.Background(), models.KindPreferences)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, models.Record{"theme": "dark"}, record)
}

func TestHTTPRemoteStore_GetAbsent(t *testing.T) {
	store := newTestRemoteStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))

	record, found, err := store.Get(context.Background(), models.KindPreferences)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, record)
}

func TestHTTPRemoteStore_GetUnauthorized(t *testing.T) {
	store := newTestRemoteStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "token expired", http.StatusUnauthorized)
	}))

	_, _, err := store.Get(context.Background(), models.KindPreferences)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

// TestHTTPRemoteStore_GetRejectsInvalidDocument verifies that a credentials
// payload violating the schema never reaches the caller.
func TestHTTPRemoteStore_GetRejectsInvalidDocument(t *testing.T) {
	store := newTestRemoteStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		// credential values must be strings
		_ = json.NewEncoder(w).Encode(map[string]any{"cred-1": 42})
	}))

	_, _, err := store.Get(context.Background(), models.KindCredentials)
	assert.ErrorIs(t, err, ErrInvalidDocument)
}

// ── SetMerge ──────────────────────────────────────────────────────────────────

func TestHTTPRemoteStore_SetMerge(t *testing.T) {
	store := newTestRemoteStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/api/docs/preferences", r.URL.Path)

		var partial map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&partial))
		assert.Equal(t, map[string]any{"theme": "dark"}, partial)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"theme": "dark", "fontSize": 1.15})
	}))

	merged, err := store.SetMerge(context.Background(), models.KindPreferences,
		models.PartialRecord{"theme": "dark"})
	require.NoError(t, err)
	assert.Equal(t, models.Record{"theme": "dark", "fontSize": 1.15}, merged)
}

func TestHTTPRemoteStore_SetMergeServerError(t *testing.T) {
	store := newTestRemoteStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))

	_, err := store.SetMerge(context.Background(), models.KindPreferences,
		models.PartialRecord{"theme": "dark"})
	assert.ErrorIs(t, err, ErrInternalServerError)
}

// ── token handling ────────────────────────────────────────────────────────────

func TestHTTPRemoteStore_TokenLifecycle(t *testing.T) {
	var gotAuth string
	store := newTestRemoteStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{}`))
	}))

	assert.Empty(t, store.Token())

	store.SetToken("  abc  ")
	assert.Equal(t, "abc", store.Token())

	_, _, err := store.Get(context.Background(), models.KindPreferences)
	require.NoError(t, err)
	assert.Equal(t, "Bearer abc", gotAuth)

	store.SetToken("")
	_, _, err = store.Get(context.Background(), models.KindPreferences)
	require.NoError(t, err)
	assert.Empty(t, gotAuth)
}
