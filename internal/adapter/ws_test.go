package adapter

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"

	"github.com/MKhiriev/go-pref-sync/internal/config"
	"github.com/MKhiriev/go-pref-sync/internal/logger"
	"github.com/MKhiriev/go-pref-sync/models"
)

// watchServer accepts one websocket connection and pushes the given events.
func watchServer(t *testing.T, events []watchEvent, closeAfter bool) RemoteStore {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/docs/preferences/watch" {
			http.NotFound(w, r)
			return
		}

		conn, err := websocket.Accept(w, r, nil)
		require.NoError(t, err)

		ctx := r.Context()
		for _, event := range events {
			require.NoError(t, wsjson.Write(ctx, conn, event))
		}
		if closeAfter {
			_ = conn.Close(websocket.StatusGoingAway, "server shutting down")
			return
		}
		<-ctx.Done()
	}))
	t.Cleanup(srv.Close)

	store, err := NewHTTPRemoteStore(config.Adapter{
		HTTPAddress:    srv.URL,
		RequestTimeout: 5 * time.Second,
	}, logger.Nop())
	require.NoError(t, err)
	return store
}

func collectRecords(ch <-chan models.Record, n int, t *testing.T) []models.Record {
	t.Helper()
	out := make([]models.Record, 0, n)
	for len(out) < n {
		select {
		case rec := <-ch:
			out = append(out, rec)
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out after %d of %d records", len(out), n)
		}
	}
	return out
}

// TestSubscribe_DeliversEventsInOrder verifies ordered delivery of pushes.
func TestSubscribe_DeliversEventsInOrder(t *testing.T) {
	store := watchServer(t, []watchEvent{
		{Kind: "preferences", Fields: models.Record{"theme": "dark"}},
		{Kind: "preferences", Fields: models.Record{"theme": "light"}},
		{Kind: "preferences", Fields: models.Record{"theme": "solarized"}},
	}, false)

	records := make(chan models.Record, 8)
	sub, err := store.Subscribe(context.Background(), models.KindPreferences,
		func(rec models.Record) { records <- rec },
		func(err error) { t.Errorf("unexpected watch error: %v", err) })
	require.NoError(t, err)
	defer sub.Close()

	got := collectRecords(records, 3, t)
	assert.Equal(t, "dark", got[0]["theme"])
	assert.Equal(t, "light", got[1]["theme"])
	assert.Equal(t, "solarized", got[2]["theme"])
}

// TestSubscribe_DropsMismatchedKind verifies that stray events for another
// kind never reach the callback.
func TestSubscribe_DropsMismatchedKind(t *testing.T) {
	store := watchServer(t, []watchEvent{
		{Kind: "credentials", Fields: models.Record{"cred-1": "{}"}},
		{Kind: "preferences", Fields: models.Record{"theme": "dark"}},
	}, false)

	records := make(chan models.Record, 8)
	sub, err := store.Subscribe(context.Background(), models.KindPreferences,
		func(rec models.Record) { records <- rec },
		func(err error) { t.Errorf("unexpected watch error: %v", err) })
	require.NoError(t, err)
	defer sub.Close()

	got := collectRecords(records, 1, t)
	assert.Equal(t, "dark", got[0]["theme"])
}

// TestSubscribe_ServerCloseReportsError verifies that a server-side close is
// surfaced through onError exactly once.
func TestSubscribe_ServerCloseReportsError(t *testing.T) {
	store := watchServer(t, []watchEvent{
		{Kind: "preferences", Fields: models.Record{"theme": "dark"}},
	}, true)

	records := make(chan models.Record, 8)
	errs := make(chan error, 8)
	sub, err := store.Subscribe(context.Background(), models.KindPreferences,
		func(rec models.Record) { records <- rec },
		func(err error) { errs <- err })
	require.NoError(t, err)
	defer sub.Close()

	collectRecords(records, 1, t)

	select {
	case err := <-errs:
		assert.Error(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for watch error")
	}
}

// TestSubscribe_CloseIsSilent verifies that tearing down the subscription
// locally does not fire onError.
func TestSubscribe_CloseIsSilent(t *testing.T) {
	store := watchServer(t, nil, false)

	errs := make(chan error, 8)
	sub, err := store.Subscribe(context.Background(), models.KindPreferences,
		func(models.Record) {},
		func(err error) { errs <- err })
	require.NoError(t, err)

	sub.Close()
	sub.Close() // idempotent

	select {
	case err := <-errs:
		t.Fatalf("unexpected watch error after close: %v", err)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestSubscribe_DialFailure(t *testing.T) {
	store, err := NewHTTPRemoteStore(config.Adapter{
		HTTPAddress:    "http://127.0.0.1:1", // nothing listens here
		RequestTimeout: time.Second,
	}, logger.Nop())
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	_, err = store.Subscribe(ctx, models.KindPreferences, func(models.Record) {}, func(error) {})
	assert.Error(t, err)
}
