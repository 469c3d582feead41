// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"

	"github.com/MKhiriev/go-pref-sync/models"
)

// watchEvent is the wire envelope pushed on the watch channel after every
// merge of the document.
type watchEvent struct {
	Kind   string        `json:"kind"`
	Fields models.Record `json:"fields"`
}

type wsSubscription struct {
	conn   *websocket.Conn
	cancel context.CancelFunc

	closeOnce sync.Once
	closed    chan struct{}
}

// Close implements [Subscription].
func (s *wsSubscription) Close() {
	s.closeOnce.Do(func() {
		close(s.closed)
		s.cancel()
		_ = s.conn.Close(websocket.StatusNormalClosure, "client closed subscription")
	})
}

// Subscribe implements [RemoteStore]. It dials the websocket endpoint
// GET /api/docs/{kind}/watch with the current bearer token and starts a read
// loop. Events are decoded, schema-validated, and handed to onRecord from a
// single goroutine, which preserves server order. The first read failure
// after Close is silent; any other failure is reported to onError exactly
// once and ends the subscription.
func (h *httpRemoteStore) Subscribe(ctx context.Context, kind models.Kind, onRecord func(models.Record), onError func(error)) (Subscription, error) {
	wsURL := httpToWS(h.baseURL) + "/api/docs/" + string(kind) + "/watch"

	header := http.Header{}
	if token := h.Token(); token != "" {
		header.Set("Authorization", "Bearer "+token)
	}

	dialCtx, cancel := context.WithCancel(ctx)
	conn, _, err := websocket.Dial(dialCtx, wsURL, &websocket.DialOptions{HTTPHeader: header})
	if err != nil {
		cancel()
		return nil, fmt.Errorf("dial watch channel: %w", err)
	}

	sub := &wsSubscription{conn: conn, cancel: cancel, closed: make(chan struct{})}
	go h.readLoop(dialCtx, sub, kind, onRecord, onError)

	return sub, nil
}

func (h *httpRemoteStore) readLoop(ctx context.Context, sub *wsSubscription, kind models.Kind, onRecord func(models.Record), onError func(error)) {
	log := h.logger.GetChildLogger()

	for {
		var event watchEvent
		if err := wsjson.Read(ctx, sub.conn, &event); err != nil {
			select {
			case <-sub.closed:
				// deliberate teardown, not a failure
			default:
				log.Warn().Err(err).Str("kind", string(kind)).Msg("watch channel failed")
				onError(err)
			}
			return
		}

		if event.Kind != string(kind) {
			log.Warn().Str("want", string(kind)).Str("got", event.Kind).Msg("dropping event for wrong kind")
			continue
		}

		record := event.Fields
		if record == nil {
			record = models.Record{}
		}
		if err := h.validator.Validate(kind, record); err != nil {
			log.Warn().Err(err).Str("kind", string(kind)).Msg("dropping invalid watch event")
			continue
		}

		onRecord(record)
	}
}

func httpToWS(baseURL string) string {
	switch {
	case strings.HasPrefix(baseURL, "https://"):
		return "wss://" + strings.TrimPrefix(baseURL, "https://")
	case strings.HasPrefix(baseURL, "http://"):
		return "ws://" + strings.TrimPrefix(baseURL, "http://")
	default:
		return baseURL
	}
}
