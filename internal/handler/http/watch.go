// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"net/http"

	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"

	"github.com/MKhiriev/go-pref-sync/internal/logger"
)

// watchDocument upgrades the request to a websocket and streams every
// confirmed change of the caller's document, in broadcast order, until the
// client disconnects or the subscription is dropped.
func (h *Handler) watchDocument(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	userID, kind, ok := h.requestScope(w, r)
	if !ok {
		return
	}

	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		log.Err(err).Msg("websocket accept failed")
		return
	}

	events, unsubscribe := h.hub.Subscribe(userID, kind)
	defer unsubscribe()

	// CloseRead cancels the context when the client goes away; the watch
	// stream is write-only from the server's side.
	ctx := conn.CloseRead(r.Context())

	log.Debug().Str("user_id", userID).Str("kind", string(kind)).Msg("watch subscription opened")

	for {
		select {
		case <-ctx.Done():
			_ = conn.Close(websocket.StatusNormalClosure, "client disconnected")
			return
		case event, open := <-events:
			if !open {
				// dropped as a slow consumer; the client resubscribes
				_ = conn.Close(websocket.StatusTryAgainLater, "subscription dropped")
				return
			}
			if err = wsjson.Write(ctx, conn, event); err != nil {
				log.Err(err).Msg("watch push failed")
				_ = conn.Close(websocket.StatusAbnormalClosure, "write failed")
				return
			}
		}
	}
}
