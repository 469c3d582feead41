// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package server

import (
	"sync"

	"github.com/MKhiriev/go-pref-sync/internal/logger"
	"github.com/MKhiriev/go-pref-sync/models"
)

// subscriberBuffer bounds the per-subscriber event queue. A consumer that
// falls this far behind is disconnected instead of stalling the broadcast;
// the client re-subscribes and re-reads the document.
const subscriberBuffer = 64

// DocumentEvent is one confirmed document change pushed to watch
// subscriptions. Fields is the complete merged document, not the partial that
// produced it.
type DocumentEvent struct {
	Kind   models.Kind   `json:"kind"`
	Fields models.Record `json:"fields"`
}

type hubSubscriber struct {
	events chan DocumentEvent
	closed bool
}

// Hub fans confirmed document changes out to the watch subscriptions of the
// same (user, kind). Delivery per subscriber is ordered: events are queued
// under the hub lock in broadcast order and drained by a single reader.
type Hub struct {
	mu     sync.Mutex
	subs   map[string]map[*hubSubscriber]struct{}
	logger *logger.Logger
}

// NewHub builds an empty hub.
func NewHub(logger *logger.Logger) *Hub {
	return &Hub{
		subs:   make(map[string]map[*hubSubscriber]struct{}),
		logger: logger,
	}
}

func hubKey(userID string, kind models.Kind) string {
	return userID + "/" + string(kind)
}

// Subscribe registers a watch subscription for (userID, kind). The returned
// channel carries every subsequent broadcast for that pair in order and is
// closed when the subscriber is dropped. Call unsubscribe exactly once.
func (h *Hub) Subscribe(userID string, kind models.Kind) (<-chan DocumentEvent, func()) {
	sub := &hubSubscriber{events: make(chan DocumentEvent, subscriberBuffer)}
	key := hubKey(userID, kind)

	h.mu.Lock()
	if h.subs[key] == nil {
		h.subs[key] = make(map[*hubSubscriber]struct{})
	}
	h.subs[key][sub] = struct{}{}
	h.mu.Unlock()

	unsubscribe := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		h.dropLocked(key, sub)
	}

	return sub.events, unsubscribe
}

// Broadcast queues the merged document on every live subscription of
// (userID, kind). Subscribers whose queue is full are dropped.
func (h *Hub) Broadcast(userID string, kind models.Kind, fields models.Record) {
	event := DocumentEvent{Kind: kind, Fields: fields.Clone()}
	key := hubKey(userID, kind)

	h.mu.Lock()
	defer h.mu.Unlock()

	for sub := range h.subs[key] {
		select {
		case sub.events <- event:
		default:
			h.logger.Warn().
				Str("user_id", userID).
				Str("kind", string(kind)).
				Msg("dropping slow watch subscriber")
			h.dropLocked(key, sub)
		}
	}
}

func (h *Hub) dropLocked(key string, sub *hubSubscriber) {
	if sub.closed {
		return
	}
	sub.closed = true
	close(sub.events)

	delete(h.subs[key], sub)
	if len(h.subs[key]) == 0 {
		delete(h.subs, key)
	}
}
