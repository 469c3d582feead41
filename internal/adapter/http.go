// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/go-resty/resty/v2"

	"github.com/MKhiriev/go-pref-sync/internal/config"
	"github.com/MKhiriev/go-pref-sync/internal/logger"
	"github.com/MKhiriev/go-pref-sync/internal/utils"
	"github.com/MKhiriev/go-pref-sync/models"
)

type httpRemoteStore struct {
	client    *utils.HTTPClient
	baseURL   string
	validator *DocumentValidator

	mu    sync.RWMutex
	token string

	logger *logger.Logger
}

// NewHTTPRemoteStore constructs an HTTP/REST implementation of [RemoteStore].
// It normalises and validates the base URL from adapterCfg.HTTPAddress,
// configures the underlying HTTP client with the resolved base URL and request
// timeout, and compiles the document schemas used to validate everything that
// arrives from the network.
//
// Returns an error if adapterCfg.HTTPAddress is empty or cannot be parsed as a
// valid URL.
func NewHTTPRemoteStore(adapterCfg config.Adapter, logger *logger.Logger) (RemoteStore, error) {
	client := utils.NewHTTPClient()
	baseURL, err := normalizeBaseURL(adapterCfg.HTTPAddress)
	if err != nil {
		return nil, fmt.Errorf("invalid adapter http address: %w", err)
	}

	client.
		SetBaseURL(baseURL).
		SetTimeout(adapterCfg.RequestTimeout)

	validator, err := NewDocumentValidator()
	if err != nil {
		return nil, fmt.Errorf("compile document schemas: %w", err)
	}

	return &httpRemoteStore{client: client, baseURL: baseURL, validator: validator, logger: logger}, nil
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty address")
	}

	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("address must include host and scheme")
	}

	return strings.TrimRight(u.String(), "/"), nil
}

// SetToken implements [RemoteStore]. It stores token (whitespace-trimmed) for
// use in the Authorization header of all subsequent requests.
func (h *httpRemoteStore) SetToken(token string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.token = strings.TrimSpace(token)
}

// Token implements [RemoteStore]. It returns the bearer token currently held
// by the adapter, or an empty string if none has been set.
func (h *httpRemoteStore) Token() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.token
}

// Get implements [RemoteStore]. It GETs the document from
// GET /api/docs/{kind}. HTTP 404 means the user has no document of this kind
// yet and is reported as (nil, false, nil). The decoded document is validated
// against the kind's schema before it is returned.
func (h *httpRemoteStore) Get(ctx context.Context, kind models.Kind) (models.Record, bool, error) {
	resp, err := h.authedRequest(ctx).Get("/api/docs/" + string(kind))
	if err != nil {
		return nil, false, fmt.Errorf("get document request: %w", err)
	}
	if resp.StatusCode() == 404 {
		return nil, false, nil
	}
	if err = mapHTTPError(resp); err != nil {
		return nil, false, err
	}

	record, err := h.decodeDocument(kind, resp.Body())
	if err != nil {
		return nil, false, fmt.Errorf("get document: %w", err)
	}

	return record, true, nil
}

// SetMerge implements [RemoteStore]. It PATCHes the partial update to
// PATCH /api/docs/{kind} and decodes the complete merged document from the
// response. The server performs the field-level merge, so concurrent writers
// on different fields never clobber each other.
func (h *httpRemoteStore) SetMerge(ctx context.Context, kind models.Kind, partial models.PartialRecord) (models.Record, error) {
	resp, err := h.authedRequest(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(partial).
		Patch("/api/docs/" + string(kind))
	if err != nil {
		return nil, fmt.Errorf("merge document request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return nil, err
	}

	merged, err := h.decodeDocument(kind, resp.Body())
	if err != nil {
		return nil, fmt.Errorf("merge document: %w", err)
	}

	return merged, nil
}

func (h *httpRemoteStore) decodeDocument(kind models.Kind, body []byte) (models.Record, error) {
	var record models.Record
	if err := json.Unmarshal(body, &record); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	if record == nil {
		record = models.Record{}
	}
	if err := h.validator.Validate(kind, record); err != nil {
		return nil, err
	}
	return record, nil
}

func (h *httpRemoteStore) authedRequest(ctx context.Context) *resty.Request {
	req := h.client.R().SetContext(ctx)
	if token := h.Token(); token != "" {
		req.SetHeader("Authorization", "Bearer "+token)
	}
	return req
}
