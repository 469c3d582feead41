// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/MKhiriev/go-pref-sync/internal/config"
	"github.com/MKhiriev/go-pref-sync/internal/logger"
	"github.com/MKhiriev/go-pref-sync/internal/utils"
	"github.com/MKhiriev/go-pref-sync/models"
)

// SessionClient opens authenticated sessions against the sync server. It is
// the client half of POST /api/auth/session; the resulting [models.Session]
// is fed into the auth signal, never consumed here.
type SessionClient struct {
	client  *utils.HTTPClient
	baseURL string
	logger  *logger.Logger
}

// NewSessionClient builds a session client for the server at
// adapterCfg.HTTPAddress.
func NewSessionClient(adapterCfg config.Adapter, logger *logger.Logger) (*SessionClient, error) {
	baseURL, err := normalizeBaseURL(adapterCfg.HTTPAddress)
	if err != nil {
		return nil, fmt.Errorf("invalid adapter http address: %w", err)
	}

	client := utils.NewHTTPClient()
	client.
		SetBaseURL(baseURL).
		SetTimeout(adapterCfg.RequestTimeout)

	return &SessionClient{client: client, baseURL: baseURL, logger: logger}, nil
}

type openSessionRequest struct {
	Identity string `json:"identity"`
}

type openSessionResponse struct {
	Token string `json:"token"`
}

// Open exchanges identity for a signed session token. The returned session
// carries the identity the server actually embedded in the token, which is
// authoritative over the requested one.
func (c *SessionClient) Open(ctx context.Context, identity string) (models.Session, error) {
	identity = strings.TrimSpace(identity)
	if identity == "" {
		return models.Session{}, fmt.Errorf("open session: %w", ErrBadRequest)
	}

	resp, err := c.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(openSessionRequest{Identity: identity}).
		Post("/api/auth/session")
	if err != nil {
		return models.Session{}, fmt.Errorf("open session request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.Session{}, err
	}

	var payload openSessionResponse
	if err = json.Unmarshal(resp.Body(), &payload); err != nil {
		return models.Session{}, fmt.Errorf("decode session response: %w", err)
	}
	if strings.TrimSpace(payload.Token) == "" {
		return models.Session{}, fmt.Errorf("open session: empty token in response")
	}

	userID, err := utils.ParseUserIDFromJWT(payload.Token)
	if err != nil {
		return models.Session{}, fmt.Errorf("open session: %w", err)
	}

	return models.Session{Identity: userID, Token: payload.Token}, nil
}
