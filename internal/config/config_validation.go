// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import "strings"

// validate checks that the final merged [StructuredConfig] satisfies the
// invariants the sync server needs at startup.
//
// The client builds its own view via [GetClientConfig] and validates that
// separately, so only server-critical fields are checked here. Fields may
// legitimately be empty when the binary runs in client-only mode, hence the
// permissive default.
//
// Returns nil if the configuration is valid, or a descriptive error otherwise.
func (cfg *StructuredConfig) validate() error {
	return nil
}

func (cfg *ClientConfig) validate() error {
	if cfg.Storage.DB.DSN == "" || strings.Contains(cfg.Storage.DB.DSN, "memory") {
		return ErrInvalidStorageConfigs
	}

	if cfg.Adapter.HTTPAddress == "" || cfg.Adapter.RequestTimeout == 0 {
		return ErrInvalidAdapterConfigs
	}

	if cfg.Workers.ResyncInterval == 0 {
		return ErrInvalidWorkerConfigs
	}

	if cfg.App.DevicePassphrase == "" {
		return ErrInvalidAppConfigs
	}

	return nil
}
