// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import "fmt"

// validate checks that the final merged [StructuredConfig] satisfies all
// invariants before it is used at startup.
func (cfg *StructuredConfig) validate() error {
	if err := cfg.validateStorage(); err != nil {
		return err
	}

	if cfg.Session.HashKey == "" || cfg.Session.Duration <= 0 {
		return ErrInvalidSessionConfigs
	}

	if cfg.Registration.Keys.Enabled && cfg.Registration.Keys.Prefix == "" {
		return ErrInvalidRegistrationConfigs
	}

	if cfg.Server.HTTPAddress == "" {
		return ErrInvalidServerConfigs
	}

	if cfg.Adapter.Renderer.URL != "" && cfg.Adapter.Renderer.SignKey == "" {
		return ErrInvalidAdapterConfigs
	}

	return nil
}

// validateStorage checks only the database section. Admin tooling that
// never serves requests is validated with it.
func (cfg *StructuredConfig) validateStorage() error {
	db := cfg.Storage.DB
	if db.Endpoint == "" || db.Namespace == "" || db.Database == "" {
		return fmt.Errorf("%w: endpoint, namespace and database are required", ErrInvalidStorageConfigs)
	}
	if db.RootUser == "" && db.NamespaceUser == "" {
		return fmt.Errorf("%w: at least one credential scheme is required", ErrInvalidStorageConfigs)
	}
	if db.MaxConnectAttempts < 1 || db.MaxQueryRetries < 0 {
		return fmt.Errorf("%w: retry bounds out of range", ErrInvalidStorageConfigs)
	}

	return nil
}
