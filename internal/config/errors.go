// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import "errors"

// Validation errors returned by [StructuredConfig.validate] when required
// configuration groups are incomplete or invalid.
var (
	// ErrInvalidStorageConfigs indicates incomplete database settings
	// (for example, empty endpoint or no usable credential scheme).
	ErrInvalidStorageConfigs = errors.New("invalid storage configuration")
	// ErrInvalidSessionConfigs indicates missing session settings
	// (for example, empty hash key or non-positive duration).
	ErrInvalidSessionConfigs = errors.New("invalid session configuration")
	// ErrInvalidRegistrationConfigs indicates keys enabled without a prefix.
	ErrInvalidRegistrationConfigs = errors.New("invalid registration configuration")
	// ErrInvalidServerConfigs indicates a missing listener address.
	ErrInvalidServerConfigs = errors.New("invalid server configuration")
	// ErrInvalidAdapterConfigs indicates a renderer URL without a sign key.
	ErrInvalidAdapterConfigs = errors.New("invalid adapter configuration")
)
