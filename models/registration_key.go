// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// RegistrationKey is a limited-use invitation required to register when
// key-gated registration is enabled. ID is the key suffix without the
// configured prefix. UsesLeft never drops below zero; exhausted keys are
// kept as records with zero uses.
type RegistrationKey struct {
	ID        string    `json:"id"`
	UsesLeft  int       `json:"uses_left"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the name of the database table
// associated with the RegistrationKey model.
func (k RegistrationKey) TableName() string {
	return "registration_keys"
}
