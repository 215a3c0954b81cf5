// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// Registration is the profile submitted to create a new account.
// Password and ConfirmPassword are plaintext and are cleared by the
// service layer as soon as the hash is computed.
type Registration struct {
	Username        string `json:"username"`
	Email           string `json:"email,omitempty"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"cpassword"`

	// RegistrationKey is the full key including its configured prefix,
	// e.g. "mercurkey-invite-42".
	RegistrationKey string `json:"regkey,omitempty"`
}

// Credentials is the login form payload.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}
