// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// AppInfo is the public description of the running site. Registration
// pages read it to decide which form fields to show.
type AppInfo struct {
	Name         string               `json:"name"`
	Version      string               `json:"version"`
	Registration RegistrationSettings `json:"registration"`
}

// RegistrationSettings lists the optional registration requirements.
type RegistrationSettings struct {
	EmailRequired bool `json:"email_required"`
	KeyRequired   bool `json:"key_required"`
}
