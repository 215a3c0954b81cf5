// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package utils

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// SessionTokenBytes is the entropy of a session token.
const SessionTokenBytes = 32

// GenerateSessionToken returns SessionTokenBytes of crypto/rand output,
// base64url-encoded without padding.
func GenerateSessionToken() (string, error) {
	buf := make([]byte, SessionTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("error generating session token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
