// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateServiceToken_RoundTrip(t *testing.T) {
	token, err := GenerateServiceToken("mercury-site", "acc-1", time.Minute, "sign-key")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := validateServiceToken(token, "sign-key", "mercury-site")
	require.NoError(t, err)
	assert.Equal(t, "acc-1", claims.Subject)
	assert.Equal(t, "mercury-site", claims.Issuer)
	assert.WithinDuration(t, time.Now().Add(time.Minute), claims.ExpiresAt.Time, 2*time.Second)
}

func TestGenerateServiceToken_InvalidParams(t *testing.T) {
	tests := []struct {
		name    string
		issuer  string
		subject string
		ttl     time.Duration
		key     string
	}{
		{"empty issuer", "", "sub", time.Hour, "key"},
		{"empty subject", "iss", "", time.Hour, "key"},
		{"zero ttl", "iss", "sub", 0, "key"},
		{"negative ttl", "iss", "sub", -time.Second, "key"},
		{"empty key", "iss", "sub", time.Hour, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := GenerateServiceToken(tt.issuer, tt.subject, tt.ttl, tt.key)
			assert.ErrorIs(t, err, ErrInvalidTokenParams)
		})
	}
}

func TestValidateServiceToken_Rejects(t *testing.T) {
	valid, err := GenerateServiceToken("mercury-site", "acc-1", time.Minute, "sign-key")
	require.NoError(t, err)

	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Issuer:    "mercury-site",
		Subject:   "acc-1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
	}).SignedString([]byte("sign-key"))
	require.NoError(t, err)

	noSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Issuer:    "mercury-site",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
	}).SignedString([]byte("sign-key"))
	require.NoError(t, err)

	tests := []struct {
		name   string
		token  string
		key    string
		issuer string
	}{
		{"wrong key", valid, "other-key", "mercury-site"},
		{"wrong issuer", valid, "sign-key", "someone-else"},
		{"expired", expired, "sign-key", "mercury-site"},
		{"no subject", noSubject, "sign-key", "mercury-site"},
		{"garbage", "not.a.token", "sign-key", "mercury-site"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := validateServiceToken(tt.token, tt.key, tt.issuer)
			assert.Error(t, err)
		})
	}
}
