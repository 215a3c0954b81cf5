// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/bcrypt"
)

const (
	argon2idPrefix = "$argon2id$"

	argonSaltLength = 16
	argonKeyLength  = 32
)

// ArgonParams are the argon2id cost parameters. Memory is in KiB.
type ArgonParams struct {
	Memory  uint32
	Time    uint32
	Threads uint8
}

// DefaultArgonParams match the cost of hashes already stored by the site:
// 64 MiB, two passes, one lane.
var DefaultArgonParams = ArgonParams{Memory: 64 * 1024, Time: 2, Threads: 1}

// argonHasher produces argon2id PHC strings and verifies both argon2id
// and bcrypt hashes.
type argonHasher struct {
	params ArgonParams
}

// NewPasswordHasher returns a [PasswordHasher] using params for new hashes.
func NewPasswordHasher(params ArgonParams) PasswordHasher {
	return &argonHasher{params: params}
}

// Hash returns "$argon2id$v=19$m=<m>,t=<t>,p=<p>$<salt>$<key>" with
// unpadded base64 salt and key.
func (h *argonHasher) Hash(password string) (string, error) {
	salt := make([]byte, argonSaltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generating salt: %w", err)
	}

	key := argon2.IDKey([]byte(password), salt, h.params.Time, h.params.Memory, h.params.Threads, argonKeyLength)

	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, h.params.Memory, h.params.Time, h.params.Threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

// Verify reports whether password matches encoded. A mismatch is not an
// error; unknown or broken hash formats are.
func (h *argonHasher) Verify(password, encoded string) (bool, error) {
	switch {
	case strings.HasPrefix(encoded, argon2idPrefix):
		return verifyArgon2id(password, encoded)
	case strings.HasPrefix(encoded, "$2a$"), strings.HasPrefix(encoded, "$2b$"), strings.HasPrefix(encoded, "$2y$"):
		err := bcrypt.CompareHashAndPassword([]byte(encoded), []byte(password))
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return false, nil
		}
		if err != nil {
			return false, fmt.Errorf("%w: %w", ErrMalformedPasswordHash, err)
		}
		return true, nil
	default:
		return false, ErrUnsupportedPasswordHash
	}
}

func verifyArgon2id(password, encoded string) (bool, error) {
	// "", "argon2id", "v=19", "m=..,t=..,p=..", salt, key
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 {
		return false, ErrMalformedPasswordHash
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return false, ErrMalformedPasswordHash
	}

	var params ArgonParams
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &params.Memory, &params.Time, &params.Threads); err != nil {
		return false, fmt.Errorf("%w: %w", ErrMalformedPasswordHash, err)
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return false, fmt.Errorf("%w: %w", ErrMalformedPasswordHash, err)
	}
	want, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil || len(want) == 0 {
		return false, ErrMalformedPasswordHash
	}

	got := argon2.IDKey([]byte(password), salt, params.Time, params.Memory, params.Threads, uint32(len(want)))

	return subtle.ConstantTimeCompare(got, want) == 1, nil
}
