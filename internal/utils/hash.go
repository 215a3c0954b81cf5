// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package utils

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"hash"
	"sync"
)

// Hasher computes keyed HMAC-SHA256 digests. It keeps a pool of HMAC
// instances so hot paths (one digest per authenticated request) do not
// allocate a new hash each time. Safe for concurrent use.
type Hasher struct {
	pool sync.Pool
}

// NewHasher returns a [Hasher] keyed with hashKey.
func NewHasher(hashKey string) *Hasher {
	key := []byte(hashKey)
	return &Hasher{
		pool: sync.Pool{
			New: func() any {
				return hmac.New(sha256.New, key)
			},
		},
	}
}

// Sum returns the raw digest of data.
func (h *Hasher) Sum(data []byte) []byte {
	mac := h.pool.Get().(hash.Hash)
	mac.Reset()

	mac.Write(data)
	sum := mac.Sum(nil)

	mac.Reset()
	h.pool.Put(mac)

	return sum
}

// HashString returns the hex-encoded digest of data.
func (h *Hasher) HashString(data string) string {
	return hex.EncodeToString(h.Sum([]byte(data)))
}

// HashString computes a hex-encoded HMAC-SHA256 of data with hashKey
// without going through a pool. Suitable for one-off hashing.
func HashString(data string, hashKey string) string {
	mac := hmac.New(sha256.New, []byte(hashKey))
	mac.Write([]byte(data))
	return hex.EncodeToString(mac.Sum(nil))
}
