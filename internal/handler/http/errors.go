// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import "errors"

// Sentinel errors used by the HTTP layer. Callers can match against them
// with [errors.Is].
var (
	// ErrMissingSessionCookie is returned by the auth middleware when the
	// request carries no session cookie.
	ErrMissingSessionCookie = errors.New("missing session cookie")

	// ErrRateLimited is reported when a client exceeds its request budget.
	ErrRateLimited = errors.New("too many requests")
)
