// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package adapter provides clients for the outbound collaborators of the
// site.
//
// The only collaborator today is the avatar render service, reached through
// [AvatarRenderer]. The HTTP implementation ([NewAvatarRenderer]) signs
// every call with a short-lived HS256 service token; when no render URL is
// configured a no-op renderer is returned instead.
//
// Error values defined in errors.go are mapped from HTTP status codes by
// mapHTTPError so that callers can use [errors.Is].
package adapter

import (
	"context"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/adapter_mock.go -package=mock

// AvatarRenderer asks the render service to draw an account's avatar.
type AvatarRenderer interface {
	// RenderAvatar requests a render for accountID. Callers treat failures
	// as non-fatal.
	RenderAvatar(ctx context.Context, accountID, username string) error
}
