// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import "errors"

// Errors returned by the avatar renderer client. Status errors wrap the
// renderer's response body.
var (
	ErrInvalidRendererURL  = errors.New("invalid renderer url")
	ErrBadRequest          = errors.New("renderer rejected the request")
	ErrUnauthorized        = errors.New("renderer rejected service token")
	ErrForbidden           = errors.New("renderer refused the account")
	ErrNotFound            = errors.New("renderer endpoint not found")
	ErrTooManyRequests     = errors.New("renderer is throttling")
	ErrBadGateway          = errors.New("renderer gateway failed")
	ErrServiceUnavailable  = errors.New("renderer unavailable")
	ErrInternalServerError = errors.New("renderer failed")
)
