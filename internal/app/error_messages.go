// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package app contains shared application-layer constants used across the
// Mercury HTTP handlers and middleware.
//
// All Msg* constants are human-readable strings written into the "error"
// field of JSON response bodies. The registration and login pages show them
// to the user as-is.
package app

const (
	// MsgInvalidJSON is returned when the request body cannot be decoded.
	MsgInvalidJSON = "Invalid JSON was passed"

	// MsgSessionRequired is returned by authenticated routes when the
	// session cookie is missing, unknown, or expired.
	MsgSessionRequired = "Unauthorized"

	// MsgTooManyRequests is returned when a client exceeds the credential
	// submission rate.
	MsgTooManyRequests = "Too many requests, try again later"

	// MsgServiceUnavailable is returned while the database session cannot
	// be established.
	MsgServiceUnavailable = "Service unavailable, try again later"

	// MsgInternalServerError hides the cause of any other 5xx response.
	MsgInternalServerError = "Internal server error"

	// MsgNotFound is returned for unknown routes and methods.
	MsgNotFound = "Not Found"
)
