// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"errors"
	"fmt"
)

var (
	ErrVersionIsNotSpecified = errors.New("app version is not specified")

	// ErrInvalidCredentials is returned by Login for an unknown username,
	// an account without a password hash, and a wrong password alike.
	ErrInvalidCredentials = &AuthError{Message: "Incorrect username or password"}

	// ErrSessionInvalid is returned when a session token is unknown or expired.
	ErrSessionInvalid = errors.New("session is invalid or expired")

	// ErrEmptyToken is returned when no session token was provided.
	ErrEmptyToken = errors.New("session token is empty")

	ErrUnsupportedPasswordHash = errors.New("unsupported password hash format")
	ErrMalformedPasswordHash   = errors.New("malformed password hash")
)

// AuthError is the single user-facing login failure. It carries no detail
// about which check failed.
type AuthError struct {
	Message string
}

func (e *AuthError) Error() string {
	return e.Message
}

// RegistrationErrorKind names the reason a registration was refused.
type RegistrationErrorKind string

const (
	KindUsernameTaken     RegistrationErrorKind = "username-taken"
	KindEmailTaken        RegistrationErrorKind = "email-taken"
	KindKeyInvalid        RegistrationErrorKind = "key-invalid"
	KindKeyExhausted      RegistrationErrorKind = "key-exhausted"
	KindPasswordMismatch  RegistrationErrorKind = "password-mismatch"
	KindInvalid           RegistrationErrorKind = "invalid"
	KindCreationFailed    RegistrationErrorKind = "creation-failed"
	KindAlreadyRegistered RegistrationErrorKind = "already-registered"
)

var registrationMessages = map[RegistrationErrorKind]string{
	KindUsernameTaken:     "This username is already in use",
	KindEmailTaken:        "This email is already in use",
	KindKeyInvalid:        "Registration key is invalid",
	KindKeyExhausted:      "This registration key has ran out of uses",
	KindPasswordMismatch:  "Passwords do not match",
	KindCreationFailed:    "Failed to create account",
	KindAlreadyRegistered: "There's already an account registered",
}

// RegistrationError is a registration failure scoped to one form field.
type RegistrationError struct {
	Field string
	Kind  RegistrationErrorKind
	Err   error
}

func newRegistrationError(field string, kind RegistrationErrorKind, err error) *RegistrationError {
	return &RegistrationError{Field: field, Kind: kind, Err: err}
}

// Message is the text shown next to the failing field.
func (e *RegistrationError) Message() string {
	if msg, ok := registrationMessages[e.Kind]; ok {
		return msg
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return string(e.Kind)
}

func (e *RegistrationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("registration %s on %s: %v", e.Kind, e.Field, e.Err)
	}
	return fmt.Sprintf("registration %s on %s", e.Kind, e.Field)
}

func (e *RegistrationError) Unwrap() error {
	return e.Err
}
