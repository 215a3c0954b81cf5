// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package validators

import (
	"errors"
	"fmt"
)

var (
	ErrUnsupportedType = errors.New("unsupported type for validation")
	ErrUnknownField    = errors.New("unknown field for validation")

	ErrInvalidUsername      = errors.New("username must be 3-21 characters of letters, digits and underscores")
	ErrInvalidEmail         = errors.New("must be a valid RFC-5321 email address")
	ErrPasswordLength       = errors.New("password length is out of range")
	ErrEmptyPassword        = errors.New("password is required")
	ErrEmptyRegistrationKey = errors.New("registration key is required")
)

// FieldError reports which input field failed validation.
type FieldError struct {
	Field string
	Err   error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %v", e.Field, e.Err)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

func fieldError(field string, err error) error {
	return &FieldError{Field: field, Err: err}
}
