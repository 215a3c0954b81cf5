// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package validators

import (
	"context"
	"regexp"
	"unicode/utf8"

	"github.com/Redbattlebot/Astrev2/models"
)

// Field name constants used to specify which fields should be validated.
// They double as the form field names reported in [FieldError].
const (
	FieldUsername        = "username"
	FieldEmail           = "email"
	FieldPassword        = "password"
	FieldConfirmPassword = "cpassword"
	FieldRegistrationKey = "regkey"

	// FieldInitialPassword applies the relaxed length rule of the initial
	// account to Password and ConfirmPassword.
	FieldInitialPassword = "initial password"
)

// Password length bounds in characters.
const (
	MinPasswordLength        = 16
	MinInitialPasswordLength = 1
	MaxPasswordLength        = 6969
)

var (
	usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_]{3,21}$`)
	emailPattern    = regexp.MustCompile(`^.+@.+$`)
)

// AccountValidator implements [Validator] for models.Registration and
// models.Credentials.
type AccountValidator struct{}

// NewAccountValidator constructs a new AccountValidator
// and returns it as the Validator interface.
func NewAccountValidator() Validator {
	return &AccountValidator{}
}

// Validate dispatches validation on the dynamic type of obj. Both value
// and pointer forms are accepted.
//
// Returns ErrUnsupportedType if obj does not match any known model. Field
// failures are returned as *[FieldError].
func (v *AccountValidator) Validate(ctx context.Context, obj any, fields ...string) error {
	switch value := obj.(type) {
	case models.Registration:
		return v.validateRegistration(value, fields...)
	case *models.Registration:
		return v.validateRegistration(*value, fields...)

	case models.Credentials:
		return v.validateCredentials(value)
	case *models.Credentials:
		return v.validateCredentials(*value)

	default:
		return ErrUnsupportedType
	}
}

// validateRegistration checks the registration form.
//
// Default validated fields (when none specified): username and password.
func (v *AccountValidator) validateRegistration(r models.Registration, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldUsername, FieldPassword}
	}

	for _, f := range fields {
		switch f {
		case FieldUsername:
			if !usernamePattern.MatchString(r.Username) {
				return fieldError(FieldUsername, ErrInvalidUsername)
			}
		case FieldEmail:
			if !emailPattern.MatchString(r.Email) {
				return fieldError(FieldEmail, ErrInvalidEmail)
			}
		case FieldPassword:
			if err := checkPasswords(r, MinPasswordLength); err != nil {
				return err
			}
		case FieldInitialPassword:
			if err := checkPasswords(r, MinInitialPasswordLength); err != nil {
				return err
			}
		case FieldRegistrationKey:
			if r.RegistrationKey == "" || utf8.RuneCountInString(r.RegistrationKey) > MaxPasswordLength {
				return fieldError(FieldRegistrationKey, ErrEmptyRegistrationKey)
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func (v *AccountValidator) validateCredentials(c models.Credentials) error {
	if !usernamePattern.MatchString(c.Username) {
		return fieldError(FieldUsername, ErrInvalidUsername)
	}
	if !lengthBetween(c.Password, MinInitialPasswordLength, MaxPasswordLength) {
		return fieldError(FieldPassword, ErrEmptyPassword)
	}
	return nil
}

func checkPasswords(r models.Registration, minLength int) error {
	if !lengthBetween(r.Password, minLength, MaxPasswordLength) {
		return fieldError(FieldPassword, ErrPasswordLength)
	}
	if !lengthBetween(r.ConfirmPassword, minLength, MaxPasswordLength) {
		return fieldError(FieldConfirmPassword, ErrPasswordLength)
	}
	return nil
}

func lengthBetween(s string, minLength, maxLength int) bool {
	n := utf8.RuneCountInString(s)
	return n >= minLength && n <= maxLength
}
