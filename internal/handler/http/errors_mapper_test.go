// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/Redbattlebot/Astrev2/internal/service"
	"github.com/Redbattlebot/Astrev2/internal/store"
	"github.com/Redbattlebot/Astrev2/internal/utils"
	"github.com/stretchr/testify/assert"
)

func TestStatusFromError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"invalid credentials", service.ErrInvalidCredentials, http.StatusUnauthorized},
		{"wrapped session invalid", fmt.Errorf("auth: %w", service.ErrSessionInvalid), http.StatusUnauthorized},
		{"empty body", utils.ErrEmptyBody, http.StatusBadRequest},
		{"account not found", store.ErrAccountNotFound, http.StatusNotFound},
		{"username taken", &service.RegistrationError{Kind: service.KindUsernameTaken}, http.StatusConflict},
		{"invalid field", &service.RegistrationError{Kind: service.KindInvalid}, http.StatusBadRequest},
		{"key invalid", &service.RegistrationError{Kind: service.KindKeyInvalid}, http.StatusBadRequest},
		{"creation failed", &service.RegistrationError{Kind: service.KindCreationFailed}, http.StatusInternalServerError},
		{"connection error", &store.ConnectionError{Err: errors.New("dial")}, http.StatusServiceUnavailable},
		{"bootstrap failure on connect", &store.ConnectionError{
			Attempts: 1,
			Err:      fmt.Errorf("%w: %w", store.ErrBootstrapFailed, &store.QueryError{Err: store.ErrExecutingQuery}),
		}, http.StatusServiceUnavailable},
		{"manager closed", store.ErrManagerClosed, http.StatusServiceUnavailable},
		{"query error", &store.QueryError{Err: store.ErrExecutingQuery}, http.StatusInternalServerError},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, statusFromError(tt.err))
		})
	}
}

func TestRegistrationStatusMapCoversAllKinds(t *testing.T) {
	kinds := []service.RegistrationErrorKind{
		service.KindUsernameTaken,
		service.KindEmailTaken,
		service.KindKeyInvalid,
		service.KindKeyExhausted,
		service.KindPasswordMismatch,
		service.KindInvalid,
		service.KindCreationFailed,
		service.KindAlreadyRegistered,
	}
	for _, kind := range kinds {
		_, ok := registrationStatusMap[kind]
		assert.True(t, ok, "missing status for %s", kind)
	}
}
