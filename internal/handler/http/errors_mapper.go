// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"errors"
	"net/http"

	"github.com/Redbattlebot/Astrev2/internal/app"
	"github.com/Redbattlebot/Astrev2/internal/logger"
	"github.com/Redbattlebot/Astrev2/internal/service"
	"github.com/Redbattlebot/Astrev2/internal/store"
	"github.com/Redbattlebot/Astrev2/internal/utils"
)

var errorStatusMap = map[error]int{
	service.ErrInvalidCredentials:    http.StatusUnauthorized,
	service.ErrSessionInvalid:        http.StatusUnauthorized,
	service.ErrEmptyToken:            http.StatusUnauthorized,
	service.ErrVersionIsNotSpecified: http.StatusInternalServerError,

	utils.ErrEmptyBody: http.StatusBadRequest,

	store.ErrAccountNotFound:     http.StatusNotFound,
	store.ErrSessionNotFound:     http.StatusUnauthorized,
	store.ErrManagerClosed:       http.StatusServiceUnavailable,
	store.ErrEndpointUnreachable: http.StatusServiceUnavailable,
	store.ErrAllSchemesRejected:  http.StatusServiceUnavailable,

	store.ErrBuildingSQLQuery:     http.StatusInternalServerError,
	store.ErrExecutingQuery:       http.StatusInternalServerError,
	store.ErrBeginningTransaction: http.StatusInternalServerError,
	store.ErrCommitingTransaction: http.StatusInternalServerError,
	store.ErrScanningRows:         http.StatusInternalServerError,
}

var registrationStatusMap = map[service.RegistrationErrorKind]int{
	service.KindInvalid:           http.StatusBadRequest,
	service.KindPasswordMismatch:  http.StatusBadRequest,
	service.KindKeyInvalid:        http.StatusBadRequest,
	service.KindKeyExhausted:      http.StatusConflict,
	service.KindUsernameTaken:     http.StatusConflict,
	service.KindEmailTaken:        http.StatusConflict,
	service.KindAlreadyRegistered: http.StatusConflict,
	service.KindCreationFailed:    http.StatusInternalServerError,
}

func statusFromError(err error) int {
	var regErr *service.RegistrationError
	if errors.As(err, &regErr) {
		if status, ok := registrationStatusMap[regErr.Kind]; ok {
			return status
		}
	}

	// a failed connect may wrap query errors from bootstrap
	var connErr *store.ConnectionError
	if errors.As(err, &connErr) {
		return http.StatusServiceUnavailable
	}

	for target, status := range errorStatusMap {
		if errors.Is(err, target) {
			return status
		}
	}

	return http.StatusInternalServerError
}

// writeServiceError responds with the status mapped from err. Field-scoped
// registration errors carry their field and message; server errors hide
// their cause.
func (h *Handler) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	log := logger.FromRequest(r)
	status := statusFromError(err)

	if status >= http.StatusInternalServerError {
		log.Err(err).Int("status", status).Msg("request failed")
		message := app.MsgInternalServerError
		if status == http.StatusServiceUnavailable {
			message = app.MsgServiceUnavailable
		}
		utils.WriteError(w, status, message, "")
		return
	}

	log.Info().Err(err).Int("status", status).Msg("request refused")

	var regErr *service.RegistrationError
	if errors.As(err, &regErr) {
		utils.WriteError(w, status, regErr.Message(), regErr.Field)
		return
	}

	var authErr *service.AuthError
	if errors.As(err, &authErr) {
		utils.WriteError(w, status, authErr.Message, "")
		return
	}

	utils.WriteError(w, status, http.StatusText(status), "")
}
