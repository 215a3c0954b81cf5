// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"net/http"
	"time"

	"github.com/Redbattlebot/Astrev2/internal/app"
	"github.com/Redbattlebot/Astrev2/internal/logger"
	"github.com/Redbattlebot/Astrev2/internal/utils"
	"github.com/Redbattlebot/Astrev2/models"
)

// sessionResponse is returned by every endpoint that signs the user in.
type sessionResponse struct {
	AccountID string    `json:"account_id"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	var registration models.Registration
	if err := utils.DecodeJSON(r, &registration); err != nil {
		log.Err(err).Msg("invalid registration form")
		utils.WriteError(w, http.StatusBadRequest, app.MsgInvalidJSON, "")
		return
	}

	session, err := h.services.AuthService.Register(r.Context(), registration)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	h.signIn(w, session, http.StatusCreated)
}

func (h *Handler) initialAccount(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	var registration models.Registration
	if err := utils.DecodeJSON(r, &registration); err != nil {
		log.Err(err).Msg("invalid initial account form")
		utils.WriteError(w, http.StatusBadRequest, app.MsgInvalidJSON, "")
		return
	}

	session, err := h.services.AuthService.BootstrapInitialAccount(r.Context(), registration)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	h.signIn(w, session, http.StatusCreated)
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	var credentials models.Credentials
	if err := utils.DecodeJSON(r, &credentials); err != nil {
		log.Err(err).Msg("invalid login form")
		utils.WriteError(w, http.StatusBadRequest, app.MsgInvalidJSON, "")
		return
	}

	session, err := h.services.AuthService.Login(r.Context(), credentials.Username, credentials.Password)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	log.Debug().Str("account_id", session.AccountID).Msg("account logged in")
	h.signIn(w, session, http.StatusOK)
}

// logout always clears the cookie, even when the session is already gone.
func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	if token := h.cookie.token(r); token != "" {
		if err := h.services.AuthService.Logout(r.Context(), token); err != nil {
			h.writeServiceError(w, r, err)
			return
		}
	}

	h.cookie.clear(w)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	accountID, ok := utils.GetAccountIDFromContext(r.Context())
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, app.MsgSessionRequired, "")
		return
	}

	account, err := h.services.AuthService.Account(r.Context(), accountID)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	_, _ = utils.WriteJSON(w, account, http.StatusOK)
}

func (h *Handler) accountRegistered(w http.ResponseWriter, r *http.Request) {
	registered, err := h.services.AuthService.AccountRegistered(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	_, _ = utils.WriteJSON(w, map[string]bool{"registered": registered}, http.StatusOK)
}

func (h *Handler) signIn(w http.ResponseWriter, session models.Session, status int) {
	h.cookie.setSession(w, session)
	_, _ = utils.WriteJSON(w, sessionResponse{
		AccountID: session.AccountID,
		ExpiresAt: session.ExpiresAt.UTC(),
	}, status)
}
