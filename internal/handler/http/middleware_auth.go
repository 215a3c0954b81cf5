// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"net/http"

	"github.com/Redbattlebot/Astrev2/internal/app"
	"github.com/Redbattlebot/Astrev2/internal/logger"
	"github.com/Redbattlebot/Astrev2/internal/utils"
)

// auth is an HTTP middleware that enforces session-cookie authentication.
//
// It reads the session cookie, resolves it via
// [service.AuthService.Authenticate], and on success stores the account id
// in the request context under [utils.AccountIDCtxKey].
//
// Requests without a cookie, or with an unknown or expired session, are
// rejected with 401 Unauthorized. A stale cookie is cleared in the same
// response.
func (h *Handler) auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromRequest(r)

		token := h.cookie.token(r)
		if token == "" {
			log.Debug().Err(ErrMissingSessionCookie).Send()
			utils.WriteError(w, http.StatusUnauthorized, app.MsgSessionRequired, "")
			return
		}

		session, err := h.services.AuthService.Authenticate(r.Context(), token)
		if err != nil {
			if statusFromError(err) == http.StatusUnauthorized {
				h.cookie.clear(w)
			}
			h.writeServiceError(w, r, err)
			return
		}

		ctx := utils.WithAccountID(r.Context(), session.AccountID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
