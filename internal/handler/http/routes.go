// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"net/http"

	"github.com/Redbattlebot/Astrev2/internal/app"
	"github.com/Redbattlebot/Astrev2/internal/utils"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(h.withTraceID)
	router.Use(h.withLogging)
	if h.collector != nil {
		router.Use(h.collector.InstrumentHandler)
	}

	router.Get("/api/version/", h.getServerVersion)
	router.Get("/api/info", h.getAppInfo)
	router.Get("/api/account-registered", h.accountRegistered)
	router.Post("/api/logout", h.logout)
	if h.collector != nil {
		router.Method(http.MethodGet, "/metrics", h.collector.Handler())
	}

	// credential submission is throttled per client
	router.Group(func(r chi.Router) {
		r.Use(h.limiter.Handler)
		r.Post("/api/register", h.register)
		r.Post("/api/initial-account", h.initialAccount)
		r.Post("/api/login", h.login)
	})

	// routes with authorization
	router.Group(func(r chi.Router) {
		r.Use(h.auth)
		r.Get("/api/me", h.me)
	})

	router.NotFound(notFound)
	router.MethodNotAllowed(notFound)

	return router
}

// notFound also answers unsupported methods on known paths, so the route
// set is not revealed.
func notFound(w http.ResponseWriter, _ *http.Request) {
	utils.WriteError(w, http.StatusNotFound, app.MsgNotFound, "")
}
