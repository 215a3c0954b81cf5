// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package grpc

import (
	"github.com/Redbattlebot/Astrev2/internal/logger"
	"github.com/Redbattlebot/Astrev2/internal/store"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// ServiceName is the health service name reported next to the overall ("")
// status.
const ServiceName = "mercury.Accounts"

// StateSource reports database session state transitions.
// [store.Manager] implements it.
type StateSource interface {
	OnStateChange(fn func(store.State))
}

// Handler is the root gRPC transport handler.
//
// It serves the standard gRPC health protocol. The reported status follows
// the database session: SERVING while the session is ready, NOT_SERVING
// otherwise, so load balancers stop routing to an instance that lost its
// database.
type Handler struct {
	health *health.Server

	logger *logger.Logger
}

// NewHandler constructs a [Handler] and subscribes it to source.
func NewHandler(source StateSource, logger *logger.Logger) *Handler {
	logger.Debug().Msg("gRPC handler created")

	h := &Handler{
		health: health.NewServer(),
		logger: logger,
	}
	source.OnStateChange(h.observe)

	return h
}

// Register attaches the health service to s.
func (h *Handler) Register(s *grpc.Server) {
	healthpb.RegisterHealthServer(s, h.health)
}

// Shutdown reports NOT_SERVING for every service and ignores later
// state changes.
func (h *Handler) Shutdown() {
	h.health.Shutdown()
}

func (h *Handler) observe(state store.State) {
	status := healthpb.HealthCheckResponse_NOT_SERVING
	if state == store.StateReady {
		status = healthpb.HealthCheckResponse_SERVING
	}

	h.health.SetServingStatus("", status)
	h.health.SetServingStatus(ServiceName, status)
	h.logger.Debug().Stringer("state", state).Stringer("status", status).Msg("health status updated")
}
