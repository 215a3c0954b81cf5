// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package grpc

import (
	"context"
	"testing"

	"github.com/Redbattlebot/Astrev2/internal/logger"
	"github.com/Redbattlebot/Astrev2/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// fakeSource replays the current state on subscription, like store.Manager.
type fakeSource struct {
	state     store.State
	observers []func(store.State)
}

func (s *fakeSource) OnStateChange(fn func(store.State)) {
	s.observers = append(s.observers, fn)
	fn(s.state)
}

func (s *fakeSource) set(state store.State) {
	s.state = state
	for _, fn := range s.observers {
		fn(state)
	}
}

func checkStatus(t *testing.T, h *Handler, service string) healthpb.HealthCheckResponse_ServingStatus {
	t.Helper()
	resp, err := h.health.Check(context.Background(), &healthpb.HealthCheckRequest{Service: service})
	require.NoError(t, err)
	return resp.GetStatus()
}

func TestHandler_FollowsSessionState(t *testing.T) {
	source := &fakeSource{state: store.StateDisconnected}
	h := NewHandler(source, logger.Nop())

	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, checkStatus(t, h, ""))
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, checkStatus(t, h, ServiceName))

	source.set(store.StateConnecting)
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, checkStatus(t, h, ""))

	source.set(store.StateReady)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, checkStatus(t, h, ""))
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, checkStatus(t, h, ServiceName))

	source.set(store.StateDisconnected)
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, checkStatus(t, h, ServiceName))
}

func TestHandler_ReadyAtSubscription(t *testing.T) {
	h := NewHandler(&fakeSource{state: store.StateReady}, logger.Nop())
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, checkStatus(t, h, ""))
}

func TestHandler_Shutdown(t *testing.T) {
	source := &fakeSource{state: store.StateReady}
	h := NewHandler(source, logger.Nop())

	h.Shutdown()
	source.set(store.StateReady)

	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, checkStatus(t, h, ""))
}
