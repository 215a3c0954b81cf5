// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package server

import (
	"context"
	"io"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/Redbattlebot/Astrev2/internal/config"
	"github.com/Redbattlebot/Astrev2/internal/handler"
	"github.com/Redbattlebot/Astrev2/internal/logger"
	"github.com/Redbattlebot/Astrev2/internal/mock"
	"github.com/Redbattlebot/Astrev2/internal/service"
	"github.com/Redbattlebot/Astrev2/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

type readySource struct{}

func (readySource) OnStateChange(fn func(store.State)) { fn(store.StateReady) }

func newTestHandlers(t *testing.T, cfg config.StructuredConfig) *handler.Handlers {
	t.Helper()
	ctrl := gomock.NewController(t)

	appInfo := mock.NewMockAppInfoService(ctrl)
	appInfo.EXPECT().GetAppVersion(gomock.Any()).Return("9.9.9").AnyTimes()

	services := &service.Services{
		AuthService:    mock.NewMockAuthService(ctrl),
		AppInfoService: appInfo,
	}

	handlers, err := handler.NewHandlers(services, readySource{}, cfg, nil, logger.Nop())
	require.NoError(t, err)
	return handlers
}

func TestServer_RunsBothTransports(t *testing.T) {
	cfg := config.StructuredConfig{
		Session: config.Session{CookieName: "s"},
		Server: config.Server{
			HTTPAddress:    "127.0.0.1:0",
			GRPCAddress:    "127.0.0.1:0",
			RequestTimeout: 5 * time.Second,
		},
	}

	srv, err := NewServer(newTestHandlers(t, cfg), cfg.Server, logger.Nop())
	require.NoError(t, err)
	s := srv.(*server)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()

	resp, err := http.Get("http://" + s.httpServer.Addr() + "/api/version/")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	assert.Equal(t, "9.9.9", string(body))

	conn, err := grpc.NewClient(s.gRPCServer.Addr(), grpc.WithTransportCredentials(insecure.NewCredentials()))
	require.NoError(t, err)
	defer conn.Close()

	health, err := healthpb.NewHealthClient(conn).Check(context.Background(), &healthpb.HealthCheckRequest{})
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, health.GetStatus())

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestNewServer_AddressInUse(t *testing.T) {
	taken, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer taken.Close()

	cfg := config.StructuredConfig{
		Session: config.Session{CookieName: "s"},
		Server:  config.Server{HTTPAddress: taken.Addr().String()},
	}

	_, err = NewServer(newTestHandlers(t, cfg), cfg.Server, logger.Nop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "listening on")
}

func TestNewServer_NothingToRun(t *testing.T) {
	_, err := NewServer(&handler.Handlers{}, config.Server{}, logger.Nop())
	assert.ErrorIs(t, err, errNoServersAreCreated)
}
