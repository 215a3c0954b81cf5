// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package workers

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Redbattlebot/Astrev2/internal/config"
	"github.com/Redbattlebot/Astrev2/internal/logger"
	"github.com/Redbattlebot/Astrev2/internal/mock"
	"github.com/Redbattlebot/Astrev2/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

// countingWorker tracks how many times Run was called.
type countingWorker struct {
	name     string
	runCount atomic.Int32
	block    chan struct{}
}

func (w *countingWorker) Name() string { return w.name }

func (w *countingWorker) Run(ctx context.Context) {
	w.runCount.Add(1)
	if w.block != nil {
		select {
		case <-w.block:
		case <-ctx.Done():
		}
	}
}

func TestWorkers_Run_AllWorkersAreCalled(t *testing.T) {
	ws := New(logger.Nop())
	w1, w2, w3 := &countingWorker{name: "a"}, &countingWorker{name: "b"}, &countingWorker{name: "c"}
	for _, w := range []*countingWorker{w1, w2, w3} {
		require.NoError(t, ws.Add("@every 1h", w))
	}

	ws.Run(context.Background())

	for _, w := range []*countingWorker{w1, w2, w3} {
		assert.EqualValues(t, 1, w.runCount.Load(), w.name)
	}
}

func TestWorkers_Run_NoWorkers(t *testing.T) {
	ws := New(logger.Nop())
	assert.NotPanics(t, func() { ws.Run(context.Background()) })
}

func TestWorkers_Add_InvalidSchedule(t *testing.T) {
	ws := New(logger.Nop())

	err := ws.Add("every now and then", &countingWorker{name: "broken"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken")
	assert.Empty(t, ws.workers)
}

func TestWorkers_Start_RunsOnScheduleAndStops(t *testing.T) {
	ws := New(logger.Nop())
	w := &countingWorker{name: "ticker"}
	require.NoError(t, ws.Add("@every 1s", w))

	ctx, cancel := context.WithCancel(context.Background())
	stopped := ws.Start(ctx)

	assert.Eventually(t, func() bool { return w.runCount.Load() >= 1 }, 3*time.Second, 50*time.Millisecond)

	cancel()
	select {
	case <-stopped:
	case <-time.After(3 * time.Second):
		t.Fatal("workers did not stop")
	}
}

func TestWorkers_Start_SkipsOverlappingRuns(t *testing.T) {
	ws := New(logger.Nop())
	w := &countingWorker{name: "slow", block: make(chan struct{})}
	require.NoError(t, ws.Add("@every 1s", w))

	ctx, cancel := context.WithCancel(context.Background())
	stopped := ws.Start(ctx)

	time.Sleep(2500 * time.Millisecond)
	assert.EqualValues(t, 1, w.runCount.Load())

	close(w.block)
	cancel()
	<-stopped
}

func TestNewWorkers_SchedulesConfiguredWorkers(t *testing.T) {
	ctrl := gomock.NewController(t)
	storages := &store.Storages{Sessions: mock.NewMockSessionRepository(ctrl)}

	ws, err := NewWorkers(storages, config.Workers{SessionReapSchedule: "@every 10m"}, logger.Nop())
	require.NoError(t, err)
	require.Len(t, ws.workers, 1)
	assert.Equal(t, "session_reaper", ws.workers[0].Name())

	ws, err = NewWorkers(storages, config.Workers{
		SessionReapSchedule: "@every 10m",
		WatchdogSchedule:    "@every 30s",
	}, logger.Nop())
	require.NoError(t, err)
	assert.Len(t, ws.workers, 2)

	_, err = NewWorkers(storages, config.Workers{WatchdogSchedule: "sometimes"}, logger.Nop())
	assert.Error(t, err)
}

func TestSessionReaper_Run(t *testing.T) {
	ctrl := gomock.NewController(t)
	sessions := mock.NewMockSessionRepository(ctrl)
	reaper := NewSessionReaper(sessions, logger.Nop())

	sessions.EXPECT().DeleteExpired(gomock.Any()).Return(3, nil)
	reaper.Run(context.Background())

	sessions.EXPECT().DeleteExpired(gomock.Any()).Return(0, errors.New("connection reset"))
	assert.NotPanics(t, func() { reaper.Run(context.Background()) })
}

func TestWatchdog_Run_HealthySession(t *testing.T) {
	ctrl := gomock.NewController(t)
	provider := mock.NewMockSessionProvider(ctrl)
	conn := mock.NewMockConn(ctrl)

	provider.EXPECT().EnsureConnected(gomock.Any()).Return(conn, nil)
	conn.EXPECT().Ping(gomock.Any()).Return(nil)

	NewWatchdog(provider, logger.Nop()).Run(context.Background())
}

func TestWatchdog_Run_ReconnectsAfterFailedPing(t *testing.T) {
	ctrl := gomock.NewController(t)
	provider := mock.NewMockSessionProvider(ctrl)
	stale := mock.NewMockConn(ctrl)
	fresh := mock.NewMockConn(ctrl)

	gomock.InOrder(
		provider.EXPECT().EnsureConnected(gomock.Any()).Return(stale, nil),
		stale.EXPECT().Ping(gomock.Any()).Return(errors.New("broken pipe")),
		provider.EXPECT().Invalidate(stale),
		provider.EXPECT().EnsureConnected(gomock.Any()).Return(fresh, nil),
	)

	NewWatchdog(provider, logger.Nop()).Run(context.Background())
}

func TestWatchdog_Run_ConnectFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	provider := mock.NewMockSessionProvider(ctrl)

	provider.EXPECT().EnsureConnected(gomock.Any()).Return(nil, errors.New("refused"))

	NewWatchdog(provider, logger.Nop()).Run(context.Background())
}
