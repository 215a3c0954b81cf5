// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package workers

import (
	"context"
	"fmt"
	"sync"

	"github.com/Redbattlebot/Astrev2/internal/config"
	"github.com/Redbattlebot/Astrev2/internal/logger"
	"github.com/Redbattlebot/Astrev2/internal/store"
	"github.com/robfig/cron/v3"
)

// Workers runs registered workers on cron schedules. A worker is never run
// concurrently with itself; a run that is still going when the next tick
// fires causes that tick to be skipped.
type Workers struct {
	cron    *cron.Cron
	workers []Worker

	mu  sync.Mutex
	ctx context.Context

	logger *logger.Logger
}

func New(logger *logger.Logger) *Workers {
	cl := cronLogger{logger: logger}
	w := &Workers{
		cron: cron.New(cron.WithChain(
			cron.Recover(cl),
			cron.SkipIfStillRunning(cl),
		)),
		ctx:    context.Background(),
		logger: logger,
	}
	return w
}

// NewWorkers registers the session reaper and the connection watchdog
// from cfg. An empty schedule disables the worker.
func NewWorkers(storages *store.Storages, cfg config.Workers, logger *logger.Logger) (*Workers, error) {
	w := New(logger)

	if cfg.SessionReapSchedule != "" {
		reaper := NewSessionReaper(storages.Sessions, logger.Component("session_reaper"))
		if err := w.Add(cfg.SessionReapSchedule, reaper); err != nil {
			return nil, err
		}
	}

	if cfg.WatchdogSchedule != "" {
		watchdog := NewWatchdog(storages.Manager, logger.Component("watchdog"))
		if err := w.Add(cfg.WatchdogSchedule, watchdog); err != nil {
			return nil, err
		}
	}

	return w, nil
}

// Add schedules worker with a robfig/cron expression ("*/5 * * * *", "@every 30s").
func (w *Workers) Add(schedule string, worker Worker) error {
	_, err := w.cron.AddFunc(schedule, func() {
		worker.Run(w.context())
	})
	if err != nil {
		return fmt.Errorf("scheduling %s with %q: %w", worker.Name(), schedule, err)
	}

	w.workers = append(w.workers, worker)
	w.logger.Info().Str("worker", worker.Name()).Str("schedule", schedule).Msg("worker scheduled")
	return nil
}

// Run performs one pass of every worker in registration order.
func (w *Workers) Run(ctx context.Context) {
	for _, worker := range w.workers {
		worker.Run(ctx)
	}
}

// Start begins the schedules. Workers stop when ctx is done; the returned
// channel is closed once running jobs have finished.
func (w *Workers) Start(ctx context.Context) <-chan struct{} {
	w.mu.Lock()
	w.ctx = ctx
	w.mu.Unlock()

	w.cron.Start()

	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		<-ctx.Done()
		<-w.cron.Stop().Done()
		w.logger.Info().Msg("workers stopped")
	}()

	return stopped
}

func (w *Workers) context() context.Context {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.ctx
}

// cronLogger adapts the application logger to cron.Logger.
type cronLogger struct {
	logger *logger.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug().Fields(keysAndValues).Msg(msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Err(err).Fields(keysAndValues).Msg(msg)
}
