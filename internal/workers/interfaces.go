// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package workers provides abstractions for managing and running
// background workers in the application.
// It defines the Worker interface and a Workers aggregate that runs every
// registered worker on its cron schedule.
package workers

import "context"

// Worker is the interface that must be implemented by any background worker.
//
// Run performs one pass of the worker's job and returns. ctx is cancelled
// when the application shuts down.
type Worker interface {
	Name() string
	Run(ctx context.Context)
}
