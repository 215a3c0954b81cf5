// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"fmt"
)

// Batcher submits several statements as one unit. [Executor] implements it.
type Batcher interface {
	Batch(ctx context.Context, stmts ...Statement) ([]Result, error)
}

// Stats is a consistent snapshot of the site's row counts.
type Stats struct {
	Accounts       int64
	UsableKeys     int64
	ActiveSessions int64
}

// CollectStats counts accounts, registration keys with uses left, and
// unexpired sessions in a single transaction.
func CollectStats(ctx context.Context, b Batcher) (Stats, error) {
	results, err := b.Batch(ctx,
		Stmt(countAccounts),
		Stmt(countUsableKeys),
		Stmt(countActiveSessions),
	)
	if err != nil {
		return Stats{}, err
	}

	counts := make([]int64, len(results))
	for i, res := range results {
		rec, ok := res.First()
		if !ok {
			return Stats{}, fmt.Errorf("%w: statement %d returned no row", ErrExecutingQuery, i)
		}
		if counts[i], err = rec.Int64("n"); err != nil {
			return Stats{}, err
		}
	}

	return Stats{
		Accounts:       counts[0],
		UsableKeys:     counts[1],
		ActiveSessions: counts[2],
	}, nil
}
