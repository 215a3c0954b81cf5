// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBatcher struct {
	stmts   []Statement
	results []Result
	err     error
}

func (f *fakeBatcher) Batch(_ context.Context, stmts ...Statement) ([]Result, error) {
	f.stmts = stmts
	return f.results, f.err
}

func TestCollectStats(t *testing.T) {
	b := &fakeBatcher{results: []Result{
		{{"n": int64(4)}},
		{{"n": int64(2)}},
		{{"n": int64(7)}},
	}}

	stats, err := CollectStats(context.Background(), b)

	require.NoError(t, err)
	assert.Equal(t, Stats{Accounts: 4, UsableKeys: 2, ActiveSessions: 7}, stats)
	require.Len(t, b.stmts, 3)
	assert.Equal(t, countAccounts, b.stmts[0].SQL)
	assert.Equal(t, countActiveSessions, b.stmts[2].SQL)
}

func TestCollectStats_Errors(t *testing.T) {
	_, err := CollectStats(context.Background(), &fakeBatcher{err: ErrEmptyBatch})
	assert.ErrorIs(t, err, ErrEmptyBatch)

	_, err = CollectStats(context.Background(), &fakeBatcher{results: []Result{{}, {}, {}}})
	assert.ErrorIs(t, err, ErrExecutingQuery)

	_, err = CollectStats(context.Background(), &fakeBatcher{results: []Result{
		{{"n": "four"}}, {{"n": int64(0)}}, {{"n": int64(0)}},
	}})
	assert.True(t, errors.Is(err, ErrFieldType))
}
