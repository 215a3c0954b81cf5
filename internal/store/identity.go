// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
)

const existsColumn = "found"

// identityStore answers existence questions with
// SELECT EXISTS (SELECT 1 FROM <table> WHERE <predicate> LIMIT 1).
type identityStore struct {
	runner Runner
}

// NewIdentityStore returns an [IdentityStore] running on runner.
func NewIdentityStore(runner Runner) IdentityStore {
	return &identityStore{runner: runner}
}

func (s *identityStore) Within(q Querier) IdentityStore {
	return &identityStore{runner: Bind(q)}
}

func (s *identityStore) Exists(ctx context.Context, table, id string) (bool, error) {
	return s.ExistsWhere(ctx, table, squirrel.Eq{"id": id})
}

// ExistsWhere treats both an empty result and a false flag as "no".
func (s *identityStore) ExistsWhere(ctx context.Context, table string, predicate squirrel.Sqlizer) (bool, error) {
	sql, args, err := buildExistsQuery(table, predicate)
	if err != nil {
		return false, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	res, err := s.runner.Query(ctx, sql, args...)
	if err != nil {
		return false, err
	}

	rec, ok := res.First()
	if !ok {
		return false, nil
	}

	return rec.Bool(existsColumn)
}

func buildExistsQuery(table string, predicate squirrel.Sqlizer) (string, []any, error) {
	builder := squirrel.Select("1").
		Prefix("SELECT EXISTS (").
		From(pgx.Identifier{table}.Sanitize()).
		Limit(1).
		Suffix(") AS " + existsColumn).
		PlaceholderFormat(squirrel.Dollar)

	if predicate != nil {
		builder = builder.Where(predicate)
	}

	return builder.ToSql()
}
