// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"fmt"
	"time"
)

// Record is one result row keyed by column name.
type Record map[string]any

// Result is the flat list of records produced by one statement.
type Result []Record

// Statement is one SQL statement with positional ($n) arguments.
type Statement struct {
	SQL  string
	Args []any
}

// Stmt builds a [Statement].
func Stmt(sql string, args ...any) Statement {
	return Statement{SQL: sql, Args: args}
}

// First returns the first record, if any.
func (r Result) First() (Record, bool) {
	if len(r) == 0 {
		return nil, false
	}
	return r[0], true
}

func (r Record) field(key string) (any, error) {
	v, ok := r[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrFieldMissing, key)
	}
	return v, nil
}

// String returns a text column. NULL reads as "".
func (r Record) String(key string) (string, error) {
	v, err := r.field(key)
	if err != nil {
		return "", err
	}
	switch s := v.(type) {
	case nil:
		return "", nil
	case string:
		return s, nil
	case []byte:
		return string(s), nil
	}
	return "", fmt.Errorf("%w: %s is %T", ErrFieldType, key, v)
}

// Int64 returns an integer column of any width.
func (r Record) Int64(key string) (int64, error) {
	v, err := r.field(key)
	if err != nil {
		return 0, err
	}
	switch n := v.(type) {
	case int64:
		return n, nil
	case int32:
		return int64(n), nil
	case int16:
		return int64(n), nil
	case int:
		return int64(n), nil
	}
	return 0, fmt.Errorf("%w: %s is %T", ErrFieldType, key, v)
}

// Bool returns a boolean column.
func (r Record) Bool(key string) (bool, error) {
	v, err := r.field(key)
	if err != nil {
		return false, err
	}
	b, ok := v.(bool)
	if !ok {
		return false, fmt.Errorf("%w: %s is %T", ErrFieldType, key, v)
	}
	return b, nil
}

// Time returns a timestamp column.
func (r Record) Time(key string) (time.Time, error) {
	v, err := r.field(key)
	if err != nil {
		return time.Time{}, err
	}
	t, ok := v.(time.Time)
	if !ok {
		return time.Time{}, fmt.Errorf("%w: %s is %T", ErrFieldType, key, v)
	}
	return t, nil
}
