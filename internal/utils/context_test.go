// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package utils

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContextKeyString(t *testing.T) {
	assert.Equal(t, "testKey", contextKey("testKey").String())
	assert.Equal(t, "accountID", AccountIDCtxKey.String())
}

func TestGetAccountIDFromContext(t *testing.T) {
	tests := []struct {
		name   string
		ctx    context.Context
		wantID string
		wantOK bool
	}{
		{
			name:   "set with helper",
			ctx:    WithAccountID(context.Background(), "acc-1"),
			wantID: "acc-1",
			wantOK: true,
		},
		{
			name:   "missing",
			ctx:    context.Background(),
			wantOK: false,
		},
		{
			name:   "wrong type",
			ctx:    context.WithValue(context.Background(), AccountIDCtxKey, int64(42)),
			wantOK: false,
		},
		{
			name:   "empty string",
			ctx:    WithAccountID(context.Background(), ""),
			wantOK: false,
		},
		{
			name:   "different key",
			ctx:    context.WithValue(context.Background(), contextKey("other"), "acc-1"),
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, ok := GetAccountIDFromContext(tt.ctx)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantID, id)
		})
	}
}
