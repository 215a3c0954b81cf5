// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/Redbattlebot/Astrev2/internal/logger"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bufferedHandler(buf *bytes.Buffer) *Handler {
	return &Handler{logger: &logger.Logger{Logger: zerolog.New(buf)}}
}

func lastEntry(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.NotEmpty(t, lines)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(lines[len(lines)-1], &entry))
	return entry
}

// ─────────────────────────────────────────────
// withTraceID
// ─────────────────────────────────────────────

func TestWithTraceID(t *testing.T) {
	valid := uuid.NewString()

	tests := []struct {
		name     string
		incoming string
		keep     bool
	}{
		{name: "no header", incoming: ""},
		{name: "valid uuid reused", incoming: valid, keep: true},
		{name: "garbage replaced", incoming: "not-a-uuid\nforged=1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			h := bufferedHandler(&buf)

			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				logger.FromRequest(r).Info().Msg("inside")
			})

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.incoming != "" {
				req.Header.Set(traceIDHeader, tt.incoming)
			}
			rec := httptest.NewRecorder()
			h.withTraceID(next).ServeHTTP(rec, req)

			traceID := rec.Header().Get(traceIDHeader)
			_, err := uuid.Parse(traceID)
			require.NoError(t, err)
			if tt.keep {
				assert.Equal(t, tt.incoming, traceID)
			} else {
				assert.NotEqual(t, tt.incoming, traceID)
			}

			assert.Equal(t, traceID, lastEntry(t, &buf)["trace_id"])
		})
	}
}

func TestWithTraceID_UniquePerRequest(t *testing.T) {
	h := bufferedHandler(&bytes.Buffer{})
	handler := h.withTraceID(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))

	seen := make(map[string]struct{})
	for n := 0; n < 50; n++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		seen[rec.Header().Get(traceIDHeader)] = struct{}{}
	}
	assert.Len(t, seen, 50)
}

// ─────────────────────────────────────────────
// withLogging
// ─────────────────────────────────────────────

func TestWithLogging_Levels(t *testing.T) {
	tests := []struct {
		status    int
		wantLevel string
	}{
		{status: 0, wantLevel: "info"},
		{status: http.StatusCreated, wantLevel: "info"},
		{status: http.StatusConflict, wantLevel: "warn"},
		{status: http.StatusServiceUnavailable, wantLevel: "error"},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			var buf bytes.Buffer
			h := bufferedHandler(&buf)

			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if tt.status != 0 {
					w.WriteHeader(tt.status)
				}
				_, _ = w.Write([]byte("hello"))
			})

			req := httptest.NewRequest(http.MethodPost, "/api/login", nil)
			req = req.WithContext(h.logger.WithContext(req.Context()))
			h.withLogging(next).ServeHTTP(httptest.NewRecorder(), req)

			entry := lastEntry(t, &buf)
			wantStatus := tt.status
			if wantStatus == 0 {
				wantStatus = http.StatusOK
			}
			assert.Equal(t, tt.wantLevel, entry["level"])
			assert.Equal(t, float64(wantStatus), entry["status"])
			assert.Equal(t, float64(5), entry["size"])
			assert.Equal(t, "/api/login", entry["uri"])
			assert.Equal(t, http.MethodPost, entry["method"])
		})
	}
}

// ─────────────────────────────────────────────
// responseWriter
// ─────────────────────────────────────────────

func TestResponseWriter(t *testing.T) {
	rec := httptest.NewRecorder()
	w := &responseWriter{ResponseWriter: rec}

	w.WriteHeader(http.StatusAccepted)
	w.WriteHeader(http.StatusTeapot)
	_, _ = w.Write([]byte("ab"))
	_, _ = w.Write([]byte("cde"))

	assert.Equal(t, http.StatusAccepted, w.status)
	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, 5, w.size)
	assert.Equal(t, "abcde", rec.Body.String())
}

func TestResponseWriter_ImplicitOK(t *testing.T) {
	w := &responseWriter{ResponseWriter: httptest.NewRecorder()}
	assert.Equal(t, http.StatusOK, w.Status())

	_, _ = w.Write([]byte("x"))
	assert.Equal(t, http.StatusOK, w.status)
}

func TestResponseWriter_Unwrap(t *testing.T) {
	rec := httptest.NewRecorder()
	w := &responseWriter{ResponseWriter: rec}

	assert.Same(t, rec, w.Unwrap())
	assert.NoError(t, http.NewResponseController(w).Flush())
	assert.True(t, rec.Flushed)
}

// ─────────────────────────────────────────────
// RateLimiter
// ─────────────────────────────────────────────

func TestRateLimiter_PerClient(t *testing.T) {
	rl := NewRateLimiter(1, 1, logger.Nop())
	handler := rl.Handler(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	call := func(addr string) int {
		req := httptest.NewRequest(http.MethodPost, "/api/login", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, call("192.0.2.1:1000"))
	assert.Equal(t, http.StatusTooManyRequests, call("192.0.2.1:2000"), "same host, different port")
	assert.Equal(t, http.StatusOK, call("192.0.2.2:1000"))
}

func TestRateLimiter_DisabledWhenNonPositive(t *testing.T) {
	rl := NewRateLimiter(0, 0, logger.Nop())
	handler := rl.Handler(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {}))

	for n := 0; n < 100; n++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", nil))
		require.Equal(t, http.StatusOK, rec.Code)
	}
}

func TestRateLimiter_Concurrent(t *testing.T) {
	rl := NewRateLimiter(1, 10, logger.Nop())
	handler := rl.Handler(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {}))

	var (
		mu      sync.Mutex
		allowed int
		wg      sync.WaitGroup
	)
	for n := 0; n < 40; n++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/", nil)
			req.RemoteAddr = "198.51.100.7:443"
			handler.ServeHTTP(rec, req)
			if rec.Code == http.StatusOK {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.GreaterOrEqual(t, allowed, 10)
	assert.Less(t, allowed, 40)
}

func TestClientAddress(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	req.RemoteAddr = "[2001:db8::1]:8080"
	assert.Equal(t, "2001:db8::1", clientAddress(req))

	req.RemoteAddr = "unix-socket"
	assert.Equal(t, "unix-socket", clientAddress(req))
}
