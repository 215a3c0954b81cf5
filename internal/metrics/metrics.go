// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package metrics wraps the Prometheus collectors exposed by the server:
// database session health, query retries, key redemptions, account
// activity and HTTP traffic.
//
// All Record* methods are safe on a nil *Collector, so components can be
// constructed without metrics in tests.
package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const defaultNamespace = "mercury"

// Collector owns a private registry and every application collector.
type Collector struct {
	registry *prometheus.Registry

	sessionState    prometheus.Gauge
	connectAttempts *prometheus.CounterVec
	authSchemes     *prometheus.CounterVec
	queryRetries    *prometheus.CounterVec
	keyRedemptions  *prometheus.CounterVec
	registrations   *prometheus.CounterVec
	logins          *prometheus.CounterVec

	httpInFlight prometheus.Gauge
	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
}

// NewCollector creates and registers all collectors under namespace.
func NewCollector(namespace string) *Collector {
	if namespace == "" {
		namespace = defaultNamespace
	}

	c := &Collector{registry: prometheus.NewRegistry()}

	c.sessionState = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "db",
		Name:      "session_state",
		Help:      "Database session state (0=disconnected, 1=connecting, 2=authenticating, 3=ready).",
	})
	c.connectAttempts = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "db",
		Name:      "connect_attempts_total",
		Help:      "Connection attempts by outcome.",
	}, []string{"outcome"})
	c.authSchemes = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "db",
		Name:      "auth_scheme_total",
		Help:      "Credential scheme attempts by scheme and outcome.",
	}, []string{"scheme", "outcome"})
	c.queryRetries = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "db",
		Name:      "query_retries_total",
		Help:      "Transparent statement re-submissions by reason.",
	}, []string{"reason"})
	c.keyRedemptions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "registration",
		Name:      "key_redemptions_total",
		Help:      "Registration key redemptions by result.",
	}, []string{"result"})
	c.registrations = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "registration",
		Name:      "registrations_total",
		Help:      "Registration attempts by outcome.",
	}, []string{"outcome"})
	c.logins = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "auth",
		Name:      "logins_total",
		Help:      "Login attempts by outcome.",
	}, []string{"outcome"})

	c.httpInFlight = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "inflight_requests",
		Help:      "Current number of in-flight HTTP requests.",
	})
	c.httpRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total number of HTTP requests handled.",
	}, []string{"method", "route", "status"})
	c.httpDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "Duration of HTTP requests.",
		Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms to ~5s
	}, []string{"method", "route"})

	c.registry.MustRegister(
		c.sessionState,
		c.connectAttempts,
		c.authSchemes,
		c.queryRetries,
		c.keyRedemptions,
		c.registrations,
		c.logins,
		c.httpInFlight,
		c.httpRequests,
		c.httpDuration,
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector(),
	)

	return c
}

// Registry returns the underlying registry.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler returns an HTTP handler exposing the registered metrics.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// SetSessionState records the numeric state of the database session.
func (c *Collector) SetSessionState(state int) {
	if c == nil {
		return
	}
	c.sessionState.Set(float64(state))
}

// RecordConnectAttempt counts one connect attempt; err == nil means success.
func (c *Collector) RecordConnectAttempt(err error) {
	if c == nil {
		return
	}
	c.connectAttempts.WithLabelValues(outcome(err)).Inc()
}

// RecordAuthScheme counts one authentication try under scheme.
func (c *Collector) RecordAuthScheme(scheme string, err error) {
	if c == nil {
		return
	}
	c.authSchemes.WithLabelValues(scheme, outcome(err)).Inc()
}

// RecordQueryRetry counts one transparent re-submission.
// reason is "retriable" or "reconnect".
func (c *Collector) RecordQueryRetry(reason string) {
	if c == nil {
		return
	}
	c.queryRetries.WithLabelValues(reason).Inc()
}

// RecordKeyRedemption counts a redemption result ("redeemed", "exhausted", "not_found").
func (c *Collector) RecordKeyRedemption(result string) {
	if c == nil {
		return
	}
	c.keyRedemptions.WithLabelValues(result).Inc()
}

// RecordRegistration counts one registration attempt.
func (c *Collector) RecordRegistration(err error) {
	if c == nil {
		return
	}
	c.registrations.WithLabelValues(outcome(err)).Inc()
}

// RecordLogin counts one login attempt.
func (c *Collector) RecordLogin(err error) {
	if c == nil {
		return
	}
	c.logins.WithLabelValues(outcome(err)).Inc()
}

// InstrumentHandler wraps next with HTTP metrics collection. Routes are
// labelled with the chi route pattern to keep cardinality bounded.
func (c *Collector) InstrumentHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/metrics" {
			next.ServeHTTP(w, r)
			return
		}

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()

		c.httpInFlight.Inc()
		defer c.httpInFlight.Dec()

		next.ServeHTTP(rec, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}
		method := strings.ToUpper(r.Method)

		c.httpRequests.WithLabelValues(method, route, strconv.Itoa(rec.status)).Inc()
		c.httpDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
	})
}

func outcome(err error) string {
	if err != nil {
		return "failure"
	}
	return "success"
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}
