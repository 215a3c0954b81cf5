// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package http implements the HTTP transport layer of the application.
//
// It exposes the account pages' JSON endpoints (registration, initial
// account, login, logout), the session cookie handling, and the version and
// metrics endpoints. Request tracing, access logging, throttling and cookie
// authentication are handled here before requests reach the service layer.
package http
