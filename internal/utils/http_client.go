// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package utils

import (
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	defaultClientRetries     = 2
	defaultClientRetryWait   = 100 * time.Millisecond
	defaultClientMaxWaitTime = time.Second
)

// HTTPClient is a wrapper around the resty.Client HTTP client.
// It embeds *resty.Client to expose all of its methods directly.
//
//	client := utils.NewHTTPClient("https://render.internal", 10*time.Second)
//	resp, err := client.R().Post("/render")
type HTTPClient struct {
	*resty.Client
}

// NewHTTPClient creates an independent client for baseURL. Requests time
// out after timeout and transport failures are retried twice.
func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	client := resty.New().
		SetBaseURL(baseURL).
		SetRetryCount(defaultClientRetries).
		SetRetryWaitTime(defaultClientRetryWait).
		SetRetryMaxWaitTime(defaultClientMaxWaitTime)

	if timeout > 0 {
		client.SetTimeout(timeout)
	}

	return &HTTPClient{Client: client}
}
