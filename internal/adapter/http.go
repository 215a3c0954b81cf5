// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/Redbattlebot/Astrev2/internal/config"
	"github.com/Redbattlebot/Astrev2/internal/logger"
	"github.com/Redbattlebot/Astrev2/internal/utils"
)

const (
	renderPath       = "/render"
	renderKindAvatar = "Avatar"
	serviceTokenTTL  = time.Minute
)

// renderRequest is the body of POST /render.
type renderRequest struct {
	Type string `json:"type"`
	ID   string `json:"id"`
	Name string `json:"name"`
}

type httpAvatarRenderer struct {
	client *utils.HTTPClient

	signKey string
	issuer  string

	logger *logger.Logger
}

// NewAvatarRenderer returns the HTTP renderer for cfg, or a no-op renderer
// when cfg.URL is empty.
//
// Returns an error if cfg.URL cannot be parsed as an absolute URL.
func NewAvatarRenderer(cfg config.Renderer, log *logger.Logger) (AvatarRenderer, error) {
	if strings.TrimSpace(cfg.URL) == "" {
		return NopRenderer{}, nil
	}

	baseURL, err := normalizeBaseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRendererURL, err)
	}

	return &httpAvatarRenderer{
		client:  utils.NewHTTPClient(baseURL, cfg.Timeout),
		signKey: cfg.SignKey,
		issuer:  cfg.Issuer,
		logger:  log.Component("renderer"),
	}, nil
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty address")
	}

	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("address must include host and scheme")
	}

	return strings.TrimRight(u.String(), "/"), nil
}

// RenderAvatar implements [AvatarRenderer]. It POSTs the render request with
// a service token whose subject is accountID.
func (h *httpAvatarRenderer) RenderAvatar(ctx context.Context, accountID, username string) error {
	token, err := utils.GenerateServiceToken(h.issuer, accountID, serviceTokenTTL, h.signKey)
	if err != nil {
		return fmt.Errorf("render service token: %w", err)
	}

	resp, err := h.client.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetHeader("Content-Type", "application/json").
		SetBody(renderRequest{Type: renderKindAvatar, ID: accountID, Name: username}).
		Post(renderPath)
	if err != nil {
		return fmt.Errorf("render request: %w", err)
	}

	if err := mapHTTPError(resp); err != nil {
		return err
	}

	h.logger.Debug().Str("account_id", accountID).Dur("took", resp.Time()).Msg("avatar rendered")
	return nil
}

// NopRenderer accepts every request and does nothing.
type NopRenderer struct{}

func (NopRenderer) RenderAvatar(context.Context, string, string) error {
	return nil
}
