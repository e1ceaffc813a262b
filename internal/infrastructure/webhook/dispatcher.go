package webhook

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/baysoko/backend/internal/infrastructure/config"
)

const (
	// SignatureHeader carries the hex HMAC-SHA256 of the canonical payload.
	SignatureHeader = "X-Webhook-Signature"
	// EventTypeHeader names the delivery event being dispatched.
	EventTypeHeader = "X-Event-Type"
	// PlatformHeader identifies the sending platform.
	PlatformHeader = "X-Platform"

	platformName = "baysoko"

	maxResponseBytes = 4 << 10
)

// HTTPDispatcher posts signed delivery events to the courier endpoint
// configured in config.WebhookConfig.
type HTTPDispatcher struct {
	url    string
	secret string
	client *http.Client
	logger *zap.Logger
}

func NewHTTPDispatcher(cfg config.WebhookConfig, logger *zap.Logger) *HTTPDispatcher {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPDispatcher{
		url:    cfg.URL,
		secret: cfg.Secret,
		client: &http.Client{Timeout: timeout},
		logger: logger,
	}
}

// Dispatch signs the payload and posts it to the courier endpoint. The
// response status and a truncated body are returned so the caller can
// record the delivery attempt; a non-2xx status is not an error here.
func (d *HTTPDispatcher) Dispatch(ctx context.Context, eventType string, payload []byte) (int, string, error) {
	if d.url == "" {
		return 0, "", fmt.Errorf("webhook url is not configured")
	}

	canonical, err := CanonicalJSON(payload)
	if err != nil {
		return 0, "", err
	}

	signature, err := Sign(d.secret, canonical)
	if err != nil {
		return 0, "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.url, bytes.NewReader(canonical))
	if err != nil {
		return 0, "", fmt.Errorf("failed to build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(SignatureHeader, signature)
	req.Header.Set(EventTypeHeader, eventType)
	req.Header.Set(PlatformHeader, platformName)

	resp, err := d.client.Do(req)
	if err != nil {
		d.logger.Warn("webhook dispatch failed",
			zap.String("event_type", eventType),
			zap.Error(err))
		return 0, "", fmt.Errorf("webhook request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return resp.StatusCode, "", fmt.Errorf("failed to read webhook response: %w", err)
	}

	d.logger.Debug("webhook dispatched",
		zap.String("event_type", eventType),
		zap.Int("status", resp.StatusCode))

	return resp.StatusCode, string(body), nil
}
