// Package backoffice implements the collaborator-API gateways. Everything
// durable — catalog, draft bags, cash sessions, balances, orders — lives in
// the back-office ERP; this engine only ever talks to it over HTTP.
package backoffice

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/brecho/backend/internal/domain/shared"
	"github.com/brecho/backend/internal/infrastructure/config"
	"github.com/brecho/backend/internal/infrastructure/telemetry"
)

// Client is the resty-backed back-office API client. One Client serves all
// gateway ports; the per-context gateway methods live in sibling files.
type Client struct {
	http   *resty.Client
	logger *zap.Logger
}

// NewClient creates a back-office client from configuration
func NewClient(cfg config.BackofficeConfig, logger *zap.Logger) *Client {
	httpClient := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetRetryCount(cfg.RetryCount).
		SetRetryWaitTime(cfg.RetryWait).
		SetHeader("Accept", "application/json").
		AddRetryCondition(func(r *resty.Response, err error) bool {
			// retry transport errors and 5xx, never 4xx: a policy rejection
			// will not get better on a second try
			if err != nil {
				return true
			}
			return r.StatusCode() >= http.StatusInternalServerError
		})

	if cfg.APIKey != "" {
		httpClient.SetHeader("Authorization", "Bearer "+cfg.APIKey)
	}

	return &Client{http: httpClient, logger: logger}
}

// NewClientWithBaseURL creates a client with default settings against the
// given base URL. Used by httptest-backed tests.
func NewClientWithBaseURL(baseURL string, logger *zap.Logger) *Client {
	return NewClient(config.BackofficeConfig{BaseURL: baseURL}, logger)
}

// errorEnvelope is the back office's error body shape
type errorEnvelope struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// startSpan opens a client-kind span for one outbound back-office call
func (c *Client) startSpan(ctx context.Context, op string) (context.Context, trace.Span) {
	return telemetry.StartServiceSpan(ctx, "backoffice", op,
		telemetry.WithSpanKind(trace.SpanKindClient))
}

// remoteError turns a transport error or non-2xx response into an error
// wrapping shared.ErrRemoteFailure, so callers can classify it with
// errors.Is. The failure is also recorded on the call's span.
func (c *Client) remoteError(span trace.Span, op string, resp *resty.Response, err error) error {
	if err != nil {
		c.logger.Warn("backoffice request failed",
			zap.String("op", op), zap.Error(err))
		remoteErr := fmt.Errorf("backoffice %s: %v: %w", op, err, shared.ErrRemoteFailure)
		telemetry.RecordError(span, remoteErr)
		return remoteErr
	}

	var envelope errorEnvelope
	detail := resp.Status()
	if unmarshalErr := unmarshalBody(resp, &envelope); unmarshalErr == nil && envelope.Error.Message != "" {
		detail = fmt.Sprintf("%s: %s", resp.Status(), envelope.Error.Message)
	}

	c.logger.Warn("backoffice request rejected",
		zap.String("op", op),
		zap.Int("status", resp.StatusCode()),
		zap.String("detail", detail))
	telemetry.SetAttribute(span, "http.status_code", resp.StatusCode())
	remoteErr := fmt.Errorf("backoffice %s: %s: %w", op, detail, shared.ErrRemoteFailure)
	telemetry.RecordError(span, remoteErr)
	return remoteErr
}
