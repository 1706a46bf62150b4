package backoffice

import (
	"context"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/brecho/backend/internal/domain/cashier"
)

var _ cashier.Gateway = (*Client)(nil)

// GetOpenSession returns the open cash session, or nil when the back office
// reports none (404).
func (c *Client) GetOpenSession(ctx context.Context) (*cashier.CashSession, error) {
	ctx, span := c.startSpan(ctx, "get_open_session")
	defer span.End()

	var result cashSessionDTO
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&result).
		Get("/v1/cash-sessions/current")
	if err == nil && resp.StatusCode() == http.StatusNotFound {
		return nil, nil
	}
	if err != nil || !resp.IsSuccess() {
		return nil, c.remoteError(span, "get open session", resp, err)
	}
	return result.toDomain(), nil
}

// Open opens a new cash session with the given opening balance
func (c *Client) Open(ctx context.Context, openingBalance decimal.Decimal) (*cashier.CashSession, error) {
	ctx, span := c.startSpan(ctx, "open_session")
	defer span.End()

	var result cashSessionDTO
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(openSessionRequest{OpeningBalance: openingBalance}).
		SetResult(&result).
		Post("/v1/cash-sessions")
	if err != nil || !resp.IsSuccess() {
		return nil, c.remoteError(span, "open session", resp, err)
	}
	return result.toDomain(), nil
}

// Close closes the open session against the counted drawer balance
func (c *Client) Close(ctx context.Context, countedBalance decimal.Decimal) (*cashier.ClosingResult, error) {
	ctx, span := c.startSpan(ctx, "close_session")
	defer span.End()

	var result closingResultDTO
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(closeSessionRequest{CountedBalance: countedBalance}).
		SetResult(&result).
		Post("/v1/cash-sessions/current/close")
	if err != nil || !resp.IsSuccess() {
		return nil, c.remoteError(span, "close session", resp, err)
	}
	return result.toDomain(), nil
}
