package backoffice

import (
	"context"
	"fmt"

	"github.com/brecho/backend/internal/domain/partner"
	"github.com/brecho/backend/internal/infrastructure/telemetry"
)

var _ partner.BalanceGateway = (*Client)(nil)

// GetBalance fetches the client's current barter balance
func (c *Client) GetBalance(ctx context.Context, clientID int64) (*partner.BarterBalance, error) {
	ctx, span := c.startSpan(ctx, "get_barter_balance")
	defer span.End()
	telemetry.SetAttribute(span, "client_id", clientID)

	var result barterBalanceDTO
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&result).
		Get(fmt.Sprintf("/v1/clients/%d/barter-balance", clientID))
	if err != nil || !resp.IsSuccess() {
		return nil, c.remoteError(span, "get barter balance", resp, err)
	}
	return result.toDomain(), nil
}
