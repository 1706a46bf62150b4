package backoffice

import (
	"context"

	"go.uber.org/zap"

	"github.com/brecho/backend/internal/domain/checkout"
	"github.com/brecho/backend/internal/infrastructure/telemetry"
)

var _ checkout.SaleSubmitter = (*Client)(nil)

// SubmitSale records a finished order with the back office. The back office
// decrements stock, consumes barter credit and issues the order code in a
// single transaction on its side.
func (c *Client) SubmitSale(ctx context.Context, order *checkout.Order) (string, error) {
	ctx, span := c.startSpan(ctx, "submit_sale")
	defer span.End()
	telemetry.SetAttributes(span,
		"items", len(order.Items),
		"tenders", len(order.Tenders),
		"total", order.Total.StringFixed(2))

	var result submitOrderResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(toSubmitOrderRequest(order)).
		SetResult(&result).
		Post("/v1/orders")
	if err != nil || !resp.IsSuccess() {
		return "", c.remoteError(span, "submit sale", resp, err)
	}

	telemetry.SetAttribute(span, "order_code", result.OrderCode)
	telemetry.SetOK(span)
	c.logger.Info("sale recorded",
		zap.String("order_code", result.OrderCode),
		zap.Int("items", len(order.Items)),
		zap.String("total", order.Total.StringFixed(2)))
	return result.OrderCode, nil
}
