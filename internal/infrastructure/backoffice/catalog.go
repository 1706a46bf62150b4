package backoffice

import (
	"context"
	"fmt"

	"github.com/brecho/backend/internal/domain/catalog"
	"github.com/brecho/backend/internal/infrastructure/telemetry"
)

var _ catalog.Gateway = (*Client)(nil)

// SearchItems runs the back office's free-text catalog search
func (c *Client) SearchItems(ctx context.Context, token string) ([]catalog.Item, error) {
	ctx, span := c.startSpan(ctx, "search_items")
	defer span.End()

	var result itemSearchResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("q", token).
		SetResult(&result).
		Get("/v1/items")
	if err != nil || !resp.IsSuccess() {
		return nil, c.remoteError(span, "search items", resp, err)
	}

	telemetry.SetAttribute(span, "result_count", len(result.Items))
	items := make([]catalog.Item, 0, len(result.Items))
	for _, dto := range result.Items {
		items = append(items, dto.toDomain())
	}
	return items, nil
}

// UpdateQuantity patches an item's stock quantity and returns the updated
// snapshot as the back office sees it.
func (c *Client) UpdateQuantity(ctx context.Context, itemID int64, newQuantity int) (catalog.Item, error) {
	ctx, span := c.startSpan(ctx, "update_stock")
	defer span.End()
	telemetry.SetAttributes(span, "item_id", itemID, "quantity", newQuantity)

	var result itemDTO
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(updateStockRequest{Quantity: newQuantity}).
		SetResult(&result).
		Patch(fmt.Sprintf("/v1/items/%d/stock", itemID))
	if err != nil || !resp.IsSuccess() {
		return catalog.Item{}, c.remoteError(span, "update stock", resp, err)
	}
	return result.toDomain(), nil
}
