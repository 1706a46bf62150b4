package backoffice

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/brecho/backend/internal/domain/draftbag"
	"github.com/brecho/backend/internal/infrastructure/telemetry"
)

var _ draftbag.Gateway = (*Client)(nil)

// ListOpenForClient returns the client's OPEN draft bags
func (c *Client) ListOpenForClient(ctx context.Context, clientID int64) ([]draftbag.DraftBag, error) {
	ctx, span := c.startSpan(ctx, "list_open_bags")
	defer span.End()
	telemetry.SetAttribute(span, "client_id", clientID)

	var result bagListResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("status", string(draftbag.BagStatusOpen)).
		SetResult(&result).
		Get(fmt.Sprintf("/v1/clients/%d/bags", clientID))
	if err != nil || !resp.IsSuccess() {
		return nil, c.remoteError(span, "list open bags", resp, err)
	}

	bags := make([]draftbag.DraftBag, 0, len(result.Bags))
	for _, dto := range result.Bags {
		bags = append(bags, dto.toDomain())
	}
	return bags, nil
}

// Create opens a new empty bag for the client
func (c *Client) Create(ctx context.Context, clientID int64) (*draftbag.DraftBag, error) {
	ctx, span := c.startSpan(ctx, "create_bag")
	defer span.End()
	telemetry.SetAttribute(span, "client_id", clientID)

	var result bagDTO
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(createBagRequest{ClientID: clientID}).
		SetResult(&result).
		Post(fmt.Sprintf("/v1/clients/%d/bags", clientID))
	if err != nil || !resp.IsSuccess() {
		return nil, c.remoteError(span, "create bag", resp, err)
	}
	bag := result.toDomain()
	return &bag, nil
}

// AddItem reserves an item inside the bag
func (c *Client) AddItem(ctx context.Context, bagID, itemID int64) error {
	ctx, span := c.startSpan(ctx, "add_bag_item")
	defer span.End()
	telemetry.SetAttributes(span, "bag_id", bagID, "item_id", itemID)

	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(bagItemRequest{ItemID: itemID}).
		Post(fmt.Sprintf("/v1/bags/%d/items", bagID))
	if err != nil || !resp.IsSuccess() {
		return c.remoteError(span, "add bag item", resp, err)
	}
	return nil
}

// RemoveItem releases an item from the bag
func (c *Client) RemoveItem(ctx context.Context, bagID, itemID int64) error {
	ctx, span := c.startSpan(ctx, "remove_bag_item")
	defer span.End()
	telemetry.SetAttributes(span, "bag_id", bagID, "item_id", itemID)

	resp, err := c.http.R().
		SetContext(ctx).
		Delete(fmt.Sprintf("/v1/bags/%d/items/%d", bagID, itemID))
	if err != nil || !resp.IsSuccess() {
		return c.remoteError(span, "remove bag item", resp, err)
	}
	return nil
}

// SetItemPrice records a negotiated price for an item in the bag
func (c *Client) SetItemPrice(ctx context.Context, bagID, itemID int64, price decimal.Decimal) error {
	ctx, span := c.startSpan(ctx, "set_bag_item_price")
	defer span.End()
	telemetry.SetAttributes(span, "bag_id", bagID, "item_id", itemID)

	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(bagItemPriceRequest{Price: price}).
		Put(fmt.Sprintf("/v1/bags/%d/items/%d/price", bagID, itemID))
	if err != nil || !resp.IsSuccess() {
		return c.remoteError(span, "set bag item price", resp, err)
	}
	return nil
}

// SetStatus transitions the bag and returns its updated snapshot
func (c *Client) SetStatus(ctx context.Context, bagID int64, status draftbag.BagStatus, trackingCode string) (*draftbag.DraftBag, error) {
	ctx, span := c.startSpan(ctx, "set_bag_status")
	defer span.End()
	telemetry.SetAttributes(span, "bag_id", bagID, "status", string(status))

	var result bagDTO
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(bagStatusRequest{Status: string(status), TrackingCode: trackingCode}).
		SetResult(&result).
		Put(fmt.Sprintf("/v1/bags/%d/status", bagID))
	if err != nil || !resp.IsSuccess() {
		return nil, c.remoteError(span, "set bag status", resp, err)
	}
	bag := result.toDomain()
	return &bag, nil
}
