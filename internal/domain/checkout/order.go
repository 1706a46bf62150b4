package checkout

import (
	"context"

	"github.com/shopspring/decimal"
)

// SaleChannelPDV tags orders submitted from a checkout lane
const SaleChannelPDV = "PDV"

// OrderItem is one sold item with the price actually charged for it
type OrderItem struct {
	ItemID    int64
	UnitPrice decimal.Decimal
}

// Order is the immutable submission payload built from a validated lane.
// Pointers distinguish anonymous sales (nil client) and plain sales
// (nil draft bag) from bound ones.
type Order struct {
	ClientID   *int64
	DraftBagID *int64
	Items      []OrderItem
	Tenders    []Tender
	Discount   DiscountSpec
	Freight    decimal.Decimal
	Total      decimal.Decimal
	Channel    string
}

// SaleSubmitter persists a finished order with the back office. Submission
// is all-or-nothing: on error nothing was recorded and the lane keeps its
// state for a retry.
type SaleSubmitter interface {
	SubmitSale(ctx context.Context, order *Order) (orderCode string, err error)
}
