package draftbag

import (
	"context"

	"github.com/shopspring/decimal"
)

// Gateway is the back-office draft-bag surface. While a checkout lane is
// bound to a bag, every cart mutation goes through here before it is applied
// locally, keeping the two views from diverging.
type Gateway interface {
	// ListOpenForClient returns the client's OPEN bags
	ListOpenForClient(ctx context.Context, clientID int64) ([]DraftBag, error)

	// Create opens a new empty bag for the client
	Create(ctx context.Context, clientID int64) (*DraftBag, error)

	// AddItem reserves an item inside the bag
	AddItem(ctx context.Context, bagID, itemID int64) error

	// RemoveItem releases an item from the bag
	RemoveItem(ctx context.Context, bagID, itemID int64) error

	// SetItemPrice records a negotiated price for an item in the bag
	SetItemPrice(ctx context.Context, bagID, itemID int64, price decimal.Decimal) error

	// SetStatus transitions the bag; trackingCode is only meaningful for READY
	SetStatus(ctx context.Context, bagID int64, status BagStatus, trackingCode string) (*DraftBag, error)
}
