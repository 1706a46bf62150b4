package checkout

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/brecho/backend/internal/domain/shared"
)

// Event types for the checkout context
const (
	EventTypeSaleFinalized = "checkout.sale_finalized"
	EventTypeBagBound      = "checkout.bag_bound"
)

// SaleFinalizedEvent is raised after the back office accepted an order
type SaleFinalizedEvent struct {
	shared.BaseDomainEvent
	OrderCode   string          `json:"order_code"`
	ClientID    *int64          `json:"client_id,omitempty"`
	DraftBagID  *int64          `json:"draft_bag_id,omitempty"`
	ItemCount   int             `json:"item_count"`
	Total       decimal.Decimal `json:"total"`
	TenderCount int             `json:"tender_count"`
	Channel     string          `json:"channel"`
}

// NewSaleFinalizedEvent creates a sale finalized event from the submitted order
func NewSaleFinalizedEvent(laneID uuid.UUID, orderCode string, order *Order) *SaleFinalizedEvent {
	return &SaleFinalizedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSaleFinalized, "Checkout", laneID),
		OrderCode:       orderCode,
		ClientID:        order.ClientID,
		DraftBagID:      order.DraftBagID,
		ItemCount:       len(order.Items),
		Total:           order.Total,
		TenderCount:     len(order.Tenders),
		Channel:         order.Channel,
	}
}

// BagBoundEvent is raised when a lane binds to a draft bag
type BagBoundEvent struct {
	shared.BaseDomainEvent
	DraftBagID int64 `json:"draft_bag_id"`
	ClientID   int64 `json:"client_id"`
	LineCount  int   `json:"line_count"`
}

// NewBagBoundEvent creates a bag bound event
func NewBagBoundEvent(laneID uuid.UUID, bagID, clientID int64, lineCount int) *BagBoundEvent {
	return &BagBoundEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeBagBound, "Checkout", laneID),
		DraftBagID:      bagID,
		ClientID:        clientID,
		LineCount:       lineCount,
	}
}
