package checkout

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/brecho/backend/internal/domain/checkout"
	"github.com/brecho/backend/internal/domain/draftbag"
	"github.com/brecho/backend/internal/domain/partner"
)

// CartLineResponse is one cart line as shown on the lane screen
type CartLineResponse struct {
	Index       int             `json:"index"`
	ItemID      int64           `json:"item_id"`
	DisplayCode string          `json:"display_code"`
	Description string          `json:"description"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

// TenderResponse is one recorded partial payment
type TenderResponse struct {
	ID           int             `json:"id"`
	Method       string          `json:"method"`
	Amount       decimal.Decimal `json:"amount"`
	Installments int             `json:"installments"`
}

// TotalsResponse is the money summary for the lane
type TotalsResponse struct {
	Subtotal  decimal.Decimal `json:"subtotal"`
	Discount  decimal.Decimal `json:"discount"`
	Freight   decimal.Decimal `json:"freight"`
	Total     decimal.Decimal `json:"total"`
	Paid      decimal.Decimal `json:"paid"`
	Remaining decimal.Decimal `json:"remaining"`
}

// LaneResponse is the full state of a checkout lane
type LaneResponse struct {
	LaneID     uuid.UUID          `json:"lane_id"`
	ClientID   *int64             `json:"client_id,omitempty"`
	BoundBagID *int64             `json:"bound_bag_id,omitempty"`
	Lines      []CartLineResponse `json:"lines"`
	Tenders    []TenderResponse   `json:"tenders"`
	Totals     TotalsResponse     `json:"totals"`
}

// BagSummaryResponse is an open draft bag offered for resuming
type BagSummaryResponse struct {
	BagID      int64           `json:"bag_id"`
	Status     string          `json:"status"`
	EntryCount int             `json:"entry_count"`
	Value      decimal.Decimal `json:"value"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// BarterBalanceResponse is the client's spendable store credit
type BarterBalanceResponse struct {
	Saldo      decimal.Decimal `json:"saldo"`
	NextExpiry *time.Time      `json:"next_expiry,omitempty"`
}

// ClientSelectionResponse is returned when a client is attached to a lane
type ClientSelectionResponse struct {
	Lane          *LaneResponse          `json:"lane"`
	OpenBags      []BagSummaryResponse   `json:"open_bags"`
	BarterBalance *BarterBalanceResponse `json:"barter_balance,omitempty"`
}

// Bag binding actions
const (
	BagActionResume = "resume"
	BagActionNew    = "new"
	BagActionNone   = "none"
)

// BindBagRequest picks how the lane relates to the client's draft bags
type BindBagRequest struct {
	Action string `json:"action" binding:"required,oneof=resume new none"`
	BagID  int64  `json:"bag_id"`
}

// SetBagStatusRequest transitions the bound bag
type SetBagStatusRequest struct {
	Status       string `json:"status" binding:"required"`
	TrackingCode string `json:"tracking_code"`
}

// AddItemStatus tags the outcome of scanning a token into the lane
type AddItemStatus string

const (
	AddItemAdded        AddItemStatus = "ADDED"
	AddItemNeedsRestock AddItemStatus = "NEEDS_RESTOCK"
)

// RestockPromptResponse carries what the restock dialog needs
type RestockPromptResponse struct {
	ItemID          int64  `json:"item_id"`
	DisplayCode     string `json:"display_code"`
	Description     string `json:"description"`
	CurrentQuantity int    `json:"current_quantity"`
	Availability    string `json:"availability"`
}

// AddItemResponse is the result of resolving and admitting a token
type AddItemResponse struct {
	Status  AddItemStatus          `json:"status"`
	Line    *CartLineResponse      `json:"line,omitempty"`
	Restock *RestockPromptResponse `json:"restock,omitempty"`
	Lane    *LaneResponse          `json:"lane"`
}

// RestockRequest confirms a restock for the lane's pending item
type RestockRequest struct {
	ItemID   int64 `json:"item_id" binding:"required"`
	Quantity int   `json:"quantity" binding:"required,gt=0"`
}

// SetPriceRequest overrides a line price with raw operator input
type SetPriceRequest struct {
	Price string `json:"price" binding:"required"`
}

// SetDiscountRequest applies an order-level discount
type SetDiscountRequest struct {
	Mode  string          `json:"mode" binding:"required,oneof=PERCENT ABSOLUTE"`
	Value decimal.Decimal `json:"value" binding:"required"`
}

// SetFreightRequest applies a freight amount
type SetFreightRequest struct {
	Freight decimal.Decimal `json:"freight"`
}

// AddTenderRequest proposes a partial payment
type AddTenderRequest struct {
	Method       string          `json:"method" binding:"required,tendermethod"`
	Amount       decimal.Decimal `json:"amount" binding:"required"`
	Installments int             `json:"installments"`
}

// TenderDecisionResponse is the tagged outcome of proposing a tender
type TenderDecisionResponse struct {
	Accepted bool            `json:"accepted"`
	Tender   *TenderResponse `json:"tender,omitempty"`
	Reason   string          `json:"reason,omitempty"`
	Lane     *LaneResponse   `json:"lane"`
}

// FinalizeResponse reports a submitted sale
type FinalizeResponse struct {
	OrderCode string          `json:"order_code"`
	Total     decimal.Decimal `json:"total"`
	Lane      *LaneResponse   `json:"lane"`
}

func toCartLineResponse(index int, line checkout.CartLine) CartLineResponse {
	return CartLineResponse{
		Index:       index,
		ItemID:      line.ItemID,
		DisplayCode: line.DisplayCode,
		Description: line.Description,
		UnitPrice:   line.UnitPrice,
	}
}

func toTenderResponse(t checkout.Tender) TenderResponse {
	return TenderResponse{
		ID:           t.ID,
		Method:       t.Method.String(),
		Amount:       t.Amount,
		Installments: t.Installments,
	}
}

func toLaneResponse(co *checkout.Checkout) *LaneResponse {
	lines := make([]CartLineResponse, 0, co.Cart.Len())
	for idx, line := range co.Cart.Lines() {
		lines = append(lines, toCartLineResponse(idx, line))
	}
	tenders := make([]TenderResponse, 0, co.Tenders.Len())
	for _, t := range co.Tenders.Tenders() {
		tenders = append(tenders, toTenderResponse(t))
	}
	totals := co.Totals()
	return &LaneResponse{
		LaneID:     co.ID,
		ClientID:   co.ClientID,
		BoundBagID: co.BoundBagID,
		Lines:      lines,
		Tenders:    tenders,
		Totals: TotalsResponse{
			Subtotal:  totals.Subtotal,
			Discount:  totals.Discount,
			Freight:   totals.Freight,
			Total:     totals.Total,
			Paid:      co.Tenders.Paid(),
			Remaining: co.Tenders.Remaining(totals.Total),
		},
	}
}

func toBagSummaryResponse(bag draftbag.DraftBag) BagSummaryResponse {
	value := decimal.Zero
	for _, entry := range bag.Entries {
		value = value.Add(entry.EffectivePrice())
	}
	return BagSummaryResponse{
		BagID:      bag.ID,
		Status:     bag.Status.String(),
		EntryCount: len(bag.Entries),
		Value:      value,
		UpdatedAt:  bag.UpdatedAt,
	}
}

func toBarterBalanceResponse(balance *partner.BarterBalance) *BarterBalanceResponse {
	if balance == nil {
		return nil
	}
	return &BarterBalanceResponse{
		Saldo:      balance.Saldo,
		NextExpiry: balance.NextExpiry,
	}
}
