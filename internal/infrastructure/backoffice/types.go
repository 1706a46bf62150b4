package backoffice

import (
	"encoding/json"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"

	"github.com/brecho/backend/internal/domain/cashier"
	"github.com/brecho/backend/internal/domain/catalog"
	"github.com/brecho/backend/internal/domain/checkout"
	"github.com/brecho/backend/internal/domain/draftbag"
	"github.com/brecho/backend/internal/domain/partner"
)

func unmarshalBody(resp *resty.Response, v interface{}) error {
	return json.Unmarshal(resp.Body(), v)
}

// ---------------------------------------------------------------------------
// Catalog
// ---------------------------------------------------------------------------

type itemDTO struct {
	ID               int64            `json:"id"`
	TagCode          *string          `json:"tag_code,omitempty"`
	SKUCode          *string          `json:"sku_code,omitempty"`
	ShortDescription string           `json:"short_description"`
	SalePrice        decimal.Decimal  `json:"sale_price"`
	NegotiatedPrice  *decimal.Decimal `json:"negotiated_price,omitempty"`
	StockQuantity    int              `json:"stock_quantity"`
	Availability     string           `json:"availability"`
	SizeLabel        string           `json:"size_label,omitempty"`
	ColorLabel       string           `json:"color_label,omitempty"`
	BrandLabel       string           `json:"brand_label,omitempty"`
}

type itemSearchResponse struct {
	Items []itemDTO `json:"items"`
}

type updateStockRequest struct {
	Quantity int `json:"quantity"`
}

func (d itemDTO) toDomain() catalog.Item {
	return catalog.Item{
		ID:               d.ID,
		TagCode:          d.TagCode,
		SKUCode:          d.SKUCode,
		ShortDescription: d.ShortDescription,
		SalePrice:        d.SalePrice,
		NegotiatedPrice:  d.NegotiatedPrice,
		StockQuantity:    d.StockQuantity,
		Availability:     catalog.AvailabilityStatus(d.Availability),
		SizeLabel:        d.SizeLabel,
		ColorLabel:       d.ColorLabel,
		BrandLabel:       d.BrandLabel,
	}
}

// ---------------------------------------------------------------------------
// Draft bags
// ---------------------------------------------------------------------------

type bagEntryDTO struct {
	ItemID          int64            `json:"item_id"`
	DisplayCode     string           `json:"display_code"`
	Description     string           `json:"description"`
	SalePrice       decimal.Decimal  `json:"sale_price"`
	NegotiatedPrice *decimal.Decimal `json:"negotiated_price,omitempty"`
}

type bagDTO struct {
	ID           int64         `json:"id"`
	ClientID     int64         `json:"client_id"`
	Status       string        `json:"status"`
	Entries      []bagEntryDTO `json:"entries"`
	TrackingCode *string       `json:"tracking_code,omitempty"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

type bagListResponse struct {
	Bags []bagDTO `json:"bags"`
}

type createBagRequest struct {
	ClientID int64 `json:"client_id"`
}

type bagItemRequest struct {
	ItemID int64 `json:"item_id"`
}

type bagItemPriceRequest struct {
	Price decimal.Decimal `json:"price"`
}

type bagStatusRequest struct {
	Status       string `json:"status"`
	TrackingCode string `json:"tracking_code,omitempty"`
}

func (d bagDTO) toDomain() draftbag.DraftBag {
	entries := make([]draftbag.Entry, 0, len(d.Entries))
	for _, e := range d.Entries {
		entries = append(entries, draftbag.Entry{
			ItemID:          e.ItemID,
			DisplayCode:     e.DisplayCode,
			Description:     e.Description,
			SalePrice:       e.SalePrice,
			NegotiatedPrice: e.NegotiatedPrice,
		})
	}
	return draftbag.DraftBag{
		ID:           d.ID,
		ClientID:     d.ClientID,
		Status:       draftbag.BagStatus(d.Status),
		Entries:      entries,
		TrackingCode: d.TrackingCode,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}

// ---------------------------------------------------------------------------
// Cash sessions
// ---------------------------------------------------------------------------

type cashSessionDTO struct {
	ID             int64           `json:"id"`
	OpeningBalance decimal.Decimal `json:"opening_balance"`
	Status         string          `json:"status"`
	OpenedAt       time.Time       `json:"opened_at"`
	ClosedAt       *time.Time      `json:"closed_at,omitempty"`
}

type openSessionRequest struct {
	OpeningBalance decimal.Decimal `json:"opening_balance"`
}

type closeSessionRequest struct {
	CountedBalance decimal.Decimal `json:"counted_balance"`
}

type closingResultDTO struct {
	SessionID   int64           `json:"session_id"`
	Expected    decimal.Decimal `json:"expected"`
	Counted     decimal.Decimal `json:"counted"`
	Discrepancy decimal.Decimal `json:"discrepancy"`
}

func (d cashSessionDTO) toDomain() *cashier.CashSession {
	return &cashier.CashSession{
		ID:             d.ID,
		OpeningBalance: d.OpeningBalance,
		Status:         cashier.SessionStatus(d.Status),
		OpenedAt:       d.OpenedAt,
		ClosedAt:       d.ClosedAt,
	}
}

func (d closingResultDTO) toDomain() *cashier.ClosingResult {
	return &cashier.ClosingResult{
		SessionID:   d.SessionID,
		Expected:    d.Expected,
		Counted:     d.Counted,
		Discrepancy: d.Discrepancy,
	}
}

// ---------------------------------------------------------------------------
// Barter balance
// ---------------------------------------------------------------------------

type barterBalanceDTO struct {
	ClientID   int64           `json:"client_id"`
	Saldo      decimal.Decimal `json:"saldo"`
	NextExpiry *time.Time      `json:"next_expiry,omitempty"`
}

func (d barterBalanceDTO) toDomain() *partner.BarterBalance {
	return &partner.BarterBalance{
		ClientID:   d.ClientID,
		Saldo:      d.Saldo,
		NextExpiry: d.NextExpiry,
	}
}

// ---------------------------------------------------------------------------
// Orders
// ---------------------------------------------------------------------------

type orderItemDTO struct {
	ItemID    int64           `json:"item_id"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

type orderTenderDTO struct {
	Method       string          `json:"method"`
	Amount       decimal.Decimal `json:"amount"`
	Installments int             `json:"installments"`
}

type submitOrderRequest struct {
	ClientID      *int64           `json:"client_id,omitempty"`
	DraftBagID    *int64           `json:"draft_bag_id,omitempty"`
	Items         []orderItemDTO   `json:"items"`
	Tenders       []orderTenderDTO `json:"tenders"`
	DiscountMode  string           `json:"discount_mode"`
	DiscountValue decimal.Decimal  `json:"discount_value"`
	Freight       decimal.Decimal  `json:"freight"`
	Total         decimal.Decimal  `json:"total"`
	Channel       string           `json:"channel"`
}

type submitOrderResponse struct {
	OrderCode string `json:"order_code"`
}

func toSubmitOrderRequest(order *checkout.Order) submitOrderRequest {
	items := make([]orderItemDTO, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, orderItemDTO{ItemID: item.ItemID, UnitPrice: item.UnitPrice})
	}
	tenders := make([]orderTenderDTO, 0, len(order.Tenders))
	for _, t := range order.Tenders {
		tenders = append(tenders, orderTenderDTO{
			Method:       t.Method.String(),
			Amount:       t.Amount,
			Installments: t.Installments,
		})
	}
	return submitOrderRequest{
		ClientID:      order.ClientID,
		DraftBagID:    order.DraftBagID,
		Items:         items,
		Tenders:       tenders,
		DiscountMode:  string(order.Discount.Mode),
		DiscountValue: order.Discount.Value,
		Freight:       order.Freight,
		Total:         order.Total,
		Channel:       order.Channel,
	}
}
