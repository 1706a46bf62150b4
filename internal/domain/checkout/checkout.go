package checkout

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/brecho/backend/internal/domain/partner"
	"github.com/brecho/backend/internal/domain/shared"
)

// Checkout is one lane's order-in-progress: the explicit, explicitly-scoped
// context object holding everything the checkout screen used to keep as
// ambient state — selected client, bound draft bag, cart, tenders, discount
// and freight. Lanes are independent, so several can run concurrently.
type Checkout struct {
	shared.BaseAggregateRoot
	ClientID      *int64
	BoundBagID    *int64
	BarterBalance *partner.BarterBalance
	Cart          *Cart
	Tenders       *TenderLedger
	Discount      DiscountSpec
	Freight       decimal.Decimal
}

// NewCheckout opens an empty checkout lane
func NewCheckout() *Checkout {
	return &Checkout{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Cart:              NewCart(),
		Tenders:           NewTenderLedger(),
		Discount:          NoDiscount(),
		Freight:           decimal.Zero,
	}
}

// SelectClient attaches a client to the lane. Switching clients drops any
// bag binding and barter balance from the previous one.
func (c *Checkout) SelectClient(clientID int64, balance *partner.BarterBalance) {
	c.ClientID = &clientID
	c.BoundBagID = nil
	c.BarterBalance = balance
	c.UpdatedAt = time.Now()
}

// BindBag records the draft bag this lane mirrors its cart into
func (c *Checkout) BindBag(bagID int64) error {
	if c.ClientID == nil {
		return shared.NewDomainError("NO_CLIENT", "Select a client before binding a draft bag")
	}
	c.BoundBagID = &bagID
	c.UpdatedAt = time.Now()
	return nil
}

// UnbindBag detaches the lane from its draft bag without touching the cart
func (c *Checkout) UnbindBag() {
	c.BoundBagID = nil
	c.UpdatedAt = time.Now()
}

// IsBagBound reports whether cart mutations must be mirrored remotely first
func (c *Checkout) IsBagBound() bool {
	return c.BoundBagID != nil
}

// SetDiscount validates and applies an order-level discount
func (c *Checkout) SetDiscount(spec DiscountSpec) error {
	if err := spec.Validate(); err != nil {
		return err
	}
	c.Discount = spec
	c.UpdatedAt = time.Now()
	return nil
}

// SetFreight applies a non-negative freight amount
func (c *Checkout) SetFreight(freight decimal.Decimal) error {
	if freight.IsNegative() {
		return shared.NewDomainError("INVALID_INPUT", "Freight cannot be negative")
	}
	c.Freight = freight
	c.UpdatedAt = time.Now()
	return nil
}

// Totals computes the money summary for the current cart and adjustments
func (c *Checkout) Totals() Totals {
	return ComputeTotals(c.Cart.Subtotal(), c.Discount, c.Freight)
}

// ProposeTender runs the tender ledger decision against the current total
// and the lane's barter balance.
func (c *Checkout) ProposeTender(method TenderMethod, amount decimal.Decimal, installments int) TenderDecision {
	return c.Tenders.ProposeAdd(method, amount, installments, c.Totals().Total, c.BarterBalance)
}

// ValidateForSubmit checks the finalization preconditions locally: non-empty
// cart and tenders covering the total within Epsilon. A failure here means
// no network call may be made.
func (c *Checkout) ValidateForSubmit() error {
	if c.Cart.IsEmpty() {
		return shared.NewDomainError("EMPTY_CART", "Cannot finalize a sale without items")
	}
	totals := c.Totals()
	if !c.Tenders.CoversTotal(totals.Total) {
		missing := totals.Total.Sub(c.Tenders.Paid())
		if missing.IsPositive() {
			return shared.NewDomainError("TENDER_SHORTFALL",
				fmt.Sprintf("Payments are missing %s to cover the total", missing.StringFixed(2)))
		}
		return shared.NewDomainError("TENDER_EXCEEDS_TOTAL",
			fmt.Sprintf("Payments exceed the total by %s", missing.Abs().StringFixed(2)))
	}
	return nil
}

// BuildOrder assembles the immutable submission payload, snapshotting the
// current (possibly overridden) unit prices and the full tender list.
func (c *Checkout) BuildOrder() (*Order, error) {
	if err := c.ValidateForSubmit(); err != nil {
		return nil, err
	}
	totals := c.Totals()
	items := make([]OrderItem, 0, c.Cart.Len())
	for _, line := range c.Cart.Lines() {
		items = append(items, OrderItem{ItemID: line.ItemID, UnitPrice: line.UnitPrice})
	}
	tenders := make([]Tender, len(c.Tenders.Tenders()))
	copy(tenders, c.Tenders.Tenders())

	return &Order{
		ClientID:   c.ClientID,
		DraftBagID: c.BoundBagID,
		Items:      items,
		Tenders:    tenders,
		Discount:   c.Discount,
		Freight:    c.Freight,
		Total:      totals.Total,
		Channel:    SaleChannelPDV,
	}, nil
}

// Reset returns the lane to its empty starting state after a successful
// finalize: cart, tenders, adjustments, client and bag binding all cleared.
func (c *Checkout) Reset() {
	c.Cart.Clear()
	c.Tenders.Clear()
	c.Discount = NoDiscount()
	c.Freight = decimal.Zero
	c.ClientID = nil
	c.BoundBagID = nil
	c.BarterBalance = nil
	c.UpdatedAt = time.Now()
}
