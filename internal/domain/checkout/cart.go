package checkout

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/brecho/backend/internal/domain/catalog"
	"github.com/brecho/backend/internal/domain/shared"
	"github.com/brecho/backend/internal/domain/shared/valueobject"
)

// CartLine is one physical piece in the current order. Quantity is fixed at
// one: consignment pieces are unique, not fungible SKUs.
type CartLine struct {
	ItemID      int64
	DisplayCode string
	Description string
	UnitPrice   decimal.Decimal
}

// Cart is the in-memory line-item ledger for the order being assembled
type Cart struct {
	lines []CartLine
}

// NewCart creates an empty cart
func NewCart() *Cart {
	return &Cart{lines: make([]CartLine, 0)}
}

// Lines returns the cart lines in insertion order
func (c *Cart) Lines() []CartLine {
	return c.lines
}

// Len returns the number of lines
func (c *Cart) Len() int {
	return len(c.lines)
}

// IsEmpty returns true when the cart has no lines
func (c *Cart) IsEmpty() bool {
	return len(c.lines) == 0
}

// Contains reports whether the item is already in the cart
func (c *Cart) Contains(itemID int64) bool {
	for _, line := range c.lines {
		if line.ItemID == itemID {
			return true
		}
	}
	return false
}

// Add appends a line for an admitted item, pricing it at the negotiated
// price when the piece came out of a draft bag, else the label price.
// Callers must gate the item first (see GateItem); Add re-checks the
// duplicate rule as a defensive invariant.
func (c *Cart) Add(item catalog.Item) (*CartLine, error) {
	if c.Contains(item.ID) {
		return nil, ErrDuplicateItem
	}
	price := item.EffectivePrice()
	if price.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Item price cannot be negative")
	}
	line := CartLine{
		ItemID:      item.ID,
		DisplayCode: item.DisplayCode(),
		Description: item.ShortDescription,
		UnitPrice:   price,
	}
	c.lines = append(c.lines, line)
	return &c.lines[len(c.lines)-1], nil
}

// AddLine appends a pre-built line (used when resuming a draft bag whose
// entries already carry negotiated prices).
func (c *Cart) AddLine(line CartLine) error {
	if c.Contains(line.ItemID) {
		return ErrDuplicateItem
	}
	if line.UnitPrice.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Item price cannot be negative")
	}
	c.lines = append(c.lines, line)
	return nil
}

// Line returns the line at the given index
func (c *Cart) Line(index int) (*CartLine, error) {
	if index < 0 || index >= len(c.lines) {
		return nil, shared.NewDomainError("LINE_NOT_FOUND", fmt.Sprintf("No cart line at position %d", index))
	}
	return &c.lines[index], nil
}

// Remove drops the line at the given index
func (c *Cart) Remove(index int) (CartLine, error) {
	line, err := c.Line(index)
	if err != nil {
		return CartLine{}, err
	}
	removed := *line
	c.lines = append(c.lines[:index], c.lines[index+1:]...)
	return removed, nil
}

// SetPrice overrides the unit price of the line at the given index. The
// price arrives already sanitized (valueobject.ParseMoneyInput); negative
// values are rejected without mutating the line.
func (c *Cart) SetPrice(index int, price valueobject.Money) error {
	line, err := c.Line(index)
	if err != nil {
		return err
	}
	if price.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Price override cannot be negative")
	}
	line.UnitPrice = price.Amount()
	return nil
}

// Subtotal sums the unit prices of every line
func (c *Cart) Subtotal() decimal.Decimal {
	total := decimal.Zero
	for _, line := range c.lines {
		total = total.Add(line.UnitPrice)
	}
	return total
}

// Clear resets the ledger. Remote draft-bag state is untouched; the binding
// layer decides when mirroring applies.
func (c *Cart) Clear() {
	c.lines = c.lines[:0]
}
