package checkout

import (
	"github.com/shopspring/decimal"

	"github.com/brecho/backend/internal/domain/shared"
)

// DiscountMode selects how the discount value is interpreted
type DiscountMode string

const (
	DiscountPercent  DiscountMode = "PERCENT"
	DiscountAbsolute DiscountMode = "ABSOLUTE"
)

// IsValid checks if the mode is a known DiscountMode
func (m DiscountMode) IsValid() bool {
	return m == DiscountPercent || m == DiscountAbsolute
}

// DiscountSpec is an order-level discount: a percentage of the subtotal or
// an absolute amount.
type DiscountSpec struct {
	Mode  DiscountMode
	Value decimal.Decimal
}

// NoDiscount is the zero discount
func NoDiscount() DiscountSpec {
	return DiscountSpec{Mode: DiscountAbsolute, Value: decimal.Zero}
}

// Validate checks mode and value
func (d DiscountSpec) Validate() error {
	if !d.Mode.IsValid() {
		return shared.NewDomainError("INVALID_INPUT", "Unknown discount mode")
	}
	if d.Value.IsNegative() {
		return shared.NewDomainError("INVALID_INPUT", "Discount cannot be negative")
	}
	if d.Mode == DiscountPercent && d.Value.GreaterThan(decimal.NewFromInt(100)) {
		return shared.NewDomainError("INVALID_INPUT", "Percentage discount cannot exceed 100")
	}
	return nil
}

// AmountOn resolves the discount against a subtotal
func (d DiscountSpec) AmountOn(subtotal decimal.Decimal) decimal.Decimal {
	if d.Mode == DiscountPercent {
		return subtotal.Mul(d.Value).Div(decimal.NewFromInt(100))
	}
	return d.Value
}

// Totals is the computed money summary of the order being assembled
type Totals struct {
	Subtotal decimal.Decimal
	Discount decimal.Decimal
	Freight  decimal.Decimal
	Total    decimal.Decimal
}

// ComputeTotals derives the order total: subtotal minus discount plus
// freight, floored at zero.
func ComputeTotals(subtotal decimal.Decimal, discount DiscountSpec, freight decimal.Decimal) Totals {
	discountAmount := discount.AmountOn(subtotal)
	total := subtotal.Sub(discountAmount).Add(freight)
	if total.IsNegative() {
		total = decimal.Zero
	}
	return Totals{
		Subtotal: subtotal,
		Discount: discountAmount,
		Freight:  freight,
		Total:    total,
	}
}
