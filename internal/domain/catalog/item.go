package catalog

import (
	"strconv"

	"github.com/shopspring/decimal"
)

// AvailabilityStatus represents the availability of a physical piece
type AvailabilityStatus string

const (
	AvailabilityAvailable AvailabilityStatus = "AVAILABLE"
	AvailabilitySold      AvailabilityStatus = "SOLD"
	AvailabilityReturned  AvailabilityStatus = "RETURNED"
	AvailabilityReserved  AvailabilityStatus = "RESERVED"
	AvailabilityDonated   AvailabilityStatus = "DONATED"
)

// IsValid checks if the status is a known AvailabilityStatus
func (s AvailabilityStatus) IsValid() bool {
	switch s {
	case AvailabilityAvailable, AvailabilitySold, AvailabilityReturned, AvailabilityReserved, AvailabilityDonated:
		return true
	}
	return false
}

// String returns the string representation of AvailabilityStatus
func (s AvailabilityStatus) String() string {
	return string(s)
}

// Item is a read-model snapshot of a catalog piece as returned by the
// back-office search. Consignment pieces are unique physical items, so
// StockQuantity is almost always 0 or 1; restocks can push it higher for the
// few fungible articles (new socks, tote bags).
type Item struct {
	ID               int64
	TagCode          *string // printed label code, format TAG-<digits>
	SKUCode          *string // e-commerce SKU
	ShortDescription string
	SalePrice        decimal.Decimal
	NegotiatedPrice  *decimal.Decimal // set when the piece sits in a draft bag with an overridden price
	StockQuantity    int
	Availability     AvailabilityStatus
	SizeLabel        string
	ColorLabel       string
	BrandLabel       string
}

// Sellable reports whether the piece may enter a cart
func (i *Item) Sellable() bool {
	return i.Availability == AvailabilityAvailable && i.StockQuantity > 0
}

// EffectivePrice returns the negotiated price when one exists, else the sale price
func (i *Item) EffectivePrice() decimal.Decimal {
	if i.NegotiatedPrice != nil {
		return *i.NegotiatedPrice
	}
	return i.SalePrice
}

// DisplayCode returns the code the cashier sees on the cart line:
// tag code first, then SKU, then the bare catalog id.
func (i *Item) DisplayCode() string {
	if i.TagCode != nil && *i.TagCode != "" {
		return *i.TagCode
	}
	if i.SKUCode != nil && *i.SKUCode != "" {
		return *i.SKUCode
	}
	return "#" + strconv.FormatInt(i.ID, 10)
}

// PatchRestock returns a copy of the item with the stock quantity the
// back-office confirmed and the availability flipped to AVAILABLE, matching
// the server-side side effect of the stock update. Used to admit a freshly
// restocked piece without a full catalog reload.
func (i Item) PatchRestock(newQuantity int) Item {
	i.StockQuantity = newQuantity
	i.Availability = AvailabilityAvailable
	return i
}
