package checkout

import (
	"github.com/brecho/backend/internal/domain/catalog"
	"github.com/brecho/backend/internal/domain/shared"
)

// ErrDuplicateItem signals that the same physical piece was scanned twice.
// It is a policy rejection, not a defect: the cashier simply gets told the
// piece is already on the order.
var ErrDuplicateItem = shared.NewDomainError("DUPLICATE_ITEM", "Item is already in the cart")

// AdmissionKind tags the outcome of gating an item into the cart
type AdmissionKind int

const (
	// AdmissionAdmitted means the item may be appended to the cart
	AdmissionAdmitted AdmissionKind = iota
	// AdmissionAlreadyInCart means the same piece is already a cart line
	AdmissionAlreadyInCart
	// AdmissionNeedsRestock means the item is unsellable until its stock is
	// patched; the carried item drives the restock dialog
	AdmissionNeedsRestock
)

// Admission is the tagged result of the stock gate decision
type Admission struct {
	Kind AdmissionKind
	Item catalog.Item
}

// GateItem decides whether a resolved item may enter the cart. It is a pure
// decision function: the restock side effect itself lives in the application
// layer, which re-gates the patched snapshot after the remote stock update.
func GateItem(item catalog.Item, cart *Cart) Admission {
	if cart.Contains(item.ID) {
		return Admission{Kind: AdmissionAlreadyInCart, Item: item}
	}
	if !item.Sellable() {
		return Admission{Kind: AdmissionNeedsRestock, Item: item}
	}
	return Admission{Kind: AdmissionAdmitted, Item: item}
}
