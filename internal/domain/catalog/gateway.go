package catalog

import "context"

// Gateway is the back-office catalog surface this engine consumes.
// Search is a server-side free-text search; the resolver narrows its result.
type Gateway interface {
	// SearchItems runs a free-text search over the catalog
	SearchItems(ctx context.Context, token string) ([]Item, error)

	// UpdateQuantity patches the stock quantity of an item. The back office
	// flips availability to AVAILABLE as a side effect when quantity > 0 and
	// returns the updated snapshot.
	UpdateQuantity(ctx context.Context, itemID int64, newQuantity int) (Item, error)
}
