package cashier

import (
	"context"

	"github.com/shopspring/decimal"
)

// Gateway is the back-office cash-session surface. The expected closing
// balance is computed server-side from recorded cash movements.
type Gateway interface {
	// GetOpenSession returns the currently open session, or nil when none is open
	GetOpenSession(ctx context.Context) (*CashSession, error)

	// Open opens a new session with the given opening balance
	Open(ctx context.Context, openingBalance decimal.Decimal) (*CashSession, error)

	// Close closes the open session with the counted drawer balance and
	// returns the discrepancy against the expected balance
	Close(ctx context.Context, countedBalance decimal.Decimal) (*ClosingResult, error)
}
