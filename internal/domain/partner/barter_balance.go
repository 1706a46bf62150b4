package partner

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// BarterBalance is a client's store-credit balance from consigned pieces that
// sold ("saldo de permuta"). Read-only from the checkout engine's
// perspective; it caps how much a BARTER_VOUCHER tender may cover.
type BarterBalance struct {
	ClientID   int64
	Saldo      decimal.Decimal
	NextExpiry *time.Time
}

// Usable reports whether any balance is available to spend
func (b BarterBalance) Usable() bool {
	return b.Saldo.IsPositive()
}

// Cap limits a requested amount to the available balance
func (b BarterBalance) Cap(requested decimal.Decimal) decimal.Decimal {
	if requested.GreaterThan(b.Saldo) {
		return b.Saldo
	}
	return requested
}

// BalanceGateway reads barter balances from the back office
type BalanceGateway interface {
	GetBalance(ctx context.Context, clientID int64) (*BarterBalance, error)
}
