package checkout

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brecho/backend/internal/domain/partner"
)

func dec(v float64) decimal.Decimal { return decimal.NewFromFloat(v) }

func balanceOf(saldo float64) *partner.BarterBalance {
	return &partner.BarterBalance{ClientID: 7, Saldo: dec(saldo)}
}

func TestTenderLedger_ProposeAdd(t *testing.T) {
	total := dec(100)

	t.Run("rejects zero and negative amounts", func(t *testing.T) {
		ledger := NewTenderLedger()
		decision := ledger.ProposeAdd(TenderCash, decimal.Zero, 1, total, nil)
		assert.False(t, decision.Accepted)
		assert.Equal(t, RejectInvalidAmount, decision.Reason)

		decision = ledger.ProposeAdd(TenderCash, dec(-5), 1, total, nil)
		assert.False(t, decision.Accepted)
		assert.Equal(t, RejectInvalidAmount, decision.Reason)
		assert.Equal(t, 0, ledger.Len())
	})

	t.Run("rejects tender pushing paid past total plus epsilon", func(t *testing.T) {
		ledger := NewTenderLedger()
		decision := ledger.ProposeAdd(TenderCash, dec(60), 1, total, nil)
		require.True(t, decision.Accepted)

		decision = ledger.ProposeAdd(TenderPix, dec(40.02), 1, total, nil)
		assert.False(t, decision.Accepted)
		assert.Equal(t, RejectExceedsTotal, decision.Reason)

		// one cent over is still within tolerance
		decision = ledger.ProposeAdd(TenderPix, dec(40.01), 1, total, nil)
		assert.True(t, decision.Accepted)
	})

	t.Run("installments only survive on credit card", func(t *testing.T) {
		ledger := NewTenderLedger()
		decision := ledger.ProposeAdd(TenderCreditCard, dec(30), 3, total, nil)
		require.True(t, decision.Accepted)
		assert.Equal(t, 3, decision.Tender.Installments)

		decision = ledger.ProposeAdd(TenderPix, dec(30), 3, total, nil)
		require.True(t, decision.Accepted)
		assert.Equal(t, 1, decision.Tender.Installments)

		decision = ledger.ProposeAdd(TenderCreditCard, dec(30), 0, total, nil)
		require.True(t, decision.Accepted)
		assert.Equal(t, 1, decision.Tender.Installments)
	})

	t.Run("ids are sequential and survive Clear", func(t *testing.T) {
		ledger := NewTenderLedger()
		first := ledger.ProposeAdd(TenderCash, dec(10), 1, total, nil)
		second := ledger.ProposeAdd(TenderCash, dec(10), 1, total, nil)
		require.True(t, first.Accepted)
		require.True(t, second.Accepted)
		assert.Equal(t, 1, first.Tender.ID)
		assert.Equal(t, 2, second.Tender.ID)

		ledger.Clear()
		third := ledger.ProposeAdd(TenderCash, dec(10), 1, total, nil)
		require.True(t, third.Accepted)
		assert.Equal(t, 3, third.Tender.ID)
	})
}

func TestTenderLedger_Barter(t *testing.T) {
	total := dec(100)

	t.Run("no balance is rejected outright", func(t *testing.T) {
		ledger := NewTenderLedger()
		decision := ledger.ProposeAdd(TenderBarterVoucher, dec(50), 1, total, nil)
		assert.False(t, decision.Accepted)
		assert.Equal(t, RejectInsufficientBalance, decision.Reason)

		decision = ledger.ProposeAdd(TenderBarterVoucher, dec(50), 1, total, balanceOf(0))
		assert.False(t, decision.Accepted)
		assert.Equal(t, RejectInsufficientBalance, decision.Reason)
	})

	t.Run("accepted amount is min of requested, saldo, remaining", func(t *testing.T) {
		tests := []struct {
			name      string
			requested float64
			saldo     float64
			paid      float64
			want      float64
		}{
			{"requested below both caps", 30, 80, 0, 30},
			{"capped by saldo", 90, 40, 0, 40},
			{"capped by remaining total", 90, 200, 50, 50},
			{"capped by both, saldo tighter", 90, 20, 50, 20},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				ledger := NewTenderLedger()
				if tt.paid > 0 {
					pre := ledger.ProposeAdd(TenderCash, dec(tt.paid), 1, total, nil)
					require.True(t, pre.Accepted)
				}
				decision := ledger.ProposeAdd(TenderBarterVoucher, dec(tt.requested), 1, total, balanceOf(tt.saldo))
				require.True(t, decision.Accepted)
				assert.True(t, decision.Tender.Amount.Equal(dec(tt.want)),
					"got %s want %v", decision.Tender.Amount, tt.want)
			})
		}
	})

	t.Run("barter against fully paid order is rejected", func(t *testing.T) {
		ledger := NewTenderLedger()
		pre := ledger.ProposeAdd(TenderCash, dec(100), 1, total, nil)
		require.True(t, pre.Accepted)

		decision := ledger.ProposeAdd(TenderBarterVoucher, dec(10), 1, total, balanceOf(50))
		assert.False(t, decision.Accepted)
		assert.Equal(t, RejectExceedsTotal, decision.Reason)
	})
}

func TestTenderLedger_RemoveAndInvariant(t *testing.T) {
	total := dec(100)
	ledger := NewTenderLedger()

	first := ledger.ProposeAdd(TenderCash, dec(60), 1, total, nil)
	second := ledger.ProposeAdd(TenderPix, dec(40), 1, total, nil)
	require.True(t, first.Accepted)
	require.True(t, second.Accepted)
	assert.True(t, ledger.CoversTotal(total))

	// paid never exceeds total+epsilon at any point
	assert.True(t, ledger.Paid().LessThanOrEqual(total.Add(Epsilon)))

	assert.True(t, ledger.Remove(first.Tender.ID))
	assert.False(t, ledger.Remove(first.Tender.ID))
	assert.True(t, ledger.Paid().Equal(dec(40)))
	assert.False(t, ledger.CoversTotal(total))
	assert.True(t, ledger.Remaining(total).Equal(dec(60)))

	// re-adding the removed amount restores coverage
	readd := ledger.ProposeAdd(TenderCash, dec(60), 1, total, nil)
	require.True(t, readd.Accepted)
	assert.True(t, ledger.CoversTotal(total))
}
