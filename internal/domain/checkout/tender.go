package checkout

import (
	"github.com/shopspring/decimal"

	"github.com/brecho/backend/internal/domain/partner"
)

// TenderMethod represents how a partial payment is made
type TenderMethod string

const (
	TenderCash          TenderMethod = "CASH"
	TenderCreditCard    TenderMethod = "CREDIT_CARD"
	TenderDebitCard     TenderMethod = "DEBIT_CARD"
	TenderPix           TenderMethod = "PIX"
	TenderStoreCredit   TenderMethod = "STORE_CREDIT"
	TenderBarterVoucher TenderMethod = "BARTER_VOUCHER"
)

// IsValid checks if the method is a known TenderMethod
func (m TenderMethod) IsValid() bool {
	switch m {
	case TenderCash, TenderCreditCard, TenderDebitCard, TenderPix, TenderStoreCredit, TenderBarterVoucher:
		return true
	}
	return false
}

// String returns the string representation of TenderMethod
func (m TenderMethod) String() string {
	return string(m)
}

// Epsilon is the tolerance for comparing tender sums against the order
// total: one cent, absorbing the rounding of split payments.
var Epsilon = decimal.New(1, -2)

// Tender is one partial payment applied toward the order total
type Tender struct {
	ID           int
	Method       TenderMethod
	Amount       decimal.Decimal
	Installments int // meaningful for CREDIT_CARD only
}

// RejectionReason explains why a proposed tender was refused
type RejectionReason string

const (
	RejectInvalidAmount       RejectionReason = "INVALID_AMOUNT"
	RejectExceedsTotal        RejectionReason = "TENDER_EXCEEDS_TOTAL"
	RejectInsufficientBalance RejectionReason = "INSUFFICIENT_BALANCE"
)

// TenderDecision is the tagged result of proposing a tender
type TenderDecision struct {
	Accepted bool
	Tender   *Tender
	Reason   RejectionReason
}

func accepted(t *Tender) TenderDecision {
	return TenderDecision{Accepted: true, Tender: t}
}

func rejected(reason RejectionReason) TenderDecision {
	return TenderDecision{Reason: reason}
}

// TenderLedger holds the partial payments for the current order. The
// non-exceeding invariant (paid never passes total by more than Epsilon) is
// enforced at insertion time, never patched up afterwards.
type TenderLedger struct {
	tenders []Tender
	nextID  int
}

// NewTenderLedger creates an empty tender ledger
func NewTenderLedger() *TenderLedger {
	return &TenderLedger{tenders: make([]Tender, 0), nextID: 1}
}

// Tenders returns the recorded tenders in insertion order
func (l *TenderLedger) Tenders() []Tender {
	return l.tenders
}

// Len returns the number of tenders
func (l *TenderLedger) Len() int {
	return len(l.tenders)
}

// Paid sums all tender amounts
func (l *TenderLedger) Paid() decimal.Decimal {
	sum := decimal.Zero
	for _, t := range l.tenders {
		sum = sum.Add(t.Amount)
	}
	return sum
}

// Remaining returns max(0, total - paid); the UI uses it as the default for
// the next amount input, purely as an operator convenience.
func (l *TenderLedger) Remaining(total decimal.Decimal) decimal.Decimal {
	remaining := total.Sub(l.Paid())
	if remaining.IsNegative() {
		return decimal.Zero
	}
	return remaining
}

// ProposeAdd validates a tender against the order total and, for barter
// vouchers, the client's balance. Barter requests are capped at
// min(requested, saldo, remaining) instead of being rejected when they pass
// the balance; a barter client with no balance at all is rejected outright.
func (l *TenderLedger) ProposeAdd(method TenderMethod, amount decimal.Decimal, installments int, total decimal.Decimal, balance *partner.BarterBalance) TenderDecision {
	if amount.LessThanOrEqual(decimal.Zero) {
		return rejected(RejectInvalidAmount)
	}

	if method == TenderBarterVoucher {
		if balance == nil || !balance.Usable() {
			return rejected(RejectInsufficientBalance)
		}
		amount = balance.Cap(amount)
		if remaining := l.Remaining(total); amount.GreaterThan(remaining) {
			amount = remaining
		}
		if amount.LessThanOrEqual(decimal.Zero) {
			return rejected(RejectExceedsTotal)
		}
	} else if l.Paid().Add(amount).GreaterThan(total.Add(Epsilon)) {
		return rejected(RejectExceedsTotal)
	}

	if method != TenderCreditCard || installments < 1 {
		installments = 1
	}

	tender := Tender{
		ID:           l.nextID,
		Method:       method,
		Amount:       amount,
		Installments: installments,
	}
	l.nextID++
	l.tenders = append(l.tenders, tender)
	return accepted(&l.tenders[len(l.tenders)-1])
}

// Remove drops the tender with the given id. Removing is always allowed;
// unknown ids are a no-op returning false.
func (l *TenderLedger) Remove(tenderID int) bool {
	for idx, t := range l.tenders {
		if t.ID == tenderID {
			l.tenders = append(l.tenders[:idx], l.tenders[idx+1:]...)
			return true
		}
	}
	return false
}

// CoversTotal reports whether the paid sum matches the total within Epsilon
func (l *TenderLedger) CoversTotal(total decimal.Decimal) bool {
	return l.Paid().Sub(total).Abs().LessThanOrEqual(Epsilon)
}

// Clear resets the ledger, keeping the id sequence monotonic for the lane
func (l *TenderLedger) Clear() {
	l.tenders = l.tenders[:0]
}
