package cashier

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/brecho/backend/internal/domain/shared"
)

// SessionStatus represents the status of a cash-register session
type SessionStatus string

const (
	SessionStatusOpen   SessionStatus = "OPEN"
	SessionStatusClosed SessionStatus = "CLOSED"
)

// IsValid checks if the status is a valid SessionStatus
func (s SessionStatus) IsValid() bool {
	return s == SessionStatusOpen || s == SessionStatusClosed
}

// String returns the string representation of SessionStatus
func (s SessionStatus) String() string {
	return string(s)
}

// CashSession is the day's cash-register period ("caixa"). An open session is
// the precondition for every cart or tender mutation; at most one session is
// open at a time, which the back office enforces.
type CashSession struct {
	ID             int64
	OpeningBalance decimal.Decimal
	Status         SessionStatus
	OpenedAt       time.Time
	ClosedAt       *time.Time
}

// OpenSession validates an opening balance and builds the OPEN session that
// will be sent to the back office.
func OpenSession(openingBalance decimal.Decimal) (*CashSession, error) {
	if openingBalance.IsNegative() {
		return nil, shared.NewDomainError("INVALID_OPENING_BALANCE", "Opening balance cannot be negative")
	}
	return &CashSession{
		OpeningBalance: openingBalance,
		Status:         SessionStatusOpen,
		OpenedAt:       time.Now(),
	}, nil
}

// IsOpen returns true while the session accepts sales
func (s *CashSession) IsOpen() bool {
	return s != nil && s.Status == SessionStatusOpen
}

// Close transitions the session to CLOSED. Only valid from OPEN.
func (s *CashSession) Close() error {
	if s.Status != SessionStatusOpen {
		return shared.NewDomainError("INVALID_STATE", "Cash session is not open")
	}
	now := time.Now()
	s.Status = SessionStatusClosed
	s.ClosedAt = &now
	return nil
}

// ClosingResult is what the back office reports when a session closes. The
// discrepancy (counted minus expected) is surfaced to the operator but never
// blocks closing; differences are recorded, not prevented.
type ClosingResult struct {
	SessionID   int64
	Expected    decimal.Decimal
	Counted     decimal.Decimal
	Discrepancy decimal.Decimal
}

// Balanced reports whether the drawer matched the recorded movements
func (r ClosingResult) Balanced() bool {
	return r.Discrepancy.IsZero()
}
