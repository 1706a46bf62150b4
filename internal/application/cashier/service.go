package cashier

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/brecho/backend/internal/domain/cashier"
	"github.com/brecho/backend/internal/domain/shared"
)

// CashSessionService handles cash-register session operations and answers
// the open-session precondition for the checkout lanes. The current session
// is cached so the precondition check costs no network round trip; the cache
// is refreshed on open, on close, and on a cache miss.
type CashSessionService struct {
	gateway cashier.Gateway
	logger  *zap.Logger

	mu      sync.RWMutex
	current *cashier.CashSession
	fetched bool
}

// NewCashSessionService creates a new CashSessionService
func NewCashSessionService(gateway cashier.Gateway, logger *zap.Logger) *CashSessionService {
	return &CashSessionService{gateway: gateway, logger: logger}
}

// Current returns the open session, or nil when the register is closed
func (s *CashSessionService) Current(ctx context.Context) (*cashier.CashSession, error) {
	s.mu.RLock()
	if s.fetched {
		defer s.mu.RUnlock()
		return s.current, nil
	}
	s.mu.RUnlock()
	return s.refresh(ctx)
}

// Open opens a cash session with the given opening balance
func (s *CashSessionService) Open(ctx context.Context, openingBalance decimal.Decimal) (*cashier.CashSession, error) {
	if _, err := cashier.OpenSession(openingBalance); err != nil {
		return nil, err
	}

	current, err := s.Current(ctx)
	if err != nil {
		return nil, err
	}
	if current.IsOpen() {
		return nil, shared.NewDomainError("SESSION_ALREADY_OPEN", "A cash session is already open")
	}

	session, err := s.gateway.Open(ctx, openingBalance)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.current = session
	s.fetched = true
	s.mu.Unlock()

	s.logger.Info("cash session opened",
		zap.Int64("session_id", session.ID),
		zap.String("opening_balance", openingBalance.StringFixed(2)))
	return session, nil
}

// Close closes the open session with the counted drawer balance. The
// discrepancy comes back to the operator; it never blocks closing.
func (s *CashSessionService) Close(ctx context.Context, countedBalance decimal.Decimal) (*cashier.ClosingResult, error) {
	if countedBalance.IsNegative() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Counted balance cannot be negative")
	}

	current, err := s.Current(ctx)
	if err != nil {
		return nil, err
	}
	if !current.IsOpen() {
		return nil, shared.ErrSessionClosed
	}

	result, err := s.gateway.Close(ctx, countedBalance)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.current = nil
	s.fetched = true
	s.mu.Unlock()

	logFn := s.logger.Info
	if !result.Balanced() {
		logFn = s.logger.Warn
	}
	logFn("cash session closed",
		zap.Int64("session_id", result.SessionID),
		zap.String("expected", result.Expected.StringFixed(2)),
		zap.String("counted", result.Counted.StringFixed(2)),
		zap.String("discrepancy", result.Discrepancy.StringFixed(2)))
	return result, nil
}

// RequireOpen rejects with SESSION_CLOSED unless a session is open. This is
// the guard every cart and tender mutation runs through.
func (s *CashSessionService) RequireOpen(ctx context.Context) error {
	session, err := s.Current(ctx)
	if err != nil {
		return err
	}
	if !session.IsOpen() {
		return shared.ErrSessionClosed
	}
	return nil
}

// Invalidate drops the cached session so the next check refetches it.
// Useful after a remote failure leaves the cache in doubt.
func (s *CashSessionService) Invalidate() {
	s.mu.Lock()
	s.fetched = false
	s.current = nil
	s.mu.Unlock()
}

func (s *CashSessionService) refresh(ctx context.Context) (*cashier.CashSession, error) {
	session, err := s.gateway.GetOpenSession(ctx)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.current = session
	s.fetched = true
	s.mu.Unlock()
	return session, nil
}
