package handler

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/brecho/backend/internal/domain/cashier"
)

// OpenSessionRequest opens the drawer with a counted float
type OpenSessionRequest struct {
	OpeningBalance decimal.Decimal `json:"opening_balance"`
}

// CloseSessionRequest closes the drawer against a counted balance
type CloseSessionRequest struct {
	CountedBalance decimal.Decimal `json:"counted_balance"`
}

// CashSessionResponse is the drawer session state
type CashSessionResponse struct {
	ID             int64           `json:"id"`
	OpeningBalance decimal.Decimal `json:"opening_balance"`
	Status         string          `json:"status"`
	OpenedAt       time.Time       `json:"opened_at"`
	ClosedAt       *time.Time      `json:"closed_at,omitempty"`
}

// ClosingResultResponse reports the drawer reconciliation
type ClosingResultResponse struct {
	SessionID   int64           `json:"session_id"`
	Expected    decimal.Decimal `json:"expected"`
	Counted     decimal.Decimal `json:"counted"`
	Discrepancy decimal.Decimal `json:"discrepancy"`
	Balanced    bool            `json:"balanced"`
}

func toCashSessionResponse(session *cashier.CashSession) *CashSessionResponse {
	if session == nil {
		return nil
	}
	return &CashSessionResponse{
		ID:             session.ID,
		OpeningBalance: session.OpeningBalance,
		Status:         session.Status.String(),
		OpenedAt:       session.OpenedAt,
		ClosedAt:       session.ClosedAt,
	}
}

func toClosingResultResponse(result *cashier.ClosingResult) *ClosingResultResponse {
	return &ClosingResultResponse{
		SessionID:   result.SessionID,
		Expected:    result.Expected,
		Counted:     result.Counted,
		Discrepancy: result.Discrepancy,
		Balanced:    result.Balanced(),
	}
}
