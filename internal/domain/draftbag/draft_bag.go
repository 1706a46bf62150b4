package draftbag

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/brecho/backend/internal/domain/shared"
)

// BagStatus represents the lifecycle stage of a draft bag ("sacolinha")
type BagStatus string

const (
	BagStatusOpen      BagStatus = "OPEN"
	BagStatusReady     BagStatus = "READY"
	BagStatusSent      BagStatus = "SENT"
	BagStatusClosed    BagStatus = "CLOSED"
	BagStatusCancelled BagStatus = "CANCELLED"
)

// IsValid checks if the status is a valid BagStatus
func (s BagStatus) IsValid() bool {
	switch s {
	case BagStatusOpen, BagStatusReady, BagStatusSent, BagStatusClosed, BagStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of BagStatus
func (s BagStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status.
// READY, SENT and CLOSED are forward-only business milestones; CANCELLED is
// only reachable from OPEN. Any non-OPEN state can be explicitly reopened.
func (s BagStatus) CanTransitionTo(target BagStatus) bool {
	if target == BagStatusOpen {
		return s != BagStatusOpen
	}
	switch s {
	case BagStatusOpen:
		return target == BagStatusReady || target == BagStatusCancelled
	case BagStatusReady:
		return target == BagStatusSent
	case BagStatusSent:
		return target == BagStatusClosed
	}
	return false
}

// Entry is one reserved piece inside a draft bag. It mirrors a cart line:
// quantity is implicitly one, and the price may have been negotiated below
// the label price while the client tried things on.
type Entry struct {
	ItemID          int64
	DisplayCode     string
	Description     string
	SalePrice       decimal.Decimal
	NegotiatedPrice *decimal.Decimal
}

// EffectivePrice returns the negotiated price when one exists, else the sale price
func (e Entry) EffectivePrice() decimal.Decimal {
	if e.NegotiatedPrice != nil {
		return *e.NegotiatedPrice
	}
	return e.SalePrice
}

// DraftBag is a server-persisted, resumable draft order tied to a client,
// used for fitting-room style pre-selection before checkout. This type is the
// local view of the remote aggregate; mutations only happen through the
// gateway, with this state machine validating transitions first.
type DraftBag struct {
	ID           int64
	ClientID     int64
	Status       BagStatus
	Entries      []Entry
	TrackingCode *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsOpen returns true while entries may be added, removed or re-priced
func (b *DraftBag) IsOpen() bool {
	return b.Status == BagStatusOpen
}

// CanModifyEntries reports whether item mutations are allowed
func (b *DraftBag) CanModifyEntries() bool {
	return b.IsOpen()
}

// MarkReady moves an OPEN bag to READY, optionally attaching a tracking code
func (b *DraftBag) MarkReady(trackingCode string) error {
	if err := b.transition(BagStatusReady); err != nil {
		return err
	}
	if trackingCode != "" {
		b.TrackingCode = &trackingCode
	}
	return nil
}

// MarkSent moves a READY bag to SENT
func (b *DraftBag) MarkSent() error {
	return b.transition(BagStatusSent)
}

// MarkClosed moves a SENT bag to CLOSED
func (b *DraftBag) MarkClosed() error {
	return b.transition(BagStatusClosed)
}

// Cancel cancels an OPEN bag
func (b *DraftBag) Cancel() error {
	return b.transition(BagStatusCancelled)
}

// Reopen brings any non-OPEN bag back to OPEN so its entries can change again
func (b *DraftBag) Reopen() error {
	return b.transition(BagStatusOpen)
}

// SetStatus applies an arbitrary valid transition; handlers use it when the
// target state comes straight from the operator.
func (b *DraftBag) SetStatus(target BagStatus, trackingCode string) error {
	if !target.IsValid() {
		return shared.NewDomainError("INVALID_INPUT", fmt.Sprintf("Unknown bag status %q", target))
	}
	if target == BagStatusReady {
		return b.MarkReady(trackingCode)
	}
	return b.transition(target)
}

func (b *DraftBag) transition(target BagStatus) error {
	if !b.Status.CanTransitionTo(target) {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot move bag from %s to %s", b.Status, target))
	}
	b.Status = target
	b.UpdatedAt = time.Now()
	return nil
}

// FindEntry returns the entry for an item id, or nil
func (b *DraftBag) FindEntry(itemID int64) *Entry {
	for idx := range b.Entries {
		if b.Entries[idx].ItemID == itemID {
			return &b.Entries[idx]
		}
	}
	return nil
}
