package checkout

import (
	"context"

	"go.uber.org/zap"

	"github.com/brecho/backend/internal/domain/checkout"
	"github.com/brecho/backend/internal/domain/shared"
	"github.com/brecho/backend/internal/infrastructure/logger"
)

// SaleJournal subscribes to lane lifecycle events and writes the store's
// operational journal. It is the audit trail the owner reads at closing
// time; the back office keeps the authoritative order records.
type SaleJournal struct {
	logger *zap.Logger
}

// NewSaleJournal creates the journal handler
func NewSaleJournal(logger *zap.Logger) *SaleJournal {
	return &SaleJournal{logger: logger.Named("journal")}
}

// EventTypes lists the lane events the journal records
func (j *SaleJournal) EventTypes() []string {
	return []string{checkout.EventTypeSaleFinalized, checkout.EventTypeBagBound}
}

// Handle writes one journal line per event. Request id and trace context
// travel with ctx, so journal lines correlate with the request that caused
// the event.
func (j *SaleJournal) Handle(ctx context.Context, evt shared.DomainEvent) error {
	log := logger.WithLogger(ctx, j.logger)
	switch e := evt.(type) {
	case *checkout.SaleFinalizedEvent:
		fields := []zap.Field{
			zap.String("order_code", e.OrderCode),
			zap.String("total", e.Total.StringFixed(2)),
			zap.Int("items", e.ItemCount),
			zap.Int("tenders", e.TenderCount),
			zap.String("channel", e.Channel),
		}
		if e.ClientID != nil {
			fields = append(fields, zap.Int64("client_id", *e.ClientID))
		}
		if e.DraftBagID != nil {
			fields = append(fields, zap.Int64("draft_bag_id", *e.DraftBagID))
		}
		log.Info("sale recorded", fields...)

	case *checkout.BagBoundEvent:
		log.Info("draft bag bound",
			zap.Int64("draft_bag_id", e.DraftBagID),
			zap.Int64("client_id", e.ClientID),
			zap.Int("lines", e.LineCount),
		)
	}
	return nil
}

var _ shared.EventHandler = (*SaleJournal)(nil)
