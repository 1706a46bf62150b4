package checkout

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/brecho/backend/internal/domain/catalog"
	"github.com/brecho/backend/internal/domain/checkout"
	"github.com/brecho/backend/internal/domain/draftbag"
	"github.com/brecho/backend/internal/domain/partner"
	"github.com/brecho/backend/internal/domain/shared"
	"github.com/brecho/backend/internal/domain/shared/valueobject"
	"github.com/brecho/backend/internal/infrastructure/logger"
	"github.com/brecho/backend/internal/infrastructure/telemetry"
)

// ErrLaneNotFound signals an unknown or already closed lane id
var ErrLaneNotFound = shared.NewDomainError("LANE_NOT_FOUND", "Checkout lane not found")

// ErrDuplicateSubmit signals that a finalize with the same idempotency key
// is already in flight or recently succeeded
var ErrDuplicateSubmit = shared.NewDomainError("DUPLICATE_SUBMIT", "This sale was already submitted")

// SessionGuard gates cart and tender work on an open cash session
type SessionGuard interface {
	RequireOpen(ctx context.Context) error
}

// lane pairs a checkout context object with its serialization lock and the
// transient UI-flow state that belongs to the lane, not to the order.
type lane struct {
	mu sync.Mutex
	co *checkout.Checkout

	boundBag       *draftbag.DraftBag
	openBags       []draftbag.DraftBag
	pendingRestock *catalog.Item
	submitKey      string
}

// CheckoutService orchestrates checkout lanes. Each lane is mutated under
// its own mutex, so terminals working different lanes never block each other,
// while two requests racing the same lane are serialized.
type CheckoutService struct {
	mu    sync.RWMutex
	lanes map[uuid.UUID]*lane

	catalogGW catalog.Gateway
	bagGW     draftbag.Gateway
	balanceGW partner.BalanceGateway
	submitter checkout.SaleSubmitter
	sessions  SessionGuard

	idemStore shared.IdempotencyStore
	idemCfg   shared.IdempotencyConfig

	events shared.EventPublisher
	logger *zap.Logger
}

// SetEventPublisher injects the bus that receives lane lifecycle events.
// Without one, events are still recorded on the aggregate and dropped on
// the next drain.
func (s *CheckoutService) SetEventPublisher(publisher shared.EventPublisher) {
	s.events = publisher
}

// publishEvents drains the aggregate's pending events onto the bus
func (s *CheckoutService) publishEvents(ctx context.Context, co *checkout.Checkout) {
	events := co.GetDomainEvents()
	co.ClearDomainEvents()
	if s.events == nil || len(events) == 0 {
		return
	}
	if err := s.events.Publish(ctx, events...); err != nil {
		s.logger.Warn("failed to publish lane events", zap.Error(err))
	}
}

// NewCheckoutService creates a new CheckoutService
func NewCheckoutService(
	catalogGW catalog.Gateway,
	bagGW draftbag.Gateway,
	balanceGW partner.BalanceGateway,
	submitter checkout.SaleSubmitter,
	sessions SessionGuard,
	idemStore shared.IdempotencyStore,
	idemCfg shared.IdempotencyConfig,
	logger *zap.Logger,
) *CheckoutService {
	return &CheckoutService{
		lanes:     make(map[uuid.UUID]*lane),
		catalogGW: catalogGW,
		bagGW:     bagGW,
		balanceGW: balanceGW,
		submitter: submitter,
		sessions:  sessions,
		idemStore: idemStore,
		idemCfg:   idemCfg,
		logger:    logger,
	}
}

// CreateLane opens a new empty checkout lane
func (s *CheckoutService) CreateLane() *LaneResponse {
	l := &lane{co: checkout.NewCheckout()}
	s.mu.Lock()
	s.lanes[l.co.ID] = l
	s.mu.Unlock()
	s.logger.Info("checkout lane opened", zap.String("lane_id", l.co.ID.String()))
	return toLaneResponse(l.co)
}

// GetLane returns the current state of a lane
func (s *CheckoutService) GetLane(laneID uuid.UUID) (*LaneResponse, error) {
	l, err := s.lane(laneID)
	if err != nil {
		return nil, err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return toLaneResponse(l.co), nil
}

// CloseLane discards a lane and whatever order it was assembling. The bound
// draft bag, if any, stays untouched on the server.
func (s *CheckoutService) CloseLane(laneID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.lanes[laneID]; !ok {
		return ErrLaneNotFound
	}
	delete(s.lanes, laneID)
	s.logger.Info("checkout lane closed", zap.String("lane_id", laneID.String()))
	return nil
}

// SelectClient attaches a client to the lane and fetches what the operator
// needs next: the client's open draft bags and barter balance.
func (s *CheckoutService) SelectClient(ctx context.Context, laneID uuid.UUID, clientID int64) (*ClientSelectionResponse, error) {
	l, err := s.lane(laneID)
	if err != nil {
		return nil, err
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	openBags, err := s.bagGW.ListOpenForClient(ctx, clientID)
	if err != nil {
		return nil, err
	}
	balance, err := s.balanceGW.GetBalance(ctx, clientID)
	if err != nil {
		return nil, err
	}

	l.co.SelectClient(clientID, balance)
	l.boundBag = nil
	l.openBags = openBags

	bags := make([]BagSummaryResponse, 0, len(openBags))
	for _, bag := range openBags {
		bags = append(bags, toBagSummaryResponse(bag))
	}
	return &ClientSelectionResponse{
		Lane:          toLaneResponse(l.co),
		OpenBags:      bags,
		BarterBalance: toBarterBalanceResponse(balance),
	}, nil
}

// BindBag resolves the draft-bag question for the lane: resume an open bag
// (its entries become the cart, negotiated prices included), start a new
// empty bag, or proceed unbound.
func (s *CheckoutService) BindBag(ctx context.Context, laneID uuid.UUID, req BindBagRequest) (*LaneResponse, error) {
	l, err := s.lane(laneID)
	if err != nil {
		return nil, err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	ctx, _ = logger.WithLaneID(ctx, s.logger, laneID.String())

	if err := s.sessions.RequireOpen(ctx); err != nil {
		return nil, err
	}
	if l.co.ClientID == nil {
		return nil, shared.NewDomainError("NO_CLIENT", "Select a client before binding a draft bag")
	}

	switch req.Action {
	case BagActionNone:
		l.boundBag = nil
		l.co.UnbindBag()

	case BagActionNew:
		bag, err := s.bagGW.Create(ctx, *l.co.ClientID)
		if err != nil {
			return nil, err
		}
		l.boundBag = bag
		if err := l.co.BindBag(bag.ID); err != nil {
			return nil, err
		}

	case BagActionResume:
		bag := l.findOpenBag(req.BagID)
		if bag == nil {
			return nil, shared.NewDomainError("BAG_NOT_FOUND", "Draft bag is not open for this client")
		}
		// stage the resumed cart off to the side: a malformed bag (duplicate
		// item ids) must leave the lane exactly as it was
		resumed := checkout.NewCart()
		for _, entry := range bag.Entries {
			line := checkout.CartLine{
				ItemID:      entry.ItemID,
				DisplayCode: entry.DisplayCode,
				Description: entry.Description,
				UnitPrice:   entry.EffectivePrice(),
			}
			if err := resumed.AddLine(line); err != nil {
				return nil, err
			}
		}
		if err := l.co.BindBag(bag.ID); err != nil {
			return nil, err
		}
		l.co.Cart = resumed
		l.co.Tenders.Clear()
		l.boundBag = bag
		l.co.AddDomainEvent(checkout.NewBagBoundEvent(l.co.ID, bag.ID, bag.ClientID, len(bag.Entries)))

	default:
		return nil, shared.NewDomainError("INVALID_INPUT", fmt.Sprintf("Unknown bag action %q", req.Action))
	}

	s.publishEvents(ctx, l.co)
	return toLaneResponse(l.co), nil
}

// SetBagStatus transitions the bound bag's lifecycle. The local state
// machine validates the transition before the remote call is made.
func (s *CheckoutService) SetBagStatus(ctx context.Context, laneID uuid.UUID, req SetBagStatusRequest) (*BagSummaryResponse, error) {
	l, err := s.lane(laneID)
	if err != nil {
		return nil, err
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.boundBag == nil {
		return nil, shared.NewDomainError("NO_BAG", "Lane is not bound to a draft bag")
	}

	target := draftbag.BagStatus(req.Status)
	preview := *l.boundBag
	if err := preview.SetStatus(target, req.TrackingCode); err != nil {
		return nil, err
	}

	updated, err := s.bagGW.SetStatus(ctx, l.boundBag.ID, target, req.TrackingCode)
	if err != nil {
		return nil, err
	}
	l.boundBag = updated
	if !updated.IsOpen() {
		l.co.UnbindBag()
	}
	resp := toBagSummaryResponse(*updated)
	return &resp, nil
}

// AddItem resolves a scanned token against the catalog and gates the
// resulting item into the cart. An unsellable item is not an error: the
// caller gets a NEEDS_RESTOCK reply carrying the restock prompt.
func (s *CheckoutService) AddItem(ctx context.Context, laneID uuid.UUID, token string) (*AddItemResponse, error) {
	l, err := s.lane(laneID)
	if err != nil {
		return nil, err
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := s.sessions.RequireOpen(ctx); err != nil {
		return nil, err
	}

	candidates, err := s.catalogGW.SearchItems(ctx, catalog.NormalizeToken(token))
	if err != nil {
		return nil, err
	}
	item, err := catalog.Resolve(token, candidates)
	if err != nil {
		return nil, err
	}

	admission := checkout.GateItem(item, l.co.Cart)
	switch admission.Kind {
	case checkout.AdmissionAlreadyInCart:
		return nil, checkout.ErrDuplicateItem

	case checkout.AdmissionNeedsRestock:
		l.pendingRestock = &admission.Item
		return &AddItemResponse{
			Status: AddItemNeedsRestock,
			Restock: &RestockPromptResponse{
				ItemID:          admission.Item.ID,
				DisplayCode:     admission.Item.DisplayCode(),
				Description:     admission.Item.ShortDescription,
				CurrentQuantity: admission.Item.StockQuantity,
				Availability:    admission.Item.Availability.String(),
			},
			Lane: toLaneResponse(l.co),
		}, nil
	}

	line, err := s.appendItem(ctx, l, admission.Item)
	if err != nil {
		return nil, err
	}
	resp := toCartLineResponse(l.co.Cart.Len()-1, *line)
	return &AddItemResponse{Status: AddItemAdded, Line: &resp, Lane: toLaneResponse(l.co)}, nil
}

// Restock confirms the pending restock dialog: the back office gets the new
// absolute quantity, and the patched snapshot is re-gated into the cart
// without a fresh catalog search.
func (s *CheckoutService) Restock(ctx context.Context, laneID uuid.UUID, req RestockRequest) (*AddItemResponse, error) {
	l, err := s.lane(laneID)
	if err != nil {
		return nil, err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	ctx, log := logger.WithLaneID(ctx, s.logger, laneID.String())

	if err := s.sessions.RequireOpen(ctx); err != nil {
		return nil, err
	}
	if l.pendingRestock == nil || l.pendingRestock.ID != req.ItemID {
		return nil, shared.NewDomainError("NO_PENDING_RESTOCK", "No restock pending for this item on the lane")
	}
	if req.Quantity <= 0 {
		return nil, shared.NewDomainError("INVALID_INPUT", "Restock quantity must be positive")
	}

	newQuantity := l.pendingRestock.StockQuantity + req.Quantity
	updated, err := s.catalogGW.UpdateQuantity(ctx, req.ItemID, newQuantity)
	if err != nil {
		return nil, err
	}
	// trust the local patch even if the remote echo lags behind
	patched := updated.PatchRestock(newQuantity)

	admission := checkout.GateItem(patched, l.co.Cart)
	if admission.Kind != checkout.AdmissionAdmitted {
		return nil, shared.NewDomainError("INVALID_STATE", "Item is still not sellable after restock")
	}
	line, err := s.appendItem(ctx, l, patched)
	if err != nil {
		return nil, err
	}
	l.pendingRestock = nil

	log.Info("item restocked at the lane",
		zap.Int64("item_id", patched.ID),
		zap.Int("new_quantity", newQuantity))

	resp := toCartLineResponse(l.co.Cart.Len()-1, *line)
	return &AddItemResponse{Status: AddItemAdded, Line: &resp, Lane: toLaneResponse(l.co)}, nil
}

// RemoveItem drops a cart line by position
func (s *CheckoutService) RemoveItem(ctx context.Context, laneID uuid.UUID, index int) (*LaneResponse, error) {
	l, err := s.lane(laneID)
	if err != nil {
		return nil, err
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := s.sessions.RequireOpen(ctx); err != nil {
		return nil, err
	}
	line, err := l.co.Cart.Line(index)
	if err != nil {
		return nil, err
	}
	if l.co.IsBagBound() {
		if err := s.bagGW.RemoveItem(ctx, *l.co.BoundBagID, line.ItemID); err != nil {
			return nil, err
		}
	}
	if _, err := l.co.Cart.Remove(index); err != nil {
		return nil, err
	}
	return toLaneResponse(l.co), nil
}

// SetItemPrice overrides a line price with raw operator input such as
// "R$ 12,50". The input is sanitized first; nothing is mutated on bad input.
func (s *CheckoutService) SetItemPrice(ctx context.Context, laneID uuid.UUID, index int, rawPrice string) (*LaneResponse, error) {
	l, err := s.lane(laneID)
	if err != nil {
		return nil, err
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := s.sessions.RequireOpen(ctx); err != nil {
		return nil, err
	}
	price, err := valueobject.ParseMoneyInput(rawPrice)
	if err != nil {
		return nil, err
	}
	if price.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Price override cannot be negative")
	}
	line, err := l.co.Cart.Line(index)
	if err != nil {
		return nil, err
	}
	if l.co.IsBagBound() {
		if err := s.bagGW.SetItemPrice(ctx, *l.co.BoundBagID, line.ItemID, price.Amount()); err != nil {
			return nil, err
		}
	}
	if err := l.co.Cart.SetPrice(index, price); err != nil {
		return nil, err
	}
	return toLaneResponse(l.co), nil
}

// SetDiscount applies an order-level discount to the lane
func (s *CheckoutService) SetDiscount(ctx context.Context, laneID uuid.UUID, req SetDiscountRequest) (*LaneResponse, error) {
	l, err := s.lane(laneID)
	if err != nil {
		return nil, err
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := s.sessions.RequireOpen(ctx); err != nil {
		return nil, err
	}
	spec := checkout.DiscountSpec{Mode: checkout.DiscountMode(req.Mode), Value: req.Value}
	if err := l.co.SetDiscount(spec); err != nil {
		return nil, err
	}
	return toLaneResponse(l.co), nil
}

// SetFreight applies a freight amount to the lane
func (s *CheckoutService) SetFreight(ctx context.Context, laneID uuid.UUID, freight decimal.Decimal) (*LaneResponse, error) {
	l, err := s.lane(laneID)
	if err != nil {
		return nil, err
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := s.sessions.RequireOpen(ctx); err != nil {
		return nil, err
	}
	if err := l.co.SetFreight(freight); err != nil {
		return nil, err
	}
	return toLaneResponse(l.co), nil
}

// AddTender proposes a partial payment. A rejection is a normal decision,
// not a transport error: the reason comes back in the response body.
func (s *CheckoutService) AddTender(ctx context.Context, laneID uuid.UUID, req AddTenderRequest) (*TenderDecisionResponse, error) {
	l, err := s.lane(laneID)
	if err != nil {
		return nil, err
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := s.sessions.RequireOpen(ctx); err != nil {
		return nil, err
	}
	method := checkout.TenderMethod(req.Method)
	if !method.IsValid() {
		return nil, shared.NewDomainError("INVALID_INPUT", fmt.Sprintf("Unknown tender method %q", req.Method))
	}

	decision := l.co.ProposeTender(method, req.Amount, req.Installments)
	resp := &TenderDecisionResponse{Accepted: decision.Accepted, Lane: toLaneResponse(l.co)}
	if decision.Accepted {
		t := toTenderResponse(*decision.Tender)
		resp.Tender = &t
	} else {
		resp.Reason = string(decision.Reason)
	}
	return resp, nil
}

// RemoveTender drops a recorded tender by id
func (s *CheckoutService) RemoveTender(ctx context.Context, laneID uuid.UUID, tenderID int) (*LaneResponse, error) {
	l, err := s.lane(laneID)
	if err != nil {
		return nil, err
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := s.sessions.RequireOpen(ctx); err != nil {
		return nil, err
	}
	if !l.co.Tenders.Remove(tenderID) {
		return nil, shared.NewDomainError("TENDER_NOT_FOUND", "No tender with this id on the lane")
	}
	return toLaneResponse(l.co), nil
}

// Finalize validates the lane locally, claims the idempotency key and
// submits the order. Local validation failures make no network call at all;
// a failed submit releases the key and leaves every piece of lane state in
// place so the operator can retry.
func (s *CheckoutService) Finalize(ctx context.Context, laneID uuid.UUID, idempotencyKey string) (*FinalizeResponse, error) {
	l, err := s.lane(laneID)
	if err != nil {
		return nil, err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	ctx, log := logger.WithLaneID(ctx, s.logger, laneID.String())

	ctx, span := telemetry.StartSpan(ctx, "checkout.finalize",
		telemetry.WithAttribute("lane_id", laneID.String()))
	defer span.End()

	if err := s.sessions.RequireOpen(ctx); err != nil {
		return nil, err
	}
	order, err := l.co.BuildOrder()
	if err != nil {
		return nil, err
	}

	key := idempotencyKey
	if key == "" {
		if l.submitKey == "" {
			l.submitKey = uuid.NewString()
		}
		key = l.submitKey
	}
	if s.idemCfg.Enabled && s.idemStore != nil {
		claimed, err := s.idemStore.Claim(ctx, "finalize:"+key, s.idemCfg.TTL)
		if err != nil {
			return nil, err
		}
		if !claimed {
			return nil, ErrDuplicateSubmit
		}
	}

	orderCode, err := s.submitter.SubmitSale(ctx, order)
	if err != nil {
		if s.idemCfg.Enabled && s.idemStore != nil {
			if relErr := s.idemStore.Release(ctx, "finalize:"+key); relErr != nil {
				log.Warn("failed to release idempotency key after failed submit",
					zap.String("key", key), zap.Error(relErr))
			}
		}
		return nil, err
	}

	total := order.Total
	telemetry.AddEvent(span, "sale.submitted", "order_code", orderCode)
	l.co.AddDomainEvent(checkout.NewSaleFinalizedEvent(l.co.ID, orderCode, order))
	log.Info("sale finalized",
		zap.String("order_code", orderCode),
		zap.String("total", total.StringFixed(2)),
		zap.Int("items", len(order.Items)),
		zap.Int("tenders", len(order.Tenders)))
	s.publishEvents(ctx, l.co)

	l.co.Reset()
	l.boundBag = nil
	l.openBags = nil
	l.pendingRestock = nil
	l.submitKey = ""

	return &FinalizeResponse{OrderCode: orderCode, Total: total, Lane: toLaneResponse(l.co)}, nil
}

// appendItem mirrors the addition into the bound draft bag, when there is
// one, before touching the cart. A failed mirror call leaves the cart alone.
func (s *CheckoutService) appendItem(ctx context.Context, l *lane, item catalog.Item) (*checkout.CartLine, error) {
	if l.co.IsBagBound() {
		if err := s.bagGW.AddItem(ctx, *l.co.BoundBagID, item.ID); err != nil {
			return nil, err
		}
	}
	return l.co.Cart.Add(item)
}

func (s *CheckoutService) lane(laneID uuid.UUID) (*lane, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	l, ok := s.lanes[laneID]
	if !ok {
		return nil, ErrLaneNotFound
	}
	return l, nil
}

func (l *lane) findOpenBag(bagID int64) *draftbag.DraftBag {
	for idx := range l.openBags {
		if l.openBags[idx].ID == bagID && l.openBags[idx].IsOpen() {
			return &l.openBags[idx]
		}
	}
	return nil
}
