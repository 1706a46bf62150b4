package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	appcashier "github.com/brecho/backend/internal/application/cashier"
	appcheckout "github.com/brecho/backend/internal/application/checkout"
	"github.com/brecho/backend/internal/domain/cashier"
	"github.com/brecho/backend/internal/domain/catalog"
	"github.com/brecho/backend/internal/domain/checkout"
	"github.com/brecho/backend/internal/domain/draftbag"
	"github.com/brecho/backend/internal/domain/partner"
	"github.com/brecho/backend/internal/domain/shared"
	"github.com/brecho/backend/internal/infrastructure/cache"
	"github.com/brecho/backend/internal/interfaces/http/middleware"
	"github.com/brecho/backend/internal/interfaces/http/router"
)

func init() {
	gin.SetMode(gin.TestMode)
	middleware.SetupValidator()
}

// ----------------------------------------------------------------------------
// Gateway stubs
// ----------------------------------------------------------------------------

type stubCatalog struct {
	items []catalog.Item
}

func (s *stubCatalog) SearchItems(_ context.Context, token string) ([]catalog.Item, error) {
	var hits []catalog.Item
	for _, item := range s.items {
		if item.TagCode != nil && *item.TagCode == token {
			hits = append(hits, item)
		}
	}
	return hits, nil
}

func (s *stubCatalog) UpdateQuantity(_ context.Context, itemID int64, newQuantity int) (catalog.Item, error) {
	for _, item := range s.items {
		if item.ID == itemID {
			item.StockQuantity = newQuantity
			return item, nil
		}
	}
	return catalog.Item{}, shared.ErrNotFound
}

type stubBags struct{}

func (s *stubBags) ListOpenForClient(context.Context, int64) ([]draftbag.DraftBag, error) {
	return nil, nil
}
func (s *stubBags) Create(_ context.Context, clientID int64) (*draftbag.DraftBag, error) {
	return &draftbag.DraftBag{ID: 100, ClientID: clientID, Status: draftbag.BagStatusOpen}, nil
}
func (s *stubBags) AddItem(context.Context, int64, int64) error    { return nil }
func (s *stubBags) RemoveItem(context.Context, int64, int64) error { return nil }
func (s *stubBags) SetItemPrice(context.Context, int64, int64, decimal.Decimal) error {
	return nil
}
func (s *stubBags) SetStatus(_ context.Context, bagID int64, status draftbag.BagStatus, _ string) (*draftbag.DraftBag, error) {
	return &draftbag.DraftBag{ID: bagID, Status: status}, nil
}

type stubBalances struct{}

func (s *stubBalances) GetBalance(_ context.Context, clientID int64) (*partner.BarterBalance, error) {
	return &partner.BarterBalance{ClientID: clientID, Saldo: decimal.Zero}, nil
}

type stubSubmitter struct{ calls int }

func (s *stubSubmitter) SubmitSale(context.Context, *checkout.Order) (string, error) {
	s.calls++
	return "PDV-0001", nil
}

type stubRegisterGateway struct{ open bool }

func (g stubRegisterGateway) GetOpenSession(context.Context) (*cashier.CashSession, error) {
	if !g.open {
		return nil, nil
	}
	return &cashier.CashSession{ID: 1, Status: cashier.SessionStatusOpen}, nil
}
func (g stubRegisterGateway) Open(_ context.Context, balance decimal.Decimal) (*cashier.CashSession, error) {
	return &cashier.CashSession{ID: 1, OpeningBalance: balance, Status: cashier.SessionStatusOpen}, nil
}
func (g stubRegisterGateway) Close(context.Context, decimal.Decimal) (*cashier.ClosingResult, error) {
	return &cashier.ClosingResult{SessionID: 1}, nil
}

// ----------------------------------------------------------------------------
// Fixture
// ----------------------------------------------------------------------------

type webFixture struct {
	engine    *gin.Engine
	submitter *stubSubmitter
}

func newWebFixture(t *testing.T, sessionOpen bool) *webFixture {
	t.Helper()

	tag := "TAG-0042"
	catalogStub := &stubCatalog{items: []catalog.Item{{
		ID:               42,
		TagCode:          &tag,
		ShortDescription: "Vestido floral",
		SalePrice:        decimal.RequireFromString("40.00"),
		StockQuantity:    1,
		Availability:     catalog.AvailabilityAvailable,
	}}}
	submitter := &stubSubmitter{}

	store := cache.NewInMemoryIdempotencyStore()
	t.Cleanup(func() { _ = store.Close() })

	sessions := appcashier.NewCashSessionService(stubRegisterGateway{open: sessionOpen}, zap.NewNop())
	service := appcheckout.NewCheckoutService(
		catalogStub, &stubBags{}, &stubBalances{}, submitter,
		sessions, store, shared.DefaultIdempotencyConfig(), zap.NewNop(),
	)

	engine := gin.New()
	router.NewRouter(engine).
		Register(NewLaneHandler(service)).
		Register(NewCashSessionHandler(sessions)).
		Setup()

	return &webFixture{engine: engine, submitter: submitter}
}

func (f *webFixture) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	f.engine.ServeHTTP(w, req)
	return w
}

func (f *webFixture) createLane(t *testing.T) string {
	t.Helper()
	w := f.do(t, http.MethodPost, "/api/v1/lanes", "")
	require.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		Data struct {
			LaneID string `json:"lane_id"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Data.LaneID)
	return resp.Data.LaneID
}

// ----------------------------------------------------------------------------
// Tests
// ----------------------------------------------------------------------------

func TestLaneLifecycleOverHTTP(t *testing.T) {
	f := newWebFixture(t, true)
	laneID := f.createLane(t)

	w := f.do(t, http.MethodGet, "/api/v1/lanes/"+laneID, "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = f.do(t, http.MethodDelete, "/api/v1/lanes/"+laneID, "")
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = f.do(t, http.MethodGet, "/api/v1/lanes/"+laneID, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "LANE_NOT_FOUND")
}

func TestScanThroughCheckout(t *testing.T) {
	f := newWebFixture(t, true)
	laneID := f.createLane(t)

	w := f.do(t, http.MethodPost, "/api/v1/lanes/"+laneID+"/items", `{"token":"TAG-0042"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ADDED"`)

	// same piece twice is a conflict
	w = f.do(t, http.MethodPost, "/api/v1/lanes/"+laneID+"/items", `{"token":"TAG-0042"}`)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "DUPLICATE_ITEM")

	w = f.do(t, http.MethodPost, "/api/v1/lanes/"+laneID+"/tenders",
		`{"method":"PIX","amount":"40.00"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"accepted":true`)

	w = f.do(t, http.MethodPost, "/api/v1/lanes/"+laneID+"/finalize", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "PDV-0001")
	assert.Equal(t, 1, f.submitter.calls)
}

func TestClosedSessionBlocksScanning(t *testing.T) {
	f := newWebFixture(t, false)
	laneID := f.createLane(t)

	w := f.do(t, http.MethodPost, "/api/v1/lanes/"+laneID+"/items", `{"token":"TAG-0042"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "SESSION_CLOSED")
}

func TestFinalizeEmptyCart(t *testing.T) {
	f := newWebFixture(t, true)
	laneID := f.createLane(t)

	w := f.do(t, http.MethodPost, "/api/v1/lanes/"+laneID+"/finalize", "")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "EMPTY_CART")
	assert.Equal(t, 0, f.submitter.calls)
}

func TestInvalidRequestsAreRejected(t *testing.T) {
	f := newWebFixture(t, true)
	laneID := f.createLane(t)

	tests := []struct {
		name string
		do   func() *httptest.ResponseRecorder
		want int
		body string
	}{
		{
			name: "malformed lane id",
			do: func() *httptest.ResponseRecorder {
				return f.do(t, http.MethodGet, "/api/v1/lanes/not-a-uuid", "")
			},
			want: http.StatusBadRequest,
			body: "Invalid lane id",
		},
		{
			name: "unknown tender method fails validation",
			do: func() *httptest.ResponseRecorder {
				return f.do(t, http.MethodPost,
					fmt.Sprintf("/api/v1/lanes/%s/tenders", laneID),
					`{"method":"CHEQUE","amount":"10.00"}`)
			},
			want: http.StatusBadRequest,
			body: "VALIDATION_ERROR",
		},
		{
			name: "bag action outside the enum fails validation",
			do: func() *httptest.ResponseRecorder {
				return f.do(t, http.MethodPost,
					fmt.Sprintf("/api/v1/lanes/%s/bag", laneID),
					`{"action":"maybe"}`)
			},
			want: http.StatusBadRequest,
			body: "VALIDATION_ERROR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := tt.do()
			assert.Equal(t, tt.want, w.Code)
			assert.Contains(t, w.Body.String(), tt.body)
		})
	}
}

func TestCashSessionOverHTTP(t *testing.T) {
	f := newWebFixture(t, false)

	w := f.do(t, http.MethodPost, "/api/v1/cash-session/open", `{"opening_balance":"200.00"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"OPEN"`)

	w = f.do(t, http.MethodGet, "/api/v1/cash-session", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = f.do(t, http.MethodPost, "/api/v1/cash-session/close", `{"counted_balance":"200.00"}`)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestHealthz(t *testing.T) {
	f := newWebFixture(t, true)
	w := f.do(t, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, w.Code)
}
