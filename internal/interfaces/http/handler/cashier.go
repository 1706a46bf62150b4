package handler

import (
	"github.com/gin-gonic/gin"

	appcashier "github.com/brecho/backend/internal/application/cashier"
)

// CashSessionHandler exposes the drawer session operations
type CashSessionHandler struct {
	BaseHandler
	service *appcashier.CashSessionService
}

// NewCashSessionHandler creates a cash session handler
func NewCashSessionHandler(service *appcashier.CashSessionService) *CashSessionHandler {
	return &CashSessionHandler{service: service}
}

// RegisterRoutes registers the cash-session routes
func (h *CashSessionHandler) RegisterRoutes(rg *gin.RouterGroup) {
	sessions := rg.Group("/cash-session")
	{
		sessions.GET("", h.Current)
		sessions.POST("/open", h.Open)
		sessions.POST("/close", h.Close)
	}
}

// Current returns the open session, or a null payload when the drawer
// is closed.
func (h *CashSessionHandler) Current(c *gin.Context) {
	session, err := h.service.Current(c.Request.Context())
	if err != nil {
		h.RespondError(c, err)
		return
	}
	h.Success(c, toCashSessionResponse(session))
}

// Open opens a cash session with the counted float
func (h *CashSessionHandler) Open(c *gin.Context) {
	var req OpenSessionRequest
	if !h.BindJSON(c, &req) {
		return
	}

	session, err := h.service.Open(c.Request.Context(), req.OpeningBalance)
	if err != nil {
		h.RespondError(c, err)
		return
	}
	h.Created(c, toCashSessionResponse(session))
}

// Close closes the open session and reports the drawer discrepancy
func (h *CashSessionHandler) Close(c *gin.Context) {
	var req CloseSessionRequest
	if !h.BindJSON(c, &req) {
		return
	}

	result, err := h.service.Close(c.Request.Context(), req.CountedBalance)
	if err != nil {
		h.RespondError(c, err)
		return
	}
	h.Success(c, toClosingResultResponse(result))
}
