package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	appcheckout "github.com/brecho/backend/internal/application/checkout"
	"github.com/brecho/backend/internal/interfaces/http/dto"
)

// LaneHandler exposes the checkout-lane operations
type LaneHandler struct {
	BaseHandler
	service *appcheckout.CheckoutService
}

// NewLaneHandler creates a lane handler
func NewLaneHandler(service *appcheckout.CheckoutService) *LaneHandler {
	return &LaneHandler{service: service}
}

// RegisterRoutes registers the lane routes
func (h *LaneHandler) RegisterRoutes(rg *gin.RouterGroup) {
	lanes := rg.Group("/lanes")
	{
		lanes.POST("", h.CreateLane)
		lanes.GET("/:laneId", h.GetLane)
		lanes.DELETE("/:laneId", h.CloseLane)

		lanes.POST("/:laneId/client", h.SelectClient)
		lanes.POST("/:laneId/bag", h.BindBag)
		lanes.POST("/:laneId/bag/status", h.SetBagStatus)

		lanes.POST("/:laneId/items", h.AddItem)
		lanes.POST("/:laneId/items/restock", h.Restock)
		lanes.DELETE("/:laneId/items/:index", h.RemoveItem)
		lanes.PUT("/:laneId/items/:index/price", h.SetItemPrice)

		lanes.PUT("/:laneId/discount", h.SetDiscount)
		lanes.PUT("/:laneId/freight", h.SetFreight)

		lanes.POST("/:laneId/tenders", h.AddTender)
		lanes.DELETE("/:laneId/tenders/:tenderId", h.RemoveTender)

		lanes.POST("/:laneId/finalize", h.Finalize)
	}
}

// CreateLane opens a new empty checkout lane
func (h *LaneHandler) CreateLane(c *gin.Context) {
	h.Created(c, h.service.CreateLane())
}

// GetLane returns the lane's full state
func (h *LaneHandler) GetLane(c *gin.Context) {
	id, err := laneID(c)
	if err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeBadRequest, "Invalid lane id")
		return
	}

	lane, err := h.service.GetLane(id)
	if err != nil {
		h.RespondError(c, err)
		return
	}
	h.Success(c, lane)
}

// CloseLane abandons the lane and discards its state
func (h *LaneHandler) CloseLane(c *gin.Context) {
	id, err := laneID(c)
	if err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeBadRequest, "Invalid lane id")
		return
	}

	if err := h.service.CloseLane(id); err != nil {
		h.RespondError(c, err)
		return
	}
	h.NoContent(c)
}

// SelectClient attaches a client to the lane and returns their open bags
// and barter balance.
func (h *LaneHandler) SelectClient(c *gin.Context) {
	id, err := laneID(c)
	if err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeBadRequest, "Invalid lane id")
		return
	}

	var req SelectClientRequest
	if !h.BindJSON(c, &req) {
		return
	}

	result, err := h.service.SelectClient(c.Request.Context(), id, req.ClientID)
	if err != nil {
		h.RespondError(c, err)
		return
	}
	h.Success(c, result)
}

// BindBag resolves the bag decision for the lane: resume an open bag,
// open a new one, or proceed without one.
func (h *LaneHandler) BindBag(c *gin.Context) {
	id, err := laneID(c)
	if err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeBadRequest, "Invalid lane id")
		return
	}

	var req appcheckout.BindBagRequest
	if !h.BindJSON(c, &req) {
		return
	}

	lane, err := h.service.BindBag(c.Request.Context(), id, req)
	if err != nil {
		h.RespondError(c, err)
		return
	}
	h.Success(c, lane)
}

// SetBagStatus transitions the bound draft bag
func (h *LaneHandler) SetBagStatus(c *gin.Context) {
	id, err := laneID(c)
	if err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeBadRequest, "Invalid lane id")
		return
	}

	var req appcheckout.SetBagStatusRequest
	if !h.BindJSON(c, &req) {
		return
	}

	bag, err := h.service.SetBagStatus(c.Request.Context(), id, req)
	if err != nil {
		h.RespondError(c, err)
		return
	}
	h.Success(c, bag)
}

// AddItem resolves a scanned or typed token into the cart. When the piece
// needs restocking first, the reply is a 409 carrying the restock prompt.
func (h *LaneHandler) AddItem(c *gin.Context) {
	id, err := laneID(c)
	if err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeBadRequest, "Invalid lane id")
		return
	}

	var req AddItemRequest
	if !h.BindJSON(c, &req) {
		return
	}

	result, err := h.service.AddItem(c.Request.Context(), id, req.Token)
	if err != nil {
		h.RespondError(c, err)
		return
	}
	if result.Status == appcheckout.AddItemNeedsRestock {
		c.JSON(http.StatusConflict, dto.NewSuccessResponse(result))
		return
	}
	h.Created(c, result)
}

// Restock confirms a restock for the lane's pending item and admits it
func (h *LaneHandler) Restock(c *gin.Context) {
	id, err := laneID(c)
	if err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeBadRequest, "Invalid lane id")
		return
	}

	var req appcheckout.RestockRequest
	if !h.BindJSON(c, &req) {
		return
	}

	result, err := h.service.Restock(c.Request.Context(), id, req)
	if err != nil {
		h.RespondError(c, err)
		return
	}
	h.Created(c, result)
}

// RemoveItem removes a cart line by index
func (h *LaneHandler) RemoveItem(c *gin.Context) {
	id, err := laneID(c)
	if err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeBadRequest, "Invalid lane id")
		return
	}

	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeBadRequest, "Invalid line index")
		return
	}

	lane, err := h.service.RemoveItem(c.Request.Context(), id, index)
	if err != nil {
		h.RespondError(c, err)
		return
	}
	h.Success(c, lane)
}

// SetItemPrice overrides a line price with the operator's raw input
func (h *LaneHandler) SetItemPrice(c *gin.Context) {
	id, err := laneID(c)
	if err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeBadRequest, "Invalid lane id")
		return
	}

	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeBadRequest, "Invalid line index")
		return
	}

	var req appcheckout.SetPriceRequest
	if !h.BindJSON(c, &req) {
		return
	}

	lane, err := h.service.SetItemPrice(c.Request.Context(), id, index, req.Price)
	if err != nil {
		h.RespondError(c, err)
		return
	}
	h.Success(c, lane)
}

// SetDiscount applies an order-level discount to the lane
func (h *LaneHandler) SetDiscount(c *gin.Context) {
	id, err := laneID(c)
	if err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeBadRequest, "Invalid lane id")
		return
	}

	var req appcheckout.SetDiscountRequest
	if !h.BindJSON(c, &req) {
		return
	}

	lane, err := h.service.SetDiscount(c.Request.Context(), id, req)
	if err != nil {
		h.RespondError(c, err)
		return
	}
	h.Success(c, lane)
}

// SetFreight applies a freight amount to the lane
func (h *LaneHandler) SetFreight(c *gin.Context) {
	id, err := laneID(c)
	if err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeBadRequest, "Invalid lane id")
		return
	}

	var req appcheckout.SetFreightRequest
	if !h.BindJSON(c, &req) {
		return
	}

	lane, err := h.service.SetFreight(c.Request.Context(), id, req.Freight)
	if err != nil {
		h.RespondError(c, err)
		return
	}
	h.Success(c, lane)
}

// AddTender proposes a partial payment. The outcome is a decision, not an
// error: a rejected tender still answers 200 with the reason.
func (h *LaneHandler) AddTender(c *gin.Context) {
	id, err := laneID(c)
	if err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeBadRequest, "Invalid lane id")
		return
	}

	var req appcheckout.AddTenderRequest
	if !h.BindJSON(c, &req) {
		return
	}

	decision, err := h.service.AddTender(c.Request.Context(), id, req)
	if err != nil {
		h.RespondError(c, err)
		return
	}
	h.Success(c, decision)
}

// RemoveTender voids a recorded tender by id
func (h *LaneHandler) RemoveTender(c *gin.Context) {
	id, err := laneID(c)
	if err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeBadRequest, "Invalid lane id")
		return
	}

	tenderID, err := strconv.Atoi(c.Param("tenderId"))
	if err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeBadRequest, "Invalid tender id")
		return
	}

	lane, err := h.service.RemoveTender(c.Request.Context(), id, tenderID)
	if err != nil {
		h.RespondError(c, err)
		return
	}
	h.Success(c, lane)
}

// Finalize submits the sale to the back office. A client-supplied
// Idempotency-Key header protects against double submission.
func (h *LaneHandler) Finalize(c *gin.Context) {
	id, err := laneID(c)
	if err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeBadRequest, "Invalid lane id")
		return
	}

	result, err := h.service.Finalize(c.Request.Context(), id, c.GetHeader("Idempotency-Key"))
	if err != nil {
		h.RespondError(c, err)
		return
	}
	h.Success(c, result)
}
