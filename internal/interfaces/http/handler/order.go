package handler

import (
	tradeapp "github.com/b2bprocure/backend/internal/application/trade"
	"github.com/b2bprocure/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// OrderHandler serves the buyer's placed orders
type OrderHandler struct {
	BaseHandler
	orders *tradeapp.OrderService
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orders *tradeapp.OrderService) *OrderHandler {
	return &OrderHandler{orders: orders}
}

// List returns the caller's placed orders with totals
func (h *OrderHandler) List(c *gin.Context) {
	var filter tradeapp.OrderListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	list, err := h.orders.List(c.Request.Context(), principal(c), filter)
	if err != nil {
		h.Fail(c, err)
		return
	}
	h.Data(c, list)
}

// Submit places the basket with a delivery contact
func (h *OrderHandler) Submit(c *gin.Context) {
	var req tradeapp.SubmitOrderRequest
	if !h.bindJSON(c, &req) {
		return
	}
	if err := h.orders.Submit(c.Request.Context(), principal(c), req); err != nil {
		h.Fail(c, err)
		return
	}
	h.OK(c, dto.OK())
}

// Cancel cancels one of the caller's placed orders
func (h *OrderHandler) Cancel(c *gin.Context) {
	var req tradeapp.CancelOrderRequest
	if !h.bindJSON(c, &req) {
		return
	}
	if err := h.orders.Cancel(c.Request.Context(), principal(c), req); err != nil {
		h.Fail(c, err)
		return
	}
	h.OK(c, dto.OK())
}
