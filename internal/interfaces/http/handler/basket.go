package handler

import (
	tradeapp "github.com/b2bprocure/backend/internal/application/trade"
	"github.com/b2bprocure/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// BasketHandler serves the caller's basket
type BasketHandler struct {
	BaseHandler
	basket *tradeapp.BasketService
}

// NewBasketHandler creates a new BasketHandler
func NewBasketHandler(basket *tradeapp.BasketService) *BasketHandler {
	return &BasketHandler{basket: basket}
}

// Get returns the basket with its items and total
func (h *BasketHandler) Get(c *gin.Context) {
	summary, err := h.basket.Get(c.Request.Context(), principal(c))
	if err != nil {
		h.Fail(c, err)
		return
	}
	h.Data(c, summary)
}

// Add puts listings into the basket. The batch is applied entirely or not at all.
func (h *BasketHandler) Add(c *gin.Context) {
	var req tradeapp.AddItemsRequest
	if !h.bindJSON(c, &req) {
		return
	}
	created, err := h.basket.Add(c.Request.Context(), principal(c), req)
	if err != nil {
		h.Fail(c, err)
		return
	}
	h.OK(c, dto.OK().With("Created", created))
}

// Update overwrites item quantities; unknown ids are skipped
func (h *BasketHandler) Update(c *gin.Context) {
	var req tradeapp.UpdateItemsRequest
	if !h.bindJSON(c, &req) {
		return
	}
	updated, err := h.basket.Update(c.Request.Context(), principal(c), req)
	if err != nil {
		h.Fail(c, err)
		return
	}
	h.OK(c, dto.OK().With("Updated", updated))
}

// Remove deletes items; unknown ids are skipped
func (h *BasketHandler) Remove(c *gin.Context) {
	var req tradeapp.RemoveItemsRequest
	if !h.bindJSON(c, &req) {
		return
	}
	deleted, err := h.basket.Remove(c.Request.Context(), principal(c), req)
	if err != nil {
		h.Fail(c, err)
		return
	}
	h.OK(c, dto.OK().With("Deleted", deleted))
}
