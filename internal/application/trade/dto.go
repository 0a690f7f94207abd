package trade

import (
	"github.com/b2bprocure/backend/internal/domain/trade"
	"github.com/google/uuid"
)

// AddItemInput is one listing to put into the basket
type AddItemInput struct {
	ProductInfoID uuid.UUID `json:"product_info" binding:"required"`
	Quantity      int       `json:"quantity" binding:"required"`
}

// AddItemsRequest adds a batch of listings to the caller's basket
type AddItemsRequest struct {
	Items []AddItemInput `json:"items" binding:"required,min=1,dive"`
}

// QuantityInput overwrites the quantity of one basket item
type QuantityInput struct {
	ID       uuid.UUID `json:"id" binding:"required"`
	Quantity int       `json:"quantity" binding:"required"`
}

// UpdateItemsRequest changes quantities of basket items
type UpdateItemsRequest struct {
	Items []QuantityInput `json:"items" binding:"required,min=1,dive"`
}

// RemoveItemsRequest removes basket items by id
type RemoveItemsRequest struct {
	Items []uuid.UUID `json:"items" binding:"required,min=1"`
}

// SubmitOrderRequest places the basket with a delivery contact
type SubmitOrderRequest struct {
	ID      uuid.UUID `json:"id" binding:"required"`
	Contact uuid.UUID `json:"contact" binding:"required"`
}

// CancelOrderRequest cancels a placed order
type CancelOrderRequest struct {
	ID uuid.UUID `json:"id" binding:"required"`
}

// StatusUpdateRequest moves an order along the fulfilment state machine
type StatusUpdateRequest struct {
	ID     uuid.UUID `json:"id" binding:"required"`
	Status string    `json:"status" binding:"required,oneof=accepted assembled sent delivered canceled"`
}

// OrderListFilter is the paging accepted by order listings
type OrderListFilter struct {
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by" binding:"omitempty,oneof=created_at submitted_at status"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// OrderListResponse is a page of priced orders
type OrderListResponse struct {
	Items    []trade.OrderSummary `json:"items"`
	Total    int64                `json:"total"`
	Page     int                  `json:"page"`
	PageSize int                  `json:"page_size"`
}

// toQuantities folds repeated ids into one change; the last quantity wins
func toQuantities(items []QuantityInput) []trade.ItemQuantity {
	out := make([]trade.ItemQuantity, 0, len(items))
	index := make(map[uuid.UUID]int, len(items))
	for _, it := range items {
		if i, ok := index[it.ID]; ok {
			out[i].Quantity = it.Quantity
			continue
		}
		index[it.ID] = len(out)
		out = append(out, trade.ItemQuantity{ItemID: it.ID, Quantity: it.Quantity})
	}
	return out
}
