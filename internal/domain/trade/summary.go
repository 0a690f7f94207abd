package trade

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderLine is the read projection of an order item
type OrderLine struct {
	ID            uuid.UUID       `json:"id"`
	ProductInfoID *uuid.UUID      `json:"product_info,omitempty"`
	ProductName   string          `json:"product"`
	Model         string          `json:"model,omitempty"`
	ShopID        uuid.UUID       `json:"shop_id"`
	ShopName      string          `json:"shop,omitempty"`
	Quantity      int             `json:"quantity"`
	Price         decimal.Decimal `json:"price"`
	Total         decimal.Decimal `json:"total"`
}

// NewOrderLine prices an item. live is the current listing price, nil when the listing is gone.
func NewOrderLine(item OrderItem, live *decimal.Decimal) OrderLine {
	price := item.EffectivePrice(live)
	return OrderLine{
		ID:            item.ID,
		ProductInfoID: item.ProductInfoID,
		ProductName:   item.ProductName,
		ShopID:        item.ShopID,
		Quantity:      item.Quantity,
		Price:         price,
		Total:         price.Mul(decimal.NewFromInt(int64(item.Quantity))),
	}
}

// OrderSummary is an order annotated with its lines and total cost
type OrderSummary struct {
	ID          uuid.UUID       `json:"id"`
	UserID      uuid.UUID       `json:"user_id"`
	Status      OrderStatus     `json:"status"`
	ContactID   *uuid.UUID      `json:"contact_id,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	SubmittedAt *time.Time      `json:"submitted_at,omitempty"`
	Lines       []OrderLine     `json:"ordered_items"`
	Total       decimal.Decimal `json:"total_sum"`
}

// NewOrderSummary builds a summary and sums its lines
func NewOrderSummary(order *Order, lines []OrderLine) OrderSummary {
	if lines == nil {
		lines = []OrderLine{}
	}
	return OrderSummary{
		ID:          order.ID,
		UserID:      order.UserID,
		Status:      order.Status,
		ContactID:   order.ContactID,
		CreatedAt:   order.CreatedAt,
		SubmittedAt: order.SubmittedAt,
		Lines:       lines,
		Total:       TotalOf(lines),
	}
}

// TotalOf sums quantity x price over lines
func TotalOf(lines []OrderLine) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Total)
	}
	return total
}
