package trade

import (
	"fmt"
	"time"

	"github.com/b2bprocure/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// OrderStatus represents the lifecycle status of an order
type OrderStatus string

const (
	OrderStatusTemporary OrderStatus = "temporary"
	OrderStatusNew       OrderStatus = "new"
	OrderStatusAccepted  OrderStatus = "accepted"
	OrderStatusAssembled OrderStatus = "assembled"
	OrderStatusSent      OrderStatus = "sent"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCanceled  OrderStatus = "canceled"
)

// IsValid checks if the status is a valid OrderStatus
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusTemporary, OrderStatusNew, OrderStatusAccepted, OrderStatusAssembled,
		OrderStatusSent, OrderStatusDelivered, OrderStatusCanceled:
		return true
	}
	return false
}

// String returns the string representation of OrderStatus
func (s OrderStatus) String() string {
	return string(s)
}

// IsTerminal returns true for statuses that allow no further transition
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCanceled
}

// CanTransitionTo checks if the status can transition to the target status
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	if s.IsTerminal() || !target.IsValid() {
		return false
	}
	if target == OrderStatusCanceled {
		return true
	}
	switch s {
	case OrderStatusTemporary:
		return target == OrderStatusNew
	case OrderStatusNew:
		return target == OrderStatusAccepted
	case OrderStatusAccepted:
		return target == OrderStatusAssembled
	case OrderStatusAssembled:
		return target == OrderStatusSent
	case OrderStatusSent:
		return target == OrderStatusDelivered
	}
	return false
}

// Order is a buyer's order. While temporary it is the buyer's basket.
type Order struct {
	shared.BaseAggregateRoot
	UserID      uuid.UUID   `gorm:"type:uuid;not null;index"`
	Status      OrderStatus `gorm:"type:varchar(20);not null;default:'temporary';index"`
	ContactID   *uuid.UUID  `gorm:"type:uuid"`
	SubmittedAt *time.Time
}

// TableName returns the table name for GORM
func (Order) TableName() string {
	return "orders"
}

// NewBasket creates an empty temporary order for a user
func NewBasket(userID uuid.UUID) (*Order, error) {
	if userID == uuid.Nil {
		return nil, shared.NewValidationError("User is required")
	}
	return &Order{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		UserID:            userID,
		Status:            OrderStatusTemporary,
	}, nil
}

// IsBasket returns true while the order has not been submitted
func (o *Order) IsBasket() bool {
	return o.Status == OrderStatusTemporary
}

// IsOwnedBy returns true if userID placed the order
func (o *Order) IsOwnedBy(userID uuid.UUID) bool {
	return o.UserID == userID
}

// Submit places the basket with a delivery contact.
// The persisted transition must additionally be guarded by the store.
func (o *Order) Submit(contactID uuid.UUID) error {
	if contactID == uuid.Nil {
		return shared.NewValidationError("Contact is required")
	}
	if !o.IsBasket() {
		return shared.NewDomainError(shared.CodeInvalidState, "Order has already been submitted")
	}

	now := time.Now()
	o.ContactID = &contactID
	o.Status = OrderStatusNew
	o.SubmittedAt = &now
	o.Bump(now)

	o.Record(NewOrderPlacedEvent(o))
	return nil
}

// TransitionTo moves a placed order along the fulfilment state machine
func (o *Order) TransitionTo(target OrderStatus) error {
	if target == OrderStatusNew {
		return shared.NewDomainError(shared.CodeInvalidState, "Orders are placed by submitting the basket")
	}
	if !o.Status.CanTransitionTo(target) {
		return shared.NewDomainError(shared.CodeInvalidState,
			fmt.Sprintf("Cannot change order status from %s to %s", o.Status, target))
	}

	from := o.Status
	o.Status = target
	o.Bump(time.Now())

	o.Record(NewOrderStatusChangedEvent(o, from))
	return nil
}

// Cancel cancels a placed order
func (o *Order) Cancel() error {
	if o.IsBasket() {
		return shared.NewDomainError(shared.CodeInvalidState, "Basket cannot be canceled")
	}
	return o.TransitionTo(OrderStatusCanceled)
}
