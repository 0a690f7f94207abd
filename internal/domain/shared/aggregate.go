package shared

import "time"

// BaseAggregateRoot is embedded by shops, orders and feed imports.
// Version backs the guarded UPDATEs of the repositories; events recorded
// here are published by the service once the transaction has committed.
type BaseAggregateRoot struct {
	BaseEntity
	Version int `gorm:"not null;default:1"`

	pending []DomainEvent `gorm:"-"`
}

// NewBaseAggregateRoot creates version 1 of a new aggregate
func NewBaseAggregateRoot() BaseAggregateRoot {
	return BaseAggregateRoot{BaseEntity: NewBaseEntity(), Version: 1}
}

// Bump marks a state change at t
func (a *BaseAggregateRoot) Bump(t time.Time) {
	a.Touch(t)
	a.Version++
}

// Record queues an event for publication after commit
func (a *BaseAggregateRoot) Record(event DomainEvent) {
	a.pending = append(a.pending, event)
}

// PendingEvents returns the queued events without removing them
func (a *BaseAggregateRoot) PendingEvents() []DomainEvent {
	return a.pending
}

// PullEvents returns the queued events and empties the queue
func (a *BaseAggregateRoot) PullEvents() []DomainEvent {
	events := a.pending
	a.pending = nil
	return events
}
