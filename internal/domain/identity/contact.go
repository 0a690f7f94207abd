package identity

import (
	"strings"
	"time"

	"github.com/b2bprocure/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Contact is a delivery contact a buyer attaches to a submitted order
type Contact struct {
	shared.BaseEntity
	UserID uuid.UUID `gorm:"type:uuid;not null;index"`
	City   string    `gorm:"size:50;not null"`
	Street string    `gorm:"size:100;not null"`
	House  string    `gorm:"size:15"`
	Phone  string    `gorm:"size:20;not null"`
}

// TableName returns the table name for GORM
func (Contact) TableName() string {
	return "contacts"
}

// NewContact creates a validated contact owned by userID
func NewContact(userID uuid.UUID, city, street, house, phone string) (*Contact, error) {
	if userID == uuid.Nil {
		return nil, shared.NewValidationError("Contact owner is required")
	}
	city = strings.TrimSpace(city)
	street = strings.TrimSpace(street)
	phone = strings.TrimSpace(phone)
	if city == "" {
		return nil, shared.NewValidationError("City cannot be empty")
	}
	if street == "" {
		return nil, shared.NewValidationError("Street cannot be empty")
	}
	if phone == "" {
		return nil, shared.NewValidationError("Phone cannot be empty")
	}
	if len(phone) > 20 {
		return nil, shared.NewValidationError("Phone cannot exceed 20 characters")
	}

	return &Contact{
		BaseEntity: shared.NewBaseEntity(),
		UserID:     userID,
		City:       city,
		Street:     street,
		House:      strings.TrimSpace(house),
		Phone:      phone,
	}, nil
}

// Update replaces the address fields
func (c *Contact) Update(city, street, house, phone string) error {
	updated, err := NewContact(c.UserID, city, street, house, phone)
	if err != nil {
		return err
	}
	c.City = updated.City
	c.Street = updated.Street
	c.House = updated.House
	c.Phone = updated.Phone
	c.Touch(time.Now())
	return nil
}
